package compliance

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"agritrace/internal/domain"
	"agritrace/pkg/config"
	pkgerrors "agritrace/pkg/errors"
	"agritrace/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntityLookup is the read-only persistence boundary the mapper depends on.
type EntityLookup interface {
	GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error)
	GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	GetTransformationEvents(ctx context.Context, poID uuid.UUID) ([]domain.TransformationEvent, error)
}

// MapOptions controls which computed blocks a report data model includes.
type MapOptions struct {
	IncludeRiskAssessment bool
	IncludeMassBalance    bool
	CustomData            map[string]interface{}
}

// Mapper converts raw entity records into the canonical report data model
// of one regulation family, computing risk and mass-balance figures on the
// way. It performs no writes.
type Mapper struct {
	lookup EntityLookup
	cfg    config.ComplianceConfig
	logger logger.Logger
}

func NewMapper(lookup EntityLookup, cfg config.ComplianceConfig, log logger.Logger) *Mapper {
	return &Mapper{
		lookup: lookup,
		cfg:    cfg,
		logger: log,
	}
}

// MapToEUDR builds the deforestation due-diligence data model for one
// purchase order.
func (m *Mapper) MapToEUDR(ctx context.Context, poID uuid.UUID, opts MapOptions) (*domain.EUDRReportData, error) {
	po, buyer, seller, product, err := m.fetchEntities(ctx, poID)
	if err != nil {
		return nil, err
	}

	steps, err := m.buildSupplyChain(po, buyer, seller)
	if err != nil {
		return nil, err
	}

	hsCode, err := ValidateHSCode(product.HSCode)
	if err != nil {
		return nil, err
	}

	data := &domain.EUDRReportData{
		PONumber: po.PONumber,
		Operator: domain.OperatorInfo{
			Name:               buyer.Name,
			RegistrationNumber: buyer.RegistrationNumber,
			Address:            buyer.Address,
			Country:            buyer.Country,
		},
		Product: domain.ProductInfo{
			HSCode:      hsCode,
			Description: product.Description,
			Quantity:    po.Quantity,
			Unit:        po.Unit,
		},
		SupplyChain: steps,
		TracePath:   tracePath(steps),
		TraceDepth:  len(steps),
		CustomData:  opts.CustomData,
		GeneratedAt: time.Now().UTC(),
	}

	if opts.IncludeRiskAssessment {
		risk, err := m.ComputeRiskAssessment(steps)
		if err != nil {
			return nil, err
		}
		data.RiskAssessment = risk
	}

	return data, nil
}

// MapToRSPO builds the sustainability certification data model for one
// purchase order.
func (m *Mapper) MapToRSPO(ctx context.Context, poID uuid.UUID, opts MapOptions) (*domain.RSPOReportData, error) {
	po, buyer, seller, product, err := m.fetchEntities(ctx, poID)
	if err != nil {
		return nil, err
	}

	steps, err := m.buildSupplyChain(po, buyer, seller)
	if err != nil {
		return nil, err
	}

	hsCode, err := ValidateHSCode(product.HSCode)
	if err != nil {
		return nil, err
	}

	data := &domain.RSPOReportData{
		PONumber: po.PONumber,
		Certification: domain.CertificationInfo{
			CertificateNumber: seller.CertificateNumber,
			ValidUntil:        seller.CertValidUntil,
			CertificationType: seller.CertificationType,
		},
		Product: domain.ProductInfo{
			HSCode:      hsCode,
			Description: product.Description,
			Quantity:    po.Quantity,
			Unit:        po.Unit,
		},
		SupplyChain: steps,
		Sustainability: domain.SustainabilityInfo{
			GHGEmissions:      product.GHGEmissions,
			WaterUsage:        product.WaterUsage,
			EnergyConsumption: product.EnergyConsumption,
		},
		TracePath:   tracePath(steps),
		TraceDepth:  len(steps),
		CustomData:  opts.CustomData,
		GeneratedAt: time.Now().UTC(),
	}

	if opts.IncludeMassBalance {
		balance, err := m.ComputeMassBalance(ctx, poID)
		if err != nil {
			return nil, err
		}
		data.MassBalance = balance
	}

	return data, nil
}

func (m *Mapper) fetchEntities(ctx context.Context, poID uuid.UUID) (*domain.PurchaseOrder, *domain.Company, *domain.Company, *domain.Product, error) {
	po, err := m.lookup.GetPurchaseOrder(ctx, poID)
	if err != nil {
		return nil, nil, nil, nil, lookupError(err, KindPurchaseOrderNotFound, pkgerrors.ErrPurchaseOrderNotFound, "fetch purchase order")
	}

	buyer, err := m.lookup.GetCompany(ctx, po.BuyerID)
	if err != nil {
		return nil, nil, nil, nil, lookupError(err, KindCompanyNotFound, pkgerrors.ErrCompanyNotFound, "fetch buyer company")
	}

	seller, err := m.lookup.GetCompany(ctx, po.SellerID)
	if err != nil {
		return nil, nil, nil, nil, lookupError(err, KindCompanyNotFound, pkgerrors.ErrCompanyNotFound, "fetch seller company")
	}

	product, err := m.lookup.GetProduct(ctx, po.ProductID)
	if err != nil {
		return nil, nil, nil, nil, lookupError(err, KindProductNotFound, pkgerrors.ErrProductNotFound, "fetch product")
	}

	return po, buyer, seller, product, nil
}

// lookupError maps a repository sentinel to its not-found kind and wraps
// anything else as an infrastructure failure.
func lookupError(err error, kind Kind, sentinel error, op string) error {
	if pkgerrors.Is(err, sentinel) {
		return wrapError(kind, err, op)
	}
	return wrapData(err, op)
}

// buildSupplyChain assembles the ordered participant list. An explicitly
// recorded chain on the purchase order takes precedence; otherwise the
// seller and buyer form a two-step path.
func (m *Mapper) buildSupplyChain(po *domain.PurchaseOrder, buyer, seller *domain.Company) ([]domain.SupplyChainStep, error) {
	var steps []domain.SupplyChainStep

	if len(po.SupplyChain) > 0 {
		steps = make([]domain.SupplyChainStep, len(po.SupplyChain))
		copy(steps, po.SupplyChain)
		sort.SliceStable(steps, func(i, j int) bool {
			return steps[i].StepOrder < steps[j].StepOrder
		})
		// Recorded chains may have gaps; re-number to a dense 1-based order.
		for i := range steps {
			steps[i].StepOrder = i + 1
		}
	} else {
		steps = []domain.SupplyChainStep{
			companyStep(seller, 1),
			companyStep(buyer, 2),
		}
	}

	if _, err := ValidateSupplyChainDepth(len(steps), m.cfg.MaxSupplyChainDepth); err != nil {
		return nil, err
	}

	return steps, nil
}

func companyStep(c *domain.Company, order int) domain.SupplyChainStep {
	step := domain.SupplyChainStep{
		CompanyName: c.Name,
		CompanyType: c.CompanyType,
		StepOrder:   order,
	}
	switch {
	case c.Address != nil:
		step.Location = *c.Address
	case c.Country != nil:
		step.Location = *c.Country
	}
	if c.Latitude != nil && c.Longitude != nil {
		step.Coordinates = &domain.Coordinates{Lat: *c.Latitude, Lng: *c.Longitude}
	}
	return step
}

// ComputeRiskAssessment scores a supply chain. The model is additive and
// order-independent: each recognized participant role contributes a fixed
// risk weight and traceability bonus, both capped at the configured
// ceiling, and the compliance score is the remaining headroom below it.
// Adding verified steps never lowers traceability.
func (m *Mapper) ComputeRiskAssessment(steps []domain.SupplyChainStep) (*domain.RiskAssessment, error) {
	deforestationRisk := 0.0
	traceabilityScore := 0.0
	riskFactors := make(map[string]float64)

	if hasStepOfType(steps, domain.CompanyTypePlantationGrower) {
		deforestationRisk += m.cfg.PlantationRiskFactor
		traceabilityScore += m.cfg.PlantationTraceabilityBonus
		riskFactors[string(domain.CompanyTypePlantationGrower)] = m.cfg.PlantationRiskFactor
	}

	if hasStepOfType(steps, domain.CompanyTypeMillProcessor) {
		deforestationRisk += m.cfg.MillRiskFactor
		traceabilityScore += m.cfg.MillTraceabilityBonus
		riskFactors[string(domain.CompanyTypeMillProcessor)] = m.cfg.MillRiskFactor
	}

	depth, err := ValidateSupplyChainDepth(len(steps), m.cfg.MaxSupplyChainDepth)
	if err != nil {
		return nil, wrapError(KindRiskAssessment, err, "risk assessment")
	}
	if depth > 2 {
		traceabilityScore += m.cfg.DepthTraceabilityBonus
	} else {
		deforestationRisk += m.cfg.TraceDepthRiskFactor
		riskFactors["trace_depth"] = m.cfg.TraceDepthRiskFactor
	}

	deforestationRisk = clamp(deforestationRisk, 0, m.cfg.MaxRiskScore)
	traceabilityScore = clamp(traceabilityScore, 0, m.cfg.MaxRiskScore)
	complianceScore := m.cfg.MaxRiskScore - deforestationRisk

	for field, score := range map[string]float64{
		"deforestation_risk": deforestationRisk,
		"compliance_score":   complianceScore,
		"traceability_score": traceabilityScore,
	} {
		if _, err := ValidateRiskScore(score, field); err != nil {
			return nil, wrapError(KindRiskAssessment, err, "risk assessment")
		}
	}

	return &domain.RiskAssessment{
		DeforestationRisk: deforestationRisk,
		ComplianceScore:   complianceScore,
		TraceabilityScore: traceabilityScore,
		RiskFactors:       riskFactors,
	}, nil
}

// ComputeMassBalance reconciles input and output quantities across all
// transformation events of the purchase order. No events is a legitimate
// "not yet processed" state that yields zero percentages, not an error.
func (m *Mapper) ComputeMassBalance(ctx context.Context, poID uuid.UUID) (*domain.MassBalanceResult, error) {
	events, err := m.lookup.GetTransformationEvents(ctx, poID)
	if err != nil {
		return nil, wrapData(err, "fetch transformation events")
	}

	totalInput := decimal.Zero
	totalOutput := decimal.Zero
	for _, event := range events {
		input, err := ValidateQuantity(event.InputQuantity, "input_quantity")
		if err != nil {
			return nil, wrapError(KindMassBalance, err, fmt.Sprintf("event %s", event.ID))
		}
		output, err := ValidateQuantity(event.OutputQuantity, "output_quantity")
		if err != nil {
			return nil, wrapError(KindMassBalance, err, fmt.Sprintf("event %s", event.ID))
		}
		totalInput = totalInput.Add(input)
		totalOutput = totalOutput.Add(output)
	}

	yieldPct := decimal.Zero
	wastePct := decimal.Zero
	if totalInput.IsPositive() {
		yieldPct = totalOutput.Div(totalInput).Mul(percentHundred)
		wastePct = percentHundred.Sub(yieldPct)

		if yieldPct, err = ValidateYieldPercentage(yieldPct); err != nil {
			return nil, wrapError(KindMassBalance, err, "mass balance")
		}
		if wastePct, err = ValidateWastePercentage(wastePct); err != nil {
			return nil, wrapError(KindMassBalance, err, "mass balance")
		}
		if err = ValidateYieldWasteSum(yieldPct, wastePct); err != nil {
			return nil, wrapError(KindMassBalance, err, "mass balance")
		}
	}

	return &domain.MassBalanceResult{
		InputQuantity:   totalInput,
		OutputQuantity:  totalOutput,
		YieldPercentage: yieldPct,
		WastePercentage: wastePct,
	}, nil
}

func hasStepOfType(steps []domain.SupplyChainStep, companyType domain.CompanyType) bool {
	for _, step := range steps {
		if step.CompanyType == companyType {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// tracePath renders the ordered chain as a human-readable string, e.g.
// "Tropico Estates (plantation_grower) -> PalmCo Mill (mill_processor)".
func tracePath(steps []domain.SupplyChainStep) string {
	parts := make([]string, len(steps))
	for i, step := range steps {
		parts[i] = fmt.Sprintf("%s (%s)", step.CompanyName, step.CompanyType)
	}
	return strings.Join(parts, " -> ")
}
