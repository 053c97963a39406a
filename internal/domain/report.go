package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Coordinates is a geolocation point attached to a supply-chain step
type Coordinates struct {
	Lat decimal.Decimal `json:"lat"`
	Lng decimal.Decimal `json:"lng"`
}

// SupplyChainStep is one participant on the path between origin and the
// purchase order under report. StepOrder is 1-based and strictly increasing
// along the path.
type SupplyChainStep struct {
	CompanyName string       `json:"company_name"`
	CompanyType CompanyType  `json:"company_type"`
	Location    string       `json:"location,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	StepOrder   int          `json:"step_order"`
}

// RiskAssessment carries the computed deforestation risk scores. All three
// scores stay within [0, maxRiskScore]; ComplianceScore is always
// maxRiskScore - DeforestationRisk after capping.
type RiskAssessment struct {
	DeforestationRisk float64            `json:"deforestation_risk"`
	ComplianceScore   float64            `json:"compliance_score"`
	TraceabilityScore float64            `json:"traceability_score"`
	RiskFactors       map[string]float64 `json:"risk_factors,omitempty"`
}

// MassBalanceResult reconciles input and output quantities across the
// transformation events of a purchase order. YieldPercentage plus
// WastePercentage never exceeds 100.
type MassBalanceResult struct {
	InputQuantity   decimal.Decimal `json:"input_quantity"`
	OutputQuantity  decimal.Decimal `json:"output_quantity"`
	YieldPercentage decimal.Decimal `json:"yield_percentage"`
	WastePercentage decimal.Decimal `json:"waste_percentage"`
}

// OperatorInfo describes the operator (buyer) of an EUDR declaration
type OperatorInfo struct {
	Name               string  `json:"name"`
	RegistrationNumber *string `json:"registration_number,omitempty"`
	Address            *string `json:"address,omitempty"`
	Country            *string `json:"country,omitempty"`
}

// ProductInfo describes the product under report
type ProductInfo struct {
	HSCode      string          `json:"hs_code"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// CertificationInfo describes the seller's sustainability certification
type CertificationInfo struct {
	CertificateNumber *string    `json:"certificate_number,omitempty"`
	ValidUntil        *time.Time `json:"valid_until,omitempty"`
	CertificationType *string    `json:"certification_type,omitempty"`
}

// SustainabilityInfo carries optional product sustainability metrics
type SustainabilityInfo struct {
	GHGEmissions      *decimal.Decimal `json:"ghg_emissions,omitempty"`
	WaterUsage        *decimal.Decimal `json:"water_usage,omitempty"`
	EnergyConsumption *decimal.Decimal `json:"energy_consumption,omitempty"`
}

// EUDRReportData is the canonical data model for a deforestation
// due-diligence report, computed per request and never persisted directly.
type EUDRReportData struct {
	PONumber       string                 `json:"po_number"`
	Operator       OperatorInfo           `json:"operator"`
	Product        ProductInfo            `json:"product"`
	SupplyChain    []SupplyChainStep      `json:"supply_chain"`
	RiskAssessment *RiskAssessment        `json:"risk_assessment,omitempty"`
	TracePath      string                 `json:"trace_path"`
	TraceDepth     int                    `json:"trace_depth"`
	CustomData     map[string]interface{} `json:"custom_data,omitempty"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

// RSPOReportData is the canonical data model for a sustainability
// certification report, computed per request and never persisted directly.
type RSPOReportData struct {
	PONumber       string                 `json:"po_number"`
	Certification  CertificationInfo      `json:"certification"`
	Product        ProductInfo            `json:"product"`
	SupplyChain    []SupplyChainStep      `json:"supply_chain"`
	MassBalance    *MassBalanceResult     `json:"mass_balance,omitempty"`
	Sustainability SustainabilityInfo     `json:"sustainability"`
	TracePath      string                 `json:"trace_path"`
	TraceDepth     int                    `json:"trace_depth"`
	CustomData     map[string]interface{} `json:"custom_data,omitempty"`
	GeneratedAt    time.Time              `json:"generated_at"`
}
