package compliance

import (
	"context"
	"fmt"
	"time"

	"agritrace/internal/domain"
	pkgerrors "agritrace/pkg/errors"
	"agritrace/pkg/logger"
	"agritrace/pkg/validator"

	"github.com/google/uuid"
)

// ReportRepository is the write boundary for generated reports. Save is
// transactional: on failure nothing is committed.
type ReportRepository interface {
	Save(ctx context.Context, report *domain.ComplianceReport) (*domain.ComplianceReport, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplianceReport, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]domain.ComplianceReport, error)
}

// GenerateReportRequest is the transport-agnostic input contract.
type GenerateReportRequest struct {
	POID                  uuid.UUID              `json:"po_id" validate:"required"`
	RegulationType        domain.RegulationType  `json:"regulation_type" validate:"required,regulation_type"`
	IncludeRiskAssessment bool                   `json:"include_risk_assessment"`
	IncludeMassBalance    bool                   `json:"include_mass_balance"`
	CustomData            map[string]interface{} `json:"custom_data,omitempty"`
}

// GenerateReportResponse describes one successfully generated report.
type GenerateReportResponse struct {
	ReportID       uuid.UUID             `json:"report_id"`
	POID           uuid.UUID             `json:"po_id"`
	RegulationType domain.RegulationType `json:"regulation_type"`
	GeneratedAt    time.Time             `json:"generated_at"`
	FileSize       int                   `json:"file_size"`
	DownloadURL    string                `json:"download_url"`
	Status         domain.ReportStatus   `json:"status"`
}

// Request processing states, used for failure diagnostics.
const (
	stateValidating = "VALIDATING"
	stateMapping    = "MAPPING"
	stateRendering  = "RENDERING"
	statePersisting = "PERSISTING"
)

// Service is the report generation façade. Each call runs the request
// through validation, mapping, rendering and persistence; no state is
// retried automatically and no partial report row survives a failure.
type Service struct {
	mapper    *Mapper
	renderer  *Renderer
	lookup    EntityLookup
	templates TemplateStore
	reports   ReportRepository
	validate  *validator.Validator
	logger    logger.Logger
}

func NewService(
	mapper *Mapper,
	renderer *Renderer,
	lookup EntityLookup,
	templates TemplateStore,
	reports ReportRepository,
	log logger.Logger,
) *Service {
	return &Service{
		mapper:    mapper,
		renderer:  renderer,
		lookup:    lookup,
		templates: templates,
		reports:   reports,
		validate:  validator.New(),
		logger:    log,
	}
}

// GenerateReport runs one request to completion.
func (s *Service) GenerateReport(ctx context.Context, req *GenerateReportRequest) (*GenerateReportResponse, error) {
	// VALIDATING
	if req.POID == uuid.Nil {
		return nil, s.fail(req, stateValidating,
			newError(KindComplianceData, "po_id is required"))
	}
	if !req.RegulationType.IsSupported() {
		return nil, s.fail(req, stateValidating,
			newError(KindComplianceData, fmt.Sprintf("unsupported regulation type %q", req.RegulationType)))
	}
	if err := s.validate.Validate(req); err != nil {
		return nil, s.fail(req, stateValidating, wrapError(KindComplianceData, err, "invalid request"))
	}

	// MAPPING
	opts := MapOptions{
		IncludeRiskAssessment: req.IncludeRiskAssessment,
		IncludeMassBalance:    req.IncludeMassBalance,
		CustomData:            req.CustomData,
	}

	var (
		data        interface{}
		generatedAt time.Time
	)
	switch req.RegulationType {
	case domain.RegulationEUDR:
		mapped, err := s.mapper.MapToEUDR(ctx, req.POID, opts)
		if err != nil {
			return nil, s.fail(req, stateMapping, err)
		}
		data, generatedAt = mapped, mapped.GeneratedAt
	case domain.RegulationRSPO:
		mapped, err := s.mapper.MapToRSPO(ctx, req.POID, opts)
		if err != nil {
			return nil, s.fail(req, stateMapping, err)
		}
		data, generatedAt = mapped, mapped.GeneratedAt
	}

	// RENDERING
	document, err := s.renderer.Render(ctx, req.RegulationType, data)
	if err != nil {
		return nil, s.fail(req, stateRendering, err)
	}

	// PERSISTING
	templateID, err := s.resolveTemplateID(ctx, req.RegulationType)
	if err != nil {
		return nil, s.fail(req, statePersisting, err)
	}

	po, err := s.lookup.GetPurchaseOrder(ctx, req.POID)
	if err != nil {
		return nil, s.fail(req, statePersisting, wrapData(err, "resolve report owner"))
	}

	report := &domain.ComplianceReport{
		ID:              uuid.New(),
		CompanyID:       po.BuyerID,
		TemplateID:      templateID,
		PurchaseOrderID: req.POID,
		RegulationType:  req.RegulationType,
		ReportData:      document,
		FileSize:        len(document),
		Status:          domain.ReportStatusGenerated,
		GeneratedAt:     generatedAt,
	}

	saved, err := s.reports.Save(ctx, report)
	if err != nil {
		return nil, s.fail(req, statePersisting, wrapData(err, "persist compliance report"))
	}

	// DONE
	s.logger.Info("compliance report generated", map[string]interface{}{
		"report_id":       saved.ID.String(),
		"po_id":           req.POID.String(),
		"regulation_type": string(req.RegulationType),
		"file_size":       saved.FileSize,
	})

	return &GenerateReportResponse{
		ReportID:       saved.ID,
		POID:           saved.PurchaseOrderID,
		RegulationType: saved.RegulationType,
		GeneratedAt:    saved.GeneratedAt,
		FileSize:       saved.FileSize,
		DownloadURL:    fmt.Sprintf("/compliance/reports/%s/download", saved.ID),
		Status:         saved.Status,
	}, nil
}

// GetReport returns one stored report for download.
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*domain.ComplianceReport, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports returns the stored reports of one company.
func (s *Service) ListReports(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]domain.ComplianceReport, error) {
	return s.reports.ListByCompany(ctx, companyID, limit, offset)
}

// ClearTemplateCache invalidates the renderer's parsed-template cache,
// e.g. after activating a new template version.
func (s *Service) ClearTemplateCache() {
	s.renderer.ClearCache()
}

// resolveTemplateID finds the active template row for the regulation type,
// lazily persisting the built-in default on first use. The store's upsert
// guarantees concurrent first use commits exactly one active row.
func (s *Service) resolveTemplateID(ctx context.Context, regulationType domain.RegulationType) (uuid.UUID, error) {
	tmpl, err := s.templates.GetActiveTemplate(ctx, regulationType)
	if err == nil {
		return tmpl.ID, nil
	}
	if !pkgerrors.Is(err, pkgerrors.ErrTemplateNotFound) {
		return uuid.Nil, wrapData(err, "fetch active template")
	}

	content, ok := s.renderer.DefaultTemplateContent(regulationType)
	if !ok {
		return uuid.Nil, newError(KindTemplateNotFound,
			fmt.Sprintf("no template for regulation type %q", regulationType))
	}

	created, err := s.templates.CreateTemplate(ctx, regulationType, content)
	if err != nil {
		return uuid.Nil, wrapData(err, "create default template")
	}
	return created.ID, nil
}

// fail logs the failure with request context and the state it happened in,
// then propagates the error unchanged.
func (s *Service) fail(req *GenerateReportRequest, state string, err error) error {
	fields := map[string]interface{}{
		"state":           state,
		"po_id":           req.POID.String(),
		"regulation_type": string(req.RegulationType),
		"error_kind":      string(KindOf(err)),
		"error":           err.Error(),
	}
	if IsClientError(err) {
		s.logger.Warn("report generation rejected", fields)
	} else {
		s.logger.Error("report generation failed", fields)
	}
	return err
}
