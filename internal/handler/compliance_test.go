package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"agritrace/internal/compliance"
	"agritrace/internal/domain"
	"agritrace/pkg/config"
	pkgerrors "agritrace/pkg/errors"
	"agritrace/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory collaborator stubs. The handler tests exercise the full engine
// behind the HTTP boundary; only persistence is faked.

type stubLookup struct {
	po      *domain.PurchaseOrder
	buyer   *domain.Company
	seller  *domain.Company
	product *domain.Product
}

func (s *stubLookup) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	if s.po != nil && s.po.ID == id {
		return s.po, nil
	}
	return nil, pkgerrors.ErrPurchaseOrderNotFound
}

func (s *stubLookup) GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	switch {
	case s.buyer != nil && s.buyer.ID == id:
		return s.buyer, nil
	case s.seller != nil && s.seller.ID == id:
		return s.seller, nil
	}
	return nil, pkgerrors.ErrCompanyNotFound
}

func (s *stubLookup) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if s.product != nil && s.product.ID == id {
		return s.product, nil
	}
	return nil, pkgerrors.ErrProductNotFound
}

func (s *stubLookup) GetTransformationEvents(ctx context.Context, poID uuid.UUID) ([]domain.TransformationEvent, error) {
	return nil, nil
}

type stubTemplates struct{}

func (s *stubTemplates) GetActiveTemplate(ctx context.Context, regulationType domain.RegulationType) (*domain.ComplianceTemplate, error) {
	return nil, pkgerrors.ErrTemplateNotFound
}

func (s *stubTemplates) CreateTemplate(ctx context.Context, regulationType domain.RegulationType, content string) (*domain.ComplianceTemplate, error) {
	return &domain.ComplianceTemplate{
		ID:              uuid.New(),
		RegulationType:  regulationType,
		Version:         1,
		TemplateContent: content,
		IsActive:        true,
	}, nil
}

type stubReports struct {
	saved *domain.ComplianceReport
}

func (s *stubReports) Save(ctx context.Context, report *domain.ComplianceReport) (*domain.ComplianceReport, error) {
	s.saved = report
	return report, nil
}

func (s *stubReports) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplianceReport, error) {
	if s.saved != nil && s.saved.ID == id {
		return s.saved, nil
	}
	return nil, pkgerrors.ErrReportNotFound
}

func (s *stubReports) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]domain.ComplianceReport, error) {
	if s.saved != nil && s.saved.CompanyID == companyID {
		return []domain.ComplianceReport{*s.saved}, nil
	}
	return []domain.ComplianceReport{}, nil
}

func newStubLookup() *stubLookup {
	buyerID := uuid.New()
	sellerID := uuid.New()
	productID := uuid.New()

	return &stubLookup{
		po: &domain.PurchaseOrder{
			ID:        uuid.New(),
			PONumber:  "PO-2026-0042",
			BuyerID:   buyerID,
			SellerID:  sellerID,
			ProductID: productID,
			Quantity:  decimal.RequireFromString("500"),
			Unit:      "MT",
			Status:    domain.POStatusConfirmed,
		},
		buyer: &domain.Company{
			ID:          buyerID,
			Name:        "Acme Co",
			CompanyType: domain.CompanyTypeTrader,
		},
		seller: &domain.Company{
			ID:          sellerID,
			Name:        "PalmCo Mill",
			CompanyType: domain.CompanyTypeMillProcessor,
		},
		product: &domain.Product{
			ID:          productID,
			Name:        "Crude Palm Oil",
			HSCode:      "1511.10.00",
			Description: "Crude palm oil",
			Unit:        "MT",
		},
	}
}

func newTestHandler(lookup compliance.EntityLookup, reports compliance.ReportRepository) *ComplianceHandler {
	cfg := config.ComplianceConfig{
		PlantationRiskFactor:        0.3,
		PlantationTraceabilityBonus: 0.4,
		MillRiskFactor:              0.2,
		MillTraceabilityBonus:       0.3,
		DepthTraceabilityBonus:      0.3,
		TraceDepthRiskFactor:        0.1,
		MaxRiskScore:                1.0,
		MaxSupplyChainDepth:         20,
		MaxReportSize:               10 << 20,
		TemplateCacheSize:           128,
		SanitizeTemplateData:        true,
	}
	log := logger.NewNop()
	templates := &stubTemplates{}
	mapper := compliance.NewMapper(lookup, cfg, log)
	renderer := compliance.NewRenderer(templates, compliance.NewSanitizer(true), cfg, log)
	service := compliance.NewService(mapper, renderer, lookup, templates, reports, log)
	return NewComplianceHandler(service, log)
}

func newTestRouter(h *ComplianceHandler) *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/compliance/reports", h.GenerateReport).Methods(http.MethodPost)
	router.HandleFunc("/compliance/reports", h.ListReports).Methods(http.MethodGet)
	router.HandleFunc("/compliance/reports/{id}/download", h.DownloadReport).Methods(http.MethodGet)
	return router
}

func postReport(t *testing.T, router *mux.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/compliance/reports", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGenerateReportEndpoint(t *testing.T) {
	lookup := newStubLookup()
	reports := &stubReports{}
	router := newTestRouter(newTestHandler(lookup, reports))

	body := `{"po_id":"` + lookup.po.ID.String() + `","regulation_type":"EUDR","include_risk_assessment":true}`
	rec := postReport(t, router, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp compliance.GenerateReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, lookup.po.ID, resp.POID)
	assert.Equal(t, domain.ReportStatusGenerated, resp.Status)
	assert.Equal(t, "/compliance/reports/"+resp.ReportID.String()+"/download", resp.DownloadURL)

	require.NotNil(t, reports.saved)
	assert.Equal(t, lookup.buyer.ID, reports.saved.CompanyID)
}

func TestGenerateReportEndpointInvalidBody(t *testing.T) {
	router := newTestRouter(newTestHandler(newStubLookup(), &stubReports{}))

	rec := postReport(t, router, `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateReportEndpointValidationFailure(t *testing.T) {
	reports := &stubReports{}
	router := newTestRouter(newTestHandler(newStubLookup(), reports))

	rec := postReport(t, router, `{"po_id":"`+uuid.New().String()+`","regulation_type":"XYZ"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "fields")
	assert.Nil(t, reports.saved)
}

func TestGenerateReportEndpointPurchaseOrderNotFound(t *testing.T) {
	router := newTestRouter(newTestHandler(newStubLookup(), &stubReports{}))

	rec := postReport(t, router, `{"po_id":"`+uuid.New().String()+`","regulation_type":"EUDR"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), string(compliance.KindPurchaseOrderNotFound))
}

func TestDownloadReportEndpoint(t *testing.T) {
	lookup := newStubLookup()
	reports := &stubReports{}
	router := newTestRouter(newTestHandler(lookup, reports))

	rec := postReport(t, router, `{"po_id":"`+lookup.po.ID.String()+`","regulation_type":"EUDR"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp compliance.GenerateReportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	req := httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil)
	dl := httptest.NewRecorder()
	router.ServeHTTP(dl, req)

	require.Equal(t, http.StatusOK, dl.Code)
	assert.True(t, strings.HasPrefix(dl.Header().Get("Content-Disposition"), "attachment;"))
	assert.Contains(t, dl.Body.String(), "EU DEFORESTATION REGULATION")
	assert.Contains(t, dl.Body.String(), "Acme Co")
}

func TestDownloadReportEndpointNotFound(t *testing.T) {
	router := newTestRouter(newTestHandler(newStubLookup(), &stubReports{}))

	req := httptest.NewRequest(http.MethodGet, "/compliance/reports/"+uuid.New().String()+"/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListReportsEndpoint(t *testing.T) {
	lookup := newStubLookup()
	reports := &stubReports{}
	router := newTestRouter(newTestHandler(lookup, reports))

	rec := postReport(t, router, `{"po_id":"`+lookup.po.ID.String()+`","regulation_type":"EUDR"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/compliance/reports?company_id="+lookup.buyer.ID.String(), nil)
	list := httptest.NewRecorder()
	router.ServeHTTP(list, req)

	require.Equal(t, http.StatusOK, list.Code)

	var resp struct {
		Reports []domain.ComplianceReport `json:"reports"`
		Limit   int                       `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &resp))
	assert.Len(t, resp.Reports, 1)
	assert.Equal(t, 20, resp.Limit)
}

func TestListReportsEndpointMissingCompany(t *testing.T) {
	router := newTestRouter(newTestHandler(newStubLookup(), &stubReports{}))

	req := httptest.NewRequest(http.MethodGet, "/compliance/reports", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
