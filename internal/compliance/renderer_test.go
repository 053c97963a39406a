package compliance

import (
	"context"
	"testing"
	"text/template"
	"time"

	"agritrace/internal/domain"
	pkgerrors "agritrace/pkg/errors"
	"agritrace/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockTemplateStore struct {
	mock.Mock
}

func (m *MockTemplateStore) GetActiveTemplate(ctx context.Context, regulationType domain.RegulationType) (*domain.ComplianceTemplate, error) {
	args := m.Called(ctx, regulationType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComplianceTemplate), args.Error(1)
}

func (m *MockTemplateStore) CreateTemplate(ctx context.Context, regulationType domain.RegulationType, content string) (*domain.ComplianceTemplate, error) {
	args := m.Called(ctx, regulationType, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComplianceTemplate), args.Error(1)
}

// --- Fixtures ---

func eudrData(operatorName string) *domain.EUDRReportData {
	return &domain.EUDRReportData{
		PONumber: "PO-2026-0042",
		Operator: domain.OperatorInfo{Name: operatorName},
		Product: domain.ProductInfo{
			HSCode:      "1511.10.00",
			Description: "Crude palm oil",
			Quantity:    decimal.RequireFromString("500"),
			Unit:        "MT",
		},
		SupplyChain: []domain.SupplyChainStep{
			{CompanyName: "PalmCo Mill", CompanyType: domain.CompanyTypeMillProcessor, StepOrder: 1},
			{CompanyName: operatorName, CompanyType: domain.CompanyTypeTrader, StepOrder: 2},
		},
		RiskAssessment: &domain.RiskAssessment{
			DeforestationRisk: 0.3,
			ComplianceScore:   0.7,
			TraceabilityScore: 0.3,
		},
		TracePath:   "PalmCo Mill (mill_processor) -> " + operatorName + " (trader)",
		TraceDepth:  2,
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func newTestRenderer(store TemplateStore, sanitize bool) *Renderer {
	cfg := testComplianceConfig()
	cfg.SanitizeTemplateData = sanitize
	return NewRenderer(store, NewSanitizer(sanitize), cfg, logger.NewNop())
}

// --- Tests ---

func TestRenderEUDRDefaultTemplate(t *testing.T) {
	store := new(MockTemplateStore)
	store.On("GetActiveTemplate", mock.Anything, domain.RegulationEUDR).Return(nil, pkgerrors.ErrTemplateNotFound)

	r := newTestRenderer(store, true)

	out, err := r.Render(context.Background(), domain.RegulationEUDR, eudrData("Acme Co"))
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, "EU DEFORESTATION REGULATION")
	assert.Contains(t, doc, "Acme Co")
	assert.Contains(t, doc, "PO-2026-0042")
	assert.Contains(t, doc, "1511.10.00")
	assert.Contains(t, doc, "Trace Depth: 2")
	assert.Contains(t, doc, "Deforestation Risk: 0.30")
	assert.Contains(t, doc, "Due diligence exercised:            Yes")
}

func TestRenderEscapesMarkup(t *testing.T) {
	store := new(MockTemplateStore)
	store.On("GetActiveTemplate", mock.Anything, domain.RegulationEUDR).Return(nil, pkgerrors.ErrTemplateNotFound)

	r := newTestRenderer(store, true)

	out, err := r.Render(context.Background(), domain.RegulationEUDR, eudrData("<script>alert(1)</script>"))
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, "&lt;script&gt;")
	assert.NotContains(t, doc, "<script>")
}

func TestRenderSanitizationDisabled(t *testing.T) {
	store := new(MockTemplateStore)
	store.On("GetActiveTemplate", mock.Anything, domain.RegulationEUDR).Return(nil, pkgerrors.ErrTemplateNotFound)

	r := newTestRenderer(store, false)

	out, err := r.Render(context.Background(), domain.RegulationEUDR, eudrData("<b>Acme</b>"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<b>Acme</b>")
}

func TestRenderRSPODefaultTemplate(t *testing.T) {
	store := new(MockTemplateStore)
	store.On("GetActiveTemplate", mock.Anything, domain.RegulationRSPO).Return(nil, pkgerrors.ErrTemplateNotFound)

	r := newTestRenderer(store, true)

	data := &domain.RSPOReportData{
		PONumber: "PO-2026-0042",
		Product: domain.ProductInfo{
			HSCode:      "1511.10.00",
			Description: "Crude palm oil",
			Quantity:    decimal.RequireFromString("500"),
			Unit:        "MT",
		},
		SupplyChain: []domain.SupplyChainStep{
			{CompanyName: "PalmCo Mill", CompanyType: domain.CompanyTypeMillProcessor, StepOrder: 1},
		},
		MassBalance: &domain.MassBalanceResult{
			InputQuantity:   decimal.RequireFromString("1000"),
			OutputQuantity:  decimal.RequireFromString("870"),
			YieldPercentage: decimal.RequireFromString("87"),
			WastePercentage: decimal.RequireFromString("13"),
		},
		TracePath:   "PalmCo Mill (mill_processor)",
		TraceDepth:  1,
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}

	out, err := r.Render(context.Background(), domain.RegulationRSPO, data)
	require.NoError(t, err)

	doc := string(out)
	assert.Contains(t, doc, "RSPO SUSTAINABILITY CERTIFICATION REPORT")
	assert.Contains(t, doc, "Yield Percentage: 87%")
	assert.Contains(t, doc, "Waste Percentage: 13%")
	// optional certification and sustainability fields fall back
	assert.Contains(t, doc, "Certificate Number: Not specified")
	assert.Contains(t, doc, "GHG Emissions:      Not specified")
}

func TestRenderUnknownRegulationType(t *testing.T) {
	store := new(MockTemplateStore)
	store.On("GetActiveTemplate", mock.Anything, domain.RegulationType("XYZ")).Return(nil, pkgerrors.ErrTemplateNotFound)

	r := newTestRenderer(store, true)

	_, err := r.Render(context.Background(), domain.RegulationType("XYZ"), eudrData("Acme Co"))
	require.Error(t, err)
	assert.Equal(t, KindTemplateNotFound, KindOf(err))
}

func TestRenderPrefersStoredTemplate(t *testing.T) {
	store := new(MockTemplateStore)
	store.On("GetActiveTemplate", mock.Anything, domain.RegulationEUDR).Return(&domain.ComplianceTemplate{
		ID:              uuid.New(),
		RegulationType:  domain.RegulationEUDR,
		Version:         3,
		TemplateContent: "CUSTOM DOCUMENT {{.po_number}}",
		IsActive:        true,
	}, nil)

	r := newTestRenderer(store, true)

	out, err := r.Render(context.Background(), domain.RegulationEUDR, eudrData("Acme Co"))
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM DOCUMENT PO-2026-0042", string(out))
}

func TestRenderCachesParsedTemplate(t *testing.T) {
	store := new(MockTemplateStore)
	store.On("GetActiveTemplate", mock.Anything, domain.RegulationEUDR).Return(nil, pkgerrors.ErrTemplateNotFound)

	r := newTestRenderer(store, true)

	for i := 0; i < 3; i++ {
		_, err := r.Render(context.Background(), domain.RegulationEUDR, eudrData("Acme Co"))
		require.NoError(t, err)
	}

	store.AssertNumberOfCalls(t, "GetActiveTemplate", 1)

	r.ClearCache()
	_, err := r.Render(context.Background(), domain.RegulationEUDR, eudrData("Acme Co"))
	require.NoError(t, err)
	store.AssertNumberOfCalls(t, "GetActiveTemplate", 2)
}

func TestRenderMalformedStoredTemplate(t *testing.T) {
	store := new(MockTemplateStore)
	store.On("GetActiveTemplate", mock.Anything, domain.RegulationEUDR).Return(&domain.ComplianceTemplate{
		ID:              uuid.New(),
		RegulationType:  domain.RegulationEUDR,
		TemplateContent: "{{.unclosed",
		IsActive:        true,
	}, nil)

	r := newTestRenderer(store, true)

	_, err := r.Render(context.Background(), domain.RegulationEUDR, eudrData("Acme Co"))
	require.Error(t, err)
	assert.Equal(t, KindComplianceData, KindOf(err))
}

func TestTemplateCacheEvictsOldest(t *testing.T) {
	cache := newTemplateCache(2)
	tmpl := template.Must(template.New("t").Parse("x"))

	cache.add(domain.RegulationType("A"), tmpl)
	cache.add(domain.RegulationType("B"), tmpl)

	// touch A so B becomes the eviction candidate
	_, ok := cache.get(domain.RegulationType("A"))
	require.True(t, ok)

	cache.add(domain.RegulationType("C"), tmpl)
	assert.Equal(t, 2, cache.len())

	_, ok = cache.get(domain.RegulationType("B"))
	assert.False(t, ok)
	_, ok = cache.get(domain.RegulationType("A"))
	assert.True(t, ok)
	_, ok = cache.get(domain.RegulationType("C"))
	assert.True(t, ok)
}
