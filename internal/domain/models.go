package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// RegulationType identifies a regulatory report family
type RegulationType string

const (
	RegulationEUDR RegulationType = "EUDR"
	RegulationRSPO RegulationType = "RSPO"
	// RegulationISCC is reserved for a future report family. Requests for it
	// are rejected exactly like unknown types until an implementation lands.
	RegulationISCC RegulationType = "ISCC"
)

// SupportedRegulations lists the regulation types the engine can generate
// reports for.
var SupportedRegulations = []RegulationType{RegulationEUDR, RegulationRSPO}

// IsSupported reports whether reports can be generated for this type.
func (rt RegulationType) IsSupported() bool {
	for _, supported := range SupportedRegulations {
		if rt == supported {
			return true
		}
	}
	return false
}

// CompanyType classifies a supply-chain participant's role
type CompanyType string

const (
	CompanyTypePlantationGrower CompanyType = "plantation_grower"
	CompanyTypeMillProcessor    CompanyType = "mill_processor"
	CompanyTypeRefinery         CompanyType = "refinery"
	CompanyTypeTrader           CompanyType = "trader"
	CompanyTypeManufacturer     CompanyType = "manufacturer"
)

// Company represents a supply-chain participant
type Company struct {
	ID                 uuid.UUID        `json:"id" db:"id"`
	Name               string           `json:"name" db:"name"`
	CompanyType        CompanyType      `json:"company_type" db:"company_type"`
	RegistrationNumber *string          `json:"registration_number,omitempty" db:"registration_number"`
	Address            *string          `json:"address,omitempty" db:"address"`
	Country            *string          `json:"country,omitempty" db:"country"`
	Latitude           *decimal.Decimal `json:"latitude,omitempty" db:"latitude"`
	Longitude          *decimal.Decimal `json:"longitude,omitempty" db:"longitude"`
	CertificateNumber  *string          `json:"certificate_number,omitempty" db:"certificate_number"`
	CertificationType  *string          `json:"certification_type,omitempty" db:"certification_type"`
	CertValidUntil     *time.Time       `json:"cert_valid_until,omitempty" db:"cert_valid_until"`
	IsActive           bool             `json:"is_active" db:"is_active"`
	CreatedAt          time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at" db:"updated_at"`
}

// Product represents a traded good classified by HS code
type Product struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	Name              string           `json:"name" db:"name"`
	HSCode            string           `json:"hs_code" db:"hs_code"`
	Description       string           `json:"description" db:"description"`
	Unit              string           `json:"unit" db:"unit"`
	GHGEmissions      *decimal.Decimal `json:"ghg_emissions,omitempty" db:"ghg_emissions"`
	WaterUsage        *decimal.Decimal `json:"water_usage,omitempty" db:"water_usage"`
	EnergyConsumption *decimal.Decimal `json:"energy_consumption,omitempty" db:"energy_consumption"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`
}

// PurchaseOrderStatus represents purchase order lifecycle states
type PurchaseOrderStatus string

const (
	POStatusDraft     PurchaseOrderStatus = "draft"
	POStatusConfirmed PurchaseOrderStatus = "confirmed"
	POStatusDelivered PurchaseOrderStatus = "delivered"
	POStatusClosed    PurchaseOrderStatus = "closed"
)

// PurchaseOrder represents a transaction between a buyer and a seller
type PurchaseOrder struct {
	ID           uuid.UUID           `json:"id" db:"id"`
	PONumber     string              `json:"po_number" db:"po_number"`
	BuyerID      uuid.UUID           `json:"buyer_id" db:"buyer_id"`
	SellerID     uuid.UUID           `json:"seller_id" db:"seller_id"`
	ProductID    uuid.UUID           `json:"product_id" db:"product_id"`
	Quantity     decimal.Decimal     `json:"quantity" db:"quantity"`
	Unit         string              `json:"unit" db:"unit"`
	Status       PurchaseOrderStatus `json:"status" db:"status"`
	SupplyChain  SupplyChainSteps    `json:"supply_chain,omitempty" db:"supply_chain"`
	Metadata     Metadata            `json:"metadata,omitempty" db:"metadata"`
	DeliveryDate *time.Time          `json:"delivery_date,omitempty" db:"delivery_date"`
	CreatedAt    time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" db:"updated_at"`
}

// TransformationEvent records an input/output quantity reconciliation step
// (milling, refining) referencing a purchase order.
type TransformationEvent struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	PurchaseOrderID uuid.UUID       `json:"purchase_order_id" db:"purchase_order_id"`
	EventType       string          `json:"event_type" db:"event_type"`
	InputQuantity   decimal.Decimal `json:"input_quantity" db:"input_quantity"`
	OutputQuantity  decimal.Decimal `json:"output_quantity" db:"output_quantity"`
	OccurredAt      time.Time       `json:"occurred_at" db:"occurred_at"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// HSCode is reference data describing a harmonized system classification
type HSCode struct {
	Code                  string         `json:"code" db:"code"`
	Description           string         `json:"description" db:"description"`
	ApplicableRegulations pq.StringArray `json:"applicable_regulations" db:"applicable_regulations"`
	CreatedAt             time.Time      `json:"created_at" db:"created_at"`
}

// ComplianceTemplate is a versioned document template for one regulation
// type. Templates are immutable once created; new versions supersede old
// ones rather than mutating them.
type ComplianceTemplate struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	RegulationType  RegulationType `json:"regulation_type" db:"regulation_type"`
	Version         int            `json:"version" db:"version"`
	TemplateContent string         `json:"template_content" db:"template_content"`
	IsActive        bool           `json:"is_active" db:"is_active"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
}

// ReportStatus represents compliance report lifecycle states. Generation
// only ever produces GENERATED; the other states are extension points for
// the delivery layer.
type ReportStatus string

const (
	ReportStatusGenerated  ReportStatus = "GENERATED"
	ReportStatusDownloaded ReportStatus = "DOWNLOADED"
	ReportStatusArchived   ReportStatus = "ARCHIVED"
)

// ComplianceReport is one generated report document. Written once, read-only
// afterward.
type ComplianceReport struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	CompanyID       uuid.UUID      `json:"company_id" db:"company_id"`
	TemplateID      uuid.UUID      `json:"template_id" db:"template_id"`
	PurchaseOrderID uuid.UUID      `json:"purchase_order_id" db:"purchase_order_id"`
	RegulationType  RegulationType `json:"regulation_type" db:"regulation_type"`
	ReportData      []byte         `json:"-" db:"report_data"`
	FileSize        int            `json:"file_size" db:"file_size"`
	Status          ReportStatus   `json:"status" db:"status"`
	GeneratedAt     time.Time      `json:"generated_at" db:"generated_at"`
}

// Metadata holds arbitrary key-value metadata stored as JSONB
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &m)
}

// SupplyChainSteps is an ordered step list stored as JSONB on the purchase
// order when the chain is recorded explicitly.
type SupplyChainSteps []SupplyChainStep

func (s SupplyChainSteps) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *SupplyChainSteps) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, &s)
}
