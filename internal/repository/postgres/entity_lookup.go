package postgres

import (
	"context"
	"database/sql"

	"agritrace/internal/domain"
	"agritrace/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// EntityLookup reads the transactional entities a report is built from.
type EntityLookup struct {
	db *sqlx.DB
}

func NewEntityLookup(db *sqlx.DB) *EntityLookup {
	return &EntityLookup{db: db}
}

func (r *EntityLookup) GetPurchaseOrder(ctx context.Context, id uuid.UUID) (*domain.PurchaseOrder, error) {
	query := `
		SELECT * FROM purchase_orders
		WHERE id = $1
	`

	var po domain.PurchaseOrder
	err := r.db.GetContext(ctx, &po, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrPurchaseOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get purchase order")
	}

	return &po, nil
}

func (r *EntityLookup) GetCompany(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	query := `
		SELECT * FROM companies
		WHERE id = $1
	`

	var company domain.Company
	err := r.db.GetContext(ctx, &company, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrCompanyNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get company")
	}

	return &company, nil
}

func (r *EntityLookup) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT * FROM products
		WHERE id = $1
	`

	var product domain.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get product")
	}

	return &product, nil
}

func (r *EntityLookup) GetTransformationEvents(ctx context.Context, poID uuid.UUID) ([]domain.TransformationEvent, error) {
	query := `
		SELECT * FROM transformation_events
		WHERE purchase_order_id = $1
		ORDER BY occurred_at ASC
	`

	var events []domain.TransformationEvent
	err := r.db.SelectContext(ctx, &events, query, poID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transformation events")
	}

	return events, nil
}
