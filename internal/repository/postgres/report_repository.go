package postgres

import (
	"context"
	"database/sql"

	"agritrace/internal/domain"
	"agritrace/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ReportRepository persists generated compliance reports.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Save writes one report row inside a transaction. On any failure the
// transaction rolls back and nothing is committed.
func (r *ReportRepository) Save(ctx context.Context, report *domain.ComplianceReport) (*domain.ComplianceReport, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO compliance_reports (
			id, company_id, template_id, purchase_order_id, regulation_type,
			report_data, file_size, status, generated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`

	_, err = tx.ExecContext(ctx, query,
		report.ID, report.CompanyID, report.TemplateID, report.PurchaseOrderID,
		report.RegulationType, report.ReportData, report.FileSize, report.Status,
		report.GeneratedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to insert compliance report")
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit compliance report")
	}

	return report, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplianceReport, error) {
	query := `
		SELECT * FROM compliance_reports
		WHERE id = $1
	`

	var report domain.ComplianceReport
	err := r.db.GetContext(ctx, &report, query, id)
	if err == sql.ErrNoRows {
		return nil, errors.ErrReportNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get compliance report")
	}

	return &report, nil
}

func (r *ReportRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, limit, offset int) ([]domain.ComplianceReport, error) {
	query := `
		SELECT id, company_id, template_id, purchase_order_id, regulation_type,
		       ''::bytea AS report_data, file_size, status, generated_at
		FROM compliance_reports
		WHERE company_id = $1
		ORDER BY generated_at DESC
		LIMIT $2 OFFSET $3
	`

	var reports []domain.ComplianceReport
	err := r.db.SelectContext(ctx, &reports, query, companyID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list compliance reports")
	}

	return reports, nil
}
