package postgres

import (
	"context"
	"database/sql"

	"agritrace/internal/domain"
	"agritrace/pkg/errors"

	"github.com/jmoiron/sqlx"
)

// HSCodeRepository reads harmonized system code reference data.
type HSCodeRepository struct {
	db *sqlx.DB
}

func NewHSCodeRepository(db *sqlx.DB) *HSCodeRepository {
	return &HSCodeRepository{db: db}
}

func (r *HSCodeRepository) GetByCode(ctx context.Context, code string) (*domain.HSCode, error) {
	query := `
		SELECT * FROM hs_codes
		WHERE code = $1
	`

	var hsCode domain.HSCode
	err := r.db.GetContext(ctx, &hsCode, query, code)
	if err == sql.ErrNoRows {
		return nil, errors.ErrHSCodeNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get hs code")
	}

	return &hsCode, nil
}

func (r *HSCodeRepository) ListByRegulation(ctx context.Context, regulationType domain.RegulationType) ([]domain.HSCode, error) {
	query := `
		SELECT * FROM hs_codes
		WHERE $1 = ANY(applicable_regulations)
		ORDER BY code ASC
	`

	var codes []domain.HSCode
	err := r.db.SelectContext(ctx, &codes, query, regulationType)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list hs codes")
	}

	return codes, nil
}
