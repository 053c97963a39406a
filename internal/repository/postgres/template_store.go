package postgres

import (
	"context"
	"database/sql"
	"time"

	"agritrace/internal/domain"
	"agritrace/pkg/errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TemplateStore persists compliance document templates. One active row per
// regulation type, enforced by a unique constraint.
type TemplateStore struct {
	db *sqlx.DB
}

func NewTemplateStore(db *sqlx.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func (r *TemplateStore) GetActiveTemplate(ctx context.Context, regulationType domain.RegulationType) (*domain.ComplianceTemplate, error) {
	query := `
		SELECT * FROM compliance_templates
		WHERE regulation_type = $1 AND is_active = TRUE
		ORDER BY version DESC
		LIMIT 1
	`

	var tmpl domain.ComplianceTemplate
	err := r.db.GetContext(ctx, &tmpl, query, regulationType)
	if err == sql.ErrNoRows {
		return nil, errors.ErrTemplateNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get active template")
	}

	return &tmpl, nil
}

// CreateTemplate inserts the first active template for a regulation type.
// Concurrent first use races on check-then-insert, so the insert is an
// upsert against the active-row unique constraint: whichever call loses the
// race adopts the committed row instead of creating a duplicate.
func (r *TemplateStore) CreateTemplate(ctx context.Context, regulationType domain.RegulationType, content string) (*domain.ComplianceTemplate, error) {
	query := `
		INSERT INTO compliance_templates (
			id, regulation_type, version, template_content, is_active, created_at
		) VALUES (
			$1, $2, 1, $3, TRUE, $4
		)
		ON CONFLICT (regulation_type) WHERE is_active
		DO UPDATE SET regulation_type = EXCLUDED.regulation_type
		RETURNING *
	`

	var tmpl domain.ComplianceTemplate
	err := r.db.GetContext(ctx, &tmpl, query, uuid.New(), regulationType, content, time.Now())
	if err != nil {
		return nil, errors.Wrap(err, "failed to create compliance template")
	}

	return &tmpl, nil
}
