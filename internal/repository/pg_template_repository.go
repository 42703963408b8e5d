package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// Compile-time interface verification.
var _ TemplateRepository = (*PgTemplateRepository)(nil)

// PgTemplateRepository is a PostgreSQL implementation of TemplateRepository.
// Stage definitions are stored as a JSONB document since the workflow reads
// the whole stage list at once and never queries individual stages.
type PgTemplateRepository struct {
	db DBTX
}

// NewPgTemplateRepository creates a new PostgreSQL template repository.
func NewPgTemplateRepository(db DBTX) *PgTemplateRepository {
	return &PgTemplateRepository{db: db}
}

// Create inserts a new workflow template.
func (r *PgTemplateRepository) Create(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	if tpl == nil {
		return domain.NewValidationError("template", "template cannot be nil")
	}
	if tpl.ID == uuid.Nil {
		return domain.NewValidationError("id", "template ID is required")
	}
	if tpl.FirmID == "" {
		return domain.NewValidationError("firm_id", "firm ID is required")
	}
	if err := tpl.Validate(); err != nil {
		return err
	}

	stagesJSON, err := json.Marshal(tpl.Stages)
	if err != nil {
		return fmt.Errorf("failed to marshal stages: %w", err)
	}

	query := `
		INSERT INTO workflow_templates (
			id, firm_id, name, entity_type, stages, is_active,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8
		)`

	_, err = r.db.Exec(ctx, query,
		tpl.ID, tpl.FirmID, tpl.Name, tpl.EntityType, stagesJSON, tpl.IsActive,
		tpl.CreatedAt, tpl.UpdatedAt,
	)
	if err != nil {
		if isPgUniqueViolation(err) {
			return domain.NewAlreadyExistsError("template", tpl.ID.String())
		}
		return fmt.Errorf("failed to create template: %w", err)
	}

	return nil
}

// Get retrieves a template by its ID within a tenant context.
func (r *PgTemplateRepository) Get(ctx context.Context, firmID string, id uuid.UUID) (*domain.WorkflowTemplate, error) {
	query := `
		SELECT id, firm_id, name, entity_type, stages, is_active,
			created_at, updated_at
		FROM workflow_templates
		WHERE id = $1 AND firm_id = $2`

	row := r.db.QueryRow(ctx, query, id, firmID)
	tpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("template", id.String())
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return tpl, nil
}

// GetActive retrieves the active template for an entity type.
func (r *PgTemplateRepository) GetActive(ctx context.Context, firmID string, entityType domain.EntityType) (*domain.WorkflowTemplate, error) {
	query := `
		SELECT id, firm_id, name, entity_type, stages, is_active,
			created_at, updated_at
		FROM workflow_templates
		WHERE firm_id = $1 AND entity_type = $2 AND is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1`

	row := r.db.QueryRow(ctx, query, firmID, entityType)
	tpl, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFoundError("active template", string(entityType))
		}
		return nil, fmt.Errorf("failed to get active template: %w", err)
	}

	return tpl, nil
}

// List retrieves templates matching the filter criteria.
func (r *PgTemplateRepository) List(ctx context.Context, filter TemplateFilter) ([]*domain.WorkflowTemplate, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	conditions := []string{"firm_id = $1"}
	args := []interface{}{filter.FirmID}
	argPos := 2

	if filter.EntityType != "" {
		conditions = append(conditions, fmt.Sprintf("entity_type = $%d", argPos))
		args = append(args, filter.EntityType)
		argPos++
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM workflow_templates WHERE " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count templates: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, firm_id, name, entity_type, stages, is_active,
			created_at, updated_at
		FROM workflow_templates
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*domain.WorkflowTemplate
	for rows.Next() {
		tpl, err := scanTemplateFromRows(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate templates: %w", err)
	}

	return templates, total, nil
}

// SetActive activates or deactivates a template. Activation deactivates any
// other active template for the same firm and entity type first, so at most
// one template per type is active.
func (r *PgTemplateRepository) SetActive(ctx context.Context, firmID string, id uuid.UUID, active bool) error {
	if active {
		deactivate := `
			UPDATE workflow_templates
			SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
			WHERE firm_id = $1 AND is_active = TRUE
				AND entity_type = (SELECT entity_type FROM workflow_templates WHERE id = $2 AND firm_id = $1)
				AND id <> $2`
		if _, err := r.db.Exec(ctx, deactivate, firmID, id); err != nil {
			return fmt.Errorf("failed to deactivate templates: %w", err)
		}
	}

	query := `
		UPDATE workflow_templates
		SET is_active = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND firm_id = $3`

	result, err := r.db.Exec(ctx, query, active, id, firmID)
	if err != nil {
		return fmt.Errorf("failed to update template: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.NewNotFoundError("template", id.String())
	}

	return nil
}

// templateScanDest holds the destination pointers for scanning a WorkflowTemplate row.
type templateScanDest struct {
	tpl        domain.WorkflowTemplate
	stagesJSON []byte
}

func (d *templateScanDest) destinations() []interface{} {
	return []interface{}{
		&d.tpl.ID, &d.tpl.FirmID, &d.tpl.Name, &d.tpl.EntityType, &d.stagesJSON, &d.tpl.IsActive,
		&d.tpl.CreatedAt, &d.tpl.UpdatedAt,
	}
}

func (d *templateScanDest) finalize() (*domain.WorkflowTemplate, error) {
	if len(d.stagesJSON) > 0 {
		if err := json.Unmarshal(d.stagesJSON, &d.tpl.Stages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal stages: %w", err)
		}
	}
	return &d.tpl, nil
}

// scanTemplate scans a single row into a WorkflowTemplate.
func scanTemplate(row pgx.Row) (*domain.WorkflowTemplate, error) {
	var dest templateScanDest
	if err := row.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}

// scanTemplateFromRows scans the current row from pgx.Rows into a WorkflowTemplate.
func scanTemplateFromRows(rows pgx.Rows) (*domain.WorkflowTemplate, error) {
	var dest templateScanDest
	if err := rows.Scan(dest.destinations()...); err != nil {
		return nil, err
	}
	return dest.finalize()
}
