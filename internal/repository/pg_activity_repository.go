package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// Compile-time interface verification.
var _ ActivityRepository = (*PgActivityRepository)(nil)

// PgActivityRepository is a PostgreSQL implementation of ActivityRepository.
type PgActivityRepository struct {
	db DBTX
}

// NewPgActivityRepository creates a new PostgreSQL activity log repository.
func NewPgActivityRepository(db DBTX) *PgActivityRepository {
	return &PgActivityRepository{db: db}
}

// Append inserts a new audit log entry.
func (r *PgActivityRepository) Append(ctx context.Context, entry *domain.CaseActivity) error {
	if entry == nil {
		return domain.NewValidationError("entry", "entry cannot be nil")
	}
	if entry.ID == uuid.Nil {
		return domain.NewValidationError("id", "entry ID is required")
	}
	if entry.FirmID == "" {
		return domain.NewValidationError("firm_id", "firm ID is required")
	}
	if entry.Action == "" {
		return domain.NewValidationError("action", "action is required")
	}

	query := `
		INSERT INTO case_activities (
			id, firm_id, entity_type, entity_id, action, details, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`

	_, err := r.db.Exec(ctx, query,
		entry.ID, entry.FirmID, entry.EntityType, entry.EntityID,
		entry.Action, entry.Details, entry.CreatedAt,
	)
	if err != nil {
		if isPgUniqueViolation(err) {
			return domain.NewAlreadyExistsError("activity", entry.ID.String())
		}
		return fmt.Errorf("failed to append activity: %w", err)
	}

	return nil
}

// ListByEntity retrieves log entries for an entity, newest first.
func (r *PgActivityRepository) ListByEntity(ctx context.Context, firmID string, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]*domain.CaseActivity, int64, error) {
	if firmID == "" {
		return nil, 0, domain.NewValidationError("firm_id", "firm ID is required")
	}
	applyPaginationDefaults(&limit, &offset)

	var total int64
	countQuery := `
		SELECT COUNT(*) FROM case_activities
		WHERE firm_id = $1 AND entity_type = $2 AND entity_id = $3`
	if err := r.db.QueryRow(ctx, countQuery, firmID, entityType, entityID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}

	query := `
		SELECT id, firm_id, entity_type, entity_id, action, details, created_at
		FROM case_activities
		WHERE firm_id = $1 AND entity_type = $2 AND entity_id = $3
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`

	rows, err := r.db.Query(ctx, query, firmID, entityType, entityID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var entries []*domain.CaseActivity
	for rows.Next() {
		var entry domain.CaseActivity
		if err := rows.Scan(
			&entry.ID, &entry.FirmID, &entry.EntityType, &entry.EntityID,
			&entry.Action, &entry.Details, &entry.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate activities: %w", err)
	}

	return entries, total, nil
}
