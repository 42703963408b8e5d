package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// Compile-time interface verification.
var _ ReminderRepository = (*PgReminderRepository)(nil)

// PgReminderRepository is a PostgreSQL implementation of ReminderRepository.
type PgReminderRepository struct {
	db DBTX
}

// NewPgReminderRepository creates a new PostgreSQL reminder repository.
func NewPgReminderRepository(db DBTX) *PgReminderRepository {
	return &PgReminderRepository{db: db}
}

// Create inserts a court date reminder row.
func (r *PgReminderRepository) Create(ctx context.Context, rem *domain.CourtDateReminder) error {
	if rem == nil {
		return domain.NewValidationError("reminder", "reminder cannot be nil")
	}
	if rem.ID == uuid.Nil {
		return domain.NewValidationError("id", "reminder ID is required")
	}
	if rem.FirmID == "" {
		return domain.NewValidationError("firm_id", "firm ID is required")
	}
	if rem.Window != "48h" && rem.Window != "24h" {
		return domain.NewValidationError("window", "window must be 48h or 24h")
	}

	query := `
		INSERT INTO court_date_reminders (
			id, firm_id, case_id, court_date, description, reminder_window, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)`

	_, err := r.db.Exec(ctx, query,
		rem.ID, rem.FirmID, rem.CaseID, rem.CourtDate,
		rem.Description, rem.Window, rem.CreatedAt,
	)
	if err != nil {
		if isPgUniqueViolation(err) {
			return domain.NewAlreadyExistsError("reminder", rem.ID.String())
		}
		return fmt.Errorf("failed to create reminder: %w", err)
	}

	return nil
}

// ListByCase retrieves all reminder rows for a case, soonest first.
func (r *PgReminderRepository) ListByCase(ctx context.Context, firmID string, caseID uuid.UUID) ([]*domain.CourtDateReminder, error) {
	if firmID == "" {
		return nil, domain.NewValidationError("firm_id", "firm ID is required")
	}

	query := `
		SELECT id, firm_id, case_id, court_date, description, reminder_window, created_at
		FROM court_date_reminders
		WHERE firm_id = $1 AND case_id = $2
		ORDER BY court_date ASC`

	rows, err := r.db.Query(ctx, query, firmID, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*domain.CourtDateReminder
	for rows.Next() {
		var rem domain.CourtDateReminder
		if err := rows.Scan(
			&rem.ID, &rem.FirmID, &rem.CaseID, &rem.CourtDate,
			&rem.Description, &rem.Window, &rem.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, &rem)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reminders: %w", err)
	}

	return reminders, nil
}
