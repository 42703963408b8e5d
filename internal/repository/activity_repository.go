package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// ActivityRepository is the append-only audit log for lifecycle actions.
// Entries are written by the logCaseActivity workflow activity and are
// never updated or deleted.
type ActivityRepository interface {
	// Append inserts a new audit log entry.
	Append(ctx context.Context, entry *domain.CaseActivity) error

	// ListByEntity retrieves log entries for a case or offboarding record,
	// newest first. Returns the matching entries and total count.
	ListByEntity(ctx context.Context, firmID string, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]*domain.CaseActivity, int64, error)
}

// ReminderRepository persists court date reminder rows so the notification
// service can render calendar entries and delivery receipts.
type ReminderRepository interface {
	// Create inserts a reminder row. The workflow keeps its own monotonic
	// flags, so a duplicate insert for the same case, date, and window
	// indicates a replay bug rather than expected behavior; the unique
	// constraint surfaces it as domain.ErrAlreadyExists.
	Create(ctx context.Context, rem *domain.CourtDateReminder) error

	// ListByCase retrieves all reminder rows for a case, soonest first.
	ListByCase(ctx context.Context, firmID string, caseID uuid.UUID) ([]*domain.CourtDateReminder, error)
}
