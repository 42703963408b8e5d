package activities

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/events"
	"github.com/mizanhq/case-lifecycle-service/internal/observability"
	"github.com/mizanhq/case-lifecycle-service/internal/repository"
)

// Reminder kind labels recorded against the reminders_sent metric.
const (
	reminderKindDeadline        = "deadline"
	reminderKindDeadlineOverdue = "deadline_overdue"
	reminderKindCourt48h        = "court_48h"
	reminderKindCourt24h        = "court_24h"
)

// ReminderActivities provides Temporal activities for deadline and court date
// reminders. Deadline reminders are pure notifications; court date reminders
// additionally persist a row the notification service renders as a calendar
// entry.
//
// Methods on this struct are registered as Temporal activities via the worker.
type ReminderActivities struct {
	reminderRepo repository.ReminderRepository
	publisher    events.Publisher
	metrics      *observability.Metrics
}

// NewReminderActivities creates a new ReminderActivities instance. The metrics
// parameter may be nil (metrics recording will be skipped).
func NewReminderActivities(
	reminderRepo repository.ReminderRepository,
	publisher events.Publisher,
	metrics *observability.Metrics,
) *ReminderActivities {
	return &ReminderActivities{
		reminderRepo: reminderRepo,
		publisher:    publisher,
		metrics:      metrics,
	}
}

// SendDeadlineReminder publishes an approaching-deadline or overdue
// notification. The workflow's monotonic flags guarantee each variant fires
// at most once per deadline, so this activity stays idempotent-friendly.
func (a *ReminderActivities) SendDeadlineReminder(ctx context.Context, input SendDeadlineReminderInput) error {
	logger := activity.GetLogger(ctx)

	eventType := domain.EventTypeDeadlineReminder
	kind := reminderKindDeadline
	if input.Overdue {
		eventType = domain.EventTypeDeadlineOverdue
		kind = reminderKindDeadlineOverdue
	}

	logger.Info("sending deadline reminder",
		"entityID", input.EntityID,
		"description", input.Description,
		"daysUntil", input.DaysUntil,
		"overdue", input.Overdue,
	)

	event, err := domain.NewEvent(eventType, input.FirmID, input.EntityType, input.EntityID, domain.DeadlineReminderPayload{
		Date:        input.Date,
		Description: input.Description,
		DaysUntil:   input.DaysUntil,
		Overdue:     input.Overdue,
	})
	if err != nil {
		return fmt.Errorf("build deadline reminder event: %w", err)
	}

	if err := a.publisher.Publish(ctx, event); err != nil {
		logger.Error("failed to publish deadline reminder",
			"entityID", input.EntityID,
			"error", err,
		)
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	if a.metrics != nil {
		a.metrics.RecordReminderSent(kind)
	}
	return nil
}

// CreateCourtDateReminder persists a court date reminder row and publishes
// the matching notification event. One row is written per reminder window, so
// a hearing that passes through both the 48h and 24h windows produces two
// rows.
func (a *ReminderActivities) CreateCourtDateReminder(ctx context.Context, input CreateCourtDateReminderInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("creating court date reminder",
		"caseID", input.CaseID,
		"window", input.Window,
		"hoursUntil", input.HoursUntil,
	)

	reminder := &domain.CourtDateReminder{
		ID:          uuid.New(),
		FirmID:      input.FirmID,
		CaseID:      input.CaseID,
		CourtDate:   input.CourtDate,
		Description: input.Description,
		Window:      input.Window,
		CreatedAt:   input.CreatedAt,
	}
	if err := a.reminderRepo.Create(ctx, reminder); err != nil {
		logger.Error("failed to persist court date reminder",
			"caseID", input.CaseID,
			"window", input.Window,
			"error", err,
		)
		return fmt.Errorf("create court date reminder: %w", err)
	}

	event, err := domain.NewEvent(domain.EventTypeCourtDateReminder, input.FirmID, domain.EntityTypeCase, input.CaseID, domain.CourtDateReminderPayload{
		Date:        input.CourtDate,
		Description: input.Description,
		Location:    input.Location,
		HoursUntil:  input.HoursUntil,
		Window:      input.Window,
	})
	if err != nil {
		return fmt.Errorf("build court date reminder event: %w", err)
	}

	if err := a.publisher.Publish(ctx, event); err != nil {
		logger.Error("failed to publish court date reminder",
			"caseID", input.CaseID,
			"window", input.Window,
			"error", err,
		)
		return fmt.Errorf("publish %s: %w", domain.EventTypeCourtDateReminder, err)
	}

	if a.metrics != nil {
		switch input.Window {
		case "48h":
			a.metrics.RecordReminderSent(reminderKindCourt48h)
		case "24h":
			a.metrics.RecordReminderSent(reminderKindCourt24h)
		}
	}

	logger.Info("court date reminder created",
		"caseID", input.CaseID,
		"window", input.Window,
	)
	return nil
}
