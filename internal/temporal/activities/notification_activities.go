package activities

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/events"
	"github.com/mizanhq/case-lifecycle-service/internal/observability"
	"github.com/mizanhq/case-lifecycle-service/internal/repository"
)

// NotificationActivities provides Temporal activities for publishing
// notification events to the downstream notification service. Events go out
// through the Kafka publisher; a nop publisher is wired when Kafka is
// disabled.
//
// Methods on this struct are registered as Temporal activities via the worker.
type NotificationActivities struct {
	publisher        events.Publisher
	caseStore        repository.LifecycleStore
	offboardingStore repository.LifecycleStore
	metrics          *observability.Metrics
}

// NewNotificationActivities creates a new NotificationActivities instance.
// The metrics parameter may be nil (metrics recording will be skipped).
func NewNotificationActivities(
	publisher events.Publisher,
	caseStore repository.LifecycleStore,
	offboardingStore repository.LifecycleStore,
	metrics *observability.Metrics,
) *NotificationActivities {
	return &NotificationActivities{
		publisher:        publisher,
		caseStore:        caseStore,
		offboardingStore: offboardingStore,
		metrics:          metrics,
	}
}

func (a *NotificationActivities) storeFor(entityType domain.EntityType) (repository.LifecycleStore, error) {
	switch entityType {
	case domain.EntityTypeCase:
		return a.caseStore, nil
	case domain.EntityTypeOffboarding:
		return a.offboardingStore, nil
	default:
		return nil, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidInput, entityType)
	}
}

// NotifyStageTransition publishes a stage entry or exit event.
func (a *NotificationActivities) NotifyStageTransition(ctx context.Context, input NotifyStageTransitionInput) error {
	logger := activity.GetLogger(ctx)

	eventType := domain.EventTypeStageExited
	if input.Entered {
		eventType = domain.EventTypeStageEntered
	}

	logger.Info("publishing stage transition notification",
		"eventType", eventType,
		"entityID", input.EntityID,
		"stageID", input.StageID,
	)

	event, err := domain.NewEvent(eventType, input.FirmID, input.EntityType, input.EntityID, domain.StageTransitionPayload{
		StageID:     input.StageID,
		StageName:   input.StageName,
		FromStageID: input.FromStageID,
		Notes:       input.Notes,
		DurationHrs: input.DurationHours,
	})
	if err != nil {
		return fmt.Errorf("build stage transition event: %w", err)
	}

	if err := a.publisher.Publish(ctx, event); err != nil {
		logger.Error("failed to publish stage transition notification",
			"eventType", eventType,
			"entityID", input.EntityID,
			"error", err,
		)
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	return nil
}

// NotifyAssignedTeam publishes a team notification for the stage the record
// just entered. The assigned team is read from the persisted record; records
// with no assigned team skip the notification without error.
func (a *NotificationActivities) NotifyAssignedTeam(ctx context.Context, input NotifyAssignedTeamInput) error {
	logger := activity.GetLogger(ctx)

	store, err := a.storeFor(input.EntityType)
	if err != nil {
		return err
	}

	teamID, err := store.AssignedTeam(ctx, input.FirmID, input.EntityID)
	if err != nil {
		logger.Error("failed to resolve assigned team",
			"entityID", input.EntityID,
			"error", err,
		)
		return fmt.Errorf("resolve assigned team: %w", err)
	}
	if teamID == "" {
		logger.Info("no assigned team, skipping notification",
			"entityID", input.EntityID,
			"stageID", input.StageID,
		)
		return nil
	}

	event, err := domain.NewEvent(domain.EventTypeTeamNotified, input.FirmID, input.EntityType, input.EntityID, domain.StageTransitionPayload{
		StageID:      input.StageID,
		StageName:    input.StageName,
		TeamID:       teamID,
		Requirements: input.RequirementCount,
	})
	if err != nil {
		return fmt.Errorf("build team notification event: %w", err)
	}

	if err := a.publisher.Publish(ctx, event); err != nil {
		logger.Error("failed to publish team notification",
			"entityID", input.EntityID,
			"teamID", teamID,
			"error", err,
		)
		return fmt.Errorf("publish %s: %w", domain.EventTypeTeamNotified, err)
	}

	logger.Info("assigned team notified",
		"entityID", input.EntityID,
		"teamID", teamID,
		"stageID", input.StageID,
	)
	return nil
}

// NotifyWorkflowFinished publishes the terminal lifecycle event: completed
// when a final stage was reached, failed otherwise. Called with
// fire-and-forget semantics from the workflow; a publish failure never fails
// the run.
func (a *NotificationActivities) NotifyWorkflowFinished(ctx context.Context, input NotifyWorkflowFinishedInput) error {
	logger := activity.GetLogger(ctx)

	eventType := domain.EventTypeWorkflowCompleted
	if input.Failed {
		eventType = domain.EventTypeWorkflowFailed
	}

	event, err := domain.NewEvent(eventType, input.FirmID, input.EntityType, input.EntityID, domain.WorkflowCompletedPayload{
		FinalStageID: input.FinalStageID,
		StartedAt:    input.StartedAt,
		CompletedAt:  input.FinishedAt,
	})
	if err != nil {
		return fmt.Errorf("build workflow finished event: %w", err)
	}

	if err := a.publisher.Publish(ctx, event); err != nil {
		logger.Error("failed to publish workflow finished event",
			"eventType", eventType,
			"entityID", input.EntityID,
			"error", err,
		)
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	logger.Info("workflow finished event published",
		"eventType", eventType,
		"entityID", input.EntityID,
		"finalStageID", input.FinalStageID,
	)
	return nil
}
