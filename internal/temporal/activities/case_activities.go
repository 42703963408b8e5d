package activities

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/observability"
	"github.com/mizanhq/case-lifecycle-service/internal/repository"
)

// LifecycleActivities provides Temporal activities that mutate the persisted
// case or offboarding record and the audit log as the orchestration moves
// through stages. Methods on this struct are registered as Temporal activities
// via the worker.
type LifecycleActivities struct {
	caseStore        repository.LifecycleStore
	offboardingStore repository.LifecycleStore
	activityRepo     repository.ActivityRepository
	metrics          *observability.Metrics
}

// NewLifecycleActivities creates a new LifecycleActivities instance with the
// given dependencies. The metrics parameter may be nil (metrics recording will
// be skipped).
func NewLifecycleActivities(
	caseStore repository.LifecycleStore,
	offboardingStore repository.LifecycleStore,
	activityRepo repository.ActivityRepository,
	metrics *observability.Metrics,
) *LifecycleActivities {
	return &LifecycleActivities{
		caseStore:        caseStore,
		offboardingStore: offboardingStore,
		activityRepo:     activityRepo,
		metrics:          metrics,
	}
}

// storeFor dispatches to the record store matching the entity type.
func (a *LifecycleActivities) storeFor(entityType domain.EntityType) (repository.LifecycleStore, error) {
	switch entityType {
	case domain.EntityTypeCase:
		return a.caseStore, nil
	case domain.EntityTypeOffboarding:
		return a.offboardingStore, nil
	default:
		return nil, fmt.Errorf("%w: unknown entity type %q", domain.ErrInvalidInput, entityType)
	}
}

// EnterStage records stage entry on the persisted record: the current stage
// pointer and its entry timestamp are updated so dashboards read the same
// stage the workflow holds.
func (a *LifecycleActivities) EnterStage(ctx context.Context, input EnterStageInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("entering stage",
		"entityType", input.EntityType,
		"entityID", input.EntityID,
		"stageID", input.StageID,
	)

	store, err := a.storeFor(input.EntityType)
	if err != nil {
		return err
	}

	if err := store.UpdateStage(ctx, input.FirmID, input.EntityID, input.StageID, input.EnteredAt); err != nil {
		logger.Error("failed to record stage entry",
			"entityID", input.EntityID,
			"stageID", input.StageID,
			"error", err,
		)
		return fmt.Errorf("update stage to %s: %w", input.StageID, err)
	}

	logger.Info("stage entered",
		"entityID", input.EntityID,
		"stageID", input.StageID,
	)
	return nil
}

// ExitStage records stage exit. The persisted record keeps pointing at the
// exited stage until the following EnterStage lands; this activity exists for
// its audit entry and stage-duration metric.
func (a *LifecycleActivities) ExitStage(ctx context.Context, input ExitStageInput) error {
	logger := activity.GetLogger(ctx)

	dwell := input.ExitedAt.Sub(input.EnteredAt)
	logger.Info("exiting stage",
		"entityType", input.EntityType,
		"entityID", input.EntityID,
		"stageID", input.StageID,
		"dwell", dwell,
	)

	details, err := json.Marshal(map[string]interface{}{
		"stage_id":       input.StageID,
		"stage_name":     input.StageName,
		"duration_hours": dwell.Hours(),
	})
	if err != nil {
		return fmt.Errorf("marshal stage exit details: %w", err)
	}

	entry := &domain.CaseActivity{
		ID:         uuid.New(),
		FirmID:     input.FirmID,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Action:     domain.ActivityStageExited,
		Details:    details,
		CreatedAt:  input.ExitedAt,
	}
	if err := a.activityRepo.Append(ctx, entry); err != nil {
		if a.metrics != nil {
			a.metrics.RecordActivityLogFailure()
		}
		logger.Error("failed to record stage exit",
			"entityID", input.EntityID,
			"stageID", input.StageID,
			"error", err,
		)
		return fmt.Errorf("append stage exit entry: %w", err)
	}

	if a.metrics != nil {
		a.metrics.RecordActivityLogWrite()
		a.metrics.RecordStageTransition(string(input.EntityType), input.Trigger, dwell.Seconds())
	}
	return nil
}

// CheckStageRequirements reports whether every mandatory requirement of the
// stage has been completed. Optional requirements are ignored.
func (a *LifecycleActivities) CheckStageRequirements(ctx context.Context, input CheckStageRequirementsInput) (*CheckStageRequirementsOutput, error) {
	logger := activity.GetLogger(ctx)

	completed := make(map[string]struct{}, len(input.CompletedIDs))
	for _, id := range input.CompletedIDs {
		completed[id] = struct{}{}
	}

	out := &CheckStageRequirementsOutput{Satisfied: true}
	for _, r := range input.Requirements {
		if !r.Mandatory {
			continue
		}
		if _, ok := completed[r.ID]; !ok {
			out.Satisfied = false
			out.Missing = append(out.Missing, r.ID)
		}
	}

	logger.Info("stage requirements checked",
		"stageID", input.StageID,
		"satisfied", out.Satisfied,
		"missing", len(out.Missing),
	)
	return out, nil
}

// LogCaseActivity appends one audit log entry for the lifecycle.
func (a *LifecycleActivities) LogCaseActivity(ctx context.Context, input LogCaseActivityInput) error {
	logger := activity.GetLogger(ctx)

	var details json.RawMessage
	if len(input.Details) > 0 {
		b, err := json.Marshal(input.Details)
		if err != nil {
			return fmt.Errorf("marshal activity details: %w", err)
		}
		details = b
	}

	entry := &domain.CaseActivity{
		ID:         uuid.New(),
		FirmID:     input.FirmID,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Action:     input.Action,
		Details:    details,
		CreatedAt:  input.OccurredAt,
	}
	if err := a.activityRepo.Append(ctx, entry); err != nil {
		if a.metrics != nil {
			a.metrics.RecordActivityLogFailure()
		}
		logger.Error("failed to append activity log entry",
			"entityID", input.EntityID,
			"action", input.Action,
			"error", err,
		)
		return fmt.Errorf("append activity %s: %w", input.Action, err)
	}

	if a.metrics != nil {
		a.metrics.RecordActivityLogWrite()
	}
	logger.Info("activity logged",
		"entityID", input.EntityID,
		"action", input.Action,
	)
	return nil
}

// UpdateCaseStatus updates the persisted lifecycle status of the record.
func (a *LifecycleActivities) UpdateCaseStatus(ctx context.Context, input UpdateCaseStatusInput) error {
	logger := activity.GetLogger(ctx)
	logger.Info("updating record status",
		"entityType", input.EntityType,
		"entityID", input.EntityID,
		"status", input.Status,
	)

	store, err := a.storeFor(input.EntityType)
	if err != nil {
		return err
	}

	if err := store.UpdateStatus(ctx, input.FirmID, input.EntityID, input.Status); err != nil {
		logger.Error("failed to update record status",
			"entityID", input.EntityID,
			"status", input.Status,
			"error", err,
		)
		return fmt.Errorf("update status to %s: %w", input.Status, err)
	}

	logger.Info("record status updated",
		"entityID", input.EntityID,
		"status", input.Status,
	)
	return nil
}
