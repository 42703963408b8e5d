package workflows

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	litemporal "github.com/mizanhq/case-lifecycle-service/internal/temporal"
	"github.com/mizanhq/case-lifecycle-service/internal/temporal/activities"
)

// Re-export signal/query name constants from the parent temporal package for
// convenience. These are defined in the parent package so the server layer can
// reference them without depending on the workflows package.
const (
	SignalCompleteRequirement = litemporal.SignalCompleteRequirement
	SignalTransitionStage     = litemporal.SignalTransitionStage
	SignalAddDeadline         = litemporal.SignalAddDeadline
	SignalAddCourtDate        = litemporal.SignalAddCourtDate
	SignalPauseWorkflow       = litemporal.SignalPauseWorkflow
	SignalResumeWorkflow      = litemporal.SignalResumeWorkflow

	QueryWorkflowState = litemporal.QueryWorkflowState
	QueryCurrentStage  = litemporal.QueryCurrentStage
	QueryRequirements  = litemporal.QueryRequirements
)

// Activity timeout constants.
const (
	templateActivityTimeout = 30 * time.Second
	recordActivityTimeout   = 30 * time.Second
	notifyActivityTimeout   = 30 * time.Second
)

// defaultPollInterval bounds how long the orchestration sleeps between
// reminder sweeps when no signal arrives and the input does not override it.
// Reminder latency is therefore at most one hour past a window boundary.
const defaultPollInterval = time.Hour

// Transition triggers recorded in audit entries and metrics.
const (
	triggerInitial = "initial"
	triggerManual  = "manual"
	triggerAuto    = "auto"
)

// LifecycleWorkflowInput is an alias for the shared input type defined in the
// parent temporal package. This allows the workflow function signature to
// remain unchanged while the type is importable from either location.
type LifecycleWorkflowInput = litemporal.LifecycleWorkflowInput

// LifecycleWorkflowResult contains the final results of a lifecycle workflow.
type LifecycleWorkflowResult struct {
	// EntityID is the case or offboarding record the workflow drove.
	EntityID uuid.UUID

	// EntityType is the lifecycle kind.
	EntityType domain.EntityType

	// FinalStageID is the stage the lifecycle ended in.
	FinalStageID string

	// Status is the final persisted status (closed or cancelled).
	Status string

	// RequirementsCompleted is the total number of requirement completions
	// applied over the run.
	RequirementsCompleted int

	// StagesVisited counts stage entries, including the initial stage.
	StagesVisited int

	// Duration is the total workflow execution time in seconds.
	Duration float64
}

// pauseEvent is one queued pause or resume toggle. Toggles are applied in
// arrival order so pause-resume-pause sequences land correctly.
type pauseEvent struct {
	Pause  bool
	Reason string
	By     string
}

// lifecycleSignals collects queued signal payloads. The drainer goroutines
// are the only writers and the main loop the only consumer, all on the
// workflow's single logical thread, so no locking is needed.
type lifecycleSignals struct {
	requirements []CompleteRequirementSignal
	deadlines    []AddDeadlineSignal
	courtDates   []AddCourtDateSignal
	pauseEvents  []pauseEvent

	// transition holds the most recent unapplied manual transition request.
	// transitionSeq increments on every arrival so the loop can tell a fresh
	// request from one it already consumed.
	transition    TransitionStageSignal
	transitionSeq int
}

// consumed tracks how far the main loop has drained each signal queue.
type consumed struct {
	requirements  int
	deadlines     int
	courtDates    int
	pauseEvents   int
	transitionSeq int
}

// lifecycleEngine carries the per-run state of one lifecycle workflow
// execution. All methods run on the workflow goroutine.
type lifecycleEngine struct {
	input    LifecycleWorkflowInput
	state    *domain.WorkflowState
	template domain.WorkflowTemplate
	sig      *lifecycleSignals
	done     consumed

	// Activity nil-pointer variables for method references.
	templateAct  *activities.TemplateActivities
	lifecycleAct *activities.LifecycleActivities
	notifyAct    *activities.NotificationActivities
	reminderAct  *activities.ReminderActivities

	recordCtx workflow.Context
	notifyCtx workflow.Context

	pollInterval time.Duration
	reminderDays int

	stagesVisited int
}

// CaseLifecycleWorkflow drives a legal case through its template stages. See
// runLifecycle for the orchestration contract.
func CaseLifecycleWorkflow(ctx workflow.Context, input LifecycleWorkflowInput) (*LifecycleWorkflowResult, error) {
	input.EntityType = domain.EntityTypeCase
	return runLifecycle(ctx, input)
}

// EmployeeOffboardingWorkflow drives an employee offboarding through its
// template stages. The orchestration is shared with case lifecycles; only the
// entity type, template resolution, and record store differ.
func EmployeeOffboardingWorkflow(ctx workflow.Context, input LifecycleWorkflowInput) (*LifecycleWorkflowResult, error) {
	input.EntityType = domain.EntityTypeOffboarding
	return runLifecycle(ctx, input)
}

// runLifecycle is the shared lifecycle orchestration.
//
// The run proceeds as follows:
//  1. Resolve and cache the workflow template (pinned or firm-active)
//  2. Enter the initial stage and mark the record active
//  3. Loop: apply queued signals in order, auto-transition when a stage's
//     mandatory requirements are satisfied, and sweep deadline/court date
//     reminders at least hourly
//  4. Finish when a final stage is reached
//
// While paused, stage transitions, requirement processing, and reminder
// sweeps are suspended; queued signals are applied on resume. Cancellation
// aborts the run without stage exit side effects.
func runLifecycle(ctx workflow.Context, input LifecycleWorkflowInput) (*LifecycleWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	startTime := workflow.Now(ctx)

	eng := &lifecycleEngine{
		input:        input,
		sig:          &lifecycleSignals{},
		pollInterval: input.PollInterval,
		reminderDays: input.DeadlineReminderDays,
		state: &domain.WorkflowState{
			EntityID:   input.EntityID,
			EntityType: input.EntityType,
			FirmID:     input.FirmID,
			StartedAt:  startTime,
		},
	}
	if eng.pollInterval <= 0 {
		eng.pollInterval = defaultPollInterval
	}
	if eng.reminderDays <= 0 {
		eng.reminderDays = defaultDeadlineReminderDays
	}

	if err := eng.registerQueryHandlers(ctx); err != nil {
		logger.Error("failed to register query handlers", "error", err)
		return nil, fmt.Errorf("register query handlers: %w", err)
	}
	eng.startSignalDrainers(ctx)

	// Build activity option contexts with retry policies.
	templateCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: templateActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    3,
		},
	})
	eng.recordCtx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: recordActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    500 * time.Millisecond,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	})
	eng.notifyCtx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: notifyActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    500 * time.Millisecond,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	})

	// Resolve and cache the template. The cached stage list is immutable for
	// the rest of the run; template edits never affect in-flight lifecycles.
	var tplOutput activities.GetWorkflowTemplateOutput
	err := workflow.ExecuteActivity(templateCtx, eng.templateAct.GetWorkflowTemplate, activities.GetWorkflowTemplateInput{
		FirmID:     input.FirmID,
		EntityType: input.EntityType,
		TemplateID: input.TemplateID,
	}).Get(ctx, &tplOutput)
	if err != nil {
		return eng.handleFailure(ctx, startTime, fmt.Errorf("get workflow template: %w", err))
	}

	eng.template = *tplOutput.Template
	eng.state.TemplateID = eng.template.ID
	eng.state.Stages = eng.template.Stages

	initial, err := eng.template.InitialStage()
	if err != nil {
		return eng.handleFailure(ctx, startTime, fmt.Errorf("resolve initial stage: %w", err))
	}

	logger.Info("lifecycle starting",
		"entityType", input.EntityType,
		"entityID", input.EntityID,
		"templateID", eng.template.ID,
		"initialStage", initial.ID,
	)

	// Mark the record active and enter the initial stage.
	err = workflow.ExecuteActivity(eng.recordCtx, eng.lifecycleAct.UpdateCaseStatus, activities.UpdateCaseStatusInput{
		FirmID:     input.FirmID,
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Status:     domain.CaseStatusActive,
	}).Get(ctx, nil)
	if err != nil {
		return eng.handleFailure(ctx, startTime, fmt.Errorf("mark record active: %w", err))
	}

	if err := eng.enterStage(ctx, initial, "", triggerInitial, ""); err != nil {
		return eng.handleFailure(ctx, startTime, err)
	}

	// Main orchestration loop.
	for {
		// Pause/resume toggles apply regardless of the pause gate; a resume
		// must be able to lift a pause.
		if err := eng.applyPauseEvents(ctx); err != nil {
			return eng.finish(ctx, startTime, err)
		}

		if !eng.state.IsPaused {
			if err := eng.auditDatedObligations(ctx); err != nil {
				return eng.finish(ctx, startTime, err)
			}
			if err := eng.applyRequirementCompletions(ctx); err != nil {
				return eng.finish(ctx, startTime, err)
			}
			if err := eng.applyManualTransition(ctx); err != nil {
				return eng.finish(ctx, startTime, err)
			}
			if err := eng.autoTransition(ctx); err != nil {
				return eng.finish(ctx, startTime, err)
			}
			if err := eng.sweepReminders(ctx); err != nil {
				return eng.finish(ctx, startTime, err)
			}
		}

		if eng.state.IsTerminal() {
			return eng.finish(ctx, startTime, nil)
		}

		// Sleep until a signal arrives, the next reminder boundary passes, or
		// the poll interval elapses. While paused only a pause/resume toggle
		// can make progress, so the wake predicate narrows to pause events;
		// waking for other queued signals would spin the loop without
		// draining anything.
		timeout := eng.pollInterval
		wake := eng.pendingWork
		if eng.state.IsPaused {
			wake = eng.pendingPauseEvents
		} else {
			now := workflow.Now(ctx)
			next := nextReminderBoundary(eng.state.Deadlines, eng.state.CourtDates, now, eng.reminderDays)
			if !next.IsZero() {
				if until := next.Sub(now); until < timeout {
					timeout = until
				}
			}
		}
		if _, err := workflow.AwaitWithTimeout(ctx, timeout, wake); err != nil {
			return eng.finish(ctx, startTime, err)
		}
	}
}

// registerQueryHandlers exposes the workflow's state to external readers.
func (e *lifecycleEngine) registerQueryHandlers(ctx workflow.Context) error {
	if err := workflow.SetQueryHandler(ctx, QueryWorkflowState, func() (*domain.WorkflowState, error) {
		return e.state, nil
	}); err != nil {
		return err
	}
	if err := workflow.SetQueryHandler(ctx, QueryCurrentStage, func() (*CurrentStageView, error) {
		return &CurrentStageView{
			StageID:   e.state.CurrentStageID,
			Stage:     e.state.CurrentStage(),
			EnteredAt: e.state.CurrentStageEnteredAt,
		}, nil
	}); err != nil {
		return err
	}
	return workflow.SetQueryHandler(ctx, QueryRequirements, func() (*RequirementsView, error) {
		view := &RequirementsView{StageID: e.state.CurrentStageID}
		for _, r := range e.state.PendingRequirements() {
			view.Pending = append(view.Pending, r.ID)
		}
		for _, c := range e.state.CompletedForStage(e.state.CurrentStageID) {
			view.Completed = append(view.Completed, c.RequirementID)
		}
		return view, nil
	})
}

// startSignalDrainers spawns one goroutine per signal channel. Drainers queue
// payloads for the main loop, which keeps ordering and the pause gate
// deterministic; dated obligations are additionally appended to state at
// arrival so queries reflect them before the loop runs their side effects.
func (e *lifecycleEngine) startSignalDrainers(ctx workflow.Context) {
	logger := workflow.GetLogger(ctx)

	reqCh := workflow.GetSignalChannel(ctx, SignalCompleteRequirement)
	workflow.Go(ctx, func(gCtx workflow.Context) {
		for {
			var s CompleteRequirementSignal
			if !reqCh.Receive(gCtx, &s) {
				return
			}
			e.sig.requirements = append(e.sig.requirements, s)
		}
	})

	transCh := workflow.GetSignalChannel(ctx, SignalTransitionStage)
	workflow.Go(ctx, func(gCtx workflow.Context) {
		for {
			var s TransitionStageSignal
			if !transCh.Receive(gCtx, &s) {
				return
			}
			e.sig.transition = s
			e.sig.transitionSeq++
		}
	})

	deadlineCh := workflow.GetSignalChannel(ctx, SignalAddDeadline)
	workflow.Go(ctx, func(gCtx workflow.Context) {
		for {
			var s AddDeadlineSignal
			if !deadlineCh.Receive(gCtx, &s) {
				return
			}
			if s.Date.IsZero() {
				logger.Warn("ignoring deadline with zero date")
				continue
			}
			// Recorded in state right away so queries see the deadline even
			// while paused; the audit entry waits for the main loop.
			e.state.Deadlines = append(e.state.Deadlines, domain.Deadline{
				Date:        s.Date,
				Description: s.Description,
			})
			e.sig.deadlines = append(e.sig.deadlines, s)
		}
	})

	courtCh := workflow.GetSignalChannel(ctx, SignalAddCourtDate)
	workflow.Go(ctx, func(gCtx workflow.Context) {
		for {
			var s AddCourtDateSignal
			if !courtCh.Receive(gCtx, &s) {
				return
			}
			if s.Date.IsZero() {
				logger.Warn("ignoring court date with zero date")
				continue
			}
			e.state.CourtDates = append(e.state.CourtDates, domain.CourtDate{
				Date:        s.Date,
				Description: s.Description,
				Location:    s.Location,
			})
			e.sig.courtDates = append(e.sig.courtDates, s)
		}
	})

	pauseCh := workflow.GetSignalChannel(ctx, SignalPauseWorkflow)
	workflow.Go(ctx, func(gCtx workflow.Context) {
		for {
			var s PauseSignal
			if !pauseCh.Receive(gCtx, &s) {
				return
			}
			e.sig.pauseEvents = append(e.sig.pauseEvents, pauseEvent{Pause: true, Reason: s.Reason, By: s.PausedBy})
		}
	})

	resumeCh := workflow.GetSignalChannel(ctx, SignalResumeWorkflow)
	workflow.Go(ctx, func(gCtx workflow.Context) {
		for {
			var s ResumeSignal
			if !resumeCh.Receive(gCtx, &s) {
				return
			}
			e.sig.pauseEvents = append(e.sig.pauseEvents, pauseEvent{Pause: false, By: s.ResumedBy})
		}
	})
}

// pendingWork reports whether any queued signal awaits processing.
func (e *lifecycleEngine) pendingWork() bool {
	return e.done.requirements < len(e.sig.requirements) ||
		e.done.deadlines < len(e.sig.deadlines) ||
		e.done.courtDates < len(e.sig.courtDates) ||
		e.done.pauseEvents < len(e.sig.pauseEvents) ||
		e.done.transitionSeq < e.sig.transitionSeq
}

// pendingPauseEvents reports whether an unapplied pause or resume toggle is
// queued. It is the wake predicate while the lifecycle is paused.
func (e *lifecycleEngine) pendingPauseEvents() bool {
	return e.done.pauseEvents < len(e.sig.pauseEvents)
}

// applyPauseEvents drains queued pause/resume toggles in arrival order.
// Redundant toggles (pause while paused, resume while running) are ignored.
func (e *lifecycleEngine) applyPauseEvents(ctx workflow.Context) error {
	logger := workflow.GetLogger(ctx)

	for e.done.pauseEvents < len(e.sig.pauseEvents) {
		ev := e.sig.pauseEvents[e.done.pauseEvents]
		e.done.pauseEvents++

		if ev.Pause == e.state.IsPaused {
			logger.Warn("ignoring redundant pause toggle", "pause", ev.Pause)
			continue
		}

		now := workflow.Now(ctx)
		if ev.Pause {
			e.state.IsPaused = true
			e.state.PausedAt = &now
		} else {
			e.state.IsPaused = false
			e.state.PausedAt = nil
		}

		status := domain.CaseStatusActive
		action := domain.ActivityWorkflowResumed
		details := map[string]interface{}{"by": ev.By}
		if ev.Pause {
			status = domain.CaseStatusOnHold
			action = domain.ActivityWorkflowPaused
			details["reason"] = ev.Reason
		}

		err := workflow.ExecuteActivity(e.recordCtx, e.lifecycleAct.UpdateCaseStatus, activities.UpdateCaseStatusInput{
			FirmID:     e.input.FirmID,
			EntityType: e.input.EntityType,
			EntityID:   e.input.EntityID,
			Status:     status,
		}).Get(ctx, nil)
		if err != nil {
			return fmt.Errorf("update status to %s: %w", status, err)
		}

		if err := e.logActivity(ctx, action, details); err != nil {
			return err
		}
		logger.Info("pause state changed", "paused", e.state.IsPaused, "by", ev.By)
	}
	return nil
}

// auditDatedObligations writes the audit entries for deadline and court date
// additions the drainers already recorded in state. Kept separate from the
// state append so additions during a pause are visible to queries immediately
// while their side effects wait for resume.
func (e *lifecycleEngine) auditDatedObligations(ctx workflow.Context) error {
	for e.done.deadlines < len(e.sig.deadlines) {
		s := e.sig.deadlines[e.done.deadlines]
		e.done.deadlines++

		err := e.logActivity(ctx, domain.ActivityDeadlineAdded, map[string]interface{}{
			"date":        s.Date,
			"description": s.Description,
		})
		if err != nil {
			return err
		}
	}

	for e.done.courtDates < len(e.sig.courtDates) {
		s := e.sig.courtDates[e.done.courtDates]
		e.done.courtDates++

		err := e.logActivity(ctx, domain.ActivityCourtDateAdded, map[string]interface{}{
			"date":        s.Date,
			"description": s.Description,
			"location":    s.Location,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// applyRequirementCompletions drains queued completions. A completion is
// scoped to the stage that is current when it is applied; ids unknown to the
// current stage and duplicate completions are dropped with a warning.
func (e *lifecycleEngine) applyRequirementCompletions(ctx workflow.Context) error {
	logger := workflow.GetLogger(ctx)

	for e.done.requirements < len(e.sig.requirements) {
		s := e.sig.requirements[e.done.requirements]
		e.done.requirements++

		stage := e.state.CurrentStage()
		if stage == nil {
			logger.Warn("requirement completion before stage entry, dropping", "requirementID", s.RequirementID)
			continue
		}

		var known bool
		for _, r := range stage.Requirements {
			if r.ID == s.RequirementID {
				known = true
				break
			}
		}
		if !known {
			logger.Warn("requirement not part of current stage, dropping",
				"requirementID", s.RequirementID,
				"stageID", stage.ID,
			)
			continue
		}
		if e.state.RequirementCompleted(stage.ID, s.RequirementID) {
			logger.Warn("requirement already completed in stage, dropping",
				"requirementID", s.RequirementID,
				"stageID", stage.ID,
			)
			continue
		}

		e.state.CompletedRequirements = append(e.state.CompletedRequirements, domain.CompletedRequirement{
			RequirementID: s.RequirementID,
			StageID:       stage.ID,
			CompletedBy:   s.CompletedBy,
			Notes:         s.Notes,
			CompletedAt:   workflow.Now(ctx),
		})

		err := e.logActivity(ctx, domain.ActivityRequirementCompleted, map[string]interface{}{
			"requirement_id": s.RequirementID,
			"stage_id":       stage.ID,
			"completed_by":   s.CompletedBy,
		})
		if err != nil {
			return err
		}
		logger.Info("requirement completed",
			"requirementID", s.RequirementID,
			"stageID", stage.ID,
		)
	}
	return nil
}

// applyManualTransition honors the most recent transition request, if any.
// A target stage that is not part of the cached template is a no-op with a
// warning so a mistyped stage id never wedges the lifecycle.
func (e *lifecycleEngine) applyManualTransition(ctx workflow.Context) error {
	if e.done.transitionSeq >= e.sig.transitionSeq {
		return nil
	}
	logger := workflow.GetLogger(ctx)

	s := e.sig.transition
	e.done.transitionSeq = e.sig.transitionSeq

	target := e.template.StageByID(s.TargetStageID)
	if target == nil {
		logger.Warn("transition target not in template, ignoring",
			"targetStageID", s.TargetStageID,
		)
		return nil
	}
	if target.ID == e.state.CurrentStageID {
		logger.Warn("transition target is current stage, ignoring",
			"targetStageID", s.TargetStageID,
		)
		return nil
	}

	return e.transitionTo(ctx, target, triggerManual, s.Notes)
}

// autoTransition advances through stages whose mandatory requirements are
// satisfied, as long as auto-transition is enabled and a next stage exists.
// A chain of already-satisfied stages is walked in one pass.
func (e *lifecycleEngine) autoTransition(ctx workflow.Context) error {
	for {
		stage := e.state.CurrentStage()
		if stage == nil || !stage.AutoTransition || stage.IsFinal {
			return nil
		}

		var completedIDs []string
		for _, c := range e.state.CompletedForStage(stage.ID) {
			completedIDs = append(completedIDs, c.RequirementID)
		}

		var check activities.CheckStageRequirementsOutput
		err := workflow.ExecuteActivity(e.recordCtx, e.lifecycleAct.CheckStageRequirements, activities.CheckStageRequirementsInput{
			StageID:      stage.ID,
			Requirements: stage.Requirements,
			CompletedIDs: completedIDs,
		}).Get(ctx, &check)
		if err != nil {
			return fmt.Errorf("check stage requirements: %w", err)
		}
		if !check.Satisfied {
			return nil
		}

		next := e.template.NextStageByOrder(stage.ID)
		if next == nil {
			return nil
		}

		if err := e.transitionTo(ctx, next, triggerAuto, ""); err != nil {
			return err
		}
	}
}

// transitionTo runs the exit side effects of the current stage, then the
// entry side effects of the target stage.
func (e *lifecycleEngine) transitionTo(ctx workflow.Context, target *domain.Stage, trigger, notes string) error {
	from := e.state.CurrentStage()
	if from != nil {
		if err := e.exitStage(ctx, from, trigger); err != nil {
			return err
		}
	}
	fromID := ""
	if from != nil {
		fromID = from.ID
	}
	return e.enterStage(ctx, target, fromID, trigger, notes)
}

// exitStage runs the exit side effects for a stage: the optional exit
// notification and the audit entry with dwell time.
func (e *lifecycleEngine) exitStage(ctx workflow.Context, stage *domain.Stage, trigger string) error {
	now := workflow.Now(ctx)

	if stage.NotifyOnExit {
		err := workflow.ExecuteActivity(e.notifyCtx, e.notifyAct.NotifyStageTransition, activities.NotifyStageTransitionInput{
			FirmID:        e.input.FirmID,
			EntityType:    e.input.EntityType,
			EntityID:      e.input.EntityID,
			Entered:       false,
			StageID:       stage.ID,
			StageName:     stage.Name,
			DurationHours: now.Sub(e.state.CurrentStageEnteredAt).Hours(),
		}).Get(ctx, nil)
		if err != nil {
			return fmt.Errorf("notify stage exit %s: %w", stage.ID, err)
		}
	}

	err := workflow.ExecuteActivity(e.recordCtx, e.lifecycleAct.ExitStage, activities.ExitStageInput{
		FirmID:     e.input.FirmID,
		EntityType: e.input.EntityType,
		EntityID:   e.input.EntityID,
		StageID:    stage.ID,
		StageName:  stage.Name,
		EnteredAt:  e.state.CurrentStageEnteredAt,
		ExitedAt:   now,
		Trigger:    trigger,
	}).Get(ctx, nil)
	if err != nil {
		return fmt.Errorf("exit stage %s: %w", stage.ID, err)
	}
	return nil
}

// enterStage updates the workflow state and runs the entry side effects for
// a stage: record update, optional entry notification, team notification, and
// audit entry.
func (e *lifecycleEngine) enterStage(ctx workflow.Context, stage *domain.Stage, fromID, trigger, notes string) error {
	logger := workflow.GetLogger(ctx)
	now := workflow.Now(ctx)

	e.state.CurrentStageID = stage.ID
	e.state.CurrentStageEnteredAt = now
	e.stagesVisited++

	err := workflow.ExecuteActivity(e.recordCtx, e.lifecycleAct.EnterStage, activities.EnterStageInput{
		FirmID:     e.input.FirmID,
		EntityType: e.input.EntityType,
		EntityID:   e.input.EntityID,
		StageID:    stage.ID,
		StageName:  stage.Name,
		EnteredAt:  now,
	}).Get(ctx, nil)
	if err != nil {
		return fmt.Errorf("enter stage %s: %w", stage.ID, err)
	}

	if stage.NotifyOnEntry {
		err := workflow.ExecuteActivity(e.notifyCtx, e.notifyAct.NotifyStageTransition, activities.NotifyStageTransitionInput{
			FirmID:      e.input.FirmID,
			EntityType:  e.input.EntityType,
			EntityID:    e.input.EntityID,
			Entered:     true,
			StageID:     stage.ID,
			StageName:   stage.Name,
			FromStageID: fromID,
			Notes:       notes,
		}).Get(ctx, nil)
		if err != nil {
			return fmt.Errorf("notify stage entry %s: %w", stage.ID, err)
		}
	}

	err = workflow.ExecuteActivity(e.notifyCtx, e.notifyAct.NotifyAssignedTeam, activities.NotifyAssignedTeamInput{
		FirmID:           e.input.FirmID,
		EntityType:       e.input.EntityType,
		EntityID:         e.input.EntityID,
		StageID:          stage.ID,
		StageName:        stage.Name,
		RequirementCount: len(stage.Requirements),
	}).Get(ctx, nil)
	if err != nil {
		return fmt.Errorf("notify assigned team for stage %s: %w", stage.ID, err)
	}

	err = e.logActivity(ctx, domain.ActivityStageEntered, map[string]interface{}{
		"stage_id":   stage.ID,
		"stage_name": stage.Name,
		"from":       fromID,
		"trigger":    trigger,
	})
	if err != nil {
		return err
	}

	logger.Info("stage entered",
		"stageID", stage.ID,
		"from", fromID,
		"trigger", trigger,
	)
	return nil
}

// sweepReminders evaluates every tracked deadline and court date against the
// workflow clock and fires the due notifications. Retries are the activity
// retry policy's job; an activity that exhausts its attempts fails the run.
func (e *lifecycleEngine) sweepReminders(ctx workflow.Context) error {
	now := workflow.Now(ctx)

	for i := range e.state.Deadlines {
		d := &e.state.Deadlines[i]
		check := evaluateDeadline(*d, now, e.reminderDays)
		if !check.remind && !check.overdue {
			continue
		}

		err := workflow.ExecuteActivity(e.notifyCtx, e.reminderAct.SendDeadlineReminder, activities.SendDeadlineReminderInput{
			FirmID:      e.input.FirmID,
			EntityType:  e.input.EntityType,
			EntityID:    e.input.EntityID,
			Date:        d.Date,
			Description: d.Description,
			DaysUntil:   check.days,
			Overdue:     check.overdue,
		}).Get(ctx, nil)
		if err != nil {
			return fmt.Errorf("send deadline reminder %q: %w", d.Description, err)
		}

		if check.overdue {
			d.OverdueNotified = true
		} else {
			d.Reminded = true
		}
	}

	for i := range e.state.CourtDates {
		c := &e.state.CourtDates[i]
		check := evaluateCourtDate(*c, now)
		if check.window == "" {
			continue
		}

		err := workflow.ExecuteActivity(e.notifyCtx, e.reminderAct.CreateCourtDateReminder, activities.CreateCourtDateReminderInput{
			FirmID:      e.input.FirmID,
			CaseID:      e.input.EntityID,
			CourtDate:   c.Date,
			Description: c.Description,
			Location:    c.Location,
			HoursUntil:  check.hours,
			Window:      check.window,
			CreatedAt:   now,
		}).Get(ctx, nil)
		if err != nil {
			return fmt.Errorf("create court date reminder %q: %w", c.Description, err)
		}

		switch check.window {
		case "48h":
			c.Reminded48h = true
		case "24h":
			c.Reminded24h = true
		}
	}
	return nil
}

// logActivity appends one audit entry via the logCaseActivity activity.
func (e *lifecycleEngine) logActivity(ctx workflow.Context, action string, details map[string]interface{}) error {
	err := workflow.ExecuteActivity(e.recordCtx, e.lifecycleAct.LogCaseActivity, activities.LogCaseActivityInput{
		FirmID:     e.input.FirmID,
		EntityType: e.input.EntityType,
		EntityID:   e.input.EntityID,
		Action:     action,
		Details:    details,
		OccurredAt: workflow.Now(ctx),
	}).Get(ctx, nil)
	if err != nil {
		return fmt.Errorf("log activity %s: %w", action, err)
	}
	return nil
}

// finish closes out the run. With a nil runErr the lifecycle reached a final
// stage; a cancellation error aborts without stage exit side effects; any
// other error marks the run failed.
func (e *lifecycleEngine) finish(ctx workflow.Context, startTime time.Time, runErr error) (*LifecycleWorkflowResult, error) {
	switch {
	case runErr == nil:
		return e.finalizeCompleted(ctx, startTime)
	case temporal.IsCanceledError(runErr) || ctx.Err() != nil:
		return e.finalizeCancelled(ctx, startTime, runErr)
	default:
		return e.handleFailure(ctx, startTime, runErr)
	}
}

// finalizeCompleted records terminal-stage completion: the record is closed,
// the completion audited, and the workflow_completed event published.
func (e *lifecycleEngine) finalizeCompleted(ctx workflow.Context, startTime time.Time) (*LifecycleWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	now := workflow.Now(ctx)
	e.state.CompletedAt = &now

	err := workflow.ExecuteActivity(e.recordCtx, e.lifecycleAct.UpdateCaseStatus, activities.UpdateCaseStatusInput{
		FirmID:     e.input.FirmID,
		EntityType: e.input.EntityType,
		EntityID:   e.input.EntityID,
		Status:     domain.CaseStatusClosed,
	}).Get(ctx, nil)
	if err != nil {
		return e.handleFailure(ctx, startTime, fmt.Errorf("mark record closed: %w", err))
	}

	if err := e.logActivity(ctx, domain.ActivityWorkflowCompleted, map[string]interface{}{
		"final_stage_id": e.state.CurrentStageID,
	}); err != nil {
		return e.handleFailure(ctx, startTime, err)
	}

	// Fire-and-forget: the terminal event never fails the run.
	_ = workflow.ExecuteActivity(e.notifyCtx, e.notifyAct.NotifyWorkflowFinished, activities.NotifyWorkflowFinishedInput{
		FirmID:       e.input.FirmID,
		EntityType:   e.input.EntityType,
		EntityID:     e.input.EntityID,
		FinalStageID: e.state.CurrentStageID,
		StartedAt:    startTime,
		FinishedAt:   now,
	}).Get(ctx, nil)

	duration := now.Sub(startTime).Seconds()
	logger.Info("lifecycle completed",
		"entityID", e.input.EntityID,
		"finalStage", e.state.CurrentStageID,
		"stagesVisited", e.stagesVisited,
		"duration", duration,
	)

	return &LifecycleWorkflowResult{
		EntityID:              e.input.EntityID,
		EntityType:            e.input.EntityType,
		FinalStageID:          e.state.CurrentStageID,
		Status:                string(domain.CaseStatusClosed),
		RequirementsCompleted: len(e.state.CompletedRequirements),
		StagesVisited:         e.stagesVisited,
		Duration:              duration,
	}, nil
}

// finalizeCancelled aborts the run without running stage exit side effects.
// Cleanup activities run on a disconnected context so they outlive the
// cancellation.
func (e *lifecycleEngine) finalizeCancelled(ctx workflow.Context, startTime time.Time, cause error) (*LifecycleWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("lifecycle cancelled", "entityID", e.input.EntityID, "stage", e.state.CurrentStageID)

	cleanupCtx, cancel := workflow.NewDisconnectedContext(ctx)
	defer cancel()
	cleanupCtx = workflow.WithActivityOptions(cleanupCtx, workflow.ActivityOptions{
		StartToCloseTimeout: recordActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    500 * time.Millisecond,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	})

	_ = workflow.ExecuteActivity(cleanupCtx, e.lifecycleAct.UpdateCaseStatus, activities.UpdateCaseStatusInput{
		FirmID:     e.input.FirmID,
		EntityType: e.input.EntityType,
		EntityID:   e.input.EntityID,
		Status:     domain.CaseStatusCancelled,
	}).Get(cleanupCtx, nil)

	_ = workflow.ExecuteActivity(cleanupCtx, e.lifecycleAct.LogCaseActivity, activities.LogCaseActivityInput{
		FirmID:     e.input.FirmID,
		EntityType: e.input.EntityType,
		EntityID:   e.input.EntityID,
		Action:     domain.ActivityWorkflowCancelled,
		Details:    map[string]interface{}{"stage_id": e.state.CurrentStageID},
		OccurredAt: workflow.Now(cleanupCtx),
	}).Get(cleanupCtx, nil)

	return nil, cause
}

// handleFailure marks the record failed-adjacent state and returns the
// original error. The record keeps its last stage; only the status and audit
// trail record the failure.
func (e *lifecycleEngine) handleFailure(ctx workflow.Context, startTime time.Time, originalErr error) (*LifecycleWorkflowResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Error("lifecycle failed", "entityID", e.input.EntityID, "error", originalErr)

	// Use a disconnected context so failure bookkeeping survives a cancelled
	// root context.
	failCtx, cancel := workflow.NewDisconnectedContext(ctx)
	defer cancel()
	failCtx = workflow.WithActivityOptions(failCtx, workflow.ActivityOptions{
		StartToCloseTimeout: recordActivityTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    500 * time.Millisecond,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	})

	_ = workflow.ExecuteActivity(failCtx, e.lifecycleAct.LogCaseActivity, activities.LogCaseActivityInput{
		FirmID:     e.input.FirmID,
		EntityType: e.input.EntityType,
		EntityID:   e.input.EntityID,
		Action:     domain.ActivityWorkflowFailed,
		Details:    map[string]interface{}{"error": originalErr.Error()},
		OccurredAt: workflow.Now(failCtx),
	}).Get(failCtx, nil)

	_ = workflow.ExecuteActivity(failCtx, e.notifyAct.NotifyWorkflowFinished, activities.NotifyWorkflowFinishedInput{
		FirmID:       e.input.FirmID,
		EntityType:   e.input.EntityType,
		EntityID:     e.input.EntityID,
		FinalStageID: e.state.CurrentStageID,
		Failed:       true,
		StartedAt:    startTime,
		FinishedAt:   workflow.Now(failCtx),
	}).Get(failCtx, nil)

	return nil, originalErr
}
