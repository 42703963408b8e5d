// Package activities provides Temporal activity implementations for the
// case lifecycle orchestration.
//
// Activity inputs and outputs are defined as serializable structs that cross the
// Temporal serialization boundary. Each activity receives an input struct and
// returns an output struct (or error). All fields must be exported for JSON
// serialization by the Temporal SDK's default data converter.
package activities

import (
	"time"

	"github.com/google/uuid"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// GetWorkflowTemplateInput contains the parameters for template resolution.
type GetWorkflowTemplateInput struct {
	// FirmID is the tenant firm identifier.
	FirmID string

	// EntityType selects which lifecycle kind the template must drive.
	EntityType domain.EntityType

	// TemplateID optionally pins a specific template. When nil the firm's
	// active template for the entity type is resolved.
	TemplateID *uuid.UUID
}

// GetWorkflowTemplateOutput contains the resolved template.
type GetWorkflowTemplateOutput struct {
	// Template is the full template including its stage definitions. The
	// workflow caches the stages for the rest of the run.
	Template *domain.WorkflowTemplate
}

// EnterStageInput contains the parameters for the stage entry activity.
type EnterStageInput struct {
	// FirmID is the tenant firm identifier.
	FirmID string

	// EntityType and EntityID identify the record entering the stage.
	EntityType domain.EntityType
	EntityID   uuid.UUID

	// StageID and StageName identify the stage being entered.
	StageID   string
	StageName string

	// EnteredAt is the workflow-clock time of entry.
	EnteredAt time.Time
}

// ExitStageInput contains the parameters for the stage exit activity.
type ExitStageInput struct {
	// FirmID is the tenant firm identifier.
	FirmID string

	// EntityType and EntityID identify the record exiting the stage.
	EntityType domain.EntityType
	EntityID   uuid.UUID

	// StageID and StageName identify the stage being exited.
	StageID   string
	StageName string

	// EnteredAt is when the stage had been entered, used to compute dwell time.
	EnteredAt time.Time

	// ExitedAt is the workflow-clock time of exit.
	ExitedAt time.Time

	// Trigger says what caused the exit: "manual" or "auto".
	Trigger string
}

// CheckStageRequirementsInput contains the parameters for the requirement
// check activity.
type CheckStageRequirementsInput struct {
	// StageID is the stage being checked.
	StageID string

	// Requirements is the stage's requirement list.
	Requirements []domain.Requirement

	// CompletedIDs lists the requirement ids completed while this stage was
	// current.
	CompletedIDs []string
}

// CheckStageRequirementsOutput reports whether the stage can auto-transition.
type CheckStageRequirementsOutput struct {
	// Satisfied is true when every mandatory requirement is completed.
	Satisfied bool

	// Missing lists the mandatory requirement ids still outstanding.
	Missing []string
}

// NotifyStageTransitionInput contains the parameters for the stage transition
// notification activity.
type NotifyStageTransitionInput struct {
	// FirmID is the tenant firm identifier.
	FirmID string

	// EntityType and EntityID identify the record that transitioned.
	EntityType domain.EntityType
	EntityID   uuid.UUID

	// Entered is true for stage entry, false for stage exit.
	Entered bool

	// StageID and StageName identify the stage.
	StageID   string
	StageName string

	// FromStageID is the previous stage on entry notifications.
	FromStageID string

	// Notes carries optional transition context supplied by the signal.
	Notes string

	// DurationHours is the dwell time in the exited stage, for exit
	// notifications.
	DurationHours float64
}

// NotifyAssignedTeamInput contains the parameters for the team notification
// activity.
type NotifyAssignedTeamInput struct {
	// FirmID is the tenant firm identifier.
	FirmID string

	// EntityType and EntityID identify the record the team works.
	EntityType domain.EntityType
	EntityID   uuid.UUID

	// StageID and StageName identify the stage the team is notified about.
	StageID   string
	StageName string

	// RequirementCount is how many requirements the stage carries.
	RequirementCount int
}

// NotifyWorkflowFinishedInput contains the parameters for the terminal
// lifecycle event.
type NotifyWorkflowFinishedInput struct {
	// FirmID is the tenant firm identifier.
	FirmID string

	// EntityType and EntityID identify the finished lifecycle.
	EntityType domain.EntityType
	EntityID   uuid.UUID

	// FinalStageID is the stage the lifecycle ended in.
	FinalStageID string

	// Failed selects the workflow_failed event instead of workflow_completed.
	Failed bool

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// LogCaseActivityInput contains the parameters for the audit log activity.
type LogCaseActivityInput struct {
	// FirmID is the tenant firm identifier.
	FirmID string

	// EntityType and EntityID identify the record the entry belongs to.
	EntityType domain.EntityType
	EntityID   uuid.UUID

	// Action is one of the domain.Activity* constants.
	Action string

	// Details carries action-specific structured context. Values must be
	// JSON-serializable.
	Details map[string]interface{}

	// OccurredAt is the workflow-clock time of the logged action.
	OccurredAt time.Time
}

// SendDeadlineReminderInput contains the parameters for the deadline reminder
// activity.
type SendDeadlineReminderInput struct {
	// FirmID is the tenant firm identifier.
	FirmID string

	// EntityType and EntityID identify the record the deadline belongs to.
	EntityType domain.EntityType
	EntityID   uuid.UUID

	// Date is when the deadline falls due.
	Date time.Time

	// Description says what is due.
	Description string

	// DaysUntil is the whole-day countdown; negative values are overdue.
	DaysUntil int

	// Overdue selects the overdue notification instead of the approaching
	// reminder.
	Overdue bool
}

// CreateCourtDateReminderInput contains the parameters for the court date
// reminder activity.
type CreateCourtDateReminderInput struct {
	// FirmID is the tenant firm identifier.
	FirmID string

	// CaseID is the case the hearing belongs to.
	CaseID uuid.UUID

	// CourtDate is the hearing date and time.
	CourtDate time.Time

	// Description says what the hearing is about.
	Description string

	// Location is the court or hearing room.
	Location string

	// HoursUntil is the whole-hour countdown to the hearing.
	HoursUntil int

	// Window is the reminder window that fired ("48h" or "24h").
	Window string

	// CreatedAt is the workflow-clock time the reminder fired.
	CreatedAt time.Time
}

// UpdateCaseStatusInput contains the parameters for the status update activity.
type UpdateCaseStatusInput struct {
	// FirmID is the tenant firm identifier.
	FirmID string

	// EntityType and EntityID identify the record to update.
	EntityType domain.EntityType
	EntityID   uuid.UUID

	// Status is the new persisted lifecycle status.
	Status domain.CaseStatus
}
