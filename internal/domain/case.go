package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CaseStatus is the persisted lifecycle status of a case or offboarding record.
type CaseStatus string

// Case statuses.
const (
	// CaseStatusOpen is a record created but not yet driven by a workflow.
	CaseStatusOpen CaseStatus = "open"

	// CaseStatusActive is a record with a running lifecycle workflow.
	CaseStatusActive CaseStatus = "active"

	// CaseStatusOnHold is a record whose workflow is paused.
	CaseStatusOnHold CaseStatus = "on_hold"

	// CaseStatusClosed is a record whose workflow reached a terminal stage.
	CaseStatusClosed CaseStatus = "closed"

	// CaseStatusCancelled is a record whose workflow was cancelled. The
	// orchestrator performs no compensating cleanup; callers restore prior
	// status themselves.
	CaseStatusCancelled CaseStatus = "cancelled"
)

// Case is the persisted legal case record the orchestration drives. Only the
// fields the lifecycle touches are modeled here; the wider matter record
// (parties, billing, documents) lives in other services.
type Case struct {
	// ID is the case identifier.
	ID uuid.UUID `json:"id"`

	// FirmID scopes the case to a tenant firm.
	FirmID string `json:"firm_id"`

	// Title is the case caption.
	Title string `json:"title"`

	// CaseType classifies the case (litigation, labor, commercial, ...).
	CaseType string `json:"case_type"`

	// Status is the persisted lifecycle status.
	Status CaseStatus `json:"status"`

	// CurrentStageID mirrors the workflow's current stage for dashboard reads.
	CurrentStageID string `json:"current_stage_id,omitempty"`

	// StageEnteredAt is when the current stage was entered.
	StageEnteredAt *time.Time `json:"stage_entered_at,omitempty"`

	// AssignedTeamID is the team notified on stage transitions.
	AssignedTeamID string `json:"assigned_team_id,omitempty"`

	// WorkflowID and RunID track the Temporal execution driving this case.
	WorkflowID string `json:"workflow_id,omitempty"`
	RunID      string `json:"run_id,omitempty"`

	// CreatedAt is when the case was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the case was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Offboarding is the persisted employee offboarding record.
type Offboarding struct {
	// ID is the offboarding record identifier.
	ID uuid.UUID `json:"id"`

	// FirmID scopes the record to a tenant firm.
	FirmID string `json:"firm_id"`

	// EmployeeID references the HR employee record.
	EmployeeID uuid.UUID `json:"employee_id"`

	// EmployeeName is denormalized for notification payloads.
	EmployeeName string `json:"employee_name"`

	// Reason is the separation reason (resignation, termination, ...).
	Reason string `json:"reason"`

	// LastWorkingDay is the employee's final day.
	LastWorkingDay time.Time `json:"last_working_day"`

	// Status is the persisted lifecycle status.
	Status CaseStatus `json:"status"`

	// CurrentStageID mirrors the workflow's current stage.
	CurrentStageID string `json:"current_stage_id,omitempty"`

	// StageEnteredAt is when the current stage was entered.
	StageEnteredAt *time.Time `json:"stage_entered_at,omitempty"`

	// AssignedTeamID is the HR team handling the offboarding.
	AssignedTeamID string `json:"assigned_team_id,omitempty"`

	// WorkflowID and RunID track the Temporal execution.
	WorkflowID string `json:"workflow_id,omitempty"`
	RunID      string `json:"run_id,omitempty"`

	// CreatedAt is when the record was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the record was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Activity log action constants. These are the actions the orchestration loop
// records through the logCaseActivity activity.
const (
	ActivityStageEntered         = "stage_entered"
	ActivityStageExited          = "stage_exited"
	ActivityRequirementCompleted = "requirement_completed"
	ActivityDeadlineAdded        = "deadline_added"
	ActivityCourtDateAdded       = "court_date_added"
	ActivityWorkflowPaused       = "workflow_paused"
	ActivityWorkflowResumed      = "workflow_resumed"
	ActivityWorkflowCompleted    = "workflow_completed"
	ActivityWorkflowFailed       = "workflow_failed"
	ActivityWorkflowCancelled    = "workflow_cancelled"
)

// CaseActivity is one append-only audit log entry for a lifecycle.
type CaseActivity struct {
	// ID is the log entry identifier.
	ID uuid.UUID `json:"id"`

	// FirmID scopes the entry to a tenant firm.
	FirmID string `json:"firm_id"`

	// EntityType and EntityID identify the record the entry belongs to.
	EntityType EntityType `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`

	// Action is one of the Activity* constants.
	Action string `json:"action"`

	// Details carries action-specific structured context.
	Details json.RawMessage `json:"details,omitempty"`

	// CreatedAt is when the entry was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// CourtDateReminder is a persisted reminder row produced by the
// createCourtDateReminder activity so the notification service can render
// calendar entries.
type CourtDateReminder struct {
	// ID is the reminder identifier.
	ID uuid.UUID `json:"id"`

	// FirmID scopes the reminder to a tenant firm.
	FirmID string `json:"firm_id"`

	// CaseID is the case the hearing belongs to.
	CaseID uuid.UUID `json:"case_id"`

	// CourtDate is the hearing date and time.
	CourtDate time.Time `json:"court_date"`

	// Description says what the hearing is about.
	Description string `json:"description"`

	// Window is the reminder window that produced this row ("48h" or "24h").
	Window string `json:"window"`

	// CreatedAt is when the reminder was recorded.
	CreatedAt time.Time `json:"created_at"`
}
