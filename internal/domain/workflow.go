package domain

import (
	"time"

	"github.com/google/uuid"
)

// EntityType identifies the kind of business record a workflow instance governs.
type EntityType string

// Entity types.
const (
	// EntityTypeCase is a legal case lifecycle.
	EntityTypeCase EntityType = "case"

	// EntityTypeOffboarding is an employee offboarding lifecycle.
	EntityTypeOffboarding EntityType = "employee_offboarding"
)

// CompletedRequirement records one requirement completion. A requirement is
// scoped to the stage it was completed in: the same requirement id completed
// again in a later stage is a distinct fact.
type CompletedRequirement struct {
	// RequirementID is the requirement that was completed.
	RequirementID string `json:"requirement_id"`

	// StageID is the stage that was current when the requirement completed.
	StageID string `json:"stage_id"`

	// CompletedBy is the user who completed the requirement.
	CompletedBy string `json:"completed_by,omitempty"`

	// Notes carries optional free-form context.
	Notes string `json:"notes,omitempty"`

	// CompletedAt is when the completion was applied by the orchestration.
	CompletedAt time.Time `json:"completed_at"`
}

// Deadline is a dated obligation tracked by the reminder scheduler. Both
// reminder flags are monotonic: they only ever transition false to true.
type Deadline struct {
	// Date is when the deadline falls due.
	Date time.Time `json:"date"`

	// Description says what is due.
	Description string `json:"description"`

	// Reminded is set once the approaching-deadline reminder has fired.
	Reminded bool `json:"reminded"`

	// OverdueNotified is set once the overdue notification has fired.
	OverdueNotified bool `json:"overdue_notified"`
}

// CourtDate is a scheduled hearing tracked by the reminder scheduler. The
// 48-hour and 24-hour windows carry independent monotonic flags so each
// window's reminder fires exactly once.
type CourtDate struct {
	// Date is the hearing date and time.
	Date time.Time `json:"date"`

	// Description says what the hearing is about.
	Description string `json:"description"`

	// Location is the court or hearing room.
	Location string `json:"location,omitempty"`

	// Reminded48h is set once the (24h,48h] window reminder has fired.
	Reminded48h bool `json:"reminded_48h"`

	// Reminded24h is set once the (0,24h] window reminder has fired.
	Reminded24h bool `json:"reminded_24h"`
}

// WorkflowState is the orchestration's working state for one running case or
// offboarding lifecycle. The workflow loop is its only writer; everything
// else reads it through queries. The whole struct is serializable so that
// Temporal can rebuild it deterministically from event history on replay.
type WorkflowState struct {
	// EntityID identifies the case or employee record this instance governs.
	EntityID uuid.UUID `json:"entity_id"`

	// EntityType is the lifecycle kind.
	EntityType EntityType `json:"entity_type"`

	// FirmID scopes the instance to a tenant firm.
	FirmID string `json:"firm_id"`

	// TemplateID references the template the stage sequence was loaded from.
	TemplateID uuid.UUID `json:"template_id"`

	// Stages is the cached copy of the template's stage definitions, immutable
	// for the run.
	Stages []Stage `json:"stages"`

	// CurrentStageID is the single active stage. Always a member of Stages.
	CurrentStageID string `json:"current_stage_id"`

	// CurrentStageEnteredAt is when the current stage was entered.
	CurrentStageEnteredAt time.Time `json:"current_stage_entered_at"`

	// CompletedRequirements is the append-only completion history.
	CompletedRequirements []CompletedRequirement `json:"completed_requirements"`

	// Deadlines is the append-only deadline list.
	Deadlines []Deadline `json:"deadlines"`

	// CourtDates is the append-only court date list.
	CourtDates []CourtDate `json:"court_dates"`

	// IsPaused gates the orchestration loop. While true no stage transition,
	// requirement processing, or reminder check occurs.
	IsPaused bool `json:"is_paused"`

	// PausedAt is when the pause took effect; nil while running.
	PausedAt *time.Time `json:"paused_at,omitempty"`

	// StartedAt is when the orchestration started.
	StartedAt time.Time `json:"started_at"`

	// CompletedAt is set exactly once, when a terminal stage is reached.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// CurrentStage returns the active stage definition, or nil when the state has
// not entered a stage yet.
func (s *WorkflowState) CurrentStage() *Stage {
	for i := range s.Stages {
		if s.Stages[i].ID == s.CurrentStageID {
			return &s.Stages[i]
		}
	}
	return nil
}

// StageByID returns the cached stage with the given id, or nil when absent.
func (s *WorkflowState) StageByID(id string) *Stage {
	for i := range s.Stages {
		if s.Stages[i].ID == id {
			return &s.Stages[i]
		}
	}
	return nil
}

// IsTerminal reports whether the current stage is flagged final.
func (s *WorkflowState) IsTerminal() bool {
	stage := s.CurrentStage()
	return stage != nil && stage.IsFinal
}

// RequirementCompleted reports whether the requirement was completed while
// the given stage was current.
func (s *WorkflowState) RequirementCompleted(stageID, requirementID string) bool {
	for _, c := range s.CompletedRequirements {
		if c.StageID == stageID && c.RequirementID == requirementID {
			return true
		}
	}
	return false
}

// CompletedForStage returns the completions scoped to the given stage.
func (s *WorkflowState) CompletedForStage(stageID string) []CompletedRequirement {
	var out []CompletedRequirement
	for _, c := range s.CompletedRequirements {
		if c.StageID == stageID {
			out = append(out, c)
		}
	}
	return out
}

// PendingRequirements returns the current stage's requirements that have not
// been completed in that stage yet.
func (s *WorkflowState) PendingRequirements() []Requirement {
	stage := s.CurrentStage()
	if stage == nil {
		return nil
	}
	var pending []Requirement
	for _, r := range stage.Requirements {
		if !s.RequirementCompleted(stage.ID, r.ID) {
			pending = append(pending, r)
		}
	}
	return pending
}

// MandatoryRequirementsSatisfied reports whether every mandatory requirement
// of the current stage has been completed in that stage.
func (s *WorkflowState) MandatoryRequirementsSatisfied() bool {
	stage := s.CurrentStage()
	if stage == nil {
		return false
	}
	for _, r := range stage.Requirements {
		if r.Mandatory && !s.RequirementCompleted(stage.ID, r.ID) {
			return false
		}
	}
	return true
}
