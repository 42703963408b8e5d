// Package workflows defines the Temporal workflow implementations that drive
// case and employee offboarding lifecycles through their template stages.
package workflows

import (
	"time"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// CompleteRequirementSignal marks one requirement of the current stage as
// completed. Completions are queued and applied in arrival order; a
// completion received while the workflow is paused is applied on resume.
type CompleteRequirementSignal struct {
	// RequirementID is the requirement being completed.
	RequirementID string `json:"requirement_id"`

	// CompletedBy is the user who completed the requirement.
	CompletedBy string `json:"completed_by,omitempty"`

	// Notes carries optional free-form context.
	Notes string `json:"notes,omitempty"`
}

// TransitionStageSignal requests a manual transition to a named stage.
// Unlike requirement completions, transition requests are last-write-wins:
// only the most recent request not yet applied is honored.
type TransitionStageSignal struct {
	// TargetStageID is the stage to move to. A target that is not part of the
	// cached template is ignored with a warning.
	TargetStageID string `json:"target_stage_id"`

	// RequestedBy is the user who requested the transition.
	RequestedBy string `json:"requested_by,omitempty"`

	// Notes carries optional transition context forwarded to notifications.
	Notes string `json:"notes,omitempty"`
}

// AddDeadlineSignal attaches a tracked deadline to the lifecycle.
type AddDeadlineSignal struct {
	// Date is when the deadline falls due.
	Date time.Time `json:"date"`

	// Description says what is due.
	Description string `json:"description"`
}

// AddCourtDateSignal attaches a court date with 48h/24h reminder windows.
type AddCourtDateSignal struct {
	// Date is the hearing date and time.
	Date time.Time `json:"date"`

	// Description says what the hearing is about.
	Description string `json:"description"`

	// Location is the court or hearing room.
	Location string `json:"location,omitempty"`
}

// PauseSignal suspends stage progression, requirement processing, and
// reminder checks until a resume arrives.
type PauseSignal struct {
	// Reason indicates why the lifecycle is being paused.
	Reason string `json:"reason,omitempty"`

	// PausedBy is the user who requested the pause.
	PausedBy string `json:"paused_by,omitempty"`
}

// ResumeSignal lifts a previous pause.
type ResumeSignal struct {
	// ResumedBy is the user who lifted the pause.
	ResumedBy string `json:"resumed_by,omitempty"`
}

// CurrentStageView is the answer to the getCurrentStage query: the current
// stage id, its definition from the cached template, and when it was entered.
type CurrentStageView struct {
	// StageID is the current stage's identifier.
	StageID string `json:"stage_id"`

	// Stage is the full stage definition, nil before the initial stage is
	// entered.
	Stage *domain.Stage `json:"stage,omitempty"`

	// EnteredAt is when the current stage became current.
	EnteredAt time.Time `json:"entered_at"`
}

// RequirementsView is the answer to the getRequirements query: the current
// stage's outstanding and completed requirement ids.
type RequirementsView struct {
	// StageID is the stage the view describes.
	StageID string `json:"stage_id"`

	// Pending lists requirement ids not yet completed in this stage.
	Pending []string `json:"pending"`

	// Completed lists requirement ids completed while this stage was current.
	Completed []string `json:"completed"`
}
