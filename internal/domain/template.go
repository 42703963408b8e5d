// Package domain defines the core data model for the case lifecycle service:
// workflow templates, stages, requirements, the orchestration state carried by
// running workflow instances, and the persisted case/offboarding records the
// orchestration drives.
package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// RequirementKind classifies what must be produced to satisfy a requirement.
type RequirementKind string

// Requirement kinds.
const (
	// RequirementKindDocument is a document that must be filed or uploaded.
	RequirementKindDocument RequirementKind = "document"

	// RequirementKindTask is a task that must be marked done by a team member.
	RequirementKindTask RequirementKind = "task"

	// RequirementKindClearance is a departmental clearance (IT, finance,
	// facilities) used by offboarding templates.
	RequirementKindClearance RequirementKind = "clearance"
)

// Requirement is a document, task, or clearance that must be completed before
// a stage's auto-transition condition can be satisfied.
type Requirement struct {
	// ID identifies the requirement within its stage.
	ID string `json:"id"`

	// Name is the human-readable requirement name.
	Name string `json:"name"`

	// Kind classifies the requirement (document, task, clearance).
	Kind RequirementKind `json:"kind"`

	// Mandatory requirements gate auto-transition; optional ones are tracked
	// but never block.
	Mandatory bool `json:"mandatory"`
}

// Stage is one node in an ordered lifecycle template.
type Stage struct {
	// ID identifies the stage within its template.
	ID string `json:"id"`

	// Name is the human-readable stage name.
	Name string `json:"name"`

	// Order positions the stage in the template sequence. Lower comes first.
	Order int `json:"order"`

	// Requirements lists what must be completed in this stage.
	Requirements []Requirement `json:"requirements,omitempty"`

	// IsInitial marks the stage the orchestration enters first.
	IsInitial bool `json:"is_initial"`

	// IsFinal marks a terminal stage; reaching one ends the orchestration.
	IsFinal bool `json:"is_final"`

	// AutoTransition moves the lifecycle to the next stage by order once all
	// mandatory requirements are satisfied, without an explicit transition
	// command.
	AutoTransition bool `json:"auto_transition"`

	// NotifyOnEntry sends a stage-transition notification when entering.
	NotifyOnEntry bool `json:"notify_on_entry"`

	// NotifyOnExit sends a stage-transition notification when exiting.
	NotifyOnExit bool `json:"notify_on_exit"`
}

// MandatoryRequirements returns the stage's mandatory requirements.
func (s *Stage) MandatoryRequirements() []Requirement {
	var reqs []Requirement
	for _, r := range s.Requirements {
		if r.Mandatory {
			reqs = append(reqs, r)
		}
	}
	return reqs
}

// WorkflowTemplate is an ordered list of stages driving a case or offboarding
// lifecycle. Templates are edited through the admin surface (out of scope
// here); a running orchestration caches the stages it loaded at start, so
// template edits never retroactively affect in-flight instances.
type WorkflowTemplate struct {
	// ID is the template identifier.
	ID uuid.UUID `json:"id"`

	// FirmID scopes the template to a tenant firm.
	FirmID string `json:"firm_id"`

	// Name is the template name shown in the admin UI.
	Name string `json:"name"`

	// EntityType is the lifecycle kind this template drives.
	EntityType EntityType `json:"entity_type"`

	// Stages is the ordered stage list.
	Stages []Stage `json:"stages"`

	// IsActive marks templates selectable for new workflows.
	IsActive bool `json:"is_active"`

	// CreatedAt is when the template was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the template was last modified.
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks that the template can drive an orchestration.
func (t *WorkflowTemplate) Validate() error {
	if len(t.Stages) == 0 {
		return NewTemplateError(t.ID.String(), "template has no stages")
	}
	seen := make(map[string]struct{}, len(t.Stages))
	for _, s := range t.Stages {
		if s.ID == "" {
			return NewTemplateError(t.ID.String(), "stage with empty id")
		}
		if _, dup := seen[s.ID]; dup {
			return NewTemplateError(t.ID.String(), "duplicate stage id "+s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// SortedStages returns the stages sorted by Order (stable for equal orders).
func (t *WorkflowTemplate) SortedStages() []Stage {
	stages := make([]Stage, len(t.Stages))
	copy(stages, t.Stages)
	sort.SliceStable(stages, func(i, j int) bool {
		return stages[i].Order < stages[j].Order
	})
	return stages
}

// InitialStage resolves the stage the orchestration enters first: the stage
// flagged IsInitial wins; when none is flagged, the lowest-order stage is
// used. An empty template is an error.
func (t *WorkflowTemplate) InitialStage() (*Stage, error) {
	if len(t.Stages) == 0 {
		return nil, NewTemplateError(t.ID.String(), "template has no stages")
	}
	for i := range t.Stages {
		if t.Stages[i].IsInitial {
			return &t.Stages[i], nil
		}
	}
	sorted := t.SortedStages()
	first := sorted[0]
	return &first, nil
}

// StageByID returns the stage with the given id, or nil when absent.
func (t *WorkflowTemplate) StageByID(id string) *Stage {
	for i := range t.Stages {
		if t.Stages[i].ID == id {
			return &t.Stages[i]
		}
	}
	return nil
}

// NextStageByOrder returns the stage that follows the given stage in order,
// or nil when the given stage is last or unknown.
func (t *WorkflowTemplate) NextStageByOrder(stageID string) *Stage {
	current := t.StageByID(stageID)
	if current == nil {
		return nil
	}
	sorted := t.SortedStages()
	for i := range sorted {
		if sorted[i].ID == stageID && i+1 < len(sorted) {
			next := sorted[i+1]
			return &next
		}
	}
	return nil
}
