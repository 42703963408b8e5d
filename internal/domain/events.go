package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event type constants for notification and domain events published to Kafka.
const (
	EventTypeStageEntered      = "case.stage_entered"
	EventTypeStageExited       = "case.stage_exited"
	EventTypeTeamNotified      = "case.team_notified"
	EventTypeDeadlineReminder  = "case.deadline_reminder"
	EventTypeDeadlineOverdue   = "case.deadline_overdue"
	EventTypeCourtDateReminder = "case.court_date_reminder"
	EventTypeWorkflowCompleted = "case.workflow_completed"
	EventTypeWorkflowFailed    = "case.workflow_failed"
)

// Event is the envelope published to the notifications topic. A downstream
// notification service fans these out to email/SMS/in-app channels.
type Event struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	FirmID     string          `json:"firm_id"`
	EntityType EntityType      `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewEvent creates an event envelope with a fresh id, JSON-serializing the
// payload.
func NewEvent(eventType, firmID string, entityType EntityType, entityID uuid.UUID, payload interface{}) (*Event, error) {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return &Event{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		FirmID:     firmID,
		EntityType: entityType,
		EntityID:   entityID.String(),
		Payload:    raw,
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// StageTransitionPayload is the payload for stage_entered/stage_exited events.
type StageTransitionPayload struct {
	StageID      string  `json:"stage_id"`
	StageName    string  `json:"stage_name"`
	FromStageID  string  `json:"from_stage_id,omitempty"`
	Notes        string  `json:"notes,omitempty"`
	DurationHrs  float64 `json:"duration_hours,omitempty"`
	TeamID       string  `json:"team_id,omitempty"`
	Requirements int     `json:"requirement_count,omitempty"`
}

// DeadlineReminderPayload is the payload for deadline reminder/overdue events.
type DeadlineReminderPayload struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	DaysUntil   int       `json:"days_until"`
	Overdue     bool      `json:"overdue"`
}

// CourtDateReminderPayload is the payload for court date reminder events.
type CourtDateReminderPayload struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Location    string    `json:"location,omitempty"`
	HoursUntil  int       `json:"hours_until"`
	Window      string    `json:"window"`
}

// WorkflowCompletedPayload is the payload for workflow_completed events.
type WorkflowCompletedPayload struct {
	FinalStageID string    `json:"final_stage_id"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at"`
}
