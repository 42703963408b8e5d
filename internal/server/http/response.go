package httpserver

import (
	"encoding/json"
	"time"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// Response types for JSON serialization.

type caseResponse struct {
	ID             string     `json:"id"`
	FirmID         string     `json:"firm_id"`
	Title          string     `json:"title"`
	CaseType       string     `json:"case_type"`
	Status         string     `json:"status"`
	CurrentStageID string     `json:"current_stage_id,omitempty"`
	StageEnteredAt *time.Time `json:"stage_entered_at,omitempty"`
	AssignedTeamID string     `json:"assigned_team_id,omitempty"`
	WorkflowID     string     `json:"workflow_id,omitempty"`
	RunID          string     `json:"run_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type listCasesResponse struct {
	Cases         []caseResponse `json:"cases"`
	NextPageToken string         `json:"next_page_token,omitempty"`
	TotalCount    int            `json:"total_count"`
}

type offboardingResponse struct {
	ID             string     `json:"id"`
	FirmID         string     `json:"firm_id"`
	EmployeeID     string     `json:"employee_id"`
	EmployeeName   string     `json:"employee_name"`
	Reason         string     `json:"reason"`
	LastWorkingDay time.Time  `json:"last_working_day"`
	Status         string     `json:"status"`
	CurrentStageID string     `json:"current_stage_id,omitempty"`
	StageEnteredAt *time.Time `json:"stage_entered_at,omitempty"`
	AssignedTeamID string     `json:"assigned_team_id,omitempty"`
	WorkflowID     string     `json:"workflow_id,omitempty"`
	RunID          string     `json:"run_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type listOffboardingsResponse struct {
	Offboardings  []offboardingResponse `json:"offboardings"`
	NextPageToken string                `json:"next_page_token,omitempty"`
	TotalCount    int                   `json:"total_count"`
}

type templateResponse struct {
	ID         string         `json:"id"`
	FirmID     string         `json:"firm_id"`
	Name       string         `json:"name"`
	EntityType string         `json:"entity_type"`
	Stages     []domain.Stage `json:"stages"`
	IsActive   bool           `json:"is_active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

type listTemplatesResponse struct {
	Templates     []templateResponse `json:"templates"`
	NextPageToken string             `json:"next_page_token,omitempty"`
	TotalCount    int                `json:"total_count"`
}

// signalResponse acknowledges an accepted workflow signal.
type signalResponse struct {
	Signal     string `json:"signal"`
	WorkflowID string `json:"workflow_id"`
	Message    string `json:"message"`
}

type cancelResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	WorkflowID string `json:"workflow_id"`
}

type activityEntryResponse struct {
	ID        string          `json:"id"`
	Action    string          `json:"action"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type listActivityResponse struct {
	Entries       []activityEntryResponse `json:"entries"`
	NextPageToken string                  `json:"next_page_token,omitempty"`
	TotalCount    int                     `json:"total_count"`
}

type reminderResponse struct {
	ID          string    `json:"id"`
	CaseID      string    `json:"case_id"`
	CourtDate   time.Time `json:"court_date"`
	Description string    `json:"description"`
	Window      string    `json:"window"`
	CreatedAt   time.Time `json:"created_at"`
}

type listRemindersResponse struct {
	Reminders []reminderResponse `json:"reminders"`
}

// Converter functions

func domainCaseToResponse(c *domain.Case) caseResponse {
	return caseResponse{
		ID:             c.ID.String(),
		FirmID:         c.FirmID,
		Title:          c.Title,
		CaseType:       c.CaseType,
		Status:         string(c.Status),
		CurrentStageID: c.CurrentStageID,
		StageEnteredAt: c.StageEnteredAt,
		AssignedTeamID: c.AssignedTeamID,
		WorkflowID:     c.WorkflowID,
		RunID:          c.RunID,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func domainOffboardingToResponse(o *domain.Offboarding) offboardingResponse {
	return offboardingResponse{
		ID:             o.ID.String(),
		FirmID:         o.FirmID,
		EmployeeID:     o.EmployeeID.String(),
		EmployeeName:   o.EmployeeName,
		Reason:         o.Reason,
		LastWorkingDay: o.LastWorkingDay,
		Status:         string(o.Status),
		CurrentStageID: o.CurrentStageID,
		StageEnteredAt: o.StageEnteredAt,
		AssignedTeamID: o.AssignedTeamID,
		WorkflowID:     o.WorkflowID,
		RunID:          o.RunID,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}

func domainTemplateToResponse(t *domain.WorkflowTemplate) templateResponse {
	return templateResponse{
		ID:         t.ID.String(),
		FirmID:     t.FirmID,
		Name:       t.Name,
		EntityType: string(t.EntityType),
		Stages:     t.SortedStages(),
		IsActive:   t.IsActive,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

func domainActivityToResponse(a *domain.CaseActivity) activityEntryResponse {
	return activityEntryResponse{
		ID:        a.ID.String(),
		Action:    a.Action,
		Details:   a.Details,
		CreatedAt: a.CreatedAt,
	}
}

func domainReminderToResponse(r *domain.CourtDateReminder) reminderResponse {
	return reminderResponse{
		ID:          r.ID.String(),
		CaseID:      r.CaseID.String(),
		CourtDate:   r.CourtDate,
		Description: r.Description,
		Window:      r.Window,
		CreatedAt:   r.CreatedAt,
	}
}
