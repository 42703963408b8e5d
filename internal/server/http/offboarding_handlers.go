package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/repository"
	"github.com/mizanhq/case-lifecycle-service/internal/temporal"
)

type createOffboardingRequest struct {
	EmployeeID     string  `json:"employee_id" validate:"required"`
	EmployeeName   string  `json:"employee_name" validate:"required,min=1,max=200"`
	Reason         string  `json:"reason" validate:"required,max=500"`
	LastWorkingDay string  `json:"last_working_day" validate:"required"`
	AssignedTeamID string  `json:"assigned_team_id,omitempty" validate:"max=100"`
	TemplateID     *string `json:"template_id,omitempty"`
	StartedBy      string  `json:"started_by,omitempty" validate:"max=100"`
}

// createOffboarding handles POST /offboardings. Like cases, creating the
// record also starts the offboarding workflow.
func (s *Server) createOffboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := firmIDFromContext(ctx)

	var req createOffboardingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	employeeID, ok := parseUUID(w, req.EmployeeID, "employee_id")
	if !ok {
		return
	}

	lastWorkingDay, err := time.Parse(time.RFC3339, req.LastWorkingDay)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid last_working_day format: expected RFC3339")
		return
	}

	var templateID *uuid.UUID
	if req.TemplateID != nil {
		id, parsed := parseUUID(w, *req.TemplateID, "template_id")
		if !parsed {
			return
		}
		templateID = &id
	}

	now := time.Now()
	o := &domain.Offboarding{
		ID:             uuid.New(),
		FirmID:         firmID,
		EmployeeID:     employeeID,
		EmployeeName:   req.EmployeeName,
		Reason:         req.Reason,
		LastWorkingDay: lastWorkingDay,
		Status:         domain.CaseStatusOpen,
		AssignedTeamID: req.AssignedTeamID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.offboardingRepo.Create(ctx, o); err != nil {
		writeDomainError(w, err)
		return
	}

	workflowID, runID, err := s.workflowClient.StartLifecycleWorkflow(ctx, temporal.LifecycleWorkflowInput{
		EntityID:             o.ID,
		EntityType:           domain.EntityTypeOffboarding,
		FirmID:               firmID,
		TemplateID:           templateID,
		AssignedTeamID:       req.AssignedTeamID,
		StartedBy:            req.StartedBy,
		PollInterval:         s.workflowPollInterval,
		DeadlineReminderDays: s.deadlineReminderDays,
	}, s.offboardingWorkflowFunc)
	if err != nil {
		s.logger.Error().Err(err).Str("offboardingID", o.ID.String()).Msg("failed to start offboarding workflow")
		writeDomainError(w, err)
		return
	}

	_ = s.offboardingRepo.SetWorkflow(ctx, firmID, o.ID, workflowID, runID)
	o.WorkflowID = workflowID
	o.RunID = runID

	if s.metrics != nil {
		s.metrics.RecordWorkflowStarted(string(domain.EntityTypeOffboarding))
	}

	writeJSON(w, http.StatusCreated, domainOffboardingToResponse(o))
}

// getOffboarding handles GET /offboardings/{offboardingID}.
func (s *Server) getOffboarding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := firmIDFromContext(ctx)

	offboardingID, ok := parseUUID(w, chi.URLParam(r, "offboardingID"), "offboarding_id")
	if !ok {
		return
	}

	o, err := s.offboardingRepo.Get(ctx, firmID, offboardingID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainOffboardingToResponse(o))
}

// listOffboardings handles GET /offboardings.
func (s *Server) listOffboardings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := firmIDFromContext(ctx)

	limit, offset := parsePaginationParams(r)
	filter := repository.CaseFilter{
		FirmID: firmID,
		Limit:  limit,
		Offset: offset,
	}
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		filter.Status = []domain.CaseStatus{domain.CaseStatus(statusParam)}
	}

	offboardings, totalCount, err := s.offboardingRepo.List(ctx, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]offboardingResponse, len(offboardings))
	for i, o := range offboardings {
		out[i] = domainOffboardingToResponse(o)
	}

	writeJSON(w, http.StatusOK, listOffboardingsResponse{
		Offboardings:  out,
		NextPageToken: encodePageToken(offset, limit, int(totalCount)),
		TotalCount:    int(totalCount),
	})
}
