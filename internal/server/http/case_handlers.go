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

// createCaseRequest is the JSON request body for creating a case. Creating a
// case also starts its lifecycle workflow.
type createCaseRequest struct {
	Title          string  `json:"title" validate:"required,min=3,max=500"`
	CaseType       string  `json:"case_type" validate:"required,max=100"`
	AssignedTeamID string  `json:"assigned_team_id,omitempty" validate:"max=100"`
	TemplateID     *string `json:"template_id,omitempty"`
	StartedBy      string  `json:"started_by,omitempty" validate:"max=100"`
}

// createCase handles POST /cases. It creates the case record and starts the
// lifecycle workflow driving it.
func (s *Server) createCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := firmIDFromContext(ctx)

	var req createCaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	var templateID *uuid.UUID
	if req.TemplateID != nil {
		id, ok := parseUUID(w, *req.TemplateID, "template_id")
		if !ok {
			return
		}
		templateID = &id
	}

	now := time.Now()
	c := &domain.Case{
		ID:             uuid.New(),
		FirmID:         firmID,
		Title:          req.Title,
		CaseType:       req.CaseType,
		Status:         domain.CaseStatusOpen,
		AssignedTeamID: req.AssignedTeamID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.caseRepo.Create(ctx, c); err != nil {
		writeDomainError(w, err)
		return
	}

	workflowID, runID, err := s.workflowClient.StartLifecycleWorkflow(ctx, temporal.LifecycleWorkflowInput{
		EntityID:             c.ID,
		EntityType:           domain.EntityTypeCase,
		FirmID:               firmID,
		TemplateID:           templateID,
		AssignedTeamID:       req.AssignedTeamID,
		StartedBy:            req.StartedBy,
		PollInterval:         s.workflowPollInterval,
		DeadlineReminderDays: s.deadlineReminderDays,
	}, s.caseWorkflowFunc)
	if err != nil {
		s.logger.Error().Err(err).Str("caseID", c.ID.String()).Msg("failed to start case lifecycle workflow")
		writeDomainError(w, err)
		return
	}

	// Best-effort update of workflow tracking IDs on the case record.
	_ = s.caseRepo.SetWorkflow(ctx, firmID, c.ID, workflowID, runID)
	c.WorkflowID = workflowID
	c.RunID = runID

	if s.metrics != nil {
		s.metrics.RecordWorkflowStarted(string(domain.EntityTypeCase))
	}

	writeJSON(w, http.StatusCreated, domainCaseToResponse(c))
}

// getCase handles GET /cases/{caseID}.
func (s *Server) getCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := firmIDFromContext(ctx)

	caseID, ok := parseUUID(w, chi.URLParam(r, "caseID"), "case_id")
	if !ok {
		return
	}

	c, err := s.caseRepo.Get(ctx, firmID, caseID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainCaseToResponse(c))
}

// listCases handles GET /cases with optional status, stage, and date filters.
func (s *Server) listCases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := firmIDFromContext(ctx)

	limit, offset := parsePaginationParams(r)
	filter := repository.CaseFilter{
		FirmID:         firmID,
		CurrentStageID: r.URL.Query().Get("stage"),
		Limit:          limit,
		Offset:         offset,
	}

	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		filter.Status = []domain.CaseStatus{domain.CaseStatus(statusParam)}
	}
	if createdAfter := r.URL.Query().Get("created_after"); createdAfter != "" {
		t, parseErr := time.Parse(time.RFC3339, createdAfter)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid created_after format: expected RFC3339")
			return
		}
		filter.CreatedAfter = &t
	}
	if createdBefore := r.URL.Query().Get("created_before"); createdBefore != "" {
		t, parseErr := time.Parse(time.RFC3339, createdBefore)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "invalid created_before format: expected RFC3339")
			return
		}
		filter.CreatedBefore = &t
	}

	cases, totalCount, err := s.caseRepo.List(ctx, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]caseResponse, len(cases))
	for i, c := range cases {
		out[i] = domainCaseToResponse(c)
	}

	writeJSON(w, http.StatusOK, listCasesResponse{
		Cases:         out,
		NextPageToken: encodePageToken(offset, limit, int(totalCount)),
		TotalCount:    int(totalCount),
	})
}
