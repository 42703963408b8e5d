package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/temporal"
	"github.com/mizanhq/case-lifecycle-service/internal/temporal/workflows"
)

// entityRef is the slice of a case or offboarding record the lifecycle
// endpoints need: identity plus workflow tracking IDs.
type entityRef struct {
	EntityType domain.EntityType
	ID         uuid.UUID
	WorkflowID string
	RunID      string
	Status     domain.CaseStatus
}

// entityResolver loads an entityRef for the given firm-scoped entity ID. The
// same lifecycle handlers serve cases and offboardings through it.
type entityResolver func(ctx context.Context, s *Server, firmID string, id uuid.UUID) (entityRef, error)

func caseResolver(ctx context.Context, s *Server, firmID string, id uuid.UUID) (entityRef, error) {
	c, err := s.caseRepo.Get(ctx, firmID, id)
	if err != nil {
		return entityRef{}, err
	}
	return entityRef{
		EntityType: domain.EntityTypeCase,
		ID:         c.ID,
		WorkflowID: c.WorkflowID,
		RunID:      c.RunID,
		Status:     c.Status,
	}, nil
}

func offboardingResolver(ctx context.Context, s *Server, firmID string, id uuid.UUID) (entityRef, error) {
	o, err := s.offboardingRepo.Get(ctx, firmID, id)
	if err != nil {
		return entityRef{}, err
	}
	return entityRef{
		EntityType: domain.EntityTypeOffboarding,
		ID:         o.ID,
		WorkflowID: o.WorkflowID,
		RunID:      o.RunID,
		Status:     o.Status,
	}, nil
}

// resolveEntity parses the entity ID from the URL, loads the record, and
// writes an error response on failure.
func (s *Server) resolveEntity(w http.ResponseWriter, r *http.Request, idParam string, resolve entityResolver) (entityRef, bool) {
	firmID := firmIDFromContext(r.Context())
	id, ok := parseUUID(w, chi.URLParam(r, idParam), idParam)
	if !ok {
		return entityRef{}, false
	}
	ref, err := resolve(r.Context(), s, firmID, id)
	if err != nil {
		writeDomainError(w, err)
		return entityRef{}, false
	}
	return ref, true
}

// signalable reports whether the entity has a running workflow that can still
// accept signals. Closed and cancelled records are terminal.
func signalable(ref entityRef) bool {
	if ref.WorkflowID == "" {
		return false
	}
	return ref.Status != domain.CaseStatusClosed && ref.Status != domain.CaseStatusCancelled
}

// sendSignal delivers a workflow signal and writes the 202 acknowledgement.
func (s *Server) sendSignal(w http.ResponseWriter, r *http.Request, ref entityRef, signalName string, payload interface{}) {
	if !signalable(ref) {
		writeDomainError(w, domain.ErrWorkflowNotActive)
		return
	}

	if err := s.workflowClient.SignalWorkflow(r.Context(), ref.WorkflowID, ref.RunID, signalName, payload); err != nil {
		s.logger.Error().Err(err).
			Str("workflowID", ref.WorkflowID).
			Str("signal", signalName).
			Msg("failed to signal workflow")
		writeDomainError(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.RecordSignalReceived(signalName)
	}

	writeJSON(w, http.StatusAccepted, signalResponse{
		Signal:     signalName,
		WorkflowID: ref.WorkflowID,
		Message:    "signal accepted",
	})
}

// queryWorkflow runs a workflow query into result and writes an error response
// on failure.
func (s *Server) queryWorkflow(w http.ResponseWriter, r *http.Request, ref entityRef, queryType string, result interface{}) bool {
	if ref.WorkflowID == "" {
		writeDomainError(w, domain.ErrWorkflowNotActive)
		return false
	}
	if err := s.workflowClient.QueryWorkflow(r.Context(), ref.WorkflowID, ref.RunID, queryType, result); err != nil {
		writeDomainError(w, err)
		return false
	}
	if s.metrics != nil {
		s.metrics.RecordQueryServed(queryType)
	}
	return true
}

// Signal request bodies.

type completeRequirementRequest struct {
	CompletedBy string `json:"completed_by" validate:"required,max=100"`
	Notes       string `json:"notes,omitempty" validate:"max=2000"`
}

type transitionStageRequest struct {
	TargetStageID string `json:"target_stage_id" validate:"required,max=100"`
	RequestedBy   string `json:"requested_by" validate:"required,max=100"`
	Notes         string `json:"notes,omitempty" validate:"max=2000"`
}

type addDeadlineRequest struct {
	Date        time.Time `json:"date" validate:"required"`
	Description string    `json:"description" validate:"required,max=500"`
}

type addCourtDateRequest struct {
	Date        time.Time `json:"date" validate:"required"`
	Description string    `json:"description" validate:"required,max=500"`
	Location    string    `json:"location,omitempty" validate:"max=500"`
}

type pauseWorkflowRequest struct {
	Reason   string `json:"reason" validate:"required,max=500"`
	PausedBy string `json:"paused_by" validate:"required,max=100"`
}

type resumeWorkflowRequest struct {
	ResumedBy string `json:"resumed_by" validate:"required,max=100"`
}

// completeRequirement handles POST .../requirements/{requirementID}/complete.
func (s *Server) completeRequirement(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		requirementID := chi.URLParam(r, "requirementID")
		if requirementID == "" {
			writeError(w, http.StatusBadRequest, "requirement_id is required")
			return
		}

		var req completeRequirementRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !s.validateRequest(w, &req) {
			return
		}

		s.sendSignal(w, r, ref, workflows.SignalCompleteRequirement, workflows.CompleteRequirementSignal{
			RequirementID: requirementID,
			CompletedBy:   req.CompletedBy,
			Notes:         req.Notes,
		})
	}
}

// transitionStage handles POST .../transition.
func (s *Server) transitionStage(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		var req transitionStageRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !s.validateRequest(w, &req) {
			return
		}

		s.sendSignal(w, r, ref, workflows.SignalTransitionStage, workflows.TransitionStageSignal{
			TargetStageID: req.TargetStageID,
			RequestedBy:   req.RequestedBy,
			Notes:         req.Notes,
		})
	}
}

// addDeadline handles POST .../deadlines.
func (s *Server) addDeadline(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		var req addDeadlineRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !s.validateRequest(w, &req) {
			return
		}

		s.sendSignal(w, r, ref, workflows.SignalAddDeadline, workflows.AddDeadlineSignal{
			Date:        req.Date,
			Description: req.Description,
		})
	}
}

// addCourtDate handles POST .../court-dates. Court dates only make sense for
// legal cases but the workflow tolerates them on any entity.
func (s *Server) addCourtDate(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		var req addCourtDateRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !s.validateRequest(w, &req) {
			return
		}

		s.sendSignal(w, r, ref, workflows.SignalAddCourtDate, workflows.AddCourtDateSignal{
			Date:        req.Date,
			Description: req.Description,
			Location:    req.Location,
		})
	}
}

// pauseWorkflow handles POST .../pause.
func (s *Server) pauseWorkflow(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		var req pauseWorkflowRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !s.validateRequest(w, &req) {
			return
		}

		s.sendSignal(w, r, ref, workflows.SignalPauseWorkflow, workflows.PauseSignal{
			Reason:   req.Reason,
			PausedBy: req.PausedBy,
		})
	}
}

// resumeWorkflow handles POST .../resume.
func (s *Server) resumeWorkflow(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		var req resumeWorkflowRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if !s.validateRequest(w, &req) {
			return
		}

		s.sendSignal(w, r, ref, workflows.SignalResumeWorkflow, workflows.ResumeSignal{
			ResumedBy: req.ResumedBy,
		})
	}
}

// getWorkflowState handles GET .../workflow.
func (s *Server) getWorkflowState(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		var state domain.WorkflowState
		if !s.queryWorkflow(w, r, ref, temporal.QueryWorkflowState, &state) {
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// getCurrentStage handles GET .../stage.
func (s *Server) getCurrentStage(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		var view workflows.CurrentStageView
		if !s.queryWorkflow(w, r, ref, temporal.QueryCurrentStage, &view) {
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// getRequirements handles GET .../requirements.
func (s *Server) getRequirements(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		var view workflows.RequirementsView
		if !s.queryWorkflow(w, r, ref, temporal.QueryRequirements, &view) {
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// cancelLifecycle handles DELETE .../workflow. Cancellation is cooperative:
// the workflow runs its cancellation cleanup before finishing.
func (s *Server) cancelLifecycle(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		if !signalable(ref) {
			writeDomainError(w, domain.ErrWorkflowNotActive)
			return
		}

		if err := s.workflowClient.CancelWorkflow(r.Context(), ref.WorkflowID, ref.RunID); err != nil {
			s.logger.Error().Err(err).
				Str("workflowID", ref.WorkflowID).
				Msg("failed to cancel workflow")
			writeDomainError(w, err)
			return
		}

		if s.metrics != nil {
			s.metrics.RecordWorkflowCancelled(string(ref.EntityType))
		}

		writeJSON(w, http.StatusOK, cancelResponse{
			Success:    true,
			Message:    "workflow cancellation requested",
			WorkflowID: ref.WorkflowID,
		})
	}
}

// listActivity handles GET .../activity, the audit trail for the entity.
func (s *Server) listActivity(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		firmID := firmIDFromContext(r.Context())
		limit, offset := parsePaginationParams(r)

		entries, totalCount, err := s.activityRepo.ListByEntity(r.Context(), firmID, ref.EntityType, ref.ID, limit, offset)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]activityEntryResponse, len(entries))
		for i, e := range entries {
			out[i] = domainActivityToResponse(e)
		}

		writeJSON(w, http.StatusOK, listActivityResponse{
			Entries:       out,
			NextPageToken: encodePageToken(offset, limit, int(totalCount)),
			TotalCount:    int(totalCount),
		})
	}
}

// listReminders handles GET .../reminders, the court-date reminders recorded
// for the entity.
func (s *Server) listReminders(idParam string, resolve entityResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := s.resolveEntity(w, r, idParam, resolve)
		if !ok {
			return
		}

		firmID := firmIDFromContext(r.Context())
		reminders, err := s.reminderRepo.ListByCase(r.Context(), firmID, ref.ID)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		out := make([]reminderResponse, len(reminders))
		for i, rem := range reminders {
			out[i] = domainReminderToResponse(rem)
		}

		writeJSON(w, http.StatusOK, listRemindersResponse{Reminders: out})
	}
}
