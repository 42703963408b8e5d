package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/repository"
)

type createTemplateRequest struct {
	Name       string         `json:"name" validate:"required,min=1,max=200"`
	EntityType string         `json:"entity_type" validate:"required,oneof=case employee_offboarding"`
	Stages     []domain.Stage `json:"stages" validate:"required,min=1"`
	Activate   bool           `json:"activate,omitempty"`
}

// createTemplate handles POST /templates. Templates are validated as a whole
// stage graph before they are accepted.
func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := firmIDFromContext(ctx)

	var req createTemplateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !s.validateRequest(w, &req) {
		return
	}

	now := time.Now()
	tpl := &domain.WorkflowTemplate{
		ID:         uuid.New(),
		FirmID:     firmID,
		Name:       req.Name,
		EntityType: domain.EntityType(req.EntityType),
		Stages:     req.Stages,
		IsActive:   req.Activate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := tpl.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.templateRepo.Create(ctx, tpl); err != nil {
		writeDomainError(w, err)
		return
	}

	// Activation deactivates any previous active template for the type.
	if req.Activate {
		if err := s.templateRepo.SetActive(ctx, firmID, tpl.ID, true); err != nil {
			writeDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, domainTemplateToResponse(tpl))
}

// getTemplate handles GET /templates/{templateID}.
func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := firmIDFromContext(ctx)

	templateID, ok := parseUUID(w, chi.URLParam(r, "templateID"), "template_id")
	if !ok {
		return
	}

	tpl, err := s.templateRepo.Get(ctx, firmID, templateID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainTemplateToResponse(tpl))
}

// listTemplates handles GET /templates with optional entity_type and active
// filters.
func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := firmIDFromContext(ctx)

	limit, offset := parsePaginationParams(r)
	filter := repository.TemplateFilter{
		FirmID:     firmID,
		EntityType: domain.EntityType(r.URL.Query().Get("entity_type")),
		ActiveOnly: r.URL.Query().Get("active") == "true",
		Limit:      limit,
		Offset:     offset,
	}

	templates, totalCount, err := s.templateRepo.List(ctx, filter)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	out := make([]templateResponse, len(templates))
	for i, tpl := range templates {
		out[i] = domainTemplateToResponse(tpl)
	}

	writeJSON(w, http.StatusOK, listTemplatesResponse{
		Templates:     out,
		NextPageToken: encodePageToken(offset, limit, int(totalCount)),
		TotalCount:    int(totalCount),
	})
}

// activateTemplate handles POST /templates/{templateID}/activate. Running
// workflows keep the template version they started with.
func (s *Server) activateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	firmID := firmIDFromContext(ctx)

	templateID, ok := parseUUID(w, chi.URLParam(r, "templateID"), "template_id")
	if !ok {
		return
	}

	if err := s.templateRepo.SetActive(ctx, firmID, templateID, true); err != nil {
		writeDomainError(w, err)
		return
	}

	tpl, err := s.templateRepo.Get(ctx, firmID, templateID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, domainTemplateToResponse(tpl))
}
