package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// TemplateRepository handles workflow template persistence. Templates are
// versioned by row: activating a new template for an entity type deactivates
// the previous one, and running workflows keep the stage list they loaded
// at start.
type TemplateRepository interface {
	// Create inserts a new workflow template.
	// The template must pass domain validation before insertion.
	// Returns domain.ErrAlreadyExists if a template with the same ID already exists.
	Create(ctx context.Context, tpl *domain.WorkflowTemplate) error

	// Get retrieves a template by its ID within a tenant context.
	// Returns domain.ErrNotFound if no matching template exists.
	Get(ctx context.Context, firmID string, id uuid.UUID) (*domain.WorkflowTemplate, error)

	// GetActive retrieves the active template for an entity type.
	// This is what the getWorkflowTemplate activity resolves at workflow start.
	// Returns domain.ErrNotFound if the firm has no active template for the type.
	GetActive(ctx context.Context, firmID string, entityType domain.EntityType) (*domain.WorkflowTemplate, error)

	// List retrieves templates matching the filter criteria.
	// Returns the matching templates and total count for pagination.
	List(ctx context.Context, filter TemplateFilter) ([]*domain.WorkflowTemplate, int64, error)

	// SetActive activates or deactivates a template. Activating a template
	// deactivates any other active template for the same entity type.
	// Returns domain.ErrNotFound if no matching template exists.
	SetActive(ctx context.Context, firmID string, id uuid.UUID, active bool) error
}

// TemplateFilter specifies criteria for listing workflow templates.
type TemplateFilter struct {
	// FirmID filters by tenant firm (required).
	FirmID string

	// EntityType filters by entity type (optional).
	EntityType domain.EntityType

	// ActiveOnly restricts results to active templates.
	ActiveOnly bool

	// Limit specifies maximum number of results (default: 100, max: 1000).
	Limit int

	// Offset specifies the starting position for pagination.
	Offset int
}

// Validate checks if the filter has valid values and sets defaults.
// Returns domain.ErrInvalidInput if FirmID is empty.
func (f *TemplateFilter) Validate() error {
	if f.FirmID == "" {
		return domain.NewValidationError("firm_id", "firm ID is required")
	}
	applyPaginationDefaults(&f.Limit, &f.Offset)
	return nil
}
