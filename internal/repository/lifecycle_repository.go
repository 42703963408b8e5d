package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// LifecycleStore is the subset of persistence the workflow activities need,
// implemented by both CaseRepository and OffboardingRepository. Activities
// dispatch to the right store based on the entity type in their input.
type LifecycleStore interface {
	// UpdateStage mirrors the workflow's current stage onto the persisted record.
	// Returns domain.ErrNotFound if no matching record exists.
	UpdateStage(ctx context.Context, firmID string, id uuid.UUID, stageID string, enteredAt time.Time) error

	// UpdateStatus updates the persisted lifecycle status.
	// Returns domain.ErrNotFound if no matching record exists.
	UpdateStatus(ctx context.Context, firmID string, id uuid.UUID, status domain.CaseStatus) error

	// SetWorkflow records the Temporal workflow and run IDs driving the record.
	// Returns domain.ErrNotFound if no matching record exists.
	SetWorkflow(ctx context.Context, firmID string, id uuid.UUID, workflowID, runID string) error

	// AssignedTeam returns the team ID assigned to the record, empty if none.
	// Returns domain.ErrNotFound if no matching record exists.
	AssignedTeam(ctx context.Context, firmID string, id uuid.UUID) (string, error)
}

// CaseRepository handles legal case record persistence with tenant isolation
// through firm scoping.
type CaseRepository interface {
	LifecycleStore

	// Create inserts a new case record.
	// Returns domain.ErrAlreadyExists if a case with the same ID already exists.
	Create(ctx context.Context, c *domain.Case) error

	// Get retrieves a case by its ID within a tenant context.
	// Returns domain.ErrNotFound if no matching case exists.
	Get(ctx context.Context, firmID string, id uuid.UUID) (*domain.Case, error)

	// GetByWorkflowID retrieves a case by its Temporal workflow ID.
	// Returns domain.ErrNotFound if no matching case exists.
	GetByWorkflowID(ctx context.Context, workflowID string) (*domain.Case, error)

	// List retrieves cases matching the filter criteria.
	// Returns the matching cases and total count for pagination.
	List(ctx context.Context, filter CaseFilter) ([]*domain.Case, int64, error)
}

// OffboardingRepository handles employee offboarding record persistence.
type OffboardingRepository interface {
	LifecycleStore

	// Create inserts a new offboarding record.
	// Returns domain.ErrAlreadyExists if a record with the same ID already exists.
	Create(ctx context.Context, o *domain.Offboarding) error

	// Get retrieves an offboarding record by its ID within a tenant context.
	// Returns domain.ErrNotFound if no matching record exists.
	Get(ctx context.Context, firmID string, id uuid.UUID) (*domain.Offboarding, error)

	// List retrieves offboarding records matching the filter criteria.
	List(ctx context.Context, filter CaseFilter) ([]*domain.Offboarding, int64, error)
}

// CaseFilter specifies criteria for listing cases or offboarding records.
type CaseFilter struct {
	// FirmID filters by tenant firm (required).
	FirmID string

	// Status filters by one or more lifecycle statuses (optional).
	Status []domain.CaseStatus

	// CurrentStageID filters to records in a specific stage (optional).
	CurrentStageID string

	// CreatedAfter filters to records created after this timestamp (optional).
	CreatedAfter *time.Time

	// CreatedBefore filters to records created before this timestamp (optional).
	CreatedBefore *time.Time

	// Limit specifies maximum number of results (default: 100, max: 1000).
	Limit int

	// Offset specifies the starting position for pagination.
	Offset int
}

// Validate checks if the filter has valid values and sets defaults.
// Returns domain.ErrInvalidInput if FirmID is empty.
func (f *CaseFilter) Validate() error {
	if f.FirmID == "" {
		return domain.NewValidationError("firm_id", "firm ID is required")
	}
	applyPaginationDefaults(&f.Limit, &f.Offset)
	return nil
}
