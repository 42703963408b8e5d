package activities

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/repository"
)

// ---------------------------------------------------------------------------
// Mock: LifecycleStore
// ---------------------------------------------------------------------------

type mockLifecycleStore struct {
	mock.Mock
}

func (m *mockLifecycleStore) UpdateStage(ctx context.Context, firmID string, id uuid.UUID, stageID string, enteredAt time.Time) error {
	args := m.Called(ctx, firmID, id, stageID, enteredAt)
	return args.Error(0)
}

func (m *mockLifecycleStore) UpdateStatus(ctx context.Context, firmID string, id uuid.UUID, status domain.CaseStatus) error {
	args := m.Called(ctx, firmID, id, status)
	return args.Error(0)
}

func (m *mockLifecycleStore) SetWorkflow(ctx context.Context, firmID string, id uuid.UUID, workflowID, runID string) error {
	args := m.Called(ctx, firmID, id, workflowID, runID)
	return args.Error(0)
}

func (m *mockLifecycleStore) AssignedTeam(ctx context.Context, firmID string, id uuid.UUID) (string, error) {
	args := m.Called(ctx, firmID, id)
	return args.String(0), args.Error(1)
}

// ---------------------------------------------------------------------------
// Mock: ActivityRepository
// ---------------------------------------------------------------------------

type mockActivityRepository struct {
	mock.Mock
}

func (m *mockActivityRepository) Append(ctx context.Context, entry *domain.CaseActivity) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockActivityRepository) ListByEntity(ctx context.Context, firmID string, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]*domain.CaseActivity, int64, error) {
	args := m.Called(ctx, firmID, entityType, entityID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.CaseActivity), args.Get(1).(int64), args.Error(2)
}

// ---------------------------------------------------------------------------
// Mock: TemplateRepository
// ---------------------------------------------------------------------------

type mockTemplateRepository struct {
	mock.Mock
}

func (m *mockTemplateRepository) Create(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	args := m.Called(ctx, tpl)
	return args.Error(0)
}

func (m *mockTemplateRepository) Get(ctx context.Context, firmID string, id uuid.UUID) (*domain.WorkflowTemplate, error) {
	args := m.Called(ctx, firmID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowTemplate), args.Error(1)
}

func (m *mockTemplateRepository) GetActive(ctx context.Context, firmID string, entityType domain.EntityType) (*domain.WorkflowTemplate, error) {
	args := m.Called(ctx, firmID, entityType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowTemplate), args.Error(1)
}

func (m *mockTemplateRepository) List(ctx context.Context, filter repository.TemplateFilter) ([]*domain.WorkflowTemplate, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.WorkflowTemplate), args.Get(1).(int64), args.Error(2)
}

func (m *mockTemplateRepository) SetActive(ctx context.Context, firmID string, id uuid.UUID, active bool) error {
	args := m.Called(ctx, firmID, id, active)
	return args.Error(0)
}

// ---------------------------------------------------------------------------
// Mock: ReminderRepository
// ---------------------------------------------------------------------------

type mockReminderRepository struct {
	mock.Mock
}

func (m *mockReminderRepository) Create(ctx context.Context, rem *domain.CourtDateReminder) error {
	args := m.Called(ctx, rem)
	return args.Error(0)
}

func (m *mockReminderRepository) ListByCase(ctx context.Context, firmID string, caseID uuid.UUID) ([]*domain.CourtDateReminder, error) {
	args := m.Called(ctx, firmID, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CourtDateReminder), args.Error(1)
}

// ---------------------------------------------------------------------------
// Mock: Publisher
// ---------------------------------------------------------------------------

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event *domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
