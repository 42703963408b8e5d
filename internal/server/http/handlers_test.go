package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
	"github.com/mizanhq/case-lifecycle-service/internal/repository"
	"github.com/mizanhq/case-lifecycle-service/internal/temporal"
)

// ---------------------------------------------------------------------------
// Mock implementations
// ---------------------------------------------------------------------------

// mockCaseRepo implements repository.CaseRepository for HTTP handler tests.
type mockCaseRepo struct {
	createFn          func(ctx context.Context, c *domain.Case) error
	getFn             func(ctx context.Context, firmID string, id uuid.UUID) (*domain.Case, error)
	getByWorkflowIDFn func(ctx context.Context, workflowID string) (*domain.Case, error)
	listFn            func(ctx context.Context, filter repository.CaseFilter) ([]*domain.Case, int64, error)
	setWorkflowFn     func(ctx context.Context, firmID string, id uuid.UUID, workflowID, runID string) error
}

func (m *mockCaseRepo) Create(ctx context.Context, c *domain.Case) error {
	if m.createFn != nil {
		return m.createFn(ctx, c)
	}
	return nil
}

func (m *mockCaseRepo) Get(ctx context.Context, firmID string, id uuid.UUID) (*domain.Case, error) {
	if m.getFn != nil {
		return m.getFn(ctx, firmID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCaseRepo) GetByWorkflowID(ctx context.Context, workflowID string) (*domain.Case, error) {
	if m.getByWorkflowIDFn != nil {
		return m.getByWorkflowIDFn(ctx, workflowID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCaseRepo) List(ctx context.Context, filter repository.CaseFilter) ([]*domain.Case, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockCaseRepo) SetWorkflow(ctx context.Context, firmID string, id uuid.UUID, workflowID, runID string) error {
	if m.setWorkflowFn != nil {
		return m.setWorkflowFn(ctx, firmID, id, workflowID, runID)
	}
	return nil
}

func (m *mockCaseRepo) UpdateStage(_ context.Context, _ string, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

func (m *mockCaseRepo) UpdateStatus(_ context.Context, _ string, _ uuid.UUID, _ domain.CaseStatus) error {
	return nil
}

func (m *mockCaseRepo) AssignedTeam(_ context.Context, _ string, _ uuid.UUID) (string, error) {
	return "", nil
}

// mockOffboardingRepo implements repository.OffboardingRepository.
type mockOffboardingRepo struct {
	createFn func(ctx context.Context, o *domain.Offboarding) error
	getFn    func(ctx context.Context, firmID string, id uuid.UUID) (*domain.Offboarding, error)
	listFn   func(ctx context.Context, filter repository.CaseFilter) ([]*domain.Offboarding, int64, error)
}

func (m *mockOffboardingRepo) Create(ctx context.Context, o *domain.Offboarding) error {
	if m.createFn != nil {
		return m.createFn(ctx, o)
	}
	return nil
}

func (m *mockOffboardingRepo) Get(ctx context.Context, firmID string, id uuid.UUID) (*domain.Offboarding, error) {
	if m.getFn != nil {
		return m.getFn(ctx, firmID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockOffboardingRepo) List(ctx context.Context, filter repository.CaseFilter) ([]*domain.Offboarding, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockOffboardingRepo) UpdateStage(_ context.Context, _ string, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

func (m *mockOffboardingRepo) UpdateStatus(_ context.Context, _ string, _ uuid.UUID, _ domain.CaseStatus) error {
	return nil
}

func (m *mockOffboardingRepo) SetWorkflow(_ context.Context, _ string, _ uuid.UUID, _, _ string) error {
	return nil
}

func (m *mockOffboardingRepo) AssignedTeam(_ context.Context, _ string, _ uuid.UUID) (string, error) {
	return "", nil
}

// mockTemplateRepo implements repository.TemplateRepository.
type mockTemplateRepo struct {
	createFn    func(ctx context.Context, tpl *domain.WorkflowTemplate) error
	getFn       func(ctx context.Context, firmID string, id uuid.UUID) (*domain.WorkflowTemplate, error)
	getActiveFn func(ctx context.Context, firmID string, entityType domain.EntityType) (*domain.WorkflowTemplate, error)
	listFn      func(ctx context.Context, filter repository.TemplateFilter) ([]*domain.WorkflowTemplate, int64, error)
	setActiveFn func(ctx context.Context, firmID string, id uuid.UUID, active bool) error
}

func (m *mockTemplateRepo) Create(ctx context.Context, tpl *domain.WorkflowTemplate) error {
	if m.createFn != nil {
		return m.createFn(ctx, tpl)
	}
	return nil
}

func (m *mockTemplateRepo) Get(ctx context.Context, firmID string, id uuid.UUID) (*domain.WorkflowTemplate, error) {
	if m.getFn != nil {
		return m.getFn(ctx, firmID, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTemplateRepo) GetActive(ctx context.Context, firmID string, entityType domain.EntityType) (*domain.WorkflowTemplate, error) {
	if m.getActiveFn != nil {
		return m.getActiveFn(ctx, firmID, entityType)
	}
	return nil, domain.ErrNotFound
}

func (m *mockTemplateRepo) List(ctx context.Context, filter repository.TemplateFilter) ([]*domain.WorkflowTemplate, int64, error) {
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, 0, nil
}

func (m *mockTemplateRepo) SetActive(ctx context.Context, firmID string, id uuid.UUID, active bool) error {
	if m.setActiveFn != nil {
		return m.setActiveFn(ctx, firmID, id, active)
	}
	return nil
}

// mockActivityRepo implements repository.ActivityRepository.
type mockActivityRepo struct {
	appendFn       func(ctx context.Context, activity *domain.CaseActivity) error
	listByEntityFn func(ctx context.Context, firmID string, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]*domain.CaseActivity, int64, error)
}

func (m *mockActivityRepo) Append(ctx context.Context, activity *domain.CaseActivity) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, activity)
	}
	return nil
}

func (m *mockActivityRepo) ListByEntity(ctx context.Context, firmID string, entityType domain.EntityType, entityID uuid.UUID, limit, offset int) ([]*domain.CaseActivity, int64, error) {
	if m.listByEntityFn != nil {
		return m.listByEntityFn(ctx, firmID, entityType, entityID, limit, offset)
	}
	return nil, 0, nil
}

// mockReminderRepo implements repository.ReminderRepository.
type mockReminderRepo struct {
	createFn     func(ctx context.Context, reminder *domain.CourtDateReminder) error
	listByCaseFn func(ctx context.Context, firmID string, caseID uuid.UUID) ([]*domain.CourtDateReminder, error)
}

func (m *mockReminderRepo) Create(ctx context.Context, reminder *domain.CourtDateReminder) error {
	if m.createFn != nil {
		return m.createFn(ctx, reminder)
	}
	return nil
}

func (m *mockReminderRepo) ListByCase(ctx context.Context, firmID string, caseID uuid.UUID) ([]*domain.CourtDateReminder, error) {
	if m.listByCaseFn != nil {
		return m.listByCaseFn(ctx, firmID, caseID)
	}
	return nil, nil
}

// mockWorkflowClient implements WorkflowClient for HTTP handler tests.
type mockWorkflowClient struct {
	startFn  func(ctx context.Context, input temporal.LifecycleWorkflowInput, workflowFunc interface{}) (string, string, error)
	signalFn func(ctx context.Context, workflowID, runID, signalName string, arg interface{}) error
	queryFn  func(ctx context.Context, workflowID, runID, queryType string, result interface{}, args ...interface{}) error
	cancelFn func(ctx context.Context, workflowID, runID string) error
}

func (m *mockWorkflowClient) StartLifecycleWorkflow(ctx context.Context, input temporal.LifecycleWorkflowInput, workflowFunc interface{}) (string, string, error) {
	if m.startFn != nil {
		return m.startFn(ctx, input, workflowFunc)
	}
	return "wf-test", "run-test", nil
}

func (m *mockWorkflowClient) SignalWorkflow(ctx context.Context, workflowID, runID, signalName string, arg interface{}) error {
	if m.signalFn != nil {
		return m.signalFn(ctx, workflowID, runID, signalName, arg)
	}
	return nil
}

func (m *mockWorkflowClient) QueryWorkflow(ctx context.Context, workflowID, runID, queryType string, result interface{}, args ...interface{}) error {
	if m.queryFn != nil {
		return m.queryFn(ctx, workflowID, runID, queryType, result, args...)
	}
	return nil
}

func (m *mockWorkflowClient) CancelWorkflow(ctx context.Context, workflowID, runID string) error {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, workflowID, runID)
	}
	return nil
}

func (m *mockWorkflowClient) Health(_ context.Context) error { return nil }

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// testDeps bundles mock dependencies for newTestHTTPServer; zero values get
// working defaults.
type testDeps struct {
	wfClient        *mockWorkflowClient
	caseRepo        *mockCaseRepo
	offboardingRepo *mockOffboardingRepo
	templateRepo    *mockTemplateRepo
	activityRepo    *mockActivityRepo
	reminderRepo    *mockReminderRepo
}

// newTestHTTPServer creates a Server configured for testing with mocked
// dependencies.
func newTestHTTPServer(deps testDeps) *Server {
	if deps.wfClient == nil {
		deps.wfClient = &mockWorkflowClient{}
	}
	if deps.caseRepo == nil {
		deps.caseRepo = &mockCaseRepo{}
	}
	if deps.offboardingRepo == nil {
		deps.offboardingRepo = &mockOffboardingRepo{}
	}
	if deps.templateRepo == nil {
		deps.templateRepo = &mockTemplateRepo{}
	}
	if deps.activityRepo == nil {
		deps.activityRepo = &mockActivityRepo{}
	}
	if deps.reminderRepo == nil {
		deps.reminderRepo = &mockReminderRepo{}
	}

	s := &Server{
		workflowClient:  deps.wfClient,
		caseRepo:        deps.caseRepo,
		offboardingRepo: deps.offboardingRepo,
		templateRepo:    deps.templateRepo,
		activityRepo:    deps.activityRepo,
		reminderRepo:    deps.reminderRepo,
		logger:          zerolog.Nop(),
		validate:        validator.New(),
	}
	s.router = s.buildRouter()
	return s
}

// serveHTTP dispatches a request through the test server's router and returns
// the recorder.
func serveHTTP(s *Server, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, r)
	return rr
}

// casePath returns the full API path for a case endpoint.
func casePath(firmID, suffix string) string {
	return "/api/v1/firms/" + firmID + "/cases" + suffix
}

// offboardingPath returns the full API path for an offboarding endpoint.
func offboardingPath(firmID, suffix string) string {
	return "/api/v1/firms/" + firmID + "/offboardings" + suffix
}

// templatePath returns the full API path for a template endpoint.
func templatePath(firmID, suffix string) string {
	return "/api/v1/firms/" + firmID + "/templates" + suffix
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// decodeJSON decodes a JSON response body into the given target.
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(target); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}

// newTestCase returns an active case with a running workflow.
func newTestCase(firmID string) *domain.Case {
	now := time.Now()
	stage := "intake"
	return &domain.Case{
		ID:             uuid.New(),
		FirmID:         firmID,
		Title:          "Smith v. Jones",
		CaseType:       "litigation",
		Status:         domain.CaseStatusActive,
		CurrentStageID: stage,
		StageEnteredAt: &now,
		WorkflowID:     "lifecycle-case-test",
		RunID:          "run-1",
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ---------------------------------------------------------------------------
// Tests: createCase
// ---------------------------------------------------------------------------

func TestCreateCase_Success(t *testing.T) {
	var createdCase *domain.Case
	var workflowSet bool

	caseRepo := &mockCaseRepo{
		createFn: func(_ context.Context, c *domain.Case) error {
			createdCase = c
			return nil
		},
		setWorkflowFn: func(_ context.Context, _ string, _ uuid.UUID, workflowID, runID string) error {
			workflowSet = workflowID != "" && runID != ""
			return nil
		},
	}

	var capturedInput temporal.LifecycleWorkflowInput
	wfClient := &mockWorkflowClient{
		startFn: func(_ context.Context, input temporal.LifecycleWorkflowInput, _ interface{}) (string, string, error) {
			capturedInput = input
			return "lifecycle-case-" + input.EntityID.String(), "run-abc", nil
		},
	}

	srv := newTestHTTPServer(testDeps{wfClient: wfClient, caseRepo: caseRepo})

	body := `{"title":"Smith v. Jones","case_type":"litigation","assigned_team_id":"team-lit","started_by":"attorney-1"}`
	rr := serveHTTP(srv, jsonRequest(http.MethodPost, casePath("firm-1", "/"), body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp caseResponse
	decodeJSON(t, rr, &resp)

	if resp.WorkflowID == "" {
		t.Error("expected workflow_id to be set")
	}
	if resp.Status != string(domain.CaseStatusOpen) {
		t.Errorf("expected status %q, got %q", domain.CaseStatusOpen, resp.Status)
	}

	if createdCase == nil {
		t.Fatal("expected createFn to be called")
	}
	if createdCase.FirmID != "firm-1" {
		t.Errorf("expected firm_id firm-1, got %s", createdCase.FirmID)
	}
	if createdCase.Title != "Smith v. Jones" {
		t.Errorf("expected title to match, got %s", createdCase.Title)
	}

	if capturedInput.EntityType != domain.EntityTypeCase {
		t.Errorf("expected entity type case, got %s", capturedInput.EntityType)
	}
	if capturedInput.EntityID != createdCase.ID {
		t.Error("expected workflow input entity ID to match the created case")
	}
	if capturedInput.StartedBy != "attorney-1" {
		t.Errorf("expected started_by attorney-1, got %s", capturedInput.StartedBy)
	}
	if !workflowSet {
		t.Error("expected workflow IDs to be persisted on the case")
	}
}

func TestCreateCase_MissingTitle(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	body := `{"case_type":"litigation"}`
	rr := serveHTTP(srv, jsonRequest(http.MethodPost, casePath("firm-1", "/"), body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateCase_InvalidJSON(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	rr := serveHTTP(srv, jsonRequest(http.MethodPost, casePath("firm-1", "/"), "{invalid json"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateCase_InvalidTemplateID(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	body := `{"title":"Smith v. Jones","case_type":"litigation","template_id":"not-a-uuid"}`
	rr := serveHTTP(srv, jsonRequest(http.MethodPost, casePath("firm-1", "/"), body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateCase_WorkflowStartError(t *testing.T) {
	wfClient := &mockWorkflowClient{
		startFn: func(_ context.Context, _ temporal.LifecycleWorkflowInput, _ interface{}) (string, string, error) {
			return "", "", temporal.ErrConnectionFailed
		},
	}
	srv := newTestHTTPServer(testDeps{wfClient: wfClient})

	body := `{"title":"Smith v. Jones","case_type":"litigation"}`
	rr := serveHTTP(srv, jsonRequest(http.MethodPost, casePath("firm-1", "/"), body))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d: %s", rr.Code, rr.Body.String())
	}
}

// ---------------------------------------------------------------------------
// Tests: getCase / listCases
// ---------------------------------------------------------------------------

func TestGetCase_Success(t *testing.T) {
	c := newTestCase("firm-1")
	caseRepo := &mockCaseRepo{
		getFn: func(_ context.Context, firmID string, id uuid.UUID) (*domain.Case, error) {
			if firmID != "firm-1" || id != c.ID {
				return nil, domain.ErrNotFound
			}
			return c, nil
		},
	}
	srv := newTestHTTPServer(testDeps{caseRepo: caseRepo})

	req := httptest.NewRequest(http.MethodGet, casePath("firm-1", "/"+c.ID.String()), nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp caseResponse
	decodeJSON(t, rr, &resp)
	if resp.ID != c.ID.String() {
		t.Errorf("expected case ID %s, got %s", c.ID, resp.ID)
	}
	if resp.CurrentStageID != "intake" {
		t.Errorf("expected stage intake, got %s", resp.CurrentStageID)
	}
}

func TestGetCase_NotFound(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	req := httptest.NewRequest(http.MethodGet, casePath("firm-1", "/"+uuid.NewString()), nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestGetCase_InvalidID(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	req := httptest.NewRequest(http.MethodGet, casePath("firm-1", "/not-a-uuid"), nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestListCases_StatusFilter(t *testing.T) {
	var capturedFilter repository.CaseFilter
	caseRepo := &mockCaseRepo{
		listFn: func(_ context.Context, filter repository.CaseFilter) ([]*domain.Case, int64, error) {
			capturedFilter = filter
			return []*domain.Case{newTestCase("firm-1")}, 1, nil
		},
	}
	srv := newTestHTTPServer(testDeps{caseRepo: caseRepo})

	req := httptest.NewRequest(http.MethodGet, casePath("firm-1", "/?status=active&stage=intake"), nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	if capturedFilter.FirmID != "firm-1" {
		t.Errorf("expected firm_id firm-1, got %s", capturedFilter.FirmID)
	}
	if len(capturedFilter.Status) != 1 || capturedFilter.Status[0] != domain.CaseStatusActive {
		t.Errorf("expected status filter [active], got %v", capturedFilter.Status)
	}
	if capturedFilter.CurrentStageID != "intake" {
		t.Errorf("expected stage filter intake, got %s", capturedFilter.CurrentStageID)
	}

	var resp listCasesResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(resp.Cases))
	}
	if resp.TotalCount != 1 {
		t.Errorf("expected total_count 1, got %d", resp.TotalCount)
	}
	if resp.NextPageToken != "" {
		t.Errorf("expected no next page token, got %q", resp.NextPageToken)
	}
}

func TestListCases_InvalidDateFilter(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	req := httptest.NewRequest(http.MethodGet, casePath("firm-1", "/?created_after=yesterday"), nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestListCases_Pagination(t *testing.T) {
	caseRepo := &mockCaseRepo{
		listFn: func(_ context.Context, filter repository.CaseFilter) ([]*domain.Case, int64, error) {
			cases := make([]*domain.Case, filter.Limit)
			for i := range cases {
				cases[i] = newTestCase("firm-1")
			}
			return cases, 120, nil
		},
	}
	srv := newTestHTTPServer(testDeps{caseRepo: caseRepo})

	req := httptest.NewRequest(http.MethodGet, casePath("firm-1", "/?page_size=10"), nil)
	rr := serveHTTP(srv, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp listCasesResponse
	decodeJSON(t, rr, &resp)
	if len(resp.Cases) != 10 {
		t.Errorf("expected 10 cases, got %d", len(resp.Cases))
	}
	if resp.NextPageToken == "" {
		t.Error("expected a next page token with more results remaining")
	}
}

// ---------------------------------------------------------------------------
// Tests: createOffboarding
// ---------------------------------------------------------------------------

func TestCreateOffboarding_Success(t *testing.T) {
	var createdOffboarding *domain.Offboarding
	offboardingRepo := &mockOffboardingRepo{
		createFn: func(_ context.Context, o *domain.Offboarding) error {
			createdOffboarding = o
			return nil
		},
	}

	var capturedInput temporal.LifecycleWorkflowInput
	wfClient := &mockWorkflowClient{
		startFn: func(_ context.Context, input temporal.LifecycleWorkflowInput, _ interface{}) (string, string, error) {
			capturedInput = input
			return "lifecycle-offboarding-" + input.EntityID.String(), "run-xyz", nil
		},
	}

	srv := newTestHTTPServer(testDeps{wfClient: wfClient, offboardingRepo: offboardingRepo})

	employeeID := uuid.NewString()
	body := `{"employee_id":"` + employeeID + `","employee_name":"Pat Doe","reason":"resignation","last_working_day":"2026-09-30T00:00:00Z"}`
	rr := serveHTTP(srv, jsonRequest(http.MethodPost, offboardingPath("firm-1", "/"), body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rr.Code, rr.Body.String())
	}

	if createdOffboarding == nil {
		t.Fatal("expected createFn to be called")
	}
	if createdOffboarding.EmployeeID.String() != employeeID {
		t.Errorf("expected employee_id %s, got %s", employeeID, createdOffboarding.EmployeeID)
	}
	if capturedInput.EntityType != domain.EntityTypeOffboarding {
		t.Errorf("expected entity type offboarding, got %s", capturedInput.EntityType)
	}

	var resp offboardingResponse
	decodeJSON(t, rr, &resp)
	if resp.WorkflowID == "" {
		t.Error("expected workflow_id to be set")
	}
}

func TestCreateOffboarding_InvalidLastWorkingDay(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	body := `{"employee_id":"` + uuid.NewString() + `","employee_name":"Pat Doe","reason":"resignation","last_working_day":"next friday"}`
	rr := serveHTTP(srv, jsonRequest(http.MethodPost, offboardingPath("firm-1", "/"), body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestCreateOffboarding_MissingEmployeeName(t *testing.T) {
	srv := newTestHTTPServer(testDeps{})

	body := `{"employee_id":"` + uuid.NewString() + `","reason":"resignation","last_working_day":"2026-09-30T00:00:00Z"}`
	rr := serveHTTP(srv, jsonRequest(http.MethodPost, offboardingPath("firm-1", "/"), body))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
	}
}
