package temporal

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/mizanhq/case-lifecycle-service/internal/domain"
)

// DefaultHealthCheckTimeout bounds the Temporal server probe issued by the
// readiness endpoint.
const DefaultHealthCheckTimeout = 5 * time.Second

// =============================================================================
// Sentinel Errors
// =============================================================================

var (
	// ErrWorkflowNotFound means no lifecycle execution exists for the
	// workflow id, typically because the entity's lifecycle never started or
	// already closed out.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrWorkflowAlreadyStarted means the entity already has a running
	// lifecycle; workflow ids are deterministic per entity, so a second start
	// is rejected rather than forked.
	ErrWorkflowAlreadyStarted = errors.New("workflow already started")

	// ErrQueryFailed means the workflow rejected or could not answer a query.
	ErrQueryFailed = errors.New("query failed")

	// ErrSignalFailed means a signal could not be delivered.
	ErrSignalFailed = errors.New("signal failed")

	// ErrClientClosed means the client was used after Close.
	ErrClientClosed = errors.New("client closed")

	// ErrConnectionFailed covers transport failures reaching the Temporal
	// server.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrNamespaceNotFound means the configured namespace does not exist.
	ErrNamespaceNotFound = errors.New("namespace not found")

	// ErrPermissionDenied means the server refused the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidArgument means the server rejected the request payload.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrResourceExhausted means a server-side rate or quota limit was hit.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrDeadlineExceeded means the operation ran past its deadline.
	ErrDeadlineExceeded = errors.New("deadline exceeded")
)

// =============================================================================
// Error Helpers
// =============================================================================

// TemporalError carries the failed operation, its sentinel category, and the
// workflow coordinates. The HTTP layer maps the category to a status code;
// the coordinates keep log lines traceable to a specific lifecycle run.
type TemporalError struct {
	Op         string // operation that failed
	Kind       error  // sentinel category
	WorkflowID string
	RunID      string
	Err        error // underlying SDK error
}

// Error returns the error message.
func (e *TemporalError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.WorkflowID != "" {
		msg += fmt.Sprintf(" [workflowID=%s", e.WorkflowID)
		if e.RunID != "" {
			msg += fmt.Sprintf(", runID=%s", e.RunID)
		}
		msg += "]"
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *TemporalError) Unwrap() error {
	return e.Err
}

// Is reports whether target matches this error's Kind.
func (e *TemporalError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// wrapTemporalError sorts a Temporal SDK error into one of the sentinel
// categories.
func wrapTemporalError(op string, err error, workflowID, runID string) error {
	if err == nil {
		return nil
	}

	te := &TemporalError{
		Op:         op,
		WorkflowID: workflowID,
		RunID:      runID,
		Err:        err,
	}

	var notFoundErr *serviceerror.NotFound
	var alreadyStartedErr *serviceerror.WorkflowExecutionAlreadyStarted
	var namespaceNotFoundErr *serviceerror.NamespaceNotFound
	var permissionDeniedErr *serviceerror.PermissionDenied
	var invalidArgumentErr *serviceerror.InvalidArgument
	var resourceExhaustedErr *serviceerror.ResourceExhausted
	var deadlineExceededErr *serviceerror.DeadlineExceeded
	var queryFailedErr *serviceerror.QueryFailed
	var unavailableErr *serviceerror.Unavailable

	switch {
	case errors.As(err, &notFoundErr):
		te.Kind = ErrWorkflowNotFound
	case errors.As(err, &alreadyStartedErr):
		te.Kind = ErrWorkflowAlreadyStarted
	case errors.As(err, &namespaceNotFoundErr):
		te.Kind = ErrNamespaceNotFound
	case errors.As(err, &permissionDeniedErr):
		te.Kind = ErrPermissionDenied
	case errors.As(err, &invalidArgumentErr):
		te.Kind = ErrInvalidArgument
	case errors.As(err, &resourceExhaustedErr):
		te.Kind = ErrResourceExhausted
	case errors.As(err, &deadlineExceededErr):
		te.Kind = ErrDeadlineExceeded
	case errors.As(err, &queryFailedErr):
		te.Kind = ErrQueryFailed
	case errors.As(err, &unavailableErr):
		te.Kind = ErrConnectionFailed
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			te.Kind = ErrDeadlineExceeded
		} else if errors.Is(err, context.Canceled) {
			te.Kind = ErrClientClosed
		} else {
			te.Kind = ErrConnectionFailed
		}
	}

	return te
}

// IsWorkflowNotFound reports whether err is an ErrWorkflowNotFound.
func IsWorkflowNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound)
}

// IsWorkflowAlreadyStarted reports whether err is an ErrWorkflowAlreadyStarted.
func IsWorkflowAlreadyStarted(err error) bool {
	return errors.Is(err, ErrWorkflowAlreadyStarted)
}

// IsQueryFailed reports whether err is an ErrQueryFailed.
func IsQueryFailed(err error) bool {
	return errors.Is(err, ErrQueryFailed)
}

// IsConnectionFailed reports whether err is an ErrConnectionFailed.
func IsConnectionFailed(err error) bool {
	return errors.Is(err, ErrConnectionFailed)
}

// =============================================================================
// TLS Configuration
// =============================================================================

// TLSConfig describes the mutual-TLS material for connecting to a hardened
// Temporal cluster. All paths are PEM files.
type TLSConfig struct {
	// Enabled turns TLS on for the connection.
	Enabled bool

	// CertPath and KeyPath hold the client certificate pair.
	CertPath string
	KeyPath  string

	// CACertPath holds the CA bundle used to verify the server.
	CACertPath string

	// ServerName overrides the expected server name during verification.
	ServerName string

	// InsecureSkipVerify disables certificate verification. Development only.
	InsecureSkipVerify bool
}

// buildTLSConfig materializes the *tls.Config, loading key material from disk.
func (t *TLSConfig) buildTLSConfig() (*tls.Config, error) {
	if !t.Enabled {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: t.InsecureSkipVerify,
		ServerName:         t.ServerName,
		MinVersion:         tls.VersionTLS12,
	}

	if t.CertPath != "" && t.KeyPath != "" {
		cert, err := tls.LoadX509KeyPair(t.CertPath, t.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if t.CACertPath != "" {
		caCert, err := os.ReadFile(t.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("read CA certificate: %w", err)
		}

		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("parse CA certificate")
		}
		tlsConfig.RootCAs = caCertPool
	}

	return tlsConfig, nil
}

// =============================================================================
// Client Configuration
// =============================================================================

// ClientConfig carries the connection settings for the Temporal client.
type ClientConfig struct {
	// HostPort is the Temporal frontend address, e.g. "localhost:7233".
	HostPort string

	// Namespace scopes all workflow operations.
	Namespace string

	// TaskQueue is where lifecycle workflows are started.
	TaskQueue string

	// TLS is optional transport security.
	TLS *TLSConfig

	// ConnectionTimeout bounds the initial dial. Zero means 10 seconds.
	ConnectionTimeout time.Duration

	// HealthCheckTimeout bounds readiness probes. Zero means
	// DefaultHealthCheckTimeout.
	HealthCheckTimeout time.Duration
}

// NewClient dials the Temporal server.
func NewClient(cfg ClientConfig) (client.Client, error) {
	options := client.Options{
		HostPort:  cfg.HostPort,
		Namespace: cfg.Namespace,
	}

	if cfg.TLS != nil && cfg.TLS.Enabled {
		tlsConfig, err := cfg.TLS.buildTLSConfig()
		if err != nil {
			return nil, fmt.Errorf("configure TLS: %w", err)
		}
		options.ConnectionOptions = client.ConnectionOptions{
			TLS: tlsConfig,
		}
	}

	c, err := client.Dial(options)
	if err != nil {
		return nil, fmt.Errorf("create Temporal client: %w", err)
	}

	return c, nil
}

// =============================================================================
// Shared Workflow Input Types
// =============================================================================

// LifecycleWorkflowInput contains the parameters for starting a lifecycle
// workflow. This type is defined in the temporal package (not in workflows)
// so that the server layer can construct workflow inputs without importing
// the workflows package.
type LifecycleWorkflowInput struct {
	// EntityID is the case or offboarding record the workflow drives.
	EntityID uuid.UUID

	// EntityType selects the lifecycle variant.
	EntityType domain.EntityType

	// FirmID is the tenant firm identifier.
	FirmID string

	// TemplateID optionally pins a specific template version. When nil the
	// workflow resolves the firm's active template for the entity type.
	TemplateID *uuid.UUID

	// AssignedTeamID is the team notified on stage transitions.
	AssignedTeamID string

	// StartedBy is the user who initiated the workflow.
	StartedBy string

	// PollInterval overrides the engine's reminder sweep interval. Zero or
	// negative uses the engine default. Snapshotted at start so config changes
	// never affect in-flight runs.
	PollInterval time.Duration

	// DeadlineReminderDays overrides the approaching-deadline window. Zero or
	// negative uses the engine default.
	DeadlineReminderDays int
}

// WorkflowIDForEntity builds the deterministic workflow ID for an entity.
// One lifecycle workflow per entity: starting a second one for the same
// entity fails with ErrWorkflowAlreadyStarted.
func WorkflowIDForEntity(entityType domain.EntityType, entityID uuid.UUID) string {
	return fmt.Sprintf("lifecycle-%s-%s", entityType, entityID)
}

// =============================================================================
// Case Lifecycle Workflow Client
// =============================================================================

// CaseWorkflowClient starts, signals, queries, and cancels lifecycle
// workflows. It is safe for concurrent use; Close is idempotent.
type CaseWorkflowClient struct {
	mu                 sync.RWMutex
	client             client.Client
	taskQueue          string
	healthCheckTimeout time.Duration
	closed             bool
}

// NewCaseWorkflowClient wraps an already-dialed Temporal client.
func NewCaseWorkflowClient(c client.Client, taskQueue string) *CaseWorkflowClient {
	return &CaseWorkflowClient{
		client:             c,
		taskQueue:          taskQueue,
		healthCheckTimeout: DefaultHealthCheckTimeout,
	}
}

// NewCaseWorkflowClientWithConfig wraps a Temporal client with the timeouts
// and task queue from cfg.
func NewCaseWorkflowClientWithConfig(c client.Client, cfg ClientConfig) *CaseWorkflowClient {
	healthTimeout := cfg.HealthCheckTimeout
	if healthTimeout == 0 {
		healthTimeout = DefaultHealthCheckTimeout
	}

	return &CaseWorkflowClient{
		client:             c,
		taskQueue:          cfg.TaskQueue,
		healthCheckTimeout: healthTimeout,
	}
}

// Close closes the underlying Temporal client connection.
func (c *CaseWorkflowClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil && !c.closed {
		c.client.Close()
		c.closed = true
	}
}

func (c *CaseWorkflowClient) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Health probes the Temporal server, bounded by the health check timeout.
func (c *CaseWorkflowClient) Health(ctx context.Context) error {
	if c.isClosed() {
		return &TemporalError{
			Op:   "Health",
			Kind: ErrClientClosed,
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, c.healthCheckTimeout)
	defer cancel()

	_, err := c.client.CheckHealth(checkCtx, &client.CheckHealthRequest{})
	if err != nil {
		return wrapTemporalError("Health", err, "", "")
	}

	return nil
}

// StartLifecycleWorkflow starts a new lifecycle workflow for an entity.
// The workflow function must be registered with the worker separately.
// Lifecycle workflows run for months, so no execution timeout is set;
// completion is driven by the template's terminal stage.
func (c *CaseWorkflowClient) StartLifecycleWorkflow(ctx context.Context, input LifecycleWorkflowInput, workflowFunc interface{}) (workflowID, runID string, err error) {
	if c.isClosed() {
		return "", "", &TemporalError{
			Op:   "StartLifecycleWorkflow",
			Kind: ErrClientClosed,
		}
	}

	workflowID = WorkflowIDForEntity(input.EntityType, input.EntityID)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: c.taskQueue,
	}

	run, err := c.client.ExecuteWorkflow(ctx, options, workflowFunc, input)
	if err != nil {
		return "", "", wrapTemporalError("StartLifecycleWorkflow", err, workflowID, "")
	}

	return workflowID, run.GetRunID(), nil
}

// CancelWorkflow cancels a running workflow. The workflow aborts without
// running stage exit side effects.
func (c *CaseWorkflowClient) CancelWorkflow(ctx context.Context, workflowID, runID string) error {
	if c.isClosed() {
		return &TemporalError{
			Op:         "CancelWorkflow",
			Kind:       ErrClientClosed,
			WorkflowID: workflowID,
			RunID:      runID,
		}
	}

	err := c.client.CancelWorkflow(ctx, workflowID, runID)
	if err != nil {
		return wrapTemporalError("CancelWorkflow", err, workflowID, runID)
	}
	return nil
}

// GetWorkflowResult blocks until the workflow completes and decodes its
// result. Lifecycles run for months, so the HTTP layer never calls this with
// a request-scoped context; it exists for the worker CLI and tests.
func (c *CaseWorkflowClient) GetWorkflowResult(ctx context.Context, workflowID, runID string, result interface{}) error {
	if c.isClosed() {
		return &TemporalError{
			Op:         "GetWorkflowResult",
			Kind:       ErrClientClosed,
			WorkflowID: workflowID,
			RunID:      runID,
		}
	}

	run := c.client.GetWorkflow(ctx, workflowID, runID)

	if err := run.Get(ctx, result); err != nil {
		return wrapTemporalError("GetWorkflowResult", err, workflowID, runID)
	}

	return nil
}

// WorkflowDescription is a flattened view of a workflow execution's
// server-side metadata.
type WorkflowDescription struct {
	WorkflowID string
	RunID      string
	Status     string
	StartTime  time.Time

	// CloseTime is nil while the workflow is still running.
	CloseTime *time.Time
}

// DescribeWorkflow fetches execution metadata for a lifecycle run.
func (c *CaseWorkflowClient) DescribeWorkflow(ctx context.Context, workflowID, runID string) (*WorkflowDescription, error) {
	if c.isClosed() {
		return nil, &TemporalError{
			Op:         "DescribeWorkflow",
			Kind:       ErrClientClosed,
			WorkflowID: workflowID,
			RunID:      runID,
		}
	}

	resp, err := c.client.DescribeWorkflowExecution(ctx, workflowID, runID)
	if err != nil {
		return nil, wrapTemporalError("DescribeWorkflow", err, workflowID, runID)
	}

	desc := &WorkflowDescription{
		WorkflowID: workflowID,
		RunID:      resp.WorkflowExecutionInfo.Execution.RunId,
		Status:     resp.WorkflowExecutionInfo.Status.String(),
		StartTime:  resp.WorkflowExecutionInfo.StartTime.AsTime(),
	}

	if resp.WorkflowExecutionInfo.CloseTime != nil {
		closeTime := resp.WorkflowExecutionInfo.CloseTime.AsTime()
		desc.CloseTime = &closeTime
	}

	return desc, nil
}

// SignalWorkflow delivers one lifecycle command signal to a running
// workflow.
func (c *CaseWorkflowClient) SignalWorkflow(ctx context.Context, workflowID, runID, signalName string, arg interface{}) error {
	if c.isClosed() {
		return &TemporalError{
			Op:         "SignalWorkflow",
			Kind:       ErrClientClosed,
			WorkflowID: workflowID,
			RunID:      runID,
		}
	}

	err := c.client.SignalWorkflow(ctx, workflowID, runID, signalName, arg)
	if err != nil {
		return wrapTemporalError("SignalWorkflow", err, workflowID, runID)
	}

	return nil
}

// QueryWorkflow runs a read-only query against a workflow and decodes the
// answer into result when it is non-nil.
func (c *CaseWorkflowClient) QueryWorkflow(ctx context.Context, workflowID, runID, queryType string, result interface{}, args ...interface{}) error {
	if c.isClosed() {
		return &TemporalError{
			Op:         "QueryWorkflow",
			Kind:       ErrClientClosed,
			WorkflowID: workflowID,
			RunID:      runID,
		}
	}

	resp, err := c.client.QueryWorkflow(ctx, workflowID, runID, queryType, args...)
	if err != nil {
		return wrapTemporalError("QueryWorkflow", err, workflowID, runID)
	}

	if result != nil {
		if err := resp.Get(result); err != nil {
			return &TemporalError{
				Op:         "QueryWorkflow",
				Kind:       ErrQueryFailed,
				WorkflowID: workflowID,
				RunID:      runID,
				Err:        fmt.Errorf("decode query result: %w", err),
			}
		}
	}

	return nil
}

// Client exposes the underlying Temporal client for operations the wrapper
// does not cover.
func (c *CaseWorkflowClient) Client() client.Client {
	return c.client
}

// TaskQueue returns the configured task queue name.
func (c *CaseWorkflowClient) TaskQueue() string {
	return c.taskQueue
}
