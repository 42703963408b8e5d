package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the case lifecycle service.
// Metrics are organized by subsystem: workflows, stages, requirements, reminders,
// signals, and persistence. All counters and histograms are registered via promauto
// for automatic registration with the default Prometheus registry.
type Metrics struct {
	// WorkflowsStarted counts lifecycle workflows started, labeled by entity type.
	WorkflowsStarted *prometheus.CounterVec

	// WorkflowsCompleted counts workflows that reached a terminal stage, labeled by entity type.
	WorkflowsCompleted *prometheus.CounterVec

	// WorkflowsFailed counts workflows that ended in failure, labeled by entity type.
	WorkflowsFailed *prometheus.CounterVec

	// WorkflowsCancelled counts workflows cancelled by user or system, labeled by entity type.
	WorkflowsCancelled *prometheus.CounterVec

	// WorkflowDuration observes end-to-end workflow duration in seconds, labeled by entity type.
	WorkflowDuration *prometheus.HistogramVec

	// StageTransitions counts stage transitions, labeled by entity type and trigger (auto, manual).
	StageTransitions *prometheus.CounterVec

	// StageDuration observes time spent in a stage in seconds, labeled by entity type.
	StageDuration *prometheus.HistogramVec

	// RequirementsCompleted counts requirement completions, labeled by requirement kind.
	RequirementsCompleted *prometheus.CounterVec

	// RemindersSent counts reminders sent, labeled by kind (deadline, deadline_overdue, court_48h, court_24h).
	RemindersSent *prometheus.CounterVec

	// SignalsReceived counts signals received, labeled by signal name.
	SignalsReceived *prometheus.CounterVec

	// QueriesServed counts queries served, labeled by query name.
	QueriesServed *prometheus.CounterVec

	// ActivityLogWrites counts append-only audit log writes.
	ActivityLogWrites prometheus.Counter

	// ActivityLogFailures counts failed audit log writes.
	ActivityLogFailures prometheus.Counter

	// EventsPublished counts notification events published, labeled by event type.
	EventsPublished *prometheus.CounterVec

	// EventsFailed counts failed event publishes, labeled by event type.
	EventsFailed *prometheus.CounterVec

	// DBQueryDuration observes repository query duration in seconds, labeled by repository and operation.
	DBQueryDuration *prometheus.HistogramVec

	// DBQueryErrors counts repository query errors, labeled by repository and operation.
	DBQueryErrors *prometheus.CounterVec

	// HTTPRequestsTotal counts HTTP requests, labeled by method, route, and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes HTTP request duration in seconds, labeled by method and route.
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		// Workflows
		WorkflowsStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflows_started_total",
			Help:      "Total number of lifecycle workflows started",
		}, []string{"entity_type"}),
		WorkflowsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflows_completed_total",
			Help:      "Total number of lifecycle workflows that reached a terminal stage",
		}, []string{"entity_type"}),
		WorkflowsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflows_failed_total",
			Help:      "Total number of lifecycle workflows that failed",
		}, []string{"entity_type"}),
		WorkflowsCancelled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflows_cancelled_total",
			Help:      "Total number of lifecycle workflows cancelled",
		}, []string{"entity_type"}),
		WorkflowDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "workflow_duration_seconds",
			Help:      "Duration of lifecycle workflows in seconds",
			Buckets:   []float64{60, 3600, 86400, 604800, 2592000, 7776000},
		}, []string{"entity_type"}),

		// Stages
		StageTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_transitions_total",
			Help:      "Total number of stage transitions by trigger",
		}, []string{"entity_type", "trigger"}),
		StageDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time spent in a stage in seconds",
			Buckets:   []float64{60, 3600, 86400, 259200, 604800, 2592000},
		}, []string{"entity_type"}),

		// Requirements
		RequirementsCompleted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requirements_completed_total",
			Help:      "Total number of stage requirements completed by kind",
		}, []string{"kind"}),

		// Reminders
		RemindersSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Total number of deadline and court date reminders sent by kind",
		}, []string{"kind"}),

		// Signals and queries
		SignalsReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_received_total",
			Help:      "Total number of workflow signals received by name",
		}, []string{"signal"}),
		QueriesServed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_served_total",
			Help:      "Total number of workflow queries served by name",
		}, []string{"query"}),

		// Activity log
		ActivityLogWrites: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_log_writes_total",
			Help:      "Total number of audit log entries written",
		}),
		ActivityLogFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_log_failures_total",
			Help:      "Total number of failed audit log writes",
		}),

		// Events
		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Total number of notification events published by type",
		}, []string{"event_type"}),
		EventsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_failed_total",
			Help:      "Total number of failed event publishes by type",
		}, []string{"event_type"}),

		// Database
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Duration of repository queries in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"repository", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_query_errors_total",
			Help:      "Total number of repository query errors",
		}, []string{"repository", "operation"}),

		// HTTP
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
	}
}

// RecordWorkflowStarted records that a lifecycle workflow has started.
func (m *Metrics) RecordWorkflowStarted(entityType string) {
	m.WorkflowsStarted.WithLabelValues(entityType).Inc()
}

// RecordWorkflowCompleted records that a workflow reached a terminal stage.
func (m *Metrics) RecordWorkflowCompleted(entityType string, durationSeconds float64) {
	m.WorkflowsCompleted.WithLabelValues(entityType).Inc()
	m.WorkflowDuration.WithLabelValues(entityType).Observe(durationSeconds)
}

// RecordWorkflowFailed records that a workflow has failed.
func (m *Metrics) RecordWorkflowFailed(entityType string, durationSeconds float64) {
	m.WorkflowsFailed.WithLabelValues(entityType).Inc()
	m.WorkflowDuration.WithLabelValues(entityType).Observe(durationSeconds)
}

// RecordWorkflowCancelled records that a workflow has been cancelled.
func (m *Metrics) RecordWorkflowCancelled(entityType string) {
	m.WorkflowsCancelled.WithLabelValues(entityType).Inc()
}

// RecordStageTransition records a stage transition and the time spent in the
// exited stage.
func (m *Metrics) RecordStageTransition(entityType, trigger string, stageSeconds float64) {
	m.StageTransitions.WithLabelValues(entityType, trigger).Inc()
	m.StageDuration.WithLabelValues(entityType).Observe(stageSeconds)
}

// RecordRequirementCompleted records a requirement completion.
func (m *Metrics) RecordRequirementCompleted(kind string) {
	m.RequirementsCompleted.WithLabelValues(kind).Inc()
}

// RecordReminderSent records a reminder delivery.
func (m *Metrics) RecordReminderSent(kind string) {
	m.RemindersSent.WithLabelValues(kind).Inc()
}

// RecordSignalReceived records a workflow signal.
func (m *Metrics) RecordSignalReceived(signal string) {
	m.SignalsReceived.WithLabelValues(signal).Inc()
}

// RecordQueryServed records a workflow query.
func (m *Metrics) RecordQueryServed(query string) {
	m.QueriesServed.WithLabelValues(query).Inc()
}

// RecordActivityLogWrite records an audit log write.
func (m *Metrics) RecordActivityLogWrite() {
	m.ActivityLogWrites.Inc()
}

// RecordActivityLogFailure records a failed audit log write.
func (m *Metrics) RecordActivityLogFailure() {
	m.ActivityLogFailures.Inc()
}

// RecordEventPublished records a notification event publish.
func (m *Metrics) RecordEventPublished(eventType string) {
	m.EventsPublished.WithLabelValues(eventType).Inc()
}

// RecordEventFailed records a failed event publish.
func (m *Metrics) RecordEventFailed(eventType string) {
	m.EventsFailed.WithLabelValues(eventType).Inc()
}

// RecordDBQuery records a repository query.
func (m *Metrics) RecordDBQuery(repository, operation string, durationSeconds float64) {
	m.DBQueryDuration.WithLabelValues(repository, operation).Observe(durationSeconds)
}

// RecordDBQueryError records a repository query error.
func (m *Metrics) RecordDBQueryError(repository, operation string) {
	m.DBQueryErrors.WithLabelValues(repository, operation).Inc()
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, route, status string, durationSeconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}
