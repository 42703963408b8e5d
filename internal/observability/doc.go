// Package observability provides logging, metrics, and tracing support for
// the case lifecycle service.
//
// # Overview
//
// The observability package provides:
//
//   - Structured logging with zerolog
//   - Prometheus metrics for workflows, stages, reminders, and persistence
//   - Context helpers for propagating observability data
//
// # Logging
//
// Create a logger from configuration:
//
//	cfg := observability.LoggingConfig{
//	    Level:     "info",
//	    Format:    "json",
//	    Output:    "stdout",
//	    AddSource: true,
//	}
//
//	logger := observability.NewLogger(cfg)
//	logger.Info().Str("request_id", reqID).Msg("workflow started")
//
// Add case context to logger:
//
//	logger = observability.WithCaseContext(logger, requestID, firmID, entityID)
//
// # Metrics
//
// Initialize metrics:
//
//	metrics := observability.NewMetrics("case_lifecycle")
//
// Record metrics:
//
//	metrics.RecordWorkflowStarted("case")
//	metrics.RecordStageTransition("case", "auto", 3600)
//	metrics.RecordReminderSent("court_24h")
//
// # Context Helpers
//
// Store and retrieve request context:
//
//	ctx = observability.WithRequestID(ctx, requestID)
//	ctx = observability.WithFirmEntity(ctx, firmID, entityID)
//
//	reqID := observability.RequestIDFromContext(ctx)
//	firmID, entityID := observability.FirmEntityFromContext(ctx)
//
// # Standard Fields
//
// Common fields used across the service:
//
//   - request_id: HTTP request identifier
//   - firm_id: Tenant firm identifier
//   - entity_id: Case or offboarding record identifier
//   - entity_type: "case" or "employee_offboarding"
//   - stage_id: Lifecycle stage identifier
//   - workflow_id: Temporal workflow identifier
//   - trace_id: Distributed trace identifier
//
// # Thread Safety
//
// All components are safe for concurrent use from multiple goroutines.
package observability
