package observability

import (
	"context"
)

// Context keys for observability data.
type contextKey string

const (
	requestIDKey  contextKey = "request_id"
	firmIDKey     contextKey = "firm_id"
	entityIDKey   contextKey = "entity_id"
	traceIDKey    contextKey = "trace_id"
	spanIDKey     contextKey = "span_id"
	workflowIDKey contextKey = "workflow_id"
	runIDKey      contextKey = "workflow_run_id"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns empty string if not present.
func RequestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// WithFirmEntity adds firm and entity IDs to the context.
func WithFirmEntity(ctx context.Context, firmID, entityID string) context.Context {
	ctx = context.WithValue(ctx, firmIDKey, firmID)
	ctx = context.WithValue(ctx, entityIDKey, entityID)
	return ctx
}

// FirmEntityFromContext retrieves firm and entity IDs from context.
// Returns empty strings if not present.
func FirmEntityFromContext(ctx context.Context) (firmID, entityID string) {
	if v := ctx.Value(firmIDKey); v != nil {
		if id, ok := v.(string); ok {
			firmID = id
		}
	}
	if v := ctx.Value(entityIDKey); v != nil {
		if id, ok := v.(string); ok {
			entityID = id
		}
	}
	return firmID, entityID
}

// WithTraceSpan adds trace and span IDs to the context.
func WithTraceSpan(ctx context.Context, traceID, spanID string) context.Context {
	ctx = context.WithValue(ctx, traceIDKey, traceID)
	ctx = context.WithValue(ctx, spanIDKey, spanID)
	return ctx
}

// TraceSpanFromContext retrieves trace and span IDs from context.
// Returns empty strings if not present.
func TraceSpanFromContext(ctx context.Context) (traceID, spanID string) {
	if v := ctx.Value(traceIDKey); v != nil {
		if id, ok := v.(string); ok {
			traceID = id
		}
	}
	if v := ctx.Value(spanIDKey); v != nil {
		if id, ok := v.(string); ok {
			spanID = id
		}
	}
	return traceID, spanID
}

// WithWorkflow adds workflow ID and run ID to the context.
func WithWorkflow(ctx context.Context, workflowID, runID string) context.Context {
	ctx = context.WithValue(ctx, workflowIDKey, workflowID)
	ctx = context.WithValue(ctx, runIDKey, runID)
	return ctx
}

// WorkflowFromContext retrieves workflow ID and run ID from context.
// Returns empty strings if not present.
func WorkflowFromContext(ctx context.Context) (workflowID, runID string) {
	if v := ctx.Value(workflowIDKey); v != nil {
		if id, ok := v.(string); ok {
			workflowID = id
		}
	}
	if v := ctx.Value(runIDKey); v != nil {
		if id, ok := v.(string); ok {
			runID = id
		}
	}
	return workflowID, runID
}

// LifecycleContext contains all the context data for a case lifecycle request.
type LifecycleContext struct {
	RequestID  string
	FirmID     string
	EntityID   string
	TraceID    string
	SpanID     string
	WorkflowID string
	RunID      string
}

// WithLifecycleContext adds all lifecycle context to the context.
func WithLifecycleContext(ctx context.Context, lc LifecycleContext) context.Context {
	if lc.RequestID != "" {
		ctx = WithRequestID(ctx, lc.RequestID)
	}
	if lc.FirmID != "" || lc.EntityID != "" {
		ctx = WithFirmEntity(ctx, lc.FirmID, lc.EntityID)
	}
	if lc.TraceID != "" || lc.SpanID != "" {
		ctx = WithTraceSpan(ctx, lc.TraceID, lc.SpanID)
	}
	if lc.WorkflowID != "" || lc.RunID != "" {
		ctx = WithWorkflow(ctx, lc.WorkflowID, lc.RunID)
	}
	return ctx
}

// LifecycleContextFromContext extracts all lifecycle context from the context.
func LifecycleContextFromContext(ctx context.Context) LifecycleContext {
	firmID, entityID := FirmEntityFromContext(ctx)
	traceID, spanID := TraceSpanFromContext(ctx)
	workflowID, runID := WorkflowFromContext(ctx)

	return LifecycleContext{
		RequestID:  RequestIDFromContext(ctx),
		FirmID:     firmID,
		EntityID:   entityID,
		TraceID:    traceID,
		SpanID:     spanID,
		WorkflowID: workflowID,
		RunID:      runID,
	}
}
