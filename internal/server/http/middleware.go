package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mizanhq/case-lifecycle-service/internal/observability"
)

type contextKey string

const ctxKeyFirmID contextKey = "firm_id"

// firmContextMiddleware extracts the firm ID from the URL path and stores it
// in the request context. Every repository call downstream is scoped by it.
func firmContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		firmID := chi.URLParam(r, "firmID")
		if firmID == "" {
			writeError(w, http.StatusBadRequest, "firm_id is required")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyFirmID, firmID)
		ctx = observability.WithFirmEntity(ctx, firmID, "")
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestContextMiddleware propagates the request ID into the observability
// context and echoes it back to the client.
func requestContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = middleware.GetReqID(r.Context())
		}

		w.Header().Set("X-Request-ID", requestID)
		ctx := observability.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// jsonContentTypeMiddleware sets Content-Type: application/json for all responses.
func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// metricsMiddleware records request counts and latency per route pattern.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.RecordHTTPRequest(r.Method, route, strconv.Itoa(ww.Status()), time.Since(start).Seconds())
	})
}

// firmIDFromContext extracts the firm_id from the request context.
func firmIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyFirmID).(string); ok {
		return v
	}
	return ""
}
