// Package httpserver provides the HTTP REST API for the case lifecycle service.
package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mizanhq/case-lifecycle-service/internal/database"
	"github.com/mizanhq/case-lifecycle-service/internal/observability"
	"github.com/mizanhq/case-lifecycle-service/internal/repository"
	"github.com/mizanhq/case-lifecycle-service/internal/temporal"
)

// WorkflowClient defines the workflow operations the HTTP server needs. It is
// satisfied by temporal.CaseWorkflowClient and mocked in handler tests.
type WorkflowClient interface {
	StartLifecycleWorkflow(ctx context.Context, input temporal.LifecycleWorkflowInput, workflowFunc interface{}) (string, string, error)
	SignalWorkflow(ctx context.Context, workflowID, runID, signalName string, arg interface{}) error
	QueryWorkflow(ctx context.Context, workflowID, runID, queryType string, result interface{}, args ...interface{}) error
	CancelWorkflow(ctx context.Context, workflowID, runID string) error
	Health(ctx context.Context) error
}

// Server is the HTTP REST API server.
type Server struct {
	router         chi.Router
	httpServer     *http.Server
	workflowClient WorkflowClient

	// Temporal workflow function references passed to StartLifecycleWorkflow
	// (e.g. workflows.CaseLifecycleWorkflow).
	caseWorkflowFunc        interface{}
	offboardingWorkflowFunc interface{}

	caseRepo        repository.CaseRepository
	offboardingRepo repository.OffboardingRepository
	templateRepo    repository.TemplateRepository
	activityRepo    repository.ActivityRepository
	reminderRepo    repository.ReminderRepository

	db       *database.DB
	metrics  *observability.Metrics
	logger   zerolog.Logger
	validate *validator.Validate

	metricsPath string

	// Workflow tuning snapshotted into every started lifecycle. Zero values
	// defer to the engine defaults.
	workflowPollInterval time.Duration
	deadlineReminderDays int
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// MetricsPath exposes the Prometheus endpoint on the API server when
	// non-empty.
	MetricsPath string
}

// Deps bundles the server's dependencies.
type Deps struct {
	WorkflowClient          WorkflowClient
	CaseWorkflowFunc        interface{}
	OffboardingWorkflowFunc interface{}
	CaseRepo                repository.CaseRepository
	OffboardingRepo         repository.OffboardingRepository
	TemplateRepo            repository.TemplateRepository
	ActivityRepo            repository.ActivityRepository
	ReminderRepo            repository.ReminderRepository
	DB                      *database.DB
	Metrics                 *observability.Metrics
	Logger                  zerolog.Logger

	// WorkflowPollInterval and DeadlineReminderDays are snapshotted into the
	// input of every started workflow; zero defers to the engine defaults.
	WorkflowPollInterval time.Duration
	DeadlineReminderDays int
}

// NewServer creates a new HTTP server with all dependencies.
func NewServer(cfg Config, deps Deps) *Server {
	s := &Server{
		workflowClient:          deps.WorkflowClient,
		caseWorkflowFunc:        deps.CaseWorkflowFunc,
		offboardingWorkflowFunc: deps.OffboardingWorkflowFunc,
		caseRepo:                deps.CaseRepo,
		offboardingRepo:         deps.OffboardingRepo,
		templateRepo:            deps.TemplateRepo,
		activityRepo:            deps.ActivityRepo,
		reminderRepo:            deps.ReminderRepo,
		db:                      deps.DB,
		metrics:                 deps.Metrics,
		logger:                  deps.Logger.With().Str("component", "http-server").Logger(),
		validate:                validator.New(),
		metricsPath:             cfg.MetricsPath,
		workflowPollInterval:    deps.WorkflowPollInterval,
		deadlineReminderDays:    deps.DeadlineReminderDays,
	}

	s.router = s.buildRouter()

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// buildRouter creates the chi router with all middleware and routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestContextMiddleware)
	r.Use(s.metricsMiddleware)

	// Health endpoints (no tenant scoping)
	r.Get("/healthz", s.healthHandler)
	r.Get("/readyz", s.readinessHandler)
	if s.metricsPath != "" {
		r.Handle(s.metricsPath, promhttp.Handler())
	}

	// API routes with firm tenant context
	r.Route("/api/v1/firms/{firmID}", func(r chi.Router) {
		r.Use(firmContextMiddleware)
		r.Use(jsonContentTypeMiddleware)

		r.Route("/templates", func(r chi.Router) {
			r.Post("/", s.createTemplate)
			r.Get("/", s.listTemplates)
			r.Get("/{templateID}", s.getTemplate)
			r.Post("/{templateID}/activate", s.activateTemplate)
		})

		r.Route("/cases", func(r chi.Router) {
			r.Post("/", s.createCase)
			r.Get("/", s.listCases)
			r.Route("/{caseID}", func(r chi.Router) {
				r.Get("/", s.getCase)
				s.lifecycleRoutes("caseID", caseResolver)(r)
			})
		})

		r.Route("/offboardings", func(r chi.Router) {
			r.Post("/", s.createOffboarding)
			r.Get("/", s.listOffboardings)
			r.Route("/{offboardingID}", func(r chi.Router) {
				r.Get("/", s.getOffboarding)
				s.lifecycleRoutes("offboardingID", offboardingResolver)(r)
			})
		})
	})

	return r
}

// lifecycleRoutes mounts the signal, query, cancel, and history endpoints
// shared by cases and offboardings.
func (s *Server) lifecycleRoutes(idParam string, resolve entityResolver) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/requirements/{requirementID}/complete", s.completeRequirement(idParam, resolve))
		r.Post("/transition", s.transitionStage(idParam, resolve))
		r.Post("/deadlines", s.addDeadline(idParam, resolve))
		r.Post("/court-dates", s.addCourtDate(idParam, resolve))
		r.Post("/pause", s.pauseWorkflow(idParam, resolve))
		r.Post("/resume", s.resumeWorkflow(idParam, resolve))

		r.Get("/workflow", s.getWorkflowState(idParam, resolve))
		r.Get("/stage", s.getCurrentStage(idParam, resolve))
		r.Get("/requirements", s.getRequirements(idParam, resolve))
		r.Delete("/workflow", s.cancelLifecycle(idParam, resolve))

		r.Get("/activity", s.listActivity(idParam, resolve))
		r.Get("/reminders", s.listReminders(idParam, resolve))
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on HTTP address: %w", err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// healthHandler returns basic liveness status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status == "healthy" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "database": health.Status})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{
		"status":   "unhealthy",
		"database": health.Status,
		"error":    health.Error,
	})
}

// readinessHandler returns readiness status including Temporal connectivity.
func (s *Server) readinessHandler(w http.ResponseWriter, r *http.Request) {
	health := s.db.Health(r.Context())
	if health.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": health.Status,
			"error":    health.Error,
		})
		return
	}
	if err := s.workflowClient.Health(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "not_ready",
			"database": "healthy",
			"temporal": "unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"database": "healthy",
		"temporal": "healthy",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Best-effort; headers already sent.
		_ = err
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
