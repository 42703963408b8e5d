// Package main provides the entry point for the case lifecycle Temporal worker.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.temporal.io/sdk/client"

	"github.com/mizanhq/case-lifecycle-service/internal/config"
	"github.com/mizanhq/case-lifecycle-service/internal/database"
	"github.com/mizanhq/case-lifecycle-service/internal/events"
	"github.com/mizanhq/case-lifecycle-service/internal/observability"
	"github.com/mizanhq/case-lifecycle-service/internal/repository"
	"github.com/mizanhq/case-lifecycle-service/internal/temporal"
	"github.com/mizanhq/case-lifecycle-service/internal/temporal/activities"
	"github.com/mizanhq/case-lifecycle-service/internal/temporal/workflows"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "worker").Logger()
	logger.Info().Msg("case-lifecycle-service worker starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL.
	db, err := database.New(ctx, &cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	logger.Info().Msg("database connection established")

	// Create repositories.
	caseRepo := repository.NewPgCaseRepository(db)
	offboardingRepo := repository.NewPgOffboardingRepository(db)
	templateRepo := repository.NewPgTemplateRepository(db)
	activityRepo := repository.NewPgActivityRepository(db)
	reminderRepo := repository.NewPgReminderRepository(db)

	// Create metrics if enabled.
	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics("case_lifecycle")
	}

	// Create the event publisher. Kafka when enabled, otherwise a no-op
	// publisher so notification activities still succeed.
	var publisher events.Publisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Kafka, metrics, logger)
		defer func() {
			if closeErr := kafkaPublisher.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close kafka publisher")
			}
		}()
		publisher = kafkaPublisher
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("kafka publisher created")
	} else {
		publisher = events.NopPublisher{}
		logger.Info().Msg("kafka disabled, notification events will be discarded")
	}

	// Create Temporal client.
	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    observability.NewTemporalLogger(logger),
	})
	if err != nil {
		return fmt.Errorf("connect to temporal: %w", err)
	}
	defer temporalClient.Close()
	logger.Info().
		Str("host_port", cfg.Temporal.HostPort).
		Str("namespace", cfg.Temporal.Namespace).
		Msg("temporal client connected")

	// Create WorkerManager.
	workerConfig := temporal.DefaultWorkerConfig(cfg.Temporal.TaskQueue)
	manager, err := temporal.NewWorkerManager(temporalClient, workerConfig)
	if err != nil {
		return fmt.Errorf("create worker manager: %w", err)
	}

	// Register workflows.
	manager.RegisterWorkflow(workflows.CaseLifecycleWorkflow)
	manager.RegisterWorkflow(workflows.EmployeeOffboardingWorkflow)

	// Create and register all activity structs.
	templateActivities := activities.NewTemplateActivities(templateRepo)
	lifecycleActivities := activities.NewLifecycleActivities(caseRepo, offboardingRepo, activityRepo, metrics)
	notificationActivities := activities.NewNotificationActivities(publisher, caseRepo, offboardingRepo, metrics)
	reminderActivities := activities.NewReminderActivities(reminderRepo, publisher, metrics)

	manager.RegisterActivity(templateActivities)
	manager.RegisterActivity(lifecycleActivities)
	manager.RegisterActivity(notificationActivities)
	manager.RegisterActivity(reminderActivities)

	logger.Info().
		Str("task_queue", cfg.Temporal.TaskQueue).
		Msg("starting temporal worker")

	// Start the worker and block until context is cancelled.
	if err := manager.Start(ctx); err != nil {
		if ctx.Err() != nil {
			logger.Info().Msg("worker stopped via signal")
			return nil
		}
		return fmt.Errorf("worker error: %w", err)
	}

	return nil
}
