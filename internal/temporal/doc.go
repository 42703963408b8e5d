// Package temporal provides Temporal workflow client integration for the
// case lifecycle service.
//
// This package handles workflow client initialization, workflow/activity
// registration, and worker lifecycle management.
//
// # Overview
//
// The temporal package provides:
//
//   - CaseWorkflowClient: Temporal client wrapper for starting/managing workflows
//   - WorkerManager: Worker process for executing workflows and activities
//   - Signal and query name constants shared by the server and workflow layers
//
// # Client Setup
//
// Create a Temporal client:
//
//	cfg := temporal.ClientConfig{
//	    HostPort:  "localhost:7233",
//	    Namespace: "case-lifecycle",
//	    TaskQueue: "case-lifecycle-tasks",
//	}
//
//	c, err := temporal.NewClient(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
// # Starting Workflows
//
// Start a lifecycle workflow for a case:
//
//	client := temporal.NewCaseWorkflowClient(c, cfg.TaskQueue)
//	workflowID, runID, err := client.StartLifecycleWorkflow(ctx, temporal.LifecycleWorkflowInput{
//	    EntityID:       caseID,
//	    EntityType:     domain.EntityTypeCase,
//	    FirmID:         firmID,
//	    AssignedTeamID: teamID,
//	}, workflows.CaseLifecycleWorkflow)
//
// # Signals and Queries
//
// Running workflows accept the signals defined in signals.go:
//
//	err := client.SignalWorkflow(ctx, workflowID, "", temporal.SignalCompleteRequirement, payload)
//
// and answer the queries:
//
//	var state workflows.WorkflowState
//	err := client.QueryWorkflow(ctx, workflowID, "", temporal.QueryWorkflowState, &state)
//
// # Worker Setup
//
// Create and start a worker:
//
//	manager, err := temporal.NewWorkerManager(c, temporal.DefaultWorkerConfig(cfg.TaskQueue))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	manager.RegisterWorkflow(workflows.CaseLifecycleWorkflow)
//	manager.RegisterWorkflow(workflows.EmployeeOffboardingWorkflow)
//	manager.RegisterActivity(lifecycleActivities)
//
//	if err := manager.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Error Handling
//
// Workflows use standard Temporal error handling:
//
//	if temporal.IsWorkflowNotFound(err) {
//	    // Workflow doesn't exist or already completed
//	}
//
//	if temporal.IsWorkflowAlreadyStarted(err) {
//	    // A lifecycle workflow for this entity is already running
//	}
//
// # Thread Safety
//
// The Temporal client is safe for concurrent use. Workers manage their
// own goroutines for activity execution.
package temporal
