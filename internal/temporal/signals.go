package temporal

// Signal names for external interaction with lifecycle workflows.
// These constants are used to send signals to running Temporal workflows.
// They are defined here (not in the workflows package) so that both the
// server layer and the workflow implementation can reference them without
// creating a dependency from server -> workflows.
const (
	// SignalCompleteRequirement marks a stage requirement as completed.
	SignalCompleteRequirement = "completeRequirement"

	// SignalTransitionStage requests a manual transition to a named stage.
	SignalTransitionStage = "transitionStage"

	// SignalAddDeadline attaches a tracked deadline to the workflow.
	SignalAddDeadline = "addDeadline"

	// SignalAddCourtDate attaches a court date with reminder windows.
	SignalAddCourtDate = "addCourtDate"

	// SignalPauseWorkflow suspends stage progression and reminders.
	SignalPauseWorkflow = "pauseWorkflow"

	// SignalResumeWorkflow lifts a previous pause.
	SignalResumeWorkflow = "resumeWorkflow"
)

// Query names for reading lifecycle workflow state.
const (
	// QueryWorkflowState returns the full serializable workflow state.
	QueryWorkflowState = "getWorkflowState"

	// QueryCurrentStage returns the current stage: its id, definition, and
	// entry time.
	QueryCurrentStage = "getCurrentStage"

	// QueryRequirements returns pending and completed requirements for the
	// current stage.
	QueryRequirements = "getRequirements"
)
