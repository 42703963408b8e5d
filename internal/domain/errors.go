package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrForbidden indicates that the request is not allowed for the caller.
	ErrForbidden = errors.New("forbidden")

	// ErrWorkflowFailed indicates that a Temporal workflow failed.
	ErrWorkflowFailed = errors.New("workflow failed")

	// ErrCancelled indicates that an operation was cancelled.
	ErrCancelled = errors.New("cancelled")

	// ErrInvalidTemplate indicates a workflow template that cannot drive an
	// orchestration (no stages, duplicate stage ids, no resolvable initial stage).
	ErrInvalidTemplate = errors.New("invalid workflow template")

	// ErrStageNotFound indicates a stage id that is not part of the template.
	ErrStageNotFound = errors.New("stage not found")

	// ErrWorkflowNotActive indicates a signal sent to a workflow that has
	// already reached a terminal stage.
	ErrWorkflowNotActive = errors.New("workflow not active")
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a not found entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AlreadyExistsError provides details about a duplicate entity.
type AlreadyExistsError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// TemplateError provides details about an unusable workflow template.
type TemplateError struct {
	TemplateID string
	Reason     string
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	return fmt.Sprintf("workflow template %s: %s", e.TemplateID, e.Reason)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *TemplateError) Unwrap() error {
	return ErrInvalidTemplate
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

// NewAlreadyExistsError creates a new AlreadyExistsError.
func NewAlreadyExistsError(entity, id string) *AlreadyExistsError {
	return &AlreadyExistsError{Entity: entity, ID: id}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NewTemplateError creates a new TemplateError.
func NewTemplateError(templateID, reason string) *TemplateError {
	return &TemplateError{TemplateID: templateID, Reason: reason}
}
