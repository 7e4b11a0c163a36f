// Package persistence provides standardized error types for storage operations.
package persistence

import "errors"

// Standard persistence error types that all implementations should use.
var (
	// ErrWorkflowNotFound indicates no workflow definition exists for the id.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrWorkflowAlreadyExists indicates a definition with the same id exists.
	ErrWorkflowAlreadyExists = errors.New("workflow already exists")

	// ErrRunNotFound indicates no run exists for the id.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunAlreadyExists indicates a run with the same id exists.
	ErrRunAlreadyExists = errors.New("run already exists")
)

// IsNotFound checks if an error indicates a missing workflow or run.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWorkflowNotFound) || errors.Is(err, ErrRunNotFound)
}

// IsAlreadyExists checks if an error indicates a duplicate id on create.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrWorkflowAlreadyExists) || errors.Is(err, ErrRunAlreadyExists)
}
