package models

import "errors"

// ErrInvalidDefinition is the sentinel wrapped by every ValidationError.
var ErrInvalidDefinition = errors.New("invalid workflow definition")

// ValidationError reports a structural problem in a workflow definition,
// detected at construction time.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid workflow definition: " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidDefinition
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidationError checks if an error indicates a malformed workflow definition.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidDefinition)
}
