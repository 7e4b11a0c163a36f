package workflow

import "fmt"

// StepExecutionError reports a connector or config-validation failure while
// executing one step of a run. It is never returned to the caller that
// triggered the run; the engine records it into the run's error and status
// fields, which callers observe by polling storage.
type StepExecutionError struct {
	StepID string
	Err    error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("Step %s failed: %s", e.StepID, e.Err)
}

func (e *StepExecutionError) Unwrap() error {
	return e.Err
}
