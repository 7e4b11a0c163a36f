// Package models defines the core domain models for chain-based workflow automation.
package models

import (
	"fmt"
	"time"
)

// WorkflowStatus represents the lifecycle state of a workflow definition.
type WorkflowStatus string

const (
	WorkflowStatusActive   WorkflowStatus = "active"
	WorkflowStatusPaused   WorkflowStatus = "paused"
	WorkflowStatusDisabled WorkflowStatus = "disabled"
)

// StepDefinition is one unit of work in a workflow: a connector type tag,
// the raw configuration for that connector, and an optional successor.
// The config map is not validated here; the connector's schema checks it
// when the step is dispatched during a run.
type StepDefinition struct {
	ID         string         `json:"id"           validate:"required"`
	Type       string         `json:"type"         validate:"required"`
	Config     map[string]any `json:"config"`
	NextStepID *string        `json:"next_step_id,omitempty"`
}

// WorkflowDefinition is an immutable, named chain of steps with a
// designated entry point. Each step has at most one successor, so the
// step graph is a singly linked chain, never a general graph.
type WorkflowDefinition struct {
	ID          string            `json:"id"          validate:"required"`
	Name        string            `json:"name"        validate:"required"`
	Description string            `json:"description,omitempty"`
	EntryPoint  string            `json:"entry_point" validate:"required"`
	Steps       []*StepDefinition `json:"steps"`
	Status      WorkflowStatus    `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Validate checks the structural invariants of the definition: unique step
// ids, a resolvable entry point, resolvable next_step_id references, and an
// acyclic successor chain. It does not touch step configs.
func (w *WorkflowDefinition) Validate() error {
	if len(w.Steps) == 0 {
		return NewValidationError("workflow must define at least one step")
	}

	stepIDs := make(map[string]struct{}, len(w.Steps))
	for _, step := range w.Steps {
		if _, exists := stepIDs[step.ID]; exists {
			return NewValidationError(fmt.Sprintf("duplicate step id %q", step.ID))
		}

		stepIDs[step.ID] = struct{}{}
	}

	if _, ok := stepIDs[w.EntryPoint]; !ok {
		return NewValidationError(fmt.Sprintf("entry_point %q is not a defined step", w.EntryPoint))
	}

	for _, step := range w.Steps {
		if step.NextStepID == nil {
			continue
		}

		if _, ok := stepIDs[*step.NextStepID]; !ok {
			return NewValidationError(fmt.Sprintf("next_step_id %q in step %q is not a defined step", *step.NextStepID, step.ID))
		}
	}

	return w.validateAcyclic()
}

// validateAcyclic rejects successor chains that loop back on themselves.
// Without this check a cyclic chain would execute forever.
func (w *WorkflowDefinition) validateAcyclic() error {
	for _, start := range w.Steps {
		visited := make(map[string]struct{}, len(w.Steps))

		for step := start; step != nil && step.NextStepID != nil; step = w.GetStep(*step.NextStepID) {
			if _, seen := visited[step.ID]; seen {
				return NewValidationError(fmt.Sprintf("step chain starting at %q contains a cycle", start.ID))
			}

			visited[step.ID] = struct{}{}
		}
	}

	return nil
}

// GetStep returns the step with the given id, or nil when it is not defined.
func (w *WorkflowDefinition) GetStep(stepID string) *StepDefinition {
	for _, step := range w.Steps {
		if step.ID == stepID {
			return step
		}
	}

	return nil
}
