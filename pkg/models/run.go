package models

import "time"

// RunStatus represents the lifecycle state of a workflow run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	// RunStatusPaused is reserved; the engine never assigns it.
	RunStatusPaused RunStatus = "paused"
)

// StepStatus represents the state of a single step within a run.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	// StepStatusSkipped is reserved; steps after a failure stay pending.
	StepStatusSkipped StepStatus = "skipped"
)

// StepRun records one step's execution within a run.
type StepRun struct {
	StepID    string         `json:"step_id"`
	Status    StepStatus     `json:"status"`
	StartTime *time.Time     `json:"start_time,omitempty"`
	EndTime   *time.Time     `json:"end_time,omitempty"`
	Error     string         `json:"error,omitempty"`
	Output    map[string]any `json:"output,omitempty"`
}

// Duration returns how long the step ran, or zero while it has not finished.
func (s *StepRun) Duration() time.Duration {
	if s.StartTime == nil || s.EndTime == nil {
		return 0
	}

	return s.EndTime.Sub(*s.StartTime)
}

// WorkflowRun is one execution attempt of a workflow definition. The engine
// exclusively owns its transition logic; it is persisted after every state
// change, making storage the source of truth between engine invocations.
type WorkflowRun struct {
	RunID         string              `json:"run_id"`
	WorkflowID    string              `json:"workflow_id"`
	Status        RunStatus           `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	StartedAt     *time.Time          `json:"started_at,omitempty"`
	CompletedAt   *time.Time          `json:"completed_at,omitempty"`
	Context       map[string]any      `json:"context"`
	Steps         map[string]*StepRun `json:"steps"`
	CurrentStepID *string             `json:"current_step_id,omitempty"`
	Error         string              `json:"error,omitempty"`
}

// NewWorkflowRun creates a pending run for the given workflow.
func NewWorkflowRun(runID, workflowID string) *WorkflowRun {
	return &WorkflowRun{
		RunID:      runID,
		WorkflowID: workflowID,
		Status:     RunStatusPending,
		CreatedAt:  time.Now().UTC(),
		Context:    make(map[string]any),
		Steps:      make(map[string]*StepRun),
	}
}

// AddStep pre-populates a pending step record. Existing records are kept.
func (r *WorkflowRun) AddStep(stepID string) {
	if _, exists := r.Steps[stepID]; exists {
		return
	}

	r.Steps[stepID] = &StepRun{StepID: stepID, Status: StepStatusPending}
}

// StartStep marks a step as running. It also flips a pending run to running,
// so a run loaded fresh from storage self-corrects on its first step.
func (r *WorkflowRun) StartStep(stepID string) {
	r.AddStep(stepID)

	now := time.Now().UTC()
	r.Steps[stepID].Status = StepStatusRunning
	r.Steps[stepID].StartTime = &now

	if r.Status == RunStatusPending {
		r.Status = RunStatusRunning
		r.StartedAt = &now
	}
}

// CompleteStep marks a step as completed with the output it produced.
func (r *WorkflowRun) CompleteStep(stepID string, output map[string]any) {
	step, ok := r.Steps[stepID]
	if !ok {
		return
	}

	now := time.Now().UTC()
	step.Status = StepStatusCompleted
	step.EndTime = &now

	if output == nil {
		output = make(map[string]any)
	}

	step.Output = output
}

// FailStep marks a step and the whole run as failed. Steps after the failed
// one are left in whatever status they already carry.
func (r *WorkflowRun) FailStep(stepID, errMsg string) {
	now := time.Now().UTC()

	if step, ok := r.Steps[stepID]; ok {
		step.Status = StepStatusFailed
		step.EndTime = &now
		step.Error = errMsg
	}

	r.Status = RunStatusFailed
	r.CompletedAt = &now
	r.Error = errMsg
}

// CompleteRun marks the run as completed successfully.
func (r *WorkflowRun) CompleteRun() {
	now := time.Now().UTC()
	r.Status = RunStatusCompleted
	r.CompletedAt = &now
}

// UpdateContext merges updates into the run context, last write wins.
func (r *WorkflowRun) UpdateContext(updates map[string]any) {
	if r.Context == nil {
		r.Context = make(map[string]any)
	}

	for k, v := range updates {
		r.Context[k] = v
	}
}

// GetStep returns the step run record for the given id, or nil.
func (r *WorkflowRun) GetStep(stepID string) *StepRun {
	return r.Steps[stepID]
}
