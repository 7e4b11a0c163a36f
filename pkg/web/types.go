package web

// StepInput describes one step in a workflow creation request.
type StepInput struct {
	ID         string         `json:"id"           validate:"required"`
	Type       string         `json:"type"         validate:"required"`
	Config     map[string]any `json:"config"`
	NextStepID *string        `json:"next_step_id,omitempty"`
}

// CreateWorkflowRequest is the payload for POST /workflows. The workflow id
// is optional; one is generated when absent.
type CreateWorkflowRequest struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name"        validate:"required"`
	Description string      `json:"description,omitempty"`
	EntryPoint  string      `json:"entry_point" validate:"required"`
	Steps       []StepInput `json:"steps"       validate:"required,min=1,dive"`
}

// TriggerRunRequest is the payload for POST /workflows/:id/trigger.
type TriggerRunRequest struct {
	Context map[string]any `json:"context"`
}
