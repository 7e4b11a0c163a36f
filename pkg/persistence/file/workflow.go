package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/zapline/zapline/pkg/models"
	"github.com/zapline/zapline/pkg/persistence"
)

// WorkflowRepository handles workflow-definition file operations.
type WorkflowRepository struct {
	root string
}

func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

func (wr *WorkflowRepository) dir() string {
	return filepath.Join(wr.root, "workflows")
}

// Create persists a new workflow definition. A definition with the same id
// must not already exist.
func (wr *WorkflowRepository) Create(_ context.Context, workflow *models.WorkflowDefinition) error {
	if err := validateEntityID(workflow.ID); err != nil {
		return fmt.Errorf("invalid workflow ID: %w", err)
	}

	if err := os.MkdirAll(wr.dir(), 0750); err != nil {
		return fmt.Errorf("failed to create workflows directory: %w", err)
	}

	filePath := filepath.Join(wr.dir(), workflow.ID+".json")
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("workflow %s: %w", workflow.ID, persistence.ErrWorkflowAlreadyExists)
	}

	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	data, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal workflow %s: %w", workflow.ID, err)
	}

	return os.WriteFile(filePath, data, 0600)
}

// GetByID retrieves a workflow definition by its id from the file system.
func (wr *WorkflowRepository) GetByID(_ context.Context, workflowID string) (*models.WorkflowDefinition, error) {
	if err := validateEntityID(workflowID); err != nil {
		return nil, fmt.Errorf("invalid workflow ID: %w", err)
	}

	filePath := filepath.Clean(filepath.Join(wr.dir(), workflowID+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("workflow %s: %w", workflowID, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to fetch workflow %s: %w", workflowID, err)
	}

	var workflow models.WorkflowDefinition
	if err := json.Unmarshal(body, &workflow); err != nil {
		return nil, fmt.Errorf("failed to unmarshal workflow %s: %w", workflowID, err)
	}

	return &workflow, nil
}

// List returns every stored workflow definition.
func (wr *WorkflowRepository) List(ctx context.Context) ([]*models.WorkflowDefinition, error) {
	if _, err := os.Stat(wr.dir()); os.IsNotExist(err) {
		return []*models.WorkflowDefinition{}, nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(wr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	workflows := make([]*models.WorkflowDefinition, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		workflowID := file[:len(file)-len(".json")]

		workflow, err := wr.GetByID(ctx, workflowID)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", workflowID, err)
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

// Delete removes a workflow definition by its id. Deleting a definition
// that does not exist is not an error.
func (wr *WorkflowRepository) Delete(_ context.Context, id string) error {
	if err := validateEntityID(id); err != nil {
		return fmt.Errorf("invalid workflow ID: %w", err)
	}

	err := os.Remove(filepath.Join(wr.dir(), id+".json"))
	if err != nil && os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}
