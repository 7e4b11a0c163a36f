package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/zapline/zapline/pkg/models"
	"github.com/zapline/zapline/pkg/persistence"
)

// RunRepository handles workflow-run file operations.
type RunRepository struct {
	root string
}

func NewRunRepository(root string) *RunRepository {
	return &RunRepository{root: root}
}

func (rr *RunRepository) dir() string {
	return filepath.Join(rr.root, "runs")
}

// Create persists a new run. A run with the same id must not already exist.
func (rr *RunRepository) Create(_ context.Context, run *models.WorkflowRun) error {
	if err := validateEntityID(run.RunID); err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}

	if err := os.MkdirAll(rr.dir(), 0750); err != nil {
		return fmt.Errorf("failed to create runs directory: %w", err)
	}

	filePath := filepath.Join(rr.dir(), run.RunID+".json")
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("run %s: %w", run.RunID, persistence.ErrRunAlreadyExists)
	}

	return rr.write(filePath, run)
}

// GetByID retrieves a run by its id from the file system.
func (rr *RunRepository) GetByID(_ context.Context, runID string) (*models.WorkflowRun, error) {
	if err := validateEntityID(runID); err != nil {
		return nil, fmt.Errorf("invalid run ID: %w", err)
	}

	filePath := filepath.Clean(filepath.Join(rr.dir(), runID+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("run %s: %w", runID, persistence.ErrRunNotFound)
		}

		return nil, fmt.Errorf("failed to fetch run %s: %w", runID, err)
	}

	var run models.WorkflowRun
	if err := json.Unmarshal(body, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", runID, err)
	}

	return &run, nil
}

// Update overwrites an existing run record in full.
func (rr *RunRepository) Update(_ context.Context, run *models.WorkflowRun) error {
	if err := validateEntityID(run.RunID); err != nil {
		return fmt.Errorf("invalid run ID: %w", err)
	}

	filePath := filepath.Join(rr.dir(), run.RunID+".json")
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("run %s: %w", run.RunID, persistence.ErrRunNotFound)
		}

		return fmt.Errorf("failed to stat run %s: %w", run.RunID, err)
	}

	return rr.write(filePath, run)
}

// List returns runs newest first, optionally filtered by workflow id.
func (rr *RunRepository) List(ctx context.Context, workflowID string) ([]*models.WorkflowRun, error) {
	if _, err := os.Stat(rr.dir()); os.IsNotExist(err) {
		return []*models.WorkflowRun{}, nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(rr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list run files: %w", err)
	}

	runs := make([]*models.WorkflowRun, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		runID := file[:len(file)-len(".json")]

		run, err := rr.GetByID(ctx, runID)
		if err != nil {
			return nil, fmt.Errorf("failed to load run %s: %w", runID, err)
		}

		if workflowID != "" && run.WorkflowID != workflowID {
			continue
		}

		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].CreatedAt.After(runs[j].CreatedAt)
	})

	return runs, nil
}

func (rr *RunRepository) write(filePath string, run *models.WorkflowRun) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", run.RunID, err)
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write run %s: %w", run.RunID, err)
	}

	return nil
}
