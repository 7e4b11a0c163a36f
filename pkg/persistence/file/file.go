// Package file provides file-based persistence for workflow definitions and
// runs: one pretty-printed JSON document per entity, addressed by its id.
package file

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/zapline/zapline/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the
// file system. Each persist is a full overwrite of the entity's file; there
// is no locking or transactional discipline.
type Persistence struct {
	root         string
	workflowRepo *WorkflowRepository
	runRepo      *RunRepository
}

// NewPersistence creates a file persistence rooted at the given directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{
		root:         cleanRoot,
		workflowRepo: NewWorkflowRepository(cleanRoot),
		runRepo:      NewRunRepository(cleanRoot),
	}
}

func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

func (fp *Persistence) RunRepository() persistence.RunRepository {
	return fp.runRepo
}

// HealthCheck verifies the root directory exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

// Close performs any necessary cleanup. Nothing to clean up for files.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// validateEntityID rejects ids that are empty or could escape the storage
// directory.
func validateEntityID(id string) error {
	if id == "" {
		return errors.New("entity ID cannot be empty")
	}

	if strings.Contains(id, "..") || strings.Contains(id, "/") || strings.Contains(id, "\\") {
		return errors.New("entity ID contains invalid characters")
	}

	return nil
}
