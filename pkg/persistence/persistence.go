// Package persistence provides the data storage abstraction layer for
// workflow definitions and runs.
package persistence

import (
	"context"

	"github.com/zapline/zapline/pkg/models"
)

type Persistence interface {
	WorkflowRepository() WorkflowRepository
	RunRepository() RunRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow definitions, one record per id.
type WorkflowRepository interface {
	// Create persists a new definition; ErrWorkflowAlreadyExists on a
	// duplicate id.
	Create(ctx context.Context, workflow *models.WorkflowDefinition) error

	// GetByID returns the definition or ErrWorkflowNotFound.
	GetByID(ctx context.Context, id string) (*models.WorkflowDefinition, error)

	List(ctx context.Context) ([]*models.WorkflowDefinition, error)

	Delete(ctx context.Context, id string) error
}

// RunRepository stores workflow runs. Update is a full overwrite of the
// record; there is no partial-update or locking discipline.
type RunRepository interface {
	// Create persists a new run; ErrRunAlreadyExists on a duplicate id.
	Create(ctx context.Context, run *models.WorkflowRun) error

	// GetByID returns the run or ErrRunNotFound.
	GetByID(ctx context.Context, id string) (*models.WorkflowRun, error)

	// Update overwrites an existing run; ErrRunNotFound when it was never
	// created.
	Update(ctx context.Context, run *models.WorkflowRun) error

	// List returns runs, newest first, optionally filtered by workflow id
	// (empty string means all).
	List(ctx context.Context, workflowID string) ([]*models.WorkflowRun, error)
}
