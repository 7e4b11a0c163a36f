package file

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapline/zapline/pkg/models"
	"github.com/zapline/zapline/pkg/persistence"
)

func testWorkflow(id string) *models.WorkflowDefinition {
	next := "b"

	return &models.WorkflowDefinition{
		ID:         id,
		Name:       "Test workflow",
		EntryPoint: "a",
		Status:     models.WorkflowStatusActive,
		Steps: []*models.StepDefinition{
			{ID: "a", Type: "delay", Config: map[string]any{"seconds": 1}, NextStepID: &next},
			{ID: "b", Type: "webhook", Config: map[string]any{"url": "http://example.com"}},
		},
	}
}

func TestWorkflowRepository_CreateThenGet(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	wf := testWorkflow("wf-1")
	require.NoError(t, p.WorkflowRepository().Create(ctx, wf))

	loaded, err := p.WorkflowRepository().GetByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, wf.ID, loaded.ID)
	assert.Equal(t, wf.EntryPoint, loaded.EntryPoint)
	require.Len(t, loaded.Steps, 2)
	assert.Equal(t, "b", *loaded.Steps[0].NextStepID)
	assert.False(t, loaded.CreatedAt.IsZero())
}

func TestWorkflowRepository_DuplicateCreateFails(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.WorkflowRepository().Create(ctx, testWorkflow("wf-1")))

	err := p.WorkflowRepository().Create(ctx, testWorkflow("wf-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrWorkflowAlreadyExists)
	assert.True(t, persistence.IsAlreadyExists(err))
}

func TestWorkflowRepository_GetMissingFails(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.WorkflowRepository().GetByID(context.Background(), "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrWorkflowNotFound)
	assert.True(t, persistence.IsNotFound(err))
}

func TestWorkflowRepository_RejectsPathTraversal(t *testing.T) {
	p := NewPersistence(t.TempDir())

	_, err := p.WorkflowRepository().GetByID(context.Background(), "../escape")
	assert.Error(t, err)
}

func TestWorkflowRepository_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	workflows, err := p.WorkflowRepository().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, workflows)

	require.NoError(t, p.WorkflowRepository().Create(ctx, testWorkflow("wf-1")))
	require.NoError(t, p.WorkflowRepository().Create(ctx, testWorkflow("wf-2")))

	workflows, err = p.WorkflowRepository().List(ctx)
	require.NoError(t, err)
	assert.Len(t, workflows, 2)

	require.NoError(t, p.WorkflowRepository().Delete(ctx, "wf-1"))
	// Deleting a missing workflow is not an error.
	require.NoError(t, p.WorkflowRepository().Delete(ctx, "wf-1"))

	workflows, err = p.WorkflowRepository().List(ctx)
	require.NoError(t, err)
	assert.Len(t, workflows, 1)
}

func TestRunRepository_CreateGetUpdate(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	run := models.NewWorkflowRun("run-1", "wf-1")
	run.Context = map[string]any{"k": "v"}
	run.AddStep("a")

	require.NoError(t, p.RunRepository().Create(ctx, run))

	loaded, err := p.RunRepository().GetByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusPending, loaded.Status)
	assert.Equal(t, "v", loaded.Context["k"])
	require.Contains(t, loaded.Steps, "a")

	loaded.StartStep("a")
	loaded.CompleteStep("a", map[string]any{"out": 1})
	loaded.CompleteRun()
	require.NoError(t, p.RunRepository().Update(ctx, loaded))

	final, err := p.RunRepository().GetByID(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, final.Status)
	assert.Equal(t, models.StepStatusCompleted, final.Steps["a"].Status)
}

func TestRunRepository_DuplicateCreateFails(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.RunRepository().Create(ctx, models.NewWorkflowRun("run-1", "wf-1")))

	err := p.RunRepository().Create(ctx, models.NewWorkflowRun("run-1", "wf-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrRunAlreadyExists)
}

func TestRunRepository_UpdateMissingFails(t *testing.T) {
	p := NewPersistence(t.TempDir())

	err := p.RunRepository().Update(context.Background(), models.NewWorkflowRun("ghost", "wf-1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, persistence.ErrRunNotFound)
}

func TestRunRepository_ListFiltersAndSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	p := NewPersistence(t.TempDir())

	older := models.NewWorkflowRun("run-old", "wf-1")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, p.RunRepository().Create(ctx, older))

	newer := models.NewWorkflowRun("run-new", "wf-1")
	require.NoError(t, p.RunRepository().Create(ctx, newer))

	other := models.NewWorkflowRun("run-other", "wf-2")
	require.NoError(t, p.RunRepository().Create(ctx, other))

	runs, err := p.RunRepository().List(ctx, "wf-1")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-new", runs[0].RunID)
	assert.Equal(t, "run-old", runs[1].RunID)

	all, err := p.RunRepository().List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestPersistence_HealthCheck(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewPersistence(t.TempDir()).HealthCheck(ctx))
	assert.Error(t, NewPersistence("/nonexistent/zapline-data").HealthCheck(ctx))
}
