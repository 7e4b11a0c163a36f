// Package workflow implements the run state machine and the step-chaining
// engine that walks a definition's successor chain to a terminal state.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zapline/zapline/pkg/models"
	"github.com/zapline/zapline/pkg/persistence"
	"github.com/zapline/zapline/pkg/registry"
)

// DefaultMaxConcurrentRuns bounds the background execution pool when no
// explicit limit is configured.
const DefaultMaxConcurrentRuns = 64

// Engine orchestrates workflow runs from start to terminal state. Steps of
// a single run execute strictly sequentially; different runs only contend
// for slots in the bounded background pool.
type Engine struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	logger      *slog.Logger

	sem chan struct{}
	wg  sync.WaitGroup

	mu     sync.Mutex
	active map[string]struct{}
}

func NewEngine(p persistence.Persistence, r *registry.Registry, logger *slog.Logger, maxConcurrentRuns int) *Engine {
	if maxConcurrentRuns <= 0 {
		maxConcurrentRuns = DefaultMaxConcurrentRuns
	}

	return &Engine{
		persistence: p,
		registry:    r,
		logger:      logger,
		sem:         make(chan struct{}, maxConcurrentRuns),
		active:      make(map[string]struct{}),
	}
}

// StartRun creates a run for the workflow, persists it in its initial
// running state, and schedules background execution. It returns the run
// before any step has executed; callers observe progress by polling
// storage. The spawned goroutine, not the caller, waits for a pool slot.
func (e *Engine) StartRun(ctx context.Context, workflowID string, initialContext map[string]any) (*models.WorkflowRun, error) {
	wf, err := e.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	runs := e.persistence.RunRepository()

	run := models.NewWorkflowRun(uuid.NewString(), workflowID)
	if err := runs.Create(ctx, run); err != nil {
		return nil, err
	}

	if initialContext != nil {
		run.Context = initialContext
	}

	for _, step := range wf.Steps {
		run.AddStep(step.ID)
	}

	now := time.Now().UTC()
	run.CurrentStepID = &wf.EntryPoint
	run.Status = models.RunStatusRunning
	run.StartedAt = &now

	if err := runs.Update(ctx, run); err != nil {
		return nil, err
	}

	e.wg.Add(1)

	go func() {
		defer e.wg.Done()

		e.sem <- struct{}{}
		defer func() { <-e.sem }()

		e.trackRun(run.RunID)
		defer e.untrackRun(run.RunID)

		e.execute(run.RunID)
	}()

	return run, nil
}

// ActiveRuns enumerates the run ids currently executing in the background.
func (e *Engine) ActiveRuns() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, 0, len(e.active))
	for id := range e.active {
		ids = append(ids, id)
	}

	return ids
}

// Wait blocks until every scheduled run has reached a terminal state. Used
// for orderly shutdown and by tests.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// execute drives one run to a terminal state. Any fault escaping the step
// loop (typically a storage failure) is caught here: the run is reloaded
// and forced into failed. If even that write fails the inconsistency is
// unrecoverable and only logged; the run keeps its last persisted state.
func (e *Engine) execute(runID string) {
	// Background execution outlives the triggering request on purpose.
	ctx := context.Background()

	logger := e.logger.With("run_id", runID)
	logger.Info("Starting background execution")

	err := e.executeRun(ctx, logger, runID)
	if err == nil {
		return
	}

	logger.Error("Unhandled error in background execution", "error", err)

	runs := e.persistence.RunRepository()

	run, loadErr := runs.GetByID(ctx, runID)
	if loadErr != nil {
		logger.Error("Failed to reload run for failure recovery", "error", loadErr)
		return
	}

	now := time.Now().UTC()
	run.Status = models.RunStatusFailed
	run.CompletedAt = &now
	run.Error = err.Error()

	if updateErr := runs.Update(ctx, run); updateErr != nil {
		logger.Error("Failed to persist failed run status", "error", updateErr)
	}
}

func (e *Engine) executeRun(ctx context.Context, logger *slog.Logger, runID string) error {
	runs := e.persistence.RunRepository()

	run, err := runs.GetByID(ctx, runID)
	if err != nil {
		return err
	}

	wf, err := e.persistence.WorkflowRepository().GetByID(ctx, run.WorkflowID)
	if err != nil {
		return err
	}

	for run.CurrentStepID != nil {
		stepID := *run.CurrentStepID

		step := wf.GetStep(stepID)
		if step == nil {
			// Fatal inconsistency between the run and its definition.
			return fmt.Errorf("step %s not found in workflow %s", stepID, wf.ID)
		}

		run.StartStep(stepID)

		if err := runs.Update(ctx, run); err != nil {
			return err
		}

		logger.Info("Executing step", "step_id", stepID, "step_type", step.Type)

		output, stepErr := e.executeStep(ctx, step, run.Context)
		if stepErr != nil {
			stepFailure := &StepExecutionError{StepID: stepID, Err: stepErr}
			logger.Error("Step execution failed", "step_id", stepID, "error", stepErr)

			run.FailStep(stepID, stepErr.Error())
			run.Error = stepFailure.Error()
			run.CurrentStepID = nil

			return runs.Update(ctx, run)
		}

		run.UpdateContext(output)
		run.CompleteStep(stepID, output)
		run.CurrentStepID = step.NextStepID

		if err := runs.Update(ctx, run); err != nil {
			return err
		}
	}

	run.CompleteRun()

	if err := runs.Update(ctx, run); err != nil {
		return err
	}

	logger.Info("Background execution completed")

	return nil
}

// executeStep dispatches one step through the connector registry. Config
// schema validation happens here, at dispatch time, so a malformed step
// config persisted inside a definition only fails the run that reaches it.
func (e *Engine) executeStep(ctx context.Context, step *models.StepDefinition, runContext map[string]any) (map[string]any, error) {
	connector, err := e.registry.CreateConnector(step.Type, step.Config)
	if err != nil {
		return nil, err
	}

	return connector.Execute(ctx, runContext)
}

func (e *Engine) trackRun(runID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.active[runID] = struct{}{}
}

func (e *Engine) untrackRun(runID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.active, runID)
}
