// Package web provides the HTTP handlers for workflow and run management.
package web

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/zapline/zapline/pkg/models"
	"github.com/zapline/zapline/pkg/persistence"
	"github.com/zapline/zapline/pkg/registry"
	"github.com/zapline/zapline/pkg/workflow"
)

type APIHandlers struct {
	persistence persistence.Persistence
	engine      *workflow.Engine
	registry    *registry.Registry
	validator   *validator.Validate
}

func NewAPIHandlers(
	p persistence.Persistence,
	engine *workflow.Engine,
	reg *registry.Registry,
	validate *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		persistence: p,
		engine:      engine,
		registry:    reg,
		validator:   validate,
	}
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	steps := make([]*models.StepDefinition, 0, len(req.Steps))
	for _, step := range req.Steps {
		steps = append(steps, &models.StepDefinition{
			ID:         step.ID,
			Type:       step.Type,
			Config:     step.Config,
			NextStepID: step.NextStepID,
		})
	}

	wf := &models.WorkflowDefinition{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		EntryPoint:  req.EntryPoint,
		Steps:       steps,
		Status:      models.WorkflowStatusActive,
	}

	if err := wf.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.persistence.WorkflowRepository().Create(c.Context(), wf); err != nil {
		if persistence.IsAlreadyExists(err) {
			return conflict(c, "Workflow already exists")
		}

		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(wf)
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.persistence.WorkflowRepository().List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	wf, err := h.persistence.WorkflowRepository().GetByID(c.Context(), id)
	if err != nil {
		if persistence.IsNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(wf)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.persistence.WorkflowRepository().Delete(c.Context(), id); err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// TriggerRun starts a run and returns it before any step has executed.
// Progress is observed through GetRun.
func (h *APIHandlers) TriggerRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req TriggerRunRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON format")
		}
	}

	run, err := h.engine.StartRun(c.Context(), id, req.Context)
	if err != nil {
		if persistence.IsNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(run)
}

func (h *APIHandlers) GetRun(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Run ID is required")
	}

	run, err := h.persistence.RunRepository().GetByID(c.Context(), id)
	if err != nil {
		if persistence.IsNotFound(err) {
			return notFound(c, "Run not found")
		}

		return internalError(c, err)
	}

	return c.JSON(run)
}

func (h *APIHandlers) GetWorkflowRuns(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	runs, err := h.persistence.RunRepository().List(c.Context(), id)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(runs)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()

	persistenceCheck := "Persistence layer is healthy"
	perOk := true

	if err := h.persistence.HealthCheck(c.Context()); err != nil {
		persistenceCheck = "Persistence layer is unhealthy: " + err.Error()
		perOk = false
	}

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && perOk {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checkers": fiber.Map{
			"registry":    registryCheck,
			"persistence": persistenceCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}
