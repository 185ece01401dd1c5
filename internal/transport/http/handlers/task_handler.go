package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/core/services"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"github.com/taskboard/backend/internal/transport/http/dto"
	"github.com/taskboard/backend/internal/transport/http/middleware"
)

type TaskHandler struct {
	service ports.BoardService
	logger  *logger.Logger
}

func NewTaskHandler(service ports.BoardService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		h.logger.Warnw("task_create_validation_failed", "details", errs)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	task, err := h.service.CreateTask(c.Context(), req.ToInput())
	if err != nil {
		h.logger.Errorw("task_create_failed", "error", err)
		return h.mapBoardError(c, err)
	}

	h.logger.Infow("task_create_success", "id", task.ID)
	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *TaskHandler) GetTasks(c *fiber.Ctx) error {
	filter := ports.TaskFilter{
		Status:          domain.TaskStatus(c.Query("status")),
		Assignee:        c.Query("assignee"),
		IncludeArchived: c.QueryBool("include_archived"),
	}

	tasks, err := h.service.GetTasks(c.Context(), filter)
	if err != nil {
		h.logger.Errorw("tasks_list_failed", "error", err)
		return h.mapBoardError(c, err)
	}
	return c.JSON(tasks)
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	task, err := h.service.GetTaskByID(c.Context(), c.Params("id"))
	if err != nil {
		return h.mapBoardError(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}
	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	task, err := h.service.UpdateTask(c.Context(), c.Params("id"), req.ToInput())
	if err != nil {
		return h.mapBoardError(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	if err := h.service.DeleteTask(c.Context(), c.Params("id")); err != nil {
		return h.mapBoardError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TaskHandler) MoveTask(c *fiber.Ctx) error {
	var req dto.MoveTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}
	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	task, err := h.service.MoveTask(c.Context(), c.Params("id"), domain.TaskStatus(req.Status))
	if err != nil {
		return h.mapBoardError(c, err)
	}
	return c.JSON(task)
}

func (h *TaskHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}
	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	comment, err := h.service.AddComment(c.Context(), c.Params("id"), middleware.Principal(c), req.Body)
	if err != nil {
		return h.mapBoardError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *TaskHandler) AddDependency(c *fiber.Ctx) error {
	var req dto.DependencyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}
	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	if err := h.service.AddDependency(c.Context(), c.Params("id"), req.DependsOnID); err != nil {
		return h.mapBoardError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *TaskHandler) RemoveDependency(c *fiber.Ctx) error {
	if err := h.service.RemoveDependency(c.Context(), c.Params("id"), c.Params("depId")); err != nil {
		return h.mapBoardError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TaskHandler) mapBoardError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrTaskInvalidInput),
		errors.Is(err, services.ErrDependencySelf),
		errors.Is(err, services.ErrDependencyMissing):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrTaskBlocked):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
}
