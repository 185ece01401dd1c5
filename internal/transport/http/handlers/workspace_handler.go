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

type WorkspaceHandler struct {
	service ports.WorkspaceService
	logger  *logger.Logger
}

func NewWorkspaceHandler(service ports.WorkspaceService, logger *logger.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{service: service, logger: logger}
}

func (h *WorkspaceHandler) ListFiles(c *fiber.Ctx) error {
	files, err := h.service.ListFiles(c.Context(), c.Query("path", "/"), c.QueryBool("recursive"))
	if err != nil {
		return h.mapWorkspaceError(c, err)
	}
	return c.JSON(files)
}

func (h *WorkspaceHandler) ReadFile(c *fiber.Ctx) error {
	content, err := h.service.ReadFile(c.Context(), c.Query("path"))
	if err != nil {
		return h.mapWorkspaceError(c, err)
	}
	return c.Send(content)
}

func (h *WorkspaceHandler) CreateFile(c *fiber.Ctx) error {
	var req dto.WriteFileRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("workspace_create_body_parse_failed", "error", err)
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

	if err := h.service.CreateFile(c.Context(), middleware.Principal(c), req.Path, req.Content); err != nil {
		return h.mapWorkspaceError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

func (h *WorkspaceHandler) UpdateFile(c *fiber.Ctx) error {
	var req dto.WriteFileRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("workspace_update_body_parse_failed", "error", err)
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

	if err := h.service.UpdateFile(c.Context(), middleware.Principal(c), req.Path, req.Content); err != nil {
		return h.mapWorkspaceError(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *WorkspaceHandler) mapWorkspaceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidPath):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrFileExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrFileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrServiceNotConfigured):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: "agent runtime integration is not configured",
		})
	case errors.Is(err, services.ErrServiceUnavailable):
		h.logger.Errorw("workspace_upstream_unavailable", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		h.logger.Errorw("workspace_request_failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
}
