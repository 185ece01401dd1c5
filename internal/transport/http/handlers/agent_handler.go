package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/core/services"
	"github.com/taskboard/backend/internal/infrastructure/logger"
	"github.com/taskboard/backend/internal/transport/http/dto"
)

// AgentHandler serves the runtime-facing read surface: subagent status,
// live sessions and cron jobs.
type AgentHandler struct {
	subagents ports.SubagentService
	gateway   ports.GatewayService
	logger    *logger.Logger
}

func NewAgentHandler(subagents ports.SubagentService, gateway ports.GatewayService, logger *logger.Logger) *AgentHandler {
	return &AgentHandler{subagents: subagents, gateway: gateway, logger: logger}
}

func (h *AgentHandler) GetSubagentStatus(c *fiber.Ctx) error {
	h.logger.Debugw("subagent_status_request")
	report, err := h.subagents.GetStatus(c.Context())
	if err != nil {
		return h.mapRuntimeError(c, err)
	}
	return c.JSON(report)
}

func (h *AgentHandler) GetSessions(c *fiber.Ctx) error {
	sessions, err := h.gateway.ListSessions(c.Context())
	if err != nil {
		return h.mapRuntimeError(c, err)
	}
	return c.JSON(sessions)
}

func (h *AgentHandler) GetCronJobs(c *fiber.Ctx) error {
	jobs, err := h.gateway.ListCronJobs(c.Context())
	if err != nil {
		return h.mapRuntimeError(c, err)
	}
	return c.JSON(jobs)
}

func (h *AgentHandler) mapRuntimeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrServiceNotConfigured) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: "agent runtime integration is not configured",
		})
	}
	h.logger.Errorw("agent_request_failed", "error", err)
	return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Error: err.Error()})
}
