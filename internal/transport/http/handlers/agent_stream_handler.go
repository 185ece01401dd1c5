package handlers

import (
	"context"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

const streamPushInterval = 2 * time.Second

// AgentStreamHandler pushes live subagent status snapshots over a
// websocket. Each connected client gets its own poll loop; a client
// disconnect cancels the in-flight upstream fetch.
type AgentStreamHandler struct {
	subagents ports.SubagentService
	logger    *logger.Logger
}

func NewAgentStreamHandler(subagents ports.SubagentService, logger *logger.Logger) *AgentStreamHandler {
	return &AgentStreamHandler{subagents: subagents, logger: logger}
}

func (h *AgentStreamHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Reader goroutine: its only job is to notice the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.Infow("agent_stream_connected", "remote", c.RemoteAddr().String())

	ticker := time.NewTicker(streamPushInterval)
	defer ticker.Stop()

	for {
		report, err := h.subagents.GetStatus(ctx)
		if err != nil {
			h.logger.Warnw("agent_stream_fetch_failed", "error", err)
			if writeErr := c.WriteJSON(map[string]string{"error": "status unavailable"}); writeErr != nil {
				return
			}
		} else if err := c.WriteJSON(report); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			h.logger.Infow("agent_stream_disconnected", "remote", c.RemoteAddr().String())
			return
		case <-ticker.C:
		}
	}
}
