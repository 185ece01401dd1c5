package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

const (
	gatewaySessionsPath = "/api/v1/sessions"
	gatewayCronPath     = "/api/v1/cron"
)

// GatewaySvc proxies live session and cron queries to the gateway service.
type GatewaySvc struct {
	client ports.RuntimeCaller
	logger *logger.Logger
}

func NewGatewayService(client ports.RuntimeCaller, log *logger.Logger) *GatewaySvc {
	return &GatewaySvc{client: client, logger: log}
}

func (s *GatewaySvc) ListSessions(ctx context.Context) ([]domain.GatewaySession, error) {
	resp, err := s.client.Call(ctx, ports.RemoteGateway, http.MethodGet, gatewaySessionsPath, nil)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: sessions returned status %d", ErrServiceUnavailable, resp.Status)
	}
	var sessions []domain.GatewaySession
	if err := json.Unmarshal(resp.Body, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

func (s *GatewaySvc) ListCronJobs(ctx context.Context) ([]domain.GatewayCronJob, error) {
	resp, err := s.client.Call(ctx, ports.RemoteGateway, http.MethodGet, gatewayCronPath, nil)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: cron returned status %d", ErrServiceUnavailable, resp.Status)
	}
	var jobs []domain.GatewayCronJob
	if err := json.Unmarshal(resp.Body, &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode cron jobs: %w", err)
	}
	return jobs, nil
}

var _ ports.GatewayService = (*GatewaySvc)(nil)
