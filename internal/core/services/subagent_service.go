package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

// Gateway paths for the two raw correlation sources.
const (
	gatewayActivityPath = "/api/v1/activity"
	gatewayResultsPath  = "/api/v1/task-results"
)

// SubagentService answers subagent status requests. Each request fetches the
// activity log and the result cache concurrently, correlates them in memory
// and projects the result; nothing is cached across requests.
type SubagentService struct {
	client ports.RuntimeCaller
	engine *CorrelationEngine
	logger *logger.Logger
}

func NewSubagentService(client ports.RuntimeCaller, engine *CorrelationEngine, log *logger.Logger) *SubagentService {
	return &SubagentService{client: client, engine: engine, logger: log}
}

func (s *SubagentService) GetStatus(ctx context.Context) (*domain.SubagentStatusReport, error) {
	// Status is only meaningful when the whole runtime integration is up.
	// A half-configured runtime fails fast before any fetch is issued.
	for _, service := range []ports.RemoteService{ports.RemoteWorkspace, ports.RemoteGateway} {
		if !s.client.IsConfigured(service) {
			return nil, fmt.Errorf("%w: %s", ErrServiceNotConfigured, service)
		}
	}

	var (
		wg          sync.WaitGroup
		activity    []domain.ActivityRecord
		results     []domain.ResultCacheRecord
		activityErr error
		resultsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		activity, activityErr = s.fetchActivity(ctx)
	}()
	go func() {
		defer wg.Done()
		results, resultsErr = s.fetchResults(ctx)
	}()
	wg.Wait()

	// One degraded source still yields the best view available; only a
	// total fetch failure surfaces as an error.
	if activityErr != nil && resultsErr != nil {
		s.logger.Errorw("subagent_status_fetch_failed", "activity_error", activityErr, "results_error", resultsErr)
		return nil, activityErr
	}
	if activityErr != nil {
		s.logger.Warnw("subagent_status_partial", "source", "activity", "error", activityErr)
	}
	if resultsErr != nil {
		s.logger.Warnw("subagent_status_partial", "source", "results", "error", resultsErr)
	}

	views := s.engine.Correlate(activity, results)
	return ProjectSubagents(views), nil
}

func (s *SubagentService) fetchActivity(ctx context.Context) ([]domain.ActivityRecord, error) {
	resp, err := s.client.Call(ctx, ports.RemoteGateway, http.MethodGet, gatewayActivityPath, nil)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: activity log returned status %d", ErrServiceUnavailable, resp.Status)
	}
	raw, err := splitRecords(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode activity log: %w", err)
	}
	records := make([]domain.ActivityRecord, 0, len(raw))
	for i, item := range raw {
		var record domain.ActivityRecord
		if err := json.Unmarshal(item, &record); err != nil {
			s.logger.Warnw("activity_record_malformed", "position", i, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (s *SubagentService) fetchResults(ctx context.Context) ([]domain.ResultCacheRecord, error) {
	resp, err := s.client.Call(ctx, ports.RemoteGateway, http.MethodGet, gatewayResultsPath, nil)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: result cache returned status %d", ErrServiceUnavailable, resp.Status)
	}
	raw, err := splitRecords(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode result cache: %w", err)
	}
	records := make([]domain.ResultCacheRecord, 0, len(raw))
	for i, item := range raw {
		var record domain.ResultCacheRecord
		if err := json.Unmarshal(item, &record); err != nil {
			s.logger.Warnw("result_record_malformed", "position", i, "error", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// splitRecords decodes a JSON array lazily so a single malformed element
// skips that element instead of failing the whole batch.
func splitRecords(body []byte) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

var _ ports.SubagentService = (*SubagentService)(nil)
