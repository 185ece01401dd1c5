package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

func newSubagentService(caller ports.RuntimeCaller) *SubagentService {
	log := logger.NewNop()
	return NewSubagentService(caller, NewCorrelationEngine(log), log)
}

func TestGetStatusUnconfiguredGatewayMakesNoCalls(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		return respond(http.StatusOK, "[]")
	})
	caller.configured[ports.RemoteGateway] = false
	svc := newSubagentService(caller)

	report, err := svc.GetStatus(context.Background())

	assert.Nil(t, report)
	require.ErrorIs(t, err, ErrServiceNotConfigured)
	assert.Empty(t, caller.calls)
}

func TestGetStatusUnconfiguredWorkspaceMakesNoCalls(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		return respond(http.StatusOK, "[]")
	})
	caller.configured[ports.RemoteWorkspace] = false
	svc := newSubagentService(caller)

	report, err := svc.GetStatus(context.Background())

	assert.Nil(t, report)
	require.ErrorIs(t, err, ErrServiceNotConfigured)
	assert.Empty(t, caller.calls)
}

func TestGetStatusCorrelatesBothSources(t *testing.T) {
	activity := `[
		{"timestamp":"2026-03-01T10:00:00Z","taskId":"T1","category":"spawn"},
		{"timestamp":"2026-03-01T10:05:00Z","task_id":"T2","category":"subagent_spawn"}
	]`
	results := `[
		{"sessionLabel":"T1","status":"completed","completedAt":"2026-03-01T10:01:30Z"}
	]`
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		if call.path == gatewayActivityPath {
			return respond(http.StatusOK, activity)
		}
		return respond(http.StatusOK, results)
	})
	svc := newSubagentService(caller)

	report, err := svc.GetStatus(context.Background())

	require.NoError(t, err)
	require.Len(t, caller.calls, 2)

	require.Len(t, report.Completed, 1)
	assert.Equal(t, "T1", report.Completed[0].ID)
	require.NotNil(t, report.Completed[0].DurationMs)
	assert.Equal(t, int64(90_000), *report.Completed[0].DurationMs)

	require.Len(t, report.Running, 1)
	assert.Equal(t, "T2", report.Running[0].ID)
	assert.Empty(t, report.Queued)
}

func TestGetStatusSurvivesOneFailedSource(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		if call.path == gatewayResultsPath {
			return respond(http.StatusBadGateway, "")
		}
		return respond(http.StatusOK, `[{"timestamp":"2026-03-01T10:00:00Z","taskId":"T1","category":"spawn"}]`)
	})
	svc := newSubagentService(caller)

	report, err := svc.GetStatus(context.Background())

	require.NoError(t, err)
	require.Len(t, report.Running, 1)
	assert.Equal(t, "T1", report.Running[0].ID)
}

func TestGetStatusFailsWhenBothSourcesFail(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		return respond(http.StatusServiceUnavailable, "")
	})
	svc := newSubagentService(caller)

	report, err := svc.GetStatus(context.Background())

	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
}

func TestGetStatusSkipsMalformedRecord(t *testing.T) {
	// The second element is a string, not an object: it must cost only
	// itself, not the batch.
	activity := `[
		{"timestamp":"2026-03-01T10:00:00Z","taskId":"T1","category":"spawn"},
		"garbage"
	]`
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		if call.path == gatewayActivityPath {
			return respond(http.StatusOK, activity)
		}
		return respond(http.StatusOK, "[]")
	})
	svc := newSubagentService(caller)

	report, err := svc.GetStatus(context.Background())

	require.NoError(t, err)
	require.Len(t, report.Running, 1)
	assert.Equal(t, "T1", report.Running[0].ID)
}

func TestGetStatusEmptySourcesYieldEmptyReport(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		return respond(http.StatusOK, "[]")
	})
	svc := newSubagentService(caller)

	report, err := svc.GetStatus(context.Background())

	require.NoError(t, err)
	assert.Empty(t, report.Running)
	assert.Empty(t, report.Queued)
	assert.Empty(t, report.Completed)
	assert.NotNil(t, report.Running)
}
