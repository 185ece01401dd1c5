package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

func respond(status int, body string) (*ports.RuntimeResponse, error) {
	return &ports.RuntimeResponse{Status: status, Body: []byte(body)}, nil
}

func TestCreateFileSucceedsWhenPathAbsent(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		if call.method == http.MethodGet {
			return respond(http.StatusNotFound, "")
		}
		return respond(http.StatusCreated, "")
	})
	audit := &fakeAuditRepo{}
	svc := NewWorkspaceService(caller, audit, logger.NewNop())

	err := svc.CreateFile(context.Background(), "admin", "/notes/todo.md", "hello")

	require.NoError(t, err)
	require.Len(t, caller.calls, 2)
	assert.Equal(t, http.MethodGet, caller.calls[0].method)
	assert.Equal(t, http.MethodPost, caller.calls[1].method)
	assert.Equal(t, "/files", caller.calls[1].path)

	require.Len(t, audit.events, 1)
	assert.Equal(t, domain.AuditActionWorkspaceCreate, audit.events[0].Action)
	assert.Equal(t, domain.AuditOutcomeAccepted, audit.events[0].Outcome)
	assert.Equal(t, "/notes/todo.md", audit.events[0].Resource)
}

func TestCreateFileRejectsExistingPath(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		return respond(http.StatusOK, `[{"path":"/notes/todo.md"}]`)
	})
	audit := &fakeAuditRepo{}
	svc := NewWorkspaceService(caller, audit, logger.NewNop())

	err := svc.CreateFile(context.Background(), "admin", "/notes/todo.md", "hello")

	require.ErrorIs(t, err, ErrFileExists)
	require.Len(t, caller.calls, 1) // lookup only, no write attempted
	require.Len(t, audit.events, 1)
	assert.Equal(t, domain.AuditOutcomeRejectedExists, audit.events[0].Outcome)
}

func TestUpdateFileRejectsMissingPath(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		return respond(http.StatusNotFound, "")
	})
	audit := &fakeAuditRepo{}
	svc := NewWorkspaceService(caller, audit, logger.NewNop())

	err := svc.UpdateFile(context.Background(), "admin", "/notes/todo.md", "hello")

	require.ErrorIs(t, err, ErrFileNotFound)
	require.Len(t, caller.calls, 1)
	require.Len(t, audit.events, 1)
	assert.Equal(t, domain.AuditActionWorkspaceUpdate, audit.events[0].Action)
	assert.Equal(t, domain.AuditOutcomeRejectedMissing, audit.events[0].Outcome)
}

func TestUpdateFileSucceedsWhenPathPresent(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		if call.method == http.MethodGet {
			return respond(http.StatusOK, `[{"path":"/notes/todo.md"}]`)
		}
		return respond(http.StatusOK, "")
	})
	audit := &fakeAuditRepo{}
	svc := NewWorkspaceService(caller, audit, logger.NewNop())

	err := svc.UpdateFile(context.Background(), "admin", "/notes/todo.md", "updated")

	require.NoError(t, err)
	require.Len(t, caller.calls, 2)
	assert.Equal(t, http.MethodPut, caller.calls[1].method)
	require.Len(t, audit.events, 1)
	assert.Equal(t, domain.AuditOutcomeAccepted, audit.events[0].Outcome)
}

func TestWriteGuardRejectsTraversalBeforeAnyCall(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		t.Fatal("no remote call expected for an invalid path")
		return nil, nil
	})
	svc := NewWorkspaceService(caller, &fakeAuditRepo{}, logger.NewNop())

	err := svc.CreateFile(context.Background(), "admin", "../../etc/passwd", "x")

	require.ErrorIs(t, err, domain.ErrInvalidPath)
	assert.Empty(t, caller.calls)
}

func TestCreateFileUpstreamErrorDuringLookup(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		return respond(http.StatusInternalServerError, "boom")
	})
	audit := &fakeAuditRepo{}
	svc := NewWorkspaceService(caller, audit, logger.NewNop())

	err := svc.CreateFile(context.Background(), "admin", "/a.txt", "x")

	require.ErrorIs(t, err, ErrServiceUnavailable)
	require.Len(t, caller.calls, 1) // a failed stat is not an absence verdict
	require.Len(t, audit.events, 1)
	assert.Equal(t, domain.AuditActionWorkspaceCreate, audit.events[0].Action)
	assert.Equal(t, domain.AuditOutcomeUpstreamError, audit.events[0].Outcome)
}

func TestUpdateFileUpstreamErrorDuringLookup(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		return respond(http.StatusInternalServerError, "boom")
	})
	audit := &fakeAuditRepo{}
	svc := NewWorkspaceService(caller, audit, logger.NewNop())

	err := svc.UpdateFile(context.Background(), "admin", "/a.txt", "x")

	require.ErrorIs(t, err, ErrServiceUnavailable)
	require.Len(t, caller.calls, 1)
	require.Len(t, audit.events, 1)
	assert.Equal(t, domain.AuditActionWorkspaceUpdate, audit.events[0].Action)
	assert.Equal(t, domain.AuditOutcomeUpstreamError, audit.events[0].Outcome)
}

func TestReadFileNotFound(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		return respond(http.StatusNotFound, "")
	})
	svc := NewWorkspaceService(caller, &fakeAuditRepo{}, logger.NewNop())

	_, err := svc.ReadFile(context.Background(), "/missing.txt")

	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestListFilesNormalizesPath(t *testing.T) {
	caller := newFakeRuntimeCaller(func(call fakeCall) (*ports.RuntimeResponse, error) {
		return respond(http.StatusOK, `[{"path":"/a/c/x.txt","size":3}]`)
	})
	svc := NewWorkspaceService(caller, &fakeAuditRepo{}, logger.NewNop())

	files, err := svc.ListFiles(context.Background(), "/a/./b/../c", false)

	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Len(t, caller.calls, 1)
	assert.Contains(t, caller.calls[0].path, "path=%2Fa%2Fc")
}
