package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/domain"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

// WorkspaceSvc proxies file operations to the runtime's workspace service.
// Mutations go through a lookup-then-write guard: create fails when the path
// already resolves, update fails when it does not.
//
// Known limitation: the existence check and the write are two separate
// remote calls. A concurrent writer can create or delete the path in
// between, so the guard is best-effort. Closing the window needs an
// exclusive-create primitive in the workspace service itself, which it does
// not offer; callers should treat a surviving conflict as upstream state,
// not as a bug here.
type WorkspaceSvc struct {
	client ports.RuntimeCaller
	audit  ports.AuditRepository
	logger *logger.Logger
}

func NewWorkspaceService(client ports.RuntimeCaller, audit ports.AuditRepository, log *logger.Logger) *WorkspaceSvc {
	return &WorkspaceSvc{client: client, audit: audit, logger: log}
}

type writeFilePayload struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

func (s *WorkspaceSvc) ListFiles(ctx context.Context, rawPath string, recursive bool) ([]domain.WorkspaceFile, error) {
	path, err := domain.NormalizeWorkspacePath(rawPath)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("path", path.String())
	if recursive {
		query.Set("recursive", "true")
	}

	resp, err := s.client.Call(ctx, ports.RemoteWorkspace, http.MethodGet, "/files?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: list %s returned status %d", ErrServiceUnavailable, path, resp.Status)
	}

	var files []domain.WorkspaceFile
	if err := json.Unmarshal(resp.Body, &files); err != nil {
		return nil, fmt.Errorf("failed to decode file listing: %w", err)
	}
	return files, nil
}

func (s *WorkspaceSvc) ReadFile(ctx context.Context, rawPath string) ([]byte, error) {
	path, err := domain.NormalizeWorkspacePath(rawPath)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("path", path.String())

	resp, err := s.client.Call(ctx, ports.RemoteWorkspace, http.MethodGet, "/files/content?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("%w: read %s returned status %d", ErrServiceUnavailable, path, resp.Status)
	}
	return resp.Body, nil
}

func (s *WorkspaceSvc) CreateFile(ctx context.Context, principal, rawPath, content string) error {
	path, err := domain.NormalizeWorkspacePath(rawPath)
	if err != nil {
		return err
	}

	exists, err := s.pathExists(ctx, path)
	if err != nil {
		s.recordAudit(ctx, principal, domain.AuditActionWorkspaceCreate, domain.AuditOutcomeUpstreamError, path)
		return err
	}
	if exists {
		s.logger.Warnw("workspace_create_conflict", "path", path, "principal", principal)
		s.recordAudit(ctx, principal, domain.AuditActionWorkspaceCreate, domain.AuditOutcomeRejectedExists, path)
		return fmt.Errorf("%w: %s", ErrFileExists, path)
	}

	resp, err := s.client.Call(ctx, ports.RemoteWorkspace, http.MethodPost, "/files",
		writeFilePayload{Path: path.String(), Content: content})
	if err != nil {
		s.recordAudit(ctx, principal, domain.AuditActionWorkspaceCreate, domain.AuditOutcomeUpstreamError, path)
		return err
	}
	if resp.Status != http.StatusOK && resp.Status != http.StatusCreated {
		s.recordAudit(ctx, principal, domain.AuditActionWorkspaceCreate, domain.AuditOutcomeUpstreamError, path)
		return fmt.Errorf("%w: create %s returned status %d", ErrServiceUnavailable, path, resp.Status)
	}

	s.logger.Infow("workspace_create_ok", "path", path, "principal", principal)
	s.recordAudit(ctx, principal, domain.AuditActionWorkspaceCreate, domain.AuditOutcomeAccepted, path)
	return nil
}

func (s *WorkspaceSvc) UpdateFile(ctx context.Context, principal, rawPath, content string) error {
	path, err := domain.NormalizeWorkspacePath(rawPath)
	if err != nil {
		return err
	}

	exists, err := s.pathExists(ctx, path)
	if err != nil {
		s.recordAudit(ctx, principal, domain.AuditActionWorkspaceUpdate, domain.AuditOutcomeUpstreamError, path)
		return err
	}
	if !exists {
		s.logger.Warnw("workspace_update_missing", "path", path, "principal", principal)
		s.recordAudit(ctx, principal, domain.AuditActionWorkspaceUpdate, domain.AuditOutcomeRejectedMissing, path)
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	resp, err := s.client.Call(ctx, ports.RemoteWorkspace, http.MethodPut, "/files",
		writeFilePayload{Path: path.String(), Content: content})
	if err != nil {
		s.recordAudit(ctx, principal, domain.AuditActionWorkspaceUpdate, domain.AuditOutcomeUpstreamError, path)
		return err
	}
	if resp.Status != http.StatusOK {
		s.recordAudit(ctx, principal, domain.AuditActionWorkspaceUpdate, domain.AuditOutcomeUpstreamError, path)
		return fmt.Errorf("%w: update %s returned status %d", ErrServiceUnavailable, path, resp.Status)
	}

	s.logger.Infow("workspace_update_ok", "path", path, "principal", principal)
	s.recordAudit(ctx, principal, domain.AuditActionWorkspaceUpdate, domain.AuditOutcomeAccepted, path)
	return nil
}

// pathExists asks the workspace service for metadata at path. 404 means the
// path does not resolve right now; anything else non-200 is an upstream
// failure, not a verdict.
func (s *WorkspaceSvc) pathExists(ctx context.Context, path domain.WorkspacePath) (bool, error) {
	query := url.Values{}
	query.Set("path", path.String())

	resp, err := s.client.Call(ctx, ports.RemoteWorkspace, http.MethodGet, "/files?"+query.Encode(), nil)
	if err != nil {
		return false, err
	}
	switch resp.Status {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: stat %s returned status %d", ErrServiceUnavailable, path, resp.Status)
	}
}

// recordAudit is best-effort: a failed audit write is logged and never
// blocks the operation outcome that has already been decided.
func (s *WorkspaceSvc) recordAudit(ctx context.Context, principal, action, outcome string, path domain.WorkspacePath) {
	if s.audit == nil {
		return
	}
	event := &domain.AuditEvent{
		Actor:    principal,
		Action:   action,
		Outcome:  outcome,
		Resource: path.String(),
	}
	if err := s.audit.Record(ctx, event); err != nil {
		s.logger.Errorw("workspace_audit_record_failed", "action", action, "outcome", outcome, "path", path, "error", err)
	}
}

var _ ports.WorkspaceService = (*WorkspaceSvc)(nil)
