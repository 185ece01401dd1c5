package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/taskboard/backend/internal/config"
	"github.com/taskboard/backend/internal/core/ports"
	"github.com/taskboard/backend/internal/infrastructure/logger"
)

// RuntimeClient issues authenticated HTTP calls to the agent runtime's
// workspace and gateway services. Transient failures (network errors,
// 502/503/504) are retried with jittered exponential backoff; any other
// upstream status is returned to the caller as-is.
//
// The configuration snapshot is captured once at construction. A service
// whose base URL is absent stays unconfigured for the process lifetime and
// every call against it fails fast with ErrServiceNotConfigured.
type RuntimeClient struct {
	cfg    config.RuntimeConfig
	client *http.Client
	logger *logger.Logger
}

func NewRuntimeClient(cfg config.RuntimeConfig, log *logger.Logger) *RuntimeClient {
	cfg.Normalize()
	return &RuntimeClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.CallTimeout},
		logger: log,
	}
}

func (c *RuntimeClient) target(service ports.RemoteService) (baseURL, token string) {
	switch service {
	case ports.RemoteWorkspace:
		return c.cfg.WorkspaceURL, c.cfg.WorkspaceToken
	case ports.RemoteGateway:
		return c.cfg.GatewayURL, c.cfg.GatewayToken
	}
	return "", ""
}

func (c *RuntimeClient) IsConfigured(service ports.RemoteService) bool {
	baseURL, _ := c.target(service)
	return baseURL != ""
}

func (c *RuntimeClient) ensureConfigured(service ports.RemoteService) error {
	if !c.IsConfigured(service) {
		return fmt.Errorf("%w: %s", ErrServiceNotConfigured, service)
	}
	return nil
}

func isTransientStatus(status int) bool {
	return status == http.StatusBadGateway ||
		status == http.StatusServiceUnavailable ||
		status == http.StatusGatewayTimeout
}

// Call performs one logical request within the retry envelope. A non-nil
// body is JSON-encoded. POST requests are never re-sent once an upstream
// response has been observed: the create may already have taken effect and
// a retry could duplicate it.
func (c *RuntimeClient) Call(ctx context.Context, service ports.RemoteService, method, path string, body interface{}) (*ports.RuntimeResponse, error) {
	if err := c.ensureConfigured(service); err != nil {
		return nil, err
	}

	baseURL, token := c.target(service)

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var result *ports.RuntimeResponse
	attempt := 0

	operation := func() error {
		attempt++

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			c.logger.Warnw("runtime_call_network_error",
				"service", service, "method", method, "path", path,
				"attempt", attempt, "error", err)
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			// The response started arriving, so a POST must not be re-sent.
			if method == http.MethodPost {
				return backoff.Permanent(err)
			}
			return err
		}

		if isTransientStatus(resp.StatusCode) {
			upstreamErr := fmt.Errorf("%w: %s %s %s returned status %d: %s",
				ErrServiceUnavailable, service, method, path, resp.StatusCode, truncate(respBody, 256))
			c.logger.Warnw("runtime_call_upstream_error",
				"service", service, "method", method, "path", path,
				"attempt", attempt, "status", resp.StatusCode)
			if method == http.MethodPost {
				return backoff.Permanent(upstreamErr)
			}
			return upstreamErr
		}

		result = &ports.RuntimeResponse{Status: resp.StatusCode, Body: respBody}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.cfg.RetryBaseDelay
	bo.Multiplier = 2
	bo.MaxElapsedTime = 0

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.cfg.RetryAttempts)), ctx))
	if err != nil {
		if errors.Is(err, ErrServiceUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s %s %s: %v", ErrServiceUnavailable, service, method, path, err)
	}

	return result, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

var _ ports.RuntimeCaller = (*RuntimeClient)(nil)
