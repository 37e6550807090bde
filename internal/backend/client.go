// Package backend talks to the native mod-manager backend over HTTP.
// Every command is a POST to /invoke/{command} whose body is the command's
// Result envelope.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/modkeeper/modkeeper/internal/domain"
	"github.com/modkeeper/modkeeper/internal/result"
)

const (
	defaultTimeout = 5 * time.Minute
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond

	taskHeader = "X-Task-Id"
)

// Client implements domain.Backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	retryDelay time.Duration
}

// NewClient creates a backend client. A zero timeout uses the default; mod
// syncs on large libraries can take minutes.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:     logger,
		retryDelay: baseRetryDelay,
	}
}

// request describes one command invocation.
type request struct {
	command string
	args    any
	taskID  string
	// retry is only safe for commands that change nothing.
	retry bool
}

// doRequest posts the command and returns the raw envelope.
// Read-only commands retry with exponential backoff on 5xx and connection
// errors; mutating commands are sent at most once.
func (c *Client) doRequest(ctx context.Context, r request) ([]byte, error) {
	reqURL := fmt.Sprintf("%s/invoke/%s", c.baseURL, r.command)

	args := r.args
	if args == nil {
		args = struct{}{}
	}
	payload, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s arguments: %w", r.command, err)
	}

	attempts := 1
	if r.retry {
		attempts += maxRetries
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying command", "attempt", attempt, "delay", delay, "command", r.command)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if r.taskID != "" {
			req.Header.Set(taskHeader, r.taskID)
		}

		c.logger.Debug("backend request", "command", r.command, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("backend request failed", "command", r.command, "error", err)
			lastErr = fmt.Errorf("%w: %v", domain.ErrBackendUnreachable, err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = fmt.Errorf("backend error: %d - %s", resp.StatusCode, string(body))
			c.logger.Warn("backend server error",
				"status", resp.StatusCode,
				"body", string(body),
				"attempt", attempt,
				"command", r.command,
			)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("backend request error", "status", resp.StatusCode, "body", string(body))
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return body, nil
	}

	if r.retry {
		c.logger.Error("backend request failed after retries", "error", lastErr, "command", r.command)
	}
	return nil, lastErr
}

// invoke runs a command and decodes its envelope.
func invoke[T any](ctx context.Context, c *Client, r request) (result.Result[T, domain.SError], error) {
	var res result.Result[T, domain.SError]

	body, err := c.doRequest(ctx, r)
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(body, &res); err != nil {
		c.logger.Error("failed to decode envelope", "command", r.command, "error", err)
		return res, fmt.Errorf("failed to decode %s response: %w", r.command, err)
	}
	return res, nil
}
