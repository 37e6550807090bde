package backend

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"github.com/modkeeper/modkeeper/internal/domain"
)

const (
	progressDialTimeout  = 3 * time.Second
	progressDrainTimeout = 250 * time.Millisecond
)

// progressURL maps http(s)://host to ws(s)://host/tasks/{id}/events.
func (c *Client) progressURL(taskID string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid backend url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = fmt.Sprintf("%s/tasks/%s/events", u.Path, url.PathEscape(taskID))
	return u.String(), nil
}

// watchProgress streams TaskStatus events to onProgress until the task
// reports done or the stream closes. stop gives buffered events a short
// drain window, then closes the stream. The channel is advisory: when it
// cannot be opened the command still runs without progress.
func (c *Client) watchProgress(ctx context.Context, taskID string, onProgress domain.ProgressFunc) (stop func()) {
	noop := func() {}

	wsURL, err := c.progressURL(taskID)
	if err != nil {
		c.logger.Warn("progress unavailable", "task", taskID, "error", err)
		return noop
	}
	cfg, err := websocket.NewConfig(wsURL, c.baseURL)
	if err != nil {
		c.logger.Warn("progress unavailable", "task", taskID, "error", err)
		return noop
	}

	dialCtx, cancel := context.WithTimeout(ctx, progressDialTimeout)
	conn, err := cfg.DialContext(dialCtx)
	cancel()
	if err != nil {
		c.logger.Debug("progress stream not available", "task", taskID, "error", err)
		return noop
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var status domain.TaskStatus
			if err := websocket.JSON.Receive(conn, &status); err != nil {
				return
			}
			if status.TaskID == "" {
				status.TaskID = taskID
			}
			onProgress(status)
			if status.Done {
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			select {
			case <-done:
			case <-time.After(progressDrainTimeout):
			}
			conn.Close()
			<-done
		})
	}
}
