package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lapse/internal/config"
	"lapse/internal/status"
)

const userAgent = "Lapse-Go/0.1.0"

// Service defines the notification surface exposed to the controller.
type Service interface {
	NotifySessionStarted(ctx context.Context, sessionID string, total int) error
	NotifySessionFinished(ctx context.Context, sessionID string, rec status.Record) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifySessionStarted(ctx context.Context, sessionID string, total int) error {
	data := payload{
		title:   "Lapse - Session Started",
		message: fmt.Sprintf("Capturing %d frames (%s)", total, sessionID),
		tags:    []string{"lapse", "session", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifySessionFinished(ctx context.Context, sessionID string, rec status.Record) error {
	data := payload{
		tags: []string{"lapse", "session", string(rec.Status)},
	}
	switch rec.Status {
	case status.StateDone:
		data.title = "Lapse - Complete"
		data.message = fmt.Sprintf("Captured %d/%d frames (%s)", rec.Captured, rec.Total, sessionID)
		if rec.Video != "" {
			data.message = fmt.Sprintf("%s\nVideo: %s", data.message, rec.Video)
		}
	case status.StateStopped:
		data.title = "Lapse - Stopped"
		data.message = fmt.Sprintf("Stopped after %d/%d frames (%s)", rec.Captured, rec.Total, sessionID)
		if rec.Video != "" {
			data.message = fmt.Sprintf("%s\nVideo: %s", data.message, rec.Video)
		}
	case status.StateError:
		data.title = "Lapse - Error"
		data.message = fmt.Sprintf("Session %s failed: %s", sessionID, rec.ErrorMessage())
		data.priority = "high"
	default:
		return nil
	}
	if msg := rec.ErrorMessage(); msg != "" && rec.Status != status.StateError {
		data.message = fmt.Sprintf("%s\nWarning: %s", data.message, msg)
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Noop returns a notifier that silently discards every event.
func Noop() Service { return noopService{} }

type noopService struct{}

func (noopService) NotifySessionStarted(context.Context, string, int) error { return nil }

func (noopService) NotifySessionFinished(context.Context, string, status.Record) error { return nil }
