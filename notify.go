// FILE: notify.go
// Package main – ntfy.sh notification client.
//
// ntfy is plain HTTP pub-sub: POST the message body to server/topic with
// Title/Priority/Tags headers. Failures surface as NotificationError; the
// engine logs them and moves on; a dead notification channel must never
// fail a trading run.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NotificationError reports a failed notification delivery.
type NotificationError struct {
	Detail string
}

func (e *NotificationError) Error() string {
	return "notification failed: " + e.Detail
}

// NtfyNotifier sends severity-tagged messages to one ntfy topic.
type NtfyNotifier struct {
	http     *http.Client
	url      string
	priority string
	log      zerolog.Logger
}

// NewNtfyNotifier builds a notifier; the topic is mandatory.
func NewNtfyNotifier(cfg NtfyConfig, log zerolog.Logger) (*NtfyNotifier, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("ntfy topic is required")
	}
	n := &NtfyNotifier{
		http:     &http.Client{Timeout: 10 * time.Second},
		url:      strings.TrimRight(cfg.Server, "/") + "/" + cfg.Topic,
		priority: cfg.Priority,
		log:      log,
	}
	log.Info().Str("topic", cfg.Topic).Msg("ntfy notifier initialized")
	return n, nil
}

// Send posts one message. priority overrides the configured default when
// non-empty; tags become ntfy emoji tags.
func (n *NtfyNotifier) Send(ctx context.Context, message, title, priority string, tags []string) error {
	n.log.Info().Str("title", title).Msg("sending notification")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return &NotificationError{Detail: err.Error()}
	}
	if title != "" {
		req.Header.Set("Title", title)
	}
	if priority == "" {
		priority = n.priority
	}
	if priority != "" {
		req.Header.Set("Priority", priority)
	}
	if len(tags) > 0 {
		req.Header.Set("Tags", strings.Join(tags, ","))
	}

	resp, err := n.http.Do(req)
	if err != nil {
		return &NotificationError{Detail: err.Error()}
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &NotificationError{Detail: fmt.Sprintf("ntfy status %s", resp.Status)}
	}

	n.log.Info().Msg("notification sent")
	return nil
}

// SendSuccess delivers a success message at default priority.
func (n *NtfyNotifier) SendSuccess(ctx context.Context, message, title string) error {
	return n.Send(ctx, message, title, "default", []string{"white_check_mark"})
}

// SendError delivers an error message at high priority.
func (n *NtfyNotifier) SendError(ctx context.Context, message, title string) error {
	return n.Send(ctx, message, title, "high", []string{"x", "warning"})
}

// SendInfo delivers an informational message at default priority.
func (n *NtfyNotifier) SendInfo(ctx context.Context, message, title string) error {
	return n.Send(ctx, message, title, "default", []string{"information_source"})
}
