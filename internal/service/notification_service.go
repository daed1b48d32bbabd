package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	config "github.com/cuneytcagriyilmaz/postdesk/configs"
	"github.com/cuneytcagriyilmaz/postdesk/internal/transfer"
)

// NotificationSink delivers deadline notifications to the external webhook.
// Delivery is fire-and-forget: callers log the returned error and move on.
type NotificationSink interface {
	Emit(ctx context.Context, n *transfer.DeadlineNotification) error
}

type webhookSink struct {
	webhookURL string
	client     *http.Client
}

func NewWebhookSink(cfg config.Config) NotificationSink {
	return &webhookSink{
		webhookURL: cfg.NotificationWebhookURL,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *webhookSink) Emit(ctx context.Context, n *transfer.DeadlineNotification) error {
	if s.webhookURL == "" {
		slog.Info("no notification webhook configured, dropping notification",
			"deadline_id", n.DeadlineID, "severity", n.Severity)
		return nil
	}

	body, err := json.Marshal(n)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: notification webhook returned %d", ErrServiceUnavailable, resp.StatusCode)
	}

	return nil
}
