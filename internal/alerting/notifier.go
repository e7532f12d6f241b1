package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"luxrelay/internal/config"
	"luxrelay/internal/metrics"
	"luxrelay/internal/models"
)

// Sender delivers alert messages to an external provider.
type Sender interface {
	Send(ctx context.Context, msg models.AlertMessage) error
}

// Notifier posts alert messages to a WhatsApp-style messaging API.
// Delivery is fire-and-forget: callers log failures and move on.
type Notifier struct {
	url    string
	token  string
	client *http.Client
}

// notifyPayload is the provider's wire format.
type notifyPayload struct {
	Token   string `json:"token"`
	To      string `json:"to"`
	Message string `json:"message"`
}

// NewNotifier creates a notifier for the configured provider endpoint.
// The client timeout bounds a call the upstream behavior left unbounded.
func NewNotifier(cfg config.NotifierConfig) *Notifier {
	return &Notifier{
		url:   cfg.URL,
		token: cfg.Token,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send posts one message to the provider. Non-2xx responses are errors.
func (n *Notifier) Send(ctx context.Context, msg models.AlertMessage) error {
	start := time.Now()

	body, err := json.Marshal(notifyPayload{
		Token:   n.token,
		To:      msg.To,
		Message: msg.Body,
	})
	if err != nil {
		metrics.AlertsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("serialize notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		metrics.AlertsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		metrics.AlertsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	metrics.NotifyDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.AlertsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("notification provider returned %s", resp.Status)
	}

	metrics.AlertsTotal.WithLabelValues("sent").Inc()
	return nil
}
