package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"luxrelay/internal/alerting"
	"luxrelay/internal/logger"
	"luxrelay/internal/metrics"
	"luxrelay/internal/models"
	"luxrelay/internal/statesource"
)

// WebhookHandler is the luminosity webhook entry point. It validates
// the payload, applies the lumen threshold, and orchestrates the state
// lookup, cause resolution, and notification.
type WebhookHandler struct {
	source      statesource.Source
	notifier    alerting.Sender
	threshold   float64
	destination string
	maxBodySize int64
}

// WebhookConfig holds configuration for the webhook handler.
type WebhookConfig struct {
	Source      statesource.Source
	Notifier    alerting.Sender
	Threshold   float64
	Destination string
	MaxBodySize int64
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(cfg WebhookConfig) *WebhookHandler {
	maxBodySize := cfg.MaxBodySize
	if maxBodySize == 0 {
		maxBodySize = 1 << 20 // 1MB default
	}

	return &WebhookHandler{
		source:      cfg.Source,
		notifier:    cfg.Notifier,
		threshold:   cfg.Threshold,
		destination: cfg.Destination,
		maxBodySize: maxBodySize,
	}
}

// webhookResponse is the JSON envelope for all webhook replies.
type webhookResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// ServeHTTP handles the webhook HTTP request.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeFailure(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "application/json" && contentType != "" {
		h.writeFailure(w, http.StatusUnsupportedMediaType, "content-type must be application/json")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeFailure(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	reading, err := models.ParseReading(body)
	if err != nil {
		metrics.ReadingsTotal.WithLabelValues("rejected").Inc()
		h.writeFailure(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.ReadingsTotal.WithLabelValues("accepted").Inc()

	lumens := reading.Lumens()
	if lumens < h.threshold {
		h.alert(r.Context(), lumens)
	}

	// Valid input is always accepted, even when the alert path failed.
	h.writeSuccess(w, map[string]float64{"value": lumens})
}

// alert runs the lookup -> cause -> notify chain. Failures are logged
// and swallowed so the webhook caller never sees them.
func (h *WebhookHandler) alert(ctx context.Context, lumens float64) {
	log := logger.WithComponent("webhook")
	metrics.ReadingsBelowThreshold.Inc()

	maintained := h.source.Current(ctx)
	cause := alerting.ResolveCause(maintained)

	msg := models.AlertMessage{
		To:   h.destination,
		Body: fmt.Sprintf("Luminosity dropped to %g lumens (threshold %g). Cause: %s.", lumens, h.threshold, cause),
	}

	log.Info().
		Float64("lumens", lumens).
		Float64("threshold", h.threshold).
		Bool("maintained", maintained).
		Str("cause", cause).
		Msg("luminosity below threshold, sending alert")

	if err := h.notifier.Send(ctx, msg); err != nil {
		log.Error().Err(err).Str("to", msg.To).Msg("alert delivery failed")
	}
}

func (h *WebhookHandler) writeSuccess(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(webhookResponse{
		Status: "success",
		Data:   data,
	})
}

func (h *WebhookHandler) writeFailure(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(webhookResponse{
		Status:  "failure",
		Message: message,
	})
}
