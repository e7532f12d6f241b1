package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"luxrelay/internal/alerting"
	"luxrelay/internal/config"
	"luxrelay/internal/handlers"
	"luxrelay/internal/logger"
	"luxrelay/internal/middleware"
	"luxrelay/internal/models"
	"luxrelay/internal/statesource"
)

// Relay is the process-wide coordinator: it owns the state source, the
// notifier, and the HTTP server, and is injected into handlers instead
// of living in package globals.
type Relay struct {
	cfg        *config.Config
	source     statesource.Source
	notifier   *alerting.Notifier
	httpServer *http.Server
	wg         sync.WaitGroup
}

// New constructs a Relay with the given config.
func New(cfg *config.Config) *Relay {
	return &Relay{cfg: cfg}
}

// Run starts the state source and HTTP server and blocks until the
// context is cancelled.
func (rl *Relay) Run(ctx context.Context) error {
	log := logger.WithComponent("relay")
	log.Info().Str("strategy", string(rl.cfg.StateSource)).Msg("relay starting")

	rl.notifier = alerting.NewNotifier(rl.cfg.Notifier)

	var hook statesource.ChangeHook
	if rl.cfg.NotifyStateChanges {
		hook = rl.notifyStateChange
	}

	source, err := statesource.New(rl.cfg, hook)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize state source")
		return fmt.Errorf("initialize state source: %w", err)
	}
	rl.source = source

	rl.initHTTPServer()

	rl.wg.Add(1)
	go func() {
		defer rl.wg.Done()
		log.Info().Str("addr", rl.cfg.ListenAddr).Msg("starting HTTP server")
		if err := rl.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	return rl.shutdown()
}

// initHTTPServer wires routes through the middleware chain.
func (rl *Relay) initHTTPServer() {
	mux := http.NewServeMux()

	webhook := middleware.Chain(
		handlers.NewWebhookHandler(handlers.WebhookConfig{
			Source:      rl.source,
			Notifier:    rl.notifier,
			Threshold:   rl.cfg.LumenThreshold,
			Destination: rl.cfg.Notifier.Phone,
		}),
		middleware.Recovery,
		middleware.Logging,
	)
	mux.Handle("/webhook", webhook)
	mux.Handle("/webhook/luminosity", webhook)

	mux.Handle("/", middleware.Chain(
		http.HandlerFunc(handlers.Home),
		middleware.Recovery,
		middleware.Logging,
	))

	mux.HandleFunc("/healthz", rl.healthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	rl.httpServer = &http.Server{
		Addr:    rl.cfg.ListenAddr,
		Handler: mux,
		// The webhook path makes two sequential outbound calls, each
		// bounded at 10s, before writing its response.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// notifyStateChange forwards broker maintenance updates to the
// messaging provider, matching the listener's original behavior.
func (rl *Relay) notifyStateChange(maintained bool) {
	log := logger.WithComponent("relay")

	body := "Maintenance status updated: maintenance has not been performed recently."
	if maintained {
		body = "Maintenance status updated: maintenance has been performed recently."
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := models.AlertMessage{To: rl.cfg.Notifier.Phone, Body: body}
	if err := rl.notifier.Send(ctx, msg); err != nil {
		log.Error().Err(err).Msg("state change notification failed")
	}
}

// shutdown drains the HTTP server and closes the state source.
func (rl *Relay) shutdown() error {
	log := logger.WithComponent("relay")
	log.Info().Msg("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := rl.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if err := rl.source.Close(); err != nil {
		log.Error().Err(err).Msg("state source close error")
	}

	rl.wg.Wait()
	log.Info().Msg("relay stopped gracefully")
	return nil
}

// healthHandler answers liveness probes.
func (rl *Relay) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}
