package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"luxrelay/internal/config"
	"luxrelay/internal/logger"
	"luxrelay/internal/relay"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Missing required configuration must stop the process before it
	// ever starts serving.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	logger.Init(cfg.LogLevel)

	rl := relay.New(cfg)

	go func() {
		if err := rl.Run(ctx); err != nil {
			logger.Logger.Error().Err(err).Msg("relay exited")
			cancel()
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		logger.Logger.Info().Msg("shutting down")
		cancel()
	case <-ctx.Done():
	}

	// give graceful shutdown some time
	time.Sleep(500 * time.Millisecond)
}
