package statesource

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/segmentio/kafka-go"

	"luxrelay/internal/config"
	"luxrelay/internal/logger"
	"luxrelay/internal/metrics"
)

// KafkaSource caches the last maintenance flag consumed from a Kafka
// topic. Same cache semantics as the MQTT source, different broker.
type KafkaSource struct {
	reader *kafka.Reader
	hook   ChangeHook
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// single writer (the listener goroutine), multiple readers
	maintained atomic.Bool
}

// NewKafkaSource starts the background listener. Until the first
// message arrives the flag defaults to "maintenance performed".
func NewKafkaSource(cfg config.KafkaConfig, hook ChangeHook) *KafkaSource {
	s := &KafkaSource{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  cfg.Brokers,
			GroupID:  cfg.GroupID,
			Topic:    cfg.Topic,
			MinBytes: 1,
			MaxBytes: 1 << 20,
		}),
		hook: hook,
	}
	s.maintained.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go s.listen(ctx)

	return s
}

// listen consumes maintenance messages until the source is closed.
// Read errors keep the last cached value and retry with backoff.
func (s *KafkaSource) listen(ctx context.Context) {
	defer s.wg.Done()

	log := logger.WithComponent("kafka_source")
	log.Info().Str("topic", s.reader.Config().Topic).Msg("listener started")

	backoff := time.Second

	for {
		msg, err := s.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				log.Info().Msg("listener stopped")
				return
			}

			log.Warn().Err(err).Dur("backoff", backoff).Msg("read failed, retrying")
			select {
			case <-time.After(backoff):
				if backoff < 30*time.Second {
					backoff *= 2
				}
			case <-ctx.Done():
				return
			}
			continue
		}
		backoff = time.Second

		payload := string(msg.Value)
		maintained := maintenancePayload(payload)

		s.maintained.Store(maintained)
		metrics.StateCacheUpdates.WithLabelValues("kafka").Inc()

		log.Info().
			Str("payload", payload).
			Bool("maintained", maintained).
			Msg("maintenance state updated")

		if s.hook != nil {
			s.hook(maintained)
		}
	}
}

// Current returns the last cached flag. A concurrent update may race a
// read; the stale value is accepted.
func (s *KafkaSource) Current(ctx context.Context) bool {
	metrics.StateLookupsTotal.WithLabelValues("kafka", "ok").Inc()
	return s.maintained.Load()
}

// Close stops the listener and closes the reader.
func (s *KafkaSource) Close() error {
	s.cancel()
	err := s.reader.Close()
	s.wg.Wait()
	return err
}
