package statesource

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"luxrelay/internal/config"
	"luxrelay/internal/logger"
	"luxrelay/internal/metrics"
)

// MQTTSource caches the last maintenance flag published to the
// account's maintenance topic. The broker subscription lives for the
// whole process; lookups only read the cached cell.
type MQTTSource struct {
	client mqtt.Client
	topic  string
	hook   ChangeHook

	// single writer (the broker callback), multiple readers
	maintained atomic.Bool
}

// NewMQTTSource connects to the broker and subscribes to the
// maintenance topic. Until the first message arrives the flag defaults
// to "maintenance performed".
func NewMQTTSource(cfg config.MQTTConfig, hook ChangeHook) (*MQTTSource, error) {
	s := &MQTTSource{
		topic: cfg.Topic(),
		hook:  hook,
	}
	s.maintained.Store(true)

	log := logger.WithComponent("mqtt_source")

	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port)).
		SetUsername(cfg.Username).
		SetPassword(cfg.Key).
		SetClientID("luxrelay-" + uuid.New().String()[:8]).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(true)

	// Resubscribe on every (re)connect so reconnects keep the cache live.
	opts.OnConnect = func(c mqtt.Client) {
		log.Info().Str("topic", s.topic).Msg("connected, subscribing")
		if token := c.Subscribe(s.topic, 1, s.onMessage); token.Wait() && token.Error() != nil {
			log.Error().Err(token.Error()).Str("topic", s.topic).Msg("subscribe failed")
		}
	}
	opts.OnConnectionLost = func(c mqtt.Client, err error) {
		log.Warn().Err(err).Msg("broker connection lost")
	}

	s.client = mqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker: %w", token.Error())
	}

	return s, nil
}

// onMessage stores the new flag and fires the change hook.
func (s *MQTTSource) onMessage(_ mqtt.Client, msg mqtt.Message) {
	payload := string(msg.Payload())
	maintained := maintenancePayload(payload)

	s.maintained.Store(maintained)
	metrics.StateCacheUpdates.WithLabelValues("mqtt").Inc()

	log := logger.WithComponent("mqtt_source")
	log.Info().
		Str("topic", msg.Topic()).
		Str("payload", payload).
		Bool("maintained", maintained).
		Msg("maintenance state updated")

	if s.hook != nil {
		s.hook(maintained)
	}
}

// Current returns the last cached flag. A concurrent update may race a
// read; the stale value is accepted.
func (s *MQTTSource) Current(ctx context.Context) bool {
	metrics.StateLookupsTotal.WithLabelValues("mqtt", "ok").Inc()
	return s.maintained.Load()
}

// Close disconnects from the broker.
func (s *MQTTSource) Close() error {
	s.client.Disconnect(250)
	return nil
}
