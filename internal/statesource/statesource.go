package statesource

import (
	"context"
	"fmt"

	"luxrelay/internal/config"
)

// Source reports the current maintenance flag. Implementations must
// never fail a lookup: on any downstream error they log and fall back
// to "no maintenance performed".
type Source interface {
	Current(ctx context.Context) bool
	Close() error
}

// ChangeHook is invoked by push-cache sources whenever a broker update
// arrives, after the cached flag has been stored.
type ChangeHook func(maintained bool)

// New builds the state source selected by configuration. Push sources
// start their background listener before returning.
func New(cfg *config.Config, hook ChangeHook) (Source, error) {
	switch cfg.StateSource {
	case config.StrategyFeed:
		return NewFeedSource(cfg.Feed), nil
	case config.StrategyMQTT:
		return NewMQTTSource(cfg.MQTT, hook)
	case config.StrategyKafka:
		return NewKafkaSource(cfg.Kafka, hook), nil
	default:
		return nil, fmt.Errorf("unknown state source strategy %q", cfg.StateSource)
	}
}

// maintenancePayload reports whether a broker payload means
// "maintenance performed". Anything but "on" means not performed.
func maintenancePayload(payload string) bool {
	return payload == "on"
}
