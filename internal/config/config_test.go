package config_test

import (
	"errors"
	"testing"

	"luxrelay/internal/config"
)

func setNotifierEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NOTIFIER_URL", "https://notify.example.com/send")
	t.Setenv("NOTIFIER_TOKEN", "tok")
	t.Setenv("NOTIFIER_PHONE", "+33600000000")
}

func TestLoad_FeedStrategy(t *testing.T) {
	setNotifierEnv(t)
	t.Setenv("RELAY_STATE_SOURCE", "feed")
	t.Setenv("FEED_URL", "https://io.example.com/feeds/maintenance/data")
	t.Setenv("FEED_API_KEY", "aio")
	t.Setenv("RELAY_LUMEN_THRESHOLD", "10")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StateSource != config.StrategyFeed {
		t.Errorf("wrong strategy: %v", cfg.StateSource)
	}
	if cfg.LumenThreshold != 10 {
		t.Errorf("wrong threshold: %v", cfg.LumenThreshold)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("wrong default listen addr: %v", cfg.ListenAddr)
	}
}

func TestLoad_MQTTStrategy(t *testing.T) {
	setNotifierEnv(t)
	t.Setenv("RELAY_STATE_SOURCE", "mqtt")
	t.Setenv("MQTT_BROKER", "io.example.com")
	t.Setenv("MQTT_USERNAME", "acme")
	t.Setenv("MQTT_KEY", "secret")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MQTT.Port != 1883 {
		t.Errorf("wrong default port: %d", cfg.MQTT.Port)
	}
	if got := cfg.MQTT.Topic(); got != "acme/feeds/maintenance" {
		t.Errorf("wrong topic: %q", got)
	}
}

func TestLoad_KafkaBrokerList(t *testing.T) {
	setNotifierEnv(t)
	t.Setenv("RELAY_STATE_SOURCE", "kafka")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "broker2:9092" {
		t.Errorf("broker list not parsed: %+v", cfg.Kafka.Brokers)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("RELAY_STATE_SOURCE", "feed")
	t.Setenv("FEED_URL", "https://io.example.com/feed")
	t.Setenv("FEED_API_KEY", "aio")
	// notifier settings left unset

	_, err := config.Load()
	if !errors.Is(err, config.ErrMissingSetting) {
		t.Fatalf("expected ErrMissingSetting, got %v", err)
	}
}

func TestLoad_MissingStrategySetting(t *testing.T) {
	setNotifierEnv(t)
	t.Setenv("RELAY_STATE_SOURCE", "mqtt")
	// broker/credentials left unset

	_, err := config.Load()
	if !errors.Is(err, config.ErrMissingSetting) {
		t.Fatalf("expected ErrMissingSetting, got %v", err)
	}
}

func TestLoad_UnknownStrategy(t *testing.T) {
	setNotifierEnv(t)
	t.Setenv("RELAY_STATE_SOURCE", "carrier-pigeon")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}
