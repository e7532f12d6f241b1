package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Strategy selects how the maintenance state is retrieved.
type Strategy string

const (
	// StrategyFeed polls the remote data feed over HTTP on every lookup.
	StrategyFeed Strategy = "feed"
	// StrategyMQTT caches the last value seen on an MQTT maintenance topic.
	StrategyMQTT Strategy = "mqtt"
	// StrategyKafka caches the last value seen on a Kafka maintenance topic.
	StrategyKafka Strategy = "kafka"
)

// Config holds runtime configuration for the relay.
type Config struct {
	ListenAddr         string
	LogLevel           string
	LumenThreshold     float64
	StateSource        Strategy
	NotifyStateChanges bool

	MQTT     MQTTConfig
	Kafka    KafkaConfig
	Feed     FeedConfig
	Notifier NotifierConfig
}

// MQTTConfig configures the MQTT push-cache state source.
type MQTTConfig struct {
	Broker   string
	Port     int
	Username string
	Key      string
}

// Topic returns the maintenance feed topic for the configured account.
func (c MQTTConfig) Topic() string {
	return c.Username + "/feeds/maintenance"
}

// KafkaConfig configures the Kafka push-cache state source.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	GroupID string
}

// FeedConfig configures the HTTP pull state source.
type FeedConfig struct {
	URL    string
	APIKey string
}

// NotifierConfig configures the outbound messaging provider.
type NotifierConfig struct {
	URL   string
	Token string
	Phone string
}

var ErrMissingSetting = errors.New("missing required configuration")

// splitBrokers parses a CSV broker list, dropping empty entries.
func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("RELAY_LISTEN_ADDR", ":8080")
	v.SetDefault("RELAY_LOG_LEVEL", "info")
	v.SetDefault("RELAY_LUMEN_THRESHOLD", 100.0)
	v.SetDefault("RELAY_STATE_SOURCE", string(StrategyMQTT))
	v.SetDefault("RELAY_NOTIFY_STATE_CHANGES", false)
	v.SetDefault("MQTT_PORT", 1883)
	v.SetDefault("KAFKA_TOPIC", "maintenance")
	v.SetDefault("KAFKA_GROUP_ID", "luxrelay")

	cfg := &Config{
		ListenAddr:         v.GetString("RELAY_LISTEN_ADDR"),
		LogLevel:           v.GetString("RELAY_LOG_LEVEL"),
		LumenThreshold:     v.GetFloat64("RELAY_LUMEN_THRESHOLD"),
		StateSource:        Strategy(v.GetString("RELAY_STATE_SOURCE")),
		NotifyStateChanges: v.GetBool("RELAY_NOTIFY_STATE_CHANGES"),
		MQTT: MQTTConfig{
			Broker:   v.GetString("MQTT_BROKER"),
			Port:     v.GetInt("MQTT_PORT"),
			Username: v.GetString("MQTT_USERNAME"),
			Key:      v.GetString("MQTT_KEY"),
		},
		Kafka: KafkaConfig{
			Brokers: splitBrokers(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
			GroupID: v.GetString("KAFKA_GROUP_ID"),
		},
		Feed: FeedConfig{
			URL:    v.GetString("FEED_URL"),
			APIKey: v.GetString("FEED_API_KEY"),
		},
		Notifier: NotifierConfig{
			URL:   v.GetString("NOTIFIER_URL"),
			Token: v.GetString("NOTIFIER_TOKEN"),
			Phone: v.GetString("NOTIFIER_PHONE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings required by the active strategy.
func (c *Config) Validate() error {
	required := map[string]string{
		"NOTIFIER_URL":   c.Notifier.URL,
		"NOTIFIER_TOKEN": c.Notifier.Token,
		"NOTIFIER_PHONE": c.Notifier.Phone,
	}

	switch c.StateSource {
	case StrategyFeed:
		required["FEED_URL"] = c.Feed.URL
		required["FEED_API_KEY"] = c.Feed.APIKey
	case StrategyMQTT:
		required["MQTT_BROKER"] = c.MQTT.Broker
		required["MQTT_USERNAME"] = c.MQTT.Username
		required["MQTT_KEY"] = c.MQTT.Key
	case StrategyKafka:
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("%w: KAFKA_BROKERS", ErrMissingSetting)
		}
		required["KAFKA_TOPIC"] = c.Kafka.Topic
	default:
		return fmt.Errorf("unknown state source strategy %q (want feed, mqtt, or kafka)", c.StateSource)
	}

	for key, value := range required {
		if value == "" {
			return fmt.Errorf("%w: %s", ErrMissingSetting, key)
		}
	}

	if c.LumenThreshold <= 0 {
		return fmt.Errorf("lumen threshold must be positive, got %v", c.LumenThreshold)
	}

	return nil
}
