package config

import (
	"errors"
	"os"
	"strings"
	"time"
)

// Config holds all process settings, populated from environment variables.
// Dataset selection (input path, year bounds, top-N) comes from command-line
// flags instead; the environment carries only the ambient concerns that stay
// fixed across invocations.
type Config struct {
	LogLevel        string
	LogFormat       string
	MetricsAddr     string
	ShutdownTimeout time.Duration

	// Kafka anomaly publishing configuration.
	KafkaBrokers      []string
	KafkaAnomalyTopic string
	AnomalyPublish    bool
}

// Load reads configuration from environment variables, applying defaults
// where unset. Anomaly publishing follows the same flag convention as other
// optional collaborators: setting KAFKA_ANOMALY_TOPIC enables it, and
// ANOMALY_PUBLISH overrides in either direction.
func Load() (*Config, error) {
	shutdownTimeout, err := parseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	topic := os.Getenv("KAFKA_ANOMALY_TOPIC")
	publish := topic != ""
	if v := os.Getenv("ANOMALY_PUBLISH"); v != "" {
		publish = v == "true"
	}

	cfg := &Config{
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "text"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:      parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAnomalyTopic: topic,
		AnomalyPublish:    publish,
	}

	if cfg.AnomalyPublish && cfg.KafkaAnomalyTopic == "" {
		return nil, errors.New("ANOMALY_PUBLISH is true but KAFKA_ANOMALY_TOPIC is not set")
	}
	if cfg.AnomalyPublish && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("ANOMALY_PUBLISH is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

// envOrDefault returns the environment value for key, or fallback when the
// variable is unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func parseShutdownTimeout() (time.Duration, error) {
	s := envOrDefault("SHUTDOWN_TIMEOUT", "10s")
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	return d, nil
}
