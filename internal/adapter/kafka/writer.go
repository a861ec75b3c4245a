package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/frankjungdss/repdata-project2/internal/config"
	"github.com/frankjungdss/repdata-project2/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes magnitude anomalies to a Kafka topic so data-quality
// tooling can consume them independently of the rendered report.
// It implements pipeline.AnomalySink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured anomaly topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaAnomalyTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishAnomalies serializes and publishes a run's anomalies in a single
// WriteMessages call for efficiency.
func (w *Writer) PublishAnomalies(ctx context.Context, anomalies []domain.MagnitudeAnomaly) error {
	if len(anomalies) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(anomalies))
	for i := range anomalies {
		msg, err := serializeAnomaly(anomalies[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	w.logger.Debug("publishing anomalies", "count", len(msgs), "topic", w.writer.Topic)
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeAnomaly marshals a MagnitudeAnomaly into a Kafka message keyed by
// source line number, so republishing the same file overwrites rather than
// fans out across partitions.
func serializeAnomaly(anomaly domain.MagnitudeAnomaly) (kafkago.Message, error) {
	data, err := json.Marshal(anomaly)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize magnitude anomaly: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(anomaly.Line)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "field", Value: []byte(anomaly.Field)},
			{Key: "observed_at", Value: []byte(anomaly.ObservedAt.Format(time.RFC3339))},
		},
	}, nil
}
