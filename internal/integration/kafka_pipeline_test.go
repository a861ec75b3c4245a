//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/frankjungdss/repdata-project2/internal/adapter/kafka"
	"github.com/frankjungdss/repdata-project2/internal/config"
	"github.com/frankjungdss/repdata-project2/internal/domain"
	"github.com/frankjungdss/repdata-project2/internal/observability"
	"github.com/frankjungdss/repdata-project2/internal/pipeline"
)

const testAnomalyTopic = "test-magnitude-anomalies"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-node Kafka container and returns its broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err, "resolve kafka brokers")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	ctrl, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer ctrl.Close()

	require.NoError(t, ctrl.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// anomalyMessage holds a deserialized message read from the anomaly topic.
type anomalyMessage struct {
	Anomaly domain.MagnitudeAnomaly
	Key     string
	Headers map[string]string
}

func readAnomaly(ctx context.Context, t *testing.T, consumer *kafkago.Reader) anomalyMessage {
	t.Helper()
	readCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from anomaly topic")

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	var anomaly domain.MagnitudeAnomaly
	require.NoError(t, json.Unmarshal(msg.Value, &anomaly), "unmarshal anomaly message")

	return anomalyMessage{Anomaly: anomaly, Key: string(msg.Key), Headers: headers}
}

func newConsumer(t *testing.T, broker string) *kafkago.Reader {
	t.Helper()
	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAnomalyTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })
	return consumer
}

// TestAnomalyWriter verifies the adapter layer: kafka.Writer publishes
// magnitude anomalies with the expected key, headers, and JSON body.
func TestAnomalyWriter(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAnomalyTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaAnomalyTopic: testAnomalyTopic,
	}

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	observed := time.Date(2011, time.November, 27, 8, 30, 0, 0, time.UTC)
	anomaly := domain.MagnitudeAnomaly{
		Line:       1234,
		Category:   "FLOOD",
		Field:      domain.FieldPropertyDamage,
		Code:       "+",
		Amount:     10,
		ObservedAt: observed,
	}
	require.NoError(t, writer.PublishAnomalies(ctx, []domain.MagnitudeAnomaly{anomaly}))

	am := readAnomaly(ctx, t, newConsumer(t, broker))
	assert.Equal(t, "1234", am.Key)
	assert.Equal(t, "property", am.Headers["field"])
	assert.Equal(t, observed.Format(time.RFC3339), am.Headers["observed_at"])
	assert.Equal(t, anomaly, am.Anomaly)
}

// rowSource feeds a fixed set of raw rows to the pipeline.
type rowSource struct {
	rows []domain.RawRow
	next int
}

func (s *rowSource) Next(_ context.Context) (domain.RawRow, error) {
	if s.next >= len(s.rows) {
		return domain.RawRow{}, io.EOF
	}
	row := s.rows[s.next]
	s.next++
	return row, nil
}

// TestPipelinePublishesAnomalies wires the pipeline with a real Kafka sink
// and verifies that a run's magnitude anomalies arrive on the topic.
func TestPipelinePublishesAnomalies(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAnomalyTopic)

	cfg := &config.Config{
		KafkaBrokers:      []string{broker},
		KafkaAnomalyTopic: testAnomalyTopic,
	}

	writer := kafkaadapter.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	source := &rowSource{rows: []domain.RawRow{
		{
			EventType: "TSTM WIND", BeginDate: "1/1/1999 0:00:00",
			Fatalities: "1", PropertyDamage: "5", PropertyMagnitude: "K",
			Line: 1,
		},
		{
			EventType: "FLOOD", BeginDate: "3/4/2005 0:00:00",
			Injuries: "2", PropertyDamage: "10", PropertyMagnitude: "+",
			Line: 2,
		},
	}}

	p := pipeline.New(source, writer, discardLogger(), observability.NewMetricsForTesting(), pipeline.Options{})
	result, err := p.Run(ctx)
	require.NoError(t, err)
	require.Len(t, result.Anomalies, 1)

	consumer := newConsumer(t, broker)
	am := readAnomaly(ctx, t, consumer)
	assert.Equal(t, "2", am.Key)
	assert.Equal(t, "FLOOD", am.Anomaly.Category)
	assert.Equal(t, "+", am.Anomaly.Code)
	assert.Equal(t, "property", am.Headers["field"])

	// Only the one anomalous row should appear on the topic.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no second message on anomaly topic")
}
