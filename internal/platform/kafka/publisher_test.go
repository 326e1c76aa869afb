package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type captureWriter struct {
	messages []kafka.Message
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	c.messages = append(c.messages, msgs...)
	return nil
}

func (c *captureWriter) Close() error { return nil }

func TestParseBrokers(t *testing.T) {
	require.Equal(t, []string{"a:9092", "b:9092"}, ParseBrokers(" a:9092, ,b:9092 "))
	require.Empty(t, ParseBrokers(""))
}

func TestNewPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewPublisher(nil, "topic")
	require.ErrorIs(t, err, ErrNoBrokers)
}

func TestPublisher_PublishInjectsTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	provider := sdktrace.NewTracerProvider()
	ctx, span := provider.Tracer("test").Start(context.Background(), "parent")
	defer span.End()

	writer := &captureWriter{}
	publisher := NewPublisherWithWriter(writer, "order-notifications")
	require.NoError(t, publisher.Publish(ctx, "42", map[string]string{"title": "Order Created"}))

	require.Len(t, writer.messages, 1)
	msg := writer.messages[0]
	require.Equal(t, "42", string(msg.Key))

	var body map[string]string
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	require.Equal(t, "Order Created", body["title"])

	carrier := NewMessageCarrier(&msg)
	require.Contains(t, carrier.Keys(), "traceparent")
	require.Contains(t, carrier.Get("traceparent"), span.SpanContext().TraceID().String())
}
