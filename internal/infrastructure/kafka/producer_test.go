package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	digestdto "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
	feeddto "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/dto"
)

type mockWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
	deadline bool
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, m.deadline = ctx.Deadline()
	if m.err != nil {
		return m.err
	}
	m.messages = append(m.messages, msgs...)
	return nil
}

func (m *mockWriter) Close() error {
	m.closed = true
	return nil
}

type mockMetrics struct {
	produced map[string]int
	failed   map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{produced: map[string]int{}, failed: map[string]int{}}
}

func (m *mockMetrics) RecordKafkaMessage(topic string, _ float64) { m.produced[topic]++ }
func (m *mockMetrics) RecordKafkaError(topic string)              { m.failed[topic]++ }

func newTestProducer(w messageWriter, m producerMetrics) *Producer {
	return &Producer{
		writer:         w,
		itemsTopic:     "items",
		deliveredTopic: "delivered",
		timeout:        time.Second,
		metrics:        m,
		logger:         zerolog.Nop(),
	}
}

func TestNewProducer_NoBrokersIsNoop(t *testing.T) {
	p := NewProducer(&config.KafkaConfig{ItemsTopic: "items"}, newMockMetrics(), zerolog.Nop())
	require.False(t, p.Enabled())

	require.NoError(t, p.SendItemsIngested(context.Background(), feeddto.ItemsIngestedEvent{FeedID: 1}))
	require.NoError(t, p.SendDigestDelivered(context.Background(), digestdto.DigestDeliveredEvent{SubscriptionID: 1}))
	require.NoError(t, p.Close())
}

func TestProducer_SendItemsIngested(t *testing.T) {
	w := &mockWriter{}
	m := newMockMetrics()
	p := newTestProducer(w, m)

	err := p.SendItemsIngested(context.Background(), feeddto.ItemsIngestedEvent{
		FeedID:    7,
		FeedURL:   "https://example.com/feed",
		Inserted:  3,
		Timestamp: 1700000000,
	})
	require.NoError(t, err)
	require.Len(t, w.messages, 1)
	require.True(t, w.deadline)

	msg := w.messages[0]
	require.Equal(t, "items", msg.Topic)
	require.Equal(t, "feed-7", string(msg.Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	require.EqualValues(t, 7, got["feed_id"])
	require.EqualValues(t, 3, got["inserted"])
	require.Equal(t, 1, m.produced["items"])
}

func TestProducer_SendDigestDelivered(t *testing.T) {
	w := &mockWriter{}
	p := newTestProducer(w, newMockMetrics())

	require.NoError(t, p.SendDigestDelivered(context.Background(), digestdto.DigestDeliveredEvent{
		SubscriptionID: 12,
		Channel:        "telegram",
		Items:          4,
	}))
	require.Len(t, w.messages, 1)
	require.Equal(t, "delivered", w.messages[0].Topic)
	require.Equal(t, "subscription-12", string(w.messages[0].Key))
}

func TestProducer_WriteError(t *testing.T) {
	w := &mockWriter{err: errors.New("broker down")}
	m := newMockMetrics()
	p := newTestProducer(w, m)

	err := p.SendItemsIngested(context.Background(), feeddto.ItemsIngestedEvent{FeedID: 1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "broker down")
	require.Equal(t, 1, m.failed["items"])
	require.Zero(t, m.produced["items"])
}

func TestProducer_Close(t *testing.T) {
	w := &mockWriter{}
	p := newTestProducer(w, newMockMetrics())

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}
