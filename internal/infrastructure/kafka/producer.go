package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	digestdto "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/dto"
	feeddto "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/dto"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// producerMetrics is satisfied by metrics.Metrics
type producerMetrics interface {
	RecordKafkaMessage(topic string, duration float64)
	RecordKafkaError(topic string)
}

// Producer publishes feed and digest events as JSON.
// With no brokers configured every send is a no-op.
type Producer struct {
	writer         messageWriter
	itemsTopic     string
	deliveredTopic string
	timeout        time.Duration
	metrics        producerMetrics
	logger         zerolog.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg *config.KafkaConfig, metrics producerMetrics, logger zerolog.Logger) *Producer {
	p := &Producer{
		itemsTopic:     cfg.ItemsTopic,
		deliveredTopic: cfg.DeliveredTopic,
		timeout:        cfg.WriteTimeout,
		metrics:        metrics,
		logger:         logger,
	}

	if len(cfg.Brokers) == 0 {
		logger.Info().Msg("KAFKA_BROKERS not set, event publishing disabled")
		return p
	}

	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info().
		Strs("brokers", cfg.Brokers).
		Str("items_topic", cfg.ItemsTopic).
		Str("delivered_topic", cfg.DeliveredTopic).
		Msg("Kafka producer initialized")

	return p
}

// Enabled reports whether events are actually published
func (p *Producer) Enabled() bool {
	return p.writer != nil
}

// SendItemsIngested announces newly stored items, keyed by feed
func (p *Producer) SendItemsIngested(ctx context.Context, event feeddto.ItemsIngestedEvent) error {
	return p.send(ctx, p.itemsTopic, fmt.Sprintf("feed-%d", event.FeedID), event)
}

// SendDigestDelivered announces a delivered digest, keyed by subscription
func (p *Producer) SendDigestDelivered(ctx context.Context, event digestdto.DigestDeliveredEvent) error {
	return p.send(ctx, p.deliveredTopic, fmt.Sprintf("subscription-%d", event.SubscriptionID), event)
}

func (p *Producer) send(ctx context.Context, topic, key string, payload any) error {
	if p.writer == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
	})
	if err != nil {
		p.metrics.RecordKafkaError(topic)
		p.logger.Error().Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to send message")
		return fmt.Errorf("failed to send message: %w", err)
	}
	p.metrics.RecordKafkaMessage(topic, time.Since(start).Seconds())

	p.logger.Debug().
		Str("topic", topic).
		Str("key", key).
		Msg("Message sent")

	return nil
}

// Close flushes pending messages and closes the writer
func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	p.logger.Info().Msg("Kafka producer closed")
	return nil
}
