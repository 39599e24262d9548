package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	digestdeps "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/deps"
	feeddeps "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/deps"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/infrastructure/metrics"
)

var Module = fx.Module("kafka",
	fx.Provide(
		NewProducerFx,
		func(p *Producer) feeddeps.EventProducer { return p },
		func(p *Producer) digestdeps.EventProducer { return p },
	),
)

func NewProducerFx(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Producer {
	producer := NewProducer(cfg, m, logger.With().Str("component", "kafka-producer").Logger())

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer
}
