package metrics

import (
	"go.uber.org/fx"

	digestdeps "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/deps"
	feeddeps "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/deps"
)

// Module provides metrics for fx DI
var Module = fx.Module("metrics",
	fx.Provide(
		GetDefaultMetrics,
		func(m *Metrics) feeddeps.Metrics { return m },
		func(m *Metrics) digestdeps.Metrics { return m },
	),
)
