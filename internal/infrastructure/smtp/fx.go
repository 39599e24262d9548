// Package smtp delivers email digests over per-user SMTP connections
package smtp

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/deps"
)

// Module provides the SMTP mailer for fx DI
var Module = fx.Module("smtp",
	fx.Provide(
		NewPoolFx,
		NewMailer,
		func(m *Mailer) deps.Mailer { return m },
	),
)

// NewPoolFx creates the connection pool and closes it on shutdown
func NewPoolFx(lc fx.Lifecycle, cfg *config.EmailConfig, logger zerolog.Logger) *Pool {
	pool := NewPool(cfg.DialTimeout)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Int("connections", pool.Len()).Msg("Closing SMTP connections")
			return pool.Close()
		},
	})

	return pool
}
