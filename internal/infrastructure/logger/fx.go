// Package logger contains logger infrastructure
package logger

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
)

// Module provides logger for fx dependency injection
var Module = fx.Module("logger",
	fx.Provide(provideLogger),
)

func provideLogger(cfg *config.LoggingConfig, svc *config.ServiceConfig) zerolog.Logger {
	return New(cfg.Level).With().Str("service", svc.Name).Logger()
}
