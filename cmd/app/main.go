package main

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.uber.org/fx"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/app"
)

func main() {
	var opts config.Options
	pflag.StringVar(&opts.EnvFile, "env-file", "", "path to a .env file to load before reading the environment")
	pflag.StringVar(&opts.LogLevel, "log-level", "", "log level override (debug, info, warn, error)")
	pflag.Parse()

	fx.New(
		app.CreateApp(opts),
		fx.Invoke(run),
	).Run()
}

func run(
	lc fx.Lifecycle,
	cfg *config.Config,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info().
				Str("port", cfg.Service.Port).
				Str("database_driver", cfg.Database.Driver).
				Dur("poll_interval", cfg.Poller.Interval).
				Bool("email_enabled", cfg.Email.EmailEnabled()).
				Bool("kafka_enabled", len(cfg.Kafka.Brokers) > 0).
				Msg("Starting feed service")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Feed service stopped")
			return nil
		},
	})
}
