package database

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
)

// Module provides database components for fx dependency injection
var Module = fx.Module("database",
	fx.Provide(NewDBFx),
)

// NewDBFx opens the configured store with fx lifecycle management
func NewDBFx(
	lc fx.Lifecycle,
	cfg *config.DatabaseConfig,
	logger zerolog.Logger,
) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case config.DriverSQLite:
		db, err = NewSQLiteDB(cfg.Path)
		if err != nil {
			return nil, err
		}
		logger.Info().
			Str("path", cfg.Path).
			Msg("SQLite database opened")
	default:
		db, err = NewPostgresDB(cfg)
		if err != nil {
			return nil, err
		}
		if err := RunMigrations(db, cfg); err != nil {
			return nil, err
		}
		logger.Info().
			Str("host", cfg.Host).
			Str("port", cfg.Port).
			Str("database", cfg.DBName).
			Msg("Database connected and migrations completed")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("Closing database connection")
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}
