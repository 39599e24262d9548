package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	digestentities "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/digest/entities"
	feedentities "github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/entities"
)

// Models lists every persisted entity, in dependency order
func Models() []any {
	return []any{
		&feedentities.Feed{},
		&feedentities.FeedItem{},
		&digestentities.User{},
		&digestentities.Subscription{},
		&digestentities.EmailConfig{},
		&digestentities.Setting{},
	}
}

// NewSQLiteDB opens a SQLite database at path and creates the schema.
// SQLite allows one writer, so the pool is capped at a single connection.
func NewSQLiteDB(path string) (*gorm.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_busy_timeout=5000&_foreign_keys=on"
		if !strings.Contains(path, "mode=memory") && path != ":memory:" {
			dsn += "&_journal_mode=WAL"
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the schema from the entity definitions
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}
