package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSQLiteDB_CreatesSchema(t *testing.T) {
	db, err := NewSQLiteDB("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	for _, table := range []string{"feeds", "feed_items", "users", "subscriptions", "email_configs", "settings"} {
		require.True(t, db.Migrator().HasTable(table), table)
	}
	require.True(t, db.Migrator().HasIndex("feed_items", "idx_feed_items_identity"))

	require.True(t, NewPinger(db).HealthCheck(context.Background()))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	require.False(t, NewPinger(db).HealthCheck(context.Background()))
}
