// Package databasetest opens throwaway in-memory stores for tests.
package databasetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"madajob-backend/shared/database"
)

// Open returns a migrated store backed by a private in-memory sqlite database.
func Open(t testing.TB) (database.Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a new database, so pin the pool to one
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db, zap.NewNop()))

	store := database.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store, db
}
