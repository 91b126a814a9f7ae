// Package dbtest provides an in-memory database for package tests.
package dbtest

import (
	"testing"

	"github.com/anjiri1684/parkspace/database"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open swaps database.DB for a fresh sqlite database with the full schema.
// The previous handle is restored when the test ends.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// :memory: is per connection, so pin the pool to one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	previous := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = previous
		_ = sqlDB.Close()
	})

	require.NoError(t, database.Migrate())
	return db
}
