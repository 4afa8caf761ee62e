// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fieldcrew/crewaccess/internal/config"
	"github.com/fieldcrew/crewaccess/internal/db"
	"github.com/fieldcrew/crewaccess/internal/db/repository"
	"github.com/fieldcrew/crewaccess/internal/logger"
)

// Open returns a fresh, migrated and seeded in-memory SQLite database.
// It is closed when the test ends.
func Open(tb testing.TB) *gorm.DB {
	tb.Helper()

	gdb, err := db.Open(config.DB{Engine: config.EngineSQLite, Path: ":memory:"}, logger.Log{})
	require.NoError(tb, err, "failed to create test database")

	require.NoError(tb, db.Migrate(context.Background(), gdb), "failed to migrate test database")

	tb.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return gdb
}

// Store returns a repository store on a fresh test database together with the database.
func Store(tb testing.TB) (*repository.Store, *gorm.DB) {
	tb.Helper()

	gdb := Open(tb)

	store, err := repository.New(gdb)
	require.NoError(tb, err)

	return store, gdb
}
