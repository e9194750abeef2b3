// Package databasetest opens throwaway migrated databases for tests.
package databasetest

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"library_backend/internals/configs"
	database "library_backend/internals/databases"
)

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Open returns a migrated in-memory SQLite database private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := unsafeName.ReplaceAllString(t.Name(), "_")
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared&_foreign_keys=1", name, uuid.NewString())

	cfg := configs.DatabaseConfig{Driver: "sqlite", DSN: dsn, LogLevel: "silent"}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	database.TunePool(db, cfg)

	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}
