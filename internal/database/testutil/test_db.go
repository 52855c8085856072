// Package testutil opens throwaway sqlite databases for package tests.
package testutil

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ehomehq/ehome/internal/database"
)

type schema int

const (
	schemaNone schema = iota
	schemaTables
	schemaSeeded
)

// TestDBOption selects how much schema MustOpenTestDB prepares.
type TestDBOption func(*schema)

// WithAutoMigrate creates the tables without reference data.
func WithAutoMigrate() TestDBOption {
	return func(s *schema) { *s = max(*s, schemaTables) }
}

// WithSeedData creates the tables and inserts the reference areas and
// facilities.
func WithSeedData() TestDBOption {
	return func(s *schema) { *s = schemaSeeded }
}

// MustOpenTestDB opens a private in-memory sqlite database that is closed
// when the test ends.
func MustOpenTestDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	level := schemaNone
	for _, opt := range opts {
		opt(&level)
	}

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := database.Open(database.Config{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// The memory database lives as long as its single connection.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	switch level {
	case schemaSeeded:
		require.NoError(t, database.AutoMigrateAndSeed(db))
	case schemaTables:
		require.NoError(t, database.AutoMigrate(db))
	}
	return db
}
