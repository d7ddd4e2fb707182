// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"cafehub/internal/platform/database"
	"cafehub/internal/repository"
)

// NewDB returns a migrated in-memory SQLite database closed on cleanup.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(context.Background(), database.MemoryPath)
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
