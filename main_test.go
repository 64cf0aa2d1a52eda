package main

import (
	"context"
	"path/filepath"
	"recipe-catalog/cmd/database"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRunClosesDatabaseOnStartupError(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "recipes.db"))
	t.Setenv("STORAGE_DRIVER", "ftp")

	closed := 0
	closeDatabase = func(db *gorm.DB) error {
		closed++
		return database.Close(db)
	}
	t.Cleanup(func() { closeDatabase = database.Close })

	err := run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported storage driver")
	assert.Equal(t, 1, closed)
}
