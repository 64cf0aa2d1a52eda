package utils

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetConfig() {
	config = Config{}
	loadOnce = sync.Once{}
}

func TestGetConfigDefaults(t *testing.T) {
	resetConfig()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Equal(t, "8000", GetConfig("APP_PORT"))
	assert.Equal(t, "local", GetConfig("STORAGE_DRIVER"))
	assert.Equal(t, "/uploads", GetConfig("UPLOAD_URL_PREFIX"))
	assert.Equal(t, "", GetConfig("UNKNOWN_KEY"))
	assert.Equal(t, 10, GetConfigInt("MAX_UPLOAD_MB", 4))
}

func TestGetConfigYAMLAndEnvOverride(t *testing.T) {
	resetConfig()
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "DB_DRIVER: sqlite\nSQLITE_PATH: catalog.db\nAPP_PORT: \"9000\"\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("APP_PORT", "9100")

	assert.Equal(t, "sqlite", GetConfig("DB_DRIVER"))
	assert.Equal(t, "catalog.db", GetConfig("SQLITE_PATH"))
	assert.Equal(t, "9100", GetConfig("APP_PORT"))
}

func TestGetConfigIntFallback(t *testing.T) {
	resetConfig()
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MAX_UPLOAD_MB", "lots")

	assert.Equal(t, 4, GetConfigInt("MAX_UPLOAD_MB", 4))
}
