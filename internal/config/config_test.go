package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("STATIC_DIR", "")
	t.Setenv("HIDE_STORAGE_ERRORS", "")

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "./biblioteca.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.StaticDir)
	assert.False(t, cfg.HideStorageErrors)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("DB_PATH", "/tmp/test.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HIDE_STORAGE_ERRORS", "true")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.HideStorageErrors)
}

func TestLoad_InvalidBoolFallsBack(t *testing.T) {
	t.Setenv("HIDE_STORAGE_ERRORS", "maybe")

	assert.False(t, Load().HideStorageErrors)
}
