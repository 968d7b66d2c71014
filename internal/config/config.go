package config

import (
	"os"
	"strconv"
)

// Config holds the process configuration
type Config struct {
	// Server
	ServiceName string
	Port        string
	StaticDir   string // empty serves the embedded bundle

	// Database
	DBPath string

	// Logging
	LogLevel string

	// Replace storage driver messages with a generic one in 400 responses
	HideStorageErrors bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		ServiceName:       getEnv("SERVICE_NAME", "biblioteca"),
		Port:              getEnv("PORT", "3000"),
		StaticDir:         getEnv("STATIC_DIR", ""),
		DBPath:            getEnv("DB_PATH", "./biblioteca.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		HideStorageErrors: getEnvBool("HIDE_STORAGE_ERRORS", false),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
