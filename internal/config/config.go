// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

// Tool output limit defaults
const (
	DefaultSearchLimitValue = 20
	MaxQueryResultsValue    = 1000
)

// Config holds all configuration for the HAR server.
type Config struct {
	HARRoot              string // HAR_ROOT, default "." (archive paths resolve against it)
	ArchiveCacheMaxItems int    // ARCHIVE_CACHE_MAX_ITEMS, default 32
	LoadWorkers          int    // LOAD_WORKERS, default 4

	// Tool output limits
	DefaultSearchLimit int // DEFAULT_SEARCH_LIMIT
	MaxQueryResults    int // MAX_QUERY_RESULTS, default 1000

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, "text" or "json", default "text"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		HARRoot:              getEnvPath("HAR_ROOT", "."),
		ArchiveCacheMaxItems: getEnvPositiveInt("ARCHIVE_CACHE_MAX_ITEMS", 32),
		LoadWorkers:          getEnvPositiveInt("LOAD_WORKERS", 4),

		DefaultSearchLimit: getEnvPositiveInt("DEFAULT_SEARCH_LIMIT", DefaultSearchLimitValue),
		MaxQueryResults:    getEnvPositiveInt("MAX_QUERY_RESULTS", MaxQueryResultsValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvPositiveInt is getEnvInt for sizes and counts; values below 1 fall
// back to the default.
func getEnvPositiveInt(key string, defaultVal int) int {
	if i := getEnvInt(key, defaultVal); i > 0 {
		return i
	}
	return defaultVal
}

func getEnvPath(key, defaultVal string) string {
	p := getEnvString(key, defaultVal)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
