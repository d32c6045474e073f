package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Import    ImportConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level  string
	Format string
}

// ImportConfig bounds statement uploads and configures preview tokens.
type ImportConfig struct {
	MaxUploadBytes   int64
	MaxParallelFiles int
	PreviewTokenKey  string
	PreviewTokenTTL  time.Duration
}

// SchedulerConfig controls background jobs.
type SchedulerConfig struct {
	Enabled              bool
	SIPDetectionSchedule string
}

var defaultAllowedOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://localhost",
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/grip.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", defaultAllowedOrigins),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Import: ImportConfig{
			PreviewTokenKey: os.Getenv("PREVIEW_TOKEN_KEY"),
		},
		Scheduler: SchedulerConfig{
			SIPDetectionSchedule: getEnv("SIP_DETECTION_SCHEDULE", "0 3 * * *"),
		},
	}

	var err error
	if config.Import.MaxUploadBytes, err = getEnvInt64("IMPORT_MAX_UPLOAD_BYTES", 10<<20); err != nil {
		return nil, err
	}
	maxParallel, err := getEnvInt64("IMPORT_MAX_PARALLEL_FILES", 4)
	if err != nil {
		return nil, err
	}
	if maxParallel < 1 {
		return nil, fmt.Errorf("IMPORT_MAX_PARALLEL_FILES must be at least 1, got %d", maxParallel)
	}
	config.Import.MaxParallelFiles = int(maxParallel)

	if config.Import.PreviewTokenTTL, err = getEnvDuration("PREVIEW_TOKEN_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if config.Scheduler.Enabled, err = getEnvBool("ENABLE_SCHEDULER", true); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated variable, dropping empty entries.
func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return b, nil
}
