// Package config loads application configuration from environment variables.
// All variables use the STUDYBOT_ prefix.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// History backends.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Cache       CacheConfig
	History     HistoryConfig
	Presenter   PresenterConfig
	Log         LogConfig
	DataPath    string
	LexiconPath string
	TestMode    bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis connection settings.
type CacheConfig struct {
	URL string
	// Prefix namespaces every key written by this deployment.
	Prefix string
}

// HistoryConfig selects where session and quiz history is kept.
type HistoryConfig struct {
	Backend string
}

// PresenterConfig controls terminal output pacing.
type PresenterConfig struct {
	TypingDelay time.Duration
	PacingLimit int // messages longer than this print at once
	Color       bool
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with STUDYBOT_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("STUDYBOT_SERVER_PORT", 8080),
			Host: envStr("STUDYBOT_SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL:      envStr("STUDYBOT_DATABASE_URL", ""),
			MaxConns: envInt("STUDYBOT_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("STUDYBOT_DATABASE_MIN_CONNS", 1),
		},
		Cache: CacheConfig{
			URL:    envStr("STUDYBOT_CACHE_URL", ""),
			Prefix: envStr("STUDYBOT_CACHE_PREFIX", "studybot"),
		},
		History: HistoryConfig{
			Backend: strings.ToLower(envStr("STUDYBOT_HISTORY_BACKEND", BackendFile)),
		},
		Presenter: PresenterConfig{
			TypingDelay: time.Duration(envInt("STUDYBOT_TYPING_DELAY_MS", 4)) * time.Millisecond,
			PacingLimit: envInt("STUDYBOT_PACING_LIMIT", 1500),
			Color:       envBool("STUDYBOT_COLOR", true),
		},
		Log: LogConfig{
			Level:  envStr("STUDYBOT_LOG_LEVEL", "warn"),
			Format: envStr("STUDYBOT_LOG_FORMAT", "json"),
		},
		DataPath:    envStr("STUDYBOT_DATA_PATH", "./data"),
		LexiconPath: envStr("STUDYBOT_LEXICON_PATH", ""),
		TestMode:    envBool("STUDYBOT_TEST_MODE", false),
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.History.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if c.Cache.URL == "" {
			return fmt.Errorf("STUDYBOT_CACHE_URL is required for the redis history backend")
		}
	case BackendPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("STUDYBOT_DATABASE_URL is required for the postgres history backend")
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("STUDYBOT_DATABASE_MIN_CONNS (%d) exceeds STUDYBOT_DATABASE_MAX_CONNS (%d)",
				c.Database.MinConns, c.Database.MaxConns)
		}
	default:
		return fmt.Errorf("STUDYBOT_HISTORY_BACKEND must be one of file, memory, redis, postgres; got %q", c.History.Backend)
	}

	if c.DataPath == "" {
		return fmt.Errorf("STUDYBOT_DATA_PATH must not be empty")
	}
	if c.Presenter.TypingDelay < 0 {
		return fmt.Errorf("STUDYBOT_TYPING_DELAY_MS must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("STUDYBOT_SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if f := strings.ToLower(c.Log.Format); f != "json" && f != "text" {
		return fmt.Errorf("STUDYBOT_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	return nil
}

// TopicsDir returns the directory holding topic and quiz files.
func (c *Config) TopicsDir() string {
	return filepath.Join(c.DataPath, "topics")
}

// UserDir returns the directory the file history backend writes to.
func (c *Config) UserDir() string {
	return filepath.Join(c.DataPath, "user")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
