package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	Archive  ArchiveConfig
	Store    StoreConfig
	Weaviate WeaviateConfig
	Slack    SlackConfig
	Server   ServerConfig
}

// ArchiveConfig holds archive-reading configuration
type ArchiveConfig struct {
	Root    string
	Layout  string
	Workers int
}

// StoreConfig holds the relational store configuration
type StoreConfig struct {
	Path string
}

// WeaviateConfig holds search-index configuration
type WeaviateConfig struct {
	Scheme    string
	Host      string
	APIKey    string
	BatchSize int
}

// SlackConfig holds Slack Web API configuration
type SlackConfig struct {
	Token string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Archive: ArchiveConfig{
			Root:    getEnv("ARCHIVE_ROOT", "."),
			Layout:  getEnv("ARCHIVE_LAYOUT", "export"),
			Workers: getEnvInt("ARCHIVE_WORKERS", 4),
		},
		Store: StoreConfig{
			Path: getEnv("SQLITE_PATH", "archive.db"),
		},
		Weaviate: WeaviateConfig{
			Scheme:    getEnv("WEAVIATE_SCHEME", "http"),
			Host:      getEnv("WEAVIATE_HOST", "localhost:8080"),
			APIKey:    getEnv("WEAVIATE_API_KEY", ""),
			BatchSize: getEnvInt("INDEX_BATCH_SIZE", 100),
		},
		Slack: SlackConfig{
			Token: getEnv("SLACK_TOKEN", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8090"),
			Host: getEnv("HOST", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Archive.Root == "" {
		return fmt.Errorf("ARCHIVE_ROOT is required")
	}

	if c.Archive.Layout != "export" && c.Archive.Layout != "history" {
		return fmt.Errorf("ARCHIVE_LAYOUT must be export or history")
	}

	if c.Archive.Workers < 1 {
		return fmt.Errorf("ARCHIVE_WORKERS must be at least 1")
	}

	if c.Server.Port != "" {
		port, err := strconv.Atoi(c.Server.Port)
		if err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("invalid port: %s", c.Server.Port)
		}
	}

	if c.Weaviate.Host == "" {
		return fmt.Errorf("WEAVIATE_HOST is required")
	}

	if c.Weaviate.Scheme != "http" && c.Weaviate.Scheme != "https" {
		return fmt.Errorf("WEAVIATE_SCHEME must be http or https")
	}

	if c.Weaviate.BatchSize < 1 {
		return fmt.Errorf("INDEX_BATCH_SIZE must be at least 1")
	}

	return nil
}

// getEnv gets an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a fallback
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
