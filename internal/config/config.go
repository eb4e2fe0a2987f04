package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	env "github.com/netflix/go-env"
)

// PlaceholderAPIKey is the value shipped in sample env files. It counts as
// unset.
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

const (
	defaultPort      = "5000"
	defaultSearchURL = "https://www.googleapis.com/youtube/v3/search"
)

type Config struct {
	Port             string        `env:"PORT,default=5000"`
	YouTubeAPIKey    string        `env:"YOUTUBE_API_KEY,default=YOUR_API_KEY_HERE"`
	YouTubeSearchURL string        `env:"YOUTUBE_SEARCH_URL,default=https://www.googleapis.com/youtube/v3/search"`
	UpstreamTimeout  time.Duration `env:"UPSTREAM_TIMEOUT,default=0s"`
	LogLevel         string        `env:"LOG_LEVEL,default=info"`

	OTelEnabled          bool          `env:"OTEL_ENABLED,default=false"`
	OTelEndpoint         string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelServiceName      string        `env:"OTEL_SERVICE_NAME,default=search-gateway"`
	MetricExportInterval time.Duration `env:"OTEL_METRIC_EXPORT_INTERVAL,default=60s"`
}

// Load reads an optional .env file, then the process environment. A missing
// API key is not an error here; requests report it instead.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	c.Port = strings.TrimSpace(c.Port)
	if c.Port == "" {
		c.Port = defaultPort
	}
	c.YouTubeAPIKey = strings.TrimSpace(c.YouTubeAPIKey)
	c.YouTubeSearchURL = strings.TrimSpace(c.YouTubeSearchURL)
	if c.YouTubeSearchURL == "" {
		c.YouTubeSearchURL = defaultSearchURL
	}
	if c.UpstreamTimeout < 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must not be negative, got %s", c.UpstreamTimeout)
	}
	if c.OTelEnabled && strings.TrimSpace(c.OTelEndpoint) == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED=true")
	}
	return nil
}

// HasAPIKey reports whether a usable YouTube credential is configured.
func (c *Config) HasAPIKey() bool {
	return c != nil && c.YouTubeAPIKey != "" && c.YouTubeAPIKey != PlaceholderAPIKey
}
