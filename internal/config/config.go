// ABOUTME: Centralized configuration for the chat relay
// ABOUTME: Loads from environment variables with defaults and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the relay.
type Config struct {
	// Service settings
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"chat-relay"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"PORT" envDefault:"10000"`
	LogLevel        string        `env:"RELAY_LOG_LEVEL" envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Storage settings; empty DBPath falls back to the XDG data directory
	DBPath string `env:"RELAY_DB_PATH"`

	// Backend settings (OpenAI-compatible API)
	APIKey      string        `env:"GROQ_API_KEY"`
	BaseURL     string        `env:"RELAY_BACKEND_URL" envDefault:"https://api.groq.com/openai/v1"`
	TextModel   string        `env:"RELAY_TEXT_MODEL" envDefault:"llama-3.1-8b-instant"`
	VisionModel string        `env:"RELAY_VISION_MODEL" envDefault:"llama-3.2-11b-vision-preview"`
	Timeout     time.Duration `env:"RELAY_BACKEND_TIMEOUT" envDefault:"30s"`
	MaxRetries  int           `env:"RELAY_MAX_RETRIES" envDefault:"3"`
	RetryDelay  time.Duration `env:"RELAY_RETRY_DELAY" envDefault:"2s"`

	// Charm settings (cloud archive)
	CharmArchive  bool   `env:"CHARM_ARCHIVE" envDefault:"false"`
	CharmHost     string `env:"CHARM_HOST" envDefault:"charm.2389.dev"`
	CharmDBName   string `env:"CHARM_DB" envDefault:"chat-relay"`
	CharmAutoSync bool   `env:"CHARM_AUTO_SYNC" envDefault:"true"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("PORT must be 1-65535, got %d", c.HTTPPort)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("RELAY_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("RELAY_RETRY_DELAY cannot be negative, got %v", c.RetryDelay)
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("RELAY_BACKEND_URL cannot be empty")
	}
	return nil
}

// RequireAPIKey errors when no backend API key is configured. The server and
// chat paths need one; read-only history commands do not.
func (c *Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("GROQ_API_KEY environment variable is not set")
	}
	return nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsDevelopment reports whether the relay runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}
