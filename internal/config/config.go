// Package config holds run configuration: defaults, an optional TOML config
// file, environment fallback, and pre-flight validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/spencermiles/gpt-track-id/internal/openai"
)

// Config is the effective run configuration after merging defaults, the
// config file, environment variables, and command-line flags.
type Config struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Workers        int    `toml:"workers"`
	BatchSize      int    `toml:"batch_size"`
	MaxRetries     int    `toml:"max_retries"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	FuzzyMatch     bool   `toml:"fuzzy_match"`
	LogLevel       string `toml:"log_level"`
	LogFormat      string `toml:"log_format"`
}

const (
	defaultWorkers        = 5
	defaultBatchSize      = 10
	defaultMaxRetries     = 5
	defaultTimeoutSeconds = 60
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		BaseURL:        openai.DefaultBaseURL,
		Model:          openai.DefaultModel,
		Workers:        defaultWorkers,
		BatchSize:      defaultBatchSize,
		MaxRetries:     defaultMaxRetries,
		TimeoutSeconds: defaultTimeoutSeconds,
		LogLevel:       defaultLogLevel,
		LogFormat:      defaultLogFormat,
	}
}

// Load layers a TOML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv fills the API key from OPENAI_API_KEY when it is not already set.
func (c *Config) ApplyEnv() {
	if c.APIKey == "" {
		if key, err := openai.APIKeyFromEnv(); err == nil {
			c.APIKey = key
		}
	}
}

// Validate checks the configuration before any batch work starts. A failure
// here is the only fatal path in the program.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return openai.ErrMissingAPIKey
	}
	if c.Workers <= 0 {
		return errors.New("workers must be positive")
	}
	if c.BatchSize <= 0 {
		return errors.New("batch_size must be positive")
	}
	if c.MaxRetries <= 0 {
		return errors.New("max_retries must be positive")
	}
	if c.TimeoutSeconds <= 0 {
		return errors.New("timeout_seconds must be positive")
	}
	return nil
}

// Timeout returns the per-request HTTP timeout.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
