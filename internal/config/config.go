// Package config loads recipefeed configuration from YAML, .env files and
// RECIPEFEED_* environment variables, in that order of increasing precedence.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "RECIPEFEED_"

// Config represents the application configuration.
type Config struct {
	API          APIConfig          `yaml:"api" envPrefix:"API_"`
	Cache        CacheConfig        `yaml:"cache" envPrefix:"CACHE_"`
	Database     DatabaseConfig     `yaml:"database" envPrefix:"DATABASE_"`
	Preferences  PreferencesConfig  `yaml:"preferences" envPrefix:"PREFERENCES_"`
	Connectivity ConnectivityConfig `yaml:"connectivity" envPrefix:"CONNECTIVITY_"`
	Refresh      RefreshConfig      `yaml:"refresh" envPrefix:"REFRESH_"`
	Server       ServerConfig       `yaml:"server" envPrefix:"SERVER_"`
	Events       EventsConfig       `yaml:"events" envPrefix:"EVENTS_"`
	Logging      LoggingConfig      `yaml:"logging" envPrefix:"LOGGING_"`
}

// APIConfig describes the remote recipe API.
type APIConfig struct {
	BaseURL       string        `yaml:"base_url" env:"BASE_URL"`
	APIKey        string        `yaml:"api_key" env:"KEY"`
	Timeout       time.Duration `yaml:"timeout" env:"TIMEOUT"`
	RecipesNumber int           `yaml:"recipes_number" env:"RECIPES_NUMBER"`
}

// CacheConfig selects the offline cache backend.
type CacheConfig struct {
	Backend CacheBackend `yaml:"backend" env:"BACKEND"`
	NATSURL string       `yaml:"nats_url,omitempty" env:"NATS_URL"`
	Bucket  string       `yaml:"bucket,omitempty" env:"BUCKET"`
}

// DatabaseConfig locates the SQLite file shared by the cache and favorites.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// PreferencesConfig locates the persisted meal/diet selection.
type PreferencesConfig struct {
	Path string `yaml:"path" env:"PATH"`
}

// ConnectivityConfig controls how often interfaces are re-scanned.
type ConnectivityConfig struct {
	ProbeInterval time.Duration `yaml:"probe_interval" env:"PROBE_INTERVAL"`
}

// RefreshConfig controls the daemon's periodic re-issue of the primary list.
// A zero Interval disables periodic refresh.
type RefreshConfig struct {
	Interval          time.Duration `yaml:"interval" env:"INTERVAL"`
	RetryBackoff      string        `yaml:"retry_backoff" env:"RETRY_BACKOFF"`
	RetryInitialDelay time.Duration `yaml:"retry_initial_delay" env:"RETRY_INITIAL_DELAY"`
	RetryMaxDelay     time.Duration `yaml:"retry_max_delay" env:"RETRY_MAX_DELAY"`
	MaxRetries        int           `yaml:"max_retries" env:"MAX_RETRIES"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `yaml:"addr" env:"ADDR"`
}

// EventsConfig enables outcome broadcast over NATS when NATSURL is set.
type EventsConfig struct {
	NATSURL       string `yaml:"nats_url,omitempty" env:"NATS_URL"`
	SubjectPrefix string `yaml:"subject_prefix" env:"SUBJECT_PREFIX"`
}

// LoggingConfig configures the slog handler.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// Load loads configuration from the specified file, then overlays the environment.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).
			Fatal().
			Build()
	}

	return parse(data)
}

// LoadOptional behaves like Load but falls back to defaults plus environment
// when the file does not exist.
func LoadOptional(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		loadEnvFile()
		return parse(nil)
	}
	return Load(configPath)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if len(data) > 0 {
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
