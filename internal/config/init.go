package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
)

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		API: APIConfig{
			BaseURL:       DefaultBaseURL,
			APIKey:        "${RECIPEFEED_API_KEY}",
			Timeout:       DefaultTimeout,
			RecipesNumber: DefaultRecipesNumber,
		},
		Cache:        CacheConfig{Backend: CacheBackendSQLite},
		Database:     DatabaseConfig{Path: DefaultDatabasePath},
		Preferences:  PreferencesConfig{Path: DefaultPreferences},
		Connectivity: ConnectivityConfig{ProbeInterval: DefaultProbeInterval},
		Refresh: RefreshConfig{
			Interval:          30 * time.Minute,
			RetryBackoff:      DefaultRefreshBackoff,
			RetryInitialDelay: time.Second,
			RetryMaxDelay:     30 * time.Second,
			MaxRetries:        2,
		},
		Server:  ServerConfig{Addr: DefaultServerAddr},
		Events:  EventsConfig{SubjectPrefix: DefaultSubjectPrefix},
		Logging: LoggingConfig{Level: string(LogLevelInfo), Format: string(LogFormatText)},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
