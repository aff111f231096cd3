package config

import "time"

// Defaults mirror the values the mobile client shipped with.
const (
	DefaultBaseURL        = "https://api.spoonacular.com"
	DefaultTimeout        = 15 * time.Second
	DefaultRecipesNumber  = 50
	DefaultDatabasePath   = "recipefeed.db"
	DefaultPreferences    = "preferences.yaml"
	DefaultBucket         = "recipefeed-cache"
	DefaultProbeInterval  = 10 * time.Second
	DefaultServerAddr     = ":8080"
	DefaultSubjectPrefix  = "recipefeed.outcomes"
	DefaultRefreshBackoff = string(RetryBackoffLinear)
)

func applyDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	if cfg.API.Timeout <= 0 {
		cfg.API.Timeout = DefaultTimeout
	}
	if cfg.API.RecipesNumber <= 0 {
		cfg.API.RecipesNumber = DefaultRecipesNumber
	}

	cfg.Cache.Backend = NormalizeCacheBackend(string(cfg.Cache.Backend))
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheBackendSQLite
	}
	if cfg.Cache.Bucket == "" {
		cfg.Cache.Bucket = DefaultBucket
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = DefaultDatabasePath
	}
	if cfg.Preferences.Path == "" {
		cfg.Preferences.Path = DefaultPreferences
	}
	if cfg.Connectivity.ProbeInterval <= 0 {
		cfg.Connectivity.ProbeInterval = DefaultProbeInterval
	}

	if cfg.Refresh.RetryBackoff == "" {
		cfg.Refresh.RetryBackoff = DefaultRefreshBackoff
	}
	if cfg.Refresh.RetryInitialDelay <= 0 {
		cfg.Refresh.RetryInitialDelay = time.Second
	}
	if cfg.Refresh.RetryMaxDelay <= 0 {
		cfg.Refresh.RetryMaxDelay = 30 * time.Second
	}
	if cfg.Refresh.MaxRetries < 0 {
		cfg.Refresh.MaxRetries = 0
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Events.SubjectPrefix == "" {
		cfg.Events.SubjectPrefix = DefaultSubjectPrefix
	}
	cfg.Logging.Level = string(NormalizeLogLevel(cfg.Logging.Level))
	cfg.Logging.Format = string(NormalizeLogFormat(cfg.Logging.Format))
}
