package config

import (
	"net/url"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
)

// Validate checks structural invariants. A missing API key is not an error:
// cache, favorites and preference commands work without one.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.ValidationError("api.base_url must be an absolute URL").
			WithContext("base_url", c.API.BaseURL).
			Build()
	}
	if c.Cache.Backend == CacheBackendNATS && c.Cache.NATSURL == "" {
		return errors.ValidationError("cache.nats_url is required for the nats backend").Build()
	}
	if NormalizeRetryBackoff(c.Refresh.RetryBackoff) == "" {
		return errors.ValidationError("refresh.retry_backoff must be fixed, linear or exponential").
			WithContext("retry_backoff", c.Refresh.RetryBackoff).
			Build()
	}
	if c.Refresh.Interval < 0 {
		return errors.ValidationError("refresh.interval cannot be negative").Build()
	}
	return nil
}

// HasAPIKey reports whether remote calls can be authenticated.
func (c *Config) HasAPIKey() bool {
	return c.API.APIKey != ""
}
