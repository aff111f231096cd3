// Package retry describes how a consumer spaces out re-issued requests after
// an Error outcome. The fetch pipeline itself never retries.
package retry

import (
	"time"

	"git.home.luguber.info/inful/recipefeed/internal/config"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
)

// Policy is an immutable backoff schedule.
type Policy struct {
	Mode       config.RetryBackoffMode // fixed|linear|exponential
	Initial    time.Duration           // delay before the first re-issue
	Max        time.Duration           // ceiling for every delay
	MaxRetries int                     // re-issues allowed after the first failure
}

// DefaultPolicy is linear from 1s, capped at 30s, with two re-issues.
func DefaultPolicy() Policy {
	return Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: 30 * time.Second, MaxRetries: 2}
}

// NewPolicy starts from DefaultPolicy and overrides whatever is set.
// Unknown modes keep the default; an initial delay above the ceiling is clamped.
func NewPolicy(mode config.RetryBackoffMode, initial, ceiling time.Duration, maxRetries int) Policy {
	p := DefaultPolicy()
	switch mode {
	case config.RetryBackoffFixed, config.RetryBackoffLinear, config.RetryBackoffExponential:
		p.Mode = mode
	}
	if initial > 0 {
		p.Initial = initial
	}
	if ceiling > 0 {
		p.Max = ceiling
	}
	if maxRetries >= 0 {
		p.MaxRetries = maxRetries
	}
	p.Initial = min(p.Initial, p.Max)
	return p
}

// FromConfig builds the policy of the refresh section.
func FromConfig(cfg config.RefreshConfig) Policy {
	return NewPolicy(config.NormalizeRetryBackoff(cfg.RetryBackoff), cfg.RetryInitialDelay, cfg.RetryMaxDelay, cfg.MaxRetries)
}

// Delay is the wait before re-issue number attempt (1-based). Zero for attempt <= 0.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	var d time.Duration
	switch p.Mode {
	case config.RetryBackoffFixed:
		d = p.Initial
	case config.RetryBackoffExponential:
		d = p.Initial
		for i := 1; i < attempt && d > 0 && d < p.Max; i++ {
			d *= 2
		}
	default:
		d = time.Duration(attempt) * p.Initial
	}
	if d <= 0 || d > p.Max {
		return p.Max
	}
	return d
}

// Schedule lists every delay the policy allows, in order.
func (p Policy) Schedule() []time.Duration {
	out := make([]time.Duration, 0, max(p.MaxRetries, 0))
	for attempt := 1; attempt <= p.MaxRetries; attempt++ {
		out = append(out, p.Delay(attempt))
	}
	return out
}

// Exhausted reports whether attempt re-issues already used up the budget.
func (p Policy) Exhausted(attempt int) bool {
	return attempt >= p.MaxRetries
}

// Validate rejects a policy that cannot be applied.
func (p Policy) Validate() error {
	var problem string
	switch {
	case p.Initial <= 0:
		problem = "initial retry delay must be positive"
	case p.Max <= 0:
		problem = "maximum retry delay must be positive"
	case p.MaxRetries < 0:
		problem = "max retries cannot be negative"
	default:
		return nil
	}
	return errors.ValidationError(problem).
		WithContext("mode", string(p.Mode)).
		WithContext("initial", p.Initial.String()).
		WithContext("max", p.Max.String()).
		WithContext("max_retries", p.MaxRetries).
		Build()
}
