package retry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/recipefeed/internal/config"
	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, config.RetryBackoffLinear, p.Mode)
	require.Equal(t, time.Second, p.Initial)
	require.Equal(t, 30*time.Second, p.Max)
	require.Equal(t, 2, p.MaxRetries)
	require.NoError(t, p.Validate())
}

func TestNewPolicyClampsInitialToCeiling(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial)
	require.Equal(t, config.RetryBackoffFixed, p.Mode)
	require.Equal(t, 5, p.MaxRetries)
}

func TestNewPolicyKeepsDefaultsForUnsetFields(t *testing.T) {
	p := NewPolicy("jittered", 0, 0, -1)
	require.Equal(t, DefaultPolicy(), p)
}

func TestDelayModes(t *testing.T) {
	cases := []struct {
		name   string
		policy Policy
		want   []time.Duration
	}{
		{
			name:   "fixed",
			policy: NewPolicy(config.RetryBackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3),
			want:   []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond},
		},
		{
			name:   "linear",
			policy: NewPolicy(config.RetryBackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 4),
			want:   []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 250 * time.Millisecond, 250 * time.Millisecond},
		},
		{
			name:   "exponential",
			policy: NewPolicy(config.RetryBackoffExponential, 100*time.Millisecond, 500*time.Millisecond, 4),
			want:   []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, 500 * time.Millisecond},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.policy.Schedule())
			require.Zero(t, tc.policy.Delay(0))
		})
	}
}

func TestExponentialDelayDoesNotOverflow(t *testing.T) {
	p := NewPolicy(config.RetryBackoffExponential, time.Second, time.Hour, 100)
	require.Equal(t, time.Hour, p.Delay(40))
	require.Equal(t, time.Hour, p.Delay(100))
}

func TestExhausted(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Second, time.Second, 2)
	require.False(t, p.Exhausted(1))
	require.True(t, p.Exhausted(2))

	none := NewPolicy(config.RetryBackoffFixed, time.Second, time.Second, 0)
	require.True(t, none.Exhausted(0))
	require.Empty(t, none.Schedule())
}

func TestFromConfig(t *testing.T) {
	p := FromConfig(config.RefreshConfig{
		RetryBackoff:      " Exponential ",
		RetryInitialDelay: 2 * time.Second,
		RetryMaxDelay:     time.Minute,
		MaxRetries:        4,
	})
	require.Equal(t, Policy{Mode: config.RetryBackoffExponential, Initial: 2 * time.Second, Max: time.Minute, MaxRetries: 4}, p)
	require.NoError(t, p.Validate())
}

func TestValidateRejectsZeroPolicy(t *testing.T) {
	err := Policy{}.Validate()
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
}
