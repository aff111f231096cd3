package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/recipefeed/internal/foundation/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipefeed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, "api:\n  api_key: abc\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	require.Equal(t, "abc", cfg.API.APIKey)
	require.Equal(t, DefaultTimeout, cfg.API.Timeout)
	require.Equal(t, DefaultRecipesNumber, cfg.API.RecipesNumber)
	require.Equal(t, CacheBackendSQLite, cfg.Cache.Backend)
	require.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	require.Equal(t, DefaultProbeInterval, cfg.Connectivity.ProbeInterval)
	require.Equal(t, "linear", cfg.Refresh.RetryBackoff)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "text", cfg.Logging.Format)
	require.True(t, cfg.HasAPIKey())
}

func TestLoad_ExpandsEnvironmentInYAML(t *testing.T) {
	t.Setenv("SPOON_KEY", "from-env")
	path := writeConfig(t, "api:\n  api_key: ${SPOON_KEY}\n  timeout: 3s\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.API.APIKey)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
}

func TestLoad_EnvironmentOverridesYAML(t *testing.T) {
	t.Setenv("RECIPEFEED_API_KEY", "override")
	t.Setenv("RECIPEFEED_CACHE_BACKEND", "memory")
	t.Setenv("RECIPEFEED_REFRESH_INTERVAL", "5m")
	path := writeConfig(t, "api:\n  api_key: yaml-key\ncache:\n  backend: sqlite\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "override", cfg.API.APIKey)
	require.Equal(t, CacheBackendMemory, cfg.Cache.Backend)
	require.Equal(t, 5*time.Minute, cfg.Refresh.Interval)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoadOptional_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadOptional(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultServerAddr, cfg.Server.Addr)
	require.False(t, cfg.HasAPIKey())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "api: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("relative base url", func(t *testing.T) {
		_, err := Load(writeConfig(t, "api:\n  base_url: /recipes\n"))
		require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})
	t.Run("nats backend without url", func(t *testing.T) {
		_, err := Load(writeConfig(t, "cache:\n  backend: nats\n"))
		require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})
	t.Run("unknown backoff", func(t *testing.T) {
		_, err := Load(writeConfig(t, "refresh:\n  retry_backoff: random\n"))
		require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	})
}

func TestInit_WritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recipefeed.yaml")
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.NoError(t, Init(path, true))

	t.Setenv("RECIPEFEED_API_KEY", "k")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "k", cfg.API.APIKey)
	require.Equal(t, 30*time.Minute, cfg.Refresh.Interval)
}

func TestNormalizers(t *testing.T) {
	require.Equal(t, LogLevelWarn, NormalizeLogLevel(" WARNING "))
	require.Equal(t, LogLevelInfo, NormalizeLogLevel("loud"))
	require.Equal(t, LogFormatJSON, NormalizeLogFormat("JSON"))
	require.Equal(t, CacheBackendNATS, NormalizeCacheBackend("Nats"))
	require.Equal(t, CacheBackend(""), NormalizeCacheBackend("redis"))
	require.Equal(t, RetryBackoffMode(""), NormalizeRetryBackoff("random"))
}
