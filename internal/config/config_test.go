package config_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"hdfhr-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "service-role-key")
}

// TestLoad_Defaults verifies the built-in defaults survive a load with no
// file and no overrides beyond the required upstream credentials.
func TestLoad_Defaults(t *testing.T) {
	// Arrange
	setRequiredEnv(t)
	t.Setenv("CONFIG_FILE", "")

	// Act
	cfg, err := config.Load("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, config.Development, cfg.Environment)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address())
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout.Std())
	assert.Equal(t, 100, cfg.Cache.MaxEntries)
	assert.Equal(t, 5*time.Minute, cfg.Cache.DefaultTTL.Std())
	assert.Equal(t, 0.1, cfg.Cache.SweepProbability)
	assert.Equal(t, 3*time.Second, cfg.Cache.ProbeTimeout.Std())
	assert.Equal(t, 3, cfg.Cache.Retry.MaxAttempts)
	assert.Equal(t, 1*time.Second, cfg.Cache.Retry.BaseDelay.Std())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "public", cfg.Upstream.Schema)
	assert.True(t, cfg.IsDevelopment())
}

// TestLoad_FileOverrides verifies YAML values, including durations written
// as strings, override the defaults.
func TestLoad_FileOverrides(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
environment: production
server:
  port: 9090
  request_timeout: 45s
upstream:
  url: https://example.supabase.co
  api_key: file-key
cache:
  max_entries: 250
  default_ttl: 90s
  sweep_probability: 0.25
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	// Act
	cfg, err := config.Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, config.Production, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 45*time.Second, cfg.Server.RequestTimeout.Std())
	assert.Equal(t, 250, cfg.Cache.MaxEntries)
	assert.Equal(t, 90*time.Second, cfg.Cache.DefaultTTL.Std())
	assert.Equal(t, 0.25, cfg.Cache.SweepProbability)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Values the file does not mention keep their defaults.
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Std())
	assert.Equal(t, 3, cfg.Cache.Retry.MaxAttempts)
}

// TestLoad_EnvOverridesFile verifies environment variables win over the
// configuration file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `
server:
  port: 9090
upstream:
  url: https://example.supabase.co
  api_key: file-key
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	t.Setenv("PORT", "9999")
	t.Setenv("CACHE_DEFAULT_TTL", "2m")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "env-key")

	// Act
	cfg, err := config.Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 2*time.Minute, cfg.Cache.DefaultTTL.Std())
	assert.Equal(t, "env-key", cfg.Upstream.APIKey)
}

// TestLoad_MissingFileIsTolerated verifies a non-existent config file falls
// back to defaults plus environment.
func TestLoad_MissingFileIsTolerated(t *testing.T) {
	// Arrange
	setRequiredEnv(t)

	// Act
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

// TestLoad_RejectsInvalid verifies validation failures surface as errors.
func TestLoad_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "sweep probability above one",
			env:  map[string]string{"CACHE_SWEEP_PROBABILITY": "1.5"},
		},
		{
			name: "unknown environment tier",
			env:  map[string]string{"APP_ENV": "qa"},
		},
		{
			name: "malformed port",
			env:  map[string]string{"PORT": "not-a-port"},
		},
		{
			name: "zero retry attempts",
			env:  map[string]string{"RETRY_MAX_ATTEMPTS": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			setRequiredEnv(t)
			t.Setenv("CONFIG_FILE", "")
			for key, val := range tt.env {
				t.Setenv(key, val)
			}

			// Act
			_, err := config.Load("")

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

// TestLoad_MissingUpstreamFails verifies the upstream URL and key are
// required.
func TestLoad_MissingUpstreamFails(t *testing.T) {
	// Arrange
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_SERVICE_ROLE_KEY", "")

	// Act
	_, err := config.Load("")

	// Assert
	require.Error(t, err)
}

// TestDuration_UnmarshalYAML covers the two accepted encodings and the
// failure mode.
func TestDuration_UnmarshalYAML(t *testing.T) {
	type doc struct {
		Value config.Duration `yaml:"value"`
	}

	t.Run("Should parse a duration string", func(t *testing.T) {
		var d doc
		require.NoError(t, yaml.Unmarshal([]byte("value: 90s"), &d))
		assert.Equal(t, 90*time.Second, d.Value.Std())
	})

	t.Run("Should accept integer nanoseconds", func(t *testing.T) {
		var d doc
		require.NoError(t, yaml.Unmarshal([]byte("value: 5000000000"), &d))
		assert.Equal(t, 5*time.Second, d.Value.Std())
	})

	t.Run("Should reject garbage", func(t *testing.T) {
		var d doc
		err := yaml.Unmarshal([]byte("value: soon"), &d)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid duration")
	})
}

// TestWatcher_ReloadsOnChange verifies a rewritten config file reaches
// subscribers with the new values.
func TestWatcher_ReloadsOnChange(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig := func(port int) {
		contents := `
server:
  port: ` + strconv.Itoa(port) + `
upstream:
  url: https://example.supabase.co
  api_key: watcher-key
`
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	}
	writeConfig(8080)

	initial, err := config.Load(path)
	require.NoError(t, err)

	watcher, err := config.NewWatcher(path, initial, zap.NewNop())
	require.NoError(t, err)
	defer watcher.Close()

	reloaded := make(chan *config.Config, 1)
	watcher.OnChange(func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})

	// Act
	writeConfig(9091)

	// Assert
	select {
	case cfg := <-reloaded:
		assert.Equal(t, 9091, cfg.Server.Port)
		assert.Equal(t, 9091, watcher.Current().Server.Port)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}
