package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default returns the built-in configuration. Cache numbers match the
// defaults the cache package falls back to when left at zero.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: Server{
			Host:            "0.0.0.0",
			Port:            8080,
			RequestTimeout:  Duration(30 * time.Second),
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			IdleTimeout:     Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			AllowedOrigins:  []string{"http://localhost:3000"},
		},
		Upstream: Upstream{
			Schema: "public",
			Breaker: Breaker{
				MaxRequests:      5,
				Interval:         Duration(30 * time.Second),
				Timeout:          Duration(60 * time.Second),
				FailureThreshold: 0.8,
				MinRequests:      5,
			},
		},
		Cache: Cache{
			Dir:              ".hdfhr/cache",
			InMemory:         false,
			MaxEntries:       100,
			DefaultTTL:       Duration(5 * time.Minute),
			SweepProbability: 0.1,
			ProbeTimeout:     Duration(3 * time.Second),
			WarmOnStart:      false,
			Retry: Retry{
				MaxAttempts: 3,
				BaseDelay:   Duration(1 * time.Second),
				MaxDelay:    Duration(30 * time.Second),
				Jitter:      0.2,
			},
		},
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Observability: Observability{
			MetricsEnabled: true,
			MetricsPath:    "/metrics",
			TracingEnabled: false,
			ServiceName:    "hdfhr-backend",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (falling back to $CONFIG_FILE), and environment variables, in that
// order of precedence. The result is validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		// A missing file is fine; defaults and environment variables
		// still apply.
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if val := os.Getenv("APP_ENV"); val != "" {
		cfg.Environment = Environment(strings.ToLower(val))
	}

	if val := os.Getenv("SERVER_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("PORT"); val != "" {
		cfg.Server.Port = parseInt(val)
	}
	if val := os.Getenv("SERVER_REQUEST_TIMEOUT"); val != "" {
		cfg.Server.RequestTimeout = parseDuration(val)
	}
	if val := os.Getenv("SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		cfg.Server.ShutdownTimeout = parseDuration(val)
	}
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		cfg.Server.AllowedOrigins = splitList(val)
	}

	if val := os.Getenv("SUPABASE_URL"); val != "" {
		cfg.Upstream.URL = val
	}
	if val := os.Getenv("SUPABASE_SERVICE_ROLE_KEY"); val != "" {
		cfg.Upstream.APIKey = val
	}
	if val := os.Getenv("SUPABASE_SCHEMA"); val != "" {
		cfg.Upstream.Schema = val
	}
	if val := os.Getenv("UPSTREAM_HEALTH_ENDPOINT"); val != "" {
		cfg.Upstream.HealthEndpoint = val
	}

	if val := os.Getenv("CACHE_DIR"); val != "" {
		cfg.Cache.Dir = val
	}
	if val := os.Getenv("CACHE_IN_MEMORY"); val != "" {
		cfg.Cache.InMemory = parseBool(val)
	}
	if val := os.Getenv("CACHE_MAX_ENTRIES"); val != "" {
		cfg.Cache.MaxEntries = parseInt(val)
	}
	if val := os.Getenv("CACHE_DEFAULT_TTL"); val != "" {
		cfg.Cache.DefaultTTL = parseDuration(val)
	}
	if val := os.Getenv("CACHE_SWEEP_PROBABILITY"); val != "" {
		cfg.Cache.SweepProbability = parseFloat(val)
	}
	if val := os.Getenv("CACHE_PROBE_TIMEOUT"); val != "" {
		cfg.Cache.ProbeTimeout = parseDuration(val)
	}
	if val := os.Getenv("CACHE_WARM_ON_START"); val != "" {
		cfg.Cache.WarmOnStart = parseBool(val)
	}
	if val := os.Getenv("RETRY_MAX_ATTEMPTS"); val != "" {
		cfg.Cache.Retry.MaxAttempts = parseInt(val)
	}
	if val := os.Getenv("RETRY_BASE_DELAY"); val != "" {
		cfg.Cache.Retry.BaseDelay = parseDuration(val)
	}
	if val := os.Getenv("RETRY_MAX_DELAY"); val != "" {
		cfg.Cache.Retry.MaxDelay = parseDuration(val)
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Logging.Level = strings.ToLower(val)
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		cfg.Logging.Format = strings.ToLower(val)
	}

	if val := os.Getenv("METRICS_ENABLED"); val != "" {
		cfg.Observability.MetricsEnabled = parseBool(val)
	}
	if val := os.Getenv("TRACING_ENABLED"); val != "" {
		cfg.Observability.TracingEnabled = parseBool(val)
	}
	if val := os.Getenv("OTLP_ENDPOINT"); val != "" {
		cfg.Observability.OTLPEndpoint = val
	}
	if val := os.Getenv("SERVICE_NAME"); val != "" {
		cfg.Observability.ServiceName = val
	}
}

// Malformed values fall through as zero and are caught by validation.

func parseInt(val string) int {
	parsed, _ := strconv.Atoi(val)
	return parsed
}

func parseBool(val string) bool {
	parsed, _ := strconv.ParseBool(val)
	return parsed
}

func parseFloat(val string) float64 {
	parsed, _ := strconv.ParseFloat(val, 64)
	return parsed
}

func parseDuration(val string) Duration {
	parsed, _ := time.ParseDuration(val)
	return Duration(parsed)
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
