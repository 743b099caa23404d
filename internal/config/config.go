// Package config loads the service configuration in layers: code defaults
// first, then an optional YAML file, then environment variables. The loaded
// tree is validated before anything starts.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment names a deployment tier.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Duration is a time.Duration that YAML can carry as a string ("90s", "5m")
// or as integer nanoseconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var nanos int64
	if err := value.Decode(&nanos); err != nil {
		return fmt.Errorf("invalid duration %q", value.Value)
	}
	*d = Duration(nanos)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root of the service configuration.
type Config struct {
	Environment   Environment   `yaml:"environment" validate:"required,oneof=development staging production"`
	Server        Server        `yaml:"server"`
	Upstream      Upstream      `yaml:"upstream"`
	Cache         Cache         `yaml:"cache"`
	Logging       Logging       `yaml:"logging"`
	Observability Observability `yaml:"observability"`
}

// Server configures the HTTP listener.
type Server struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port" validate:"gte=1,lte=65535"`
	RequestTimeout  Duration `yaml:"request_timeout"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	IdleTimeout     Duration `yaml:"idle_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
}

// Address returns the host:port the server listens on.
func (s Server) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Upstream locates the hosted Postgres API that owns the HR data.
type Upstream struct {
	URL            string  `yaml:"url" validate:"required,url"`
	APIKey         string  `yaml:"api_key" validate:"required"`
	Schema         string  `yaml:"schema"`
	HealthEndpoint string  `yaml:"health_endpoint"`
	Breaker        Breaker `yaml:"breaker"`
}

// Breaker tunes the circuit breaker around upstream calls.
type Breaker struct {
	MaxRequests      uint32   `yaml:"max_requests"`
	Interval         Duration `yaml:"interval"`
	Timeout          Duration `yaml:"timeout"`
	FailureThreshold float64  `yaml:"failure_threshold" validate:"gte=0,lte=1"`
	MinRequests      uint32   `yaml:"min_requests"`
}

// Cache tunes the query cache and its fetch retries.
type Cache struct {
	Dir              string   `yaml:"dir"`
	InMemory         bool     `yaml:"in_memory"`
	MaxEntries       int      `yaml:"max_entries" validate:"gte=0"`
	DefaultTTL       Duration `yaml:"default_ttl"`
	SweepProbability float64  `yaml:"sweep_probability" validate:"gte=0,lte=1"`
	ProbeTimeout     Duration `yaml:"probe_timeout"`
	WarmOnStart      bool     `yaml:"warm_on_start"`
	Retry            Retry    `yaml:"retry"`
}

// Retry shapes the exponential backoff between fetch attempts.
type Retry struct {
	MaxAttempts int      `yaml:"max_attempts" validate:"gte=1"`
	BaseDelay   Duration `yaml:"base_delay"`
	MaxDelay    Duration `yaml:"max_delay"`
	Jitter      float64  `yaml:"jitter" validate:"gte=0,lte=1"`
}

// Logging selects the log level and encoder.
type Logging struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// Observability toggles the metrics endpoint and trace exporter.
type Observability struct {
	MetricsEnabled bool   `yaml:"metrics_enabled"`
	MetricsPath    string `yaml:"metrics_path"`
	TracingEnabled bool   `yaml:"tracing_enabled"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
	ServiceName    string `yaml:"service_name"`
}

// Validate checks the configuration against its declared constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the service runs in the development tier,
// which enables console logging and config hot reload.
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}
