// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and BORING_* environment variables on top.
// - Validation problems are reported together and wrap ErrInvalidConfig.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`

	// Environment is reported by GET /test. "development" exposes error details.
	Environment string `koanf:"environment"`

	// PlacesAPIKey is the Google Places credential. GOOGLE_API_KEY is used when unset.
	PlacesAPIKey string `koanf:"places_api_key"`

	// PlacesBaseURL overrides the Maps API host.
	PlacesBaseURL string `koanf:"places_base_url"`

	// PlacesTimeoutMS bounds a single places request.
	PlacesTimeoutMS int `koanf:"places_timeout_ms"`

	// PlacesQPS limits outgoing places requests per second. Zero disables it.
	PlacesQPS float64 `koanf:"places_qps"`

	// RadiusMeters is the search radius around the requested point.
	RadiusMeters int `koanf:"radius_meters"`

	// PageDelayMS is the wait before each continuation page.
	PageDelayMS int `koanf:"page_delay_ms"`

	// MaxPages caps pages per computation.
	MaxPages int `koanf:"max_pages"`

	// ComputeTimeoutMS bounds a whole computation including page delays.
	ComputeTimeoutMS int `koanf:"compute_timeout_ms"`

	// CategoryWeights maps place types to points. When set it replaces the defaults.
	CategoryWeights map[string]int `koanf:"category_weights"`

	// Tracing.
	TracingEnabled  bool   `koanf:"tracing_enabled"`
	TracingEndpoint string `koanf:"tracing_endpoint"`
	ServiceName     string `koanf:"service_name"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":5000",
		Environment:      "production",
		PlacesTimeoutMS:  10_000,
		RadiusMeters:     10_000,
		PageDelayMS:      2000,
		MaxPages:         10,
		ComputeTimeoutMS: 60_000,
		CategoryWeights: map[string]int{
			"bar":              1,
			"night_club":       2,
			"casino":           3,
			"liquor_store":     8,
			"place_of_worship": 7,
		},
		TracingEndpoint: "localhost:4317",
		ServiceName:     "boringmap",
	}
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if strings.TrimSpace(c.PlacesAPIKey) == "" {
		errs = append(errs, errors.New("places_api_key (or GOOGLE_API_KEY) must be set"))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log_format must be text or json, got %q", c.LogFormat))
	}
	if c.RadiusMeters <= 0 {
		errs = append(errs, fmt.Errorf("radius_meters must be positive, got %d", c.RadiusMeters))
	}
	if c.PageDelayMS < 0 {
		errs = append(errs, fmt.Errorf("page_delay_ms must not be negative, got %d", c.PageDelayMS))
	}
	if c.MaxPages <= 0 {
		errs = append(errs, fmt.Errorf("max_pages must be positive, got %d", c.MaxPages))
	}
	if c.ComputeTimeoutMS < 0 {
		errs = append(errs, fmt.Errorf("compute_timeout_ms must not be negative, got %d", c.ComputeTimeoutMS))
	}
	if c.PlacesQPS < 0 {
		errs = append(errs, fmt.Errorf("places_qps must not be negative, got %v", c.PlacesQPS))
	}
	if len(c.CategoryWeights) == 0 {
		errs = append(errs, errors.New("category_weights must not be empty"))
	}
	for category, points := range c.CategoryWeights {
		if points <= 0 {
			errs = append(errs, fmt.Errorf("category_weights[%s] must be positive, got %d", category, points))
		}
	}
	if c.TracingEnabled && c.TracingEndpoint == "" {
		errs = append(errs, errors.New("tracing_endpoint must be set when tracing is enabled"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// PageDelay returns PageDelayMS as a duration.
func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelayMS) * time.Millisecond
}

// ComputeTimeout returns ComputeTimeoutMS as a duration.
func (c *Config) ComputeTimeout() time.Duration {
	return time.Duration(c.ComputeTimeoutMS) * time.Millisecond
}

// PlacesTimeout returns PlacesTimeoutMS as a duration.
func (c *Config) PlacesTimeout() time.Duration {
	return time.Duration(c.PlacesTimeoutMS) * time.Millisecond
}

// IsDevelopment reports whether error details may be shown to clients.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
