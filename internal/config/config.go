// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All loading functions accept context.Context as the first parameter.
// - External errors must be wrapped via this package's sentinel errors.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// APIBaseURL is the ratings API endpoint.
	APIBaseURL string `koanf:"api_base_url"`

	// APIKey is the direct-value credential source. When empty the
	// orchestrator variable store is consulted; see ResolveAPIKey.
	APIKey string `koanf:"api_key"`

	// SeasonYear is the ending year of the season to fetch. Zero means
	// unresolved; the variable store and then the compiled default apply.
	SeasonYear int `koanf:"season_year"`

	// OutputDir receives the chart artifacts.
	OutputDir string `koanf:"output_dir"`

	// HTTPTimeoutSeconds bounds the upstream request. The upstream source has
	// no timeout; this is a defensive addition.
	HTTPTimeoutSeconds int `koanf:"http_timeout_seconds"`

	// Schedule is the cron expression for scheduled mode.
	Schedule string `koanf:"schedule"`

	// RetryDelaySeconds is the fixed delay before the single retry of a
	// failed scheduled run.
	RetryDelaySeconds int `koanf:"retry_delay_seconds"`

	// ServeAddr is the health/metrics/artifact listen address in scheduled
	// mode, e.g. ":9090".
	ServeAddr string `koanf:"serve_addr"`

	// VariablesFile points at the orchestrator's variable store: a flat JSON
	// object mounted by the scheduler.
	VariablesFile string `koanf:"variables_file"`

	// ChromePath overrides browser binary discovery for the PNG export.
	ChromePath string `koanf:"chrome_path"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		APIBaseURL:         "https://kenpom.com/api.php",
		OutputDir:          "output",
		HTTPTimeoutSeconds: 30,
		Schedule:           "0 7 * * *",
		RetryDelaySeconds:  300,
		ServeAddr:          ":9090",
	}
}

// HTTPTimeout returns the upstream timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// RetryDelay returns the scheduled-mode retry delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}
