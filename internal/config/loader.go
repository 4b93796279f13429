package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// dotenvFile is the local developer credential file. Never present in
// production; loading it is always best-effort.
const dotenvFile = ".env"

// Load builds a Config by layering defaults, dotenv, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env in the working directory (merged into the process env, never overrides)
//  3. file (YAML) if TRAPVIZ_CONFIG is set
//  4. env (prefix TRAPVIZ_)
func Load(ctx context.Context) (*Config, error) {
	// Local developer convenience: surface .env values as process env vars so
	// the direct-value credential source sees them.
	if _, err := os.Stat(dotenvFile); err == nil {
		if err := godotenv.Load(dotenvFile); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, dotenvFile, err)
		}
	}

	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("TRAPVIZ_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: TRAPVIZ_API_KEY, TRAPVIZ_OUTPUT_DIR, ...
	// Map env keys like TRAPVIZ_OUTPUT_DIR -> output_dir (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("TRAPVIZ_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "trapviz_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Compatibility with the upstream credential name: a bare KENPOM_API_KEY
	// env var (including one sourced from .env) acts as the direct value.
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("KENPOM_API_KEY")
	}

	// Basic validation
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}
	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("%w: http_timeout_seconds must be positive", ErrInvalidConfig)
	}
	return &cfg, nil
}
