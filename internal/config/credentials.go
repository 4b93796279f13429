package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Variable store keys shared with the orchestrator.
const (
	apiKeyVariable = "KENPOM_API_KEY"
	seasonVariable = "SEASON_YEAR"
)

// lookup is one credential source. Returning an empty string means "not set
// here"; an error aborts the chain.
type lookup func(ctx context.Context) (string, error)

// ResolveAPIKey resolves the ratings API credential. Sources are tried in
// order and the first non-empty value wins:
//  1. the direct config value (TRAPVIZ_API_KEY / KENPOM_API_KEY env, config file)
//  2. the orchestrator variable store (variables_file, key KENPOM_API_KEY)
//  3. a local .env file, which Load merges into source 1
//
// When every source is empty the error spells out all three remediation
// paths; that message is a usability contract, not decoration.
func (c *Config) ResolveAPIKey(ctx context.Context) (string, error) {
	lookups := []lookup{
		func(_ context.Context) (string, error) { return c.APIKey, nil },
		func(ctx context.Context) (string, error) { return c.storeVariable(ctx, apiKeyVariable) },
	}

	for _, fn := range lookups {
		key, err := fn(ctx)
		if err != nil {
			return "", err
		}
		if key != "" {
			return key, nil
		}
	}

	return "", fmt.Errorf("%w: KENPOM_API_KEY not found. Set it as:\n"+
		"1. Environment variable: KENPOM_API_KEY (or TRAPVIZ_API_KEY)\n"+
		"2. Orchestrator variable: add KENPOM_API_KEY to the variables file\n"+
		"3. Or in a .env file (for local development)", ErrMissingAPIKey)
}

// ResolveSeason resolves the season year: explicit config value first, then
// the orchestrator variable store, then fallback. Zero means unresolved.
func (c *Config) ResolveSeason(ctx context.Context, fallback int) (int, error) {
	if c.SeasonYear != 0 {
		return c.SeasonYear, nil
	}

	raw, err := c.storeVariable(ctx, seasonVariable)
	if err != nil {
		return 0, err
	}
	if raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return 0, fmt.Errorf("%w: %s is not a year: %q", ErrVariableStore, seasonVariable, raw)
		}
		return year, nil
	}

	return fallback, nil
}

// storeVariable reads one key from the orchestrator variable store. A missing
// store (no path configured, or file absent) is not an error: the scheduler
// only mounts it in orchestrated deployments.
func (c *Config) storeVariable(_ context.Context, key string) (string, error) {
	if c.VariablesFile == "" {
		return "", nil
	}

	raw, err := os.ReadFile(c.VariablesFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("%w: %v", ErrVariableStore, err)
	}

	// Flat JSON object; values may be strings or numbers.
	var vars map[string]any
	if err := json.Unmarshal(raw, &vars); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrVariableStore, c.VariablesFile, err)
	}

	switch v := vars[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %s has unsupported type %T", ErrVariableStore, key, v)
	}
}
