package app

import "errors"

// Sentinel kinds for pipeline errors.
var (
	ErrNotConfigured = errors.New("pipeline missing fetcher or renderer")
)
