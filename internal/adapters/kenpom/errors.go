package kenpom

import (
	"errors"
	"fmt"
)

// Sentinel kinds for ratings client errors.
var (
	ErrUpstream = errors.New("ratings request failed")
	ErrDecode   = errors.New("ratings response decode failed")
)

// StatusError is a non-success upstream response. It carries the status code
// and (truncated) body so the entry point can surface both.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ratings request returned status %d: %s", e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrUpstream) match status errors too.
func (e *StatusError) Is(target error) bool {
	return target == ErrUpstream
}
