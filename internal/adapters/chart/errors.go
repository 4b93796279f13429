package chart

import "errors"

// Sentinel kinds for rendering errors.
var (
	ErrRender    = errors.New("chart render failed")
	ErrExport    = errors.New("png export failed")
	ErrNoBrowser = errors.New("no browser engine available")
)
