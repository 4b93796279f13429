// Package app wires the fetch, classify, render pipeline into a single
// service invoked by the CLI or the scheduler.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hoopsight/trapviz/internal/adapters/chart"
	"github.com/hoopsight/trapviz/internal/adapters/kenpom"
	"github.com/hoopsight/trapviz/internal/config"
	"github.com/hoopsight/trapviz/internal/geometry"
	"github.com/hoopsight/trapviz/internal/ratings"
	"github.com/hoopsight/trapviz/pkg/logger"
	"github.com/hoopsight/trapviz/pkg/metrics"
)

// Artifact filenames are fixed: each run overwrites the previous day's files
// so the serving layer and the scheduler always know the path.
const (
	HTMLArtifact = "kenpom_ratings.html"
	PNGArtifact  = "kenpom_ratings.png"
)

// Fetcher acquires the rating set for a season.
type Fetcher interface {
	FetchRatings(ctx context.Context, year int) ([]ratings.TeamRating, error)
}

// ChartRenderer writes the chart artifacts.
type ChartRenderer interface {
	WriteHTML(in chart.Input, path string) error
	ExportPNG(ctx context.Context, htmlPath, pngPath string) error
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the ratings source.
func WithFetcher(f Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithRenderer sets the chart renderer.
func WithRenderer(r ChartRenderer) Option {
	return func(s *Service) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithOutputDir sets the artifact directory.
func WithOutputDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.outputDir = dir
		}
	}
}

// WithRegion overrides the highlight region.
func WithRegion(region geometry.Polygon) Option {
	return func(s *Service) {
		if len(region) >= 3 {
			s.region = region
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// Service runs the pipeline. One Run is a single synchronous pass; nothing is
// retained between runs beyond the artifact files.
type Service struct {
	fetcher   Fetcher
	renderer  ChartRenderer
	outputDir string
	region    geometry.Polygon
	log       logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		outputDir: "output",
		region:    ratings.HighlightRegion(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.Get()
	}

	return s
}

// NewFromConfig builds the production pipeline: resolves the credential,
// constructs the ratings client and the chart renderer. Credential resolution
// happens here, before any HTTP work, so a missing key fails fast with the
// full remediation message.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Service, error) {
	apiKey, err := cfg.ResolveAPIKey(ctx)
	if err != nil {
		return nil, err
	}

	client := kenpom.NewClient(apiKey,
		kenpom.WithBaseURL(cfg.APIBaseURL),
		kenpom.WithTimeout(cfg.HTTPTimeout()),
	)
	renderer := chart.NewRenderer(
		chart.WithChromePath(cfg.ChromePath),
	)

	return New(
		WithFetcher(client),
		WithRenderer(renderer),
		WithOutputDir(cfg.OutputDir),
	), nil
}

// Run executes one fetch, classify, render pass for the season ending in
// year. It returns the path of the interactive artifact. Failures are logged
// with the run id and returned; the caller (scheduler or CLI) decides what
// happens next.
func (s *Service) Run(ctx context.Context, year int) (string, error) {
	runID := uuid.NewString()
	start := time.Now()

	path, err := s.run(ctx, runID, year)
	if err != nil {
		s.log.Error(ctx, "pipeline run failed",
			logger.String("runID", runID),
			logger.Int("year", year),
			logger.Error(err),
		)
		metrics.RecordRunOutcome("failure")
		return "", fmt.Errorf("run %s: %w", runID, err)
	}

	metrics.RecordRunOutcome("success")
	metrics.RecordRunDuration(time.Since(start).Seconds())
	s.log.Info(ctx, "pipeline run complete",
		logger.String("runID", runID),
		logger.String("artifact", path),
		logger.Float64("seconds", time.Since(start).Seconds()),
	)
	return path, nil
}

func (s *Service) run(ctx context.Context, runID string, year int) (string, error) {
	if s.fetcher == nil || s.renderer == nil {
		return "", ErrNotConfigured
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	teams, err := s.fetcher.FetchRatings(ctx, year)
	if err != nil {
		return "", err
	}

	inside, outside := ratings.Classify(teams, s.region)
	metrics.UpdateTeamsInside(len(inside))

	htmlPath := filepath.Join(s.outputDir, HTMLArtifact)
	in := chart.Input{
		Inside:  inside,
		Outside: outside,
		Region:  s.region,
		Year:    year,
	}
	if err := s.renderer.WriteHTML(in, htmlPath); err != nil {
		return "", err
	}
	s.log.Info(ctx, "chart saved",
		logger.String("runID", runID),
		logger.String("path", htmlPath),
	)

	// Raster export is best-effort: the browser engine may not be installed,
	// and its absence must not fail the run.
	pngPath := filepath.Join(s.outputDir, PNGArtifact)
	if err := s.renderer.ExportPNG(ctx, htmlPath, pngPath); err != nil {
		s.log.Warn(ctx, "could not save PNG image",
			logger.String("runID", runID),
			logger.Error(err),
		)
		metrics.RecordRasterExportFailure()
	} else {
		s.log.Info(ctx, "PNG saved",
			logger.String("runID", runID),
			logger.String("path", pngPath),
		)
	}

	s.logSummary(ctx, runID, inside)

	return htmlPath, nil
}

// logSummary reports the highlighted teams, metrics to one decimal place.
func (s *Service) logSummary(ctx context.Context, runID string, inside []ratings.TeamRating) {
	s.log.Info(ctx, "teams inside the trapezoid",
		logger.String("runID", runID),
		logger.Int("count", len(inside)),
	)
	for _, t := range inside {
		s.log.Info(ctx, "highlighted team",
			logger.String("team", t.TeamName),
			logger.String("tempo", fmt.Sprintf("%.1f", t.AdjTempo)),
			logger.String("adjEM", fmt.Sprintf("%.1f", t.AdjEM)),
		)
	}
}
