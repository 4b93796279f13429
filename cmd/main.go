// Command trapviz runs the ratings pipeline: fetch a season's team efficiency
// ratings, classify them against the trapezoid, render the chart.
//
// With -once it runs a single pass and exits; otherwise it runs on the daily
// schedule and serves health, metrics, and the latest artifacts over HTTP.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hoopsight/trapviz/internal/adapters/httpserv"
	"github.com/hoopsight/trapviz/internal/app"
	"github.com/hoopsight/trapviz/internal/config"
	"github.com/hoopsight/trapviz/internal/ratings"
	"github.com/hoopsight/trapviz/internal/scheduler"
	"github.com/hoopsight/trapviz/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	year := flag.Int("year", 0, "season ending year; 0 resolves from config, the variable store, then the default")
	out := flag.String("out", "", "output directory override")
	once := flag.Bool("once", false, "run a single pass and exit instead of scheduling")
	flag.Parse()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> .env -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since the logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Initialize logging
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to sync logger: " + err.Error() + "\n")
		}
	}()

	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if *out != "" {
		cfg.OutputDir = *out
	}
	if *year != 0 {
		cfg.SeasonYear = *year
	}

	season, err := cfg.ResolveSeason(ctx, ratings.DefaultSeason)
	if err != nil {
		log.Error(ctx, "failed to resolve season", logger.Error(err))
		os.Exit(1)
	}

	svc, err := app.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Error(ctx, "failed to build pipeline", logger.Error(err))
		os.Exit(1)
	}

	if *once {
		if _, err := svc.Run(ctx, season); err != nil {
			// Run already logged the failure with its run id.
			os.Exit(1)
		}
		return
	}

	runScheduled(ctx, cfg, svc, season)
}

// runScheduled owns the daily loop: cron trigger plus the serving surface.
func runScheduled(ctx context.Context, cfg *config.Config, svc *app.Service, season int) {
	log := logger.Get()

	sched := scheduler.New(
		func(ctx context.Context) error {
			// Re-resolve each trigger so a variable-store override takes
			// effect without a restart.
			year, err := cfg.ResolveSeason(ctx, season)
			if err != nil {
				return err
			}
			_, err = svc.Run(ctx, year)
			return err
		},
		scheduler.WithSchedule(cfg.Schedule),
		scheduler.WithRetryDelay(cfg.RetryDelay()),
	)
	if err := sched.Start(ctx); err != nil {
		log.Error(ctx, "failed to start scheduler", logger.Error(err))
		os.Exit(1)
	}
	defer sched.Stop()

	// HTTP mux and routes.
	mux := http.NewServeMux()
	httpserv.NewServer(cfg.OutputDir).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.ServeAddr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.ServeAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "stopped")
}
