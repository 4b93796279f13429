// Command mockapi serves a synthetic ratings season on the production API
// contract, for developing the pipeline without a real credential.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hoopsight/trapviz/internal/mockratings"
	"github.com/hoopsight/trapviz/pkg/logger"
)

const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	addr := flag.String("addr", ":8077", "listen address")
	key := flag.String("key", "local-dev-key", "bearer token to require; empty disables auth")
	teams := flag.Int("teams", 364, "number of synthetic teams")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.Get()

	gen := mockratings.NewGenerator(
		mockratings.WithTeamCount(*teams),
		mockratings.WithSeed(*seed),
	)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mockratings.Handler(*key, gen),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "mock ratings API listening",
			logger.String("addr", *addr),
			logger.Int("teams", *teams),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("mock API server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info(context.Background(), "mock ratings API stopped")
}
