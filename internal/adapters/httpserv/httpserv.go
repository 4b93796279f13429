// Package httpserv exposes the scheduled-mode serving surface: liveness,
// metrics, and the latest chart artifacts. One-shot runs never start it.
package httpserv

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoopsight/trapviz/pkg/logger"
	"github.com/hoopsight/trapviz/pkg/metrics"
)

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// Server wires the serving surface onto a mux.
type Server struct {
	chartDir string
	started  time.Time
	log      logger.Logger
}

// NewServer creates a Server exposing the given artifact directory.
func NewServer(chartDir string, opts ...Option) *Server {
	s := &Server{
		chartDir: chartDir,
		started:  time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.log == nil {
		s.log = logger.Get()
	}

	return s
}

// Register mounts all routes on the mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.Handle("/charts/", http.StripPrefix("/charts/", http.FileServer(http.Dir(s.chartDir))))

	s.log.Info(ctx, "serving surface registered", logger.String("chartDir", s.chartDir))
}

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(healthResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
	})
}
