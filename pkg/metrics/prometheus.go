// Package metrics provides Prometheus metrics for the trapviz pipeline.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Run Metrics - One pipeline invocation end to end
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram

	// Acquisition Metrics - The single upstream GET
	fetchDuration  prometheus.Histogram
	upstreamStatus *prometheus.CounterVec

	// Classification Metrics - Sizes of the partition
	teamsFetched prometheus.Gauge
	teamsInside  prometheus.Gauge

	// Rendering Metrics
	rasterExportFailures prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "trapviz",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.runsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "runs_total",
			Help:      "Total number of pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Histogram of full fetch-classify-render run duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.fetchDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fetch_duration_seconds",
		Help:      "Histogram of upstream ratings fetch duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.upstreamStatus = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "upstream_status_total",
			Help:      "Total upstream HTTP responses by status code",
		},
		[]string{"code"},
	)

	m.teamsFetched = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_fetched",
		Help:      "Number of team ratings returned by the last fetch",
	})

	m.teamsInside = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "teams_inside_region",
		Help:      "Number of teams classified inside the highlight region on the last run",
	})

	m.rasterExportFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "raster_export_failures_total",
		Help:      "Total number of best-effort PNG export failures",
	})
}

// Package-level helpers operating on the global manager.

// RecordRunOutcome increments the run counter for the given outcome ("success" or "failure").
func RecordRunOutcome(outcome string) {
	if globalManager != nil && globalManager.enabled {
		globalManager.runsTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordRunDuration observes a full run duration in seconds.
func RecordRunDuration(seconds float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.runDuration.Observe(seconds)
	}
}

// RecordFetchDuration observes an upstream fetch duration in seconds.
func RecordFetchDuration(seconds float64) {
	if globalManager != nil && globalManager.enabled {
		globalManager.fetchDuration.Observe(seconds)
	}
}

// RecordUpstreamStatus counts an upstream HTTP status code.
func RecordUpstreamStatus(code int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.upstreamStatus.WithLabelValues(strconv.Itoa(code)).Inc()
	}
}

// UpdateTeamsFetched sets the size of the last fetched rating set.
func UpdateTeamsFetched(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.teamsFetched.Set(float64(count))
	}
}

// UpdateTeamsInside sets the size of the inside partition from the last run.
func UpdateTeamsInside(count int) {
	if globalManager != nil && globalManager.enabled {
		globalManager.teamsInside.Set(float64(count))
	}
}

// RecordRasterExportFailure counts a failed best-effort PNG export.
func RecordRasterExportFailure() {
	if globalManager != nil && globalManager.enabled {
		globalManager.rasterExportFailures.Inc()
	}
}

// GetRegistry returns the custom registry for exposing via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
