// Package metrics provides Prometheus metrics for the significance engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Engine metrics - one counter/error/latency triple per operation
	scoresComputed    prometheus.Counter
	scoringErrors     prometheus.Counter
	scoreLatency      prometheus.Histogram
	integralsComputed prometheus.Counter
	integralErrors    prometheus.Counter
	integralLatency   prometheus.Histogram
	blamesComputed    prometheus.Counter
	blameErrors       prometheus.Counter
	blameLatency      prometheus.Histogram

	// Curve cache health, polled from the integral engine
	curveCacheHits   prometheus.Gauge
	curveCacheMisses prometheus.Gauge
	curveCacheSize   prometheus.Gauge

	// Calibration progress
	calibrationTrials prometheus.Counter

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "evsig",
		subsystem:        "significance",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.scoresComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scores_computed_total",
		Help:      "Total number of windowed significance scores computed",
	})
	m.scoringErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_errors_total",
		Help:      "Total number of score requests rejected or failed",
	})
	m.scoreLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_latency_milliseconds",
		Help:      "Histogram of score computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.integralsComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "integrals_computed_total",
		Help:      "Total number of significance integrals computed",
	})
	m.integralErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "integral_errors_total",
		Help:      "Total number of integral requests rejected or failed",
	})
	m.integralLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "integral_latency_milliseconds",
		Help:      "Histogram of integral computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.blamesComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "blames_computed_total",
		Help:      "Total number of blame decompositions computed",
	})
	m.blameErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "blame_errors_total",
		Help:      "Total number of blame requests rejected or failed (includes NaN faults)",
	})
	m.blameLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "blame_latency_milliseconds",
		Help:      "Histogram of blame computation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.curveCacheHits = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "curve_cache_hits",
		Help:      "Cumulative probability-curve cache hits reported by the integral engine",
	})
	m.curveCacheMisses = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "curve_cache_misses",
		Help:      "Cumulative probability-curve cache misses reported by the integral engine",
	})
	m.curveCacheSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "curve_cache_size",
		Help:      "Number of probability curves currently cached",
	})

	m.calibrationTrials = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "calibration_trials_total",
		Help:      "Total number of Monte-Carlo calibration trials executed",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// RecordScore records one successful score computation and its latency.
func RecordScore(latencyMs float64) {
	globalManager.scoresComputed.Inc()
	globalManager.scoreLatency.Observe(latencyMs)
}

// RecordScoringError increments the scoring errors counter.
func RecordScoringError() {
	globalManager.scoringErrors.Inc()
}

// RecordIntegral records one successful integral computation and its latency.
func RecordIntegral(latencyMs float64) {
	globalManager.integralsComputed.Inc()
	globalManager.integralLatency.Observe(latencyMs)
}

// RecordIntegralError increments the integral errors counter.
func RecordIntegralError() {
	globalManager.integralErrors.Inc()
}

// RecordBlame records one successful blame decomposition and its latency.
func RecordBlame(latencyMs float64) {
	globalManager.blamesComputed.Inc()
	globalManager.blameLatency.Observe(latencyMs)
}

// RecordBlameError increments the blame errors counter.
func RecordBlameError() {
	globalManager.blameErrors.Inc()
}

// UpdateCurveCache publishes the integral engine's cache statistics.
func UpdateCurveCache(hits, misses uint64, size int) {
	globalManager.curveCacheHits.Set(float64(hits))
	globalManager.curveCacheMisses.Set(float64(misses))
	globalManager.curveCacheSize.Set(float64(size))
}

// RecordCalibrationTrial increments the calibration trial counter.
func RecordCalibrationTrial() {
	globalManager.calibrationTrials.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
