package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// Analysis gateway metrics
	AnalysisRequestsTotal  *prometheus.CounterVec
	AnalysisDuration       *prometheus.HistogramVec
	AnalysisFallbacksTotal *prometheus.CounterVec

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec

	// Market simulation metrics
	DriftTicksTotal prometheus.Counter
	WatchlistSize   prometheus.Gauge
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// sizeBuckets are histogram buckets for response sizes (in bytes)
var sizeBuckets = []float64{100, 1000, 10000, 100000, 1000000}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		AnalysisRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bond_terminal",
				Subsystem: "analysis",
				Name:      "requests_total",
				Help:      "Total number of generative analysis requests",
			},
			[]string{"operation"},
		),
		AnalysisDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bond_terminal",
				Subsystem: "analysis",
				Name:      "duration_seconds",
				Help:      "Duration of generative analysis operations in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"operation", "status"},
		),
		AnalysisFallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bond_terminal",
				Subsystem: "analysis",
				Name:      "fallbacks_total",
				Help:      "Total number of analysis operations that degraded to a fallback value",
			},
			[]string{"operation", "reason"},
		),
		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bond_terminal",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bond_terminal",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bond_terminal",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bond_terminal",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bond_terminal",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),
		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bond_terminal",
				Subsystem: "http",
				Name:      "response_size_bytes",
				Help:      "Size of HTTP responses in bytes",
				Buckets:   sizeBuckets,
			},
			[]string{"method", "path"},
		),
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "bond_terminal",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bond_terminal",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
		DriftTicksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "bond_terminal",
				Subsystem: "market",
				Name:      "drift_ticks_total",
				Help:      "Total number of price drift simulation ticks",
			},
		),
		WatchlistSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "bond_terminal",
				Subsystem: "market",
				Name:      "watchlist_size",
				Help:      "Number of bonds on the watchlist",
			},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// SetMetrics overrides the global metrics instance (useful for testing)
func SetMetrics(m *Metrics) {
	globalMetrics = m
}

// RecordAnalysisRequest records a generative analysis request
func (m *Metrics) RecordAnalysisRequest(operation string) {
	m.AnalysisRequestsTotal.WithLabelValues(operation).Inc()
}

// RecordAnalysisFallback records an analysis operation degrading to its fallback
func (m *Metrics) RecordAnalysisFallback(operation, reason string) {
	m.AnalysisFallbacksTotal.WithLabelValues(operation, reason).Inc()
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError records an external API error
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration, responseSize int) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
}

// SetCircuitBreakerState sets the state gauge for a circuit breaker
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}

// RecordDriftTick records one watchlist drift tick
func (m *Metrics) RecordDriftTick() {
	m.DriftTicksTotal.Inc()
}

// SetWatchlistSize sets the watchlist size gauge
func (m *Metrics) SetWatchlistSize(n int) {
	m.WatchlistSize.Set(float64(n))
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{start: time.Now(), metrics: m}
}

// ObserveAnalysis records the elapsed time as an analysis duration
func (t *Timer) ObserveAnalysis(operation, status string) {
	t.metrics.AnalysisDuration.WithLabelValues(operation, status).Observe(time.Since(t.start).Seconds())
}

// ObserveExternalAPI records the elapsed time as an external API duration
func (t *Timer) ObserveExternalAPI(service, operation string) {
	t.metrics.ExternalAPIDuration.WithLabelValues(service, operation).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
