// Package metrics provides Prometheus metrics for the boringmap scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for score computations.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeAuth       = "auth_error"
	OutcomeUpstream   = "upstream_error"
	OutcomeTimeout    = "timeout"
	OutcomeInternal   = "internal_error"
)

// Manager owns every collector exposed by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	scoreBuckets     []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Scoring
	computations        *prometheus.CounterVec
	computationDuration prometheus.Histogram
	totalScore          prometheus.Histogram
	placesScored        prometheus.Histogram

	// Places provider
	pagesFetched      *prometheus.CounterVec
	pageFetchLatency  prometheus.Histogram
	recordsFetched    prometheus.Counter
	duplicatesDropped prometheus.Counter
	pageLimitHits     prometheus.Counter
	pagesPerRun       prometheus.Histogram
	pageDelayWaits    prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by package-level recorders

// customRegistry keeps the default Go collectors out of /metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // registry behind /healthz and /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a Manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "boringmap",
		subsystem:        "scoring",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		scoreBuckets:     []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.computations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "computations_total",
		Help:        "Score computations by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.computationDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "computation_duration_milliseconds",
		Help:        "Wall time of a score computation including page delays",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.totalScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "total_score",
		Help:        "Distribution of computed total scores",
		Buckets:     m.scoreBuckets,
		ConstLabels: m.constLabels,
	})

	m.placesScored = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "places_scored",
		Help:        "Number of places that matched at least one scored category",
		Buckets:     m.scoreBuckets,
		ConstLabels: m.constLabels,
	})

	m.pagesFetched = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "places",
		Name:        "pages_fetched_total",
		Help:        "Places search pages fetched, by provider status",
		ConstLabels: m.constLabels,
	}, []string{"status"})

	m.pageFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "places",
		Name:        "page_fetch_latency_milliseconds",
		Help:        "Latency of a single places search call",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.recordsFetched = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "places",
		Name:        "records_fetched_total",
		Help:        "Place records received from the provider",
		ConstLabels: m.constLabels,
	})

	m.duplicatesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "places",
		Name:        "duplicate_records_total",
		Help:        "Place records dropped because their id appeared on an earlier page",
		ConstLabels: m.constLabels,
	})

	m.pageLimitHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "places",
		Name:        "page_limit_exceeded_total",
		Help:        "Collections aborted because the provider kept returning continuation tokens",
		ConstLabels: m.constLabels,
	})

	m.pagesPerRun = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "places",
		Name:        "pages_per_collection",
		Help:        "Pages fetched per collection run",
		Buckets:     []float64{1, 2, 3, 4, 5, 10},
		ConstLabels: m.constLabels,
	})

	m.pageDelayWaits = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "places",
		Name:        "page_delay_waits_total",
		Help:        "Mandatory waits performed before continuation pages",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "requests_total",
		Help:        "HTTP requests by endpoint, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "request_duration_milliseconds",
		Help:        "HTTP request latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "errors_by_endpoint_total",
		Help:        "HTTP error responses by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.errorsByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "http",
		Name:        "errors_by_type_total",
		Help:        "HTTP error responses by error type and severity",
		ConstLabels: m.constLabels,
	}, []string{"error_type", "severity"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated",
		ConstLabels: m.constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "goroutines",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "system",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause in milliseconds",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		ConstLabels: m.constLabels,
	})
}

// Scoring.

// RecordComputation counts a finished computation and its latency.
func RecordComputation(outcome string, durationMs float64) {
	globalManager.computations.WithLabelValues(outcome).Inc()
	globalManager.computationDuration.Observe(durationMs)
}

// RecordScore observes the total score and number of scored places of a successful computation.
func RecordScore(totalScore, places int) {
	globalManager.totalScore.Observe(float64(totalScore))
	globalManager.placesScored.Observe(float64(places))
}

// Places provider.

// RecordPageFetch counts one provider call by status and observes its latency.
func RecordPageFetch(status string, latencyMs float64) {
	globalManager.pagesFetched.WithLabelValues(status).Inc()
	globalManager.pageFetchLatency.Observe(latencyMs)
}

// RecordRecordsFetched adds n received records.
func RecordRecordsFetched(n int) {
	globalManager.recordsFetched.Add(float64(n))
}

// RecordDuplicatesDropped adds n records dropped as duplicates.
func RecordDuplicatesDropped(n int) {
	globalManager.duplicatesDropped.Add(float64(n))
}

// RecordPageLimitExceeded counts an aborted runaway pagination.
func RecordPageLimitExceeded() {
	globalManager.pageLimitHits.Inc()
}

// RecordPagesPerCollection observes how many pages one collection needed.
func RecordPagesPerCollection(pages int) {
	globalManager.pagesPerRun.Observe(float64(pages))
}

// RecordPageDelayWait counts one inter-page wait.
func RecordPageDelayWait() {
	globalManager.pageDelayWaits.Inc()
}

// HTTP.

// RecordHTTPRequest counts a served request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes request latency.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint counts an error response for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType counts an error response by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// System.

// UpdateSystemMemoryUsage sets heap bytes in use.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
