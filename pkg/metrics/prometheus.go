// Package metrics provides Prometheus metrics for the Conto Termico engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeComputed     = "computed"
	OutcomePartial      = "partial"
	OutcomeUnrecognized = "unrecognized"

	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeUnavailable = "unavailable"
)

// Manager manages all Prometheus metrics for the engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Rule engine
	classifications *prometheus.CounterVec
	eligibility     *prometheus.CounterVec
	estimates       *prometheus.CounterVec
	checklists      *prometheus.CounterVec
	caseLookups     *prometheus.CounterVec

	// Case store
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec
	storeRecords *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "termico",
		subsystem:        "engine",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     m.histogramBuckets,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) initializeMetrics() {
	m.classifications = m.counterVec("classifications_total",
		"Intervention descriptions classified, by resulting category", "category")
	m.eligibility = m.counterVec("eligibility_evaluations_total",
		"Eligibility evaluations by category and admissibility outcome", "category", "outcome")
	m.estimates = m.counterVec("estimates_total",
		"Incentive estimates by category and outcome", "category", "outcome")
	m.checklists = m.counterVec("checklists_total",
		"Document checklists built", "category", "applicant_type", "procedure")
	m.caseLookups = m.counterVec("case_lookups_total",
		"Case status lookups by outcome", "outcome")

	m.storeLatency = m.histogramVec("case_store_latency_milliseconds",
		"Case store operation latency in milliseconds", "store", "operation")
	m.storeErrors = m.counterVec("case_store_errors_total",
		"Case store operations that failed", "store", "operation")
	m.storeRecords = promauto.With(m.registry).NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "case_store_records",
		Help:        "Records held by in-process case stores",
		ConstLabels: m.constLabels,
	}, []string{"store"})

	m.httpRequests = m.counterVec("http_requests_total",
		"Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds",
		"HTTP request duration in milliseconds", "endpoint", "method", "status_code")
	m.errorRateByEndpoint = m.counterVec("errors_by_endpoint_total",
		"Total number of errors by endpoint", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordClassification counts a classification result.
func RecordClassification(category string) {
	globalManager.classifications.WithLabelValues(category).Inc()
}

// RecordEligibility counts an eligibility verdict.
func RecordEligibility(category, outcome string) {
	globalManager.eligibility.WithLabelValues(category, outcome).Inc()
}

// RecordEstimate counts an estimate by outcome.
func RecordEstimate(category, outcome string) {
	globalManager.estimates.WithLabelValues(category, outcome).Inc()
}

// RecordChecklist counts a built checklist.
func RecordChecklist(category, applicantType, procedure string) {
	globalManager.checklists.WithLabelValues(category, applicantType, procedure).Inc()
}

// RecordCaseLookup counts a case lookup by outcome.
func RecordCaseLookup(outcome string) {
	globalManager.caseLookups.WithLabelValues(outcome).Inc()
}

// RecordStoreLatency records a case store operation latency in milliseconds.
func RecordStoreLatency(store, operation string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(store, operation).Observe(latencyMs)
}

// RecordStoreError counts a failed case store operation.
func RecordStoreError(store, operation string) {
	globalManager.storeErrors.WithLabelValues(store, operation).Inc()
}

// UpdateStoreRecords sets the record count of an in-process store.
func UpdateStoreRecords(store string, count int) {
	globalManager.storeRecords.WithLabelValues(store).Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
