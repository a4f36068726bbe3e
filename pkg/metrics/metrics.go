// Package metrics provides Prometheus metrics for the scorecast service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace string
	registry  prometheus.Registerer

	// Prediction workflow
	predictionsInserted  prometheus.Counter
	predictionsDuplicate prometheus.Counter
	predictionsInvalid   prometheus.Counter

	// Session lifecycle
	sessionsActive        prometheus.Gauge
	sessionEvents         *prometheus.CounterVec
	walkthroughsCompleted prometheus.Counter
	walkthroughsAborted   prometheus.Counter

	// Settlement ingestion
	awardsApplied   prometheus.Counter
	awardsDuplicate prometheus.Counter
	queueSize       prometheus.Gauge
	queueCapacity   prometheus.Gauge
	queueErrors     prometheus.Counter
	workerErrors    prometheus.Counter

	// Store performance
	storeQueryLatency prometheus.Histogram
	storeWriteLatency prometheus.Histogram

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	usersTotal prometheus.Gauge
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithRegistry sets the registerer collectors are attached to.
func WithRegistry(r prometheus.Registerer) Option {
	return func(m *Manager) {
		if r != nil {
			m.registry = r
		}
	}
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry keeps default Go collectors out of /healthz output.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // singleton registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers all collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "scorecast",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}

	f := promauto.With(m.registry)

	m.predictionsInserted = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "predictions_inserted_total",
		Help:      "Predictions accepted and persisted.",
	})
	m.predictionsDuplicate = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "predictions_duplicate_total",
		Help:      "Prediction submissions rejected by the uniqueness constraint.",
	})
	m.predictionsInvalid = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "predictions_invalid_total",
		Help:      "Prediction submissions rejected by score format validation.",
	})

	m.sessionsActive = f.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "sessions_active",
		Help:      "Sessions currently tracked in memory.",
	})
	m.sessionEvents = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "session_events_total",
		Help:      "Conversation events processed, labeled by action.",
	}, []string{"action"})
	m.walkthroughsCompleted = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "walkthroughs_completed_total",
		Help:      "Prediction walkthroughs that reached the end of the match queue.",
	})
	m.walkthroughsAborted = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "walkthroughs_aborted_total",
		Help:      "Prediction walkthroughs aborted on a duplicate submission.",
	})

	m.awardsApplied = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "awards_applied_total",
		Help:      "Settlement point awards applied to the store.",
	})
	m.awardsDuplicate = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "awards_duplicate_total",
		Help:      "Settlement awards skipped as already-seen event ids.",
	})
	m.queueSize = f.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "award_queue_size",
		Help:      "Awards currently waiting in the queue.",
	})
	m.queueCapacity = f.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "award_queue_capacity",
		Help:      "Configured capacity of the award queue.",
	})
	m.queueErrors = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "award_queue_enqueue_errors_total",
		Help:      "Failed award enqueue attempts (full or closed queue).",
	})
	m.workerErrors = f.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "award_worker_errors_total",
		Help:      "Errors while applying awards to the store.",
	})

	m.storeQueryLatency = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "store_query_duration_ms",
		Help:      "Latency of store read operations in milliseconds.",
		Buckets:   prometheus.DefBuckets,
	})
	m.storeWriteLatency = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "store_write_duration_ms",
		Help:      "Latency of store write operations in milliseconds.",
		Buckets:   prometheus.DefBuckets,
	})

	m.httpRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})

	m.usersTotal = f.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "users_total",
		Help:      "Users known to the store.",
	})

	return m
}

// Package-level helpers delegating to the global manager.

func RecordPredictionInserted()  { globalManager.predictionsInserted.Inc() }
func RecordPredictionDuplicate() { globalManager.predictionsDuplicate.Inc() }
func RecordPredictionInvalid()   { globalManager.predictionsInvalid.Inc() }

func UpdateActiveSessions(n int) { globalManager.sessionsActive.Set(float64(n)) }

func RecordSessionEvent(action string) {
	globalManager.sessionEvents.WithLabelValues(action).Inc()
}

func RecordWalkthroughCompleted() { globalManager.walkthroughsCompleted.Inc() }
func RecordWalkthroughAborted()   { globalManager.walkthroughsAborted.Inc() }

func RecordAwardApplied()   { globalManager.awardsApplied.Inc() }
func RecordAwardDuplicate() { globalManager.awardsDuplicate.Inc() }

func UpdateQueueSize(n int)     { globalManager.queueSize.Set(float64(n)) }
func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }
func RecordQueueEnqueueError()  { globalManager.queueErrors.Inc() }
func RecordWorkerError()        { globalManager.workerErrors.Inc() }

func RecordStoreQueryLatency(ms float64) { globalManager.storeQueryLatency.Observe(ms) }
func RecordStoreWriteLatency(ms float64) { globalManager.storeWriteLatency.Observe(ms) }

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method).Observe(ms)
}

func UpdateUsersTotal(n int) { globalManager.usersTotal.Set(float64(n)) }

// GetRegistry returns the registry backing the global manager, for
// serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
