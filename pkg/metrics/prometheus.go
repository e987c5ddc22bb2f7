// Package metrics provides Prometheus metrics for the match scoring engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the scoring engine.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Ledger metrics - what happens on the pitch
	eventsRecorded       *prometheus.CounterVec
	eventsRemoved        prometheus.Counter
	conversionsRejected  prometheus.Counter
	pendingResolutions   *prometheus.CounterVec
	undosApplied         prometheus.Counter
	correctionsApplied   *prometheus.CounterVec
	activeSinBins        prometheus.Gauge
	matchesCompleted     prometheus.Counter

	// Save pipeline metrics
	saveQueueSize     prometheus.Gauge
	saveQueueCapacity prometheus.Gauge
	savesAttempted    prometheus.Counter
	savesSucceeded    prometheus.Counter
	savesFailed       prometheus.Counter
	saveRetries       prometheus.Counter
	saveLatency       prometheus.Histogram
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
		namespace:        "scrum",
		subsystem:        "match",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
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

	m.eventsRecorded = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "events_recorded_total",
			Help:      "Total ledger events recorded, by event type",
		},
		[]string{"type"},
	)

	m.eventsRemoved = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_removed_total",
		Help:      "Total ledger events removed by undo or correction",
	})

	m.conversionsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "conversions_rejected_total",
		Help:      "Conversion attempts refused for missing eligibility",
	})

	m.pendingResolutions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "pending_resolutions_total",
			Help:      "Pending score events resolved, by outcome",
		},
		[]string{"outcome"},
	)

	m.undosApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "undos_applied_total",
		Help:      "Quick-undo operations that removed an event",
	})

	m.correctionsApplied = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "corrections_applied_total",
			Help:      "Targeted historical corrections, by kind",
		},
		[]string{"kind"},
	)

	m.activeSinBins = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "active_sin_bins",
		Help:      "Currently running temporary exclusions",
	})

	m.matchesCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "matches_completed_total",
		Help:      "Matches brought to the completed state",
	})

	m.saveQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "save_queue_size",
		Help:      "Snapshots waiting in the save queue",
	})

	m.saveQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "save_queue_capacity",
		Help:      "Configured capacity of the save queue",
	})

	m.savesAttempted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "saves_attempted_total",
		Help:      "Save attempts against the match store, including retries",
	})

	m.savesSucceeded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "saves_succeeded_total",
		Help:      "Snapshots persisted successfully",
	})

	m.savesFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "saves_failed_total",
		Help:      "Snapshots dropped after exhausting retries",
	})

	m.saveRetries = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "save_retries_total",
		Help:      "Retried save attempts",
	})

	m.saveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "save_latency_milliseconds",
		Help:      "Histogram of store save latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// RecordEventRecorded increments the recorded-events counter for a type.
func RecordEventRecorded(eventType string) {
	globalManager.eventsRecorded.WithLabelValues(eventType).Inc()
}

// RecordEventRemoved increments the removed-events counter.
func RecordEventRemoved() {
	globalManager.eventsRemoved.Inc()
}

// RecordConversionRejected increments the rejected-conversions counter.
func RecordConversionRejected() {
	globalManager.conversionsRejected.Inc()
}

// RecordPendingResolution increments resolutions with outcome "approved" or "rejected".
func RecordPendingResolution(outcome string) {
	globalManager.pendingResolutions.WithLabelValues(outcome).Inc()
}

// RecordUndo increments the quick-undo counter.
func RecordUndo() {
	globalManager.undosApplied.Inc()
}

// RecordCorrection increments the targeted-corrections counter for a kind.
func RecordCorrection(kind string) {
	globalManager.correctionsApplied.WithLabelValues(kind).Inc()
}

// UpdateActiveSinBins sets the active sin-bin gauge.
func UpdateActiveSinBins(count int) {
	globalManager.activeSinBins.Set(float64(count))
}

// RecordMatchCompleted increments the completed-matches counter.
func RecordMatchCompleted() {
	globalManager.matchesCompleted.Inc()
}

// UpdateSaveQueueSize sets the current save queue depth.
func UpdateSaveQueueSize(size int) {
	globalManager.saveQueueSize.Set(float64(size))
}

// UpdateSaveQueueCapacity sets the configured save queue capacity.
func UpdateSaveQueueCapacity(capacity int) {
	globalManager.saveQueueCapacity.Set(float64(capacity))
}

// RecordSaveAttempt increments the save-attempts counter.
func RecordSaveAttempt() {
	globalManager.savesAttempted.Inc()
}

// RecordSaveSuccess increments the successful-saves counter.
func RecordSaveSuccess() {
	globalManager.savesSucceeded.Inc()
}

// RecordSaveFailure increments the failed-saves counter.
func RecordSaveFailure() {
	globalManager.savesFailed.Inc()
}

// RecordSaveRetry increments the retried-saves counter.
func RecordSaveRetry() {
	globalManager.saveRetries.Inc()
}

// RecordSaveLatency records store save latency in milliseconds.
func RecordSaveLatency(latencyMs float64) {
	globalManager.saveLatency.Observe(latencyMs)
}

// GetRegistry returns the custom registry for exposition by an embedding
// program.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
