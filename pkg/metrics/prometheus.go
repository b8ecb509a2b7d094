// Package metrics provides Prometheus metrics for the gainboard service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Snapshot lifecycle
	snapshotReloads        prometheus.Counter
	snapshotReloadDuration prometheus.Histogram
	snapshotLastUnix       prometheus.Gauge

	// Record-source quality
	malformedRecords prometheus.Counter

	// Snapshot shape
	observationCount prometheus.Gauge
	playerCount      prometheus.Gauge
	rosterSize       prometheus.Gauge

	// Query performance
	queryDuration *prometheus.HistogramVec

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "gainboard",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	if !m.enabled {
		return m
	}

	factory := promauto.With(m.registry)

	m.snapshotReloads = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_reloads_total",
		Help:      "Number of snapshot rebuilds from the record source.",
	})
	m.snapshotReloadDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_reload_duration_seconds",
		Help:      "Time spent loading and indexing a snapshot.",
		Buckets:   m.histogramBuckets,
	})
	m.snapshotLastUnix = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "snapshot_last_reload_unix",
		Help:      "Unix time of the last successful snapshot reload.",
	})
	m.malformedRecords = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "malformed_records_total",
		Help:      "Rows dropped by record sources due to parse failures.",
	})
	m.observationCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "observations",
		Help:      "Observations in the active snapshot.",
	})
	m.playerCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "players",
		Help:      "Distinct players in the active snapshot.",
	})
	m.rosterSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "seasonal_roster_size",
		Help:      "Names loaded from the seasonal roster list.",
	})
	m.queryDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_duration_ms",
		Help:      "Engine query latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"query"})
	m.httpRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status.",
	}, []string{"endpoint", "method", "status"})
	m.httpRequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})
	m.systemMemoryUsage = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Allocated heap bytes.",
	})
	m.systemGoroutineCount = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current goroutine count.",
	})

	return m
}

// GetRegistry returns the registry metrics are served from.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RecordSnapshotReload records one successful snapshot rebuild and the
// resulting snapshot shape.
func RecordSnapshotReload(d time.Duration, observations, players int) {
	m := globalManager
	if !m.enabled {
		return
	}
	m.snapshotReloads.Inc()
	m.snapshotReloadDuration.Observe(d.Seconds())
	m.snapshotLastUnix.SetToCurrentTime()
	m.observationCount.Set(float64(observations))
	m.playerCount.Set(float64(players))
}

// AddMalformedRecords counts rows dropped by a record source.
func AddMalformedRecords(n int) {
	if m := globalManager; m.enabled && n > 0 {
		m.malformedRecords.Add(float64(n))
	}
}

// UpdateRosterSize sets the current seasonal roster size.
func UpdateRosterSize(n int) {
	if m := globalManager; m.enabled {
		m.rosterSize.Set(float64(n))
	}
}

// ObserveQueryDuration records one engine query latency in milliseconds.
func ObserveQueryDuration(query string, ms float64) {
	if m := globalManager; m.enabled {
		m.queryDuration.WithLabelValues(query).Observe(ms)
	}
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, status string) {
	if m := globalManager; m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration records one HTTP request latency in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if m := globalManager; m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
	}
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if m := globalManager; m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(n int) {
	if m := globalManager; m.enabled {
		m.systemGoroutineCount.Set(float64(n))
	}
}
