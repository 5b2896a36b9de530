// Package prometheus exposes the engine's operational metrics.
package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds all application metrics.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Deadline computation
	ComputationsTotal   CounterVec
	ComputationDuration HistogramVec
	WarningsTotal       CounterVec

	// Calendar
	SnapshotLoadsTotal    CounterVec
	SnapshotLoadDuration  HistogramVec
	CalendarInvalidations CounterVec
	CalendarVersionChecks CounterVec

	// Conflicts
	ConflictRunsTotal     CounterVec
	ConflictFindingsTotal CounterVec
	ConflictDuration      HistogramVec

	// Catalog
	CatalogEntries GaugeVec

	// Infrastructure
	CacheHitsTotal      CounterVec
	CacheMissesTotal    CounterVec
	DBQueryDuration     HistogramVec
	EventsConsumedTotal CounterVec
	ErrorsTotal         CounterVec
}

var (
	DefaultHTTPDurationBuckets    = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}
	DefaultComputeDurationBuckets = []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05, .1}
	DefaultDBDurationBuckets      = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers every metric on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.ComputationsTotal = collector.RegisterCounter("deadline_computations_total", "Deadline computations", "mode", "outcome")
	m.ComputationDuration = collector.RegisterHistogram("deadline_computation_duration_seconds", "Deadline computation duration excluding cache hits", DefaultComputeDurationBuckets, "mode")
	m.WarningsTotal = collector.RegisterCounter("deadline_warnings_total", "Warnings attached to computed deadlines", "kind")

	m.SnapshotLoadsTotal = collector.RegisterCounter("calendar_snapshot_loads_total", "Calendar snapshot loads from the store", "court", "status")
	m.SnapshotLoadDuration = collector.RegisterHistogram("calendar_snapshot_load_duration_seconds", "Calendar snapshot load duration", DefaultDBDurationBuckets, "store")
	m.CalendarInvalidations = collector.RegisterCounter("calendar_invalidations_total", "Cache invalidations caused by calendar changes", "trigger")
	m.CalendarVersionChecks = collector.RegisterCounter("calendar_version_checks_total", "Periodic calendar version polls", "result")

	m.ConflictRunsTotal = collector.RegisterCounter("conflict_runs_total", "Conflict detection runs", "outcome")
	m.ConflictFindingsTotal = collector.RegisterCounter("conflict_findings_total", "Conflict findings produced", "kind", "severity")
	m.ConflictDuration = collector.RegisterHistogram("conflict_detection_duration_seconds", "Conflict detection duration", DefaultHTTPDurationBuckets)

	m.CatalogEntries = collector.RegisterGauge("catalog_entries", "Deadline catalog size")

	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")
	m.EventsConsumedTotal = collector.RegisterCounter("events_consumed_total", "Change events consumed", "event_type", "status")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Errors by component and code", "component", "code")

	return m
}

// NewNopMetrics returns metrics that record nothing.
func NewNopMetrics() *AppMetrics {
	return NewAppMetrics(NewNopCollector())
}

func RecordHTTPRequest(m *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordComputation(m *AppMetrics, mode string, err error, cached bool, duration time.Duration) {
	outcome := "ok"
	switch {
	case err != nil:
		outcome = "error"
	case cached:
		outcome = "cached"
	}
	m.ComputationsTotal.WithLabelValues(mode, outcome).Inc()
	if err == nil && !cached {
		m.ComputationDuration.WithLabelValues(mode).Observe(duration.Seconds())
	}
}

func RecordSnapshotLoad(m *AppMetrics, store, court string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.SnapshotLoadsTotal.WithLabelValues(court, status).Inc()
	m.SnapshotLoadDuration.WithLabelValues(store).Observe(duration.Seconds())
}

func RecordCacheAccess(m *AppMetrics, cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordInvalidation(m *AppMetrics, trigger string) {
	m.CalendarInvalidations.WithLabelValues(trigger).Inc()
}

func RecordError(m *AppMetrics, component, code string) {
	m.ErrorsTotal.WithLabelValues(component, code).Inc()
}

//Personal.AI order the ending
