// Package metrics provides Prometheus observability metrics for the
// capacity engine: migration throughput/reduction and utilization query
// volume.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for this application.
var Registry = prometheus.NewRegistry()

// factory registers metrics to our custom Registry directly.
var factory = promauto.With(Registry)

// =============================================================================
// MIGRATION METRICS
// =============================================================================

// MigrationRecordsIn counts raw records entering migration pipelines.
var MigrationRecordsIn = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "capacity",
	Name:      "migration_records_in_total",
	Help:      "Raw allocation records fed into migration pipelines",
})

// MigrationRecordsOut counts records produced by migration pipelines.
var MigrationRecordsOut = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "capacity",
	Name:      "migration_records_out_total",
	Help:      "Allocation records produced by migration pipelines after aggregation and merging",
})

// MigrationReductionPercent reports the record-count reduction of the most
// recent pipeline run. Consecutive-week sources typically reduce >= 95%.
var MigrationReductionPercent = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "capacity",
	Name:      "migration_reduction_percent",
	Help:      "Record count reduction percentage of the last migration pipeline run",
})

// ValidationErrorsTotal counts data-quality errors found while gating
// migration output.
var ValidationErrorsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "capacity",
	Name:      "validation_errors_total",
	Help:      "Data-quality validation errors accumulated across pipeline runs",
})

// ValidationWarningsTotal counts non-fatal data-quality findings.
var ValidationWarningsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "capacity",
	Name:      "validation_warnings_total",
	Help:      "Data-quality validation warnings accumulated across pipeline runs",
})

// =============================================================================
// UTILIZATION QUERY METRICS
// =============================================================================

// UtilizationRequests counts utilization queries by granularity.
var UtilizationRequests = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "capacity",
	Name:      "utilization_requests_total",
	Help:      "Utilization calculation requests broken down by granularity",
}, []string{"granularity"})

// UtilizationComputeSeconds observes per-request calculation latency.
var UtilizationComputeSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "capacity",
	Name:      "utilization_compute_seconds",
	Help:      "Wall time spent computing utilization per request",
	Buckets:   prometheus.DefBuckets,
})
