package nestframe

import "github.com/paveg/nestframe/internal/monitoring"

// Operation metrics.
type (
	MetricsCollector = monitoring.MetricsCollector
	OperationMetrics = monitoring.OperationMetrics
	MetricsSummary   = monitoring.MetricsSummary
)

// EnableMetrics installs a fresh collector that joins, groupBys, pivots and
// aggregations report their timings to.
func EnableMetrics() *MetricsCollector {
	collector := monitoring.NewMetricsCollector(true)
	monitoring.SetGlobalCollector(collector)
	return collector
}

// DisableMetrics removes the installed collector.
func DisableMetrics() { monitoring.SetGlobalCollector(nil) }
