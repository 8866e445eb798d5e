// Package monitoring collects timing metrics for frame operations.
//
// Operations report to the global collector when one is installed; without
// one, tracking costs a nil check.
package monitoring

import (
	"runtime"
	"slices"
	"sync"
	"time"
)

// OperationMetrics describes one recorded operation.
type OperationMetrics struct {
	Operation     string        `json:"operation"`
	Duration      time.Duration `json:"duration"`
	RowsProcessed int64         `json:"rows_processed"`
	MemoryUsed    int64         `json:"memory_used"`
	Failed        bool          `json:"failed"`
}

// MetricsCollector stores metrics of recorded operations. It is safe for
// concurrent use.
type MetricsCollector struct {
	mu      sync.RWMutex
	metrics []OperationMetrics
	enabled bool
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(enabled bool) *MetricsCollector {
	return &MetricsCollector{enabled: enabled}
}

// IsEnabled returns whether metrics collection is enabled.
func (mc *MetricsCollector) IsEnabled() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.enabled
}

// SetEnabled enables or disables metrics collection.
func (mc *MetricsCollector) SetEnabled(enabled bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.enabled = enabled
}

// RecordOperation runs fn and records its duration and the heap growth it
// caused. fn always runs, even when the collector is disabled.
func (mc *MetricsCollector) RecordOperation(operation string, rows int, fn func() error) error {
	if !mc.IsEnabled() {
		return fn()
	}

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()
	err := fn()
	duration := time.Since(start)
	runtime.ReadMemStats(&after)

	mc.add(OperationMetrics{
		Operation:     operation,
		Duration:      duration,
		RowsProcessed: int64(rows),
		MemoryUsed:    max(int64(after.TotalAlloc)-int64(before.TotalAlloc), 0), //nolint:gosec // allocation counters fit in int64
		Failed:        err != nil,
	})
	return err
}

// Start begins timing an operation. Calling the returned function records
// it.
func (mc *MetricsCollector) Start(operation string, rows int) func() {
	if !mc.IsEnabled() {
		return func() {}
	}
	start := time.Now()
	return func() {
		mc.add(OperationMetrics{Operation: operation, Duration: time.Since(start), RowsProcessed: int64(rows)})
	}
}

func (mc *MetricsCollector) add(m OperationMetrics) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.enabled {
		mc.metrics = append(mc.metrics, m)
	}
}

// GetMetrics returns a copy of all collected metrics.
func (mc *MetricsCollector) GetMetrics() []OperationMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return slices.Clone(mc.metrics)
}

// Clear removes all collected metrics.
func (mc *MetricsCollector) Clear() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.metrics = nil
}

// MetricsSummary aggregates collected metrics.
type MetricsSummary struct {
	TotalOperations int                      `json:"total_operations"`
	TotalDuration   time.Duration            `json:"total_duration"`
	TotalMemory     int64                    `json:"total_memory"`
	TotalRows       int64                    `json:"total_rows"`
	Failures        int                      `json:"failures"`
	OperationCounts map[string]int           `json:"operation_counts"`
	OperationTimes  map[string]time.Duration `json:"operation_times"`
	AverageDuration time.Duration            `json:"average_duration"`
}

// GetSummary returns a summary of collected metrics.
func (mc *MetricsCollector) GetSummary() MetricsSummary {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if len(mc.metrics) == 0 {
		return MetricsSummary{}
	}

	s := MetricsSummary{
		TotalOperations: len(mc.metrics),
		OperationCounts: make(map[string]int),
		OperationTimes:  make(map[string]time.Duration),
	}
	for _, m := range mc.metrics {
		s.TotalDuration += m.Duration
		s.TotalMemory += m.MemoryUsed
		s.TotalRows += m.RowsProcessed
		s.OperationCounts[m.Operation]++
		s.OperationTimes[m.Operation] += m.Duration
		if m.Failed {
			s.Failures++
		}
	}
	s.AverageDuration = s.TotalDuration / time.Duration(len(mc.metrics))
	return s
}

//nolint:gochecknoglobals // process-wide collector hook
var (
	globalCollector *MetricsCollector
	globalMutex     sync.RWMutex
)

// SetGlobalCollector installs the collector operations report to. nil
// turns tracking off.
func SetGlobalCollector(collector *MetricsCollector) {
	globalMutex.Lock()
	defer globalMutex.Unlock()
	globalCollector = collector
}

// GetGlobalCollector returns the installed collector or nil.
func GetGlobalCollector() *MetricsCollector {
	globalMutex.RLock()
	defer globalMutex.RUnlock()
	return globalCollector
}

// Track starts timing an operation on the global collector.
func Track(operation string, rows int) func() {
	collector := GetGlobalCollector()
	if collector == nil {
		return func() {}
	}
	return collector.Start(operation, rows)
}
