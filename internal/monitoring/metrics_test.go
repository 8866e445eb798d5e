package monitoring_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/nestframe/internal/monitoring"
)

func TestMetricsCollector(t *testing.T) {
	t.Run("disabled collector still runs the operation", func(t *testing.T) {
		collector := monitoring.NewMetricsCollector(false)

		calls := 0
		err := collector.RecordOperation("join", 10, func() error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.Empty(t, collector.GetMetrics())
	})

	t.Run("records duration and rows", func(t *testing.T) {
		collector := monitoring.NewMetricsCollector(true)

		err := collector.RecordOperation("groupBy", 100, func() error {
			time.Sleep(5 * time.Millisecond)
			return nil
		})
		require.NoError(t, err)

		metrics := collector.GetMetrics()
		require.Len(t, metrics, 1)
		assert.Equal(t, "groupBy", metrics[0].Operation)
		assert.Equal(t, int64(100), metrics[0].RowsProcessed)
		assert.GreaterOrEqual(t, metrics[0].Duration, 5*time.Millisecond)
		assert.GreaterOrEqual(t, metrics[0].MemoryUsed, int64(0))
		assert.False(t, metrics[0].Failed)
	})

	t.Run("failed operations are recorded and the error returned", func(t *testing.T) {
		collector := monitoring.NewMetricsCollector(true)
		boom := errors.New("boom")

		err := collector.RecordOperation("pivot", 0, func() error { return boom })

		require.ErrorIs(t, err, boom)
		assert.True(t, collector.GetMetrics()[0].Failed)
		assert.Equal(t, 1, collector.GetSummary().Failures)
	})

	t.Run("start and stop", func(t *testing.T) {
		collector := monitoring.NewMetricsCollector(true)
		done := collector.Start("join", 7)
		done()

		metrics := collector.GetMetrics()
		require.Len(t, metrics, 1)
		assert.Equal(t, "join", metrics[0].Operation)
		assert.Equal(t, int64(7), metrics[0].RowsProcessed)
	})

	t.Run("disabling drops in-flight operations", func(t *testing.T) {
		collector := monitoring.NewMetricsCollector(true)
		done := collector.Start("join", 1)
		collector.SetEnabled(false)
		done()
		assert.Empty(t, collector.GetMetrics())
	})

	t.Run("clear", func(t *testing.T) {
		collector := monitoring.NewMetricsCollector(true)
		collector.Start("join", 1)()
		collector.Clear()
		assert.Empty(t, collector.GetMetrics())
		assert.Equal(t, monitoring.MetricsSummary{}, collector.GetSummary())
	})
}

func TestMetricsSummary(t *testing.T) {
	collector := monitoring.NewMetricsCollector(true)
	for _, op := range []string{"join", "join", "groupBy"} {
		require.NoError(t, collector.RecordOperation(op, 10, func() error { return nil }))
	}

	summary := collector.GetSummary()
	assert.Equal(t, 3, summary.TotalOperations)
	assert.Equal(t, int64(30), summary.TotalRows)
	assert.Equal(t, map[string]int{"join": 2, "groupBy": 1}, summary.OperationCounts)
	assert.Len(t, summary.OperationTimes, 2)
	assert.Equal(t, summary.TotalDuration/3, summary.AverageDuration)
}

func TestGlobalCollector(t *testing.T) {
	defer monitoring.SetGlobalCollector(nil)

	monitoring.SetGlobalCollector(nil)
	monitoring.Track("join", 1)()
	assert.Nil(t, monitoring.GetGlobalCollector())

	collector := monitoring.NewMetricsCollector(true)
	monitoring.SetGlobalCollector(collector)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			monitoring.Track("groupBy", 5)()
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, collector.GetSummary().OperationCounts["groupBy"])
}
