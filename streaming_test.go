package nestframe_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/nestframe"
	"github.com/paveg/nestframe/internal/testutil"
)

type countingWriter struct {
	nestframe.Collector
	sizes []int
}

func (w *countingWriter) WriteChunk(chunk *nestframe.DataFrame) error {
	w.sizes = append(w.sizes, chunk.Len())
	return w.Collector.WriteChunk(chunk)
}

func olderThan(age int64) nestframe.ChunkOperation {
	return func(df *nestframe.DataFrame) (*nestframe.DataFrame, error) {
		return df.Filter(func(r nestframe.Row) bool {
			v, _ := r.Get("age")
			return v.(int64) > age
		}), nil
	}
}

func TestProcessChunks(t *testing.T) {
	employees := testutil.CreateTestDataFrame(t, testutil.WithRowCount(8))

	t.Run("chunks are processed in order", func(t *testing.T) {
		writer := &countingWriter{}
		require.NoError(t, nestframe.ProcessChunks(nestframe.NewFrameChunks(employees, 3), writer, olderThan(29)))

		assert.Equal(t, []int{2, 2, 1}, writer.sizes)
		got, err := writer.Frame()
		require.NoError(t, err)
		want, err := olderThan(29)(employees)
		require.NoError(t, err)
		testutil.AssertDataFrameEqual(t, want, got)
	})

	t.Run("no operations copies the frame", func(t *testing.T) {
		var collector nestframe.Collector
		require.NoError(t, nestframe.ProcessChunks(nestframe.NewFrameChunks(employees, 0), &collector))
		got, err := collector.Frame()
		require.NoError(t, err)
		testutil.AssertDataFrameEqual(t, employees, got)
	})

	t.Run("empty frame", func(t *testing.T) {
		var collector nestframe.Collector
		require.NoError(t, nestframe.ProcessChunks(nestframe.NewFrameChunks(nestframe.Empty(0), 10), &collector))
		got, err := collector.Frame()
		require.NoError(t, err)
		assert.Equal(t, 0, got.Len())
	})

	t.Run("operation errors stop processing", func(t *testing.T) {
		boom := errors.New("boom")
		var collector nestframe.Collector
		err := nestframe.ProcessChunks(nestframe.NewFrameChunks(employees, 3), &collector,
			func(*nestframe.DataFrame) (*nestframe.DataFrame, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	})
}
