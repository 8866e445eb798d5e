// Package testutil provides shared fixtures and assertions for tests of
// packages built on top of the dataframe engine.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/nestframe/internal/colpath"
	"github.com/paveg/nestframe/internal/dataframe"
	"github.com/paveg/nestframe/internal/types"
)

const (
	// defaultRowCount is the default number of rows in test DataFrames.
	defaultRowCount = 4
	// nullEvery puts a null salary on every nth row when nulls are requested.
	nullEvery = 3
)

// TestDataFrameOption configures test DataFrame creation.
type TestDataFrameOption func(*testDataFrameConfig)

type testDataFrameConfig struct {
	includeNulls bool
	rowCount     int
	withActive   bool
	flatNames    bool
}

// WithNulls makes every third salary null.
func WithNulls() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.includeNulls = true
	}
}

// WithRowCount sets the number of rows in test data.
func WithRowCount(count int) TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.rowCount = count
	}
}

// WithActiveColumn includes an 'active' boolean column.
func WithActiveColumn() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.withActive = true
	}
}

// WithFlatNames keeps first and last as top-level columns instead of the
// name group.
func WithFlatNames() TestDataFrameOption {
	return func(cfg *testDataFrameConfig) {
		cfg.flatNames = true
	}
}

// CreateTestDataFrame creates the standard employee frame:
//
//	name (group): first, last (string)
//	age (int64)
//	department (string)
//	salary (int64)
func CreateTestDataFrame(tb testing.TB, opts ...TestDataFrameOption) *dataframe.DataFrame {
	tb.Helper()
	cfg := &testDataFrameConfig{rowCount: defaultRowCount}
	for _, opt := range opts {
		opt(cfg)
	}

	n := cfg.rowCount
	first := dataframe.ValueColumnOf("first", cycle(n, "Alice", "Bob", "Charlie", "David", "Eve", "Frank", "Grace", "Henry")...)
	last := dataframe.ValueColumnOf("last", cycle(n, "Cooper", "Dylan", "Daniels", "Chaplin", "Evans", "Ford", "Green", "Hill")...)
	age := dataframe.ValueColumnOf("age", cycle(n, int64(25), 30, 35, 28, 32, 45, 29, 38)...)
	department := dataframe.ValueColumnOf("department",
		cycle(n, "Engineering", "Sales", "Engineering", "Marketing", "HR", "Finance", "Engineering", "Sales")...)

	salaries := make([]any, n)
	for i, s := range cycle(n, int64(100000), 80000, 120000, 75000, 90000, 110000, 95000, 85000) {
		if cfg.includeNulls && i%nullEvery == nullEvery-1 {
			continue
		}
		salaries[i] = s
	}
	salary := dataframe.NewValueColumn("salary", salaries, types.TypeOf[int64]())

	var columns []dataframe.Column
	if cfg.flatNames {
		columns = append(columns, first, last)
	} else {
		name, err := dataframe.NewWithRows(n, first, last)
		require.NoError(tb, err)
		columns = append(columns, dataframe.NewGroupColumn("name", name))
	}
	columns = append(columns, age, department, salary)
	if cfg.withActive {
		columns = append(columns, dataframe.ValueColumnOf("active", cycle(n, true, true, false, true, true, false, true, false)...))
	}

	df, err := dataframe.NewWithRows(n, columns...)
	require.NoError(tb, err)
	return df
}

// CreateSimpleTestDataFrame creates a two-column name/age frame.
func CreateSimpleTestDataFrame(tb testing.TB) *dataframe.DataFrame {
	tb.Helper()
	return MustOf(tb, "name", "age")("Alice", int64(25), "Bob", int64(30))
}

// MustOf is dataframe.Of that fails the test on error.
func MustOf(tb testing.TB, header ...string) func(values ...any) *dataframe.DataFrame {
	tb.Helper()
	return func(values ...any) *dataframe.DataFrame {
		tb.Helper()
		df, err := dataframe.Of(header...)(values...)
		require.NoError(tb, err)
		return df
	}
}

// AssertDataFrameEqual compares structure and contents column by column.
func AssertDataFrameEqual(t testing.TB, expected, actual *dataframe.DataFrame) {
	t.Helper()

	require.NotNil(t, expected, "expected DataFrame should not be nil")
	require.NotNil(t, actual, "actual DataFrame should not be nil")

	assert.Equal(t, expected.Len(), actual.Len(), "DataFrame lengths should match")
	if !assert.Equal(t, expected.ColumnNames(), actual.ColumnNames(), "DataFrame columns should match") {
		return
	}
	for i, want := range expected.Columns() {
		got := actual.Columns()[i]
		assert.True(t, dataframe.ColumnsEqual(want, got),
			"column %s should match\nexpected: %s\nactual: %s", want.Name(), want, got)
	}
}

// AssertDataFrameHasColumns verifies that every dotted path resolves in df.
func AssertDataFrameHasColumns(t testing.TB, df *dataframe.DataFrame, paths ...string) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	for _, p := range paths {
		_, ok := df.ColumnByPath(colpath.Parse(p))
		assert.True(t, ok, "DataFrame should have column %s", p)
	}
}

// AssertDataFrameNotEmpty verifies that a DataFrame has rows and columns.
func AssertDataFrameNotEmpty(t testing.TB, df *dataframe.DataFrame) {
	t.Helper()

	require.NotNil(t, df, "DataFrame should not be nil")
	assert.Positive(t, df.Len(), "DataFrame should not be empty")
	assert.Positive(t, df.Width(), "DataFrame should have columns")
}

// cycle repeats base until n values are produced.
func cycle[T any](n int, base ...T) []T {
	out := make([]T, n)
	for i := range n {
		out[i] = base[i%len(base)]
	}
	return out
}
