//nolint:testpackage // requires internal access to unexported types and functions
package dataframe

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/paveg/nestframe/internal/colpath"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// people is the nested fixture most tests start from:
//
//	name{first, last} | age | city
func people(t *testing.T) *DataFrame {
	t.Helper()
	name, err := New(
		ValueColumnOf("first", "Alice", "Bob", "Charlie", "Charlie"),
		ValueColumnOf("last", "Cooper", "Dylan", "Daniels", "Chaplin"),
	)
	require.NoError(t, err)
	df, err := New(
		NewGroupColumn("name", name),
		ValueColumnOf("age", 15, 45, 20, 40),
		ValueColumnOf("city", "London", "Dubai", "Moscow", "Milan"),
	)
	require.NoError(t, err)
	return df
}

func mustOf(t *testing.T, header ...string) func(values ...any) *DataFrame {
	t.Helper()
	return func(values ...any) *DataFrame {
		t.Helper()
		df, err := Of(header...)(values...)
		require.NoError(t, err)
		return df
	}
}

// values returns the cells of the column at the dotted path.
func values(t *testing.T, df *DataFrame, path string) []any {
	t.Helper()
	c, ok := df.ColumnByPath(colpath.Parse(path))
	require.True(t, ok, "column %s not found in %v", path, df.ColumnNames())
	return c.Values()
}

func paths(cols []ColumnWithPath) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Path.String()
	}
	return out
}
