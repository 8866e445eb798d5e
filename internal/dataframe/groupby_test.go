//nolint:testpackage // requires internal access to unexported types and functions
package dataframe

import (
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/nestframe/internal/colpath"
	"github.com/paveg/nestframe/internal/config"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/types"
)

func sales(t *testing.T) *DataFrame {
	t.Helper()
	return mustOf(t, "category", "region", "value")(
		"A", "north", 10,
		"B", "north", 20,
		"A", "south", 30,
		"B", "south", 40,
		"A", "north", 50,
	)
}

func TestGroupBy(t *testing.T) {
	df := sales(t)
	g, err := df.GroupBy(Col("category"))
	require.NoError(t, err)

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []any{"A", "B"}, values(t, g.Keys(), "category"))
	assert.Equal(t, []any{10, 30, 50}, values(t, g.Group(0), "value"))
	assert.Equal(t, []string{"category", "region", "value"}, g.Group(0).ColumnNames())
	assert.Equal(t, []int{1, 3}, g.GroupIndices(1))

	key, ok := g.Key(1).Get("category")
	require.True(t, ok)
	assert.Equal(t, "B", key)
}

func TestGroupByPartition(t *testing.T) {
	df := sales(t)

	for _, keys := range []Selector{Col("category"), Cols("category", "region"), Col("value"), All().Take(0)} {
		g, err := df.GroupBy(keys)
		require.NoError(t, err)

		// every source row lands in exactly one group
		var all []int
		total := 0
		for i := range g.Len() {
			all = append(all, g.GroupIndices(i)...)
			total += g.Group(i).Len()
		}
		slices.Sort(all)
		assert.Equal(t, []int{0, 1, 2, 3, 4}, all)
		assert.Equal(t, df.Len(), total)

		// groups concatenate back to the source rows
		back, err := g.Concat()
		require.NoError(t, err)
		assert.Equal(t, df.Len(), back.Len())
	}
}

func TestGroupByNested(t *testing.T) {
	df := people(t)
	g, err := df.GroupBy(ColPath(colpath.Of("name", "first")))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"first"}, g.Keys().ColumnNames())
	assert.Equal(t, 2, g.Group(2).Len())

	g, err = df.GroupBy(Col("name"))
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, []string{"name"}, g.Keys().ColumnNames())
}

func TestGroupByNaNAndNulls(t *testing.T) {
	df := MustNew(NewValueColumn("k", []any{math.NaN(), nil, math.NaN(), nil, 1.0}, types.Type{}))
	g, err := df.GroupBy(Col("k"))
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []int{0, 2}, g.GroupIndices(0))
	assert.Equal(t, []int{1, 3}, g.GroupIndices(1))
}

func TestGroupByParallel(t *testing.T) {
	original := config.GetGlobalConfig()
	t.Cleanup(func() { config.SetGlobalConfig(original) })
	cfg := config.NewConfig()
	cfg.ParallelThreshold = 2
	cfg.WorkerPoolSize = 4
	config.SetGlobalConfig(cfg)

	n := 200
	keys := make([]any, n)
	vals := make([]any, n)
	for i := range n {
		keys[i] = fmt.Sprintf("k%d", i%17)
		vals[i] = i
	}
	df := MustNew(NewValueColumn("k", keys, types.Type{}), NewValueColumn("v", vals, types.Type{}))

	g, err := df.GroupBy(Col("k"))
	require.NoError(t, err)
	require.Equal(t, 17, g.Len())
	for i := range g.Len() {
		for _, v := range values(t, g.Group(i), "v") {
			assert.Equal(t, i, v.(int)%17)
		}
	}

	counts, err := g.Count("n")
	require.NoError(t, err)
	total := 0
	for _, c := range values(t, counts, "n") {
		total += c.(int)
	}
	assert.Equal(t, n, total)
}

func TestGroupedOperations(t *testing.T) {
	df := sales(t)
	g, err := df.GroupBy(Col("category"))
	require.NoError(t, err)

	t.Run("Into", func(t *testing.T) {
		out, err := g.Into("rows")
		require.NoError(t, err)
		assert.Equal(t, []string{"category", "rows"}, out.ColumnNames())
		assert.Equal(t, FrameKind, mustColumn(t, out, "rows").Kind())

		out, err = g.ToDataFrame()
		require.NoError(t, err)
		assert.True(t, out.HasColumn(GroupColumnName))
	})

	t.Run("All", func(t *testing.T) {
		sizes := map[any]int{}
		for key, group := range g.All() {
			k, _ := key.Get("category")
			sizes[k] = group.Len()
		}
		assert.Equal(t, map[any]int{"A": 3, "B": 2}, sizes)
	})

	t.Run("Filter", func(t *testing.T) {
		big := g.Filter(func(_ Row, group *DataFrame) bool { return group.Len() > 2 })
		assert.Equal(t, 1, big.Len())
		assert.Equal(t, []int{0, 2, 4}, big.GroupIndices(0))
	})

	t.Run("UpdateGroups", func(t *testing.T) {
		firsts, err := g.UpdateGroups(func(f *DataFrame) (*DataFrame, error) { return f.Head(1), nil })
		require.NoError(t, err)
		out, err := firsts.Concat()
		require.NoError(t, err)
		assert.Equal(t, []any{10, 20}, values(t, out, "value"))
		assert.Nil(t, firsts.GroupIndices(0))
	})

	t.Run("SortByKeys", func(t *testing.T) {
		rev, err := df.SortBy(Desc(Col("category")))
		require.NoError(t, err)
		rg, err := rev.GroupBy(Col("category"))
		require.NoError(t, err)
		assert.Equal(t, []any{"B", "A"}, values(t, rg.Keys(), "category"))

		sorted, err := rg.SortByKeys()
		require.NoError(t, err)
		assert.Equal(t, []any{"A", "B"}, values(t, sorted.Keys(), "category"))
	})

	t.Run("NewGroupedDataFrame", func(t *testing.T) {
		_, err := NewGroupedDataFrame(g.Keys(), NewFrameColumn("g", []*DataFrame{df}))
		assert.ErrorIs(t, err, dferrors.ErrMismatchedLength)
	})
}

func TestAggregate(t *testing.T) {
	df := mustOf(t, "k", "n", "f", "s")(
		"a", 1, 1.5, "x",
		"b", 2, nil, "y",
		"a", 3, 2.5, nil,
		"b", nil, nil, "z",
	)
	g, err := df.GroupBy(Col("k"))
	require.NoError(t, err)

	out, err := g.Aggregate(
		CountOf("count"),
		SumOf(Col("n"), "sum_n"),
		SumOf(Col("f"), "sum_f"),
		MeanOf(Col("f"), "mean_f"),
		MinOf(Col("s"), "min_s"),
		MaxOf(Col("n"), "max_n"),
		FirstOf(Col("s"), "first_s"),
		LastOf(Col("s"), "last_s"),
		ValuesOf(Col("n"), "all_n"),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"k", "count", "sum_n", "sum_f", "mean_f", "min_s", "max_n", "first_s", "last_s", "all_n"}, out.ColumnNames())
	assert.Equal(t, []any{2, 2}, values(t, out, "count"))
	assert.Equal(t, []any{int64(4), int64(2)}, values(t, out, "sum_n"))
	assert.Equal(t, []any{4.0, 0.0}, values(t, out, "sum_f"))
	assert.Equal(t, []any{2.0, nil}, values(t, out, "mean_f"))
	assert.Equal(t, []any{"x", "y"}, values(t, out, "min_s"))
	assert.Equal(t, []any{3, 2}, values(t, out, "max_n"))
	assert.Equal(t, []any{"x", "y"}, values(t, out, "first_s"))
	assert.Equal(t, []any{nil, "z"}, values(t, out, "last_s"))
	assert.Equal(t, []any{[]any{1, 3}, []any{2, nil}}, values(t, out, "all_n"))
	assert.Equal(t, "float64?", mustColumn(t, out, "mean_f").Type().String())

	t.Run("non numeric", func(t *testing.T) {
		_, err := g.Sum(Col("s"), "bad")
		assert.ErrorIs(t, err, dferrors.ErrTypeMismatch)
	})

	t.Run("shortcuts", func(t *testing.T) {
		for _, fn := range []func() (*DataFrame, error){
			func() (*DataFrame, error) { return g.Count("x") },
			func() (*DataFrame, error) { return g.Sum(Col("n"), "x") },
			func() (*DataFrame, error) { return g.Mean(Col("n"), "x") },
			func() (*DataFrame, error) { return g.Min(Col("n"), "x") },
			func() (*DataFrame, error) { return g.Max(Col("n"), "x") },
			func() (*DataFrame, error) { return g.First(Col("n"), "x") },
			func() (*DataFrame, error) { return g.Last(Col("n"), "x") },
			func() (*DataFrame, error) { return g.Values(Col("n"), "x") },
		} {
			out, err := fn()
			require.NoError(t, err)
			assert.Equal(t, []string{"k", "x"}, out.ColumnNames())
		}
	})

	t.Run("unknown column", func(t *testing.T) {
		_, err := g.Max(Col("missing"), "x")
		assert.ErrorIs(t, err, dferrors.ErrColumnNotFound)
	})
}
