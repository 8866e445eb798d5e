package dataframe

import (
	"context"
	"iter"
	"log/slog"
	"slices"

	"github.com/paveg/nestframe/internal/config"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/logging"
	"github.com/paveg/nestframe/internal/monitoring"
	"github.com/paveg/nestframe/internal/parallel"
)

// GroupColumnName is the default name of the frame column holding groups.
const GroupColumnName = "group"

// GroupedDataFrame pairs one key row with one group frame. When it comes
// from GroupBy, the row indices of all groups partition the source rows.
type GroupedDataFrame struct {
	keys    *DataFrame
	groups  *FrameColumn
	indices [][]int
}

// NewGroupedDataFrame pairs keys with groups. Both must have the same length.
func NewGroupedDataFrame(keys *DataFrame, groups *FrameColumn) (*GroupedDataFrame, error) {
	if keys.Len() != groups.Len() {
		return nil, dferrors.NewMismatchedLengthError("groupBy", groups.Name(), groups.Len(), keys.Len())
	}
	return &GroupedDataFrame{keys: keys, groups: groups}, nil
}

// GroupBy partitions rows by the values of the key columns. Keys appear in
// first-seen order and every group keeps all source columns. Key tuples are
// hashed with xxhash and compared by value, so NaN keys group together.
func (df *DataFrame) GroupBy(keys Selector) (*GroupedDataFrame, error) {
	keyCols, err := df.Resolve(keys)
	if err != nil {
		return nil, err
	}
	keyCols = topMost(keyCols)
	leaves := ListDFS(keyCols, false)

	logging.L().Debug("groupBy started", slog.Int("rows", df.nrow), slog.Int("keys", len(leaves)))
	defer monitoring.Track("groupBy", df.nrow)()

	idx := newTupleIndex(df.nrow)
	for i := range df.nrow {
		tuple := make([]any, len(leaves))
		for j, c := range leaves {
			tuple[j] = c.Column.Get(i)
		}
		idx.add(tuple, i)
	}

	first := make([]int, idx.len())
	indices := make([][]int, idx.len())
	for id, e := range idx.entries {
		first[id] = e.rows[0]
		indices[id] = e.rows
	}

	keyFrame, err := NewWithRows(df.nrow, unwrap(keyCols)...)
	if err != nil {
		return nil, err
	}

	frames, err := parallel.Map(context.Background(), parallel.FromConfig(config.GetGlobalConfig()), indices,
		func(_ int, rows []int) (*DataFrame, error) { return df.Slice(rows), nil })
	if err != nil {
		return nil, dferrors.NewInternalError("groupBy", err)
	}

	logging.L().Debug("groupBy completed", slog.Int("groups", len(frames)))
	return &GroupedDataFrame{
		keys:    keyFrame.Slice(first),
		groups:  NewFrameColumnWithSchema(GroupColumnName, frames, df),
		indices: indices,
	}, nil
}

// Keys returns one row per group
func (g *GroupedDataFrame) Keys() *DataFrame { return g.keys }

// Groups returns the group frames as a frame column
func (g *GroupedDataFrame) Groups() *FrameColumn { return g.groups }

// Len returns the number of groups
func (g *GroupedDataFrame) Len() int { return g.keys.Len() }

// Group returns the i-th group frame.
func (g *GroupedDataFrame) Group(i int) *DataFrame { return g.groups.At(i) }

// Key returns the key row of the i-th group.
func (g *GroupedDataFrame) Key(i int) Row { return g.keys.Row(i) }

// GroupIndices returns the source row indices of the i-th group, or nil
// when the grouping was not produced by GroupBy.
func (g *GroupedDataFrame) GroupIndices(i int) []int {
	if g.indices == nil {
		return nil
	}
	return slices.Clone(g.indices[i])
}

// All iterates key rows with their groups.
func (g *GroupedDataFrame) All() iter.Seq2[Row, *DataFrame] {
	return func(yield func(Row, *DataFrame) bool) {
		for i := range g.Len() {
			if !yield(g.keys.Row(i), g.groups.At(i)) {
				return
			}
		}
	}
}

// Into returns the keys followed by the groups as a frame column named name.
func (g *GroupedDataFrame) Into(name string) (*DataFrame, error) {
	return g.keys.Add(g.groups.Rename(name))
}

// ToDataFrame is Into with the default column name.
func (g *GroupedDataFrame) ToDataFrame() (*DataFrame, error) { return g.Into(GroupColumnName) }

// UpdateGroups replaces every group by fn(group).
func (g *GroupedDataFrame) UpdateGroups(fn func(*DataFrame) (*DataFrame, error)) (*GroupedDataFrame, error) {
	frames, err := parallel.Map(context.Background(), parallel.FromConfig(config.GetGlobalConfig()), g.groups.frames,
		func(_ int, f *DataFrame) (*DataFrame, error) { return fn(f) })
	if err != nil {
		return nil, err
	}
	return &GroupedDataFrame{
		keys:   g.keys,
		groups: NewFrameColumn(g.groups.Name(), frames),
	}, nil
}

// Filter keeps the groups satisfying pred.
func (g *GroupedDataFrame) Filter(pred func(Row, *DataFrame) bool) *GroupedDataFrame {
	var keep []int
	for i := range g.Len() {
		if pred(g.keys.Row(i), g.groups.At(i)) {
			keep = append(keep, i)
		}
	}
	return g.pick(keep)
}

// SortByKeys orders groups by their key rows.
func (g *GroupedDataFrame) SortByKeys() (*GroupedDataFrame, error) {
	descriptors := make([]SortColumnDescriptor, 0, g.keys.Width())
	for _, name := range g.keys.ColumnNames() {
		descriptors = append(descriptors, Asc(Col(name)))
	}
	order, err := g.keys.sortOrder(descriptors)
	if err != nil {
		return nil, err
	}
	return g.pick(order), nil
}

// Concat stacks every group back into one frame.
func (g *GroupedDataFrame) Concat() (*DataFrame, error) {
	if g.Len() == 0 {
		return g.groups.Schema(), nil
	}
	return Concat(g.groups.frames...)
}

func (g *GroupedDataFrame) pick(positions []int) *GroupedDataFrame {
	var indices [][]int
	if g.indices != nil {
		indices = make([][]int, len(positions))
		for i, p := range positions {
			indices[i] = g.indices[p]
		}
	}
	return &GroupedDataFrame{
		keys:    g.keys.Slice(positions),
		groups:  g.groups.Slice(positions).(*FrameColumn),
		indices: indices,
	}
}
