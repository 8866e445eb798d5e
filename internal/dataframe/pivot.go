package dataframe

import (
	"log/slog"
	"slices"

	"github.com/paveg/nestframe/internal/colpath"
	"github.com/paveg/nestframe/internal/common"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/logging"
	"github.com/paveg/nestframe/internal/monitoring"
	"github.com/paveg/nestframe/internal/types"
)

// PivotOptions configures Pivot.
type PivotOptions struct {
	// Index selects the columns identifying an output row. Zero means every
	// column that is neither pivoted nor a value column.
	Index Selector
	// Values selects the columns whose values fill the cells. Zero means
	// every column that is neither pivoted nor part of the index.
	Values Selector
	// Reducer computes a cell from the matching rows. When nil, a cell holds
	// the single matching value, or a list when several rows match. With
	// several value columns every pivot value becomes a group holding one
	// column per value column.
	Reducer func(subset *DataFrame) (any, error)
	// Default fills combinations without matching rows.
	Default any
}

// Pivot turns the distinct values of the pivot columns into columns. Output
// rows are the distinct index tuples in first-seen order; output columns
// follow the first-seen order of the pivot values. Several pivot columns
// nest as group paths.
func (df *DataFrame) Pivot(pivot Selector, opts PivotOptions) (*DataFrame, error) {
	if opts.Index.IsZero() && opts.Values.IsZero() && opts.Reducer == nil {
		return nil, dferrors.NewInvalidInputError("pivot", "either Index, Values or Reducer must be set")
	}
	pivotCols, err := df.Resolve(pivot)
	if err != nil {
		return nil, err
	}

	var indexCols, valueCols []ColumnWithPath
	if !opts.Values.IsZero() {
		if valueCols, err = df.Resolve(opts.Values); err != nil {
			return nil, err
		}
	}
	if opts.Index.IsZero() {
		indexCols = AllColumnsExcept(df, slices.Concat(pivotCols, valueCols))
	} else if indexCols, err = df.Resolve(opts.Index); err != nil {
		return nil, err
	}
	if opts.Values.IsZero() && opts.Reducer == nil {
		valueCols = AllColumnsExcept(df, slices.Concat(pivotCols, indexCols))
	}
	indexCols = topMost(indexCols)

	leaves := ListDFS(indexCols, false)
	idx := newTupleIndex(df.nrow)
	groupOf := make([]int, df.nrow)
	for i := range df.nrow {
		tuple := make([]any, len(leaves))
		for j, c := range leaves {
			tuple[j] = c.Column.Get(i)
		}
		groupOf[i], _ = idx.add(tuple, i)
	}
	first := make([]int, idx.len())
	for id, e := range idx.entries {
		first[id] = e.rows[0]
	}
	index, err := NewWithRows(df.nrow, unwrap(indexCols)...)
	if err != nil {
		return nil, err
	}
	return pivotRows(df, index.Slice(first), groupOf, pivotCols, valueCols, opts)
}

// Pivot pivots inside every group. The keys become the output index.
func (g *GroupedDataFrame) Pivot(pivot Selector, opts PivotOptions) (*DataFrame, error) {
	src, err := g.Concat()
	if err != nil {
		return nil, err
	}
	groupOf := make([]int, 0, src.Len())
	for i, f := range g.groups.frames {
		for range f.Len() {
			groupOf = append(groupOf, i)
		}
	}

	pivotCols, err := src.Resolve(pivot)
	if err != nil {
		return nil, err
	}
	var valueCols []ColumnWithPath
	switch {
	case !opts.Values.IsZero():
		if valueCols, err = src.Resolve(opts.Values); err != nil {
			return nil, err
		}
	case opts.Reducer == nil:
		var keys []ColumnWithPath
		keys, err = Cols(g.keys.ColumnNames()...).Resolve(ResolutionContext{Frame: src, Policy: SkipUnresolved})
		if err != nil {
			return nil, err
		}
		valueCols = AllColumnsExcept(src, slices.Concat(pivotCols, keys))
	}
	return pivotRows(src, g.keys, groupOf, pivotCols, valueCols, opts)
}

// pivotRows builds the pivoted frame. groupOf maps every source row to its
// output row in index.
func pivotRows(src, index *DataFrame, groupOf []int, pivotCols, valueCols []ColumnWithPath, opts PivotOptions) (*DataFrame, error) {
	logging.L().Debug("pivot started", slog.Int("rows", src.nrow), slog.Int("index", index.Len()))
	defer monitoring.Track("pivot", src.nrow)()

	pivotLeaves := ListDFS(pivotCols, false)
	if len(pivotLeaves) == 0 {
		return nil, dferrors.NewInvalidInputError("pivot", "no pivot columns selected")
	}
	valueCols = topMost(valueCols)

	// rows[pivot path][output row] lists the matching source rows.
	var order []colpath.Path
	rows := map[string][][]int{}
	for i := range src.nrow {
		path := make(colpath.Path, len(pivotLeaves))
		for j, c := range pivotLeaves {
			path[j] = common.ToString(c.Column.Get(i))
		}
		key := path.Key()
		if _, ok := rows[key]; !ok {
			order = append(order, path)
			rows[key] = make([][]int, index.Len())
		}
		rows[key][groupOf[i]] = append(rows[key][groupOf[i]], i)
	}

	out := index
	for _, path := range order {
		subsets := rows[path.Key()]
		var err error
		switch {
		case opts.Reducer != nil:
			values := make([]any, len(subsets))
			for r, subset := range subsets {
				if len(subset) == 0 {
					values[r] = opts.Default
					continue
				}
				if values[r], err = opts.Reducer(src.Slice(subset)); err != nil {
					return nil, err
				}
			}
			out, err = insertAt(out, path.Parent(), BuildColumn(path.Name(), values, types.Type{}))
		case len(valueCols) == 1:
			values := cellValues(valueCols[0].Column, subsets, opts.Default)
			out, err = insertAt(out, path.Parent(), BuildColumn(path.Name(), values, types.Type{}))
		default:
			for _, vc := range valueCols {
				values := cellValues(vc.Column, subsets, opts.Default)
				if out, err = insertAt(out, path, BuildColumn(vc.Name(), values, types.Type{})); err != nil {
					break
				}
			}
		}
		if err != nil {
			return nil, err
		}
	}

	logging.L().Debug("pivot completed", slog.Int("columns", len(order)))
	return out, nil
}

func cellValues(c Column, subsets [][]int, def any) []any {
	values := make([]any, len(subsets))
	for r, subset := range subsets {
		switch len(subset) {
		case 0:
			values[r] = def
		case 1:
			values[r] = c.Get(subset[0])
		default:
			list := make([]any, len(subset))
			for k, at := range subset {
				list[k] = c.Get(at)
			}
			values[r] = list
		}
	}
	return values
}
