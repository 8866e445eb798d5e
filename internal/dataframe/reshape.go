package dataframe

import (
	"strings"

	"github.com/paveg/nestframe/internal/common"
	"github.com/paveg/nestframe/internal/config"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/types"
)

// ExcessPolicy decides what Split does with parts beyond the given names.
type ExcessPolicy int

const (
	// DropExcess ignores extra parts
	DropExcess ExcessPolicy = iota
	// KeepExcess adds generated columns for extra parts
	KeepExcess
	// FailOnExcess reports an arity error
	FailOnExcess
)

// Merge combines the selected columns into one column named into, placed
// where the first merged column was. A nil combiner joins the non-null
// string forms with the configured merge separator.
func (df *DataFrame) Merge(sel Selector, into string, combiner func([]any) (any, error)) (*DataFrame, error) {
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	cols = topMost(cols)
	if len(cols) == 0 {
		return nil, dferrors.NewArityError("merge", 0, 1)
	}
	if combiner == nil {
		combiner = joinStrings(config.GetGlobalConfig().MergeSeparator)
	}

	values := make([]any, df.nrow)
	for i := range df.nrow {
		parts := make([]any, len(cols))
		for j, c := range cols {
			parts[j] = c.Column.Get(i)
		}
		if values[i], err = combiner(parts); err != nil {
			return nil, dferrors.NewInternalError("merge", err)
		}
	}

	merged := BuildColumn(into, values, types.Type{})
	out := withoutColumns(df, cols[1:])
	return replaceAt("merge", out, cols[0].Path, func(Column) ([]Column, error) {
		return []Column{merged}, nil
	})
}

func joinStrings(sep string) func([]any) (any, error) {
	return func(parts []any) (any, error) {
		strs := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != nil {
				strs = append(strs, common.ToString(p))
			}
		}
		return strings.Join(strs, sep), nil
	}
}

// SplitOptions configures Split.
type SplitOptions struct {
	// Names of the produced columns, in order. At least one is required.
	Names []string
	// Splitter breaks a value into parts. When nil, strings are split on the
	// configured separator and trimmed, and lists yield their elements.
	Splitter func(any) ([]any, error)
	Excess   ExcessPolicy
}

// Split replaces one column by len(opts.Names) columns. Missing trailing
// parts are null.
func (df *DataFrame) Split(sel Selector, opts SplitOptions) (*DataFrame, error) {
	if len(opts.Names) == 0 {
		return nil, dferrors.NewArityError("split", 0, 1)
	}
	c, err := resolveSingle("split", ResolutionContext{Frame: df}, sel)
	if err != nil {
		return nil, err
	}
	splitter := opts.Splitter
	if splitter == nil {
		splitter = splitValue(config.GetGlobalConfig().SplitSeparator)
	}

	parts := make([][]any, df.nrow)
	width := len(opts.Names)
	for i := range df.nrow {
		v := c.Column.Get(i)
		if v == nil {
			continue
		}
		if parts[i], err = splitter(v); err != nil {
			return nil, dferrors.NewInternalError("split", err)
		}
		if len(parts[i]) > len(opts.Names) {
			switch opts.Excess {
			case FailOnExcess:
				return nil, dferrors.NewArityError("split", len(parts[i]), len(opts.Names))
			case KeepExcess:
				width = max(width, len(parts[i]))
			}
		}
	}

	names := append([]string(nil), opts.Names...)
	if width > len(names) {
		var siblings []string
		if parent, ok := c.Parent(); ok {
			siblings = parent.Column.(*GroupColumn).Frame().ColumnNames()
		} else {
			siblings = df.ColumnNames()
		}
		gen := common.NewNameGenerator(config.GetGlobalConfig().UniqueNameStart, append(siblings, names...)...)
		base := names[len(names)-1]
		for len(names) < width {
			names = append(names, gen.Add(base))
		}
	}

	columns := make([]Column, width)
	for k := range width {
		values := make([]any, df.nrow)
		for i, p := range parts {
			if k < len(p) {
				values[i] = p[k]
			}
		}
		columns[k] = BuildColumn(names[k], values, types.Type{})
	}
	return replaceAt("split", df, c.Path, func(Column) ([]Column, error) { return columns, nil })
}

func splitValue(sep string) func(any) ([]any, error) {
	return func(v any) ([]any, error) {
		if list, ok := listElements(v); ok {
			return list, nil
		}
		fields := strings.Split(common.ToString(v), sep)
		out := make([]any, len(fields))
		for i, f := range fields {
			out[i] = strings.TrimSpace(f)
		}
		return out, nil
	}
}

// Explode emits one row per element of the selected list or frame columns.
// Columns exploded together are aligned by position and padded with nulls;
// an empty list or frame gives one row with null. Exploded frame columns
// become column groups.
func (df *DataFrame) Explode(sel Selector) (*DataFrame, error) {
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	cols = topMost(cols)

	lengths := make([]int, df.nrow)
	for i := range df.nrow {
		for _, c := range cols {
			lengths[i] = max(lengths[i], cellLength(c.Column, i))
		}
	}
	var source, offset []int
	for i, n := range lengths {
		for j := range max(n, 1) {
			source = append(source, i)
			offset = append(offset, j)
		}
	}

	out := df.Slice(source)
	for _, c := range cols {
		exploded, err := explodeColumn(c.Column, source, offset)
		if err != nil {
			return nil, err
		}
		out, err = replaceAt("explode", out, c.Path, func(Column) ([]Column, error) {
			return []Column{exploded}, nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SplitRows splits every value of the selected columns with splitter and
// explodes the parts into rows.
func (df *DataFrame) SplitRows(sel Selector, splitter func(any) ([]any, error)) (*DataFrame, error) {
	if splitter == nil {
		splitter = splitValue(config.GetGlobalConfig().SplitSeparator)
	}
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	lists, err := df.Update(Columns(cols...), func(_ Row, v any) (any, error) {
		if v == nil {
			return nil, nil
		}
		return splitter(v)
	})
	if err != nil {
		return nil, err
	}
	return lists.Explode(Columns(cols...))
}

func cellLength(c Column, i int) int {
	switch v := c.Get(i).(type) {
	case *DataFrame:
		return v.Len()
	default:
		if list, ok := listElements(v); ok {
			return len(list)
		}
		return 1
	}
}

func explodeColumn(c Column, source, offset []int) (Column, error) {
	if fc, ok := c.(*FrameColumn); ok {
		stacked, err := Concat(append([]*DataFrame{fc.Schema()}, fc.frames...)...)
		if err != nil {
			return nil, err
		}
		starts := make([]int, len(fc.frames))
		total := 0
		for i, f := range fc.frames {
			starts[i] = total
			total += f.Len()
		}
		rows := make([]int, len(source))
		for k, i := range source {
			rows[k] = -1
			if offset[k] < fc.frames[i].Len() {
				rows[k] = starts[i] + offset[k]
			}
		}
		return NewGroupColumn(c.Name(), sliceWithNulls(stacked, rows)), nil
	}

	values := make([]any, len(source))
	for k, i := range source {
		v := c.Get(i)
		if list, ok := listElements(v); ok {
			if offset[k] < len(list) {
				values[k] = list[offset[k]]
			}
			continue
		}
		if offset[k] == 0 {
			values[k] = v
		}
	}
	return BuildColumn(c.Name(), values, types.Type{}), nil
}

// MergeRows collapses rows that agree on every other column. The selected
// value columns become list cells and frame columns are stacked.
func (df *DataFrame) MergeRows(sel Selector) (*DataFrame, error) {
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	cols = topMost(cols)
	keys := ListDFS(AllColumnsExcept(df, cols), false)

	idx := newTupleIndex(df.nrow)
	for i := range df.nrow {
		tuple := make([]any, len(keys))
		for j, k := range keys {
			tuple[j] = k.Column.Get(i)
		}
		idx.add(tuple, i)
	}
	first := make([]int, idx.len())
	for id, e := range idx.entries {
		first[id] = e.rows[0]
	}

	out := df.Slice(first)
	for _, c := range cols {
		merged, err := implodeColumn(c.Column, idx.entries)
		if err != nil {
			return nil, err
		}
		out, err = replaceAt("mergeRows", out, c.Path, func(Column) ([]Column, error) {
			return []Column{merged}, nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Implode is MergeRows.
func (df *DataFrame) Implode(sel Selector) (*DataFrame, error) { return df.MergeRows(sel) }

func implodeColumn(c Column, groups []tupleEntry) (Column, error) {
	switch c.Kind() {
	case FrameKind:
		fc := c.(*FrameColumn)
		frames := make([]*DataFrame, len(groups))
		for g, e := range groups {
			parts := make([]*DataFrame, len(e.rows))
			for k, r := range e.rows {
				parts[k] = fc.frames[r]
			}
			stacked, err := Concat(parts...)
			if err != nil {
				return nil, err
			}
			frames[g] = stacked
		}
		return NewFrameColumnWithSchema(c.Name(), frames, fc.Schema()), nil
	case GroupKind:
		g := c.(*GroupColumn)
		frames := make([]*DataFrame, len(groups))
		for i, e := range groups {
			frames[i] = g.Frame().Slice(e.rows)
		}
		return NewFrameColumnWithSchema(c.Name(), frames, g.Frame()), nil
	}

	values := make([]any, len(groups))
	for g, e := range groups {
		list := make([]any, len(e.rows))
		for k, r := range e.rows {
			list[k] = c.Get(r)
		}
		values[g] = list
	}
	return NewValueColumn(c.Name(), values, types.ListOf(c.Type())), nil
}
