package dataframe

import (
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/types"
)

// Concat stacks frames vertically. Columns are matched by name at every
// nesting level; a column missing from some frame is filled with nulls (or
// empty frames) for its rows. Value types are unified.
func Concat(frames ...*DataFrame) (*DataFrame, error) {
	total := 0
	var order []string
	seen := map[string]bool{}
	for _, f := range frames {
		total += f.Len()
		for _, c := range f.columns {
			if !seen[c.Name()] {
				seen[c.Name()] = true
				order = append(order, c.Name())
			}
		}
	}

	columns := make([]Column, 0, len(order))
	for _, name := range order {
		col, err := concatColumn(name, frames)
		if err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return NewWithRows(total, columns...)
}

// Concat appends the rows of others below df.
func (df *DataFrame) Concat(others ...*DataFrame) (*DataFrame, error) {
	return Concat(append([]*DataFrame{df}, others...)...)
}

func concatColumn(name string, frames []*DataFrame) (Column, error) {
	parts := make([]Column, len(frames))
	groups, framesKind, present := 0, 0, 0
	for i, f := range frames {
		c, ok := f.Column(name)
		if !ok {
			continue
		}
		parts[i] = c
		present++
		switch c.Kind() {
		case GroupKind:
			groups++
		case FrameKind:
			framesKind++
		}
	}

	switch {
	case groups == present:
		inner := make([]*DataFrame, len(frames))
		for i, f := range frames {
			if g, ok := parts[i].(*GroupColumn); ok {
				inner[i] = g.Frame()
			} else {
				inner[i] = Empty(f.Len())
			}
		}
		merged, err := Concat(inner...)
		if err != nil {
			return nil, err
		}
		return NewGroupColumn(name, merged), nil
	case groups > 0:
		return nil, dferrors.NewTypeMismatchError("concat", name, "column is a group in some frames only")
	case framesKind == present:
		var all []*DataFrame
		var schema *DataFrame
		for i, f := range frames {
			fc, ok := parts[i].(*FrameColumn)
			if !ok {
				all = append(all, make([]*DataFrame, f.Len())...)
				continue
			}
			if schema == nil && fc.Schema().Width() > 0 {
				schema = fc.Schema()
			}
			all = append(all, fc.frames...)
		}
		return NewFrameColumnWithSchema(name, all, schema), nil
	}

	var values []any
	typesSeen := make([]types.Type, 0, present)
	for i, f := range frames {
		if parts[i] == nil {
			values = append(values, make([]any, f.Len())...)
			if f.Len() > 0 {
				typesSeen = append(typesSeen, types.NullableNothing)
			}
			continue
		}
		values = append(values, parts[i].Values()...)
		typesSeen = append(typesSeen, parts[i].Type())
	}
	return NewValueColumn(name, values, types.CommonType(typesSeen)), nil
}
