package dataframe

import (
	"slices"

	"github.com/paveg/nestframe/internal/colpath"
	"github.com/paveg/nestframe/internal/config"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/types"
)

// Resolve evaluates sel against df, failing on unknown names.
func (df *DataFrame) Resolve(sel Selector) ([]ColumnWithPath, error) {
	return sel.ResolveIn(df)
}

// Select returns the selected columns as a new frame. Nested columns are
// lifted to top level under their own (or Named) names, columns whose
// ancestor is also selected are dropped, and clashing names are an error.
func (df *DataFrame) Select(sel Selector) (*DataFrame, error) {
	return df.SelectWithPolicy(sel, FailOnUnresolved)
}

// SelectWithPolicy is Select with an explicit unresolved-column policy.
func (df *DataFrame) SelectWithPolicy(sel Selector, policy UnresolvedColumnsPolicy) (*DataFrame, error) {
	cols, err := sel.Resolve(ResolutionContext{Frame: df, Policy: policy})
	if err != nil {
		return nil, err
	}
	return NewWithRows(df.nrow, unwrap(topMost(cols))...)
}

// Remove drops the selected columns. Groups keep their other children and
// disappear once empty.
func (df *DataFrame) Remove(sel Selector) (*DataFrame, error) {
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	return withoutColumns(df, cols), nil
}

// Rename gives the selected columns new names, pairwise.
func (df *DataFrame) Rename(sel Selector, names ...string) (*DataFrame, error) {
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	if len(cols) != len(names) {
		return nil, dferrors.NewArityError("rename", len(names), len(cols))
	}
	byPath := make(map[string]string, len(cols))
	for i, c := range cols {
		byPath[c.Path.Key()] = names[i]
	}
	return df.RenameWith(sel, func(c ColumnWithPath) string { return byPath[c.Path.Key()] })
}

// RenameWith renames every selected column to fn(column).
func (df *DataFrame) RenameWith(sel Selector, fn func(ColumnWithPath) string) (*DataFrame, error) {
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	// Deepest first so renaming a group does not invalidate the paths of
	// its selected descendants.
	slices.SortStableFunc(cols, func(a, b ColumnWithPath) int { return len(b.Path) - len(a.Path) })
	out := df
	for _, c := range cols {
		name := fn(c)
		out, err = replaceAt("rename", out, c.Path, func(col Column) ([]Column, error) {
			return []Column{col.Rename(name)}, nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Add appends top-level columns.
func (df *DataFrame) Add(columns ...Column) (*DataFrame, error) {
	return NewWithRows(df.nrow, slices.Concat(df.columns, columns)...)
}

// AddFunc appends a top-level column computed row by row. The column type is
// inferred from the produced values.
func (df *DataFrame) AddFunc(name string, fn func(Row) (any, error)) (*DataFrame, error) {
	values := make([]any, df.nrow)
	for i := range df.nrow {
		v, err := fn(df.Row(i))
		if err != nil {
			return nil, dferrors.NewInternalError("add", err)
		}
		values[i] = v
	}
	return df.Add(BuildColumn(name, values, types.Type{}))
}

// Insert places col inside the group at under, creating missing groups.
// An empty path appends at top level.
func (df *DataFrame) Insert(under colpath.Path, col Column) (*DataFrame, error) {
	return insertAt(df, under, col)
}

func insertAt(df *DataFrame, under colpath.Path, col Column) (*DataFrame, error) {
	if len(under) == 0 {
		return df.Add(col)
	}
	i := df.ColumnIndex(under[0])
	if i < 0 {
		inner, err := insertAt(Empty(df.nrow), under[1:], col)
		if err != nil {
			return nil, err
		}
		return df.Add(NewGroupColumn(under[0], inner))
	}
	g, ok := df.columns[i].(*GroupColumn)
	if !ok {
		return nil, dferrors.NewTypeMismatchError("insert", under[0], "target is not a column group")
	}
	inner, err := insertAt(g.Frame(), under[1:], col)
	if err != nil {
		return nil, err
	}
	columns := slices.Clone(df.columns)
	columns[i] = NewGroupColumn(g.Name(), inner)
	return NewWithRows(df.nrow, columns...)
}

// replaceAt rebuilds df with the column at path replaced by fn's result,
// which may be empty or hold several columns.
func replaceAt(op string, df *DataFrame, path colpath.Path, fn func(Column) ([]Column, error)) (*DataFrame, error) {
	if len(path) == 0 {
		return nil, dferrors.NewInvalidInputError(op, "empty column path")
	}
	i := df.ColumnIndex(path[0])
	if i < 0 {
		return nil, dferrors.NewColumnNotFoundError(op, path.String())
	}

	var repl []Column
	if len(path) == 1 {
		var err error
		if repl, err = fn(df.columns[i]); err != nil {
			return nil, err
		}
	} else {
		g, ok := df.columns[i].(*GroupColumn)
		if !ok {
			return nil, dferrors.NewColumnNotFoundError(op, path.String())
		}
		inner, err := replaceAt(op, g.Frame(), path[1:], fn)
		if err != nil {
			return nil, err
		}
		repl = []Column{NewGroupColumn(g.Name(), inner)}
	}
	return NewWithRows(df.nrow, slices.Concat(df.columns[:i], repl, df.columns[i+1:])...)
}

// Move relocates the selected columns into the group at under, creating it
// when missing. Moving a column into its own subtree is an invariant error.
func (df *DataFrame) Move(sel Selector, under colpath.Path) (*DataFrame, error) {
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	cols = topMost(cols)
	for _, c := range cols {
		if under.HasPrefix(c.Path) {
			return nil, dferrors.NewInvariantError("move", c.Path.String(), under.String(),
				"cannot move a column into its own descendant")
		}
	}
	out := withoutColumns(df, cols)
	for _, c := range cols {
		if out, err = insertAt(out, under, c.Column); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Group moves the selected columns into the top-level group into.
func (df *DataFrame) Group(sel Selector, into string) (*DataFrame, error) {
	return df.Move(sel, colpath.Of(into))
}

// Ungroup replaces each selected group by its children.
func (df *DataFrame) Ungroup(sel Selector) (*DataFrame, error) {
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	out := df
	for _, c := range topMost(cols) {
		out, err = replaceAt("ungroup", out, c.Path, func(col Column) ([]Column, error) {
			g, ok := col.(*GroupColumn)
			if !ok {
				return nil, dferrors.NewTypeMismatchError("ungroup", c.Path.String(), "not a column group")
			}
			return g.Columns(), nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Flatten removes every group, keeping the leaves in pre-order. Leaves are
// named by their shortest unique path suffix joined with the configured
// path separator.
func (df *DataFrame) Flatten() (*DataFrame, error) {
	leaves := ListDFS(topLevel(df), false)
	paths := make([]colpath.Path, len(leaves))
	for i, c := range leaves {
		paths[i] = c.Path
	}
	sep := config.GetGlobalConfig().PathSeparator
	columns := make([]Column, len(leaves))
	for i, suffix := range colpath.ShortestUniqueSuffixes(paths) {
		columns[i] = leaves[i].Column.Rename(suffix.Join(sep))
	}
	return NewWithRows(df.nrow, columns...)
}

// Update replaces every selected value column by fn(row, value) applied per
// row. The new type is inferred from the produced values.
func (df *DataFrame) Update(sel Selector, fn func(Row, any) (any, error)) (*DataFrame, error) {
	return df.mapValueColumns("update", sel, func(c ColumnWithPath) (Column, error) {
		values := make([]any, df.nrow)
		for i := range df.nrow {
			v, err := fn(df.Row(i), c.Column.Get(i))
			if err != nil {
				return nil, dferrors.NewInternalError("update", err)
			}
			values[i] = v
		}
		return BuildColumn(c.Name(), values, types.Type{}), nil
	})
}

// Convert converts the selected value columns to target. Failures report
// the column, row and both types.
func (df *DataFrame) Convert(sel Selector, target types.Type) (*DataFrame, error) {
	return df.mapValueColumns("convert", sel, func(c ColumnWithPath) (Column, error) {
		values := make([]any, df.nrow)
		for i := range df.nrow {
			v := c.Column.Get(i)
			out, err := types.Convert(v, target.WithNullability(true))
			if err != nil {
				return nil, &dferrors.ConversionError{
					Column: c.Path.String(),
					Row:    i,
					Value:  v,
					From:   types.TypeOfValue(v).String(),
					To:     target.String(),
					Cause:  err,
				}
			}
			values[i] = out
		}
		return NewValueColumn(c.Name(), values, target), nil
	})
}

// Parse parses the selected string columns with parser. Nulls stay null;
// non-string values are a type mismatch. A zero target is inferred.
func (df *DataFrame) Parse(sel Selector, parser func(string) (any, error), target types.Type) (*DataFrame, error) {
	return df.mapValueColumns("parse", sel, func(c ColumnWithPath) (Column, error) {
		values := make([]any, df.nrow)
		for i := range df.nrow {
			v := c.Column.Get(i)
			if v == nil {
				continue
			}
			s, ok := v.(string)
			if !ok {
				return nil, dferrors.NewTypeMismatchError("parse", c.Path.String(),
					"expected string values, got "+types.TypeOfValue(v).String())
			}
			out, err := parser(s)
			if err != nil {
				return nil, &dferrors.ConversionError{
					Column: c.Path.String(),
					Row:    i,
					Value:  s,
					From:   "string",
					To:     target.String(),
					Cause:  err,
				}
			}
			values[i] = out
		}
		return NewValueColumn(c.Name(), values, target), nil
	})
}

// mapValueColumns replaces every selected value column in place.
func (df *DataFrame) mapValueColumns(op string, sel Selector, fn func(ColumnWithPath) (Column, error)) (*DataFrame, error) {
	cols, err := df.Resolve(sel)
	if err != nil {
		return nil, err
	}
	out := df
	for _, c := range cols {
		if c.Column.Kind() != ValueKind {
			return nil, dferrors.NewTypeMismatchError(op, c.Path.String(), "not a value column")
		}
		repl, err := fn(c)
		if err != nil {
			return nil, err
		}
		out, err = replaceAt(op, out, c.Path, func(Column) ([]Column, error) { return []Column{repl}, nil })
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
