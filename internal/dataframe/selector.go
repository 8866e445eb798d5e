package dataframe

import (
	"regexp"
	"slices"
	"strings"

	"github.com/paveg/nestframe/internal/colpath"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/types"
)

// Selector is a deferred column selection. It is built from the root
// functions below, refined with methods, and resolved against a frame only
// when an operation runs. Selectors are values and may be reused.
type Selector struct {
	resolve func(ctx ResolutionContext) ([]ColumnWithPath, error)
}

// IsZero reports whether the selector was never set.
func (s Selector) IsZero() bool { return s.resolve == nil }

// Resolve evaluates the selector. A zero selector resolves to nothing.
func (s Selector) Resolve(ctx ResolutionContext) ([]ColumnWithPath, error) {
	if s.resolve == nil {
		return nil, nil
	}
	return s.resolve(ctx)
}

// ResolveIn evaluates the selector against df, failing on unknown names.
func (s Selector) ResolveIn(df *DataFrame) ([]ColumnWithPath, error) {
	return s.Resolve(ResolutionContext{Frame: df})
}

func selector(fn func(ctx ResolutionContext) ([]ColumnWithPath, error)) Selector {
	return Selector{resolve: fn}
}

// Col selects a top-level column by name.
func Col(name string) Selector { return ColPath(colpath.Of(name)) }

// ColPath selects a column by absolute path.
func ColPath(path colpath.Path) Selector {
	return selector(func(ctx ResolutionContext) ([]ColumnWithPath, error) {
		c, ok, err := ctx.resolvePath("select", path)
		if err != nil || !ok {
			return nil, err
		}
		return []ColumnWithPath{c}, nil
	})
}

// Cols selects several top-level columns by name, in the given order.
func Cols(names ...string) Selector {
	paths := make([]colpath.Path, len(names))
	for i, n := range names {
		paths[i] = colpath.Of(n)
	}
	return Paths(paths...)
}

// Paths selects several columns by absolute path.
func Paths(paths ...colpath.Path) Selector {
	return selector(func(ctx ResolutionContext) ([]ColumnWithPath, error) {
		out := make([]ColumnWithPath, 0, len(paths))
		for _, p := range paths {
			c, ok, err := ctx.resolvePath("select", p)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, c)
			}
		}
		return out, nil
	})
}

// ColAt selects a top-level column by position.
func ColAt(i int) Selector {
	return selector(func(ctx ResolutionContext) ([]ColumnWithPath, error) {
		c, err := ctx.Frame.ColumnAt(i)
		if err != nil {
			return nil, err
		}
		return []ColumnWithPath{{Column: c, Path: colpath.Of(c.Name()), Host: ctx.Frame}}, nil
	})
}

// Columns wraps already resolved columns. Each is re-resolved by path so the
// selector follows the frame it is applied to.
func Columns(columns ...ColumnWithPath) Selector {
	paths := make([]colpath.Path, len(columns))
	for i, c := range columns {
		paths[i] = c.Path
	}
	return Paths(paths...)
}

// All selects every top-level column.
func All() Selector {
	return selector(func(ctx ResolutionContext) ([]ColumnWithPath, error) {
		return topLevel(ctx.Frame), nil
	})
}

// AllExcept selects every column except the given ones. Groups that lose
// children are kept with the survivors.
func AllExcept(excluded Selector) Selector {
	return selector(func(ctx ResolutionContext) ([]ColumnWithPath, error) {
		ex, err := excluded.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		return AllColumnsExcept(ctx.Frame, ex), nil
	})
}

// ColsAtAnyDepth selects every column at every depth, groups included, in
// pre-order.
func ColsAtAnyDepth() Selector { return All().Dfs(true) }

// ColsOf selects the top-level columns whose values are all of type t.
func ColsOf(t types.Type) Selector { return All().OfType(t) }

// then post-processes the resolved columns.
func (s Selector) then(fn func(ctx ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error)) Selector {
	return selector(func(ctx ResolutionContext) ([]ColumnWithPath, error) {
		cols, err := s.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		return fn(ctx, cols)
	})
}

func (s Selector) filter(keep func(ColumnWithPath) bool) Selector {
	return s.then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		out := make([]ColumnWithPath, 0, len(cols))
		for _, c := range cols {
			if keep(c) {
				out = append(out, c)
			}
		}
		return out, nil
	})
}

// Col selects the named child of every selected group.
func (s Selector) Col(name string) Selector { return s.ColPath(colpath.Of(name)) }

// ColPath selects a path relative to every selected group.
func (s Selector) ColPath(rel colpath.Path) Selector {
	return s.then(func(ctx ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		out := make([]ColumnWithPath, 0, len(cols))
		for _, c := range cols {
			r, ok, err := ctx.resolvePath("select", c.Path.Concat(rel))
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, r)
			}
		}
		return out, nil
	})
}

// ColAt selects the i-th child of every selected group.
func (s Selector) ColAt(i int) Selector {
	return s.then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		out := make([]ColumnWithPath, 0, len(cols))
		for _, c := range cols {
			children := c.Children()
			if i < 0 || i >= len(children) {
				return nil, dferrors.NewIndexOutOfBoundsError("colAt", i, len(children))
			}
			out = append(out, children[i])
		}
		return out, nil
	})
}

// Select resolves sub inside every selected group and returns the results
// with absolute paths.
func (s Selector) Select(sub Selector) Selector {
	return s.then(func(ctx ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		var out []ColumnWithPath
		for _, c := range cols {
			g, ok := c.Group()
			if !ok {
				continue
			}
			inner, err := sub.Resolve(ResolutionContext{Frame: g.Frame(), Policy: ctx.Policy})
			if err != nil {
				return nil, err
			}
			for _, r := range inner {
				out = append(out, ColumnWithPath{Column: r.Column, Path: c.Path.Concat(r.Path), Host: ctx.Frame})
			}
		}
		return out, nil
	})
}

// All replaces every selected group by its children. Other columns stay.
func (s Selector) All() Selector {
	return s.then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		out := make([]ColumnWithPath, 0, len(cols))
		for _, c := range cols {
			if c.IsGroup() {
				out = append(out, c.Children()...)
			} else {
				out = append(out, c)
			}
		}
		return out, nil
	})
}

// Except removes other from the selection. other is resolved against the
// root frame, so it may name columns nested inside selected groups; those
// groups are kept with the remaining children. Excluding a group also
// removes any of its descendants from the selection.
func (s Selector) Except(other Selector) Selector {
	return s.then(func(ctx ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		ex, err := other.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		drop, touched := exclusionSets(ex)
		out := make([]ColumnWithPath, 0, len(cols))
		for _, c := range cols {
			if kept, ok := pruneColumn(ctx.Frame, c, drop, touched); ok {
				out = append(out, kept)
			}
		}
		return out, nil
	})
}

// And is the union of both selections in order, without repeated paths.
func (s Selector) And(other Selector) Selector {
	return s.then(func(ctx ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		more, err := other.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		seen := make(map[string]bool, len(cols)+len(more))
		out := make([]ColumnWithPath, 0, len(cols)+len(more))
		for _, c := range slices.Concat(cols, more) {
			if k := c.Path.Key(); !seen[k] {
				seen[k] = true
				out = append(out, c)
			}
		}
		return out, nil
	})
}

// Dfs selects every selected column together with all its descendants, in
// pre-order. Groups are kept only when includeGroups is set.
func (s Selector) Dfs(includeGroups bool) Selector {
	return s.then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		return ListDFS(cols, includeGroups), nil
	})
}

// OfType keeps the columns whose values all belong to t. A non-nullable t
// rejects columns holding nulls.
func (s Selector) OfType(t types.Type) Selector {
	return s.filter(func(c ColumnWithPath) bool {
		if !t.Nullable() && c.Column.HasNulls() {
			return false
		}
		return c.Column.Type().WithNullability(false).IsSubtypeOf(t.WithNullability(true))
	})
}

// ValueCols keeps value columns.
func (s Selector) ValueCols() Selector {
	return s.filter(func(c ColumnWithPath) bool { return c.Column.Kind() == ValueKind })
}

// GroupCols keeps column groups.
func (s Selector) GroupCols() Selector {
	return s.filter(func(c ColumnWithPath) bool { return c.Column.Kind() == GroupKind })
}

// FrameCols keeps frame columns.
func (s Selector) FrameCols() Selector {
	return s.filter(func(c ColumnWithPath) bool { return c.Column.Kind() == FrameKind })
}

// Filter keeps the columns satisfying pred.
func (s Selector) Filter(pred func(ColumnWithPath) bool) Selector { return s.filter(pred) }

// NameContains keeps the columns whose name contains substr.
func (s Selector) NameContains(substr string) Selector {
	return s.filter(func(c ColumnWithPath) bool { return strings.Contains(c.Name(), substr) })
}

// NameMatches keeps the columns whose name matches re.
func (s Selector) NameMatches(re *regexp.Regexp) Selector {
	return s.filter(func(c ColumnWithPath) bool { return re.MatchString(c.Name()) })
}

func (s Selector) window(fn func(n int) (int, int)) Selector {
	return s.then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		from, to := fn(len(cols))
		from = max(0, min(from, len(cols)))
		to = max(from, min(to, len(cols)))
		return cols[from:to], nil
	})
}

// Take keeps the first n columns.
func (s Selector) Take(n int) Selector { return s.window(func(int) (int, int) { return 0, n }) }

// TakeLast keeps the last n columns.
func (s Selector) TakeLast(n int) Selector {
	return s.window(func(l int) (int, int) { return l - n, l })
}

// Drop skips the first n columns.
func (s Selector) Drop(n int) Selector { return s.window(func(l int) (int, int) { return n, l }) }

// DropLast skips the last n columns.
func (s Selector) DropLast(n int) Selector {
	return s.window(func(l int) (int, int) { return 0, l - n })
}

// Range keeps positions [from, to).
func (s Selector) Range(from, to int) Selector {
	return s.then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		if from < 0 || to > len(cols) || from > to {
			return nil, dferrors.NewIndexOutOfBoundsError("range", to, len(cols))
		}
		return cols[from:to], nil
	})
}

// At keeps the columns at the given positions, in that order.
func (s Selector) At(indices ...int) Selector {
	return s.then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		out := make([]ColumnWithPath, len(indices))
		for i, at := range indices {
			if at < 0 || at >= len(cols) {
				return nil, dferrors.NewIndexOutOfBoundsError("at", at, len(cols))
			}
			out[i] = cols[at]
		}
		return out, nil
	})
}

// First keeps the first column. Selecting nothing is an error.
func (s Selector) First() Selector { return s.At(0) }

// Last keeps the last column. Selecting nothing is an error.
func (s Selector) Last() Selector {
	return s.then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		if len(cols) == 0 {
			return nil, dferrors.NewIndexOutOfBoundsError("last", -1, 0)
		}
		return cols[len(cols)-1:], nil
	})
}

// Single requires exactly one selected column.
func (s Selector) Single() Selector {
	return s.then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		if len(cols) != 1 {
			return nil, dferrors.NewArityError("single", len(cols), 1)
		}
		return cols, nil
	})
}

// Named renames the selected column in the result of a select. More than
// one resolved column is an error.
func (s Selector) Named(name string) Selector {
	return s.then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		if len(cols) > 1 {
			return nil, dferrors.NewArityError("named", len(cols), 1)
		}
		out := make([]ColumnWithPath, len(cols))
		for i, c := range cols {
			out[i] = c.Rename(name)
		}
		return out, nil
	})
}

// resolveSingle resolves sel and requires exactly one column.
func resolveSingle(op string, ctx ResolutionContext, sel Selector) (ColumnWithPath, error) {
	cols, err := sel.Resolve(ctx)
	if err != nil {
		return ColumnWithPath{}, err
	}
	if len(cols) != 1 {
		return ColumnWithPath{}, dferrors.NewArityError(op, len(cols), 1)
	}
	return cols[0], nil
}
