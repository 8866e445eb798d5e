package dataframe

import (
	"github.com/paveg/nestframe/internal/colpath"
	dferrors "github.com/paveg/nestframe/internal/errors"
)

// UnresolvedColumnsPolicy decides what resolving a missing name does.
type UnresolvedColumnsPolicy int

const (
	// FailOnUnresolved reports ErrColumnNotFound
	FailOnUnresolved UnresolvedColumnsPolicy = iota
	// SkipUnresolved silently yields nothing
	SkipUnresolved
	// CreateUnresolved yields an all-null column of type Nothing?
	CreateUnresolved
)

func (p UnresolvedColumnsPolicy) String() string {
	switch p {
	case SkipUnresolved:
		return "Skip"
	case CreateUnresolved:
		return "Create"
	default:
		return "Fail"
	}
}

// ResolutionContext is the frame a selector resolves against and the policy
// for names that do not exist.
type ResolutionContext struct {
	Frame  *DataFrame
	Policy UnresolvedColumnsPolicy
}

// ColumnWithPath is a resolved column together with its absolute path from
// the root frame it was resolved against.
type ColumnWithPath struct {
	Column Column
	Path   colpath.Path
	Host   *DataFrame
}

// Name returns the column name.
func (c ColumnWithPath) Name() string { return c.Column.Name() }

// IsGroup reports whether the column is a group.
func (c ColumnWithPath) IsGroup() bool { return c.Column.Kind() == GroupKind }

// Group returns the column as a group.
func (c ColumnWithPath) Group() (*GroupColumn, bool) {
	g, ok := c.Column.(*GroupColumn)
	return g, ok
}

// Parent returns the enclosing group, or false for top-level columns.
func (c ColumnWithPath) Parent() (ColumnWithPath, bool) {
	if len(c.Path) < 2 || c.Host == nil {
		return ColumnWithPath{}, false
	}
	parent := c.Path.Parent()
	col, ok := c.Host.ColumnByPath(parent)
	if !ok {
		return ColumnWithPath{}, false
	}
	return ColumnWithPath{Column: col, Path: parent, Host: c.Host}, true
}

// Children returns the direct children of a group, or nil for other kinds.
func (c ColumnWithPath) Children() []ColumnWithPath {
	g, ok := c.Group()
	if !ok {
		return nil
	}
	children := g.Columns()
	out := make([]ColumnWithPath, len(children))
	for i, child := range children {
		out[i] = ColumnWithPath{Column: child, Path: c.Path.Append(child.Name()), Host: c.Host}
	}
	return out
}

// Child returns the named direct child of a group.
func (c ColumnWithPath) Child(name string) (ColumnWithPath, bool) {
	g, ok := c.Group()
	if !ok {
		return ColumnWithPath{}, false
	}
	child, ok := g.Child(name)
	if !ok {
		return ColumnWithPath{}, false
	}
	return ColumnWithPath{Column: child, Path: c.Path.Append(name), Host: c.Host}, true
}

// Rename renames both the column and the last path segment.
func (c ColumnWithPath) Rename(name string) ColumnWithPath {
	path := c.Path.Parent().Append(name)
	return ColumnWithPath{Column: c.Column.Rename(name), Path: path, Host: c.Host}
}

// Reresolve finds the column at the same path in another frame.
func (c ColumnWithPath) Reresolve(df *DataFrame) (ColumnWithPath, bool) {
	col, ok := df.ColumnByPath(c.Path)
	if !ok {
		return ColumnWithPath{}, false
	}
	return ColumnWithPath{Column: col, Path: c.Path, Host: df}, true
}

func (c ColumnWithPath) String() string {
	return c.Path.String() + ": " + c.Column.Type().String()
}

// resolvePath resolves an absolute path. The boolean is false only when the
// policy skips a missing column.
func (ctx ResolutionContext) resolvePath(op string, path colpath.Path) (ColumnWithPath, bool, error) {
	if col, ok := ctx.Frame.ColumnByPath(path); ok {
		return ColumnWithPath{Column: col, Path: path, Host: ctx.Frame}, true, nil
	}
	switch ctx.Policy {
	case SkipUnresolved:
		return ColumnWithPath{}, false, nil
	case CreateUnresolved:
		col := NullColumn(path.Name(), ctx.Frame.Len())
		return ColumnWithPath{Column: col, Path: path, Host: ctx.Frame}, true, nil
	default:
		return ColumnWithPath{}, false, dferrors.NewColumnNotFoundError(op, path.String())
	}
}

// topLevel wraps the top-level columns of df.
func topLevel(df *DataFrame) []ColumnWithPath {
	out := make([]ColumnWithPath, len(df.columns))
	for i, c := range df.columns {
		out[i] = ColumnWithPath{Column: c, Path: colpath.Of(c.Name()), Host: df}
	}
	return out
}
