package dataframe

import (
	"github.com/paveg/nestframe/internal/colpath"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/types"
)

// Handle is a typed reference to a column path. Its selector checks the
// column type on resolution and Get reads a typed cell from a row.
type Handle[T any] struct {
	path colpath.Path
}

// NewHandle creates a handle for the column at path.
func NewHandle[T any](path ...string) Handle[T] {
	return Handle[T]{path: colpath.Of(path...)}
}

// Path returns the referenced path
func (h Handle[T]) Path() colpath.Path { return h.path }

// Name returns the column name
func (h Handle[T]) Name() string { return h.path.Name() }

// Type returns the static type T stands for
func (h Handle[T]) Type() types.Type { return types.TypeOf[T]() }

// Selector selects the referenced column, failing when its type is not
// assignable to T.
func (h Handle[T]) Selector() Selector {
	want := h.Type()
	return ColPath(h.path).then(func(_ ResolutionContext, cols []ColumnWithPath) ([]ColumnWithPath, error) {
		for _, c := range cols {
			got := c.Column.Type()
			if !got.IsSubtypeOf(want.WithNullability(true)) {
				return nil, dferrors.NewTypeMismatchError("select", c.Path.String(),
					"column type "+got.String()+" is not assignable to "+want.String())
			}
		}
		return cols, nil
	})
}

// Get reads the cell from row. The boolean is false for missing columns,
// nulls and values of another type.
func (h Handle[T]) Get(row Row) (T, bool) {
	var zero T
	v, ok := row.GetPath(h.path)
	if !ok || v == nil {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// ColHandle selects the column a handle refers to.
func ColHandle[T any](h Handle[T]) Selector { return h.Selector() }
