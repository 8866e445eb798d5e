package dataframe

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"

	"github.com/paveg/nestframe/internal/common"
	"github.com/paveg/nestframe/internal/types"
)

// Kind distinguishes the three column variants.
type Kind int

const (
	// ValueKind columns hold flat scalar or opaque values.
	ValueKind Kind = iota
	// GroupKind columns wrap a nested frame aligned 1:1 with the parent rows.
	GroupKind
	// FrameKind columns hold one independent frame per row.
	FrameKind
)

func (k Kind) String() string {
	switch k {
	case ValueKind:
		return "Value"
	case GroupKind:
		return "Group"
	case FrameKind:
		return "Frame"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Column is an immutable named sequence. Its length always equals the row
// count of the frame that owns it.
type Column interface {
	Name() string
	Kind() Kind
	// Type is the element type. Group columns report types.Row and frame
	// columns types.Frame.
	Type() types.Type
	Len() int
	Get(i int) any
	IsNull(i int) bool
	HasNulls() bool
	Values() []any
	Rename(name string) Column
	// Slice returns the rows at indices, in that order. Repeats are allowed.
	Slice(indices []int) Column
	String() string
}

func init() {
	types.Bind(reflect.TypeFor[*DataFrame](), types.FrameClass)
	types.Bind(reflect.TypeFor[Row](), types.RowClass)
}

// SliceRange returns rows [from, to).
func SliceRange(c Column, from, to int) Column {
	return c.Slice(rangeIndices(from, to))
}

// FilterColumn keeps the rows where mask is true.
func FilterColumn(c Column, mask []bool) Column {
	indices := make([]int, 0, len(mask))
	for i, keep := range mask {
		if keep {
			indices = append(indices, i)
		}
	}
	return c.Slice(indices)
}

// DistinctColumn keeps the first occurrence of every distinct value.
func DistinctColumn(c Column) Column {
	idx := newTupleIndex(c.Len())
	first := make([]int, 0, c.Len())
	for i := range c.Len() {
		if _, added := idx.add([]any{c.Get(i)}, i); added {
			first = append(first, i)
		}
	}
	return c.Slice(first)
}

// MapColumn applies fn to every value. A zero resultType is inferred from
// the produced values.
func MapColumn(c Column, fn func(any) (any, error), resultType types.Type) (*ValueColumn, error) {
	values := make([]any, c.Len())
	for i := range values {
		v, err := fn(c.Get(i))
		if err != nil {
			return nil, fmt.Errorf("mapping column '%s' at row %d: %w", c.Name(), i, err)
		}
		values[i] = v
	}
	return NewValueColumn(c.Name(), values, resultType), nil
}

// ColumnsEqual compares name, kind, type and contents.
func ColumnsEqual(a, b Column) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Name() != b.Name() || a.Kind() != b.Kind() || a.Len() != b.Len() {
		return false
	}
	switch a.Kind() {
	case GroupKind:
		return a.(*GroupColumn).Frame().Equal(b.(*GroupColumn).Frame())
	case ValueKind:
		if !a.Type().Equal(b.Type()) {
			return false
		}
	}
	for i := range a.Len() {
		if !common.EqualValues(a.Get(i), b.Get(i)) {
			return false
		}
	}
	return true
}

// HashColumn hashes name, kind and contents, consistent with ColumnsEqual.
func HashColumn(c Column) uint64 {
	d := xxhash.New()
	writeColumnHash(d, c)
	return d.Sum64()
}

func writeColumnHash(d *xxhash.Digest, c Column) {
	_, _ = d.WriteString(c.Name())
	_, _ = d.Write([]byte{byte(c.Kind())})
	if g, ok := c.(*GroupColumn); ok {
		g.Frame().WriteHash(d)
		return
	}
	for i := range c.Len() {
		common.WriteValue(d, c.Get(i))
	}
}

func rangeIndices(from, to int) []int {
	if to < from {
		return []int{}
	}
	out := make([]int, to-from)
	for i := range out {
		out[i] = from + i
	}
	return out
}
