package dataframe

import (
	"fmt"
	"strings"

	"github.com/paveg/nestframe/internal/common"
	"github.com/paveg/nestframe/internal/types"
)

// ValueColumn holds flat values. Slices share the backing data and carry
// their own index view.
type ValueColumn struct {
	name  string
	typ   types.Type
	data  []any
	index []int // nil means identity
	nulls int
}

// NewValueColumn builds a value column with a declared type. A zero type is
// inferred from the values. Pointer values are stored dereferenced, and a
// column holding nulls is always reported nullable.
func NewValueColumn(name string, values []any, typ types.Type) *ValueColumn {
	data := make([]any, len(values))
	nulls := 0
	for i, v := range values {
		data[i] = types.Deref(v)
		if data[i] == nil {
			nulls++
		}
	}
	if typ.IsZero() {
		typ = types.GuessValueType(data)
	}
	if nulls > 0 {
		typ = typ.WithNullability(true)
	}
	return &ValueColumn{name: name, typ: typ, data: data, nulls: nulls}
}

// InferValueColumn builds a value column whose type is unified from its values.
func InferValueColumn(name string, values []any) *ValueColumn {
	return NewValueColumn(name, values, types.Type{})
}

// ValueColumnOf builds a value column typed by T. Pointer element types make
// the column nullable.
func ValueColumnOf[T any](name string, values ...T) *ValueColumn {
	boxed := make([]any, len(values))
	for i, v := range values {
		boxed[i] = v
	}
	return NewValueColumn(name, boxed, types.TypeOf[T]())
}

// NullColumn builds an all-null column of type Nothing?.
func NullColumn(name string, n int) *ValueColumn {
	return &ValueColumn{name: name, typ: types.NullableNothing, data: make([]any, n), nulls: n}
}

func (c *ValueColumn) Name() string     { return c.name }
func (c *ValueColumn) Kind() Kind       { return ValueKind }
func (c *ValueColumn) Type() types.Type { return c.typ }
func (c *ValueColumn) HasNulls() bool   { return c.nulls > 0 }

func (c *ValueColumn) Len() int {
	if c.index != nil {
		return len(c.index)
	}
	return len(c.data)
}

func (c *ValueColumn) Get(i int) any {
	if c.index != nil {
		return c.data[c.index[i]]
	}
	return c.data[i]
}

func (c *ValueColumn) IsNull(i int) bool { return c.Get(i) == nil }

// Values returns a copy of the values in row order.
func (c *ValueColumn) Values() []any {
	out := make([]any, c.Len())
	for i := range out {
		out[i] = c.Get(i)
	}
	return out
}

func (c *ValueColumn) Rename(name string) Column {
	cp := *c
	cp.name = name
	return &cp
}

// Slice re-indexes the shared data. The result is nullable only when a
// retained value is null.
func (c *ValueColumn) Slice(indices []int) Column {
	index := make([]int, len(indices))
	nulls := 0
	for i, at := range indices {
		if c.index != nil {
			index[i] = c.index[at]
		} else {
			index[i] = at
		}
		if c.data[index[i]] == nil {
			nulls++
		}
	}
	return &ValueColumn{
		name:  c.name,
		typ:   c.typ.WithNullability(nulls > 0),
		data:  c.data,
		index: index,
		nulls: nulls,
	}
}

// WithType returns the column with a different declared type.
func (c *ValueColumn) WithType(t types.Type) *ValueColumn {
	cp := *c
	cp.typ = t.WithNullability(t.Nullable() || c.nulls > 0)
	return &cp
}

func (c *ValueColumn) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s [", c.name, c.typ)
	for i := range min(c.Len(), 10) {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(common.ToString(c.Get(i)))
	}
	if c.Len() > 10 {
		b.WriteString(", ...")
	}
	b.WriteByte(']')
	return b.String()
}
