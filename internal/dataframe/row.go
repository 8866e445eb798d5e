package dataframe

import (
	"fmt"
	"iter"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/paveg/nestframe/internal/colpath"
	"github.com/paveg/nestframe/internal/common"
)

// Row is a lazy view of one row. It holds no copies; reading a cell reads
// the owning column.
type Row struct {
	df    *DataFrame
	index int
}

// Row returns the view of row i. It panics when i is out of range, like a
// slice index.
func (df *DataFrame) Row(i int) Row {
	if i < 0 || i >= df.nrow {
		panic(fmt.Sprintf("row index %d out of range [0, %d)", i, df.nrow))
	}
	return Row{df: df, index: i}
}

// Rows iterates rows in order.
func (df *DataFrame) Rows() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i := range df.nrow {
			if !yield(i, Row{df: df, index: i}) {
				return
			}
		}
	}
}

// Index returns the row position in its frame
func (r Row) Index() int { return r.index }

// Frame returns the frame the row belongs to
func (r Row) Frame() *DataFrame { return r.df }

// Get returns the cell of a top-level column. Group cells are returned as
// nested Rows.
func (r Row) Get(name string) (any, bool) {
	c, ok := r.df.Column(name)
	if !ok {
		return nil, false
	}
	return c.Get(r.index), true
}

// GetPath returns the cell at a column path.
func (r Row) GetPath(path colpath.Path) (any, bool) {
	c, ok := r.df.ColumnByPath(path)
	if !ok {
		return nil, false
	}
	return c.Get(r.index), true
}

// Values returns the top-level cells in column order.
func (r Row) Values() []any {
	out := make([]any, len(r.df.columns))
	for i, c := range r.df.columns {
		out[i] = c.Get(r.index)
	}
	return out
}

// Map returns the top-level cells keyed by column name.
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r.df.columns))
	for _, c := range r.df.columns {
		out[c.Name()] = c.Get(r.index)
	}
	return out
}

// EqualTo compares column names and cells.
func (r Row) EqualTo(other any) bool {
	o, ok := other.(Row)
	if !ok || len(r.df.columns) != len(o.df.columns) {
		return false
	}
	for i, c := range r.df.columns {
		oc := o.df.columns[i]
		if c.Name() != oc.Name() || !common.EqualValues(c.Get(r.index), oc.Get(o.index)) {
			return false
		}
	}
	return true
}

// WriteHash is consistent with EqualTo.
func (r Row) WriteHash(d *xxhash.Digest) {
	_, _ = d.WriteString("row")
	for _, c := range r.df.columns {
		_, _ = d.WriteString(c.Name())
		common.WriteValue(d, c.Get(r.index))
	}
}

func (r Row) String() string {
	parts := make([]string, len(r.df.columns))
	for i, c := range r.df.columns {
		parts[i] = c.Name() + ": " + renderCell(c.Get(r.index))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
