// Package dataframe provides immutable, hierarchical data frames: value,
// group and frame columns, path-based column selection, reshaping,
// grouping and joins. Every operation returns a new frame; columns are
// shared between frames wherever they are unchanged.
package dataframe

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/cespare/xxhash/v2"

	"github.com/paveg/nestframe/internal/colpath"
	"github.com/paveg/nestframe/internal/common"
	"github.com/paveg/nestframe/internal/config"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/types"
	"github.com/paveg/nestframe/internal/validation"
)

// DataFrame represents an ordered set of equally long, uniquely named columns
type DataFrame struct {
	columns []Column
	byName  map[string]int
	nrow    int
}

// New creates a DataFrame from columns. Mismatched lengths and duplicate
// names are reported together.
func New(columns ...Column) (*DataFrame, error) {
	if err := validation.ValidateShape("new", -1, columns); err != nil {
		return nil, err
	}
	nrow := 0
	if len(columns) > 0 {
		nrow = columns[0].Len()
	}
	return newFrame(nrow, columns), nil
}

// NewWithRows creates a DataFrame whose row count is fixed even without columns.
func NewWithRows(nrow int, columns ...Column) (*DataFrame, error) {
	if err := validation.ValidateShape("new", nrow, columns); err != nil {
		return nil, err
	}
	return newFrame(nrow, columns), nil
}

// MustNew is New that panics on error. Intended for literals and tests.
func MustNew(columns ...Column) *DataFrame {
	df, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return df
}

// Empty returns a frame with n rows and no columns.
func Empty(n int) *DataFrame {
	return newFrame(n, nil)
}

// Of builds a frame from a header and row-major values:
//
//	df, err := Of("name", "age")("alice", 30, "bob", 25)
func Of(header ...string) func(values ...any) (*DataFrame, error) {
	return func(values ...any) (*DataFrame, error) {
		if len(header) == 0 {
			if len(values) > 0 {
				return nil, dferrors.NewArityError("of", len(values), 0)
			}
			return Empty(0), nil
		}
		if len(values)%len(header) != 0 {
			return nil, dferrors.NewArityError("of", len(values)%len(header), len(header))
		}
		nrow := len(values) / len(header)
		columns := make([]Column, len(header))
		for j, name := range header {
			col := make([]any, nrow)
			for i := range nrow {
				col[i] = values[i*len(header)+j]
			}
			columns[j] = BuildColumn(name, col, types.Type{})
		}
		return New(columns...)
	}
}

// BuildColumn is the construction contract used by readers: raw values plus
// an optional declared type. Frames become a frame column; everything else
// a value column typed by unification.
func BuildColumn(name string, values []any, declared types.Type) Column {
	if len(values) > 0 && declared.IsZero() {
		frames := make([]*DataFrame, len(values))
		allFrames := true
		for i, v := range values {
			switch f := v.(type) {
			case *DataFrame:
				frames[i] = f
			case nil:
			default:
				allFrames = false
			}
			if !allFrames {
				break
			}
		}
		if allFrames && !allNil(values) {
			return NewFrameColumn(name, frames)
		}
	}
	return NewValueColumn(name, values, declared)
}

func allNil(values []any) bool {
	for _, v := range values {
		if v != nil {
			return false
		}
	}
	return true
}

func newFrame(nrow int, columns []Column) *DataFrame {
	byName := make(map[string]int, len(columns))
	for i, c := range columns {
		byName[c.Name()] = i
	}
	return &DataFrame{columns: columns, byName: byName, nrow: nrow}
}

// Columns returns the top-level columns in order
func (df *DataFrame) Columns() []Column {
	return append([]Column(nil), df.columns...)
}

// ColumnNames returns the names of all top-level columns in order
func (df *DataFrame) ColumnNames() []string {
	names := make([]string, len(df.columns))
	for i, c := range df.columns {
		names[i] = c.Name()
	}
	return names
}

// Len returns the number of rows
func (df *DataFrame) Len() int { return df.nrow }

// Width returns the number of top-level columns
func (df *DataFrame) Width() int { return len(df.columns) }

// Column returns the top-level column with the given name
func (df *DataFrame) Column(name string) (Column, bool) {
	i, ok := df.byName[name]
	if !ok {
		return nil, false
	}
	return df.columns[i], true
}

// HasColumn checks if a top-level column exists
func (df *DataFrame) HasColumn(name string) bool {
	_, ok := df.byName[name]
	return ok
}

// ColumnAt returns the i-th top-level column.
func (df *DataFrame) ColumnAt(i int) (Column, error) {
	if err := validation.ValidateIndex(i, len(df.columns), "columnAt"); err != nil {
		return nil, err
	}
	return df.columns[i], nil
}

// ColumnIndex returns the position of a top-level column, or -1.
func (df *DataFrame) ColumnIndex(name string) int {
	if i, ok := df.byName[name]; ok {
		return i
	}
	return -1
}

// ColumnByPath walks groups to the column at path.
func (df *DataFrame) ColumnByPath(path colpath.Path) (Column, bool) {
	if len(path) == 0 {
		return nil, false
	}
	cur := df
	for i, name := range path {
		c, ok := cur.Column(name)
		if !ok {
			return nil, false
		}
		if i == len(path)-1 {
			return c, true
		}
		g, ok := c.(*GroupColumn)
		if !ok {
			return nil, false
		}
		cur = g.Frame()
	}
	return nil, false
}

// Slice returns the rows at indices, re-indexing every column.
func (df *DataFrame) Slice(indices []int) *DataFrame {
	columns := make([]Column, len(df.columns))
	for i, c := range df.columns {
		columns[i] = c.Slice(indices)
	}
	return newFrame(len(indices), columns)
}

// SliceRange returns rows [from, to), clamped to the frame.
func (df *DataFrame) SliceRange(from, to int) *DataFrame {
	from = max(0, min(from, df.nrow))
	to = max(from, min(to, df.nrow))
	return df.Slice(rangeIndices(from, to))
}

// Head returns the first n rows
func (df *DataFrame) Head(n int) *DataFrame { return df.SliceRange(0, n) }

// Tail returns the last n rows
func (df *DataFrame) Tail(n int) *DataFrame { return df.SliceRange(df.nrow-n, df.nrow) }

// Filter keeps the rows satisfying pred.
func (df *DataFrame) Filter(pred func(Row) bool) *DataFrame {
	indices := make([]int, 0, df.nrow)
	for i := range df.nrow {
		if pred(df.Row(i)) {
			indices = append(indices, i)
		}
	}
	return df.Slice(indices)
}

// Distinct keeps the first occurrence of every distinct row.
func (df *DataFrame) Distinct() *DataFrame {
	idx := newTupleIndex(df.nrow)
	first := make([]int, 0, df.nrow)
	for i := range df.nrow {
		if _, added := idx.add(df.Row(i).Values(), i); added {
			first = append(first, i)
		}
	}
	return df.Slice(first)
}

// Equal reports structural equality: same columns, in order, with equal
// names, types and contents.
func (df *DataFrame) Equal(other *DataFrame) bool {
	if df == other {
		return true
	}
	if df == nil || other == nil {
		return false
	}
	if df.nrow != other.nrow || len(df.columns) != len(other.columns) {
		return false
	}
	for i := range df.columns {
		if !ColumnsEqual(df.columns[i], other.columns[i]) {
			return false
		}
	}
	return true
}

// EqualTo lets frames stored in cells compare structurally.
func (df *DataFrame) EqualTo(other any) bool {
	o, ok := other.(*DataFrame)
	return ok && df.Equal(o)
}

// WriteHash lets frames stored in cells take part in key hashing.
func (df *DataFrame) WriteHash(d *xxhash.Digest) {
	_, _ = fmt.Fprintf(d, "frame:%d:%d", df.nrow, len(df.columns))
	for _, c := range df.columns {
		writeColumnHash(d, c)
	}
}

// String renders the frame as a table limited to config.MaxDisplayRows rows.
func (df *DataFrame) String() string {
	if len(df.columns) == 0 {
		return fmt.Sprintf("DataFrame[%dx0]", df.nrow)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "DataFrame[%dx%d]\n", df.nrow, len(df.columns))
	w := tabwriter.NewWriter(&b, 0, 2, 2, ' ', 0)
	header := make([]string, len(df.columns))
	for i, c := range df.columns {
		header[i] = fmt.Sprintf("%s(%s)", c.Name(), c.Type())
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))

	limit := min(df.nrow, config.GetGlobalConfig().MaxDisplayRows)
	for i := range limit {
		cells := make([]string, len(df.columns))
		for j, c := range df.columns {
			cells[j] = renderCell(c.Get(i))
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	_ = w.Flush()
	if df.nrow > limit {
		fmt.Fprintf(&b, "... %d more rows\n", df.nrow-limit)
	}
	return b.String()
}

func renderCell(v any) string {
	switch x := v.(type) {
	case Row:
		return x.String()
	case *DataFrame:
		return fmt.Sprintf("[%dx%d]", x.Len(), x.Width())
	}
	return common.ToString(v)
}
