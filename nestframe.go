// Package nestframe provides an immutable, strongly typed DataFrame with
// nested columns. Columns are plain values, column groups holding a nested
// frame, or frame columns holding one frame per row. Columns are addressed
// by paths and picked with a selector DSL; frames are reshaped with group-by,
// pivot, gather, merge/split and joined with INNER, LEFT, RIGHT, OUTER and
// EXCLUDE semantics.
//
// This package is the sole public API for the library.
package nestframe

import (
	"github.com/paveg/nestframe/internal/colpath"
	"github.com/paveg/nestframe/internal/dataframe"
	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/schema"
	"github.com/paveg/nestframe/internal/types"
)

// Core types.
type (
	// DataFrame is an ordered set of equally long, uniquely named columns.
	DataFrame = dataframe.DataFrame
	// Row is a lazy view of one row of a DataFrame.
	Row = dataframe.Row
	// Column is a value column, a column group or a frame column.
	Column = dataframe.Column
	// ValueColumn holds one value per row.
	ValueColumn = dataframe.ValueColumn
	// GroupColumn nests a frame with the same number of rows.
	GroupColumn = dataframe.GroupColumn
	// FrameColumn holds one frame per row.
	FrameColumn = dataframe.FrameColumn
	// Kind tells the three column variants apart.
	Kind = dataframe.Kind
	// Path addresses a column through nested groups.
	Path = colpath.Path
	// ColumnWithPath is a resolved column together with its path.
	ColumnWithPath = dataframe.ColumnWithPath
	// Selector picks columns from a frame.
	Selector = dataframe.Selector
	// Type is a column's value type including nullability.
	Type = types.Type
)

// Operation types.
type (
	GroupedDataFrame     = dataframe.GroupedDataFrame
	Aggregator           = dataframe.Aggregator
	PivotOptions         = dataframe.PivotOptions
	GatherOptions        = dataframe.GatherOptions
	SplitOptions         = dataframe.SplitOptions
	ExcessPolicy         = dataframe.ExcessPolicy
	SortColumnDescriptor = dataframe.SortColumnDescriptor
	JoinType             = dataframe.JoinType
	JoinOptions          = dataframe.JoinOptions
	ColumnMatch          = dataframe.ColumnMatch
	Scheme               = schema.Scheme
	SchemeField          = schema.Field
	SchemeRelation       = schema.Relation
)

// Column kinds.
const (
	ValueKind = dataframe.ValueKind
	GroupKind = dataframe.GroupKind
	FrameKind = dataframe.FrameKind
)

// Join types.
const (
	InnerJoin     = dataframe.InnerJoin
	LeftJoin      = dataframe.LeftJoin
	RightJoin     = dataframe.RightJoin
	FullOuterJoin = dataframe.FullOuterJoin
	ExcludeJoin   = dataframe.ExcludeJoin
)

// Split excess policies.
const (
	DropExcess   = dataframe.DropExcess
	KeepExcess   = dataframe.KeepExcess
	FailOnExcess = dataframe.FailOnExcess
)

// Error kinds, matched with errors.Is.
var (
	ErrColumnNotFound   = dferrors.ErrColumnNotFound
	ErrDuplicateColumn  = dferrors.ErrDuplicateColumn
	ErrMismatchedLength = dferrors.ErrMismatchedLength
	ErrArity            = dferrors.ErrArity
	ErrTypeMismatch     = dferrors.ErrTypeMismatch
	ErrInvariant        = dferrors.ErrInvariant
)

// Frame construction.

// New creates a DataFrame from columns.
func New(columns ...Column) (*DataFrame, error) { return dataframe.New(columns...) }

// MustNew is New that panics on error.
func MustNew(columns ...Column) *DataFrame { return dataframe.MustNew(columns...) }

// Empty returns a frame with n rows and no columns.
func Empty(n int) *DataFrame { return dataframe.Empty(n) }

// Of builds a frame from a header and row-major values:
//
//	df, err := nestframe.Of("name", "age")("Alice", 15, "Bob", 45)
func Of(header ...string) func(values ...any) (*DataFrame, error) {
	return dataframe.Of(header...)
}

// Concat stacks frames vertically, unifying columns by path.
func Concat(frames ...*DataFrame) (*DataFrame, error) { return dataframe.Concat(frames...) }

// ValuesOf builds a value column typed by T.
func ValuesOf[T any](name string, values ...T) *ValueColumn {
	return dataframe.ValueColumnOf(name, values...)
}

// NewColumn builds a column from raw values. Frames make a frame column;
// anything else a value column whose type is unified from the values.
func NewColumn(name string, values []any) Column {
	return dataframe.BuildColumn(name, values, types.Type{})
}

// NewGroup nests frame under name.
func NewGroup(name string, frame *DataFrame) *GroupColumn {
	return dataframe.NewGroupColumn(name, frame)
}

// NewFrames builds a frame column. Nil frames become empty frames with the
// column schema.
func NewFrames(name string, frames ...*DataFrame) *FrameColumn {
	return dataframe.NewFrameColumn(name, frames)
}

// TypeOf returns the column type for T.
func TypeOf[T any]() Type { return types.TypeOf[T]() }

// ListOf returns the list type with elements of elem.
func ListOf(elem Type) Type { return types.ListOf(elem) }

// Selection.

// Col selects a top-level column by name.
func Col(name string) Selector { return dataframe.Col(name) }

// Cols selects top-level columns by name.
func Cols(names ...string) Selector { return dataframe.Cols(names...) }

// ColPath selects a column by dotted path, such as "name.first".
func ColPath(path string) Selector { return dataframe.ColPath(colpath.Parse(path)) }

// ColAt selects a top-level column by position.
func ColAt(i int) Selector { return dataframe.ColAt(i) }

// All selects every top-level column.
func All() Selector { return dataframe.All() }

// AllExcept selects every column except the excluded ones, at any depth.
func AllExcept(excluded Selector) Selector { return dataframe.AllExcept(excluded) }

// Leaves selects every value and frame column at any depth.
func Leaves() Selector { return dataframe.All().Dfs(false) }

// Aggregation.

func Count(name string) Aggregator                { return dataframe.CountOf(name) }
func Sum(sel Selector, name string) Aggregator    { return dataframe.SumOf(sel, name) }
func Mean(sel Selector, name string) Aggregator   { return dataframe.MeanOf(sel, name) }
func Min(sel Selector, name string) Aggregator    { return dataframe.MinOf(sel, name) }
func Max(sel Selector, name string) Aggregator    { return dataframe.MaxOf(sel, name) }
func First(sel Selector, name string) Aggregator  { return dataframe.FirstOf(sel, name) }
func Last(sel Selector, name string) Aggregator   { return dataframe.LastOf(sel, name) }
func Values(sel Selector, name string) Aggregator { return dataframe.ValuesOf(sel, name) }

// Asc sorts ascending by the selected column.
func Asc(sel Selector) SortColumnDescriptor { return dataframe.Asc(sel) }

// Desc sorts descending by the selected column.
func Desc(sel Selector) SortColumnDescriptor { return dataframe.Desc(sel) }

// On pairs left and right key selectors for Join.
func On(left, right Selector) ColumnMatch { return ColumnMatch{Left: left, Right: right} }

// Schemas.

// ExtractSchema describes the column tree of df.
func ExtractSchema(df *DataFrame) Scheme { return schema.Extract(df) }

// CompareSchemas reports how a relates to b.
func CompareSchemas(a, b Scheme) SchemeRelation { return schema.Compare(a, b) }
