package dataframe

import (
	"fmt"

	"github.com/paveg/nestframe/internal/types"
)

// GroupColumn nests a frame whose rows align 1:1 with the parent rows.
type GroupColumn struct {
	name  string
	frame *DataFrame
}

// NewGroupColumn wraps frame as a column group.
func NewGroupColumn(name string, frame *DataFrame) *GroupColumn {
	if frame == nil {
		frame = Empty(0)
	}
	return &GroupColumn{name: name, frame: frame}
}

func (c *GroupColumn) Name() string      { return c.name }
func (c *GroupColumn) Kind() Kind        { return GroupKind }
func (c *GroupColumn) Type() types.Type  { return types.Row }
func (c *GroupColumn) Len() int          { return c.frame.Len() }
func (c *GroupColumn) Get(i int) any     { return c.frame.Row(i) }
func (c *GroupColumn) IsNull(int) bool   { return false }
func (c *GroupColumn) HasNulls() bool    { return false }
func (c *GroupColumn) Frame() *DataFrame { return c.frame }

// Columns returns the direct children.
func (c *GroupColumn) Columns() []Column { return c.frame.Columns() }

// Child returns the direct child with the given name.
func (c *GroupColumn) Child(name string) (Column, bool) { return c.frame.Column(name) }

func (c *GroupColumn) Values() []any {
	out := make([]any, c.Len())
	for i := range out {
		out[i] = c.frame.Row(i)
	}
	return out
}

func (c *GroupColumn) Rename(name string) Column {
	return &GroupColumn{name: name, frame: c.frame}
}

func (c *GroupColumn) Slice(indices []int) Column {
	return &GroupColumn{name: c.name, frame: c.frame.Slice(indices)}
}

func (c *GroupColumn) String() string {
	return fmt.Sprintf("%s: group%v", c.name, c.frame.ColumnNames())
}

// FrameColumn holds one frame per row. Missing frames are stored as empty
// frames carrying the column schema, so cells are never null.
type FrameColumn struct {
	name   string
	frames []*DataFrame
	schema *DataFrame
}

// NewFrameColumn builds a frame column. The schema is taken from the first
// frame with columns.
func NewFrameColumn(name string, frames []*DataFrame) *FrameColumn {
	return NewFrameColumnWithSchema(name, frames, nil)
}

// NewFrameColumnWithSchema builds a frame column with an explicit schema.
func NewFrameColumnWithSchema(name string, frames []*DataFrame, schema *DataFrame) *FrameColumn {
	if schema == nil {
		for _, f := range frames {
			if f != nil && f.Width() > 0 {
				schema = f
				break
			}
		}
	}
	if schema == nil {
		schema = Empty(0)
	}
	schema = schema.Head(0)

	stored := make([]*DataFrame, len(frames))
	for i, f := range frames {
		if f == nil {
			f = schema
		}
		stored[i] = f
	}
	return &FrameColumn{name: name, frames: stored, schema: schema}
}

func (c *FrameColumn) Name() string       { return c.name }
func (c *FrameColumn) Kind() Kind         { return FrameKind }
func (c *FrameColumn) Type() types.Type   { return types.Frame }
func (c *FrameColumn) Len() int           { return len(c.frames) }
func (c *FrameColumn) Get(i int) any      { return c.frames[i] }
func (c *FrameColumn) IsNull(int) bool    { return false }
func (c *FrameColumn) HasNulls() bool     { return false }
func (c *FrameColumn) At(i int) *DataFrame { return c.frames[i] }

// Schema returns a zero-row frame describing the nested columns.
func (c *FrameColumn) Schema() *DataFrame { return c.schema }

// Frames returns a copy of the per-row frames.
func (c *FrameColumn) Frames() []*DataFrame {
	return append([]*DataFrame(nil), c.frames...)
}

func (c *FrameColumn) Values() []any {
	out := make([]any, len(c.frames))
	for i, f := range c.frames {
		out[i] = f
	}
	return out
}

func (c *FrameColumn) Rename(name string) Column {
	return &FrameColumn{name: name, frames: c.frames, schema: c.schema}
}

func (c *FrameColumn) Slice(indices []int) Column {
	frames := make([]*DataFrame, len(indices))
	for i, at := range indices {
		frames[i] = c.frames[at]
	}
	return &FrameColumn{name: c.name, frames: frames, schema: c.schema}
}

func (c *FrameColumn) String() string {
	return fmt.Sprintf("%s: frames%v x%d", c.name, c.schema.ColumnNames(), len(c.frames))
}
