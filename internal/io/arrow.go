package io

import (
	"fmt"
	"reflect"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/nestframe/internal/common"
	"github.com/paveg/nestframe/internal/dataframe"
	"github.com/paveg/nestframe/internal/types"
)

var timeType = reflect.TypeFor[time.Time]()

// ToArrowRecord converts df into one Arrow record. Value columns become
// primitive or list arrays, column groups struct arrays and frame columns
// list<struct> arrays. Values without an Arrow counterpart are written as
// strings. The caller releases the record.
func ToArrowRecord(df *dataframe.DataFrame, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	fields, arrays, err := frameArrays(df, mem)
	if err != nil {
		return nil, err
	}
	defer release(arrays)
	return array.NewRecord(arrow.NewSchema(fields, nil), arrays, int64(df.Len())), nil
}

func release(arrays []arrow.Array) {
	for _, a := range arrays {
		a.Release()
	}
}

func frameArrays(df *dataframe.DataFrame, mem memory.Allocator) ([]arrow.Field, []arrow.Array, error) {
	fields := make([]arrow.Field, 0, df.Width())
	arrays := make([]arrow.Array, 0, df.Width())
	for _, c := range df.Columns() {
		field, arr, err := columnArray(c, mem)
		if err != nil {
			release(arrays)
			return nil, nil, err
		}
		fields = append(fields, field)
		arrays = append(arrays, arr)
	}
	return fields, arrays, nil
}

func columnArray(c dataframe.Column, mem memory.Allocator) (arrow.Field, arrow.Array, error) {
	switch c := c.(type) {
	case *dataframe.GroupColumn:
		st, err := structArray(c.Frame(), mem)
		if err != nil {
			return arrow.Field{}, nil, fmt.Errorf("column %s: %w", c.Name(), err)
		}
		return arrow.Field{Name: c.Name(), Type: st.DataType()}, st, nil
	case *dataframe.FrameColumn:
		return frameColumnArray(c, mem)
	}

	dt := arrowType(c.Type())
	b := array.NewBuilder(mem, dt)
	defer b.Release()
	for i := range c.Len() {
		if err := appendValue(b, c.Get(i)); err != nil {
			return arrow.Field{}, nil, fmt.Errorf("column %s row %d: %w", c.Name(), i, err)
		}
	}
	return arrow.Field{Name: c.Name(), Type: dt, Nullable: c.Type().Nullable()}, b.NewArray(), nil
}

func structArray(df *dataframe.DataFrame, mem memory.Allocator) (*array.Struct, error) {
	if df.Width() == 0 {
		return nil, fmt.Errorf("cannot convert a frame without columns")
	}
	fields, children, err := frameArrays(df, mem)
	if err != nil {
		return nil, err
	}
	defer release(children)
	return array.NewStructArrayWithFields(children, fields)
}

// frameColumnArray stacks the cell frames into one struct array and slices
// it with list offsets.
func frameColumnArray(c *dataframe.FrameColumn, mem memory.Allocator) (arrow.Field, arrow.Array, error) {
	frames := c.Frames()
	stacked, err := dataframe.Concat(append([]*dataframe.DataFrame{c.Schema()}, frames...)...)
	if err != nil {
		return arrow.Field{}, nil, fmt.Errorf("column %s: %w", c.Name(), err)
	}
	values, err := structArray(stacked, mem)
	if err != nil {
		return arrow.Field{}, nil, fmt.Errorf("column %s: %w", c.Name(), err)
	}
	defer values.Release()

	offsets := make([]int32, len(frames)+1)
	for i, f := range frames {
		offsets[i+1] = offsets[i] + int32(f.Len())
	}
	listType := arrow.ListOf(values.DataType())
	data := array.NewData(listType, len(frames),
		[]*memory.Buffer{nil, memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(offsets))},
		[]arrow.ArrayData{values.Data()}, 0, 0)
	defer data.Release()
	return arrow.Field{Name: c.Name(), Type: listType}, array.NewListData(data), nil
}

// arrowType maps a column type onto the Arrow type its values are stored as.
func arrowType(t types.Type) arrow.DataType {
	if t.IsList() {
		return arrow.ListOf(arrowType(t.Elem()))
	}
	c := t.Class()
	if c == nil || c == types.NothingClass {
		return arrow.Null
	}
	rt := c.ReflectType()
	switch {
	case rt == timeType:
		return arrow.FixedWidthTypes.Timestamp_us
	case c.IsSubclassOf(types.IntegerClass):
		if rt != nil && rt.Kind() >= reflect.Uint && rt.Kind() <= reflect.Uint64 {
			return arrow.PrimitiveTypes.Uint64
		}
		return arrow.PrimitiveTypes.Int64
	case c.IsSubclassOf(types.NumberClass):
		return arrow.PrimitiveTypes.Float64
	case rt != nil && rt.Kind() == reflect.Bool:
		return arrow.FixedWidthTypes.Boolean
	default:
		return arrow.BinaryTypes.String
	}
}

func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	switch b := b.(type) {
	case *array.Int64Builder:
		n, err := common.ToInt64(v)
		if err != nil {
			return err
		}
		b.Append(n)
	case *array.Uint64Builder:
		b.Append(reflect.ValueOf(v).Uint())
	case *array.Float64Builder:
		f, err := common.ToFloat64(v)
		if err != nil {
			return err
		}
		b.Append(f)
	case *array.BooleanBuilder:
		b.Append(reflect.ValueOf(v).Bool())
	case *array.StringBuilder:
		b.Append(common.ToString(v))
	case *array.TimestampBuilder:
		ts, err := arrow.TimestampFromTime(v.(time.Time), arrow.Microsecond)
		if err != nil {
			return err
		}
		b.Append(ts)
	case *array.ListBuilder:
		elems, ok := listValues(v)
		if !ok {
			return fmt.Errorf("expected a list, got %T", v)
		}
		b.Append(true)
		for _, e := range elems {
			if err := appendValue(b.ValueBuilder(), e); err != nil {
				return err
			}
		}
	case *array.NullBuilder:
		b.AppendNull()
	default:
		return fmt.Errorf("unsupported arrow builder %T", b)
	}
	return nil
}

// FromArrowRecord converts a record into a frame. Struct arrays become
// column groups and lists of structs frame columns.
func FromArrowRecord(rec arrow.Record) (*dataframe.DataFrame, error) {
	columns := make([]dataframe.Column, rec.NumCols())
	for i, arr := range rec.Columns() {
		c, err := arrayColumn(rec.ColumnName(i), arr)
		if err != nil {
			return nil, err
		}
		columns[i] = c
	}
	return dataframe.NewWithRows(int(rec.NumRows()), columns...)
}

func arrayColumn(name string, arr arrow.Array) (dataframe.Column, error) {
	switch a := arr.(type) {
	case *array.Struct:
		inner, err := structFrame(a)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		return dataframe.NewGroupColumn(name, inner), nil
	case *array.List:
		if values, ok := a.ListValues().(*array.Struct); ok {
			stacked, err := structFrame(values)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", name, err)
			}
			frames := make([]*dataframe.DataFrame, a.Len())
			for i := range frames {
				if a.IsNull(i) {
					continue
				}
				start, end := a.ValueOffsets(i)
				frames[i] = stacked.SliceRange(int(start), int(end))
			}
			return dataframe.NewFrameColumnWithSchema(name, frames, stacked), nil
		}
	}

	values := make([]any, arr.Len())
	for i := range values {
		values[i] = arrowValue(arr, i)
	}
	return dataframe.NewValueColumn(name, values, valueType(arr.DataType())), nil
}

func structFrame(s *array.Struct) (*dataframe.DataFrame, error) {
	st := s.DataType().(*arrow.StructType)
	columns := make([]dataframe.Column, s.NumField())
	for j := range columns {
		c, err := arrayColumn(st.Field(j).Name, s.Field(j))
		if err != nil {
			return nil, err
		}
		columns[j] = c
	}
	return dataframe.NewWithRows(s.Len(), columns...)
}

func arrowValue(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.Int64:
		return a.Value(i)
	case *array.Int32:
		return a.Value(i)
	case *array.Int16:
		return a.Value(i)
	case *array.Int8:
		return a.Value(i)
	case *array.Uint64:
		return a.Value(i)
	case *array.Uint32:
		return a.Value(i)
	case *array.Float64:
		return a.Value(i)
	case *array.Float32:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.Timestamp:
		return a.Value(i).ToTime(a.DataType().(*arrow.TimestampType).Unit)
	case *array.List:
		start, end := a.ValueOffsets(i)
		child := a.ListValues()
		list := make([]any, 0, end-start)
		for k := start; k < end; k++ {
			list = append(list, arrowValue(child, int(k)))
		}
		return list
	default:
		return arr.ValueStr(i)
	}
}

// valueType is the declared column type for an Arrow type; zero means
// infer from the values.
func valueType(dt arrow.DataType) types.Type {
	switch dt.ID() {
	case arrow.INT64:
		return types.TypeOf[int64]()
	case arrow.INT32:
		return types.TypeOf[int32]()
	case arrow.INT16:
		return types.TypeOf[int16]()
	case arrow.INT8:
		return types.TypeOf[int8]()
	case arrow.UINT64:
		return types.TypeOf[uint64]()
	case arrow.UINT32:
		return types.TypeOf[uint32]()
	case arrow.FLOAT64:
		return types.TypeOf[float64]()
	case arrow.FLOAT32:
		return types.TypeOf[float32]()
	case arrow.STRING, arrow.LARGE_STRING:
		return types.TypeOf[string]()
	case arrow.BOOL:
		return types.TypeOf[bool]()
	case arrow.TIMESTAMP:
		return types.TypeOf[time.Time]()
	case arrow.NULL:
		return types.NullableNothing
	case arrow.LIST:
		elem := valueType(dt.(*arrow.ListType).Elem())
		if elem.IsZero() {
			return types.Type{}
		}
		return types.ListOf(elem)
	default:
		return types.Type{}
	}
}
