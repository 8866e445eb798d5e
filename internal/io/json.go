package io

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/paveg/nestframe/internal/dataframe"
	"github.com/paveg/nestframe/internal/types"
)

// Read reads JSON data and returns a DataFrame.
func (r *JSONReader) Read() (*dataframe.DataFrame, error) {
	switch r.options.Format {
	case JSONArray:
		return r.readJSONArray()
	case JSONLines:
		return r.readJSONLines()
	default:
		return nil, fmt.Errorf("unsupported JSON format: %d", r.options.Format)
	}
}

// readJSONArray reads JSON array format.
func (r *JSONReader) readJSONArray() (*dataframe.DataFrame, error) {
	data, err := io.ReadAll(r.reader)
	if err != nil {
		return nil, fmt.Errorf("reading JSON data: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON input")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("expected a JSON array, got %s", root.Type)
	}

	records := root.Array()
	if r.options.MaxRecords > 0 && len(records) > r.options.MaxRecords {
		records = records[:r.options.MaxRecords]
	}
	return recordsToFrame(records)
}

// readJSONLines reads JSON Lines format.
func (r *JSONReader) readJSONLines() (*dataframe.DataFrame, error) {
	scanner := bufio.NewScanner(r.reader)
	var records []gjson.Result

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			return nil, fmt.Errorf("invalid JSON on line %d", lineNum)
		}
		records = append(records, gjson.Parse(line))
		if r.options.MaxRecords > 0 && len(records) >= r.options.MaxRecords {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning JSON lines: %w", err)
	}
	return recordsToFrame(records)
}

// recordsToFrame turns objects into rows. Keys become columns in order of
// first appearance; a key missing from a record is null there.
func recordsToFrame(records []gjson.Result) (*dataframe.DataFrame, error) {
	var keys []string
	fields := make([]map[string]gjson.Result, len(records))
	for i, record := range records {
		if !record.IsObject() && record.Type != gjson.Null {
			return nil, fmt.Errorf("record %d: expected an object, got %s", i, record.Type)
		}
		fields[i] = map[string]gjson.Result{}
		record.ForEach(func(key, value gjson.Result) bool {
			if !slices.Contains(keys, key.Str) {
				keys = append(keys, key.Str)
			}
			fields[i][key.Str] = value
			return true
		})
	}

	columns := make([]dataframe.Column, len(keys))
	for i, key := range keys {
		cells := make([]gjson.Result, len(records))
		for j := range records {
			cells[j] = fields[j][key]
		}
		c, err := cellsToColumn(key, cells)
		if err != nil {
			return nil, err
		}
		columns[i] = c
	}
	return dataframe.NewWithRows(len(records), columns...)
}

// cellsToColumn picks the column kind from the non-null cells: all objects
// make a group, all arrays of objects make a frame column, anything else
// a value column.
func cellsToColumn(name string, cells []gjson.Result) (dataframe.Column, error) {
	objects, arrays, present, hasRows := true, true, false, false
	for _, c := range cells {
		if !c.Exists() || c.Type == gjson.Null {
			continue
		}
		present = true
		objects = objects && c.IsObject()
		isTable := c.IsArray() && allObjects(c.Array())
		arrays = arrays && isTable
		hasRows = hasRows || (isTable && len(c.Array()) > 0)
	}

	switch {
	case present && objects:
		inner, err := recordsToFrame(cells)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", name, err)
		}
		return dataframe.NewGroupColumn(name, inner), nil
	case present && arrays && hasRows:
		rows := make([]*dataframe.DataFrame, len(cells))
		for i, c := range cells {
			// null and empty cells take the column schema
			if !c.IsArray() || len(c.Array()) == 0 {
				continue
			}
			f, err := recordsToFrame(c.Array())
			if err != nil {
				return nil, fmt.Errorf("column %s row %d: %w", name, i, err)
			}
			rows[i] = f
		}
		return dataframe.NewFrameColumn(name, rows), nil
	}

	values := make([]any, len(cells))
	for i, c := range cells {
		values[i] = jsonValue(c)
	}
	return dataframe.BuildColumn(name, widenNumbers(values), types.Type{}), nil
}

func allObjects(elems []gjson.Result) bool {
	for _, e := range elems {
		if !e.IsObject() {
			return false
		}
	}
	return true
}

// widenNumbers turns int64 values into float64 when the column also holds
// fractional numbers and nothing else.
func widenNumbers(values []any) []any {
	hasFloat := false
	for _, v := range values {
		switch v.(type) {
		case nil, int64:
		case float64:
			hasFloat = true
		default:
			return values
		}
	}
	if !hasFloat {
		return values
	}
	for i, v := range values {
		if n, ok := v.(int64); ok {
			values[i] = float64(n)
		}
	}
	return values
}

// jsonValue converts a scalar or list cell. Integral numbers that fit
// become int64; objects inside lists stay maps.
func jsonValue(c gjson.Result) any {
	switch c.Type {
	case gjson.Null:
		return nil
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Number:
		if n, err := strconv.ParseInt(c.Raw, 10, 64); err == nil {
			return n
		}
		return c.Num
	case gjson.String:
		return c.Str
	}
	if c.IsArray() {
		elems := c.Array()
		list := make([]any, len(elems))
		for i, e := range elems {
			list[i] = jsonValue(e)
		}
		return list
	}
	return c.Value()
}

// Write writes the DataFrame to JSON format. Column order is preserved;
// groups become objects and frame cells arrays of objects.
func (w *JSONWriter) Write(df *dataframe.DataFrame) error {
	switch w.options.Format {
	case JSONArray:
		return w.writeJSONArray(df)
	case JSONLines:
		return w.writeJSONLines(df)
	default:
		return fmt.Errorf("unsupported JSON format: %d", w.options.Format)
	}
}

// writeJSONArray writes DataFrame as JSON array.
func (w *JSONWriter) writeJSONArray(df *dataframe.DataFrame) error {
	data, err := json.Marshal(frameRecords(df))
	if err != nil {
		return fmt.Errorf("marshaling JSON array: %w", err)
	}
	_, err = w.writer.Write(data)
	return err
}

// writeJSONLines writes DataFrame as JSON Lines.
func (w *JSONWriter) writeJSONLines(df *dataframe.DataFrame) error {
	for i, rec := range frameRecords(df) {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling JSON record %d: %w", i, err)
		}
		if _, err := w.writer.Write(append(data, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// record is one row as an ordered JSON object.
type record struct {
	row dataframe.Row
}

func (r record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range r.row.Frame().Columns() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(c.Name())
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(encodeValue(c.Get(r.row.Index())))
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name(), err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func frameRecords(df *dataframe.DataFrame) []record {
	records := make([]record, 0, df.Len())
	for _, row := range df.Rows() {
		records = append(records, record{row: row})
	}
	return records
}

// encodeValue maps cells onto values encoding/json understands.
func encodeValue(v any) any {
	switch v := v.(type) {
	case dataframe.Row:
		return record{row: v}
	case *dataframe.DataFrame:
		return frameRecords(v)
	}
	if list, ok := listValues(v); ok {
		out := make([]any, len(list))
		for i, e := range list {
			out[i] = encodeValue(e)
		}
		return out
	}
	return v
}

func marshalCell(v any) (string, error) {
	data, err := json.Marshal(encodeValue(v))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// listValues returns the elements of a slice cell. Byte slices are not lists.
func listValues(v any) ([]any, bool) {
	if list, ok := v.([]any); ok {
		return list, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice || rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
