package io_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/nestframe/internal/dataframe"
	"github.com/paveg/nestframe/internal/io"
)

const ordersJSON = `[
  {"id": 1, "name": {"first": "Alice", "last": "Cooper"}, "orders": [{"sku": "x1", "qty": 2}], "tags": ["a", "b"], "score": 1.5},
  {"id": 2, "name": {"first": "Bob", "last": null}, "orders": [], "tags": ["c"], "score": 2}
]`

func readJSON(t *testing.T, data string, options io.JSONOptions) *dataframe.DataFrame {
	t.Helper()
	df, err := io.NewJSONReader(strings.NewReader(data), options).Read()
	require.NoError(t, err)
	return df
}

func TestJSONReader(t *testing.T) {
	t.Run("nested records", func(t *testing.T) {
		df := readJSON(t, ordersJSON, io.DefaultJSONOptions())

		assert.Equal(t, 2, df.Len())
		assert.Equal(t, []string{"id", "name", "orders", "tags", "score"}, df.ColumnNames())
		assert.Equal(t, []any{int64(1), int64(2)}, values(t, df, "id"))
		assert.Equal(t, "int64", columnType(t, df, "id"))

		name, ok := df.Column("name")
		require.True(t, ok)
		assert.Equal(t, dataframe.GroupKind, name.Kind())
		assert.Equal(t, []any{"Cooper", nil}, values(t, df, "name.last"))

		orders, ok := df.Column("orders")
		require.True(t, ok)
		require.Equal(t, dataframe.FrameKind, orders.Kind())
		frames := orders.(*dataframe.FrameColumn)
		assert.Equal(t, []string{"sku", "qty"}, frames.At(0).ColumnNames())
		assert.Equal(t, 0, frames.At(1).Len())
		assert.Equal(t, []string{"sku", "qty"}, frames.At(1).ColumnNames())

		assert.Equal(t, []any{[]any{"a", "b"}, []any{"c"}}, values(t, df, "tags"))
		assert.Equal(t, "List<string>", columnType(t, df, "tags"))

		// integral and fractional numbers in one column widen to float64
		assert.Equal(t, []any{1.5, 2.0}, values(t, df, "score"))
		assert.Equal(t, "float64", columnType(t, df, "score"))
	})

	t.Run("missing keys are null", func(t *testing.T) {
		df := readJSON(t, `[{"a": 1}, {"b": "x"}]`, io.DefaultJSONOptions())
		assert.Equal(t, []string{"a", "b"}, df.ColumnNames())
		assert.Equal(t, []any{int64(1), nil}, values(t, df, "a"))
		assert.Equal(t, []any{nil, "x"}, values(t, df, "b"))
		assert.Equal(t, "int64?", columnType(t, df, "a"))
	})

	t.Run("max records", func(t *testing.T) {
		options := io.DefaultJSONOptions()
		options.MaxRecords = 1
		df := readJSON(t, ordersJSON, options)
		assert.Equal(t, 1, df.Len())
	})

	t.Run("empty array", func(t *testing.T) {
		df := readJSON(t, `[]`, io.DefaultJSONOptions())
		assert.Equal(t, 0, df.Len())
		assert.Equal(t, 0, df.Width())
	})

	t.Run("json lines", func(t *testing.T) {
		options := io.JSONOptions{Format: io.JSONLines}
		df := readJSON(t, "{\"k\": \"a\", \"v\": true}\n\n{\"k\": \"b\", \"v\": false}\n", options)
		assert.Equal(t, []any{"a", "b"}, values(t, df, "k"))
		assert.Equal(t, []any{true, false}, values(t, df, "v"))

		options.MaxRecords = 1
		df = readJSON(t, "{\"k\": 1}\n{\"k\": 2}\n{\"k\": 3}\n", options)
		assert.Equal(t, []any{int64(1)}, values(t, df, "k"))
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name    string
			data    string
			options io.JSONOptions
		}{
			{"invalid json", `[{"a": 1`, io.DefaultJSONOptions()},
			{"not an array", `{"a": 1}`, io.DefaultJSONOptions()},
			{"scalar records", `[1, 2]`, io.DefaultJSONOptions()},
			{"invalid line", "{\"a\": 1}\n{oops\n", io.JSONOptions{Format: io.JSONLines}},
			{"unknown format", `[]`, io.JSONOptions{Format: io.JSONFormat(9)}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := io.NewJSONReader(strings.NewReader(tt.data), tt.options).Read()
				assert.Error(t, err)
			})
		}
	})
}

func TestJSONWriter(t *testing.T) {
	people := func(t *testing.T) *dataframe.DataFrame {
		t.Helper()
		df, err := frame(t, "id", "first", "last")(int64(1), "Alice", "Cooper", int64(2), "Bob", nil).
			Group(dataframe.Cols("first", "last"), "name")
		require.NoError(t, err)
		orders := dataframe.NewFrameColumn("orders", []*dataframe.DataFrame{
			frame(t, "sku", "qty")("x1", int64(2)),
			nil,
		})
		df, err = df.Add(orders)
		require.NoError(t, err)
		return df
	}

	t.Run("array keeps column order", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, io.NewJSONWriter(&buf, io.DefaultJSONOptions()).Write(people(t)))
		assert.JSONEq(t, `[
			{"id": 1, "name": {"first": "Alice", "last": "Cooper"}, "orders": [{"sku": "x1", "qty": 2}]},
			{"id": 2, "name": {"first": "Bob", "last": null}, "orders": []}
		]`, buf.String())
		assert.True(t, strings.HasPrefix(buf.String(), `[{"id":1,"name":{"first":"Alice"`))
	})

	t.Run("lines", func(t *testing.T) {
		var buf bytes.Buffer
		df := frame(t, "k", "tags")("a", []any{"x", "y"}, "b", nil)
		require.NoError(t, io.NewJSONWriter(&buf, io.JSONOptions{Format: io.JSONLines}).Write(df))
		assert.Equal(t, "{\"k\":\"a\",\"tags\":[\"x\",\"y\"]}\n{\"k\":\"b\",\"tags\":null}\n", buf.String())
	})

	t.Run("round trip", func(t *testing.T) {
		source := people(t)
		for _, format := range []io.JSONFormat{io.JSONArray, io.JSONLines} {
			var buf bytes.Buffer
			options := io.JSONOptions{Format: format}
			require.NoError(t, io.NewJSONWriter(&buf, options).Write(source))
			back := readJSON(t, buf.String(), options)
			assert.True(t, source.Equal(back), "format %d: expected\n%s\ngot\n%s", format, source, back)
		}
	})
}
