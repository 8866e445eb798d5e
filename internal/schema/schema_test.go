package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/nestframe/internal/dataframe"
	"github.com/paveg/nestframe/internal/schema"
	"github.com/paveg/nestframe/internal/types"
)

func frame(t *testing.T, header ...string) func(values ...any) *dataframe.DataFrame {
	t.Helper()
	return func(values ...any) *dataframe.DataFrame {
		df, err := dataframe.Of(header...)(values...)
		require.NoError(t, err)
		return df
	}
}

func TestExtract(t *testing.T) {
	people, err := frame(t, "first", "last", "age", "orders")(
		"Alice", "Cooper", 15, frame(t, "sku", "qty")("a1", 2),
		"Bob", "Dylan", nil, nil,
	).Group(dataframe.Cols("first", "last"), "full name")
	require.NoError(t, err)

	s := schema.Extract(people)
	require.Len(t, s.Fields, 3)

	name := s.Fields[2]
	assert.Equal(t, "FullName", name.FieldName)
	assert.Equal(t, "full name", name.ColumnName)
	assert.Equal(t, dataframe.GroupKind, name.Kind)
	require.Len(t, name.Nested, 2)
	assert.Equal(t, "string", name.Nested[0].Type.String())

	age, ok := s.Field("age")
	require.True(t, ok)
	assert.Equal(t, "int?", age.Type.String())

	orders, ok := s.Field("orders")
	require.True(t, ok)
	assert.Equal(t, dataframe.FrameKind, orders.Kind)
	assert.Equal(t, []string{"sku", "qty"}, []string{orders.Nested[0].ColumnName, orders.Nested[1].ColumnName})

	_, ok = s.Field("missing")
	assert.False(t, ok)

	assert.Equal(t, "age: int?\norders: Frame\n    sku: string\n    qty: int\nfull name: Group\n    first: string\n    last: string\n", s.String())
}

func TestFieldName(t *testing.T) {
	tests := []struct {
		column string
		want   string
	}{
		{"name", "Name"},
		{"first_name", "FirstName"},
		{"first name", "FirstName"},
		{"userID", "UserID"},
		{"42", "N42"},
		{"---", "Column"},
		{"größe", "Größe"},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.FieldName(tt.column))
		})
	}
}

func TestCompare(t *testing.T) {
	intCol := func(name string, values ...any) dataframe.Column {
		return dataframe.NewValueColumn(name, values, types.TypeOf[int]())
	}
	scheme := func(columns ...dataframe.Column) schema.Scheme {
		return schema.Extract(dataframe.MustNew(columns...))
	}
	base := scheme(intCol("a", 1), intCol("b", 2))

	tests := []struct {
		name  string
		other schema.Scheme
		want  schema.Relation
	}{
		{
			name:  "same columns in another order",
			other: scheme(intCol("b", 1), intCol("a", 2)),
			want:  schema.Equal,
		},
		{
			name:  "extra column",
			other: scheme(intCol("a", 1), intCol("b", 2), intCol("c", 3)),
			want:  schema.MoreGeneral,
		},
		{
			name:  "missing column",
			other: scheme(intCol("a", 1)),
			want:  schema.MoreSpecific,
		},
		{
			name:  "wider type",
			other: scheme(intCol("a", 1), dataframe.NewValueColumn("b", []any{2}, types.Number)),
			want:  schema.MoreSpecific,
		},
		{
			name:  "nullable type",
			other: scheme(intCol("a", 1), intCol("b", nil)),
			want:  schema.MoreSpecific,
		},
		{
			name:  "wider type but extra column",
			other: scheme(intCol("a", 1), dataframe.NewValueColumn("b", []any{2}, types.Number), intCol("c", 3)),
			want:  schema.Unrelated,
		},
		{
			name:  "unrelated types",
			other: scheme(intCol("a", 1), dataframe.ValueColumnOf("b", "x")),
			want:  schema.Unrelated,
		},
		{
			name:  "group instead of value",
			other: scheme(intCol("a", 1), dataframe.NewGroupColumn("b", dataframe.MustNew(intCol("x", 1)))),
			want:  schema.Unrelated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, schema.Compare(base, tt.other), tt.want.String())
		})
	}

	t.Run("nested groups", func(t *testing.T) {
		narrow := scheme(dataframe.NewGroupColumn("g", dataframe.MustNew(intCol("x", 1))))
		wide := scheme(dataframe.NewGroupColumn("g", dataframe.MustNew(intCol("x", 1), intCol("y", 2))))
		assert.Equal(t, schema.MoreGeneral, schema.Compare(narrow, wide))
		assert.Equal(t, schema.MoreSpecific, schema.Compare(wide, narrow))
	})
}
