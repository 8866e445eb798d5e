//nolint:testpackage // requires internal access to unexported types and functions
package dataframe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnNullabilityAfterSlicing(t *testing.T) {
	withNull := InferValueColumn("x", []any{1, nil, 3, 3})
	noNull := ValueColumnOf("y", 1, 2, 3, 3)

	tests := []struct {
		name     string
		column   Column
		nullable bool
		values   []any
	}{
		{"slice skipping the null", withNull.Slice([]int{0, 2}), false, []any{1, 3}},
		{"slice keeping the null", withNull.Slice([]int{1}), true, []any{nil}},
		{"range without the null", SliceRange(withNull, 2, 4), false, []any{3, 3}},
		{"range with the null", SliceRange(withNull, 0, 2), true, []any{1, nil}},
		{"filter without the null", FilterColumn(withNull, []bool{true, false, true, false}), false, []any{1, 3}},
		{"filter to the null", FilterColumn(withNull, []bool{false, true, false, false}), true, []any{nil}},
		{"distinct keeps the null", DistinctColumn(withNull), true, []any{1, nil, 3}},
		{"distinct of null-free range", DistinctColumn(SliceRange(withNull, 2, 4)), false, []any{3}},
		{"non-nullable slice", noNull.Slice([]int{3, 0}), false, []any{3, 1}},
		{"non-nullable range", SliceRange(noNull, 1, 3), false, []any{2, 3}},
		{"non-nullable filter", FilterColumn(noNull, []bool{false, false, true, true}), false, []any{3, 3}},
		{"non-nullable distinct", DistinctColumn(noNull), false, []any{1, 2, 3}},
		{"empty slice", withNull.Slice(nil), false, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.nullable, tt.column.Type().Nullable())
			assert.Equal(t, tt.nullable, tt.column.HasNulls())
			assert.Equal(t, "int", tt.column.Type().WithNullability(false).String())
			assert.Equal(t, tt.values, tt.column.Values())
		})
	}

	assert.True(t, withNull.Type().Nullable())
	assert.False(t, noNull.Type().Nullable())
}
