package common_test

import (
	"math"
	"testing"
	"time"

	"github.com/paveg/nestframe/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToInt64(t *testing.T) {
	tests := []struct {
		input    any
		expected int64
		wantErr  bool
	}{
		{int(42), 42, false},
		{int8(-3), -3, false},
		{uint32(7), 7, false},
		{uint64(math.MaxUint64), 0, true},
		{"12", 12, false},
		{1.5, 0, true},
	}

	for _, tt := range tests {
		got, err := common.ToInt64(tt.input)
		if tt.wantErr {
			require.Error(t, err, "%T(%v)", tt.input, tt.input)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.expected, got)
	}
}

func TestToFloat64(t *testing.T) {
	got, err := common.ToFloat64(float32(1.5))
	require.NoError(t, err)
	assert.InDelta(t, 1.5, got, 1e-9)

	got, err = common.ToFloat64(int16(3))
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 1e-9)

	_, err = common.ToFloat64(true)
	assert.Error(t, err)
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		name     string
		a, b     any
		expected int
	}{
		{"ints", 1, 2, -1},
		{"mixed numbers", int32(3), 2.5, 1},
		{"equal mixed", int64(2), 2.0, 0},
		{"strings", "b", "a", 1},
		{"bools", false, true, -1},
		{"times", time.Unix(0, 0), time.Unix(1, 0), -1},
		{"durations", time.Second, time.Minute, -1},
		{"NaN first", math.NaN(), 1.0, -1},
		{"unrelated types order by type name", 1, "a", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, common.CompareValues(tt.a, tt.b))
		})
	}
}

func TestEqualAndHash(t *testing.T) {
	tests := []struct {
		name  string
		a, b  any
		equal bool
	}{
		{"same ints", 1, 1, true},
		{"int vs int64", 1, int64(1), false},
		{"NaN", math.NaN(), math.NaN(), true},
		{"negative zero", 0.0, math.Copysign(0, -1), true},
		{"lists", []any{1, "a"}, []any{1, "a"}, true},
		{"typed lists", []int{1, 2}, []int{1, 2}, true},
		{"different lists", []int{1, 2}, []int{2, 1}, false},
		{"nil", nil, nil, true},
		{"nil vs value", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, common.EqualValues(tt.a, tt.b))
			if tt.equal {
				assert.Equal(t, common.HashValue(tt.a), common.HashValue(tt.b))
			}
		})
	}

	assert.Equal(t,
		common.HashTuple([]any{1, "x"}),
		common.HashTuple([]any{1, "x"}))
	assert.NotEqual(t,
		common.HashTuple([]any{"ab", "c"}),
		common.HashTuple([]any{"a", "bc"}))
}

func TestNameGenerator(t *testing.T) {
	g := common.NewNameGenerator(1, "id", "x", "y")

	assert.Equal(t, "z", g.Add("z"))
	assert.Equal(t, "y1", g.Add("y"))
	assert.Equal(t, "y2", g.Add("y"))
	assert.Equal(t, "id1", g.Add("id"))
	assert.True(t, g.Contains("y2"))
	assert.False(t, g.Contains("q"))
}

func TestMinMaxSum(t *testing.T) {
	assert.Equal(t, 1, common.Min(1, 2))
	assert.Equal(t, "b", common.Max("a", "b"))
	assert.InDelta(t, 6.5, common.Sum([]float64{1, 2, 3.5}), 1e-9)
	assert.Equal(t, int64(6), common.Sum([]int64{1, 2, 3}))
}
