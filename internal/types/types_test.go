package types_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	dferrors "github.com/paveg/nestframe/internal/errors"
	"github.com/paveg/nestframe/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius int

func (c celsius) String() string { return fmt.Sprintf("%d°C", int(c)) }

type label struct{ text string }

func (l label) String() string { return l.text }

type opaque struct{}

func TestGuessValueType(t *testing.T) {
	tests := []struct {
		name     string
		values   []any
		expected string
	}{
		{"single class", []any{1, 2, 3}, "int"},
		{"int and float", []any{1, 2.5}, "Number"},
		{"int and float with null", []any{1, nil, 2.5}, "Number?"},
		{"all null", []any{nil, nil}, "Nothing?"},
		{"empty", []any{}, "Nothing"},
		{"integers of different width", []any{int32(1), int64(2)}, "Integer"},
		{"unrelated", []any{1, "a"}, "Any"},
		{"stringers", []any{label{"x"}, time.Second}, "Stringer"},
		{"named int joins integers", []any{celsius(3), 4}, "Integer"},
		{"lists unify element types", []any{[]int{1}, []float64{2}}, "List<Number>"},
		{"list of any elements", []any{[]any{1, nil}}, "List<int?>"},
		{"list mixed with scalar", []any{[]int{1}, 2}, "Any"},
		{"opaque type", []any{opaque{}}, "types_test.opaque"},
		{"typed nil pointer is null", []any{(*int)(nil), 1}, "int?"},
		{"pointer values are dereferenced", []any{ptr(1), 2}, "int"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, types.GuessValueType(tt.values).String())
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestCommonClass(t *testing.T) {
	intC := types.ClassOf(reflect.TypeFor[int]())
	floatC := types.ClassOf(reflect.TypeFor[float64]())
	strC := types.ClassOf(reflect.TypeFor[string]())

	assert.Equal(t, types.NumberClass, types.CommonClass([]*types.Class{intC, floatC}))
	assert.Equal(t, intC, types.CommonClass([]*types.Class{intC, intC, types.NothingClass}))
	assert.Equal(t, types.AnyClass, types.CommonClass([]*types.Class{intC, strC}))
	assert.Equal(t, types.NothingClass, types.CommonClass(nil))
}

func TestCommonTypeNullability(t *testing.T) {
	got := types.CommonType([]types.Type{types.TypeOf[int](), types.TypeOf[*float64]()})
	assert.Equal(t, "Number?", got.String())

	got = types.CommonType([]types.Type{types.NullableNothing, types.TypeOf[string]()})
	assert.Equal(t, "string?", got.String())
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, "int", types.TypeOf[int]().String())
	assert.Equal(t, "string?", types.TypeOf[*string]().String())
	assert.Equal(t, "List<float64>", types.TypeOf[[]float64]().String())
	assert.Equal(t, "Any?", types.TypeOf[any]().String())
	assert.Equal(t, "time.Duration", types.TypeOf[time.Duration]().String())
}

func TestIsSubtypeOf(t *testing.T) {
	intT := types.TypeOf[int]()
	tests := []struct {
		name     string
		sub      types.Type
		super    types.Type
		expected bool
	}{
		{"int <: Number", intT, types.Number, true},
		{"int? not <: Number", intT.WithNullability(true), types.Number, false},
		{"int <: Number?", intT, types.Number.WithNullability(true), true},
		{"Nothing? <: int?", types.NullableNothing, intT.WithNullability(true), true},
		{"string not <: Number", types.TypeOf[string](), types.Number, false},
		{"List<int> <: List<Number>", types.ListOf(intT), types.ListOf(types.Number), true},
		{"List<Number> not <: List<int>", types.ListOf(types.Number), types.ListOf(intT), false},
		{"everything <: Any?", types.TypeOf[*string](), types.NullableAny, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.sub.IsSubtypeOf(tt.super))
		})
	}
}

func TestRegisterInterface(t *testing.T) {
	type shape interface{ Area() float64 }
	shapeC := types.RegisterInterface("Shape", reflect.TypeFor[shape]())
	sq := types.ClassOf(reflect.TypeFor[square]())
	ci := types.ClassOf(reflect.TypeFor[circle]())

	assert.True(t, sq.IsSubclassOf(shapeC))
	assert.Equal(t, shapeC, types.CommonClass([]*types.Class{sq, ci}))
}

type square struct{ side float64 }

func (s square) Area() float64 { return s.side * s.side }

type circle struct{ r float64 }

func (c circle) Area() float64 { return 3.14 * c.r * c.r }

func TestConvert(t *testing.T) {
	t.Run("identity for subtypes", func(t *testing.T) {
		v, err := types.Convert(3, types.Number)
		require.NoError(t, err)
		assert.Equal(t, 3, v)
	})

	t.Run("numeric widening", func(t *testing.T) {
		v, err := types.Convert(3, types.TypeOf[float64]())
		require.NoError(t, err)
		assert.Equal(t, 3.0, v)
	})

	t.Run("string parsing", func(t *testing.T) {
		v, err := types.Convert(" 42 ", types.TypeOf[int64]())
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)

		v, err = types.Convert("1h30m", types.TypeOf[time.Duration]())
		require.NoError(t, err)
		assert.Equal(t, 90*time.Minute, v)
	})

	t.Run("to string", func(t *testing.T) {
		v, err := types.Convert(2.5, types.TypeOf[string]())
		require.NoError(t, err)
		assert.Equal(t, "2.5", v)
	})

	t.Run("converter failure", func(t *testing.T) {
		_, err := types.Convert("abc", types.TypeOf[int]())
		assert.ErrorIs(t, err, dferrors.ErrConversionFailed)
		assert.NotErrorIs(t, err, dferrors.ErrNoConverter)
	})

	t.Run("no converter", func(t *testing.T) {
		_, err := types.Convert(opaque{}, types.TypeOf[int]())
		assert.ErrorIs(t, err, dferrors.ErrNoConverter)
	})

	t.Run("null", func(t *testing.T) {
		v, err := types.Convert(nil, types.TypeOf[*int]())
		require.NoError(t, err)
		assert.Nil(t, v)

		_, err = types.Convert(nil, types.TypeOf[int]())
		assert.ErrorIs(t, err, dferrors.ErrConversionFailed)
	})

	t.Run("registered converter", func(t *testing.T) {
		labelC := types.ClassOf(reflect.TypeFor[label]())
		types.RegisterConverter(types.ClassOf(reflect.TypeFor[string]()), labelC, func(v any) (any, error) {
			return label{text: v.(string)}, nil
		})
		v, err := types.Convert("hi", types.Of(labelC))
		require.NoError(t, err)
		assert.Equal(t, label{"hi"}, v)
	})
}
