package common

import (
	"math"
	"time"

	"golang.org/x/exp/constraints"
)

// Comparable is implemented by values that define their own order.
type Comparable interface {
	CompareTo(other any) int
}

// CompareOrdered compares two ordered values. NaN sorts before every number.
func CompareOrdered[T constraints.Ordered](a, b T) int {
	aNaN, bNaN := a != a, b != b //nolint:gocritic // NaN check
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return -1
	case bNaN:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Min returns the smaller of two ordered values.
func Min[T constraints.Ordered](a, b T) T {
	if CompareOrdered(a, b) <= 0 {
		return a
	}
	return b
}

// Max returns the larger of two ordered values.
func Max[T constraints.Ordered](a, b T) T {
	if CompareOrdered(a, b) >= 0 {
		return a
	}
	return b
}

// Sum adds numbers of one type.
func Sum[T constraints.Integer | constraints.Float](values []T) T {
	var total T
	for _, v := range values {
		total += v
	}
	return total
}

// CompareValues orders two non-null cell values. Numbers of different Go
// types compare numerically; values of unrelated types order by type name
// and then by their string form so the result is total.
func CompareValues(a, b any) int {
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return CompareOrdered(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return compareBool(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case time.Duration:
		if y, ok := b.(time.Duration); ok {
			return CompareOrdered(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return CompareOrdered(x, y)
		}
	case int64:
		if y, ok := b.(int64); ok {
			return CompareOrdered(x, y)
		}
	case float64:
		if y, ok := b.(float64); ok {
			return CompareOrdered(x, y)
		}
	case Comparable:
		return x.CompareTo(b)
	}

	if IsNumericValue(a) && IsNumericValue(b) {
		return compareNumbers(a, b)
	}
	if ta, tb := typeName(a), typeName(b); ta != tb {
		return CompareOrdered(ta, tb)
	}
	return CompareOrdered(ToString(a), ToString(b))
}

func compareNumbers(a, b any) int {
	if IsIntegerValue(a) && IsIntegerValue(b) {
		x, errX := ToInt64(a)
		y, errY := ToInt64(b)
		if errX == nil && errY == nil {
			return CompareOrdered(x, y)
		}
	}
	x, _ := ToFloat64(a)
	y, _ := ToFloat64(b)
	return CompareOrdered(x, y)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

// IsNaN reports whether v is a floating-point NaN.
func IsNaN(v any) bool {
	switch x := v.(type) {
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	}
	return false
}
