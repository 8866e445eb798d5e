package common

import (
	"encoding/binary"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Hashable is implemented by values that contribute their own hash, such as
// nested frames stored in cells.
type Hashable interface {
	WriteHash(d *xxhash.Digest)
}

// Equatable is implemented by values with structural equality.
type Equatable interface {
	EqualTo(other any) bool
}

const (
	tagNull byte = iota
	tagString
	tagBool
	tagInt
	tagUint
	tagFloat
	tagTime
	tagList
	tagOther
)

// HashTuple hashes a key tuple. Equal tuples (per EqualValues) hash equally.
func HashTuple(values []any) uint64 {
	d := xxhash.New()
	for _, v := range values {
		WriteValue(d, v)
	}
	return d.Sum64()
}

// HashValue hashes a single value.
func HashValue(v any) uint64 {
	d := xxhash.New()
	WriteValue(d, v)
	return d.Sum64()
}

// WriteValue feeds one value into a digest. Every NaN hashes alike and
// negative zero hashes as zero.
func WriteValue(d *xxhash.Digest, v any) {
	var buf [9]byte
	writeTagged := func(tag byte, bits uint64) {
		buf[0] = tag
		binary.LittleEndian.PutUint64(buf[1:], bits)
		_, _ = d.Write(buf[:])
	}

	switch x := v.(type) {
	case nil:
		_, _ = d.Write([]byte{tagNull})
	case string:
		writeTagged(tagString, uint64(len(x)))
		_, _ = d.WriteString(x)
	case bool:
		var b uint64
		if x {
			b = 1
		}
		writeTagged(tagBool, b)
	case int:
		writeTagged(tagInt, uint64(x))
	case int8:
		writeTagged(tagInt, uint64(x))
	case int16:
		writeTagged(tagInt, uint64(x))
	case int32:
		writeTagged(tagInt, uint64(x))
	case int64:
		writeTagged(tagInt, uint64(x))
	case uint:
		writeTagged(tagUint, uint64(x))
	case uint8:
		writeTagged(tagUint, uint64(x))
	case uint16:
		writeTagged(tagUint, uint64(x))
	case uint32:
		writeTagged(tagUint, uint64(x))
	case uint64:
		writeTagged(tagUint, x)
	case float32:
		writeTagged(tagFloat, floatBits(float64(x)))
	case float64:
		writeTagged(tagFloat, floatBits(x))
	case time.Time:
		writeTagged(tagTime, uint64(x.UnixNano()))
	case Hashable:
		x.WriteHash(d)
	case []any:
		writeTagged(tagList, uint64(len(x)))
		for _, e := range x {
			WriteValue(d, e)
		}
	default:
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
			writeTagged(tagList, uint64(rv.Len()))
			for i := range rv.Len() {
				WriteValue(d, rv.Index(i).Interface())
			}
			return
		}
		_, _ = d.Write([]byte{tagOther})
		_, _ = fmt.Fprintf(d, "%T:%v", v, v)
	}
}

func floatBits(f float64) uint64 {
	switch {
	case math.IsNaN(f):
		return math.Float64bits(math.NaN())
	case f == 0:
		return 0
	}
	return math.Float64bits(f)
}

// EqualValues compares two cell values. NaN equals NaN; slices compare
// element-wise; values implementing Equatable decide for themselves.
func EqualValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if IsNaN(a) && IsNaN(b) {
		return reflect.TypeOf(a) == reflect.TypeOf(b)
	}
	switch x := a.(type) {
	case Equatable:
		return x.EqualTo(b)
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !EqualValues(x[i], y[i]) {
				return false
			}
		}
		return true
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	if ta.Kind() == reflect.Slice {
		ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
		if ra.Len() != rb.Len() {
			return false
		}
		for i := range ra.Len() {
			if !EqualValues(ra.Index(i).Interface(), rb.Index(i).Interface()) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

func typeName(v any) string { return fmt.Sprintf("%T", v) }
