package types

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	dferrors "github.com/paveg/nestframe/internal/errors"
)

// ConverterFunc converts a non-null value to a target class.
type ConverterFunc func(v any) (any, error)

type converterKey struct{ from, to *Class }

var (
	convertersMu sync.RWMutex
	converters   = map[converterKey]ConverterFunc{}
)

// RegisterConverter installs a converter for a class pair, replacing any
// existing one.
func RegisterConverter(from, to *Class, fn ConverterFunc) {
	convertersMu.Lock()
	defer convertersMu.Unlock()
	converters[converterKey{from, to}] = fn
}

// Convert converts v to target. A null converts only to a nullable target.
// Errors wrap ErrNoConverter when the class pair has no conversion, or
// ErrConversionFailed when the conversion rejected this value.
func Convert(v any, target Type) (any, error) {
	v = Deref(v)
	if v == nil {
		if target.nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: null is not a value of %s", dferrors.ErrConversionFailed, target)
	}
	src := TypeOfValue(v)
	if target.class == AnyClass || src.IsSubtypeOf(target.WithNullability(true)) {
		return v, nil
	}

	convertersMu.RLock()
	fn, ok := converters[converterKey{src.class, target.class}]
	convertersMu.RUnlock()
	if ok {
		out, err := fn(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", dferrors.ErrConversionFailed, err)
		}
		return out, nil
	}

	rt := target.class.rtype
	switch {
	case target.class == ClassOf(reflect.TypeFor[string]()):
		return fmt.Sprint(v), nil
	case rt != nil && src.class.rtype != nil && src.IsNumeric() && target.IsNumeric():
		return reflect.ValueOf(v).Convert(rt).Interface(), nil
	case rt != nil && src.class == ClassOf(reflect.TypeFor[string]()):
		return parseString(v.(string), rt)
	}
	return nil, fmt.Errorf("%w: %s to %s", dferrors.ErrNoConverter, src, target)
}

// parseString is the fallback for string sources. Unsupported targets report
// ErrNoConverter.
func parseString(s string, rt reflect.Type) (any, error) {
	s = strings.TrimSpace(s)
	var (
		out any
		err error
	)
	switch rt {
	case reflect.TypeFor[time.Time]():
		out, err = time.Parse(time.RFC3339, s)
	case reflect.TypeFor[time.Duration]():
		out, err = time.ParseDuration(s)
	default:
		switch rt.Kind() {
		case reflect.Bool:
			var b bool
			b, err = strconv.ParseBool(s)
			out = reflect.ValueOf(b).Convert(rt).Interface()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			var n int64
			n, err = strconv.ParseInt(s, 10, rt.Bits())
			out = reflect.ValueOf(n).Convert(rt).Interface()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			var n uint64
			n, err = strconv.ParseUint(s, 10, rt.Bits())
			out = reflect.ValueOf(n).Convert(rt).Interface()
		case reflect.Float32, reflect.Float64:
			var f float64
			f, err = strconv.ParseFloat(s, rt.Bits())
			out = reflect.ValueOf(f).Convert(rt).Interface()
		default:
			return nil, fmt.Errorf("%w: string to %s", dferrors.ErrNoConverter, rt)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dferrors.ErrConversionFailed, err)
	}
	return out, nil
}
