package types

import "reflect"

// IsNull reports whether v is nil or a nil pointer.
func IsNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Deref unwraps non-nil pointers so columns hold plain values.
func Deref(v any) any {
	for {
		if v == nil {
			return nil
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		if _, bound := lookup(rv.Type()); bound {
			return v
		}
		if rv.IsNil() {
			return nil
		}
		v = rv.Elem().Interface()
	}
}

// TypeOfValue returns the runtime type of a single value. Slices with an
// interface element type are typed by unifying their elements.
func TypeOfValue(v any) Type {
	v = Deref(v)
	if v == nil {
		return NullableNothing
	}
	rt := reflect.TypeOf(v)
	if _, bound := lookup(rt); bound {
		return Type{class: ClassOf(rt)}
	}
	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		if rt.Elem().Kind() != reflect.Interface {
			return ListOf(FromReflect(rt.Elem()))
		}
		rv := reflect.ValueOf(v)
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return ListOf(GuessValueType(elems))
	}
	return Type{class: ClassOf(rt)}
}

// GuessValueType unifies the runtime types of values. The result is nullable
// iff a null was observed; all-null input gives Nothing? and empty input
// gives Nothing.
func GuessValueType(values []any) Type {
	hasNull := false
	observed := make([]Type, 0, len(values))
	for _, v := range values {
		if IsNull(v) {
			hasNull = true
			continue
		}
		observed = append(observed, TypeOfValue(v))
	}
	if len(observed) == 0 {
		return Nothing.WithNullability(hasNull)
	}
	return CommonType(observed).WithNullability(hasNull)
}

// CommonType unifies static types. Classes are unified with CommonClass;
// when every input shares one generic class, type arguments are unified
// recursively. Nullable iff any input is nullable.
func CommonType(ts []Type) Type {
	nullable := false
	present := make([]Type, 0, len(ts))
	for _, t := range ts {
		if t.IsZero() {
			continue
		}
		nullable = nullable || t.nullable
		if t.class != NothingClass {
			present = append(present, t)
		}
	}
	if len(present) == 0 {
		return Nothing.WithNullability(nullable)
	}

	cs := make([]*Class, len(present))
	for i, t := range present {
		cs[i] = t.class
	}
	common := CommonClass(cs)

	out := Type{class: common, nullable: nullable}
	if common.arity == 0 {
		return out
	}
	out.args = make([]Type, common.arity)
	for i := range out.args {
		var argTypes []Type
		for _, t := range present {
			if t.class == common && i < len(t.args) {
				argTypes = append(argTypes, t.args[i])
			}
		}
		if len(argTypes) < len(present) {
			out.args[i] = NullableAny
			continue
		}
		out.args[i] = CommonType(argTypes)
	}
	return out
}
