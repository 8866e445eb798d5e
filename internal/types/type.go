package types

import (
	"reflect"
	"strings"
)

// Type is a class plus type arguments and a nullability flag.
// The zero Type means "not specified".
type Type struct {
	class    *Class
	args     []Type
	nullable bool
}

// Common types.
var (
	Any             = Type{class: AnyClass}
	NullableAny     = Type{class: AnyClass, nullable: true}
	Nothing         = Type{class: NothingClass}
	NullableNothing = Type{class: NothingClass, nullable: true}
	Number          = Type{class: NumberClass}
	Frame           = Type{class: FrameClass}
	Row             = Type{class: RowClass}
)

// Of builds a type from a class and type arguments.
func Of(c *Class, args ...Type) Type {
	return Type{class: c, args: args}
}

// ListOf builds List<elem>.
func ListOf(elem Type) Type {
	return Type{class: ListClass, args: []Type{elem}}
}

// TypeOf returns the static type of T. Pointer types become nullable element
// types, slices become lists, and the empty interface is Any?.
func TypeOf[T any]() Type {
	return FromReflect(reflect.TypeFor[T]())
}

// FromReflect converts a Go type.
func FromReflect(rt reflect.Type) Type {
	if rt == nil {
		return NullableAny
	}
	if _, bound := lookup(rt); bound {
		return Type{class: ClassOf(rt)}
	}
	switch rt.Kind() {
	case reflect.Pointer:
		return FromReflect(rt.Elem()).WithNullability(true)
	case reflect.Slice, reflect.Array:
		return ListOf(FromReflect(rt.Elem()))
	case reflect.Interface:
		if rt.NumMethod() == 0 {
			return NullableAny
		}
		return Type{class: ClassOf(rt), nullable: true}
	}
	return Type{class: ClassOf(rt)}
}

func lookup(rt reflect.Type) (*Class, bool) {
	classes.mu.RLock()
	defer classes.mu.RUnlock()
	c, ok := classes.byType[rt]
	return c, ok
}

// IsZero reports whether the type is unspecified.
func (t Type) IsZero() bool { return t.class == nil }

// Class returns the erasure.
func (t Type) Class() *Class { return t.class }

// Args returns the type arguments.
func (t Type) Args() []Type { return t.args }

// Elem returns the first type argument, or Any? when there is none.
func (t Type) Elem() Type {
	if len(t.args) == 0 {
		return NullableAny
	}
	return t.args[0]
}

// Nullable reports whether null values are admitted.
func (t Type) Nullable() bool { return t.nullable }

// WithNullability returns a copy with the given flag.
func (t Type) WithNullability(nullable bool) Type {
	t.nullable = nullable
	return t
}

// IsList reports whether the erasure is List.
func (t Type) IsList() bool { return t.class == ListClass }

// IsNumeric reports whether t is a subtype of Number.
func (t Type) IsNumeric() bool {
	return t.class != nil && t.class != NothingClass && t.class.IsSubclassOf(NumberClass)
}

// Equal compares class, arguments and nullability.
func (t Type) Equal(o Type) bool {
	if t.class != o.class || t.nullable != o.nullable || len(t.args) != len(o.args) {
		return false
	}
	for i := range t.args {
		if !t.args[i].Equal(o.args[i]) {
			return false
		}
	}
	return true
}

// IsSubtypeOf reports whether every value of t is a value of o.
// Type arguments are covariant; a target without arguments accepts any.
func (t Type) IsSubtypeOf(o Type) bool {
	if t.IsZero() || o.IsZero() {
		return false
	}
	if t.nullable && !o.nullable {
		return false
	}
	if !t.class.IsSubclassOf(o.class) {
		return false
	}
	if len(o.args) == 0 || t.class == NothingClass {
		return true
	}
	if t.class != o.class || len(t.args) != len(o.args) {
		return false
	}
	for i := range t.args {
		if !t.args[i].IsSubtypeOf(o.args[i]) {
			return false
		}
	}
	return true
}

// String renders e.g. "List<int>?".
func (t Type) String() string {
	if t.class == nil {
		return "<unspecified>"
	}
	var b strings.Builder
	b.WriteString(t.class.name)
	if len(t.args) > 0 {
		b.WriteByte('<')
		for i, a := range t.args {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(a.String())
		}
		b.WriteByte('>')
	}
	if t.nullable {
		b.WriteByte('?')
	}
	return b.String()
}
