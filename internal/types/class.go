// Package types models column element types: a small class lattice with Any
// at the top and Nothing at the bottom, generic List types, nullability, and
// the unification rules that compute a common type for mixed values.
package types

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"
)

// Class is a node of the type lattice. Concrete classes are bound to a Go
// type; abstract ones (Number, Integer, ...) exist only as common ancestors.
type Class struct {
	name   string
	supers []*Class
	rtype  reflect.Type
	arity  int
}

// Name returns the display name.
func (c *Class) Name() string { return c.name }

// ReflectType returns the bound Go type, or nil for abstract classes.
func (c *Class) ReflectType() reflect.Type { return c.rtype }

// IsGeneric reports whether the class takes type arguments.
func (c *Class) IsGeneric() bool { return c.arity > 0 }

// Supers returns the direct ancestors.
func (c *Class) Supers() []*Class { return c.supers }

func (c *Class) String() string { return c.name }

// IsSubclassOf reports whether other is c or one of its ancestors.
// Nothing is a subclass of every class, and every class is a subclass of Any.
func (c *Class) IsSubclassOf(other *Class) bool {
	if c == other || other == AnyClass || c == NothingClass {
		return true
	}
	for _, s := range c.supers {
		if s.IsSubclassOf(other) {
			return true
		}
	}
	return false
}

// Ancestors returns c and all of its ancestors, nearest first.
func (c *Class) Ancestors() []*Class {
	out := []*Class{c}
	for i := 0; i < len(out); i++ {
		for _, s := range out[i].supers {
			if !slices.Contains(out, s) {
				out = append(out, s)
			}
		}
	}
	if !slices.Contains(out, AnyClass) {
		out = append(out, AnyClass)
	}
	return out
}

// Abstract classes.
var (
	AnyClass      = &Class{name: "Any"}
	NothingClass  = &Class{name: "Nothing"}
	NumberClass   = &Class{name: "Number", supers: []*Class{AnyClass}}
	IntegerClass  = &Class{name: "Integer", supers: []*Class{NumberClass}}
	FloatClass    = &Class{name: "Float", supers: []*Class{NumberClass}}
	StringerClass = &Class{name: "Stringer", supers: []*Class{AnyClass}, rtype: reflect.TypeFor[fmt.Stringer]()}
	ErrorClass    = &Class{name: "error", supers: []*Class{AnyClass}, rtype: reflect.TypeFor[error]()}
	ListClass     = &Class{name: "List", supers: []*Class{AnyClass}, arity: 1}
	FrameClass    = &Class{name: "DataFrame", supers: []*Class{AnyClass}}
	RowClass      = &Class{name: "DataRow", supers: []*Class{AnyClass}}
)

type registry struct {
	mu         sync.RWMutex
	byType     map[reflect.Type]*Class
	interfaces []*Class
}

var classes = newRegistry()

func newRegistry() *registry {
	r := &registry{
		byType:     map[reflect.Type]*Class{},
		interfaces: []*Class{StringerClass, ErrorClass},
	}
	r.byType[StringerClass.rtype] = StringerClass
	r.byType[ErrorClass.rtype] = ErrorClass

	concrete := func(rt reflect.Type, supers ...*Class) {
		r.byType[rt] = &Class{name: rt.String(), supers: supers, rtype: rt}
	}
	for _, rt := range []reflect.Type{
		reflect.TypeFor[int](), reflect.TypeFor[int8](), reflect.TypeFor[int16](),
		reflect.TypeFor[int32](), reflect.TypeFor[int64](),
		reflect.TypeFor[uint](), reflect.TypeFor[uint8](), reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](), reflect.TypeFor[uint64](),
	} {
		concrete(rt, IntegerClass)
	}
	concrete(reflect.TypeFor[float32](), FloatClass)
	concrete(reflect.TypeFor[float64](), FloatClass)
	concrete(reflect.TypeFor[string](), AnyClass)
	concrete(reflect.TypeFor[bool](), AnyClass)
	concrete(reflect.TypeFor[time.Time](), StringerClass)
	concrete(reflect.TypeFor[time.Duration](), StringerClass)
	return r
}

// Bind associates a Go type with an existing class. Used to attach frame and
// row types defined in other packages to FrameClass and RowClass.
func Bind(rt reflect.Type, c *Class) {
	classes.mu.Lock()
	defer classes.mu.Unlock()
	classes.byType[rt] = c
}

// RegisterInterface adds an interface class. Classes created afterwards for
// types implementing it list it as an ancestor.
func RegisterInterface(name string, rt reflect.Type) *Class {
	if rt.Kind() != reflect.Interface {
		panic(fmt.Sprintf("types: %s is not an interface", rt))
	}
	classes.mu.Lock()
	defer classes.mu.Unlock()
	if c, ok := classes.byType[rt]; ok {
		return c
	}
	c := &Class{name: name, supers: []*Class{AnyClass}, rtype: rt}
	classes.byType[rt] = c
	classes.interfaces = append(classes.interfaces, c)
	return c
}

// ClassOf returns the class for a Go type, creating it on first use.
// Slices map to ListClass; pointers to the class of their element.
func ClassOf(rt reflect.Type) *Class {
	if rt == nil {
		return NothingClass
	}
	classes.mu.RLock()
	c, ok := classes.byType[rt]
	classes.mu.RUnlock()
	if ok {
		return c
	}

	switch rt.Kind() {
	case reflect.Slice, reflect.Array:
		return ListClass
	case reflect.Pointer:
		return ClassOf(rt.Elem())
	case reflect.Interface:
		if rt.NumMethod() == 0 {
			return AnyClass
		}
	}

	classes.mu.Lock()
	defer classes.mu.Unlock()
	if c, ok := classes.byType[rt]; ok {
		return c
	}
	c = &Class{name: rt.String(), rtype: rt, supers: inferSupers(rt, classes.interfaces)}
	classes.byType[rt] = c
	return c
}

func inferSupers(rt reflect.Type, interfaces []*Class) []*Class {
	var supers []*Class
	switch rt.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		supers = append(supers, IntegerClass)
	case reflect.Float32, reflect.Float64:
		supers = append(supers, FloatClass)
	}
	for _, iface := range interfaces {
		if rt != iface.rtype && rt.Implements(iface.rtype) {
			supers = append(supers, iface)
		}
	}
	if len(supers) == 0 {
		supers = append(supers, AnyClass)
	}
	return supers
}

// CommonClass returns the narrowest class every given class descends from.
// One distinct class unifies to itself; otherwise the shared ancestors are
// reduced to their leaves, and anything but exactly one leaf gives Any.
// Nothing is ignored; an empty input gives Nothing.
func CommonClass(cs []*Class) *Class {
	var distinct []*Class
	for _, c := range cs {
		if c != NothingClass && !slices.Contains(distinct, c) {
			distinct = append(distinct, c)
		}
	}
	switch len(distinct) {
	case 0:
		return NothingClass
	case 1:
		return distinct[0]
	}

	common := distinct[0].Ancestors()
	for _, c := range distinct[1:] {
		anc := c.Ancestors()
		common = slices.DeleteFunc(common, func(x *Class) bool { return !slices.Contains(anc, x) })
	}

	var leaves []*Class
	for _, c := range common {
		isAncestorOfOther := slices.ContainsFunc(common, func(o *Class) bool {
			return o != c && o.IsSubclassOf(c)
		})
		if !isAncestorOfOther {
			leaves = append(leaves, c)
		}
	}
	if len(leaves) == 1 {
		return leaves[0]
	}
	return AnyClass
}
