package logic

import (
	"fmt"
	"reflect"
)

// Domain is the closed set of value types one search session can bind.
//
// A Domain is declared once with NewDomain and is immutable afterwards;
// any number of States may share it. Each registered type gets exactly one
// binding table per State and one dispatch entry.
type Domain struct {
	name  string
	types []typeEntry
	slots map[reflect.Type]int
}

// typeEntry describes one registered value type.
type typeEntry struct {
	name  string
	rtype reflect.Type
	// equal compares two resolved payloads. Nil for structural types, whose
	// UnifyResolved method is used instead.
	equal func(a, b any) bool
}

// Registration adds one value type to a Domain under construction.
type Registration func(d *Domain)

// Type registers an atomic type compared with Go's == operator.
func Type[T comparable](name string) Registration {
	return func(d *Domain) {
		d.register(name, reflect.TypeFor[T](), func(a, b any) bool {
			return a.(T) == b.(T)
		})
	}
}

// TypeFunc registers an atomic type compared with a custom equality.
// Types implementing Unifier are still unified structurally.
func TypeFunc[T any](name string, equal func(a, b T) bool) Registration {
	return func(d *Domain) {
		d.register(name, reflect.TypeFor[T](), func(a, b any) bool {
			return equal(a.(T), b.(T))
		})
	}
}

// Structural registers a composite type that unifies through its own
// UnifyResolved method (tuples, logic maps).
func Structural[T Unifier[T]](name string) Registration {
	return func(d *Domain) {
		d.register(name, reflect.TypeFor[T](), nil)
	}
}

// NewDomain builds a Domain from the given registrations.
//
// Panics with an *InvariantError if the same Go type is registered twice.
func NewDomain(name string, regs ...Registration) *Domain {
	d := &Domain{
		name:  name,
		slots: make(map[reflect.Type]int, len(regs)),
	}
	for _, reg := range regs {
		reg(d)
	}
	return d
}

func (d *Domain) register(name string, t reflect.Type, equal func(a, b any) bool) {
	if _, exists := d.slots[t]; exists {
		panic(&InvariantError{
			Code:    ErrCodeDuplicateType,
			Message: fmt.Sprintf("type %s registered twice", t),
			Domain:  d.name,
		})
	}
	if name == "" {
		name = t.String()
	}
	d.slots[t] = len(d.types)
	d.types = append(d.types, typeEntry{name: name, rtype: t, equal: equal})
}

// Name returns the Domain's name.
func (d *Domain) Name() string {
	return d.name
}

// TypeNames returns the registered type names in registration order.
func (d *Domain) TypeNames() []string {
	names := make([]string, len(d.types))
	for i, t := range d.types {
		names[i] = t.name
	}
	return names
}

// Len returns the number of registered types.
func (d *Domain) Len() int {
	return len(d.types)
}

// Registered reports whether d stores values of type T.
func Registered[T any](d *Domain) bool {
	_, ok := d.slots[reflect.TypeFor[T]()]
	return ok
}

// slot returns the table index for t, panicking if t is not registered.
func (d *Domain) slot(t reflect.Type) int {
	i, ok := d.slots[t]
	if !ok {
		panic(newUnregisteredTypeError(d.name, t))
	}
	return i
}

// UnifyValues is the single dispatch entry point for domain-level values.
//
// Both wrappers must hold the same registered type. Anything else means the
// Domain was mis-built, so it panics with an *InvariantError rather than
// reporting an ordinary unification failure.
func (d *Domain) UnifyValues(s *State, a, b Value) (*State, bool) {
	at, bt := a.valueType(), b.valueType()
	if at != bt {
		err := newTypeMismatchError(at, bt)
		err.Domain = d.name
		panic(err)
	}
	d.slot(at)
	return a.unifyValue(s, b)
}

// String renders the Domain as "name[type ...]".
func (d *Domain) String() string {
	return fmt.Sprintf("%s%v", d.name, d.TypeNames())
}
