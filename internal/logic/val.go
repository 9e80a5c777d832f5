package logic

import (
	"fmt"
	"reflect"
)

// Val is either an unresolved variable or a resolved value of type T.
//
// The resolved payload is stored by pointer and never mutated, so copies of
// a Val share it. The zero Val is an unresolved variable that no State ever
// binds.
type Val[T any] struct {
	lvar  LVar
	value *T
}

// Var wraps an existing logic variable as a Val of type T.
func Var[T any](v LVar) Val[T] {
	return Val[T]{lvar: v}
}

// Fresh returns a Val referring to a brand new logic variable.
func Fresh[T any]() Val[T] {
	return Var[T](NewLVar())
}

// Resolved wraps a concrete value.
func Resolved[T any](t T) Val[T] {
	return Val[T]{value: &t}
}

// IsVar reports whether v is an unresolved variable reference.
func (v Val[T]) IsVar() bool {
	return v.value == nil
}

// LVar returns the referenced variable, or false if v is resolved.
func (v Val[T]) LVar() (LVar, bool) {
	if v.value != nil {
		return LVar{}, false
	}
	return v.lvar, true
}

// Value returns the resolved payload, or false if v is a variable.
// Value does not consult any State; call Resolve first to follow bindings.
func (v Val[T]) Value() (T, bool) {
	if v.value == nil {
		var zero T
		return zero, false
	}
	return *v.value, true
}

// MustValue is like Value but panics if v is a variable.
// Use only in tests or when v is known to be resolved.
func (v Val[T]) MustValue() T {
	if v.value == nil {
		panic(fmt.Sprintf("logic: MustValue on unresolved variable %s", v.lvar))
	}
	return *v.value
}

// Resolve follows variable bindings in s until it reaches a resolved value
// or an unbound variable. The State is never modified.
func (v Val[T]) Resolve(s *State) Val[T] {
	for v.value == nil {
		next, ok := lookup[T](s, v.lvar)
		if !ok {
			return v
		}
		v = next
	}
	return v
}

// String renders a variable as "_.N" and a resolved value with fmt.
func (v Val[T]) String() string {
	if v.value == nil {
		return v.lvar.String()
	}
	return fmt.Sprint(*v.value)
}

// Value is the domain-level wrapper the Domain dispatcher receives.
// Every Val[T] implements it; the unexported methods keep the set closed.
type Value interface {
	fmt.Stringer
	valueType() reflect.Type
	unifyValue(s *State, other Value) (*State, bool)
}

func (v Val[T]) valueType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (v Val[T]) unifyValue(s *State, other Value) (*State, bool) {
	o, ok := other.(Val[T])
	if !ok {
		panic(newTypeMismatchError(v.valueType(), other.valueType()))
	}
	return Unify(s, v, o)
}
