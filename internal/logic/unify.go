package logic

import "reflect"

// Unifier is implemented by composite types that unify by their own
// matching algorithm instead of by equality. UnifyResolved is called with
// both sides resolved; it must be atomic (return (nil, false) without
// publishing partial bindings) and symmetric.
type Unifier[T any] interface {
	UnifyResolved(s *State, other T) (*State, bool)
}

// Unify reconciles a and b in s.
//
// Both operands are resolved first. An unbound variable on either side is
// bound to the other side's current value; two unbound variables are bound
// left to right. Two resolved values are compared with the registered
// equality, or structurally when T implements Unifier.
//
// Returns (nil, false) on conflict; s itself is never modified.
// Panics with an *InvariantError if T is not registered in the Domain.
func Unify[T any](s *State, a, b Val[T]) (*State, bool) {
	s.domain.slot(reflect.TypeFor[T]())

	a = a.Resolve(s)
	b = b.Resolve(s)

	switch {
	case a.IsVar() && b.IsVar():
		if a.lvar == b.lvar {
			return s, true
		}
		return bind(s, a.lvar, b), true
	case a.IsVar():
		return bind(s, a.lvar, b), true
	case b.IsVar():
		return bind(s, b.lvar, a), true
	}
	return unifyResolved(s, a.value, b.value)
}

func unifyResolved[T any](s *State, a, b *T) (*State, bool) {
	// Shared payload: the same resolved value on both sides.
	if a == b {
		return s, true
	}
	if u, ok := any(*a).(Unifier[T]); ok {
		return u.UnifyResolved(s, *b)
	}
	entry := s.domain.types[s.domain.slot(reflect.TypeFor[T]())]
	if entry.equal == nil {
		// Structural registration for a type whose dynamic value is atomic.
		return nil, false
	}
	if entry.equal(*a, *b) {
		return s, true
	}
	return nil, false
}

// Identical reports whether a and b are already equal in s, without
// introducing any binding: the same variable, or resolved values that unify
// with no change to the State.
func Identical[T any](s *State, a, b Val[T]) bool {
	a = a.Resolve(s)
	b = b.Resolve(s)
	switch {
	case a.IsVar() && b.IsVar():
		return a.lvar == b.lvar
	case a.IsVar() || b.IsVar():
		return false
	}
	next, ok := unifyResolved(s, a.value, b.value)
	return ok && next == s
}
