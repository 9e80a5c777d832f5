package logic

import "fmt"

// Tuple2 is a fixed-arity pair whose elements are independently resolvable.
type Tuple2[A, B any] struct {
	First  Val[A]
	Second Val[B]
}

// Pair builds a resolved Tuple2 from its elements.
func Pair[A, B any](a Val[A], b Val[B]) Val[Tuple2[A, B]] {
	return Resolved(Tuple2[A, B]{First: a, Second: b})
}

// UnifyResolved unifies element-wise, left to right, threading the State and
// stopping at the first failure.
func (t Tuple2[A, B]) UnifyResolved(s *State, o Tuple2[A, B]) (*State, bool) {
	s, ok := Unify(s, t.First, o.First)
	if !ok {
		return nil, false
	}
	return Unify(s, t.Second, o.Second)
}

// Reify returns the tuple with every element fully resolved.
func (t Tuple2[A, B]) Reify(s *State) (Tuple2[A, B], bool) {
	a, ok := Reify(s, t.First)
	if !ok {
		return Tuple2[A, B]{}, false
	}
	b, ok := Reify(s, t.Second)
	if !ok {
		return Tuple2[A, B]{}, false
	}
	return Tuple2[A, B]{First: Resolved(a), Second: Resolved(b)}, true
}

func (t Tuple2[A, B]) String() string {
	return fmt.Sprintf("(%v, %v)", t.First, t.Second)
}

// Tuple3 is a fixed-arity triple whose elements are independently resolvable.
type Tuple3[A, B, C any] struct {
	First  Val[A]
	Second Val[B]
	Third  Val[C]
}

// Triple builds a resolved Tuple3 from its elements.
func Triple[A, B, C any](a Val[A], b Val[B], c Val[C]) Val[Tuple3[A, B, C]] {
	return Resolved(Tuple3[A, B, C]{First: a, Second: b, Third: c})
}

// UnifyResolved unifies element-wise, left to right, short-circuiting.
func (t Tuple3[A, B, C]) UnifyResolved(s *State, o Tuple3[A, B, C]) (*State, bool) {
	s, ok := Unify(s, t.First, o.First)
	if !ok {
		return nil, false
	}
	s, ok = Unify(s, t.Second, o.Second)
	if !ok {
		return nil, false
	}
	return Unify(s, t.Third, o.Third)
}

// Reify returns the tuple with every element fully resolved.
func (t Tuple3[A, B, C]) Reify(s *State) (Tuple3[A, B, C], bool) {
	a, ok := Reify(s, t.First)
	if !ok {
		return Tuple3[A, B, C]{}, false
	}
	b, ok := Reify(s, t.Second)
	if !ok {
		return Tuple3[A, B, C]{}, false
	}
	c, ok := Reify(s, t.Third)
	if !ok {
		return Tuple3[A, B, C]{}, false
	}
	return Tuple3[A, B, C]{First: Resolved(a), Second: Resolved(b), Third: Resolved(c)}, true
}

func (t Tuple3[A, B, C]) String() string {
	return fmt.Sprintf("(%v, %v, %v)", t.First, t.Second, t.Third)
}
