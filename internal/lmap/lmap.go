package lmap

import (
	"iter"
	"strings"

	"github.com/benbjohnson/immutable"

	"github.com/roach88/kanren/internal/goal"
	"github.com/roach88/kanren/internal/logic"
)

// Entry is one key/value pair of an LMap.
type Entry[K, V any] struct {
	Key   logic.Val[K]
	Value logic.Val[V]
}

// E builds an Entry.
func E[K, V any](k logic.Val[K], v logic.Val[V]) Entry[K, V] {
	return Entry[K, V]{Key: k, Value: v}
}

// LMap is an ordered, immutable sequence of entries. Duplicate and variable
// keys are permitted; a duplicate entry still counts toward Len and toward
// the size check of unification. The zero LMap is empty and ready to use.
//
// To unify LMaps in a Domain, register both the map type and its key and
// value types:
//
//	logic.NewDomain("app",
//		logic.Type[int]("int"),
//		logic.Structural[lmap.LMap[int, int]]("lmap"),
//	)
type LMap[K, V any] struct {
	entries *immutable.List[Entry[K, V]]
}

// New returns an LMap holding entries in the given order.
func New[K, V any](entries ...Entry[K, V]) LMap[K, V] {
	b := immutable.NewListBuilder[Entry[K, V]]()
	for _, e := range entries {
		b.Append(e)
	}
	return LMap[K, V]{entries: b.List()}
}

// Insert returns a copy of m with one more entry at the end.
// m itself is unchanged.
func (m LMap[K, V]) Insert(k logic.Val[K], v logic.Val[V]) LMap[K, V] {
	list := m.entries
	if list == nil {
		list = immutable.NewList[Entry[K, V]]()
	}
	return LMap[K, V]{entries: list.Append(E(k, v))}
}

// Len returns the number of entries.
func (m LMap[K, V]) Len() int {
	if m.entries == nil {
		return 0
	}
	return m.entries.Len()
}

// All yields the entries in insertion order.
func (m LMap[K, V]) All() iter.Seq[Entry[K, V]] {
	return func(yield func(Entry[K, V]) bool) {
		for i := range m.Len() {
			if !yield(m.entries.Get(i)) {
				return
			}
		}
	}
}

// Entries returns the entries in insertion order as a new slice.
func (m LMap[K, V]) Entries() []Entry[K, V] {
	out := make([]Entry[K, V], 0, m.Len())
	for e := range m.All() {
		out = append(out, e)
	}
	return out
}

// UnifyResolved unifies two maps with the same number of entries that are
// each a subset of the other. The matching is registered as a fork and runs
// when the State is enumerated.
//
// Entries count individually: {1: 2, 1: 2} and {1: 2} are mutual subsets
// but do not unify. Maps whose entries are already identical pairwise, in
// order, unify without a fork and leave s unchanged, so logic.Identical
// holds for them.
func (m LMap[K, V]) UnifyResolved(s *logic.State, o LMap[K, V]) (*logic.State, bool) {
	if m.Len() != o.Len() {
		return nil, false
	}
	if m.identical(s, o) {
		return s, true
	}
	both := goal.Both(SubsetOf(m, o), SubsetOf(o, m))
	return s.Fork(func(s *logic.State) logic.Stream {
		return goal.Apply(both, s)
	}), true
}

// identical reports whether the i-th entries of m and o have identical keys
// and values for every i.
func (m LMap[K, V]) identical(s *logic.State, o LMap[K, V]) bool {
	for i := range m.Len() {
		a, b := m.entries.Get(i), o.entries.Get(i)
		if !logic.Identical(s, a.Key, b.Key) || !logic.Identical(s, a.Value, b.Value) {
			return false
		}
	}
	return true
}

// Reify returns the map with every key and value resolved.
func (m LMap[K, V]) Reify(s *logic.State) (LMap[K, V], bool) {
	out := make([]Entry[K, V], 0, m.Len())
	for e := range m.All() {
		k, ok := logic.Reify(s, e.Key)
		if !ok {
			return LMap[K, V]{}, false
		}
		v, ok := logic.Reify(s, e.Value)
		if !ok {
			return LMap[K, V]{}, false
		}
		out = append(out, E(logic.Resolved(k), logic.Resolved(v)))
	}
	return New(out...), true
}

// String renders the map as "{k: v, ...}" in entry order.
func (m LMap[K, V]) String() string {
	var b strings.Builder
	b.WriteString("{")
	i := 0
	for e := range m.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(e.Key.String())
		b.WriteString(": ")
		b.WriteString(e.Value.String())
		i++
	}
	b.WriteString("}")
	return b.String()
}
