package logic

import (
	"cmp"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"

	"github.com/benbjohnson/immutable"
)

// Stream is a lazy, possibly infinite sequence of States.
// Elements are computed only when the consumer asks for them; stopping the
// iteration abandons every unexplored branch.
type Stream = iter.Seq[*State]

// Fork is a deferred disjunction. When a State is enumerated, the fork is
// called with the State (minus this fork) and every State it yields is
// expanded in turn.
type Fork func(s *State) Stream

// table is one type's persistent LVar -> Val[T] map. Values are stored as
// any so tables of different types fit in one slice; lookup restores T.
type table = *immutable.Map[LVar, any]

// State is an immutable snapshot of variable bindings across every type of
// a Domain, plus a queue of pending forks.
//
// States are never modified after construction. Binding or forking returns
// a new State that shares structure with the receiver.
type State struct {
	domain *Domain
	tables []table
	forks  *immutable.List[Fork]
}

// NewState returns an empty State for the given Domain: no bindings and no
// pending forks.
//
// Panics with an *InvariantError if d is nil.
func NewState(d *Domain) *State {
	if d == nil {
		panic(NewInvariantError(ErrCodeNilDomain, "state requires a domain"))
	}
	tables := make([]table, d.Len())
	for i := range tables {
		tables[i] = immutable.NewMap[LVar, any](lvarHasher{})
	}
	return &State{
		domain: d,
		tables: tables,
		forks:  immutable.NewList[Fork](),
	}
}

// Domain returns the Domain the State stores bindings for.
func (s *State) Domain() *Domain {
	return s.domain
}

// Pending returns the number of forks not yet expanded.
func (s *State) Pending() int {
	return s.forks.Len()
}

// Fork registers a deferred disjunction and returns the extended State.
// The fork runs only when the State is enumerated with IterResolved.
func (s *State) Fork(f Fork) *State {
	return &State{
		domain: s.domain,
		tables: s.tables,
		forks:  s.forks.Append(f),
	}
}

// IterResolved expands every pending fork depth-first, left to right, and
// yields each State reachable by consistent choices. Yielded States have no
// pending forks. A State without forks yields exactly itself.
//
// The sequence is infinite if the forks encode infinite choice; consumers
// stop it by breaking out of the range loop.
func (s *State) IterResolved() Stream {
	return func(yield func(*State) bool) {
		s.expand(yield)
	}
}

func (s *State) expand(yield func(*State) bool) bool {
	if s.forks.Len() == 0 {
		return yield(s)
	}
	f := s.forks.Get(0)
	rest := &State{
		domain: s.domain,
		tables: s.tables,
		forks:  s.forks.Slice(1, s.forks.Len()),
	}
	for next := range f(rest) {
		if !next.expand(yield) {
			return false
		}
	}
	return true
}

// lookup returns the binding for v in T's table.
func lookup[T any](s *State, v LVar) (Val[T], bool) {
	slot := s.domain.slot(reflect.TypeFor[T]())
	raw, ok := s.tables[slot].Get(v)
	if !ok {
		return Val[T]{}, false
	}
	return raw.(Val[T]), true
}

// bind returns a new State with v bound to val in T's table.
// Only the changed table is replaced; the others are shared.
func bind[T any](s *State, v LVar, val Val[T]) *State {
	slot := s.domain.slot(reflect.TypeFor[T]())
	tables := slices.Clone(s.tables)
	tables[slot] = tables[slot].Set(v, val)
	return &State{
		domain: s.domain,
		tables: tables,
		forks:  s.forks,
	}
}

// Bindings is a read-only view of one type's binding table.
type Bindings[T any] struct {
	m table
}

// Table returns the read-only view of T's bindings in s.
// Panics with an *InvariantError if T is not registered in the Domain.
func Table[T any](s *State) Bindings[T] {
	return Bindings[T]{m: s.tables[s.domain.slot(reflect.TypeFor[T]())]}
}

// Get returns the direct binding of v, without following chains.
func (b Bindings[T]) Get(v LVar) (Val[T], bool) {
	raw, ok := b.m.Get(v)
	if !ok {
		return Val[T]{}, false
	}
	return raw.(Val[T]), true
}

// Len returns the number of bound variables.
func (b Bindings[T]) Len() int {
	return b.m.Len()
}

// All yields the bindings ordered by variable identity.
func (b Bindings[T]) All() iter.Seq2[LVar, Val[T]] {
	return func(yield func(LVar, Val[T]) bool) {
		for _, e := range sortedEntries(b.m) {
			if !yield(e.v, e.val.(Val[T])) {
				return
			}
		}
	}
}

type tableEntry struct {
	v   LVar
	val any
}

func sortedEntries(m table) []tableEntry {
	entries := make([]tableEntry, 0, m.Len())
	itr := m.Iterator()
	for !itr.Done() {
		k, v, _ := itr.Next()
		entries = append(entries, tableEntry{v: k, val: v})
	}
	slices.SortFunc(entries, func(a, b tableEntry) int {
		return cmp.Compare(a.v.id, b.v.id)
	})
	return entries
}

// String renders the bindings per type, ordered by variable identity.
// Intended for debugging and log output.
func (s *State) String() string {
	var b strings.Builder
	b.WriteString("State{")
	first := true
	for i, t := range s.domain.types {
		if s.tables[i].Len() == 0 {
			continue
		}
		if !first {
			b.WriteString("; ")
		}
		first = false
		b.WriteString(t.name)
		b.WriteString(": ")
		for j, e := range sortedEntries(s.tables[i]) {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", e.v, e.val)
		}
	}
	if n := s.forks.Len(); n > 0 {
		if !first {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "pending=%d", n)
	}
	b.WriteString("}")
	return b.String()
}
