// Package term defines Term, the single value type that program files
// unify over, and the Domain that stores Term bindings.
//
// Atoms (Int, Str, Bool) compare by value. List unifies element-wise and Map
// wraps a logic map of terms, so both may contain unbound variables.
package term

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/kanren/internal/lmap"
	"github.com/roach88/kanren/internal/logic"
)

// Term is a sealed interface. Only Int, Str, Bool, List, and Map implement it.
type Term interface {
	fmt.Stringer
	term() // Sealed
}

// Int is an integer atom.
type Int int64

// Str is a string atom.
type Str string

// Bool is a boolean atom.
type Bool bool

// List is a fixed-length sequence of terms. Two lists unify when they have
// the same length and their items unify pairwise, left to right.
type List struct {
	Items []logic.Val[Term]
}

// Map is a logic map from terms to terms.
type Map struct {
	Entries lmap.LMap[Term, Term]
}

func (Int) term()  {}
func (Str) term()  {}
func (Bool) term() {}
func (List) term() {}
func (Map) term()  {}

// Domain stores Term bindings. It is shared by every program State.
var Domain = logic.NewDomain("term", logic.TypeFunc[Term]("term", Equal))

// NewState returns an empty State over Domain.
func NewState() *logic.State {
	return logic.NewState(Domain)
}

// Equal compares two atoms. Lists and maps are never equal by value; they
// unify through UnifyResolved instead.
func Equal(a, b Term) bool {
	switch a.(type) {
	case List, Map:
		return false
	}
	switch b.(type) {
	case List, Map:
		return false
	}
	return a == b
}

// Var returns a fresh Term variable.
func Var() logic.Val[Term] {
	return logic.Fresh[Term]()
}

// I wraps an integer atom.
func I(n int64) logic.Val[Term] {
	return logic.Resolved[Term](Int(n))
}

// S wraps a string atom.
func S(s string) logic.Val[Term] {
	return logic.Resolved[Term](Str(s))
}

// B wraps a boolean atom.
func B(b bool) logic.Val[Term] {
	return logic.Resolved[Term](Bool(b))
}

// L wraps a list of terms.
func L(items ...logic.Val[Term]) logic.Val[Term] {
	return logic.Resolved[Term](List{Items: items})
}

// M wraps a logic map of terms.
func M(entries ...lmap.Entry[Term, Term]) logic.Val[Term] {
	return logic.Resolved[Term](Map{Entries: lmap.New(entries...)})
}

// UnifyResolved unifies two lists of equal length item by item, threading
// the State and stopping at the first failure.
func (l List) UnifyResolved(s *logic.State, other Term) (*logic.State, bool) {
	o, ok := other.(List)
	if !ok || len(l.Items) != len(o.Items) {
		return nil, false
	}
	for i := range l.Items {
		s, ok = logic.Unify(s, l.Items[i], o.Items[i])
		if !ok {
			return nil, false
		}
	}
	return s, true
}

// Reify returns the list with every item resolved.
func (l List) Reify(s *logic.State) (Term, bool) {
	items := make([]logic.Val[Term], len(l.Items))
	for i, item := range l.Items {
		t, ok := logic.Reify(s, item)
		if !ok {
			return nil, false
		}
		items[i] = logic.Resolved(t)
	}
	return List{Items: items}, true
}

func (l List) String() string {
	parts := make([]string, len(l.Items))
	for i, item := range l.Items {
		parts[i] = item.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// UnifyResolved unifies two maps with the logic map rules.
func (m Map) UnifyResolved(s *logic.State, other Term) (*logic.State, bool) {
	o, ok := other.(Map)
	if !ok {
		return nil, false
	}
	return m.Entries.UnifyResolved(s, o.Entries)
}

// Reify returns the map with every key and value resolved.
func (m Map) Reify(s *logic.State) (Term, bool) {
	entries, ok := m.Entries.Reify(s)
	if !ok {
		return nil, false
	}
	return Map{Entries: entries}, true
}

func (m Map) String() string {
	return m.Entries.String()
}

func (i Int) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (s Str) String() string {
	return strconv.Quote(string(s))
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}
