// Package logic implements the values, binding store and unification
// algorithm of the kanren search engine.
//
// The package is the foundational layer: goal combinators (internal/goal)
// and logic collections (internal/lmap) are built on top of it, and it
// imports nothing internal.
//
// # Values
//
// A Val[T] is either an unresolved reference to an LVar or a resolved,
// immutable T. Resolved payloads are held by pointer, so copying a Val is
// cheap and every branch of a search shares the same payload. Composite
// types (Tuple2, Tuple3, lmap.LMap) hold Val fields of their own, which lets
// a value be partially resolved.
//
// # Domains
//
// A Domain is the closed set of value types a search session can bind. It is
// declared once per application:
//
//	numbers := logic.NewDomain("numbers",
//	    logic.Type[int]("int"),
//	    logic.Structural[logic.Tuple2[int, int]]("pair"),
//	)
//
// Each registered type owns one binding table in every State. Using a type
// the Domain does not know about is an invariant violation and panics with
// an *InvariantError.
//
// # States
//
// A State is an immutable snapshot of the bindings plus a queue of pending
// forks (deferred disjunctions). Binding a variable returns a new State and
// leaves the receiver untouched, so sibling branches of a search never see
// each other's bindings. Tables are persistent hash maps
// (github.com/benbjohnson/immutable) and share structure between States.
//
// INVARIANTS:
//   - Within one lineage a binding is never retracted, only extended.
//   - A failed unification returns (nil, false) and publishes no bindings.
//   - IterResolved expands forks depth-first, left to right.
//   - No occurs check: circular bindings are not detected.
package logic
