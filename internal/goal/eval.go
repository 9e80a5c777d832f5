package goal

import (
	"fmt"
	"strings"

	"github.com/roach88/kanren/internal/logic"
)

// Apply evaluates g against s and returns the lazy stream of resulting
// States. States yielded by an Either may still carry pending forks; use Run
// to obtain fully resolved States.
//
// Panics with a *logic.InvariantError if g (or a goal built by Lazy) is nil.
func Apply(g Goal, s *logic.State) logic.Stream {
	switch g := g.(type) {
	case succeedGoal:
		return single(s)

	case failGoal:
		return empty

	case unifyGoal:
		return func(yield func(*logic.State) bool) {
			if next, ok := s.Domain().UnifyValues(s, g.a, g.b); ok {
				yield(next)
			}
		}

	case bothGoal:
		return func(yield func(*logic.State) bool) {
			for left := range resolve(Apply(g.left, s)) {
				for right := range Apply(g.right, left) {
					if !yield(right) {
						return
					}
				}
			}
		}

	case eitherGoal:
		return single(s.Fork(func(s *logic.State) logic.Stream {
			return concat(Apply(g.left, s), Apply(g.right, s))
		}))

	case notGoal:
		return func(yield func(*logic.State) bool) {
			for range resolve(Apply(g.inner, s)) {
				return
			}
			yield(s)
		}

	case lazyGoal:
		return func(yield func(*logic.State) bool) {
			for next := range Apply(g.build(s), s) {
				if !yield(next) {
					return
				}
			}
		}

	case customGoal:
		return func(yield func(*logic.State) bool) {
			if next, ok := g.run(s); ok && next != nil {
				yield(next)
			}
		}

	default:
		panic(logic.NewInvariantError(logic.ErrCodeInvalidGoal, "cannot apply goal %T", g))
	}
}

// resolve expands the pending forks of every State in stream.
func resolve(stream logic.Stream) logic.Stream {
	return func(yield func(*logic.State) bool) {
		for s := range stream {
			for r := range s.IterResolved() {
				if !yield(r) {
					return
				}
			}
		}
	}
}

func single(s *logic.State) logic.Stream {
	return func(yield func(*logic.State) bool) {
		yield(s)
	}
}

func empty(func(*logic.State) bool) {}

func concat(first, second logic.Stream) logic.Stream {
	return func(yield func(*logic.State) bool) {
		for s := range first {
			if !yield(s) {
				return
			}
		}
		for s := range second {
			if !yield(s) {
				return
			}
		}
	}
}

// Kind returns the node name of g ("succeed", "both", ...).
func Kind(g Goal) string {
	switch g.(type) {
	case succeedGoal:
		return "succeed"
	case failGoal:
		return "fail"
	case unifyGoal:
		return "unify"
	case bothGoal:
		return "both"
	case eitherGoal:
		return "either"
	case notGoal:
		return "not"
	case lazyGoal:
		return "lazy"
	case customGoal:
		return "custom"
	default:
		return fmt.Sprintf("unknown(%T)", g)
	}
}

// String renders the goal tree for debugging. Lazy and Custom nodes are
// opaque until applied.
func String(g Goal) string {
	var b strings.Builder
	writeGoal(&b, g)
	return b.String()
}

func writeGoal(b *strings.Builder, g Goal) {
	switch g := g.(type) {
	case unifyGoal:
		fmt.Fprintf(b, "unify(%s, %s)", g.a, g.b)
	case bothGoal:
		b.WriteString("both(")
		writeGoal(b, g.left)
		b.WriteString(", ")
		writeGoal(b, g.right)
		b.WriteString(")")
	case eitherGoal:
		b.WriteString("either(")
		writeGoal(b, g.left)
		b.WriteString(", ")
		writeGoal(b, g.right)
		b.WriteString(")")
	case notGoal:
		b.WriteString("not(")
		writeGoal(b, g.inner)
		b.WriteString(")")
	default:
		b.WriteString(Kind(g))
	}
}
