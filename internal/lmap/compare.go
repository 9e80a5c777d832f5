package lmap

import (
	"github.com/roach88/kanren/internal/goal"
	"github.com/roach88/kanren/internal/logic"
)

// Subset succeeds when every entry of a matches some entry of b: the keys
// unify and the values unify, under one State consistent across all of a's
// entries. Two entries of a may match the same entry of b.
//
// Both operands are resolved when the goal runs; if either is still an
// unbound variable the goal fails.
func Subset[K, V any](a, b logic.Val[LMap[K, V]]) goal.Goal {
	return goal.With2(a, b, func(a, b logic.Val[LMap[K, V]]) goal.Goal {
		am, ok := a.Value()
		if !ok {
			return goal.Fail()
		}
		bm, ok := b.Value()
		if !ok {
			return goal.Fail()
		}
		return SubsetOf(am, bm)
	})
}

// Superset is Subset with the operands swapped.
func Superset[K, V any](a, b logic.Val[LMap[K, V]]) goal.Goal {
	return Subset(b, a)
}

// SubsetOf is Subset over maps that are already known.
// An empty a succeeds against any b.
func SubsetOf[K, V any](a, b LMap[K, V]) goal.Goal {
	goals := make([]goal.Goal, 0, a.Len())
	for e := range a.All() {
		goals = append(goals, entryIn(e, b))
	}
	return goal.All(goals...)
}

// entryIn matches one entry against the entries of m.
//
// Entries of m whose key is already identical to e's key in the current
// State are the only candidates, and only their values are unified.
// Without such an entry every entry of m is tried in order.
func entryIn[K, V any](e Entry[K, V], m LMap[K, V]) goal.Goal {
	return goal.Lazy(func(s *logic.State) goal.Goal {
		var pinned []goal.Goal
		for cand := range m.All() {
			if logic.Identical(s, e.Key, cand.Key) {
				pinned = append(pinned, goal.Unify(e.Value, cand.Value))
			}
		}
		if len(pinned) > 0 {
			return goal.Any(pinned...)
		}

		alts := make([]goal.Goal, 0, m.Len())
		for cand := range m.All() {
			alts = append(alts, goal.Both(
				goal.Unify(e.Key, cand.Key),
				goal.Unify(e.Value, cand.Value),
			))
		}
		return goal.Any(alts...)
	})
}
