package term

import (
	"github.com/roach88/kanren/internal/goal"
	"github.com/roach88/kanren/internal/lmap"
	"github.com/roach88/kanren/internal/logic"
)

// Subset succeeds when a and b resolve to maps and every entry of a matches
// an entry of b. Any other operand, including an unbound variable, fails.
func Subset(a, b logic.Val[Term]) goal.Goal {
	return goal.With2(a, b, func(a, b logic.Val[Term]) goal.Goal {
		am, ok := asMap(a)
		if !ok {
			return goal.Fail()
		}
		bm, ok := asMap(b)
		if !ok {
			return goal.Fail()
		}
		return lmap.SubsetOf(am.Entries, bm.Entries)
	})
}

// Superset is Subset with the operands swapped.
func Superset(a, b logic.Val[Term]) goal.Goal {
	return Subset(b, a)
}

func asMap(v logic.Val[Term]) (Map, bool) {
	t, ok := v.Value()
	if !ok {
		return Map{}, false
	}
	m, ok := t.(Map)
	return m, ok
}
