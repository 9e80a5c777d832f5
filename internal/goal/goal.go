package goal

import (
	"github.com/roach88/kanren/internal/logic"
)

// Goal is a sealed interface over the goal AST nodes.
// Only the node types in this package implement it.
type Goal interface {
	goal() // Sealed
}

type succeedGoal struct{}

type failGoal struct{}

type unifyGoal struct {
	a, b logic.Value
}

type bothGoal struct {
	left, right Goal
}

type eitherGoal struct {
	left, right Goal
}

type notGoal struct {
	inner Goal
}

type lazyGoal struct {
	build func(*logic.State) Goal
}

type customGoal struct {
	run func(*logic.State) (*logic.State, bool)
}

func (succeedGoal) goal() {}
func (failGoal) goal()    {}
func (unifyGoal) goal()   {}
func (bothGoal) goal()    {}
func (eitherGoal) goal()  {}
func (notGoal) goal()     {}
func (lazyGoal) goal()    {}
func (customGoal) goal()  {}

// Succeed returns a goal that yields its input State unchanged.
func Succeed() Goal {
	return succeedGoal{}
}

// Fail returns a goal that yields nothing.
func Fail() Goal {
	return failGoal{}
}

// Unify returns a goal that unifies a and b.
func Unify[T any](a, b logic.Val[T]) Goal {
	return unifyGoal{a: a, b: b}
}

// UnifyValues returns a goal that unifies two domain-level values through the
// Domain dispatcher. Values of different types panic when the goal runs.
func UnifyValues(a, b logic.Value) Goal {
	return unifyGoal{a: a, b: b}
}

// Both returns a goal that succeeds when left and right both succeed.
// The right goal is only explored for States the left goal produced.
func Both(left, right Goal) Goal {
	return bothGoal{left: left, right: right}
}

// Either returns a goal that succeeds when left or right succeeds.
// Both sides run against the same State; left results precede right results.
func Either(left, right Goal) Goal {
	return eitherGoal{left: left, right: right}
}

// Not returns a goal that succeeds, with no new bindings, iff g has no
// solution in the current State.
func Not(g Goal) Goal {
	return notGoal{inner: g}
}

// Lazy defers building a goal until a State is available. build is called
// once for every State the goal is applied to, and may inspect bindings to
// decide which goal to return. Recursive relations use Lazy to stay finite
// at construction time.
func Lazy(build func(*logic.State) Goal) Goal {
	return lazyGoal{build: build}
}

// Custom wraps an arbitrary State transformation. Returning false fails the
// goal. This is the escape hatch for goals needing direct State access.
func Custom(run func(*logic.State) (*logic.State, bool)) Goal {
	return customGoal{run: run}
}

// All conjoins goals in order. All() is Succeed.
func All(goals ...Goal) Goal {
	if len(goals) == 0 {
		return Succeed()
	}
	g := goals[len(goals)-1]
	for i := len(goals) - 2; i >= 0; i-- {
		g = Both(goals[i], g)
	}
	return g
}

// Any disjoins goals in order; results follow argument order. Any() is Fail.
func Any(goals ...Goal) Goal {
	if len(goals) == 0 {
		return Fail()
	}
	g := goals[len(goals)-1]
	for i := len(goals) - 2; i >= 0; i-- {
		g = Either(goals[i], g)
	}
	return g
}

// With1 builds a goal from the current resolution of a. The Val passed to f
// may still be a variable if a is unbound when the goal runs.
func With1[A any](a logic.Val[A], f func(logic.Val[A]) Goal) Goal {
	return Lazy(func(s *logic.State) Goal {
		return f(a.Resolve(s))
	})
}

// With2 is With1 for two values.
func With2[A, B any](a logic.Val[A], b logic.Val[B], f func(logic.Val[A], logic.Val[B]) Goal) Goal {
	return Lazy(func(s *logic.State) Goal {
		return f(a.Resolve(s), b.Resolve(s))
	})
}

// With3 is With1 for three values.
func With3[A, B, C any](a logic.Val[A], b logic.Val[B], c logic.Val[C], f func(logic.Val[A], logic.Val[B], logic.Val[C]) Goal) Goal {
	return Lazy(func(s *logic.State) Goal {
		return f(a.Resolve(s), b.Resolve(s), c.Resolve(s))
	})
}
