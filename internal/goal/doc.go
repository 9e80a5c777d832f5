// Package goal implements the goal algebra and its depth-first evaluator.
//
// A Goal is an immutable AST node: Succeed, Fail, Unify, Both, Either, Not,
// Lazy or Custom. Apply evaluates a goal against a logic.State and returns
// a lazy logic.Stream of resulting States:
//
//	Succeed   yields the input State
//	Fail      yields nothing
//	Unify     yields the unified State, if unification succeeds
//	Both      for every State of the left goal, every State of the right goal
//	Either    every State of the left goal, then every State of the right goal
//	Not       the input State iff the inner goal yields nothing
//	Lazy      builds the goal from the current State, then applies it
//	Custom    yields the State returned by a State transformation, if any
//
// Evaluation is strictly depth-first and left-biased. Result order is part
// of the contract: re-running a goal against the same State always yields
// the same States in the same order.
//
// Either does not explore its branches eagerly. It registers a fork on the
// State (logic.State.Fork); forks are expanded when the stream is consumed.
// Both and Not expand the forks of their inner results before continuing, so
// later conjuncts and Lazy builders always observe earlier bindings.
//
// Not is negation as failure: it never introduces bindings. Not(Not(g))
// does NOT reduce to g. If g would bind a variable, Not(Not(g)) still leaves
// it unbound, because only satisfiability propagates out of a Not.
package goal
