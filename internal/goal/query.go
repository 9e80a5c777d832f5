package goal

import (
	"iter"
	"log/slog"

	"github.com/roach88/kanren/internal/logic"
)

// Run applies g to s and yields every fully resolved State, depth-first.
// The stream may be infinite; stop ranging over it to cancel the search.
func Run(g Goal, s *logic.State) logic.Stream {
	return func(yield func(*logic.State) bool) {
		logger := slog.Default()
		logger.Debug("goal run starting", "goal", Kind(g), "domain", s.Domain().Name())

		n := 0
		for r := range resolve(Apply(g, s)) {
			n++
			if !yield(r) {
				logger.Debug("goal run stopped by consumer", "results", n)
				return
			}
		}
		logger.Debug("goal run exhausted", "results", n)
	}
}

// Query runs g from s and yields the reified value of v in each result.
// Results in which v (or a variable nested in it) is unbound are skipped.
func Query[T any](g Goal, s *logic.State, v logic.Val[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for r := range Run(g, s) {
			t, ok := logic.Reify(r, v)
			if !ok {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// Take returns at most the first n elements of seq. Elements beyond n are
// never computed. A negative n collects the whole (finite) sequence.
func Take[T any](seq iter.Seq[T], n int) []T {
	var out []T
	if n == 0 {
		return out
	}
	for t := range seq {
		out = append(out, t)
		if n > 0 && len(out) >= n {
			break
		}
	}
	return out
}

// Count consumes a finite stream and returns its length.
func Count(stream logic.Stream) int {
	n := 0
	for range stream {
		n++
	}
	return n
}
