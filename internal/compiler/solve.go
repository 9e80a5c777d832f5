package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/kanren/internal/goal"
	"github.com/roach88/kanren/internal/ir"
	"github.com/roach88/kanren/internal/logic"
	"github.com/roach88/kanren/internal/term"
)

// Solve runs the program goal and returns up to limit answers in search
// order. A limit of zero returns every answer and does not return if the
// search is infinite.
//
// Each answer holds the reified query variables in query order. Answers
// that leave a query variable unbound are skipped. ctx is checked between
// answers and before each rule call; on cancellation Solve returns the
// context error.
func (c *Compiled) Solve(ctx context.Context, limit int) ([]ir.IRArray, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit must be >= 0, got %d", limit)
	}

	sc := newScope(ctx)
	query := make([]logic.Val[term.Term], len(c.program.Query))
	for i, name := range c.program.Query {
		query[i] = sc.lookup(name)
	}
	g := c.root(sc)

	slog.Debug("solve",
		"program", c.program.Name,
		"goal", goal.Kind(g),
		"query", c.program.Query,
		"limit", limit,
	)

	answers := []ir.IRArray{}
	for t := range goal.Query(g, term.NewState(), term.L(query...)) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		val, err := term.ToIR(t)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w", len(answers), err)
		}
		row, ok := val.(ir.IRArray)
		if !ok {
			return nil, fmt.Errorf("answer %d: expected a list, got %T", len(answers), val)
		}
		answers = append(answers, row)
		if limit > 0 && len(answers) >= limit {
			break
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("solved", "program", c.program.Name, "answers", len(answers))
	return answers, nil
}

// Limit returns the effective answer limit: override when positive,
// otherwise the program's own limit.
func (c *Compiled) Limit(override int) int {
	if override > 0 {
		return override
	}
	return c.program.Limit
}

// Describe renders the program goal, with rule calls shown as lazy nodes.
func (c *Compiled) Describe() string {
	return goal.String(c.root(newScope(context.Background())))
}
