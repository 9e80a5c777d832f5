package harness

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/roach88/kanren/internal/compiler"
	"github.com/roach88/kanren/internal/ir"
)

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Compile the program, loading facts from its database if it names one
// 2. Report recursive rules in a program without a limit as warnings
// 3. Solve twice with the program limit
// 4. Check that both runs produced the same answers hash
// 5. Compare the answers with the expect list, if present
//
// An error is returned only when the scenario cannot be compiled or
// solved. Failed checks are recorded in the result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	p := scenario.Program
	c, err := compiler.CompileProgram(ctx, p, filepath.Dir(scenario.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s: %w", p.Name, err)
	}

	result := NewResult()
	for _, w := range compiler.AnalyzeRecursion(p) {
		if w.Level == "warning" {
			result.AddWarning(w.Message)
		}
	}

	limit := c.Limit(0)
	first, err := c.Solve(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to solve %s: %w", p.Name, err)
	}
	second, err := c.Solve(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to solve %s (second run): %w", p.Name, err)
	}

	result.Answers = first
	if result.Hash, err = ir.AnswersHash(first); err != nil {
		return nil, err
	}
	secondHash, err := ir.AnswersHash(second)
	if err != nil {
		return nil, err
	}
	if secondHash != result.Hash {
		result.AddError(fmt.Sprintf("nondeterministic answers: run 1 hash %s, run 2 hash %s", result.Hash, secondHash))
	}

	if p.Expect != nil {
		for _, msg := range CheckAnswers(first, p.Expect) {
			result.AddError(msg)
		}
	}

	slog.Debug("scenario run",
		"scenario", p.Name,
		"answers", len(first),
		"pass", result.Pass,
	)
	return result, nil
}

// RunFile loads and runs a scenario file.
func RunFile(ctx context.Context, path string) (*Scenario, *Result, error) {
	scenario, err := LoadScenario(path)
	if err != nil {
		return nil, nil, err
	}
	result, err := Run(ctx, scenario)
	if err != nil {
		return scenario, nil, err
	}
	return scenario, result, nil
}
