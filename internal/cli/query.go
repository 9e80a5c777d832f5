package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/kanren/internal/compiler"
	"github.com/roach88/kanren/internal/ir"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	Limit   int            // overrides the program limit when > 0
	Timeout time.Duration  // cancels the search after this long; 0 means none
	RunIDs  RunIDGenerator // run_id source for JSON output (default UUIDv7)
}

// QueryResult is the JSON payload of the query command.
type QueryResult struct {
	Program string       `json:"program"`
	Query   []string     `json:"query"`
	Limit   int          `json:"limit,omitempty"`
	Count   int          `json:"count"`
	Answers []ir.IRArray `json:"answers"`
	Hash    string       `json:"answers_hash"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <program-file>",
		Short: "Run a program and print its answers",
		Long: `Load, validate, and compile a program file, then print its answers
in search order.

A program without a limit prints every answer; an infinite search runs
until interrupted (Ctrl-C) or --timeout expires.

Exit codes:
  0 - Answers printed (possibly none)
  1 - Invalid program, or the search was cancelled
  2 - Command error (file not found, database error, etc.)

Examples:
  kanren query family.yaml
  kanren query peano.yaml --limit 10
  kanren query reach.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of answers (overrides the program limit)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "cancel the search after this duration")

	return cmd
}

func runQuery(opts *QueryOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Limit < 0 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, fmt.Sprintf("--limit must be >= 0, got %d", opts.Limit), nil)
	}

	p, err := compiler.LoadFile(path)
	if err != nil {
		code, _ := loadErrorCode(err)
		return formatter.Fail(ExitCommandError, code, "failed to load program", err)
	}

	if errs := compiler.Validate(p); len(errs) > 0 {
		return outputValidation(formatter, ValidationResult{
			Files: []FileResult{{Path: path, Errors: errs}},
		})
	}
	for _, w := range compiler.AnalyzeRecursion(p) {
		formatter.VerboseLog("%s: %s", w.Level, w.Message)
	}

	ctx, cancel := queryContext(cmd.Context(), opts.Timeout)
	defer cancel()

	c, err := compiler.CompileProgram(ctx, p, filepath.Dir(path))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeCompile, "failed to compile program", err)
	}
	formatter.VerboseLog("goal: %s", c.Describe())

	limit := c.Limit(opts.Limit)
	answers, err := c.Solve(ctx, limit)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return formatter.Fail(ExitFailure, ErrCodeSolve, fmt.Sprintf("search timed out after %s", opts.Timeout), nil)
		}
		return formatter.Fail(ExitFailure, ErrCodeSolve, "search failed", err)
	}

	hash, err := ir.AnswersHash(answers)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeSolve, "failed to hash answers", err)
	}

	result := QueryResult{
		Program: p.Name,
		Query:   p.Query,
		Limit:   limit,
		Count:   len(answers),
		Answers: answers,
		Hash:    hash,
	}
	if result.Query == nil {
		result.Query = []string{}
	}

	if opts.Format == "json" {
		runIDs := opts.RunIDs
		if runIDs == nil {
			runIDs = UUIDv7Generator{}
		}
		return formatter.JSON(CLIResponse{
			Status: "ok",
			Data:   result,
			RunID:  runIDs.Generate(),
		})
	}

	return outputQueryText(formatter, result)
}

// queryContext returns a context cancelled by SIGINT/SIGTERM and, when
// timeout is positive, by the deadline.
func queryContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	// Use command's context if available (for testing), otherwise create one
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func outputQueryText(formatter *OutputFormatter, result QueryResult) error {
	w := formatter.Writer

	if result.Count == 0 {
		fmt.Fprintf(w, "%s: no answers\n", result.Program)
		return nil
	}

	fmt.Fprintf(w, "%s: %d answer(s)\n", result.Program, result.Count)
	for _, answer := range result.Answers {
		if len(answer) == 0 {
			fmt.Fprintln(w, "  yes")
			continue
		}
		parts := make([]string, len(answer))
		for i, val := range answer {
			parts[i] = fmt.Sprintf("%s = %s", result.Query[i], ir.MustMarshalCanonical(val))
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(parts, ", "))
	}
	formatter.VerboseLog("answers hash: %s", result.Hash)
	return nil
}
