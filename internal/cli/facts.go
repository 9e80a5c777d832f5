package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/kanren/internal/compiler"
	"github.com/roach88/kanren/internal/ir"
	"github.com/roach88/kanren/internal/store"
)

// FactsAddResult is the JSON payload of facts add.
type FactsAddResult struct {
	Relation string `json:"relation"`
	Added    int    `json:"added"`
	Total    int    `json:"total"`
}

// FactsListResult is the JSON payload of facts list for one relation.
type FactsListResult struct {
	Relation string       `json:"relation"`
	Rows     []ir.IRArray `json:"rows"`
}

// NewFactsCommand creates the facts command group.
func NewFactsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Manage SQLite fact stores",
		Long: `Add and list the facts a program loads through its database field.

Rows are JSON arrays. Objects must be lmap literals: {"lmap": [[k, v], ...]}.`,
	}

	cmd.AddCommand(newFactsAddCommand(rootOpts))
	cmd.AddCommand(newFactsListCommand(rootOpts))

	return cmd
}

func newFactsAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <db> <relation> <row-json>...",
		Short: "Add rows to a relation",
		Long: `Add rows to a relation, creating the database if needed.
Rows already stored are ignored. Either all rows are added or none.

Examples:
  kanren facts add family.db parent '["alice","bob"]' '["bob","carol"]'`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFactsAdd(rootOpts, args[0], args[1], args[2:], cmd)
		},
	}
}

func runFactsAdd(opts *RootOptions, dbPath, relation string, rowArgs []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	rows := make([]ir.IRArray, len(rowArgs))
	for i, arg := range rowArgs {
		row, err := parseRow(arg)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidArgs, fmt.Sprintf("row %d", i+1), err)
		}
		rows[i] = row
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open fact store", err)
	}
	defer s.Close()

	var added int
	if len(rows) == 1 {
		ok, err := s.AddFact(cmd.Context(), relation, rows[0])
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to add fact", err)
		}
		if ok {
			added = 1
		}
	} else {
		added, err = s.AddFacts(cmd.Context(), relation, rows)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to add facts", err)
		}
	}

	total, err := s.Count(cmd.Context(), relation)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to count facts", err)
	}

	if opts.Format == "json" {
		return formatter.Success(FactsAddResult{Relation: relation, Added: added, Total: total})
	}
	fmt.Fprintf(formatter.Writer, "added %d of %d row(s) to %s (%d total)\n", added, len(rows), relation, total)
	return nil
}

// parseRow decodes a command-line row argument.
func parseRow(arg string) (ir.IRArray, error) {
	v, err := ir.UnmarshalIRValue([]byte(arg))
	if err != nil {
		return nil, err
	}
	row, ok := v.(ir.IRArray)
	if !ok {
		return nil, fmt.Errorf("expected JSON array, got %s", ir.MustMarshalCanonical(v))
	}
	if err := compiler.CheckFactRow(row); err != nil {
		return nil, err
	}
	return row, nil
}

func newFactsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <db> [relation]",
		Short: "List relations or the rows of one relation",
		Long: `Without a relation, list every relation with its row count and arity.
With a relation, print its rows in insertion order.

Examples:
  kanren facts list family.db
  kanren facts list family.db parent --format json`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			relation := ""
			if len(args) == 2 {
				relation = args[1]
			}
			return runFactsList(rootOpts, args[0], relation, cmd)
		},
	}
}

func runFactsList(opts *RootOptions, dbPath, relation string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("fact store not found: %s", dbPath), nil)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open fact store", err)
	}
	defer s.Close()

	if relation == "" {
		infos, err := s.Relations(cmd.Context())
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list relations", err)
		}
		if opts.Format == "json" {
			return formatter.Success(infos)
		}
		if len(infos) == 0 {
			fmt.Fprintln(formatter.Writer, "No relations.")
			return nil
		}
		tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "RELATION\tROWS\tARITY")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%d\t%d\n", info.Name, info.Rows, info.Arity)
		}
		return tw.Flush()
	}

	rows, err := s.Relation(cmd.Context(), relation)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read relation", err)
	}
	if opts.Format == "json" {
		return formatter.Success(FactsListResult{Relation: relation, Rows: rows})
	}
	for _, row := range rows {
		fmt.Fprintln(formatter.Writer, string(ir.MustMarshalCanonical(row)))
	}
	return nil
}
