package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kanren/internal/compiler"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// FileResult is the validation outcome of one program file.
type FileResult struct {
	Path     string                      `json:"path"`
	Valid    bool                        `json:"valid"`
	Errors   []compiler.ValidationError  `json:"errors,omitempty"`
	Warnings []compiler.RecursionWarning `json:"warnings,omitempty"`
}

// ValidationResult holds the validation result for all files.
type ValidationResult struct {
	Valid bool         `json:"valid"`
	Files []FileResult `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <program-file>...",
		Short: "Validate program files",
		Long: `Load and validate program files without solving them.

Reports load errors (E1xx), validation errors (E2xx), and recursive rules.
Recursion in a program without a limit is reported as a warning.

Exit codes:
  0 - All files are valid
  1 - One or more files are invalid
  2 - Command error

Examples:
  kanren validate family.yaml
  kanren validate programs/*.cue --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	result := ValidationResult{Files: make([]FileResult, 0, len(paths))}
	for _, path := range paths {
		fr := validateFile(path)
		formatter.VerboseLog("validated %s: %d error(s), %d warning(s)", path, len(fr.Errors), len(fr.Warnings))
		result.Files = append(result.Files, fr)
	}

	return outputValidation(formatter, result)
}

// validateFile loads and validates one program file.
func validateFile(path string) FileResult {
	fr := FileResult{Path: path}

	p, err := compiler.LoadFile(path)
	if err != nil {
		code, line := loadErrorCode(err)
		fr.Errors = []compiler.ValidationError{{
			Field:   "load",
			Message: err.Error(),
			Code:    code,
			Line:    line,
		}}
		return fr
	}

	fr.Errors = compiler.Validate(p)
	if len(fr.Errors) == 0 {
		fr.Warnings = compiler.AnalyzeRecursion(p)
	}
	fr.Valid = len(fr.Errors) == 0
	return fr
}

// outputValidation reports file results and returns ExitFailure if any
// file is invalid.
func outputValidation(formatter *OutputFormatter, result ValidationResult) error {
	result.Valid = true
	invalid := 0
	for _, fr := range result.Files {
		if !fr.Valid {
			result.Valid = false
			invalid++
		}
	}

	if formatter.Format == "json" {
		response := CLIResponse{Status: "ok", Data: result}
		if !result.Valid {
			response.Status = "error"
			response.Error = firstValidationError(result)
		}
		if err := formatter.JSON(response); err != nil {
			return err
		}
	} else {
		printValidationText(formatter, result)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d file(s) invalid", invalid, len(result.Files)))
	}
	return nil
}

func firstValidationError(result ValidationResult) *CLIError {
	for _, fr := range result.Files {
		if len(fr.Errors) > 0 {
			e := fr.Errors[0]
			return &CLIError{
				Code:    e.Code,
				Message: fmt.Sprintf("%s: %s: %s", fr.Path, e.Field, e.Message),
			}
		}
	}
	return &CLIError{Code: ErrCodeGeneric, Message: "validation failed"}
}

func printValidationText(formatter *OutputFormatter, result ValidationResult) {
	w := formatter.Writer
	for _, fr := range result.Files {
		if !fr.Valid {
			fmt.Fprintf(w, "✗ %s\n", fr.Path)
			for _, e := range fr.Errors {
				fmt.Fprintf(w, "  %s\n", e.Error())
			}
			continue
		}
		fmt.Fprintf(w, "✓ %s\n", fr.Path)
		for _, warning := range fr.Warnings {
			if warning.Level == "warning" {
				fmt.Fprintf(w, "  warning: %s\n", warning.Message)
			} else {
				formatter.VerboseLog("  %s: %s", warning.Level, warning.Message)
			}
		}
	}
}
