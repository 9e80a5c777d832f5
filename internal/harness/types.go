package harness

import "github.com/roach88/kanren/internal/ir"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every check succeeded.
	Pass bool `json:"pass"`

	// Answers holds the answers of the first run, in search order.
	Answers []ir.IRArray `json:"answers"`

	// Hash is the answers hash of the first run.
	Hash string `json:"answers_hash"`

	// Errors contains check failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Warnings contains static analysis findings that do not fail the run.
	Warnings []string `json:"warnings,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Answers: []ir.IRArray{},
		Errors:  []string{},
	}
}

// AddError adds a check failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddWarning records a finding without failing the result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}
