package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/kanren/internal/ir"
)

// Snapshot captures the answers of a scenario for golden comparison.
type Snapshot struct {
	Name    string       `json:"name"`
	Query   []string     `json:"query"`
	Answers []ir.IRArray `json:"answers"`
	Hash    string       `json:"answers_hash"`
}

// NewSnapshot builds the snapshot of a scenario result.
func NewSnapshot(scenario *Scenario, result *Result) Snapshot {
	return Snapshot{
		Name:    scenario.Name(),
		Query:   scenario.Program.Query,
		Answers: result.Answers,
		Hash:    result.Hash,
	}
}

// Canonical serializes the snapshot as canonical JSON. Golden files hold
// exactly these bytes.
func (s Snapshot) Canonical() ([]byte, error) {
	query := make(ir.IRArray, len(s.Query))
	for i, q := range s.Query {
		query[i] = ir.IRString(q)
	}
	answers := make(ir.IRArray, len(s.Answers))
	for i, a := range s.Answers {
		answers[i] = a
	}
	return ir.MarshalCanonical(ir.IRObject{
		"name":         ir.IRString(s.Name),
		"query":        query,
		"answers":      answers,
		"answers_hash": ir.IRString(s.Hash),
	})
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file. The golden file is stored in testdata/golden/{name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the scenario's golden
// file without re-running it.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()

	data, err := NewSnapshot(scenario, result).Canonical()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name(), data)
	return nil
}
