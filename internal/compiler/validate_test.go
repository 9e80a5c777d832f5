package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/kanren/internal/ir"
)

func mustParse(t *testing.T, src string) *ir.Program {
	t.Helper()
	p, err := ParseYAML([]byte(src))
	require.NoError(t, err)
	return p
}

func errorCodes(errs []ValidationError) []string {
	codes := make([]string, len(errs))
	for i, e := range errs {
		codes[i] = e.Code
	}
	return codes
}

func TestValidate_Valid(t *testing.T) {
	p := mustParse(t, `
name: grandparents
limit: 5
query: ["?x", "?y"]
facts:
  parent: [["alice", "bob"], ["bob", "carol"]]
rules:
  - name: grandparent
    params: ["?a", "?c"]
    body:
      all:
        - {fact: {relation: parent, args: ["?a", "?b"]}}
        - {fact: {relation: parent, args: ["?b", "?c"]}}
  - name: has_key
    params: ["?m", "?k"]
    body: {subset: [{lmap: [["?k", "?_"]]}, "?m"]}
goal:
  either:
    - {call: {rule: grandparent, args: ["?x", "?y"]}}
    - both:
        - {unify: ["?x", [1, true, "s"]]}
        - {not: {call: {rule: has_key, args: [{lmap: [[1, 2]]}, "?y"]}}}
expect: [["alice", "carol"]]
`)
	assert.Empty(t, Validate(p))
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		codes []string
		field string
	}{
		{
			name:  "missing name",
			src:   "goal: {succeed: true}",
			codes: []string{ErrNameRequired},
			field: "name",
		},
		{
			name:  "negative limit",
			src:   "name: x\nlimit: -1\ngoal: {succeed: true}",
			codes: []string{ErrNegativeLimit},
			field: "limit",
		},
		{
			name:  "query entry not a variable",
			src:   "name: x\nquery: [x]\ngoal: {succeed: true}",
			codes: []string{ErrInvalidQueryVar},
			field: "query[0]",
		},
		{
			name:  "anonymous query variable",
			src:   "name: x\nquery: [\"?_\"]\ngoal: {succeed: true}",
			codes: []string{ErrInvalidQueryVar},
			field: "query[0]",
		},
		{
			name:  "duplicate query variable",
			src:   "name: x\nquery: [\"?a\", \"?a\"]\ngoal: {succeed: true}",
			codes: []string{ErrInvalidQueryVar},
			field: "query[1]",
		},
		{
			name:  "empty goal",
			src:   "name: x",
			codes: []string{ErrGoalShape},
			field: "goal",
		},
		{
			name:  "two kinds in one node",
			src:   "name: x\ngoal: {succeed: true, fail: true}",
			codes: []string{ErrGoalShape},
			field: "goal",
		},
		{
			name:  "unify with three terms",
			src:   "name: x\ngoal: {unify: [1, 2, 3]}",
			codes: []string{ErrTermCount},
			field: "goal.unify",
		},
		{
			name:  "subset with one term",
			src:   "name: x\ngoal: {subset: [\"?m\"]}",
			codes: []string{ErrTermCount},
			field: "goal.subset",
		},
		{
			name:  "both with one goal",
			src:   "name: x\ngoal: {both: [{succeed: true}]}",
			codes: []string{ErrGoalCount},
			field: "goal.both",
		},
		{
			name:  "nested error path",
			src:   "name: x\ngoal: {all: [{succeed: true}, {not: {either: [{fail: true}, {}]}}]}",
			codes: []string{ErrGoalShape},
			field: "goal.all[1].not.either[1]",
		},
		{
			name:  "unknown relation without database",
			src:   "name: x\ngoal: {fact: {relation: edge, args: [1, 2]}}",
			codes: []string{ErrUnknownRelation},
			field: "goal.fact.relation",
		},
		{
			name:  "fact arity",
			src:   "name: x\nfacts: {edge: [[1, 2]]}\ngoal: {fact: {relation: edge, args: [1]}}",
			codes: []string{ErrArityMismatch},
			field: "goal.fact.args",
		},
		{
			name:  "unknown rule",
			src:   "name: x\ngoal: {call: {rule: nope, args: []}}",
			codes: []string{ErrUnknownRule},
			field: "goal.call.rule",
		},
		{
			name:  "rule arity",
			src:   "name: x\nrules: [{name: r, params: [\"?a\"], body: {succeed: true}}]\ngoal: {call: {rule: r, args: [1, 2]}}",
			codes: []string{ErrArityMismatch},
			field: "goal.call.args",
		},
		{
			name:  "float term",
			src:   "name: x\ngoal: {unify: [\"?x\", 1.5]}",
			codes: []string{ErrInvalidTerm},
			field: "goal.unify[1]",
		},
		{
			name:  "null term",
			src:   "name: x\ngoal: {unify: [\"?x\", null]}",
			codes: []string{ErrInvalidTerm},
			field: "goal.unify[1]",
		},
		{
			name:  "object that is not an lmap",
			src:   "name: x\ngoal: {unify: [\"?x\", {a: 1}]}",
			codes: []string{ErrInvalidTerm},
			field: "goal.unify[1]",
		},
		{
			name:  "lmap entry that is not a pair",
			src:   "name: x\ngoal: {unify: [\"?x\", [{lmap: [[1, 2, 3]]}]]}",
			codes: []string{ErrInvalidTerm},
			field: "goal.unify[1]",
		},
		{
			name:  "duplicate rule",
			src:   "name: x\nrules: [{name: r, params: [], body: {succeed: true}}, {name: r, params: [], body: {fail: true}}]\ngoal: {succeed: true}",
			codes: []string{ErrDuplicateRule},
			field: "rules[1].name",
		},
		{
			name:  "rule without name",
			src:   "name: x\nrules: [{params: [], body: {succeed: true}}]\ngoal: {succeed: true}",
			codes: []string{ErrNameRequired},
			field: "rules[0].name",
		},
		{
			name:  "parameter not a variable",
			src:   "name: x\nrules: [{name: r, params: [a], body: {succeed: true}}]\ngoal: {succeed: true}",
			codes: []string{ErrInvalidParam},
			field: "rules[0].params[0]",
		},
		{
			name:  "duplicate parameter",
			src:   "name: x\nrules: [{name: r, params: [\"?a\", \"?a\"], body: {succeed: true}}]\ngoal: {succeed: true}",
			codes: []string{ErrInvalidParam},
			field: "rules[0].params[1]",
		},
		{
			name:  "expect width",
			src:   "name: x\nquery: [\"?a\"]\ngoal: {succeed: true}\nexpect: [[1, 2]]",
			codes: []string{ErrExpectWidth},
			field: "expect[0]",
		},
		{
			name:  "variable in expect",
			src:   "name: x\nquery: [\"?a\"]\ngoal: {succeed: true}\nexpect: [[\"?a\"]]",
			codes: []string{ErrNotGround},
			field: "expect[0][0]",
		},
		{
			name:  "variable in fact row",
			src:   "name: x\nfacts: {edge: [[1, \"?b\"]]}\ngoal: {succeed: true}",
			codes: []string{ErrNotGround},
			field: "facts.edge[0][1]",
		},
		{
			name:  "ragged fact rows",
			src:   "name: x\nfacts: {edge: [[1, 2], [3]]}\ngoal: {succeed: true}",
			codes: []string{ErrRowWidth},
			field: "facts.edge[1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(mustParse(t, tt.src))
			require.Equal(t, tt.codes, errorCodes(errs), "errors: %v", errs)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestValidate_DatabaseRelations(t *testing.T) {
	p := mustParse(t, "name: x\ndatabase: facts.db\ngoal: {fact: {relation: edge, args: [1, 2]}}")
	assert.Empty(t, Validate(p))
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	p := mustParse(t, `
limit: -2
query: [x]
goal: {both: [{unify: [1]}, {call: {rule: missing, args: []}}]}
`)
	errs := Validate(p)
	assert.Equal(t,
		[]string{ErrNameRequired, ErrNegativeLimit, ErrInvalidQueryVar, ErrTermCount, ErrUnknownRule},
		errorCodes(errs))
}

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{Field: "goal.unify", Message: "takes two terms, got 1", Code: ErrTermCount}
	assert.Equal(t, "[E204] goal.unify: takes two terms, got 1", err.Error())

	err.Line = 7
	assert.Equal(t, "[E204] line 7: goal.unify: takes two terms, got 1", err.Error())

	errs := ValidationErrors{err}
	assert.Contains(t, errs.Error(), "1 validation error(s)")
}
