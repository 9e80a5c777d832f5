package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/kanren/internal/ir"
	"github.com/roach88/kanren/internal/term"
)

// Validation error codes (E201-E299)
const (
	ErrNameRequired    = "E201" // program or rule name is required
	ErrInvalidQueryVar = "E202" // query entry is not a named variable, or repeats
	ErrGoalShape       = "E203" // goal node must set exactly one kind
	ErrTermCount       = "E204" // unify, subset, superset take two terms
	ErrGoalCount       = "E205" // both, either take two goals
	ErrUnknownRelation = "E206" // relation has no inline facts and no database
	ErrUnknownRule     = "E207" // call names an undefined rule
	ErrArityMismatch   = "E208" // argument count differs from relation or rule
	ErrInvalidTerm     = "E209" // null, float, or malformed lmap literal
	ErrDuplicateRule   = "E210" // rule defined twice
	ErrInvalidParam    = "E211" // rule parameter is not a named variable, or repeats
	ErrNegativeLimit   = "E212" // limit below zero
	ErrExpectWidth     = "E213" // expected answer width differs from query
	ErrNotGround       = "E214" // fact or expect row contains a variable
	ErrRowWidth        = "E215" // fact rows of one relation differ in width
)

// ValidationError represents a program validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is returned by Compile when a program is invalid.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation error(s): %s", len(errs), strings.Join(msgs, "; "))
}

// Validate checks a program statically.
// Returns all errors found (does not fail-fast).
func Validate(p *ir.Program) []ValidationError {
	v := &validator{
		arity: make(map[string]int),
		rules: make(map[string]int),
	}
	v.program(p)
	return v.errs
}

type validator struct {
	errs     []ValidationError
	arity    map[string]int // inline relation name -> row width
	rules    map[string]int // rule name -> param count
	external bool           // relations may come from the database
}

func (v *validator) add(code, field, format string, args ...any) {
	v.errs = append(v.errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...), Code: code})
}

func (v *validator) program(p *ir.Program) {
	v.external = p.Database != ""

	if strings.TrimSpace(p.Name) == "" {
		v.add(ErrNameRequired, "name", "name is required")
	}
	if p.Limit < 0 {
		v.add(ErrNegativeLimit, "limit", "limit must be >= 0, got %d", p.Limit)
	}

	seen := make(map[string]bool)
	for i, q := range p.Query {
		field := fmt.Sprintf("query[%d]", i)
		switch {
		case !ir.IsVar(q) || q == ir.AnonymousVar:
			v.add(ErrInvalidQueryVar, field, "must be a named variable like ?x, got %q", q)
		case seen[q]:
			v.add(ErrInvalidQueryVar, field, "variable %s listed twice", q)
		}
		seen[q] = true
	}

	v.facts(p.Facts)
	v.declareRules(p.Rules)

	for i := range p.Rules {
		v.goal(fmt.Sprintf("rules[%d].body", i), &p.Rules[i].Body)
	}
	v.goal("goal", &p.Goal)

	for i, row := range p.Expect {
		field := fmt.Sprintf("expect[%d]", i)
		if len(row) != len(p.Query) {
			v.add(ErrExpectWidth, field, "answer has %d values, query has %d variables", len(row), len(p.Query))
		}
		v.groundRow(field, row)
	}
}

func (v *validator) facts(facts map[string][][]any) {
	names := make([]string, 0, len(facts))
	for name := range facts {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		rows := facts[name]
		field := "facts." + name
		if strings.TrimSpace(name) == "" {
			v.add(ErrNameRequired, "facts", "relation name is required")
			continue
		}
		v.arity[name] = -1
		for i, row := range rows {
			rowField := fmt.Sprintf("%s[%d]", field, i)
			v.groundRow(rowField, row)
			switch width := v.arity[name]; {
			case width < 0:
				v.arity[name] = len(row)
			case width != len(row):
				v.add(ErrRowWidth, rowField, "row has %d values, relation %s has %d", len(row), name, width)
			}
		}
	}
}

func (v *validator) declareRules(rules []ir.Rule) {
	for i, r := range rules {
		field := fmt.Sprintf("rules[%d]", i)
		if strings.TrimSpace(r.Name) == "" {
			v.add(ErrNameRequired, field+".name", "rule name is required")
			continue
		}
		if _, dup := v.rules[r.Name]; dup {
			v.add(ErrDuplicateRule, field+".name", "rule %s is already defined", r.Name)
			continue
		}
		v.rules[r.Name] = len(r.Params)

		seen := make(map[string]bool)
		for j, param := range r.Params {
			paramField := fmt.Sprintf("%s.params[%d]", field, j)
			switch {
			case !ir.IsVar(param) || param == ir.AnonymousVar:
				v.add(ErrInvalidParam, paramField, "must be a named variable like ?x, got %q", param)
			case seen[param]:
				v.add(ErrInvalidParam, paramField, "parameter %s listed twice", param)
			}
			seen[param] = true
		}
	}
}

func (v *validator) goal(field string, g *ir.GoalSpec) {
	kinds := g.Kinds()
	if len(kinds) != 1 {
		if len(kinds) == 0 {
			v.add(ErrGoalShape, field, "goal must set exactly one kind, got none")
		} else {
			v.add(ErrGoalShape, field, "goal must set exactly one kind, got %s", strings.Join(kinds, ", "))
		}
		return
	}

	kind := kinds[0]
	field = field + "." + kind
	switch kind {
	case ir.GoalSucceed, ir.GoalFail:
	case ir.GoalUnify:
		v.terms(field, g.Unify)
	case ir.GoalSubset:
		v.terms(field, g.Subset)
	case ir.GoalSuperset:
		v.terms(field, g.Superset)
	case ir.GoalBoth, ir.GoalEither:
		if n := len(g.Children()); n != 2 {
			v.add(ErrGoalCount, field, "%s takes two goals, got %d", kind, n)
		}
		v.children(field, g.Children())
	case ir.GoalAll, ir.GoalAny:
		v.children(field, g.Children())
	case ir.GoalNot:
		v.goal(field, g.Not)
	case ir.GoalFact:
		v.fact(field, g.Fact)
	case ir.GoalCall:
		v.call(field, g.Call)
	}
}

func (v *validator) children(field string, goals []ir.GoalSpec) {
	for i := range goals {
		v.goal(fmt.Sprintf("%s[%d]", field, i), &goals[i])
	}
}

func (v *validator) terms(field string, terms []any) {
	if len(terms) != 2 {
		v.add(ErrTermCount, field, "takes two terms, got %d", len(terms))
	}
	v.args(field, terms)
}

func (v *validator) fact(field string, f *ir.FactSpec) {
	v.args(field+".args", f.Args)
	if f.Relation == "" {
		v.add(ErrUnknownRelation, field+".relation", "relation is required")
		return
	}
	width, ok := v.arity[f.Relation]
	switch {
	case !ok && !v.external:
		v.add(ErrUnknownRelation, field+".relation", "relation %s has no facts and the program has no database", f.Relation)
	case ok && width >= 0 && width != len(f.Args):
		v.add(ErrArityMismatch, field+".args", "relation %s has %d columns, got %d args", f.Relation, width, len(f.Args))
	}
}

func (v *validator) call(field string, c *ir.CallSpec) {
	v.args(field+".args", c.Args)
	params, ok := v.rules[c.Rule]
	if !ok {
		v.add(ErrUnknownRule, field+".rule", "rule %q is not defined", c.Rule)
		return
	}
	if params != len(c.Args) {
		v.add(ErrArityMismatch, field+".args", "rule %s takes %d args, got %d", c.Rule, params, len(c.Args))
	}
}

func (v *validator) args(field string, args []any) {
	for i, arg := range args {
		v.term(fmt.Sprintf("%s[%d]", field, i), arg, false)
	}
}

func (v *validator) groundRow(field string, row []any) {
	for i, val := range row {
		v.term(fmt.Sprintf("%s[%d]", field, i), val, true)
	}
}

// term reports malformed terms, and variables when ground is set.
func (v *validator) term(field string, raw any, ground bool) {
	val, err := ir.FromAny(raw)
	if err != nil {
		v.add(ErrInvalidTerm, field, "%v", err)
		return
	}
	if err := checkTerm(val); err != nil {
		v.add(ErrInvalidTerm, field, "%v", err)
		return
	}
	if ground && !isGround(val) {
		v.add(ErrNotGround, field, "must not contain variables")
	}
}

// checkTerm verifies that every object in val is an lmap literal.
func checkTerm(val ir.IRValue) error {
	switch val := val.(type) {
	case ir.IRArray:
		for i, item := range val {
			if err := checkTerm(item); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
	case ir.IRObject:
		pairs, err := term.MapPairs(val)
		if err != nil {
			return err
		}
		for i, pair := range pairs {
			if err := checkTerm(pair); err != nil {
				return fmt.Errorf("%s[%d]: %w", term.MapKey, i, err)
			}
		}
	}
	return nil
}

func isGround(val ir.IRValue) bool {
	switch val := val.(type) {
	case ir.IRString:
		return !ir.IsVar(val)
	case ir.IRArray:
		for _, item := range val {
			if !isGround(item) {
				return false
			}
		}
	case ir.IRObject:
		for _, item := range val {
			if !isGround(item) {
				return false
			}
		}
	}
	return true
}

// CheckFactRow reports whether row can be stored as a fact: every object
// must be an lmap literal and no string may be a query variable.
func CheckFactRow(row ir.IRArray) error {
	if err := checkTerm(row); err != nil {
		return err
	}
	if !isGround(row) {
		return fmt.Errorf("fact rows must be ground (no %q variables)", ir.VarPrefix)
	}
	return nil
}
