package ir

import "strings"

// Program is a logic program loaded from a YAML or CUE file.
//
// Term positions hold the raw decoded value (string, int, bool, list, or
// {lmap: [[k, v], ...]}). Strings starting with "?" are variables.
type Program struct {
	// Name identifies the program in reports and golden files.
	Name string `yaml:"name" json:"name"`

	// Description explains what the program computes.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Limit caps the number of answers. Zero means all answers, which
	// never terminates for an infinite search.
	Limit int `yaml:"limit,omitempty" json:"limit,omitempty"`

	// Query lists the variables reported for each answer, in order.
	Query []string `yaml:"query" json:"query"`

	// Facts holds inline relations: relation name to rows of ground terms.
	Facts map[string][][]any `yaml:"facts,omitempty" json:"facts,omitempty"`

	// Database is an optional SQLite fact store, relative to the program file.
	Database string `yaml:"database,omitempty" json:"database,omitempty"`

	// Rules are named, parameterized goals callable with a call node.
	Rules []Rule `yaml:"rules,omitempty" json:"rules,omitempty"`

	// Goal is the query goal.
	Goal GoalSpec `yaml:"goal" json:"goal"`

	// Expect lists the expected answers in order. Nil means no expectation;
	// an empty list expects no answers.
	Expect [][]any `yaml:"expect,omitempty" json:"expect,omitempty"`
}

// Rule is a named relation defined by a goal over its parameters.
// Variables in Body that are not parameters are local to each call.
type Rule struct {
	Name   string   `yaml:"name" json:"name"`
	Params []string `yaml:"params" json:"params"`
	Body   GoalSpec `yaml:"body" json:"body"`
}

// GoalSpec is one goal node. Exactly one field must be set.
type GoalSpec struct {
	Succeed  bool       `yaml:"succeed,omitempty" json:"succeed,omitempty"`
	Fail     bool       `yaml:"fail,omitempty" json:"fail,omitempty"`
	Unify    []any      `yaml:"unify,omitempty" json:"unify,omitempty"`
	Both     []GoalSpec `yaml:"both,omitempty" json:"both,omitempty"`
	Either   []GoalSpec `yaml:"either,omitempty" json:"either,omitempty"`
	All      []GoalSpec `yaml:"all,omitempty" json:"all,omitempty"`
	Any      []GoalSpec `yaml:"any,omitempty" json:"any,omitempty"`
	Not      *GoalSpec  `yaml:"not,omitempty" json:"not,omitempty"`
	Fact     *FactSpec  `yaml:"fact,omitempty" json:"fact,omitempty"`
	Call     *CallSpec  `yaml:"call,omitempty" json:"call,omitempty"`
	Subset   []any      `yaml:"subset,omitempty" json:"subset,omitempty"`
	Superset []any      `yaml:"superset,omitempty" json:"superset,omitempty"`
}

// FactSpec matches args against the rows of a relation.
type FactSpec struct {
	Relation string `yaml:"relation" json:"relation"`
	Args     []any  `yaml:"args" json:"args"`
}

// CallSpec invokes a rule.
type CallSpec struct {
	Rule string `yaml:"rule" json:"rule"`
	Args []any  `yaml:"args" json:"args"`
}

// Goal node kinds.
const (
	GoalSucceed  = "succeed"
	GoalFail     = "fail"
	GoalUnify    = "unify"
	GoalBoth     = "both"
	GoalEither   = "either"
	GoalAll      = "all"
	GoalAny      = "any"
	GoalNot      = "not"
	GoalFact     = "fact"
	GoalCall     = "call"
	GoalSubset   = "subset"
	GoalSuperset = "superset"
)

// Kinds returns the node kinds set on g, in declaration order.
// A well-formed node has exactly one.
func (g *GoalSpec) Kinds() []string {
	var kinds []string
	add := func(set bool, kind string) {
		if set {
			kinds = append(kinds, kind)
		}
	}
	add(g.Succeed, GoalSucceed)
	add(g.Fail, GoalFail)
	add(g.Unify != nil, GoalUnify)
	add(g.Both != nil, GoalBoth)
	add(g.Either != nil, GoalEither)
	add(g.All != nil, GoalAll)
	add(g.Any != nil, GoalAny)
	add(g.Not != nil, GoalNot)
	add(g.Fact != nil, GoalFact)
	add(g.Call != nil, GoalCall)
	add(g.Subset != nil, GoalSubset)
	add(g.Superset != nil, GoalSuperset)
	return kinds
}

// Kind returns the single node kind, or "" if zero or several are set.
func (g *GoalSpec) Kind() string {
	kinds := g.Kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Children returns the sub-goals of a composite node.
func (g *GoalSpec) Children() []GoalSpec {
	switch {
	case g.Both != nil:
		return g.Both
	case g.Either != nil:
		return g.Either
	case g.All != nil:
		return g.All
	case g.Any != nil:
		return g.Any
	case g.Not != nil:
		return []GoalSpec{*g.Not}
	}
	return nil
}

// Variable prefix and the anonymous variable.
const (
	VarPrefix    = "?"
	AnonymousVar = "?_"
)

// IsVar reports whether a term is a variable reference: a string (raw or
// IRString) of the form "?name".
func IsVar(v any) bool {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case IRString:
		s = string(val)
	default:
		return false
	}
	return len(s) > len(VarPrefix) && strings.HasPrefix(s, VarPrefix)
}
