package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/roach88/kanren/internal/goal"
	"github.com/roach88/kanren/internal/ir"
	"github.com/roach88/kanren/internal/lmap"
	"github.com/roach88/kanren/internal/logic"
	"github.com/roach88/kanren/internal/store"
	"github.com/roach88/kanren/internal/term"
)

// FactSource supplies relation rows that are not given inline.
// *store.Store implements it.
type FactSource interface {
	Relation(ctx context.Context, name string) ([]ir.IRArray, error)
}

// Compiled is a validated program ready to run. It is immutable; each
// Solve builds its goal with fresh variables.
type Compiled struct {
	program   *ir.Program
	rules     map[string]*compiledRule
	relations map[string][]logic.Val[term.Term]
	root      goalFn
}

type compiledRule struct {
	params []string
	body   goalFn
}

// scope holds the variables of one goal instantiation: the query goal of
// one Solve, or one rule call.
type scope struct {
	ctx  context.Context
	vars map[string]logic.Val[term.Term]
}

func newScope(ctx context.Context) *scope {
	return &scope{ctx: ctx, vars: make(map[string]logic.Val[term.Term])}
}

// lookup returns the variable bound to name, creating it on first use.
func (sc *scope) lookup(name string) logic.Val[term.Term] {
	if v, ok := sc.vars[name]; ok {
		return v
	}
	v := term.Var()
	sc.vars[name] = v
	return v
}

type (
	goalFn func(*scope) goal.Goal
	termFn func(*scope) logic.Val[term.Term]
)

// Program returns the source program.
func (c *Compiled) Program() *ir.Program {
	return c.program
}

// Compile validates p and compiles it. Relations used by the program that
// have no inline facts are loaded from facts once, in full.
func Compile(ctx context.Context, p *ir.Program, facts FactSource) (*Compiled, error) {
	if errs := Validate(p); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	c := &Compiled{
		program:   p,
		rules:     make(map[string]*compiledRule, len(p.Rules)),
		relations: make(map[string][]logic.Val[term.Term]),
	}
	if err := c.loadRelations(ctx, facts); err != nil {
		return nil, err
	}

	for i := range p.Rules {
		r := &p.Rules[i]
		body, err := c.compileGoal(&r.Body)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", r.Name, err)
		}
		c.rules[r.Name] = &compiledRule{params: r.Params, body: body}
	}

	root, err := c.compileGoal(&p.Goal)
	if err != nil {
		return nil, fmt.Errorf("goal: %w", err)
	}
	c.root = root
	return c, nil
}

// CompileFile loads, validates, and compiles a program file.
func CompileFile(ctx context.Context, path string) (*Compiled, error) {
	p, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return CompileProgram(ctx, p, filepath.Dir(path))
}

// CompileProgram compiles p, loading facts from its database when it names
// one. A relative database path is resolved against baseDir. The database
// is opened only for loading and closed before returning.
func CompileProgram(ctx context.Context, p *ir.Program, baseDir string) (*Compiled, error) {
	if p.Database == "" {
		return Compile(ctx, p, nil)
	}

	dbPath := p.Database
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(baseDir, dbPath)
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("fact store: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open fact store: %w", err)
	}
	defer st.Close()
	return Compile(ctx, p, st)
}

func (c *Compiled) loadRelations(ctx context.Context, facts FactSource) error {
	for name, rows := range c.program.Facts {
		vals := make([]logic.Val[term.Term], len(rows))
		for i, row := range rows {
			val, err := groundRow(row)
			if err != nil {
				return fmt.Errorf("facts.%s[%d]: %w", name, i, err)
			}
			vals[i] = val
		}
		c.relations[name] = vals
	}

	for _, name := range referencedRelations(c.program) {
		if _, ok := c.relations[name]; ok {
			continue
		}
		if facts == nil {
			return fmt.Errorf("relation %s: no fact source", name)
		}
		rows, err := facts.Relation(ctx, name)
		if err != nil {
			return fmt.Errorf("load relation %s: %w", name, err)
		}
		vals := make([]logic.Val[term.Term], len(rows))
		for i, row := range rows {
			val, err := term.FromIR(row)
			if err != nil {
				return fmt.Errorf("relation %s row %d: %w", name, i, err)
			}
			vals[i] = val
		}
		c.relations[name] = vals
	}
	return nil
}

func groundRow(row []any) (logic.Val[term.Term], error) {
	val, err := ir.FromAny(row)
	if err != nil {
		return logic.Val[term.Term]{}, err
	}
	return term.FromIR(val)
}

// referencedRelations lists relation names used by fact nodes, sorted.
func referencedRelations(p *ir.Program) []string {
	var names []string
	var walk func(g *ir.GoalSpec)
	walk = func(g *ir.GoalSpec) {
		if g.Fact != nil && !slices.Contains(names, g.Fact.Relation) {
			names = append(names, g.Fact.Relation)
		}
		children := g.Children()
		for i := range children {
			walk(&children[i])
		}
	}
	for i := range p.Rules {
		walk(&p.Rules[i].Body)
	}
	walk(&p.Goal)
	slices.Sort(names)
	return names
}

func (c *Compiled) compileGoal(g *ir.GoalSpec) (goalFn, error) {
	switch g.Kind() {
	case ir.GoalSucceed:
		return func(*scope) goal.Goal { return goal.Succeed() }, nil
	case ir.GoalFail:
		return func(*scope) goal.Goal { return goal.Fail() }, nil
	case ir.GoalUnify:
		return compileBinary(g.Unify, goal.Unify[term.Term])
	case ir.GoalSubset:
		return compileBinary(g.Subset, term.Subset)
	case ir.GoalSuperset:
		return compileBinary(g.Superset, term.Superset)
	case ir.GoalBoth, ir.GoalAll:
		return c.compileGroup(g.Children(), goal.All)
	case ir.GoalEither, ir.GoalAny:
		return c.compileGroup(g.Children(), goal.Any)
	case ir.GoalNot:
		inner, err := c.compileGoal(g.Not)
		if err != nil {
			return nil, err
		}
		return func(sc *scope) goal.Goal { return goal.Not(inner(sc)) }, nil
	case ir.GoalFact:
		return c.compileFact(g.Fact)
	case ir.GoalCall:
		return c.compileCall(g.Call)
	default:
		return nil, fmt.Errorf("goal must set exactly one kind, got %v", g.Kinds())
	}
}

func compileBinary(raw []any, build func(a, b logic.Val[term.Term]) goal.Goal) (goalFn, error) {
	args, err := compileTerms(raw)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, fmt.Errorf("want two terms, got %d", len(args))
	}
	return func(sc *scope) goal.Goal {
		return build(args[0](sc), args[1](sc))
	}, nil
}

func (c *Compiled) compileGroup(children []ir.GoalSpec, combine func(...goal.Goal) goal.Goal) (goalFn, error) {
	fns := make([]goalFn, len(children))
	for i := range children {
		fn, err := c.compileGoal(&children[i])
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		fns[i] = fn
	}
	return func(sc *scope) goal.Goal {
		goals := make([]goal.Goal, len(fns))
		for i, fn := range fns {
			goals[i] = fn(sc)
		}
		return combine(goals...)
	}, nil
}

// compileFact matches the argument list against each row, in row order.
func (c *Compiled) compileFact(f *ir.FactSpec) (goalFn, error) {
	args, err := compileTerms(f.Args)
	if err != nil {
		return nil, err
	}
	rows := c.relations[f.Relation]
	return func(sc *scope) goal.Goal {
		tuple := term.L(instantiate(args, sc)...)
		goals := make([]goal.Goal, len(rows))
		for i, row := range rows {
			goals[i] = goal.Unify(tuple, row)
		}
		return goal.Any(goals...)
	}, nil
}

// compileCall defers the rule body until the call is evaluated, so
// recursive rules unfold one step at a time. Each evaluation gets fresh
// rule-local variables.
func (c *Compiled) compileCall(call *ir.CallSpec) (goalFn, error) {
	args, err := compileTerms(call.Args)
	if err != nil {
		return nil, err
	}
	name := call.Rule
	return func(sc *scope) goal.Goal {
		actual := term.L(instantiate(args, sc)...)
		return goal.Lazy(func(*logic.State) goal.Goal {
			if sc.ctx.Err() != nil {
				return goal.Fail()
			}
			rule := c.rules[name]
			local := newScope(sc.ctx)
			params := make([]logic.Val[term.Term], len(rule.params))
			for i, p := range rule.params {
				params[i] = local.lookup(p)
			}
			return goal.Both(goal.Unify(term.L(params...), actual), rule.body(local))
		})
	}, nil
}

func instantiate(fns []termFn, sc *scope) []logic.Val[term.Term] {
	vals := make([]logic.Val[term.Term], len(fns))
	for i, fn := range fns {
		vals[i] = fn(sc)
	}
	return vals
}

func compileTerms(raw []any) ([]termFn, error) {
	fns := make([]termFn, len(raw))
	for i, r := range raw {
		val, err := ir.FromAny(r)
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", i, err)
		}
		fn, err := compileTerm(val)
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", i, err)
		}
		fns[i] = fn
	}
	return fns, nil
}

// compileTerm builds a term template. Ground subterms are converted once
// and shared; "?_" yields a new variable at every instantiation.
func compileTerm(val ir.IRValue) (termFn, error) {
	if isGround(val) {
		t, err := term.FromIR(val)
		if err != nil {
			return nil, err
		}
		return func(*scope) logic.Val[term.Term] { return t }, nil
	}

	switch val := val.(type) {
	case ir.IRString:
		name := string(val)
		if name == ir.AnonymousVar {
			return func(*scope) logic.Val[term.Term] { return term.Var() }, nil
		}
		return func(sc *scope) logic.Val[term.Term] { return sc.lookup(name) }, nil
	case ir.IRArray:
		items := make([]termFn, len(val))
		for i, item := range val {
			fn, err := compileTerm(item)
			if err != nil {
				return nil, fmt.Errorf("list[%d]: %w", i, err)
			}
			items[i] = fn
		}
		return func(sc *scope) logic.Val[term.Term] {
			return term.L(instantiate(items, sc)...)
		}, nil
	case ir.IRObject:
		pairs, err := term.MapPairs(val)
		if err != nil {
			return nil, err
		}
		keys := make([]termFn, len(pairs))
		values := make([]termFn, len(pairs))
		for i, pair := range pairs {
			if keys[i], err = compileTerm(pair[0]); err != nil {
				return nil, fmt.Errorf("%s[%d] key: %w", term.MapKey, i, err)
			}
			if values[i], err = compileTerm(pair[1]); err != nil {
				return nil, fmt.Errorf("%s[%d] value: %w", term.MapKey, i, err)
			}
		}
		return func(sc *scope) logic.Val[term.Term] {
			entries := make([]lmap.Entry[term.Term, term.Term], len(keys))
			for i := range keys {
				entries[i] = lmap.E(keys[i](sc), values[i](sc))
			}
			return term.M(entries...)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported term %T", val)
	}
}
