package compiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/kanren/internal/ir"
)

// RecursionWarning reports a group of rules that call each other.
//
// Recursion is a warning, not an error: it is how relations like ancestor
// are written. Without a limit, a recursive program over cyclic data or
// with a left-recursive rule may never finish.
type RecursionWarning struct {
	Path    []string `json:"path"`    // Call path: ["ancestor", "ancestor"]
	Message string   `json:"message"` // Human-readable description
	Level   string   `json:"level"`   // "warning" or "info"
}

// AnalyzeRecursion finds recursive rules.
//
// It builds the rule call graph from call nodes in rule bodies and reports
// every strongly connected component that is a cycle: more than one rule,
// or one rule calling itself. The level is "info" when the program sets a
// limit and "warning" when it does not.
//
// Rules are visited in declaration order, so the result is deterministic.
func AnalyzeRecursion(p *ir.Program) []RecursionWarning {
	if len(p.Rules) == 0 {
		return []RecursionWarning{}
	}

	graph, order := buildCallGraph(p.Rules)
	level := "warning"
	if p.Limit > 0 {
		level = "info"
	}

	warnings := []RecursionWarning{}
	for _, scc := range tarjanSCC(graph, order) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			warnings = append(warnings, sccToWarning(scc, graph, level))
		}
	}
	return warnings
}

// callGraph maps rule name -> rules its body calls, in body order.
type callGraph map[string][]string

func buildCallGraph(rules []ir.Rule) (callGraph, []string) {
	graph := make(callGraph)
	order := make([]string, 0, len(rules))
	for _, r := range rules {
		if _, dup := graph[r.Name]; dup {
			continue
		}
		order = append(order, r.Name)
		graph[r.Name] = []string{}
	}
	for _, r := range rules {
		for _, callee := range calledRules(&r.Body) {
			if _, defined := graph[callee]; defined && !slices.Contains(graph[r.Name], callee) {
				graph[r.Name] = append(graph[r.Name], callee)
			}
		}
	}
	return graph, order
}

func calledRules(g *ir.GoalSpec) []string {
	var names []string
	if g.Call != nil {
		names = append(names, g.Call.Rule)
	}
	children := g.Children()
	for i := range children {
		names = append(names, calledRules(&children[i])...)
	}
	return names
}

func hasSelfLoop(node string, graph callGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Each SCC lists its rules in declaration order.
func tarjanSCC(graph callGraph, order []string) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range order {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	position := make(map[string]int, len(order))
	for i, name := range order {
		position[name] = i
	}
	for _, scc := range sccs {
		slices.SortFunc(scc, func(a, b string) int { return position[a] - position[b] })
	}
	slices.SortFunc(sccs, func(a, b []string) int { return position[a[0]] - position[b[0]] })
	return sccs
}

func sccToWarning(scc []string, graph callGraph, level string) RecursionWarning {
	if len(scc) == 1 {
		name := scc[0]
		return RecursionWarning{
			Path:    []string{name, name},
			Message: fmt.Sprintf("Recursive rule: %s calls itself", name),
			Level:   level,
		}
	}

	path := cyclePath(scc, graph)
	return RecursionWarning{
		Path:    path,
		Message: fmt.Sprintf("Mutually recursive rules: %s", strings.Join(path, " → ")),
		Level:   level,
	}
}

// cyclePath walks from the first rule of the SCC along edges inside the SCC
// until it returns to the start.
func cyclePath(scc []string, graph callGraph) []string {
	members := make(map[string]bool, len(scc))
	for _, name := range scc {
		members[name] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)
	for {
		visited[current] = true

		next := ""
		for _, callee := range graph[current] {
			if callee == start && len(path) > 1 {
				next = callee
				break
			}
			if members[callee] && !visited[callee] && next == "" {
				next = callee
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}
	return path
}
