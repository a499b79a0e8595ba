// Package query evaluates parameterized basic graph patterns over a graph and
// provides the component and property listings a report is built from.
//
// Values are bound as parameters at execution time and never spliced into
// query text, so a subject IRI cannot change the shape of a query.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/semdoc/graph"
)

type nodeKind int

const (
	nodeVar nodeKind = iota + 1
	nodeTerm
	nodeParam
)

// Node is one position of a pattern: a variable, a constant term or a named
// parameter.
type Node struct {
	kind nodeKind
	name string
	term graph.Term
}

// V returns a variable node.
func V(name string) Node { return Node{kind: nodeVar, name: name} }

// C returns a constant node.
func C(t graph.Term) Node { return Node{kind: nodeTerm, term: t} }

// Param returns a node bound from the execution parameters.
func Param(name string) Node { return Node{kind: nodeParam, name: name} }

func (n Node) String() string {
	switch n.kind {
	case nodeVar:
		return "?" + n.name
	case nodeParam:
		return "$" + n.name
	default:
		return n.term.NTriples()
	}
}

// Pattern is a triple pattern.
type Pattern struct {
	S, P, O Node
}

func (p Pattern) String() string {
	return p.S.String() + " " + p.P.String() + " " + p.O.String()
}

// Exclusion drops solutions in which Var is bound to one of Values.
type Exclusion struct {
	Var    string
	Values []graph.Term
}

// Query is a basic graph pattern with optional left-joined groups.
type Query struct {
	// Name identifies the query in errors.
	Name string

	Where []Pattern

	// Optional groups are left-joined in order. A group that matches in
	// several ways multiplies the solution.
	Optional [][]Pattern

	Exclude []Exclusion

	Select   []string
	Distinct bool

	// OrderBy lists selected variables. Unbound values sort first.
	OrderBy []string
}

// Params binds parameter names to terms.
type Params map[string]graph.Term

// Row is one projected solution.
type Row struct {
	vars   []string
	values []OptionalTerm
}

// Get returns the value of a selected variable.
func (r Row) Get(name string) OptionalTerm {
	for i, v := range r.vars {
		if v == name {
			return r.values[i]
		}
	}
	return OptionalTerm{}
}

// Values returns the projected values in select order.
func (r Row) Values() []OptionalTerm {
	return append([]OptionalTerm(nil), r.values...)
}

func (r Row) key() string {
	var sb strings.Builder
	for _, v := range r.values {
		if v.Valid {
			sb.WriteString(v.Term.NTriples())
		}
		sb.WriteByte(0)
	}
	return sb.String()
}

type solution map[string]graph.Term

func (s solution) extend(name string, t graph.Term) solution {
	out := make(solution, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[name] = t
	return out
}

// Exec evaluates q against g.
func Exec(g *graph.Graph, q Query, params Params) ([]Row, error) {
	if err := q.validate(params); err != nil {
		return nil, &QueryError{Query: q.Name, Err: err}
	}

	solutions := []solution{{}}
	for _, p := range q.Where {
		solutions = joinPattern(g, solutions, p, params)
		if len(solutions) == 0 {
			return nil, nil
		}
	}

	for _, group := range q.Optional {
		var next []solution
		for _, sol := range solutions {
			matches := []solution{sol}
			for _, p := range group {
				matches = joinPattern(g, matches, p, params)
			}
			if len(matches) == 0 {
				next = append(next, sol)
				continue
			}
			next = append(next, matches...)
		}
		solutions = next
	}

	rows := make([]Row, 0, len(solutions))
	seen := make(map[string]bool)
	for _, sol := range solutions {
		if q.excluded(sol) {
			continue
		}
		row := Row{vars: q.Select, values: make([]OptionalTerm, len(q.Select))}
		for i, v := range q.Select {
			if t, ok := sol[v]; ok {
				row.values[i] = Some(t)
			}
		}
		if q.Distinct {
			k := row.key()
			if seen[k] {
				continue
			}
			seen[k] = true
		}
		rows = append(rows, row)
	}

	if len(q.OrderBy) > 0 {
		sort.SliceStable(rows, func(i, j int) bool {
			for _, v := range q.OrderBy {
				if c := CompareOptional(rows[i].Get(v), rows[j].Get(v)); c != 0 {
					return c < 0
				}
			}
			return false
		})
	}
	return rows, nil
}

func (q Query) validate(params Params) error {
	if len(q.Where) == 0 {
		return fmt.Errorf("query has no required patterns")
	}
	if len(q.Select) == 0 {
		return fmt.Errorf("query selects no variables")
	}

	bound := make(map[string]bool)
	check := func(p Pattern) error {
		for _, n := range []Node{p.S, p.P, p.O} {
			switch n.kind {
			case nodeVar:
				bound[n.name] = true
			case nodeParam:
				t, ok := params[n.name]
				if !ok {
					return fmt.Errorf("parameter %q is not bound", n.name)
				}
				if t.IsZero() {
					return fmt.Errorf("parameter %q is bound to an empty term", n.name)
				}
			case nodeTerm:
				if n.term.IsZero() {
					return fmt.Errorf("pattern %s has an empty constant", p)
				}
			default:
				return fmt.Errorf("pattern %s has an unset position", p)
			}
		}
		return nil
	}
	for _, p := range q.Where {
		if err := check(p); err != nil {
			return err
		}
	}
	for _, group := range q.Optional {
		for _, p := range group {
			if err := check(p); err != nil {
				return err
			}
		}
	}

	selected := make(map[string]bool, len(q.Select))
	for _, v := range q.Select {
		if !bound[v] {
			return fmt.Errorf("selected variable ?%s does not occur in any pattern", v)
		}
		selected[v] = true
	}
	for _, v := range q.OrderBy {
		if !selected[v] {
			return fmt.Errorf("order variable ?%s is not selected", v)
		}
	}
	for _, e := range q.Exclude {
		if !bound[e.Var] {
			return fmt.Errorf("excluded variable ?%s does not occur in any pattern", e.Var)
		}
	}
	return nil
}

func (q Query) excluded(sol solution) bool {
	for _, e := range q.Exclude {
		t, ok := sol[e.Var]
		if !ok {
			continue
		}
		for _, v := range e.Values {
			if t == v {
				return true
			}
		}
	}
	return false
}

// joinPattern extends every solution with the matches of p.
func joinPattern(g *graph.Graph, solutions []solution, p Pattern, params Params) []solution {
	var out []solution
	for _, sol := range solutions {
		s := resolve(p.S, sol, params)
		pr := resolve(p.P, sol, params)
		o := resolve(p.O, sol, params)
		g.Match(s, pr, o, func(t graph.Triple) bool {
			next, ok := bindPosition(sol, p.S, t.S)
			if !ok {
				return true
			}
			next, ok = bindPosition(next, p.P, t.P)
			if !ok {
				return true
			}
			next, ok = bindPosition(next, p.O, t.O)
			if !ok {
				return true
			}
			out = append(out, next)
			return true
		})
	}
	return out
}

// resolve returns the term a node is fixed to, or the zero term for an
// unbound variable.
func resolve(n Node, sol solution, params Params) graph.Term {
	switch n.kind {
	case nodeTerm:
		return n.term
	case nodeParam:
		return params[n.name]
	default:
		return sol[n.name]
	}
}

// bindPosition binds a variable node to t, rejecting a conflicting binding
// made earlier in the same pattern.
func bindPosition(sol solution, n Node, t graph.Term) (solution, bool) {
	if n.kind != nodeVar {
		return sol, true
	}
	if existing, ok := sol[n.name]; ok {
		return sol, existing == t
	}
	return sol.extend(n.name, t), true
}
