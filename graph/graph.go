package graph

import (
	"errors"
	"fmt"

	"github.com/google/btree"
)

const btreeDegree = 32

// ErrEmptyUnion is returned by Union when called without graphs.
var ErrEmptyUnion = errors.New("graph union requires at least one graph")

// Graph is a set of triples. Triples are kept in two B-tree indexes (SPO and
// POS) so iteration order is deterministic and pattern matching with a bound
// subject or predicate does not scan the whole set.
//
// A Graph is not safe for concurrent mutation.
type Graph struct {
	Name       string
	Namespaces *Namespaces

	spo *btree.BTreeG[Triple]
	pos *btree.BTreeG[Triple]
}

// New returns an empty named graph.
func New(name string) *Graph {
	return &Graph{
		Name:       name,
		Namespaces: NewNamespaces(),
		spo:        btree.NewG(btreeDegree, lessSPO),
		pos:        btree.NewG(btreeDegree, lessPOS),
	}
}

func lessSPO(a, b Triple) bool {
	return CompareTriples(a, b) < 0
}

func lessPOS(a, b Triple) bool {
	if c := Compare(a.P, b.P); c != 0 {
		return c < 0
	}
	if c := Compare(a.O, b.O); c != 0 {
		return c < 0
	}
	return Compare(a.S, b.S) < 0
}

// Add inserts t and reports whether it was not already present.
func (g *Graph) Add(t Triple) bool {
	if _, found := g.spo.ReplaceOrInsert(t); found {
		return false
	}
	g.pos.ReplaceOrInsert(t)
	return true
}

// AddChecked validates t before inserting it.
func (g *Graph) AddChecked(t Triple) (bool, error) {
	if err := t.Validate(); err != nil {
		return false, fmt.Errorf("add to graph %q: %w", g.Name, err)
	}
	return g.Add(t), nil
}

// Has reports whether t is in the graph.
func (g *Graph) Has(t Triple) bool {
	return g.spo.Has(t)
}

// Len returns the number of triples.
func (g *Graph) Len() int {
	return g.spo.Len()
}

// Each calls fn for every triple in subject, predicate, object order until
// fn returns false.
func (g *Graph) Each(fn func(Triple) bool) {
	g.spo.Ascend(btree.ItemIteratorG[Triple](fn))
}

// Triples returns every triple in subject, predicate, object order.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, 0, g.Len())
	g.Each(func(t Triple) bool {
		out = append(out, t)
		return true
	})
	return out
}

// Match calls fn for each triple matching the pattern. Zero terms are
// wildcards. Iteration stops when fn returns false.
func (g *Graph) Match(s, p, o Term, fn func(Triple) bool) {
	matches := func(t Triple) bool {
		return (s.IsZero() || t.S == s) &&
			(p.IsZero() || t.P == p) &&
			(o.IsZero() || t.O == o)
	}

	switch {
	case !s.IsZero():
		pivot := Triple{S: s}
		if !p.IsZero() {
			pivot.P = p
		}
		g.spo.AscendGreaterOrEqual(pivot, func(t Triple) bool {
			if t.S != s || (!p.IsZero() && t.P != p) {
				return false
			}
			if !matches(t) {
				return true
			}
			return fn(t)
		})
	case !p.IsZero():
		pivot := Triple{P: p, O: o}
		g.pos.AscendGreaterOrEqual(pivot, func(t Triple) bool {
			if t.P != p || (!o.IsZero() && t.O != o) {
				return false
			}
			if !matches(t) {
				return true
			}
			return fn(t)
		})
	default:
		g.spo.Ascend(func(t Triple) bool {
			if !matches(t) {
				return true
			}
			return fn(t)
		})
	}
}

// Objects returns the objects of every (s, p, ?) triple in order.
func (g *Graph) Objects(s, p Term) []Term {
	var out []Term
	g.Match(s, p, Term{}, func(t Triple) bool {
		out = append(out, t.O)
		return true
	})
	return out
}

// Object returns the first object of (s, p, ?), if any.
func (g *Graph) Object(s, p Term) (Term, bool) {
	var (
		found Term
		ok    bool
	)
	g.Match(s, p, Term{}, func(t Triple) bool {
		found, ok = t.O, true
		return false
	})
	return found, ok
}

// Subjects returns the subjects of every (?, p, o) triple in order.
func (g *Graph) Subjects(p, o Term) []Term {
	var out []Term
	g.Match(Term{}, p, o, func(t Triple) bool {
		out = append(out, t.S)
		return true
	})
	return out
}

// Clone returns a copy of g under a new name. The indexes are copied lazily
// (copy-on-write), so mutating the clone never affects g.
func (g *Graph) Clone(name string) *Graph {
	return &Graph{
		Name:       name,
		Namespaces: g.Namespaces.Clone(),
		spo:        g.spo.Clone(),
		pos:        g.pos.Clone(),
	}
}

// Merge adds every triple of other to g and returns how many were new.
// Namespace bindings of other are added when the prefix is still free.
func (g *Graph) Merge(other *Graph) int {
	added := 0
	other.Each(func(t Triple) bool {
		if g.Add(t) {
			added++
		}
		return true
	})
	for _, prefix := range other.Namespaces.Prefixes() {
		iri, _ := other.Namespaces.Lookup(prefix)
		g.Namespaces.BindIfAbsent(prefix, iri)
	}
	return added
}

// Union returns a new graph holding the set union of graphs. Inputs are
// read in the order given and are never modified.
func Union(name string, graphs ...*Graph) (*Graph, error) {
	if len(graphs) == 0 {
		return nil, ErrEmptyUnion
	}
	out := New(name)
	for i, g := range graphs {
		if g == nil {
			return nil, fmt.Errorf("union %q: graph %d is nil", name, i)
		}
		out.Merge(g)
	}
	return out, nil
}

// SameTriples reports whether a and b hold exactly the same triple set.
func SameTriples(a, b *Graph) bool {
	if a.Len() != b.Len() {
		return false
	}
	same := true
	a.Each(func(t Triple) bool {
		if !b.Has(t) {
			same = false
		}
		return same
	})
	return same
}
