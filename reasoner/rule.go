package reasoner

import (
	"strconv"
	"strings"

	"github.com/google/mangle/ast"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/vocabulary/sysdoc"
)

// Predicates of the rule network. Asserted triples are loaded as asserted/3 and
// lifted into triple/3, over which every normalized and user rule is written.
const (
	factPredicate   = "asserted"
	triplePredicate = "triple"
)

var tripleSym = ast.PredicateSym{Symbol: triplePredicate, Arity: 3}

// Arg is a rule argument: a variable or a constant term.
type Arg struct {
	Var   string
	Const graph.Term
}

// Var returns a variable argument.
func Var(name string) Arg { return Arg{Var: name} }

// Const returns a constant argument.
func Const(t graph.Term) Arg { return Arg{Const: t} }

func (a Arg) baseTerm() ast.BaseTerm {
	if a.Var != "" {
		return ast.Variable{Symbol: a.Var}
	}
	return ast.String(a.Const.NTriples())
}

func (a Arg) String() string {
	if a.Var != "" {
		return a.Var
	}
	return strconv.Quote(a.Const.NTriples())
}

// Atom is one triple/3 pattern.
type Atom struct {
	S, P, O Arg
}

// TypeAtom is the pattern "v rdf:type class".
func TypeAtom(v string, class graph.Term) Atom {
	return Atom{S: Var(v), P: Const(graph.IRI(sysdoc.RDFType)), O: Const(class)}
}

func (a Atom) mangle() ast.Atom {
	return ast.NewAtom(triplePredicate, a.S.baseTerm(), a.P.baseTerm(), a.O.baseTerm())
}

func (a Atom) String() string {
	return triplePredicate + "(" + a.S.String() + ", " + a.P.String() + ", " + a.O.String() + ")"
}

// Rule is a Horn clause over triple/3.
type Rule struct {
	Head Atom
	Body []Atom
}

func (r Rule) clause() ast.Clause {
	premises := make([]ast.Term, 0, len(r.Body))
	for _, b := range r.Body {
		premises = append(premises, b.mangle())
	}
	return ast.Clause{Head: r.Head.mangle(), Premises: premises}
}

// String renders the rule in Mangle syntax.
func (r Rule) String() string {
	body := make([]string, len(r.Body))
	for i, b := range r.Body {
		body[i] = b.String()
	}
	return r.Head.String() + " :- " + strings.Join(body, ", ") + "."
}

// trivial reports whether the head already appears in the body.
func (r Rule) trivial() bool {
	for _, b := range r.Body {
		if b == r.Head {
			return true
		}
	}
	return false
}

// canonical renames variables to V0, V1, ... in order of first appearance,
// head first.
func (r Rule) canonical() Rule {
	names := make(map[string]string)
	rename := func(a Arg) Arg {
		if a.Var == "" {
			return a
		}
		if _, ok := names[a.Var]; !ok {
			names[a.Var] = "V" + strconv.Itoa(len(names))
		}
		return Var(names[a.Var])
	}
	atom := func(a Atom) Atom { return Atom{rename(a.S), rename(a.P), rename(a.O)} }

	out := Rule{Head: atom(r.Head), Body: make([]Atom, len(r.Body))}
	for i, b := range r.Body {
		out.Body[i] = atom(b)
	}
	return out
}
