package query

import (
	"fmt"

	"github.com/c360studio/semdoc/graph"
)

// OptionalTerm is a query value that may be unbound. It keeps "no value"
// apart from a value that is present but later filtered out.
type OptionalTerm struct {
	Term  graph.Term
	Valid bool
}

// Some wraps a bound term.
func Some(t graph.Term) OptionalTerm {
	return OptionalTerm{Term: t, Valid: true}
}

// None is the unbound value.
func None() OptionalTerm { return OptionalTerm{} }

// OrElse returns the term, or fallback when unbound.
func (o OptionalTerm) OrElse(fallback graph.Term) graph.Term {
	if o.Valid {
		return o.Term
	}
	return fallback
}

// Lang returns the language tag of a bound literal.
func (o OptionalTerm) Lang() string {
	if !o.Valid {
		return ""
	}
	return o.Term.Lang
}

func (o OptionalTerm) String() string {
	if !o.Valid {
		return "<none>"
	}
	return o.Term.String()
}

// CompareOptional orders unbound values before bound ones and bound values
// by graph.Compare.
func CompareOptional(a, b OptionalTerm) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return -1
	case !b.Valid:
		return 1
	default:
		return graph.Compare(a.Term, b.Term)
	}
}

// QueryError reports a query that could not be evaluated.
type QueryError struct {
	Query string
	Err   error
}

func (e *QueryError) Error() string {
	if e.Query == "" {
		return fmt.Sprintf("query failed: %v", e.Err)
	}
	return fmt.Sprintf("query %s failed: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }
