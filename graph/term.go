// Package graph provides the in-memory RDF model used by semdoc: terms,
// triples, and ordered triple sets with namespace bindings.
package graph

import (
	"fmt"
	"strings"
)

// XSDString is the datatype of simple literals. Literals typed with it are
// stored without a datatype so "a" and "a"^^xsd:string are the same term.
const XSDString = "http://www.w3.org/2001/XMLSchema#string"

// Kind discriminates RDF term types. The numeric order is the sort order.
type Kind int

const (
	// KindInvalid is the zero Kind. A zero Term acts as a wildcard in Match.
	KindInvalid Kind = iota
	// KindBlank is a blank node.
	KindBlank
	// KindIRI is an IRI reference.
	KindIRI
	// KindLiteral is a literal with optional language tag or datatype.
	KindLiteral
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindIRI:
		return "iri"
	case KindLiteral:
		return "literal"
	default:
		return "invalid"
	}
}

// Term is an RDF term. Terms are values and compare with ==.
type Term struct {
	Kind     Kind
	Value    string
	Lang     string
	Datatype string
}

// IRI returns an IRI term.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Blank returns a blank node term. A leading "_:" is accepted and dropped.
func Blank(id string) Term {
	return Term{Kind: KindBlank, Value: strings.TrimPrefix(id, "_:")}
}

// Literal returns a simple literal.
func Literal(value string) Term {
	return Term{Kind: KindLiteral, Value: value}
}

// LangLiteral returns a language-tagged literal. Tags are case-insensitive
// and stored lower-cased.
func LangLiteral(value, lang string) Term {
	return Term{Kind: KindLiteral, Value: value, Lang: strings.ToLower(lang)}
}

// TypedLiteral returns a literal with a datatype IRI.
func TypedLiteral(value, datatype string) Term {
	if datatype == XSDString {
		datatype = ""
	}
	return Term{Kind: KindLiteral, Value: value, Datatype: datatype}
}

// IsZero reports whether t is the zero Term.
func (t Term) IsZero() bool { return t.Kind == KindInvalid }

// IsIRI reports whether t is an IRI.
func (t Term) IsIRI() bool { return t.Kind == KindIRI }

// IsBlank reports whether t is a blank node.
func (t Term) IsBlank() bool { return t.Kind == KindBlank }

// IsLiteral reports whether t is a literal.
func (t Term) IsLiteral() bool { return t.Kind == KindLiteral }

// String returns the display form: the IRI, the literal's lexical value, or
// "_:id" for blank nodes.
func (t Term) String() string {
	if t.Kind == KindBlank {
		return "_:" + t.Value
	}
	return t.Value
}

// NTriples returns the N-Triples serialization of t. It is also the
// canonical key of the term.
func (t Term) NTriples() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		var sb strings.Builder
		sb.WriteByte('"')
		sb.WriteString(escapeLiteral(t.Value))
		sb.WriteByte('"')
		if t.Lang != "" {
			sb.WriteByte('@')
			sb.WriteString(t.Lang)
		} else if t.Datatype != "" {
			sb.WriteString("^^<")
			sb.WriteString(t.Datatype)
			sb.WriteByte('>')
		}
		return sb.String()
	default:
		return ""
	}
}

// Compare orders terms: blank nodes, then IRIs, then literals; within a kind
// by lexical value, then language tag, then datatype.
func Compare(a, b Term) int {
	if a.Kind != b.Kind {
		if a.Kind < b.Kind {
			return -1
		}
		return 1
	}
	if c := strings.Compare(a.Value, b.Value); c != 0 {
		return c
	}
	if c := strings.Compare(a.Lang, b.Lang); c != 0 {
		return c
	}
	return strings.Compare(a.Datatype, b.Datatype)
}

// ParseTerm parses a single term in N-Triples syntax.
func ParseTerm(s string) (Term, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return Term{}, fmt.Errorf("empty term")
	case strings.HasPrefix(s, "<"):
		if !strings.HasSuffix(s, ">") || len(s) < 3 {
			return Term{}, fmt.Errorf("unterminated IRI: %s", s)
		}
		return IRI(s[1 : len(s)-1]), nil
	case strings.HasPrefix(s, "_:"):
		if len(s) == 2 {
			return Term{}, fmt.Errorf("blank node without label: %s", s)
		}
		return Blank(s), nil
	case strings.HasPrefix(s, `"`):
		return parseLiteral(s)
	default:
		return Term{}, fmt.Errorf("not an N-Triples term: %s", s)
	}
}

func parseLiteral(s string) (Term, error) {
	var sb strings.Builder
	i := 1
	for ; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			break
		}
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return Term{}, fmt.Errorf("dangling escape in literal: %s", s)
		}
		switch s[i] {
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 't':
			sb.WriteByte('\t')
		case '"', '\\':
			sb.WriteByte(s[i])
		default:
			return Term{}, fmt.Errorf("unsupported escape \\%c in literal: %s", s[i], s)
		}
	}
	if i >= len(s) {
		return Term{}, fmt.Errorf("unterminated literal: %s", s)
	}
	value := sb.String()
	rest := s[i+1:]
	switch {
	case rest == "":
		return Literal(value), nil
	case strings.HasPrefix(rest, "@") && len(rest) > 1:
		return LangLiteral(value, rest[1:]), nil
	case strings.HasPrefix(rest, "^^<") && strings.HasSuffix(rest, ">") && len(rest) > 4:
		return TypedLiteral(value, rest[3:len(rest)-1]), nil
	default:
		return Term{}, fmt.Errorf("malformed literal suffix %q", rest)
	}
}

func escapeLiteral(s string) string {
	if !strings.ContainsAny(s, "\\\"\n\r\t") {
		return s
	}
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

// Triple is an immutable RDF statement.
type Triple struct {
	S Term
	P Term
	O Term
}

// T is shorthand for constructing a Triple.
func T(s, p, o Term) Triple {
	return Triple{S: s, P: p, O: o}
}

// Validate checks the RDF position rules: subjects are IRIs or blank nodes,
// predicates are IRIs, objects are any non-zero term.
func (t Triple) Validate() error {
	if t.S.Kind != KindIRI && t.S.Kind != KindBlank {
		return fmt.Errorf("invalid subject %s term %q", t.S.Kind, t.S.Value)
	}
	if t.P.Kind != KindIRI {
		return fmt.Errorf("invalid predicate %s term %q", t.P.Kind, t.P.Value)
	}
	if t.O.IsZero() {
		return fmt.Errorf("missing object")
	}
	return nil
}

// String returns the triple as an N-Triples statement without a newline.
func (t Triple) String() string {
	return t.S.NTriples() + " " + t.P.NTriples() + " " + t.O.NTriples() + " ."
}

// CompareTriples orders triples by subject, predicate, object.
func CompareTriples(a, b Triple) int {
	if c := Compare(a.S, b.S); c != 0 {
		return c
	}
	if c := Compare(a.P, b.P); c != 0 {
		return c
	}
	return Compare(a.O, b.O)
}
