// Package export serializes graphs to RDF text formats.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/semdoc/graph"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// ParseFormat resolves a format name or its file extension.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for f, info := range FormatRegistry {
		if name == string(f) || name == strings.TrimPrefix(info.Extension, ".") {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format: %s", name)
}

// Serialize writes every triple of g to w in the given format. Output is
// ordered by subject, predicate and object.
func Serialize(w io.Writer, g *graph.Graph, format Format) error {
	var out string
	switch format {
	case FormatTurtle:
		tw := NewTurtleWriter()
		for _, prefix := range g.Namespaces.Prefixes() {
			iri, _ := g.Namespaces.Lookup(prefix)
			tw.SetPrefix(prefix, iri)
		}
		tw.WriteGraph(g)
		out = tw.String()
	case FormatNTriples:
		nw := NewNTriplesWriter()
		g.Each(func(t graph.Triple) bool {
			nw.WriteTriple(t)
			return true
		})
		out = nw.String()
	case FormatJSONLD:
		jw := NewJSONLDWriter()
		prefixes := make(map[string]string, g.Namespaces.Len())
		for _, prefix := range g.Namespaces.Prefixes() {
			prefixes[prefix], _ = g.Namespaces.Lookup(prefix)
		}
		jw.SetContext(prefixes)
		jw.WriteGraph(g)
		s, err := jw.String()
		if err != nil {
			return fmt.Errorf("encode json-ld: %w", err)
		}
		out = s
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return nil
}

// formatTerm formats a term for Turtle, compacting IRIs against prefixes.
func formatTerm(t graph.Term, ns *graph.Namespaces) string {
	switch t.Kind {
	case graph.KindIRI:
		if c := ns.Compact(t.Value); c != t.Value && isPrefixedName(c) {
			return c
		}
		return "<" + t.Value + ">"
	case graph.KindLiteral:
		if t.Lang == "" && t.Datatype != "" {
			lit := graph.Literal(t.Value).NTriples()
			if c := ns.Compact(t.Datatype); c != t.Datatype && isPrefixedName(c) {
				return lit + "^^" + c
			}
			return lit + "^^<" + t.Datatype + ">"
		}
		return t.NTriples()
	default:
		return t.NTriples()
	}
}

// isPrefixedName reports whether a compacted IRI is safe to write as a
// Turtle prefixed name.
func isPrefixedName(s string) bool {
	_, local, ok := strings.Cut(s, ":")
	if !ok {
		return false
	}
	for _, r := range local {
		if !(r == '_' || r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return local == "" || local[0] != '-'
}
