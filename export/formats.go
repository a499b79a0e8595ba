package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/vocabulary/sysdoc"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	ns *graph.Namespaces
	sb strings.Builder
}

// NewTurtleWriter creates a Turtle writer with the default semdoc prefixes.
func NewTurtleWriter() *TurtleWriter {
	ns := graph.NewNamespaces()
	for prefix, iri := range sysdoc.DefaultPrefixes() {
		ns.Bind(prefix, iri)
	}
	return &TurtleWriter{ns: ns}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.ns.Bind(prefix, iri)
}

// WritePrefixes writes prefix declarations, sorted by prefix.
func (w *TurtleWriter) WritePrefixes() {
	for _, prefix := range w.ns.Prefixes() {
		iri, _ := w.ns.Lookup(prefix)
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, iri)
	}
	w.sb.WriteString("\n")
}

// WriteGraph writes the prefixes followed by one block per subject.
func (w *TurtleWriter) WriteGraph(g *graph.Graph) {
	w.WritePrefixes()

	var (
		subject graph.Term
		pending []graph.Triple
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		w.WriteSubject(subject)
		for i, t := range pending {
			w.WritePredicate(t.P, t.O, i == len(pending)-1)
		}
		w.WriteBlank()
		pending = pending[:0]
	}

	g.Each(func(t graph.Triple) bool {
		if t.S != subject {
			flush()
			subject = t.S
		}
		pending = append(pending, t)
		return true
	})
	flush()
}

// WriteSubject starts a new subject block.
func (w *TurtleWriter) WriteSubject(subject graph.Term) {
	w.sb.WriteString(formatTerm(subject, w.ns))
	w.sb.WriteString("\n")
}

// WritePredicate writes a predicate-object pair.
func (w *TurtleWriter) WritePredicate(predicate, object graph.Term, last bool) {
	terminator := " ;"
	if last {
		terminator = " ."
	}
	p := formatTerm(predicate, w.ns)
	if predicate.Value == sysdoc.RDFType {
		p = "a"
	}
	fmt.Fprintf(&w.sb, "    %s %s%s\n", p, formatTerm(object, w.ns), terminator)
}

// WriteBlank writes a blank line for readability.
func (w *TurtleWriter) WriteBlank() {
	w.sb.WriteString("\n")
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

// NTriplesWriter writes RDF in N-Triples format.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteTriple writes a single triple.
func (w *NTriplesWriter) WriteTriple(t graph.Triple) {
	w.sb.WriteString(t.String())
	w.sb.WriteString("\n")
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

// JSONLDDocument represents a JSON-LD document structure.
type JSONLDDocument struct {
	Context map[string]any `json:"@context"`
	Graph   []JSONLDNode   `json:"@graph"`
}

// JSONLDNode represents a node in a JSON-LD graph.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON implements custom JSON marshaling for JSONLDNode.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSONLDWriter writes RDF in expanded-IRI JSON-LD.
type JSONLDWriter struct {
	doc JSONLDDocument
}

// NewJSONLDWriter creates a new JSON-LD writer.
func NewJSONLDWriter() *JSONLDWriter {
	return &JSONLDWriter{
		doc: JSONLDDocument{
			Context: make(map[string]any),
			Graph:   make([]JSONLDNode, 0),
		},
	}
}

// SetContext sets the @context with prefixes.
func (w *JSONLDWriter) SetContext(prefixes map[string]string) {
	for k, v := range prefixes {
		w.doc.Context[k] = v
	}
}

// WriteGraph adds one node per subject of g.
func (w *JSONLDWriter) WriteGraph(g *graph.Graph) {
	var node *JSONLDNode
	g.Each(func(t graph.Triple) bool {
		id := nodeID(t.S)
		if node == nil || node.ID != id {
			w.doc.Graph = append(w.doc.Graph, JSONLDNode{ID: id, Properties: make(map[string]any)})
			node = &w.doc.Graph[len(w.doc.Graph)-1]
		}
		if t.P.Value == sysdoc.RDFType && !t.O.IsLiteral() {
			node.Type = append(node.Type, nodeID(t.O))
			return true
		}
		values, _ := node.Properties[t.P.Value].([]any)
		node.Properties[t.P.Value] = append(values, jsonValue(t.O))
		return true
	})
}

// String returns the JSON-LD output.
func (w *JSONLDWriter) String() (string, error) {
	data, err := json.MarshalIndent(w.doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data) + "\n", nil
}

func nodeID(t graph.Term) string {
	if t.IsBlank() {
		return t.String()
	}
	return t.Value
}

func jsonValue(t graph.Term) any {
	if !t.IsLiteral() {
		return map[string]string{"@id": nodeID(t)}
	}
	v := map[string]string{"@value": t.Value}
	if t.Lang != "" {
		v["@language"] = t.Lang
	} else if t.Datatype != "" {
		v["@type"] = t.Datatype
	}
	return v
}

// SupportedFormats lists the registered format names, sorted.
func SupportedFormats() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}
