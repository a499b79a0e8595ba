// Package source resolves and decodes the RDF graphs a report is built from.
package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is an RDF serialization understood by the loader.
type Format string

const (
	// FormatTurtle is Turtle (.ttl).
	FormatTurtle Format = "turtle"

	// FormatN3 is Notation3. Only its Turtle subset is decoded.
	FormatN3 Format = "n3"

	// FormatNTriples is N-Triples (.nt).
	FormatNTriples Format = "ntriples"

	// FormatRDFXML is RDF/XML (.rdf, .xml, .owl).
	FormatRDFXML Format = "rdfxml"
)

// ParseFormat normalizes a user-supplied format name. Common aliases such as
// "ttl", "nt" and "xml" are accepted.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "turtle", "ttl":
		return FormatTurtle, nil
	case "n3", "notation3":
		return FormatN3, nil
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, nil
	case "rdfxml", "rdf/xml", "xml", "rdf":
		return FormatRDFXML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (valid: turtle, n3, ntriples, rdfxml)", name)
	}
}

// FormatFromExtension guesses the format of a file from its extension.
func FormatFromExtension(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl", ".turtle":
		return FormatTurtle, true
	case ".n3":
		return FormatN3, true
	case ".nt":
		return FormatNTriples, true
	case ".rdf", ".xml", ".owl":
		return FormatRDFXML, true
	default:
		return "", false
	}
}

// Spec names one graph source: a file path or glob pattern and an optional
// format. An empty format is detected per file from its extension.
// Optional sources that do not exist are skipped by LoadAll.
type Spec struct {
	Path     string `yaml:"path"`
	Format   Format `yaml:"format,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// ParseSpec parses "path" or "path=format".
func ParseSpec(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, fmt.Errorf("empty source")
	}
	path, format, hasFormat := strings.Cut(s, "=")
	if path == "" {
		return Spec{}, fmt.Errorf("source %q has no path", s)
	}
	spec := Spec{Path: path}
	if hasFormat {
		f, err := ParseFormat(format)
		if err != nil {
			return Spec{}, fmt.Errorf("source %q: %w", s, err)
		}
		spec.Format = f
	}
	return spec, nil
}

// String returns the spec in the form ParseSpec accepts.
func (s Spec) String() string {
	if s.Format == "" {
		return s.Path
	}
	return s.Path + "=" + string(s.Format)
}

// Validate checks that the spec has a path and a known format, if any.
func (s Spec) Validate() error {
	if s.Path == "" {
		return fmt.Errorf("source path is required")
	}
	if s.Format != "" {
		if _, err := ParseFormat(string(s.Format)); err != nil {
			return err
		}
	}
	return nil
}

// resolveFormat returns the explicit format or the one implied by path.
func (s Spec) resolveFormat(path string) (Format, error) {
	if s.Format != "" {
		return ParseFormat(string(s.Format))
	}
	if f, ok := FormatFromExtension(path); ok {
		return f, nil
	}
	return "", fmt.Errorf("cannot detect format of %s; use path=format", path)
}
