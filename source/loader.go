package source

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/knakk/rdf"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/vocabulary/sysdoc"
)

// ErrNoMatch is wrapped by load errors for paths and patterns that name no
// existing file.
var ErrNoMatch = errors.New("no such source")

// LoadError reports a source that could not be resolved, read, or decoded.
// It is fatal for a run.
type LoadError struct {
	Path   string
	Format Format
	Err    error
}

func (e *LoadError) Error() string {
	if e.Format == "" {
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("load %s (%s): %v", e.Path, e.Format, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader reads graphs from the filesystem. Blank node labels are scoped to
// the document they were read from: every decoded file or stream gets its
// own prefix, so unions of loaded graphs never share blank nodes by
// accident. Labels depend only on the order of decodes.
type Loader struct {
	logger   *slog.Logger
	prefixes map[string]string
	scopes   int
}

// NewLoader creates a loader. Loaded graphs get the default semdoc prefix
// bindings.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, prefixes: sysdoc.DefaultPrefixes()}
}

// Load resolves spec and decodes every matching file into one graph named
// after the spec path.
func (l *Loader) Load(spec Spec) (*graph.Graph, error) {
	if err := spec.Validate(); err != nil {
		return nil, &LoadError{Path: spec.Path, Format: spec.Format, Err: err}
	}

	paths, err := Expand(spec.Path)
	if err != nil {
		return nil, &LoadError{Path: spec.Path, Format: spec.Format, Err: err}
	}

	g := l.newGraph(spec.Path)
	for _, path := range paths {
		format, err := spec.resolveFormat(path)
		if err != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		if err := l.decodeFile(g, path, format); err != nil {
			return nil, err
		}
	}

	l.logger.Debug("Loaded source",
		slog.String("source", spec.String()),
		slog.Int("files", len(paths)),
		slog.Int("triples", g.Len()))
	return g, nil
}

// LoadAll loads each spec into its own graph, in order. The first failure
// aborts loading. Missing optional sources are skipped.
func (l *Loader) LoadAll(specs []Spec) ([]*graph.Graph, error) {
	graphs := make([]*graph.Graph, 0, len(specs))
	for _, spec := range specs {
		g, err := l.Load(spec)
		if spec.Optional && errors.Is(err, ErrNoMatch) {
			l.logger.Info("Skipping missing optional source", slog.String("source", spec.String()))
			continue
		}
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, g)
	}
	return graphs, nil
}

// Decode reads one serialized graph from r.
func (l *Loader) Decode(r io.Reader, name string, format Format) (*graph.Graph, error) {
	g := l.newGraph(name)
	if err := decodeInto(g, r, format, l.nextScope()); err != nil {
		return nil, &LoadError{Path: name, Format: format, Err: err}
	}
	return g, nil
}

func (l *Loader) newGraph(name string) *graph.Graph {
	g := graph.New(name)
	for prefix, iri := range l.prefixes {
		g.Namespaces.Bind(prefix, iri)
	}
	return g
}

func (l *Loader) decodeFile(g *graph.Graph, path string, format Format) error {
	f, err := os.Open(path)
	if err != nil {
		return &LoadError{Path: path, Format: format, Err: err}
	}
	defer f.Close()

	if err := decodeInto(g, f, format, l.nextScope()); err != nil {
		return &LoadError{Path: path, Format: format, Err: err}
	}
	return nil
}

func (l *Loader) nextScope() string {
	l.scopes++
	return fmt.Sprintf("f%d", l.scopes)
}

func decodeInto(g *graph.Graph, r io.Reader, format Format, scope string) error {
	dec, err := newDecoder(r, format)
	if err != nil {
		return err
	}
	for {
		t, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("decode: %w", err)
		}
		triple, err := convertTriple(t, scope)
		if err != nil {
			return err
		}
		if _, err := g.AddChecked(triple); err != nil {
			return err
		}
	}
}

func newDecoder(r io.Reader, format Format) (rdf.TripleDecoder, error) {
	switch format {
	case FormatTurtle, FormatN3:
		return rdf.NewTripleDecoder(r, rdf.Turtle), nil
	case FormatNTriples:
		return rdf.NewTripleDecoder(r, rdf.NTriples), nil
	case FormatRDFXML:
		return rdf.NewTripleDecoder(r, rdf.RDFXML), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func convertTriple(t rdf.Triple, scope string) (graph.Triple, error) {
	s, err := convertTerm(t.Subj, scope)
	if err != nil {
		return graph.Triple{}, fmt.Errorf("subject: %w", err)
	}
	p, err := convertTerm(t.Pred, scope)
	if err != nil {
		return graph.Triple{}, fmt.Errorf("predicate: %w", err)
	}
	o, err := convertTerm(t.Obj, scope)
	if err != nil {
		return graph.Triple{}, fmt.Errorf("object: %w", err)
	}
	return graph.T(s, p, o), nil
}

func convertTerm(term rdf.Term, scope string) (graph.Term, error) {
	switch v := term.(type) {
	case rdf.IRI:
		return graph.IRI(v.String()), nil
	case rdf.Blank:
		return graph.Blank(scope + "_" + v.String()), nil
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return graph.LangLiteral(v.String(), lang), nil
		}
		return graph.TypedLiteral(v.String(), v.DataType.String()), nil
	default:
		return graph.Term{}, fmt.Errorf("unsupported term %T", term)
	}
}

// Expand resolves a path or glob pattern (including "**") to existing
// files in sorted order. A pattern that matches no file is an error.
func Expand(pattern string) ([]string, error) {
	if !containsGlob(pattern) {
		info, err := os.Stat(pattern)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNoMatch, err)
		}
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory", pattern)
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(filepath.Clean(pattern))
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}

	var files []string
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		files = append(files, match)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files match pattern %s", ErrNoMatch, pattern)
	}
	sort.Strings(files)
	return files, nil
}

func containsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}
