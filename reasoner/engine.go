// Package reasoner derives the facts a schema entails over instance graphs.
//
// The schema is normalized into Horn rules over a single triple/3 predicate
// and evaluated to fixpoint with the Mangle Datalog engine. Additional rules
// may be supplied as Mangle source files written against triple/3, whose
// arguments are terms in N-Triples syntax:
//
//	triple(X, "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>", "<http://example.org/Pump>") :-
//	  triple(X, "<http://example.org/pumps>", _).
package reasoner

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/mangle/analysis"
	"github.com/google/mangle/ast"
	"github.com/google/mangle/engine"
	"github.com/google/mangle/factstore"
	"github.com/google/mangle/parse"

	"github.com/c360studio/semdoc/graph"
)

// DefaultFactLimit caps the number of facts a single run may derive.
const DefaultFactLimit = 1_000_000

const declarations = `
Decl asserted(Subject, Predicate, Object).
Decl triple(Subject, Predicate, Object).

triple(S, P, O) :- asserted(S, P, O).
`

// Engine runs schema-driven forward chaining. An Engine holds no state
// between runs and may be reused.
type Engine struct {
	factLimit int
	ruleFiles []string
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithFactLimit sets the derived-fact limit. Non-positive values keep the
// default.
func WithFactLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.factLimit = n
		}
	}
}

// WithRuleFiles adds Mangle rule files evaluated alongside the schema rules.
func WithRuleFiles(paths ...string) Option {
	return func(e *Engine) {
		e.ruleFiles = append(e.ruleFiles, paths...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		factLimit: DefaultFactLimit,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Inference is the outcome of one run.
type Inference struct {
	// Facts holds only the derived triples: none of them was asserted in
	// the instance graphs.
	Facts *graph.Graph

	// Rules are the rules compiled from the schema.
	Rules []Rule

	// Asserted is the number of distinct schema and instance triples fed to
	// the engine.
	Asserted int

	// Strata is the number of strata Mangle evaluated.
	Strata int

	// Dropped counts derived triples that are not valid RDF, such as
	// literal subjects produced by range axioms.
	Dropped int

	Duration time.Duration
}

// Infer compiles schema into rules, evaluates them over the schema and
// instance triples and returns the triples that were derived but not
// asserted. Neither the schema nor the instances are modified.
func (e *Engine) Infer(schema *graph.Graph, instances ...*graph.Graph) (*Inference, error) {
	start := time.Now()
	if schema == nil {
		return nil, &SchemaError{Err: fmt.Errorf("nil schema graph")}
	}

	rules, err := Normalize(schema, e.logger)
	if err != nil {
		return nil, err
	}

	program, err := e.program(rules)
	if err != nil {
		return nil, err
	}

	info, err := analysis.AnalyzeOneUnit(program, nil)
	if err != nil {
		return nil, &SchemaError{Err: fmt.Errorf("analyze rules: %w", err)}
	}

	asserted := schema.Clone("asserted")
	for _, g := range instances {
		if g == nil {
			return nil, &InferenceError{Err: fmt.Errorf("nil instance graph")}
		}
		asserted.Merge(g)
	}

	store := factstore.NewSimpleInMemoryStore()
	asserted.Each(func(t graph.Triple) bool {
		store.Add(ast.NewAtom(factPredicate,
			ast.String(t.S.NTriples()),
			ast.String(t.P.NTriples()),
			ast.String(t.O.NTriples())))
		return true
	})

	// Mangle counts the copies the bridge rule makes of asserted facts, so
	// the limit is raised by the asserted count to bound derived facts only.
	limit := e.factLimit + asserted.Len()
	stats, err := engine.EvalProgramWithStats(info, store, engine.WithCreatedFactLimit(limit))
	if err != nil {
		return nil, &InferenceError{Err: err}
	}

	result := &Inference{
		Facts:    graph.New("inferred"),
		Rules:    rules,
		Asserted: asserted.Len(),
		Strata:   len(stats.Strata),
	}
	err = store.GetFacts(ast.NewQuery(tripleSym), func(a ast.Atom) error {
		t, err := decodeAtom(a)
		if err != nil {
			return err
		}
		if asserted.Has(t) {
			return nil
		}
		if t.Validate() != nil {
			result.Dropped++
			return nil
		}
		result.Facts.Add(t)
		return nil
	})
	if err != nil {
		return nil, &InferenceError{Err: err}
	}
	result.Duration = time.Since(start)

	e.logger.Debug("Inference complete",
		slog.Int("rules", len(rules)),
		slog.Int("asserted", result.Asserted),
		slog.Int("inferred", result.Facts.Len()),
		slog.Int("dropped", result.Dropped),
		slog.Int("strata", result.Strata),
		slog.Duration("duration", result.Duration))
	return result, nil
}

// program assembles the Mangle unit: fixed declarations, the schema rules
// and any rule files.
func (e *Engine) program(rules []Rule) (parse.SourceUnit, error) {
	unit, err := parse.Unit(strings.NewReader(declarations))
	if err != nil {
		return parse.SourceUnit{}, &SchemaError{Err: fmt.Errorf("parse declarations: %w", err)}
	}
	for _, r := range rules {
		unit.Clauses = append(unit.Clauses, r.clause())
	}

	for _, path := range e.ruleFiles {
		src, err := os.ReadFile(path)
		if err != nil {
			return parse.SourceUnit{}, &SchemaError{Source: path, Err: err}
		}
		extra, err := parse.Unit(bytes.NewReader(src))
		if err != nil {
			return parse.SourceUnit{}, &SchemaError{Source: path, Err: err}
		}
		unit.Decls = append(unit.Decls, extra.Decls...)
		unit.Clauses = append(unit.Clauses, extra.Clauses...)
		e.logger.Debug("Loaded rule file", slog.String("path", path), slog.Int("clauses", len(extra.Clauses)))
	}
	return unit, nil
}

// decodeAtom converts a triple/3 fact back into a graph triple.
func decodeAtom(a ast.Atom) (graph.Triple, error) {
	if len(a.Args) != 3 {
		return graph.Triple{}, fmt.Errorf("triple fact with %d arguments", len(a.Args))
	}
	var terms [3]graph.Term
	for i, arg := range a.Args {
		c, ok := arg.(ast.Constant)
		if !ok || c.Type != ast.StringType {
			return graph.Triple{}, fmt.Errorf("triple argument %v is not a string", arg)
		}
		t, err := graph.ParseTerm(c.Symbol)
		if err != nil {
			return graph.Triple{}, fmt.Errorf("triple argument %q: %w", c.Symbol, err)
		}
		terms[i] = t
	}
	return graph.T(terms[0], terms[1], terms[2]), nil
}
