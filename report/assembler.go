// Package report assembles the asserted and inferred graphs of a run and
// drives them through the component queries into a rendered document.
package report

import (
	"fmt"
	"log/slog"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/reasoner"
)

// Assembly is the result of combining the input graphs with the facts the
// reasoner derived from them.
type Assembly struct {
	// Base is the union of all asserted graphs.
	Base *graph.Graph

	// Inferred is Base plus every derived fact. It is a separate graph;
	// Base is never modified.
	Inferred *graph.Graph

	// Facts is the reasoner's output.
	Facts *reasoner.Inference

	Summary Summary
}

// Assembler builds Assemblies with a fixed engine.
type Assembler struct {
	engine *reasoner.Engine
	logger *slog.Logger
}

// NewAssembler creates an assembler. A nil engine uses the reasoner
// defaults.
func NewAssembler(engine *reasoner.Engine, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = reasoner.New(reasoner.WithLogger(logger))
	}
	return &Assembler{engine: engine, logger: logger}
}

// Assemble unions schema, components and additional into the base graph,
// runs inference with the schema over the other graphs, and layers the
// derived facts onto a copy of the base graph. Reasoner errors are returned
// wrapped; no partial assembly is produced.
func (a *Assembler) Assemble(schema, components *graph.Graph, additional ...*graph.Graph) (*Assembly, error) {
	if schema == nil || components == nil {
		return nil, fmt.Errorf("assemble: schema and components graphs are required")
	}

	inputs := append([]*graph.Graph{schema, components}, additional...)
	base, err := graph.Union("base", inputs...)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	facts, err := a.engine.Infer(schema, inputs[1:]...)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	inferred := base.Clone("inferred")
	inferred.Merge(facts.Facts)

	summary := Summary{
		Schema:     schema.Len(),
		Components: components.Len(),
		Inferred:   facts.Facts.Len(),
		BaseTotal:  base.Len(),
		UnionTotal: inferred.Len(),
	}
	for _, g := range additional {
		summary.AdditionalGraphs = append(summary.AdditionalGraphs, GraphCount{Name: g.Name, Triples: g.Len()})
		summary.Additional += g.Len()
	}
	summary.Subtotal = summary.Schema + summary.Components + summary.Additional + summary.Inferred

	if err := summary.Validate(); err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	a.logger.Debug("Assembled graphs",
		slog.Int("base", summary.BaseTotal),
		slog.Int("inferred", summary.Inferred),
		slog.Int("union_total", summary.UnionTotal))

	return &Assembly{
		Base:     base,
		Inferred: inferred,
		Facts:    facts,
		Summary:  summary,
	}, nil
}
