package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/semdoc/export"
	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/output/rest"
	"github.com/c360studio/semdoc/query"
	"github.com/c360studio/semdoc/reasoner"
	"github.com/c360studio/semdoc/source"
)

// Options configures a Pipeline.
type Options struct {
	Schema     source.Spec
	Components source.Spec
	Additional []source.Spec

	RuleFiles []string
	FactLimit int

	Component query.ComponentOptions
	Property  query.PropertyOptions
	Render    rest.Options

	// Debug receives the compiled rules and the inferred facts when set.
	Debug       io.Writer
	DebugFormat export.Format

	// RunID identifies the run in logs. Generated when empty.
	RunID string

	// Now stamps the report. Defaults to time.Now.
	Now func() time.Time
}

// Result is what a successful run produced besides the rendered text.
type Result struct {
	RunID    string
	Assembly *Assembly
	Document rest.Document
}

// Pipeline runs load, assemble, query and render in sequence.
type Pipeline struct {
	opts      Options
	assembler *Assembler
	renderer  *rest.Renderer
	metrics   *Metrics
	logger    *slog.Logger
}

// NewPipeline validates opts and wires the stages. metrics may be nil.
func NewPipeline(opts Options, metrics *Metrics, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := opts.Schema.Validate(); err != nil {
		return nil, fmt.Errorf("schema source: %w", err)
	}
	if err := opts.Components.Validate(); err != nil {
		return nil, fmt.Errorf("components source: %w", err)
	}
	for i, spec := range opts.Additional {
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("additional source %d: %w", i, err)
		}
	}
	if opts.DebugFormat == "" {
		opts.DebugFormat = export.FormatNTriples
	}
	if _, ok := export.GetFormatInfo(opts.DebugFormat); !ok {
		return nil, fmt.Errorf("unsupported debug format: %s", opts.DebugFormat)
	}
	if opts.RunID == "" {
		opts.RunID = uuid.New().String()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Component.Locale == "" {
		opts.Component.Locale = opts.Render.Locale
	}
	if opts.Property.Sentinels == nil {
		opts.Property.Sentinels = query.DefaultPropertyOptions().Sentinels
	}

	renderer, err := rest.NewRenderer(opts.Render)
	if err != nil {
		return nil, err
	}

	logger = logger.With(slog.String("run_id", opts.RunID))

	engineOpts := []reasoner.Option{
		reasoner.WithLogger(logger),
		reasoner.WithRuleFiles(opts.RuleFiles...),
	}
	if opts.FactLimit > 0 {
		engineOpts = append(engineOpts, reasoner.WithFactLimit(opts.FactLimit))
	}

	return &Pipeline{
		opts:      opts,
		assembler: NewAssembler(reasoner.New(engineOpts...), logger),
		renderer:  renderer,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

// Run executes one report run and writes the document to w. Nothing is
// written to w unless every stage before rendering succeeded.
func (p *Pipeline) Run(ctx context.Context, w io.Writer) (result *Result, err error) {
	defer func() { p.metrics.recordRun(err) }()

	p.logger.Info("Starting report run",
		slog.String("schema", p.opts.Schema.String()),
		slog.String("components", p.opts.Components.String()),
		slog.Int("additional", len(p.opts.Additional)))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	schema, components, additional, err := p.load()
	if err != nil {
		return nil, err
	}
	p.metrics.observeStage(StageLoad, start)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	asm, err := p.assembler.Assemble(schema, components, additional...)
	if err != nil {
		return nil, err
	}
	p.metrics.observeStage(StageAssemble, start)
	p.metrics.recordAssembly(asm)

	if p.opts.Debug != nil {
		if err := p.dump(asm); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	sections, err := Collect(asm.Inferred, p.opts.Component, p.opts.Property)
	if err != nil {
		return nil, err
	}
	p.metrics.observeStage(StageQuery, start)
	p.metrics.recordComponents(len(sections))

	doc := rest.Document{
		GeneratedAt: p.opts.Now(),
		Summary:     asm.Summary.Rows(),
		Components:  sections,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	if err := p.renderer.Render(w, doc); err != nil {
		return nil, err
	}
	p.metrics.observeStage(StageRender, start)

	p.logger.Info("Report complete",
		slog.Int("components", len(sections)),
		slog.Int("inferred", asm.Summary.Inferred),
		slog.Int("union_total", asm.Summary.UnionTotal))

	return &Result{RunID: p.opts.RunID, Assembly: asm, Document: doc}, nil
}

// load reads every source with a fresh loader, so blank node labels are
// the same on every run.
func (p *Pipeline) load() (schema, components *graph.Graph, additional []*graph.Graph, err error) {
	loader := source.NewLoader(p.logger)

	schema, err = loader.Load(p.opts.Schema)
	if err != nil {
		return nil, nil, nil, err
	}
	p.metrics.recordSource("schema", schema.Name, schema.Len())

	components, err = loader.Load(p.opts.Components)
	if err != nil {
		return nil, nil, nil, err
	}
	p.metrics.recordSource("components", components.Name, components.Len())

	additional, err = loader.LoadAll(p.opts.Additional)
	if err != nil {
		return nil, nil, nil, err
	}
	for _, g := range additional {
		p.metrics.recordSource("additional", g.Name, g.Len())
	}
	return schema, components, additional, nil
}

// dump writes the compiled rules as comments followed by the inferred facts.
func (p *Pipeline) dump(asm *Assembly) error {
	w := p.opts.Debug
	if _, err := fmt.Fprintf(w, "# %d rules\n", len(asm.Facts.Rules)); err != nil {
		return fmt.Errorf("write debug output: %w", err)
	}
	for _, r := range asm.Facts.Rules {
		if _, err := fmt.Fprintf(w, "# %s\n", r); err != nil {
			return fmt.Errorf("write debug output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(w, "# %d inferred facts\n", asm.Facts.Facts.Len()); err != nil {
		return fmt.Errorf("write debug output: %w", err)
	}
	return export.Serialize(w, asm.Facts.Facts, p.opts.DebugFormat)
}

// Collect lists the components of g with their properties, one section per
// component row. A component with several names gets one section per name.
func Collect(g *graph.Graph, copts query.ComponentOptions, popts query.PropertyOptions) ([]rest.Component, error) {
	rows, err := query.ListComponents(g, copts)
	if err != nil {
		return nil, fmt.Errorf("list components: %w", err)
	}

	props := make(map[graph.Term][]query.PropertyRow, len(rows))
	sections := make([]rest.Component, 0, len(rows))
	for _, row := range rows {
		list, ok := props[row.Subject]
		if !ok {
			list, err = query.ListProperties(g, row.Subject, popts)
			if err != nil {
				return nil, fmt.Errorf("list properties of %s: %w", row.Subject, err)
			}
			props[row.Subject] = list
		}
		sections = append(sections, rest.Component{Row: row, Properties: list})
	}
	return sections, nil
}
