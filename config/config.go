// Package config provides configuration loading and management for semdoc.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/c360studio/semdoc/export"
	"github.com/c360studio/semdoc/output/rest"
	"github.com/c360studio/semdoc/query"
	"github.com/c360studio/semdoc/report"
	"github.com/c360studio/semdoc/source"
	"github.com/c360studio/semdoc/vocabulary/sysdoc"
)

// Config represents the complete semdoc configuration
type Config struct {
	Sources  SourcesConfig  `yaml:"sources"`
	Report   ReportConfig   `yaml:"report"`
	Reasoner ReasonerConfig `yaml:"reasoner"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Debug    DebugConfig    `yaml:"debug"`
}

// SourcesConfig names the graphs a report is built from
type SourcesConfig struct {
	// Schema holds the ontology the reasoner compiles into rules
	Schema source.Spec `yaml:"schema"`
	// Components holds the component descriptions
	Components source.Spec `yaml:"components"`
	// Additional graphs are asserted alongside the components (e.g. DOAP, RDFS)
	Additional []source.Spec `yaml:"additional"`
}

// ReportConfig configures the queries and the rendered document.
// Predicates and classes are full IRIs or registered predicate names
// such as "sysdoc.component.name".
type ReportConfig struct {
	// Locale is the BCP 47 tag labels must carry to be shown (default: en)
	Locale string `yaml:"locale"`
	// Title heads the document
	Title string `yaml:"title"`
	// ComponentClass marks the subjects that get a section
	ComponentClass string `yaml:"component_class"`
	// NamePredicate carries a component's section title
	NamePredicate string `yaml:"name_predicate"`
	// LabelPredicate labels predicates and objects
	LabelPredicate string `yaml:"label_predicate"`
	// Suppress lists predicates never shown in component tables
	Suppress []string `yaml:"suppress"`
	// Exclude lists objects whose rows are never shown
	Exclude []string `yaml:"exclude"`
}

// ReasonerConfig configures inference
type ReasonerConfig struct {
	// Rules are extra Mangle rule files evaluated with the schema rules
	Rules []string `yaml:"rules"`
	// FactLimit bounds the facts one run may derive
	FactLimit int `yaml:"fact_limit"`
}

// MetricsConfig configures run metrics
type MetricsConfig struct {
	// File receives the Prometheus text exposition after a run (empty = off)
	File string `yaml:"file"`
}

// DebugConfig configures the debug dump of rules and inferred facts
type DebugConfig struct {
	// Enabled writes the dump to stderr
	Enabled bool `yaml:"enabled"`
	// Format of the inferred facts (ntriples, turtle, jsonld)
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			Schema:     source.Spec{Path: "kb/schema.ttl"},
			Components: source.Spec{Path: "kb/components.n3"},
			Additional: []source.Spec{
				{Path: "kb/doap.rdf.xml", Format: source.FormatRDFXML, Optional: true},
				{Path: "kb/22-rdf-syntax-ns.rdf.xml", Format: source.FormatRDFXML, Optional: true},
				{Path: "kb/rdf-schema.rdf.xml", Format: source.FormatRDFXML, Optional: true},
			},
		},
		Report: ReportConfig{
			Locale:         "en",
			Title:          "Component Reference",
			ComponentClass: sysdoc.SYSComponent,
			NamePredicate:  sysdoc.ComponentName,
			LabelPredicate: sysdoc.ComponentLabel,
			Suppress:       []string{sysdoc.ComponentName},
			Exclude:        []string{sysdoc.OWLNamedIndividual},
		},
		Reasoner: ReasonerConfig{
			FactLimit: 1_000_000,
		},
		Debug: DebugConfig{
			Format: string(export.FormatNTriples),
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := c.Sources.Schema.Validate(); err != nil {
		return fmt.Errorf("sources.schema: %w", err)
	}
	if err := c.Sources.Components.Validate(); err != nil {
		return fmt.Errorf("sources.components: %w", err)
	}
	for i, spec := range c.Sources.Additional {
		if err := spec.Validate(); err != nil {
			return fmt.Errorf("sources.additional[%d]: %w", i, err)
		}
	}
	if _, err := language.Parse(c.Report.Locale); err != nil {
		return fmt.Errorf("report.locale %q is not a BCP 47 tag", c.Report.Locale)
	}
	for name, value := range map[string]string{
		"report.component_class": c.Report.ComponentClass,
		"report.name_predicate":  c.Report.NamePredicate,
		"report.label_predicate": c.Report.LabelPredicate,
	} {
		if _, err := ResolveIRI(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for _, p := range append(append([]string{}, c.Report.Suppress...), c.Report.Exclude...) {
		if _, err := ResolveIRI(p); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}
	if c.Reasoner.FactLimit <= 0 {
		return fmt.Errorf("reasoner.fact_limit must be positive")
	}
	if _, err := export.ParseFormat(c.Debug.Format); err != nil {
		return fmt.Errorf("debug.format: %w", err)
	}
	return nil
}

// ResolveIRI returns value when it is an absolute IRI, else the standard IRI
// of the registered predicate it names.
func ResolveIRI(value string) (string, error) {
	if value == "" {
		return "", fmt.Errorf("empty IRI")
	}
	if strings.Contains(value, "://") || strings.HasPrefix(value, "urn:") {
		return value, nil
	}
	return sysdoc.IRI(value)
}

// Options translates the configuration into pipeline options. Call
// Validate first.
func (c *Config) Options() (report.Options, error) {
	resolve := func(values []string) ([]string, error) {
		out := make([]string, 0, len(values))
		for _, v := range values {
			iri, err := ResolveIRI(v)
			if err != nil {
				return nil, err
			}
			out = append(out, iri)
		}
		return out, nil
	}

	single, err := resolve([]string{c.Report.ComponentClass, c.Report.NamePredicate, c.Report.LabelPredicate})
	if err != nil {
		return report.Options{}, err
	}
	suppress, err := resolve(c.Report.Suppress)
	if err != nil {
		return report.Options{}, err
	}
	exclude, err := resolve(c.Report.Exclude)
	if err != nil {
		return report.Options{}, err
	}
	format, err := export.ParseFormat(c.Debug.Format)
	if err != nil {
		return report.Options{}, err
	}

	return report.Options{
		Schema:     c.Sources.Schema,
		Components: c.Sources.Components,
		Additional: c.Sources.Additional,
		RuleFiles:  c.Reasoner.Rules,
		FactLimit:  c.Reasoner.FactLimit,
		Component: query.ComponentOptions{
			Class:          single[0],
			NamePredicate:  single[1],
			LabelPredicate: single[2],
			Locale:         c.Report.Locale,
		},
		Property: query.PropertyOptions{
			LabelPredicate: single[2],
			Sentinels:      exclude,
		},
		Render: rest.Options{
			Locale:     c.Report.Locale,
			Suppressed: suppress,
			Title:      c.Report.Title,
		},
		DebugFormat: format,
	}, nil
}

// LoadFromFile loads configuration from a YAML file. Keys the file does
// not set keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

// readLayer loads only the keys a file sets, for merging over another
// config.
func readLayer(path string) (*Config, error) {
	config := &Config{}
	if err := decodeFile(path, config); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Sources
	if other.Sources.Schema.Path != "" {
		c.Sources.Schema = other.Sources.Schema
	}
	if other.Sources.Components.Path != "" {
		c.Sources.Components = other.Sources.Components
	}
	if len(other.Sources.Additional) > 0 {
		c.Sources.Additional = other.Sources.Additional
	}

	// Report
	if other.Report.Locale != "" {
		c.Report.Locale = other.Report.Locale
	}
	if other.Report.Title != "" {
		c.Report.Title = other.Report.Title
	}
	if other.Report.ComponentClass != "" {
		c.Report.ComponentClass = other.Report.ComponentClass
	}
	if other.Report.NamePredicate != "" {
		c.Report.NamePredicate = other.Report.NamePredicate
	}
	if other.Report.LabelPredicate != "" {
		c.Report.LabelPredicate = other.Report.LabelPredicate
	}
	if other.Report.Suppress != nil {
		c.Report.Suppress = other.Report.Suppress
	}
	if other.Report.Exclude != nil {
		c.Report.Exclude = other.Report.Exclude
	}

	// Reasoner
	if len(other.Reasoner.Rules) > 0 {
		c.Reasoner.Rules = other.Reasoner.Rules
	}
	if other.Reasoner.FactLimit != 0 {
		c.Reasoner.FactLimit = other.Reasoner.FactLimit
	}

	// Metrics
	if other.Metrics.File != "" {
		c.Metrics.File = other.Metrics.File
	}

	// Debug
	if other.Debug.Enabled {
		c.Debug.Enabled = true
	}
	if other.Debug.Format != "" {
		c.Debug.Format = other.Debug.Format
	}
}
