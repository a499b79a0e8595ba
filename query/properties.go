package query

import (
	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/vocabulary/sysdoc"
)

// PropertyOptions configures ListProperties.
type PropertyOptions struct {
	LabelPredicate string

	// Sentinels are objects whose rows are never listed.
	Sentinels []string
}

// DefaultPropertyOptions labels with rdfs:label and hides
// owl:NamedIndividual.
func DefaultPropertyOptions() PropertyOptions {
	return PropertyOptions{
		LabelPredicate: sysdoc.MustIRI(sysdoc.ComponentLabel),
		Sentinels:      []string{sysdoc.OWLNamedIndividual},
	}
}

// PropertyRow is one outgoing edge of a component with optional labels.
type PropertyRow struct {
	Predicate      graph.Term
	PredicateLabel OptionalTerm
	Object         graph.Term
	ObjectLabel    OptionalTerm
}

// ListProperties returns the distinct outgoing edges of subject, each
// paired with every label of its predicate and object, ordered by
// predicate, object, predicate label and object label.
func ListProperties(g *graph.Graph, subject graph.Term, opts PropertyOptions) ([]PropertyRow, error) {
	if opts.LabelPredicate == "" {
		opts.LabelPredicate = DefaultPropertyOptions().LabelPredicate
	}

	q := Query{
		Name:  "properties",
		Where: []Pattern{{Param("subject"), V("p"), V("o")}},
		Optional: [][]Pattern{
			{{V("o"), Param("label"), V("objLabel")}},
			{{V("p"), Param("label"), V("predLabel")}},
		},
		Select:   []string{"p", "predLabel", "o", "objLabel"},
		Distinct: true,
		OrderBy:  []string{"p", "o", "predLabel", "objLabel"},
	}
	if len(opts.Sentinels) > 0 {
		values := make([]graph.Term, len(opts.Sentinels))
		for i, s := range opts.Sentinels {
			values[i] = graph.IRI(s)
		}
		q.Exclude = []Exclusion{{Var: "o", Values: values}}
	}

	rows, err := Exec(g, q, Params{
		"subject": subject,
		"label":   graph.IRI(opts.LabelPredicate),
	})
	if err != nil {
		return nil, err
	}

	out := make([]PropertyRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, PropertyRow{
			Predicate:      row.Get("p").Term,
			PredicateLabel: row.Get("predLabel"),
			Object:         row.Get("o").Term,
			ObjectLabel:    row.Get("objLabel"),
		})
	}
	return out, nil
}
