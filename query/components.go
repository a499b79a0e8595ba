package query

import (
	"strings"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/vocabulary/sysdoc"
)

// ComponentOptions selects which class marks a component and which
// predicates carry its name and label.
type ComponentOptions struct {
	Class          string
	NamePredicate  string
	LabelPredicate string

	// Locale picks the label used when a component has no name. Labels in
	// this language win over untagged ones; others are never used.
	Locale string
}

// DefaultComponentOptions returns sys:Component with doap:name and
// rdfs:label.
func DefaultComponentOptions() ComponentOptions {
	return ComponentOptions{
		Class:          sysdoc.SYSComponent,
		NamePredicate:  sysdoc.MustIRI(sysdoc.ComponentName),
		LabelPredicate: sysdoc.MustIRI(sysdoc.ComponentLabel),
		Locale:         "en",
	}
}

func (o ComponentOptions) withDefaults() ComponentOptions {
	d := DefaultComponentOptions()
	if o.Class == "" {
		o.Class = d.Class
	}
	if o.NamePredicate == "" {
		o.NamePredicate = d.NamePredicate
	}
	if o.LabelPredicate == "" {
		o.LabelPredicate = d.LabelPredicate
	}
	if o.Locale == "" {
		o.Locale = d.Locale
	}
	return o
}

// ComponentRow is one component listing entry.
type ComponentRow struct {
	Subject graph.Term
	Name    OptionalTerm
	Label   OptionalTerm
}

// DisplayName is the section title of a component: its name, else its
// label, else the subject itself.
func (r ComponentRow) DisplayName() string {
	if r.Name.Valid {
		return r.Name.Term.String()
	}
	if r.Label.Valid {
		return r.Label.Term.String()
	}
	return r.Subject.String()
}

var componentQuery = Query{
	Name: "components",
	Where: []Pattern{
		{V("component"), C(graph.IRI(sysdoc.RDFType)), Param("class")},
	},
	Optional: [][]Pattern{
		{{V("component"), Param("name"), V("name")}},
	},
	Select:   []string{"component", "name"},
	Distinct: true,
	OrderBy:  []string{"component", "name"},
}

var labelQuery = Query{
	Name:     "labels",
	Where:    []Pattern{{Param("subject"), Param("label"), V("label")}},
	Select:   []string{"label"},
	Distinct: true,
	OrderBy:  []string{"label"},
}

// ListComponents returns every subject typed with the component class,
// ordered by subject then name. A subject with several names yields one row
// per name; one without a name yields a single row with an unbound name.
func ListComponents(g *graph.Graph, opts ComponentOptions) ([]ComponentRow, error) {
	opts = opts.withDefaults()

	rows, err := Exec(g, componentQuery, Params{
		"class": graph.IRI(opts.Class),
		"name":  graph.IRI(opts.NamePredicate),
	})
	if err != nil {
		return nil, err
	}

	out := make([]ComponentRow, 0, len(rows))
	for _, row := range rows {
		c := ComponentRow{Subject: row.Get("component").Term, Name: row.Get("name")}
		if !c.Name.Valid {
			label, err := componentLabel(g, c.Subject, opts)
			if err != nil {
				return nil, err
			}
			c.Label = label
		}
		out = append(out, c)
	}
	return out, nil
}

// componentLabel picks the first label in the locale, else the first
// untagged label.
func componentLabel(g *graph.Graph, subject graph.Term, opts ComponentOptions) (OptionalTerm, error) {
	rows, err := Exec(g, labelQuery, Params{
		"subject": subject,
		"label":   graph.IRI(opts.LabelPredicate),
	})
	if err != nil {
		return None(), err
	}

	var untagged OptionalTerm
	for _, row := range rows {
		label := row.Get("label")
		switch lang := label.Lang(); {
		case strings.EqualFold(lang, opts.Locale):
			return label, nil
		case lang == "" && !untagged.Valid:
			untagged = label
		}
	}
	return untagged, nil
}
