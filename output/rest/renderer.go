// Package rest renders component reports as reStructuredText.
package rest

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/query"
	"github.com/c360studio/semdoc/vocabulary/sysdoc"
)

// Options configures a Renderer.
type Options struct {
	// Locale is the BCP 47 tag labels must carry to be shown. Untagged
	// labels are always shown.
	Locale string

	// Suppressed predicates are never listed, typically because the
	// section title already shows them.
	Suppressed []string

	// Title heads the document.
	Title string

	// Tool is named in the generation line.
	Tool string
}

// DefaultOptions renders English labels and hides doap:name.
func DefaultOptions() Options {
	return Options{
		Locale:     "en",
		Suppressed: []string{sysdoc.DOAPName},
		Title:      "Component Reference",
		Tool:       "semdoc",
	}
}

// SummaryRow is one line of the summary table.
type SummaryRow struct {
	Label string
	Value string
}

// Component is one report section.
type Component struct {
	Row        query.ComponentRow
	Properties []query.PropertyRow
}

// Document is everything a report shows.
type Document struct {
	GeneratedAt time.Time
	Summary     []SummaryRow
	Components  []Component
}

// Renderer writes Documents as reST. It performs no I/O besides writing to
// the supplied writer.
type Renderer struct {
	opts       Options
	locale     language.Tag
	suppressed map[string]bool
}

// NewRenderer validates opts and creates a renderer. Empty fields take
// their defaults.
func NewRenderer(opts Options) (*Renderer, error) {
	d := DefaultOptions()
	if opts.Locale == "" {
		opts.Locale = d.Locale
	}
	if opts.Suppressed == nil {
		opts.Suppressed = d.Suppressed
	}
	if opts.Title == "" {
		opts.Title = d.Title
	}
	if opts.Tool == "" {
		opts.Tool = d.Tool
	}

	tag, err := language.Parse(opts.Locale)
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", opts.Locale, err)
	}

	r := &Renderer{opts: opts, locale: tag, suppressed: make(map[string]bool, len(opts.Suppressed))}
	for _, p := range opts.Suppressed {
		r.suppressed[p] = true
	}
	return r, nil
}

// Render writes doc to w. Identical documents produce identical bytes.
func (r *Renderer) Render(w io.Writer, doc Document) error {
	var buf bytes.Buffer

	r.writeHeader(&buf, doc)
	buf.WriteString("\n")
	writeTable(&buf, []string{"Graph", "Count"}, summaryCells(doc.Summary))

	buf.WriteString("\n")
	writeTitle(&buf, "Components", '=', false)

	for _, c := range doc.Components {
		buf.WriteString("\n")
		writeTitle(&buf, c.Row.DisplayName(), '-', false)

		var rows [][]string
		for _, p := range c.Properties {
			if !r.Keep(p) {
				continue
			}
			rows = append(rows, []string{
				formatValue(p.Predicate, p.PredicateLabel),
				formatValue(p.Object, p.ObjectLabel),
			})
		}
		writeTable(&buf, []string{"Predicate", "Object"}, rows)
	}

	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Keep applies the row filters: labels in another locale and suppressed
// predicates drop the row.
func (r *Renderer) Keep(p query.PropertyRow) bool {
	if !r.inLocale(p.PredicateLabel) || !r.inLocale(p.ObjectLabel) {
		return false
	}
	return !r.suppressed[p.Predicate.Value]
}

func (r *Renderer) inLocale(label query.OptionalTerm) bool {
	lang := label.Lang()
	if lang == "" {
		return true
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	return strings.EqualFold(tag.String(), r.locale.String())
}

func (r *Renderer) writeHeader(buf *bytes.Buffer, doc Document) {
	writeTitle(buf, r.opts.Title, '=', true)
	writeTitle(buf, "Report Information", '=', false)
	fmt.Fprintf(buf, "Generated by %s @ %s\n", r.opts.Tool, doc.GeneratedAt.Format(time.RFC3339))
}

func summaryCells(rows []SummaryRow) [][]string {
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = []string{row.Label, row.Value}
	}
	return cells
}

// formatValue renders a term as a link when it has a label, else as the
// bare IRI or escaped literal text.
func formatValue(t graph.Term, label query.OptionalTerm) string {
	switch {
	case label.Valid && !t.IsLiteral():
		return link(label.Term.Value, t.String())
	case t.IsLiteral():
		return Escape(t.Value)
	default:
		return t.String()
	}
}

func writeTitle(buf *bytes.Buffer, title string, adornment byte, overline bool) {
	title = foldTitle(title)
	rule := strings.Repeat(string(adornment), columnWidth(title))
	if overline {
		buf.WriteString(rule)
		buf.WriteString("\n")
	}
	buf.WriteString(title)
	buf.WriteString("\n")
	buf.WriteString(rule)
	buf.WriteString("\n")
}

const indent = "   "

func writeTable(buf *bytes.Buffer, header []string, rows [][]string) {
	buf.WriteString(".. list-table::\n")
	buf.WriteString(indent + ":header-rows: 1\n")
	buf.WriteString("\n")
	writeRow(buf, header)
	for _, row := range rows {
		writeRow(buf, row)
	}
}

func writeRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i == 0 {
			buf.WriteString(indent + "* - ")
		} else {
			buf.WriteString(indent + "  - ")
		}
		buf.WriteString(cell)
		buf.WriteString("\n")
	}
}
