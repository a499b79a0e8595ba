package rest

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/query"
	"github.com/c360studio/semdoc/vocabulary/sysdoc"
)

var generatedAt = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

func pumpDocument() Document {
	c1 := graph.IRI("http://example.org/c1")
	return Document{
		GeneratedAt: generatedAt,
		Summary: []SummaryRow{
			{"Schema", "2"},
			{"Components", "2"},
			{"Union Total", "4"},
		},
		Components: []Component{{
			Row: query.ComponentRow{Subject: c1, Name: query.Some(graph.Literal("Pump"))},
			Properties: []query.PropertyRow{{
				Predicate: graph.IRI(sysdoc.DOAPName),
				Object:    graph.Literal("Pump"),
			}},
		}},
	}
}

func render(t *testing.T, opts Options, doc Document) string {
	t.Helper()
	r, err := NewRenderer(opts)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, doc))
	return buf.String()
}

func TestRender_PumpWithNameSuppressed(t *testing.T) {
	got := render(t, Options{}, pumpDocument())

	want := `===================
Component Reference
===================
Report Information
==================
Generated by semdoc @ 2026-10-17T09:30:00Z

.. list-table::
   :header-rows: 1

   * - Graph
     - Count
   * - Schema
     - 2
   * - Components
     - 2
   * - Union Total
     - 4

Components
==========

Pump
----
.. list-table::
   :header-rows: 1

   * - Predicate
     - Object
`
	assert.Equal(t, want, got)
}

func TestRender_PumpWithoutSuppression(t *testing.T) {
	got := render(t, Options{Suppressed: []string{}}, pumpDocument())

	assert.True(t, strings.HasSuffix(got, `   * - Predicate
     - Object
   * - http://usefulinc.com/ns/doap#name
     - Pump
`), got)
}

func TestRender_Deterministic(t *testing.T) {
	first := render(t, Options{}, pumpDocument())
	second := render(t, Options{}, pumpDocument())
	assert.Equal(t, first, second)
}

func TestRender_LinksAndEscaping(t *testing.T) {
	doc := Document{
		GeneratedAt: generatedAt,
		Components: []Component{{
			Row: query.ComponentRow{Subject: graph.IRI("http://example.org/c1")},
			Properties: []query.PropertyRow{
				{
					Predicate:      graph.IRI("http://example.org/feeds"),
					PredicateLabel: query.Some(graph.LangLiteral("feeds", "en")),
					Object:         graph.IRI("http://example.org/tank"),
					ObjectLabel:    query.Some(graph.Literal("Tank <`main`> é")),
				},
				{
					Predicate: graph.IRI("http://example.org/note"),
					Object:    graph.Literal("a < b"),
				},
			},
		}},
	}

	got := render(t, Options{}, doc)

	assert.Contains(t, got, "\nhttp://example.org/c1\n---------------------\n")
	assert.Contains(t, got, "   * - `feeds <http://example.org/feeds>`__\n")
	assert.Contains(t, got, "     - `Tank &lt;main&gt; &#233; <http://example.org/tank>`__\n")
	assert.Contains(t, got, "     - a &lt; b\n")
}

func TestRenderer_LocaleFilter(t *testing.T) {
	p := graph.IRI("http://example.org/p")
	o := graph.IRI("http://example.org/o")
	tests := []struct {
		name   string
		locale string
		row    query.PropertyRow
		want   bool
	}{
		{"no labels", "en", query.PropertyRow{Predicate: p, Object: o}, true},
		{"untagged labels", "en", query.PropertyRow{
			Predicate: p, PredicateLabel: query.Some(graph.Literal("p")),
			Object: o, ObjectLabel: query.Some(graph.Literal("o")),
		}, true},
		{"object label in locale", "en", query.PropertyRow{
			Predicate: p, Object: o, ObjectLabel: query.Some(graph.LangLiteral("o", "en")),
		}, true},
		{"object label in other locale", "en", query.PropertyRow{
			Predicate: p, Object: o, ObjectLabel: query.Some(graph.LangLiteral("o", "de")),
		}, false},
		{"predicate label in other locale", "en", query.PropertyRow{
			Predicate: p, PredicateLabel: query.Some(graph.LangLiteral("p", "fr")), Object: o,
		}, false},
		{"locale compared case-insensitively", "DE", query.PropertyRow{
			Predicate: p, Object: o, ObjectLabel: query.Some(graph.LangLiteral("o", "de")),
		}, true},
		{"regional tag is a different locale", "en", query.PropertyRow{
			Predicate: p, Object: o, ObjectLabel: query.Some(graph.LangLiteral("o", "en-GB")),
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRenderer(Options{Locale: tt.locale})
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Keep(tt.row))
		})
	}
}

func TestRenderer_SuppressionFilter(t *testing.T) {
	r, err := NewRenderer(Options{})
	require.NoError(t, err)

	assert.False(t, r.Keep(query.PropertyRow{
		Predicate: graph.IRI(sysdoc.DOAPName),
		Object:    graph.Literal("Pump"),
	}))
	assert.True(t, r.Keep(query.PropertyRow{
		Predicate: graph.IRI(sysdoc.RDFType),
		Object:    graph.IRI(sysdoc.SYSComponent),
	}))
}

func TestNewRenderer_InvalidLocale(t *testing.T) {
	_, err := NewRenderer(Options{Locale: "not a locale"})
	assert.Error(t, err)
}

func TestRender_CustomTitle(t *testing.T) {
	got := render(t, Options{Title: "Système", Tool: "docs"}, Document{GeneratedAt: generatedAt})
	assert.True(t, strings.HasPrefix(got, "=======\nSystème\n=======\n"), got)
	assert.Contains(t, got, "Generated by docs @ ")
}

func TestRender_TitlesAreSingleLine(t *testing.T) {
	doc := Document{
		GeneratedAt: generatedAt,
		Components: []Component{
			{Row: query.ComponentRow{
				Subject: graph.IRI("http://example.org/c1"),
				Name:    query.Some(graph.Literal("Feed\n  Pump\r\n")),
			}},
			{Row: query.ComponentRow{
				Subject: graph.IRI("http://example.org/c2"),
				Name:    query.Some(graph.Literal("給水ポンプ")),
			}},
			{Row: query.ComponentRow{
				Subject: graph.IRI("http://example.org/c3"),
				Name:    query.Some(graph.Literal("Pompe\u0301")),
			}},
		},
	}

	got := render(t, Options{}, doc)

	assert.Contains(t, got, "\nFeed Pump\n---------\n")
	assert.Contains(t, got, "\n給水ポンプ\n----------\n")
	assert.Contains(t, got, "\nPompe\u0301\n-----\n")
}

func TestRender_LinksAreAnonymous(t *testing.T) {
	p := graph.IRI("http://example.org/feeds")
	label := query.Some(graph.Literal("Tank"))
	doc := Document{
		GeneratedAt: generatedAt,
		Components: []Component{{
			Row: query.ComponentRow{Subject: graph.IRI("http://example.org/c1")},
			Properties: []query.PropertyRow{
				{Predicate: p, Object: graph.IRI("http://example.org/tank1"), ObjectLabel: label},
				{Predicate: p, Object: graph.IRI("http://example.org/tank2"), ObjectLabel: label},
			},
		}},
	}

	got := render(t, Options{}, doc)

	assert.Contains(t, got, "`Tank <http://example.org/tank1>`__\n")
	assert.Contains(t, got, "`Tank <http://example.org/tank2>`__\n")
	assert.NotContains(t, got, ">`_\n")
}

func TestColumnWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"Pump", 4},
		{"Système", 7},
		{"給水", 4},
		{"ＡＢ", 4},
		{"e\u0301", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, columnWidth(tt.in))
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriteError(t *testing.T) {
	r, err := NewRenderer(Options{})
	require.NoError(t, err)
	assert.Error(t, r.Render(failingWriter{}, pumpDocument()))
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"`code`", "code"},
		{"<tag>", "&lt;tag&gt;"},
		{"naïve", "na&#239;ve"},
		{"日本", "&#26085;&#26412;"},
		{"line\nbreak", "line break"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.in))
		})
	}
}
