package source

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semdoc/graph"
)

func TestParseSpec(t *testing.T) {
	tests := []struct {
		in      string
		want    Spec
		wantErr bool
	}{
		{in: "kb/schema.ttl", want: Spec{Path: "kb/schema.ttl"}},
		{in: "kb/components.n3=n3", want: Spec{Path: "kb/components.n3", Format: FormatN3}},
		{in: "kb/doap.rdf.xml=xml", want: Spec{Path: "kb/doap.rdf.xml", Format: FormatRDFXML}},
		{in: " kb/x.nt=NT ", want: Spec{Path: "kb/x.nt", Format: FormatNTriples}},
		{in: "", wantErr: true},
		{in: "=turtle", wantErr: true},
		{in: "kb/x=json", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSpec(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpecString(t *testing.T) {
	assert.Equal(t, "a.ttl", Spec{Path: "a.ttl"}.String())
	assert.Equal(t, "a.owl=turtle", Spec{Path: "a.owl", Format: FormatTurtle}.String())
}

func TestFormatFromExtension(t *testing.T) {
	tests := []struct {
		path   string
		want   Format
		wantOK bool
	}{
		{"schema.ttl", FormatTurtle, true},
		{"components.N3", FormatN3, true},
		{"facts.nt", FormatNTriples, true},
		{"rdf-schema.rdf", FormatRDFXML, true},
		{"ontology.owl", FormatRDFXML, true},
		{"notes.txt", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FormatFromExtension(tt.path)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoader_LoadTurtle(t *testing.T) {
	l := NewLoader(nil)

	g, err := l.Load(Spec{Path: "testdata/schema.ttl"})
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	assert.Equal(t, "testdata/schema.ttl", g.Name)
	assert.True(t, g.Has(graph.T(
		graph.IRI("http://cpoe.keg.unmc.edu/ns/systems#Component"),
		graph.IRI("http://www.w3.org/2000/01/rdf-schema#label"),
		graph.LangLiteral("Component", "en"),
	)))

	sys, ok := g.Namespaces.Lookup("sys")
	require.True(t, ok)
	assert.Equal(t, "http://cpoe.keg.unmc.edu/ns/systems#", sys)
}

func TestLoader_LoadNTriples(t *testing.T) {
	g, err := NewLoader(nil).Load(Spec{Path: "testdata/components.nt"})
	require.NoError(t, err)

	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Has(graph.T(
		graph.IRI("http://example.org/c1"),
		graph.IRI("http://usefulinc.com/ns/doap#name"),
		graph.Literal("Pump"),
	)))
}

func TestLoader_LoadRDFXML(t *testing.T) {
	g, err := NewLoader(nil).Load(Spec{Path: "testdata/doap.rdf", Format: FormatRDFXML})
	require.NoError(t, err)

	assert.Equal(t, 1, g.Len())
	assert.True(t, g.Has(graph.T(
		graph.IRI("http://usefulinc.com/ns/doap#name"),
		graph.IRI("http://www.w3.org/2000/01/rdf-schema#label"),
		graph.LangLiteral("name", "en"),
	)))
}

func TestLoader_LoadGlobMergesMatches(t *testing.T) {
	g, err := NewLoader(nil).Load(Spec{Path: "testdata/kb/*.ttl"})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}

func TestLoader_Decode(t *testing.T) {
	in := `<http://example.org/a> <http://example.org/b> "c"@EN .` + "\n"
	g, err := NewLoader(nil).Decode(strings.NewReader(in), "inline", FormatNTriples)
	require.NoError(t, err)
	assert.True(t, g.Has(graph.T(
		graph.IRI("http://example.org/a"),
		graph.IRI("http://example.org/b"),
		graph.LangLiteral("c", "en"),
	)))
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name string
		spec Spec
	}{
		{"missing file", Spec{Path: "testdata/missing.ttl"}},
		{"glob without matches", Spec{Path: "testdata/none/**/*.ttl"}},
		{"directory", Spec{Path: "testdata/kb"}},
		{"unknown extension", Spec{Path: "testdata/notes.txt"}},
		{"malformed turtle", Spec{Path: "testdata/broken.ttl"}},
		{"bad explicit format", Spec{Path: "testdata/schema.ttl", Format: "json"}},
		{"empty path", Spec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader(nil).Load(tt.spec)
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected LoadError, got %T", err)
		})
	}

	t.Run("missing file unwraps to not-exist", func(t *testing.T) {
		_, err := NewLoader(nil).Load(Spec{Path: "testdata/missing.ttl"})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoader_LoadAllStopsAtFirstFailure(t *testing.T) {
	_, err := NewLoader(nil).LoadAll([]Spec{
		{Path: "testdata/components.nt"},
		{Path: "testdata/missing.ttl"},
	})
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "testdata/missing.ttl", loadErr.Path)

	graphs, err := NewLoader(nil).LoadAll([]Spec{
		{Path: "testdata/components.nt"},
		{Path: "testdata/schema.ttl"},
	})
	require.NoError(t, err)
	assert.Len(t, graphs, 2)
}

func TestLoader_BlankNodesAreScopedPerFile(t *testing.T) {
	dir := t.TempDir()
	const doc = `@prefix ex: <http://example.org/> .
%s ex:part [ ex:label "seal" ] .
_:x ex:label "shared label" .
`
	pump := filepath.Join(dir, "pump.ttl")
	valve := filepath.Join(dir, "valve.ttl")
	require.NoError(t, os.WriteFile(pump, []byte(fmt.Sprintf(doc, "ex:pump")), 0644))
	require.NoError(t, os.WriteFile(valve, []byte(fmt.Sprintf(doc, "ex:valve")), 0644))

	l := NewLoader(nil)
	a, err := l.Load(Spec{Path: pump})
	require.NoError(t, err)
	b, err := l.Load(Spec{Path: valve})
	require.NoError(t, err)
	require.Equal(t, 3, a.Len())
	require.Equal(t, 3, b.Len())

	union, err := graph.Union("union", a, b)
	require.NoError(t, err)
	assert.Equal(t, 6, union.Len(), "no triple may collapse across files")

	pumpPart, ok := union.Object(graph.IRI("http://example.org/pump"), graph.IRI("http://example.org/part"))
	require.True(t, ok)
	valvePart, ok := union.Object(graph.IRI("http://example.org/valve"), graph.IRI("http://example.org/part"))
	require.True(t, ok)
	assert.True(t, pumpPart.IsBlank())
	assert.NotEqual(t, pumpPart, valvePart)

	labelled := union.Subjects(graph.IRI("http://example.org/label"), graph.Literal("shared label"))
	assert.Len(t, labelled, 2, "explicit labels are document scoped too")
}

func TestLoader_GlobScopesEachMatch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.ttl", "b.ttl"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name),
			[]byte(`_:n <http://example.org/label> "seal" .`+"\n"), 0644))
	}

	g, err := NewLoader(nil).Load(Spec{Path: filepath.Join(dir, "*.ttl")})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
}

func TestLoader_BlankLabelsRepeatForFreshLoaders(t *testing.T) {
	in := `_:n <http://example.org/label> "seal" .` + "\n"
	a, err := NewLoader(nil).Decode(strings.NewReader(in), "a", FormatNTriples)
	require.NoError(t, err)
	b, err := NewLoader(nil).Decode(strings.NewReader(in), "b", FormatNTriples)
	require.NoError(t, err)
	assert.True(t, graph.SameTriples(a, b))
}

func TestLoader_LoadAllSkipsMissingOptional(t *testing.T) {
	graphs, err := NewLoader(nil).LoadAll([]Spec{
		{Path: "testdata/missing.rdf.xml", Format: FormatRDFXML, Optional: true},
		{Path: "testdata/none/*.ttl", Optional: true},
		{Path: "testdata/doap.rdf", Format: FormatRDFXML, Optional: true},
	})
	require.NoError(t, err)
	require.Len(t, graphs, 1)
	assert.Equal(t, "testdata/doap.rdf", graphs[0].Name)

	_, err = NewLoader(nil).LoadAll([]Spec{{Path: "testdata/broken.ttl", Optional: true}})
	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr, "optional sources that exist must still decode")

	_, err = NewLoader(nil).LoadAll([]Spec{{Path: "testdata/missing.ttl"}})
	assert.ErrorIs(t, err, ErrNoMatch)
}
