package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/semdoc/config"
	"github.com/c360studio/semdoc/source"
)

const schemaTTL = `@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix sys: <http://cpoe.keg.unmc.edu/ns/systems#> .

sys:Component a owl:Class .
sys:MonitoredComponent a owl:Class ; rdfs:subClassOf sys:Component .
`

const componentsNT = `<http://example.org/c1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://cpoe.keg.unmc.edu/ns/systems#MonitoredComponent> .
<http://example.org/c1> <http://usefulinc.com/ns/doap#name> "Pump" .
`

const doapRDF = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:rdfs="http://www.w3.org/2000/01/rdf-schema#">
  <rdf:Description rdf:about="http://usefulinc.com/ns/doap#name">
    <rdfs:label xml:lang="en">name</rdfs:label>
  </rdf:Description>
</rdf:RDF>
`

// workspace isolates HOME and the working directory and writes a schema
// and a components file into the latter.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.ttl"), []byte(schemaTTL), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "components.nt"), []byte(componentsNT), 0644))
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "semdoc version 0.1.0 (build: dev)\n", stdout)
}

func TestRun_WritesReport(t *testing.T) {
	workspace(t)

	stdout, stderr, err := execute(t, "--schema", "schema.ttl", "--components", "components.nt")
	require.NoError(t, err, stderr)

	assert.True(t, strings.HasPrefix(stdout, "===================\nComponent Reference\n"), stdout)
	assert.Contains(t, stdout, "\nPump\n----\n")
	assert.Contains(t, stdout, "   * - Inferred\n     - 1\n")
	assert.Contains(t, stderr, "run_id=")
	assert.NotContains(t, stdout, "level=")
}

func TestRun_LoadsDefaultVocabularies(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "kb"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kb", "doap.rdf.xml"), []byte(doapRDF), 0644))

	stdout, _, err := execute(t, "--schema", "schema.ttl", "--components", "components.nt", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, stdout, "   * - Additional\n     - 1\n")
}

func TestRun_DebugDump(t *testing.T) {
	workspace(t)

	_, stderr, err := execute(t, "--schema", "schema.ttl", "--components", "components.nt",
		"--debug", "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, stderr, "# 1 rules\n")
	assert.Contains(t, stderr,
		"<http://example.org/c1> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://cpoe.keg.unmc.edu/ns/systems#Component> .")
}

func TestRun_MetricsFile(t *testing.T) {
	dir := workspace(t)
	metricsPath := filepath.Join(dir, "semdoc.prom")

	_, _, err := execute(t, "--schema", "schema.ttl", "--components", "components.nt",
		"--metrics-file", metricsPath, "--log-level", "error")
	require.NoError(t, err)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "semdoc_reasoner_inferred_facts 1")
	assert.Contains(t, string(data), `semdoc_pipeline_runs_total{outcome="success"} 1`)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := workspace(t)
	cfgPath := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
sources:
  schema:
    path: schema.ttl
  components:
    path: components.nt
    format: ntriples
report:
  title: Plant Components
`), 0644))

	stdout, _, err := execute(t, "-c", cfgPath, "--log-level", "error")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "================\nPlant Components\n"), stdout)
}

func TestRun_Failures(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing schema file", []string{"--schema", "nope.ttl", "--components", "components.nt"}},
		{"bad source format", []string{"--schema", "schema.ttl=csv", "--components", "components.nt"}},
		{"bad locale", []string{"--schema", "schema.ttl", "--components", "components.nt", "--locale", "not a locale"}},
		{"fact limit exceeded", []string{"--schema", "schema.ttl", "--components", "components.nt", "--fact-limit", "1"}},
		{"missing config file", []string{"-c", "missing.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workspace(t)
			stdout, _, err := execute(t, append(tt.args, "--log-level", "error")...)
			assert.Error(t, err)
			assert.Empty(t, stdout, "no partial report on failure")
		})
	}
}

func TestRun_LoadErrorIsTyped(t *testing.T) {
	workspace(t)
	_, _, err := execute(t, "--schema", "nope.ttl", "--components", "components.nt", "--log-level", "error")

	var loadErr *source.LoadError
	assert.True(t, errors.As(err, &loadErr), "got %v", err)
}

func TestConfigInit(t *testing.T) {
	workspace(t)
	home := os.Getenv("HOME")

	stdout, _, err := execute(t, "config", "init")
	require.NoError(t, err)

	path := filepath.Join(home, config.UserConfigDir, config.UserConfigFile)
	assert.Equal(t, path+"\n", stdout)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestApplyFlags_LoadReplacesAdditional(t *testing.T) {
	cmd := rootCmd()
	require.NoError(t, cmd.ParseFlags([]string{"-l", "doap.rdf", "-l", "rdfs.ttl=turtle", "--rules", "a.mg"}))

	cfg := config.DefaultConfig()
	cfg.Sources.Additional = []source.Spec{{Path: "old.ttl"}}
	cfg.Reasoner.Rules = []string{"base.mg"}

	var f flags
	f.load, _ = cmd.Flags().GetStringArray("load")
	f.rules, _ = cmd.Flags().GetStringArray("rules")
	require.NoError(t, applyFlags(cmd, cfg, f))

	assert.Equal(t, []source.Spec{{Path: "doap.rdf"}, {Path: "rdfs.ttl", Format: source.FormatTurtle}}, cfg.Sources.Additional)
	assert.Equal(t, []string{"base.mg", "a.mg"}, cfg.Reasoner.Rules)
	assert.Equal(t, "en", cfg.Report.Locale)
}
