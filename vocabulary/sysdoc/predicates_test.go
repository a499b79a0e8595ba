package sysdoc_test

import (
	"testing"

	"github.com/c360studio/semdoc/vocabulary/sysdoc"
	"github.com/c360studio/semstreams/vocabulary"
)

func TestPredicatesRegistered(t *testing.T) {
	predicates := []string{
		sysdoc.ComponentType,
		sysdoc.ComponentName,
		sysdoc.ComponentLabel,
	}

	for _, predicate := range predicates {
		t.Run(predicate, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(predicate)
			if meta == nil {
				t.Fatalf("predicate %q not registered", predicate)
			}
			if meta.Description == "" {
				t.Errorf("predicate %q has no description", predicate)
			}
			if meta.StandardIRI == "" {
				t.Errorf("predicate %q has no standard IRI", predicate)
			}
		})
	}
}

func TestIRI(t *testing.T) {
	tests := []struct {
		predicate string
		expected  string
	}{
		{sysdoc.ComponentType, "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"},
		{sysdoc.ComponentName, "http://usefulinc.com/ns/doap#name"},
		{sysdoc.ComponentLabel, "http://www.w3.org/2000/01/rdf-schema#label"},
	}

	for _, tc := range tests {
		t.Run(tc.predicate, func(t *testing.T) {
			got, err := sysdoc.IRI(tc.predicate)
			if err != nil {
				t.Fatalf("IRI(%q): %v", tc.predicate, err)
			}
			if got != tc.expected {
				t.Errorf("got %q, want %q", got, tc.expected)
			}
		})
	}

	if _, err := sysdoc.IRI("sysdoc.unknown.predicate"); err == nil {
		t.Error("expected error for unregistered predicate")
	}
}

func TestDefaultPrefixes(t *testing.T) {
	prefixes := sysdoc.DefaultPrefixes()
	for _, p := range []string{"rdf", "rdfs", "owl", "sys", "doap"} {
		if prefixes[p] == "" {
			t.Errorf("missing prefix %q", p)
		}
	}
}
