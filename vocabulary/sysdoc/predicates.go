package sysdoc

import (
	"fmt"

	"github.com/c360studio/semstreams/vocabulary"
)

// Report predicates in dotted notation.
const (
	// ComponentType selects report components by class membership.
	ComponentType = "sysdoc.component.type"

	// ComponentName is the section title of a component.
	ComponentName = "sysdoc.component.name"

	// ComponentLabel is the fallback title and the label of predicates and
	// objects in component tables.
	ComponentLabel = "sysdoc.component.label"
)

func init() {
	vocabulary.Register(ComponentType,
		vocabulary.WithDescription("Class membership used to select report components"),
		vocabulary.WithDataType("iri"),
		vocabulary.WithIRI(RDFType))

	vocabulary.Register(ComponentName,
		vocabulary.WithDescription("Display name shown as the component section title"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(DOAPName),
		vocabulary.WithAlias(vocabulary.AliasTypeLabel, 0))

	vocabulary.Register(ComponentLabel,
		vocabulary.WithDescription("Human-readable label for components, predicates and objects"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(RDFSLabel),
		vocabulary.WithAlias(vocabulary.AliasTypeLabel, 1))
}

// IRI returns the standard IRI registered for a dotted predicate.
func IRI(predicate string) (string, error) {
	meta := vocabulary.GetPredicateMetadata(predicate)
	if meta == nil {
		return "", fmt.Errorf("predicate %q not registered", predicate)
	}
	if meta.StandardIRI == "" {
		return "", fmt.Errorf("predicate %q has no standard IRI", predicate)
	}
	return meta.StandardIRI, nil
}

// MustIRI is IRI for predicates registered by this package. It panics when
// the registry has been cleared.
func MustIRI(predicate string) string {
	iri, err := IRI(predicate)
	if err != nil {
		panic(err)
	}
	return iri
}
