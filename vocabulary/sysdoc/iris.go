package sysdoc

import "github.com/c360studio/semstreams/vocabulary"

// Namespace IRIs.
const (
	RDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS = "http://www.w3.org/2000/01/rdf-schema#"
	OWL  = "http://www.w3.org/2002/07/owl#"
	XSD  = "http://www.w3.org/2001/XMLSchema#"

	// SYS is the systems vocabulary in which components are typed.
	SYS = "http://cpoe.keg.unmc.edu/ns/systems#"

	// DOAP is the Description of a Project vocabulary.
	DOAP = "http://usefulinc.com/ns/doap#"
)

// RDF and RDFS terms.
const (
	RDFType  = RDF + "type"
	RDFFirst = RDF + "first"
	RDFRest  = RDF + "rest"
	RDFNil   = RDF + "nil"

	RDFSLabel         = vocabulary.RdfsLabel
	RDFSSubClassOf    = RDFS + "subClassOf"
	RDFSSubPropertyOf = RDFS + "subPropertyOf"
	RDFSDomain        = RDFS + "domain"
	RDFSRange         = RDFS + "range"
)

// OWL terms understood by the reasoner.
const (
	OWLThing              = OWL + "Thing"
	OWLEquivalentClass    = vocabulary.OwlEquivalentClass
	OWLEquivalentProperty = vocabulary.OwlEquivalentProperty
	OWLIntersectionOf     = OWL + "intersectionOf"
	OWLUnionOf            = OWL + "unionOf"
	OWLComplementOf       = OWL + "complementOf"
	OWLRestriction        = OWL + "Restriction"
	OWLOnProperty         = OWL + "onProperty"
	OWLSomeValuesFrom     = OWL + "someValuesFrom"
	OWLAllValuesFrom      = OWL + "allValuesFrom"
	OWLHasValue           = OWL + "hasValue"
	OWLInverseOf          = OWL + "inverseOf"
	OWLTransitiveProperty = OWL + "TransitiveProperty"
	OWLSymmetricProperty  = OWL + "SymmetricProperty"

	// OWLNamedIndividual is a typing artifact of ontology editors. It is
	// never shown in reports.
	OWLNamedIndividual = OWL + "NamedIndividual"
)

// Report terms.
const (
	// SYSComponent is the class whose instances get a report section.
	SYSComponent = SYS + "Component"

	// DOAPName is the display name of a component.
	DOAPName = DOAP + "name"
)

// DefaultPrefixes returns the prefix bindings attached to loaded graphs.
func DefaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":  RDF,
		"rdfs": RDFS,
		"owl":  OWL,
		"xsd":  XSD,
		"sys":  SYS,
		"doap": DOAP,
	}
}
