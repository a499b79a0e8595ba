// Package sysdoc provides the IRIs and report predicates used by semdoc.
//
// It covers the W3C vocabularies the reasoner normalizes (RDF, RDFS, OWL),
// the systems vocabulary that types components (sys:Component), and DOAP,
// which supplies component names.
//
// Report predicates are registered with the semstreams predicate registry in
// init() so their standard IRIs can be resolved by dotted name:
//
//	iri := sysdoc.MustIRI(sysdoc.ComponentName) // doap:name
//
// Import this package to auto-register predicates:
//
//	import _ "github.com/c360studio/semdoc/vocabulary/sysdoc"
package sysdoc
