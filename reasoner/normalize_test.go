package reasoner

import (
	"testing"
)

func TestNormalize_RuleText(t *testing.T) {
	schema := load(t, "schema", `sys:MonitoredComponent rdfs:subClassOf sys:Component .`)

	rules, err := Normalize(schema, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("Normalize() returned %d rules, want 1", len(rules))
	}

	want := `triple(V0, "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>", "<http://cpoe.keg.unmc.edu/ns/systems#Component>") :- ` +
		`triple(V0, "<http://www.w3.org/1999/02/22-rdf-syntax-ns#type>", "<http://cpoe.keg.unmc.edu/ns/systems#MonitoredComponent>").`
	if got := rules[0].String(); got != want {
		t.Errorf("rule = %s\nwant   %s", got, want)
	}
}

func TestNormalize_DedupesEquivalentAxioms(t *testing.T) {
	schema := load(t, "schema", `
ex:A owl:equivalentClass ex:B .
ex:B owl:equivalentClass ex:A .
ex:A rdfs:subClassOf ex:B .`)

	rules, err := Normalize(schema, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(rules) != 2 {
		t.Errorf("Normalize() returned %d rules, want 2", len(rules))
	}
}

func TestNormalize_SkipsReflexiveSubclass(t *testing.T) {
	schema := load(t, "schema", `ex:A rdfs:subClassOf ex:A .`)

	rules, err := Normalize(schema, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("Normalize() returned %v, want no rules", rules)
	}
}

func TestNormalize_SkipsNonHornSuperclass(t *testing.T) {
	schema := load(t, "schema", `
_:r a owl:Restriction ; owl:onProperty ex:monitors ; owl:someValuesFrom ex:Device .
ex:Monitor rdfs:subClassOf _:r .
_:c owl:minCardinality 1 ; owl:onProperty ex:hasPart .
ex:Pump rdfs:subClassOf _:c .`)

	rules, err := Normalize(schema, nil)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if len(rules) != 0 {
		t.Errorf("Normalize() returned %v, want no rules", rules)
	}
}

func TestRule_Canonical(t *testing.T) {
	r := Rule{
		Head: Atom{Var("V7"), Const(ex("p")), Var("V3")},
		Body: []Atom{{Var("V3"), Const(ex("q")), Var("V7")}},
	}
	got := r.canonical()
	if got.Head.S.Var != "V0" || got.Head.O.Var != "V1" {
		t.Errorf("canonical head = %s", got.Head)
	}
	if got.Body[0].S.Var != "V1" || got.Body[0].O.Var != "V0" {
		t.Errorf("canonical body = %s", got.Body[0])
	}
}
