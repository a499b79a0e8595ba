package reasoner

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/c360studio/semdoc/graph"
	"github.com/c360studio/semdoc/vocabulary/sysdoc"
)

// Class expressions recognized in a schema graph.
type (
	classExpr interface{ isClassExpr() }

	namedClass   struct{ iri graph.Term }
	intersection struct{ members []classExpr }
	union        struct{ members []classExpr }
	someValues   struct {
		prop   graph.Term
		filler classExpr
	}
	allValues struct {
		prop   graph.Term
		filler classExpr
	}
	hasValue struct {
		prop  graph.Term
		value graph.Term
	}
	// opaque is a well-formed expression with no Horn rendering.
	opaque struct{ reason string }
)

func (namedClass) isClassExpr()   {}
func (intersection) isClassExpr() {}
func (union) isClassExpr()        {}
func (someValues) isClassExpr()   {}
func (allValues) isClassExpr()    {}
func (hasValue) isClassExpr()     {}
func (opaque) isClassExpr()       {}

var (
	rdfType        = graph.IRI(sysdoc.RDFType)
	rdfFirst       = graph.IRI(sysdoc.RDFFirst)
	rdfRest        = graph.IRI(sysdoc.RDFRest)
	rdfNil         = graph.IRI(sysdoc.RDFNil)
	subClassOf     = graph.IRI(sysdoc.RDFSSubClassOf)
	subPropertyOf  = graph.IRI(sysdoc.RDFSSubPropertyOf)
	domain         = graph.IRI(sysdoc.RDFSDomain)
	rangeOf        = graph.IRI(sysdoc.RDFSRange)
	equivClass     = graph.IRI(sysdoc.OWLEquivalentClass)
	equivProperty  = graph.IRI(sysdoc.OWLEquivalentProperty)
	intersectionOf = graph.IRI(sysdoc.OWLIntersectionOf)
	unionOf        = graph.IRI(sysdoc.OWLUnionOf)
	complementOf   = graph.IRI(sysdoc.OWLComplementOf)
	restriction    = graph.IRI(sysdoc.OWLRestriction)
	onProperty     = graph.IRI(sysdoc.OWLOnProperty)
	someValuesFrom = graph.IRI(sysdoc.OWLSomeValuesFrom)
	allValuesFrom  = graph.IRI(sysdoc.OWLAllValuesFrom)
	hasValueProp   = graph.IRI(sysdoc.OWLHasValue)
	inverseOf      = graph.IRI(sysdoc.OWLInverseOf)
	transitive     = graph.IRI(sysdoc.OWLTransitiveProperty)
	symmetric      = graph.IRI(sysdoc.OWLSymmetricProperty)
	owlThing       = graph.IRI(sysdoc.OWLThing)
)

// Cardinality constraints are recognized only so they can be skipped.
var cardinalityProps = []string{
	sysdoc.OWL + "cardinality",
	sysdoc.OWL + "minCardinality",
	sysdoc.OWL + "maxCardinality",
	sysdoc.OWL + "qualifiedCardinality",
	sysdoc.OWL + "minQualifiedCardinality",
	sysdoc.OWL + "maxQualifiedCardinality",
}

// normalizer turns the axioms of one schema graph into Horn rules.
type normalizer struct {
	schema  *graph.Graph
	logger  *slog.Logger
	rules   []Rule
	seen    map[string]bool
	skipped int
	nextVar int
}

// Normalize compiles the schema's class and property axioms into Horn rules
// over triple/3. Axioms outside the Horn fragment are skipped. Malformed
// axioms fail with a SchemaError.
func Normalize(schema *graph.Graph, logger *slog.Logger) ([]Rule, error) {
	if logger == nil {
		logger = slog.Default()
	}
	n := &normalizer{schema: schema, logger: logger, seen: make(map[string]bool)}
	for _, t := range schema.Triples() {
		if err := n.axiom(t); err != nil {
			if errors.Is(err, errUnsupported) {
				n.skipped++
				logger.Debug("Skipped axiom", slog.String("axiom", t.String()), slog.String("reason", err.Error()))
				continue
			}
			return nil, &SchemaError{Source: t.String(), Err: err}
		}
	}
	logger.Debug("Normalized schema",
		slog.String("graph", schema.Name),
		slog.Int("rules", len(n.rules)),
		slog.Int("skipped", n.skipped))
	return n.rules, nil
}

func (n *normalizer) axiom(t graph.Triple) error {
	switch t.P {
	case subClassOf:
		return n.subsumption(t.S, t.O)
	case equivClass:
		if err := n.subsumption(t.S, t.O); err != nil {
			return err
		}
		return n.subsumption(t.O, t.S)
	case intersectionOf, unionOf:
		// Only named definitions are axioms; anonymous ones are operands.
		if !t.S.IsIRI() {
			return nil
		}
		return n.defined(t.S)
	case subPropertyOf:
		p, q, err := n.properties(t)
		if err != nil {
			return err
		}
		n.propertyImplies(p, q)
	case equivProperty:
		p, q, err := n.properties(t)
		if err != nil {
			return err
		}
		n.propertyImplies(p, q)
		n.propertyImplies(q, p)
	case inverseOf:
		p, q, err := n.properties(t)
		if err != nil {
			return err
		}
		x, y := n.fresh(), n.fresh()
		n.add(Rule{Head: Atom{Var(y), Const(q), Var(x)}, Body: []Atom{{Var(x), Const(p), Var(y)}}})
		n.add(Rule{Head: Atom{Var(y), Const(p), Var(x)}, Body: []Atom{{Var(x), Const(q), Var(y)}}})
	case domain, rangeOf:
		if !t.S.IsIRI() {
			return unsupported("property expression %s", t.S)
		}
		c, err := n.classExpr(t.O, nil)
		if err != nil {
			return err
		}
		x, y := n.fresh(), n.fresh()
		body := []Atom{{Var(x), Const(t.S), Var(y)}}
		target := x
		if t.P == rangeOf {
			target = y
		}
		return n.head(c, target, body)
	case rdfType:
		switch t.O {
		case transitive:
			if !t.S.IsIRI() {
				return unsupported("property expression %s", t.S)
			}
			x, y, z := n.fresh(), n.fresh(), n.fresh()
			n.add(Rule{
				Head: Atom{Var(x), Const(t.S), Var(z)},
				Body: []Atom{{Var(x), Const(t.S), Var(y)}, {Var(y), Const(t.S), Var(z)}},
			})
		case symmetric:
			if !t.S.IsIRI() {
				return unsupported("property expression %s", t.S)
			}
			x, y := n.fresh(), n.fresh()
			n.add(Rule{Head: Atom{Var(y), Const(t.S), Var(x)}, Body: []Atom{{Var(x), Const(t.S), Var(y)}}})
		case restriction:
			// Restrictions are validated wherever they are used, and also
			// here so that dangling ones are caught.
			_, err := n.classExpr(t.S, nil)
			return err
		}
	}
	return nil
}

// defined compiles both directions of a named class definition. The
// class-to-definition direction is dropped when it has no Horn form.
func (n *normalizer) defined(c graph.Term) error {
	def, err := n.definition(c)
	if err != nil || def == nil {
		return err
	}
	if err := n.subsume(namedClass{c}, def); err != nil && !errors.Is(err, errUnsupported) {
		return err
	}
	return n.subsume(def, namedClass{c})
}

// subsumption compiles "sub is subsumed by sup".
func (n *normalizer) subsumption(sub, sup graph.Term) error {
	subExpr, err := n.classExpr(sub, nil)
	if err != nil {
		return err
	}
	supExpr, err := n.classExpr(sup, nil)
	if err != nil {
		return err
	}
	return n.subsume(subExpr, supExpr)
}

func (n *normalizer) subsume(sub, sup classExpr) error {
	x := n.fresh()
	bodies, err := n.body(sub, x)
	if err != nil {
		return err
	}
	for _, body := range bodies {
		if err := n.head(sup, x, body); err != nil {
			return err
		}
	}
	return nil
}

// definition returns the intersection or union a named class is defined by.
func (n *normalizer) definition(c graph.Term) (classExpr, error) {
	if list, ok := n.schema.Object(c, intersectionOf); ok {
		members, err := n.members(list, nil)
		if err != nil {
			return nil, err
		}
		return intersection{members}, nil
	}
	if list, ok := n.schema.Object(c, unionOf); ok {
		members, err := n.members(list, nil)
		if err != nil {
			return nil, err
		}
		return union{members}, nil
	}
	return nil, nil
}

func (n *normalizer) properties(t graph.Triple) (graph.Term, graph.Term, error) {
	if !t.S.IsIRI() || !t.O.IsIRI() {
		return graph.Term{}, graph.Term{}, unsupported("property expression in %s", t.P)
	}
	return t.S, t.O, nil
}

func (n *normalizer) propertyImplies(p, q graph.Term) {
	x, y := n.fresh(), n.fresh()
	n.add(Rule{Head: Atom{Var(x), Const(q), Var(y)}, Body: []Atom{{Var(x), Const(p), Var(y)}}})
}

// classExpr parses the class expression rooted at node. visiting guards
// against cyclic blank-node structures.
func (n *normalizer) classExpr(node graph.Term, visiting map[graph.Term]bool) (classExpr, error) {
	switch {
	case node.IsIRI():
		return namedClass{node}, nil
	case node.IsLiteral():
		return nil, fmt.Errorf("literal %s used as a class", node)
	}

	if visiting[node] {
		return nil, fmt.Errorf("cyclic class expression at %s", node)
	}
	if visiting == nil {
		visiting = make(map[graph.Term]bool)
	}
	visiting[node] = true
	defer delete(visiting, node)

	if list, ok := n.schema.Object(node, intersectionOf); ok {
		members, err := n.members(list, visiting)
		if err != nil {
			return nil, err
		}
		return intersection{members}, nil
	}
	if list, ok := n.schema.Object(node, unionOf); ok {
		members, err := n.members(list, visiting)
		if err != nil {
			return nil, err
		}
		return union{members}, nil
	}
	if _, ok := n.schema.Object(node, complementOf); ok {
		return opaque{"complementOf"}, nil
	}

	prop, hasProp := n.schema.Object(node, onProperty)
	isRestriction := n.schema.Has(graph.T(node, rdfType, restriction))
	if !hasProp {
		if isRestriction {
			return nil, fmt.Errorf("restriction %s has no owl:onProperty", node)
		}
		return opaque{"undefined anonymous class " + node.String()}, nil
	}
	if !prop.IsIRI() {
		return opaque{"restriction on property expression " + prop.String()}, nil
	}

	if filler, ok := n.schema.Object(node, someValuesFrom); ok {
		f, err := n.classExpr(filler, visiting)
		if err != nil {
			return nil, err
		}
		return someValues{prop: prop, filler: f}, nil
	}
	if filler, ok := n.schema.Object(node, allValuesFrom); ok {
		f, err := n.classExpr(filler, visiting)
		if err != nil {
			return nil, err
		}
		return allValues{prop: prop, filler: f}, nil
	}
	if v, ok := n.schema.Object(node, hasValueProp); ok {
		return hasValue{prop: prop, value: v}, nil
	}
	for _, c := range cardinalityProps {
		if _, ok := n.schema.Object(node, graph.IRI(c)); ok {
			return opaque{"cardinality restriction"}, nil
		}
	}
	return nil, fmt.Errorf("restriction %s on %s has no value constraint", node, prop)
}

// members parses an RDF collection of class expressions.
func (n *normalizer) members(head graph.Term, visiting map[graph.Term]bool) ([]classExpr, error) {
	items, err := n.list(head)
	if err != nil {
		return nil, err
	}
	out := make([]classExpr, 0, len(items))
	for _, item := range items {
		c, err := n.classExpr(item, visiting)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// list walks an rdf:first/rdf:rest collection.
func (n *normalizer) list(head graph.Term) ([]graph.Term, error) {
	var items []graph.Term
	seen := make(map[graph.Term]bool)
	for node := head; node != rdfNil; {
		if node.IsLiteral() {
			return nil, fmt.Errorf("malformed list: literal %s in list position", node)
		}
		if seen[node] {
			return nil, fmt.Errorf("malformed list: cycle at %s", node)
		}
		seen[node] = true

		first, ok := n.schema.Object(node, rdfFirst)
		if !ok {
			return nil, fmt.Errorf("malformed list: %s has no rdf:first", node)
		}
		rest, ok := n.schema.Object(node, rdfRest)
		if !ok {
			return nil, fmt.Errorf("malformed list: %s has no rdf:rest", node)
		}
		items = append(items, first)
		node = rest
	}
	return items, nil
}

// body compiles a class expression in rule-body position into alternative
// conjunctions over v.
func (n *normalizer) body(c classExpr, v string) ([][]Atom, error) {
	switch c := c.(type) {
	case namedClass:
		return [][]Atom{{TypeAtom(v, c.iri)}}, nil
	case intersection:
		alts := [][]Atom{nil}
		for _, m := range c.members {
			mAlts, err := n.body(m, v)
			if err != nil {
				return nil, err
			}
			var next [][]Atom
			for _, a := range alts {
				for _, b := range mAlts {
					next = append(next, concat(a, b))
				}
			}
			alts = next
		}
		return alts, nil
	case union:
		var alts [][]Atom
		for _, m := range c.members {
			mAlts, err := n.body(m, v)
			if err != nil {
				return nil, err
			}
			alts = append(alts, mAlts...)
		}
		return alts, nil
	case someValues:
		y := n.fresh()
		edge := Atom{Var(v), Const(c.prop), Var(y)}
		if f, ok := c.filler.(namedClass); ok && f.iri == owlThing {
			return [][]Atom{{edge}}, nil
		}
		fAlts, err := n.body(c.filler, y)
		if err != nil {
			return nil, err
		}
		alts := make([][]Atom, 0, len(fAlts))
		for _, f := range fAlts {
			alts = append(alts, concat([]Atom{edge}, f))
		}
		return alts, nil
	case hasValue:
		return [][]Atom{{{Var(v), Const(c.prop), Const(c.value)}}}, nil
	case allValues:
		return nil, unsupported("allValuesFrom in a subclass position")
	case opaque:
		return nil, unsupported("%s", c.reason)
	default:
		return nil, fmt.Errorf("unknown class expression %T", c)
	}
}

// head compiles a class expression in rule-head position about v and adds
// the resulting rules.
func (n *normalizer) head(c classExpr, v string, body []Atom) error {
	switch c := c.(type) {
	case namedClass:
		if c.iri == owlThing {
			return nil
		}
		n.add(Rule{Head: TypeAtom(v, c.iri), Body: body})
		return nil
	case intersection:
		for _, m := range c.members {
			if err := n.head(m, v, body); err != nil {
				return err
			}
		}
		return nil
	case allValues:
		y := n.fresh()
		return n.head(c.filler, y, concat(body, []Atom{{Var(v), Const(c.prop), Var(y)}}))
	case hasValue:
		n.add(Rule{Head: Atom{Var(v), Const(c.prop), Const(c.value)}, Body: body})
		return nil
	case union:
		return unsupported("unionOf in a superclass position")
	case someValues:
		return unsupported("someValuesFrom in a superclass position")
	case opaque:
		return unsupported("%s", c.reason)
	default:
		return fmt.Errorf("unknown class expression %T", c)
	}
}

func (n *normalizer) add(r Rule) {
	if r.trivial() {
		return
	}
	r = r.canonical()
	key := r.String()
	if n.seen[key] {
		return
	}
	n.seen[key] = true
	n.rules = append(n.rules, r)
}

func (n *normalizer) fresh() string {
	v := "V" + strconv.Itoa(n.nextVar)
	n.nextVar++
	return v
}

func concat(a, b []Atom) []Atom {
	out := make([]Atom, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
