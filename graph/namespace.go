package graph

import (
	"fmt"
	"sort"
	"strings"
)

// Namespaces is a prefix binding table. It is only used to expand and
// compact names for queries and serialization; it has no effect on triples.
type Namespaces struct {
	prefixes map[string]string
}

// NewNamespaces returns an empty binding table.
func NewNamespaces() *Namespaces {
	return &Namespaces{prefixes: make(map[string]string)}
}

// Bind associates prefix with a namespace IRI, replacing any earlier binding.
func (n *Namespaces) Bind(prefix, iri string) {
	n.prefixes[prefix] = iri
}

// BindIfAbsent binds prefix only when it is not yet bound.
func (n *Namespaces) BindIfAbsent(prefix, iri string) bool {
	if _, ok := n.prefixes[prefix]; ok {
		return false
	}
	n.prefixes[prefix] = iri
	return true
}

// Lookup returns the namespace bound to prefix.
func (n *Namespaces) Lookup(prefix string) (string, bool) {
	iri, ok := n.prefixes[prefix]
	return iri, ok
}

// Len returns the number of bound prefixes.
func (n *Namespaces) Len() int { return len(n.prefixes) }

// Prefixes returns the bound prefixes in sorted order.
func (n *Namespaces) Prefixes() []string {
	out := make([]string, 0, len(n.prefixes))
	for p := range n.prefixes {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Expand turns a prefixed name such as "rdf:type" into a full IRI.
func (n *Namespaces) Expand(curie string) (string, error) {
	prefix, local, ok := strings.Cut(curie, ":")
	if !ok {
		return "", fmt.Errorf("not a prefixed name: %s", curie)
	}
	ns, ok := n.prefixes[prefix]
	if !ok {
		return "", fmt.Errorf("unbound prefix %q in %s", prefix, curie)
	}
	return ns + local, nil
}

// Compact returns the shortest prefixed form of iri, or iri unchanged when
// no namespace matches. Ties go to the lexically smaller prefix.
func (n *Namespaces) Compact(iri string) string {
	best, bestNS := "", ""
	for _, prefix := range n.Prefixes() {
		ns := n.prefixes[prefix]
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			best, bestNS = prefix, ns
		}
	}
	if bestNS == "" {
		return iri
	}
	return best + ":" + strings.TrimPrefix(iri, bestNS)
}

// Clone returns an independent copy.
func (n *Namespaces) Clone() *Namespaces {
	c := NewNamespaces()
	for p, iri := range n.prefixes {
		c.prefixes[p] = iri
	}
	return c
}
