package report

import (
	"fmt"
	"strconv"

	"github.com/c360studio/semdoc/output/rest"
)

// GraphCount is the size of one input graph.
type GraphCount struct {
	Name    string
	Triples int
}

// Summary holds the triple counts shown at the top of a report.
type Summary struct {
	Schema     int
	Components int

	// Additional is the sum over AdditionalGraphs.
	Additional       int
	AdditionalGraphs []GraphCount

	Inferred int

	// Subtotal adds up the parts, counting a triple once per graph that
	// holds it.
	Subtotal int

	// BaseTotal is the size of the asserted union.
	BaseTotal int

	// UnionTotal is the size of the asserted union plus inferred facts.
	UnionTotal int
}

// Validate checks the arithmetic relations between the counts. A failure
// means the assembly is inconsistent and the report must not be emitted.
func (s Summary) Validate() error {
	additional := 0
	for _, g := range s.AdditionalGraphs {
		additional += g.Triples
	}
	if additional != s.Additional {
		return fmt.Errorf("summary: additional graphs sum to %d, reported %d", additional, s.Additional)
	}
	if want := s.Schema + s.Components + s.Additional + s.Inferred; s.Subtotal != want {
		return fmt.Errorf("summary: subtotal %d does not equal sum of parts %d", s.Subtotal, want)
	}
	if s.BaseTotal > s.Schema+s.Components+s.Additional {
		return fmt.Errorf("summary: base total %d exceeds asserted parts", s.BaseTotal)
	}
	if s.UnionTotal != s.BaseTotal+s.Inferred {
		return fmt.Errorf("summary: union total %d is not base %d plus inferred %d",
			s.UnionTotal, s.BaseTotal, s.Inferred)
	}
	return nil
}

const separator = "------"

// Rows lays the summary out as the report's Graph/Count table.
func (s Summary) Rows() []rest.SummaryRow {
	count := func(label string, n int) rest.SummaryRow {
		return rest.SummaryRow{Label: label, Value: strconv.Itoa(n)}
	}
	sep := rest.SummaryRow{Label: separator, Value: separator}
	return []rest.SummaryRow{
		count("Schema", s.Schema),
		count("Components", s.Components),
		count("Additional", s.Additional),
		sep,
		count("Inferred", s.Inferred),
		sep,
		count("Subtotal", s.Subtotal),
		sep,
		count("Union Total", s.UnionTotal),
	}
}
