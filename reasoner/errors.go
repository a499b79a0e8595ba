package reasoner

import (
	"errors"
	"fmt"
)

// SchemaError reports a schema that could not be normalized or a rule
// network that could not be built. No inference is attempted.
type SchemaError struct {
	// Source is the offending axiom in N-Triples form or a rule file path.
	Source string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("schema error: %v", e.Err)
	}
	return fmt.Sprintf("schema error at %s: %v", e.Source, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// InferenceError reports a forward-chaining run that failed or produced an
// unusable fact set. The run has no partial result.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// errUnsupported marks well-formed constructs outside the rule fragment.
// Axioms that hit it are skipped, not rejected.
var errUnsupported = errors.New("construct not expressible as a rule")

func unsupported(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUnsupported, fmt.Sprintf(format, args...))
}
