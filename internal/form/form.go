package form

import "github.com/gangsheet-builders/order-actions/internal/catalog"

// Candidate is a raw slot value extracted by the host in this turn.
type Candidate struct {
	Field Field
	Value any
}

// Turn is the outcome of validating one turn's candidates.
type Turn struct {
	// Updates are the field changes in the order they were decided.
	Updates []Update

	// Messages are user-facing texts, in order.
	Messages []string

	// Values is the form after Updates.
	Values Values

	// Requested is the next field to ask for. It is nil when the form is
	// complete or was cancelled.
	Requested *Field

	// Rejected lists the fields whose candidate was refused.
	Rejected []Field

	Cancelled bool
}

// Form ties the validator and the resolver together.
type Form struct {
	Resolver  *Resolver
	Validator *Validator
}

// New creates a form backed by c.
func New(c *catalog.Catalog) *Form {
	return &Form{
		Resolver:  NewResolver(c),
		Validator: NewValidator(c),
	}
}

// Process validates candidates against current in order. Each validator
// sees the values left by the ones before it. A cancellation stops
// processing and leaves nothing requested.
//
// A nil candidate value is a clear issued by the host and is applied
// without validation.
func (f *Form) Process(current Values, candidates []Candidate) Turn {
	t := Turn{Values: current.Apply(nil)}

	for _, c := range candidates {
		if c.Value == nil {
			t.record([]Update{{Field: c.Field}})
			continue
		}

		v := f.Validator.Validate(c.Field, c.Value, t.Values)
		t.record(v.Updates)
		t.Messages = append(t.Messages, v.Messages()...)
		if v.Rejected() {
			t.Rejected = append(t.Rejected, c.Field)
		}
		if v.Cancelled {
			t.Cancelled = true
			return t
		}
	}

	if next, ok := f.Resolver.Next(t.Values); ok {
		t.Requested = &next
	}
	return t
}

func (t *Turn) record(updates []Update) {
	t.Updates = append(t.Updates, updates...)
	t.Values = t.Values.Apply(updates)
}
