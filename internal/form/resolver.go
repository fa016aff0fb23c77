package form

import (
	"slices"

	"github.com/gangsheet-builders/order-actions/internal/catalog"
)

// baseOrder is the order fields are asked in when no size is needed.
var baseOrder = []Field{
	FieldProduct,
	FieldCategory,
	FieldQuantity,
	FieldCustomerName,
	FieldCustomerEmail,
	FieldShippingMethod,
}

// Resolver decides which fields an order still needs.
type Resolver struct {
	catalog *catalog.Catalog
}

// NewResolver creates a resolver backed by c.
func NewResolver(c *catalog.Catalog) *Resolver {
	return &Resolver{catalog: c}
}

// Fields returns the full field ordering for the given values, ignoring
// which fields are set. The size is spliced in right after the quantity
// when the set product is priced by size.
func (r *Resolver) Fields(v Values) []Field {
	fields := slices.Clone(baseOrder)
	if !v.IsSet(FieldProduct) || !r.catalog.RequiresSize(v.String(FieldProduct)) {
		return fields
	}
	if i := slices.Index(fields, FieldQuantity); i >= 0 {
		return slices.Insert(fields, i+1, FieldSize)
	}
	return append(fields, FieldSize)
}

// Required returns the fields still unset, in the order they should be
// asked. An empty result means the order is complete.
func (r *Resolver) Required(v Values) []Field {
	return slices.DeleteFunc(r.Fields(v), v.IsSet)
}

// Next returns the first required field.
func (r *Resolver) Next(v Values) (Field, bool) {
	req := r.Required(v)
	if len(req) == 0 {
		return 0, false
	}
	return req[0], true
}
