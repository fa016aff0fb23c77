// Package form implements the order form: the fields an order needs, which
// of them are still missing, and how raw slot values are validated.
//
// Everything here is a pure function of the current field values. The host
// tracker owns the values; this package only proposes updates.
package form

import (
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
)

// Field is one order form field.
type Field int

const (
	FieldProduct Field = iota
	FieldCategory
	FieldQuantity
	FieldSize
	FieldCustomerName
	FieldCustomerEmail
	FieldShippingMethod
)

// RequestedSlot is the host slot naming the field being asked for.
const RequestedSlot = "requested_slot"

var slotNames = [...]string{
	FieldProduct:        "product_name",
	FieldCategory:       "category",
	FieldQuantity:       "quantity",
	FieldSize:           "sheet_size",
	FieldCustomerName:   "user_name",
	FieldCustomerEmail:  "user_email",
	FieldShippingMethod: "carrier",
}

var fieldsBySlot = func() map[string]Field {
	m := make(map[string]Field, len(slotNames))
	for f, name := range slotNames {
		m[name] = Field(f)
	}
	return m
}()

// Slot returns the host slot name of f.
func (f Field) Slot() string {
	if f < 0 || int(f) >= len(slotNames) {
		return ""
	}
	return slotNames[f]
}

func (f Field) String() string {
	return f.Slot()
}

// FieldForSlot maps a host slot name back to its field.
func FieldForSlot(slot string) (Field, bool) {
	f, ok := fieldsBySlot[slot]
	return f, ok
}

// AllFields returns every form field. Submitting or cancelling an order
// clears all of them.
func AllFields() []Field {
	return []Field{
		FieldProduct, FieldCategory, FieldQuantity, FieldSize,
		FieldCustomerName, FieldCustomerEmail, FieldShippingMethod,
	}
}

// Values holds the current form values. A missing or nil entry is unset.
type Values map[Field]any

// ValuesFromSlots picks the form fields out of a host slot map.
func ValuesFromSlots(slots map[string]any) Values {
	v := make(Values, len(slotNames))
	for name, value := range slots {
		if f, ok := FieldForSlot(name); ok && value != nil {
			v[f] = value
		}
	}
	return v
}

// IsSet reports whether f holds a value.
func (v Values) IsSet(f Field) bool {
	return v[f] != nil
}

// String returns f coerced to a string, or "" when unset.
func (v Values) String(f Field) string {
	if !v.IsSet(f) {
		return ""
	}
	return toString(v[f])
}

// Number returns f as a number when it holds one or a numeric string.
func (v Values) Number(f Field) (float64, bool) {
	if !v.IsSet(f) {
		return 0, false
	}
	return parseQuantity(v[f])
}

// Apply returns a copy of v with updates applied in order.
func (v Values) Apply(updates []Update) Values {
	out := maps.Clone(v)
	if out == nil {
		out = make(Values, len(updates))
	}
	for _, u := range updates {
		if u.Value == nil {
			delete(out, u.Field)
			continue
		}
		out[u.Field] = u.Value
	}
	return out
}

// Update sets a field to Value, or clears it when Value is nil.
type Update struct {
	Field Field
	Value any
}

// ClearAll returns updates that unset every form field.
func ClearAll() []Update {
	fields := AllFields()
	out := make([]Update, len(fields))
	for i, f := range fields {
		out[i] = Update{Field: f}
	}
	return out
}

// toString coerces a slot value the way a user would read it.
func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}
