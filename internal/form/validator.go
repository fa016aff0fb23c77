package form

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gangsheet-builders/order-actions/internal/catalog"
	"github.com/gangsheet-builders/order-actions/internal/errors"
	"github.com/gangsheet-builders/order-actions/internal/stringutil"
)

// User-facing validation messages.
const (
	MsgUnknownProduct  = "Sorry, I don't recognize the product '%s'."
	MsgGangSheetsOnly  = "Sorry, I can only create orders for Gang Sheets and heat press jobs. For T-Shirts, please contact us directly."
	MsgInvalidQuantity = "Please enter a valid quantity (like 1, 5, or 10)."
	MsgMinimumQuantity = "The minimum order for %s is %d pieces. You entered %s."
	MsgEmptySize       = "Please choose a sheet size (like 22x12)."
	MsgInvalidSize     = "Please enter the size as width x length in inches (like 22x12)."
	MsgUnlistedSize    = "Sorry, %s is not one of our sizes for %s. Please pick a listed size, or a custom size sheet for other lengths."
	MsgUVSizeRequired  = "UV DTF Gang Sheets are printed on 11-inch film. Please pick a size that starts with 11x (like 11x12)."
	MsgDTFSizeRequired = "DTF Gang Sheets are printed on 22-inch film. Please pick a size that starts with 22x (like 22x12)."
	MsgEmptyName       = "Please enter a name."
	MsgInvalidEmail    = "That doesn't look like a valid email address. Please try again."
	MsgCancelled       = "OK, I've cancelled this order."
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// cancelWords end the form when typed in place of a name.
var cancelWords = []string{"stop", "cancel"}

// Verdict is the result of validating one raw value.
type Verdict struct {
	// Updates are the field changes to apply. A rejection clears its own
	// field; a cancellation clears every field.
	Updates []Update

	// Err is set when the value was rejected. Its Message is shown to the user.
	Err *errors.ValidationError

	// Message is shown to the user when the value was not rejected, e.g. a
	// cancellation acknowledgment.
	Message string

	// Cancelled is true when the user asked to abandon the order.
	Cancelled bool
}

// Rejected reports whether the value was refused.
func (v Verdict) Rejected() bool {
	return v.Err != nil
}

// Messages returns what the user should be told, if anything.
func (v Verdict) Messages() []string {
	switch {
	case v.Err != nil:
		return []string{v.Err.Message}
	case v.Message != "":
		return []string{v.Message}
	default:
		return nil
	}
}

// ValidateFunc checks a raw value for one field. current holds the form
// as it stands, including earlier changes in the same turn.
type ValidateFunc func(raw any, current Values) Verdict

// Validator holds one ValidateFunc per field.
type Validator struct {
	catalog *catalog.Catalog
	rules   map[Field]ValidateFunc
}

// NewValidator builds the field validators.
func NewValidator(c *catalog.Catalog) *Validator {
	v := &Validator{catalog: c}
	v.rules = map[Field]ValidateFunc{
		FieldProduct:        v.product,
		FieldCategory:       passThrough(FieldCategory),
		FieldQuantity:       v.quantity,
		FieldSize:           v.size,
		FieldCustomerName:   customerName,
		FieldCustomerEmail:  customerEmail,
		FieldShippingMethod: passThrough(FieldShippingMethod),
	}
	return v
}

// Validate checks raw for field f. A field with no rule is accepted as is.
func (v *Validator) Validate(f Field, raw any, current Values) Verdict {
	rule, ok := v.rules[f]
	if !ok {
		return accept(f, raw)
	}
	return rule(raw, current)
}

func accept(f Field, value any) Verdict {
	return Verdict{Updates: []Update{{Field: f, Value: value}}}
}

func reject(f Field, format string, args ...any) Verdict {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return Verdict{
		Updates: []Update{{Field: f}},
		Err:     errors.NewValidationError(f.Slot(), msg),
	}
}

func passThrough(f Field) ValidateFunc {
	return func(raw any, _ Values) Verdict {
		return accept(f, toString(raw))
	}
}

func (v *Validator) product(raw any, _ Values) Verdict {
	input := toString(raw)
	key := v.catalog.Fold(input)

	entry, known := v.catalog.Entry(key)
	if known && entry.Orderable {
		return accept(FieldProduct, entry.DisplayName)
	}
	if known || stringutil.ContainsAny(key, "t-shirt") {
		return reject(FieldProduct, MsgGangSheetsOnly)
	}
	return reject(FieldProduct, MsgUnknownProduct, input)
}

func (v *Validator) quantity(raw any, current Values) Verdict {
	q, ok := parseQuantity(raw)
	if !ok || q <= 0 {
		return reject(FieldQuantity, MsgInvalidQuantity)
	}
	if current.IsSet(FieldProduct) {
		if e, found := v.catalog.Lookup(current.String(FieldProduct)); found && e.MinQuantity > 0 && q < float64(e.MinQuantity) {
			return reject(FieldQuantity, MsgMinimumQuantity, e.DisplayName, e.MinQuantity, strconv.FormatFloat(q, 'f', -1, 64))
		}
	}
	return accept(FieldQuantity, q)
}

func (v *Validator) size(raw any, current Values) Verdict {
	token := catalog.NormalizeSize(toString(raw))
	if token == "" {
		return reject(FieldSize, MsgEmptySize)
	}
	if _, _, ok := catalog.ParseSize(token); !ok {
		return reject(FieldSize, MsgInvalidSize)
	}
	if !current.IsSet(FieldProduct) {
		return accept(FieldSize, token)
	}

	product := current.String(FieldProduct)
	family := catalog.FamilyDTF
	if v.productFamily(product) == catalog.FamilyUV {
		family = catalog.FamilyUV
	}
	if !strings.HasPrefix(token, family.Prefix()) {
		if family == catalog.FamilyUV {
			return reject(FieldSize, MsgUVSizeRequired)
		}
		return reject(FieldSize, MsgDTFSizeRequired)
	}

	// Listed sizes only, unless the product takes any length.
	if e, ok := v.catalog.Lookup(product); ok && e.RequiresSize && !e.CustomLength {
		if _, listed := v.catalog.Price(token); !listed {
			return reject(FieldSize, MsgUnlistedSize, token, e.DisplayName)
		}
	}
	return accept(FieldSize, token)
}

// productFamily falls back to a keyword check for products the catalog
// does not price by size.
func (v *Validator) productFamily(product string) catalog.Family {
	if e, ok := v.catalog.Lookup(product); ok && e.Family != catalog.FamilyNone {
		return e.Family
	}
	if strings.Contains(stringutil.NormalizeKey(product), "uv") {
		return catalog.FamilyUV
	}
	return catalog.FamilyDTF
}

func customerName(raw any, _ Values) Verdict {
	name := strings.TrimSpace(toString(raw))
	for _, w := range cancelWords {
		if strings.EqualFold(name, w) {
			return Verdict{Updates: ClearAll(), Message: MsgCancelled, Cancelled: true}
		}
	}
	if name == "" {
		return reject(FieldCustomerName, MsgEmptyName)
	}
	return accept(FieldCustomerName, stringutil.Title(name))
}

func customerEmail(raw any, _ Values) Verdict {
	email := strings.TrimSpace(toString(raw))
	if !emailPattern.MatchString(email) {
		return reject(FieldCustomerEmail, MsgInvalidEmail)
	}
	return accept(FieldCustomerEmail, email)
}

// parseQuantity accepts numbers and numeric strings. Fractions are allowed.
func parseQuantity(raw any) (float64, bool) {
	var q float64
	switch x := raw.(type) {
	case float64:
		q = x
	case float32:
		q = float64(x)
	case int:
		q = float64(x)
	case int64:
		q = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, false
		}
		q = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		q = f
	default:
		return 0, false
	}
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0, false
	}
	return q, true
}
