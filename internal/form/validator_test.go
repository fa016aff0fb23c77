package form

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gangsheet-builders/order-actions/internal/catalog"
)

func newTestValidator() *Validator {
	return NewValidator(catalog.Default())
}

// acceptedValue returns the value a verdict stored for f.
func acceptedValue(t *testing.T, v Verdict, f Field) any {
	t.Helper()
	require.False(t, v.Rejected(), "unexpected rejection: %v", v.Err)
	require.Len(t, v.Updates, 1)
	require.Equal(t, f, v.Updates[0].Field)
	return v.Updates[0].Value
}

func assertRejected(t *testing.T, v Verdict, f Field, msg string) {
	t.Helper()
	require.True(t, v.Rejected(), "expected rejection")
	assert.Equal(t, []Update{{Field: f}}, v.Updates)
	assert.Equal(t, f.Slot(), v.Err.Field)
	assert.Equal(t, []string{msg}, v.Messages())
}

func TestValidateProduct(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		input string
		want  string
	}{
		{"DTF Sheet", "Dtf Custom Gang Sheet"},
		{"uv sheet", "Uv Dtf Gang Sheet"},
		{"UV DTF sheet", "Uv Dtf Gang Sheet"},
		{"uv gang sheet", "Uv Dtf Gang Sheet"},
		{"print by size", "Print By Size"},
		{"  DTF Fluorescent Gang Sheets ", "Dtf Fluorescent Gang Sheets"},
		{"dtf + heat press", "Dtf + Heat Press"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := acceptedValue(t, v.Validate(FieldProduct, tt.input, Values{}), FieldProduct)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateProduct_IdempotentOnOwnOutput(t *testing.T) {
	v := newTestValidator()
	for _, input := range []string{"DTF Sheet", "uv gang", "custom size dtf gang sheet", "dtf + heat press"} {
		first := acceptedValue(t, v.Validate(FieldProduct, input, Values{}), FieldProduct)
		second := acceptedValue(t, v.Validate(FieldProduct, first, Values{}), FieldProduct)
		assert.Equal(t, first, second, input)
	}
}

func TestValidateProduct_Rejections(t *testing.T) {
	v := newTestValidator()

	assertRejected(t, v.Validate(FieldProduct, "banana", Values{}), FieldProduct,
		"Sorry, I don't recognize the product 'banana'.")
	assertRejected(t, v.Validate(FieldProduct, "6 Pack T-Shirts", Values{}), FieldProduct, MsgGangSheetsOnly)
	assertRejected(t, v.Validate(FieldProduct, "some t-shirts", Values{}), FieldProduct, MsgGangSheetsOnly)

	// UV wording that merely contains "dtf sheet" is not the fabric product.
	assertRejected(t, v.Validate(FieldProduct, "uv-dtf sheet", Values{}), FieldProduct,
		"Sorry, I don't recognize the product 'uv-dtf sheet'.")
	assertRejected(t, v.Validate(FieldProduct, "dtf sheet uv", Values{}), FieldProduct,
		"Sorry, I don't recognize the product 'dtf sheet uv'.")
}

func TestValidateProduct_HeatPressIsOrderable(t *testing.T) {
	v := newTestValidator()
	for _, input := range []string{"heat press", "Heat press only", "dtf + heat press"} {
		assert.Equal(t, "Dtf + Heat Press", acceptedValue(t, v.Validate(FieldProduct, input, Values{}), FieldProduct), input)
	}
	assert.NotContains(t, MsgGangSheetsOnly, "Heat Press")
}

func TestValidateQuantity(t *testing.T) {
	v := newTestValidator()

	accepted := []struct {
		raw  any
		want float64
	}{
		{1.0, 1},
		{"5", 5},
		{" 2.5 ", 2.5},
		{json.Number("10"), 10},
		{3, 3},
		{0.5, 0.5},
	}
	for _, tt := range accepted {
		got := acceptedValue(t, v.Validate(FieldQuantity, tt.raw, Values{}), FieldQuantity)
		assert.Equal(t, tt.want, got, "raw %v", tt.raw)
	}

	for _, raw := range []any{0.0, -1.0, "0", "-3", "ten", "", "NaN", true, []any{1}} {
		assertRejected(t, v.Validate(FieldQuantity, raw, Values{}), FieldQuantity, MsgInvalidQuantity)
	}
}

func TestValidateQuantity_MinimumFloor(t *testing.T) {
	v := newTestValidator()
	current := Values{FieldProduct: "Dtf + Heat Press"}

	assertRejected(t, v.Validate(FieldQuantity, 23.0, current), FieldQuantity,
		"The minimum order for Dtf + Heat Press is 24 pieces. You entered 23.")
	assert.Equal(t, 24.0, acceptedValue(t, v.Validate(FieldQuantity, 24.0, current), FieldQuantity))
	assert.Equal(t, 100.0, acceptedValue(t, v.Validate(FieldQuantity, "100", current), FieldQuantity))

	// No floor without a product that carries one.
	assert.Equal(t, 1.0, acceptedValue(t, v.Validate(FieldQuantity, 1.0, Values{FieldProduct: "Dtf Gang Sheet"}), FieldQuantity))
}

func TestValidateSize(t *testing.T) {
	v := newTestValidator()

	tests := []struct {
		name    string
		raw     any
		product string
		want    string
		wantMsg string
	}{
		{name: "dtf ok", raw: "22x60", product: "Dtf Gang Sheet", want: "22x60"},
		{name: "normalized", raw: " 22 × 60 ", product: "Dtf Gang Sheet", want: "22x60"},
		{name: "uv ok", raw: "11X24", product: "Uv Dtf Gang Sheet", want: "11x24"},
		{name: "custom uv ok", raw: "11x50", product: "Custom Size Uv Dtf Gang Sheet", want: "11x50"},
		{name: "uv on dtf product", raw: "11x24", product: "Dtf Gang Sheet", wantMsg: MsgDTFSizeRequired},
		{name: "dtf on uv product", raw: "22x24", product: "Uv Dtf Gang Sheet", wantMsg: MsgUVSizeRequired},
		{name: "unknown uv product", raw: "22x24", product: "uv mugs", wantMsg: MsgUVSizeRequired},
		{name: "no product accepts any width and length", raw: "33x10", want: "33x10"},
		{name: "empty", raw: "  ", wantMsg: MsgEmptySize},
		{name: "missing length", raw: "22x", product: "Dtf Custom Gang Sheet", wantMsg: MsgInvalidSize},
		{name: "non-numeric length", raw: "22xabc", product: "Dtf Custom Gang Sheet", wantMsg: MsgInvalidSize},
		{name: "not a size without product", raw: "banana", wantMsg: MsgInvalidSize},
		{name: "missing width without product", raw: "x12", wantMsg: MsgInvalidSize},
		{name: "custom length on custom product", raw: "22x999", product: "Dtf Custom Gang Sheet", want: "22x999"},
		{
			name:    "unlisted length on listed-size product",
			raw:     "22x999",
			product: "Dtf Gang Sheet",
			wantMsg: "Sorry, 22x999 is not one of our sizes for Dtf Gang Sheet. Please pick a listed size, or a custom size sheet for other lengths.",
		},
		{name: "unlisted uv length", raw: "11x50", product: "Uv Dtf Gang Sheet", wantMsg: "Sorry, 11x50 is not one of our sizes for Uv Dtf Gang Sheet. Please pick a listed size, or a custom size sheet for other lengths."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := Values{}
			if tt.product != "" {
				current[FieldProduct] = tt.product
			}
			got := v.Validate(FieldSize, tt.raw, current)
			if tt.wantMsg != "" {
				assertRejected(t, got, FieldSize, tt.wantMsg)
				return
			}
			assert.Equal(t, tt.want, acceptedValue(t, got, FieldSize))
		})
	}
}

func TestValidateCustomerName(t *testing.T) {
	v := newTestValidator()

	assert.Equal(t, "Jane Doe", acceptedValue(t, v.Validate(FieldCustomerName, "  jane doe ", Values{}), FieldCustomerName))
	assertRejected(t, v.Validate(FieldCustomerName, "   ", Values{}), FieldCustomerName, MsgEmptyName)

	for _, word := range []string{"stop", "CANCEL", " Stop "} {
		got := v.Validate(FieldCustomerName, word, Values{FieldProduct: "Dtf Gang Sheet"})
		assert.True(t, got.Cancelled, word)
		assert.False(t, got.Rejected(), word)
		assert.Equal(t, ClearAll(), got.Updates, word)
		assert.Equal(t, []string{MsgCancelled}, got.Messages(), word)
	}
}

func TestValidateCustomerEmail(t *testing.T) {
	v := newTestValidator()

	assert.Equal(t, "a@b.com", acceptedValue(t, v.Validate(FieldCustomerEmail, "a@b.com", Values{}), FieldCustomerEmail))
	assert.Equal(t, "jane@shop.co.uk", acceptedValue(t, v.Validate(FieldCustomerEmail, " jane@shop.co.uk ", Values{}), FieldCustomerEmail))

	for _, raw := range []string{"not-an-email", "a@b", "@b.com", "a@.com", "a@b.", "a@b@c.com"} {
		assertRejected(t, v.Validate(FieldCustomerEmail, raw, Values{}), FieldCustomerEmail, MsgInvalidEmail)
	}
}

func TestValidatePassThrough(t *testing.T) {
	v := newTestValidator()

	assert.Equal(t, "UV", acceptedValue(t, v.Validate(FieldCategory, "UV", Values{}), FieldCategory))
	assert.Equal(t, "3", acceptedValue(t, v.Validate(FieldShippingMethod, 3.0, Values{}), FieldShippingMethod))
}
