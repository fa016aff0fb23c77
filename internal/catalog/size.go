package catalog

import (
	"strings"

	"github.com/gangsheet-builders/order-actions/internal/stringutil"
)

// Family is a production process. Sizes of different families never overlap
// because each family has its own sheet width.
type Family int

const (
	FamilyNone Family = iota
	FamilyDTF         // 22 inch wide film, fabrics
	FamilyUV          // 11 inch wide film, hard surfaces
)

// Prefix returns the width prefix every size token of the family starts with.
func (f Family) Prefix() string {
	switch f {
	case FamilyDTF:
		return "22x"
	case FamilyUV:
		return "11x"
	default:
		return ""
	}
}

// Sheet returns the user-facing sheet name of the family.
func (f Family) Sheet() string {
	switch f {
	case FamilyDTF:
		return "DTF Gang Sheet"
	case FamilyUV:
		return "UV DTF Gang Sheet"
	default:
		return ""
	}
}

// Surface describes what the family prints on.
func (f Family) Surface() string {
	switch f {
	case FamilyDTF:
		return "fabrics"
	case FamilyUV:
		return "hard surfaces"
	default:
		return ""
	}
}

func (f Family) String() string {
	switch f {
	case FamilyDTF:
		return "dtf"
	case FamilyUV:
		return "uv"
	default:
		return "none"
	}
}

// Size is one priced sheet size.
type Size struct {
	Token string // "<width>x<length>", e.g. "22x12"
	Price float64
}

// NormalizeSize trims and lowercases a size token, removes interior
// whitespace and accepts the multiplication sign as a separator.
//
//	NormalizeSize(" 22 × 60 ") returns "22x60"
func NormalizeSize(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "×", "x")
	return strings.Join(strings.Fields(s), "")
}

// FamilyOf returns the family whose width prefix token starts with.
func FamilyOf(token string) Family {
	switch {
	case strings.HasPrefix(token, FamilyUV.Prefix()):
		return FamilyUV
	case strings.HasPrefix(token, FamilyDTF.Prefix()):
		return FamilyDTF
	default:
		return FamilyNone
	}
}

// ParseSize splits a normalized token into width and length. Both parts
// must be non-empty runs of digits.
func ParseSize(token string) (width, length string, ok bool) {
	width, length, found := strings.Cut(token, "x")
	if !found || !stringutil.IsNumeric(width) || !stringutil.IsNumeric(length) {
		return "", "", false
	}
	return width, length, true
}
