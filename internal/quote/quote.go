// Package quote answers price questions from the catalog.
package quote

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gangsheet-builders/order-actions/internal/catalog"
	"github.com/gangsheet-builders/order-actions/internal/stringutil"
)

// Kind tells what a reply was built from.
type Kind string

const (
	KindSize    Kind = "size"
	KindProduct Kind = "product"
	KindMenu    Kind = "menu"
	KindUnknown Kind = "unknown"
)

const (
	msgSizePrice    = "A **%s %s** (for %s) costs **$%.2f**."
	msgSizeMiss     = "Sorry, I don't have an exact price for the size '%s'. Can you select from the list?"
	msgFamilyRange  = "Prices for **%s** start at **$%.2f** for the **%s** size and go up to $%.2f for the %s."
	msgFlatPrice    = "**%s** is **$%.2f** per piece."
	msgFlatMinimum  = "**%s** is **$%.2f** per piece, with a minimum order of %d."
	msgApparelPacks = "A 6 Pack of T-Shirts is $%.2f and a 12 Pack is $%.2f."
	msgUnknown      = "Sorry, I don't have a specific price for '%s'. Can you try rephrasing?"
	menuPrompt      = "Sure, what product are you looking for a price on?"
)

// Option is one quick-reply button.
type Option struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// Menu is a structured quick-reply prompt rendered by the chat widget.
type Menu struct {
	Type    string   `json:"type"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Reply is either a text answer or a menu.
type Reply struct {
	Kind Kind
	Text string
	Menu *Menu
}

// Engine computes quotes. It is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
}

// NewEngine creates a quote engine backed by c.
func NewEngine(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Quote prices a size if one is given, otherwise a product. With neither,
// it returns the product menu.
func (e *Engine) Quote(product, size string) Reply {
	switch {
	case strings.TrimSpace(size) != "":
		return e.quoteSize(size)
	case strings.TrimSpace(product) != "":
		return e.quoteProduct(product)
	default:
		return Reply{Kind: KindMenu, Menu: ProductMenu()}
	}
}

func (e *Engine) quoteSize(size string) Reply {
	s, ok := e.catalog.Price(size)
	if !ok {
		return Reply{Kind: KindUnknown, Text: fmt.Sprintf(msgSizeMiss, size)}
	}
	f := catalog.FamilyOf(s.Token)
	return Reply{Kind: KindSize, Text: fmt.Sprintf(msgSizePrice, s.Token, f.Sheet(), f.Surface(), s.Price)}
}

func (e *Engine) quoteProduct(product string) Reply {
	if entry, ok := e.catalog.Lookup(product); ok {
		switch {
		case entry.Kind == catalog.KindApparel:
			return e.apparel()
		case entry.RequiresSize:
			return e.familyRange(entry.DisplayName, entry.Family)
		case entry.MinQuantity > 0:
			return Reply{Kind: KindProduct, Text: fmt.Sprintf(msgFlatMinimum, entry.DisplayName, entry.BasePrice, entry.MinQuantity)}
		default:
			return Reply{Kind: KindProduct, Text: fmt.Sprintf(msgFlatPrice, entry.DisplayName, entry.BasePrice)}
		}
	}

	key := stringutil.NormalizeKey(product)
	switch {
	case strings.Contains(key, "uv"):
		return e.familyRange(product, catalog.FamilyUV)
	case stringutil.ContainsAny(key, "dtf", "fluorescent"):
		return e.familyRange(product, catalog.FamilyDTF)
	case strings.Contains(key, "t-shirt"):
		return e.apparel()
	default:
		return Reply{Kind: KindUnknown, Text: fmt.Sprintf(msgUnknown, product)}
	}
}

func (e *Engine) familyRange(name string, f catalog.Family) Reply {
	lo, hi, ok := e.catalog.Range(f)
	if !ok {
		return Reply{Kind: KindUnknown, Text: fmt.Sprintf(msgUnknown, name)}
	}
	return Reply{Kind: KindProduct, Text: fmt.Sprintf(msgFamilyRange, name, lo.Price, lo.Token, hi.Price, hi.Token)}
}

func (e *Engine) apparel() Reply {
	six, _ := e.catalog.Entry(catalog.Key6PackTShirts)
	twelve, _ := e.catalog.Entry(catalog.Key12PackTShirts)
	return Reply{Kind: KindProduct, Text: fmt.Sprintf(msgApparelPacks, six.BasePrice, twelve.BasePrice)}
}

// ProductMenu returns the quick-reply menu offered when the user asks for
// prices without naming anything.
func ProductMenu() *Menu {
	return &Menu{
		Type: "grid",
		Text: menuPrompt,
		Options: []Option{
			{Title: "DTF Gang Sheet (22x...)", Payload: InformPayload("product_name", "DTF Custom Gang Sheet")},
			{Title: "UV DTF Gang Sheet (11x...)", Payload: InformPayload("product_name", "UV DTF Gang Sheet")},
			{Title: "T-Shirt Packs", Payload: InformPayload("product_name", "6 Pack T-Shirts")},
		},
	}
}

// InformPayload builds the directive the host parses as a direct slot
// fill, e.g. /inform{"product_name":"UV DTF Gang Sheet"}.
func InformPayload(slot, value string) string {
	b, _ := json.Marshal(map[string]string{slot: value})
	return "/inform" + string(b)
}
