// Package catalog holds the print shop's product catalog: which products
// exist, how they are priced and which ones can be ordered through the chat
// form. The catalog is built once and never mutated.
package catalog

import (
	"slices"

	"github.com/gangsheet-builders/order-actions/internal/stringutil"
)

// Kind groups products by how the shop sells them.
type Kind int

const (
	KindGangSheet Kind = iota // priced by sheet size
	KindPressService          // flat price per piece
	KindApparel               // pre-packed garments
)

// Entry describes one product.
type Entry struct {
	Key          string // lowercase canonical identifier
	DisplayName  string
	Kind         Kind
	Family       Family  // production family for size-priced products
	BasePrice    float64 // flat price, zero for size-priced products
	RequiresSize bool
	CustomLength bool // any length of the family width, not only the listed sizes
	MinQuantity  int  // zero when there is no floor
	Orderable    bool // false for products that can be quoted but not ordered in chat
}

// Catalog is an immutable product catalog. It is safe for concurrent use.
type Catalog struct {
	entries map[string]Entry
	keys    []string // insertion order
	tables  map[Family][]Size
	rules   []SynonymRule
}

// New builds a catalog from entries, per-family size tables and ordered
// synonym rules. Display names are derived from keys.
func New(entries []Entry, tables map[Family][]Size, rules []SynonymRule) *Catalog {
	c := &Catalog{
		entries: make(map[string]Entry, len(entries)),
		keys:    make([]string, 0, len(entries)),
		tables:  make(map[Family][]Size, len(tables)),
		rules:   slices.Clone(rules),
	}
	for _, e := range entries {
		e.Key = stringutil.NormalizeKey(e.Key)
		e.DisplayName = stringutil.Title(e.Key)
		if _, dup := c.entries[e.Key]; !dup {
			c.keys = append(c.keys, e.Key)
		}
		c.entries[e.Key] = e
	}
	for f, sizes := range tables {
		c.tables[f] = slices.Clone(sizes)
	}
	return c
}

// Entry returns the entry stored under an exact canonical key.
func (c *Catalog) Entry(key string) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Entries returns every entry in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.keys))
	for _, k := range c.keys {
		out = append(out, c.entries[k])
	}
	return out
}

// Fold normalizes free text and applies the synonym rules. An input that
// already names a catalog key is returned unchanged; otherwise the first
// matching rule wins. The result is not guaranteed to be a catalog key.
func (c *Catalog) Fold(input string) string {
	key := stringutil.NormalizeKey(input)
	if _, ok := c.entries[key]; ok {
		return key
	}
	for _, r := range c.rules {
		if r.matches(key) {
			return r.Canonical
		}
	}
	return key
}

// Lookup folds input and returns the matching entry.
func (c *Catalog) Lookup(input string) (Entry, bool) {
	return c.Entry(c.Fold(input))
}

// RequiresSize reports whether the product named by input needs a size.
// Unknown products do not.
func (c *Catalog) RequiresSize(input string) bool {
	e, ok := c.Lookup(input)
	return ok && e.RequiresSize
}

// Sizes returns the size table of a family in ascending length order.
func (c *Catalog) Sizes(f Family) []Size {
	return slices.Clone(c.tables[f])
}

// Price looks a size token up in every family's table. Tokens are
// normalized first.
func (c *Catalog) Price(token string) (Size, bool) {
	token = NormalizeSize(token)
	f := FamilyOf(token)
	for _, s := range c.tables[f] {
		if s.Token == token {
			return s, true
		}
	}
	return Size{}, false
}

// Range returns the cheapest and the priciest size of a family.
func (c *Catalog) Range(f Family) (lo, hi Size, ok bool) {
	sizes := c.tables[f]
	if len(sizes) == 0 {
		return Size{}, Size{}, false
	}
	lo, hi = sizes[0], sizes[0]
	for _, s := range sizes[1:] {
		if s.Price < lo.Price {
			lo = s
		}
		if s.Price > hi.Price {
			hi = s
		}
	}
	return lo, hi, true
}
