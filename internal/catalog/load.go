package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gangsheet-builders/order-actions/internal/stringutil"
)

// File is the on-disk form of a catalog.
type File struct {
	Products []ProductSpec        `yaml:"products"`
	Sizes    map[string][]SizeRow `yaml:"sizes"` // keyed by family name
	Synonyms []SynonymRow         `yaml:"synonyms"`
}

// ProductSpec is one product as written in a catalog file.
type ProductSpec struct {
	Key          string  `yaml:"key"`
	Kind         string  `yaml:"kind"`             // gang_sheet, press_service or apparel
	Family       string  `yaml:"family,omitempty"` // dtf or uv
	BasePrice    float64 `yaml:"base_price,omitempty"`
	RequiresSize bool    `yaml:"requires_size,omitempty"`
	CustomLength bool    `yaml:"custom_length,omitempty"` // any length of the family width
	MinQuantity  int     `yaml:"min_quantity,omitempty"`
	Orderable    bool    `yaml:"orderable,omitempty"`
}

// SizeRow is one priced size as written in a catalog file.
type SizeRow struct {
	Token string  `yaml:"token"`
	Price float64 `yaml:"price"`
}

// SynonymRow is one synonym rule as written in a catalog file.
type SynonymRow struct {
	Pattern   string   `yaml:"pattern"`
	Canonical string   `yaml:"canonical"`
	Unless    []string `yaml:"unless,omitempty"`
}

var kindNames = map[string]Kind{
	"gang_sheet":    KindGangSheet,
	"press_service": KindPressService,
	"apparel":       KindApparel,
}

var familyNames = map[string]Family{
	"":    FamilyNone,
	"dtf": FamilyDTF,
	"uv":  FamilyUV,
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Load decodes and validates a YAML catalog. Every problem found is
// reported, not just the first.
func Load(r io.Reader) (*Catalog, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog is empty")
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return file.Build()
}

// Build validates the file and turns it into a catalog.
func (file File) Build() (*Catalog, error) {
	var errs []error

	tables := make(map[Family][]Size, len(file.Sizes))
	for name, rows := range file.Sizes {
		f, ok := familyNames[name]
		if !ok || f == FamilyNone {
			errs = append(errs, fmt.Errorf("sizes: unknown family %q", name))
			continue
		}
		sizes := make([]Size, 0, len(rows))
		for _, row := range rows {
			token := NormalizeSize(row.Token)
			if _, _, ok := ParseSize(token); !ok {
				errs = append(errs, fmt.Errorf("sizes.%s: %q is not WIDTHxLENGTH", name, row.Token))
				continue
			}
			if FamilyOf(token) != f {
				errs = append(errs, fmt.Errorf("sizes.%s: %q does not start with %s", name, row.Token, f.Prefix()))
				continue
			}
			if row.Price <= 0 {
				errs = append(errs, fmt.Errorf("sizes.%s: %q must have a positive price", name, row.Token))
				continue
			}
			sizes = append(sizes, Size{Token: token, Price: row.Price})
		}
		tables[f] = sizes
	}

	if len(file.Products) == 0 {
		errs = append(errs, errors.New("products: at least one product is required"))
	}
	entries := make([]Entry, 0, len(file.Products))
	for i, p := range file.Products {
		kind, ok := kindNames[p.Kind]
		if !ok {
			errs = append(errs, fmt.Errorf("products[%d]: unknown kind %q", i, p.Kind))
			continue
		}
		family, ok := familyNames[p.Family]
		if !ok {
			errs = append(errs, fmt.Errorf("products[%d]: unknown family %q", i, p.Family))
			continue
		}
		switch {
		case stringutil.NormalizeKey(p.Key) == "":
			errs = append(errs, fmt.Errorf("products[%d]: key is required", i))
		case p.RequiresSize && len(tables[family]) == 0:
			errs = append(errs, fmt.Errorf("products[%d] %q: requires a size but family %q has no sizes", i, p.Key, p.Family))
		case !p.RequiresSize && p.BasePrice <= 0:
			errs = append(errs, fmt.Errorf("products[%d] %q: needs a base price or a size table", i, p.Key))
		case p.CustomLength && !p.RequiresSize:
			errs = append(errs, fmt.Errorf("products[%d] %q: custom_length needs requires_size", i, p.Key))
		case p.MinQuantity < 0:
			errs = append(errs, fmt.Errorf("products[%d] %q: min_quantity cannot be negative", i, p.Key))
		default:
			entries = append(entries, Entry{
				Key:          p.Key,
				Kind:         kind,
				Family:       family,
				BasePrice:    p.BasePrice,
				RequiresSize: p.RequiresSize,
				CustomLength: p.CustomLength,
				MinQuantity:  p.MinQuantity,
				Orderable:    p.Orderable,
			})
		}
	}

	rules := make([]SynonymRule, 0, len(file.Synonyms))
	for i, s := range file.Synonyms {
		pattern, canonical := stringutil.NormalizeKey(s.Pattern), stringutil.NormalizeKey(s.Canonical)
		if pattern == "" || canonical == "" {
			errs = append(errs, fmt.Errorf("synonyms[%d]: pattern and canonical are required", i))
			continue
		}
		var unless []string
		for _, w := range s.Unless {
			if w = stringutil.NormalizeKey(w); w != "" {
				unless = append(unless, w)
			}
		}
		rules = append(rules, SynonymRule{Pattern: pattern, Canonical: canonical, Unless: unless})
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return New(entries, tables, rules), nil
}
