// Command verify checks the built-in catalog for internal consistency:
// size tables, synonym folding, quotes and the order form all have to agree.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/gangsheet-builders/order-actions/internal/catalog"
	"github.com/gangsheet-builders/order-actions/internal/form"
	"github.com/gangsheet-builders/order-actions/internal/quote"
)

// Verification results
type verifyResult struct {
	name    string
	passed  bool
	message string
}

func main() {
	fmt.Println("🔍 Gang Sheet Order Actions - Catalog Consistency Verification Tool")
	fmt.Println("===================================================================")

	c := catalog.Default()
	results := []verifyResult{}

	// 1. Size tables
	results = append(results, verifySizeTables(c)...)

	// 2. Products and their families
	results = append(results, verifyProducts(c)...)

	// 3. Synonym folding
	results = append(results, verifySynonyms(c)...)

	// 4. Quotes and the order form agree with the catalog
	results = append(results, verifyQuotes(c)...)
	results = append(results, verifyForm(c)...)

	fmt.Println("\n📊 Verification Results:")
	fmt.Println("========================")

	passedCount := 0
	failedCount := 0

	for _, result := range results {
		status := "❌"
		if result.passed {
			status = "✅"
			passedCount++
		} else {
			failedCount++
		}
		fmt.Printf("%s %s: %s\n", status, result.name, result.message)
	}

	fmt.Printf("\n📈 Summary: %d passed, %d failed\n", passedCount, failedCount)

	if failedCount > 0 {
		os.Exit(1)
	}
}

func check(name string, problems []string, okMessage string) verifyResult {
	if len(problems) == 0 {
		return verifyResult{name: name, passed: true, message: okMessage}
	}
	return verifyResult{name: name, passed: false, message: strings.Join(problems, "; ")}
}

// verifySizeTables checks counts, prefixes, ordering and prices.
func verifySizeTables(c *catalog.Catalog) []verifyResult {
	results := []verifyResult{}

	expected := map[catalog.Family]int{
		catalog.FamilyUV:  25,
		catalog.FamilyDTF: 21,
	}
	for _, f := range []catalog.Family{catalog.FamilyUV, catalog.FamilyDTF} {
		sizes := c.Sizes(f)
		results = append(results, verifyResult{
			name:    f.String() + " Size Count",
			passed:  len(sizes) == expected[f],
			message: fmt.Sprintf("Expected %d, got %d", expected[f], len(sizes)),
		})

		var problems []string
		seen := map[string]bool{}
		prevLength, prevPrice := 0, 0.0
		for _, s := range sizes {
			if seen[s.Token] {
				problems = append(problems, "duplicate "+s.Token)
			}
			seen[s.Token] = true

			if catalog.FamilyOf(s.Token) != f {
				problems = append(problems, s.Token+" does not start with "+f.Prefix())
			}
			_, length, ok := catalog.ParseSize(s.Token)
			n, err := strconv.Atoi(length)
			if !ok || err != nil {
				problems = append(problems, s.Token+" is not WIDTHxLENGTH")
				continue
			}
			if n <= prevLength {
				problems = append(problems, s.Token+" is out of length order")
			}
			if s.Price <= prevPrice {
				problems = append(problems, fmt.Sprintf("%s price $%.2f does not increase", s.Token, s.Price))
			}
			prevLength, prevPrice = n, s.Price
		}
		results = append(results, check(f.String()+" Size Table Ordering", problems, "Unique, prefixed, ascending in length and price"))

		if lo, hi, ok := c.Range(f); ok {
			results = append(results, verifyResult{
				name:    f.String() + " Price Range",
				passed:  lo.Token == sizes[0].Token && hi.Token == sizes[len(sizes)-1].Token,
				message: fmt.Sprintf("$%.2f (%s) to $%.2f (%s)", lo.Price, lo.Token, hi.Price, hi.Token),
			})
		}
	}

	return results
}

// verifyProducts checks that every product is priceable.
func verifyProducts(c *catalog.Catalog) []verifyResult {
	var problems []string
	orderable := 0
	for _, e := range c.Entries() {
		if e.Orderable {
			orderable++
		}
		switch {
		case e.RequiresSize && len(c.Sizes(e.Family)) == 0:
			problems = append(problems, e.Key+" needs a size but its family has no table")
		case !e.RequiresSize && e.BasePrice <= 0:
			problems = append(problems, e.Key+" has neither a size table nor a base price")
		case e.Kind == catalog.KindApparel && e.Orderable:
			problems = append(problems, e.Key+" is apparel but orderable")
		}
	}

	results := []verifyResult{
		check("Products Priceable", problems, fmt.Sprintf("%d products, %d orderable", len(c.Entries()), orderable)),
	}

	hp, ok := c.Entry(catalog.KeyHeatPress)
	results = append(results, verifyResult{
		name:    "Heat Press Minimum",
		passed:  ok && hp.MinQuantity == catalog.HeatPressMinQuantity && hp.Orderable,
		message: fmt.Sprintf("Minimum %d pieces", hp.MinQuantity),
	})

	return results
}

// verifySynonyms checks that common phrasings fold to the right product.
func verifySynonyms(c *catalog.Catalog) []verifyResult {
	cases := []struct{ input, want string }{
		{"UV DTF sheet", catalog.KeyUVDTFGangSheet},
		{"uv sheets please", catalog.KeyUVDTFGangSheet},
		{"a uv gang sheet", catalog.KeyUVDTFGangSheet},
		{"DTF sheet", catalog.KeyDTFCustomGangSheet},
		{"Custom Size DTF Gang Sheet", "custom size dtf gang sheet"},
		{"heat press", catalog.KeyHeatPress},
		{"uv-dtf sheet", "uv-dtf sheet"},
	}

	var problems []string
	for _, tc := range cases {
		if got := c.Fold(tc.input); got != tc.want {
			problems = append(problems, fmt.Sprintf("%q folds to %q, want %q", tc.input, got, tc.want))
		}
	}
	return []verifyResult{check("Synonym Folding", problems, fmt.Sprintf("%d phrasings fold correctly", len(cases)))}
}

// verifyQuotes checks that every listed size has an exact quote and the
// menu only offers known products.
func verifyQuotes(c *catalog.Catalog) []verifyResult {
	engine := quote.NewEngine(c)

	var problems []string
	total := 0
	for _, f := range []catalog.Family{catalog.FamilyUV, catalog.FamilyDTF} {
		for _, s := range c.Sizes(f) {
			total++
			if r := engine.Quote("", strings.ToUpper(s.Token)); r.Kind != quote.KindSize {
				problems = append(problems, s.Token+" has no size quote")
			}
		}
	}
	results := []verifyResult{check("Size Quotes", problems, fmt.Sprintf("%d sizes quoted", total))}

	problems = nil
	for _, opt := range quote.ProductMenu().Options {
		var slots map[string]string
		if err := json.Unmarshal([]byte(strings.TrimPrefix(opt.Payload, "/inform")), &slots); err != nil {
			problems = append(problems, opt.Title+" has a malformed payload")
			continue
		}
		if _, ok := c.Lookup(slots["product_name"]); !ok {
			problems = append(problems, opt.Title+" offers unknown product "+slots["product_name"])
		}
	}
	results = append(results, check("Product Menu", problems, "Every option names a catalog product"))

	return results
}

// verifyForm checks that the size question appears for exactly the
// products priced by size.
func verifyForm(c *catalog.Catalog) []verifyResult {
	r := form.NewResolver(c)

	var problems []string
	for _, e := range c.Entries() {
		if !e.Orderable {
			continue
		}
		fields := r.Fields(form.Values{form.FieldProduct: e.DisplayName})
		if slices.Contains(fields, form.FieldSize) != e.RequiresSize {
			problems = append(problems, e.DisplayName+" size question mismatch")
		}
	}
	return []verifyResult{check("Form Size Question", problems, "Asked only for products priced by size")}
}
