// Command quote runs the catalog, the quote engine and the order form
// offline, without a dialogue host.
//
//	quote price --size 22x60
//	quote price --product "uv dtf gang sheet"
//	quote fill --slot product_name="dtf + heat press" --slot quantity=12
//	quote --catalog ./catalog.yaml sizes --family uv
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/gangsheet-builders/order-actions/internal/catalog"
	"github.com/gangsheet-builders/order-actions/internal/config"
	"github.com/gangsheet-builders/order-actions/internal/form"
	"github.com/gangsheet-builders/order-actions/internal/quote"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp(w io.Writer) *cli.App {
	c := catalog.Default()
	return &cli.App{
		Name:   "quote",
		Usage:  "Quote gang sheet prices and walk through the order form offline",
		Writer: w,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "catalog", EnvVars: []string{config.EnvCatalogFile}, Usage: "YAML catalog to use instead of the built-in one"},
		},
		Before: func(ctx *cli.Context) error {
			path := ctx.String("catalog")
			if path == "" {
				return nil
			}
			loaded, err := catalog.LoadFile(path)
			if err != nil {
				return err
			}
			c = loaded
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "price",
				Usage: "Answer a price question. --size wins over --product.",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "product", Aliases: []string{"p"}, Usage: "product name as a customer would type it"},
					&cli.StringFlag{Name: "size", Aliases: []string{"s"}, Usage: "sheet size, e.g. 22x60"},
				},
				Action: func(ctx *cli.Context) error {
					return printReply(ctx.App.Writer, quote.NewEngine(c).Quote(ctx.String("product"), ctx.String("size")))
				},
			},
			{
				Name:  "sizes",
				Usage: "List the size table of a family (dtf or uv)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "family", Aliases: []string{"f"}, Value: "dtf"},
				},
				Action: func(ctx *cli.Context) error {
					f, err := parseFamily(ctx.String("family"))
					if err != nil {
						return err
					}
					for _, s := range c.Sizes(f) {
						_, _ = fmt.Fprintf(ctx.App.Writer, "%-8s $%.2f\n", s.Token, s.Price)
					}
					return nil
				},
			},
			{
				Name:  "fill",
				Usage: "Validate slot values as one form turn and show what is still missing",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "slot", Usage: "slot=value, in the order the host extracted them"},
				},
				Action: func(ctx *cli.Context) error {
					candidates, err := parseSlots(ctx.StringSlice("slot"))
					if err != nil {
						return err
					}
					f := form.New(c)
					return printTurn(ctx.App.Writer, f, f.Process(form.Values{}, candidates))
				},
			},
		},
	}
}

func parseFamily(name string) (catalog.Family, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "dtf", "22x":
		return catalog.FamilyDTF, nil
	case "uv", "11x":
		return catalog.FamilyUV, nil
	default:
		return catalog.FamilyNone, fmt.Errorf("unknown family %q (want dtf or uv)", name)
	}
}

func parseSlots(pairs []string) ([]form.Candidate, error) {
	out := make([]form.Candidate, 0, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("slot %q: want slot=value", pair)
		}
		f, known := form.FieldForSlot(strings.TrimSpace(name))
		if !known {
			return nil, fmt.Errorf("slot %q is not an order form field", name)
		}
		out = append(out, form.Candidate{Field: f, Value: value})
	}
	return out, nil
}

func printReply(w io.Writer, r quote.Reply) error {
	if r.Menu != nil {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Menu)
	}
	_, err := fmt.Fprintf(w, "[%s] %s\n", r.Kind, r.Text)
	return err
}

func printTurn(w io.Writer, f *form.Form, t form.Turn) error {
	for _, msg := range t.Messages {
		_, _ = fmt.Fprintf(w, "> %s\n", msg)
	}
	for _, field := range f.Resolver.Fields(t.Values) {
		if t.Values.IsSet(field) {
			_, _ = fmt.Fprintf(w, "  %-12s %v\n", field.Slot(), t.Values[field])
		}
	}
	switch {
	case t.Cancelled:
		_, _ = fmt.Fprintln(w, "order cancelled")
	case t.Requested != nil:
		_, _ = fmt.Fprintf(w, "next: %s\n", t.Requested.Slot())
	default:
		_, _ = fmt.Fprintln(w, "complete")
	}
	return nil
}
