package catalog

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNormalizeSize_Properties(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("normalizing twice changes nothing", prop.ForAll(
		func(s string) bool {
			n := NormalizeSize(s)
			return NormalizeSize(n) == n
		},
		gen.AnyString(),
	))

	properties.Property("listed sizes survive spacing and case", prop.ForAll(
		func(i int, upper bool) bool {
			sizes := Default().Sizes(FamilyDTF)
			s := sizes[i%len(sizes)]
			w, l, _ := strings.Cut(s.Token, "x")
			input := " " + w + " x " + l + " "
			if upper {
				input = strings.ToUpper(input)
			}
			got, ok := Default().Price(input)
			return ok && got == s
		},
		gen.IntRange(0, 1000), gen.Bool(),
	))

	properties.TestingRun(t)
}
