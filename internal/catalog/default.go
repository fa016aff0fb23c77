package catalog

import "sync"

// Canonical keys referenced outside the catalog.
const (
	KeyDTFCustomGangSheet = "dtf custom gang sheet"
	KeyUVDTFGangSheet     = "uv dtf gang sheet"
	KeyHeatPress          = "dtf + heat press"
	Key6PackTShirts       = "6 pack t-shirts"
	Key12PackTShirts      = "12 pack t-shirts"
)

// HeatPressMinQuantity is the smallest heat press job the shop accepts.
const HeatPressMinQuantity = 24

var defaultEntries = []Entry{
	{Key: KeyDTFCustomGangSheet, Kind: KindGangSheet, Family: FamilyDTF, RequiresSize: true, CustomLength: true, Orderable: true},
	{Key: "dtf gang sheet", Kind: KindGangSheet, Family: FamilyDTF, RequiresSize: true, Orderable: true},
	{Key: "custom size dtf gang sheet", Kind: KindGangSheet, Family: FamilyDTF, RequiresSize: true, CustomLength: true, Orderable: true},
	{Key: "dtf fluorescent gang sheets", Kind: KindGangSheet, Family: FamilyDTF, RequiresSize: true, Orderable: true},
	{Key: "print by size", Kind: KindGangSheet, Family: FamilyDTF, RequiresSize: true, Orderable: true},
	{Key: KeyUVDTFGangSheet, Kind: KindGangSheet, Family: FamilyUV, RequiresSize: true, Orderable: true},
	{Key: "custom size uv dtf gang sheet", Kind: KindGangSheet, Family: FamilyUV, RequiresSize: true, CustomLength: true, Orderable: true},
	{Key: KeyHeatPress, Kind: KindPressService, BasePrice: 8.50, MinQuantity: HeatPressMinQuantity, Orderable: true},
	{Key: Key6PackTShirts, Kind: KindApparel, BasePrice: 68.95},
	{Key: Key12PackTShirts, Kind: KindApparel, BasePrice: 99.00},
}

// 11x12 = $6, then $6 per additional foot of length.
var uvSizes = []Size{
	{"11x12", 6}, {"11x24", 12}, {"11x36", 18}, {"11x48", 24}, {"11x60", 30},
	{"11x72", 36}, {"11x84", 42}, {"11x96", 48}, {"11x108", 54}, {"11x120", 60},
	{"11x132", 66}, {"11x144", 72}, {"11x156", 78}, {"11x168", 84}, {"11x180", 90},
	{"11x192", 96}, {"11x204", 102}, {"11x216", 108}, {"11x228", 114}, {"11x240", 120},
	{"11x252", 126}, {"11x264", 132}, {"11x276", 138}, {"11x288", 144}, {"11x300", 150},
}

// 21 sizes at $5 steps. The lengths past 22x216 are irregular.
var dtfSizes = []Size{
	{"22x12", 5}, {"22x24", 10}, {"22x36", 15}, {"22x48", 20}, {"22x60", 25},
	{"22x72", 30}, {"22x84", 35}, {"22x96", 40}, {"22x120", 45}, {"22x132", 50},
	{"22x144", 55}, {"22x156", 60}, {"22x168", 65}, {"22x180", 70}, {"22x192", 75},
	{"22x204", 80}, {"22x216", 85}, {"22x238", 90}, {"22x274", 95}, {"22x286", 100},
	{"22x300", 105},
}

// First match wins. "dtf sheet" never folds UV wording to the fabric product.
var defaultRules = []SynonymRule{
	{Pattern: "uv dtf sheet", Canonical: KeyUVDTFGangSheet},
	{Pattern: "uv sheet", Canonical: KeyUVDTFGangSheet},
	{Pattern: "uv gang", Canonical: KeyUVDTFGangSheet},
	{Pattern: "dtf sheet", Canonical: KeyDTFCustomGangSheet, Unless: []string{"uv"}},
	{Pattern: "heat press", Canonical: KeyHeatPress},
}

var loadDefault = sync.OnceValue(func() *Catalog {
	return New(defaultEntries, map[Family][]Size{
		FamilyDTF: dtfSizes,
		FamilyUV:  uvSizes,
	}, defaultRules)
})

// Default returns the shop's catalog.
func Default() *Catalog {
	return loadDefault()
}
