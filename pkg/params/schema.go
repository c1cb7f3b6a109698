package params

import (
	"strconv"
	"strings"
)

// MinSpanLength is the shortest span the generator accepts, in metres.
// Support-centred elements are clamped against it so that adjacent piers
// never overlap.
const MinSpanLength = 3.0

// Name identifies one parameter of the compiled-in schema.
type Name int

// Parameter names in schema order. The order is also the row order of
// exported spreadsheets and the order in which violations are reported.
const (
	NSpan Name = iota
	Span1
	LBridge
	BridgeW
	Skew
	RTL
	Datum
	ABTL
	DeckT
	CapT
	CapB
	CapW
	PierTW
	Battr
	PierWidth
	FutRL
	FutD
	FutW
	AbutHeight
	AbutWidth
	FootLength
	FootThick
	ApprLength
	ApprThick
	Scale1
	Scale2

	numNames
)

// Kind is the numeric type of a parameter.
type Kind string

const (
	KindInteger Kind = "int"
	KindReal    Kind = "float"
)

// Category groups parameters for display and spreadsheet layout.
type Category string

const (
	CategoryGeometry   Category = "geometry"
	CategoryLevels     Category = "levels"
	CategoryDeck       Category = "deck"
	CategoryPier       Category = "pier"
	CategoryFoundation Category = "foundation"
	CategoryAbutment   Category = "abutment"
	CategoryApproach   Category = "approach"
	CategoryDrawing    Category = "drawing"
)

var categories = []Category{
	CategoryGeometry,
	CategoryLevels,
	CategoryDeck,
	CategoryPier,
	CategoryFoundation,
	CategoryAbutment,
	CategoryApproach,
	CategoryDrawing,
}

// Rule is the static definition of one parameter.
type Rule struct {
	Name        Name
	Key         string
	Kind        Kind
	Min         float64
	Max         float64
	Default     float64
	Unit        string
	Category    Category
	Description string
}

// Contains reports whether v lies inside the rule's closed range.
func (r Rule) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var rules = [numNames]Rule{
	NSpan:      {Key: "NSPAN", Kind: KindInteger, Min: 1, Max: 51, Default: 3, Category: CategoryGeometry, Description: "Number of spans"},
	Span1:      {Key: "SPAN1", Kind: KindReal, Min: MinSpanLength, Max: 100, Default: 30, Unit: "m", Category: CategoryGeometry, Description: "Span length"},
	LBridge:    {Key: "LBRIDGE", Kind: KindReal, Min: 3, Max: 1000, Default: 90, Unit: "m", Category: CategoryGeometry, Description: "Total bridge length"},
	BridgeW:    {Key: "BRIDGEW", Kind: KindReal, Min: 6, Max: 30, Default: 12, Unit: "m", Category: CategoryGeometry, Description: "Bridge width"},
	Skew:       {Key: "SKEW", Kind: KindReal, Min: 0, Max: 45, Default: 0, Unit: "degrees", Category: CategoryGeometry, Description: "Skew angle"},
	RTL:        {Key: "RTL", Kind: KindReal, Min: 90, Max: 200, Default: 105, Unit: "m", Category: CategoryLevels, Description: "Riding surface level"},
	Datum:      {Key: "DATUM", Kind: KindReal, Min: 80, Max: 150, Default: 100, Unit: "m", Category: CategoryLevels, Description: "Datum level"},
	ABTL:       {Key: "ABTL", Kind: KindReal, Min: 0, Max: 100, Default: 0, Unit: "m", Category: CategoryLevels, Description: "Left abutment chainage"},
	DeckT:      {Key: "DECKT", Kind: KindReal, Min: 0.8, Max: 3, Default: 1.2, Unit: "m", Category: CategoryDeck, Description: "Deck thickness"},
	CapT:       {Key: "CAPT", Kind: KindReal, Min: 90, Max: 200, Default: 104, Unit: "m", Category: CategoryPier, Description: "Pier cap top level"},
	CapB:       {Key: "CAPB", Kind: KindReal, Min: 85, Max: 195, Default: 102, Unit: "m", Category: CategoryPier, Description: "Pier cap bottom level"},
	CapW:       {Key: "CAPW", Kind: KindReal, Min: 0.8, Max: 3, Default: 1.2, Unit: "m", Category: CategoryPier, Description: "Pier cap width"},
	PierTW:     {Key: "PIERTW", Kind: KindReal, Min: 0.5, Max: 2, Default: 0.8, Unit: "m", Category: CategoryPier, Description: "Pier top width"},
	Battr:      {Key: "BATTR", Kind: KindReal, Min: 3, Max: 20, Default: 6, Unit: "ratio", Category: CategoryPier, Description: "Pier batter ratio"},
	PierWidth:  {Key: "PIER_WIDTH", Kind: KindReal, Min: 1, Max: 5, Default: 2, Unit: "m", Category: CategoryPier, Description: "Pier width in plan"},
	FutRL:      {Key: "FUTRL", Kind: KindReal, Min: 80, Max: 150, Default: 98, Unit: "m", Category: CategoryFoundation, Description: "Foundation top level"},
	FutD:       {Key: "FUTD", Kind: KindReal, Min: 0.5, Max: 3, Default: 1, Unit: "m", Category: CategoryFoundation, Description: "Foundation depth"},
	FutW:       {Key: "FUTW", Kind: KindReal, Min: 1.5, Max: 5, Default: 2.5, Unit: "m", Category: CategoryFoundation, Description: "Foundation width"},
	AbutHeight: {Key: "ABUT_HEIGHT", Kind: KindReal, Min: 3, Max: 15, Default: 6, Unit: "m", Category: CategoryAbutment, Description: "Abutment height"},
	AbutWidth:  {Key: "ABUT_WIDTH", Kind: KindReal, Min: 1, Max: 3, Default: 1.5, Unit: "m", Category: CategoryAbutment, Description: "Abutment stem width"},
	FootLength: {Key: "FOOT_LENGTH", Kind: KindReal, Min: 4, Max: 15, Default: 8, Unit: "m", Category: CategoryAbutment, Description: "Abutment footing length"},
	FootThick:  {Key: "FOOT_THICK", Kind: KindReal, Min: 0.8, Max: 2.5, Default: 1.2, Unit: "m", Category: CategoryAbutment, Description: "Abutment footing thickness"},
	ApprLength: {Key: "APPR_LENGTH", Kind: KindReal, Min: 5, Max: 15, Default: 8, Unit: "m", Category: CategoryApproach, Description: "Approach slab length"},
	ApprThick:  {Key: "APPR_THICK", Kind: KindReal, Min: 0.2, Max: 0.6, Default: 0.3, Unit: "m", Category: CategoryApproach, Description: "Approach slab thickness"},
	Scale1:     {Key: "SCALE1", Kind: KindReal, Min: 50, Max: 1000, Default: 100, Category: CategoryDrawing, Description: "Drawing scale numerator"},
	Scale2:     {Key: "SCALE2", Kind: KindReal, Min: 25, Max: 200, Default: 50, Category: CategoryDrawing, Description: "Drawing scale denominator"},
}

var byKey = func() map[string]Name {
	m := make(map[string]Name, numNames)
	for i := range rules {
		rules[i].Name = Name(i)
		m[rules[i].Key] = Name(i)
	}
	return m
}()

// String returns the parameter key, e.g. "SPAN1".
func (n Name) String() string {
	if !n.valid() {
		return "Name(" + strconv.Itoa(int(n)) + ")"
	}
	return rules[n].Key
}

// Rule returns the static definition of n.
func (n Name) Rule() Rule {
	return rules[n]
}

func (n Name) valid() bool {
	return n >= 0 && n < numNames
}

// ParseName resolves a parameter key. Matching ignores case and
// surrounding whitespace so spreadsheet cells like " span1 " resolve.
func ParseName(key string) (Name, bool) {
	n, ok := byKey[strings.ToUpper(strings.TrimSpace(key))]
	return n, ok
}

// Names returns every parameter name in schema order.
func Names() []Name {
	names := make([]Name, numNames)
	for i := range names {
		names[i] = Name(i)
	}
	return names
}

// Schema returns a copy of all rules in schema order.
func Schema() []Rule {
	out := make([]Rule, numNames)
	copy(out, rules[:])
	return out
}

// Categories returns the categories in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ByCategory returns the rules of one category in schema order.
func ByCategory(c Category) []Rule {
	var out []Rule
	for _, r := range rules {
		if r.Category == c {
			out = append(out, r)
		}
	}
	return out
}

// FormatValue renders v the way the schema types it: integers without a
// fractional part, reals in the shortest form that round-trips.
func FormatValue(n Name, v float64) string {
	if rules[n].Kind == KindInteger {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
