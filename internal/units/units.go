package units

import "strings"

// CanonicalUnit is the single normalized token representing a family of
// unit spellings (e.g. "grams", "gram" and "gr" all resolve to UnitGram).
type CanonicalUnit string

const (
	// Weight units
	UnitGram     CanonicalUnit = "g"
	UnitKilogram CanonicalUnit = "kg"
	UnitOunce    CanonicalUnit = "oz"
	UnitPound    CanonicalUnit = "lb"

	// Volume units
	UnitMilliliter CanonicalUnit = "ml"
	UnitLiter      CanonicalUnit = "l"
	UnitCup        CanonicalUnit = "cup"
	UnitTablespoon CanonicalUnit = "tbsp"
	UnitTeaspoon   CanonicalUnit = "tsp"

	// Count units
	UnitEach   CanonicalUnit = "unit"
	UnitBunch  CanonicalUnit = "bunch"
	UnitHead   CanonicalUnit = "head"
	UnitClove  CanonicalUnit = "clove"
	UnitCan    CanonicalUnit = "can"
	UnitBottle CanonicalUnit = "bottle"
	UnitJar    CanonicalUnit = "jar"
	UnitPack   CanonicalUnit = "pack"
	UnitBox    CanonicalUnit = "box"
	UnitBag    CanonicalUnit = "bag"
	UnitSlice  CanonicalUnit = "slice"
)

// unitAliases maps each canonical unit to the spellings accepted for it.
// The canonical token itself is always a valid alias.
var unitAliases = map[CanonicalUnit][]string{
	UnitGram:       {"gram", "grams", "gr"},
	UnitKilogram:   {"kilogram", "kilograms", "kilo", "kilos", "kgs"},
	UnitOunce:      {"ounce", "ounces", "ozs"},
	UnitPound:      {"pound", "pounds", "lbs"},
	UnitMilliliter: {"milliliter", "milliliters", "millilitre", "millilitres", "mls"},
	UnitLiter:      {"liter", "liters", "litre", "litres", "ltr"},
	UnitCup:        {"cups"},
	UnitTablespoon: {"tablespoon", "tablespoons", "tbs", "tbsps"},
	UnitTeaspoon:   {"teaspoon", "teaspoons", "tsps"},
	UnitEach:       {"units", "each", "ea", "piece", "pieces", "pc", "pcs"},
	UnitBunch:      {"bunches"},
	UnitHead:       {"heads"},
	UnitClove:      {"cloves"},
	UnitCan:        {"cans", "tin", "tins"},
	UnitBottle:     {"bottles", "btl"},
	UnitJar:        {"jars"},
	UnitPack:       {"packs", "packet", "packets", "pkt"},
	UnitBox:        {"boxes"},
	UnitBag:        {"bags"},
	UnitSlice:      {"slices"},
}

// standardConversions holds one-hop physical equivalences as "1 from = factor
// to". Each pair appears in a single direction only; ConversionFactor checks
// the reverse direction and inverts. Chained conversions are deliberately not
// supported, which keeps the factor set auditable.
var standardConversions = map[CanonicalUnit]map[CanonicalUnit]float64{
	UnitKilogram: {
		UnitGram:  1000,
		UnitPound: 2.20462,
	},
	UnitGram: {
		UnitOunce: 0.03527,
	},
	UnitPound: {
		UnitGram:  453.592,
		UnitOunce: 16,
	},
	UnitLiter: {
		UnitMilliliter: 1000,
	},
	UnitCup: {
		UnitMilliliter: 236.588,
		UnitTablespoon: 16,
	},
	UnitTablespoon: {
		UnitTeaspoon:   3,
		UnitMilliliter: 14.787,
	},
	UnitTeaspoon: {
		UnitMilliliter: 4.929,
	},
}

// aliasIndex is the reverse lookup built from unitAliases at startup.
var aliasIndex = buildAliasIndex()

func buildAliasIndex() map[string]CanonicalUnit {
	index := make(map[string]CanonicalUnit)
	for unit, aliases := range unitAliases {
		index[string(unit)] = unit
		for _, alias := range aliases {
			index[alias] = unit
		}
	}
	return index
}

// Normalize resolves a free-text unit string to its canonical form. Unknown
// units come back lowercased and trimmed, acting as their own canonical form,
// so Normalize never fails and is idempotent.
func Normalize(unit string) CanonicalUnit {
	cleaned := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := aliasIndex[cleaned]; ok {
		return canonical
	}
	return CanonicalUnit(cleaned)
}

// ConversionFactor returns the multiplier converting one "from" into "to":
// 1 for identical normalized units, the standard table's factor when an entry
// exists in either direction, and ok=false when no standard conversion is
// known. An unknown pair is a normal outcome, not an error.
func ConversionFactor(from, to string) (float64, bool) {
	a := Normalize(from)
	b := Normalize(to)
	if a == b {
		return 1, true
	}
	if factor, ok := standardConversions[a][b]; ok {
		return factor, true
	}
	if factor, ok := standardConversions[b][a]; ok && factor != 0 {
		return 1 / factor, true
	}
	return 0, false
}

// AreCompatible reports whether two unit strings are cost-comparable, either
// because they normalize to the same canonical unit or because the standard
// table can convert between them.
func AreCompatible(a, b string) bool {
	_, ok := ConversionFactor(a, b)
	return ok
}
