package units

import "strings"

// countToGramHints maps substrings of an item name to a plausible weight in
// grams for one count of it. Checked in order; first hit wins.
var countToGramHints = []struct {
	keyword string
	grams   float64
}{
	{"ham", 100},
	{"meat", 100},
	{"cheese", 50},
	{"butter", 20},
	{"egg", 60},
	{"onion", 150},
	{"garlic", 5},
	{"lemon", 50},
	{"lime", 50},
}

const (
	defaultCountGrams       = 100
	defaultCountMilliliters = 250
)

// SuggestFactor proposes a starting factor for a user-authored custom
// conversion from a count-like unit to grams or milliliters, keyed off the
// item name. It is a pre-fill aid for the conversion editor only and never
// participates in cost computation.
func SuggestFactor(fromUnit, toUnit, itemName string) (float64, bool) {
	if !IsCountUnit(Normalize(fromUnit)) {
		return 0, false
	}

	switch Normalize(toUnit) {
	case UnitGram:
		name := strings.ToLower(itemName)
		for _, hint := range countToGramHints {
			if strings.Contains(name, hint.keyword) {
				return hint.grams, true
			}
		}
		return defaultCountGrams, true
	case UnitMilliliter:
		return defaultCountMilliliters, true
	}

	return 0, false
}

// IsCountUnit reports whether a canonical unit counts discrete things rather
// than measuring mass or volume.
func IsCountUnit(unit CanonicalUnit) bool {
	switch unit {
	case UnitEach, UnitBunch, UnitHead, UnitClove, UnitCan, UnitBottle,
		UnitJar, UnitPack, UnitBox, UnitBag, UnitSlice:
		return true
	}
	return false
}
