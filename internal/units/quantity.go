package units

import (
	"strings"

	"github.com/shopspring/decimal"
)

// vulgarFractions maps the common Unicode fraction glyphs to fixed decimal
// approximations. Thirds and two-thirds are truncated to three places.
var vulgarFractions = map[string]decimal.Decimal{
	"¼": decimal.RequireFromString("0.25"),
	"½": decimal.RequireFromString("0.5"),
	"¾": decimal.RequireFromString("0.75"),
	"⅓": decimal.RequireFromString("0.333"),
	"⅔": decimal.RequireFromString("0.667"),
	"⅛": decimal.RequireFromString("0.125"),
	"⅜": decimal.RequireFromString("0.375"),
	"⅝": decimal.RequireFromString("0.625"),
	"⅞": decimal.RequireFromString("0.875"),
}

// ParseQuantity reads a recipe quantity in any of the forms cooks write them:
// plain decimals ("200", "0.5"), vulgar fraction glyphs ("½"), ASCII
// fractions ("3/4"), and mixed forms ("1 ½", "2 1/4"). Anything unreadable
// counts as zero so one bad row never takes down a whole recipe calculation.
func ParseQuantity(text string) decimal.Decimal {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return decimal.Zero
	}

	if value, err := decimal.NewFromString(cleaned); err == nil {
		return value
	}
	if value, ok := vulgarFractions[cleaned]; ok {
		return value
	}
	if value, ok := parseFraction(cleaned); ok {
		return value
	}

	// Mixed form: "<whole> <fraction>" with either fraction style.
	parts := strings.Fields(cleaned)
	if len(parts) == 2 {
		whole, err := decimal.NewFromString(parts[0])
		if err != nil {
			return decimal.Zero
		}
		if fraction, ok := vulgarFractions[parts[1]]; ok {
			return whole.Add(fraction)
		}
		if fraction, ok := parseFraction(parts[1]); ok {
			return whole.Add(fraction)
		}
	}

	return decimal.Zero
}

// parseFraction handles ASCII "n/d" input. A zero denominator or a
// non-numeric part reports ok=false.
func parseFraction(text string) (decimal.Decimal, bool) {
	numText, denText, found := strings.Cut(text, "/")
	if !found {
		return decimal.Zero, false
	}
	numerator, err := decimal.NewFromString(strings.TrimSpace(numText))
	if err != nil {
		return decimal.Zero, false
	}
	denominator, err := decimal.NewFromString(strings.TrimSpace(denText))
	if err != nil || denominator.IsZero() {
		return decimal.Zero, false
	}
	return numerator.Div(denominator), true
}
