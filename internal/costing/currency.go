package costing

import (
	"github.com/shopspring/decimal"
)

var (
	centThreshold    = decimal.RequireFromString("0.01")
	milThreshold     = decimal.RequireFromString("0.001")
	deciCentCutoff   = decimal.RequireFromString("0.1")
	defaultPrecision = int32(2)
)

// FormatCurrency renders an amount with a symbol prefix and two decimal
// places. Formatting is presentation only; the amount itself is never
// rounded before aggregation.
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	return symbol + amount.StringFixed(defaultPrecision)
}

// FormatCurrencyAuto widens the precision for sub-cent amounts so per-gram
// costs like $0.0012 do not round away to $0.00.
func FormatCurrencyAuto(amount decimal.Decimal, symbol string) string {
	return symbol + amount.StringFixed(autoPrecision(amount))
}

func autoPrecision(amount decimal.Decimal) int32 {
	abs := amount.Abs()
	switch {
	case abs.IsZero():
		return defaultPrecision
	case abs.LessThan(milThreshold):
		return 5
	case abs.LessThan(centThreshold):
		return 4
	case abs.LessThan(deciCentCutoff):
		return 3
	default:
		return defaultPrecision
	}
}
