package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$2.40", FormatCurrency(decimal.RequireFromString("2.4"), "$"))
	assert.Equal(t, "€0.00", FormatCurrency(decimal.Zero, "€"))
	assert.Equal(t, "$12.35", FormatCurrency(decimal.RequireFromString("12.345"), "$"))
}

func TestFormatCurrencyAuto(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		// Sub-cent unit costs keep enough places to stay visible.
		{"0.0004", "$0.00040"},
		{"0.0012", "$0.0012"},
		{"0.012", "$0.012"},
		{"0.12", "$0.12"},
		{"2.4", "$2.40"},
		{"0", "$0.00"},
	}

	for _, tc := range cases {
		got := FormatCurrencyAuto(decimal.RequireFromString(tc.amount), "$")
		assert.Equal(t, tc.want, got, "amount %s", tc.amount)
	}
}
