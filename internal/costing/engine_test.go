package costing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/models"
)

func flourItem() *models.InventoryItem {
	return &models.InventoryItem{
		ItemID:           "item-flour",
		Name:             "Plain Flour",
		PurchaseQuantity: "1000",
		PurchaseUnit:     "g",
		PurchasePrice:    "12.00",
	}
}

func line(quantity, unit string, item *models.InventoryItem) models.RecipeIngredient {
	id := ""
	if item != nil {
		id = item.ItemID
	}
	return models.RecipeIngredient{
		Quantity:        quantity,
		Unit:            unit,
		InventoryItemID: id,
		InventoryItem:   item,
	}
}

func TestComputeLineCostSameUnit(t *testing.T) {
	result := ComputeLineCost(line("200", "g", flourItem()), nil)

	assert.False(t, result.HasUnitMismatch)
	assert.Nil(t, result.UsedConversion)
	assert.True(t, result.Cost.Equal(decimal.RequireFromString("2.40")),
		"cost = %s, want 2.40", result.Cost)
}

func TestComputeLineCostStandardConversion(t *testing.T) {
	item := &models.InventoryItem{
		ItemID:           "item-flour",
		Name:             "Plain Flour",
		PurchaseQuantity: "1",
		PurchaseUnit:     "kg",
		PurchasePrice:    "12.00",
	}

	result := ComputeLineCost(line("200", "g", item), nil)

	assert.False(t, result.HasUnitMismatch)
	assert.True(t, result.Cost.Equal(decimal.RequireFromString("2.40")),
		"cost = %s, want 2.40", result.Cost)
}

func TestComputeLineCostAliasedUnits(t *testing.T) {
	// "grams" and "g" normalize to the same canonical unit; never a mismatch.
	result := ComputeLineCost(line("200", "Grams", flourItem()), nil)

	assert.False(t, result.HasUnitMismatch)
	assert.True(t, result.Cost.Equal(decimal.RequireFromString("2.40")))
}

func TestComputeLineCostFractionalQuantity(t *testing.T) {
	item := &models.InventoryItem{
		ItemID:           "item-milk",
		Name:             "Whole Milk",
		PurchaseQuantity: "2",
		PurchaseUnit:     "l",
		PurchasePrice:    "3.00",
	}

	// ½ l at 1.50/l
	result := ComputeLineCost(line("½", "l", item), nil)
	assert.True(t, result.Cost.Equal(decimal.RequireFromString("0.75")),
		"cost = %s, want 0.75", result.Cost)
}

func TestComputeLineCostUnresolved(t *testing.T) {
	item := &models.InventoryItem{
		ItemID:           "item-eggs",
		Name:             "Free Range Eggs",
		PurchaseQuantity: "1000",
		PurchaseUnit:     "unit",
		PurchasePrice:    "12.00",
	}

	result := ComputeLineCost(line("200", "g", item), nil)

	assert.True(t, result.HasUnitMismatch)
	assert.True(t, result.Cost.IsZero(), "mismatched line must cost exactly zero, got %s", result.Cost)
}

func TestComputeLineCostCustomConversion(t *testing.T) {
	item := &models.InventoryItem{
		ItemID:           "item-eggs",
		Name:             "Free Range Eggs",
		PurchaseQuantity: "1000",
		PurchaseUnit:     "unit",
		PurchasePrice:    "12.00",
	}
	conversions := []models.CustomUnitConversion{
		{
			ConversionID:    "conv-1",
			InventoryItemID: "item-eggs",
			RecipeUnit:      "g",
			InventoryUnit:   "unit",
			Factor:          "0.01",
		},
	}

	result := ComputeLineCost(line("200", "g", item), conversions)

	assert.False(t, result.HasUnitMismatch)
	require.NotNil(t, result.UsedConversion)
	assert.Equal(t, "conv-1", result.UsedConversion.ConversionID)
	// (12.00 / 1000) * (200 * 0.01)
	assert.True(t, result.Cost.Equal(decimal.RequireFromString("0.024")),
		"cost = %s, want 0.024", result.Cost)
}

func TestComputeLineCostCustomConversionIsDirectional(t *testing.T) {
	item := &models.InventoryItem{
		ItemID:           "item-eggs",
		Name:             "Free Range Eggs",
		PurchaseQuantity: "12",
		PurchaseUnit:     "unit",
		PurchasePrice:    "4.80",
	}
	// Authored backwards: inventory unit on the recipe side.
	conversions := []models.CustomUnitConversion{
		{
			InventoryItemID: "item-eggs",
			RecipeUnit:      "unit",
			InventoryUnit:   "g",
			Factor:          "60",
		},
	}

	result := ComputeLineCost(line("120", "g", item), conversions)

	assert.True(t, result.HasUnitMismatch)
	assert.True(t, result.Cost.IsZero())
}

func TestComputeLineCostCustomConversionScopedToItem(t *testing.T) {
	item := flourItem()
	item.PurchaseUnit = "bag"
	conversions := []models.CustomUnitConversion{
		{InventoryItemID: "some-other-item", RecipeUnit: "g", InventoryUnit: "bag", Factor: "0.001"},
	}

	result := ComputeLineCost(line("200", "g", item), conversions)

	assert.True(t, result.HasUnitMismatch)
}

func TestComputeLineCostDuplicateConversionsFirstWins(t *testing.T) {
	item := &models.InventoryItem{
		ItemID:           "item-eggs",
		Name:             "Free Range Eggs",
		PurchaseQuantity: "1",
		PurchaseUnit:     "unit",
		PurchasePrice:    "1.00",
	}
	conversions := []models.CustomUnitConversion{
		{ConversionID: "conv-a", InventoryItemID: "item-eggs", RecipeUnit: "g", InventoryUnit: "unit", Factor: "0.02"},
		{ConversionID: "conv-b", InventoryItemID: "item-eggs", RecipeUnit: "g", InventoryUnit: "unit", Factor: "0.05"},
	}

	result := ComputeLineCost(line("100", "g", item), conversions)

	require.NotNil(t, result.UsedConversion)
	assert.Equal(t, "conv-a", result.UsedConversion.ConversionID)
	assert.True(t, result.Cost.Equal(decimal.RequireFromString("2")))
}

func TestComputeLineCostIncompleteData(t *testing.T) {
	cases := []struct {
		name string
		line models.RecipeIngredient
	}{
		{"no linked item", line("200", "g", nil)},
		{"zero recipe quantity", line("0", "g", flourItem())},
		{"unparseable recipe quantity", line("a handful", "g", flourItem())},
		{"zero purchase quantity", line("200", "g", &models.InventoryItem{
			ItemID: "x", PurchaseQuantity: "0", PurchaseUnit: "g", PurchasePrice: "12.00",
		})},
		{"bad price", line("200", "g", &models.InventoryItem{
			ItemID: "x", PurchaseQuantity: "1000", PurchaseUnit: "g", PurchasePrice: "n/a",
		})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := ComputeLineCost(tc.line, nil)
			// Incomplete data is worth nothing but is not a unit mismatch.
			assert.True(t, result.Cost.IsZero())
			assert.False(t, result.HasUnitMismatch)
		})
	}
}

func TestSumRecipeCostMatchesLineSum(t *testing.T) {
	eggs := &models.InventoryItem{
		ItemID: "item-eggs", Name: "Eggs",
		PurchaseQuantity: "12", PurchaseUnit: "unit", PurchasePrice: "4.80",
	}
	lines := []models.RecipeIngredient{
		line("200", "g", flourItem()),
		line("2", "unit", eggs),
		line("1 ½", "g", flourItem()),
		line("50", "ml", flourItem()), // mismatch, contributes zero
	}

	total := SumRecipeCost(lines, nil)

	expected := decimal.Zero
	for _, l := range lines {
		expected = expected.Add(ComputeLineCost(l, nil).Cost)
	}
	assert.True(t, total.Equal(expected), "total = %s, want %s", total, expected)

	// 2.40 + 0.80 + 0.018 + 0
	assert.True(t, total.Equal(decimal.RequireFromString("3.218")),
		"total = %s, want 3.218", total)
}

func TestDetailedBreakdown(t *testing.T) {
	eggs := &models.InventoryItem{
		ItemID: "item-eggs", Name: "Free Range Eggs",
		PurchaseQuantity: "12", PurchaseUnit: "unit", PurchasePrice: "4.80",
	}
	butter := &models.InventoryItem{
		ItemID: "item-butter", Name: "Unsalted Butter",
		PurchaseQuantity: "500", PurchaseUnit: "g", PurchasePrice: "6.00",
	}
	conversions := []models.CustomUnitConversion{
		{ConversionID: "conv-1", InventoryItemID: "item-eggs", RecipeUnit: "g", InventoryUnit: "unit", Factor: "0.016"},
	}
	lines := []models.RecipeIngredient{
		line("100", "g", eggs),    // resolved via custom conversion
		line("50", "g", butter),   // same unit
		line("1", "cup", butter),  // volume vs mass: unresolved
	}

	breakdown := DetailedBreakdown(lines, conversions)

	assert.Equal(t, 3, breakdown.LineCount)
	require.Len(t, breakdown.Lines, 3)

	// The custom-resolved line is costed and excluded from the mismatch list.
	assert.NotNil(t, breakdown.Lines[0].UsedConversion)
	assert.False(t, breakdown.Lines[0].HasUnitMismatch)

	require.Len(t, breakdown.Mismatches, 1)
	assert.Equal(t, 1, breakdown.MismatchCount)
	assert.Equal(t, "item-butter", breakdown.Mismatches[0].InventoryItemID)
	assert.False(t, breakdown.Mismatches[0].CanConvert)

	expected := decimal.Zero
	for _, lc := range breakdown.Lines {
		expected = expected.Add(lc.Cost)
	}
	assert.True(t, breakdown.Total.Equal(expected))
}

func TestDetectMismatches(t *testing.T) {
	eggs := &models.InventoryItem{
		ItemID: "item-eggs", Name: "Free Range Eggs",
		PurchaseQuantity: "", PurchaseUnit: "unit", PurchasePrice: "", // no price needed
	}
	flour := flourItem()
	conversions := []models.CustomUnitConversion{
		{ConversionID: "conv-1", InventoryItemID: "item-eggs", RecipeUnit: "g", InventoryUnit: "unit", Factor: "0.016"},
	}
	lines := []models.RecipeIngredient{
		line("100", "g", eggs),   // covered by the custom conversion
		line("2", "unit", flour), // nothing covers unit -> g for flour
		line("200", "g", flour),  // same unit, no warning
		line("1", "kg", flour),   // standard table, no warning
	}

	warnings := DetectMismatches(lines, conversions)

	require.Len(t, warnings, 2)

	assert.Equal(t, "item-eggs", warnings[0].InventoryItemID)
	assert.True(t, warnings[0].CanConvert)
	require.NotNil(t, warnings[0].Conversion)
	assert.Equal(t, "conv-1", warnings[0].Conversion.ConversionID)

	assert.Equal(t, "item-flour", warnings[1].InventoryItemID)
	assert.Equal(t, "unit", warnings[1].RecipeUnit)
	assert.Equal(t, "g", warnings[1].InventoryUnit)
	assert.False(t, warnings[1].CanConvert)
	assert.Nil(t, warnings[1].Conversion)
}
