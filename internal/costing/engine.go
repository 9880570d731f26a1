package costing

import (
	"strings"

	"github.com/shopspring/decimal"

	"larder/internal/models"
	"larder/internal/units"
)

// LineCost is the outcome of costing one recipe line. Cost is zero both for
// incomplete data and for unit mismatches; HasUnitMismatch tells the two
// apart. UsedConversion is set when a custom per-item conversion bridged the
// units.
type LineCost struct {
	IngredientName  string                       `json:"ingredient_name"`
	InventoryItemID string                       `json:"inventory_item_id"`
	Cost            decimal.Decimal              `json:"cost"`
	HasUnitMismatch bool                         `json:"has_unit_mismatch"`
	UsedConversion  *models.CustomUnitConversion `json:"used_conversion,omitempty"`
}

// UnitMismatchWarning flags a line whose recipe unit cannot be reconciled
// with its inventory unit through the standard table. CanConvert reports
// whether a custom conversion covers the pair; when it does the conversion is
// attached so the caller can show which factor will apply.
type UnitMismatchWarning struct {
	InventoryItemID string                       `json:"inventory_item_id"`
	ItemName        string                       `json:"item_name"`
	RecipeUnit      string                       `json:"recipe_unit"`
	InventoryUnit   string                       `json:"inventory_unit"`
	CanConvert      bool                         `json:"can_convert"`
	Conversion      *models.CustomUnitConversion `json:"conversion,omitempty"`
}

// Breakdown is the full costing report for a recipe: the total, every line's
// result, and the mismatches still needing a custom conversion. Lines that
// resolved through a custom conversion are not listed as mismatches.
type Breakdown struct {
	Total         decimal.Decimal       `json:"total"`
	Lines         []LineCost            `json:"lines"`
	Mismatches    []UnitMismatchWarning `json:"mismatches"`
	LineCount     int                   `json:"line_count"`
	MismatchCount int                   `json:"mismatch_count"`
}

// ComputeLineCost turns one recipe line into a per-recipe-unit cost.
//
// Resolution is tiered: identical normalized units, then the standard
// physical table, then a directional custom conversion for the line's item
// (recipe unit -> inventory unit). A line that resolves nowhere is flagged
// and costs exactly zero, so a mismatch can never leak a wrong number into a
// total. Incomplete data (zero quantities, unparseable price, missing item)
// also costs zero but is not a mismatch.
func ComputeLineCost(line models.RecipeIngredient, conversions []models.CustomUnitConversion) LineCost {
	result := LineCost{
		InventoryItemID: line.InventoryItemID,
		Cost:            decimal.Zero,
	}

	item := line.InventoryItem
	if item == nil {
		return result
	}
	result.IngredientName = item.Name

	recipeQty := units.ParseQuantity(line.Quantity)
	purchaseQty := units.ParseQuantity(item.PurchaseQuantity)
	price, err := decimal.NewFromString(strings.TrimSpace(item.PurchasePrice))
	if err != nil || recipeQty.IsZero() || purchaseQty.IsZero() {
		return result
	}

	factor := decimal.NewFromInt(1)
	recipeUnit := units.Normalize(line.Unit)
	inventoryUnit := units.Normalize(item.PurchaseUnit)
	if recipeUnit != inventoryUnit {
		if standard, ok := units.ConversionFactor(line.Unit, item.PurchaseUnit); ok {
			factor = decimal.NewFromFloat(standard)
		} else if custom := findConversion(conversions, item.ItemID, recipeUnit, inventoryUnit); custom != nil {
			factor = units.ParseQuantity(custom.Factor)
			result.UsedConversion = custom
		} else {
			result.HasUnitMismatch = true
			return result
		}
	}

	unitPrice := price.Div(purchaseQty)
	result.Cost = unitPrice.Mul(recipeQty.Mul(factor))
	return result
}

// SumRecipeCost totals the line costs of a recipe. Mismatched lines
// contribute zero, so the total is a lower bound whenever mismatches exist.
func SumRecipeCost(lines []models.RecipeIngredient, conversions []models.CustomUnitConversion) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(ComputeLineCost(line, conversions).Cost)
	}
	return total
}

// DetailedBreakdown costs every line and attaches the unresolved mismatches.
func DetailedBreakdown(lines []models.RecipeIngredient, conversions []models.CustomUnitConversion) Breakdown {
	breakdown := Breakdown{
		Total: decimal.Zero,
		Lines: make([]LineCost, 0, len(lines)),
	}

	for _, line := range lines {
		result := ComputeLineCost(line, conversions)
		breakdown.Lines = append(breakdown.Lines, result)
		breakdown.Total = breakdown.Total.Add(result.Cost)
	}

	for _, warning := range DetectMismatches(lines, conversions) {
		if !warning.CanConvert {
			breakdown.Mismatches = append(breakdown.Mismatches, warning)
		}
	}

	breakdown.LineCount = len(breakdown.Lines)
	breakdown.MismatchCount = len(breakdown.Mismatches)
	return breakdown
}

// DetectMismatches scans lines for unit pairs the standard table cannot
// bridge, without touching quantities or prices, so it can run before a
// recipe is saved. Warnings with CanConvert true are informational (a custom
// conversion will apply); false means the line cannot be costed until one is
// added.
func DetectMismatches(lines []models.RecipeIngredient, conversions []models.CustomUnitConversion) []UnitMismatchWarning {
	var warnings []UnitMismatchWarning
	for _, line := range lines {
		item := line.InventoryItem
		if item == nil {
			continue
		}

		recipeUnit := units.Normalize(line.Unit)
		inventoryUnit := units.Normalize(item.PurchaseUnit)
		if recipeUnit == inventoryUnit {
			continue
		}
		if _, ok := units.ConversionFactor(line.Unit, item.PurchaseUnit); ok {
			continue
		}

		warning := UnitMismatchWarning{
			InventoryItemID: item.ItemID,
			ItemName:        item.Name,
			RecipeUnit:      string(recipeUnit),
			InventoryUnit:   string(inventoryUnit),
		}
		if custom := findConversion(conversions, item.ItemID, recipeUnit, inventoryUnit); custom != nil {
			warning.CanConvert = true
			warning.Conversion = custom
		}
		warnings = append(warnings, warning)
	}
	return warnings
}

// findConversion returns the first conversion matching the item and the
// normalized (recipe unit, inventory unit) pair in that order. Duplicates for
// the same triple may exist; the first one wins.
func findConversion(conversions []models.CustomUnitConversion, itemID string, recipeUnit, inventoryUnit units.CanonicalUnit) *models.CustomUnitConversion {
	for i := range conversions {
		c := &conversions[i]
		if c.InventoryItemID != itemID {
			continue
		}
		if units.Normalize(c.RecipeUnit) == recipeUnit && units.Normalize(c.InventoryUnit) == inventoryUnit {
			return c
		}
	}
	return nil
}
