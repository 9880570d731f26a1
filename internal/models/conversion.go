package models

import (
	"github.com/jinzhu/gorm"
)

// CustomUnitConversion is a per-item override meaning "1 RecipeUnit equals
// Factor InventoryUnits", scoped to one inventory item. The pair is
// directional: the recipe side is always the from side, so a conversion
// authored the other way around will not match a line.
type CustomUnitConversion struct {
	gorm.Model      `json:"-"`
	ConversionID    string `json:"conversion_id" gorm:"column:conversion_id;unique_index"`
	InventoryItemID string `json:"inventory_item_id" gorm:"index"`
	RecipeUnit      string `json:"recipe_unit"`
	InventoryUnit   string `json:"inventory_unit"`
	Factor          string `json:"factor"`
}

// TableName sets the table name for CustomUnitConversion
func (CustomUnitConversion) TableName() string {
	return "custom_unit_conversions"
}
