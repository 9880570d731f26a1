package models

import (
	"github.com/jinzhu/gorm"
)

// InventoryItem represents a purchasable stock item and its purchase-unit
// economics: how much is bought at once, in what unit, and at what price.
// Quantity and price are stored as decimal text so nothing is lost to binary
// floating point before the cost engine sees it.
type InventoryItem struct {
	gorm.Model       `json:"-"`
	ItemID           string `json:"item_id" gorm:"column:item_id;unique_index"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	PurchaseQuantity string `json:"purchase_quantity"`
	PurchaseUnit     string `json:"purchase_unit"`
	PurchasePrice    string `json:"purchase_price"`
	Notes            string `json:"notes"`
}

// TableName sets the table name for InventoryItem
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// InventoryCategory represents the category of an inventory item
type InventoryCategory string

const (
	// Inventory categories
	CategoryProtein    InventoryCategory = "protein"
	CategoryProduce    InventoryCategory = "produce"
	CategoryDairy      InventoryCategory = "dairy"
	CategoryDryGoods   InventoryCategory = "dry_goods"
	CategorySpices     InventoryCategory = "spices"
	CategoryCondiments InventoryCategory = "condiments"
	CategoryBeverages  InventoryCategory = "beverages"
)
