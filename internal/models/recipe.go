package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/jinzhu/gorm"
)

// StringSlice represents a slice of strings that can be stored in the database
type StringSlice []string

// Value converts the slice to a JSON string for storage
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan converts the database value back to a slice
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return errors.New("unsupported type for StringSlice")
	}
}

// Recipe represents a costed recipe: a name, a serving count and the
// ingredient lines that link it to inventory items.
type Recipe struct {
	gorm.Model      `json:"-"`
	RecipeID        string      `json:"recipe_id" gorm:"column:recipe_id;unique_index"`
	Name            string      `json:"name"`
	Description     string      `json:"description"`
	Servings        int         `json:"servings"`
	IngredientsJSON string      `json:"-" gorm:"type:text"`
	Tags            StringSlice `json:"tags" gorm:"type:text"`
	// Transient field (ignored by GORM)
	Ingredients []RecipeIngredient `json:"ingredients" gorm:"-"`
}

// TableName sets the table name for Recipe
func (Recipe) TableName() string {
	return "recipes"
}

// GetIngredients returns the deserialized ingredient lines
func (r *Recipe) GetIngredients() ([]RecipeIngredient, error) {
	if len(r.Ingredients) > 0 {
		return r.Ingredients, nil
	}
	var ingredients []RecipeIngredient
	if r.IngredientsJSON == "" {
		return ingredients, nil
	}
	if err := json.Unmarshal([]byte(r.IngredientsJSON), &ingredients); err != nil {
		return nil, err
	}
	r.Ingredients = ingredients
	return ingredients, nil
}

// SetIngredients serializes the ingredient lines for storage
func (r *Recipe) SetIngredients(ingredients []RecipeIngredient) error {
	data, err := json.Marshal(ingredients)
	if err != nil {
		return err
	}
	r.IngredientsJSON = string(data)
	r.Ingredients = ingredients
	return nil
}

// RecipeIngredient is one row of a recipe: a quantity and unit exactly as
// the cook wrote them, plus the inventory item the cost comes from. The
// quantity stays text because it may be a fraction like "½" or "1 1/4".
type RecipeIngredient struct {
	Quantity        string `json:"quantity"`
	Unit            string `json:"unit"`
	InventoryItemID string `json:"inventory_item_id"`
	// InventoryItem is resolved by the store before costing; it is a shared
	// reference, never serialized with the recipe.
	InventoryItem *InventoryItem `json:"-"`
}
