package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"larder/internal/models"
)

// Store wraps the gorm handle with the queries the costing API needs.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store around an open database connection
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Inventory items

// GetInventoryItem fetches one item by its public id
func (s *Store) GetInventoryItem(itemID string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.db.Where("item_id = ?", itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListInventoryItems returns every stock item
func (s *Store) ListInventoryItems() ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	if err := s.db.Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// SaveInventoryItem creates or updates an item, assigning a public id on
// first save
func (s *Store) SaveInventoryItem(item *models.InventoryItem) error {
	if item.ItemID == "" {
		item.ItemID = uuid.New().String()
	}
	return s.db.Save(item).Error
}

// DeleteInventoryItem removes an item by its public id
func (s *Store) DeleteInventoryItem(itemID string) error {
	return s.db.Where("item_id = ?", itemID).Delete(&models.InventoryItem{}).Error
}

// Recipes

// GetRecipe fetches one recipe by its public id
func (s *Store) GetRecipe(recipeID string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.Where("recipe_id = ?", recipeID).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// ListRecipes returns every recipe
func (s *Store) ListRecipes() ([]models.Recipe, error) {
	var recipes []models.Recipe
	if err := s.db.Order("name").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// SaveRecipe creates or updates a recipe, assigning a public id on first save
func (s *Store) SaveRecipe(recipe *models.Recipe) error {
	if recipe.RecipeID == "" {
		recipe.RecipeID = uuid.New().String()
	}
	return s.db.Save(recipe).Error
}

// DeleteRecipe removes a recipe by its public id
func (s *Store) DeleteRecipe(recipeID string) error {
	return s.db.Where("recipe_id = ?", recipeID).Delete(&models.Recipe{}).Error
}

// LoadRecipeLines returns a recipe's ingredient lines with their inventory
// items attached, ready for the cost engine.
func (s *Store) LoadRecipeLines(recipeID string) ([]models.RecipeIngredient, error) {
	recipe, err := s.GetRecipe(recipeID)
	if err != nil {
		return nil, err
	}
	lines, err := recipe.GetIngredients()
	if err != nil {
		return nil, fmt.Errorf("decode ingredients of recipe %s: %w", recipeID, err)
	}
	return s.AttachInventoryItems(lines)
}

// AttachInventoryItems resolves each line's inventory reference. Lines
// pointing at an unknown item keep a nil item and cost nothing; the engine
// does not treat them as mismatches.
func (s *Store) AttachInventoryItems(lines []models.RecipeIngredient) ([]models.RecipeIngredient, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.InventoryItemID != "" {
			ids = append(ids, line.InventoryItemID)
		}
	}
	if len(ids) == 0 {
		return lines, nil
	}

	var items []models.InventoryItem
	if err := s.db.Where("item_id IN (?)", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*models.InventoryItem, len(items))
	for i := range items {
		byID[items[i].ItemID] = &items[i]
	}

	for i := range lines {
		lines[i].InventoryItem = byID[lines[i].InventoryItemID]
	}
	return lines, nil
}

// Custom conversions

// ListConversions returns every custom conversion
func (s *Store) ListConversions() ([]models.CustomUnitConversion, error) {
	var conversions []models.CustomUnitConversion
	if err := s.db.Order("id").Find(&conversions).Error; err != nil {
		return nil, err
	}
	return conversions, nil
}

// ListConversionsForItems returns the conversions scoped to the given items,
// oldest first so the engine's first-match rule is stable.
func (s *Store) ListConversionsForItems(itemIDs []string) ([]models.CustomUnitConversion, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	var conversions []models.CustomUnitConversion
	if err := s.db.Where("inventory_item_id IN (?)", itemIDs).Order("id").Find(&conversions).Error; err != nil {
		return nil, err
	}
	return conversions, nil
}

// SaveConversion creates or updates a conversion, assigning a public id on
// first save
func (s *Store) SaveConversion(conversion *models.CustomUnitConversion) error {
	if conversion.ConversionID == "" {
		conversion.ConversionID = uuid.New().String()
	}
	return s.db.Save(conversion).Error
}

// DeleteConversion removes a conversion by its public id
func (s *Store) DeleteConversion(conversionID string) error {
	return s.db.Where("conversion_id = ?", conversionID).Delete(&models.CustomUnitConversion{}).Error
}

// IsNotFound reports whether an error is gorm's record-not-found
func IsNotFound(err error) bool {
	return gorm.IsRecordNotFoundError(err)
}
