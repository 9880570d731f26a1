package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"larder/internal/costing"
	"larder/internal/models"
	"larder/internal/monitoring"
	"larder/internal/units"
)

// CostingAPI represents the main API handler for recipe costing
type CostingAPI struct {
	Router         *gin.Engine
	Store          Store
	Metrics        *monitoring.MetricsCollector
	CurrencySymbol string
	AuthSecret     string
}

// Store is the persistence interface the costing API consumes
type Store interface {
	GetInventoryItem(itemID string) (*models.InventoryItem, error)
	ListInventoryItems() ([]models.InventoryItem, error)
	SaveInventoryItem(item *models.InventoryItem) error
	DeleteInventoryItem(itemID string) error

	GetRecipe(recipeID string) (*models.Recipe, error)
	ListRecipes() ([]models.Recipe, error)
	SaveRecipe(recipe *models.Recipe) error
	DeleteRecipe(recipeID string) error
	LoadRecipeLines(recipeID string) ([]models.RecipeIngredient, error)
	AttachInventoryItems(lines []models.RecipeIngredient) ([]models.RecipeIngredient, error)

	ListConversions() ([]models.CustomUnitConversion, error)
	ListConversionsForItems(itemIDs []string) ([]models.CustomUnitConversion, error)
	SaveConversion(conversion *models.CustomUnitConversion) error
	DeleteConversion(conversionID string) error
}

// NewCostingAPI creates a new costing API instance
func NewCostingAPI(store Store, metrics *monitoring.MetricsCollector, currencySymbol, authSecret string) *CostingAPI {
	api := &CostingAPI{
		Router:         gin.Default(),
		Store:          store,
		Metrics:        metrics,
		CurrencySymbol: currencySymbol,
		AuthSecret:     authSecret,
	}

	api.setupRoutes()
	return api
}

// setupRoutes configures all API endpoints
func (a *CostingAPI) setupRoutes() {
	// Health check
	a.Router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Larder API is running"})
	})

	v1 := a.Router.Group("/api/v1")
	{
		// Recipes and their costs
		v1.GET("/recipes", a.ListRecipes)
		v1.GET("/recipes/:id", a.GetRecipe)
		v1.GET("/recipes/:id/cost", a.GetRecipeCost)
		v1.GET("/recipes/:id/cost/breakdown", a.GetRecipeBreakdown)

		// Pre-save mismatch check on unsaved lines
		v1.POST("/cost/check", a.CheckMismatches)

		// Inventory
		v1.GET("/inventory", a.ListInventory)
		v1.GET("/inventory/:id", a.GetInventoryItem)

		// Custom conversions
		v1.GET("/conversions", a.ListConversions)
		v1.GET("/conversions/suggest", a.SuggestConversion)
	}

	// Mutating routes require a valid token
	protected := a.Router.Group("/api/v1")
	protected.Use(AuthMiddleware(a.AuthSecret))
	{
		protected.POST("/recipes", a.SaveRecipe)
		protected.DELETE("/recipes/:id", a.DeleteRecipe)
		protected.POST("/inventory", a.SaveInventoryItem)
		protected.DELETE("/inventory/:id", a.DeleteInventoryItem)
		protected.POST("/conversions", a.SaveConversion)
		protected.DELETE("/conversions/:id", a.DeleteConversion)
	}
}

// Recipe handlers

func (a *CostingAPI) ListRecipes(c *gin.Context) {
	recipes, err := a.Store.ListRecipes()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (a *CostingAPI) GetRecipe(c *gin.Context) {
	recipe, err := a.Store.GetRecipe(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}
	if _, err := recipe.GetIngredients(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (a *CostingAPI) SaveRecipe(c *gin.Context) {
	var req struct {
		RecipeID    string                    `json:"recipe_id"`
		Name        string                    `json:"name"`
		Description string                    `json:"description"`
		Servings    int                       `json:"servings"`
		Tags        []string                  `json:"tags"`
		Ingredients []models.RecipeIngredient `json:"ingredients"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe := &models.Recipe{
		RecipeID:    req.RecipeID,
		Name:        req.Name,
		Description: req.Description,
		Servings:    req.Servings,
		Tags:        models.StringSlice(req.Tags),
	}
	if err := recipe.SetIngredients(req.Ingredients); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Store.SaveRecipe(recipe); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (a *CostingAPI) DeleteRecipe(c *gin.Context) {
	if err := a.Store.DeleteRecipe(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted"})
}

// Cost handlers

func (a *CostingAPI) GetRecipeCost(c *gin.Context) {
	recipeID := c.Param("id")
	lines, conversions, ok := a.loadCostInputs(c, recipeID)
	if !ok {
		return
	}

	total := costing.SumRecipeCost(lines, conversions)
	totalFloat, _ := total.Float64()
	a.Metrics.RecordRecipeTotal(a.CurrencySymbol, totalFloat)

	c.JSON(http.StatusOK, gin.H{
		"recipe_id": recipeID,
		"total":     total,
		"formatted": costing.FormatCurrency(total, a.CurrencySymbol),
	})
}

func (a *CostingAPI) GetRecipeBreakdown(c *gin.Context) {
	recipeID := c.Param("id")
	lines, conversions, ok := a.loadCostInputs(c, recipeID)
	if !ok {
		return
	}

	breakdown := costing.DetailedBreakdown(lines, conversions)
	a.recordBreakdown(recipeID, breakdown)

	c.JSON(http.StatusOK, gin.H{
		"recipe_id": recipeID,
		"breakdown": breakdown,
		"formatted": costing.FormatCurrency(breakdown.Total, a.CurrencySymbol),
	})
}

// CheckMismatches runs the standalone pre-save scan over unsaved lines so an
// editor can prompt for conversions before committing a recipe.
func (a *CostingAPI) CheckMismatches(c *gin.Context) {
	var req struct {
		Lines []models.RecipeIngredient `json:"lines"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lines, err := a.Store.AttachInventoryItems(req.Lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	conversions, err := a.conversionsForLines(lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	warnings := costing.DetectMismatches(lines, conversions)
	c.JSON(http.StatusOK, gin.H{"mismatches": warnings, "count": len(warnings)})
}

// Inventory handlers

func (a *CostingAPI) ListInventory(c *gin.Context) {
	items, err := a.Store.ListInventoryItems()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (a *CostingAPI) GetInventoryItem(c *gin.Context) {
	item, err := a.Store.GetInventoryItem(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Inventory item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (a *CostingAPI) SaveInventoryItem(c *gin.Context) {
	var item models.InventoryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Store.SaveInventoryItem(&item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (a *CostingAPI) DeleteInventoryItem(c *gin.Context) {
	if err := a.Store.DeleteInventoryItem(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted"})
}

// Conversion handlers

func (a *CostingAPI) ListConversions(c *gin.Context) {
	conversions, err := a.Store.ListConversions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, conversions)
}

func (a *CostingAPI) SaveConversion(c *gin.Context) {
	var conversion models.CustomUnitConversion
	if err := c.ShouldBindJSON(&conversion); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if conversion.InventoryItemID == "" || conversion.RecipeUnit == "" || conversion.InventoryUnit == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "inventory_item_id, recipe_unit and inventory_unit are required"})
		return
	}
	if err := a.Store.SaveConversion(&conversion); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, conversion)
}

func (a *CostingAPI) DeleteConversion(c *gin.Context) {
	if err := a.Store.DeleteConversion(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversion deleted"})
}

// SuggestConversion pre-fills a factor for the conversion editor from the
// unit pair and item name. Purely advisory; never used in cost computation.
func (a *CostingAPI) SuggestConversion(c *gin.Context) {
	fromUnit := c.Query("from_unit")
	toUnit := c.Query("to_unit")
	itemName := c.Query("item_name")
	if itemID := c.Query("item_id"); itemID != "" && itemName == "" {
		if item, err := a.Store.GetInventoryItem(itemID); err == nil {
			itemName = item.Name
		}
	}

	factor, ok := units.SuggestFactor(fromUnit, toUnit, itemName)
	a.Metrics.RecordSuggestion(ok)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"suggested": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggested": true, "factor": factor})
}

// Private helper methods

func (a *CostingAPI) loadCostInputs(c *gin.Context, recipeID string) ([]models.RecipeIngredient, []models.CustomUnitConversion, bool) {
	lines, err := a.Store.LoadRecipeLines(recipeID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return nil, nil, false
	}
	conversions, err := a.conversionsForLines(lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	return lines, conversions, true
}

func (a *CostingAPI) conversionsForLines(lines []models.RecipeIngredient) ([]models.CustomUnitConversion, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.InventoryItemID != "" {
			ids = append(ids, line.InventoryItemID)
		}
	}
	return a.Store.ListConversionsForItems(ids)
}

func (a *CostingAPI) recordBreakdown(recipeID string, breakdown costing.Breakdown) {
	for _, lineCost := range breakdown.Lines {
		switch {
		case lineCost.HasUnitMismatch:
			a.Metrics.RecordLineOutcome(monitoring.OutcomeMismatch)
		case lineCost.Cost.IsZero():
			a.Metrics.RecordLineOutcome(monitoring.OutcomeIncomplete)
		default:
			a.Metrics.RecordLineOutcome(monitoring.OutcomeCosted)
		}
	}
	total, _ := breakdown.Total.Float64()
	a.Metrics.RecordRecipeTotal(a.CurrencySymbol, total)
	a.Metrics.RecordMismatchCount(recipeID, breakdown.MismatchCount)
}
