package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// ApiClient handles API requests to the Larder costing API
type ApiClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewApiClient creates a new API client
func NewApiClient() *ApiClient {
	baseURL := os.Getenv("LARDER_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &ApiClient{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
	}
}

// CheckHealth checks if the API is up and running
func (c *ApiClient) CheckHealth() (bool, error) {
	resp, err := c.httpClient.Get(c.BaseURL + "/health")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("API health check failed with status code: %d", resp.StatusCode)
	}

	return true, nil
}

// Recipe represents a recipe as returned by the API
type Recipe struct {
	RecipeID    string       `json:"recipe_id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Servings    int          `json:"servings"`
	Tags        []string     `json:"tags"`
	Ingredients []Ingredient `json:"ingredients"`
}

// Ingredient represents one recipe line
type Ingredient struct {
	Quantity        string `json:"quantity"`
	Unit            string `json:"unit"`
	InventoryItemID string `json:"inventory_item_id"`
}

// InventoryItem represents a stock item and its purchase economics
type InventoryItem struct {
	ItemID           string `json:"item_id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	PurchaseQuantity string `json:"purchase_quantity"`
	PurchaseUnit     string `json:"purchase_unit"`
	PurchasePrice    string `json:"purchase_price"`
}

// Conversion represents a custom unit conversion
type Conversion struct {
	ConversionID    string `json:"conversion_id"`
	InventoryItemID string `json:"inventory_item_id"`
	RecipeUnit      string `json:"recipe_unit"`
	InventoryUnit   string `json:"inventory_unit"`
	Factor          string `json:"factor"`
}

// LineCost is one line of a cost breakdown
type LineCost struct {
	IngredientName  string `json:"ingredient_name"`
	InventoryItemID string `json:"inventory_item_id"`
	Cost            string `json:"cost"`
	HasUnitMismatch bool   `json:"has_unit_mismatch"`
}

// Mismatch is a line the engine could not cost
type Mismatch struct {
	InventoryItemID string `json:"inventory_item_id"`
	ItemName        string `json:"item_name"`
	RecipeUnit      string `json:"recipe_unit"`
	InventoryUnit   string `json:"inventory_unit"`
	CanConvert      bool   `json:"can_convert"`
}

// Breakdown is the full costing report for a recipe
type Breakdown struct {
	Total         string     `json:"total"`
	Lines         []LineCost `json:"lines"`
	Mismatches    []Mismatch `json:"mismatches"`
	LineCount     int        `json:"line_count"`
	MismatchCount int        `json:"mismatch_count"`
}

// BreakdownResponse wraps the breakdown endpoint response
type BreakdownResponse struct {
	RecipeID  string    `json:"recipe_id"`
	Breakdown Breakdown `json:"breakdown"`
	Formatted string    `json:"formatted"`
}

// SuggestionResponse wraps the conversion suggestion endpoint response
type SuggestionResponse struct {
	Suggested bool    `json:"suggested"`
	Factor    float64 `json:"factor"`
}

func (c *ApiClient) getJSON(path string, out interface{}) error {
	resp, err := c.httpClient.Get(c.BaseURL + path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s failed with status code: %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// GetRecipes retrieves all recipes
func (c *ApiClient) GetRecipes() ([]Recipe, error) {
	var recipes []Recipe
	if err := c.getJSON("/api/v1/recipes", &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetBreakdown retrieves the cost breakdown for a recipe
func (c *ApiClient) GetBreakdown(recipeID string) (*BreakdownResponse, error) {
	var breakdown BreakdownResponse
	if err := c.getJSON("/api/v1/recipes/"+recipeID+"/cost/breakdown", &breakdown); err != nil {
		return nil, err
	}
	return &breakdown, nil
}

// GetInventory retrieves all inventory items
func (c *ApiClient) GetInventory() ([]InventoryItem, error) {
	var items []InventoryItem
	if err := c.getJSON("/api/v1/inventory", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetConversions retrieves all custom unit conversions
func (c *ApiClient) GetConversions() ([]Conversion, error) {
	var conversions []Conversion
	if err := c.getJSON("/api/v1/conversions", &conversions); err != nil {
		return nil, err
	}
	return conversions, nil
}

// SuggestFactor asks the API for a conversion factor suggestion
func (c *ApiClient) SuggestFactor(fromUnit, toUnit, itemID string) (*SuggestionResponse, error) {
	query := url.Values{}
	query.Set("from_unit", fromUnit)
	query.Set("to_unit", toUnit)
	query.Set("item_id", itemID)

	var suggestion SuggestionResponse
	if err := c.getJSON("/api/v1/conversions/suggest?"+query.Encode(), &suggestion); err != nil {
		return nil, err
	}
	return &suggestion, nil
}
