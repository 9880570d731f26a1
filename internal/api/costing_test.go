package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larder/internal/models"
	"larder/internal/monitoring"
)

// fakeStore serves canned data for handler tests
type fakeStore struct {
	items       map[string]*models.InventoryItem
	recipes     map[string]*models.Recipe
	conversions []models.CustomUnitConversion
	saved       []*models.CustomUnitConversion
}

func (f *fakeStore) GetInventoryItem(itemID string) (*models.InventoryItem, error) {
	if item, ok := f.items[itemID]; ok {
		return item, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeStore) ListInventoryItems() ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	for _, item := range f.items {
		items = append(items, *item)
	}
	return items, nil
}

func (f *fakeStore) SaveInventoryItem(item *models.InventoryItem) error { return nil }
func (f *fakeStore) DeleteInventoryItem(itemID string) error            { return nil }

func (f *fakeStore) GetRecipe(recipeID string) (*models.Recipe, error) {
	if recipe, ok := f.recipes[recipeID]; ok {
		return recipe, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeStore) ListRecipes() ([]models.Recipe, error)  { return nil, nil }
func (f *fakeStore) SaveRecipe(recipe *models.Recipe) error { return nil }
func (f *fakeStore) DeleteRecipe(recipeID string) error     { return nil }

func (f *fakeStore) LoadRecipeLines(recipeID string) ([]models.RecipeIngredient, error) {
	recipe, err := f.GetRecipe(recipeID)
	if err != nil {
		return nil, err
	}
	lines, err := recipe.GetIngredients()
	if err != nil {
		return nil, err
	}
	return f.AttachInventoryItems(lines)
}

func (f *fakeStore) AttachInventoryItems(lines []models.RecipeIngredient) ([]models.RecipeIngredient, error) {
	for i := range lines {
		lines[i].InventoryItem = f.items[lines[i].InventoryItemID]
	}
	return lines, nil
}

func (f *fakeStore) ListConversions() ([]models.CustomUnitConversion, error) {
	return f.conversions, nil
}

func (f *fakeStore) ListConversionsForItems(itemIDs []string) ([]models.CustomUnitConversion, error) {
	return f.conversions, nil
}

func (f *fakeStore) SaveConversion(conversion *models.CustomUnitConversion) error {
	f.saved = append(f.saved, conversion)
	return nil
}

func (f *fakeStore) DeleteConversion(conversionID string) error { return nil }

const testSecret = "test-secret"

func newTestAPI(t *testing.T, store *fakeStore) *CostingAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewCostingAPI(store, monitoring.NewMetricsCollector(), "$", testSecret)
}

func testStore(t *testing.T) *fakeStore {
	t.Helper()
	flour := &models.InventoryItem{
		ItemID: "item-flour", Name: "Plain Flour",
		PurchaseQuantity: "1000", PurchaseUnit: "g", PurchasePrice: "12.00",
	}
	eggs := &models.InventoryItem{
		ItemID: "item-eggs", Name: "Free Range Eggs",
		PurchaseQuantity: "12", PurchaseUnit: "unit", PurchasePrice: "4.80",
	}

	recipe := &models.Recipe{RecipeID: "recipe-1", Name: "Shortcrust"}
	err := recipe.SetIngredients([]models.RecipeIngredient{
		{Quantity: "200", Unit: "g", InventoryItemID: "item-flour"},
		{Quantity: "100", Unit: "g", InventoryItemID: "item-eggs"}, // g vs unit
	})
	require.NoError(t, err)

	return &fakeStore{
		items:   map[string]*models.InventoryItem{"item-flour": flour, "item-eggs": eggs},
		recipes: map[string]*models.Recipe{"recipe-1": recipe},
	}
}

func doRequest(api *CostingAPI, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	api.Router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	api := newTestAPI(t, testStore(t))
	w := doRequest(api, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetRecipeCost(t *testing.T) {
	api := newTestAPI(t, testStore(t))

	w := doRequest(api, http.MethodGet, "/api/v1/recipes/recipe-1/cost", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RecipeID  string `json:"recipe_id"`
		Total     string `json:"total"`
		Formatted string `json:"formatted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// The flour line costs 2.40; the egg line is a mismatch and adds nothing.
	assert.Equal(t, "recipe-1", resp.RecipeID)
	assert.Equal(t, "2.4", resp.Total)
	assert.Equal(t, "$2.40", resp.Formatted)
}

func TestGetRecipeCostNotFound(t *testing.T) {
	api := newTestAPI(t, testStore(t))
	w := doRequest(api, http.MethodGet, "/api/v1/recipes/nope/cost", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRecipeBreakdown(t *testing.T) {
	api := newTestAPI(t, testStore(t))

	w := doRequest(api, http.MethodGet, "/api/v1/recipes/recipe-1/cost/breakdown", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Breakdown struct {
			Lines []struct {
				HasUnitMismatch bool `json:"has_unit_mismatch"`
			} `json:"lines"`
			Mismatches []struct {
				InventoryItemID string `json:"inventory_item_id"`
				CanConvert      bool   `json:"can_convert"`
			} `json:"mismatches"`
			MismatchCount int `json:"mismatch_count"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Breakdown.Lines, 2)
	assert.False(t, resp.Breakdown.Lines[0].HasUnitMismatch)
	assert.True(t, resp.Breakdown.Lines[1].HasUnitMismatch)
	require.Equal(t, 1, resp.Breakdown.MismatchCount)
	assert.Equal(t, "item-eggs", resp.Breakdown.Mismatches[0].InventoryItemID)
	assert.False(t, resp.Breakdown.Mismatches[0].CanConvert)
}

func TestGetRecipeBreakdownWithConversion(t *testing.T) {
	store := testStore(t)
	store.conversions = []models.CustomUnitConversion{
		{ConversionID: "conv-1", InventoryItemID: "item-eggs", RecipeUnit: "g", InventoryUnit: "unit", Factor: "0.016"},
	}
	api := newTestAPI(t, store)

	w := doRequest(api, http.MethodGet, "/api/v1/recipes/recipe-1/cost/breakdown", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Breakdown struct {
			MismatchCount int `json:"mismatch_count"`
		} `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Breakdown.MismatchCount)
}

func TestCheckMismatches(t *testing.T) {
	api := newTestAPI(t, testStore(t))

	body := gin.H{"lines": []gin.H{
		{"quantity": "100", "unit": "g", "inventory_item_id": "item-eggs"},
		{"quantity": "200", "unit": "g", "inventory_item_id": "item-flour"},
	}}
	w := doRequest(api, http.MethodPost, "/api/v1/cost/check", body, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Count      int `json:"count"`
		Mismatches []struct {
			RecipeUnit    string `json:"recipe_unit"`
			InventoryUnit string `json:"inventory_unit"`
			CanConvert    bool   `json:"can_convert"`
		} `json:"mismatches"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "g", resp.Mismatches[0].RecipeUnit)
	assert.Equal(t, "unit", resp.Mismatches[0].InventoryUnit)
	assert.False(t, resp.Mismatches[0].CanConvert)
}

func TestSuggestConversion(t *testing.T) {
	api := newTestAPI(t, testStore(t))

	w := doRequest(api, http.MethodGet, "/api/v1/conversions/suggest?from_unit=unit&to_unit=g&item_id=item-eggs", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Suggested bool    `json:"suggested"`
		Factor    float64 `json:"factor"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Suggested)
	assert.Equal(t, 60.0, resp.Factor) // "egg" keyword
}

func TestSaveConversionRequiresAuth(t *testing.T) {
	store := testStore(t)
	api := newTestAPI(t, store)

	body := gin.H{
		"inventory_item_id": "item-eggs",
		"recipe_unit":       "g",
		"inventory_unit":    "unit",
		"factor":            "0.016",
	}

	w := doRequest(api, http.MethodPost, "/api/v1/conversions", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, store.saved)

	token, err := jwt.New(jwt.SigningMethodHS256).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w = doRequest(api, http.MethodPost, "/api/v1/conversions", body, token)
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.saved, 1)
	assert.Equal(t, "g", store.saved[0].RecipeUnit)
}

func TestSaveConversionRejectsBadToken(t *testing.T) {
	api := newTestAPI(t, testStore(t))
	w := doRequest(api, http.MethodPost, "/api/v1/conversions", gin.H{}, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
