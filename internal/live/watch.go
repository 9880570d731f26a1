package live

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"larder/internal/costing"
	"larder/internal/models"
	"larder/internal/monitoring"
)

// CostSource loads the inputs the watch server needs to recompute a recipe
type CostSource interface {
	LoadRecipeLines(recipeID string) ([]models.RecipeIngredient, error)
	ListConversionsForItems(itemIDs []string) ([]models.CustomUnitConversion, error)
}

// WatchServer streams recipe cost breakdowns to connected editors so costs
// update as conversions and prices change
type WatchServer struct {
	source         CostSource
	monitor        *monitoring.Monitor
	currencySymbol string
}

// NewWatchServer creates a new watch server instance
func NewWatchServer(source CostSource, currencySymbol string) *WatchServer {
	return &WatchServer{
		source:         source,
		monitor:        monitoring.NewMonitor(),
		currencySymbol: currencySymbol,
	}
}

// RegisterRoutes mounts the watch endpoints on the API router
func (s *WatchServer) RegisterRoutes(router *gin.Engine) {
	router.GET("/ws", s.handleWebSocket)
	router.GET("/api/v1/watch/stats", s.handleStats)
}

// handleStats reports watch activity counters
func (s *WatchServer) handleStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.monitor.GetMetrics())
}

// recompute builds a fresh cost update for one recipe
func (s *WatchServer) recompute(recipeID string) (*CostUpdate, error) {
	lines, err := s.source.LoadRecipeLines(recipeID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.InventoryItemID != "" {
			ids = append(ids, line.InventoryItemID)
		}
	}
	conversions, err := s.source.ListConversionsForItems(ids)
	if err != nil {
		return nil, err
	}

	breakdown := costing.DetailedBreakdown(lines, conversions)
	s.monitor.RecordRecalculation(recipeID)

	return &CostUpdate{
		RecipeID:  recipeID,
		Breakdown: breakdown,
		Formatted: costing.FormatCurrency(breakdown.Total, s.currencySymbol),
	}, nil
}
