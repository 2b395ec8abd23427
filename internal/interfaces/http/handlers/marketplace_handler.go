package handlers

import (
	"net/http"
	"strings"

	"github.com/TRAPZZY/AGRO--007-sub000/internal/domain/entities"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/usecases"
	"github.com/TRAPZZY/AGRO--007-sub000/internal/usecases/livequery"
	"github.com/gin-gonic/gin"
)

// MarketplaceService serves the live browse view
type MarketplaceService interface {
	Browse(f usecases.MarketplaceFilter) []entities.Project
	State() livequery.State
}

// MarketplaceHandler handles the investor browse view
type MarketplaceHandler struct {
	marketplace MarketplaceService
}

// NewMarketplaceHandler creates a new marketplace handler
func NewMarketplaceHandler(marketplace MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplace: marketplace}
}

// Browse lists active projects, newest first
// GET /api/v1/marketplace?category=&risk_level=&search=
func (h *MarketplaceHandler) Browse(c *gin.Context) {
	projects := h.marketplace.Browse(usecases.MarketplaceFilter{
		Category:  entities.ProjectCategory(c.Query("category")),
		RiskLevel: entities.RiskLevel(c.Query("risk_level")),
		Search:    strings.TrimSpace(c.Query("search")),
	})
	state := h.marketplace.State()

	body := gin.H{
		"items":      projects,
		"count":      len(projects),
		"live":       state.Connected,
		"fetched_at": state.FetchedAt,
	}
	if state.Err != nil {
		body["error"] = "Showing the last loaded projects"
	}
	c.JSON(http.StatusOK, body)
}
