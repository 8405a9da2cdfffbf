package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-stock-insight/internal/api/service"
	"golang-stock-insight/pkg/logger"
)

// DashboardHandler handles HTTP requests for the combined dashboard view.
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *logger.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService, logger *logger.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// RegisterRoutes registers the dashboard routes to the Echo group.
func (h *DashboardHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:symbol", h.GetDashboard)
}

// GetDashboard godoc
// @Summary Get the dashboard for a symbol
// @Description Get market data, latest predictions, and merged news for a symbol
// @Tags dashboard
// @Produce  json
// @Param   symbol    path    string  true    "Stock or crypto symbol"
// @Param   period    query   string  false   "History period"
// @Param   interval  query   string  false   "Bar interval"
// @Success 200 {object} dto.DashboardResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /dashboard/{symbol} [get]
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	dashboard, err := h.dashboardService.GetDashboard(c.Request().Context(),
		c.Param("symbol"), c.QueryParam("period"), c.QueryParam("interval"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}
