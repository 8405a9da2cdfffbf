package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/service"
	"golang-stock-insight/pkg/logger"
)

// InsightHandler handles HTTP requests for research-paper insights.
type InsightHandler struct {
	insightService service.InsightService
	logger         *logger.Logger
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService service.InsightService, logger *logger.Logger) *InsightHandler {
	return &InsightHandler{insightService: insightService, logger: logger}
}

// RegisterRoutes registers the insight routes to the Echo group.
func (h *InsightHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/insights", h.CreateInsight)
	g.GET("/insights", h.ListInsights)
	g.GET("/insights/:id", h.GetInsight)
	g.PATCH("/insights/:id/read", h.MarkInsightRead)
}

// CreateInsight godoc
// @Summary Create a paper insight
// @Description Store an insight extracted from a research paper
// @Tags insights
// @Accept  json
// @Produce  json
// @Param   request  body    dto.CreateInsightRequest  true    "Insight to create"
// @Success 201 {object} entity.PaperInsight
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /insights/insights [post]
func (h *InsightHandler) CreateInsight(c echo.Context) error {
	var req dto.CreateInsightRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	insight, err := h.insightService.CreateInsight(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, insight)
}

// ListInsights godoc
// @Summary List paper insights
// @Description List stored insights, optionally filtered by symbol or unread state
// @Tags insights
// @Produce  json
// @Param   symbol   query   string  false   "Filter by symbol"
// @Param   is_read  query   bool    false   "Filter by read status"
// @Param   limit    query   int     false   "Maximum number of insights"
// @Success 200 {array} entity.PaperInsight
// @Failure 500 {object} dto.ErrorResponse
// @Router /insights/insights [get]
func (h *InsightHandler) ListInsights(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	var isRead *bool
	if raw := c.QueryParam("is_read"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid is_read filter"})
		}
		isRead = &parsed
	}

	insights, err := h.insightService.ListInsights(c.Request().Context(), c.QueryParam("symbol"), isRead, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, insights)
}

// GetInsight godoc
// @Summary Get a paper insight by ID
// @Tags insights
// @Produce  json
// @Param   id  path    int true    "Insight ID"
// @Success 200 {object} entity.PaperInsight
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /insights/insights/{id} [get]
func (h *InsightHandler) GetInsight(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid insight ID"})
	}

	insight, err := h.insightService.GetInsight(c.Request().Context(), uint(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, insight)
}

// MarkInsightRead godoc
// @Summary Mark a paper insight as read
// @Tags insights
// @Produce  json
// @Param   id  path    int true    "Insight ID"
// @Success 200 {object} entity.PaperInsight
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /insights/insights/{id}/read [patch]
func (h *InsightHandler) MarkInsightRead(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid insight ID"})
	}

	insight, err := h.insightService.MarkInsightRead(c.Request().Context(), uint(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, insight)
}
