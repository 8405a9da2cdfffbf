package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/service"
	"golang-stock-insight/pkg/logger"
)

// NewsHandler handles HTTP requests for news.
type NewsHandler struct {
	newsService service.NewsService
	logger      *logger.Logger
}

// NewNewsHandler creates a new NewsHandler.
func NewNewsHandler(newsService service.NewsService, logger *logger.Logger) *NewsHandler {
	return &NewsHandler{newsService: newsService, logger: logger}
}

// RegisterRoutes registers the news routes to the Echo group.
func (h *NewsHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/fetch", h.FetchNews)
	g.GET("/history/:symbol", h.GetNewsHistory)
	g.GET("/:symbol", h.GetLatestNews)
}

// GetLatestNews godoc
// @Summary Get latest news for a symbol
// @Description Fetch fresh articles with sentiment and save the unseen ones
// @Tags news
// @Produce  json
// @Param   symbol     path    string  true    "Stock or crypto symbol"
// @Param   limit      query   int     false   "Maximum number of articles"
// @Param   days_back  query   int     false   "Lookback window in days"
// @Success 200 {array} entity.NewsLog
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /news/{symbol} [get]
func (h *NewsHandler) GetLatestNews(c echo.Context) error {
	req := dto.NewsFetchRequest{Symbol: c.Param("symbol")}
	req.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	req.DaysBack, _ = strconv.Atoi(c.QueryParam("days_back"))
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	news, err := h.newsService.GetLatestNews(c.Request().Context(), req.Symbol, req.Limit, req.DaysBack)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, news)
}

// FetchNews godoc
// @Summary Fetch and save news for a symbol
// @Description Fetch fresh articles, refreshing the sentiment of already stored ones
// @Tags news
// @Accept  json
// @Produce  json
// @Param   request  body    dto.NewsFetchRequest  true    "Fetch request"
// @Success 200 {array} entity.NewsLog
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /news/fetch [post]
func (h *NewsHandler) FetchNews(c echo.Context) error {
	var req dto.NewsFetchRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	news, err := h.newsService.FetchAndSaveNews(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, news)
}

// GetNewsHistory godoc
// @Summary Get stored news for a symbol
// @Description Get persisted news articles for a symbol, newest first
// @Tags news
// @Produce  json
// @Param   symbol  path    string  true    "Stock or crypto symbol"
// @Param   limit   query   int     false   "Maximum number of articles"
// @Success 200 {array} entity.NewsLog
// @Failure 500 {object} dto.ErrorResponse
// @Router /news/history/{symbol} [get]
func (h *NewsHandler) GetNewsHistory(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	news, err := h.newsService.GetNewsHistory(c.Request().Context(), c.Param("symbol"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, news)
}
