package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/service"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
)

// StockHandler handles HTTP requests for market data.
type StockHandler struct {
	marketDataService service.MarketDataService
	logger            *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(marketDataService service.MarketDataService, logger *logger.Logger) *StockHandler {
	return &StockHandler{marketDataService: marketDataService, logger: logger}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/quote/:symbol", h.GetQuote)
	g.GET("/history/:symbol", h.GetHistory)
	g.GET("/crypto/:symbol", h.GetCrypto)
}

// GetQuote godoc
// @Summary Get the latest quote for a symbol
// @Description Get the current price, change, and volume for a stock symbol
// @Tags stocks
// @Produce  json
// @Param   symbol  path    string  true    "Stock symbol"
// @Success 200 {object} dto.QuoteResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/quote/{symbol} [get]
func (h *StockHandler) GetQuote(c echo.Context) error {
	quote, err := h.marketDataService.GetQuote(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}

// GetHistory godoc
// @Summary Get historical market data for a symbol
// @Description Get OHLCV history for a stock symbol over a period
// @Tags stocks
// @Produce  json
// @Param   symbol    path    string  true    "Stock symbol"
// @Param   period    query   string  false   "History period (1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max)"
// @Param   interval  query   string  false   "Bar interval (1m, 5m, 1h, 1d, 1wk, 1mo)"
// @Success 200 {object} dto.MarketSnapshot
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/history/{symbol} [get]
func (h *StockHandler) GetHistory(c echo.Context) error {
	param := dto.GetMarketDataParam{
		Symbol:   c.Param("symbol"),
		Period:   queryDefault(c, "period", common.DefaultPeriod),
		Interval: queryDefault(c, "interval", common.DefaultInterval),
	}
	snapshot, err := h.marketDataService.GetMarketData(c.Request().Context(), param)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

// GetCrypto godoc
// @Summary Get market data for a cryptocurrency
// @Description Get OHLCV history for a crypto symbol; a bare coin symbol is paired with USD
// @Tags stocks
// @Produce  json
// @Param   symbol    path    string  true    "Crypto symbol (BTC or BTC-USD)"
// @Param   period    query   string  false   "History period"
// @Param   interval  query   string  false   "Bar interval"
// @Success 200 {object} dto.MarketSnapshot
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/crypto/{symbol} [get]
func (h *StockHandler) GetCrypto(c echo.Context) error {
	param := dto.GetMarketDataParam{
		Period:   queryDefault(c, "period", common.DefaultPeriod),
		Interval: queryDefault(c, "interval", common.DefaultInterval),
	}
	snapshot, err := h.marketDataService.GetCryptoData(c.Request().Context(), c.Param("symbol"), param)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, snapshot)
}

func queryDefault(c echo.Context, name, fallback string) string {
	if v := c.QueryParam(name); v != "" {
		return v
	}
	return fallback
}
