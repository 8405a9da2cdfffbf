package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/service"
	"golang-stock-insight/pkg/logger"
)

// PredictionHandler handles HTTP requests for predictions.
type PredictionHandler struct {
	predictionService service.PredictionService
	logger            *logger.Logger
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictionService service.PredictionService, logger *logger.Logger) *PredictionHandler {
	return &PredictionHandler{predictionService: predictionService, logger: logger}
}

// RegisterRoutes registers the prediction routes to the Echo group.
func (h *PredictionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/predict", h.GeneratePrediction)
	g.GET("/predictions/:symbol", h.GetPredictions)
}

// GeneratePrediction godoc
// @Summary Generate a prediction
// @Description Generate a price prediction for a symbol and store it with its evaluation log
// @Tags predictions
// @Accept  json
// @Produce  json
// @Param   request  body    dto.PredictionRequest  true    "Prediction request"
// @Success 200 {object} dto.GeneratePredictionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /predictions/predict [post]
func (h *PredictionHandler) GeneratePrediction(c echo.Context) error {
	var req dto.PredictionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	resp, err := h.predictionService.GeneratePrediction(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// GetPredictions godoc
// @Summary Get stored predictions for a symbol
// @Description Get the most recent predictions for a symbol
// @Tags predictions
// @Produce  json
// @Param   symbol  path    string  true    "Stock or crypto symbol"
// @Param   limit   query   int     false   "Maximum number of predictions"
// @Success 200 {array} dto.PredictionResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /predictions/predictions/{symbol} [get]
func (h *PredictionHandler) GetPredictions(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	predictions, err := h.predictionService.GetPredictions(c.Request().Context(), c.Param("symbol"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, predictions)
}
