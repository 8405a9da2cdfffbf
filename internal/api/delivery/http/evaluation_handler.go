package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/service"
	"golang-stock-insight/pkg/logger"
)

// EvaluationHandler handles HTTP requests for prediction evaluation.
type EvaluationHandler struct {
	evaluationService service.EvaluationService
	logger            *logger.Logger
}

// NewEvaluationHandler creates a new EvaluationHandler.
func NewEvaluationHandler(evaluationService service.EvaluationService, logger *logger.Logger) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService, logger: logger}
}

// RegisterRoutes registers the evaluation routes to the Echo group.
func (h *EvaluationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/evaluate", h.EvaluatePrediction)
	g.POST("/evaluate-pending", h.EvaluatePending)
	g.GET("/accuracy/:model_name", h.GetModelAccuracy)
	g.GET("/history", h.GetEvaluationHistory)
}

// EvaluatePrediction godoc
// @Summary Evaluate a prediction
// @Description Compare a prediction log with the actual price and record the error rate
// @Tags evaluation
// @Accept  json
// @Produce  json
// @Param   request  body    dto.EvaluationRequest  true    "Evaluation request"
// @Success 200 {object} entity.PredictionLog
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /evaluation/evaluate [post]
func (h *EvaluationHandler) EvaluatePrediction(c echo.Context) error {
	var req dto.EvaluationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request payload"})
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	evaluated, err := h.evaluationService.EvaluatePrediction(c.Request().Context(), &req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, evaluated)
}

// EvaluatePending godoc
// @Summary Evaluate all due predictions
// @Description Evaluate pending prediction logs whose prediction date has passed
// @Tags evaluation
// @Produce  json
// @Param   symbol  query   string  false   "Filter by symbol"
// @Param   limit   query   int     false   "Maximum number of logs to evaluate"
// @Success 200 {object} dto.EvaluatePendingResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /evaluation/evaluate-pending [post]
func (h *EvaluationHandler) EvaluatePending(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.evaluationService.EvaluatePending(c.Request().Context(), c.QueryParam("symbol"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetModelAccuracy godoc
// @Summary Get accuracy metrics for a model
// @Description Get aggregate error rates and the accuracy score for a model
// @Tags evaluation
// @Produce  json
// @Param   model_name  path    string  true    "Model name"
// @Param   symbol      query   string  false   "Filter by symbol"
// @Success 200 {object} dto.ModelAccuracyResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /evaluation/accuracy/{model_name} [get]
func (h *EvaluationHandler) GetModelAccuracy(c echo.Context) error {
	accuracy, err := h.evaluationService.GetModelAccuracy(c.Request().Context(), c.Param("model_name"), c.QueryParam("symbol"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, accuracy)
}

// GetEvaluationHistory godoc
// @Summary Get evaluation history
// @Description Get evaluated prediction logs, newest first
// @Tags evaluation
// @Produce  json
// @Param   symbol      query   string  false   "Filter by symbol"
// @Param   model_name  query   string  false   "Filter by model name"
// @Param   limit       query   int     false   "Maximum number of records"
// @Success 200 {array} entity.PredictionLog
// @Failure 500 {object} dto.ErrorResponse
// @Router /evaluation/history [get]
func (h *EvaluationHandler) GetEvaluationHistory(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	history, err := h.evaluationService.GetEvaluationHistory(c.Request().Context(), c.QueryParam("symbol"), c.QueryParam("model_name"), limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, history)
}
