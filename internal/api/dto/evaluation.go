package dto

import (
	"fmt"

	"golang-stock-insight/internal/entity"
)

// EvaluationRequest asks to evaluate one prediction log. When ActualPrice is
// nil the service fetches the price from market data.
type EvaluationRequest struct {
	PredictionLogID uint     `json:"prediction_log_id"`
	ActualPrice     *float64 `json:"actual_price,omitempty"`
}

// Validate checks the request parameters.
func (r *EvaluationRequest) Validate() error {
	if r.PredictionLogID == 0 {
		return fmt.Errorf("prediction_log_id is required")
	}
	if r.ActualPrice != nil && *r.ActualPrice <= 0 {
		return fmt.Errorf("actual_price must be positive")
	}
	return nil
}

// EvaluatePendingResponse summarizes an evaluation sweep.
type EvaluatePendingResponse struct {
	EvaluatedCount int                    `json:"evaluated_count"`
	EvaluatedLogs  []entity.PredictionLog `json:"evaluated_logs"`
}

// ModelAccuracyResponse carries aggregate error metrics for a model. Rate
// fields are nil when no evaluated logs exist.
type ModelAccuracyResponse struct {
	ModelName        string   `json:"model_name"`
	Symbol           string   `json:"symbol,omitempty"`
	TotalPredictions int      `json:"total_predictions"`
	AverageErrorRate *float64 `json:"average_error_rate"`
	MedianErrorRate  *float64 `json:"median_error_rate"`
	MinErrorRate     *float64 `json:"min_error_rate,omitempty"`
	MaxErrorRate     *float64 `json:"max_error_rate,omitempty"`
	AccuracyScore    *float64 `json:"accuracy_score"`
}
