package dto

import (
	"fmt"
	"time"
)

// PredictionRequest asks for a new prediction for a symbol.
type PredictionRequest struct {
	Symbol    string `json:"symbol"`
	ModelName string `json:"model_name,omitempty"`
	DaysAhead int    `json:"days_ahead"`
}

// Validate checks the request parameters.
func (r *PredictionRequest) Validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if r.DaysAhead < 1 || r.DaysAhead > 30 {
		return fmt.Errorf("days_ahead must be between 1 and 30")
	}
	return nil
}

// PredictionMetadata captures the inputs that produced a prediction.
type PredictionMetadata struct {
	DaysAhead int     `json:"days_ahead"`
	BasePrice float64 `json:"base_price"`
	Trend     float64 `json:"trend"`
}

// PredictionResponse is a persisted prediction.
type PredictionResponse struct {
	ID             uint      `json:"id"`
	Symbol         string    `json:"symbol"`
	ModelName      string    `json:"model_name"`
	PredictedPrice float64   `json:"predicted_price"`
	Confidence     float64   `json:"confidence"`
	PredictionDate time.Time `json:"prediction_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// GeneratePredictionResponse is returned after creating a prediction together
// with its evaluation log.
type GeneratePredictionResponse struct {
	ID              uint      `json:"id"`
	Symbol          string    `json:"symbol"`
	ModelName       string    `json:"model_name"`
	PredictedPrice  float64   `json:"predicted_price"`
	Confidence      float64   `json:"confidence"`
	PredictionDate  time.Time `json:"prediction_date"`
	CreatedAt       time.Time `json:"created_at"`
	PredictionLogID uint      `json:"prediction_log_id"`
}
