package service

import (
	"fmt"
	"math"

	"golang-stock-insight/internal/api/dto"
)

// Predictor generates a price prediction from historical bars. Implementations
// are pure; data retrieval and persistence stay in the services.
type Predictor interface {
	Name() string
	Predict(history []dto.Quote, daysAhead int) (*dto.PredictionMetadata, float64, float64, error)
}

const (
	shortWindow = 5
	longWindow  = 20
)

type movingAveragePredictor struct{}

// NewMovingAveragePredictor creates the trend-following baseline predictor. The
// short/long moving average gap sets the trend, and confidence grows with the
// trend strength up to 0.8.
func NewMovingAveragePredictor() Predictor {
	return &movingAveragePredictor{}
}

func (p *movingAveragePredictor) Name() string {
	return "simple_ma"
}

func (p *movingAveragePredictor) Predict(history []dto.Quote, daysAhead int) (*dto.PredictionMetadata, float64, float64, error) {
	if len(history) < longWindow {
		return nil, 0, 0, fmt.Errorf("need at least %d bars to predict, got %d", longWindow, len(history))
	}

	maShort := tailMean(history, shortWindow)
	maLong := tailMean(history, longWindow)
	if maLong == 0 {
		return nil, 0, 0, fmt.Errorf("long moving average is zero")
	}
	lastPrice := history[len(history)-1].Close

	trend := (maShort - maLong) / maLong
	predicted := lastPrice * (1 + trend*float64(daysAhead)*0.1)
	confidence := math.Min(0.8, 0.5+math.Abs(trend)*2)

	metadata := &dto.PredictionMetadata{
		DaysAhead: daysAhead,
		BasePrice: lastPrice,
		Trend:     trend,
	}
	return metadata, predicted, confidence, nil
}

// tailMean averages the closes of the last n bars.
func tailMean(history []dto.Quote, n int) float64 {
	sum := 0.0
	for _, q := range history[len(history)-n:] {
		sum += q.Close
	}
	return sum / float64(n)
}
