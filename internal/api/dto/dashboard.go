package dto

import "time"

// DashboardResponse combines the market snapshot, recent predictions, and merged
// news for one symbol.
type DashboardResponse struct {
	Symbol      string               `json:"symbol"`
	MarketData  *MarketSnapshot      `json:"market_data"`
	Predictions []PredictionResponse `json:"predictions"`
	News        []NewsArticle        `json:"news"`
	Timestamp   time.Time            `json:"timestamp"`
}
