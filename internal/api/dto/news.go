package dto

import (
	"fmt"
	"time"
)

// NewsFetchRequest asks to fetch and persist news for a symbol.
type NewsFetchRequest struct {
	Symbol   string `json:"symbol"`
	Limit    int    `json:"limit,omitempty"`
	DaysBack int    `json:"days_back,omitempty"`
}

// Validate checks the request parameters and applies defaults.
func (r *NewsFetchRequest) Validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if r.Limit == 0 {
		r.Limit = 10
	}
	if r.Limit < 1 || r.Limit > 50 {
		return fmt.Errorf("limit must be between 1 and 50")
	}
	if r.DaysBack == 0 {
		r.DaysBack = 7
	}
	if r.DaysBack < 1 || r.DaysBack > 30 {
		return fmt.Errorf("days_back must be between 1 and 30")
	}
	return nil
}

// NewsArticle is a fetched article before persistence.
type NewsArticle struct {
	Symbol         string    `json:"symbol"`
	Title          string    `json:"title"`
	Link           string    `json:"link"`
	Summary        string    `json:"summary,omitempty"`
	PublishedDate  time.Time `json:"published_date"`
	SentimentScore float64   `json:"sentiment_score"`
	SentimentLabel string    `json:"sentiment_label"`
	Source         string    `json:"source"`
}

// SentimentResult is the outcome of scoring a piece of text.
type SentimentResult struct {
	Score float64 `json:"sentiment_score"`
	Label string  `json:"sentiment_label"`
}
