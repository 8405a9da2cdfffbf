package repository

import (
	"context"
	"math"
	"strings"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/pkg/common"
)

// SentimentAnalyzer scores a piece of text for market sentiment.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (*dto.SentimentResult, error)
}

var positiveKeywords = []string{
	"surge", "rally", "gain", "up", "rise", "growth", "profit", "beat",
	"positive", "bullish", "outperform", "upgrade", "buy", "strong",
}

var negativeKeywords = []string{
	"drop", "fall", "decline", "down", "loss", "miss", "negative",
	"bearish", "underperform", "downgrade", "sell", "weak", "crash",
}

type keywordSentimentAnalyzer struct{}

// NewKeywordSentimentAnalyzer creates an analyzer that scores text by counting
// bullish and bearish keywords. It needs no network and never fails.
func NewKeywordSentimentAnalyzer() SentimentAnalyzer {
	return &keywordSentimentAnalyzer{}
}

// Analyze computes (positive - negative) / total keyword hits, rounded to three
// decimals. Scores within 0.1 of zero are neutral.
func (a *keywordSentimentAnalyzer) Analyze(_ context.Context, text string) (*dto.SentimentResult, error) {
	lower := strings.ToLower(text)

	positiveCount := 0
	for _, word := range positiveKeywords {
		if strings.Contains(lower, word) {
			positiveCount++
		}
	}
	negativeCount := 0
	for _, word := range negativeKeywords {
		if strings.Contains(lower, word) {
			negativeCount++
		}
	}

	total := positiveCount + negativeCount
	if total == 0 {
		return &dto.SentimentResult{Score: 0, Label: common.SentimentNeutral}, nil
	}

	score := float64(positiveCount-negativeCount) / float64(total)
	score = math.Round(score*1000) / 1000

	label := common.SentimentNeutral
	switch {
	case score > 0.1:
		label = common.SentimentPositive
	case score < -0.1:
		label = common.SentimentNegative
	}

	return &dto.SentimentResult{Score: score, Label: label}, nil
}
