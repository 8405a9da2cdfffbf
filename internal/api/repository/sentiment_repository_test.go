package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-insight/pkg/common"
)

func TestKeywordSentimentAnalyzer(t *testing.T) {
	analyzer := NewKeywordSentimentAnalyzer()

	tests := []struct {
		name      string
		text      string
		wantScore float64
		wantLabel string
	}{
		{
			name:      "bullish text",
			text:      "Shares surge on strong profit, analysts upgrade to buy",
			wantScore: 1.0,
			wantLabel: common.SentimentPositive,
		},
		{
			name:      "bearish text",
			text:      "Stock plunges in sharp decline after earnings miss, outlook weak",
			wantScore: -1.0,
			wantLabel: common.SentimentNegative,
		},
		{
			name:      "no keywords",
			text:      "The company held its annual shareholder meeting",
			wantScore: 0,
			wantLabel: common.SentimentNeutral,
		},
		{
			name:      "balanced keywords",
			text:      "Revenue growth offset by margin decline",
			wantScore: 0,
			wantLabel: common.SentimentNeutral,
		},
		{
			// "downgrade" matches both the down and downgrade keywords, so
			// this counts 3 positive hits against 2 negative.
			name:      "mixed leaning positive",
			text:      "Rally continues with strong gains despite one analyst downgrade",
			wantScore: 0.2,
			wantLabel: common.SentimentPositive,
		},
		{
			name:      "case insensitive",
			text:      "BULLISH RALLY",
			wantScore: 1.0,
			wantLabel: common.SentimentPositive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := analyzer.Analyze(context.Background(), tt.text)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, result.Score, 1e-9)
			assert.Equal(t, tt.wantLabel, result.Label)
		})
	}
}

func TestKeywordSentimentAnalyzer_RoundsToThreeDecimals(t *testing.T) {
	analyzer := NewKeywordSentimentAnalyzer()

	// Two positive hits against one negative: (2-1)/3 = 0.333...
	result, err := analyzer.Analyze(context.Background(), "surge and rally but loss")
	require.NoError(t, err)
	assert.Equal(t, 0.333, result.Score)
	assert.Equal(t, common.SentimentPositive, result.Label)
}
