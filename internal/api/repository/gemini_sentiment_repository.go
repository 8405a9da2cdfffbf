package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"golang-stock-insight/internal/api/config"
	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
)

// geminiSentimentAnalyzer scores text with the Google Gemini API.
type geminiSentimentAnalyzer struct {
	cfg            *config.Config
	log            *logger.Logger
	genAiClient    *genai.Client
	requestLimiter *rate.Limiter
}

// NewGeminiSentimentAnalyzer creates a SentimentAnalyzer backed by the Google
// Gemini API.
func NewGeminiSentimentAnalyzer(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) SentimentAnalyzer {
	secondsPerRequest := time.Minute / time.Duration(cfg.Sentiment.Gemini.MaxRequestPerMinute)
	return &geminiSentimentAnalyzer{
		cfg:            cfg,
		log:            log,
		genAiClient:    genAiClient,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
	}
}

const sentimentPrompt = `Score the market sentiment of the following financial news text.
Respond with JSON only, no prose: {"sentiment_score": <float between -1 and 1>, "sentiment_label": "positive"|"negative"|"neutral"}

Text:
%s`

func (a *geminiSentimentAnalyzer) Analyze(ctx context.Context, text string) (*dto.SentimentResult, error) {
	if err := a.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(fmt.Sprintf(sentimentPrompt, text), "user"),
	}

	resp, err := a.genAiClient.Models.GenerateContent(ctx, a.cfg.Sentiment.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	raw := strings.Trim(resp.Text(), "`json\n`")

	var result dto.SentimentResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		a.log.ErrorContext(ctx, "Failed to unmarshal sentiment from Gemini response",
			logger.ErrorField(err), logger.StringField("raw", raw))
		return nil, fmt.Errorf("failed to unmarshal sentiment result: %w", err)
	}

	switch result.Label {
	case common.SentimentPositive, common.SentimentNegative, common.SentimentNeutral:
	default:
		result.Label = common.SentimentNeutral
	}

	return &result, nil
}
