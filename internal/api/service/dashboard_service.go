package service

import (
	"context"
	"sort"
	"time"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/entity"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
)

// DashboardService assembles the combined per-symbol view.
type DashboardService interface {
	GetDashboard(ctx context.Context, symbol, period, interval string) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	log         *logger.Logger
	marketData  MarketDataService
	predictions PredictionService
	news        NewsService
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(log *logger.Logger, marketData MarketDataService, predictions PredictionService, news NewsService) DashboardService {
	return &dashboardService{
		log:         log,
		marketData:  marketData,
		predictions: predictions,
		news:        news,
	}
}

// GetDashboard combines a month of market data with the latest predictions and
// news. Market data is required; a news fetch failure degrades to stored
// articles only.
func (s *dashboardService) GetDashboard(ctx context.Context, symbol, period, interval string) (*dto.DashboardResponse, error) {
	if period == "" {
		period = common.DefaultPeriod
	}
	if interval == "" {
		interval = common.DefaultInterval
	}

	snapshot, err := s.marketData.GetMarketData(ctx, dto.GetMarketDataParam{
		Symbol:   symbol,
		Period:   period,
		Interval: interval,
	})
	if err != nil {
		return nil, err
	}

	predictions, err := s.predictions.GetPredictions(ctx, snapshot.Symbol, 5)
	if err != nil {
		return nil, err
	}

	fresh, err := s.news.GetLatestNews(ctx, snapshot.Symbol, 10, 7)
	if err != nil {
		s.log.ErrorContext(ctx, "Fresh news unavailable for dashboard",
			logger.StringField("symbol", snapshot.Symbol), logger.ErrorField(err))
	}
	stored, err := s.news.GetNewsHistory(ctx, snapshot.Symbol, 10)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		Symbol:      snapshot.Symbol,
		MarketData:  snapshot,
		Predictions: predictions,
		News:        mergeNews(fresh, stored, 10),
		Timestamp:   time.Now().UTC(),
	}, nil
}

// mergeNews combines fresh and stored articles, deduplicating by link with the
// fresh copy winning, sorted newest first and truncated to max.
func mergeNews(fresh, stored []entity.NewsLog, max int) []dto.NewsArticle {
	seen := make(map[string]struct{}, len(fresh)+len(stored))
	merged := make([]dto.NewsArticle, 0, len(fresh)+len(stored))

	appendNews := func(logs []entity.NewsLog) {
		for _, log := range logs {
			if _, ok := seen[log.Link]; ok {
				continue
			}
			seen[log.Link] = struct{}{}
			merged = append(merged, dto.NewsArticle{
				Symbol:         log.Symbol,
				Title:          log.Title,
				Link:           log.Link,
				Summary:        log.Summary,
				PublishedDate:  log.PublishedDate,
				SentimentScore: log.SentimentScore,
				SentimentLabel: log.SentimentLabel,
				Source:         log.Source,
			})
		}
	}
	appendNews(fresh)
	appendNews(stored)

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].PublishedDate.After(merged[j].PublishedDate)
	})
	if len(merged) > max {
		merged = merged[:max]
	}
	return merged
}
