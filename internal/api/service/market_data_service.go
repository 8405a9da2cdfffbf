package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/internal/api/repository"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/redis"
)

// MarketDataService serves market snapshots, quotes, and crypto data.
type MarketDataService interface {
	GetMarketData(ctx context.Context, param dto.GetMarketDataParam) (*dto.MarketSnapshot, error)
	GetQuote(ctx context.Context, symbol string) (*dto.QuoteResponse, error)
	GetCryptoData(ctx context.Context, symbol string, param dto.GetMarketDataParam) (*dto.MarketSnapshot, error)
}

const (
	requestCountTTL = 10 * time.Minute
	lastPriceTTL    = 15 * time.Minute
)

type marketDataService struct {
	log            *logger.Logger
	marketDataRepo repository.MarketDataRepository
	redisClient    *redis.Client
	requestTracker *gocache.Cache
}

// NewMarketDataService creates a new MarketDataService. The request tracker
// keeps a short-lived per-symbol request count for diagnostics only.
func NewMarketDataService(log *logger.Logger, marketDataRepo repository.MarketDataRepository, redisClient *redis.Client) MarketDataService {
	return &marketDataService{
		log:            log,
		marketDataRepo: marketDataRepo,
		redisClient:    redisClient,
		requestTracker: gocache.New(requestCountTTL, 2*requestCountTTL),
	}
}

func (s *marketDataService) GetMarketData(ctx context.Context, param dto.GetMarketDataParam) (*dto.MarketSnapshot, error) {
	param.Symbol = strings.ToUpper(strings.TrimSpace(param.Symbol))
	if param.Symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	s.trackRequest(ctx, param.Symbol)

	snapshot, err := s.marketDataRepo.GetMarketData(ctx, param)
	if err != nil {
		return nil, err
	}

	s.recordLastPrice(ctx, snapshot)
	return snapshot, nil
}

// GetQuote returns the latest intraday quote for the symbol.
func (s *marketDataService) GetQuote(ctx context.Context, symbol string) (*dto.QuoteResponse, error) {
	snapshot, err := s.GetMarketData(ctx, dto.GetMarketDataParam{
		Symbol:   symbol,
		Period:   "1d",
		Interval: "1m",
	})
	if err != nil {
		return nil, err
	}
	return &dto.QuoteResponse{
		Symbol:        snapshot.Symbol,
		CurrentPrice:  snapshot.CurrentPrice,
		Change:        snapshot.Change,
		ChangePercent: snapshot.ChangePercent,
		Volume:        snapshot.Volume,
		Timestamp:     snapshot.Timestamp,
	}, nil
}

// GetCryptoData fetches market data for a crypto symbol, appending the -USD
// pair suffix when the caller passed a bare coin symbol.
func (s *marketDataService) GetCryptoData(ctx context.Context, symbol string, param dto.GetMarketDataParam) (*dto.MarketSnapshot, error) {
	param.Symbol = coerceCryptoSymbol(symbol)
	return s.GetMarketData(ctx, param)
}

func coerceCryptoSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if strings.HasSuffix(symbol, "-USD") {
		return symbol
	}
	return symbol + "-USD"
}

// trackRequest bumps the short-lived request counter for the symbol. The count
// only feeds logs; it never gates a request.
func (s *marketDataService) trackRequest(ctx context.Context, symbol string) {
	count, err := s.requestTracker.IncrementInt64(symbol, 1)
	if err != nil {
		s.requestTracker.Set(symbol, int64(1), gocache.DefaultExpiration)
		count = 1
	}
	s.log.DebugContext(ctx, "Market data request",
		logger.StringField("symbol", symbol),
		logger.IntField("recent_requests", int(count)))
}

// recordLastPrice caches the fetched price in Redis, best-effort.
func (s *marketDataService) recordLastPrice(ctx context.Context, snapshot *dto.MarketSnapshot) {
	if s.redisClient == nil {
		return
	}

	key := fmt.Sprintf(common.RedisKeyLastPrice, snapshot.Symbol)
	pipe := s.redisClient.Pipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"price":     snapshot.CurrentPrice,
		"timestamp": snapshot.Timestamp.Unix(),
	})
	pipe.Expire(ctx, key, lastPriceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.ErrorContext(ctx, "Failed to execute Redis pipeline",
			logger.ErrorField(err), logger.StringField("symbol", snapshot.Symbol))
	}
}
