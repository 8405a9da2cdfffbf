package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
)

// fakeMarketDataService returns canned snapshots for handler tests.
type fakeMarketDataService struct {
	snapshot *dto.MarketSnapshot
	err      error
}

func (f *fakeMarketDataService) GetMarketData(_ context.Context, param dto.GetMarketDataParam) (*dto.MarketSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	snapshot := *f.snapshot
	snapshot.Symbol = param.Symbol
	return &snapshot, nil
}

func (f *fakeMarketDataService) GetQuote(_ context.Context, symbol string) (*dto.QuoteResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &dto.QuoteResponse{Symbol: symbol, CurrentPrice: f.snapshot.CurrentPrice}, nil
}

func (f *fakeMarketDataService) GetCryptoData(ctx context.Context, symbol string, param dto.GetMarketDataParam) (*dto.MarketSnapshot, error) {
	if !strings.HasSuffix(symbol, "-USD") {
		symbol += "-USD"
	}
	param.Symbol = symbol
	return f.GetMarketData(ctx, param)
}

func handlerTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	return log
}

func performRequest(t *testing.T, h echo.HandlerFunc, method, path, paramName, paramValue string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if paramName != "" {
		c.SetParamNames(paramName)
		c.SetParamValues(paramValue)
	}
	require.NoError(t, h(c))
	return rec
}

func TestGetQuote_ReturnsQuote(t *testing.T) {
	svc := &fakeMarketDataService{snapshot: &dto.MarketSnapshot{CurrentPrice: 123.45}}
	handler := NewStockHandler(svc, handlerTestLogger(t))

	rec := performRequest(t, handler.GetQuote, http.MethodGet, "/api/v1/stocks/quote/AAPL", "symbol", "AAPL")

	assert.Equal(t, http.StatusOK, rec.Code)
	var quote dto.QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, 123.45, quote.CurrentPrice)
}

func TestGetQuote_NoDataIs404(t *testing.T) {
	svc := &fakeMarketDataService{err: common.NewNoDataError("GONE")}
	handler := NewStockHandler(svc, handlerTestLogger(t))

	rec := performRequest(t, handler.GetQuote, http.MethodGet, "/api/v1/stocks/quote/GONE", "symbol", "GONE")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no data found for symbol: GONE")
}

func TestGetQuote_RateLimitIs429(t *testing.T) {
	svc := &fakeMarketDataService{err: fmt.Errorf("fetching chart: %w", common.ErrRateLimited)}
	handler := NewStockHandler(svc, handlerTestLogger(t))

	rec := performRequest(t, handler.GetQuote, http.MethodGet, "/api/v1/stocks/quote/AAPL", "symbol", "AAPL")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestGetQuote_UnknownErrorIs500(t *testing.T) {
	svc := &fakeMarketDataService{err: errors.New("connection reset")}
	handler := NewStockHandler(svc, handlerTestLogger(t))

	rec := performRequest(t, handler.GetQuote, http.MethodGet, "/api/v1/stocks/quote/AAPL", "symbol", "AAPL")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestGetCrypto_CoercesPairSymbol(t *testing.T) {
	svc := &fakeMarketDataService{snapshot: &dto.MarketSnapshot{CurrentPrice: 45000}}
	handler := NewStockHandler(svc, handlerTestLogger(t))

	rec := performRequest(t, handler.GetCrypto, http.MethodGet, "/api/v1/stocks/crypto/BTC", "symbol", "BTC")

	assert.Equal(t, http.StatusOK, rec.Code)
	var snapshot dto.MarketSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, "BTC-USD", snapshot.Symbol)
}

func TestGetHistory_NotFoundRecordIs404(t *testing.T) {
	svc := &fakeMarketDataService{err: common.NewNotFoundError("prediction log", 7)}
	handler := NewStockHandler(svc, handlerTestLogger(t))

	rec := performRequest(t, handler.GetHistory, http.MethodGet, "/api/v1/stocks/history/AAPL", "symbol", "AAPL")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
