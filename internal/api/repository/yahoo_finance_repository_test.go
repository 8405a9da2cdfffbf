package repository

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"golang-stock-insight/internal/api/config"
	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
)

const chartBody = `{
	"chart": {
		"result": [{
			"meta": {"symbol": "AAPL"},
			"timestamp": [1748736000, 1748822400],
			"indicators": {"quote": [{
				"open": [99, 100],
				"high": [101, 112],
				"low": [98, 99],
				"close": [100, 110],
				"volume": [1000, 2000]
			}]}
		}],
		"error": null
	}
}`

const emptyChartBody = `{"chart": {"result": [], "error": null}}`

func testMarketDataRepo(t *testing.T, client HTTPClient) MarketDataRepository {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.MarketData.Enabled = true
	cfg.MarketData.BaseURL = "https://query1.finance.yahoo.com"
	cfg.MarketData.MaxRequestPerMinute = 60000
	cfg.MarketData.MaxRetries = 1
	cfg.MarketData.BackoffCap = "1ms"
	cfg.MarketData.FallbackPeriods = []string{"5d", "1d", "1y", "6mo", "3mo", "1mo"}
	repo := NewYahooFinanceRepository(cfg, log, client)
	repo.(*yahooFinanceRepository).quoteFn = func(symbol string) (*finance.Equity, error) {
		return nil, errors.New("quote endpoint unavailable")
	}
	return repo
}

func httpResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestGetMarketData_ParsesChartResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockHTTPClient(ctrl)

	client.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Contains(t, req.URL.Path, "/v8/finance/chart/AAPL")
		assert.Equal(t, "5d", req.URL.Query().Get("range"))
		assert.Equal(t, "1d", req.URL.Query().Get("interval"))
		return httpResponse(http.StatusOK, chartBody), nil
	})

	repo := testMarketDataRepo(t, client)
	snapshot, err := repo.GetMarketData(context.Background(), dto.GetMarketDataParam{
		Symbol: "AAPL", Period: "5d", Interval: "1d",
	})
	require.NoError(t, err)

	assert.Equal(t, 110.0, snapshot.CurrentPrice)
	assert.InDelta(t, 10.0, snapshot.Change, 1e-9)
	assert.InDelta(t, 10.0, snapshot.ChangePercent, 1e-9)
	assert.Len(t, snapshot.History, 2)
	assert.False(t, snapshot.Timestamp.IsZero())
}

func TestGetMarketData_SubstitutesIncompatibleInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockHTTPClient(ctrl)

	client.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		// 1m bars are not available over a one-month range.
		assert.Equal(t, "1mo", req.URL.Query().Get("range"))
		assert.Equal(t, "1d", req.URL.Query().Get("interval"))
		return httpResponse(http.StatusOK, chartBody), nil
	})

	repo := testMarketDataRepo(t, client)
	_, err := repo.GetMarketData(context.Background(), dto.GetMarketDataParam{
		Symbol: "AAPL", Period: "1mo", Interval: "1m",
	})
	require.NoError(t, err)
}

func TestGetMarketData_UnknownPeriodTreatedAsMonth(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockHTTPClient(ctrl)

	client.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "1mo", req.URL.Query().Get("range"))
		return httpResponse(http.StatusOK, chartBody), nil
	})

	repo := testMarketDataRepo(t, client)
	snapshot, err := repo.GetMarketData(context.Background(), dto.GetMarketDataParam{
		Symbol: "AAPL", Period: "7w", Interval: "1d",
	})
	require.NoError(t, err)
	assert.Equal(t, 110.0, snapshot.CurrentPrice)
}

func TestGetMarketData_ProbeDataKeptWhenFullPeriodEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockHTTPClient(ctrl)

	client.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Get("range") == "5d" {
			return httpResponse(http.StatusOK, chartBody), nil
		}
		return httpResponse(http.StatusOK, emptyChartBody), nil
	}).AnyTimes()

	repo := testMarketDataRepo(t, client)
	snapshot, err := repo.GetMarketData(context.Background(), dto.GetMarketDataParam{
		Symbol: "AAPL", Period: "1mo", Interval: "1d",
	})
	require.NoError(t, err)
	assert.Equal(t, 110.0, snapshot.CurrentPrice)
	assert.Len(t, snapshot.History, 2)
}

func TestGetMarketData_EnrichesInfoFromEquity(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockHTTPClient(ctrl)

	client.EXPECT().Do(gomock.Any()).Return(httpResponse(http.StatusOK, chartBody), nil)

	repo := testMarketDataRepo(t, client)
	repo.(*yahooFinanceRepository).quoteFn = func(symbol string) (*finance.Equity, error) {
		eq := &finance.Equity{MarketCap: 3_000_000_000_000}
		eq.ShortName = "Apple Inc."
		return eq, nil
	}

	snapshot, err := repo.GetMarketData(context.Background(), dto.GetMarketDataParam{
		Symbol: "AAPL", Period: "5d", Interval: "1d",
	})
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc.", snapshot.Info.Name)
	assert.Equal(t, int64(3_000_000_000_000), snapshot.Info.MarketCap)
}

func TestGetMarketData_RateLimitSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockHTTPClient(ctrl)

	client.EXPECT().Do(gomock.Any()).Return(httpResponse(http.StatusTooManyRequests, "Too Many Requests"), nil)

	repo := testMarketDataRepo(t, client)
	_, err := repo.GetMarketData(context.Background(), dto.GetMarketDataParam{
		Symbol: "AAPL", Period: "5d", Interval: "1d",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRateLimited))
}

func TestGetMarketData_NonJSONBodyTreatedAsThrottle(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockHTTPClient(ctrl)

	client.EXPECT().Do(gomock.Any()).Return(httpResponse(http.StatusOK, "<html>edge</html>"), nil)

	repo := testMarketDataRepo(t, client)
	_, err := repo.GetMarketData(context.Background(), dto.GetMarketDataParam{
		Symbol: "AAPL", Period: "5d", Interval: "1d",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrRateLimited))
}

func TestGetMarketData_ExhaustedFallbacksReturnNoData(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockHTTPClient(ctrl)

	client.EXPECT().Do(gomock.Any()).DoAndReturn(func(*http.Request) (*http.Response, error) {
		return httpResponse(http.StatusOK, emptyChartBody), nil
	}).AnyTimes()

	repo := testMarketDataRepo(t, client)
	_, err := repo.GetMarketData(context.Background(), dto.GetMarketDataParam{
		Symbol: "GONE", Period: "1mo", Interval: "1d",
	})
	require.Error(t, err)
	assert.True(t, common.IsNoData(err))
}

func TestGetMarketData_DisabledFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockHTTPClient(ctrl)

	log, err := logger.New("error", "console")
	require.NoError(t, err)
	cfg := &config.Config{}
	cfg.MarketData.MaxRequestPerMinute = 60000
	repo := NewYahooFinanceRepository(cfg, log, client)

	_, err = repo.GetMarketData(context.Background(), dto.GetMarketDataParam{
		Symbol: "AAPL", Period: "5d", Interval: "1d",
	})
	assert.ErrorIs(t, err, ErrMarketDataDisabled)
}

func TestGetMarketData_FallbackPeriodYieldsData(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := NewMockHTTPClient(ctrl)

	client.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		if req.URL.Query().Get("range") == "1d" {
			return httpResponse(http.StatusOK, chartBody), nil
		}
		return httpResponse(http.StatusOK, emptyChartBody), nil
	}).AnyTimes()

	repo := testMarketDataRepo(t, client)
	snapshot, err := repo.GetMarketData(context.Background(), dto.GetMarketDataParam{
		Symbol: "AAPL", Period: "1d", Interval: "1h",
	})
	require.NoError(t, err)
	assert.Equal(t, 110.0, snapshot.CurrentPrice)
}
