package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
	"golang.org/x/time/rate"

	"golang-stock-insight/internal/api/config"
	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/pkg/common"
	"golang-stock-insight/pkg/logger"
	"golang-stock-insight/pkg/utils"
)

// HTTPClient abstracts the HTTP transport so tests can stub upstream responses.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// MarketDataRepository retrieves quotes and historical bars from the upstream
// market data provider.
type MarketDataRepository interface {
	GetMarketData(ctx context.Context, param dto.GetMarketDataParam) (*dto.MarketSnapshot, error)
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
	GetHistoricalPrice(ctx context.Context, symbol string, date time.Time) (float64, error)
}

// periodIntervals maps each supported period to the intervals the upstream
// accepts for it.
var periodIntervals = map[string][]string{
	"1d":  {"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h"},
	"5d":  {"1m", "2m", "5m", "15m", "30m", "60m", "90m", "1h", "1d"},
	"1mo": {"1d", "5d", "1wk", "1mo"},
	"3mo": {"1d", "5d", "1wk", "1mo"},
	"6mo": {"1d", "5d", "1wk", "1mo"},
	"1y":  {"1d", "5d", "1wk", "1mo"},
	"2y":  {"1d", "5d", "1wk", "1mo"},
	"ytd": {"1d", "5d", "1wk", "1mo"},
	"5y":  {"1d", "1wk", "1mo"},
	"10y": {"1d", "1wk", "1mo"},
	"max": {"1d", "1wk", "1mo"},
}

// substitutionPriority orders the intervals tried when the requested interval
// is incompatible with the period.
var substitutionPriority = []string{"1d", "1wk", "1mo", "5d"}

// ErrMarketDataDisabled is returned when market data retrieval is switched off
// in the configuration.
var ErrMarketDataDisabled = errors.New("market data retrieval is disabled")

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     HTTPClient
	requestLimiter *rate.Limiter
	backoffCap     time.Duration
	quoteFn        func(symbol string) (*finance.Equity, error)
}

// NewYahooFinanceRepository creates a MarketDataRepository backed by the Yahoo
// Finance chart API.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger, httpClient HTTPClient) MarketDataRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.MarketData.MaxRequestPerMinute)
	backoffCap, err := time.ParseDuration(cfg.MarketData.BackoffCap)
	if err != nil || backoffCap <= 0 {
		backoffCap = 10 * time.Second
	}
	return &yahooFinanceRepository{
		cfg:            cfg,
		log:            log,
		httpClient:     httpClient,
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		backoffCap:     backoffCap,
		quoteFn:        equity.Get,
	}
}

// GetMarketData fetches historical bars for the symbol, validating the
// period/interval pair, retrying on transient failures, and falling back to
// shorter periods when the requested one returns nothing. Descriptive info is
// attached best-effort and never fails the call.
func (r *yahooFinanceRepository) GetMarketData(ctx context.Context, param dto.GetMarketDataParam) (*dto.MarketSnapshot, error) {
	if !r.cfg.MarketData.Enabled {
		return nil, ErrMarketDataDisabled
	}

	period := param.Period
	if period == "" {
		period = common.DefaultPeriod
	}
	if _, ok := periodIntervals[period]; !ok {
		r.log.DebugContext(ctx, "Unknown period, treating as 1mo",
			logger.StringField("symbol", param.Symbol),
			logger.StringField("period", period))
		period = common.DefaultPeriod
	}
	interval := param.Interval
	if interval == "" {
		interval = common.DefaultInterval
	}

	interval = r.resolveInterval(ctx, period, interval)

	snapshot, err := r.fetchWithFallback(ctx, param.Symbol, period, interval)
	if err != nil {
		return nil, err
	}

	snapshot.Timestamp = time.Now().UTC()
	r.enrichInfo(ctx, snapshot)
	return snapshot, nil
}

// GetCurrentPrice returns the latest market price for the symbol. The quote
// endpoint is preferred; a one-day intraday chart is the fallback.
func (r *yahooFinanceRepository) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	if !r.cfg.MarketData.Enabled {
		return 0, ErrMarketDataDisabled
	}

	q, err := r.quoteFn(symbol)
	if err == nil && q != nil && q.RegularMarketPrice > 0 {
		return q.RegularMarketPrice, nil
	}
	if err != nil {
		r.log.DebugContext(ctx, "Quote endpoint failed, falling back to chart",
			logger.StringField("symbol", symbol), logger.ErrorField(err))
	}

	snapshot, err := r.fetchWithFallback(ctx, symbol, "1d", "1m")
	if err != nil {
		return 0, err
	}
	return snapshot.CurrentPrice, nil
}

// GetHistoricalPrice returns the daily close for the symbol on the given date,
// or the nearest earlier trading day within the fetched window.
func (r *yahooFinanceRepository) GetHistoricalPrice(ctx context.Context, symbol string, date time.Time) (float64, error) {
	if !r.cfg.MarketData.Enabled {
		return 0, ErrMarketDataDisabled
	}

	period := historyPeriodFor(date)
	snapshot, err := r.fetchWithFallback(ctx, symbol, period, "1d")
	if err != nil {
		return 0, err
	}

	target := date.Truncate(24 * time.Hour)
	var price float64
	var found bool
	for _, q := range snapshot.History {
		day := q.Date.Truncate(24 * time.Hour)
		if day.After(target) {
			break
		}
		price = q.Close
		found = true
		if day.Equal(target) {
			break
		}
	}
	if !found {
		return 0, common.NewNoDataError(symbol)
	}
	return price, nil
}

// historyPeriodFor picks the smallest chart range that covers the given date.
func historyPeriodFor(date time.Time) string {
	age := time.Since(date)
	switch {
	case age <= 5*24*time.Hour:
		return "5d"
	case age <= 30*24*time.Hour:
		return "1mo"
	case age <= 90*24*time.Hour:
		return "3mo"
	case age <= 365*24*time.Hour:
		return "1y"
	default:
		return "max"
	}
}

// resolveInterval substitutes an interval incompatible with the period with the
// first compatible one by priority. An unknown period resolves against the
// default period's table.
func (r *yahooFinanceRepository) resolveInterval(ctx context.Context, period, interval string) string {
	compatible, ok := periodIntervals[period]
	if !ok {
		compatible = periodIntervals[common.DefaultPeriod]
	}
	if utils.ContainsString(compatible, interval) {
		return interval
	}
	for _, candidate := range substitutionPriority {
		if utils.ContainsString(compatible, candidate) {
			r.log.DebugContext(ctx, "Substituting incompatible interval",
				logger.StringField("period", period),
				logger.StringField("requested", interval),
				logger.StringField("substituted", candidate))
			return candidate
		}
	}
	return compatible[0]
}

// fetchWithFallback runs the stabilization probe for the requested period, then
// walks the configured fallback periods until one yields data.
func (r *yahooFinanceRepository) fetchWithFallback(ctx context.Context, symbol, period, interval string) (*dto.MarketSnapshot, error) {
	tried := map[string]bool{}

	snapshot, err := r.fetchStabilized(ctx, symbol, period, interval, tried)
	if err == nil {
		return snapshot, nil
	}
	if !common.IsNoData(err) {
		return nil, err
	}

	fallbacks := r.cfg.MarketData.FallbackPeriods
	if len(fallbacks) == 0 {
		fallbacks = []string{"5d", "1d", "1y", "6mo", "3mo", "1mo"}
	}
	for _, fb := range fallbacks {
		if tried[fb] {
			continue
		}
		fbInterval := r.resolveInterval(ctx, fb, interval)
		snapshot, err = r.fetchNormalized(ctx, symbol, fb, fbInterval, tried)
		if err == nil {
			r.log.InfoContext(ctx, "Fallback period yielded data",
				logger.StringField("symbol", symbol),
				logger.StringField("requested_period", period),
				logger.StringField("fallback_period", fb))
			return snapshot, nil
		}
		if !common.IsNoData(err) {
			return nil, err
		}
	}

	return nil, common.NewNoDataError(symbol)
}

// fetchStabilized probes short periods first for long-range requests. A live
// short probe means the symbol exists, so the full period is then fetched; a
// dead probe saves the larger request entirely.
func (r *yahooFinanceRepository) fetchStabilized(ctx context.Context, symbol, period, interval string, tried map[string]bool) (*dto.MarketSnapshot, error) {
	if period == "5d" || period == "1d" {
		return r.fetchNormalized(ctx, symbol, period, interval, tried)
	}

	snapshot, err := r.fetchNormalized(ctx, symbol, period, interval, tried)
	if err == nil {
		return snapshot, nil
	}
	if !common.IsNoData(err) {
		return nil, err
	}

	for _, probe := range []string{"5d", "1d"} {
		probeInterval := r.resolveInterval(ctx, probe, interval)
		probeSnapshot, perr := r.fetchNormalized(ctx, symbol, probe, probeInterval, tried)
		if perr != nil {
			if !common.IsNoData(perr) {
				return nil, perr
			}
			continue
		}

		// The symbol is alive; retry the full period once more, keeping the
		// probe data when the larger window still comes back empty.
		full, ferr := r.fetchNormalized(ctx, symbol, period, interval, map[string]bool{})
		if ferr == nil {
			return full, nil
		}
		r.log.DebugContext(ctx, "Full period re-fetch failed, keeping probe data",
			logger.StringField("symbol", symbol),
			logger.StringField("period", period),
			logger.StringField("probe_period", probe),
			logger.ErrorField(ferr))
		return probeSnapshot, nil
	}

	return nil, common.NewNoDataError(symbol)
}

func (r *yahooFinanceRepository) fetchNormalized(ctx context.Context, symbol, period, interval string, tried map[string]bool) (*dto.MarketSnapshot, error) {
	tried[period] = true
	series, err := r.fetchChart(ctx, symbol, period, interval)
	if err != nil {
		return nil, err
	}
	return normalizeBarSeries(symbol, series)
}

// fetchChart calls the chart API with retries. Rate-limit signals back off
// twice as long as generic failures and surface as ErrRateLimited once retries
// are exhausted.
func (r *yahooFinanceRepository) fetchChart(ctx context.Context, symbol, period, interval string) (*dto.RawBarSeries, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=%s", r.cfg.MarketData.BaseURL, symbol, period, interval)

	maxRetries := r.cfg.MarketData.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	var lastErr error
	rateLimited := false
	for attempt := 1; attempt <= maxRetries; attempt++ {
		series, err := r.doChartRequest(ctx, url)
		if err == nil {
			return series, nil
		}
		if common.IsNoData(err) {
			return nil, err
		}
		lastErr = err

		backoff := time.Duration(attempt) * time.Second
		if isRateLimitSignal(err) {
			rateLimited = true
			backoff = 2 * time.Duration(attempt) * time.Second
		}
		if backoff > r.backoffCap {
			backoff = r.backoffCap
		}

		r.log.DebugContext(ctx, "Chart request failed, backing off",
			logger.StringField("symbol", symbol),
			logger.StringField("period", period),
			logger.IntField("attempt", attempt),
			logger.StringField("backoff", backoff.String()),
			logger.ErrorField(err))

		if attempt == maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if rateLimited {
		return nil, fmt.Errorf("fetching chart for %s: %w", symbol, common.ErrRateLimited)
	}
	return nil, fmt.Errorf("fetching chart for %s: %w", symbol, lastErr)
}

func (r *yahooFinanceRepository) doChartRequest(ctx context.Context, url string) (*dto.RawBarSeries, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, common.ErrRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		if strings.Contains(string(body), "Too Many Requests") {
			return nil, common.ErrRateLimited
		}
		return nil, fmt.Errorf("chart API returned status %d", resp.StatusCode)
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		// A non-JSON body on a 200 is how the upstream throttles politely.
		return nil, fmt.Errorf("decoding chart response: %w", common.ErrRateLimited)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart API error: %s", chart.Chart.Error.Description)
	}

	return chartToSeries(&chart), nil
}

func isRateLimitSignal(err error) bool {
	return err != nil && strings.Contains(err.Error(), common.ErrRateLimited.Error())
}

// enrichInfo attaches descriptive quote data. Failures are logged and ignored.
func (r *yahooFinanceRepository) enrichInfo(ctx context.Context, snapshot *dto.MarketSnapshot) {
	q, err := r.quoteFn(snapshot.Symbol)
	if err != nil || q == nil {
		r.log.DebugContext(ctx, "Skipping info enrichment",
			logger.StringField("symbol", snapshot.Symbol), logger.ErrorField(err))
		return
	}
	snapshot.Info = dto.MarketInfo{
		Name:      q.ShortName,
		MarketCap: q.MarketCap,
	}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta struct {
		Symbol string `json:"symbol"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// chartToSeries flattens the chart payload into a raw series. Each result
// contributes its own column set; a response spanning several symbols keeps the
// per-symbol labels so normalization can refuse it.
func chartToSeries(chart *chartResponse) *dto.RawBarSeries {
	series := &dto.RawBarSeries{}
	results := chart.Chart.Result
	if len(results) == 0 {
		return series
	}

	multi := len(results) > 1
	for _, result := range results {
		symbolLabel := ""
		if multi {
			symbolLabel = result.Meta.Symbol
		}
		series.Columns = append(series.Columns,
			dto.RawColumn{Name: "Open", Symbol: symbolLabel},
			dto.RawColumn{Name: "High", Symbol: symbolLabel},
			dto.RawColumn{Name: "Low", Symbol: symbolLabel},
			dto.RawColumn{Name: "Close", Symbol: symbolLabel},
			dto.RawColumn{Name: "Volume", Symbol: symbolLabel},
		)
	}

	first := results[0]
	if len(first.Indicators.Quote) == 0 {
		return series
	}

	for i, ts := range first.Timestamp {
		series.Timestamps = append(series.Timestamps, time.Unix(ts, 0).UTC())
		row := make([]*float64, 0, len(series.Columns))
		for _, result := range results {
			if len(result.Indicators.Quote) == 0 {
				row = append(row, nil, nil, nil, nil, nil)
				continue
			}
			q := result.Indicators.Quote[0]
			row = append(row, at(q.Open, i), at(q.High, i), at(q.Low, i), at(q.Close, i), at(q.Volume, i))
		}
		series.Values = append(series.Values, row)
	}
	return series
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
