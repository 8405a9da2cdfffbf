package dto

import "time"

// GetMarketDataParam is the parameter set for a market data retrieval.
type GetMarketDataParam struct {
	Symbol   string
	Period   string
	Interval string
}

// Quote is one OHLCV bar.
type Quote struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// MarketInfo is descriptive information about a symbol, fetched best-effort.
type MarketInfo struct {
	Name      string `json:"name"`
	Sector    string `json:"sector,omitempty"`
	Industry  string `json:"industry,omitempty"`
	MarketCap int64  `json:"market_cap,omitempty"`
}

// MarketSnapshot is the combined current-price and historical-bars view for a
// symbol at fetch time. It is derived per request and never persisted.
type MarketSnapshot struct {
	Symbol        string     `json:"symbol"`
	CurrentPrice  float64    `json:"current_price"`
	Change        float64    `json:"change"`
	ChangePercent float64    `json:"change_percent"`
	Volume        int64      `json:"volume"`
	Timestamp     time.Time  `json:"timestamp"`
	History       []Quote    `json:"history"`
	Info          MarketInfo `json:"info"`
}

// QuoteResponse is the trimmed snapshot returned by the quote endpoint.
type QuoteResponse struct {
	Symbol        string    `json:"symbol"`
	CurrentPrice  float64   `json:"current_price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Timestamp     time.Time `json:"timestamp"`
}

// RawColumn is a column label from the upstream response. Multi-symbol responses
// carry a second-level symbol label; single-symbol responses leave it empty.
type RawColumn struct {
	Name   string
	Symbol string
}

// RawBarSeries is an upstream time series before normalization. Values is
// indexed [row][column]; a nil cell means the upstream omitted the value.
type RawBarSeries struct {
	Columns    []RawColumn
	Timestamps []time.Time
	Values     [][]*float64
}

// Empty reports whether the series carries no rows.
func (s *RawBarSeries) Empty() bool {
	return s == nil || len(s.Values) == 0
}
