package repository

import (
	"fmt"
	"math"
	"strings"

	"golang-stock-insight/internal/api/dto"
	"golang-stock-insight/pkg/common"
)

// resolvedColumns holds the indexes of the canonical OHLCV columns inside a raw
// series. An index of -1 means the field had no matching column.
type resolvedColumns struct {
	open   int
	high   int
	low    int
	close  int
	volume int
}

// normalizeBarSeries turns a raw upstream series with unknown column naming into
// ordered quotes plus the derived current price and period-over-period change.
// It never fails on individual missing fields; open/high/low fall back to the
// close column and volume to zero. It fails only when the series itself is
// empty or when a two-level header is ambiguous.
func normalizeBarSeries(symbol string, series *dto.RawBarSeries) (*dto.MarketSnapshot, error) {
	if series.Empty() {
		return nil, common.NewNoDataError(symbol)
	}

	columns, err := collapseColumns(series.Columns)
	if err != nil {
		return nil, fmt.Errorf("normalizing columns for %s: %w", symbol, err)
	}

	cols := resolveColumns(columns)
	if cols.close < 0 {
		// Last resort mirrors the upstream-shim behavior: treat the first
		// column as the close series.
		cols.close = 0
	}
	if cols.open < 0 {
		cols.open = cols.close
	}
	if cols.high < 0 {
		cols.high = cols.close
	}
	if cols.low < 0 {
		cols.low = cols.close
	}

	history := make([]dto.Quote, 0, len(series.Values))
	for i, row := range series.Values {
		quote := dto.Quote{
			Open:   cellValue(row, cols.open),
			High:   cellValue(row, cols.high),
			Low:    cellValue(row, cols.low),
			Close:  cellValue(row, cols.close),
			Volume: volumeValue(row, cols.volume),
		}
		if i < len(series.Timestamps) {
			quote.Date = series.Timestamps[i]
		}
		history = append(history, quote)
	}

	last := history[len(history)-1]
	snapshot := &dto.MarketSnapshot{
		Symbol:       symbol,
		CurrentPrice: last.Close,
		Volume:       last.Volume,
		History:      history,
	}

	if len(history) > 1 {
		prevClose := history[len(history)-2].Close
		snapshot.Change = snapshot.CurrentPrice - prevClose
		if prevClose != 0 {
			snapshot.ChangePercent = (snapshot.Change / prevClose) * 100
		}
	}

	return snapshot, nil
}

// collapseColumns reduces a possibly two-level column header to plain names.
// A single second-level key is dropped. Several distinct keys mean the response
// mixes symbols; that is refused rather than guessed at.
func collapseColumns(columns []dto.RawColumn) ([]string, error) {
	secondLevel := map[string]struct{}{}
	for _, col := range columns {
		if col.Symbol != "" {
			secondLevel[col.Symbol] = struct{}{}
		}
	}

	if len(secondLevel) > 1 {
		keys := make([]string, 0, len(secondLevel))
		for key := range secondLevel {
			keys = append(keys, key)
		}
		return nil, fmt.Errorf("response carries columns for multiple symbols (%s); a single symbol must be requested", strings.Join(keys, ", "))
	}

	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}
	return names, nil
}

// resolveColumns finds the canonical column for each OHLCV field by
// case-insensitive substring match, falling back to the literal capitalized
// name. First match wins.
func resolveColumns(names []string) resolvedColumns {
	cols := resolvedColumns{open: -1, high: -1, low: -1, close: -1, volume: -1}

	for i, name := range names {
		lower := strings.ToLower(name)
		switch {
		case strings.Contains(lower, "close") && cols.close < 0:
			cols.close = i
		case strings.Contains(lower, "open") && cols.open < 0:
			cols.open = i
		case strings.Contains(lower, "high") && cols.high < 0:
			cols.high = i
		case strings.Contains(lower, "low") && cols.low < 0:
			cols.low = i
		case strings.Contains(lower, "volume") && cols.volume < 0:
			cols.volume = i
		}
	}

	if cols.close < 0 {
		cols.close = indexOf(names, "Close")
	}
	if cols.open < 0 {
		cols.open = indexOf(names, "Open")
	}
	if cols.high < 0 {
		cols.high = indexOf(names, "High")
	}
	if cols.low < 0 {
		cols.low = indexOf(names, "Low")
	}
	if cols.volume < 0 {
		cols.volume = indexOf(names, "Volume")
	}

	return cols
}

func indexOf(names []string, target string) int {
	for i, name := range names {
		if name == target {
			return i
		}
	}
	return -1
}

func cellValue(row []*float64, idx int) float64 {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return 0
	}
	return *row[idx]
}

// volumeValue coerces a missing or not-a-number volume cell to zero.
func volumeValue(row []*float64, idx int) int64 {
	if idx < 0 || idx >= len(row) || row[idx] == nil {
		return 0
	}
	v := *row[idx]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(v)
}
