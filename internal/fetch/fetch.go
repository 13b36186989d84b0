// Package fetch retrieves daily OHLC candles from market data providers.
package fetch

import (
	"context"
	"time"

	"chartscan/internal/models"
)

// Fetcher retrieves daily candles for a symbol over a date range.
type Fetcher interface {
	Fetch(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error)
}

// csvRow is one bar in provider CSV output.
type csvRow struct {
	Date   string  `csv:"Date"`
	Open   float64 `csv:"Open"`
	High   float64 `csv:"High"`
	Low    float64 `csv:"Low"`
	Close  float64 `csv:"Close"`
	Volume int64   `csv:"Volume"`
}

const csvDateLayout = "2006-01-02"

// toCandles converts parsed CSV rows into a validated candle series. Rows
// with unparseable dates are skipped rather than failing the whole series;
// providers occasionally emit "No Data" placeholder rows.
func toCandles(rows []*csvRow) []models.Candle {
	candles := make([]models.Candle, 0, len(rows))
	for _, r := range rows {
		ts, err := time.Parse(csvDateLayout, r.Date)
		if err != nil {
			continue
		}
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      r.Open,
			High:      r.High,
			Low:       r.Low,
			Close:     r.Close,
			Volume:    r.Volume,
		})
	}
	return candles
}
