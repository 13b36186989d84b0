package patterns

import (
	"time"

	"chartscan/internal/models"
)

// candlesFromCloses builds a series where open, high, low and close all
// follow the same path. Convenient for detectors that read one price track.
func candlesFromCloses(closes []float64) []models.Candle {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    1000,
		}
	}
	return candles
}

// candlesFromHLC builds a series with independent high, low and close
// tracks. The three slices must have equal length.
func candlesFromHLC(highs, lows, closes []float64) []models.Candle {
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(highs))
	for i := range highs {
		candles[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      closes[i],
			High:      highs[i],
			Low:       lows[i],
			Close:     closes[i],
			Volume:    1000,
		}
	}
	return candles
}

// flatSeries is a constant-price series.
func flatSeries(n int, price float64) []models.Candle {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return candlesFromCloses(closes)
}

// doubleBottomCloses is a synthetic series with two troughs of value 5 at
// indices 5 and 17 separated by a peak of 11, ending with a strong rise.
var doubleBottomCloses = []float64{
	10, 9, 8, 7, 6, 5, 6, 7, 8, 9, 10, 11, 10, 9, 8, 7, 6, 5, 6, 8, 10, 12,
}

// mirrorCloses reflects a price path about a horizontal axis, turning
// troughs into peaks and vice versa while keeping prices positive.
func mirrorCloses(closes []float64, axis float64) []float64 {
	out := make([]float64, len(closes))
	for i, c := range closes {
		out[i] = axis - c
	}
	return out
}
