package patterns

import (
	"math"

	"chartscan/internal/analysis"
	"chartscan/internal/models"
)

// minSwingRatio is the minimum relative rise (double bottom) or drop
// (double top) required between the two extrema for the intervening move to
// count as a genuine swing.
const minSwingRatio = 0.02

// DetectDoubleBottom scans the series for double bottom formations: two
// troughs at matching price levels, separated by a sufficient rise, with a
// confirming close above the second trough. Every qualifying pair is
// returned; overlapping matches are not deduplicated.
func DetectDoubleBottom(candles []models.Candle, sensitivity, window int) []analysis.DoubleBottom {
	params := NewDoubleParams(sensitivity, window)
	closes := models.Closes(candles)
	lows := models.Lows(candles)

	order := maxInt(window/4, 1)
	troughs := FindExtrema(lows, analysis.Trough, order)

	var out []analysis.DoubleBottom
	for i := 0; i < len(troughs); i++ {
		for j := i + 1; j < len(troughs); j++ {
			idx1, idx2 := troughs[i], troughs[j]

			if idx2-idx1 < params.MinDistance {
				continue
			}

			price1, price2 := lows[idx1], lows[idx2]
			if math.Abs(price1-price2)/price1 > params.Tolerance {
				continue
			}

			// The move between the bottoms must retrace meaningfully.
			maxBetween := maxOf(closes[idx1:idx2])
			if (maxBetween-price1)/price1 < minSwingRatio || (maxBetween-price2)/price2 < minSwingRatio {
				continue
			}

			if confirmingClose(closes, idx2) > price2 {
				out = append(out, analysis.DoubleBottom{First: idx1, Second: idx2})
			}
		}
	}
	return out
}

// DetectDoubleTop is the bearish mirror of DetectDoubleBottom: two peaks at
// matching levels, a sufficient drop between them, and a confirming close
// below the second peak.
func DetectDoubleTop(candles []models.Candle, sensitivity, window int) []analysis.DoubleTop {
	params := NewDoubleParams(sensitivity, window)
	closes := models.Closes(candles)
	highs := models.Highs(candles)

	order := maxInt(window/4, 1)
	peaks := FindExtrema(highs, analysis.Peak, order)

	var out []analysis.DoubleTop
	for i := 0; i < len(peaks); i++ {
		for j := i + 1; j < len(peaks); j++ {
			idx1, idx2 := peaks[i], peaks[j]

			if idx2-idx1 < params.MinDistance {
				continue
			}

			price1, price2 := highs[idx1], highs[idx2]
			if math.Abs(price1-price2)/price1 > params.Tolerance {
				continue
			}

			minBetween := minOf(closes[idx1:idx2])
			if (price1-minBetween)/price1 < minSwingRatio || (price2-minBetween)/price2 < minSwingRatio {
				continue
			}

			if confirmingClose(closes, idx2) < price2 {
				out = append(out, analysis.DoubleTop{First: idx1, Second: idx2})
			}
		}
	}
	return out
}
