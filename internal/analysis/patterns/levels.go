package patterns

import (
	"math"

	"chartscan/internal/analysis"
	"chartscan/internal/models"
)

// FindSupportResistance locates confirmed support and resistance levels. A
// candidate trough (peak) becomes a support (resistance) level when enough
// other lows (highs) across the whole series fall within the
// sensitivity-derived relative threshold of its price.
func FindSupportResistance(candles []models.Candle, sensitivity, window int) (supports, resistances []analysis.Level) {
	params := NewLevelParams(sensitivity)
	highs := models.Highs(candles)
	lows := models.Lows(candles)

	order := maxInt(window/5, 1)
	troughs := FindExtrema(lows, analysis.Trough, order)
	peaks := FindExtrema(highs, analysis.Peak, order)

	for _, idx := range troughs {
		touches := countTouches(lows, idx, params.Threshold)
		if touches >= params.MinTouches {
			supports = append(supports, analysis.Level{
				LevelKind: analysis.KindSupport,
				Index:     idx,
				Price:     lows[idx],
				Touches:   touches,
			})
		}
	}

	for _, idx := range peaks {
		touches := countTouches(highs, idx, params.Threshold)
		if touches >= params.MinTouches {
			resistances = append(resistances, analysis.Level{
				LevelKind: analysis.KindResistance,
				Index:     idx,
				Price:     highs[idx],
				Touches:   touches,
			})
		}
	}

	return supports, resistances
}

// countTouches counts the points other than idx whose value lies within the
// relative threshold of the level price.
func countTouches(values []float64, idx int, threshold float64) int {
	level := values[idx]
	touches := 0
	for i, v := range values {
		if i == idx {
			continue
		}
		if math.Abs(v-level)/level < threshold {
			touches++
		}
	}
	return touches
}
