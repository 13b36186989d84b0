package patterns

import (
	"math"

	"chartscan/internal/analysis"
	"chartscan/internal/models"
)

// flatSideRatio is the maximum relative standard deviation for the
// horizontal side of an ascending or descending triangle.
const flatSideRatio = 0.03

// breakoutRatio is the minimum relative deviation from the extrapolated
// trend line counting as a symmetric triangle breakout.
const breakoutRatio = 0.02

// DetectTriangles scans the series for symmetric, ascending and descending
// triangles. Each match carries its five defining indices, the projected
// convergence point and whether price broke out of the formation.
func DetectTriangles(candles []models.Candle, sensitivity, window int) []analysis.Triangle {
	params := NewTriangleParams(sensitivity, window)
	closes := models.Closes(candles)
	highs := models.Highs(candles)
	lows := models.Lows(candles)

	order := maxInt(window/8, 1)
	peaks := FindExtrema(highs, analysis.Peak, order)
	troughs := FindExtrema(lows, analysis.Trough, order)

	if len(peaks) < 3 || len(troughs) < 3 {
		return nil
	}

	var out []analysis.Triangle
	out = append(out, symmetricTriangles(closes, highs, lows, peaks, troughs, params, window)...)
	out = append(out, ascendingTriangles(closes, highs, lows, peaks, troughs, params)...)
	out = append(out, descendingTriangles(closes, highs, lows, peaks, troughs, params)...)
	return out
}

// symmetricTriangles looks for three descending peaks converging against an
// ascending trough pair, projects the trend-line intersection, and keeps
// candidates whose apex lands within one window past the last peak.
func symmetricTriangles(closes, highs, lows []float64, peaks, troughs []int, params TriangleParams, window int) []analysis.Triangle {
	var out []analysis.Triangle
	for i := 0; i+2 < len(peaks); i++ {
		p1, p2, p3 := peaks[i], peaks[i+1], peaks[i+2]

		if p3-p1 < params.MinDuration {
			continue
		}

		h1, h2, h3 := highs[p1], highs[p2], highs[p3]
		if h1 <= h2 || h2 <= h3 {
			continue
		}

		between := indicesBetween(troughs, p1, p3)
		if len(between) < 2 {
			continue
		}
		t1, t2 := between[0], between[len(between)-1]
		l1, l2 := lows[t1], lows[t2]
		if l1 >= l2 {
			continue
		}

		peakSlope := (h3 - h1) / float64(p3-p1)
		troughSlope := (l2 - l1) / float64(t2-t1)

		// Opposite signs mean true convergence.
		if peakSlope*troughSlope >= 0 {
			continue
		}

		denom := peakSlope - troughSlope
		if math.Abs(denom) <= slopeEpsilon {
			continue
		}

		convergeX := (l1 - h1 - troughSlope*float64(t1) + peakSlope*float64(p1)) / denom
		convergeY := h1 + peakSlope*(convergeX-float64(p1))

		// Apex should sit ahead of the pattern but not unreasonably far.
		if convergeX < float64(p3) || convergeX > float64(p3+window) {
			continue
		}

		breakout := false
		if hasLookahead(len(closes), p3) {
			expected := h1 + peakSlope*float64(p3+confirmationLookahead-p1)
			if math.Abs(expected) > slopeEpsilon {
				actual := closes[p3+confirmationLookahead]
				breakout = math.Abs(actual-expected)/expected > breakoutRatio
			}
		}

		out = append(out, analysis.Triangle{
			Type:      analysis.TriangleSymmetric,
			Points:    [5]int{p1, t1, p2, t2, p3},
			ConvergeX: int(convergeX),
			ConvergeY: convergeY,
			Breakout:  breakout,
		})
	}
	return out
}

// ascendingTriangles looks for a flat resistance formed by three peaks with
// rising troughs underneath; breakout is a close above the mean resistance.
func ascendingTriangles(closes, highs, lows []float64, peaks, troughs []int, params TriangleParams) []analysis.Triangle {
	var out []analysis.Triangle
	for i := 0; i+2 < len(peaks); i++ {
		trio := peaks[i : i+3]

		if trio[2]-trio[0] < params.MinDuration {
			continue
		}

		peakPrices := pricesAt(highs, trio)
		if stddev(peakPrices)/mean(peakPrices) > flatSideRatio {
			continue
		}

		between := indicesBetween(troughs, trio[0], trio[2])
		if len(between) < 2 {
			continue
		}

		troughPrices := pricesAt(lows, between)
		rising := true
		for j := 1; j < len(troughPrices); j++ {
			if troughPrices[j] <= troughPrices[j-1] {
				rising = false
				break
			}
		}
		if !rising {
			continue
		}

		resistance := mean(peakPrices)
		breakout := false
		if hasLookahead(len(closes), trio[2]) {
			breakout = closes[trio[2]+confirmationLookahead] > resistance
		}

		out = append(out, analysis.Triangle{
			Type:      analysis.TriangleAscending,
			Points:    [5]int{trio[0], between[0], trio[1], between[len(between)-1], trio[2]},
			ConvergeX: trio[2] + params.MinDuration,
			ConvergeY: resistance,
			Breakout:  breakout,
		})
	}
	return out
}

// descendingTriangles is the mirror: flat support formed by three troughs
// with falling peaks above; breakout is a close below the mean support.
func descendingTriangles(closes, highs, lows []float64, peaks, troughs []int, params TriangleParams) []analysis.Triangle {
	var out []analysis.Triangle
	for i := 0; i+2 < len(troughs); i++ {
		trio := troughs[i : i+3]

		if trio[2]-trio[0] < params.MinDuration {
			continue
		}

		troughPrices := pricesAt(lows, trio)
		if stddev(troughPrices)/mean(troughPrices) > flatSideRatio {
			continue
		}

		between := indicesBetween(peaks, trio[0], trio[2])
		if len(between) < 2 {
			continue
		}

		peakPrices := pricesAt(highs, between)
		falling := true
		for j := 1; j < len(peakPrices); j++ {
			if peakPrices[j] >= peakPrices[j-1] {
				falling = false
				break
			}
		}
		if !falling {
			continue
		}

		support := mean(troughPrices)
		breakout := false
		if hasLookahead(len(closes), trio[2]) {
			breakout = closes[trio[2]+confirmationLookahead] < support
		}

		out = append(out, analysis.Triangle{
			Type:      analysis.TriangleDescending,
			Points:    [5]int{between[0], trio[0], between[len(between)-1], trio[1], trio[2]},
			ConvergeX: trio[2] + params.MinDuration,
			ConvergeY: support,
			Breakout:  breakout,
		})
	}
	return out
}
