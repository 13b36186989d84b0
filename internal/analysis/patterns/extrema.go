// Package patterns implements the chart formation detectors: double
// bottoms/tops, head-and-shoulders variants, triangles and
// support/resistance levels. Every detector is a pure function over an
// immutable candle series and a 1-10 sensitivity value.
package patterns

import (
	"chartscan/internal/analysis"
)

// FindExtrema returns the indices of local extrema of the requested kind.
// Index i qualifies when its value is >= (Peak) or <= (Trough) every other
// value within [i-order, i+order], clamped to the series bounds. Plateaus
// produce one index per tying position; ties are deliberately not
// deduplicated.
func FindExtrema(values []float64, kind analysis.ExtremumKind, order int) []int {
	if order < 1 || len(values) == 0 {
		return nil
	}

	var out []int
	n := len(values)
	for i := 0; i < n; i++ {
		lo := i - order
		if lo < 0 {
			lo = 0
		}
		hi := i + order
		if hi > n-1 {
			hi = n - 1
		}

		qualifies := true
		for j := lo; j <= hi; j++ {
			if j == i {
				continue
			}
			if kind == analysis.Peak {
				if values[i] < values[j] {
					qualifies = false
					break
				}
			} else {
				if values[i] > values[j] {
					qualifies = false
					break
				}
			}
		}
		if qualifies {
			out = append(out, i)
		}
	}
	return out
}

// ExtremaPoints is FindExtrema with the located values attached, for
// consumers that want the full extremum points rather than bare indices.
func ExtremaPoints(values []float64, kind analysis.ExtremumKind, order int) []analysis.ExtremumPoint {
	idx := FindExtrema(values, kind, order)
	points := make([]analysis.ExtremumPoint, len(idx))
	for i, ix := range idx {
		points[i] = analysis.ExtremumPoint{Index: ix, Kind: kind, Value: values[ix]}
	}
	return points
}
