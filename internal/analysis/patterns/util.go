package patterns

import "math"

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// maxOf returns the maximum of a non-empty slice.
func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// minOf returns the minimum of a non-empty slice.
func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// argMin returns the index of the minimum of values[lo:hi] as an absolute
// index into values. Requires lo < hi.
func argMin(values []float64, lo, hi int) int {
	best := lo
	for i := lo + 1; i < hi; i++ {
		if values[i] < values[best] {
			best = i
		}
	}
	return best
}

// argMax returns the index of the maximum of values[lo:hi] as an absolute
// index into values. Requires lo < hi.
func argMax(values []float64, lo, hi int) int {
	best := lo
	for i := lo + 1; i < hi; i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev returns the population standard deviation.
func stddev(values []float64) float64 {
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

// pricesAt gathers the prices at the given indices.
func pricesAt(values []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, ix := range indices {
		out[i] = values[ix]
	}
	return out
}

// indicesBetween returns the indices strictly inside (lo, hi).
func indicesBetween(indices []int, lo, hi int) []int {
	var out []int
	for _, ix := range indices {
		if ix > lo && ix < hi {
			out = append(out, ix)
		}
	}
	return out
}
