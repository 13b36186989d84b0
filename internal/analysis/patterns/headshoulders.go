package patterns

import (
	"math"

	"chartscan/internal/analysis"
	"chartscan/internal/models"
)

// DetectHeadAndShoulders scans the series for head-and-shoulders tops:
// three consecutive peaks with the middle one strictly highest, matching
// shoulders, a flat neckline through the intervening troughs, and a
// confirming close below the neckline.
func DetectHeadAndShoulders(candles []models.Candle, sensitivity, window int) []analysis.HeadAndShoulders {
	params := NewShoulderParams(sensitivity, window)
	closes := models.Closes(candles)
	highs := models.Highs(candles)
	lows := models.Lows(candles)

	order := maxInt(window/6, 1)
	peaks := FindExtrema(highs, analysis.Peak, order)
	if len(peaks) < 3 {
		return nil
	}

	var out []analysis.HeadAndShoulders
	for i := 0; i+2 < len(peaks); i++ {
		p1, p2, p3 := peaks[i], peaks[i+1], peaks[i+2]

		if p2-p1 < params.MinDistance || p3-p2 < params.MinDistance {
			continue
		}

		h1, h2, h3 := highs[p1], highs[p2], highs[p3]

		// Head strictly above both shoulders.
		if h2 <= h1 || h2 <= h3 {
			continue
		}

		// Shoulders at matching heights.
		if math.Abs(h1-h3)/h1 > params.Tolerance {
			continue
		}

		// Neckline through the lowest lows strictly between adjacent peaks.
		// Excluding the peaks themselves keeps a bar with a spike low from
		// anchoring its own neckline; MinDistance >= 3 guarantees the ranges
		// are non-empty.
		t1 := argMin(lows, p1+1, p2)
		t2 := argMin(lows, p2+1, p3)
		if math.Abs(lows[t1]-lows[t2])/lows[t1] > params.Tolerance {
			continue
		}

		var confirmed bool
		if hasLookahead(len(closes), p3) {
			neckline := (lows[t1] + lows[t2]) / 2
			confirmed = closes[p3+confirmationLookahead] < neckline
		} else {
			confirmed = closes[len(closes)-1] < closes[p3]
		}

		if confirmed {
			out = append(out, analysis.HeadAndShoulders{
				LeftShoulder:  p1,
				LeftTrough:    t1,
				Head:          p2,
				RightTrough:   t2,
				RightShoulder: p3,
			})
		}
	}
	return out
}

// DetectInverseHeadAndShoulders is the bullish mirror: three consecutive
// troughs with the middle one strictly lowest, matching shoulders, a flat
// neckline through the intervening peaks, and a confirming close above the
// neckline.
func DetectInverseHeadAndShoulders(candles []models.Candle, sensitivity, window int) []analysis.InverseHeadAndShoulders {
	params := NewShoulderParams(sensitivity, window)
	closes := models.Closes(candles)
	highs := models.Highs(candles)
	lows := models.Lows(candles)

	order := maxInt(window/6, 1)
	troughs := FindExtrema(lows, analysis.Trough, order)
	if len(troughs) < 3 {
		return nil
	}

	var out []analysis.InverseHeadAndShoulders
	for i := 0; i+2 < len(troughs); i++ {
		t1, t2, t3 := troughs[i], troughs[i+1], troughs[i+2]

		if t2-t1 < params.MinDistance || t3-t2 < params.MinDistance {
			continue
		}

		l1, l2, l3 := lows[t1], lows[t2], lows[t3]

		if l2 >= l1 || l2 >= l3 {
			continue
		}

		if math.Abs(l1-l3)/l1 > params.Tolerance {
			continue
		}

		p1 := argMax(highs, t1+1, t2)
		p2 := argMax(highs, t2+1, t3)
		if math.Abs(highs[p1]-highs[p2])/highs[p1] > params.Tolerance {
			continue
		}

		var confirmed bool
		if hasLookahead(len(closes), t3) {
			neckline := (highs[p1] + highs[p2]) / 2
			confirmed = closes[t3+confirmationLookahead] > neckline
		} else {
			confirmed = closes[len(closes)-1] > closes[t3]
		}

		if confirmed {
			out = append(out, analysis.InverseHeadAndShoulders{
				LeftShoulder:  t1,
				LeftPeak:      p1,
				Head:          t2,
				RightPeak:     p2,
				RightShoulder: t3,
			})
		}
	}
	return out
}
