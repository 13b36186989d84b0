package patterns

// confirmationLookahead is the fixed number of bars inspected after a
// pattern's last defining index when checking for confirming price action.
// TODO: decide whether this should scale with the detection window; the
// current behavior keeps it constant for compatibility with prior scans.
const confirmationLookahead = 5

// slopeEpsilon guards slope and ratio arithmetic against near-zero
// denominators. Degenerate candidates are skipped, never reported.
const slopeEpsilon = 1e-10

// hasLookahead reports whether a full confirmation window exists after the
// last defining index.
func hasLookahead(seriesLen, last int) bool {
	return last+confirmationLookahead < seriesLen
}

// confirmingClose returns the close price used to confirm a pattern whose
// last defining index is last: the close confirmationLookahead bars later,
// or the series' final close when the series ends sooner.
func confirmingClose(closes []float64, last int) float64 {
	if hasLookahead(len(closes), last) {
		return closes[last+confirmationLookahead]
	}
	return closes[len(closes)-1]
}
