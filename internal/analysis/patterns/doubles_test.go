package patterns

import (
	"reflect"
	"testing"

	"chartscan/internal/analysis"
)

func TestDetectDoubleBottomSynthetic(t *testing.T) {
	candles := candlesFromCloses(doubleBottomCloses)

	got := DetectDoubleBottom(candles, 5, DefaultDoubleWindow)
	want := []analysis.DoubleBottom{{First: 5, Second: 17}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DetectDoubleBottom() = %v, want %v", got, want)
	}
}

func TestDetectDoubleBottomMirrorBecomesDoubleTop(t *testing.T) {
	mirrored := candlesFromCloses(mirrorCloses(doubleBottomCloses, 22))

	tops := DetectDoubleTop(mirrored, 5, DefaultDoubleWindow)
	found := false
	for _, p := range tops {
		if p.First == 5 && p.Second == 17 {
			found = true
		}
	}
	if !found {
		t.Errorf("mirrored series: DetectDoubleTop() = %v, want pair {5 17}", tops)
	}

	// The same trough pair must not reappear as a double bottom on the
	// mirrored series.
	for _, p := range DetectDoubleBottom(mirrored, 5, DefaultDoubleWindow) {
		if p.First == 5 && p.Second == 17 {
			t.Errorf("mirrored series: pair {5 17} detected as double bottom")
		}
	}
}

func TestDetectDoubleBottomRejectsWithoutInterveningRise(t *testing.T) {
	// Two matching troughs but the move between them never lifts 2% above
	// either bottom.
	closes := []float64{
		10, 10, 10, 10, 10, 9.9, 9.95, 10.0, 10.05, 10.0, 9.95,
		10.0, 10.05, 10.05, 10.0, 9.95, 10.0, 9.9, 10.0, 10.05, 10.1, 10.15,
	}
	got := DetectDoubleBottom(candlesFromCloses(closes), 5, DefaultDoubleWindow)
	if len(got) != 0 {
		t.Errorf("DetectDoubleBottom() = %v, want none without intervening rise", got)
	}
}

func TestDetectDoubleBottomRejectsUnconfirmed(t *testing.T) {
	// Same shape as the synthetic series but price keeps falling after the
	// second trough, so the pattern is never confirmed.
	closes := []float64{
		10, 9, 8, 7, 6, 5, 6, 7, 8, 9, 10, 11, 10, 9, 8, 7, 6, 5, 4.9, 4.8, 4.7, 4.6,
	}
	got := DetectDoubleBottom(candlesFromCloses(closes), 5, DefaultDoubleWindow)
	if len(got) != 0 {
		t.Errorf("DetectDoubleBottom() = %v, want none without confirmation", got)
	}
}

func TestDetectDoublesFlatSeries(t *testing.T) {
	candles := flatSeries(60, 50)
	if got := DetectDoubleBottom(candles, 5, DefaultDoubleWindow); len(got) != 0 {
		t.Errorf("flat series: DetectDoubleBottom() = %v, want none", got)
	}
	if got := DetectDoubleTop(candles, 5, DefaultDoubleWindow); len(got) != 0 {
		t.Errorf("flat series: DetectDoubleTop() = %v, want none", got)
	}
}

func TestDetectDoubleBottomShortSeries(t *testing.T) {
	if got := DetectDoubleBottom(candlesFromCloses([]float64{10, 9, 10}), 5, DefaultDoubleWindow); got != nil {
		t.Errorf("short series: DetectDoubleBottom() = %v, want nil", got)
	}
}
