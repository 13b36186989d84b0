package patterns

import (
	"chartscan/internal/analysis"
	"chartscan/internal/models"
)

// Default detection windows, in bars.
const (
	DefaultDoubleWindow   = 20
	DefaultShoulderWindow = 30
	DefaultTriangleWindow = 40
	DefaultLevelWindow    = 30
)

// Scanner runs every detector over one immutable series snapshot with a
// shared sensitivity. Scanners carry no state between calls; detectors are
// independent and safe to invoke concurrently from separate goroutines.
type Scanner struct {
	Sensitivity    int
	DoubleWindow   int
	ShoulderWindow int
	TriangleWindow int
	LevelWindow    int
}

// NewScanner creates a scanner with the default windows.
func NewScanner(sensitivity int) *Scanner {
	return &Scanner{
		Sensitivity:    sensitivity,
		DoubleWindow:   DefaultDoubleWindow,
		ShoulderWindow: DefaultShoulderWindow,
		TriangleWindow: DefaultTriangleWindow,
		LevelWindow:    DefaultLevelWindow,
	}
}

// Scan runs all detectors and assembles their output into one report. A
// series too short for a given detector simply contributes nothing; absence
// of a pattern is a valid outcome, not an error.
func (s *Scanner) Scan(candles []models.Candle) *analysis.Report {
	report := &analysis.Report{
		DoubleBottoms:           DetectDoubleBottom(candles, s.Sensitivity, s.DoubleWindow),
		DoubleTops:              DetectDoubleTop(candles, s.Sensitivity, s.DoubleWindow),
		HeadAndShoulders:        DetectHeadAndShoulders(candles, s.Sensitivity, s.ShoulderWindow),
		InverseHeadAndShoulders: DetectInverseHeadAndShoulders(candles, s.Sensitivity, s.ShoulderWindow),
		Triangles:               DetectTriangles(candles, s.Sensitivity, s.TriangleWindow),
	}
	report.Supports, report.Resistances = FindSupportResistance(candles, s.Sensitivity, s.LevelWindow)
	return report
}
