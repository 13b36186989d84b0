// Package models provides domain models shared across the scanner.
package models

import (
	"fmt"
	"time"
)

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Quote represents a snapshot quote for a symbol.
type Quote struct {
	Symbol        string
	LTP           float64
	Open          float64
	High          float64
	Low           float64
	Close         float64
	Volume        int64
	Change        float64
	ChangePercent float64
	Timestamp     time.Time
}

// Closes extracts the close prices from a candle series.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Highs extracts the high prices from a candle series.
func Highs(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

// Lows extracts the low prices from a candle series.
func Lows(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}
	return out
}

// ValidateSeries checks that a candle series is well formed: timestamps
// strictly increasing, prices positive, low never above high. Detectors
// assume this holds and never re-check it.
func ValidateSeries(candles []Candle) error {
	for i, c := range candles {
		if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
			return fmt.Errorf("candle %d: non-positive price", i)
		}
		if c.Low > c.High {
			return fmt.Errorf("candle %d: low %.4f above high %.4f", i, c.Low, c.High)
		}
		if i > 0 && !c.Timestamp.After(candles[i-1].Timestamp) {
			return fmt.Errorf("candle %d: timestamp %s not after previous", i, c.Timestamp)
		}
	}
	return nil
}
