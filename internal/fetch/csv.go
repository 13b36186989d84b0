package fetch

import (
	"context"
	"os"
	"time"

	"github.com/gocarina/gocsv"

	apperrors "chartscan/internal/errors"
	"chartscan/internal/models"
)

// CSVLoader reads daily candles from a local CSV file with
// Date,Open,High,Low,Close,Volume columns.
type CSVLoader struct {
	Path string
}

// NewCSVLoader creates a loader for the given file.
func NewCSVLoader(path string) *CSVLoader {
	return &CSVLoader{Path: path}
}

// Fetch reads the file and returns candles within [from, to].
func (l *CSVLoader) Fetch(ctx context.Context, symbol string, from, to time.Time) ([]models.Candle, error) {
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, apperrors.NewDataError("candles", symbol, "opening CSV file", err)
	}
	defer f.Close()

	var rows []*csvRow
	if err := gocsv.Unmarshal(f, &rows); err != nil {
		return nil, apperrors.NewDataError("candles", symbol, "parsing CSV file", err)
	}

	all := toCandles(rows)
	candles := make([]models.Candle, 0, len(all))
	for _, c := range all {
		if c.Timestamp.Before(from) || c.Timestamp.After(to) {
			continue
		}
		candles = append(candles, c)
	}
	if len(candles) == 0 {
		return nil, apperrors.NewDataError("candles", symbol, "no rows in range", apperrors.ErrDataNotFound)
	}
	return candles, nil
}
