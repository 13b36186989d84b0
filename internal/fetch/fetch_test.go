package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	apperrors "chartscan/internal/errors"
)

const sampleCSV = `Date,Open,High,Low,Close,Volume
2024-03-01,100.0,105.0,99.0,104.0,1000
2024-03-04,104.0,108.0,103.0,107.0,1500
2024-03-05,107.0,109.0,101.0,102.0,2000
`

func TestStooqClientFetch(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	client := NewStooqClientWithBaseURL(server.URL, zerolog.Nop())
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	candles, err := client.Fetch(context.Background(), "acme.us", from, to)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(candles) != 3 {
		t.Fatalf("Fetch() returned %d candles, want 3", len(candles))
	}
	if candles[0].Open != 100.0 || candles[0].Volume != 1000 {
		t.Errorf("first candle = %+v", candles[0])
	}
	if !candles[2].Timestamp.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("last candle timestamp = %v", candles[2].Timestamp)
	}

	for _, want := range []string{"s=acme.us", "d1=20240301", "d2=20240305", "i=d"} {
		if !containsParam(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func containsParam(rawQuery, param string) bool {
	for _, kv := range splitQuery(rawQuery) {
		if kv == param {
			return true
		}
	}
	return false
}

func splitQuery(rawQuery string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(rawQuery); i++ {
		if i == len(rawQuery) || rawQuery[i] == '&' {
			out = append(out, rawQuery[start:i])
			start = i + 1
		}
	}
	return out
}

func TestStooqClientRetriesTransientFailure(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	client := NewStooqClientWithBaseURL(server.URL, zerolog.Nop())
	client.retry.InitialDelay = time.Millisecond

	candles, err := client.Fetch(context.Background(), "acme.us", time.Now().AddDate(0, -1, 0), time.Now())
	if err != nil {
		t.Fatalf("Fetch() error after retries: %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if len(candles) != 3 {
		t.Errorf("Fetch() returned %d candles, want 3", len(candles))
	}
}

func TestStooqClientNoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Date,Open,High,Low,Close,Volume\n"))
	}))
	defer server.Close()

	client := NewStooqClientWithBaseURL(server.URL, zerolog.Nop())
	_, err := client.Fetch(context.Background(), "nosuch.us", time.Now().AddDate(0, -1, 0), time.Now())
	if !apperrors.Is(err, apperrors.ErrDataNotFound) {
		t.Errorf("Fetch() error = %v, want ErrDataNotFound", err)
	}
}

func TestCSVLoaderRangeFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "acme.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	loader := NewCSVLoader(path)
	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	candles, err := loader.Fetch(context.Background(), "ACME", from, to)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(candles) != 1 {
		t.Fatalf("Fetch() returned %d candles, want 1", len(candles))
	}
	if candles[0].Close != 107.0 {
		t.Errorf("candle = %+v, want close 107", candles[0])
	}
}

func TestCSVLoaderMissingFile(t *testing.T) {
	loader := NewCSVLoader(filepath.Join(t.TempDir(), "absent.csv"))
	_, err := loader.Fetch(context.Background(), "ACME", time.Time{}, time.Now())
	var derr *apperrors.DataError
	if !apperrors.As(err, &derr) {
		t.Errorf("Fetch() error = %v, want DataError", err)
	}
}

func TestToCandlesSkipsBadRows(t *testing.T) {
	rows := []*csvRow{
		{Date: "2024-03-01", Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Date: "No Data", Open: 0, High: 0, Low: 0, Close: 0, Volume: 0},
		{Date: "2024-03-04", Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 20},
	}
	candles := toCandles(rows)
	if len(candles) != 2 {
		t.Fatalf("toCandles() = %d candles, want 2", len(candles))
	}
}
