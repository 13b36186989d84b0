package store

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	apperrors "chartscan/internal/errors"
	"chartscan/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := fmt.Sprintf("%s/chartscan_test.db", t.TempDir())
	store, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		os.Remove(dbPath)
	})
	return store
}

func TestCandleRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candles := []models.Candle{
		{Timestamp: base, Open: 100, High: 105, Low: 99, Close: 104, Volume: 1000},
		{Timestamp: base.Add(24 * time.Hour), Open: 104, High: 108, Low: 103, Close: 107, Volume: 1500},
		{Timestamp: base.Add(48 * time.Hour), Open: 107, High: 109, Low: 101, Close: 102, Volume: 2000},
	}

	if err := store.SaveCandles(ctx, "ACME", "1day", candles); err != nil {
		t.Fatalf("SaveCandles() error: %v", err)
	}

	got, err := store.GetCandles(ctx, "ACME", "1day", base.Add(-time.Hour), base.Add(72*time.Hour))
	if err != nil {
		t.Fatalf("GetCandles() error: %v", err)
	}
	if len(got) != len(candles) {
		t.Fatalf("GetCandles() returned %d candles, want %d", len(got), len(candles))
	}
	for i, c := range candles {
		r := got[i]
		if !r.Timestamp.Equal(c.Timestamp) || r.Open != c.Open || r.High != c.High ||
			r.Low != c.Low || r.Close != c.Close || r.Volume != c.Volume {
			t.Errorf("candle %d mismatch: got %+v, want %+v", i, r, c)
		}
	}

	freshness, err := store.GetCandlesFreshness(ctx, "ACME", "1day")
	if err != nil {
		t.Fatalf("GetCandlesFreshness() error: %v", err)
	}
	if !freshness.Equal(candles[2].Timestamp) {
		t.Errorf("freshness = %v, want %v", freshness, candles[2].Timestamp)
	}
}

func TestSaveCandlesUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	first := []models.Candle{{Timestamp: ts, Open: 100, High: 105, Low: 99, Close: 104, Volume: 1000}}
	second := []models.Candle{{Timestamp: ts, Open: 100, High: 106, Low: 99, Close: 105, Volume: 1200}}

	if err := store.SaveCandles(ctx, "ACME", "1day", first); err != nil {
		t.Fatalf("SaveCandles() error: %v", err)
	}
	if err := store.SaveCandles(ctx, "ACME", "1day", second); err != nil {
		t.Fatalf("SaveCandles() upsert error: %v", err)
	}

	got, err := store.GetCandles(ctx, "ACME", "1day", ts.Add(-time.Hour), ts.Add(time.Hour))
	if err != nil {
		t.Fatalf("GetCandles() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("GetCandles() returned %d candles after upsert, want 1", len(got))
	}
	if got[0].Close != 105 || got[0].Volume != 1200 {
		t.Errorf("upsert did not replace candle: got %+v", got[0])
	}
}

func TestDetectionsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	detectedAt := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	detections := []models.Detection{
		{Symbol: "ACME", Kind: "double_bottom", Sensitivity: 5, Indices: []int{5, 17}, Detail: `{"first":5,"second":17}`, DetectedAt: detectedAt},
		{Symbol: "ACME", Kind: "support", Sensitivity: 5, Indices: []int{8}, Detail: `{"price":10.05,"touches":12}`, DetectedAt: detectedAt},
		{Symbol: "OTHER", Kind: "double_top", Sensitivity: 7, Indices: []int{3, 11}, DetectedAt: detectedAt.Add(time.Hour)},
	}

	if err := store.SaveDetections(ctx, detections); err != nil {
		t.Fatalf("SaveDetections() error: %v", err)
	}

	got, err := store.GetDetections(ctx, DetectionFilter{Symbol: "ACME"})
	if err != nil {
		t.Fatalf("GetDetections() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetDetections(ACME) returned %d rows, want 2", len(got))
	}

	byKind, err := store.GetDetections(ctx, DetectionFilter{Kind: "double_bottom"})
	if err != nil {
		t.Fatalf("GetDetections() error: %v", err)
	}
	if len(byKind) != 1 {
		t.Fatalf("GetDetections(double_bottom) returned %d rows, want 1", len(byKind))
	}
	d := byKind[0]
	if d.Symbol != "ACME" || d.Sensitivity != 5 {
		t.Errorf("detection mismatch: %+v", d)
	}
	if len(d.Indices) != 2 || d.Indices[0] != 5 || d.Indices[1] != 17 {
		t.Errorf("indices = %v, want [5 17]", d.Indices)
	}
	if d.Detail != `{"first":5,"second":17}` {
		t.Errorf("detail = %q", d.Detail)
	}
}

func TestWatchlist(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, symbol := range []string{"ACME", "GLOBEX", "INITECH"} {
		if err := store.AddToWatchlist(ctx, symbol, "tech"); err != nil {
			t.Fatalf("AddToWatchlist() error: %v", err)
		}
	}
	// Duplicate add is a no-op.
	if err := store.AddToWatchlist(ctx, "ACME", "tech"); err != nil {
		t.Fatalf("AddToWatchlist() duplicate error: %v", err)
	}
	if err := store.AddToWatchlist(ctx, "ACME", "core"); err != nil {
		t.Fatalf("AddToWatchlist() error: %v", err)
	}

	tech, err := store.GetWatchlist(ctx, "tech")
	if err != nil {
		t.Fatalf("GetWatchlist() error: %v", err)
	}
	if len(tech) != 3 {
		t.Fatalf("GetWatchlist(tech) = %v, want 3 symbols", tech)
	}

	if err := store.RemoveFromWatchlist(ctx, "GLOBEX", "tech"); err != nil {
		t.Fatalf("RemoveFromWatchlist() error: %v", err)
	}

	all, err := store.GetAllWatchlists(ctx)
	if err != nil {
		t.Fatalf("GetAllWatchlists() error: %v", err)
	}
	if len(all["tech"]) != 2 || len(all["core"]) != 1 {
		t.Errorf("GetAllWatchlists() = %v", all)
	}
}

func TestLedgerBuySellFlow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	acc, err := store.EnsureAccount(ctx, "paper", 10000)
	if err != nil {
		t.Fatalf("EnsureAccount() error: %v", err)
	}
	if acc.Cash != 10000 {
		t.Fatalf("starting cash = %v, want 10000", acc.Cash)
	}

	trades := []models.Trade{
		{ID: "T1", Account: "paper", Symbol: "ACME", Side: models.SideBuy, Quantity: 10, Price: 100},
		{ID: "T2", Account: "paper", Symbol: "ACME", Side: models.SideBuy, Quantity: 10, Price: 120},
		{ID: "T3", Account: "paper", Symbol: "ACME", Side: models.SideSell, Quantity: 5, Price: 130},
	}
	for i := range trades {
		if err := store.RecordTrade(ctx, &trades[i]); err != nil {
			t.Fatalf("RecordTrade(%s) error: %v", trades[i].ID, err)
		}
	}

	acc, err = store.GetAccount(ctx, "paper")
	if err != nil {
		t.Fatalf("GetAccount() error: %v", err)
	}
	// 10000 - 1000 - 1200 + 650
	if acc.Cash != 8450 {
		t.Errorf("cash after trades = %v, want 8450", acc.Cash)
	}

	positions, err := store.GetPositions(ctx, "paper")
	if err != nil {
		t.Fatalf("GetPositions() error: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("GetPositions() = %v, want one position", positions)
	}
	pos := positions[0]
	if pos.Quantity != 15 {
		t.Errorf("position quantity = %d, want 15", pos.Quantity)
	}
	// Selling keeps the weighted average entry of the buys.
	if pos.AvgPrice != 110 {
		t.Errorf("position avg price = %v, want 110", pos.AvgPrice)
	}

	// Closing the position entirely removes the row.
	closeTrade := models.Trade{ID: "T4", Account: "paper", Symbol: "ACME", Side: models.SideSell, Quantity: 15, Price: 110}
	if err := store.RecordTrade(ctx, &closeTrade); err != nil {
		t.Fatalf("RecordTrade(T4) error: %v", err)
	}
	positions, err = store.GetPositions(ctx, "paper")
	if err != nil {
		t.Fatalf("GetPositions() error: %v", err)
	}
	if len(positions) != 0 {
		t.Errorf("GetPositions() after close = %v, want none", positions)
	}

	history, err := store.GetTrades(ctx, TradeFilter{Account: "paper"})
	if err != nil {
		t.Fatalf("GetTrades() error: %v", err)
	}
	if len(history) != 4 {
		t.Errorf("GetTrades() = %d rows, want 4", len(history))
	}
}

func TestLedgerInsufficientFunds(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.EnsureAccount(ctx, "paper", 500); err != nil {
		t.Fatalf("EnsureAccount() error: %v", err)
	}

	trade := models.Trade{ID: "T1", Account: "paper", Symbol: "ACME", Side: models.SideBuy, Quantity: 10, Price: 100}
	err := store.RecordTrade(ctx, &trade)
	if !apperrors.Is(err, apperrors.ErrInsufficientFunds) {
		t.Fatalf("RecordTrade() error = %v, want ErrInsufficientFunds", err)
	}

	// The rejected trade must leave the ledger untouched.
	acc, err := store.GetAccount(ctx, "paper")
	if err != nil {
		t.Fatalf("GetAccount() error: %v", err)
	}
	if acc.Cash != 500 {
		t.Errorf("cash after rejected trade = %v, want 500", acc.Cash)
	}
	history, err := store.GetTrades(ctx, TradeFilter{Account: "paper"})
	if err != nil {
		t.Fatalf("GetTrades() error: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("GetTrades() after rejected trade = %v, want none", history)
	}
}

func TestLedgerInsufficientShares(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.EnsureAccount(ctx, "paper", 10000); err != nil {
		t.Fatalf("EnsureAccount() error: %v", err)
	}
	buy := models.Trade{ID: "T1", Account: "paper", Symbol: "ACME", Side: models.SideBuy, Quantity: 5, Price: 100}
	if err := store.RecordTrade(ctx, &buy); err != nil {
		t.Fatalf("RecordTrade() error: %v", err)
	}

	sell := models.Trade{ID: "T2", Account: "paper", Symbol: "ACME", Side: models.SideSell, Quantity: 10, Price: 100}
	if err := store.RecordTrade(ctx, &sell); !apperrors.Is(err, apperrors.ErrInsufficientShares) {
		t.Fatalf("RecordTrade() error = %v, want ErrInsufficientShares", err)
	}

	positions, err := store.GetPositions(ctx, "paper")
	if err != nil {
		t.Fatalf("GetPositions() error: %v", err)
	}
	if len(positions) != 1 || positions[0].Quantity != 5 {
		t.Errorf("positions after rejected sell = %v, want 5 shares", positions)
	}
}

func TestLedgerRejectsInvalidTrades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.EnsureAccount(ctx, "paper", 10000); err != nil {
		t.Fatalf("EnsureAccount() error: %v", err)
	}

	tests := []struct {
		name  string
		trade models.Trade
	}{
		{"zero quantity", models.Trade{ID: "T1", Account: "paper", Symbol: "ACME", Side: models.SideBuy, Quantity: 0, Price: 100}},
		{"negative price", models.Trade{ID: "T2", Account: "paper", Symbol: "ACME", Side: models.SideBuy, Quantity: 1, Price: -5}},
		{"unknown side", models.Trade{ID: "T3", Account: "paper", Symbol: "ACME", Side: "HOLD", Quantity: 1, Price: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trade := tt.trade
			err := store.RecordTrade(ctx, &trade)
			var verr *apperrors.ValidationError
			if !apperrors.As(err, &verr) {
				t.Errorf("RecordTrade() error = %v, want ValidationError", err)
			}
		})
	}

	unknownAccount := models.Trade{ID: "T4", Account: "ghost", Symbol: "ACME", Side: models.SideBuy, Quantity: 1, Price: 100}
	if err := store.RecordTrade(ctx, &unknownAccount); !apperrors.Is(err, apperrors.ErrAccountNotFound) {
		t.Errorf("RecordTrade() error = %v, want ErrAccountNotFound", err)
	}
}

func TestSyncStatus(t *testing.T) {
	store := newTestStore(t)

	if got := store.GetLastSync("candles"); !got.IsZero() {
		t.Errorf("GetLastSync() before any sync = %v, want zero", got)
	}

	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	if err := store.SetLastSync("candles", ts); err != nil {
		t.Fatalf("SetLastSync() error: %v", err)
	}
	if got := store.GetLastSync("candles"); !got.Equal(ts) {
		t.Errorf("GetLastSync() = %v, want %v", got, ts)
	}
}
