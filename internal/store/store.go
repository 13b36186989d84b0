// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"chartscan/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Candles
	SaveCandles(ctx context.Context, symbol, timeframe string, candles []models.Candle) error
	GetCandles(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]models.Candle, error)
	GetCandlesFreshness(ctx context.Context, symbol, timeframe string) (time.Time, error)

	// Pattern detections
	SaveDetections(ctx context.Context, detections []models.Detection) error
	GetDetections(ctx context.Context, filter DetectionFilter) ([]models.Detection, error)

	// Watchlist
	AddToWatchlist(ctx context.Context, symbol, listName string) error
	RemoveFromWatchlist(ctx context.Context, symbol, listName string) error
	GetWatchlist(ctx context.Context, listName string) ([]string, error)
	GetAllWatchlists(ctx context.Context) (map[string][]string, error)

	// Ledger
	GetAccount(ctx context.Context, name string) (*models.Account, error)
	EnsureAccount(ctx context.Context, name string, startingCash float64) (*models.Account, error)
	RecordTrade(ctx context.Context, trade *models.Trade) error
	GetPositions(ctx context.Context, account string) ([]models.Position, error)
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)

	// Sync
	GetLastSync(dataType string) time.Time
	SetLastSync(dataType string, t time.Time) error

	// Lifecycle
	Close() error
}

// DetectionFilter represents filters for querying stored detections.
type DetectionFilter struct {
	Symbol    string
	Kind      string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}

// TradeFilter represents filters for querying trades.
type TradeFilter struct {
	Account   string
	Symbol    string
	Side      string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
