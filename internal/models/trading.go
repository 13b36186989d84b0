package models

import "time"

// Trade side values.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Trade represents one executed paper trade.
type Trade struct {
	ID        string
	Timestamp time.Time
	Account   string
	Symbol    string
	Side      string
	Quantity  int
	Price     float64
	Value     float64
}

// Position represents the current holding of a symbol in an account.
type Position struct {
	Account   string
	Symbol    string
	Quantity  int
	AvgPrice  float64
	UpdatedAt time.Time
}

// MarketValue returns the position value at the given price.
func (p Position) MarketValue(price float64) float64 {
	return float64(p.Quantity) * price
}

// UnrealizedPnL returns the open profit at the given price.
func (p Position) UnrealizedPnL(price float64) float64 {
	return float64(p.Quantity) * (price - p.AvgPrice)
}

// Account represents a paper trading ledger account.
type Account struct {
	Name      string
	Cash      float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Detection is a persisted pattern occurrence found during a scan.
type Detection struct {
	ID          int64
	Symbol      string
	Kind        string
	Sensitivity int
	Indices     []int
	Detail      string // JSON payload with kind-specific fields
	DetectedAt  time.Time
}
