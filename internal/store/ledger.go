package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	apperrors "chartscan/internal/errors"
	"chartscan/internal/models"
)

// GetAccount retrieves an account by name.
func (s *SQLiteStore) GetAccount(ctx context.Context, name string) (*models.Account, error) {
	var acc models.Account
	err := s.db.QueryRowContext(ctx, `
		SELECT name, cash, created_at, updated_at FROM accounts WHERE name = ?
	`, name).Scan(&acc.Name, &acc.Cash, &acc.CreatedAt, &acc.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	return &acc, nil
}

// EnsureAccount retrieves an account, creating it with the starting cash
// balance if it does not exist yet.
func (s *SQLiteStore) EnsureAccount(ctx context.Context, name string, startingCash float64) (*models.Account, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO accounts (name, cash) VALUES (?, ?)
	`, name, startingCash)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return s.GetAccount(ctx, name)
}

// RecordTrade applies one trade to the ledger atomically: the cash balance,
// the position row and the trade history either all change or none do.
// Buys require sufficient cash; sells require sufficient shares.
func (s *SQLiteStore) RecordTrade(ctx context.Context, trade *models.Trade) error {
	if trade.Quantity <= 0 {
		return apperrors.NewValidationError("quantity", trade.Quantity, "must be positive")
	}
	if trade.Price <= 0 {
		return apperrors.NewValidationError("price", trade.Price, "must be positive")
	}
	if trade.Side != models.SideBuy && trade.Side != models.SideSell {
		return apperrors.NewValidationError("side", trade.Side, "must be BUY or SELL")
	}

	value := float64(trade.Quantity) * trade.Price
	trade.Value = value
	if trade.Timestamp.IsZero() {
		trade.Timestamp = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var cash float64
	err = tx.QueryRowContext(ctx, `
		SELECT cash FROM accounts WHERE name = ?
	`, trade.Account).Scan(&cash)
	if err == sql.ErrNoRows {
		return apperrors.ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query account balance: %w", err)
	}

	var qty int
	var avgPrice float64
	err = tx.QueryRowContext(ctx, `
		SELECT quantity, avg_price FROM positions WHERE account = ? AND symbol = ?
	`, trade.Account, trade.Symbol).Scan(&qty, &avgPrice)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to query position: %w", err)
	}

	switch trade.Side {
	case models.SideBuy:
		if cash < value {
			return apperrors.NewLedgerError(trade.Account, trade.Symbol, trade.Side,
				fmt.Sprintf("need %.2f, have %.2f", value, cash), apperrors.ErrInsufficientFunds)
		}
		cash -= value
		// Weighted average entry price across buys.
		newQty := qty + trade.Quantity
		avgPrice = (float64(qty)*avgPrice + value) / float64(newQty)
		qty = newQty
	case models.SideSell:
		if qty < trade.Quantity {
			return apperrors.NewLedgerError(trade.Account, trade.Symbol, trade.Side,
				fmt.Sprintf("need %d shares, have %d", trade.Quantity, qty), apperrors.ErrInsufficientShares)
		}
		cash += value
		qty -= trade.Quantity
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE accounts SET cash = ?, updated_at = CURRENT_TIMESTAMP WHERE name = ?
	`, cash, trade.Account); err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}

	if qty == 0 {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM positions WHERE account = ? AND symbol = ?
		`, trade.Account, trade.Symbol); err != nil {
			return fmt.Errorf("failed to close position: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO positions (account, symbol, quantity, avg_price, updated_at)
			VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(account, symbol) DO UPDATE SET
				quantity = excluded.quantity,
				avg_price = excluded.avg_price,
				updated_at = CURRENT_TIMESTAMP
		`, trade.Account, trade.Symbol, qty, avgPrice); err != nil {
			return fmt.Errorf("failed to update position: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO trades (id, timestamp, account, symbol, side, quantity, price, value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, trade.Timestamp, trade.Account, trade.Symbol, trade.Side, trade.Quantity, trade.Price, trade.Value); err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trade: %w", err)
	}

	return nil
}

// GetPositions retrieves all open positions for an account.
func (s *SQLiteStore) GetPositions(ctx context.Context, account string) ([]models.Position, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account, symbol, quantity, avg_price, updated_at
		FROM positions WHERE account = ? ORDER BY symbol
	`, account)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions: %w", err)
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.Account, &p.Symbol, &p.Quantity, &p.AvgPrice, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, p)
	}

	return positions, rows.Err()
}

// GetTrades retrieves trades matching the filter, newest first.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT id, timestamp, account, symbol, side, quantity, price, value FROM trades WHERE 1=1"
	args := []interface{}{}

	if filter.Account != "" {
		query += " AND account = ?"
		args = append(args, filter.Account)
	}
	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Side != "" {
		query += " AND side = ?"
		args = append(args, filter.Side)
	}
	if !filter.StartDate.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND timestamp <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY timestamp DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.ID, &t.Timestamp, &t.Account, &t.Symbol, &t.Side, &t.Quantity, &t.Price, &t.Value); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}

	return trades, rows.Err()
}
