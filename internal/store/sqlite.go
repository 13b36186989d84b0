// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"chartscan/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db        *sql.DB
	mu        sync.RWMutex
	syncTimes map[string]time.Time
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{
		db:        db,
		syncTimes: make(map[string]time.Time),
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Candles table for historical OHLCV data
	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, timeframe, timestamp)
	);

	-- Pattern detections found during scans
	CREATE TABLE IF NOT EXISTS pattern_detections (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		kind TEXT NOT NULL,
		sensitivity INTEGER NOT NULL,
		indices TEXT NOT NULL,
		detail TEXT,
		detected_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Watchlist table
	CREATE TABLE IF NOT EXISTS watchlist (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		list_name TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(symbol, list_name)
	);

	-- Paper trading accounts
	CREATE TABLE IF NOT EXISTS accounts (
		name TEXT PRIMARY KEY,
		cash REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Open positions per account
	CREATE TABLE IF NOT EXISTS positions (
		account TEXT NOT NULL,
		symbol TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		avg_price REAL NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (account, symbol),
		FOREIGN KEY (account) REFERENCES accounts(name)
	);

	-- Executed paper trades
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		account TEXT NOT NULL,
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		price REAL NOT NULL,
		value REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (account) REFERENCES accounts(name)
	);

	-- Sync status table
	CREATE TABLE IF NOT EXISTS sync_status (
		data_type TEXT PRIMARY KEY,
		last_sync DATETIME NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_candles_symbol_timeframe ON candles(symbol, timeframe);
	CREATE INDEX IF NOT EXISTS idx_candles_timestamp ON candles(timestamp);
	CREATE INDEX IF NOT EXISTS idx_detections_symbol ON pattern_detections(symbol);
	CREATE INDEX IF NOT EXISTS idx_detections_kind ON pattern_detections(kind);
	CREATE INDEX IF NOT EXISTS idx_detections_detected_at ON pattern_detections(detected_at);
	CREATE INDEX IF NOT EXISTS idx_watchlist_list ON watchlist(list_name);
	CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account);
	CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
	CREATE INDEX IF NOT EXISTS idx_trades_timestamp ON trades(timestamp);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Candles Methods
// ============================================================================

// SaveCandles saves candles to the database.
func (s *SQLiteStore) SaveCandles(ctx context.Context, symbol, timeframe string, candles []models.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO candles (symbol, timeframe, timestamp, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		_, err := stmt.ExecContext(ctx, symbol, timeframe, c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			return fmt.Errorf("failed to insert candle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCandles retrieves candles from the database.
func (s *SQLiteStore) GetCandles(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]models.Candle, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, open, high, low, close, volume
		FROM candles
		WHERE symbol = ? AND timeframe = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC
	`, symbol, timeframe, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles: %w", err)
	}
	defer rows.Close()

	var candles []models.Candle
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candles: %w", err)
	}

	return candles, nil
}

// GetCandlesFreshness returns the timestamp of the most recent candle.
func (s *SQLiteStore) GetCandlesFreshness(ctx context.Context, symbol, timeframe string) (time.Time, error) {
	var timestamp sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(timestamp) FROM candles WHERE symbol = ? AND timeframe = ?
	`, symbol, timeframe).Scan(&timestamp)
	if err != nil && err != sql.ErrNoRows {
		return time.Time{}, fmt.Errorf("failed to get candles freshness: %w", err)
	}
	if !timestamp.Valid {
		return time.Time{}, nil
	}
	return timestamp.Time, nil
}

// ============================================================================
// Detection Methods
// ============================================================================

// SaveDetections saves pattern detections to the database.
func (s *SQLiteStore) SaveDetections(ctx context.Context, detections []models.Detection) error {
	if len(detections) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pattern_detections (symbol, kind, sensitivity, indices, detail, detected_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range detections {
		indices, _ := json.Marshal(d.Indices)
		_, err := stmt.ExecContext(ctx, d.Symbol, d.Kind, d.Sensitivity, string(indices), d.Detail, d.DetectedAt)
		if err != nil {
			return fmt.Errorf("failed to insert detection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetDetections retrieves stored detections matching the filter.
func (s *SQLiteStore) GetDetections(ctx context.Context, filter DetectionFilter) ([]models.Detection, error) {
	query := "SELECT id, symbol, kind, sensitivity, indices, detail, detected_at FROM pattern_detections WHERE 1=1"
	args := []interface{}{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filter.Kind)
	}
	if !filter.StartDate.IsZero() {
		query += " AND detected_at >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND detected_at <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY detected_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer rows.Close()

	var detections []models.Detection
	for rows.Next() {
		var d models.Detection
		var indicesJSON string
		var detail sql.NullString
		if err := rows.Scan(&d.ID, &d.Symbol, &d.Kind, &d.Sensitivity, &indicesJSON, &detail, &d.DetectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		json.Unmarshal([]byte(indicesJSON), &d.Indices)
		d.Detail = detail.String
		detections = append(detections, d)
	}

	return detections, rows.Err()
}

// ============================================================================
// Watchlist Methods
// ============================================================================

// AddToWatchlist adds a symbol to a watchlist.
func (s *SQLiteStore) AddToWatchlist(ctx context.Context, symbol, listName string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO watchlist (symbol, list_name) VALUES (?, ?)
	`, symbol, listName)
	if err != nil {
		return fmt.Errorf("failed to add to watchlist: %w", err)
	}
	return nil
}

// RemoveFromWatchlist removes a symbol from a watchlist.
func (s *SQLiteStore) RemoveFromWatchlist(ctx context.Context, symbol, listName string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM watchlist WHERE symbol = ? AND list_name = ?
	`, symbol, listName)
	if err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	return nil
}

// GetWatchlist retrieves the symbols in a watchlist.
func (s *SQLiteStore) GetWatchlist(ctx context.Context, listName string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT symbol FROM watchlist WHERE list_name = ? ORDER BY symbol
	`, listName)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist symbol: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	return symbols, rows.Err()
}

// GetAllWatchlists retrieves all watchlists keyed by list name.
func (s *SQLiteStore) GetAllWatchlists(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT list_name, symbol FROM watchlist ORDER BY list_name, symbol
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlists: %w", err)
	}
	defer rows.Close()

	lists := make(map[string][]string)
	for rows.Next() {
		var listName, symbol string
		if err := rows.Scan(&listName, &symbol); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist row: %w", err)
		}
		lists[listName] = append(lists[listName], symbol)
	}

	return lists, rows.Err()
}

// ============================================================================
// Sync Methods
// ============================================================================

// GetLastSync returns the last sync time for a data type.
func (s *SQLiteStore) GetLastSync(dataType string) time.Time {
	s.mu.RLock()
	if t, ok := s.syncTimes[dataType]; ok {
		s.mu.RUnlock()
		return t
	}
	s.mu.RUnlock()

	var t sql.NullTime
	err := s.db.QueryRow(`SELECT last_sync FROM sync_status WHERE data_type = ?`, dataType).Scan(&t)
	if err != nil || !t.Valid {
		return time.Time{}
	}

	s.mu.Lock()
	s.syncTimes[dataType] = t.Time
	s.mu.Unlock()
	return t.Time
}

// SetLastSync records the last sync time for a data type.
func (s *SQLiteStore) SetLastSync(dataType string, t time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO sync_status (data_type, last_sync, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(data_type) DO UPDATE SET last_sync = excluded.last_sync, updated_at = CURRENT_TIMESTAMP
	`, dataType, t)
	if err != nil {
		return fmt.Errorf("failed to set last sync: %w", err)
	}

	s.mu.Lock()
	s.syncTimes[dataType] = t
	s.mu.Unlock()
	return nil
}
