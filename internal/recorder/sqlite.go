package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists backtest runs to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// every pooled connection to ":memory:" would be a separate database
	db.SetMaxOpenConns(1)

	if !strings.Contains(dbPath, ":memory:") {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id                TEXT NOT NULL UNIQUE,
			timestamp             INTEGER NOT NULL,
			symbol                TEXT NOT NULL,
			source                TEXT,
			synthetic             INTEGER NOT NULL DEFAULT 0,
			start_date            TEXT,
			end_date              TEXT,
			bars                  INTEGER,
			fast_window           INTEGER,
			slow_window           INTEGER,
			final_market_return   REAL,
			final_strategy_return REAL,
			max_dd_market         REAL,
			max_dd_strategy       REAL,
			exposure              REAL,
			buy_signals           INTEGER,
			sell_signals          INTEGER,
			round_trips           INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON backtest_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS equity_points (
			run_id       TEXT NOT NULL,
			date         TEXT NOT NULL,
			close        REAL,
			cum_market   REAL,
			cum_strategy REAL,
			position     TEXT,
			PRIMARY KEY (run_id, date)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores the run row and its equity curve in one transaction.
func (r *SQLiteRecorder) RecordRun(rec *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err = tx.Exec(`INSERT INTO backtest_runs
		(run_id, timestamp, symbol, source, synthetic, start_date, end_date, bars,
		 fast_window, slow_window, final_market_return, final_strategy_return,
		 max_dd_market, max_dd_strategy, exposure, buy_signals, sell_signals, round_trips)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.RunID, created.Unix(), rec.Symbol, rec.Source, rec.Synthetic,
		formatDate(rec.Start), formatDate(rec.End), rec.Bars,
		rec.FastWindow, rec.SlowWindow, rec.FinalMarketReturn, rec.FinalStrategyReturn,
		rec.MaxDrawdownMarket, rec.MaxDrawdownStrategy, rec.Exposure,
		rec.BuySignals, rec.SellSignals, rec.RoundTrips,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO equity_points
		(run_id, date, close, cum_market, cum_strategy, position) VALUES (?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare equity insert: %w", err)
	}
	defer stmt.Close()
	for _, p := range rec.Equity {
		if _, err := stmt.Exec(rec.RunID, formatDate(p.Date), p.Close, p.Market, p.Strategy, p.Position); err != nil {
			return fmt.Errorf("insert equity point %s: %w", formatDate(p.Date), err)
		}
	}
	return tx.Commit()
}

// LastRun returns the most recently recorded run.
func (r *SQLiteRecorder) LastRun() (*RunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var (
		rec        RunRecord
		ts         int64
		start, end string
	)
	err := r.db.QueryRow(`SELECT run_id, timestamp, symbol, source, synthetic, start_date, end_date, bars,
		fast_window, slow_window, final_market_return, final_strategy_return,
		max_dd_market, max_dd_strategy, exposure, buy_signals, sell_signals, round_trips
		FROM backtest_runs ORDER BY timestamp DESC, id DESC LIMIT 1`).Scan(
		&rec.RunID, &ts, &rec.Symbol, &rec.Source, &rec.Synthetic, &start, &end, &rec.Bars,
		&rec.FastWindow, &rec.SlowWindow, &rec.FinalMarketReturn, &rec.FinalStrategyReturn,
		&rec.MaxDrawdownMarket, &rec.MaxDrawdownStrategy, &rec.Exposure,
		&rec.BuySignals, &rec.SellSignals, &rec.RoundTrips,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("query last run: %w", err)
	}
	rec.CreatedAt = time.Unix(ts, 0)
	rec.Start, _ = time.Parse(dateLayout, start)
	rec.End, _ = time.Parse(dateLayout, end)
	return &rec, nil
}

// EquityCurve returns the stored daily points of a run, oldest first.
func (r *SQLiteRecorder) EquityCurve(runID string) ([]EquityPoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT date, close, cum_market, cum_strategy, position
		FROM equity_points WHERE run_id = ? ORDER BY date`, runID)
	if err != nil {
		return nil, fmt.Errorf("query equity: %w", err)
	}
	defer rows.Close()

	var points []EquityPoint
	for rows.Next() {
		var (
			p    EquityPoint
			date string
		)
		if err := rows.Scan(&date, &p.Close, &p.Market, &p.Strategy, &p.Position); err != nil {
			return nil, fmt.Errorf("scan equity: %w", err)
		}
		p.Date, _ = time.Parse(dateLayout, date)
		points = append(points, p)
	}
	return points, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
