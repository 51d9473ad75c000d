// Package store persists backtest runs and their trade ledgers to
// Postgres. Persistence is optional: the simulation core never touches it.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/pairsim/pairsim/internal/models"
)

// Store wraps the backtest results database.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres using the given connection URL.
func Open(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing database handle.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Init creates the result tables if they do not exist.
func (s *Store) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS backtest_runs (
	id BIGSERIAL PRIMARY KEY,
	pair TEXT NOT NULL,
	hedge_ratio DOUBLE PRECISION NOT NULL,
	entry_zscore DOUBLE PRECISION NOT NULL,
	exit_zscore DOUBLE PRECISION NOT NULL,
	stop_loss_zscore DOUBLE PRECISION NOT NULL,
	transaction_cost DOUBLE PRECISION NOT NULL,
	initial_capital NUMERIC NOT NULL,
	zscore_window INT NOT NULL,
	total_trades INT NOT NULL,
	total_return_pct DOUBLE PRECISION NOT NULL,
	sharpe_ratio DOUBLE PRECISION NOT NULL,
	max_drawdown_pct DOUBLE PRECISION NOT NULL,
	win_rate DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS backtest_trades (
	id BIGSERIAL PRIMARY KEY,
	run_id BIGINT NOT NULL REFERENCES backtest_runs(id) ON DELETE CASCADE,
	direction TEXT NOT NULL,
	entry_date DATE NOT NULL,
	exit_date DATE NOT NULL,
	entry_zscore DOUBLE PRECISION NOT NULL,
	exit_zscore DOUBLE PRECISION NOT NULL,
	capital_allocated NUMERIC NOT NULL,
	gross_pnl NUMERIC NOT NULL,
	costs NUMERIC NOT NULL,
	net_pnl NUMERIC NOT NULL,
	return_pct DOUBLE PRECISION NOT NULL,
	holding_days INT NOT NULL,
	exit_reason TEXT NOT NULL
);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create result tables: %w", err)
	}
	return nil
}

// SaveRun inserts the run's parameters and headline metrics, returning the
// new run id.
func (s *Store) SaveRun(ctx context.Context, result *models.BacktestResult) (int64, error) {
	const query = `
INSERT INTO backtest_runs (
	pair, hedge_ratio, entry_zscore, exit_zscore, stop_loss_zscore,
	transaction_cost, initial_capital, zscore_window,
	total_trades, total_return_pct, sharpe_ratio, max_drawdown_pct, win_rate
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`

	p := result.Params
	m := result.Metrics

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		result.Pair, p.HedgeRatio, p.EntryZ, p.ExitZ, p.StopLossZ,
		p.TxCostRate, p.InitialCapital.String(), p.ZScoreWindow,
		m.TotalTrades, m.TotalReturnPct, m.SharpeRatio, m.MaxDrawdownPct, m.WinRate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return id, nil
}

// SaveTrades inserts the closed-trade ledger for a run.
func (s *Store) SaveTrades(ctx context.Context, runID int64, trades []models.Trade) error {
	const query = `
INSERT INTO backtest_trades (
	run_id, direction, entry_date, exit_date, entry_zscore, exit_zscore,
	capital_allocated, gross_pnl, costs, net_pnl, return_pct, holding_days, exit_reason
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, t := range trades {
		if _, err := tx.ExecContext(ctx, query,
			runID, string(t.Direction), t.EntryDate, t.ExitDate,
			t.EntryZScore, t.ExitZScore,
			t.CapitalAllocated.String(), t.GrossPnL.String(), t.Costs.String(), t.NetPnL.String(),
			t.ReturnPct, t.HoldingDays, string(t.ExitReason),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert trade: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trades: %w", err)
	}
	return nil
}
