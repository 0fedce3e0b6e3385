package journal

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/intraday/internal/id"
	"github.com/rustyeddy/intraday/sim"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(ctx context.Context, runID string, t sim.Trade) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO trades
		(trade_id, run_id, symbol, strategy, side, grade, regime, qty,
		 entry_price, stop_price, target_price, entry_fill, exit_fill,
		 entry_time, exit_time, exit_reason, charges, pnl, outcome_r)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.At(t.EntryTime), runID, t.Symbol, string(t.Strategy), t.Side.String(), t.Grade.String(),
		string(t.Regime), t.Qty,
		t.Entry, t.Stop, t.Target, t.EntryFill, t.ExitFill,
		t.EntryTime.UTC(), t.ExitTime.UTC(), string(t.ExitReason), t.Charges, t.PnL, t.R,
	)
	return err
}

func (j *SQLite) RecordRun(ctx context.Context, r BacktestRun) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO backtest_runs
		(run_id, created, dataset, strategy, selection, params, start_date, end_date,
		 days, trades, wins, losses, total_r, avg_r, total_pnl, win_rate, max_dd_r)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC(), r.Dataset, r.Strategy, r.Selection, string(r.Params),
		r.Start.UTC(), r.End.UTC(),
		r.Days, r.Trades, r.Wins, r.Losses, r.TotalR, r.AvgR, r.TotalPnL, r.WinRate, r.MaxDrawdownR,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
