package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/trade"
)

// TradeRow is a journaled trade as stored.
type TradeRow struct {
	TradeID string
	RunID   string
	sim.Trade
}

const tradeColumns = `trade_id, run_id, symbol, strategy, side, grade, regime, qty,
	entry_price, stop_price, target_price, entry_fill, exit_fill,
	entry_time, exit_time, exit_reason, charges, pnl, outcome_r`

func scanTrade(s interface{ Scan(...any) error }) (TradeRow, error) {
	var (
		r                          TradeRow
		strategy, side, grade, reg string
		reason                     string
	)
	err := s.Scan(
		&r.TradeID, &r.RunID, &r.Symbol, &strategy, &side, &grade, &reg, &r.Qty,
		&r.Entry, &r.Stop, &r.Target, &r.EntryFill, &r.ExitFill,
		&r.EntryTime, &r.ExitTime, &reason, &r.Charges, &r.PnL, &r.R,
	)
	if err != nil {
		return TradeRow{}, err
	}
	r.Strategy = trade.Strategy(strategy)
	r.Regime = regime.Regime(reg)
	r.ExitReason = sim.ExitReason(reason)
	if r.Side, err = market.ParseSide(side); err != nil {
		return TradeRow{}, err
	}
	if r.Grade, err = trade.ParseGrade(grade); err != nil {
		return TradeRow{}, err
	}
	return r, nil
}

// ListTradesByRun returns a run's trades ordered by entry time.
func (j *SQLite) ListTradesByRun(ctx context.Context, runID string) ([]TradeRow, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+tradeColumns+`
		FROM trades WHERE run_id = ? ORDER BY entry_time ASC, symbol ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrades(rows)
}

// ListTradesBetween returns trades whose entry time is within [start, end).
func (j *SQLite) ListTradesBetween(ctx context.Context, start, end time.Time) ([]TradeRow, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT `+tradeColumns+`
		FROM trades WHERE entry_time >= ? AND entry_time < ? ORDER BY entry_time ASC`,
		start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTrades(rows)
}

func collectTrades(rows *sql.Rows) ([]TradeRow, error) {
	var out []TradeRow
	for rows.Next() {
		r, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRun loads one backtest run.
func (j *SQLite) GetRun(ctx context.Context, runID string) (BacktestRun, error) {
	var (
		r      BacktestRun
		params string
	)
	err := j.db.QueryRowContext(ctx, `
		SELECT run_id, created, dataset, strategy, selection, params, start_date, end_date,
		       days, trades, wins, losses, total_r, avg_r, total_pnl, win_rate, max_dd_r
		FROM backtest_runs WHERE run_id = ?`, runID).Scan(
		&r.RunID, &r.Created, &r.Dataset, &r.Strategy, &r.Selection, &params, &r.Start, &r.End,
		&r.Days, &r.Trades, &r.Wins, &r.Losses, &r.TotalR, &r.AvgR, &r.TotalPnL, &r.WinRate, &r.MaxDrawdownR,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return BacktestRun{}, fmt.Errorf("backtest run %q not found", runID)
	}
	if err != nil {
		return BacktestRun{}, err
	}
	r.Params = []byte(params)
	return r, nil
}
