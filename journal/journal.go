// Package journal persists gate state, decision ledgers and simulated trade
// logs as JSON files, and backtest runs in SQLite.
package journal

import (
	"context"

	"github.com/rustyeddy/intraday/sim"
)

// Journal records simulated trades and the backtest runs they belong to.
type Journal interface {
	RecordTrade(ctx context.Context, runID string, t sim.Trade) error
	RecordRun(ctx context.Context, run BacktestRun) error
	Close() error
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordTrade(context.Context, string, sim.Trade) error { return nil }
func (Nop) RecordRun(context.Context, BacktestRun) error         { return nil }
func (Nop) Close() error                                         { return nil }
