package journal

import (
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/trade"
)

var entry = time.Date(2025, 1, 6, 4, 15, 0, 0, time.UTC)

func simTrade(sym string, r float64) sim.Trade {
	return sim.Trade{
		Candidate: trade.Candidate{
			Symbol:     sym,
			Sector:     "IT",
			Strategy:   trade.ORB,
			Side:       market.Buy,
			Entry:      100,
			Stop:       99,
			Target:     101.5,
			Qty:        150,
			RiskBudget: 125,
			Score:      2.1,
			Grade:      trade.GradeAPlus,
			Regime:     regime.Trend,
			TrendDir:   regime.Bull,
			EntryTime:  entry,
		},
		EntryFill:  100.1,
		ExitPrice:  101.5,
		ExitFill:   101.3985,
		ExitTime:   entry.Add(time.Hour),
		ExitReason: sim.TargetHit,
		Charges:    8.5,
		PnL:        r * 125,
		R:          r,
	}
}
