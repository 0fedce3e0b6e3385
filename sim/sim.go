// Package sim walks a trade candidate forward through later bars to a stop,
// target or time exit and prices the result with slippage and charges.
package sim

import (
	"time"

	"github.com/rustyeddy/intraday/costs"
	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/trade"
)

type Params struct {
	SlippageBPS  float64
	FixedCostINR float64 // per round trip, on top of statutory charges
}

func DefaultParams() Params {
	return Params{SlippageBPS: 10, FixedCostINR: 2}
}

// Simulate walks bars from the candidate's entry bar onward. On each bar the
// stop is checked before the target; a bar that breaches both exits at the
// stop. With neither touched the trade closes at the last bar's close.
//
// Bars past the trading window must be trimmed by the caller. Simulate
// returns false when the candidate is invalid or no bar is at or after its
// entry time.
func Simulate(c trade.Candidate, bars []market.Candle, p Params) (Trade, bool) {
	if c.Validate() != nil {
		return Trade{}, false
	}
	bars, _ = market.Clean(bars)
	start := market.IndexAtOrAfter(bars, c.EntryTime)
	if start < 0 {
		return Trade{}, false
	}

	var (
		exitPrice float64
		exitTime  time.Time
		reason    ExitReason
	)
	for _, b := range bars[start:] {
		if hitStop(c, b) {
			exitPrice, exitTime, reason = c.Stop, b.Time, StopHit
			break
		}
		if hitTarget(c, b) {
			exitPrice, exitTime, reason = c.Target, b.Time, TargetHit
			break
		}
	}
	if reason == "" {
		last := bars[len(bars)-1]
		exitPrice, exitTime, reason = last.Close, last.Time, TimeExit
	}

	return price(c, exitPrice, exitTime, reason, p), true
}

func price(c trade.Candidate, exitPrice float64, exitTime time.Time, reason ExitReason, p Params) Trade {
	entryFill := costs.ApplySlippage(c.Entry, c.Side, p.SlippageBPS)
	exitFill := costs.ApplySlippage(exitPrice, c.Side.Opposite(), p.SlippageBPS)

	gross := c.Side.Sign() * (exitFill - entryFill) * float64(c.Qty)
	charges := costs.RoundTrip(c.Side, entryFill, exitFill, c.Qty).TotalFloat()
	pnl := gross - charges - p.FixedCostINR

	var r float64
	if c.RiskBudget > 0 {
		r = pnl / c.RiskBudget
	}

	return Trade{
		Candidate:  c,
		EntryFill:  entryFill,
		ExitPrice:  exitPrice,
		ExitFill:   exitFill,
		ExitTime:   exitTime,
		ExitReason: reason,
		Charges:    charges,
		PnL:        pnl,
		R:          r,
	}
}
