package risk

import (
	"fmt"

	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/trade"
)

// Outcome is the ledger decision for one evaluated candidate.
type Outcome string

const (
	Sent                 Outcome = "sent"
	PausedGuard          Outcome = "paused_guard"
	BlockedHardStop      Outcome = "blocked_hard_stop"
	BlockedMaxTrades     Outcome = "blocked_max_trades"
	BlockedConsecLosses  Outcome = "blocked_consec_losses"
	BlockedMinGrade      Outcome = "blocked_min_grade"
	BlockedSoftStop      Outcome = "blocked_soft_stop"
	BlockedDrawdownAOnly Outcome = "blocked_drawdown_aonly"
	SuppressedCooldown   Outcome = "suppressed_cooldown"
	SuppressedDuplicate  Outcome = "suppressed_duplicate"
)

type Violation struct {
	Code Outcome
	Msg  string
}

type Decision struct {
	Allowed    bool
	Violations []Violation

	PlannedRisk float64
	PlannedRR   float64
}

func (d *Decision) add(code Outcome, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// Outcome is the first violation's code, or Sent when allowed.
func (d Decision) Outcome() Outcome {
	if len(d.Violations) == 0 {
		return Sent
	}
	return d.Violations[0].Code
}

// Evaluate runs the gate checks in order and stops at the first failure:
// drift pause, hard stop, trade cap, losing streak, minimum grade, soft
// stop, drawdown A+ only.
func Evaluate(p Policy, c trade.Candidate, day DayStats, st RiskState, today string) Decision {
	d := Decision{
		Allowed:     true,
		PlannedRisk: PlannedRisk(c.Qty, c.Entry, c.Stop),
		PlannedRR:   RR(c.Entry, c.Stop, c.Target),
	}

	if st.Paused(today) {
		d.add(PausedGuard, fmt.Sprintf("paused until %s (%s)", st.PausedUntil, st.Reason))
		return d
	}
	if day.PnL <= -p.MaxDailyLossINR {
		d.add(BlockedHardStop, fmt.Sprintf("day pnl %.2f <= -%.2f", day.PnL, p.MaxDailyLossINR))
		return d
	}
	if day.Trades >= p.MaxTradesPerDay {
		d.add(BlockedMaxTrades, fmt.Sprintf("trades %d >= max %d", day.Trades, p.MaxTradesPerDay))
		return d
	}
	if day.ConsecLosses >= p.StopAfterLosses {
		d.add(BlockedConsecLosses, fmt.Sprintf("%d consecutive losses", day.ConsecLosses))
		return d
	}
	if c.Grade < p.MinGrade {
		d.add(BlockedMinGrade, fmt.Sprintf("grade %s below %s", c.Grade, p.MinGrade))
		return d
	}
	if day.PnL <= -p.SoftStopLossINR && !(c.Grade == trade.GradeAPlus && c.Regime == regime.Trend) {
		d.add(BlockedSoftStop, fmt.Sprintf("day pnl %.2f past soft stop; %s/%s not allowed", day.PnL, c.Grade, c.Regime))
		return d
	}
	if st.MaxDrawdownR <= -p.DrawdownAPlusOnlyR && c.Grade != trade.GradeAPlus {
		d.add(BlockedDrawdownAOnly, fmt.Sprintf("drawdown %.2fR: A+ only", st.MaxDrawdownR))
		return d
	}
	return d
}
