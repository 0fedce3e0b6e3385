package sim

import (
	"time"

	"github.com/rustyeddy/intraday/trade"
)

type ExitReason string

const (
	StopHit   ExitReason = "stop_hit"
	TargetHit ExitReason = "target_hit"
	TimeExit  ExitReason = "time_exit"
)

// Trade is a candidate with its simulated, cost-adjusted outcome.
type Trade struct {
	trade.Candidate

	EntryFill  float64    `json:"entry_fill"`
	ExitPrice  float64    `json:"exit_price"`
	ExitFill   float64    `json:"exit_fill"`
	ExitTime   time.Time  `json:"exit_ts"`
	ExitReason ExitReason `json:"exit_reason"`

	Charges float64 `json:"charges_inr"`
	PnL     float64 `json:"pnl_inr"`
	R       float64 `json:"outcome_r"`
}

// Win reports a strictly positive net outcome.
func (t Trade) Win() bool { return t.PnL > 0 }
