// Package trade holds the trade candidate produced by signal detectors and
// consumed by the simulator and the risk gate.
package trade

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/regime"
)

type Strategy string

const (
	ORB           Strategy = "ORB"
	MeanReversion Strategy = "MEAN_REVERSION"
	Swing         Strategy = "SWING"
)

// Rationale carries the numbers quoted in an approval message.
type Rationale struct {
	BreakoutDistPct float64 `json:"breakout_dist_pct,omitempty"`
	VolStrength     float64 `json:"vol_strength,omitempty"`
	VWAPDistATR     float64 `json:"vwap_dist_atr,omitempty"`
	RSI             float64 `json:"rsi,omitempty"`
	Reason          string  `json:"reason,omitempty"`
}

// Candidate is a proposed trade. It is a value: detectors build a new one
// rather than changing an existing one.
type Candidate struct {
	Symbol     string           `json:"symbol"`
	Sector     string           `json:"sector,omitempty"`
	Strategy   Strategy         `json:"strategy"`
	Side       market.Side      `json:"side"`
	Entry      float64          `json:"entry"`
	Stop       float64          `json:"stop"`
	Target     float64          `json:"target"`
	Qty        int64            `json:"qty"`
	RiskBudget float64          `json:"r_inr"`
	Score      float64          `json:"score"`
	Grade      Grade            `json:"grade"`
	Regime     regime.Regime    `json:"regime"`
	TrendDir   regime.Direction `json:"trend_dir"`
	EntryTime  time.Time        `json:"entry_ts"`
	Why        Rationale        `json:"why"`
}

// RiskPerShare is |entry - stop| on the signal price.
func (c Candidate) RiskPerShare() float64 {
	return math.Abs(c.Entry - c.Stop)
}

// RR is reward over risk measured from the signal entry.
func (c Candidate) RR() float64 {
	r := c.RiskPerShare()
	if r == 0 {
		return 0
	}
	return math.Abs(c.Target-c.Entry) / r
}

// Validate checks the structural invariants every emitted candidate holds.
func (c Candidate) Validate() error {
	if c.Qty <= 0 {
		return fmt.Errorf("%s: qty %d must be positive", c.Symbol, c.Qty)
	}
	switch c.Side {
	case market.Buy:
		if !(c.Stop < c.Entry) {
			return fmt.Errorf("%s: long stop %.4f not below entry %.4f", c.Symbol, c.Stop, c.Entry)
		}
	case market.Sell:
		if !(c.Stop > c.Entry) {
			return fmt.Errorf("%s: short stop %.4f not above entry %.4f", c.Symbol, c.Stop, c.Entry)
		}
	default:
		return fmt.Errorf("%s: unknown side", c.Symbol)
	}
	return nil
}

// DisplaySymbol strips the exchange prefix and series suffix: NSE:TCS-EQ -> TCS.
func DisplaySymbol(sym string) string {
	sym = strings.ReplaceAll(sym, "NSE:", "")
	return strings.ReplaceAll(sym, "-EQ", "")
}
