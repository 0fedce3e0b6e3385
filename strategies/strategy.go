// Package strategies turns candles plus the day's regime into trade
// candidates. Detectors are pure: they read their input and either return a
// candidate or abstain.
package strategies

import (
	"fmt"
	"sort"
	"time"

	"github.com/rustyeddy/intraday/costs"
	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/trade"
)

// Mode selects how a detector walks the day.
type Mode int

const (
	// Live evaluates the session up to Input.AsOf.
	Live Mode = iota
	// Backtest evaluates the whole entry window of a finished day.
	Backtest
)

func (m Mode) String() string {
	if m == Backtest {
		return "backtest"
	}
	return "live"
}

// Input is everything a detector may look at for one symbol.
type Input struct {
	Symbol  string
	Sector  string
	Candles []market.Candle

	Day    time.Time
	AsOf   time.Time // live cutoff; zero means the whole session
	Mode   Mode
	Regime regime.Result

	RiskBudget float64

	// Benchmark candles for the same session, used by alignment filters.
	Benchmark []market.Candle
}

// Detector produces at most one candidate per symbol per day context.
type Detector interface {
	Name() trade.Strategy
	Active(r regime.Result) bool
	Detect(in Input) (trade.Candidate, bool)
}

// TimeExiter is implemented by detectors whose trades are closed before the
// session trade end.
type TimeExiter interface {
	TimeExit(day time.Time) time.Time
}

// Common holds settings shared by every detector.
type Common struct {
	Session     market.Session
	SlippageBPS float64
	Grades      trade.GradeThresholds
	MaxATRPct   float64 // volatility clamp; 0 disables
}

func DefaultCommon(sess market.Session) Common {
	return Common{
		Session:     sess,
		SlippageBPS: 10,
		Grades:      trade.DefaultGradeThresholds(),
		MaxATRPct:   4.0,
	}
}

// clamped reports whether ATR as % of price exceeds the ceiling.
func (c Common) clamped(atr, price float64) bool {
	if c.MaxATRPct <= 0 || price == 0 {
		return false
	}
	return atr/price*100 > c.MaxATRPct
}

// size applies entry slippage and floors the budget over the per-share risk.
func (c Common) size(side market.Side, entry, stop, budget float64) int64 {
	fill := costs.ApplySlippage(entry, side, c.SlippageBPS)
	if side == market.Buy && !(stop < fill) {
		return 0
	}
	if side == market.Sell && !(stop > fill) {
		return 0
	}
	return risk.Calculate(risk.Inputs{Budget: budget, EntryFill: fill, Stop: stop}).Units
}

var registry = make(map[trade.Strategy]Detector)

// Register makes a detector available by name. Registering the same name
// twice replaces the earlier detector.
func Register(d Detector) {
	registry[d.Name()] = d
}

func Get(name trade.Strategy) (Detector, error) {
	d, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return d, nil
}

// Registered returns registered detectors sorted by name.
func Registered() []Detector {
	out := make([]Detector, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Reset clears the registry.
func Reset() {
	registry = make(map[trade.Strategy]Detector)
}
