package strategies

import (
	"math"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/market/indicators"
	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/trade"
)

type SwingStyle string

const (
	SwingBreakout SwingStyle = "breakout"
	SwingPullback SwingStyle = "pullback"
)

type SwingParams struct {
	Style            SwingStyle
	BreakoutLookback int
	EMAFast          int
	EMASlow          int
	ATRMult          float64
	ATRPeriod        int
	TargetR          float64
}

func DefaultSwingParams() SwingParams {
	return SwingParams{
		Style:            SwingPullback,
		BreakoutLookback: 20,
		EMAFast:          20,
		EMASlow:          50,
		ATRMult:          2.0,
		ATRPeriod:        14,
		TargetR:          2.0,
	}
}

// Swing reads daily candles. Its candidates are informational and never go
// through the risk gate.
type Swing struct {
	Common
	Params SwingParams
}

func NewSwing(c Common, p SwingParams) *Swing {
	return &Swing{Common: c, Params: p}
}

func (s *Swing) Name() trade.Strategy { return trade.Swing }

// Active is true for every regime: daily signals do not depend on the
// intraday classification.
func (s *Swing) Active(regime.Result) bool { return true }

func (s *Swing) Detect(in Input) (trade.Candidate, bool) {
	bars, _ := market.Clean(in.Candles)
	if s.Params.Style == SwingBreakout {
		return s.breakout(in, bars)
	}
	return s.pullback(in, bars)
}

// breakout fires when the last close clears the high or low of the prior
// lookback bars.
func (s *Swing) breakout(in Input, bars []market.Candle) (trade.Candidate, bool) {
	lb := s.Params.BreakoutLookback
	if lb <= 0 || len(bars) < lb+2 {
		return trade.Candidate{}, false
	}
	last := bars[len(bars)-1]
	hi, lo := math.Inf(-1), math.Inf(1)
	for _, b := range bars[len(bars)-1-lb : len(bars)-1] {
		hi = math.Max(hi, b.High)
		lo = math.Min(lo, b.Low)
	}

	var side market.Side
	var level float64
	switch {
	case last.Close > hi:
		side, level = market.Buy, hi
	case last.Close < lo:
		side, level = market.Sell, lo
	default:
		return trade.Candidate{}, false
	}

	atr := indicators.ATRSeries(bars, s.Params.ATRPeriod)
	return s.build(in, side, last, atr[len(atr)-1], math.Abs(last.Close-level), "breakout")
}

// pullback fires when price crosses back through the fast EMA in the
// direction of the fast/slow EMA trend.
func (s *Swing) pullback(in Input, bars []market.Candle) (trade.Candidate, bool) {
	p := s.Params
	if len(bars) < p.EMASlow+2 {
		return trade.Candidate{}, false
	}
	fast := indicators.EMASeries(bars, p.EMAFast)
	slow := indicators.EMASeries(bars, p.EMASlow)

	n := len(bars) - 1
	last, prev := bars[n], bars[n-1]

	var side market.Side
	switch {
	case fast[n] > slow[n] && prev.Close <= fast[n-1] && last.Close > fast[n]:
		side = market.Buy
	case fast[n] < slow[n] && prev.Close >= fast[n-1] && last.Close < fast[n]:
		side = market.Sell
	default:
		return trade.Candidate{}, false
	}

	atr := indicators.ATRSeries(bars, p.ATRPeriod)
	return s.build(in, side, last, atr[n], math.Abs(last.Close-fast[n]), "pullback")
}

func (s *Swing) build(in Input, side market.Side, last market.Candle, atr, stretch float64, reason string) (trade.Candidate, bool) {
	if !indicators.Valid(atr) || atr <= 0 {
		return trade.Candidate{}, false
	}
	entry := last.Close
	stop := entry - side.Sign()*s.Params.ATRMult*atr

	qty := s.size(side, entry, stop, in.RiskBudget)
	if qty < 1 {
		return trade.Candidate{}, false
	}

	score := stretch / atr
	return trade.Candidate{
		Symbol:     in.Symbol,
		Sector:     in.Sector,
		Strategy:   trade.Swing,
		Side:       side,
		Entry:      entry,
		Stop:       stop,
		Target:     risk.TargetFromR(entry, stop, s.Params.TargetR),
		Qty:        qty,
		RiskBudget: in.RiskBudget,
		Score:      score,
		Grade:      s.Grades.Grade(score),
		Regime:     in.Regime.Regime,
		TrendDir:   in.Regime.TrendDir,
		EntryTime:  last.Time,
		Why:        trade.Rationale{Reason: reason},
	}, true
}
