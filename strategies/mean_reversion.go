package strategies

import (
	"math"
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/market/indicators"
	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/trade"
)

type MeanReversionParams struct {
	RSIPeriod       int
	RSIOverbought   float64
	RSIOversold     float64
	VWAPATRDistance float64
	TargetR         float64
	StopATRMult     float64
	ATRPeriod       int
	MinBars         int

	// Backtest scan window. Open trades are closed at TimeExit.
	EntryStart market.Clock
	EntryEnd   market.Clock
	TimeExit   market.Clock
}

func DefaultMeanReversionParams() MeanReversionParams {
	return MeanReversionParams{
		RSIPeriod:       14,
		RSIOverbought:   70,
		RSIOversold:     30,
		VWAPATRDistance: 1.2,
		TargetR:         1.2,
		StopATRMult:     0.8,
		ATRPeriod:       14,
		MinBars:         20,
		EntryStart:      market.Clock{Hour: 9, Minute: 30},
		EntryEnd:        market.Clock{Hour: 15, Minute: 0},
		TimeExit:        market.Clock{Hour: 15, Minute: 0},
	}
}

// MeanReversion fades closes stretched away from VWAP with RSI confirmation.
type MeanReversion struct {
	Common
	Params MeanReversionParams
}

func NewMeanReversion(c Common, p MeanReversionParams) *MeanReversion {
	return &MeanReversion{Common: c, Params: p}
}

func (m *MeanReversion) Name() trade.Strategy { return trade.MeanReversion }

func (m *MeanReversion) Active(r regime.Result) bool { return r.Regime == regime.Range }

// TimeExit falls back to the session trade end when unset.
func (m *MeanReversion) TimeExit(day time.Time) time.Time {
	if m.Params.TimeExit == (market.Clock{}) {
		return m.Session.Until(day, m.Session.TradeEnd)
	}
	return m.Session.At(day, m.Params.TimeExit)
}

// Detect checks only the latest bar at or before AsOf in live mode. In
// backtest mode it returns the first qualifying bar of the entry window.
func (m *MeanReversion) Detect(in Input) (trade.Candidate, bool) {
	p := m.Params
	bars, _ := market.Clean(m.Session.SameDay(in.Candles, in.Day))
	if len(bars) < p.MinBars {
		return trade.Candidate{}, false
	}

	atr := indicators.ATRSeries(bars, p.ATRPeriod)
	vwap := indicators.VWAPSeries(bars)
	rsi := indicators.RSISeries(bars, p.RSIPeriod)

	if in.Mode == Live {
		i := len(bars) - 1
		if !in.AsOf.IsZero() {
			i = market.IndexAtOrBefore(bars, in.AsOf)
		}
		if i < 0 {
			return trade.Candidate{}, false
		}
		return m.evaluate(in, bars[i], atr[i], vwap[i], rsi[i])
	}

	start := m.Session.At(in.Day, p.EntryStart)
	end := m.Session.Until(in.Day, p.EntryEnd)
	for i, bar := range bars {
		if bar.Time.Before(start) {
			continue
		}
		if bar.Time.After(end) {
			break
		}
		if c, ok := m.evaluate(in, bar, atr[i], vwap[i], rsi[i]); ok {
			return c, true
		}
	}
	return trade.Candidate{}, false
}

func (m *MeanReversion) evaluate(in Input, bar market.Candle, atr, vwap, rsi float64) (trade.Candidate, bool) {
	p := m.Params
	if !indicators.Valid(atr) || !indicators.Valid(vwap) || !indicators.Valid(rsi) || atr <= 0 {
		return trade.Candidate{}, false
	}
	if m.clamped(atr, bar.Close) {
		return trade.Candidate{}, false
	}

	dist := bar.Close - vwap
	var side market.Side
	switch {
	case dist >= p.VWAPATRDistance*atr && rsi >= p.RSIOverbought:
		side = market.Sell
	case dist <= -p.VWAPATRDistance*atr && rsi <= p.RSIOversold:
		side = market.Buy
	default:
		return trade.Candidate{}, false
	}

	entry := bar.Close
	stop := entry - side.Sign()*p.StopATRMult*atr
	qty := m.size(side, entry, stop, in.RiskBudget)
	if qty <= 0 {
		return trade.Candidate{}, false
	}

	score := math.Abs(dist) / atr
	return trade.Candidate{
		Symbol:     in.Symbol,
		Sector:     in.Sector,
		Strategy:   trade.MeanReversion,
		Side:       side,
		Entry:      entry,
		Stop:       stop,
		Target:     risk.TargetFromR(entry, stop, p.TargetR),
		Qty:        qty,
		RiskBudget: in.RiskBudget,
		Score:      score,
		Grade:      m.Grades.Grade(score),
		Regime:     in.Regime.Regime,
		TrendDir:   in.Regime.TrendDir,
		EntryTime:  bar.Time,
		Why: trade.Rationale{
			VWAPDistATR: score,
			RSI:         rsi,
		},
	}, true
}
