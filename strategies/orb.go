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

type ORBParams struct {
	VolumeMultiplier float64
	TargetR          float64
	StopATRMult      float64

	MinORRangePct float64
	MaxORRangePct float64 // 0 disables
	MinORtoATR    float64
	MaxORtoATR    float64 // 0 disables

	AllowLong  bool
	AllowShort bool

	// RequireBenchmarkVWAP only takes longs while the benchmark trades at or
	// above its VWAP, and shorts at or below.
	RequireBenchmarkVWAP bool

	ATRPeriod int
	VolPeriod int
	MinBars   int
}

func DefaultORBParams() ORBParams {
	return ORBParams{
		VolumeMultiplier: 1.2,
		TargetR:          1.5,
		StopATRMult:      0.5,
		MinORRangePct:    0.18,
		MinORtoATR:       0.8,
		AllowLong:        true,
		AllowShort:       true,
		ATRPeriod:        14,
		VolPeriod:        10,
		MinBars:          20,
	}
}

// ORB trades a close beyond the opening range on expanded volume.
type ORB struct {
	Common
	Params ORBParams
}

func NewORB(c Common, p ORBParams) *ORB {
	return &ORB{Common: c, Params: p}
}

func (o *ORB) Name() trade.Strategy { return trade.ORB }

func (o *ORB) Active(r regime.Result) bool { return r.Regime == regime.Trend }

// Detect scans long and short breakouts independently from the opening
// range close and returns the earlier of the two, the higher score on a tie.
// Within one direction, a first trigger whose stop or size is invalid ends
// that direction's scan without a candidate.
func (o *ORB) Detect(in Input) (trade.Candidate, bool) {
	p := o.Params
	bars, _ := market.Clean(o.Session.SameDay(in.Candles, in.Day))
	if len(bars) < p.MinBars {
		return trade.Candidate{}, false
	}

	allowLong := p.AllowLong && (in.Regime.TrendDir == regime.Bull || in.Regime.TrendDir == regime.Flat)
	allowShort := p.AllowShort && (in.Regime.TrendDir == regime.Bear || in.Regime.TrendDir == regime.Flat)
	if !allowLong && !allowShort {
		return trade.Candidate{}, false
	}

	orStart, orEnd := o.Session.OpeningRange(in.Day)
	or, ok := indicators.ComputeOpeningRange(bars, orStart, orEnd)
	if !ok {
		return trade.Candidate{}, false
	}

	sc := orbScan{
		in:     in,
		bars:   bars,
		or:     or,
		from:   market.IndexAtOrAfter(bars, orEnd),
		end:    o.scanEnd(in),
		atr:    indicators.ATRSeries(bars, p.ATRPeriod),
		volAvg: indicators.RollingMeanVolume(bars, p.VolPeriod),
	}
	if !o.rangeOK(bars, sc.atr, or, orEnd) {
		return trade.Candidate{}, false
	}
	if p.RequireBenchmarkVWAP {
		sc.bench, _ = market.Clean(o.Session.SameDay(in.Benchmark, in.Day))
		sc.benchClose = market.Closes(sc.bench)
		sc.benchVWAP = indicators.VWAPSeries(sc.bench)
	}

	var long, short trade.Candidate
	var okLong, okShort bool
	if allowLong {
		long, okLong = o.scan(sc, market.Buy)
	}
	if allowShort {
		short, okShort = o.scan(sc, market.Sell)
	}
	switch {
	case okLong && okShort:
		if short.EntryTime.Before(long.EntryTime) || (short.EntryTime.Equal(long.EntryTime) && short.Score > long.Score) {
			return short, true
		}
		return long, true
	case okLong:
		return long, true
	case okShort:
		return short, true
	}
	return trade.Candidate{}, false
}

type orbScan struct {
	in     Input
	bars   []market.Candle
	or     indicators.OpeningRange
	from   int
	end    time.Time
	atr    []float64
	volAvg []float64

	bench      []market.Candle
	benchClose []float64
	benchVWAP  []float64
}

// scan finds the first bar that breaks out on side and builds from it.
func (o *ORB) scan(sc orbScan, side market.Side) (trade.Candidate, bool) {
	p := o.Params
	for i := sc.from; i >= 0 && i < len(sc.bars); i++ {
		bar := sc.bars[i]
		if bar.Time.After(sc.end) {
			break
		}
		if !indicators.Valid(sc.atr[i]) || !indicators.Valid(sc.volAvg[i]) {
			continue
		}
		if o.clamped(sc.atr[i], bar.Close) {
			continue
		}
		if p.RequireBenchmarkVWAP {
			j := market.IndexAtOrBefore(sc.bench, bar.Time)
			if j < 0 || !indicators.Valid(sc.benchVWAP[j]) {
				continue
			}
			if side == market.Buy && sc.benchClose[j] < sc.benchVWAP[j] {
				continue
			}
			if side == market.Sell && sc.benchClose[j] > sc.benchVWAP[j] {
				continue
			}
		}
		if bar.Volume < p.VolumeMultiplier*sc.volAvg[i] {
			continue
		}
		if (side == market.Buy && bar.Close > sc.or.High) || (side == market.Sell && bar.Close < sc.or.Low) {
			return o.build(sc.in, side, bar, sc.or, sc.atr[i], sc.volAvg[i])
		}
	}
	return trade.Candidate{}, false
}

// rangeOK applies the opening range size bounds. Range percent is measured
// against the last close inside the range. The ATR ratio uses the first bar
// after it and is skipped while ATR is still unformed.
func (o *ORB) rangeOK(bars []market.Candle, atr []float64, or indicators.OpeningRange, orEnd time.Time) bool {
	p := o.Params
	size := or.Size()

	if k := market.IndexAtOrBefore(bars, orEnd); k >= 0 && bars[k].Close > 0 {
		pct := size / bars[k].Close * 100
		if p.MinORRangePct > 0 && pct < p.MinORRangePct {
			return false
		}
		if p.MaxORRangePct > 0 && pct > p.MaxORRangePct {
			return false
		}
	}

	if p.MinORtoATR <= 0 && p.MaxORtoATR <= 0 {
		return true
	}
	i := market.IndexAtOrAfter(bars, orEnd)
	if i < 0 {
		return false
	}
	a := atr[i]
	if !indicators.Valid(a) || a <= 0 {
		return true
	}
	ratio := size / a
	if p.MinORtoATR > 0 && ratio < p.MinORtoATR {
		return false
	}
	if p.MaxORtoATR > 0 && ratio > p.MaxORtoATR {
		return false
	}
	return true
}

func (o *ORB) scanEnd(in Input) time.Time {
	end := o.Session.Until(in.Day, o.Session.TradeEnd)
	if in.Mode == Live && !in.AsOf.IsZero() && in.AsOf.Before(end) {
		end = in.AsOf
	}
	return end
}

func (o *ORB) build(in Input, side market.Side, bar market.Candle, or indicators.OpeningRange, atr, volAvg float64) (trade.Candidate, bool) {
	p := o.Params
	if atr <= 0 {
		return trade.Candidate{}, false
	}

	entry := bar.Close
	var stop, dist float64
	if side == market.Buy {
		stop = or.High - p.StopATRMult*atr
		if !(stop < entry) {
			return trade.Candidate{}, false
		}
		dist = (entry - or.High) / entry
	} else {
		stop = or.Low + p.StopATRMult*atr
		if !(stop > entry) {
			return trade.Candidate{}, false
		}
		dist = (or.Low - entry) / entry
	}

	qty := o.size(side, entry, stop, in.RiskBudget)
	if qty <= 0 {
		return trade.Candidate{}, false
	}

	volStrength := bar.Volume / volAvg
	score := 50.0*dist + 10.0*math.Min(volStrength, 3.0)

	return trade.Candidate{
		Symbol:     in.Symbol,
		Sector:     in.Sector,
		Strategy:   trade.ORB,
		Side:       side,
		Entry:      entry,
		Stop:       stop,
		Target:     risk.TargetFromR(entry, stop, p.TargetR),
		Qty:        qty,
		RiskBudget: in.RiskBudget,
		Score:      score,
		Grade:      o.Grades.Grade(score),
		Regime:     in.Regime.Regime,
		TrendDir:   in.Regime.TrendDir,
		EntryTime:  bar.Time,
		Why: trade.Rationale{
			BreakoutDistPct: dist * 100,
			VolStrength:     volStrength,
		},
	}, true
}
