package risk

import (
	"math"

	"github.com/rustyeddy/intraday/regime"
)

// Inputs size a position so that a stop-out loses about Budget.
type Inputs struct {
	Budget    float64 // currency at risk
	EntryFill float64 // slippage-adjusted entry
	Stop      float64
}

type Result struct {
	Units        int64
	PerShareRisk float64
	RiskAmount   float64
}

// Calculate returns floor(Budget / |EntryFill - Stop|) units. Units is zero
// when the per-share risk or the budget is not positive.
func Calculate(in Inputs) Result {
	per := abs(in.EntryFill - in.Stop)
	res := Result{PerShareRisk: per}
	if per <= 0 || in.Budget <= 0 || math.IsNaN(per) || math.IsInf(per, 0) {
		return res
	}
	res.Units = int64(math.Floor(in.Budget / per))
	res.RiskAmount = float64(res.Units) * per
	return res
}

// Sizing scales the per-trade risk budget by the day's regime.
type Sizing struct {
	RPerTrade float64
	ByRegime  map[regime.Regime]float64
}

func DefaultSizing() Sizing {
	return Sizing{
		RPerTrade: 125,
		ByRegime:  map[regime.Regime]float64{regime.Trend: 1.0, regime.Range: 0.7},
	}
}

// Budget returns RPerTrade times the regime multiplier, defaulting to 1.0.
func (s Sizing) Budget(r regime.Regime) float64 {
	m, ok := s.ByRegime[r]
	if !ok {
		m = 1.0
	}
	return s.RPerTrade * m
}
