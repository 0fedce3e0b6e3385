package indicators

import (
	"math"

	"github.com/rustyeddy/intraday/market"
)

// VWAP is the cumulative typical-price volume-weighted average price since
// the first update.
type VWAP struct {
	pv  float64
	vol float64
	n   int
}

func NewVWAP() *VWAP { return &VWAP{} }

func (v *VWAP) Name() string { return "VWAP" }
func (v *VWAP) Warmup() int  { return 1 }
func (v *VWAP) Ready() bool  { return v.vol > 0 }

func (v *VWAP) Reset() { v.pv, v.vol, v.n = 0, 0, 0 }

func (v *VWAP) Update(c market.Candle) {
	v.pv += c.TypicalPrice() * c.Volume
	v.vol += c.Volume
	v.n++
}

func (v *VWAP) Value() float64 {
	if !v.Ready() {
		return math.NaN()
	}
	return v.pv / v.vol
}

// VWAPSeries returns the cumulative VWAP aligned with candles.
func VWAPSeries(candles []market.Candle) []float64 {
	return Series(NewVWAP(), candles)
}
