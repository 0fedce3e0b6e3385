package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/intraday/market"
)

// ATR is the simple rolling mean of true range over period candles.
// The first candle's true range is its high-low span.
type ATR struct {
	period    int
	win       *window
	prevClose float64
	hasPrev   bool
	name      string
}

func NewATR(period int) *ATR {
	if period <= 0 {
		panic("ATR period must be > 0")
	}
	return &ATR{
		period: period,
		win:    newWindow(period),
		name:   fmt.Sprintf("ATR(%d)", period),
	}
}

func (a *ATR) Name() string { return a.name }
func (a *ATR) Warmup() int  { return a.period }
func (a *ATR) Ready() bool  { return a.win.full() }

func (a *ATR) Reset() {
	a.win.reset()
	a.prevClose = 0
	a.hasPrev = false
}

func (a *ATR) Update(c market.Candle) {
	a.win.push(TrueRange(c, a.prevClose, a.hasPrev))
	a.prevClose = c.Close
	a.hasPrev = true
}

func (a *ATR) Value() float64 {
	if !a.Ready() {
		return math.NaN()
	}
	return a.win.mean()
}

// TrueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(c market.Candle, prevClose float64, hasPrev bool) float64 {
	tr := c.High - c.Low
	if !hasPrev {
		return tr
	}
	return math.Max(tr, math.Max(math.Abs(c.High-prevClose), math.Abs(c.Low-prevClose)))
}

// ATRSeries returns ATR(period) aligned with candles.
func ATRSeries(candles []market.Candle, period int) []float64 {
	return Series(NewATR(period), candles)
}
