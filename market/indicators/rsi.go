package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/intraday/market"
)

// RSI uses simple rolling means of gains and losses. The first candle
// contributes a zero gain and zero loss. The value is undefined (NaN) when
// the average loss over the window is zero.
type RSI struct {
	period    int
	gains     *window
	losses    *window
	prevClose float64
	hasPrev   bool
	name      string
}

func NewRSI(period int) *RSI {
	if period <= 0 {
		panic("RSI period must be > 0")
	}
	return &RSI{
		period: period,
		gains:  newWindow(period),
		losses: newWindow(period),
		name:   fmt.Sprintf("RSI(%d)", period),
	}
}

func (r *RSI) Name() string { return r.name }
func (r *RSI) Warmup() int  { return r.period }

func (r *RSI) Ready() bool {
	return r.gains.full() && r.losses.mean() != 0
}

func (r *RSI) Reset() {
	r.gains.reset()
	r.losses.reset()
	r.prevClose = 0
	r.hasPrev = false
}

func (r *RSI) Update(c market.Candle) {
	var gain, loss float64
	if r.hasPrev {
		d := c.Close - r.prevClose
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
	}
	r.gains.push(gain)
	r.losses.push(loss)
	r.prevClose = c.Close
	r.hasPrev = true
}

func (r *RSI) Value() float64 {
	if !r.Ready() {
		return math.NaN()
	}
	rs := r.gains.mean() / r.losses.mean()
	return 100 - 100/(1+rs)
}

// RSISeries returns RSI(period) of closes aligned with candles.
func RSISeries(candles []market.Candle, period int) []float64 {
	return Series(NewRSI(period), candles)
}
