package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/intraday/market"
)

// EMA is an exponential moving average with alpha = 2/(period+1),
// seeded with the first value and without bias adjustment.
type EMA struct {
	n     int
	alpha float64
	src   Source

	seen  int
	value float64

	name string
}

func NewEMA(period int) *EMA {
	if period <= 0 {
		panic("EMA period must be > 0")
	}
	return &EMA{
		n:     period,
		alpha: 2.0 / float64(period+1),
		src:   Close,
		name:  fmt.Sprintf("EMA(%d)", period),
	}
}

func (e *EMA) Name() string { return e.name }
func (e *EMA) Warmup() int  { return 1 }

// Ready is true from the first update: the seeded average is usable at once.
func (e *EMA) Ready() bool { return e.seen > 0 }

func (e *EMA) Reset() {
	e.seen = 0
	e.value = 0
}

func (e *EMA) Update(c market.Candle) {
	x := e.src(c)
	e.seen++
	if e.seen == 1 {
		e.value = x
		return
	}
	e.value = e.alpha*x + (1.0-e.alpha)*e.value
}

func (e *EMA) Value() float64 {
	if !e.Ready() {
		return math.NaN()
	}
	return e.value
}

// EMASeries returns EMA(period) of closes aligned with candles.
func EMASeries(candles []market.Candle, period int) []float64 {
	return Series(NewEMA(period), candles)
}
