// Package indicators computes technical indicators over ordered candles.
//
// Every indicator is available in streaming form (Update one closed candle at
// a time) and as a series aligned index-for-index with the input, holding NaN
// where the indicator has not warmed up yet.
package indicators

import (
	"math"

	"github.com/rustyeddy/intraday/market"
)

// Indicator computes a single streaming value from candles.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)" or "RSI(14)".
	Name() string

	// Warmup returns how many updates are needed before Ready() can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next closed candle.
	Update(c market.Candle)

	// Ready reports whether Value() is meaningful.
	Ready() bool

	// Value returns the current value, NaN while not ready.
	Value() float64
}

// Source picks the input value of a candle.
type Source func(market.Candle) float64

func Close(c market.Candle) float64  { return c.Close }
func Volume(c market.Candle) float64 { return c.Volume }

// Series runs ind over candles from a fresh state.
func Series(ind Indicator, candles []market.Candle) []float64 {
	ind.Reset()
	out := make([]float64, len(candles))
	for i, c := range candles {
		ind.Update(c)
		if ind.Ready() {
			out[i] = ind.Value()
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// Valid reports whether v is a usable indicator value.
func Valid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// At returns xs[i], or NaN when i is out of range.
func At(xs []float64, i int) float64 {
	if i < 0 || i >= len(xs) {
		return math.NaN()
	}
	return xs[i]
}

// window is a fixed-size ring of the most recent values. The mean is summed
// afresh each time so values leaving the window leave no rounding residue.
type window struct {
	buf  []float64
	next int
	n    int
}

func newWindow(size int) *window {
	return &window{buf: make([]float64, size)}
}

func (w *window) push(v float64) {
	if w.n < len(w.buf) {
		w.n++
	}
	w.buf[w.next] = v
	w.next = (w.next + 1) % len(w.buf)
}

func (w *window) full() bool { return w.n == len(w.buf) }

func (w *window) mean() float64 {
	if w.n == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range w.buf {
		sum += v
	}
	return sum / float64(w.n)
}

func (w *window) reset() {
	for i := range w.buf {
		w.buf[i] = 0
	}
	w.next, w.n = 0, 0
}
