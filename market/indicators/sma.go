package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/intraday/market"
)

// SMA is a simple rolling mean of a candle source.
type SMA struct {
	period int
	src    Source
	win    *window
	name   string
}

func NewSMA(period int, src Source) *SMA {
	if period <= 0 {
		panic("SMA period must be > 0")
	}
	if src == nil {
		src = Close
	}
	return &SMA{
		period: period,
		src:    src,
		win:    newWindow(period),
		name:   fmt.Sprintf("SMA(%d)", period),
	}
}

func (m *SMA) Name() string { return m.name }
func (m *SMA) Warmup() int  { return m.period }
func (m *SMA) Reset()       { m.win.reset() }
func (m *SMA) Ready() bool  { return m.win.full() }

func (m *SMA) Update(c market.Candle) { m.win.push(m.src(c)) }

func (m *SMA) Value() float64 {
	if !m.Ready() {
		return math.NaN()
	}
	return m.win.mean()
}

// RollingMeanVolume is the period-bar rolling mean of volume.
func RollingMeanVolume(candles []market.Candle, period int) []float64 {
	return Series(NewSMA(period, Volume), candles)
}
