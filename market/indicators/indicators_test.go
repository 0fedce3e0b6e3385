package indicators

import (
	"math"
	"testing"
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 1, 2, 3, 45, 0, 0, time.UTC)

func candles(ohlcv ...[5]float64) []market.Candle {
	out := make([]market.Candle, len(ohlcv))
	for i, v := range ohlcv {
		out[i] = market.Candle{
			Time: t0.Add(time.Duration(i) * 5 * time.Minute),
			Open: v[0], High: v[1], Low: v[2], Close: v[3], Volume: v[4],
		}
	}
	return out
}

func closes(xs ...float64) []market.Candle {
	out := make([]market.Candle, len(xs))
	for i, x := range xs {
		out[i] = market.Candle{Time: t0.Add(time.Duration(i) * time.Minute), Open: x, High: x, Low: x, Close: x, Volume: 1}
	}
	return out
}

func TestATR_SimpleRollingMean(t *testing.T) {
	cs := candles(
		[5]float64{10, 11, 9, 10, 1},  // TR 2 (first bar: high-low)
		[5]float64{10, 12, 10, 11, 1}, // TR max(2, 2, 0) = 2
		[5]float64{11, 11, 8, 9, 1},   // TR max(3, 0, 3) = 3
		[5]float64{9, 14, 9, 13, 1},   // TR max(5, 5, 0) = 5
	)
	atr := ATRSeries(cs, 3)

	require.Len(t, atr, 4)
	assert.True(t, math.IsNaN(atr[0]))
	assert.True(t, math.IsNaN(atr[1]))
	assert.InDelta(t, 7.0/3.0, atr[2], 1e-12)
	assert.InDelta(t, 10.0/3.0, atr[3], 1e-12)
}

func TestVWAP_Cumulative(t *testing.T) {
	cs := candles(
		[5]float64{10, 12, 9, 12, 100},  // tp 11
		[5]float64{12, 15, 12, 15, 300}, // tp 14
	)
	v := VWAPSeries(cs)
	assert.InDelta(t, 11.0, v[0], 1e-12)
	assert.InDelta(t, (11.0*100+14.0*300)/400.0, v[1], 1e-12)
}

func TestVWAP_ZeroVolumeIsNaN(t *testing.T) {
	cs := candles([5]float64{10, 12, 9, 12, 0})
	assert.True(t, math.IsNaN(VWAPSeries(cs)[0]))
}

func TestEMA_KnownSequence(t *testing.T) {
	// alpha = 0.5: 10, 10.5, 11.25, 12.125
	e := EMASeries(closes(10, 11, 12, 13), 3)
	assert.InDelta(t, 10.0, e[0], 1e-12)
	assert.InDelta(t, 10.5, e[1], 1e-12)
	assert.InDelta(t, 11.25, e[2], 1e-12)
	assert.InDelta(t, 12.125, e[3], 1e-12)
}

func TestEMA_Reset(t *testing.T) {
	ema := NewEMA(3)
	for _, c := range closes(10, 11) {
		ema.Update(c)
	}
	ema.Reset()
	assert.False(t, ema.Ready())
	assert.True(t, math.IsNaN(ema.Value()))

	ema.Update(closes(20)[0])
	assert.Equal(t, 20.0, ema.Value())
}

func TestRSI(t *testing.T) {
	// diffs: 0(first), +1, -1, +2 ; period 3
	r := RSISeries(closes(10, 11, 10, 12), 3)
	assert.True(t, math.IsNaN(r[0]))
	assert.True(t, math.IsNaN(r[1]))

	// window [0,+1,-1]: gain 1/3, loss 1/3 => 50
	assert.InDelta(t, 50.0, r[2], 1e-9)
	// window [+1,-1,+2]: gain 1, loss 1/3 => rs 3 => 75
	assert.InDelta(t, 75.0, r[3], 1e-9)
}

func TestRSI_NoLossesIsUndefined(t *testing.T) {
	r := RSISeries(closes(1, 2, 3, 4, 5), 3)
	for _, v := range r {
		assert.True(t, math.IsNaN(v))
	}
}

func TestRollingMeanVolume(t *testing.T) {
	cs := candles(
		[5]float64{1, 1, 1, 1, 10},
		[5]float64{1, 1, 1, 1, 20},
		[5]float64{1, 1, 1, 1, 30},
	)
	m := RollingMeanVolume(cs, 2)
	assert.True(t, math.IsNaN(m[0]))
	assert.InDelta(t, 15.0, m[1], 1e-12)
	assert.InDelta(t, 25.0, m[2], 1e-12)
}

func TestOpeningRange(t *testing.T) {
	cs := candles(
		[5]float64{100, 101, 99.5, 100.5, 1},
		[5]float64{100.5, 101.5, 100, 101, 1},
		[5]float64{101, 103, 100.8, 102, 1}, // outside the window
	)

	or, ok := ComputeOpeningRange(cs, t0, t0.Add(10*time.Minute))
	require.True(t, ok)
	assert.Equal(t, 101.5, or.High)
	assert.Equal(t, 99.5, or.Low)
	assert.Equal(t, 2.0, or.Size())

	_, ok = ComputeOpeningRange(cs, t0.Add(time.Hour), t0.Add(2*time.Hour))
	assert.False(t, ok)
}

func TestIndicatorInterface(t *testing.T) {
	inds := []Indicator{NewATR(14), NewEMA(20), NewRSI(14), NewSMA(10, Volume), NewVWAP()}
	names := []string{"ATR(14)", "EMA(20)", "RSI(14)", "SMA(10)", "VWAP"}
	for i, ind := range inds {
		assert.Equal(t, names[i], ind.Name())
		assert.False(t, ind.Ready())
		assert.True(t, math.IsNaN(ind.Value()))
	}
}

func TestAt(t *testing.T) {
	xs := []float64{1, 2}
	assert.Equal(t, 2.0, At(xs, 1))
	assert.True(t, math.IsNaN(At(xs, 2)))
	assert.False(t, Valid(math.NaN()))
	assert.True(t, Valid(0))
}
