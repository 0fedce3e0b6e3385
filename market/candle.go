package market

import (
	"math"
	"time"
)

// Candle is one OHLCV bar. Time is the bar's open instant in UTC.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Valid reports whether the candle has finite, positive prices, a consistent
// high/low envelope and a non-negative volume.
func (c Candle) Valid() bool {
	for _, v := range []float64{c.Open, c.High, c.Low, c.Close, c.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	if c.Time.IsZero() || c.Volume < 0 {
		return false
	}
	if c.Open <= 0 || c.High <= 0 || c.Low <= 0 || c.Close <= 0 {
		return false
	}
	return c.High >= c.Low
}

// TypicalPrice is (high + low + close) / 3.
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3.0
}

// Closes extracts close prices.
func Closes(cs []Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Close
	}
	return out
}

// Volumes extracts volumes.
func Volumes(cs []Candle) []float64 {
	out := make([]float64, len(cs))
	for i, c := range cs {
		out[i] = c.Volume
	}
	return out
}

// IndexAtOrAfter returns the index of the first candle with Time >= t, or -1.
func IndexAtOrAfter(cs []Candle, t time.Time) int {
	for i, c := range cs {
		if !c.Time.Before(t) {
			return i
		}
	}
	return -1
}

// IndexAtOrBefore returns the index of the last candle with Time <= t, or -1.
func IndexAtOrBefore(cs []Candle, t time.Time) int {
	idx := -1
	for i, c := range cs {
		if c.Time.After(t) {
			break
		}
		idx = i
	}
	return idx
}
