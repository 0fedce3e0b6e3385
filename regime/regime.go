// Package regime labels a trading day as trend or range from the benchmark
// index's opening session.
package regime

import (
	"fmt"
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/market/indicators"
)

type Regime string

const (
	Trend Regime = "trend"
	Range Regime = "range"
)

type Direction string

const (
	Bull Direction = "bull"
	Bear Direction = "bear"
	Flat Direction = "flat"
)

// Diagnostic keys.
const (
	ORRangePct  = "or_range_pct"
	ORATRRatio  = "or_atr_ratio"
	RVol        = "rvol"
	SigORExpand = "sig_or_expanding"
	SigRVol     = "sig_rvol"
	SigTrend    = "sig_trend"
)

// Result is the day's classification. Diagnostics holds the numeric signals,
// with booleans encoded as 0 or 1. Note explains a defaulted result.
type Result struct {
	Regime      Regime             `json:"regime"`
	TrendDir    Direction          `json:"trend_dir"`
	Diagnostics map[string]float64 `json:"diagnostics,omitempty"`
	Note        string             `json:"note,omitempty"`
}

func (r Result) String() string {
	if r.Note != "" {
		return fmt.Sprintf("%s/%s (%s)", r.Regime, r.TrendDir, r.Note)
	}
	return fmt.Sprintf("%s/%s", r.Regime, r.TrendDir)
}

type Params struct {
	MinORRangePct float64 // opening range as % of price
	MinORtoATR    float64
	RVolMult      float64
	ATRPeriod     int
	VolPeriod     int
	MinBars       int
}

func DefaultParams() Params {
	return Params{
		MinORRangePct: 0.18,
		MinORtoATR:    0.8,
		RVolMult:      1.2,
		ATRPeriod:     14,
		VolPeriod:     10,
		MinBars:       10,
	}
}

func fallback(note string) Result {
	return Result{Regime: Range, TrendDir: Flat, Note: note}
}

// Classify evaluates three signals on the first bar at or after the opening
// range end and calls the day a trend when at least two hold. Missing data
// yields range/flat with a note.
func Classify(sess market.Session, day time.Time, bench []market.Candle, p Params) Result {
	bars, _ := market.Clean(sess.SameDay(bench, day))
	if len(bars) < p.MinBars {
		return fallback("benchmark_data_missing")
	}

	orStart, orEnd := sess.OpeningRange(day)
	or, ok := indicators.ComputeOpeningRange(bars, orStart, orEnd)
	if !ok {
		return fallback("no_opening_range")
	}

	i := market.IndexAtOrAfter(bars, orEnd)
	if i < 0 {
		return fallback("no_post_or")
	}

	atr := indicators.ATRSeries(bars, p.ATRPeriod)
	vwap := indicators.VWAPSeries(bars)
	volAvg := indicators.RollingMeanVolume(bars, p.VolPeriod)

	bar := bars[i]
	closeNow := bar.Close
	vwapNow := vwap[i]
	if !indicators.Valid(vwapNow) {
		vwapNow = closeNow
	}
	atrNow := atr[i]
	if !indicators.Valid(atrNow) {
		atrNow = 0
	}
	avgVol := volAvg[i]
	if !indicators.Valid(avgVol) {
		avgVol = 0
	}

	orSize := or.Size()
	var orPct float64
	if closeNow != 0 {
		orPct = orSize / closeNow * 100
	}

	if atrNow <= 0 && orSize > 0 {
		atrNow = orSize
	}
	if avgVol <= 0 {
		avgVol = meanVolumeThrough(bars, orEnd)
	}

	var orATR float64
	if atrNow > 0 {
		orATR = orSize / atrNow
	}

	dir := Flat
	switch {
	case closeNow > vwapNow:
		dir = Bull
	case closeNow < vwapNow:
		dir = Bear
	}

	sigExpand := orPct >= p.MinORRangePct && orATR >= p.MinORtoATR
	sigRVol := avgVol > 0 && bar.Volume >= p.RVolMult*avgVol
	sigTrend := dir != Flat

	var rvol float64
	if avgVol > 0 {
		rvol = bar.Volume / avgVol
	}

	res := Result{
		Regime:   Range,
		TrendDir: dir,
		Diagnostics: map[string]float64{
			ORRangePct:  orPct,
			ORATRRatio:  orATR,
			RVol:        rvol,
			SigORExpand: b2f(sigExpand),
			SigRVol:     b2f(sigRVol),
			SigTrend:    b2f(sigTrend),
		},
	}
	if count(sigExpand, sigRVol, sigTrend) >= 2 {
		res.Regime = Trend
	}
	return res
}

// meanVolumeThrough averages the volume of bars with Time <= end.
func meanVolumeThrough(bars []market.Candle, end time.Time) float64 {
	var sum float64
	var n int
	for _, b := range bars {
		if b.Time.After(end) {
			break
		}
		sum += b.Volume
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func count(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
