package indicators

import (
	"time"

	"github.com/rustyeddy/intraday/market"
)

// OpeningRange holds the high and low of the opening window.
type OpeningRange struct {
	High float64
	Low  float64
}

// Size is High - Low.
func (o OpeningRange) Size() float64 { return o.High - o.Low }

// ComputeOpeningRange returns the high/low of candles with start <= t < end.
// ok is false when no candle falls inside the window.
func ComputeOpeningRange(candles []market.Candle, start, end time.Time) (OpeningRange, bool) {
	var (
		or    OpeningRange
		found bool
	)
	for _, c := range candles {
		if c.Time.Before(start) || !c.Time.Before(end) {
			continue
		}
		if !found {
			or = OpeningRange{High: c.High, Low: c.Low}
			found = true
			continue
		}
		if c.High > or.High {
			or.High = c.High
		}
		if c.Low < or.Low {
			or.Low = c.Low
		}
	}
	return or, found
}
