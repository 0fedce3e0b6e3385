package strategies

import (
	"time"

	"github.com/rustyeddy/intraday/market"
)

var (
	ist  = time.FixedZone("IST", 5*3600+1800)
	sess = market.Session{
		Location:   ist,
		RangeStart: market.MustClock("09:15"),
		RangeEnd:   market.MustClock("09:30"),
		EntryStart: market.MustClock("09:30"),
		EntryEnd:   market.MustClock("11:30"),
		TradeEnd:   market.MustClock("15:20"),
	}
	day = time.Date(2025, 1, 6, 0, 0, 0, 0, ist)
)

func slot(i int) time.Time {
	return sess.At(day, sess.RangeStart).Add(time.Duration(i) * 5 * time.Minute).UTC()
}

func noSlip() Common {
	c := DefaultCommon(sess)
	c.SlippageBPS = 0
	return c
}

// orbLongDay has an opening range of 98.5-99.5, a true range of exactly 1.0
// on every bar and a breakout close at 100 on triple volume at index 14.
func orbLongDay() []market.Candle {
	var bars []market.Candle
	for i := 0; i < 14; i++ {
		bars = append(bars, market.Candle{Time: slot(i), Open: 99, High: 99.5, Low: 98.5, Close: 99, Volume: 100})
	}
	bars = append(bars, market.Candle{Time: slot(14), Open: 99.2, High: 100, Low: 99, Close: 100, Volume: 300})
	for i := 15; i < 21; i++ {
		bars = append(bars, market.Candle{Time: slot(i), Open: 100, High: 100.4, Low: 99.6, Close: 100, Volume: 100})
	}
	return bars
}

// orbShortDay mirrors orbLongDay with a breakdown close at 98.
func orbShortDay() []market.Candle {
	bars := orbLongDay()
	bars[14] = market.Candle{Time: slot(14), Open: 98.8, High: 99, Low: 98, Close: 98, Volume: 300}
	for i := 15; i < len(bars); i++ {
		bars[i] = market.Candle{Time: slot(i), Open: 98, High: 98.4, Low: 97.6, Close: 98, Volume: 100}
	}
	return bars
}

// mrDay trades flat at 100 for 20 bars and then drops two points in two bars.
func mrDay() []market.Candle {
	var bars []market.Candle
	for i := 0; i < 20; i++ {
		bars = append(bars, market.Candle{Time: slot(i), Open: 100, High: 100.5, Low: 99.5, Close: 100, Volume: 100})
	}
	bars = append(bars,
		market.Candle{Time: slot(20), Open: 100, High: 100, Low: 99, Close: 99, Volume: 100},
		market.Candle{Time: slot(21), Open: 99, High: 99, Low: 98, Close: 98, Volume: 100},
	)
	return bars
}

func daily(closes ...float64) []market.Candle {
	start := time.Date(2024, 10, 1, 10, 0, 0, 0, time.UTC)
	out := make([]market.Candle, len(closes))
	for i, c := range closes {
		out[i] = market.Candle{Time: start.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 1000}
	}
	return out
}
