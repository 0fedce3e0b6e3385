package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/strategies"
)

// trendBenchmark opens 100 to 101 and prints triple volume after the range.
func trendBenchmark() []market.Candle {
	bars := []market.Candle{
		{Time: slotOn(monday, 0), Open: 100, High: 100.5, Low: 100, Close: 100.25, Volume: 100},
		{Time: slotOn(monday, 1), Open: 100.25, High: 100.75, Low: 100.25, Close: 100.5, Volume: 100},
		{Time: slotOn(monday, 2), Open: 100.5, High: 101, Low: 100.5, Close: 100.75, Volume: 100},
		{Time: slotOn(monday, 3), Open: 100.75, High: 101, Low: 100.5, Close: 100.9, Volume: 900},
	}
	last := bars[len(bars)-1]
	for i := 4; i < 10; i++ {
		last.Time = slotOn(monday, i)
		last.Volume = 200
		bars = append(bars, last)
	}
	return bars
}

// breakoutDay breaks above a 98.5-99.5 range at 10:25 on volume 120 against
// a ten-bar average of 102, then runs through the 1.5R target.
func breakoutDay() []market.Candle {
	var bars []market.Candle
	for i := 0; i < 14; i++ {
		bars = append(bars, market.Candle{Time: slotOn(monday, i), Open: 99, High: 99.5, Low: 98.5, Close: 99, Volume: 100})
	}
	bars = append(bars, market.Candle{Time: slotOn(monday, 14), Open: 99.2, High: 100, Low: 99.2, Close: 100, Volume: 120})
	bars = append(bars, market.Candle{Time: slotOn(monday, 15), Open: 100, High: 101.6, Low: 99.8, Close: 101.5, Volume: 100})
	for i := 16; i < 22; i++ {
		bars = append(bars, market.Candle{Time: slotOn(monday, i), Open: 101.5, High: 101.8, Low: 101.2, Close: 101.5, Volume: 100})
	}
	return bars
}

func TestSweep(t *testing.T) {
	data := memData{
		key("NSE:NIFTY50-INDEX", monday): trendBenchmark(),
		key("NSE:TCS-EQ", monday):        breakoutDay(),
	}
	syms := []string{"NSE:TCS-EQ"}
	base, log := newRunner(t, data, syms, slotDetector{})
	common := strategies.DefaultCommon(sess)

	s := &Sweep{
		Base:        *base,
		ORB:         strategies.DefaultORBParams(),
		Common:      common,
		Multipliers: []float64{1.1, 1.2, 1.3},
		MinDelta:    0.09,
	}
	res, err := s.Run(context.Background(), monday, monday)
	require.NoError(t, err)
	require.Len(t, res.Points, 3)
	assert.Equal(t, 1, res.Days)
	assert.Equal(t, 1, res.Points[0].Trades)
	assert.Greater(t, res.Points[0].AvgR, 0.5)
	assert.Equal(t, 0, res.Points[1].Trades)
	assert.Equal(t, 0, res.Points[2].Trades)
	assert.Equal(t, 1.1, res.Best.VolumeMultiplier)
	assert.True(t, res.Suggest)

	out := res.String()
	assert.Contains(t, out, "- vol_mult 1.2: avg 0.00R over 0 days")
	assert.Contains(t, out, "Suggestion: consider switching volume_multiplier 1.2 → 1.1 (not auto-applied)")

	// the sweep never writes the trade log
	dates, err := log.Dates()
	require.NoError(t, err)
	assert.Empty(t, dates)
}
