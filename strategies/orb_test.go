package strategies

import (
	"testing"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trendInput(bars []market.Candle, dir regime.Direction) Input {
	return Input{
		Symbol:     "NSE:TCS-EQ",
		Sector:     "IT",
		Candles:    bars,
		Day:        day,
		Mode:       Backtest,
		Regime:     regime.Result{Regime: regime.Trend, TrendDir: dir},
		RiskBudget: 150,
	}
}

func TestORB_LongCandidate(t *testing.T) {
	orb := NewORB(noSlip(), DefaultORBParams())

	c, ok := orb.Detect(trendInput(orbLongDay(), regime.Bull))
	require.True(t, ok)

	assert.Equal(t, trade.ORB, c.Strategy)
	assert.Equal(t, market.Buy, c.Side)
	assert.InDelta(t, 100.0, c.Entry, 1e-9)
	assert.InDelta(t, 99.0, c.Stop, 1e-9)
	assert.InDelta(t, 101.5, c.Target, 1e-9)
	assert.Equal(t, int64(150), c.Qty)
	assert.Equal(t, slot(14), c.EntryTime)
	assert.Equal(t, "IT", c.Sector)
	assert.Equal(t, regime.Trend, c.Regime)

	// 50 * 0.005 + 10 * min(300/120, 3)
	assert.InDelta(t, 25.25, c.Score, 1e-9)
	assert.Equal(t, trade.GradeAPlus, c.Grade)
	assert.InDelta(t, 0.5, c.Why.BreakoutDistPct, 1e-9)
	assert.InDelta(t, 2.5, c.Why.VolStrength, 1e-9)

	assert.True(t, c.Stop < c.Entry && c.Entry < c.Target)
	require.NoError(t, c.Validate())
}

func TestORB_QuantityUsesSlippedEntry(t *testing.T) {
	orb := NewORB(DefaultCommon(sess), DefaultORBParams())

	c, ok := orb.Detect(trendInput(orbLongDay(), regime.Bull))
	require.True(t, ok)
	// fill 100.1, risk 1.1 per share
	assert.Equal(t, int64(136), c.Qty)
	assert.InDelta(t, 101.5, c.Target, 1e-9, "target is measured from the signal price")
}

func TestORB_ShortCandidate(t *testing.T) {
	orb := NewORB(noSlip(), DefaultORBParams())

	c, ok := orb.Detect(trendInput(orbShortDay(), regime.Bear))
	require.True(t, ok)
	assert.Equal(t, market.Sell, c.Side)
	assert.InDelta(t, 98.0, c.Entry, 1e-9)
	assert.InDelta(t, 99.0, c.Stop, 1e-9)
	assert.InDelta(t, 96.5, c.Target, 1e-9)
	assert.Equal(t, int64(150), c.Qty)
	assert.True(t, c.Target < c.Entry && c.Entry < c.Stop)
}

func TestORB_Abstains(t *testing.T) {
	tests := []struct {
		name   string
		params func(*ORBParams)
		common func(*Common)
		input  func(*Input)
	}{
		{name: "long blocked on bear day", input: func(in *Input) { in.Regime.TrendDir = regime.Bear }},
		{name: "longs disabled", params: func(p *ORBParams) { p.AllowLong = false }},
		{name: "range too tight", params: func(p *ORBParams) { p.MinORRangePct = 2.0 }},
		{name: "range too wide", params: func(p *ORBParams) { p.MaxORRangePct = 0.5 }},
		{name: "range too large for atr", params: func(p *ORBParams) { p.MaxORtoATR = 0.9; p.ATRPeriod = 2 }},
		{name: "volume too weak", params: func(p *ORBParams) { p.VolumeMultiplier = 3 }},
		{name: "stop on wrong side", params: func(p *ORBParams) { p.StopATRMult = -1 }},
		{name: "volatility clamp", common: func(c *Common) { c.MaxATRPct = 0.5 }},
		{name: "budget too small", input: func(in *Input) { in.RiskBudget = 0.5 }},
		{name: "too few bars", input: func(in *Input) { in.Candles = in.Candles[:15] }},
		{name: "live before breakout", input: func(in *Input) { in.Mode = Live; in.AsOf = slot(13) }},
		{name: "other day", input: func(in *Input) { in.Day = day.AddDate(0, 0, 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultORBParams()
			if tt.params != nil {
				tt.params(&p)
			}
			c := noSlip()
			if tt.common != nil {
				tt.common(&c)
			}
			in := trendInput(orbLongDay(), regime.Bull)
			if tt.input != nil {
				tt.input(&in)
			}
			_, ok := NewORB(c, p).Detect(in)
			assert.False(t, ok)
		})
	}
}

func TestORB_UnformedATRSkipsRatioBounds(t *testing.T) {
	p := DefaultORBParams()
	p.MaxORtoATR = 0.9
	p.MinORtoATR = 1.1

	c, ok := NewORB(noSlip(), p).Detect(trendInput(orbLongDay(), regime.Bull))
	require.True(t, ok, "ATR(14) is unformed at the range close")
	assert.Equal(t, slot(14), c.EntryTime)
}

// orbWhipsawDay breaks out far above the range on bar 14, too far to size
// on a small budget, then breaks down below it on bar 16.
func orbWhipsawDay() []market.Candle {
	bars := orbLongDay()[:14]
	bars = append(bars,
		market.Candle{Time: slot(14), Open: 99.2, High: 104, Low: 99.2, Close: 104, Volume: 300},
		market.Candle{Time: slot(15), Open: 104, High: 104, Low: 99, Close: 99, Volume: 100},
		market.Candle{Time: slot(16), Open: 99, High: 99, Low: 98, Close: 98, Volume: 300},
	)
	for i := 17; i < 21; i++ {
		bars = append(bars, market.Candle{Time: slot(i), Open: 98, High: 98.4, Low: 97.6, Close: 98, Volume: 100})
	}
	return bars
}

func TestORB_DirectionsScanIndependently(t *testing.T) {
	in := trendInput(orbWhipsawDay(), regime.Flat)
	in.RiskBudget = 3

	c, ok := NewORB(noSlip(), DefaultORBParams()).Detect(in)
	require.True(t, ok, "an unsizable long does not hide the later short")
	assert.Equal(t, market.Sell, c.Side)
	assert.Equal(t, slot(16), c.EntryTime)
	assert.InDelta(t, 98.5+0.5*22.0/14.0, c.Stop, 1e-9)
	assert.Equal(t, int64(2), c.Qty)

	in.Regime.TrendDir = regime.Bull
	_, ok = NewORB(noSlip(), DefaultORBParams()).Detect(in)
	assert.False(t, ok)
}

func TestORB_FlatDayTakesEarlierDirection(t *testing.T) {
	bars := orbLongDay()
	bars[17] = market.Candle{Time: slot(17), Open: 99, High: 99, Low: 97.9, Close: 98, Volume: 400}

	c, ok := NewORB(noSlip(), DefaultORBParams()).Detect(trendInput(bars, regime.Flat))
	require.True(t, ok)
	assert.Equal(t, market.Buy, c.Side)
	assert.Equal(t, slot(14), c.EntryTime)
}

func TestORB_LiveAtBreakout(t *testing.T) {
	in := trendInput(orbLongDay(), regime.Flat)
	in.Mode = Live
	in.AsOf = slot(14)

	c, ok := NewORB(noSlip(), DefaultORBParams()).Detect(in)
	require.True(t, ok)
	assert.Equal(t, market.Buy, c.Side)
}

func TestORB_BenchmarkAlignment(t *testing.T) {
	p := DefaultORBParams()
	p.RequireBenchmarkVWAP = true

	falling := make([]market.Candle, 0, 21)
	rising := make([]market.Candle, 0, 21)
	for i := 0; i < 21; i++ {
		px := 200 - float64(i)
		falling = append(falling, market.Candle{Time: slot(i), Open: px, High: px + 0.5, Low: px - 0.5, Close: px, Volume: 10})
		px = 200 + float64(i)
		rising = append(rising, market.Candle{Time: slot(i), Open: px, High: px + 0.5, Low: px - 0.5, Close: px, Volume: 10})
	}

	in := trendInput(orbLongDay(), regime.Bull)
	in.Benchmark = falling
	_, ok := NewORB(noSlip(), p).Detect(in)
	assert.False(t, ok, "benchmark below VWAP blocks longs")

	in.Benchmark = rising
	_, ok = NewORB(noSlip(), p).Detect(in)
	assert.True(t, ok)

	in.Benchmark = nil
	_, ok = NewORB(noSlip(), p).Detect(in)
	assert.False(t, ok, "missing benchmark abstains")
}

func TestORB_ActiveOnlyOnTrendDays(t *testing.T) {
	orb := NewORB(noSlip(), DefaultORBParams())
	assert.True(t, orb.Active(regime.Result{Regime: regime.Trend}))
	assert.False(t, orb.Active(regime.Result{Regime: regime.Range}))
}
