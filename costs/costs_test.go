package costs

import (
	"testing"

	"github.com/rustyeddy/intraday/market"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	c := Compute(100, 101, 150)

	// buy 15000, sell 15150, turnover 30150
	assert.True(t, c.Turnover.Equal(decimal.NewFromInt(30150)))
	assert.True(t, c.Brokerage.IsZero())
	assert.InDelta(t, 3.7875, mustF(c.STT), 1e-12)
	assert.InDelta(t, 0.9798750, mustF(c.ExchangeFee), 1e-12)
	assert.InDelta(t, 0.03015, mustF(c.RegulatoryFee), 1e-12)
	assert.InDelta(t, 0.45, mustF(c.StampDuty), 1e-12)
	assert.InDelta(t, 0.18*(0.979875+0.03015), mustF(c.GST), 1e-12)
	assert.InDelta(t, 3.7875+0.979875+0.03015+0.45+0.18*(0.979875+0.03015), c.TotalFloat(), 1e-9)
}

func TestCompute_GSTIsExactlyEighteenPercent(t *testing.T) {
	c := Compute(1234.55, 1250.05, 37)
	want := c.ExchangeFee.Add(c.RegulatoryFee).Mul(decimal.RequireFromString("0.18"))
	assert.True(t, c.GST.Equal(want))

	sum := c.Brokerage.Add(c.STT).Add(c.ExchangeFee).Add(c.RegulatoryFee).Add(c.StampDuty).Add(c.GST)
	assert.True(t, c.Total.Equal(sum))
}

func TestCompute_Pure(t *testing.T) {
	a := Compute(512.3, 498.7, 12)
	b := Compute(512.3, 498.7, 12)
	assert.Equal(t, a.Total.String(), b.Total.String())
	assert.Equal(t, a.GST.String(), b.GST.String())
}

func TestRoundTrip_ShortSwapsLegs(t *testing.T) {
	long := RoundTrip(market.Buy, 100, 101, 10)
	short := RoundTrip(market.Sell, 101, 100, 10)
	assert.True(t, long.Total.Equal(short.Total))

	// STT is charged on the short's entry (sell) leg
	s := RoundTrip(market.Sell, 200, 100, 10)
	assert.InDelta(t, 200*10*0.00025, mustF(s.STT), 1e-12)
}

func TestApplySlippage(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		side  market.Side
		bps   float64
		want  float64
	}{
		{"buy", 100, market.Buy, 5, 100.05},
		{"sell", 100, market.Sell, 5, 99.95},
		{"zero", 100, market.Buy, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ApplySlippage(tt.price, tt.side, tt.bps), 1e-12)
		})
	}
}

func mustF(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func TestRates_Regulatory(t *testing.T) {
	f, _ := EquityIntraday.Regulatory.Float64()
	require.InDelta(t, 1e-6, f, 1e-18)
}
