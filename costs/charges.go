// Package costs models statutory transaction charges and fill slippage for
// intraday equity round trips.
package costs

import (
	"github.com/rustyeddy/intraday/market"
	"github.com/shopspring/decimal"
)

// Rates are the per-turnover charge rates of a round trip.
type Rates struct {
	Brokerage  decimal.Decimal // flat, per round trip
	STTSell    decimal.Decimal // securities transaction tax on sell turnover
	Exchange   decimal.Decimal // on total turnover
	Regulatory decimal.Decimal // on total turnover
	StampBuy   decimal.Decimal // on buy turnover
	GST        decimal.Decimal // on brokerage + exchange + regulatory
}

// EquityIntraday are the NSE intraday equity rates.
var EquityIntraday = Rates{
	Brokerage:  decimal.Zero,
	STTSell:    decimal.RequireFromString("0.00025"),
	Exchange:   decimal.RequireFromString("0.0000325"),
	Regulatory: decimal.NewFromInt(10).Div(decimal.NewFromInt(10_000_000)),
	StampBuy:   decimal.RequireFromString("0.00003"),
	GST:        decimal.RequireFromString("0.18"),
}

// Charges is the itemised cost of one round trip.
type Charges struct {
	Turnover      decimal.Decimal `json:"turnover"`
	Brokerage     decimal.Decimal `json:"brokerage"`
	STT           decimal.Decimal `json:"stt"`
	ExchangeFee   decimal.Decimal `json:"exchange_fee"`
	RegulatoryFee decimal.Decimal `json:"regulatory_fee"`
	StampDuty     decimal.Decimal `json:"stamp_duty"`
	GST           decimal.Decimal `json:"gst"`
	Total         decimal.Decimal `json:"total"`
}

// TotalFloat returns Total as a float64.
func (c Charges) TotalFloat() float64 {
	f, _ := c.Total.Float64()
	return f
}

// Compute prices a round trip with the intraday equity rates.
func Compute(buy, sell float64, qty int64) Charges {
	return EquityIntraday.Compute(buy, sell, qty)
}

// Compute prices a buy at buy and a sell at sell for qty shares.
func (r Rates) Compute(buy, sell float64, qty int64) Charges {
	q := decimal.NewFromInt(qty)
	buyTurnover := decimal.NewFromFloat(buy).Mul(q)
	sellTurnover := decimal.NewFromFloat(sell).Mul(q)
	turnover := buyTurnover.Add(sellTurnover)

	c := Charges{
		Turnover:      turnover,
		Brokerage:     r.Brokerage,
		STT:           sellTurnover.Mul(r.STTSell),
		ExchangeFee:   turnover.Mul(r.Exchange),
		RegulatoryFee: turnover.Mul(r.Regulatory),
		StampDuty:     buyTurnover.Mul(r.StampBuy),
	}
	c.GST = c.Brokerage.Add(c.ExchangeFee).Add(c.RegulatoryFee).Mul(r.GST)
	c.Total = c.Brokerage.
		Add(c.STT).
		Add(c.ExchangeFee).
		Add(c.RegulatoryFee).
		Add(c.StampDuty).
		Add(c.GST)
	return c
}

// RoundTrip prices a position opened on side at entry and closed at exit.
// Shorts sell at entry and buy back at exit.
func RoundTrip(side market.Side, entry, exit float64, qty int64) Charges {
	if side == market.Sell {
		return Compute(exit, entry, qty)
	}
	return Compute(entry, exit, qty)
}
