package costs

import "github.com/rustyeddy/intraday/market"

// ApplySlippage moves price against the order by bps basis points:
// buys fill higher, sells fill lower.
func ApplySlippage(price float64, side market.Side, bps float64) float64 {
	adj := bps / 10_000.0
	if side == market.Sell {
		return price * (1 - adj)
	}
	return price * (1 + adj)
}
