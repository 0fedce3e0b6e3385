package sim

import (
	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/trade"
)

func hitStop(c trade.Candidate, b market.Candle) bool {
	if c.Side == market.Buy {
		return b.Low <= c.Stop
	}
	return b.High >= c.Stop
}

func hitTarget(c trade.Candidate, b market.Candle) bool {
	if c.Side == market.Buy {
		return b.High >= c.Target
	}
	return b.Low <= c.Target
}
