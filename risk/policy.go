package risk

import (
	"time"

	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/trade"
)

// Policy holds the approval gate limits. Loss amounts are in rupees.
type Policy struct {
	MaxDailyLossINR float64 // hard stop
	SoftStopLossINR float64 // A+ in trend only past this loss
	MaxTradesPerDay int
	StopAfterLosses int // consecutive losses

	MinGrade trade.Grade

	// DrawdownAPlusOnlyR restricts approvals to A+ once the persisted
	// rolling drawdown reaches -DrawdownAPlusOnlyR.
	DrawdownAPlusOnlyR float64

	Cooldown       time.Duration // between sent approvals
	ApprovalExpiry time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxDailyLossINR:    700,
		SoftStopLossINR:    500,
		MaxTradesPerDay:    3,
		StopAfterLosses:    2,
		MinGrade:           trade.GradeB,
		DrawdownAPlusOnlyR: 2.0,
		Cooldown:           20 * time.Minute,
		ApprovalExpiry:     90 * time.Second,
	}
}

// DayStats summarises today's simulated trades.
type DayStats struct {
	PnL          float64
	Trades       int
	ConsecLosses int // losing streak counted back from the latest trade
}

func DayStatsFrom(trades []sim.Trade) DayStats {
	s := DayStats{Trades: len(trades)}
	for _, t := range trades {
		s.PnL += t.PnL
	}
	for i := len(trades) - 1; i >= 0; i-- {
		if trades[i].PnL >= 0 {
			break
		}
		s.ConsecLosses++
	}
	return s
}
