package metrics

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/sim"
)

// Rollup summarises a trade history in R.
type Rollup struct {
	Trades       int     `json:"trades"`
	TotalR       float64 `json:"total_r"`
	AvgR         float64 `json:"avg_r"`
	WinRate      float64 `json:"win_rate"`
	AvgWinR      float64 `json:"avg_win_r"`
	AvgLossR     float64 `json:"avg_loss_r"`
	MaxDrawdownR float64 `json:"max_drawdown_r"`
}

// Roll counts a trade with R > 0 as a win and anything else as a loss.
func Roll(trades []sim.Trade) Rollup {
	var m Rollup
	if len(trades) == 0 {
		return m
	}
	rs := make([]float64, len(trades))
	var wins, losses int
	var winSum, lossSum float64
	for i, t := range trades {
		rs[i] = t.R
		m.TotalR += t.R
		if t.R > 0 {
			wins++
			winSum += t.R
		} else {
			losses++
			lossSum += t.R
		}
	}
	m.Trades = len(trades)
	m.AvgR = m.TotalR / float64(m.Trades)
	m.WinRate = float64(wins) / float64(m.Trades)
	if wins > 0 {
		m.AvgWinR = winSum / float64(wins)
	}
	if losses > 0 {
		m.AvgLossR = lossSum / float64(losses)
	}
	m.MaxDrawdownR = risk.MaxDrawdown(rs)
	return m
}

func (m Rollup) String() string {
	if m.Trades == 0 {
		return "Metrics Rollup (PAPER)\nNo trades yet."
	}
	var b strings.Builder
	b.WriteString("Metrics Rollup (PAPER)\n")
	fmt.Fprintf(&b, "Trades: %d\n", m.Trades)
	fmt.Fprintf(&b, "Total: %.2fR | Avg: %.2fR\n", m.TotalR, m.AvgR)
	fmt.Fprintf(&b, "Win rate: %.0f%% | Avg win: %.2fR | Avg loss: %.2fR\n", m.WinRate*100, m.AvgWinR, m.AvgLossR)
	fmt.Fprintf(&b, "Max drawdown: %.2fR", m.MaxDrawdownR)
	return b.String()
}
