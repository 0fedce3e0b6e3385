package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/rustyeddy/intraday/journal"
	"github.com/rustyeddy/intraday/metrics"
	"github.com/rustyeddy/intraday/sim"
)

// Result aggregates a multi-day run.
type Result struct {
	RunID     string
	Start     time.Time
	End       time.Time
	Strategy  string
	Selection sim.SelectionPolicy
	Days      []DayResult

	Wins     int
	Losses   int
	TotalPnL float64
	Stats    metrics.Rollup
}

// Trades flattens every day's trades in date order.
func (r *Result) Trades() []sim.Trade {
	var out []sim.Trade
	for _, d := range r.Days {
		out = append(out, d.Trades...)
	}
	return out
}

func (r *Result) summarize() {
	trades := r.Trades()
	r.Wins, r.Losses, r.TotalPnL = 0, 0, 0
	for _, t := range trades {
		r.TotalPnL += t.PnL
		switch {
		case t.Win():
			r.Wins++
		case t.PnL < 0:
			r.Losses++
		}
	}
	r.Stats = metrics.Roll(trades)
}

// Run converts the result to its journal record.
func (r *Result) Run() journal.BacktestRun {
	return journal.BacktestRun{
		RunID:        r.RunID,
		Created:      time.Now().UTC(),
		Strategy:     r.Strategy,
		Selection:    string(r.Selection),
		Start:        r.Start,
		End:          r.End,
		Days:         len(r.Days),
		Trades:       r.Stats.Trades,
		Wins:         r.Wins,
		Losses:       r.Losses,
		TotalR:       r.Stats.TotalR,
		AvgR:         r.Stats.AvgR,
		TotalPnL:     r.TotalPnL,
		WinRate:      r.Stats.WinRate * 100,
		MaxDrawdownR: r.Stats.MaxDrawdownR,
	}
}

// PrintResult writes a plain-text summary of a run.
func PrintResult(w io.Writer, r *Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result (PAPER)")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)
	fmt.Fprintf(w, "Selection:     %s\n", r.Selection)
	fmt.Fprintf(w, "Period:        %s .. %s (%d days)\n",
		r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"), len(r.Days))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Trades:        %d\n", r.Stats.Trades)
	fmt.Fprintf(w, "Wins:          %d\n", r.Wins)
	fmt.Fprintf(w, "Losses:        %d\n", r.Losses)
	fmt.Fprintf(w, "Win Rate:      %.2f%%\n", r.Stats.WinRate*100)
	fmt.Fprintf(w, "Total R:       %.2f\n", r.Stats.TotalR)
	fmt.Fprintf(w, "Avg R:         %.2f\n", r.Stats.AvgR)
	fmt.Fprintf(w, "Net P/L:       ₹%.2f\n", r.TotalPnL)
	fmt.Fprintf(w, "Max Drawdown:  %.2fR\n", r.Stats.MaxDrawdownR)

	if len(r.Days) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Days")
		fmt.Fprintln(w, "--------------------------------------------------")
		for _, d := range r.Days {
			var dayR float64
			for _, t := range d.Trades {
				dayR += t.R
			}
			fmt.Fprintf(w, "%s  %-5s %-4s cands=%-3d trades=%d  %+.2fR\n",
				d.Date, d.Regime.Regime, d.Regime.TrendDir, d.Candidates, len(d.Trades), dayR)
		}
	}
	fmt.Fprintln(w)
}
