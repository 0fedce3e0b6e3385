package journal

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/intraday/sim"
)

var csvHeader = []string{
	"symbol", "strategy", "side", "grade", "regime", "qty",
	"entry", "stop", "target", "entry_fill", "exit_fill",
	"entry_time", "exit_time", "exit_reason", "charges", "pnl", "outcome_r",
}

// WriteTradesCSV writes trades with a header row.
func WriteTradesCSV(w io.Writer, trades []sim.Trade) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, t := range trades {
		if err := cw.Write([]string{
			t.Symbol,
			string(t.Strategy),
			t.Side.String(),
			t.Grade.String(),
			string(t.Regime),
			strconv.FormatInt(t.Qty, 10),
			f(t.Entry),
			f(t.Stop),
			f(t.Target),
			f(t.EntryFill),
			f(t.ExitFill),
			t.EntryTime.UTC().Format(time.RFC3339),
			t.ExitTime.UTC().Format(time.RFC3339),
			string(t.ExitReason),
			f(t.Charges),
			f(t.PnL),
			f(t.R),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
