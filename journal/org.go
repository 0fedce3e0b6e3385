package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/trade"
)

// FormatTradeOrg renders a simulated trade as an Org-mode block with the
// facts in a PROPERTIES drawer and empty review headings.
func FormatTradeOrg(t sim.Trade) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Trade: %s %s %s (%s)\n", trade.DisplaySymbol(t.Symbol), t.Strategy, t.Side, t.ExitReason)
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":SYMBOL: %s\n", t.Symbol)
	fmt.Fprintf(&b, ":STRATEGY: %s\n", t.Strategy)
	fmt.Fprintf(&b, ":SIDE: %s\n", t.Side)
	fmt.Fprintf(&b, ":GRADE: %s\n", t.Grade)
	fmt.Fprintf(&b, ":REGIME: %s/%s\n", t.Regime, t.TrendDir)
	fmt.Fprintf(&b, ":QTY: %d\n", t.Qty)
	fmt.Fprintf(&b, ":ENTRY: %.2f\n", t.Entry)
	fmt.Fprintf(&b, ":STOP: %.2f\n", t.Stop)
	fmt.Fprintf(&b, ":TARGET: %.2f\n", t.Target)
	fmt.Fprintf(&b, ":ENTRY_FILL: %.2f\n", t.EntryFill)
	fmt.Fprintf(&b, ":EXIT_FILL: %.2f\n", t.ExitFill)
	fmt.Fprintf(&b, ":ENTRY_TIME: %s\n", t.EntryTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":EXIT_TIME: %s\n", t.ExitTime.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, ":CHARGES: %.2f\n", t.Charges)
	fmt.Fprintf(&b, ":PNL: %.2f\n", t.PnL)
	fmt.Fprintf(&b, ":OUTCOME_R: %.3f\n", t.R)
	b.WriteString(":END:\n\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Execution\n- \n\n")
	b.WriteString("*** Review\n- \n")
	return b.String()
}

// FormatTradesOrg renders multiple trades separated by blank lines.
func FormatTradesOrg(trades []sim.Trade) string {
	var b strings.Builder
	for i, t := range trades {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatTradeOrg(t))
	}
	return b.String()
}
