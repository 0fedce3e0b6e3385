package risk

import (
	"fmt"
	"strings"
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/trade"
)

// ApprovalID is "SYMBOL|YYYY-MM-DD HH:MM" with the entry time in exchange
// local time.
func ApprovalID(c trade.Candidate, sess market.Session) string {
	return c.Symbol + "|" + sess.Local(c.EntryTime, "2006-01-02 15:04")
}

// FormatApproval renders the approval message sent to the operator.
// The line layout is read by downstream delivery and must not change.
func FormatApproval(c trade.Candidate, approvalID string, expires time.Time) string {
	var b strings.Builder
	b.WriteString("MODE: PAPER\n")
	fmt.Fprintf(&b, "Strategy: %s\n", c.Strategy)
	fmt.Fprintf(&b, "Approval ID: %s\n", approvalID)
	fmt.Fprintf(&b, "Symbol: %s\n", trade.DisplaySymbol(c.Symbol))
	fmt.Fprintf(&b, "Side: %s\n", c.Side)
	fmt.Fprintf(&b, "Grade: %s\n", c.Grade)
	fmt.Fprintf(&b, "Entry: ₹%.2f\n", c.Entry)
	fmt.Fprintf(&b, "Stop:  ₹%.2f\n", c.Stop)
	fmt.Fprintf(&b, "Target: ₹%.2f\n", c.Target)
	fmt.Fprintf(&b, "Qty (sim): %d\n", c.Qty)
	fmt.Fprintf(&b, "Risk: ₹%.0f | R:R: %.2f\n", c.RiskBudget, c.RR())
	b.WriteString("Why now:\n")
	if c.Strategy == trade.ORB {
		fmt.Fprintf(&b, "- ORB breakout (dist %.2f%%)\n", c.Why.BreakoutDistPct)
		fmt.Fprintf(&b, "- Volume strength %.2fx\n", c.Why.VolStrength)
	} else {
		fmt.Fprintf(&b, "- VWAP stretch %.2f ATR\n", c.Why.VWAPDistATR)
		fmt.Fprintf(&b, "- RSI %.1f\n", c.Why.RSI)
	}
	fmt.Fprintf(&b, "Approval expires at: %s IST\n", expires.Format("15:04:05"))
	b.WriteString("Reply: YES or NO")
	return b.String()
}
