package scanner

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/intraday/strategies"
	"github.com/rustyeddy/intraday/trade"
)

const maxSwingLines = 10

// FormatSwingAlerts renders swing signals as a short informational list.
func FormatSwingAlerts(style strategies.SwingStyle, date string, cands []trade.Candidate) string {
	if len(cands) == 0 {
		return "Swing alerts: no signals today."
	}
	lines := []string{fmt.Sprintf("Swing Alerts (%s) - %s", style, date)}
	for i, c := range cands {
		if i == maxSwingLines {
			lines = append(lines, fmt.Sprintf("(+%d more)", len(cands)-maxSwingLines))
			break
		}
		lines = append(lines, fmt.Sprintf("- %s %s @ %.2f | stop %.2f (%s)",
			trade.DisplaySymbol(c.Symbol), c.Side, c.Entry, c.Stop, c.Why.Reason))
	}
	return strings.Join(lines, "\n")
}
