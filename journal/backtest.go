package journal

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
	"time"
)

// BacktestRun mirrors the backtest_runs table.
type BacktestRun struct {
	RunID     string
	Created   time.Time
	Dataset   string
	Strategy  string // detectors that ran, comma separated
	Selection string // selection policy
	Params    []byte // JSON config snapshot

	Start time.Time
	End   time.Time
	Days  int

	Trades int
	Wins   int
	Losses int

	TotalR       float64
	AvgR         float64
	TotalPnL     float64
	WinRate      float64
	MaxDrawdownR float64

	OrgPath string

	Notes       []string
	NextActions []string
}

var backtestOrgFuncs = template.FuncMap{
	"mul100": func(x float64) float64 { return x * 100.0 },
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var backtestOrg = template.Must(template.New("backtest").Funcs(backtestOrgFuncs).Parse(BacktestOrgTemplate))

// Org renders the run as an Org-mode section.
func (v *BacktestRun) Org() (string, error) {
	buf := new(bytes.Buffer)
	if err := backtestOrg.Execute(buf, v); err != nil {
		return "", fmt.Errorf("render backtest org: %w", err)
	}
	return buf.String(), nil
}

// WriteBacktestOrg writes the Org report to OrgPath.
func (v *BacktestRun) WriteBacktestOrg() error {
	s, err := v.Org()
	if err != nil {
		return err
	}
	return os.WriteFile(v.OrgPath, []byte(s), 0o644)
}

const BacktestOrgTemplate = `
* BACKTEST: {{if .Strategy}}{{.Strategy}}{{else}}(strategy?){{end}} {{.Start.Format "2006-01-02"}}..{{.End.Format "2006-01-02"}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:STRATEGY:    {{.Strategy}}
:SELECTION:   {{.Selection}}
:DATASET:     {{if .Dataset}}{{.Dataset}}{{else}}(dataset?){{end}}
:START_DATE:  {{.Start.Format "2006-01-02"}}
:END_DATE:    {{.End.Format "2006-01-02"}}
:DAYS:        {{.Days}}
:TRADES:      {{.Trades}}
:WINS:        {{.Wins}}
:LOSSES:      {{.Losses}}
:TOTAL_R:     {{printf "%.2f" .TotalR}}
:AVG_R:       {{printf "%.3f" .AvgR}}
:TOTAL_PNL:   {{printf "%.2f" .TotalPnL}}
:WIN_RATE:    {{printf "%.2f" (mul100 .WinRate)}}
:MAX_DD_R:    {{printf "%.2f" .MaxDrawdownR}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Parameters
#+begin_src json
{{printf "%s" .Params}}
#+end_src

** Performance Summary
- Net P/L (INR):    *{{printf "%.2f" .TotalPnL}}*
- Total R:          *{{printf "%.2f" .TotalR}}*
- Avg R / trade:    *{{printf "%.3f" .AvgR}}*
- Max Drawdown:     *{{printf "%.2f" .MaxDrawdownR}}R*
- Win Rate:         *{{printf "%.2f" (mul100 .WinRate)}}%*

** Trade Distribution
| Outcome | Count |
|---------+-------|
| Wins    | {{.Wins}} |
| Losses  | {{.Losses}} |
| Total   | {{.Trades}} |

{{- if .Notes }}
** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}

{{- if .NextActions }}
** Notes / Next Actions
{{- range .NextActions }}
- [ ] {{.}}
{{- end }}
{{- end }}
`
