package risk

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/intraday/market"
)

type DriftParams struct {
	LookbackDays int
	MinAvgR      float64
	MaxDrawdownR float64 // pause at drawdown <= -MaxDrawdownR
	PauseDays    int
}

func DefaultDriftParams() DriftParams {
	return DriftParams{LookbackDays: 30, MinAvgR: 0.05, MaxDrawdownR: 3.0, PauseDays: 2}
}

// MinDays is the history required before the guard acts.
func (p DriftParams) MinDays() int {
	return max(10, p.LookbackDays/3)
}

type DriftAction string

const (
	DriftNone         DriftAction = "none"
	DriftInsufficient DriftAction = "insufficient_history"
	DriftPaused       DriftAction = "paused"
	DriftCleared      DriftAction = "cleared"
)

type DriftStats struct {
	Days         int
	AvgR         float64
	MaxDrawdownR float64
}

type DriftReport struct {
	Action      DriftAction
	Stats       DriftStats
	PausedUntil string
}

func (r DriftReport) String() string {
	stats := fmt.Sprintf("Lookback days: %d\nAvg R: %.2f | Max DD: %.2fR",
		r.Stats.Days, r.Stats.AvgR, r.Stats.MaxDrawdownR)
	switch r.Action {
	case DriftPaused:
		return fmt.Sprintf("DRIFT GUARD: PAUSED until %s\n%s", r.PausedUntil, stats)
	case DriftCleared:
		return "DRIFT GUARD: CLEARED\n" + stats
	}
	return ""
}

// DriftGuard pauses approvals after sustained underperformance in the
// simulated trade logs.
type DriftGuard struct {
	Params  DriftParams
	Session market.Session
	State   StateStore
	Trades  TradeLog

	Now func() time.Time
	Log zerolog.Logger
}

// DailyR returns summed outcome R for each logged day in the lookback
// window before today, oldest first. Logged days without trades count as 0R.
func (d *DriftGuard) DailyR(today time.Time) ([]float64, error) {
	var out []float64
	for i := d.Params.LookbackDays; i >= 1; i-- {
		date := d.Session.DateKey(today.AddDate(0, 0, -i))
		trades, logged, err := d.Trades.Day(date)
		if err != nil {
			return nil, fmt.Errorf("load trades for %s: %w", date, err)
		}
		if !logged {
			continue
		}
		var r float64
		for _, t := range trades {
			r += t.R
		}
		out = append(out, r)
	}
	return out, nil
}

func driftStats(daily []float64) DriftStats {
	s := DriftStats{Days: len(daily)}
	if s.Days == 0 {
		return s
	}
	var sum float64
	for _, r := range daily {
		sum += r
	}
	s.AvgR = sum / float64(s.Days)
	s.MaxDrawdownR = MaxDrawdown(daily)
	return s
}

// Run evaluates the lookback window and pauses, clears or leaves the risk
// state alone. State is untouched when history is too short.
func (d *DriftGuard) Run() (DriftReport, error) {
	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}
	today := d.Session.Day(now)

	daily, err := d.DailyR(today)
	if err != nil {
		return DriftReport{}, err
	}
	stats := driftStats(daily)
	rep := DriftReport{Action: DriftNone, Stats: stats}

	if stats.Days < d.Params.MinDays() {
		rep.Action = DriftInsufficient
		d.Log.Debug().Int("days", stats.Days).Int("need", d.Params.MinDays()).Msg("drift guard: not enough history")
		return rep, nil
	}

	st, err := d.State.LoadRiskState()
	if err != nil {
		return rep, fmt.Errorf("load risk state: %w", err)
	}

	pause := stats.AvgR < d.Params.MinAvgR || stats.MaxDrawdownR <= -d.Params.MaxDrawdownR
	switch {
	case pause:
		st.PausedUntil = d.Session.DateKey(today.AddDate(0, 0, d.Params.PauseDays))
		st.Reason = "drift_guard"
		rep.Action = DriftPaused
		rep.PausedUntil = st.PausedUntil
	case st.PausedUntil != "":
		st.PausedUntil = ""
		st.Reason = "cleared"
		rep.Action = DriftCleared
	default:
		return rep, nil
	}

	st.AvgR = stats.AvgR
	st.MaxDrawdownR = stats.MaxDrawdownR
	st.UpdatedAt = d.Session.Local(now, stampLayout)
	if err := d.State.SaveRiskState(st); err != nil {
		return rep, fmt.Errorf("save risk state: %w", err)
	}

	d.Log.Info().
		Str("action", string(rep.Action)).
		Str("paused_until", rep.PausedUntil).
		Int("days", stats.Days).
		Float64("avg_r", stats.AvgR).
		Float64("max_drawdown_r", stats.MaxDrawdownR).
		Msg("drift guard")
	return rep, nil
}
