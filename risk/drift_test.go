package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var driftToday = time.Date(2025, 2, 20, 18, 0, 0, 0, ist)

func daysAgo(n int) string {
	return driftToday.AddDate(0, 0, -n).Format("2006-01-02")
}

func newDrift(trades memTrades, st *memState) *DriftGuard {
	return &DriftGuard{
		Params:  DefaultDriftParams(),
		Session: sess,
		State:   st,
		Trades:  trades,
		Now:     func() time.Time { return driftToday },
	}
}

func TestDrift_PausesOnLowAverage(t *testing.T) {
	trades := memTrades{}
	for i := 1; i <= 12; i++ {
		if i%3 == 0 {
			trades[daysAgo(i)] = nil // logged, no trades
			continue
		}
		trades[daysAgo(i)] = outcomes(0.01, 0.02)
	}
	st := &memState{}

	rep, err := newDrift(trades, st).Run()
	require.NoError(t, err)
	assert.Equal(t, DriftPaused, rep.Action)
	assert.Equal(t, 12, rep.Stats.Days)
	assert.InDelta(t, 0.02, rep.Stats.AvgR, 1e-9)

	assert.Equal(t, 1, st.saves)
	assert.Equal(t, "2025-02-22", st.st.PausedUntil)
	assert.Equal(t, "drift_guard", st.st.Reason)
	assert.InDelta(t, 0.02, st.st.AvgR, 1e-9)
	assert.Equal(t, "2025-02-20 18:00:00", st.st.UpdatedAt)
	assert.Contains(t, rep.String(), "DRIFT GUARD: PAUSED until 2025-02-22")
}

func TestDrift_PausesOnDrawdown(t *testing.T) {
	trades := memTrades{}
	rs := []float64{2, 2, 2, -3.5, 2, 2, 2, 2, 2, 2} // oldest first
	for i, r := range rs {
		trades[daysAgo(len(rs)-i)] = outcomes(r)
	}
	st := &memState{}

	rep, err := newDrift(trades, st).Run()
	require.NoError(t, err)
	assert.Equal(t, DriftPaused, rep.Action)
	assert.InDelta(t, -3.5, rep.Stats.MaxDrawdownR, 1e-9)
	assert.InDelta(t, 1.45, rep.Stats.AvgR, 1e-9)
}

func TestDrift_InsufficientHistoryLeavesState(t *testing.T) {
	trades := memTrades{}
	for i := 1; i <= 9; i++ {
		trades[daysAgo(i)] = outcomes(-1)
	}
	trades[daysAgo(31)] = outcomes(-5) // outside the lookback
	st := &memState{st: RiskState{PausedUntil: "2025-02-19"}}

	rep, err := newDrift(trades, st).Run()
	require.NoError(t, err)
	assert.Equal(t, DriftInsufficient, rep.Action)
	assert.Equal(t, 9, rep.Stats.Days)
	assert.Zero(t, st.saves)
	assert.Equal(t, "2025-02-19", st.st.PausedUntil)
	assert.Empty(t, rep.String())
}

func TestDrift_ClearsWhenRecovered(t *testing.T) {
	trades := memTrades{}
	for i := 1; i <= 12; i++ {
		trades[daysAgo(i)] = outcomes(0.1)
	}
	st := &memState{st: RiskState{PausedUntil: "2025-02-21", Reason: "drift_guard", MaxDrawdownR: -3.2}}

	rep, err := newDrift(trades, st).Run()
	require.NoError(t, err)
	assert.Equal(t, DriftCleared, rep.Action)
	assert.Equal(t, 1, st.saves)
	assert.Empty(t, st.st.PausedUntil)
	assert.Equal(t, "cleared", st.st.Reason)
	assert.Zero(t, st.st.MaxDrawdownR)
	assert.Contains(t, rep.String(), "DRIFT GUARD: CLEARED")
}

func TestDrift_NoChangeWhenHealthy(t *testing.T) {
	trades := memTrades{}
	for i := 1; i <= 12; i++ {
		trades[daysAgo(i)] = outcomes(0.1)
	}
	st := &memState{}

	rep, err := newDrift(trades, st).Run()
	require.NoError(t, err)
	assert.Equal(t, DriftNone, rep.Action)
	assert.Zero(t, st.saves)
}

func TestDriftParams_MinDays(t *testing.T) {
	assert.Equal(t, 10, DriftParams{LookbackDays: 20}.MinDays())
	assert.Equal(t, 20, DriftParams{LookbackDays: 60}.MinDays())
}
