package risk

import (
	"testing"

	"github.com/rustyeddy/intraday/regime"
	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    Inputs
		units int64
		per   float64
	}{
		{"long", Inputs{Budget: 150, EntryFill: 100, Stop: 99}, 150, 1},
		{"short", Inputs{Budget: 150, EntryFill: 100, Stop: 101}, 150, 1},
		{"floors", Inputs{Budget: 125, EntryFill: 100.1, Stop: 99}, 113, 1.1},
		{"budget smaller than risk", Inputs{Budget: 5, EntryFill: 100, Stop: 90}, 0, 10},
		{"zero risk", Inputs{Budget: 150, EntryFill: 100, Stop: 100}, 0, 0},
		{"zero budget", Inputs{Budget: 0, EntryFill: 100, Stop: 99}, 0, 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Calculate(tt.in)
			assert.Equal(t, tt.units, got.Units)
			assert.InDelta(t, tt.per, got.PerShareRisk, 1e-9)
		})
	}
}

func TestSizingBudget(t *testing.T) {
	t.Parallel()

	s := DefaultSizing()
	assert.InDelta(t, 125.0, s.Budget(regime.Trend), 1e-12)
	assert.InDelta(t, 87.5, s.Budget(regime.Range), 1e-12)
	assert.InDelta(t, 125.0, s.Budget(regime.Regime("unknown")), 1e-12)
}

func TestRR(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.5, RR(100, 99, 101.5), 1e-12)
	assert.Equal(t, 0.0, RR(100, 100, 101))
	assert.InDelta(t, 101.5, TargetFromR(100, 99, 1.5), 1e-12)
	assert.InDelta(t, 98.5, TargetFromR(100, 101, 1.5), 1e-12)
	assert.InDelta(t, 150.0, PlannedRisk(150, 100, 99), 1e-12)
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, MaxDrawdown(nil))
	assert.InDelta(t, -3.0, MaxDrawdown([]float64{1, -2, -1, 0.5, 2}), 1e-12)
	assert.InDelta(t, -1.5, MaxDrawdown([]float64{-1, -0.5, 3}), 1e-12)
}
