package trade

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/regime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeThresholds(t *testing.T) {
	g := DefaultGradeThresholds()
	assert.Equal(t, GradeAPlus, g.Grade(2.0))
	assert.Equal(t, GradeA, g.Grade(1.2))
	assert.Equal(t, GradeA, g.Grade(1.99))
	assert.Equal(t, GradeB, g.Grade(1.19))
	assert.True(t, GradeB < GradeA && GradeA < GradeAPlus)
}

func TestParseGrade(t *testing.T) {
	tests := map[string]Grade{"A+": GradeAPlus, "a": GradeA, " b ": GradeB}
	for in, want := range tests {
		got, err := ParseGrade(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseGrade("C")
	assert.Error(t, err)
}

func TestCandidateValidate(t *testing.T) {
	long := Candidate{Symbol: "X", Side: market.Buy, Entry: 100, Stop: 99, Target: 101.5, Qty: 10}
	require.NoError(t, long.Validate())
	assert.InDelta(t, 1.5, long.RR(), 1e-12)

	bad := long
	bad.Stop = 100.5
	assert.Error(t, bad.Validate())

	bad = long
	bad.Qty = 0
	assert.Error(t, bad.Validate())

	short := Candidate{Symbol: "X", Side: market.Sell, Entry: 100, Stop: 101, Target: 98.5, Qty: 1}
	assert.NoError(t, short.Validate())
}

func TestCandidateJSON(t *testing.T) {
	c := Candidate{
		Symbol:    "NSE:TCS-EQ",
		Strategy:  ORB,
		Side:      market.Sell,
		Grade:     GradeAPlus,
		Regime:    regime.Trend,
		TrendDir:  regime.Bear,
		EntryTime: time.Date(2025, 1, 6, 4, 20, 0, 0, time.UTC),
	}
	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"side":"SELL"`)
	assert.Contains(t, string(b), `"grade":"A+"`)

	var back Candidate
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, c, back)
}

func TestDisplaySymbol(t *testing.T) {
	assert.Equal(t, "TCS", DisplaySymbol("NSE:TCS-EQ"))
	assert.Equal(t, "NIFTY50-INDEX", DisplaySymbol("NSE:NIFTY50-INDEX"))
}
