package sim

import (
	"testing"

	"github.com/rustyeddy/intraday/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cands() []trade.Candidate {
	return []trade.Candidate{
		{Symbol: "C", Score: 10, EntryTime: at(3)},
		{Symbol: "A", Score: 30, EntryTime: at(5)},
		{Symbol: "B", Score: 30, EntryTime: at(5)},
		{Symbol: "D", Score: 5, EntryTime: at(1)},
	}
}

func symbols(cs []trade.Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Symbol
	}
	return out
}

func TestSelect(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"A", "B", "C", "D"}, symbols(Select(BestScore, cands(), 0)))
	assert.Equal(t, []string{"D", "C", "A", "B"}, symbols(Select(EarliestSignal, cands(), 0)))
	assert.Equal(t, []string{"D"}, symbols(Select(EarliestSignal, cands(), 1)))
}

func TestSelect_OrderIndependent(t *testing.T) {
	t.Parallel()

	in := cands()
	rev := make([]trade.Candidate, len(in))
	for i := range in {
		rev[len(in)-1-i] = in[i]
	}
	assert.Equal(t, symbols(Select(BestScore, in, 0)), symbols(Select(BestScore, rev, 0)))
	assert.Equal(t, symbols(Select(EarliestSignal, in, 0)), symbols(Select(EarliestSignal, rev, 0)))
}

func TestBest(t *testing.T) {
	t.Parallel()

	c, ok := Best(BestScore, cands())
	require.True(t, ok)
	assert.Equal(t, "A", c.Symbol)

	_, ok = Best(BestScore, nil)
	assert.False(t, ok)
}

func TestParseSelectionPolicy(t *testing.T) {
	t.Parallel()

	p, err := ParseSelectionPolicy("earliest_signal")
	require.NoError(t, err)
	assert.Equal(t, EarliestSignal, p)

	_, err = ParseSelectionPolicy("random")
	assert.Error(t, err)
}
