package sim

import (
	"fmt"
	"sort"

	"github.com/rustyeddy/intraday/trade"
)

// SelectionPolicy orders candidates when only some may be taken.
type SelectionPolicy string

const (
	// BestScore prefers the highest score. Live scans use it.
	BestScore SelectionPolicy = "best_score"
	// EarliestSignal prefers the earliest entry time. Backtests use it.
	EarliestSignal SelectionPolicy = "earliest_signal"
)

func ParseSelectionPolicy(s string) (SelectionPolicy, error) {
	switch SelectionPolicy(s) {
	case BestScore, EarliestSignal:
		return SelectionPolicy(s), nil
	}
	return "", fmt.Errorf("unknown selection policy %q", s)
}

// Select returns up to limit candidates ordered by policy. Ties are broken by
// symbol so the result does not depend on input order. limit <= 0 keeps all.
func Select(policy SelectionPolicy, cands []trade.Candidate, limit int) []trade.Candidate {
	out := append([]trade.Candidate(nil), cands...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch policy {
		case EarliestSignal:
			if !a.EntryTime.Equal(b.EntryTime) {
				return a.EntryTime.Before(b.EntryTime)
			}
			if a.Score != b.Score {
				return a.Score > b.Score
			}
		default:
			if a.Score != b.Score {
				return a.Score > b.Score
			}
			if !a.EntryTime.Equal(b.EntryTime) {
				return a.EntryTime.Before(b.EntryTime)
			}
		}
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		return a.Strategy < b.Strategy
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Best returns the single top candidate under policy.
func Best(policy SelectionPolicy, cands []trade.Candidate) (trade.Candidate, bool) {
	sel := Select(policy, cands, 1)
	if len(sel) == 0 {
		return trade.Candidate{}, false
	}
	return sel[0], true
}
