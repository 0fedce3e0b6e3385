package risk

import (
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/trade"
)

var (
	ist  = time.FixedZone("IST", 5*3600+1800)
	sess = market.Session{Location: ist}
)

type memState struct {
	st    RiskState
	saves int
}

func (m *memState) LoadRiskState() (RiskState, error) { return m.st, nil }
func (m *memState) SaveRiskState(s RiskState) error {
	m.st = s
	m.saves++
	return nil
}

type memPending struct {
	p  PendingApproval
	ok bool
}

func (m *memPending) LoadPending() (PendingApproval, bool, error) { return m.p, m.ok, nil }
func (m *memPending) SavePending(p PendingApproval) error {
	m.p, m.ok = p, true
	return nil
}
func (m *memPending) ClearPending() error {
	m.p, m.ok = PendingApproval{}, false
	return nil
}

type memSends struct{ s SendState }

func (m *memSends) LoadSendState() (SendState, error) { return m.s, nil }
func (m *memSends) SaveSendState(s SendState) error {
	m.s = s
	return nil
}

type memLedger struct{ entries []LedgerEntry }

func (m *memLedger) Append(e LedgerEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

func (m *memLedger) SectorCounts(date string) (map[string]int, error) {
	out := map[string]int{}
	for _, e := range m.entries {
		if e.Date == date && e.Decision == Sent {
			out[e.Sector]++
		}
	}
	return out, nil
}

func (m *memLedger) last() LedgerEntry { return m.entries[len(m.entries)-1] }

// memTrades maps a date to its trades. A key with a nil slice is a logged
// day without trades.
type memTrades map[string][]sim.Trade

func (m memTrades) Day(date string) ([]sim.Trade, bool, error) {
	ts, ok := m[date]
	return ts, ok, nil
}

func pnl(xs ...float64) []sim.Trade {
	out := make([]sim.Trade, len(xs))
	for i, x := range xs {
		out[i] = sim.Trade{PnL: x}
	}
	return out
}

func outcomes(rs ...float64) []sim.Trade {
	out := make([]sim.Trade, len(rs))
	for i, r := range rs {
		out[i] = sim.Trade{R: r}
	}
	return out
}

func candidate(g trade.Grade, r regime.Regime) trade.Candidate {
	return trade.Candidate{
		Symbol:     "NSE:TCS-EQ",
		Sector:     "IT",
		Strategy:   trade.ORB,
		Side:       market.Buy,
		Entry:      100,
		Stop:       99,
		Target:     101.5,
		Qty:        150,
		RiskBudget: 125,
		Score:      2.5,
		Grade:      g,
		Regime:     r,
		TrendDir:   regime.Bull,
		EntryTime:  time.Date(2025, 1, 6, 9, 45, 0, 0, ist),
		Why:        trade.Rationale{BreakoutDistPct: 0.5, VolStrength: 2.25},
	}
}
