package risk

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/trade"
)

const stampLayout = "2006-01-02 15:04:05"

// Gate decides whether the best live candidate is sent for approval.
// It is single writer over the stores it holds.
type Gate struct {
	Policy  Policy
	Session market.Session

	State   StateStore
	Pending PendingStore
	Sends   SendStateStore
	Ledger  Ledger
	Trades  TradeLog

	Now func() time.Time
	Log zerolog.Logger
}

// GateResult is what happened to one candidate. Message is set only when
// the outcome is Sent.
type GateResult struct {
	Outcome    Outcome
	ApprovalID string
	Reason     string
	Message    string
	Pending    PendingApproval
}

func (g *Gate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// DayStats loads today's trade log summary.
func (g *Gate) DayStats(today string) (DayStats, error) {
	if g.Trades == nil {
		return DayStats{}, nil
	}
	trades, _, err := g.Trades.Day(today)
	if err != nil {
		return DayStats{}, fmt.Errorf("load trades for %s: %w", today, err)
	}
	return DayStatsFrom(trades), nil
}

// Process runs c through the checks and, when it passes, through cooldown
// and same-day dedup before saving it as the pending approval. Every
// outcome is appended to the ledger.
func (g *Gate) Process(c trade.Candidate) (GateResult, error) {
	now := g.now()
	today := g.Session.DateKey(now)

	st, err := g.State.LoadRiskState()
	if err != nil {
		return GateResult{}, fmt.Errorf("load risk state: %w", err)
	}
	day, err := g.DayStats(today)
	if err != nil {
		return GateResult{}, err
	}

	id := ApprovalID(c, g.Session)
	log := g.Log.With().Str("symbol", c.Symbol).Str("approval_id", id).Logger()

	dec := Evaluate(g.Policy, c, day, st, today)
	if !dec.Allowed {
		v := dec.Violations[0]
		log.Info().Str("decision", string(v.Code)).Str("reason", v.Msg).Msg("candidate blocked")
		return g.record(c, id, now, v.Code, v.Msg)
	}

	ss, err := g.Sends.LoadSendState()
	if err != nil {
		return GateResult{}, fmt.Errorf("load send state: %w", err)
	}
	if !ss.LastSent.IsZero() && now.Sub(ss.LastSent) < g.Policy.Cooldown {
		msg := fmt.Sprintf("last approval sent %s ago", now.Sub(ss.LastSent).Round(time.Second))
		log.Info().Str("decision", string(SuppressedCooldown)).Msg(msg)
		return g.record(c, id, now, SuppressedCooldown, msg)
	}
	if ss.LastKey == id && ss.LastDate == today {
		log.Info().Str("decision", string(SuppressedDuplicate)).Msg("already sent today")
		return g.record(c, id, now, SuppressedDuplicate, "already sent today")
	}

	if err := g.Sends.SaveSendState(SendState{LastDate: today, LastKey: id, LastSent: now}); err != nil {
		return GateResult{}, fmt.Errorf("save send state: %w", err)
	}

	expires := g.Session.In(now.Add(g.Policy.ApprovalExpiry))
	p := PendingApproval{
		ApprovalID: id,
		CreatedAt:  g.Session.Local(now, stampLayout),
		Symbol:     c.Symbol,
		Strategy:   c.Strategy,
		Side:       c.Side.String(),
		EntryTime:  g.Session.Local(c.EntryTime, "2006-01-02 15:04"),
		Entry:      c.Entry,
		Stop:       c.Stop,
		Target:     c.Target,
		Qty:        c.Qty,
		ExpiresAt:  g.Session.Local(expires, stampLayout),
	}
	if err := g.Pending.SavePending(p); err != nil {
		return GateResult{}, fmt.Errorf("save pending approval: %w", err)
	}

	res, err := g.record(c, id, now, Sent, "")
	if err != nil {
		return res, err
	}
	res.Pending = p
	res.Message = FormatApproval(c, id, expires)
	log.Info().
		Str("grade", c.Grade.String()).
		Float64("score", c.Score).
		Float64("planned_risk", dec.PlannedRisk).
		Msg("approval sent")
	return res, nil
}

func (g *Gate) record(c trade.Candidate, id string, now time.Time, o Outcome, reason string) (GateResult, error) {
	e := LedgerEntry{
		Time:       now.UTC(),
		Date:       g.Session.DateKey(now),
		ApprovalID: id,
		Symbol:     c.Symbol,
		Sector:     c.Sector,
		Strategy:   c.Strategy,
		Side:       c.Side.String(),
		Grade:      c.Grade.String(),
		Score:      c.Score,
		Regime:     string(c.Regime),
		TrendDir:   string(c.TrendDir),
		Decision:   o,
		Entry:      c.Entry,
		Stop:       c.Stop,
		Target:     c.Target,
	}
	if err := g.Ledger.Append(e); err != nil {
		return GateResult{}, fmt.Errorf("append ledger: %w", err)
	}
	return GateResult{Outcome: o, ApprovalID: id, Reason: reason}, nil
}
