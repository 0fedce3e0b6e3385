package risk

import (
	"time"

	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/trade"
)

// RiskState is written by the drift guard and read by the gate. Dates are
// exchange-local YYYY-MM-DD.
type RiskState struct {
	PausedUntil  string  `json:"paused_until,omitempty"`
	Reason       string  `json:"reason,omitempty"`
	AvgR         float64 `json:"avg_r"`
	MaxDrawdownR float64 `json:"max_drawdown_r"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
}

// Paused reports whether today falls on or before PausedUntil.
func (s RiskState) Paused(today string) bool {
	return s.PausedUntil != "" && today <= s.PausedUntil
}

// PendingApproval is the last sent candidate awaiting a reply.
type PendingApproval struct {
	ApprovalID string         `json:"approval_id"`
	CreatedAt  string         `json:"created_at_ist"`
	Symbol     string         `json:"symbol"`
	Strategy   trade.Strategy `json:"strategy"`
	Side       string         `json:"side"`
	EntryTime  string         `json:"entry_ts_ist"`
	Entry      float64        `json:"entry"`
	Stop       float64        `json:"stop"`
	Target     float64        `json:"target"`
	Qty        int64          `json:"qty"`
	ExpiresAt  string         `json:"expires_at_ist"`
}

// SendState remembers the last approval sent, for cooldown and dedup.
type SendState struct {
	LastDate string    `json:"last_date,omitempty"`
	LastKey  string    `json:"last_key,omitempty"`
	LastSent time.Time `json:"last_sent,omitempty"`
}

// LedgerEntry records one gate decision.
type LedgerEntry struct {
	Time       time.Time      `json:"ts"`
	Date       string         `json:"date"`
	ApprovalID string         `json:"approval_id,omitempty"`
	Symbol     string         `json:"symbol"`
	Sector     string         `json:"sector,omitempty"`
	Strategy   trade.Strategy `json:"strategy"`
	Side       string         `json:"side"`
	Grade      string         `json:"grade"`
	Score      float64        `json:"score"`
	Regime     string         `json:"regime"`
	TrendDir   string         `json:"trend_dir"`
	Decision   Outcome        `json:"decision"`
	Entry      float64        `json:"entry"`
	Stop       float64        `json:"stop"`
	Target     float64        `json:"target"`
}

// ApprovalDecision is the operator's reply to a pending approval.
type ApprovalDecision struct {
	Time       string `json:"ts_ist"`
	ApprovalID string `json:"approval_id"`
	Decision   string `json:"decision"`
	Source     string `json:"source"`
}

type StateStore interface {
	LoadRiskState() (RiskState, error)
	SaveRiskState(RiskState) error
}

type PendingStore interface {
	LoadPending() (PendingApproval, bool, error)
	SavePending(PendingApproval) error
	ClearPending() error
}

type SendStateStore interface {
	LoadSendState() (SendState, error)
	SaveSendState(SendState) error
}

type Ledger interface {
	Append(LedgerEntry) error
	// SectorCounts counts sent entries per sector on date.
	SectorCounts(date string) (map[string]int, error)
}

// TradeLog reads the per-day simulated trade log. logged is false when no
// log exists for date; a logged day may hold no trades.
type TradeLog interface {
	Day(date string) (trades []sim.Trade, logged bool, err error)
}

type DecisionLog interface {
	AppendDecision(ApprovalDecision) error
}
