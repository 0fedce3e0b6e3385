package risk

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNoPending = errors.New("no pending approval")

// Resolve records the operator's YES or NO for the pending approval and
// clears it.
func Resolve(p PendingStore, h DecisionLog, decision, source string, now time.Time) (PendingApproval, error) {
	decision = strings.ToUpper(strings.TrimSpace(decision))
	if decision != "YES" && decision != "NO" {
		return PendingApproval{}, fmt.Errorf("decision must be YES or NO, got %q", decision)
	}

	pending, ok, err := p.LoadPending()
	if err != nil {
		return PendingApproval{}, fmt.Errorf("load pending approval: %w", err)
	}
	if !ok {
		return PendingApproval{}, ErrNoPending
	}

	rec := ApprovalDecision{
		Time:       now.Format(stampLayout),
		ApprovalID: pending.ApprovalID,
		Decision:   decision,
		Source:     source,
	}
	if err := h.AppendDecision(rec); err != nil {
		return pending, fmt.Errorf("record decision: %w", err)
	}
	if err := p.ClearPending(); err != nil {
		return pending, fmt.Errorf("clear pending approval: %w", err)
	}
	return pending, nil
}
