package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/strategies"
)

// appendJSONL appends each record as one JSON line.
func appendJSONL[T any](path string, recs ...T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			f.Close()
			return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readJSONL decodes every line of path. Lines that fail to decode are
// skipped with a warning. found is false when the file does not exist.
func readJSONL[T any](path string, log zerolog.Logger) (out []T, found bool, err error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if len(sc.Bytes()) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(sc.Bytes(), &v); err != nil {
			log.Warn().Err(err).Str("file", filepath.Base(path)).Int("line", line).Msg("skipping bad record")
			continue
		}
		out = append(out, v)
	}
	return out, true, sc.Err()
}

// Ledger is the append-only approval decision log.
type Ledger struct {
	Path string
	Log  zerolog.Logger
}

func NewLedger(path string, log zerolog.Logger) *Ledger {
	return &Ledger{Path: path, Log: log}
}

func (l *Ledger) Append(e risk.LedgerEntry) error {
	return appendJSONL(l.Path, e)
}

func (l *Ledger) Entries() ([]risk.LedgerEntry, error) {
	out, _, err := readJSONL[risk.LedgerEntry](l.Path, l.Log)
	return out, err
}

// SectorCounts counts today's sent entries per sector. Entries without a
// sector count as unknown.
func (l *Ledger) SectorCounts(date string) (map[string]int, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, e := range entries {
		if e.Date != date || e.Decision != risk.Sent {
			continue
		}
		sector := e.Sector
		if sector == "" {
			sector = strategies.UnknownSector
		}
		counts[sector]++
	}
	return counts, nil
}

// Approvals is the operator decision history.
type Approvals struct {
	Path string
	Log  zerolog.Logger
}

func NewApprovals(path string, log zerolog.Logger) *Approvals {
	return &Approvals{Path: path, Log: log}
}

func (a *Approvals) AppendDecision(d risk.ApprovalDecision) error {
	return appendJSONL(a.Path, d)
}

func (a *Approvals) Decisions() ([]risk.ApprovalDecision, error) {
	out, _, err := readJSONL[risk.ApprovalDecision](a.Path, a.Log)
	return out, err
}
