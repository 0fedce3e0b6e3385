package journal

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/intraday/risk"
)

const (
	riskStateFile = "risk_state.json"
	pendingFile   = "pending_approval.json"
	sendStateFile = "last_approval.json"
)

// FileStore keeps the gate's single-record state files in Dir. A missing
// or corrupt file loads as the zero record.
type FileStore struct {
	Dir string
	Log zerolog.Logger
}

func NewFileStore(dir string, log zerolog.Logger) *FileStore {
	return &FileStore{Dir: dir, Log: log}
}

func (s *FileStore) path(name string) string { return filepath.Join(s.Dir, name) }

// load reads name into v, downgrading corruption to a warning.
func (s *FileStore) load(name string, v any) (bool, error) {
	found, err := readJSON(s.path(name), v)
	if errors.Is(err, errCorrupt) {
		s.Log.Warn().Err(err).Str("file", name).Msg("ignoring corrupt state, starting fresh")
		return false, nil
	}
	return found, err
}

func (s *FileStore) LoadRiskState() (risk.RiskState, error) {
	var st risk.RiskState
	if _, err := s.load(riskStateFile, &st); err != nil {
		return risk.RiskState{}, err
	}
	return st, nil
}

func (s *FileStore) SaveRiskState(st risk.RiskState) error {
	return writeJSONAtomic(s.path(riskStateFile), st)
}

func (s *FileStore) LoadPending() (risk.PendingApproval, bool, error) {
	var p risk.PendingApproval
	found, err := s.load(pendingFile, &p)
	if err != nil || !found {
		return risk.PendingApproval{}, false, err
	}
	return p, true, nil
}

func (s *FileStore) SavePending(p risk.PendingApproval) error {
	return writeJSONAtomic(s.path(pendingFile), p)
}

func (s *FileStore) ClearPending() error {
	err := os.Remove(s.path(pendingFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) LoadSendState() (risk.SendState, error) {
	var ss risk.SendState
	if _, err := s.load(sendStateFile, &ss); err != nil {
		return risk.SendState{}, err
	}
	return ss, nil
}

func (s *FileStore) SaveSendState(ss risk.SendState) error {
	return writeJSONAtomic(s.path(sendStateFile), ss)
}
