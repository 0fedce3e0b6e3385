package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/intraday/sim"
)

const tradeLogPrefix = "trades_"

// TradeLog keeps one JSONL file of simulated trades per trading day.
// An empty file marks a day that ran without trades.
type TradeLog struct {
	Dir string
	Log zerolog.Logger
}

func NewTradeLog(dir string, log zerolog.Logger) *TradeLog {
	return &TradeLog{Dir: dir, Log: log}
}

func (l *TradeLog) path(date string) string {
	return filepath.Join(l.Dir, tradeLogPrefix+date+".jsonl")
}

// Append adds trades to date's log, creating it if needed. Appending no
// trades marks the day as logged.
func (l *TradeLog) Append(date string, trades ...sim.Trade) error {
	if err := appendJSONL(l.path(date), trades...); err != nil {
		return fmt.Errorf("trade log %s: %w", date, err)
	}
	return nil
}

// Reset removes date's log so a rerun does not double count.
func (l *TradeLog) Reset(date string) error {
	err := os.Remove(l.path(date))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (l *TradeLog) Day(date string) ([]sim.Trade, bool, error) {
	return readJSONL[sim.Trade](l.path(date), l.Log)
}

// Dates lists logged days in ascending order.
func (l *TradeLog) Dates() ([]string, error) {
	ents, err := os.ReadDir(l.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, tradeLogPrefix) || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		out = append(out, strings.TrimSuffix(strings.TrimPrefix(name, tradeLogPrefix), ".jsonl"))
	}
	sort.Strings(out)
	return out, nil
}
