package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/intraday/backtest"
	"github.com/rustyeddy/intraday/config"
	"github.com/rustyeddy/intraday/internal/logging"
	"github.com/rustyeddy/intraday/journal"
	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/marketdata"
	"github.com/rustyeddy/intraday/metrics"
	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/scanner"
	"github.com/rustyeddy/intraday/sim"
)

const (
	ledgerFile    = "approval_log.jsonl"
	approvalsFile = "approvals.jsonl"
)

// app is everything a command needs, built once from the config.
type app struct {
	cfg  *config.Config
	sess market.Session
	log  zerolog.Logger

	data     marketdata.Provider
	calendar *marketdata.WeekdayCalendar
	universe marketdata.Universe
	sectors  map[string]string

	store     *journal.FileStore
	ledger    *journal.Ledger
	trades    *journal.TradeLog
	approvals *journal.Approvals
	metrics   *metrics.Recorder

	logCloser io.Closer
	now       func() time.Time
}

func loadConfig(rc *RootConfig) (*config.Config, error) {
	if rc.ConfigPath == "" {
		return config.Default(), nil
	}
	cfg, err := config.LoadFromFile(rc.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newApp(rc *RootConfig) (*app, error) {
	cfg, err := loadConfig(rc)
	if err != nil {
		return nil, err
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}
	log, closer, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	sess, err := cfg.MarketSession()
	if err != nil {
		closer.Close()
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		sess:      sess,
		log:       log,
		logCloser: closer,
		now:       time.Now,
		metrics:   metrics.New(),
	}

	a.data = marketdata.NewResilient(marketdata.NewCSVProvider(cfg.Data.Dir, sess, log), marketdata.ResilientConfig{
		Retries:         cfg.Data.Retries,
		Backoff:         time.Duration(cfg.Data.BackoffMillis) * time.Millisecond,
		BreakerFailures: cfg.Data.BreakerFailures,
		BreakerCooldown: time.Duration(cfg.Data.BreakerCooldown) * time.Second,
		RatePerSecond:   cfg.Data.RatePerSecond,
		Burst:           cfg.Data.Burst,
	}, log)

	open, err := market.ParseClock(cfg.Session.MarketOpen)
	if err != nil {
		closer.Close()
		return nil, err
	}
	closeAt, err := market.ParseClock(cfg.Session.MarketClose)
	if err != nil {
		closer.Close()
		return nil, err
	}
	a.calendar = marketdata.NewWeekdayCalendar(sess, open, closeAt, cfg.Data.Holidays)

	if cfg.Universe.File != "" {
		a.universe = marketdata.FileUniverse{Path: cfg.Universe.File}
	} else {
		a.universe = marketdata.StaticUniverse(cfg.Universe.Symbols)
	}
	if a.sectors, err = marketdata.LoadSectors(cfg.Universe.SectorFile, cfg.Universe.Sectors); err != nil {
		closer.Close()
		return nil, err
	}

	a.store = journal.NewFileStore(cfg.State.Dir, log)
	a.ledger = journal.NewLedger(filepath.Join(cfg.State.Dir, ledgerFile), log)
	a.approvals = journal.NewApprovals(filepath.Join(cfg.State.Dir, approvalsFile), log)
	a.trades = journal.NewTradeLog(cfg.State.LogDir, log)
	return a, nil
}

// flush stamps the command's completion and writes the metrics textfile
// when one is configured.
func (a *app) flush(command string) error {
	a.metrics.Completed(command, float64(a.now().Unix()))
	if p := a.cfg.Metrics.TextfilePath; p != "" {
		if err := a.metrics.WriteTextfile(p); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func (a *app) close() {
	if err := a.logCloser.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "close log:", err)
	}
}

// loggedTrades reads every day in the trade log, oldest first.
func (a *app) loggedTrades() ([]sim.Trade, error) {
	dates, err := a.trades.Dates()
	if err != nil {
		return nil, fmt.Errorf("list trade log: %w", err)
	}
	var out []sim.Trade
	for _, d := range dates {
		trades, _, err := a.trades.Day(d)
		if err != nil {
			return nil, err
		}
		out = append(out, trades...)
	}
	return out, nil
}

func (a *app) rollup() (metrics.Rollup, error) {
	trades, err := a.loggedTrades()
	if err != nil {
		return metrics.Rollup{}, err
	}
	return metrics.Roll(trades), nil
}

func (a *app) inPlay() *marketdata.StocksInPlay {
	f := a.cfg.Filters.StocksInPlay
	if !f.Enabled {
		return nil
	}
	return &marketdata.StocksInPlay{
		Data:     a.data,
		Calendar: a.calendar,
		Session:  a.sess,
		Params: marketdata.InPlayParams{
			LookbackDays: f.LookbackDays,
			MinRVol:      f.MinRVol,
			TopN:         f.TopN,
			Resolution:   a.resolution(),
		},
		Log: a.log,
	}
}

func (a *app) resolution() time.Duration {
	return time.Duration(a.cfg.Session.Resolution) * time.Minute
}

func (a *app) gate() (*risk.Gate, error) {
	policy, err := a.cfg.Policy()
	if err != nil {
		return nil, err
	}
	return &risk.Gate{
		Policy:  policy,
		Session: a.sess,
		State:   a.store,
		Pending: a.store,
		Sends:   a.store,
		Ledger:  a.ledger,
		Trades:  a.trades,
		Now:     a.now,
		Log:     a.log,
	}, nil
}

func (a *app) driftGuard() *risk.DriftGuard {
	return &risk.DriftGuard{
		Params:  a.cfg.DriftParams(),
		Session: a.sess,
		State:   a.store,
		Trades:  a.trades,
		Now:     a.now,
		Log:     a.log,
	}
}

func (a *app) scanner() (*scanner.Scanner, error) {
	detectors, err := a.cfg.Detectors(a.sess)
	if err != nil {
		return nil, err
	}
	gate, err := a.gate()
	if err != nil {
		return nil, err
	}
	return &scanner.Scanner{
		Session:      a.sess,
		Data:         a.data,
		Universe:     a.universe,
		Calendar:     a.calendar,
		InPlay:       a.inPlay(),
		Sectors:      a.sectors,
		Benchmark:    a.cfg.Filters.BenchmarkSymbol,
		Resolution:   a.resolution(),
		Regime:       a.cfg.RegimeParams(),
		Sizing:       a.cfg.Sizing(),
		Detectors:    detectors,
		SectorFilter: a.cfg.SectorFilter(),
		Ledger:       a.ledger,
		Gate:         gate,
		Metrics:      a.metrics,
		Workers:      a.cfg.Backtest.Workers,
		Now:          a.now,
		Log:          a.log,
	}, nil
}

func (a *app) runner() (*backtest.Runner, error) {
	detectors, err := a.cfg.Detectors(a.sess)
	if err != nil {
		return nil, err
	}
	selection, err := a.cfg.Selection()
	if err != nil {
		return nil, err
	}
	return &backtest.Runner{
		Session:         a.sess,
		Data:            a.data,
		Universe:        a.universe,
		Calendar:        a.calendar,
		Sectors:         a.sectors,
		Benchmark:       a.cfg.Filters.BenchmarkSymbol,
		Resolution:      a.resolution(),
		Regime:          a.cfg.RegimeParams(),
		Sizing:          a.cfg.Sizing(),
		Detectors:       detectors,
		SectorFilter:    a.cfg.SectorFilter(),
		Selection:       selection,
		MaxTradesPerDay: a.cfg.Backtest.MaxTradesPerDay,
		Sim:             a.cfg.SimParams(),
		Trades:          a.trades,
		Metrics:         a.metrics,
		Workers:         a.cfg.Backtest.Workers,
		Log:             a.log,
	}, nil
}

// window resolves the backtest range: explicit dates win, otherwise the
// last n trading days before today.
func (a *app) window(from, to string, n int) (time.Time, time.Time, error) {
	if from != "" || to != "" {
		if from == "" || to == "" {
			return time.Time{}, time.Time{}, errors.New("--from and --to must be given together")
		}
		start, err := a.sess.ParseDate(from)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--from: %w", err)
		}
		end, err := a.sess.ParseDate(to)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("--to: %w", err)
		}
		if end.Before(start) {
			return time.Time{}, time.Time{}, errors.New("--to is before --from")
		}
		return start, end, nil
	}
	days := marketdata.PriorTradingDays(a.calendar, a.sess, a.now(), n)
	if len(days) == 0 {
		return time.Time{}, time.Time{}, errors.New("no trading days in window")
	}
	return days[0], days[len(days)-1], nil
}
