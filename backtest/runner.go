// Package backtest replays past trading days through the detectors and the
// trade simulator, one portfolio decision per day.
package backtest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/intraday/internal/id"
	"github.com/rustyeddy/intraday/journal"
	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/marketdata"
	"github.com/rustyeddy/intraday/metrics"
	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/strategies"
	"github.com/rustyeddy/intraday/trade"
)

// TradeSink receives each day's simulated trades. A day is reset before it
// is appended so reruns replace rather than duplicate it.
type TradeSink interface {
	Reset(date string) error
	Append(date string, trades ...sim.Trade) error
}

// Runner drives days through detection, sector cap, selection and
// simulation.
type Runner struct {
	Session    market.Session
	Data       marketdata.Provider
	Universe   marketdata.Universe
	Calendar   marketdata.Calendar // nil treats weekdays and weekends alike
	Sectors    map[string]string
	Benchmark  string
	Resolution time.Duration

	Regime          regime.Params
	Sizing          risk.Sizing
	Detectors       []strategies.Detector
	SectorFilter    strategies.SectorFilter
	Selection       sim.SelectionPolicy
	MaxTradesPerDay int
	Sim             sim.Params

	Trades  TradeSink       // optional
	Journal journal.Journal // optional
	Metrics *metrics.Recorder
	Workers int
	Log     zerolog.Logger
}

// DayResult is one replayed day.
type DayResult struct {
	Date       string
	Regime     regime.Result
	Candidates int
	Trades     []sim.Trade
}

func (r *Runner) resolution() time.Duration {
	if r.Resolution <= 0 {
		return 5 * time.Minute
	}
	return r.Resolution
}

// RunDay replays day. Symbols without data abstain; a day without a
// benchmark still runs under the range fallback.
func (r *Runner) RunDay(ctx context.Context, day time.Time, symbols []string) (DayResult, error) {
	day = r.Session.Day(day)
	res := DayResult{Date: r.Session.DateKey(day)}
	log := r.Log.With().Str("date", res.Date).Logger()

	bench, err := r.bars(ctx, r.Benchmark, day)
	if err != nil {
		return res, err
	}
	res.Regime = regime.Classify(r.Session, day, bench, r.Regime)
	budget := r.Sizing.Budget(res.Regime.Regime)

	type found struct {
		cand trade.Candidate
		bars []market.Candle
	}
	perSymbol := make([][]found, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Workers, 1))
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			bars, err := r.bars(gctx, sym, day)
			if err != nil || len(bars) == 0 {
				return err
			}
			in := strategies.Input{
				Symbol:     sym,
				Sector:     r.sector(sym),
				Candles:    bars,
				Day:        day,
				Mode:       strategies.Backtest,
				Regime:     res.Regime,
				RiskBudget: budget,
				Benchmark:  bench,
			}
			for _, d := range r.Detectors {
				if !d.Active(res.Regime) {
					continue
				}
				if c, ok := d.Detect(in); ok {
					perSymbol[i] = append(perSymbol[i], found{cand: c, bars: bars})
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return res, err
	}

	var cands []trade.Candidate
	barsFor := map[string][]market.Candle{}
	for _, fs := range perSymbol {
		for _, f := range fs {
			cands = append(cands, f.cand)
			barsFor[f.cand.Symbol] = f.bars
		}
	}
	res.Candidates = len(cands)

	ordered := sim.Select(r.Selection, cands, 0)
	accepted := r.SectorFilter.Accept(ordered, map[string]int{})
	if r.MaxTradesPerDay > 0 && len(accepted) > r.MaxTradesPerDay {
		accepted = accepted[:r.MaxTradesPerDay]
	}

	for _, c := range accepted {
		t, ok := sim.Simulate(c, through(barsFor[c.Symbol], r.timeExit(day, c.Strategy)), r.Sim)
		if !ok {
			log.Debug().Str("symbol", c.Symbol).Msg("candidate not simulated")
			continue
		}
		res.Trades = append(res.Trades, t)
		if r.Metrics != nil {
			r.Metrics.Trade(t)
		}
	}

	log.Info().
		Str("regime", string(res.Regime.Regime)).
		Int("candidates", res.Candidates).
		Int("trades", len(res.Trades)).
		Msg("day replayed")

	if r.Trades != nil {
		if err := r.Trades.Reset(res.Date); err != nil {
			return res, fmt.Errorf("reset trade log %s: %w", res.Date, err)
		}
		if err := r.Trades.Append(res.Date, res.Trades...); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Run replays every trading day from..to inclusive and records the run in
// the journal when one is set.
func (r *Runner) Run(ctx context.Context, from, to time.Time) (Result, error) {
	if r.Data == nil || r.Universe == nil {
		return Result{}, errors.New("backtest: Data and Universe are required")
	}
	if len(r.Detectors) == 0 {
		return Result{}, errors.New("backtest: no detectors enabled")
	}
	symbols, err := r.Universe.Symbols(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load universe: %w", err)
	}

	res := Result{
		RunID:     id.New(),
		Start:     r.Session.Day(from),
		End:       r.Session.Day(to),
		Strategy:  r.strategyNames(),
		Selection: r.Selection,
	}
	for _, day := range r.days(from, to) {
		dr, err := r.RunDay(ctx, day, symbols)
		if err != nil {
			return res, err
		}
		res.Days = append(res.Days, dr)
	}
	res.summarize()

	if r.Journal != nil {
		for _, dr := range res.Days {
			for _, t := range dr.Trades {
				if err := r.Journal.RecordTrade(ctx, res.RunID, t); err != nil {
					return res, err
				}
			}
		}
		if err := r.Journal.RecordRun(ctx, res.Run()); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (r *Runner) days(from, to time.Time) []time.Time {
	if r.Calendar != nil {
		return marketdata.TradingDays(r.Calendar, r.Session, from, to)
	}
	var out []time.Time
	end := r.Session.Day(to)
	for d := r.Session.Day(from); !d.After(end); d = r.Session.Day(d.AddDate(0, 0, 1)) {
		out = append(out, d)
	}
	return out
}

func (r *Runner) strategyNames() string {
	names := make([]string, 0, len(r.Detectors))
	for _, d := range r.Detectors {
		names = append(names, string(d.Name()))
	}
	return strings.Join(names, ",")
}

func (r *Runner) bars(ctx context.Context, sym string, day time.Time) ([]market.Candle, error) {
	bars, err := r.Data.Bars(ctx, sym, day, r.resolution())
	if err == nil {
		return bars, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	r.Log.Warn().Err(err).Str("symbol", sym).Msg("market data unavailable")
	if r.Metrics != nil {
		r.Metrics.DataError("no_data")
	}
	return nil, nil
}

func (r *Runner) sector(sym string) string {
	if sec, ok := r.Sectors[sym]; ok {
		return sec
	}
	return strategies.UnknownSector
}

// timeExit is when open trades of strategy are closed on day.
func (r *Runner) timeExit(day time.Time, strategy trade.Strategy) time.Time {
	for _, d := range r.Detectors {
		if te, ok := d.(strategies.TimeExiter); ok && d.Name() == strategy {
			return te.TimeExit(day)
		}
	}
	return r.Session.Until(day, r.Session.TradeEnd)
}

// through keeps bars at or before end.
func through(bars []market.Candle, end time.Time) []market.Candle {
	bars, _ = market.Clean(bars)
	i := market.IndexAtOrBefore(bars, end)
	if i < 0 {
		return nil
	}
	return bars[:i+1]
}
