// Package scanner runs one live tick: classify the day, run the active
// detectors over the universe, apply the sector cap and hand the best
// candidate to the risk gate.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/marketdata"
	"github.com/rustyeddy/intraday/metrics"
	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/strategies"
	"github.com/rustyeddy/intraday/trade"
)

// Skip reasons for a tick that did not reach the gate.
const (
	SkipMarketClosed  = "market_closed"
	SkipOutsideWindow = "outside_entry_window"
	SkipNoCandidates  = "no_candidates"
	SkipSectorCap     = "sector_cap"
)

type Scanner struct {
	Session    market.Session
	Data       marketdata.Provider
	Universe   marketdata.Universe
	Calendar   marketdata.Calendar // nil treats every day as a trading day
	InPlay     *marketdata.StocksInPlay
	Sectors    map[string]string
	Benchmark  string
	Resolution time.Duration

	Regime       regime.Params
	Sizing       risk.Sizing
	Detectors    []strategies.Detector
	SectorFilter strategies.SectorFilter
	Ledger       risk.Ledger
	Gate         *risk.Gate

	Metrics *metrics.Recorder
	Workers int
	Now     func() time.Time
	Log     zerolog.Logger
}

// TickResult describes one tick. Gate is set only when a candidate reached
// the risk gate; otherwise Skipped names why not.
type TickResult struct {
	Date       string
	Regime     regime.Result
	Candidates []trade.Candidate
	Best       trade.Candidate
	Gate       *risk.GateResult
	Skipped    string
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scanner) resolution() time.Duration {
	if s.Resolution <= 0 {
		return 5 * time.Minute
	}
	return s.Resolution
}

// Tick evaluates the universe as of now. Symbols without data abstain;
// only context cancellation, universe and persistence failures are errors.
func (s *Scanner) Tick(ctx context.Context) (TickResult, error) {
	now := s.now()
	res := TickResult{Date: s.Session.DateKey(now)}

	if s.Calendar != nil && !s.Calendar.IsTradingDay(now) {
		res.Skipped = SkipMarketClosed
		return res, nil
	}
	if now.Before(s.Session.At(now, s.Session.EntryStart)) || now.After(s.Session.At(now, s.Session.EntryEnd)) {
		res.Skipped = SkipOutsideWindow
		return res, nil
	}

	bench, err := s.bars(ctx, s.Benchmark, now)
	if err != nil {
		return res, err
	}
	res.Regime = regime.Classify(s.Session, now, bench, s.Regime)
	budget := s.Sizing.Budget(res.Regime.Regime)
	log := s.Log.With().Str("date", res.Date).Str("regime", string(res.Regime.Regime)).Logger()
	log.Info().Str("trend_dir", string(res.Regime.TrendDir)).Float64("budget", budget).Str("note", res.Regime.Note).Msg("regime")

	symbols, err := s.symbols(ctx, now)
	if err != nil {
		return res, err
	}

	cands, err := s.detect(ctx, symbols, strategies.Input{
		Day:        s.Session.Day(now),
		AsOf:       now,
		Mode:       strategies.Live,
		Regime:     res.Regime,
		RiskBudget: budget,
		Benchmark:  bench,
	})
	if err != nil {
		return res, err
	}
	if len(cands) == 0 {
		res.Skipped = SkipNoCandidates
		log.Info().Int("symbols", len(symbols)).Msg("no candidates")
		return res, nil
	}

	counts := map[string]int{}
	if s.Ledger != nil {
		if counts, err = s.Ledger.SectorCounts(res.Date); err != nil {
			return res, fmt.Errorf("sector counts: %w", err)
		}
	}
	res.Candidates = s.SectorFilter.Accept(sim.Select(sim.BestScore, cands, 0), counts)
	if len(res.Candidates) == 0 {
		res.Skipped = SkipSectorCap
		log.Info().Int("candidates", len(cands)).Msg("all candidates over sector cap")
		return res, nil
	}

	res.Best = res.Candidates[0]
	gr, err := s.Gate.Process(res.Best)
	if err != nil {
		return res, err
	}
	res.Gate = &gr
	if s.Metrics != nil {
		s.Metrics.Decision(gr.Outcome)
	}
	return res, nil
}

// SwingScan runs the swing detector on daily bars for every symbol and
// returns its signals ordered by score.
func (s *Scanner) SwingScan(ctx context.Context, d *strategies.Swing, lookbackDays int) ([]trade.Candidate, error) {
	now := s.now()
	symbols, err := s.symbols(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	var out []trade.Candidate
	for _, sym := range symbols {
		bars, err := s.Data.DailyBars(ctx, sym, now, lookbackDays)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.dataError(sym, err)
			continue
		}
		c, ok := d.Detect(strategies.Input{
			Symbol:     sym,
			Sector:     s.sector(sym),
			Candles:    bars,
			Day:        s.Session.Day(now),
			AsOf:       now,
			Mode:       strategies.Live,
			RiskBudget: s.Sizing.RPerTrade,
		})
		if ok {
			s.candidate(c)
			out = append(out, c)
		}
	}
	return sim.Select(sim.BestScore, out, 0), nil
}

// detect fans symbols out over a bounded worker pool. Results are gathered
// by symbol index so the output order never depends on scheduling.
func (s *Scanner) detect(ctx context.Context, symbols []string, base strategies.Input) ([]trade.Candidate, error) {
	found := make([][]trade.Candidate, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	workers := s.Workers
	if workers <= 0 {
		workers = 4
	}
	g.SetLimit(workers)

	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			bars, err := s.bars(gctx, sym, base.AsOf)
			if err != nil {
				return err
			}
			if len(bars) == 0 {
				s.Log.Debug().Str("symbol", sym).Msg("no bars")
				return nil
			}
			in := base
			in.Symbol, in.Sector, in.Candles = sym, s.sector(sym), bars
			for _, d := range s.Detectors {
				if !d.Active(in.Regime) {
					continue
				}
				if c, ok := d.Detect(in); ok {
					s.candidate(c)
					found[i] = append(found[i], c)
				} else {
					s.Log.Debug().Str("symbol", sym).Str("strategy", string(d.Name())).Msg("abstain")
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []trade.Candidate
	for _, cs := range found {
		out = append(out, cs...)
	}
	return out, nil
}

// bars fetches one day of bars. Data failures abstain with an empty slice.
func (s *Scanner) bars(ctx context.Context, sym string, day time.Time) ([]market.Candle, error) {
	bars, err := s.Data.Bars(ctx, sym, day, s.resolution())
	if err == nil {
		return bars, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	s.dataError(sym, err)
	return nil, nil
}

func (s *Scanner) dataError(sym string, err error) {
	s.Log.Warn().Err(err).Str("symbol", sym).Msg("market data unavailable")
	if s.Metrics != nil {
		kind := "no_data"
		if errors.Is(err, marketdata.ErrUnavailable) {
			kind = "unavailable"
		}
		s.Metrics.DataError(kind)
	}
}

func (s *Scanner) candidate(c trade.Candidate) {
	s.Log.Info().
		Str("symbol", c.Symbol).
		Str("strategy", string(c.Strategy)).
		Str("side", c.Side.String()).
		Str("grade", c.Grade.String()).
		Float64("score", c.Score).
		Msg("candidate")
	if s.Metrics != nil {
		s.Metrics.Candidate(c)
	}
}

func (s *Scanner) symbols(ctx context.Context, day time.Time) ([]string, error) {
	syms, err := s.Universe.Symbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}
	if s.InPlay == nil || day.IsZero() {
		return syms, nil
	}
	kept, err := s.InPlay.Filter(ctx, syms, day)
	if err != nil {
		return nil, fmt.Errorf("stocks in play: %w", err)
	}
	s.Log.Info().Int("universe", len(syms)).Int("in_play", len(kept)).Msg("stocks in play")
	return kept, nil
}

func (s *Scanner) sector(sym string) string {
	if sec, ok := s.Sectors[sym]; ok {
		return sec
	}
	return strategies.UnknownSector
}
