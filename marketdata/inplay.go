package marketdata

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/intraday/market"
)

type InPlayParams struct {
	LookbackDays int
	MinRVol      float64
	TopN         int // 0 keeps every qualifying symbol
	Resolution   time.Duration
}

func DefaultInPlayParams() InPlayParams {
	return InPlayParams{LookbackDays: 14, MinRVol: 1.5, TopN: 20, Resolution: 5 * time.Minute}
}

type InPlay struct {
	Symbol string  `json:"symbol"`
	RVol   float64 `json:"rvol"`
}

// StocksInPlay ranks symbols by opening-bar relative volume: the first bar's
// volume on day over the mean first-bar volume of prior trading days.
type StocksInPlay struct {
	Data     Provider
	Calendar Calendar
	Session  market.Session
	Params   InPlayParams
	Log      zerolog.Logger
}

// OpenRVol returns false when day has no bars or no prior day has a
// positive first-bar volume.
func (s *StocksInPlay) OpenRVol(ctx context.Context, symbol string, day time.Time) (float64, bool, error) {
	today, ok, err := s.firstVolume(ctx, symbol, day)
	if err != nil || !ok {
		return 0, false, err
	}

	var sum float64
	var n int
	for _, d := range PriorTradingDays(s.Calendar, s.Session, day, s.Params.LookbackDays) {
		v, ok, err := s.firstVolume(ctx, symbol, d)
		if err != nil {
			return 0, false, err
		}
		if ok && v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 || sum <= 0 {
		return 0, false, nil
	}
	return today / (sum / float64(n)), true, nil
}

func (s *StocksInPlay) firstVolume(ctx context.Context, symbol string, day time.Time) (float64, bool, error) {
	bars, err := s.Data.Bars(ctx, symbol, day, s.Params.Resolution)
	if err != nil {
		if Abstain(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	bars, _ = market.Clean(bars)
	if len(bars) == 0 {
		return 0, false, nil
	}
	return bars[0].Volume, true, nil
}

// Rank returns qualifying symbols by descending RVOL, ties by symbol.
func (s *StocksInPlay) Rank(ctx context.Context, symbols []string, day time.Time) ([]InPlay, error) {
	var ranked []InPlay
	for _, sym := range symbols {
		rv, ok, err := s.OpenRVol(ctx, sym, day)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.Log.Debug().Str("symbol", sym).Msg("no opening rvol")
			continue
		}
		if rv >= s.Params.MinRVol {
			ranked = append(ranked, InPlay{Symbol: sym, RVol: rv})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RVol != ranked[j].RVol {
			return ranked[i].RVol > ranked[j].RVol
		}
		return ranked[i].Symbol < ranked[j].Symbol
	})
	if s.Params.TopN > 0 && len(ranked) > s.Params.TopN {
		ranked = ranked[:s.Params.TopN]
	}
	return ranked, nil
}

// Filter keeps symbols in play, preserving their input order.
func (s *StocksInPlay) Filter(ctx context.Context, symbols []string, day time.Time) ([]string, error) {
	ranked, err := s.Rank(ctx, symbols, day)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(ranked))
	for _, r := range ranked {
		keep[r.Symbol] = true
	}
	var out []string
	for _, sym := range symbols {
		if keep[sym] {
			out = append(out, sym)
		}
	}
	return out, nil
}
