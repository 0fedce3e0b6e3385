package backtest

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/strategies"
)

// SweepPoint is one volume multiplier's replay.
type SweepPoint struct {
	VolumeMultiplier float64 `json:"vol_mult"`
	Trades           int     `json:"trades"`
	TotalR           float64 `json:"total_r"`
	AvgR             float64 `json:"avg_r"`
}

type SweepResult struct {
	Days    int          `json:"days"`
	Symbols int          `json:"symbols"`
	Current float64      `json:"current"`
	Points  []SweepPoint `json:"results"`
	Best    SweepPoint   `json:"best"`
	// Suggest is set when the best multiplier is at least MinDelta away
	// from the configured one. Nothing is applied automatically.
	Suggest bool `json:"suggest"`
}

// Sweep replays the ORB detector once per volume multiplier with earliest
// signal selection and one trade a day. It writes nothing.
type Sweep struct {
	Base        Runner
	ORB         strategies.ORBParams
	Common      strategies.Common
	Multipliers []float64
	MinDelta    float64
}

func (s *Sweep) Run(ctx context.Context, from, to time.Time) (SweepResult, error) {
	out := SweepResult{Current: s.ORB.VolumeMultiplier}
	symbols, err := s.Base.Universe.Symbols(ctx)
	if err != nil {
		return out, fmt.Errorf("load universe: %w", err)
	}
	out.Symbols = len(symbols)

	for i, vm := range s.Multipliers {
		p := s.ORB
		p.VolumeMultiplier = vm

		r := s.Base
		r.Detectors = []strategies.Detector{strategies.NewORB(s.Common, p)}
		r.Selection = sim.EarliestSignal
		r.MaxTradesPerDay = 1
		r.Trades = nil
		r.Journal = nil
		r.Metrics = nil

		pt := SweepPoint{VolumeMultiplier: vm}
		days := r.days(from, to)
		out.Days = len(days)
		for _, day := range days {
			dr, err := r.RunDay(ctx, day, symbols)
			if err != nil {
				return out, err
			}
			for _, t := range dr.Trades {
				pt.TotalR += t.R
				pt.Trades++
			}
		}
		if pt.Trades > 0 {
			pt.AvgR = pt.TotalR / float64(pt.Trades)
		}
		out.Points = append(out.Points, pt)
		if i == 0 || pt.AvgR > out.Best.AvgR {
			out.Best = pt
		}
	}
	out.Suggest = len(out.Points) > 0 && math.Abs(out.Best.VolumeMultiplier-out.Current) >= s.MinDelta
	return out, nil
}

func (r SweepResult) String() string {
	var b strings.Builder
	b.WriteString("Nightly Test Loop (PAPER) - ORB\n")
	fmt.Fprintf(&b, "Window: last %d trading days · Universe: %d\n", r.Days, r.Symbols)
	b.WriteString("Vol multiplier sweep (earliest-signal selection):\n")
	for _, p := range r.Points {
		fmt.Fprintf(&b, "- vol_mult %g: avg %.2fR over %d days\n", p.VolumeMultiplier, p.AvgR, p.Trades)
	}
	if len(r.Points) > 0 {
		fmt.Fprintf(&b, "Best avg: vol_mult %g (%.2fR)", r.Best.VolumeMultiplier, r.Best.AvgR)
	}
	if r.Suggest {
		fmt.Fprintf(&b, "\nSuggestion: consider switching volume_multiplier %g → %g (not auto-applied)", r.Current, r.Best.VolumeMultiplier)
	}
	return b.String()
}
