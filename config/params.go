package config

import (
	"fmt"
	"time"

	"github.com/rustyeddy/intraday/market"
	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/risk"
	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/strategies"
	"github.com/rustyeddy/intraday/trade"
)

// MarketSession resolves the exchange timezone and session clocks.
func (c *Config) MarketSession() (market.Session, error) {
	loc, err := time.LoadLocation(c.Session.Timezone)
	if err != nil {
		return market.Session{}, fmt.Errorf("load timezone %q: %w", c.Session.Timezone, err)
	}
	sess := market.Session{Location: loc}
	for _, f := range []struct {
		dst *market.Clock
		v   string
	}{
		{&sess.RangeStart, c.Session.RangeStart},
		{&sess.RangeEnd, c.Session.RangeEnd},
		{&sess.EntryStart, c.Session.EntryStart},
		{&sess.EntryEnd, c.Session.EntryEnd},
		{&sess.TradeEnd, c.Session.TradeEnd},
	} {
		if *f.dst, err = market.ParseClock(f.v); err != nil {
			return market.Session{}, err
		}
	}
	return sess, nil
}

func (c *Config) Grades() trade.GradeThresholds {
	return trade.GradeThresholds{APlus: c.Approval.GradeAPlus, A: c.Approval.GradeA}
}

func (c *Config) Common(sess market.Session) strategies.Common {
	return strategies.Common{
		Session:     sess,
		SlippageBPS: c.ExecutionSim.SlippageBPS,
		Grades:      c.Grades(),
		MaxATRPct:   c.Filters.MaxATRPct,
	}
}

func (c *Config) ORBParams() strategies.ORBParams {
	o := c.Strategies.ORB
	return strategies.ORBParams{
		VolumeMultiplier:     o.VolumeMultiplier,
		TargetR:              o.TargetR,
		StopATRMult:          o.StopATRMult,
		MinORRangePct:        o.MinORRangePct,
		MaxORRangePct:        o.MaxORRangePct,
		MinORtoATR:           o.MinORtoATR,
		MaxORtoATR:           o.MaxORtoATR,
		AllowLong:            enabled(o.AllowLong),
		AllowShort:           enabled(o.AllowShort),
		RequireBenchmarkVWAP: c.Filters.RequireBenchmarkVWAP,
		ATRPeriod:            o.ATRPeriod,
		VolPeriod:            o.VolPeriod,
		MinBars:              o.MinBars,
	}
}

func (c *Config) MeanReversionParams() (strategies.MeanReversionParams, error) {
	m := c.Strategies.MeanReversion
	start, err := market.ParseClock(m.EntryStart)
	if err != nil {
		return strategies.MeanReversionParams{}, err
	}
	end, err := market.ParseClock(m.EntryEnd)
	if err != nil {
		return strategies.MeanReversionParams{}, err
	}
	exit, err := market.ParseClock(m.TimeExit)
	if err != nil {
		return strategies.MeanReversionParams{}, err
	}
	return strategies.MeanReversionParams{
		RSIPeriod:       m.RSIPeriod,
		RSIOverbought:   m.RSIOverbought,
		RSIOversold:     m.RSIOversold,
		VWAPATRDistance: m.VWAPATRDistance,
		TargetR:         m.TargetR,
		StopATRMult:     m.StopATRMult,
		ATRPeriod:       m.ATRPeriod,
		MinBars:         m.MinBars,
		EntryStart:      start,
		EntryEnd:        end,
		TimeExit:        exit,
	}, nil
}

func (c *Config) SwingParams() strategies.SwingParams {
	s := c.Strategies.Swing
	return strategies.SwingParams{
		Style:            strategies.SwingStyle(s.Style),
		BreakoutLookback: s.BreakoutLookback,
		EMAFast:          s.EMAFast,
		EMASlow:          s.EMASlow,
		ATRMult:          s.ATRMult,
		ATRPeriod:        s.ATRPeriod,
		TargetR:          s.TargetR,
	}
}

// Detectors builds the enabled intraday detectors. Swing runs on its own
// schedule and is built separately.
func (c *Config) Detectors(sess market.Session) ([]strategies.Detector, error) {
	common := c.Common(sess)
	var out []strategies.Detector
	if enabled(c.Strategies.ORB.Enabled) {
		out = append(out, strategies.NewORB(common, c.ORBParams()))
	}
	if enabled(c.Strategies.MeanReversion.Enabled) {
		p, err := c.MeanReversionParams()
		if err != nil {
			return nil, err
		}
		out = append(out, strategies.NewMeanReversion(common, p))
	}
	return out, nil
}

// RegimeParams classifies with the ORB thresholds so regime and entry
// filters agree.
func (c *Config) RegimeParams() regime.Params {
	p := regime.DefaultParams()
	o := c.Strategies.ORB
	p.MinORRangePct = o.MinORRangePct
	p.MinORtoATR = o.MinORtoATR
	p.RVolMult = o.VolumeMultiplier
	p.ATRPeriod = o.ATRPeriod
	p.VolPeriod = o.VolPeriod
	return p
}

func (c *Config) Policy() (risk.Policy, error) {
	g, err := trade.ParseGrade(c.Approval.MinGrade)
	if err != nil {
		return risk.Policy{}, err
	}
	return risk.Policy{
		MaxDailyLossINR:    c.Risk.MaxDailyLossINR,
		SoftStopLossINR:    c.Risk.SoftStopLossINR,
		MaxTradesPerDay:    c.Risk.MaxTradesPerDay,
		StopAfterLosses:    c.Risk.StopAfterLosses,
		MinGrade:           g,
		DrawdownAPlusOnlyR: c.DriftGuard.DrawdownAPlusOnlyR,
		Cooldown:           time.Duration(c.Approval.CooldownMinutes) * time.Minute,
		ApprovalExpiry:     time.Duration(c.Approval.ExpirySeconds) * time.Second,
	}, nil
}

func (c *Config) DriftParams() risk.DriftParams {
	d := c.DriftGuard
	return risk.DriftParams{
		LookbackDays: d.LookbackDays,
		MinAvgR:      d.MinAvgR,
		MaxDrawdownR: d.MaxDrawdownR,
		PauseDays:    d.PauseDays,
	}
}

func (c *Config) Sizing() risk.Sizing {
	s := risk.Sizing{RPerTrade: c.Risk.RPerTradeINR, ByRegime: map[regime.Regime]float64{}}
	for k, v := range c.Risk.RegimeSizing {
		s.ByRegime[regime.Regime(k)] = v
	}
	return s
}

func (c *Config) SimParams() sim.Params {
	return sim.Params{
		SlippageBPS:  c.ExecutionSim.SlippageBPS,
		FixedCostINR: c.ExecutionSim.FixedCostINR,
	}
}

func (c *Config) SectorFilter() strategies.SectorFilter {
	return strategies.SectorFilter{
		Enabled:            c.Filters.Sector.Enabled,
		MaxPerSectorPerDay: c.Filters.Sector.MaxPerSectorPerDay,
	}
}

func (c *Config) Selection() (sim.SelectionPolicy, error) {
	return sim.ParseSelectionPolicy(c.Backtest.Selection)
}

func enabled(b *bool) bool { return b == nil || *b }
