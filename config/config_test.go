package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/intraday/regime"
	"github.com/rustyeddy/intraday/sim"
	"github.com/rustyeddy/intraday/trade"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.Equal(t, "Asia/Kolkata", cfg.Session.Timezone)
	assert.Equal(t, 125.0, cfg.Risk.RPerTradeINR)
	assert.Equal(t, 0.7, cfg.Risk.RegimeSizing["range"])
	assert.Equal(t, 3, cfg.Risk.MaxTradesPerDay)
	assert.Equal(t, "NSE:NIFTY50-INDEX", cfg.Filters.BenchmarkSymbol)
	assert.Equal(t, []float64{1.1, 1.2, 1.3}, cfg.Backtest.SweepVolumeMults)
	assert.True(t, *cfg.Strategies.ORB.AllowShort)
	assert.NotEmpty(t, cfg.Universe.Symbols)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "unknown timezone",
			mutate:  func(c *Config) { c.Session.Timezone = "Mars/Olympus" },
			wantErr: true,
			errMsg:  "session.timezone is not a known timezone",
		},
		{
			name:    "bad clock",
			mutate:  func(c *Config) { c.Session.EntryEnd = "11h30" },
			wantErr: true,
			errMsg:  "session.entry_end must match 15:04",
		},
		{
			name:    "range out of order",
			mutate:  func(c *Config) { c.Session.RangeEnd = "09:10" },
			wantErr: true,
			errMsg:  "session.range_start must precede session.range_end",
		},
		{
			name:    "unknown grade",
			mutate:  func(c *Config) { c.Approval.MinGrade = "C" },
			wantErr: true,
			errMsg:  "approval.min_grade must be one of: B, A, A+",
		},
		{
			name:    "zero trades per day",
			mutate:  func(c *Config) { c.Risk.MaxTradesPerDay = 0 },
			wantErr: true,
			errMsg:  "risk.max_trades_per_day must be gt 0",
		},
		{
			name:    "soft stop above hard stop",
			mutate:  func(c *Config) { c.Risk.SoftStopLossINR = 900 },
			wantErr: true,
			errMsg:  "risk.soft_stop_loss_inr",
		},
		{
			name:    "unknown selection",
			mutate:  func(c *Config) { c.Backtest.Selection = "random" },
			wantErr: true,
			errMsg:  "backtest.selection must be one of",
		},
		{
			name:    "empty sweep",
			mutate:  func(c *Config) { c.Backtest.SweepVolumeMults = nil },
			wantErr: true,
			errMsg:  "backtest.sweep_volume_multipliers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trader.yaml")
	doc := `
risk:
  r_per_trade_inr: 200
strategies:
  orb:
    allow_short: false
approval:
  min_grade: A
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 200.0, cfg.Risk.RPerTradeINR)
	assert.Equal(t, 700.0, cfg.Risk.MaxDailyLossINR)
	assert.False(t, *cfg.Strategies.ORB.AllowShort)
	assert.True(t, *cfg.Strategies.ORB.AllowLong)
	assert.Equal(t, "09:30", cfg.Session.EntryStart)

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, trade.GradeA, p.MinGrade)
	assert.Equal(t, 20*time.Minute, p.Cooldown)
	assert.Equal(t, 90*time.Second, p.ApprovalExpiry)

	orb := cfg.ORBParams()
	assert.False(t, orb.AllowShort)
	assert.True(t, orb.AllowLong)
}

func TestLoadFromFileKeepsExplicitZeros(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		get  func(*Config) float64
	}{
		{"slippage", "execution_sim:\n  slippage_bps_each_side: 0\n", func(c *Config) float64 { return c.ExecutionSim.SlippageBPS }},
		{"fixed cost", "execution_sim:\n  round_trip_fixed_cost_inr: 0\n", func(c *Config) float64 { return c.ExecutionSim.FixedCostINR }},
		{"cooldown", "approval:\n  cooldown_minutes: 0\n", func(c *Config) float64 { return float64(c.Approval.CooldownMinutes) }},
		{"drift min avg", "drift_guard:\n  min_avg_r: 0\n", func(c *Config) float64 { return c.DriftGuard.MinAvgR }},
		{"orb stop mult", "strategies:\n  orb:\n    stop_atr_mult: 0\n", func(c *Config) float64 { return c.Strategies.ORB.StopATRMult }},
		{"suggest delta", "backtest:\n  suggest_min_delta: 0\n", func(c *Config) float64 { return c.Backtest.SuggestMinDelta }},
		{"data retries", "data:\n  retries: 0\n", func(c *Config) float64 { return float64(c.Data.Retries) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotZero(t, tt.get(Default()))

			path := filepath.Join(t.TempDir(), "trader.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0o644))
			cfg, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Zero(t, tt.get(cfg))
			assert.Equal(t, 700.0, cfg.Risk.MaxDailyLossINR)
		})
	}

	cfg, err := Parse([]byte(`{"execution_sim":{"slippage_bps_each_side":0}}`), ".json")
	require.NoError(t, err)
	assert.Zero(t, cfg.ExecutionSim.SlippageBPS)
	assert.Equal(t, 2.0, cfg.ExecutionSim.FixedCostINR)

	p, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, p.Cooldown)
}

func TestLoadFromFileEmptyScheduleDisablesJob(t *testing.T) {
	cfg, err := Parse([]byte("schedule:\n  backtest: \"\"\n"), ".yaml")
	require.NoError(t, err)
	assert.Empty(t, cfg.Schedule.Backtest)
	assert.Equal(t, "0 16 * * 1-5", cfg.Schedule.Swing)
}

func TestLoadFromFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trader.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"risk":{"max_trades_per_day":-1}}`), 0o644))

	_, err := LoadFromFile(path)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"trader.yaml", "trader.json"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.Filters.Sector.Enabled = true
			cfg.Universe.Sectors = map[string]string{"NSE:SBIN-EQ": "BANK"}
			require.NoError(t, cfg.SaveToFile(path))

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestConverters(t *testing.T) {
	cfg := Default()

	sess, err := cfg.MarketSession()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", sess.Location.String())
	assert.Equal(t, "09:15", sess.RangeStart.String())
	assert.Equal(t, "15:20", sess.TradeEnd.String())

	sizing := cfg.Sizing()
	assert.Equal(t, 125.0, sizing.Budget(regime.Trend))
	assert.InDelta(t, 87.5, sizing.Budget(regime.Range), 1e-9)

	rp := cfg.RegimeParams()
	assert.Equal(t, cfg.Strategies.ORB.MinORRangePct, rp.MinORRangePct)
	assert.Equal(t, cfg.Strategies.ORB.VolumeMultiplier, rp.RVolMult)

	mr, err := cfg.MeanReversionParams()
	require.NoError(t, err)
	assert.Equal(t, "15:00", mr.EntryEnd.String())
	assert.Equal(t, "15:00", mr.TimeExit.String())

	dets, err := cfg.Detectors(sess)
	require.NoError(t, err)
	require.Len(t, dets, 2)
	assert.Equal(t, trade.ORB, dets[0].Name())
	assert.Equal(t, trade.MeanReversion, dets[1].Name())

	off := false
	cfg.Strategies.MeanReversion.Enabled = &off
	dets, err = cfg.Detectors(sess)
	require.NoError(t, err)
	assert.Len(t, dets, 1)

	sel, err := cfg.Selection()
	require.NoError(t, err)
	assert.Equal(t, sim.EarliestSignal, sel)
	assert.Equal(t, sim.Params{SlippageBPS: 10, FixedCostINR: 2}, cfg.SimParams())
}
