// Package config loads the trader configuration. Every option has a
// default, so an empty document is a valid configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	_ "time/tzdata" // timezone lookups work without a system zoneinfo

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

type Config struct {
	Session      SessionConfig      `json:"session" yaml:"session"`
	Universe     UniverseConfig     `json:"universe" yaml:"universe"`
	Strategies   StrategiesConfig   `json:"strategies" yaml:"strategies"`
	Risk         RiskConfig         `json:"risk" yaml:"risk"`
	ExecutionSim ExecutionSimConfig `json:"execution_sim" yaml:"execution_sim"`
	Filters      FiltersConfig      `json:"filters" yaml:"filters"`
	DriftGuard   DriftGuardConfig   `json:"drift_guard" yaml:"drift_guard"`
	Approval     ApprovalConfig     `json:"approval" yaml:"approval"`
	Backtest     BacktestConfig     `json:"backtest" yaml:"backtest"`
	Data         DataConfig         `json:"data" yaml:"data"`
	State        StateConfig        `json:"state" yaml:"state"`
	Journal      JournalConfig      `json:"journal" yaml:"journal"`
	Log          LogConfig          `json:"log" yaml:"log"`
	Metrics      MetricsConfig      `json:"metrics" yaml:"metrics"`
	Schedule     ScheduleConfig     `json:"schedule" yaml:"schedule"`
}

// SessionConfig clock times are HH:MM in Timezone.
type SessionConfig struct {
	Timezone    string `json:"timezone" yaml:"timezone" default:"Asia/Kolkata" validate:"timezone"`
	RangeStart  string `json:"range_start" yaml:"range_start" default:"09:15" validate:"datetime=15:04"`
	RangeEnd    string `json:"range_end" yaml:"range_end" default:"09:30" validate:"datetime=15:04"`
	EntryStart  string `json:"entry_start" yaml:"entry_start" default:"09:30" validate:"datetime=15:04"`
	EntryEnd    string `json:"entry_end" yaml:"entry_end" default:"11:30" validate:"datetime=15:04"`
	TradeEnd    string `json:"trade_end" yaml:"trade_end" default:"15:20" validate:"datetime=15:04"`
	MarketOpen  string `json:"market_open" yaml:"market_open" default:"09:15" validate:"datetime=15:04"`
	MarketClose string `json:"market_close" yaml:"market_close" default:"15:30" validate:"datetime=15:04"`
	Resolution  int    `json:"resolution_minutes" yaml:"resolution_minutes" default:"5" validate:"gt=0"`
}

// UniverseConfig lists symbols inline or in a JSON file holding
// {"symbols": [...]}. Sectors maps symbol to sector.
type UniverseConfig struct {
	Symbols    []string          `json:"symbols" yaml:"symbols" default:"[\"NSE:RELIANCE-EQ\",\"NSE:TCS-EQ\",\"NSE:INFY-EQ\",\"NSE:HDFCBANK-EQ\",\"NSE:ICICIBANK-EQ\",\"NSE:SBIN-EQ\"]"`
	File       string            `json:"file,omitempty" yaml:"file,omitempty"`
	Sectors    map[string]string `json:"sectors,omitempty" yaml:"sectors,omitempty"`
	SectorFile string            `json:"sector_file,omitempty" yaml:"sector_file,omitempty"`
}

type StrategiesConfig struct {
	ORB           ORBConfig           `json:"orb" yaml:"orb"`
	MeanReversion MeanReversionConfig `json:"mean_reversion" yaml:"mean_reversion"`
	Swing         SwingConfig         `json:"swing" yaml:"swing"`
}

type ORBConfig struct {
	Enabled          *bool   `json:"enabled" yaml:"enabled" default:"true"`
	VolumeMultiplier float64 `json:"volume_multiplier" yaml:"volume_multiplier" default:"1.2" validate:"gt=0"`
	TargetR          float64 `json:"target_r" yaml:"target_r" default:"1.5" validate:"gt=0"`
	StopATRMult      float64 `json:"stop_atr_mult" yaml:"stop_atr_mult" default:"0.5" validate:"gte=0"`
	MinORRangePct    float64 `json:"min_or_range_pct" yaml:"min_or_range_pct" default:"0.18" validate:"gte=0"`
	MaxORRangePct    float64 `json:"max_or_range_pct" yaml:"max_or_range_pct" validate:"gte=0"`
	MinORtoATR       float64 `json:"min_or_to_atr" yaml:"min_or_to_atr" default:"0.8" validate:"gte=0"`
	MaxORtoATR       float64 `json:"max_or_to_atr" yaml:"max_or_to_atr" validate:"gte=0"`
	AllowLong        *bool   `json:"allow_long" yaml:"allow_long" default:"true"`
	AllowShort       *bool   `json:"allow_short" yaml:"allow_short" default:"true"`
	ATRPeriod        int     `json:"atr_period" yaml:"atr_period" default:"14" validate:"gt=0"`
	VolPeriod        int     `json:"vol_period" yaml:"vol_period" default:"10" validate:"gt=0"`
	MinBars          int     `json:"min_bars" yaml:"min_bars" default:"20" validate:"gt=0"`
}

type MeanReversionConfig struct {
	Enabled         *bool   `json:"enabled" yaml:"enabled" default:"true"`
	RSIPeriod       int     `json:"rsi_period" yaml:"rsi_period" default:"14" validate:"gt=0"`
	RSIOverbought   float64 `json:"rsi_overbought" yaml:"rsi_overbought" default:"70" validate:"gt=0,lte=100"`
	RSIOversold     float64 `json:"rsi_oversold" yaml:"rsi_oversold" default:"30" validate:"gt=0,ltfield=RSIOverbought"`
	VWAPATRDistance float64 `json:"vwap_atr_distance" yaml:"vwap_atr_distance" default:"1.2" validate:"gt=0"`
	TargetR         float64 `json:"target_r" yaml:"target_r" default:"1.2" validate:"gt=0"`
	StopATRMult     float64 `json:"stop_atr_mult" yaml:"stop_atr_mult" default:"0.8" validate:"gt=0"`
	ATRPeriod       int     `json:"atr_period" yaml:"atr_period" default:"14" validate:"gt=0"`
	MinBars         int     `json:"min_bars" yaml:"min_bars" default:"20" validate:"gt=0"`
	EntryStart      string  `json:"entry_start" yaml:"entry_start" default:"09:30" validate:"datetime=15:04"`
	EntryEnd        string  `json:"entry_end" yaml:"entry_end" default:"15:00" validate:"datetime=15:04"`
	TimeExit        string  `json:"time_exit" yaml:"time_exit" default:"15:00" validate:"datetime=15:04"`
}

type SwingConfig struct {
	Style            string  `json:"style" yaml:"style" default:"pullback" validate:"oneof=breakout pullback"`
	BreakoutLookback int     `json:"breakout_lookback" yaml:"breakout_lookback" default:"20" validate:"gt=0"`
	EMAFast          int     `json:"ema_fast" yaml:"ema_fast" default:"20" validate:"gt=0"`
	EMASlow          int     `json:"ema_slow" yaml:"ema_slow" default:"50" validate:"gtfield=EMAFast"`
	ATRMult          float64 `json:"atr_mult" yaml:"atr_mult" default:"2.0" validate:"gt=0"`
	ATRPeriod        int     `json:"atr_period" yaml:"atr_period" default:"14" validate:"gt=0"`
	TargetR          float64 `json:"target_r" yaml:"target_r" default:"2.0" validate:"gt=0"`
	LookbackDays     int     `json:"lookback_days" yaml:"lookback_days" default:"120" validate:"gt=0"`
}

type RiskConfig struct {
	RPerTradeINR    float64            `json:"r_per_trade_inr" yaml:"r_per_trade_inr" default:"125" validate:"gt=0"`
	RegimeSizing    map[string]float64 `json:"regime_sizing" yaml:"regime_sizing" default:"{\"trend\":1.0,\"range\":0.7}"`
	MaxDailyLossINR float64            `json:"max_daily_loss_inr" yaml:"max_daily_loss_inr" default:"700" validate:"gt=0"`
	SoftStopLossINR float64            `json:"soft_stop_loss_inr" yaml:"soft_stop_loss_inr" default:"500" validate:"gt=0,ltefield=MaxDailyLossINR"`
	MaxTradesPerDay int                `json:"max_trades_per_day" yaml:"max_trades_per_day" default:"3" validate:"gt=0"`
	StopAfterLosses int                `json:"stop_after_losses" yaml:"stop_after_losses" default:"2" validate:"gt=0"`
}

type ExecutionSimConfig struct {
	SlippageBPS  float64 `json:"slippage_bps_each_side" yaml:"slippage_bps_each_side" default:"10" validate:"gte=0"`
	FixedCostINR float64 `json:"round_trip_fixed_cost_inr" yaml:"round_trip_fixed_cost_inr" default:"2" validate:"gte=0"`
}

type FiltersConfig struct {
	BenchmarkSymbol      string             `json:"benchmark_symbol" yaml:"benchmark_symbol" default:"NSE:NIFTY50-INDEX" validate:"required"`
	RequireBenchmarkVWAP bool               `json:"require_benchmark_vwap" yaml:"require_benchmark_vwap"`
	MaxATRPct            float64            `json:"max_atr_pct" yaml:"max_atr_pct" default:"4.0" validate:"gte=0"`
	Sector               SectorFilterConfig `json:"sector" yaml:"sector"`
	StocksInPlay         StocksInPlayConfig `json:"stocks_in_play" yaml:"stocks_in_play"`
}

type SectorFilterConfig struct {
	Enabled            bool `json:"enabled" yaml:"enabled"`
	MaxPerSectorPerDay int  `json:"max_per_sector_per_day" yaml:"max_per_sector_per_day" default:"1" validate:"gt=0"`
}

type StocksInPlayConfig struct {
	Enabled      bool    `json:"enabled" yaml:"enabled"`
	LookbackDays int     `json:"lookback_days" yaml:"lookback_days" default:"14" validate:"gt=0"`
	MinRVol      float64 `json:"min_rvol" yaml:"min_rvol" default:"1.5" validate:"gt=0"`
	TopN         int     `json:"top_n" yaml:"top_n" default:"20" validate:"gt=0"`
}

type DriftGuardConfig struct {
	LookbackDays       int     `json:"lookback_days" yaml:"lookback_days" default:"30" validate:"gt=0"`
	MinAvgR            float64 `json:"min_avg_r" yaml:"min_avg_r" default:"0.05"`
	MaxDrawdownR       float64 `json:"max_drawdown_r" yaml:"max_drawdown_r" default:"3.0" validate:"gt=0"`
	PauseDays          int     `json:"pause_days" yaml:"pause_days" default:"2" validate:"gt=0"`
	DrawdownAPlusOnlyR float64 `json:"drawdown_aplus_only_r" yaml:"drawdown_aplus_only_r" default:"2.0" validate:"gt=0"`
}

type ApprovalConfig struct {
	MinGrade        string  `json:"min_grade" yaml:"min_grade" default:"B" validate:"oneof=B A A+"`
	GradeAPlus      float64 `json:"grade_aplus" yaml:"grade_aplus" default:"2.0" validate:"gtfield=GradeA"`
	GradeA          float64 `json:"grade_a" yaml:"grade_a" default:"1.2" validate:"gt=0"`
	CooldownMinutes int     `json:"cooldown_minutes" yaml:"cooldown_minutes" default:"20" validate:"gte=0"`
	ExpirySeconds   int     `json:"expiry_seconds" yaml:"expiry_seconds" default:"90" validate:"gt=0"`
}

type BacktestConfig struct {
	Days             int       `json:"days" yaml:"days" default:"30" validate:"gt=0"`
	MaxTradesPerDay  int       `json:"max_trades_per_day" yaml:"max_trades_per_day" default:"1" validate:"gt=0"`
	Selection        string    `json:"selection" yaml:"selection" default:"earliest_signal" validate:"oneof=earliest_signal best_score"`
	SweepVolumeMults []float64 `json:"sweep_volume_multipliers" yaml:"sweep_volume_multipliers" default:"[1.1,1.2,1.3]" validate:"min=1,dive,gt=0"`
	SuggestMinDelta  float64   `json:"suggest_min_delta" yaml:"suggest_min_delta" default:"0.09" validate:"gte=0"`
	Workers          int       `json:"workers" yaml:"workers" default:"4" validate:"gt=0"`
}

type DataConfig struct {
	Dir             string   `json:"dir" yaml:"dir" default:"data/candles" validate:"required"`
	Retries         int      `json:"retries" yaml:"retries" default:"3" validate:"gte=0"`
	BackoffMillis   int      `json:"backoff_millis" yaml:"backoff_millis" default:"500" validate:"gte=0"`
	BreakerFailures uint32   `json:"breaker_failures" yaml:"breaker_failures" default:"5" validate:"gt=0"`
	BreakerCooldown int      `json:"breaker_cooldown_seconds" yaml:"breaker_cooldown_seconds" default:"60" validate:"gt=0"`
	RatePerSecond   float64  `json:"rate_per_second" yaml:"rate_per_second" default:"5" validate:"gt=0"`
	Burst           int      `json:"burst" yaml:"burst" default:"1" validate:"gt=0"`
	Holidays        []string `json:"holidays,omitempty" yaml:"holidays,omitempty" validate:"dive,datetime=2006-01-02"`
}

type StateConfig struct {
	Dir    string `json:"dir" yaml:"dir" default:"data/state" validate:"required"`
	LogDir string `json:"log_dir" yaml:"log_dir" default:"logs" validate:"required"`
}

// JournalConfig enables the SQLite journal when SQLitePath is set.
type JournalConfig struct {
	SQLitePath string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty"`
	OrgDir     string `json:"org_dir,omitempty" yaml:"org_dir,omitempty"`
}

type LogConfig struct {
	Level  string `json:"level" yaml:"level" default:"info" validate:"oneof=debug info warn error"`
	Format string `json:"format" yaml:"format" default:"console" validate:"oneof=json console"`
	Output string `json:"output" yaml:"output" default:"stderr" validate:"required"`
}

// MetricsConfig writes a Prometheus textfile when TextfilePath is set.
type MetricsConfig struct {
	TextfilePath string `json:"textfile_path,omitempty" yaml:"textfile_path,omitempty"`
}

// ScheduleConfig holds cron specs for `trader watch`.
type ScheduleConfig struct {
	Scan     string `json:"scan" yaml:"scan" default:"*/5 9-11 * * 1-5" validate:"required"`
	Drift    string `json:"drift" yaml:"drift" default:"30 18 * * 1-5" validate:"required"`
	Backtest string `json:"backtest" yaml:"backtest" default:"0 19 * * 1-5"`
	Swing    string `json:"swing" yaml:"swing" default:"0 16 * * 1-5"`
}

var validate = newValidator()

// newValidator reports fields by their YAML names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// LoadFromFile reads YAML or JSON over the defaults and validates the
// result. Keys present in the file win, including explicit zeros.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data as JSON when ext is ".json", else as YAML. Decoding
// starts from Default so absent keys keep their defaults.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks field constraints and session clock ordering.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fieldMessage(fe))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	s := c.Session
	mr := c.Strategies.MeanReversion
	order := []struct {
		name          string
		before, after string
		allowEqual    bool
	}{
		{"session.range_start must precede session.range_end", s.RangeStart, s.RangeEnd, false},
		{"session.entry_start must precede session.entry_end", s.EntryStart, s.EntryEnd, false},
		{"session.entry_end must not follow session.trade_end", s.EntryEnd, s.TradeEnd, true},
		{"strategies.mean_reversion.entry_start must precede entry_end", mr.EntryStart, mr.EntryEnd, false},
		{"strategies.mean_reversion.entry_end must not follow time_exit", mr.EntryEnd, mr.TimeExit, true},
		{"strategies.mean_reversion.time_exit must not follow session.trade_end", mr.TimeExit, s.TradeEnd, true},
	}
	for _, o := range order {
		// HH:MM strings compare in clock order.
		if o.before > o.after || (o.before == o.after && !o.allowEqual) {
			return fmt.Errorf("%w: %s", ErrInvalid, o.name)
		}
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("%s must be %s %s", field, fe.Tag(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "timezone":
		return fmt.Sprintf("%s is not a known timezone", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}
