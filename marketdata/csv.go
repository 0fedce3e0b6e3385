package marketdata

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/intraday/market"
)

// CSVProvider reads bars from a directory tree:
//
//	<dir>/<resolution>/<symbol>/<YYYY-MM-DD>.csv   intraday, e.g. 5m
//	<dir>/1d/<symbol>.csv                          daily
//
// Rows are time,open,high,low,close,volume where time is RFC3339 or unix
// seconds. A header row is allowed. Symbols map to file names with ':'
// replaced by '_'.
type CSVProvider struct {
	Dir     string
	Session market.Session
	Log     zerolog.Logger
}

func NewCSVProvider(dir string, sess market.Session, log zerolog.Logger) *CSVProvider {
	return &CSVProvider{Dir: dir, Session: sess, Log: log}
}

// FileSymbol maps a symbol to its on-disk name.
func FileSymbol(symbol string) string {
	return strings.NewReplacer(":", "_", "/", "_").Replace(symbol)
}

// ResolutionDir names the directory for a bar resolution.
func ResolutionDir(resolution time.Duration) string {
	if resolution >= 24*time.Hour {
		return "1d"
	}
	return fmt.Sprintf("%dm", int(resolution.Minutes()))
}

func (p *CSVProvider) IntradayPath(symbol string, day time.Time, resolution time.Duration) string {
	return filepath.Join(p.Dir, ResolutionDir(resolution), FileSymbol(symbol), p.Session.DateKey(day)+".csv")
}

func (p *CSVProvider) DailyPath(symbol string) string {
	return filepath.Join(p.Dir, "1d", FileSymbol(symbol)+".csv")
}

func (p *CSVProvider) Bars(ctx context.Context, symbol string, day time.Time, resolution time.Duration) ([]market.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := p.read(p.IntradayPath(symbol, day, resolution))
	if err != nil {
		return nil, err
	}
	return p.Session.SameDay(bars, day), nil
}

func (p *CSVProvider) DailyBars(ctx context.Context, symbol string, asOf time.Time, lookbackDays int) ([]market.Candle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bars, err := p.read(p.DailyPath(symbol))
	if err != nil {
		return nil, err
	}
	end := p.Session.Day(asOf).AddDate(0, 0, 1)
	i := sort.Search(len(bars), func(i int) bool { return !bars[i].Time.Before(end) })
	bars = bars[:i]
	if lookbackDays > 0 && len(bars) > lookbackDays {
		bars = bars[len(bars)-lookbackDays:]
	}
	return bars, nil
}

func (p *CSVProvider) read(path string) ([]market.Candle, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	bars, err := ReadCandles(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	bars, rep := market.Clean(bars)
	if !rep.Clean() {
		p.Log.Warn().Str("file", path).Interface("quality", rep).Msg("bars cleaned")
	}
	return bars, nil
}

// ReadCandles parses OHLCV rows. Short or blank rows are skipped.
func ReadCandles(r io.Reader) ([]market.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out      []market.Candle
		sawFirst bool
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) < 6 {
			continue
		}
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		c, err := parseCandleRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
}

func parseCandleRow(row []string) (market.Candle, error) {
	ts := strings.TrimSpace(row[0])
	t, err := parseTime(ts)
	if err != nil {
		return market.Candle{}, err
	}
	var v [5]float64
	for i := range v {
		f, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Candle{}, fmt.Errorf("bad value %q at %s: %w", row[i+1], ts, err)
		}
		v[i] = f
	}
	return market.Candle{Time: t, Open: v[0], High: v[1], Low: v[2], Close: v[3], Volume: v[4]}, nil
}

func parseTime(s string) (time.Time, error) {
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad time %q: %w", s, err)
	}
	return t.UTC(), nil
}

// WriteCandles writes bars in the format ReadCandles accepts.
func WriteCandles(w io.Writer, bars []market.Candle) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, c := range bars {
		row := []string{
			c.Time.UTC().Format(time.RFC3339),
			strconv.FormatFloat(c.Open, 'f', -1, 64),
			strconv.FormatFloat(c.High, 'f', -1, 64),
			strconv.FormatFloat(c.Low, 'f', -1, 64),
			strconv.FormatFloat(c.Close, 'f', -1, 64),
			strconv.FormatFloat(c.Volume, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveBars stores intraday bars where Bars will find them.
func (p *CSVProvider) SaveBars(symbol string, day time.Time, resolution time.Duration, bars []market.Candle) error {
	return writeFile(p.IntradayPath(symbol, day, resolution), bars)
}

// SaveDaily stores daily bars where DailyBars will find them.
func (p *CSVProvider) SaveDaily(symbol string, bars []market.Candle) error {
	return writeFile(p.DailyPath(symbol), bars)
}

func writeFile(path string, bars []market.Candle) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCandles(f, bars); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
