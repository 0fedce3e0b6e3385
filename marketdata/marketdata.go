// Package marketdata is the boundary to bar data, the symbol universe and the
// trading calendar. Providers return an empty slice, not an error, when a
// symbol has no data for the day.
package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rustyeddy/intraday/market"
)

var (
	// ErrNoData is returned once retries against a failing provider are
	// exhausted. Callers treat it like an empty result.
	ErrNoData = errors.New("no market data")
	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("market data unavailable")
	// ErrMalformed marks a data file that exists but cannot be parsed. It is
	// returned without retrying and does not count against the breaker.
	ErrMalformed = fmt.Errorf("%w: malformed file", ErrNoData)
)

type Provider interface {
	// Bars returns intraday bars for the exchange day containing day.
	Bars(ctx context.Context, symbol string, day time.Time, resolution time.Duration) ([]market.Candle, error)
	// DailyBars returns up to lookbackDays daily bars ending at asOf.
	DailyBars(ctx context.Context, symbol string, asOf time.Time, lookbackDays int) ([]market.Candle, error)
}

type Universe interface {
	Symbols(ctx context.Context) ([]string, error)
}

type Calendar interface {
	IsTradingDay(day time.Time) bool
	IsMarketOpen(t time.Time) bool
}

// Abstain reports whether err means the symbol should be skipped rather
// than the run aborted.
func Abstain(err error) bool {
	return errors.Is(err, ErrNoData) || errors.Is(err, ErrUnavailable)
}
