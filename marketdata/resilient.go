package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/rustyeddy/intraday/market"
)

type ResilientConfig struct {
	Retries         int           // attempts after the first
	Backoff         time.Duration // doubled after every failed attempt
	BreakerFailures uint32        // consecutive failures that open the breaker
	BreakerCooldown time.Duration
	RatePerSecond   float64
	Burst           int
}

func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		Retries:         3,
		Backoff:         500 * time.Millisecond,
		BreakerFailures: 5,
		BreakerCooldown: time.Minute,
		RatePerSecond:   5,
		Burst:           1,
	}
}

// Resilient paces, retries and circuit-breaks calls to another provider.
// Transport failures surface as ErrNoData once retries run out, and as
// ErrUnavailable while the breaker is open. ErrMalformed passes straight
// through and leaves the breaker alone.
type Resilient struct {
	inner   Provider
	cfg     ResilientConfig
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	log     zerolog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

func NewResilient(inner Provider, cfg ResilientConfig, log zerolog.Logger) *Resilient {
	st := gobreaker.Settings{
		Name:    "marketdata",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMalformed)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("breaker state change")
		},
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	return &Resilient{
		inner:   inner,
		cfg:     cfg,
		breaker: gobreaker.NewCircuitBreaker(st),
		limiter: rate.NewLimiter(limit, burst),
		log:     log,
		sleep:   sleepCtx,
	}
}

func (r *Resilient) Bars(ctx context.Context, symbol string, day time.Time, resolution time.Duration) ([]market.Candle, error) {
	return r.do(ctx, symbol, func() ([]market.Candle, error) {
		return r.inner.Bars(ctx, symbol, day, resolution)
	})
}

func (r *Resilient) DailyBars(ctx context.Context, symbol string, asOf time.Time, lookbackDays int) ([]market.Candle, error) {
	return r.do(ctx, symbol, func() ([]market.Candle, error) {
		return r.inner.DailyBars(ctx, symbol, asOf, lookbackDays)
	})
}

// State exposes the breaker state for health output.
func (r *Resilient) State() gobreaker.State { return r.breaker.State() }

func (r *Resilient) do(ctx context.Context, symbol string, fetch func() ([]market.Candle, error)) ([]market.Candle, error) {
	backoff := r.cfg.Backoff
	var lastErr error
	for attempt := 0; attempt <= r.cfg.Retries; attempt++ {
		if err := r.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		res, err := r.breaker.Execute(func() (interface{}, error) {
			return fetch()
		})
		if err == nil {
			bars, _ := res.([]market.Candle)
			return bars, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, symbol, err)
		}
		if errors.Is(err, ErrMalformed) {
			r.log.Warn().Err(err).Str("symbol", symbol).Msg("skipping malformed market data")
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		r.log.Warn().Err(err).Str("symbol", symbol).Int("attempt", attempt+1).Msg("market data fetch failed")
		if attempt == r.cfg.Retries {
			break
		}
		if err := r.sleep(ctx, backoff); err != nil {
			return nil, err
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("%w: %s after %d attempts: %v", ErrNoData, symbol, r.cfg.Retries+1, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
