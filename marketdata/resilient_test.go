package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/intraday/market"
)

func TestResilientMalformedFileDoesNotTripBreaker(t *testing.T) {
	ctx := context.Background()
	d := day(2025, 1, 6)
	csvp := NewCSVProvider(t.TempDir(), testSession(), zerolog.Nop())

	for _, sym := range []string{"NSE:BAD1-EQ", "NSE:BAD2-EQ"} {
		path := csvp.IntradayPath(sym, d, 5*time.Minute)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("2025-01-06T03:45:00Z,abc,1,1,1,1\n"), 0o644))
	}
	want := bars(d, 3, 500)
	require.NoError(t, csvp.SaveBars("NSE:GOOD-EQ", d, 5*time.Minute, want))

	counting := &countingProvider{inner: csvp}
	r := newTestResilient(counting, 3, 2)

	for _, sym := range []string{"NSE:BAD1-EQ", "NSE:BAD2-EQ"} {
		_, err := r.Bars(ctx, sym, d, 5*time.Minute)
		assert.ErrorIs(t, err, ErrMalformed)
		assert.ErrorIs(t, err, ErrNoData)
		assert.True(t, Abstain(err))
	}
	assert.Equal(t, 2, counting.calls, "malformed files are not retried")
	assert.Equal(t, gobreaker.StateClosed, r.State())

	got, err := r.Bars(ctx, "NSE:GOOD-EQ", d, 5*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

type countingProvider struct {
	inner Provider
	calls int
}

func (c *countingProvider) Bars(ctx context.Context, s string, d time.Time, res time.Duration) ([]market.Candle, error) {
	c.calls++
	return c.inner.Bars(ctx, s, d, res)
}

func (c *countingProvider) DailyBars(ctx context.Context, s string, d time.Time, n int) ([]market.Candle, error) {
	c.calls++
	return c.inner.DailyBars(ctx, s, d, n)
}
