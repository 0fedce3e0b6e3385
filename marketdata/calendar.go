package marketdata

import (
	"time"

	"github.com/rustyeddy/intraday/market"
)

// WeekdayCalendar treats Monday to Friday as trading days except listed
// holidays. The market is open from Open (inclusive) to Close (exclusive).
type WeekdayCalendar struct {
	Session  market.Session
	Open     market.Clock
	Close    market.Clock
	holidays map[string]bool
}

// NewWeekdayCalendar takes holidays as YYYY-MM-DD strings.
func NewWeekdayCalendar(sess market.Session, open, close market.Clock, holidays []string) *WeekdayCalendar {
	h := make(map[string]bool, len(holidays))
	for _, d := range holidays {
		h[d] = true
	}
	return &WeekdayCalendar{Session: sess, Open: open, Close: close, holidays: h}
}

func (c *WeekdayCalendar) IsTradingDay(day time.Time) bool {
	local := c.Session.In(day)
	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.holidays[c.Session.DateKey(day)]
}

func (c *WeekdayCalendar) IsMarketOpen(t time.Time) bool {
	if !c.IsTradingDay(t) {
		return false
	}
	return !t.Before(c.Session.At(t, c.Open)) && t.Before(c.Session.At(t, c.Close))
}

// TradingDays lists trading days from..to inclusive, as exchange midnights.
func TradingDays(cal Calendar, sess market.Session, from, to time.Time) []time.Time {
	var out []time.Time
	end := sess.Day(to)
	for d := sess.Day(from); !d.After(end); d = sess.Day(d.AddDate(0, 0, 1)) {
		if cal.IsTradingDay(d) {
			out = append(out, d)
		}
	}
	return out
}

// PriorTradingDays returns up to n trading days strictly before day, oldest
// first.
func PriorTradingDays(cal Calendar, sess market.Session, day time.Time, n int) []time.Time {
	var out []time.Time
	d := sess.Day(day)
	// bounded so a calendar of holidays cannot loop forever
	for i := 0; len(out) < n && i < n*3+14; i++ {
		d = sess.Day(d.AddDate(0, 0, -1))
		if cal.IsTradingDay(d) {
			out = append(out, d)
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
