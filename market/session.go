package market

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

// Clock is a wall-clock time of day in the exchange's timezone.
type Clock struct {
	Hour   int
	Minute int
}

func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func MustClock(s string) Clock {
	c, err := ParseClock(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Session anchors clock times to calendar days in the exchange timezone.
type Session struct {
	Location *time.Location

	RangeStart Clock // opening range start, inclusive
	RangeEnd   Clock // opening range end, exclusive
	EntryStart Clock
	EntryEnd   Clock
	TradeEnd   Clock
}

func (s Session) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// Day returns local midnight of the exchange day containing t.
func (s Session) Day(t time.Time) time.Time {
	lt := t.In(s.loc())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, s.loc())
}

// At returns the instant of clock c on the exchange day containing day.
func (s Session) At(day time.Time, c Clock) time.Time {
	d := s.Day(day)
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour, c.Minute, 0, 0, s.loc())
}

// OpeningRange returns the [start, end) window of the opening range on day.
func (s Session) OpeningRange(day time.Time) (time.Time, time.Time) {
	return s.At(day, s.RangeStart), s.At(day, s.RangeEnd)
}

// DateKey formats t as the exchange-local calendar date.
func (s Session) DateKey(t time.Time) string {
	return t.In(s.loc()).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date as local midnight.
func (s Session) ParseDate(v string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, v, s.loc())
}

// Local formats t in the exchange timezone using layout.
func (s Session) Local(t time.Time, layout string) string {
	return t.In(s.loc()).Format(layout)
}

// SameDay filters candles to the exchange day containing day.
func (s Session) SameDay(cs []Candle, day time.Time) []Candle {
	start := s.Day(day)
	end := start.AddDate(0, 0, 1)
	var out []Candle
	for _, c := range cs {
		if !c.Time.Before(start) && c.Time.Before(end) {
			out = append(out, c)
		}
	}
	return out
}

// Until returns the instant of c on day, or the end of day when c is unset.
func (s Session) Until(day time.Time, c Clock) time.Time {
	if c == (Clock{}) {
		return s.Day(day).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return s.At(day, c)
}

// In converts t to the exchange timezone.
func (s Session) In(t time.Time) time.Time {
	return t.In(s.loc())
}
