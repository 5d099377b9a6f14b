package util

import (
	"strconv"
	"time"
)

// Trading-calendar constants for US equity markets. Swap these for
// other markets without touching the algorithms that use them.
const (
	// TradingDaysPerYear is the annualization factor for daily returns.
	TradingDaysPerYear = 252

	// MaxNaturalGapDays is the widest bar-to-bar gap that needs no repair:
	// a regular weekend plus one session.
	MaxNaturalGapDays = 3
)

// ParseTime tries RFC3339, a plain date, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// IsWeekend reports whether t falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// TradingDaysBetween counts weekdays in [from, to] inclusive. Exchange
// holidays are not modeled; callers treat the count as an upper bound.
func TradingDaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	to = time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !IsWeekend(d) {
			n++
		}
	}
	return n
}

// DayOf truncates a millisecond epoch timestamp to its UTC calendar day.
func DayOf(ms int64) time.Time {
	t := time.UnixMilli(ms).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
