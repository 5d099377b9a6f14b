package util

import (
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimePlainDate(t *testing.T) {
	got, ok := ParseTime("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Year() != 2024 || got.Month() != time.October || got.Day() != 10 {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestIsWeekend(t *testing.T) {
	sat := time.Date(2024, 10, 12, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	if !IsWeekend(sat) {
		t.Fatalf("saturday should be weekend")
	}
	if IsWeekend(mon) {
		t.Fatalf("monday should not be weekend")
	}
}

func TestTradingDaysBetween(t *testing.T) {
	// Mon 2024-10-07 through Fri 2024-10-18: two full weeks.
	from := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 10, 18, 0, 0, 0, 0, time.UTC)
	if got := TradingDaysBetween(from, to); got != 10 {
		t.Fatalf("expected 10 trading days, got %d", got)
	}
	if got := TradingDaysBetween(to, from); got != 0 {
		t.Fatalf("expected 0 for inverted range, got %d", got)
	}
}

func TestDayOf(t *testing.T) {
	ms := time.Date(2024, 10, 10, 15, 30, 0, 0, time.UTC).UnixMilli()
	day := DayOf(ms)
	if day.Hour() != 0 || day.Day() != 10 {
		t.Fatalf("unexpected day %v", day)
	}
}
