package bars

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
)

func barAt(day time.Time, close float64) models.Bar {
	return models.Bar{
		Timestamp: day.UnixMilli(),
		Open:      close,
		High:      close,
		Low:       close,
		Close:     close,
		Volume:    1000,
	}
}

func TestRepairGapsWeekendUntouched(t *testing.T) {
	fri := time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC)
	mon := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	in := []models.Bar{barAt(fri, 100), barAt(mon, 101)}

	out := RepairGaps(in)
	if len(out) != 2 {
		t.Fatalf("weekend gap should not be filled, got %d bars", len(out))
	}
}

func TestRepairGapsFillsWeekdays(t *testing.T) {
	// Mon 2024-10-07 then Mon 2024-10-14: four missing weekdays.
	mon1 := time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC)
	mon2 := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC)
	in := []models.Bar{barAt(mon1, 100), barAt(mon2, 110)}

	out := RepairGaps(in)
	if len(out) != 6 {
		t.Fatalf("expected 6 bars (2 original + 4 fills), got %d", len(out))
	}
	for i, b := range out[1:5] {
		if !b.Synthetic() {
			t.Fatalf("fill %d should be synthetic", i)
		}
		if b.Close != 100 || b.Open != 100 {
			t.Fatalf("fill %d should carry previous close, got %+v", i, b)
		}
		if day := time.UnixMilli(b.Timestamp).UTC().Weekday(); day == time.Saturday || day == time.Sunday {
			t.Fatalf("fill %d landed on a weekend", i)
		}
	}
}

func TestRepairGapsSupersetAndMonotonic(t *testing.T) {
	days := []time.Time{
		time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 9, 16, 0, 0, 0, 0, time.UTC), // long gap
		time.Date(2024, 9, 17, 0, 0, 0, 0, time.UTC),
	}
	in := make([]models.Bar, len(days))
	for i, d := range days {
		in[i] = barAt(d, float64(100+i))
	}

	out := RepairGaps(in)
	if len(out) < len(in) {
		t.Fatalf("repair must never drop bars: %d < %d", len(out), len(in))
	}

	// every original bar survives
	orig := make(map[int64]bool, len(in))
	for _, b := range in {
		orig[b.Timestamp] = true
	}
	found := 0
	for _, b := range out {
		if orig[b.Timestamp] {
			found++
		}
	}
	if found != len(in) {
		t.Fatalf("expected all %d original bars, found %d", len(in), found)
	}

	for i := 1; i < len(out); i++ {
		if out[i].Timestamp <= out[i-1].Timestamp {
			t.Fatalf("timestamps not strictly increasing at %d", i)
		}
	}
}

func TestRepairGapsShortInput(t *testing.T) {
	if got := RepairGaps(nil); len(got) != 0 {
		t.Fatalf("nil input should stay empty")
	}
	one := []models.Bar{barAt(time.Date(2024, 10, 7, 0, 0, 0, 0, time.UTC), 100)}
	if got := RepairGaps(one); len(got) != 1 {
		t.Fatalf("single bar should pass through")
	}
}
