package cache

import (
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
)

func sampleSeries() *models.AssetSeries {
	return &models.AssetSeries{
		Ticker: "SPY",
		Bars: []models.Bar{
			{Timestamp: 1700000000000, Open: 1, High: 1, Low: 1, Close: 1, Volume: 100},
			{Timestamp: 1700086400000, Open: 1, High: 2, Low: 1, Close: 2, Volume: 100},
		},
	}
}

func TestTTLCacheHit(t *testing.T) {
	c := NewTTLCache()
	key := Key("SPY", time.Now().AddDate(0, -1, 0), time.Now(), repository.GranDay)

	if _, ok := c.Get(key); ok {
		t.Fatalf("expected miss on empty cache")
	}

	c.Set(key, sampleSeries(), time.Hour)
	e, ok := c.Get(key)
	if !ok {
		t.Fatalf("expected hit")
	}
	if e.Series.Ticker != "SPY" || len(e.Series.Bars) != 2 {
		t.Fatalf("unexpected entry %+v", e)
	}
	if e.FetchedAt.IsZero() || !e.ExpiresAt.After(e.FetchedAt) {
		t.Fatalf("entry timestamps not set")
	}
}

func TestTTLCacheLazyEviction(t *testing.T) {
	c := NewTTLCache()
	key := Key("SPY", time.Now().AddDate(0, -1, 0), time.Now(), repository.GranDay)

	c.Set(key, sampleSeries(), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, ok := c.Get(key); ok {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestKeyDistinguishesRanges(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a := Key("SPY", start, end, repository.GranDay)
	b := Key("SPY", start, end.AddDate(0, 0, 1), repository.GranDay)
	cKey := Key("SPY", start, end, repository.GranHour)
	if a == b || a == cKey {
		t.Fatalf("keys should differ: %s %s %s", a, b, cKey)
	}
}
