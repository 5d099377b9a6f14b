package cache

import (
	"fmt"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
)

// Entry is one cached fetch result. Validation travels with the series
// so a cache hit can be served without re-validating.
type Entry struct {
	Series    *models.AssetSeries `json:"series"`
	FetchedAt time.Time           `json:"fetched_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// HistoryCache stores prepared asset series keyed by
// (ticker, start, end, granularity). Expired entries are evicted lazily
// on the next lookup; there is no background sweep.
type HistoryCache interface {
	Get(key string) (*Entry, bool)
	Set(key string, series *models.AssetSeries, ttl time.Duration)
}

// Key builds the canonical cache key for a fetch.
func Key(ticker string, start, end time.Time, gran repository.Granularity) string {
	return fmt.Sprintf("%s:%s:%s:%s", ticker, start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"), gran)
}

type memEntry struct {
	e Entry
}

// TTLCache is the in-process HistoryCache.
type TTLCache struct {
	mu sync.RWMutex
	m  map[string]memEntry
}

func NewTTLCache() *TTLCache {
	return &TTLCache{m: make(map[string]memEntry)}
}

func (c *TTLCache) Get(key string) (*Entry, bool) {
	c.mu.RLock()
	me, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(me.e.ExpiresAt) {
		c.mu.Lock()
		delete(c.m, key)
		c.mu.Unlock()
		return nil, false
	}
	e := me.e
	return &e, true
}

func (c *TTLCache) Set(key string, series *models.AssetSeries, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := time.Now()
	c.mu.Lock()
	c.m[key] = memEntry{e: Entry{
		Series:    series,
		FetchedAt: now,
		ExpiresAt: now.Add(ttl),
	}}
	c.mu.Unlock()
}
