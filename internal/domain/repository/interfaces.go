package repository

import (
	"context"
	"time"

	"MarketPulse/internal/domain/models"
)

// BarRequest describes one retrieval from the upstream aggregates provider.
type BarRequest struct {
	Ticker      string
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// BarProvider is the injected transport to the upstream market-data API.
// Implementations surface credential failures (401/403) as non-retryable
// errors; everything else is treated as transient by callers.
type BarProvider interface {
	GetBars(ctx context.Context, req BarRequest) ([]models.Bar, error)
}

// BarStore is the long-lived daily-bar cache behind the fetch path,
// keyed by (ticker, trade date). Coverage may be partial; callers check
// the returned bars against the expected trading-day count before
// trusting a thin cache.
type BarStore interface {
	GetBars(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error)
	UpsertBars(ctx context.Context, ticker string, bars []models.Bar) error
	Health(ctx context.Context) error
	Close() error
}

// SignalPublisher pushes regime classifications to downstream consumers.
type SignalPublisher interface {
	PublishSignal(ctx context.Context, tickers []string, signal models.RegimeSignal) error
	Close() error
}

// Metrics records operational counters for the engine.
type Metrics interface {
	RecordFetch(source, ticker string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
	RecordTurbulence(v float64)
}
