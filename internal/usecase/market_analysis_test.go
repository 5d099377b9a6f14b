package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/internal/service/cache"
	"MarketPulse/internal/services/analytics"
	"MarketPulse/internal/services/bars"
	"MarketPulse/pkg/logger"
)

type capturePublisher struct {
	tickers []string
	signals []models.RegimeSignal
}

func (p *capturePublisher) PublishSignal(_ context.Context, tickers []string, s models.RegimeSignal) error {
	p.tickers = tickers
	p.signals = append(p.signals, s)
	return nil
}

func (p *capturePublisher) Close() error { return nil }

func newTestAnalyzer(p repository.BarProvider, pub repository.SignalPublisher) *MarketAnalyzer {
	fetcher := NewFetchOrchestrator(p, nil, cache.NewTTLCache(), bars.NewValidator(), nopMetrics{}, logger.Nop(), FetchConfig{
		CacheTTL:      time.Minute,
		RetryAttempts: 1,
		RetryBackoff:  time.Millisecond,
	})
	cls := func(lookback int) domsvc.RegimeClassifier {
		if lookback <= 0 {
			lookback = 10
		}
		return analytics.NewDiagonalClassifier(lookback, analytics.DefaultThresholds(), 3)
	}
	return NewMarketAnalyzer(fetcher, cls, bars.NewValidator(), pub, nopMetrics{}, logger.Nop(), 3)
}

func TestAnalyzeFullPipeline(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 55)
	p := &stubProvider{bars: map[string][]models.Bar{
		"AAA": dailyBars(start, 40),
		"BBB": dailyBars(start, 40),
		"CCC": dailyBars(start, 40),
	}}
	pub := &capturePublisher{}
	a := newTestAnalyzer(p, pub)

	res, err := a.Analyze(context.Background(), FetchQuery{
		Tickers: []string{"AAA", "BBB", "CCC"},
		Start:   start, End: end,
		Granularity: repository.GranDay,
	}, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Series) != 3 {
		t.Fatalf("got %d series, want 3", len(res.Series))
	}
	if res.Correlation.Empty() || len(res.Correlation.Tickers) != 3 {
		t.Fatalf("correlation matrix missing: %+v", res.Correlation)
	}
	if len(res.Signals) == 0 || res.Current == nil {
		t.Fatalf("expected regime signals, got %d", len(res.Signals))
	}
	if res.Current.TurbulenceIndex != res.Signals[len(res.Signals)-1].TurbulenceIndex {
		t.Fatalf("current signal should be the latest")
	}
	if res.Integrity.Status == "" {
		t.Fatalf("integrity report missing")
	}
	if len(pub.signals) != 1 || pub.signals[0].Regime != res.Current.Regime {
		t.Fatalf("latest signal should be published once, got %d", len(pub.signals))
	}
	if len(pub.tickers) != 3 {
		t.Fatalf("published universe %v", pub.tickers)
	}
}

func TestAnalyzeBelowMinimumSkipsMatrix(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &stubProvider{bars: map[string][]models.Bar{
		"AAA": dailyBars(start, 40),
		"BBB": dailyBars(start, 40),
	}}
	pub := &capturePublisher{}
	a := newTestAnalyzer(p, pub)

	res, err := a.Analyze(context.Background(), FetchQuery{
		Tickers: []string{"AAA", "BBB"},
		Start:   start, End: start.AddDate(0, 0, 55),
		Granularity: repository.GranDay,
	}, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Correlation.Empty() {
		t.Fatalf("matrix should be empty below the asset minimum")
	}
	if res.Signals != nil || res.Current != nil {
		t.Fatalf("no signals expected below the asset minimum")
	}
	if len(res.Series) != 2 {
		t.Fatalf("series should still be returned")
	}
	if len(pub.signals) != 0 {
		t.Fatalf("nothing should be published")
	}
}

func TestAnalyzeShrinksUniverseOnFailure(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := &stubProvider{
		bars: map[string][]models.Bar{
			"AAA": dailyBars(start, 40),
			"BBB": dailyBars(start, 40),
			"CCC": dailyBars(start, 40),
		},
		fail: map[string]error{"DDD": errors.New("no data")},
	}
	a := newTestAnalyzer(p, nil)

	res, err := a.Analyze(context.Background(), FetchQuery{
		Tickers: []string{"AAA", "BBB", "CCC", "DDD"},
		Start:   start, End: start.AddDate(0, 0, 55),
		Granularity: repository.GranDay,
	}, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Correlation.Tickers) != 3 {
		t.Fatalf("analysis should proceed with the 3 healthy tickers")
	}
	if len(res.Diagnostics) != 4 {
		t.Fatalf("all 4 tickers should be diagnosed")
	}
}
