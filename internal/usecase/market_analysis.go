package usecase

import (
	"context"
	"sort"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/internal/services/analytics"
	"MarketPulse/pkg/logger"
)

// AnalysisResult bundles everything one analysis run produces. When the
// universe is below the asset minimum the correlation matrix is empty
// and Signals is nil; the per-asset series and integrity report are
// still returned.
type AnalysisResult struct {
	Series      map[string]*models.AssetSeries `json:"series"`
	Correlation *models.CorrelationMatrix      `json:"correlation"`
	Signals     []models.RegimeSignal          `json:"signals"`
	Current     *models.RegimeSignal           `json:"current,omitempty"`
	Integrity   models.IntegrityReport         `json:"integrity"`
	Diagnostics []models.FetchDiagnostic       `json:"diagnostics"`
}

// ClassifierFactory builds a regime classifier for a given lookback
// window. A non-positive lookback selects the configured default.
type ClassifierFactory func(lookback int) domsvc.RegimeClassifier

// MarketAnalyzer runs the full pipeline: batch fetch, correlation
// matrix, regime classification, integrity audit, and (when configured)
// publication of the latest regime signal.
type MarketAnalyzer struct {
	fetcher    *FetchOrchestrator
	classifier ClassifierFactory
	validator  domsvc.SeriesValidator
	publisher  repository.SignalPublisher // may be nil
	metrics    repository.Metrics
	log        *logger.Logger
	minAssets  int
}

func NewMarketAnalyzer(
	fetcher *FetchOrchestrator,
	classifier ClassifierFactory,
	validator domsvc.SeriesValidator,
	publisher repository.SignalPublisher,
	metrics repository.Metrics,
	log *logger.Logger,
	minAssets int,
) *MarketAnalyzer {
	if minAssets <= 0 {
		minAssets = analytics.MinAssetsForAnalysis
	}
	return &MarketAnalyzer{
		fetcher:    fetcher,
		classifier: classifier,
		validator:  validator,
		publisher:  publisher,
		metrics:    metrics,
		log:        log,
		minAssets:  minAssets,
	}
}

// Analyze fetches the universe and derives correlation and regime state.
// Per-ticker fetch failures shrink the universe rather than failing the
// run; the error return is reserved for cancellation.
func (m *MarketAnalyzer) Analyze(ctx context.Context, q FetchQuery, lookback int, progress ProgressFunc) (*AnalysisResult, error) {
	started := time.Now()
	fetched, err := m.fetcher.Fetch(ctx, q, progress)
	if err != nil {
		return nil, err
	}

	res := &AnalysisResult{
		Series:      fetched.Series,
		Diagnostics: fetched.Diagnostics,
	}

	tickers := make([]string, 0, len(fetched.Series))
	for t := range fetched.Series {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	if len(tickers) < m.minAssets {
		m.log.Warn("universe below analysis minimum",
			logger.Int("assets", len(tickers)),
			logger.Int("min", m.minAssets))
		res.Correlation = &models.CorrelationMatrix{Timestamp: time.Now()}
		res.Integrity = AuditIntegrity(fetched.Series, nil)
		return res, nil
	}

	returns := make(map[string][]float64, len(tickers))
	for _, t := range tickers {
		returns[t] = fetched.Series[t].LogReturns
	}

	res.Correlation = analytics.BuildCorrelationMatrix(tickers, returns, m.validator)
	res.Signals = m.classifier(lookback).Classify(returns, returnTimestamps(fetched.Series, tickers))
	res.Integrity = AuditIntegrity(fetched.Series, res.Correlation)

	if n := len(res.Signals); n > 0 {
		latest := res.Signals[n-1]
		res.Current = &latest
		m.metrics.RecordTurbulence(latest.TurbulenceIndex)
		m.publish(ctx, tickers, latest)
	}

	m.metrics.RecordLatency("analysis", time.Since(started).Seconds())
	m.log.Info("analysis complete",
		logger.Int("assets", len(tickers)),
		logger.Int("signals", len(res.Signals)),
		logger.String("integrity", string(res.Integrity.Status)))
	return res, nil
}

func (m *MarketAnalyzer) publish(ctx context.Context, tickers []string, signal models.RegimeSignal) {
	if m.publisher == nil {
		return
	}
	if err := m.publisher.PublishSignal(ctx, tickers, signal); err != nil {
		m.metrics.RecordError("publish")
		m.log.Warn("regime signal publish failed", logger.Error(err))
	}
}

// returnTimestamps picks the longest available bar calendar and maps it
// to the return axis (returns start at the second bar). The classifier
// aligns shorter series from the tail.
func returnTimestamps(series map[string]*models.AssetSeries, tickers []string) []int64 {
	var ref *models.AssetSeries
	for _, t := range tickers {
		s := series[t]
		if ref == nil || len(s.Bars) > len(ref.Bars) {
			ref = s
		}
	}
	if ref == nil || len(ref.Bars) < 2 {
		return nil
	}
	out := make([]int64, len(ref.Bars)-1)
	for i := 1; i < len(ref.Bars); i++ {
		out[i-1] = ref.Bars[i].Timestamp
	}
	return out
}
