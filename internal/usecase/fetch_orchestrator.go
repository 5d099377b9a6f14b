package usecase

import (
	"context"
	"errors"
	"time"

	"MarketPulse/internal/domain/models"
	"MarketPulse/internal/domain/repository"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/internal/service/cache"
	"MarketPulse/internal/services/bars"
	"MarketPulse/internal/services/features"
	phttp "MarketPulse/pkg/http"
	"MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"
)

// errNoData marks an upstream response with zero bars; non-fatal for
// the batch, the ticker is simply excluded from the asset map.
var errNoData = errors.New("no data returned")

// FetchConfig tunes the sequential batch fetch.
type FetchConfig struct {
	CacheTTL      time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	TickerDelay   time.Duration
	MinCoverage   float64
}

// ProgressFunc is invoked after each ticker completes, successfully or not.
type ProgressFunc func(ticker string, done, total int)

// FetchQuery describes one batch fetch. BypassCache skips cache and
// store reads but still writes through on success.
type FetchQuery struct {
	Tickers     []string
	Start       time.Time
	End         time.Time
	Granularity repository.Granularity
	BypassCache bool
}

// FetchResult is the outcome of one batch fetch: the prepared series for
// each ticker that succeeded, plus one diagnostic per input ticker in
// input order. Partial failure is not an error.
type FetchResult struct {
	Series      map[string]*models.AssetSeries `json:"series"`
	Diagnostics []models.FetchDiagnostic       `json:"diagnostics"`
}

// FetchOrchestrator retrieves, repairs and validates bar history for a
// list of tickers. Tickers are processed sequentially with a fixed delay
// between network fetches to stay inside provider rate limits. Each
// ticker is resolved cache first, then the persistent store, then the
// network; a network result backfills both layers.
type FetchOrchestrator struct {
	provider  repository.BarProvider
	store     repository.BarStore // may be nil
	cache     cache.HistoryCache
	validator domsvc.SeriesValidator
	metrics   repository.Metrics
	log       *logger.Logger
	cfg       FetchConfig
}

func NewFetchOrchestrator(
	provider repository.BarProvider,
	store repository.BarStore,
	hc cache.HistoryCache,
	validator domsvc.SeriesValidator,
	metrics repository.Metrics,
	log *logger.Logger,
	cfg FetchConfig,
) *FetchOrchestrator {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 300 * time.Millisecond
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}
	if cfg.MinCoverage <= 0 {
		cfg.MinCoverage = 0.8
	}
	return &FetchOrchestrator{
		provider:  provider,
		store:     store,
		cache:     hc,
		validator: validator,
		metrics:   metrics,
		log:       log,
		cfg:       cfg,
	}
}

// Fetch processes the tickers in order. The returned error is reserved
// for context cancellation; per-ticker failures land in Diagnostics.
func (o *FetchOrchestrator) Fetch(ctx context.Context, q FetchQuery, progress ProgressFunc) (*FetchResult, error) {
	tickers := q.Tickers
	res := &FetchResult{
		Series:      make(map[string]*models.AssetSeries, len(tickers)),
		Diagnostics: make([]models.FetchDiagnostic, 0, len(tickers)),
	}

	for i, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		series, source, err := o.fetchOne(ctx, ticker, q)
		diag := models.FetchDiagnostic{Ticker: ticker, Source: source}
		if err != nil {
			diag.Error = err.Error()
			o.metrics.RecordError("fetch")
			o.log.Warn("ticker fetch failed",
				logger.String("ticker", ticker),
				logger.Error(err))
		} else {
			diag.Success = true
			diag.BarCount = len(series.Bars)
			diag.Quality = series.Validation.Quality
			res.Series[ticker] = series
			o.metrics.RecordFetch(string(source), ticker)
		}
		res.Diagnostics = append(res.Diagnostics, diag)

		if progress != nil {
			progress(ticker, i+1, len(tickers))
		}

		// pace network traffic only; cache and store hits are free
		if source == models.SourceNetwork && i < len(tickers)-1 && o.cfg.TickerDelay > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(o.cfg.TickerDelay):
			}
		}
	}
	return res, nil
}

func (o *FetchOrchestrator) fetchOne(ctx context.Context, ticker string, q FetchQuery) (*models.AssetSeries, models.FetchSource, error) {
	start, end, gran := q.Start, q.End, q.Granularity
	key := cache.Key(ticker, start, end, gran)
	if o.cache != nil && !q.BypassCache {
		if entry, ok := o.cache.Get(key); ok {
			return entry.Series, models.SourceCache, nil
		}
	}

	if !q.BypassCache {
		if series, ok := o.fromStore(ctx, ticker, start, end, gran); ok {
			if o.cache != nil {
				o.cache.Set(key, series, o.cfg.CacheTTL)
			}
			return series, models.SourceStore, nil
		}
	}

	raw, err := o.fetchWithRetry(ctx, repository.BarRequest{
		Ticker:      ticker,
		Start:       start,
		End:         end,
		Granularity: gran,
	})
	if err != nil {
		return nil, models.SourceNetwork, err
	}
	if len(raw) == 0 {
		return nil, models.SourceNetwork, errNoData
	}

	series := o.prepare(ticker, raw, start, end)
	if o.cache != nil {
		o.cache.Set(key, series, o.cfg.CacheTTL)
	}
	if o.store != nil && gran == repository.GranDay && len(raw) > 0 {
		if err := o.store.UpsertBars(ctx, ticker, raw); err != nil {
			o.metrics.RecordError("store_write")
			o.log.Warn("bar store write failed",
				logger.String("ticker", ticker),
				logger.Error(err))
		}
	}
	return series, models.SourceNetwork, nil
}

// fromStore serves daily bars from the persistent store when it covers
// enough of the requested trading days. Thin coverage falls through to
// the network.
func (o *FetchOrchestrator) fromStore(ctx context.Context, ticker string, start, end time.Time, gran repository.Granularity) (*models.AssetSeries, bool) {
	if o.store == nil || gran != repository.GranDay {
		return nil, false
	}
	stored, err := o.store.GetBars(ctx, ticker, start, end)
	if err != nil {
		o.metrics.RecordError("store_read")
		return nil, false
	}
	expected := util.TradingDaysBetween(start, end)
	if expected == 0 || float64(len(stored))/float64(expected) < o.cfg.MinCoverage {
		return nil, false
	}
	return o.prepare(ticker, stored, start, end), true
}

func (o *FetchOrchestrator) fetchWithRetry(ctx context.Context, req repository.BarRequest) ([]models.Bar, error) {
	backoff := o.cfg.RetryBackoff
	var lastErr error
	for attempt := 1; attempt <= o.cfg.RetryAttempts; attempt++ {
		bars, err := o.provider.GetBars(ctx, req)
		if err == nil {
			return bars, nil
		}
		lastErr = err
		if phttp.IsAuthError(err) {
			// bad credentials will not heal with retries
			return nil, err
		}
		if attempt < o.cfg.RetryAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}
	return nil, lastErr
}

func (o *FetchOrchestrator) prepare(ticker string, raw []models.Bar, start, end time.Time) *models.AssetSeries {
	repaired := bars.RepairGaps(raw)
	logReturns := features.ComputeLogReturns(repaired)
	series := &models.AssetSeries{
		Ticker:        ticker,
		Bars:          repaired,
		LogReturns:    logReturns,
		AnnualizedVol: features.AnnualizedVolatility(logReturns),
	}
	if o.validator != nil {
		series.Validation = o.validator.ValidateSeries(ticker, repaired, &domsvc.DateRange{From: start, To: end})
	}
	return series
}
