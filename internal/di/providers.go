package di

import (
	"context"
	"fmt"
	"time"

	domrepo "MarketPulse/internal/domain/repository"
	domsvc "MarketPulse/internal/domain/service"
	"MarketPulse/internal/handler/api"
	internalrepo "MarketPulse/internal/repository"
	"MarketPulse/internal/service/cache"
	"MarketPulse/internal/service/polygon"
	"MarketPulse/internal/services/analytics"
	"MarketPulse/internal/services/bars"
	"MarketPulse/internal/usecase"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"
	"MarketPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideBarProvider creates the upstream aggregates client.
func ProvideBarProvider(cfg *config.Config) domrepo.BarProvider {
	return polygon.New(
		cfg.Provider.BaseURL,
		cfg.Provider.APIKey,
		cfg.Provider.Timeout,
		cfg.Provider.Rate.Capacity,
		cfg.Provider.Rate.RefillPerSec,
	)
}

// ProvideHistoryCache selects Redis when enabled, in-process otherwise.
func ProvideHistoryCache(cfg *config.Config, l *applogger.Logger) cache.HistoryCache {
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisHistoryCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err == nil {
			return rc
		}
		l.Error("redis unavailable, falling back to memory cache", applogger.Error(err))
	}
	return cache.NewTTLCache()
}

// ProvideBarStore creates the ClickHouse bar store when enabled.
func ProvideBarStore(cfg *config.Config, l *applogger.Logger) (domrepo.BarStore, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := internalrepo.NewCHBarStore(ctx, client, l)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

// ProvideSignalPublisher creates the Kafka publisher when enabled.
func ProvideSignalPublisher(cfg *config.Config) (domrepo.SignalPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithTimeouts(cfg.Kafka.WriteTimeout, cfg.Kafka.ReadTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideValidator creates the series and matrix validator.
func ProvideValidator() domsvc.SeriesValidator {
	return bars.NewValidator()
}

// ProvideClassifierFactory builds regime classifiers per request.
func ProvideClassifierFactory(cfg *config.Config) usecase.ClassifierFactory {
	th := analytics.Thresholds{
		Normal:  cfg.Regime.Thresholds.Normal,
		HighVol: cfg.Regime.Thresholds.HighVol,
		Crisis:  cfg.Regime.Thresholds.Crisis,
	}
	return func(lookback int) domsvc.RegimeClassifier {
		if lookback <= 0 {
			lookback = cfg.Regime.Lookback
		}
		if cfg.Regime.Classifier == "diagonal" {
			return analytics.NewDiagonalClassifier(lookback, th, cfg.MarketData.MinAssets)
		}
		return analytics.NewCovarianceClassifier(lookback, th, cfg.MarketData.MinAssets)
	}
}

// ProvideFetchOrchestrator creates the batch fetch use case.
func ProvideFetchOrchestrator(
	provider domrepo.BarProvider,
	store domrepo.BarStore,
	hc cache.HistoryCache,
	validator domsvc.SeriesValidator,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.FetchOrchestrator {
	return usecase.NewFetchOrchestrator(provider, store, hc, validator, m, l, usecase.FetchConfig{
		CacheTTL:      cfg.MarketData.CacheTTL,
		RetryAttempts: cfg.MarketData.RetryAttempts,
		RetryBackoff:  cfg.MarketData.RetryBackoff,
		TickerDelay:   cfg.MarketData.TickerDelay,
		MinCoverage:   cfg.MarketData.MinCoverage,
	})
}

// ProvideMarketAnalyzer creates the analysis pipeline use case.
func ProvideMarketAnalyzer(
	fetcher *usecase.FetchOrchestrator,
	classifier usecase.ClassifierFactory,
	validator domsvc.SeriesValidator,
	publisher domrepo.SignalPublisher,
	m domrepo.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.MarketAnalyzer {
	return usecase.NewMarketAnalyzer(fetcher, classifier, validator, publisher, m, l, cfg.MarketData.MinAssets)
}

// ProvideStressEngine creates the stress replay engine.
func ProvideStressEngine() *usecase.StressEngine {
	return usecase.NewStressEngine()
}

// ProvideProgressHub creates the websocket progress hub.
func ProvideProgressHub(l *applogger.Logger) *api.ProgressHub {
	return api.NewProgressHub(l)
}

// ProvideHTTPHandler creates the Echo route handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	fetcher *usecase.FetchOrchestrator,
	analyzer *usecase.MarketAnalyzer,
	stress *usecase.StressEngine,
	hub *api.ProgressHub,
	store domrepo.BarStore,
) xhttp.Handler {
	return api.NewAnalysisEchoHandler(l, fetcher, analyzer, stress, hub, store)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	hub *api.ProgressHub,
	store domrepo.BarStore,
	publisher domrepo.SignalPublisher,
) *server.App {
	return server.New(cfg, l, handler, hub, store, publisher)
}
