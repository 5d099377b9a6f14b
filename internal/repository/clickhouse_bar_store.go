package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	pkgch "MarketPulse/pkg/clickhouse"
	applogger "MarketPulse/pkg/logger"
)

// barTableSchema keys daily bars by (ticker, trade date); the replacing
// merge tree deduplicates re-upserted days on merge.
var barTableSchema = []string{`
    CREATE TABLE IF NOT EXISTS daily_bars (
        ticker     LowCardinality(String),
        trade_date Date,
        ts_ms      Int64,
        open       Float64,
        high       Float64,
        low        Float64,
        close      Float64,
        volume     Float64,
        vwap       Float64
    ) ENGINE = ReplacingMergeTree()
    ORDER BY (ticker, trade_date)
`}

// CHBarStore implements BarStore backed by ClickHouse.
type CHBarStore struct {
	db *sql.DB
	ch *pkgch.Client
	l  *applogger.Logger
}

func NewCHBarStore(ctx context.Context, ch *pkgch.Client, l *applogger.Logger) (*CHBarStore, error) {
	if err := ch.InitSchema(ctx, barTableSchema); err != nil {
		return nil, fmt.Errorf("init bar schema: %w", err)
	}
	return &CHBarStore{db: ch.DB(), ch: ch, l: l}, nil
}

var _ domrepo.BarStore = (*CHBarStore)(nil)

func (s *CHBarStore) GetBars(ctx context.Context, ticker string, from, to time.Time) ([]models.Bar, error) {
	const q = `
        SELECT ts_ms, open, high, low, close, volume, vwap
        FROM daily_bars FINAL
        WHERE ticker = ? AND trade_date >= ? AND trade_date <= ?
        ORDER BY ts_ms ASC
    `
	rows, err := s.db.QueryContext(ctx, q, ticker, from.UTC(), to.UTC())
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_bars query error",
				applogger.String("ticker", ticker),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("get bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, 512)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume, &b.VWAP); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get bars: %w", err)
	}
	return out, nil
}

func (s *CHBarStore) UpsertBars(ctx context.Context, ticker string, bars []models.Bar) error {
	if len(bars) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	const q = `
        INSERT INTO daily_bars
            (ticker, trade_date, ts_ms, open, high, low, close, volume, vwap)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, b := range bars {
		tradeDate := time.UnixMilli(b.Timestamp).UTC()
		if _, err := stmt.ExecContext(ctx, ticker, tradeDate, b.Timestamp,
			b.Open, b.High, b.Low, b.Close, b.Volume, b.VWAP); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert bar: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	if s.l != nil {
		s.l.Debug("bars upserted",
			applogger.String("ticker", ticker),
			applogger.Int("count", len(bars)),
		)
	}
	return nil
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

func (s *CHBarStore) Close() error {
	return s.ch.Close()
}
