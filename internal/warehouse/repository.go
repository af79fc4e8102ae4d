package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantinfra/nifty500/internal/contracts"
	"github.com/quantinfra/nifty500/pkg/config"
	"github.com/quantinfra/nifty500/pkg/logger"
)

// Repository loads the cleaned dataset into PostgreSQL. The warehouse is an
// optional sink; filesystem artifacts remain the sole handoff between
// pipeline stages.
type Repository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

// New creates a warehouse repository from config. The pool is verified with
// a ping before use.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool, logger: log}, nil
}

// Close closes the connection pool.
func (r *Repository) Close() {
	if r.pool != nil {
		r.pool.Close()
	}
}

// EnsureSchema creates the warehouse schema and tables if absent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE SCHEMA IF NOT EXISTS data`,
		`CREATE TABLE IF NOT EXISTS data.daily_prices (
			ticker               TEXT NOT NULL,
			trade_date           DATE NOT NULL,
			open_price           DOUBLE PRECISION,
			high_price           DOUBLE PRECISION,
			low_price            DOUBLE PRECISION,
			close_price          DOUBLE PRECISION NOT NULL,
			volume               BIGINT NOT NULL,
			dividends            DOUBLE PRECISION NOT NULL DEFAULT 0,
			stock_splits         DOUBLE PRECISION NOT NULL DEFAULT 0,
			day_of_week          SMALLINT NOT NULL,
			year                 SMALLINT NOT NULL,
			month                SMALLINT NOT NULL,
			transaction_cost_bps DOUBLE PRECISION NOT NULL,
			PRIMARY KEY (ticker, trade_date)
		)`,
	}

	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveBatch upserts cleaned records on (ticker, trade_date) in batches.
func (r *Repository) SaveBatch(ctx context.Context, records []contracts.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO data.daily_prices (
			ticker, trade_date, open_price, high_price, low_price, close_price,
			volume, dividends, stock_splits, day_of_week, year, month, transaction_cost_bps
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume,
			dividends = EXCLUDED.dividends,
			stock_splits = EXCLUDED.stock_splits,
			day_of_week = EXCLUDED.day_of_week,
			year = EXCLUDED.year,
			month = EXCLUDED.month,
			transaction_cost_bps = EXCLUDED.transaction_cost_bps
	`

	const batchSize = 1000
	for offset := 0; offset < len(records); offset += batchSize {
		end := offset + batchSize
		if end > len(records) {
			end = len(records)
		}

		batch := &pgx.Batch{}
		for _, rec := range records[offset:end] {
			batch.Queue(query,
				rec.Ticker, rec.Date, nullable(rec.Open), nullable(rec.High),
				nullable(rec.Low), rec.Close, int64(rec.Volume), rec.Dividends,
				rec.StockSplits, rec.DayOfWeek, rec.Year, rec.Month, rec.TransactionCostBps,
			)
		}

		results := r.pool.SendBatch(ctx, batch)
		if err := results.Close(); err != nil {
			return fmt.Errorf("save batch at offset %d: %w", offset, err)
		}
	}

	r.logger.WithField("rows", len(records)).Info("Loaded records into warehouse")
	return nil
}

// CountRows returns the number of stored price rows.
func (r *Repository) CountRows(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM data.daily_prices`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return count, nil
}

// nullable maps a missing value to SQL NULL.
func nullable(v float64) interface{} {
	if contracts.IsMissing(v) {
		return nil
	}
	return v
}
