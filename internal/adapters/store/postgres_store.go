package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS suspicious_urls (
	id BIGSERIAL PRIMARY KEY,
	url TEXT NOT NULL UNIQUE,
	source TEXT NOT NULL,
	date_added TEXT NOT NULL,
	risk_level TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS analysis_history (
	id BIGSERIAL PRIMARY KEY,
	source TEXT NOT NULL,
	analyzed_at TEXT NOT NULL,
	is_phishing SMALLINT NOT NULL,
	probability DOUBLE PRECISION NOT NULL
);`

// PostgresStore is a PostgreSQL implementation of core.Store
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgresStore opens a connection pool and creates the tables if needed
func NewPostgresStore(dsn string, logger *zap.Logger) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnIdleTime = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create postgres schema: %w", err)
	}

	logger.Info("PostgreSQL store ready")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// AddURLs implements core.URLStore
func (s *PostgresStore) AddURLs(ctx context.Context, records []core.URLRecord) (int, error) {
	added := 0
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		for _, r := range records {
			tag, err := tx.Exec(ctx, `
				INSERT INTO suspicious_urls (url, source, date_added, risk_level)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (url) DO NOTHING`,
				r.URL, r.Source, r.DateAdded, string(r.RiskLevel))
			if err != nil {
				return err
			}
			added += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to insert urls: %w", err)
	}
	return added, nil
}

// AddURL implements core.URLStore
func (s *PostgresStore) AddURL(ctx context.Context, r core.URLRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO suspicious_urls (url, source, date_added, risk_level)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (url) DO UPDATE
		SET source = EXCLUDED.source, date_added = EXCLUDED.date_added, risk_level = EXCLUDED.risk_level`,
		r.URL, r.Source, r.DateAdded, string(r.RiskLevel))
	if err != nil {
		return fmt.Errorf("failed to upsert url: %w", err)
	}
	return nil
}

// RemoveURL implements core.URLStore
func (s *PostgresStore) RemoveURL(ctx context.Context, url string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM suspicious_urls WHERE url = $1`, url)
	if err != nil {
		return fmt.Errorf("failed to delete url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListURLs implements core.URLStore
func (s *PostgresStore) ListURLs(ctx context.Context) ([]core.URLRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT url, source, date_added, risk_level FROM suspicious_urls ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query urls: %w", err)
	}
	defer rows.Close()

	records := []core.URLRecord{}
	for rows.Next() {
		var (
			r    core.URLRecord
			risk string
		)
		if err := rows.Scan(&r.URL, &r.Source, &r.DateAdded, &risk); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		r.RiskLevel = core.RiskLevel(risk)
		records = append(records, r)
	}
	return records, rows.Err()
}

// AppendHistory implements core.HistoryStore
func (s *PostgresStore) AppendHistory(ctx context.Context, entry core.HistoryEntry) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO analysis_history (source, analyzed_at, is_phishing, probability)
			VALUES ($1, $2, $3, $4)`,
			entry.Source, entry.Timestamp, entry.IsPhishing, entry.Probability); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			DELETE FROM analysis_history WHERE id NOT IN (
				SELECT id FROM analysis_history ORDER BY id DESC LIMIT $1)`,
			core.HistoryLimit)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// RecentHistory implements core.HistoryStore
func (s *PostgresStore) RecentHistory(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT source, analyzed_at, is_phishing, probability
		FROM analysis_history ORDER BY id DESC LIMIT $1`, historyLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (core.HistoryEntry, error) {
		var (
			e          core.HistoryEntry
			isPhishing int16
		)
		err := row.Scan(&e.Source, &e.Timestamp, &isPhishing, &e.Probability)
		e.IsPhishing = int(isPhishing)
		return e, err
	})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to scan history: %w", err)
	}
	if entries == nil {
		entries = []core.HistoryEntry{}
	}
	return entries, nil
}

// Close implements core.Store
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
