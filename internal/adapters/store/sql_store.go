package store

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

// dialect holds the statements that differ between SQL engines
type dialect struct {
	name          string
	schema        []string
	insertURL     string
	upsertURL     string
	deleteURL     string
	listURLs      string
	insertHistory string
	trimHistory   string
	recentHistory string

	urlArgs    func(record core.URLRecord) []any
	deleteArgs func(url string) []any
}

// SQLStore is a database/sql implementation of core.Store
type SQLStore struct {
	db      *sql.DB
	dialect dialect
	logger  *zap.Logger
}

func newSQLStore(db *sql.DB, d dialect, logger *zap.Logger) (*SQLStore, error) {
	for _, stmt := range d.schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", d.name, err)
		}
	}

	return &SQLStore{
		db:      db,
		dialect: d,
		logger:  logger,
	}, nil
}

// AddURLs implements core.URLStore
func (s *SQLStore) AddURLs(ctx context.Context, records []core.URLRecord) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	for _, record := range records {
		result, err := tx.ExecContext(ctx, s.dialect.insertURL, s.dialect.urlArgs(record)...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert url: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to get rows affected: %w", err)
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit urls: %w", err)
	}
	return added, nil
}

// AddURL implements core.URLStore
func (s *SQLStore) AddURL(ctx context.Context, record core.URLRecord) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.upsertURL, s.dialect.urlArgs(record)...); err != nil {
		return fmt.Errorf("failed to upsert url: %w", err)
	}
	return nil
}

// RemoveURL implements core.URLStore
func (s *SQLStore) RemoveURL(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, s.dialect.deleteURL, s.dialect.deleteArgs(url)...)
	if err != nil {
		return fmt.Errorf("failed to delete url: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListURLs implements core.URLStore
func (s *SQLStore) ListURLs(ctx context.Context) ([]core.URLRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.listURLs)
	if err != nil {
		return nil, fmt.Errorf("failed to query urls: %w", err)
	}
	defer rows.Close()

	records := []core.URLRecord{}
	for rows.Next() {
		var record core.URLRecord
		if err := rows.Scan(&record.URL, &record.Source, &record.DateAdded, &record.RiskLevel); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// AppendHistory implements core.HistoryStore
func (s *SQLStore) AppendHistory(ctx context.Context, entry core.HistoryEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.dialect.insertHistory,
		entry.Source, entry.Timestamp, entry.IsPhishing, entry.Probability); err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}

	result, err := tx.ExecContext(ctx, s.dialect.trimHistory, core.HistoryLimit)
	if err != nil {
		return fmt.Errorf("failed to trim history: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		s.logger.Debug("Evicted history entries", zap.Int64("evicted", n))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history entry: %w", err)
	}
	return nil
}

// RecentHistory implements core.HistoryStore
func (s *SQLStore) RecentHistory(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.recentHistory, historyLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	entries := []core.HistoryEntry{}
	for rows.Next() {
		var entry core.HistoryEntry
		if err := rows.Scan(&entry.Source, &entry.Timestamp, &entry.IsPhishing, &entry.Probability); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Close implements core.Store
func (s *SQLStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close %s database: %w", s.dialect.name, err)
	}
	return nil
}
