package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

var sqliteDialect = dialect{
	name: "SQLite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS suspicious_urls (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			date_added TEXT NOT NULL,
			risk_level TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL,
			analyzed_at TEXT NOT NULL,
			is_phishing INTEGER NOT NULL,
			probability REAL NOT NULL
		)`,
	},
	insertURL: `INSERT OR IGNORE INTO suspicious_urls (url, source, date_added, risk_level) VALUES (?, ?, ?, ?)`,
	upsertURL: `INSERT INTO suspicious_urls (url, source, date_added, risk_level) VALUES (?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET source = excluded.source, date_added = excluded.date_added, risk_level = excluded.risk_level`,
	deleteURL:     `DELETE FROM suspicious_urls WHERE url = ?`,
	listURLs:      `SELECT url, source, date_added, risk_level FROM suspicious_urls ORDER BY id`,
	insertHistory: `INSERT INTO analysis_history (source, analyzed_at, is_phishing, probability) VALUES (?, ?, ?, ?)`,
	trimHistory: `DELETE FROM analysis_history WHERE id NOT IN (
		SELECT id FROM (SELECT id FROM analysis_history ORDER BY id DESC LIMIT ?) AS keep)`,
	recentHistory: `SELECT source, analyzed_at, is_phishing, probability FROM analysis_history ORDER BY id DESC LIMIT ?`,
	urlArgs: func(r core.URLRecord) []any {
		return []any{r.URL, r.Source, r.DateAdded, string(r.RiskLevel)}
	},
	deleteArgs: func(url string) []any { return []any{url} },
}

// NewSQLiteStore opens or creates a SQLite database at dbPath
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)

	return newSQLStore(db, sqliteDialect, logger)
}
