package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

// URLs are keyed by their SHA-256 since MySQL cannot index long TEXT columns
var mysqlDialect = dialect{
	name: "MySQL",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS suspicious_urls (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			url_hash CHAR(64) NOT NULL,
			url TEXT NOT NULL,
			source VARCHAR(255) NOT NULL,
			date_added VARCHAR(32) NOT NULL,
			risk_level VARCHAR(16) NOT NULL,
			UNIQUE KEY idx_url_hash (url_hash)
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_history (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			source VARCHAR(255) NOT NULL,
			analyzed_at VARCHAR(32) NOT NULL,
			is_phishing TINYINT NOT NULL,
			probability DOUBLE NOT NULL
		)`,
	},
	insertURL: `INSERT IGNORE INTO suspicious_urls (url_hash, url, source, date_added, risk_level) VALUES (?, ?, ?, ?, ?)`,
	upsertURL: `INSERT INTO suspicious_urls (url_hash, url, source, date_added, risk_level) VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE source = VALUES(source), date_added = VALUES(date_added), risk_level = VALUES(risk_level)`,
	deleteURL:     `DELETE FROM suspicious_urls WHERE url_hash = ?`,
	listURLs:      `SELECT url, source, date_added, risk_level FROM suspicious_urls ORDER BY id`,
	insertHistory: `INSERT INTO analysis_history (source, analyzed_at, is_phishing, probability) VALUES (?, ?, ?, ?)`,
	trimHistory: `DELETE FROM analysis_history WHERE id NOT IN (
		SELECT id FROM (SELECT id FROM analysis_history ORDER BY id DESC LIMIT ?) AS keep_rows)`,
	recentHistory: `SELECT source, analyzed_at, is_phishing, probability FROM analysis_history ORDER BY id DESC LIMIT ?`,
	urlArgs: func(r core.URLRecord) []any {
		return []any{urlHash(r.URL), r.URL, r.Source, r.DateAdded, string(r.RiskLevel)}
	},
	deleteArgs: func(url string) []any { return []any{urlHash(url)} },
}

func urlHash(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// NewMySQLStore connects to MySQL and creates the tables if needed
func NewMySQLStore(dsn string, logger *zap.Logger) (*SQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	return newSQLStore(db, mysqlDialect, logger)
}
