package core

import (
	"context"
)

// EmailParser turns raw input into an Email
type EmailParser interface {
	// Parse returns ErrEmptyInput for blank input and never fails otherwise
	Parse(raw []byte) (*Email, error)
}

// SenderAnalyzer derives sender trust signals
type SenderAnalyzer interface {
	AnalyzeSender(email *Email) SenderSignals
}

// URLAnalyzer finds and classifies links
type URLAnalyzer interface {
	AnalyzeURLs(email *Email) URLSignals
}

// PatternScanner runs the lexical checks
type PatternScanner interface {
	ScanPatterns(email *Email) ContentSignals
}

// FeatureExtractor builds the classifier input
type FeatureExtractor interface {
	Build(email *Email) FeatureVector
}

// Scorer turns a feature vector into a probability. It never fails.
type Scorer interface {
	Evaluate(ctx context.Context, vector FeatureVector) Scoring
}

// URLStore keeps suspicious URLs
type URLStore interface {
	// AddURLs stores the records whose URL is not yet present and returns how many were added
	AddURLs(ctx context.Context, records []URLRecord) (int, error)

	// AddURL stores a single record, replacing any record with the same URL
	AddURL(ctx context.Context, record URLRecord) error

	// RemoveURL deletes a record
	RemoveURL(ctx context.Context, url string) error

	// ListURLs returns all records in insertion order
	ListURLs(ctx context.Context) ([]URLRecord, error)
}

// HistoryStore keeps the most recent analyses
type HistoryStore interface {
	// AppendHistory inserts an entry as the newest and evicts beyond HistoryLimit
	AppendHistory(ctx context.Context, entry HistoryEntry) error

	// RecentHistory returns up to limit entries, newest first
	RecentHistory(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// Store is a backend serving both URL and history records
type Store interface {
	URLStore
	HistoryStore
	Close() error
}

// EventPublisher announces finished analyses
type EventPublisher interface {
	Publish(ctx context.Context, result *AnalysisResult) error
}

// HostFilter decides whether a URL host may be recorded
type HostFilter interface {
	IsTrustedHost(host string) bool
}
