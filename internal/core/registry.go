package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidURL is returned when a manually entered URL is blank
	ErrInvalidURL = errors.New("url is empty")
	// ErrInvalidRiskLevel is returned for risk levels other than Low, Medium, High or Critical
	ErrInvalidRiskLevel = errors.New("invalid risk level")
	// ErrURLNotFound is returned by URL stores when removing an unknown URL
	ErrURLNotFound = errors.New("url not found")
)

// Registry manages stored URLs and reads history on behalf of the frontends
type Registry struct {
	urls    URLStore
	history HistoryStore
	now     func() time.Time
}

// NewRegistry creates a registry over the given stores
func NewRegistry(urls URLStore, history HistoryStore) *Registry {
	return &Registry{
		urls:    urls,
		history: history,
		now:     time.Now,
	}
}

// AddURL stores a manually entered URL. A missing scheme becomes http://,
// an empty source becomes "Manual entry" and an empty risk level Medium.
func (r *Registry) AddURL(ctx context.Context, raw, source, risk string) (URLRecord, error) {
	u := NormalizeURL(raw)
	if u == "" {
		return URLRecord{}, ErrInvalidURL
	}

	level := RiskMedium
	if risk != "" {
		var ok bool
		if level, ok = ParseRiskLevel(risk); !ok {
			return URLRecord{}, fmt.Errorf("%w: %q", ErrInvalidRiskLevel, risk)
		}
	}
	if source == "" {
		source = "Manual entry"
	}

	record := URLRecord{
		URL:       u,
		Source:    source,
		DateAdded: r.now().Format(TimestampLayout),
		RiskLevel: level,
	}
	if err := r.urls.AddURL(ctx, record); err != nil {
		return URLRecord{}, &PersistenceError{Op: "add_url", Err: err}
	}
	return record, nil
}

// RemoveURL deletes a stored URL
func (r *Registry) RemoveURL(ctx context.Context, raw string) error {
	if err := r.urls.RemoveURL(ctx, raw); err != nil {
		return &PersistenceError{Op: "remove_url", Err: err}
	}
	return nil
}

// ListURLs returns all stored URLs in insertion order
func (r *Registry) ListURLs(ctx context.Context) ([]URLRecord, error) {
	records, err := r.urls.ListURLs(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list_urls", Err: err}
	}
	return records, nil
}

// RecentHistory returns up to limit history entries, newest first
func (r *Registry) RecentHistory(ctx context.Context, limit int) ([]HistoryEntry, error) {
	entries, err := r.history.RecentHistory(ctx, limit)
	if err != nil {
		return nil, &PersistenceError{Op: "recent_history", Err: err}
	}
	return entries, nil
}
