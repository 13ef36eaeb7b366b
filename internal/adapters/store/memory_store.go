package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

// MemoryStore is an in-memory implementation of core.Store
type MemoryStore struct {
	urls    []core.URLRecord
	index   map[string]int
	history []core.HistoryEntry
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		index:  make(map[string]int),
		logger: logger,
	}
}

// AddURLs implements core.URLStore
func (s *MemoryStore) AddURLs(_ context.Context, records []core.URLRecord) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, record := range records {
		if _, ok := s.index[record.URL]; ok {
			continue
		}
		s.index[record.URL] = len(s.urls)
		s.urls = append(s.urls, record)
		added++
	}
	return added, nil
}

// AddURL implements core.URLStore
func (s *MemoryStore) AddURL(_ context.Context, record core.URLRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[record.URL]; ok {
		s.urls[i] = record
		return nil
	}
	s.index[record.URL] = len(s.urls)
	s.urls = append(s.urls, record)
	return nil
}

// RemoveURL implements core.URLStore
func (s *MemoryStore) RemoveURL(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[url]
	if !ok {
		return ErrNotFound
	}

	s.urls = append(s.urls[:i], s.urls[i+1:]...)
	delete(s.index, url)
	for j := i; j < len(s.urls); j++ {
		s.index[s.urls[j].URL] = j
	}
	return nil
}

// ListURLs implements core.URLStore
func (s *MemoryStore) ListURLs(_ context.Context) ([]core.URLRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.URLRecord, len(s.urls))
	copy(out, s.urls)
	return out, nil
}

// AppendHistory implements core.HistoryStore
func (s *MemoryStore) AppendHistory(_ context.Context, entry core.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append([]core.HistoryEntry{entry}, s.history...)
	if len(s.history) > core.HistoryLimit {
		s.history = s.history[:core.HistoryLimit]
	}
	return nil
}

// RecentHistory implements core.HistoryStore
func (s *MemoryStore) RecentHistory(_ context.Context, limit int) ([]core.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := historyLimit(limit)
	if n > len(s.history) {
		n = len(s.history)
	}
	out := make([]core.HistoryEntry, n)
	copy(out, s.history[:n])
	return out, nil
}

// Close implements core.Store
func (s *MemoryStore) Close() error {
	return nil
}

// load replaces the contents with previously saved records
func (s *MemoryStore) load(urls []core.URLRecord, history []core.HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.urls = nil
	s.index = make(map[string]int, len(urls))
	for _, record := range urls {
		if _, ok := s.index[record.URL]; ok {
			continue
		}
		s.index[record.URL] = len(s.urls)
		s.urls = append(s.urls, record)
	}

	if len(history) > core.HistoryLimit {
		history = history[:core.HistoryLimit]
	}
	s.history = history
}
