package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

const (
	urlsFileName    = "suspicious_urls.json"
	historyFileName = "analysis_history.json"
)

// JSONStore keeps records in memory and rewrites a JSON file per
// collection after every change
type JSONStore struct {
	mem         *MemoryStore
	urlsPath    string
	historyPath string
	writeMu     sync.Mutex
	logger      *zap.Logger
}

// NewJSONStore opens or creates the store files under dir
func NewJSONStore(dir string, logger *zap.Logger) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &JSONStore{
		mem:         NewMemoryStore(logger),
		urlsPath:    filepath.Join(dir, urlsFileName),
		historyPath: filepath.Join(dir, historyFileName),
		logger:      logger,
	}

	urls, err := loadCollection[core.URLRecord](s.urlsPath, logger)
	if err != nil {
		return nil, err
	}
	history, err := loadCollection[core.HistoryEntry](s.historyPath, logger)
	if err != nil {
		return nil, err
	}
	s.mem.load(urls, history)

	logger.Debug("Opened JSON store",
		zap.String("dir", dir),
		zap.Int("urls", len(urls)),
		zap.Int("history", len(history)))

	return s, nil
}

// AddURLs implements core.URLStore
func (s *JSONStore) AddURLs(ctx context.Context, records []core.URLRecord) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	added, err := s.mem.AddURLs(ctx, records)
	if err != nil || added == 0 {
		return added, err
	}
	return added, s.saveURLs(ctx)
}

// AddURL implements core.URLStore
func (s *JSONStore) AddURL(ctx context.Context, record core.URLRecord) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.mem.AddURL(ctx, record); err != nil {
		return err
	}
	return s.saveURLs(ctx)
}

// RemoveURL implements core.URLStore
func (s *JSONStore) RemoveURL(ctx context.Context, url string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.mem.RemoveURL(ctx, url); err != nil {
		return err
	}
	return s.saveURLs(ctx)
}

// ListURLs implements core.URLStore
func (s *JSONStore) ListURLs(ctx context.Context) ([]core.URLRecord, error) {
	return s.mem.ListURLs(ctx)
}

// AppendHistory implements core.HistoryStore
func (s *JSONStore) AppendHistory(ctx context.Context, entry core.HistoryEntry) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.mem.AppendHistory(ctx, entry); err != nil {
		return err
	}
	history, err := s.mem.RecentHistory(ctx, core.HistoryLimit)
	if err != nil {
		return err
	}
	return writeJSONFile(s.historyPath, history)
}

// RecentHistory implements core.HistoryStore
func (s *JSONStore) RecentHistory(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	return s.mem.RecentHistory(ctx, limit)
}

// Close implements core.Store
func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) saveURLs(ctx context.Context) error {
	urls, err := s.mem.ListURLs(ctx)
	if err != nil {
		return err
	}
	return writeJSONFile(s.urlsPath, urls)
}

// loadCollection reads a collection file. A file that does not decode is
// replaced by an empty collection.
func loadCollection[T any](path string, logger *zap.Logger) ([]T, error) {
	var items []T
	err := readJSONFile(path, &items)
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
		return items, err
	}

	logger.Warn("Store file is corrupt, starting empty",
		zap.String("path", path),
		zap.Error(err))
	if err := writeJSONFile(path, []T{}); err != nil {
		return nil, err
	}
	return nil, nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// writeJSONFile replaces path atomically
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
