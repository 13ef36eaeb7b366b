package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

func urlRecord(url string, risk core.RiskLevel) core.URLRecord {
	return core.URLRecord{
		URL:       url,
		Source:    "Email Analysis: invoice.eml",
		DateAdded: "2024-05-01 10:00:00",
		RiskLevel: risk,
	}
}

func historyEntry(i int) core.HistoryEntry {
	return core.HistoryEntry{
		Source:      fmt.Sprintf("message-%d.eml", i),
		Timestamp:   fmt.Sprintf("2024-05-01 10:00:%02d", i),
		IsPhishing:  i % 2,
		Probability: float64(i) / 20,
	}
}

// testStore runs the behaviour every backend shares against an empty store
func testStore(t *testing.T, s core.Store) {
	ctx := context.Background()

	t.Run("AddURLsSkipsKnown", func(t *testing.T) {
		added, err := s.AddURLs(ctx, []core.URLRecord{
			urlRecord("http://a.example/login", core.RiskHigh),
			urlRecord("http://b.example/verify", core.RiskHigh),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, added)

		added, err = s.AddURLs(ctx, []core.URLRecord{
			urlRecord("http://b.example/verify", core.RiskHigh),
			urlRecord("http://c.example/pay", core.RiskHigh),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, added)

		urls, err := s.ListURLs(ctx)
		require.NoError(t, err)
		require.Len(t, urls, 3)
		assert.Equal(t, "http://a.example/login", urls[0].URL)
		assert.Equal(t, "http://b.example/verify", urls[1].URL)
		assert.Equal(t, "http://c.example/pay", urls[2].URL)
		assert.Equal(t, core.RiskHigh, urls[0].RiskLevel)
	})

	t.Run("AddURLReplacesInPlace", func(t *testing.T) {
		require.NoError(t, s.AddURL(ctx, urlRecord("http://b.example/verify", core.RiskCritical)))
		require.NoError(t, s.AddURL(ctx, urlRecord("http://d.example/", core.RiskLow)))

		urls, err := s.ListURLs(ctx)
		require.NoError(t, err)
		require.Len(t, urls, 4)
		assert.Equal(t, core.RiskCritical, urls[1].RiskLevel)
		assert.Equal(t, "http://d.example/", urls[3].URL)
	})

	t.Run("RemoveURL", func(t *testing.T) {
		require.NoError(t, s.RemoveURL(ctx, "http://a.example/login"))
		assert.ErrorIs(t, s.RemoveURL(ctx, "http://a.example/login"), ErrNotFound)

		urls, err := s.ListURLs(ctx)
		require.NoError(t, err)
		require.Len(t, urls, 3)
		assert.Equal(t, "http://b.example/verify", urls[0].URL)
	})

	t.Run("HistoryKeepsNewestTen", func(t *testing.T) {
		for i := 1; i <= 11; i++ {
			require.NoError(t, s.AppendHistory(ctx, historyEntry(i)))
		}

		entries, err := s.RecentHistory(ctx, core.HistoryLimit)
		require.NoError(t, err)
		require.Len(t, entries, core.HistoryLimit)
		assert.Equal(t, historyEntry(11), entries[0])
		assert.Equal(t, historyEntry(2), entries[9])

		recent, err := s.RecentHistory(ctx, 5)
		require.NoError(t, err)
		require.Len(t, recent, 5)
		assert.Equal(t, historyEntry(7), recent[4])
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	defer s.Close()
	testStore(t, s)
}

func TestMemoryStoreEmptyHistory(t *testing.T) {
	entries, err := NewMemoryStore(zap.NewNop()).RecentHistory(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJSONStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)
	testStore(t, s)

	assert.FileExists(t, filepath.Join(dir, urlsFileName))
	assert.FileExists(t, filepath.Join(dir, historyFileName))

	reopened, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)

	urls, err := reopened.ListURLs(context.Background())
	require.NoError(t, err)
	assert.Len(t, urls, 3)

	entries, err := reopened.RecentHistory(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, core.HistoryLimit)
	assert.Equal(t, historyEntry(11), entries[0])
}

func TestJSONStoreResetsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.AddURL(ctx, urlRecord("http://kept.example", core.RiskHigh)))

	require.NoError(t, os.WriteFile(filepath.Join(dir, historyFileName), []byte("{not json"), 0o644))

	reopened, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)

	entries, err := reopened.RecentHistory(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)

	urls, err := reopened.ListURLs(ctx)
	require.NoError(t, err)
	assert.Len(t, urls, 1)

	data, err := os.ReadFile(filepath.Join(dir, historyFileName))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))

	require.NoError(t, reopened.AppendHistory(ctx, historyEntry(1)))
	entries, err = reopened.RecentHistory(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestJSONStoreResetsWrongShape(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, urlsFileName), []byte(`{"url": "http://x.example"}`), 0o644))

	s, err := NewJSONStore(dir, zap.NewNop())
	require.NoError(t, err)

	urls, err := s.ListURLs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "phish.db")
	s, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	testStore(t, s)
}

func TestSQLiteStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "phish.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	_, err = s.AddURLs(ctx, []core.URLRecord{urlRecord("http://a.example/", core.RiskHigh)})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	urls, err := s.ListURLs(ctx)
	require.NoError(t, err)
	assert.Len(t, urls, 1)
}

func TestMySQLStore(t *testing.T) {
	dsn := os.Getenv("PHISH_TEST_MYSQL_DSN")
	if dsn == "" {
		t.Skip("PHISH_TEST_MYSQL_DSN not set")
	}

	s, err := NewMySQLStore(dsn, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.db.Exec("DELETE FROM suspicious_urls")
	require.NoError(t, err)
	_, err = s.db.Exec("DELETE FROM analysis_history")
	require.NoError(t, err)

	testStore(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("PHISH_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PHISH_TEST_POSTGRES_DSN not set")
	}

	s, err := NewPostgresStore(dsn, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.pool.Exec(context.Background(), "TRUNCATE suspicious_urls, analysis_history")
	require.NoError(t, err)

	testStore(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("PHISH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PHISH_TEST_REDIS_ADDR not set")
	}

	s, err := NewRedisStore(addr, "", 0, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.flush(context.Background()))
	defer s.flush(context.Background())

	testStore(t, s)
}

func TestURLHashIsStable(t *testing.T) {
	assert.Equal(t, urlHash("http://a.example/"), urlHash("http://a.example/"))
	assert.NotEqual(t, urlHash("http://a.example/"), urlHash("http://b.example/"))
	assert.Len(t, urlHash("http://a.example/"), 64)
}
