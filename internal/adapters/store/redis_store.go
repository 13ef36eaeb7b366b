package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/core"
)

const (
	redisURLsKey     = "phish:urls"
	redisURLOrderKey = "phish:urls:order"
	redisHistoryKey  = "phish:history"
)

// RedisStore keeps URL records in a hash with a list for insertion order,
// and history in a capped list
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore connects to Redis
func NewRedisStore(addr, password string, db int, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis store ready", zap.String("addr", addr), zap.Int("db", db))
	return &RedisStore{client: client, logger: logger}, nil
}

// AddURLs implements core.URLStore
func (s *RedisStore) AddURLs(ctx context.Context, records []core.URLRecord) (int, error) {
	added := 0
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return added, fmt.Errorf("failed to encode url record: %w", err)
		}
		ok, err := s.client.HSetNX(ctx, redisURLsKey, record.URL, data).Result()
		if err != nil {
			return added, fmt.Errorf("failed to store url: %w", err)
		}
		if !ok {
			continue
		}
		if err := s.client.RPush(ctx, redisURLOrderKey, record.URL).Err(); err != nil {
			return added, fmt.Errorf("failed to store url order: %w", err)
		}
		added++
	}
	return added, nil
}

// AddURL implements core.URLStore
func (s *RedisStore) AddURL(ctx context.Context, record core.URLRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode url record: %w", err)
	}
	created, err := s.client.HSet(ctx, redisURLsKey, record.URL, data).Result()
	if err != nil {
		return fmt.Errorf("failed to store url: %w", err)
	}
	if created > 0 {
		if err := s.client.RPush(ctx, redisURLOrderKey, record.URL).Err(); err != nil {
			return fmt.Errorf("failed to store url order: %w", err)
		}
	}
	return nil
}

// RemoveURL implements core.URLStore
func (s *RedisStore) RemoveURL(ctx context.Context, url string) error {
	removed, err := s.client.HDel(ctx, redisURLsKey, url).Result()
	if err != nil {
		return fmt.Errorf("failed to delete url: %w", err)
	}
	if removed == 0 {
		return ErrNotFound
	}
	if err := s.client.LRem(ctx, redisURLOrderKey, 0, url).Err(); err != nil {
		return fmt.Errorf("failed to delete url order: %w", err)
	}
	return nil
}

// ListURLs implements core.URLStore
func (s *RedisStore) ListURLs(ctx context.Context) ([]core.URLRecord, error) {
	order, err := s.client.LRange(ctx, redisURLOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list urls: %w", err)
	}

	records := []core.URLRecord{}
	if len(order) == 0 {
		return records, nil
	}

	values, err := s.client.HMGet(ctx, redisURLsKey, order...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load urls: %w", err)
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			s.logger.Warn("URL order references missing record", zap.String("url", order[i]))
			continue
		}
		var record core.URLRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			return nil, fmt.Errorf("failed to decode url record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// AppendHistory implements core.HistoryStore
func (s *RedisStore) AppendHistory(ctx context.Context, entry core.HistoryEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, redisHistoryKey, data)
		pipe.LTrim(ctx, redisHistoryKey, 0, core.HistoryLimit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// RecentHistory implements core.HistoryStore
func (s *RedisStore) RecentHistory(ctx context.Context, limit int) ([]core.HistoryEntry, error) {
	values, err := s.client.LRange(ctx, redisHistoryKey, 0, int64(historyLimit(limit)-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]core.HistoryEntry, 0, len(values))
	for _, raw := range values {
		var entry core.HistoryEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Close implements core.Store
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// flush removes every key owned by the store
func (s *RedisStore) flush(ctx context.Context) error {
	return s.client.Del(ctx, redisURLsKey, redisURLOrderKey, redisHistoryKey).Err()
}
