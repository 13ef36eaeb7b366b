package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/phish-detector/internal/adapters/store"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
)

// StoreFactory creates URL and history stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates the store selected by store.type
func (f *StoreFactory) CreateStore() (core.Store, error) {
	storeCfg, err := f.cfg.GetStore()
	if err != nil {
		return nil, err
	}

	switch storeCfg.Type {
	case "memory", "":
		return store.NewMemoryStore(f.logger), nil
	case "json":
		return store.NewJSONStore(storeCfg.JSONDir, f.logger)
	case "sqlite":
		return store.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(storeCfg.MySQLDSN, f.logger)
	case "postgres":
		return store.NewPostgresStore(storeCfg.PostgresDSN, f.logger)
	case "redis":
		return store.NewRedisStore(storeCfg.RedisAddr, storeCfg.RedisPassword, storeCfg.RedisDB, f.logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}
