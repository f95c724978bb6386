package factory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/email-domain-verifier/internal/adapters/store"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ClosableStore is a domain store that holds resources until stopped
type ClosableStore interface {
	core.DomainStore
	Stop()
}

// StoreFactory creates domain stores based on configuration
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

// CreateStore creates the configured domain store
func (f *StoreFactory) CreateStore(ctx context.Context) (ClosableStore, error) {
	storeCfg := f.cfg.GetStore()

	switch storeCfg.Type {
	case "memory", "":
		return store.NewMemoryStore(f.logger), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return store.NewSQLiteStore(storeCfg.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(storeCfg.MySQLDSN, f.logger)
	case "postgres":
		return store.NewPostgresStore(storeCfg.PostgresDSN, f.logger)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     storeCfg.Redis.Address,
			Password: storeCfg.Redis.Password,
			DB:       storeCfg.Redis.DB,
		})
		s, err := store.NewRedisStore(ctx, client, storeCfg.Redis.KeyPrefix, f.logger)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w: %s", store.ErrUnsupportedStore, storeCfg.Type)
	}
}
