package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/badge-adventure/internal/config"
	"github.com/jwebster45206/badge-adventure/pkg/storage"
)

// Open builds the store selected by cfg.StorageBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		logger.Warn("Using in-memory storage, progress is lost on exit")
		return storage.NewMemoryStore(), nil
	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath, logger)
	case config.BackendRedis:
		rs, err := NewRedisStore(cfg.RedisURL, cfg.BadgeID, logger)
		if err != nil {
			return nil, err
		}
		if err := rs.WaitForConnection(ctx, 15, 2*time.Second); err != nil {
			rs.Close()
			return nil, err
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
