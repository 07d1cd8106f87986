package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/badge-adventure/pkg/storage"
)

// RedisStore keeps each namespace in one Redis hash named
// badge:<badgeID>:<namespace>.
type RedisStore struct {
	client  *redis.Client
	logger  *slog.Logger
	badgeID string
}

// Ensure RedisStore implements Store interface
var _ storage.Store = (*RedisStore)(nil)

// NewRedisStore parses redisURL and creates a client. It does not connect;
// call WaitForConnection or Ping.
func NewRedisStore(redisURL, badgeID string, logger *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &RedisStore{
		client:  redis.NewClient(opt),
		logger:  logger,
		badgeID: badgeID,
	}, nil
}

func (r *RedisStore) key(namespace string) string {
	return "badge:" + r.badgeID + ":" + namespace
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", mapClosed(err))
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context, attempts int, delay time.Duration) error {
	for i := 0; i < attempts; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(delay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", attempts)
}

func (r *RedisStore) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.key(namespace), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("Redis HGET failed", "namespace", namespace, "key", key, "error", err)
		return "", false, fmt.Errorf("redis hget failed: %w", mapClosed(err))
	}
	return v, true, nil
}

func (r *RedisStore) Put(ctx context.Context, namespace, key, value string) error {
	if err := r.client.HSet(ctx, r.key(namespace), key, value).Err(); err != nil {
		r.logger.Error("Redis HSET failed", "namespace", namespace, "key", key, "error", err)
		return fmt.Errorf("redis hset failed: %w", mapClosed(err))
	}
	r.logger.Debug("Redis HSET successful", "namespace", namespace, "key", key)
	return nil
}

func (r *RedisStore) HasKey(ctx context.Context, namespace, key string) (bool, error) {
	ok, err := r.client.HExists(ctx, r.key(namespace), key).Result()
	if err != nil {
		return false, fmt.Errorf("redis hexists failed: %w", mapClosed(err))
	}
	return ok, nil
}

func (r *RedisStore) Clear(ctx context.Context, namespace string) error {
	if err := r.client.Del(ctx, r.key(namespace)).Err(); err != nil {
		r.logger.Error("Redis DEL failed", "namespace", namespace, "error", err)
		return fmt.Errorf("redis del failed: %w", mapClosed(err))
	}
	return nil
}

func mapClosed(err error) error {
	if errors.Is(err, redis.ErrClosed) {
		return storage.ErrClosed
	}
	return err
}
