package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/shared"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ConnectOption configures Connect
type ConnectOption func(*connectOptions)

type connectOptions struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger used to report the chosen backend
func WithLogger(logger *zap.Logger) ConnectOption {
	return func(o *connectOptions) {
		o.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis is tolerated. Default true.
func WithInMemoryFallback(allow bool) ConnectOption {
	return func(o *connectOptions) {
		o.allowInMemoryFallback = allow
	}
}

// Connect opens and pings a Redis client. It returns a nil client when Redis
// is disabled, or unreachable with fallback allowed; callers then use the
// in-memory implementations.
func Connect(ctx context.Context, cfg config.RedisConfig, opts ...ConnectOption) (*redis.Client, error) {
	o := connectOptions{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(&o)
	}

	if !cfg.Enabled {
		o.logger.Info("Redis disabled, using in-memory token blacklist and idempotency store")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		if !o.allowInMemoryFallback {
			return nil, fmt.Errorf("redis required but unavailable at %s: %w", cfg.Addr(), err)
		}
		o.logger.Warn("Redis unavailable, falling back to in-memory stores. "+
			"Idempotency keys and revoked tokens will not be shared between instances.",
			zap.String("addr", cfg.Addr()),
			zap.Error(err),
		)
		return nil, nil
	}

	o.logger.Info("Connected to Redis", zap.String("addr", cfg.Addr()), zap.Int("db", cfg.DB))
	return client, nil
}

// NewIdempotencyStore returns a Redis-backed store, or an in-memory one when client is nil
func NewIdempotencyStore(client *redis.Client) shared.IdempotencyStore {
	if client == nil {
		return NewInMemoryIdempotencyStore(0)
	}
	return NewRedisIdempotencyStore(client, "")
}
