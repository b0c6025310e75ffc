package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied request keys and the result
// they produced, so a retried request replays instead of repeating work.
type IdempotencyStore interface {
	// Reserve claims a key for ttl. When the key is already taken it returns
	// false and the value recorded by Complete, or "" while the first request
	// is still in flight.
	Reserve(ctx context.Context, key string, ttl time.Duration) (reserved bool, value string, err error)

	// Complete records the result of a reserved key
	Complete(ctx context.Context, key, value string, ttl time.Duration) error

	// Release forgets a reserved key so the request can be retried
	Release(ctx context.Context, key string) error

	// Close releases resources held by the store
	Close() error
}

// ErrIdempotencyInProgress is returned when a request reuses the key of one still running
var ErrIdempotencyInProgress = NewDomainError("IDEMPOTENCY_IN_PROGRESS", "A request with this idempotency key is still being processed")

// ErrIdempotencyKeyReused is returned when a key comes back with a different payload
var ErrIdempotencyKeyReused = NewDomainError("IDEMPOTENCY_KEY_REUSED", "This idempotency key was already used for a different request")

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a key is remembered. Default: 24 hours
	TTL time.Duration

	// Enabled determines whether idempotency keys are honored
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
