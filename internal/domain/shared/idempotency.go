package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client-supplied keys so a retried request is
// applied once
type IdempotencyStore interface {
	// MarkProcessed records key with a TTL.
	// Returns true if the key was newly recorded, false if it was already present
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether key is currently recorded
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Release forgets key, used when the guarded operation failed
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// DefaultIdempotencyTTL is how long a payment idempotency key is remembered
const DefaultIdempotencyTTL = 24 * time.Hour
