package lock

import (
	"context"
	"errors"
	"time"

	"github.com/atelierpoz/backoffice/internal/domain/shared"
	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStoreGuard serializes point-of-sale commits of one store across
// instances before they reach the database lock. It is advisory: the
// database advisory lock stays the source of truth.
type RedisStoreGuard struct {
	locker *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	logger *zap.Logger
}

// NewRedisStoreGuard creates a guard on top of an existing client
func NewRedisStoreGuard(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisStoreGuard {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStoreGuard{
		locker: redislock.New(client),
		ttl:    ttl,
		wait:   ttl / 2,
		logger: logger.Named("store_guard"),
	}
}

// Acquire tries to take the store lock, retrying for up to half the TTL.
// On any failure it logs and returns a no-op release.
func (g *RedisStoreGuard) Acquire(ctx context.Context, tenantID uuid.UUID) func() {
	key := "lock:store:" + tenantID.String()
	retry := redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), int(g.wait/(50*time.Millisecond)))

	l, err := g.locker.Obtain(ctx, key, g.ttl, &redislock.Options{RetryStrategy: retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		g.logger.Warn("could not obtain store guard; proceeding without it", zap.String("tenant_id", tenantID.String()))
		return func() {}
	}
	if err != nil {
		g.logger.Warn("error obtaining store guard; proceeding without it",
			zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return func() {}
	}

	return func() {
		// release with a fresh context so a cancelled request still frees the key
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := l.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			g.logger.Warn("failed to release store guard", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		}
	}
}

// NoopStoreGuard is used when Redis is disabled
type NoopStoreGuard struct{}

// Acquire returns immediately
func (NoopStoreGuard) Acquire(context.Context, uuid.UUID) func() { return func() {} }

var (
	_ shared.StoreGuard = (*RedisStoreGuard)(nil)
	_ shared.StoreGuard = NoopStoreGuard{}
)
