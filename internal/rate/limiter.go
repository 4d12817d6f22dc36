package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds limiter tuning parameters.
type Config struct {
	MaxAttempts int
	Window      time.Duration
}

// Limiter tracks failed-attempt counters keyed by identifier+origin using
// Redis fixed-window counters.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// TooManyAttempts reports whether the identifier+origin pair has reached the
// attempt budget for the active window. A missing counter reads as zero and
// does not reveal whether the identifier exists.
func (l *Limiter) TooManyAttempts(ctx context.Context, identifier, origin string) (bool, error) {
	k := key(identifier, origin)

	count, err := l.redis.Get(ctx, k).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count < int64(l.config.MaxAttempts) {
		return false, nil
	}

	// A counter with no TTL survived a crash between INCR and EXPIRE and
	// would block forever. Reset it instead of honoring it.
	ttl, err := l.redis.PTTL(ctx, k).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if ttl == -1 {
		if err := l.redis.Del(ctx, k).Err(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		return false, nil
	}

	return true, nil
}

// Hit records one failed attempt. The window TTL is set on the first hit after
// a reset; later hits within the window do not extend it.
func (l *Limiter) Hit(ctx context.Context, identifier, origin string) error {
	k := key(identifier, origin)

	count, err := l.redis.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	// Fixed-window semantics: TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, k, l.config.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return nil
}

// Clear resets the counter for the identifier+origin pair. Called after a
// successful login.
func (l *Limiter) Clear(ctx context.Context, identifier, origin string) error {
	if err := l.redis.Del(ctx, key(identifier, origin)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// AvailableIn returns the time remaining until the active window for the pair
// expires. Zero when no counter exists.
func (l *Limiter) AvailableIn(ctx context.Context, identifier, origin string) (time.Duration, error) {
	ttl, err := l.redis.PTTL(ctx, key(identifier, origin)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if ttl < 0 {
		// -1 no expiry, -2 no key
		return 0, nil
	}
	return ttl, nil
}

// key length-prefixes the identifier so a ':' inside it cannot alias another
// identifier+origin pair.
func key(identifier, origin string) string {
	return fmt.Sprintf("ag:login:%d:%s:%s", len(identifier), identifier, origin)
}
