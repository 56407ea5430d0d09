package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured is returned when the locker has no Redis client.
var ErrNotConfigured = errors.New("lock: redis client not configured")

var releaseScript = redis.NewScript(`if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// Locker serialises work across replicas with a Redis key per lock.
type Locker struct {
	Client       *redis.Client
	RetryBackoff time.Duration
}

// Lease is a held lock. Release only deletes the key while this lease still owns it.
type Lease struct {
	client *redis.Client
	key    string
	token  string
}

// TryAcquire makes a single attempt to take key for ttl.
func (l Locker) TryAcquire(ctx context.Context, key string, ttl time.Duration) (*Lease, bool, error) {
	if l.Client == nil {
		return nil, false, ErrNotConfigured
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	token := uuid.NewString()
	ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}
	return &Lease{client: l.Client, key: key, token: token}, true, nil
}

// Release drops the lease. Expired or stolen leases are left alone.
func (le *Lease) Release(ctx context.Context) error {
	if le == nil {
		return nil
	}
	return releaseScript.Run(ctx, le.client, []string{le.key}, le.token).Err()
}

// WithLock runs fn while holding key, polling until the lock is free or ctx ends.
func (l Locker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("lock: callback not provided")
	}
	retry := l.RetryBackoff
	if retry <= 0 {
		retry = 50 * time.Millisecond
	}
	for {
		lease, ok, err := l.TryAcquire(ctx, key, ttl)
		if err != nil {
			return err
		}
		if ok {
			defer func() { _ = lease.Release(context.Background()) }()
			return fn(ctx)
		}
		timer := time.NewTimer(retry)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
