package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	id "organmatch/pkg/domain"
	"organmatch/pkg/platform/sentinel"
)

const (
	lockKeyPrefix     = "organmatch:lock:tenant:"
	defaultTTL        = 10 * time.Second
	defaultRetryDelay = 20 * time.Millisecond
)

// releaseScript deletes the key only if this holder still owns it.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// extendScript resets the TTL only if this holder still owns the key.
var extendScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// Redis is a lease lock shared by all replicas. The TTL bounds how long a
// crashed holder can block its tenant. While the lock is held the lease is
// extended every third of the TTL until Unlock runs or the context passed
// to Lock is done.
type Redis struct {
	client     *redis.Client
	ttl        time.Duration
	retryDelay time.Duration
	logger     *slog.Logger
}

// RedisOption configures a Redis lock.
type RedisOption func(*Redis)

func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithRetryDelay(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.retryDelay = d
		}
	}
}

func WithLogger(logger *slog.Logger) RedisOption {
	return func(r *Redis) {
		r.logger = logger
	}
}

func NewRedis(client *redis.Client, opts ...RedisOption) *Redis {
	r := &Redis{
		client:     client,
		ttl:        defaultTTL,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Lock polls SET NX until the lease is acquired or ctx is done. The
// returned Unlock must be called; it stops the renewal and deletes the key.
func (r *Redis) Lock(ctx context.Context, tenantID id.TenantID) (Unlock, error) {
	key := lockKeyPrefix + tenantID.String()
	token := uuid.NewString()

	ticker := time.NewTicker(r.retryDelay)
	defer ticker.Stop()
	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("acquire tenant lock: %w: %w", sentinel.ErrUnavailable, err)
		}
		if ok {
			return r.hold(ctx, key, token), nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *Redis) hold(ctx context.Context, key, token string) Unlock {
	stop := make(chan struct{})
	renewed := make(chan struct{})
	go func() {
		defer close(renewed)
		r.renew(ctx, key, token, stop)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-renewed
			// Release must outlive a cancelled request context.
			rctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			err := releaseScript.Run(rctx, r.client, []string{key}, token).Err()
			if err != nil && !errors.Is(err, redis.Nil) {
				r.warn("failed to release tenant lock", "key", key, "error", err)
			}
		})
	}
}

func (r *Redis) renew(ctx context.Context, key, token string, stop <-chan struct{}) {
	ticker := time.NewTicker(r.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		owned, err := extendScript.Run(ctx, r.client, []string{key}, token, r.ttl.Milliseconds()).Int()
		switch {
		case err != nil && ctx.Err() == nil:
			r.warn("failed to extend tenant lock", "key", key, "error", err)
		case err == nil && owned == 0:
			r.warn("tenant lock lease lost", "key", key)
			return
		}
	}
}

func (r *Redis) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
