//go:build integration

package containers

import (
	"context"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

const lockKeyPattern = "organmatch:lock:*"

// RedisContainer backs the shared tenant lock in integration tests.
type RedisContainer struct {
	Container *tcredis.RedisContainer
	URL       string
	Client    *redis.Client
}

func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}
	fail := func(format string, args ...any) {
		_ = container.Terminate(ctx)
		t.Fatalf(format, args...)
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		fail("failed to get redis connection string: %v", err)
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		fail("failed to parse redis URL %q: %v", url, err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		fail("failed to ping redis: %v", err)
	}

	return &RedisContainer{Container: container, URL: url, Client: client}
}

// FlushLocks deletes every tenant lease so each test starts unlocked.
func (r *RedisContainer) FlushLocks(ctx context.Context) error {
	iter := r.Client.Scan(ctx, 0, lockKeyPattern, 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan lock keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return r.Client.Del(ctx, keys...).Err()
}
