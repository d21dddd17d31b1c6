//go:build integration

package lock_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"organmatch/internal/matching/lock"
	"organmatch/pkg/testutil/containers"
)

type RedisLockSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisLockSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLockSuite))
}

func (s *RedisLockSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *RedisLockSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushLocks(context.Background()))
}

func (s *RedisLockSuite) TestMutualExclusionAcrossHolders() {
	// Two lock instances model two replicas sharing one Redis.
	a := lock.NewRedis(s.redis.Client, lock.WithRetryDelay(5*time.Millisecond))
	b := lock.NewRedis(s.redis.Client, lock.WithRetryDelay(5*time.Millisecond))

	var (
		inside  atomic.Int32
		overlap atomic.Bool
		wg      sync.WaitGroup
	)
	for i := range 10 {
		l := a
		if i%2 == 1 {
			l = b
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			unlock, err := l.Lock(ctx, "h1")
			s.Require().NoError(err)
			if inside.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(2 * time.Millisecond)
			inside.Add(-1)
			unlock()
		}()
	}
	wg.Wait()
	s.False(overlap.Load())
}

func (s *RedisLockSuite) TestLeaseExpiresForCrashedHolder() {
	l := lock.NewRedis(s.redis.Client, lock.WithTTL(100*time.Millisecond), lock.WithRetryDelay(10*time.Millisecond))

	// The holder never unlocks; its context ending stops the lease renewal.
	holderCtx, crash := context.WithCancel(context.Background())
	_, err := l.Lock(holderCtx, "h1")
	s.Require().NoError(err)
	crash()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	unlock, err := l.Lock(ctx, "h1")
	s.Require().NoError(err)
	unlock()
}

func (s *RedisLockSuite) TestStaleReleaseDoesNotDropNewHolder() {
	l := lock.NewRedis(s.redis.Client, lock.WithTTL(50*time.Millisecond), lock.WithRetryDelay(5*time.Millisecond))

	holderCtx, stall := context.WithCancel(context.Background())
	staleUnlock, err := l.Lock(holderCtx, "h1")
	s.Require().NoError(err)
	stall()
	time.Sleep(80 * time.Millisecond)

	_, err = l.Lock(context.Background(), "h1")
	s.Require().NoError(err)
	staleUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "h1")
	s.ErrorIs(err, context.DeadlineExceeded)
}

func (s *RedisLockSuite) TestLeaseIsRenewedWhileHeld() {
	l := lock.NewRedis(s.redis.Client, lock.WithTTL(60*time.Millisecond), lock.WithRetryDelay(5*time.Millisecond))

	unlock, err := l.Lock(context.Background(), "h1")
	s.Require().NoError(err)
	time.Sleep(300 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "h1")
	s.ErrorIs(err, context.DeadlineExceeded, "lease expired while still held")

	unlock()
	unlock()
	next, err := l.Lock(context.Background(), "h1")
	s.Require().NoError(err)
	next()
}

func (s *RedisLockSuite) TestTenantsAreIndependent() {
	l := lock.NewRedis(s.redis.Client)
	unlock, err := l.Lock(context.Background(), "h1")
	s.Require().NoError(err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	other, err := l.Lock(ctx, "h2")
	s.Require().NoError(err)
	other()
}
