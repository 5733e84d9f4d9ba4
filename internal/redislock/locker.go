package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JisuPark-dev/AccountSystem/internal/domain"
	"github.com/JisuPark-dev/AccountSystem/pkg/logger"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const retryDelay = 100 * time.Millisecond

// Handle is an acquired lease. Unlock is safe to call from a defer on every
// exit path; releasing an already expired lease only logs.
type Handle interface {
	Unlock(ctx context.Context)
}

// Locker hands out leased per-key mutexes backed by redis. A lease expires on
// its own after the hold timeout, so a crashed holder cannot deadlock other
// instances.
type Locker struct {
	rs          *redsync.Redsync
	waitTimeout time.Duration
	holdTimeout time.Duration
}

func New(client redis.UniversalClient, waitTimeout, holdTimeout time.Duration) *Locker {
	pool := goredis.NewPool(client)

	return &Locker{
		rs:          redsync.New(pool),
		waitTimeout: waitTimeout,
		holdTimeout: holdTimeout,
	}
}

type lease struct {
	mutex *redsync.Mutex
}

func (l *lease) Unlock(ctx context.Context) {
	ok, err := l.mutex.UnlockContext(ctx)
	if err != nil {
		logger.Log.Error("error releasing lock", logger.String("key", l.mutex.Name()), logger.Error(err))
		return
	}

	if !ok {
		logger.Log.Warn("lock already expired", logger.String("key", l.mutex.Name()))
	}
}

// Acquire blocks up to the configured wait timeout for the named lease.
// Contention is reported as domain.ErrAccountLocked so callers surface it as
// a typed failure instead of mutating unprotected state.
func (l *Locker) Acquire(ctx context.Context, key string) (Handle, error) {
	tries := int(l.waitTimeout/retryDelay) + 1

	mutex := l.rs.NewMutex(
		key,
		redsync.WithExpiry(l.holdTimeout),
		redsync.WithTries(tries),
		redsync.WithRetryDelay(retryDelay),
	)

	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		if errors.Is(err, redsync.ErrFailed) || errors.As(err, &taken) {
			logger.Log.Warn("lock is held by another operation", logger.String("key", key))
			return nil, domain.ErrAccountLocked
		}

		return nil, fmt.Errorf("error acquiring lock %s: %w", key, err)
	}

	return &lease{mutex: mutex}, nil
}
