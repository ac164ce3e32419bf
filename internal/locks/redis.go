package locks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"auction-house/internal/redisx"
	"auction-house/utils"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only if it still carries our token
var releaseScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('DEL', KEYS[1])
	end
	return 0
`)

// refreshScript pushes the expiry out only while we still hold the lock
var refreshScript = redis.NewScript(`
	if redis.call('GET', KEYS[1]) == ARGV[1] then
		return redis.call('PEXPIRE', KEYS[1], ARGV[2])
	end
	return 0
`)

// RedisLocker is a Locker shared by every replica pointing at the same Redis.
// Locks expire after ttl so a crashed holder cannot wedge an auction; a live
// holder keeps its lock by refreshing it every ttl/3 until it unlocks.
type RedisLocker struct {
	rdb   *redis.Client
	ttl   time.Duration
	retry time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{rdb: rdb, ttl: ttl, retry: 10 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, auctionID int64) (func(), error) {
	key := redisx.AuctionLockKey(auctionID)
	token := utils.GenerateID()

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("locks: acquire %s: %w", key, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrLockTimeout, ctx.Err())
		case <-time.After(l.retry):
		}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(key, token, stop, done)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done

			// release must run even when the caller's context is already done
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
				utils.Warn("failed to release auction lock", map[string]any{"key": key, "error": err.Error()})
			}
		})
	}, nil
}

// keepAlive extends the lock until stop is closed or the token is gone
func (l *RedisLocker) keepAlive(key, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	interval := max(l.ttl/3, time.Millisecond)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), interval)
		n, err := refreshScript.Run(ctx, l.rdb, []string{key}, token, l.ttl.Milliseconds()).Int64()
		cancel()
		if err != nil {
			utils.Warn("failed to refresh auction lock", map[string]any{"key": key, "error": err.Error()})
			continue
		}
		if n == 0 {
			utils.Warn("auction lock lost before unlock", map[string]any{"key": key})
			return
		}
	}
}
