package locks

import (
	"context"
	"errors"
	"sync"
)

// ErrLockTimeout is returned when a lock could not be acquired before the context expired
var ErrLockTimeout = errors.New("locks: timed out acquiring auction lock")

// Locker serializes work on a single auction. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, auctionID int64) (func(), error)
}

type keyedEntry struct {
	ch   chan struct{}
	refs int
}

// KeyedMutex is an in-process Locker with one mutex per auction id.
// Entries are dropped once no goroutine holds or waits on them.
type KeyedMutex struct {
	mu      sync.Mutex
	entries map[int64]*keyedEntry
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{entries: make(map[int64]*keyedEntry)}
}

func (k *KeyedMutex) Lock(ctx context.Context, auctionID int64) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[auctionID]
	if !ok {
		e = &keyedEntry{ch: make(chan struct{}, 1)}
		k.entries[auctionID] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		k.release(auctionID, e)
		return nil, errors.Join(ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.ch
			k.release(auctionID, e)
		})
	}, nil
}

func (k *KeyedMutex) release(auctionID int64, e *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, auctionID)
	}
}

// size is the number of tracked auctions
func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}
