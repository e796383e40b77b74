package catalog

import (
	"context"
	"sync"
)

// Locker serializes load-mutate-save sequences on the catalog.
type Locker interface {
	// Lock blocks until the catalog lock is held or ctx is done.
	// The returned func releases the lock.
	Lock(ctx context.Context) (unlock func(), err error)
}

// LocalLocker guards the catalog inside one process.
type LocalLocker struct {
	sem chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{sem: make(chan struct{}, 1)}
}

func (l *LocalLocker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-l.sem }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
