package catalog

import (
	"context"
	"slices"
	"sync"

	"bitbucket.org/mmdatafocus/udhaar_pos/utils"
)

// Locker grants exclusive access to a set of products for the duration of a
// stock read-check-decrement. Implementations lock ids in sorted order so two
// checkouts over overlapping products cannot deadlock.
type Locker interface {
	Lock(ctx context.Context, productIds []string) (unlock func(), err error)
}

// LocalLocker serializes access per product within one process.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*sync.Mutex)}
}

func (l *LocalLocker) Lock(ctx context.Context, productIds []string) (func(), error) {
	ids := sortedUnique(productIds)

	held := make([]*sync.Mutex, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			unlockAll(held)
			return nil, err
		}
		m := l.mutexFor(id)
		m.Lock()
		held = append(held, m)
	}
	return func() { unlockAll(held) }, nil
}

func (l *LocalLocker) mutexFor(id string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

func unlockAll(held []*sync.Mutex) {
	for i := len(held) - 1; i >= 0; i-- {
		held[i].Unlock()
	}
}

func sortedUnique(ids []string) []string {
	out := utils.UniqueSlice(ids)
	slices.Sort(out)
	return out
}
