package memory

import (
	"context"
	"errors"
	"sync"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
)

var errLockHeld = errors.New("lock is held by another operation")

// Locker is a map of per-order try-locks for a single process.
type Locker struct {
	mu   sync.Mutex
	held map[kernel.UUID]uint64
	seq  uint64
}

func NewLocker() *Locker {
	return &Locker{held: make(map[kernel.UUID]uint64)}
}

func (l *Locker) TryAcquire(_ context.Context, id kernel.UUID) (ports.OrderLock, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[id]; busy {
		return nil, errs.NewConcurrentModificationErrorWithCause("order", id.String(), errLockHeld)
	}
	l.seq++
	l.held[id] = l.seq
	return &lock{locker: l, id: id, token: l.seq}, nil
}

type lock struct {
	locker *Locker
	id     kernel.UUID
	token  uint64
}

// Release is idempotent; a stale handle never frees a newer holder's lock.
func (k *lock) Release(_ context.Context) error {
	k.locker.mu.Lock()
	defer k.locker.mu.Unlock()

	if k.locker.held[k.id] == k.token {
		delete(k.locker.held, k.id)
	}
	return nil
}
