package ports

import (
	"context"

	"orderengine/internal/core/domain/model/kernel"
)

// OrderLocker serializes mutations per order.
type OrderLocker interface {
	// TryAcquire takes the lock for id without waiting. When another caller
	// holds it, errs.ConcurrentModificationError is returned.
	TryAcquire(ctx context.Context, id kernel.UUID) (OrderLock, error)
}

// OrderLock is a held per-order lock.
type OrderLock interface {
	// Release frees the lock. Releasing a lock that already expired is not an error.
	Release(ctx context.Context) error
}
