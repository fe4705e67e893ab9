// Package ports defines the contracts between the order engine core and its
// adapters: persistence, locking, and the external collaborators that receive
// notifications and inventory signals.
package ports

import (
	"context"
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
)

// ErrOrderAlreadyExists is returned by Add when the ID or order number is taken.
var ErrOrderAlreadyExists = errors.New("order already exists")

// DefaultListLimit applies when OrderFilter.Limit is not positive.
const DefaultListLimit = 50

// MaxListLimit caps OrderFilter.Limit.
const MaxListLimit = 500

// OrderFilter narrows List. StatusUnknown means any status.
type OrderFilter struct {
	Status order.Status
	Limit  int
	Offset int
}

// Normalize applies the default and maximum page size.
func (f OrderFilter) Normalize() OrderFilter {
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return f
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with version 1.
	// Returns ErrOrderAlreadyExists for a duplicate ID or order number.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes when the stored version still equals aggregate.Version(),
	// then advances the version. A mismatch returns errs.ConcurrentModificationError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order. Unknown IDs return errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns orders newest first. It is the read projection used by exporters.
	List(ctx context.Context, filter OrderFilter) ([]*order.Order, error)
}
