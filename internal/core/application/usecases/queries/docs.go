// Package queries contains the read operations of the order engine.
// Query handlers read through OrderReader, outside any transaction or lock,
// and return read models rather than aggregates where a projection is enough.
package queries

import (
	"context"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
)

// OrderReader is the read side of ports.OrderRepository.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error)
}
