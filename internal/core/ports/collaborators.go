package ports

import (
	"context"

	"orderengine/internal/core/domain/model/order"
)

// Notifier delivers notification requests. Rendering is the collaborator's job.
type Notifier interface {
	Send(ctx context.Context, orderNumber string, notification order.Notification) error
}

// Inventory receives stock signals. Restock is fire-and-forget from the
// engine's point of view: failures are logged and retried, never surfaced.
type Inventory interface {
	Restock(ctx context.Context, orderNumber string, movement order.StockMovement) error
	ReleaseReservation(ctx context.Context, orderNumber string, movement order.StockMovement) error
}

// Product is a read-only catalog entry.
type Product struct {
	ID       string
	Name     string
	SKU      string
	Price    float64
	ImageRef string
	Active   bool
}

// ProductCatalog looks products up when items are added to an existing order.
type ProductCatalog interface {
	// Product returns errs.ObjectNotFoundError for unknown IDs.
	Product(ctx context.Context, productID string) (Product, error)
}
