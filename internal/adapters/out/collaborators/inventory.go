package collaborators

import (
	"context"
	"net/http"

	"orderengine/internal/core/domain/model/order"

	"go.uber.org/zap"
)

type stockPayload struct {
	OrderNumber string `json:"order_number"`
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
}

// HTTPInventory posts stock signals to {baseURL}/stock/restock and
// {baseURL}/stock/release.
type HTTPInventory struct {
	client client
}

func NewHTTPInventory(baseURL string, httpClient *http.Client) *HTTPInventory {
	return &HTTPInventory{client: newClient(baseURL, httpClient)}
}

func (i *HTTPInventory) Restock(ctx context.Context, orderNumber string, movement order.StockMovement) error {
	return i.client.post(ctx, stockPayload{
		OrderNumber: orderNumber,
		ProductID:   movement.ProductID,
		Quantity:    movement.Quantity,
	}, "stock", "restock")
}

func (i *HTTPInventory) ReleaseReservation(ctx context.Context, orderNumber string, movement order.StockMovement) error {
	return i.client.post(ctx, stockPayload{
		OrderNumber: orderNumber,
		ProductID:   movement.ProductID,
		Quantity:    movement.Quantity,
	}, "stock", "release")
}

// LogInventory logs stock signals instead of sending them.
type LogInventory struct {
	logger *zap.Logger
}

func NewLogInventory(logger *zap.Logger) *LogInventory {
	return &LogInventory{logger: logger}
}

func (i *LogInventory) Restock(_ context.Context, orderNumber string, movement order.StockMovement) error {
	i.logger.Info("restock",
		zap.String("order_number", orderNumber),
		zap.String("product_id", movement.ProductID),
		zap.Int("quantity", movement.Quantity),
	)
	return nil
}

func (i *LogInventory) ReleaseReservation(_ context.Context, orderNumber string, movement order.StockMovement) error {
	i.logger.Info("release reservation",
		zap.String("order_number", orderNumber),
		zap.String("product_id", movement.ProductID),
		zap.Int("quantity", movement.Quantity),
	)
	return nil
}
