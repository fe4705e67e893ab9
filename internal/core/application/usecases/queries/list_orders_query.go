package queries

import (
	"context"
	"errors"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through orders, newest first, optionally by status.
//
// Example:
//
//	query, err := NewListOrdersQuery(order.StatusProcessing, 100, 0)
//	page, err := handler.Handle(ctx, query)
//	for _, o := range page.Orders {
//	    fmt.Println(o.Number, o.Total)
//	}
type ListOrdersQuery struct {
	filter ports.OrderFilter

	guard guard.ConstructorGuard
}

// NewListOrdersQuery accepts order.StatusUnknown for every status.
// A non-positive limit means ports.DefaultListLimit.
func NewListOrdersQuery(status order.Status, limit, offset int) (ListOrdersQuery, error) {
	if status != order.StatusUnknown {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}
	if limit > ports.MaxListLimit {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, ports.MaxListLimit)
	}
	if offset < 0 {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}
	filter := ports.OrderFilter{Status: status, Limit: limit, Offset: offset}.Normalize()
	return ListOrdersQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Filter() ports.OrderFilter { return q.filter }

// OrderSummary is the list projection of an order.
type OrderSummary struct {
	ID                kernel.UUID
	Number            string
	Status            order.Status
	PaymentStatus     order.PaymentStatus
	FulfillmentStatus order.FulfillmentStatus
	CustomerName      string
	CustomerEmail     string
	// ItemCount is the number of units ordered, summed over every line.
	ItemCount      int
	Total          float64
	RefundedAmount float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ListOrdersQueryResponse is one page of summaries.
type ListOrdersQueryResponse struct {
	Orders []OrderSummary
	Limit  int
	Offset int
}

type ListOrdersQueryHandler struct {
	reader OrderReader
}

func NewListOrdersQueryHandler(reader OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{reader: reader}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	filter := query.Filter()
	orders, err := h.reader.List(ctx, filter)
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, summarize(o))
	}
	return ListOrdersQueryResponse{Orders: summaries, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func summarize(o *order.Order) OrderSummary {
	var count int
	for _, it := range o.Items() {
		count += it.Quantity
	}
	return OrderSummary{
		ID:                o.ID(),
		Number:            o.Number(),
		Status:            o.Status(),
		PaymentStatus:     o.PaymentStatus(),
		FulfillmentStatus: o.FulfillmentStatus(),
		CustomerName:      o.Customer().Name,
		CustomerEmail:     o.Customer().Email,
		ItemCount:         count,
		Total:             o.Totals().Total,
		RefundedAmount:    o.RefundedAmount(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}
