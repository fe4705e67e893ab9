package queries

import (
	"context"
	"errors"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/guard"
)

var ErrGetTimelineQueryIsNotConstructed = errors.New(
	"GetTimelineQuery must be created via NewGetTimelineQuery constructor",
)

// GetTimelineQuery reads the audit trail of an order, oldest event first.
type GetTimelineQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetTimelineQuery(orderID kernel.UUID) (GetTimelineQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetTimelineQuery{}, err
	}
	return GetTimelineQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetTimelineQuery) Validate() error {
	return q.guard.Validate(ErrGetTimelineQueryIsNotConstructed)
}

func (q GetTimelineQuery) OrderID() kernel.UUID { return q.orderID }

// GetTimelineQueryResponse is the timeline read model.
type GetTimelineQueryResponse struct {
	OrderID     kernel.UUID
	OrderNumber string
	Events      []order.TimelineEvent
}

type GetTimelineQueryHandler struct {
	reader OrderReader
}

func NewGetTimelineQueryHandler(reader OrderReader) GetTimelineQueryHandler {
	return GetTimelineQueryHandler{reader: reader}
}

func (h GetTimelineQueryHandler) Handle(ctx context.Context, query GetTimelineQuery) (GetTimelineQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTimelineQueryResponse{}, err
	}
	o, err := h.reader.Get(ctx, query.OrderID())
	if err != nil {
		return GetTimelineQueryResponse{}, err
	}
	return GetTimelineQueryResponse{
		OrderID:     o.ID(),
		OrderNumber: o.Number(),
		Events:      o.Timeline(),
	}, nil
}
