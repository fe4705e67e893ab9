package http

import (
	"net/http"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// SetOrderStatus handles PATCH /api/v1/orders/{id}/status?status=&notify=.
func (s *Server) SetOrderStatus(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var statusParam string
	if err = requiredQuery(c, "status", &statusParam); err != nil {
		return s.fail(c, err)
	}
	notify, err := optionalQuery(c, "notify", false)
	if err != nil {
		return s.fail(c, err)
	}
	status, err := order.ParseStatus(statusParam)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewSetStatusCommand(id, status, notify)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, http.StatusOK)(s.h.SetStatus.Handle(c.Request().Context(), cmd))
}

// RecordPayment handles PATCH /api/v1/orders/{id}/payment?status=.
func (s *Server) RecordPayment(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var statusParam string
	if err = requiredQuery(c, "status", &statusParam); err != nil {
		return s.fail(c, err)
	}
	status, err := order.ParsePaymentStatus(statusParam)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewRecordPaymentCommand(id, status)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, http.StatusOK)(s.h.RecordPayment.Handle(c.Request().Context(), cmd))
}

// RefundOrder handles POST /api/v1/orders/{id}/refund.
func (s *Server) RefundOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req Refund
	if err = c.Bind(&req); err != nil {
		return badBody(c)
	}
	items := make([]order.StockMovement, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.StockMovement(it)
	}

	cmd, err := commands.NewRefundCommand(id, req.Amount, req.Reason, items, req.Restock)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, http.StatusOK)(s.h.Refund.Handle(c.Request().Context(), cmd))
}

// BulkSetStatus handles PATCH /api/v1/orders/bulk-status?status=.
// Per-order failures are reported in the body; the response is 200 unless
// the request itself is invalid.
func (s *Server) BulkSetStatus(c echo.Context) error {
	var statusParam string
	if err := requiredQuery(c, "status", &statusParam); err != nil {
		return s.fail(c, err)
	}
	status, err := order.ParseStatus(statusParam)
	if err != nil {
		return s.fail(c, err)
	}
	var req BulkStatus
	if err = c.Bind(&req); err != nil {
		return badBody(c)
	}

	ids := make([]kernel.UUID, 0, len(req.OrderIDs))
	for _, raw := range req.OrderIDs {
		id, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return s.fail(c, parseErr)
		}
		ids = append(ids, id)
	}

	cmd, err := commands.NewBulkSetStatusCommand(ids, status)
	if err != nil {
		return s.fail(c, err)
	}
	result, err := s.h.BulkSetStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newBulkResult(result))
}
