package http

import (
	"context"
	"net/http"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// UpdateFulfillment handles PATCH /api/v1/orders/{id}/fulfillment. The
// status field selects picking, packing or dispatch.
func (s *Server) UpdateFulfillment(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req Fulfillment
	if err = c.Bind(&req); err != nil {
		return badBody(c)
	}
	target, err := order.ParseFulfillmentStatus(req.Status)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, http.StatusOK)(s.advance(c.Request().Context(), id, target, req))
}

func (s *Server) advance(ctx context.Context, id kernel.UUID, target order.FulfillmentStatus, req Fulfillment) (*order.Order, error) {
	//nolint:exhaustive // unfulfilled is never a target
	switch target {
	case order.FulfillmentPicked:
		cmd, err := commands.NewCompletePickingCommand(id, req.PickedItems)
		if err != nil {
			return nil, err
		}
		return s.h.CompletePicking.Handle(ctx, cmd)
	case order.FulfillmentPacked:
		pkg := order.Package{Weight: req.PackageWeight, Dimensions: order.Dimensions(req.PackageDimensions)}
		cmd, err := commands.NewCompletePackingCommand(id, req.PackedItems, pkg)
		if err != nil {
			return nil, err
		}
		return s.h.CompletePacking.Handle(ctx, cmd)
	case order.FulfillmentDispatched:
		cmd, err := commands.NewDispatchOrderCommand(id, req.CarrierID, req.TrackingNumber, req.TrackingURL, req.Notify)
		if err != nil {
			return nil, err
		}
		return s.h.DispatchOrder.Handle(ctx, cmd)
	default:
		return nil, errs.NewValueIsInvalidError("status")
	}
}

// UpdateTracking handles PATCH /api/v1/orders/{id}/tracking.
func (s *Server) UpdateTracking(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req Tracking
	if err = c.Bind(&req); err != nil {
		return badBody(c)
	}
	cmd, err := commands.NewUpdateTrackingCommand(id, req.CarrierID, req.TrackingNumber, req.TrackingURL, req.Notify)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, http.StatusOK)(s.h.UpdateTracking.Handle(c.Request().Context(), cmd))
}

// GetCarriers handles GET /api/v1/carriers.
func (s *Server) GetCarriers(c echo.Context) error {
	return c.JSON(http.StatusOK, newCarriers(s.carriers.Carriers()))
}
