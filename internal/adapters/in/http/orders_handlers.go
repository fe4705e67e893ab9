package http

import (
	"net/http"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req NewOrder
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}

	payment := order.PaymentUnknown
	if req.PaymentStatus != "" {
		parsed, err := order.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			return s.fail(c, err)
		}
		payment = parsed
	}

	cmd, err := commands.NewCreateOrderCommand(order.Draft{
		ID:              kernel.NewUUID(),
		Number:          req.Number,
		Customer:        req.Customer.toDomain(),
		ShippingAddress: req.ShippingAddress.toDomain(),
		BillingAddress:  req.BillingAddress.toDomain(),
		Items:           itemsToDomain(req.Items),
		Discount:        req.Discount,
		ShippingCost:    req.ShippingCost,
		PaymentStatus:   payment,
		CustomerNote:    req.CustomerNote,
	})
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, newOrder(o))
}

// ListOrders handles GET /api/v1/orders?status=&limit=&offset=.
func (s *Server) ListOrders(c echo.Context) error {
	statusParam, err := optionalQuery(c, "status", "")
	if err != nil {
		return s.fail(c, err)
	}
	limit, err := optionalQuery(c, "limit", 0)
	if err != nil {
		return s.fail(c, err)
	}
	offset, err := optionalQuery(c, "offset", 0)
	if err != nil {
		return s.fail(c, err)
	}

	status := order.StatusUnknown
	if statusParam != "" {
		parsed, err := order.ParseStatus(statusParam)
		if err != nil {
			return s.fail(c, err)
		}
		status = parsed
	}

	query, err := queries.NewListOrdersQuery(status, limit, offset)
	if err != nil {
		return s.fail(c, err)
	}
	page, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newOrderPage(page))
}

// GetOrder handles GET /api/v1/orders/{id}.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(c, err)
	}
	o, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newOrder(o))
}

// EditItems handles PATCH /api/v1/orders/{id}.
func (s *Server) EditItems(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req EditItems
	if err = c.Bind(&req); err != nil {
		return badBody(c)
	}
	cmd, err := commands.NewEditItemsCommand(id, itemsToDomain(req.Items), req.Discount, req.Shipping)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, http.StatusOK)(s.h.EditItems.Handle(c.Request().Context(), cmd))
}

// AddItem handles POST /api/v1/orders/{id}/items.
func (s *Server) AddItem(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req AddItem
	if err = c.Bind(&req); err != nil {
		return badBody(c)
	}
	cmd, err := commands.NewAddItemCommand(id, req.ProductID, req.Quantity)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, http.StatusOK)(s.h.AddItem.Handle(c.Request().Context(), cmd))
}

// UpdateCustomer handles PATCH /api/v1/orders/{id}/customer.
func (s *Server) UpdateCustomer(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req UpdateCustomer
	if err = c.Bind(&req); err != nil {
		return badBody(c)
	}
	cmd, err := commands.NewUpdateCustomerCommand(id, req.Customer.toDomain(),
		req.ShippingAddress.toDomain(), req.BillingAddress.toDomain())
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, http.StatusOK)(s.h.UpdateCustomer.Handle(c.Request().Context(), cmd))
}

// respond writes the order returned by a command, or its error.
func (s *Server) respond(c echo.Context, status int) func(*order.Order, error) error {
	return func(o *order.Order, err error) error {
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(status, newOrder(o))
	}
}
