package http

import (
	"net/http"
	"time"

	"orderengine/internal/adapters/in/http/openapi"
	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/services"
	"orderengine/internal/pkg/errs"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/oapi-codegen/runtime"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

// BasePath prefixes every API route.
const BasePath = "/api/v1"

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder     commands.CreateOrderCommandHandler
	SetStatus       commands.SetStatusCommandHandler
	BulkSetStatus   commands.BulkSetStatusCommandHandler
	RecordPayment   commands.RecordPaymentCommandHandler
	CompletePicking commands.CompletePickingCommandHandler
	CompletePacking commands.CompletePackingCommandHandler
	DispatchOrder   commands.DispatchOrderCommandHandler
	UpdateTracking  commands.UpdateTrackingCommandHandler
	EditItems       commands.EditItemsCommandHandler
	AddItem         commands.AddItemCommandHandler
	UpdateCustomer  commands.UpdateCustomerCommandHandler
	Refund          commands.RefundCommandHandler
	AddNote         commands.AddNoteCommandHandler
	SendEmail       commands.SendEmailCommandHandler
	GetOrder        queries.GetOrderQueryHandler
	GetTimeline     queries.GetTimelineQueryHandler
	ListOrders      queries.ListOrdersQueryHandler
}

// CarrierLister provides the carrier table for GET /carriers.
type CarrierLister interface {
	Carriers() []services.Carrier
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	h        Handlers
	carriers CarrierLister
	logger   *zap.Logger
}

func NewServer(handlers Handlers, carriers CarrierLister, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{h: handlers, carriers: carriers, logger: logger}
}

// NewEcho builds the echo instance with logging, recovery, request
// validation against doc and every route registered.
func NewEcho(s *Server, doc *openapi3.T) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpErrorHandler(s.logger)

	e.Use(middleware.Recover())
	e.Use(requestLogger(s.logger))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	openapi.RegisterSwagger()
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group(BasePath, openapi.ValidateRequests(doc, writeError))
	s.Register(api)
	return e
}

// Register mounts the API routes on g.
func (s *Server) Register(g *echo.Group) {
	g.POST("/orders", s.CreateOrder)
	g.GET("/orders", s.ListOrders)
	g.PATCH("/orders/bulk-status", s.BulkSetStatus)
	g.GET("/orders/:id", s.GetOrder)
	g.PATCH("/orders/:id", s.EditItems)
	g.PATCH("/orders/:id/status", s.SetOrderStatus)
	g.PATCH("/orders/:id/payment", s.RecordPayment)
	g.PATCH("/orders/:id/fulfillment", s.UpdateFulfillment)
	g.PATCH("/orders/:id/tracking", s.UpdateTracking)
	g.POST("/orders/:id/items", s.AddItem)
	g.PATCH("/orders/:id/customer", s.UpdateCustomer)
	g.POST("/orders/:id/refund", s.RefundOrder)
	g.POST("/orders/:id/notes", s.AddNote)
	g.POST("/orders/:id/email", s.SendEmail)
	g.GET("/orders/:id/timeline", s.GetTimeline)
	g.GET("/carriers", s.GetCarriers)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}

// orderID binds the :id path parameter.
func orderID(c echo.Context) (kernel.UUID, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "id", c.Param("id"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return kernel.UUIDFromString(raw)
}

// requiredQuery binds a mandatory form-style query parameter into dest.
func requiredQuery(c echo.Context, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, true, name, c.QueryParams(), dest); err != nil {
		return errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return nil
}

// optionalQuery binds an optional form-style query parameter and returns
// fallback when it is absent. The runtime expects a **T for optional values.
func optionalQuery[T any](c echo.Context, name string, fallback T) (T, error) {
	var value *T
	if err := runtime.BindQueryParameter("form", true, false, name, c.QueryParams(), &value); err != nil {
		return fallback, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	if value == nil {
		return fallback, nil
	}
	return *value, nil
}

func badBody(c echo.Context) error {
	return writeError(c, http.StatusBadRequest, "invalid request body")
}
