package http

import (
	"errors"
	"net/http"

	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// statusCode maps domain and application errors to HTTP statuses.
// Joined errors take the first matching class in this order.
func statusCode(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrNotPaid),
		errors.Is(err, errs.ErrConcurrentModification),
		errors.Is(err, ports.ErrOrderAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, order.ErrIncompleteSelection),
		errors.Is(err, order.ErrMissingTrackingInfo),
		errors.Is(err, order.ErrInvalidAmount),
		errors.Is(err, order.ErrEmptyOrder):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, status int, message string) error {
	return c.JSON(status, Error{Code: status, Message: message})
}

func (s *Server) fail(c echo.Context, err error) error {
	status := statusCode(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return writeError(c, status, "internal error")
	}
	return writeError(c, status, err.Error())
}

// httpErrorHandler renders echo's own errors (unknown route, bad method)
// in the same shape as handler errors.
func httpErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status := http.StatusInternalServerError
		message := "internal error"
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(status)
			}
		} else {
			logger.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		if writeErr := writeError(c, status, message); writeErr != nil {
			logger.Warn("failed to write error response", zap.Error(writeErr))
		}
	}
}
