// Package openapi embeds the HTTP contract of the order engine. The document
// drives request validation and the Swagger UI.
package openapi

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.json
var rawSpec []byte

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}

type swaggerDoc struct{}

func (swaggerDoc) ReadDoc() string { return string(rawSpec) }

var registerOnce sync.Once

// RegisterSwagger publishes the document under swag's default instance name,
// where echo-swagger reads it. Repeated calls are ignored.
func RegisterSwagger() {
	registerOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc{})
	})
}

// ErrorWriter renders a validation failure.
type ErrorWriter func(c echo.Context, status int, message string) error

// ValidateRequests checks every request whose matched echo route is described
// in doc against its operation. Routes the document does not know, such as
// /health, pass through untouched.
func ValidateRequests(doc *openapi3.T, writeError ErrorWriter) echo.MiddlewareFunc {
	options := &openapi3filter.Options{
		MultiError:         false,
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route, ok := findRoute(doc, c)
			if !ok {
				return next(c)
			}

			params := make(map[string]string, len(c.ParamNames()))
			for i, name := range c.ParamNames() {
				params[name] = c.ParamValues()[i]
			}
			input := &openapi3filter.RequestValidationInput{
				Request:    c.Request(),
				PathParams: params,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(c.Request().Context(), input); err != nil {
				return writeError(c, http.StatusBadRequest, validationMessage(err))
			}
			return next(c)
		}
	}
}

func findRoute(doc *openapi3.T, c echo.Context) (*routers.Route, bool) {
	path := toOpenAPIPath(c.Path())
	item := doc.Paths.Value(path)
	if item == nil {
		return nil, false
	}
	method := c.Request().Method
	op := item.GetOperation(method)
	if op == nil {
		return nil, false
	}
	return &routers.Route{
		Spec:      doc,
		Path:      path,
		PathItem:  item,
		Method:    method,
		Operation: op,
	}, true
}

// toOpenAPIPath turns "/orders/:id/status" into "/orders/{id}/status".
func toOpenAPIPath(echoPath string) string {
	segments := strings.Split(echoPath, "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = "{" + seg[1:] + "}"
		}
	}
	return strings.Join(segments, "/")
}

func validationMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if !errors.As(err, &reqErr) {
		return err.Error()
	}
	switch {
	case reqErr.Parameter != nil:
		return fmt.Sprintf("invalid parameter %q: %s", reqErr.Parameter.Name, reason(reqErr))
	case reqErr.RequestBody != nil:
		return "invalid request body: " + reason(reqErr)
	default:
		return reqErr.Error()
	}
}

func reason(e *openapi3filter.RequestError) string {
	var schemaErr *openapi3.SchemaError
	if errors.As(e.Err, &schemaErr) {
		if field := strings.Join(schemaErr.JSONPointer(), "."); field != "" {
			return field + ": " + schemaErr.Reason
		}
		return schemaErr.Reason
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Reason
}
