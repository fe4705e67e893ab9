package http

import (
	"net/http"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/application/usecases/queries"
	"orderengine/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// AddNote handles POST /api/v1/orders/{id}/notes. Notes are internal unless
// type is "customer".
func (s *Server) AddNote(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req Note
	if err = c.Bind(&req); err != nil {
		return badBody(c)
	}
	visibility := order.VisibilityInternal
	if req.Type != "" {
		visibility = order.Visibility(req.Type)
	}

	cmd, err := commands.NewAddNoteCommand(id, req.Note, visibility, req.NotifyCustomer)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, http.StatusCreated)(s.h.AddNote.Handle(c.Request().Context(), cmd))
}

// SendEmail handles POST /api/v1/orders/{id}/email. The email is queued;
// its outcome shows up in the email history once delivered.
func (s *Server) SendEmail(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	var req Email
	if err = c.Bind(&req); err != nil {
		return badBody(c)
	}
	cmd, err := commands.NewSendEmailCommand(id, req.Template, req.Subject, req.Body, req.To)
	if err != nil {
		return s.fail(c, err)
	}
	return s.respond(c, http.StatusAccepted)(s.h.SendEmail.Handle(c.Request().Context(), cmd))
}

// GetTimeline handles GET /api/v1/orders/{id}/timeline.
func (s *Server) GetTimeline(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetTimelineQuery(id)
	if err != nil {
		return s.fail(c, err)
	}
	timeline, err := s.h.GetTimeline.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newTimeline(timeline))
}
