package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"
	"orderengine/internal/pkg/guard"
)

var ErrSendEmailCommandIsNotConstructed = errors.New(
	"SendEmailCommand must be created via NewSendEmailCommand constructor",
)

// SendEmailCommand queues an ad hoc email about an order. The outcome is
// appended to the email history by the outbox dispatcher.
type SendEmailCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	templateID string
	subject    string
	body       string
	to         string

	guard guard.ConstructorGuard
}

func NewSendEmailCommand(orderID kernel.UUID, templateID, subject, body, to string) (SendEmailCommand, error) {
	templateID, subject = strings.TrimSpace(templateID), strings.TrimSpace(subject)
	var templateErr, subjectErr error
	if templateID == "" {
		templateErr = errs.NewValueIsRequiredError("template")
	}
	if subject == "" {
		subjectErr = errs.NewValueIsRequiredError("subject")
	}
	if err := errors.Join(orderID.Validate(), templateErr, subjectErr); err != nil {
		return SendEmailCommand{}, err
	}
	return SendEmailCommand{
		orderID:    orderID,
		templateID: templateID,
		subject:    subject,
		body:       body,
		to:         strings.TrimSpace(to),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c SendEmailCommand) Validate() error {
	return c.guard.Validate(ErrSendEmailCommandIsNotConstructed)
}

func (c SendEmailCommand) OrderID() kernel.UUID { return c.orderID }
func (c SendEmailCommand) TemplateID() string   { return c.templateID }
func (c SendEmailCommand) Subject() string      { return c.subject }
func (c SendEmailCommand) Body() string         { return c.body }
func (c SendEmailCommand) To() string           { return c.to }

type SendEmailCommandHandler struct {
	mutator orderMutator
}

func NewSendEmailCommandHandler(uowFactory OrderUoWFactory, locker ports.OrderLocker) SendEmailCommandHandler {
	return SendEmailCommandHandler{mutator: newOrderMutator(uowFactory, locker)}
}

func (h SendEmailCommandHandler) Handle(ctx context.Context, cmd SendEmailCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return h.mutator.mutate(ctx, "SendEmail", cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.QueueEmail(cmd.TemplateID(), cmd.Subject(), cmd.Body(), cmd.To(), now)
	})
}
