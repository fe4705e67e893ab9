package order

import "orderengine/internal/core/domain/model/kernel"

// EffectKind discriminates queued side effects.
type EffectKind string

const (
	EffectNotification       EffectKind = "notification"
	EffectRestock            EffectKind = "restock"
	EffectReleaseReservation EffectKind = "release_reservation"
)

// Notification templates understood by the notification collaborator.
const (
	TemplateOrderConfirmation    = "order_confirmation"
	TemplateShippingConfirmation = "shipping_confirmation"
	TemplateDeliveryConfirmation = "delivery_confirmation"
	TemplateOrderCancellation    = "order_cancellation"
	TemplateTrackingUpdate       = "tracking_update"
	TemplateOrderNote            = "order_note"
)

// Notification asks the notification collaborator to send a message.
// Rendering is up to the collaborator; Variables carries the merge fields.
type Notification struct {
	TemplateID string
	To         string
	Subject    string
	Body       string
	Variables  map[string]string
}

// StockMovement is a restock or reservation release signal for one product.
type StockMovement struct {
	ProductID string
	Quantity  int
}

// Effect is a side effect queued by an operation. It is delivered
// at-least-once after the order change commits; failures never roll the change back.
// Exactly one of Notification and Stock is set, according to Kind.
type Effect struct {
	Kind         EffectKind
	OrderID      kernel.UUID
	OrderNumber  string
	Notification *Notification
	Stock        *StockMovement
}

// PullEffects returns the effects queued since the last call and clears the queue.
// The unit of work calls it at commit time.
func (o *Order) PullEffects() []Effect {
	effects := o.effects
	o.effects = nil
	return effects
}

// PendingEffects returns a copy of the queued effects without clearing them.
func (o *Order) PendingEffects() []Effect {
	out := make([]Effect, len(o.effects))
	copy(out, o.effects)
	return out
}

func (o *Order) queueStock(kind EffectKind, productID string, quantity int) {
	o.effects = append(o.effects, Effect{
		Kind:        kind,
		OrderID:     o.id,
		OrderNumber: o.number,
		Stock:       &StockMovement{ProductID: productID, Quantity: quantity},
	})
}

// queueNotification queues a message to the customer with the standard merge fields.
func (o *Order) queueNotification(templateID, subject, body string, extra map[string]string) {
	vars := map[string]string{
		"order_number":  o.number,
		"customer_name": o.customer.Name,
		"status":        o.status.String(),
		"total":         kernel.FormatAmount(o.totals.Total),
	}
	for k, v := range extra {
		vars[k] = v
	}
	o.queueNotificationTo(o.customer.Email, templateID, subject, body, vars)
}

func (o *Order) queueNotificationTo(to, templateID, subject, body string, vars map[string]string) {
	o.effects = append(o.effects, Effect{
		Kind:        EffectNotification,
		OrderID:     o.id,
		OrderNumber: o.number,
		Notification: &Notification{
			TemplateID: templateID,
			To:         to,
			Subject:    subject,
			Body:       body,
			Variables:  vars,
		},
	})
}
