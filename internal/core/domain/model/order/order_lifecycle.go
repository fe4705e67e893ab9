package order

import (
	"fmt"
	"math"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

// SetStatus performs a manual status transition.
//
// Business rules:
//   - only edges from Status.TransitionTo are accepted
//   - cancelling an order whose fulfillment has started queues one
//     release_reservation effect per picked or packed product
//   - notify queues the template matching the new status
//
// Returns:
//   - nil on success
//   - *TransitionError (ErrInvalidTransition) when the edge is illegal
//
// Example:
//
//	err := o.SetStatus(order.StatusProcessing, true, time.Now())
func (o *Order) SetStatus(target Status, notify bool, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	next, err := o.status.TransitionTo(target)
	if err != nil {
		return err
	}

	prev := o.status
	o.status = next
	if next == StatusCancelled && o.fulfillmentStatus != FulfillmentUnfulfilled {
		o.releaseReservations()
	}
	o.appendTimeline(fmt.Sprintf("Status changed from %s to %s", prev, next), now)
	if notify {
		o.notifyStatus(next)
	}
	return nil
}

// releaseReservations queues a release for every product in the picked or packed sets.
func (o *Order) releaseReservations() {
	seen := make(map[string]struct{}, len(o.pickedItems)+len(o.packedItems))
	for _, set := range [][]string{o.pickedItems, o.packedItems} {
		for _, productID := range set {
			if _, ok := seen[productID]; ok {
				continue
			}
			seen[productID] = struct{}{}
			if it, ok := o.item(productID); ok {
				o.queueStock(EffectReleaseReservation, productID, it.Quantity)
			}
		}
	}
}

func (o *Order) notifyStatus(s Status) {
	//nolint:exhaustive // other statuses have no customer message
	switch s {
	case StatusProcessing:
		o.queueNotification(TemplateOrderConfirmation,
			fmt.Sprintf("Order %s confirmed", o.number),
			fmt.Sprintf("Your order %s is confirmed and being prepared.", o.number), nil)
	case StatusShipped:
		o.queueNotification(TemplateShippingConfirmation,
			fmt.Sprintf("Order %s has shipped", o.number),
			fmt.Sprintf("Your order %s is on its way.", o.number), o.trackingVariables())
	case StatusDelivered:
		o.queueNotification(TemplateDeliveryConfirmation,
			fmt.Sprintf("Order %s was delivered", o.number),
			fmt.Sprintf("Your order %s was delivered.", o.number), nil)
	case StatusCancelled:
		o.queueNotification(TemplateOrderCancellation,
			fmt.Sprintf("Order %s was cancelled", o.number),
			fmt.Sprintf("Your order %s was cancelled.", o.number), nil)
	}
}

func (o *Order) trackingVariables() map[string]string {
	if o.tracking.TrackingNumber == "" {
		return nil
	}
	return map[string]string{
		"carrier_id":      o.tracking.CarrierID,
		"tracking_number": o.tracking.TrackingNumber,
		"tracking_url":    o.tracking.TrackingURL,
	}
}

// RecordPayment applies a payment outcome: pending->paid, pending->failed or failed->paid.
func (o *Order) RecordPayment(target PaymentStatus, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	next, err := o.paymentStatus.Record(target)
	if err != nil {
		return err
	}
	prev := o.paymentStatus
	o.paymentStatus = next
	o.appendTimeline(fmt.Sprintf("Payment status changed from %s to %s", prev, next), now)
	return nil
}

// RefundRequest describes a refund. Items lists the products to restock;
// an empty list means every line item, and a zero Quantity means the whole line.
type RefundRequest struct {
	Amount  float64
	Reason  string
	Items   []StockMovement
	Restock bool
}

// Refund records money returned to the customer. It is irreversible.
//
// Business rules:
//   - 0 < amount <= total (ErrInvalidAmount), checked first so an amount
//     above the total fails the same way whatever the payment status
//   - payment status must be paid (ErrNotPaid)
//   - total - amount < kernel.AmountTolerance is a full refund: payment and
//     order status become refunded; otherwise payment becomes partial_refund
//   - restock queues one restock effect per affected item
//
// Example:
//
//	err := o.Refund(order.RefundRequest{Amount: 50, Reason: "damaged"}, time.Now())
func (o *Order) Refund(req RefundRequest, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	total := o.totals.Total
	if math.IsNaN(req.Amount) || req.Amount <= 0 || kernel.AmountExceeds(req.Amount, total) {
		return fmt.Errorf("%w: %s is outside (0, %s]", ErrInvalidAmount,
			kernel.FormatAmount(req.Amount), kernel.FormatAmount(total))
	}
	if o.paymentStatus != PaymentPaid {
		return fmt.Errorf("%w: payment status is %s", ErrNotPaid, o.paymentStatus)
	}

	var movements []StockMovement
	if req.Restock {
		var err error
		if movements, err = o.restockMovements(req.Items); err != nil {
			return err
		}
	}

	full := kernel.AmountsEqual(req.Amount, total)
	nextPayment, err := o.paymentStatus.Refund(full)
	if err != nil {
		return err
	}
	if full {
		nextStatus, statusErr := o.status.Refund()
		if statusErr != nil {
			return statusErr
		}
		o.status = nextStatus
	}
	o.paymentStatus = nextPayment
	o.refundedAmount += req.Amount

	for _, m := range movements {
		o.queueStock(EffectRestock, m.ProductID, m.Quantity)
	}

	kind := "Partial"
	if full {
		kind = "Full"
	}
	description := fmt.Sprintf("%s refund of %s issued", kind, kernel.FormatAmount(req.Amount))
	if reason := SanitizeText(req.Reason); reason != "" {
		description += ": " + reason
	}
	if len(movements) > 0 {
		description += fmt.Sprintf(" (%d items restocked)", len(movements))
	}
	o.appendTimeline(description, now)
	return nil
}

func (o *Order) restockMovements(affected []StockMovement) ([]StockMovement, error) {
	if len(affected) == 0 {
		out := make([]StockMovement, 0, len(o.items))
		for _, it := range o.items {
			out = append(out, StockMovement{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		return out, nil
	}

	out := make([]StockMovement, 0, len(affected))
	for _, a := range affected {
		it, ok := o.item(a.ProductID)
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"items",
				fmt.Errorf("product %s is not part of order %s", a.ProductID, o.number),
			)
		}
		qty := a.Quantity
		if qty == 0 {
			qty = it.Quantity
		}
		if qty < 1 || qty > it.Quantity {
			return nil, errs.NewValueIsOutOfRangeError("items.quantity", qty, 1, it.Quantity)
		}
		out = append(out, StockMovement{ProductID: a.ProductID, Quantity: qty})
	}
	return out, nil
}
