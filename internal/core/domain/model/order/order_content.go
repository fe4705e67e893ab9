package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

// ensureEditable blocks item edits once the parcel exists or the order is closed.
func (o *Order) ensureEditable() error {
	locked := o.fulfillmentStatus != FulfillmentUnfulfilled
	switch o.status {
	case StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded:
		locked = true
	case StatusUnknown, StatusPending, StatusProcessing:
	}
	if locked {
		return &TransitionError{
			Axis:   "items",
			From:   o.status.String() + "/" + o.fulfillmentStatus.String(),
			To:     "edited",
			Reason: "items are locked once fulfillment starts",
		}
	}
	return nil
}

// EditItems replaces the line items wholesale together with discount and
// shipping cost, and re-derives the totals.
//
// Returns:
//   - ErrEmptyOrder when items is empty
//   - *TransitionError when fulfillment has started or the order is closed
//   - validation errors for malformed items or adjustments
func (o *Order) EditItems(items []Item, discount, shippingCost float64, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := validateItems(items); err != nil {
		return err
	}
	if err := o.ensureEditable(); err != nil {
		return err
	}
	if err := validateAdjustments(items, discount, shippingCost); err != nil {
		return err
	}

	o.items = cloneItems(items)
	o.totals = computeTotals(o.items, discount, shippingCost, o.taxRate)
	o.appendTimeline(fmt.Sprintf("Items updated: %d items, total %s",
		len(o.items), kernel.FormatAmount(o.totals.Total)), now)
	return nil
}

// AddItem appends a catalog item, or increases the quantity of an existing line
// at its original price.
func (o *Order) AddItem(item Item, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := item.Validate(); err != nil {
		return err
	}
	if err := o.ensureEditable(); err != nil {
		return err
	}

	items := cloneItems(o.items)
	description := ""
	merged := false
	for idx := range items {
		if items[idx].ProductID == item.ProductID {
			items[idx].Quantity += item.Quantity
			description = fmt.Sprintf("Quantity of %s increased to %d", items[idx].Name, items[idx].Quantity)
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, item)
		description = fmt.Sprintf("Item %s added (qty %d)", item.Name, item.Quantity)
	}

	o.items = items
	o.totals = computeTotals(items, o.totals.Discount, o.totals.ShippingCost, o.taxRate)
	o.appendTimeline(fmt.Sprintf("%s, total %s", description, kernel.FormatAmount(o.totals.Total)), now)
	return nil
}

// UpdateCustomer replaces the customer and address snapshots on this order only.
func (o *Order) UpdateCustomer(customer Customer, shipping, billing Address, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := errors.Join(
		customer.Validate(),
		shipping.Validate("shipping_address"),
		billing.Validate("billing_address"),
	); err != nil {
		return err
	}

	o.customer = customer
	o.shippingAddress = shipping
	o.billingAddress = billing
	o.appendTimeline("Customer details updated", now)
	return nil
}

// AddNote appends a sanitized note.
//
// Business rules:
//   - content is required after HTML is stripped, at most MaxNoteLength bytes
//   - notifyCustomer is only allowed for customer-visible notes and queues order_note
func (o *Order) AddNote(content string, visibility Visibility, notifyCustomer bool, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := visibility.Validate(); err != nil {
		return err
	}
	clean := SanitizeText(content)
	if clean == "" {
		return errs.NewValueIsRequiredError("note")
	}
	if len(clean) > MaxNoteLength {
		return errs.NewValueIsOutOfRangeError("note", len(clean), 1, MaxNoteLength)
	}
	if notifyCustomer && visibility != VisibilityCustomer {
		return errs.NewValueIsInvalidErrorWithCause(
			"notify_customer",
			errors.New("internal notes cannot be sent to the customer"),
		)
	}

	o.notes = append(o.notes, Note{Content: clean, Visibility: visibility, CreatedAt: now})
	if visibility == VisibilityCustomer {
		o.appendTimeline("Customer note added", now)
	} else {
		o.appendTimeline("Internal note added", now)
	}
	if notifyCustomer {
		o.queueNotification(TemplateOrderNote,
			fmt.Sprintf("A note about your order %s", o.number),
			clean, map[string]string{"note": clean})
	}
	return nil
}

// QueueEmail queues an ad hoc email. An empty recipient defaults to the customer.
// The outcome is reported back through RecordEmail.
func (o *Order) QueueEmail(templateID, subject, body, to string, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	templateID = strings.TrimSpace(templateID)
	subject = SanitizeText(subject)
	if templateID == "" {
		return errs.NewValueIsRequiredError("template")
	}
	if subject == "" {
		return errs.NewValueIsRequiredError("subject")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		to = o.customer.Email
	} else if err := validateEmail("to", to); err != nil {
		return err
	}

	vars := map[string]string{
		"order_number":  o.number,
		"customer_name": o.customer.Name,
		"status":        o.status.String(),
		"total":         kernel.FormatAmount(o.totals.Total),
	}
	o.queueNotificationTo(to, templateID, subject, SanitizeEmailBody(body), vars)
	o.appendTimeline(fmt.Sprintf("Email %q queued for %s", subject, to), now)
	return nil
}

// RecordEmail appends the delivery outcome of a queued email to the history.
func (o *Order) RecordEmail(rec EmailRecord, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := rec.Status.Validate(); err != nil {
		return err
	}
	if rec.SentAt.IsZero() {
		rec.SentAt = now
	}

	o.emails = append(o.emails, rec)
	verb := "sent to"
	if rec.Status == EmailFailed {
		verb = "failed for"
	}
	o.appendTimeline(fmt.Sprintf("Email %q %s %s", rec.Subject, verb, rec.To), now)
	return nil
}
