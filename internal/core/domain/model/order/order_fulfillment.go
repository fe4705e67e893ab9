package order

import (
	"fmt"
	"strings"
	"time"
)

// requireProcessing guards the fulfillment sub-workflow.
func (o *Order) requireProcessing(target FulfillmentStatus) error {
	if o.status != StatusProcessing {
		return newTransitionError("fulfillment", o.fulfillmentStatus, target).
			withReason("order is " + o.status.String())
	}
	return nil
}

// CompletePicking records that every line item was picked.
//
// Business rules:
//   - the order is processing and unfulfilled (ErrInvalidTransition)
//   - picked must equal the set of all product IDs (ErrIncompleteSelection)
func (o *Order) CompletePicking(picked []string, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.requireProcessing(FulfillmentPicked); err != nil {
		return err
	}
	next, err := o.fulfillmentStatus.Advance(FulfillmentPicked)
	if err != nil {
		return err
	}
	if !sameSet(picked, o.productIDs()) {
		return fmt.Errorf("%w: picked %d of %d products", ErrIncompleteSelection, len(uniq(picked)), len(o.items))
	}

	o.fulfillmentStatus = next
	o.pickedItems = o.productIDs()
	o.pickedAt = &now
	o.appendTimeline(fmt.Sprintf("Items picked (%d products)", len(o.pickedItems)), now)
	return nil
}

// CompletePacking records the parcel.
//
// Business rules:
//   - the order is processing and picked (ErrInvalidTransition)
//   - packed is non-empty and equal to the picked set (ErrIncompleteSelection)
//   - weight and dimensions are >= 0
func (o *Order) CompletePacking(packed []string, pkg Package, now time.Time) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.requireProcessing(FulfillmentPacked); err != nil {
		return err
	}
	next, err := o.fulfillmentStatus.Advance(FulfillmentPacked)
	if err != nil {
		return err
	}
	if len(packed) == 0 || !sameSet(packed, o.pickedItems) {
		return fmt.Errorf("%w: packed %d of %d picked products",
			ErrIncompleteSelection, len(uniq(packed)), len(o.pickedItems))
	}
	if err = pkg.Validate(); err != nil {
		return err
	}

	o.fulfillmentStatus = next
	o.packedItems = append([]string(nil), o.pickedItems...)
	o.pkg = pkg
	o.packedAt = &now
	o.appendTimeline(fmt.Sprintf("Items packed (%d products, %.2f kg)", len(o.packedItems), pkg.Weight), now)
	return nil
}

// Dispatch hands the parcel to a carrier and ships the order.
//
// Business rules:
//   - the order is processing and packed (ErrInvalidTransition)
//   - carrier and tracking number are both required (ErrMissingTrackingInfo)
//   - the order status becomes shipped; notify queues shipping_confirmation
//   - one timeline event covers both the dispatch and the status change
//
// Example:
//
//	err := o.Dispatch("auspost", "ABC123", "", resolver, true, time.Now())
func (o *Order) Dispatch(
	carrierID, trackingNumber, customURL string,
	resolver TrackingResolver,
	notify bool,
	now time.Time,
) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if err := o.requireProcessing(FulfillmentDispatched); err != nil {
		return err
	}
	next, err := o.fulfillmentStatus.Advance(FulfillmentDispatched)
	if err != nil {
		return err
	}
	tracking, err := buildTracking(carrierID, trackingNumber, customURL, resolver)
	if err != nil {
		return err
	}
	nextStatus, err := o.status.TransitionTo(StatusShipped)
	if err != nil {
		return err
	}

	prev := o.status
	o.fulfillmentStatus = next
	o.tracking = tracking
	o.dispatchedAt = &now
	o.status = nextStatus
	o.appendTimeline(fmt.Sprintf("Dispatched via %s, tracking %s; status changed from %s to %s",
		resolver.DisplayName(tracking.CarrierID), tracking.TrackingNumber, prev, nextStatus), now)
	if notify {
		o.notifyStatus(StatusShipped)
	}
	return nil
}

// UpdateTracking replaces the tracking reference outside of Dispatch, e.g. after
// a carrier change. Cancelled and refunded orders are rejected.
func (o *Order) UpdateTracking(
	carrierID, trackingNumber, customURL string,
	resolver TrackingResolver,
	notify bool,
	now time.Time,
) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.status.IsTerminal() {
		return (&TransitionError{Axis: "tracking", From: o.status.String(), To: "updated"}).
			withReason("order is closed")
	}
	tracking, err := buildTracking(carrierID, trackingNumber, customURL, resolver)
	if err != nil {
		return err
	}

	o.tracking = tracking
	o.appendTimeline(fmt.Sprintf("Tracking updated: %s %s",
		resolver.DisplayName(tracking.CarrierID), tracking.TrackingNumber), now)
	if notify {
		o.queueNotification(TemplateTrackingUpdate,
			fmt.Sprintf("Tracking update for order %s", o.number),
			fmt.Sprintf("The tracking details of your order %s changed.", o.number),
			o.trackingVariables())
	}
	return nil
}

func buildTracking(carrierID, trackingNumber, customURL string, resolver TrackingResolver) (Tracking, error) {
	carrierID = strings.TrimSpace(carrierID)
	trackingNumber = strings.TrimSpace(trackingNumber)
	if carrierID == "" || trackingNumber == "" {
		return Tracking{}, fmt.Errorf("%w: carrier and tracking number are required", ErrMissingTrackingInfo)
	}
	return Tracking{
		CarrierID:      carrierID,
		TrackingNumber: trackingNumber,
		TrackingURL:    resolver.Resolve(carrierID, trackingNumber, strings.TrimSpace(customURL)),
	}, nil
}

func uniq(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[strings.TrimSpace(id)] = struct{}{}
	}
	return set
}

// sameSet compares as sets; order and duplicates are ignored.
func sameSet(a, b []string) bool {
	sa, sb := uniq(a), uniq(b)
	if len(sa) != len(sb) {
		return false
	}
	for id := range sa {
		if _, ok := sb[id]; !ok {
			return false
		}
	}
	return true
}
