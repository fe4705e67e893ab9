package order

import (
	"fmt"

	"orderengine/internal/pkg/errs"
)

// FulfillmentStatus is the warehouse sub-workflow nested under StatusProcessing.
// It only moves forward, one step at a time:
//
//	Unfulfilled ──> Picked ──> Packed ──> Dispatched
type FulfillmentStatus int

const (
	FulfillmentUnknown FulfillmentStatus = iota
	FulfillmentUnfulfilled
	FulfillmentPicked
	FulfillmentPacked
	FulfillmentDispatched
)

func getFulfillmentStatusStrings() map[FulfillmentStatus]string {
	return map[FulfillmentStatus]string{
		FulfillmentUnknown:     "unknown",
		FulfillmentUnfulfilled: "unfulfilled",
		FulfillmentPicked:      "picked",
		FulfillmentPacked:      "packed",
		FulfillmentDispatched:  "dispatched",
	}
}

// ParseFulfillmentStatus converts "unfulfilled", "picked", ... into a FulfillmentStatus.
func ParseFulfillmentStatus(s string) (FulfillmentStatus, error) {
	for status, str := range getFulfillmentStatusStrings() {
		if str == s && status != FulfillmentUnknown {
			return status, nil
		}
	}
	return FulfillmentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"fulfillment_status",
		fmt.Errorf("%q is not a valid fulfillment status", s),
	)
}

// Validate checks that f is one of unfulfilled, picked, packed or dispatched.
// FulfillmentUnknown and out-of-range values return ValueIsInvalidError.
func (f FulfillmentStatus) Validate() error {
	if _, ok := getFulfillmentStatusStrings()[f]; !ok || f == FulfillmentUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"fulfillment_status",
			fmt.Errorf("%d is not a valid fulfillment status", f),
		)
	}
	return nil
}

// String returns the wire name of the fulfillment status, "unknown" when invalid.
func (f FulfillmentStatus) String() string {
	if str, ok := getFulfillmentStatusStrings()[f]; ok {
		return str
	}
	return "unknown"
}

// Advance moves exactly one step forward to target.
//
// Returns:
//   - (target, nil) when target is the immediate successor of f
//   - (FulfillmentUnknown, *TransitionError) for skips, repeats and backward moves
func (f FulfillmentStatus) Advance(target FulfillmentStatus) (FulfillmentStatus, error) {
	if err := target.Validate(); err != nil {
		return FulfillmentUnknown, err
	}
	if f == FulfillmentUnknown || target != f+1 {
		return FulfillmentUnknown, newTransitionError("fulfillment", f, target)
	}
	return target, nil
}
