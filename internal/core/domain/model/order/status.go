package order

import (
	"fmt"

	"orderengine/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Processing ──> Shipped ──> Delivered
//	   │            │
//	   └────────────┴──> Cancelled
//
//	any non-refunded status ──(full refund)──> Refunded
//
// Cancelled and Refunded are terminal. Delivered only leaves through a full refund.
type Status int

const (
	// StatusUnknown catches uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status of every order.
	StatusPending

	// StatusProcessing means the order is confirmed and may be fulfilled.
	StatusProcessing

	// StatusShipped means the parcel left the warehouse.
	StatusShipped

	// StatusDelivered means the carrier reported delivery.
	StatusDelivered

	// StatusCancelled is terminal.
	StatusCancelled

	// StatusRefunded is terminal and only reachable through a full refund.
	StatusRefunded
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "unknown",
		StatusPending:    "pending",
		StatusProcessing: "processing",
		StatusShipped:    "shipped",
		StatusDelivered:  "delivered",
		StatusCancelled:  "cancelled",
		StatusRefunded:   "refunded",
	}
}

// getStatusTransitions lists the targets SetStatus may move to from each status.
// Refunded is deliberately absent as a target.
func getStatusTransitions() map[Status][]Status {
	//nolint:exhaustive // statuses without outgoing edges are terminal
	return map[Status][]Status{
		StatusPending:    {StatusProcessing, StatusCancelled},
		StatusProcessing: {StatusShipped, StatusCancelled},
		StatusShipped:    {StatusDelivered},
	}
}

// ParseStatus converts the wire representation ("pending", "shipped", ...) into a Status.
//
// Returns:
//   - the matching Status
//   - ValueIsInvalidError for anything else, including "unknown"
func ParseStatus(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate checks that the Status is one of the defined values other than StatusUnknown.
func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == StatusUnknown {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the wire name of the status. Invalid values print as "unknown".
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusRefunded
}

// CanTransitionTo reports whether SetStatus may move from s to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range getStatusTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// TransitionTo validates a manual status change.
//
// Returns:
//   - (target, nil) when the edge exists in the transition table
//   - (StatusUnknown, *TransitionError) otherwise, including same-status moves,
//     moves out of terminal states and any move to StatusRefunded
//
// Example:
//
//	next, err := StatusPending.TransitionTo(StatusProcessing) // processing, nil
//	_, err = StatusPending.TransitionTo(StatusDelivered)      // ErrInvalidTransition
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}
	if target == StatusRefunded {
		return StatusUnknown, newTransitionError("status", s, target).withReason("refunds go through Refund")
	}
	if !s.CanTransitionTo(target) {
		return StatusUnknown, newTransitionError("status", s, target)
	}
	return target, nil
}

// Refund moves the status to StatusRefunded after a full refund.
func (s Status) Refund() (Status, error) {
	if s == StatusRefunded || s == StatusUnknown {
		return StatusUnknown, newTransitionError("status", s, StatusRefunded)
	}
	return StatusRefunded, nil
}
