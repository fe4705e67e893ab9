package order

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created via NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	ErrInvalidTransition   = errors.New("invalid transition")
	ErrIncompleteSelection = errors.New("incomplete selection")
	ErrMissingTrackingInfo = errors.New("missing tracking info")
	ErrNotPaid             = errors.New("order is not paid")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrEmptyOrder          = errors.New("order must contain at least one item")
)

// TransitionError describes a rejected move on one of the three status axes.
// It unwraps to ErrInvalidTransition.
type TransitionError struct {
	Axis   string
	From   string
	To     string
	Reason string
}

func newTransitionError(axis string, from, to fmt.Stringer) *TransitionError {
	return &TransitionError{Axis: axis, From: from.String(), To: to.String()}
}

func (e *TransitionError) withReason(reason string) *TransitionError {
	e.Reason = reason
	return e
}

func (e *TransitionError) Error() string {
	msg := fmt.Sprintf("%s: %s %s -> %s", ErrInvalidTransition, e.Axis, e.From, e.To)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
