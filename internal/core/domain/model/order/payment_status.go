package order

import (
	"fmt"

	"orderengine/internal/pkg/errs"
)

// PaymentStatus is the payment axis of an order. It is independent of Status.
//
//	Pending ──> Paid ──(partial refund)──> PartialRefund
//	   │         ▲  └──(full refund)─────> Refunded
//	   └> Failed ┘
type PaymentStatus int

const (
	PaymentUnknown PaymentStatus = iota
	PaymentPending
	PaymentPaid
	PaymentFailed
	PaymentRefunded
	PaymentPartialRefund
)

func getPaymentStatusStrings() map[PaymentStatus]string {
	return map[PaymentStatus]string{
		PaymentUnknown:       "unknown",
		PaymentPending:       "pending",
		PaymentPaid:          "paid",
		PaymentFailed:        "failed",
		PaymentRefunded:      "refunded",
		PaymentPartialRefund: "partial_refund",
	}
}

// ParsePaymentStatus converts "paid", "partial_refund", ... into a PaymentStatus.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	for status, str := range getPaymentStatusStrings() {
		if str == s && status != PaymentUnknown {
			return status, nil
		}
	}
	return PaymentUnknown, errs.NewValueIsInvalidErrorWithCause(
		"payment_status",
		fmt.Errorf("%q is not a valid payment status", s),
	)
}

// Validate checks that p is one of the defined payment statuses.
//
// Returns:
//   - nil for pending, paid, failed, refunded and partial_refund
//   - ValueIsInvalidError for PaymentUnknown and out-of-range values
func (p PaymentStatus) Validate() error {
	if _, ok := getPaymentStatusStrings()[p]; !ok || p == PaymentUnknown {
		return errs.NewValueIsInvalidErrorWithCause(
			"payment_status",
			fmt.Errorf("%d is not a valid payment status", p),
		)
	}
	return nil
}

// String returns the wire name used in JSON and in the payment_status column,
// e.g. "partial_refund". Invalid values print as "unknown".
func (p PaymentStatus) String() string {
	if str, ok := getPaymentStatusStrings()[p]; ok {
		return str
	}
	return "unknown"
}

// IsInitial reports whether an order may be created with this payment status.
func (p PaymentStatus) IsInitial() bool {
	return p == PaymentPending || p == PaymentPaid || p == PaymentFailed
}

// Record validates a payment outcome reported by the payment collaborator.
// Only pending->paid, pending->failed and failed->paid are allowed.
func (p PaymentStatus) Record(target PaymentStatus) (PaymentStatus, error) {
	if err := target.Validate(); err != nil {
		return PaymentUnknown, err
	}
	switch {
	case p == PaymentPending && (target == PaymentPaid || target == PaymentFailed):
		return target, nil
	case p == PaymentFailed && target == PaymentPaid:
		return target, nil
	case target == PaymentRefunded || target == PaymentPartialRefund:
		return PaymentUnknown, newTransitionError("payment", p, target).withReason("refunds go through Refund")
	default:
		return PaymentUnknown, newTransitionError("payment", p, target)
	}
}

// Refund returns the payment status after a refund. The order must be paid.
func (p PaymentStatus) Refund(full bool) (PaymentStatus, error) {
	if p != PaymentPaid {
		return PaymentUnknown, fmt.Errorf("%w: payment status is %s", ErrNotPaid, p)
	}
	if full {
		return PaymentRefunded, nil
	}
	return PaymentPartialRefund, nil
}
