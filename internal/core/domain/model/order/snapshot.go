package order

import (
	"errors"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/pkg/errs"
)

// Snapshot is the flat, persistable state of an Order. Stores fill it
// from their rows and call RestoreOrder; they never build an Order directly.
type Snapshot struct {
	ID                kernel.UUID
	Number            string
	Status            Status
	PaymentStatus     PaymentStatus
	FulfillmentStatus FulfillmentStatus

	Items          []Item
	Totals         Totals
	TaxRate        float64
	RefundedAmount float64

	Customer        Customer
	ShippingAddress Address
	BillingAddress  Address

	Tracking     Tracking
	PickedItems  []string
	PackedItems  []string
	Package      Package
	PickedAt     *time.Time
	PackedAt     *time.Time
	DispatchedAt *time.Time

	CustomerNote string
	Notes        []Note
	EmailHistory []EmailRecord
	Timeline     []TimelineEvent

	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int
}

// Snapshot copies the current state. Queued effects are not part of it.
func (o *Order) Snapshot() Snapshot {
	return Snapshot{
		ID:                o.id,
		Number:            o.number,
		Status:            o.status,
		PaymentStatus:     o.paymentStatus,
		FulfillmentStatus: o.fulfillmentStatus,
		Items:             o.Items(),
		Totals:            o.totals,
		TaxRate:           o.taxRate,
		RefundedAmount:    o.refundedAmount,
		Customer:          o.customer,
		ShippingAddress:   o.shippingAddress,
		BillingAddress:    o.billingAddress,
		Tracking:          o.tracking,
		PickedItems:       o.PickedItems(),
		PackedItems:       o.PackedItems(),
		Package:           o.pkg,
		PickedAt:          o.PickedAt(),
		PackedAt:          o.PackedAt(),
		DispatchedAt:      o.DispatchedAt(),
		CustomerNote:      o.customerNote,
		Notes:             o.Notes(),
		EmailHistory:      o.EmailHistory(),
		Timeline:          o.Timeline(),
		CreatedAt:         o.createdAt,
		UpdatedAt:         o.updatedAt,
		Version:           o.version,
	}
}

// RestoreOrder rehydrates a persisted order. Only structural checks run here;
// business rules were enforced when the state was produced.
//
// Returns:
//   - *Order ready for further operations
//   - error when identity, statuses or version are malformed
func RestoreOrder(s Snapshot) (*Order, error) {
	var versionErr error
	if s.Version < 1 {
		versionErr = errs.NewVersionIsInvalidError("version")
	}
	if err := errors.Join(
		s.ID.Validate(),
		validateOrderNumber(s.Number),
		s.Status.Validate(),
		s.PaymentStatus.Validate(),
		s.FulfillmentStatus.Validate(),
		ValidateTaxRate(s.TaxRate),
		versionErr,
	); err != nil {
		return nil, err
	}

	return &Order{
		id:                s.ID,
		number:            s.Number,
		status:            s.Status,
		paymentStatus:     s.PaymentStatus,
		fulfillmentStatus: s.FulfillmentStatus,
		items:             cloneItems(s.Items),
		totals:            s.Totals,
		taxRate:           s.TaxRate,
		refundedAmount:    s.RefundedAmount,
		customer:          s.Customer,
		shippingAddress:   s.ShippingAddress,
		billingAddress:    s.BillingAddress,
		tracking:          s.Tracking,
		pickedItems:       append([]string(nil), s.PickedItems...),
		packedItems:       append([]string(nil), s.PackedItems...),
		pkg:               s.Package,
		pickedAt:          copyTime(s.PickedAt),
		packedAt:          copyTime(s.PackedAt),
		dispatchedAt:      copyTime(s.DispatchedAt),
		customerNote:      s.CustomerNote,
		notes:             append([]Note(nil), s.Notes...),
		emails:            append([]EmailRecord(nil), s.EmailHistory...),
		timeline:          append([]TimelineEvent(nil), s.Timeline...),
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		version:           s.Version,
		isConstructed:     true,
	}, nil
}

// Persisted records the version a store has just written.
func (o *Order) Persisted(version int) {
	o.version = version
}
