package order_test

import (
	"strings"
	"testing"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	t.Run("should create pending unfulfilled order with derived totals", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, "O-1001", o.Number())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Equal(t, order.FulfillmentUnfulfilled, o.FulfillmentStatus())
		assert.InDelta(t, 100, o.Totals().Subtotal, 1e-9)
		assert.InDelta(t, 10.5, o.Totals().Tax, 1e-9)
		assert.InDelta(t, 115.5, o.Totals().Total, 1e-9)
		assert.Equal(t, testNow, o.CreatedAt())
		assert.Equal(t, testNow, o.UpdatedAt())
		assert.Zero(t, o.Version())
		require.Len(t, o.Timeline(), 1)
		assert.Equal(t, "Order O-1001 created with 2 items, total 115.50", lastEvent(o))
	})

	t.Run("should fail with empty items", func(t *testing.T) {
		d := testDraft(t)
		d.Items = nil

		o, err := order.NewOrder(d, testNow)

		require.ErrorIs(t, err, order.ErrEmptyOrder)
		assert.Nil(t, o)
	})

	t.Run("should join validation errors", func(t *testing.T) {
		d := testDraft(t)
		d.ID = kernel.UUID{}
		d.Number = " "
		d.Customer.Email = "not-an-email"
		d.TaxRate = 2

		_, err := order.NewOrder(d, testNow)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "order_number")
		assert.Contains(t, err.Error(), "customer.email")
		assert.Contains(t, err.Error(), "tax_rate")
	})

	t.Run("should reject duplicate products", func(t *testing.T) {
		d := testDraft(t)
		d.Items = append(d.Items, d.Items[0])

		_, err := order.NewOrder(d, testNow)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject discount above subtotal", func(t *testing.T) {
		d := testDraft(t)
		d.Discount = 101

		_, err := order.NewOrder(d, testNow)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject refunded initial payment", func(t *testing.T) {
		d := testDraft(t)
		d.PaymentStatus = order.PaymentRefunded

		_, err := order.NewOrder(d, testNow)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero value order is not constructed", func(t *testing.T) {
		var o order.Order
		require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
		require.ErrorIs(t, o.SetStatus(order.StatusProcessing, false, testNow), order.ErrOrderIsNotConstructed)
	})
}

func TestNewItem(t *testing.T) {
	_, err := order.NewItem("A", "Widget", "", -1, 1, "")
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = order.NewItem("A", "Widget", "", 1, 0, "")
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = order.NewItem("", "", "", 1, 1, "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	it, err := order.NewItem(" A ", "Widget", "SKU", 2.5, 4, "")
	require.NoError(t, err)
	assert.Equal(t, "A", it.ProductID)
	assert.InDelta(t, 10, it.LineTotal(), 1e-9)
}

func TestOrder_SetStatus(t *testing.T) {
	t.Run("pending to delivered is rejected", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.SetStatus(order.StatusDelivered, false, testNow)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Len(t, o.Timeline(), 1)
	})

	t.Run("direct refunded is rejected", func(t *testing.T) {
		o := paidOrder(t)

		err := o.SetStatus(order.StatusRefunded, false, testNow)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("same status is rejected", func(t *testing.T) {
		o := newTestOrder(t)
		require.ErrorIs(t, o.SetStatus(order.StatusPending, false, testNow), order.ErrInvalidTransition)
	})

	t.Run("confirm with notification", func(t *testing.T) {
		o := newTestOrder(t)
		later := testNow.Add(time.Hour)

		require.NoError(t, o.SetStatus(order.StatusProcessing, true, later))

		assert.Equal(t, order.StatusProcessing, o.Status())
		assert.Equal(t, later, o.UpdatedAt())
		assert.Equal(t, "Status changed from pending to processing", lastEvent(o))
		effects := o.PullEffects()
		require.Len(t, effects, 1)
		assert.Equal(t, order.EffectNotification, effects[0].Kind)
		assert.Equal(t, order.TemplateOrderConfirmation, effects[0].Notification.TemplateID)
		assert.Equal(t, "ada@example.com", effects[0].Notification.To)
		assert.Equal(t, "O-1001", effects[0].Notification.Variables["order_number"])
		assert.Empty(t, o.PullEffects())
	})

	t.Run("cancel after picking releases reservations", func(t *testing.T) {
		o := processingOrder(t)
		require.NoError(t, o.CompletePicking([]string{"A", "B"}, testNow))

		require.NoError(t, o.SetStatus(order.StatusCancelled, false, testNow))

		effects := o.PullEffects()
		require.Len(t, effects, 2)
		assert.Equal(t, order.EffectReleaseReservation, effects[0].Kind)
		assert.Equal(t, order.StockMovement{ProductID: "A", Quantity: 2}, *effects[0].Stock)
		assert.Equal(t, order.StockMovement{ProductID: "B", Quantity: 1}, *effects[1].Stock)
	})

	t.Run("cancel unfulfilled queues nothing", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.SetStatus(order.StatusCancelled, false, testNow))

		assert.Empty(t, o.PendingEffects())
		require.ErrorIs(t, o.SetStatus(order.StatusProcessing, false, testNow), order.ErrInvalidTransition)
	})

	t.Run("shipped order cannot be cancelled", func(t *testing.T) {
		o := packedOrder(t)
		require.NoError(t, o.Dispatch("dhl", "123", "", stubResolver{}, false, testNow))

		err := o.SetStatus(order.StatusCancelled, false, testNow)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.StatusShipped, o.Status())
	})
}

func TestOrder_RecordPayment(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.RecordPayment(order.PaymentFailed, testNow))
	require.NoError(t, o.RecordPayment(order.PaymentPaid, testNow))
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
	assert.Equal(t, "Payment status changed from failed to paid", lastEvent(o))

	require.ErrorIs(t, o.RecordPayment(order.PaymentRefunded, testNow), order.ErrInvalidTransition)
}

func TestOrder_Fulfillment(t *testing.T) {
	t.Run("partial picking is rejected", func(t *testing.T) {
		o := processingOrder(t)

		err := o.CompletePicking([]string{"A"}, testNow)

		require.ErrorIs(t, err, order.ErrIncompleteSelection)
		assert.Equal(t, order.FulfillmentUnfulfilled, o.FulfillmentStatus())

		require.NoError(t, o.CompletePicking([]string{"A", "B"}, testNow))
		assert.Equal(t, order.FulfillmentPicked, o.FulfillmentStatus())
		assert.ElementsMatch(t, []string{"A", "B"}, o.PickedItems())
		require.NotNil(t, o.PickedAt())
	})

	t.Run("picking with unknown products is rejected", func(t *testing.T) {
		o := processingOrder(t)
		require.ErrorIs(t, o.CompletePicking([]string{"A", "C"}, testNow), order.ErrIncompleteSelection)
	})

	t.Run("picking requires processing", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.CompletePicking([]string{"A", "B"}, testNow)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("picking twice is rejected", func(t *testing.T) {
		o := processingOrder(t)
		require.NoError(t, o.CompletePicking([]string{"A", "B"}, testNow))
		require.ErrorIs(t, o.CompletePicking([]string{"A", "B"}, testNow), order.ErrInvalidTransition)
	})

	t.Run("packing before picking is rejected", func(t *testing.T) {
		o := processingOrder(t)
		require.ErrorIs(t, o.CompletePacking([]string{"A", "B"}, order.Package{}, testNow), order.ErrInvalidTransition)
	})

	t.Run("packing must match picked set", func(t *testing.T) {
		o := processingOrder(t)
		require.NoError(t, o.CompletePicking([]string{"A", "B"}, testNow))

		require.ErrorIs(t, o.CompletePacking(nil, order.Package{}, testNow), order.ErrIncompleteSelection)
		require.ErrorIs(t, o.CompletePacking([]string{"B"}, order.Package{}, testNow), order.ErrIncompleteSelection)
		require.ErrorIs(t,
			o.CompletePacking([]string{"A", "B"}, order.Package{Weight: -1}, testNow),
			errs.ErrValueIsOutOfRange)

		pkg := order.Package{Weight: 2.25, Dimensions: order.Dimensions{Length: 30, Width: 20, Height: 10}}
		require.NoError(t, o.CompletePacking([]string{"A", "B"}, pkg, testNow))
		assert.Equal(t, order.FulfillmentPacked, o.FulfillmentStatus())
		assert.Equal(t, pkg, o.Package())
		assert.Equal(t, "Items packed (2 products, 2.25 kg)", lastEvent(o))
	})

	t.Run("dispatch without tracking is rejected", func(t *testing.T) {
		o := packedOrder(t)

		err := o.Dispatch("auspost", "", "", stubResolver{}, true, testNow)

		require.ErrorIs(t, err, order.ErrMissingTrackingInfo)
		assert.Equal(t, order.FulfillmentPacked, o.FulfillmentStatus())
		assert.Equal(t, order.StatusProcessing, o.Status())
		assert.Empty(t, o.PendingEffects())
	})

	t.Run("dispatch ships the order with one timeline event", func(t *testing.T) {
		o := packedOrder(t)
		before := len(o.Timeline())

		require.NoError(t, o.Dispatch("auspost", "ABC123", "", stubResolver{}, true, testNow))

		assert.Equal(t, order.FulfillmentDispatched, o.FulfillmentStatus())
		assert.Equal(t, order.StatusShipped, o.Status())
		assert.Equal(t, "https://track.example/auspost/ABC123", o.Tracking().TrackingURL)
		require.NotNil(t, o.DispatchedAt())
		assert.Len(t, o.Timeline(), before+1)
		assert.Equal(t,
			"Dispatched via Carrier auspost, tracking ABC123; status changed from processing to shipped",
			lastEvent(o))
		effects := o.PullEffects()
		require.Len(t, effects, 1)
		assert.Equal(t, order.TemplateShippingConfirmation, effects[0].Notification.TemplateID)
		assert.Equal(t, "ABC123", effects[0].Notification.Variables["tracking_number"])
	})

	t.Run("dispatch before packing is rejected", func(t *testing.T) {
		o := processingOrder(t)
		require.ErrorIs(t, o.Dispatch("dhl", "1", "", stubResolver{}, false, testNow), order.ErrInvalidTransition)
	})
}

func TestOrder_UpdateTracking(t *testing.T) {
	t.Run("updates and notifies", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.UpdateTracking("other", "X-1", "https://carrier.test/X-1", stubResolver{}, true, testNow))

		assert.Equal(t, order.Tracking{
			CarrierID: "other", TrackingNumber: "X-1", TrackingURL: "https://carrier.test/X-1",
		}, o.Tracking())
		effects := o.PullEffects()
		require.Len(t, effects, 1)
		assert.Equal(t, order.TemplateTrackingUpdate, effects[0].Notification.TemplateID)
	})

	t.Run("requires carrier and number", func(t *testing.T) {
		o := newTestOrder(t)
		require.ErrorIs(t, o.UpdateTracking("", "1", "", stubResolver{}, false, testNow), order.ErrMissingTrackingInfo)
	})

	t.Run("closed orders are rejected", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.SetStatus(order.StatusCancelled, false, testNow))
		require.ErrorIs(t, o.UpdateTracking("dhl", "1", "", stubResolver{}, false, testNow), order.ErrInvalidTransition)
	})
}

func TestOrder_Refund(t *testing.T) {
	t.Run("unpaid order is rejected", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.Refund(order.RefundRequest{Amount: 10}, testNow)

		require.ErrorIs(t, err, order.ErrNotPaid)
	})

	t.Run("partial refund keeps status", func(t *testing.T) {
		o := paidOrder(t)

		require.NoError(t, o.Refund(order.RefundRequest{Amount: 50, Reason: "damaged <b>box</b>"}, testNow))

		assert.Equal(t, order.PaymentPartialRefund, o.PaymentStatus())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.InDelta(t, 50, o.RefundedAmount(), 1e-9)
		assert.Equal(t, "Partial refund of 50.00 issued: damaged box", lastEvent(o))

		require.ErrorIs(t, o.Refund(order.RefundRequest{Amount: 10}, testNow), order.ErrNotPaid)
		require.ErrorIs(t, o.Refund(order.RefundRequest{Amount: 200}, testNow), order.ErrInvalidAmount)
	})

	t.Run("over total fails before payment check", func(t *testing.T) {
		o := newTestOrder(t)

		require.ErrorIs(t, o.Refund(order.RefundRequest{Amount: 200}, testNow), order.ErrInvalidAmount)
	})

	t.Run("full refund within tolerance", func(t *testing.T) {
		o := paidOrder(t)

		require.NoError(t, o.Refund(order.RefundRequest{Amount: 115.496}, testNow))

		assert.Equal(t, order.PaymentRefunded, o.PaymentStatus())
		assert.Equal(t, order.StatusRefunded, o.Status())
	})

	t.Run("fraction of a cent over total is rejected", func(t *testing.T) {
		o := paidOrder(t)

		require.ErrorIs(t, o.Refund(order.RefundRequest{Amount: 115.504}, testNow), order.ErrInvalidAmount)
		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
	})

	t.Run("amount bounds", func(t *testing.T) {
		o := paidOrder(t)

		require.ErrorIs(t, o.Refund(order.RefundRequest{Amount: 0}, testNow), order.ErrInvalidAmount)
		require.ErrorIs(t, o.Refund(order.RefundRequest{Amount: -5}, testNow), order.ErrInvalidAmount)
		require.ErrorIs(t, o.Refund(order.RefundRequest{Amount: 200}, testNow), order.ErrInvalidAmount)
		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
	})

	t.Run("restock every line by default", func(t *testing.T) {
		o := paidOrder(t)

		require.NoError(t, o.Refund(order.RefundRequest{Amount: 115.5, Restock: true}, testNow))

		effects := o.PullEffects()
		require.Len(t, effects, 2)
		for _, e := range effects {
			assert.Equal(t, order.EffectRestock, e.Kind)
		}
		assert.Equal(t, "A", effects[0].Stock.ProductID)
		assert.Equal(t, 2, effects[0].Stock.Quantity)
	})

	t.Run("restock selected items", func(t *testing.T) {
		o := paidOrder(t)

		req := order.RefundRequest{
			Amount:  30,
			Restock: true,
			Items:   []order.StockMovement{{ProductID: "A", Quantity: 1}},
		}
		require.NoError(t, o.Refund(req, testNow))

		effects := o.PullEffects()
		require.Len(t, effects, 1)
		assert.Equal(t, order.StockMovement{ProductID: "A", Quantity: 1}, *effects[0].Stock)
	})

	t.Run("restock unknown product is rejected", func(t *testing.T) {
		o := paidOrder(t)

		req := order.RefundRequest{Amount: 30, Restock: true, Items: []order.StockMovement{{ProductID: "Z"}}}
		require.ErrorIs(t, o.Refund(req, testNow), errs.ErrValueIsInvalid)
		assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
	})
}

func TestOrder_EditItems(t *testing.T) {
	t.Run("replaces items and recalculates", func(t *testing.T) {
		o := newTestOrder(t)
		items := []order.Item{{ProductID: "C", Name: "Gizmo", UnitPrice: 200, Quantity: 1}}

		require.NoError(t, o.EditItems(items, 0, 0, testNow))

		assert.InDelta(t, 200, o.Totals().Subtotal, 1e-9)
		assert.InDelta(t, 20, o.Totals().Tax, 1e-9)
		assert.InDelta(t, 220, o.Totals().Total, 1e-9)
		assert.Equal(t, "Items updated: 1 items, total 220.00", lastEvent(o))
	})

	t.Run("empty list is rejected", func(t *testing.T) {
		o := newTestOrder(t)
		require.ErrorIs(t, o.EditItems(nil, 0, 0, testNow), order.ErrEmptyOrder)
	})

	t.Run("locked after picking", func(t *testing.T) {
		o := processingOrder(t)
		require.NoError(t, o.CompletePicking([]string{"A", "B"}, testNow))

		err := o.EditItems(testItems(t), 0, 0, testNow)

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestOrder_AddItem(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.AddItem(order.Item{ProductID: "A", Name: "Widget", UnitPrice: 99, Quantity: 1}, testNow))
	assert.Equal(t, 3, o.Items()[0].Quantity)
	assert.InDelta(t, 30, o.Items()[0].UnitPrice, 1e-9)

	require.NoError(t, o.AddItem(order.Item{ProductID: "C", Name: "Gizmo", UnitPrice: 10, Quantity: 2}, testNow))
	require.Len(t, o.Items(), 3)
	assert.InDelta(t, 150, o.Totals().Subtotal, 1e-9)
	assert.True(t, strings.HasPrefix(lastEvent(o), "Item Gizmo added (qty 2)"))
}

func TestOrder_AddNote(t *testing.T) {
	t.Run("sanitizes content", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.AddNote("<script>alert(1)</script>Leave at <b>door</b>", order.VisibilityCustomer, true, testNow))

		notes := o.Notes()
		require.Len(t, notes, 1)
		assert.Equal(t, "Leave at door", notes[0].Content)
		assert.Equal(t, "Customer note added", lastEvent(o))
		effects := o.PullEffects()
		require.Len(t, effects, 1)
		assert.Equal(t, order.TemplateOrderNote, effects[0].Notification.TemplateID)
	})

	t.Run("internal note cannot notify", func(t *testing.T) {
		o := newTestOrder(t)
		require.ErrorIs(t, o.AddNote("check stock", order.VisibilityInternal, true, testNow), errs.ErrValueIsInvalid)
		assert.Empty(t, o.Notes())
	})

	t.Run("empty after sanitizing", func(t *testing.T) {
		o := newTestOrder(t)
		require.ErrorIs(t, o.AddNote("<br/>", order.VisibilityInternal, false, testNow), errs.ErrValueIsRequired)
	})

	t.Run("invalid visibility", func(t *testing.T) {
		o := newTestOrder(t)
		require.ErrorIs(t, o.AddNote("x", order.Visibility("public"), false, testNow), errs.ErrValueIsInvalid)
	})
}

func TestOrder_Emails(t *testing.T) {
	o := newTestOrder(t)

	require.NoError(t, o.QueueEmail("custom", "Your invoice", "<p>Hi</p><script>x</script>", "", testNow))
	effects := o.PullEffects()
	require.Len(t, effects, 1)
	assert.Equal(t, "ada@example.com", effects[0].Notification.To)
	assert.Equal(t, "<p>Hi</p>", effects[0].Notification.Body)
	assert.Equal(t, `Email "Your invoice" queued for ada@example.com`, lastEvent(o))

	require.ErrorIs(t, o.QueueEmail("", "s", "", "", testNow), errs.ErrValueIsRequired)
	require.ErrorIs(t, o.QueueEmail("custom", "s", "", "bad", testNow), errs.ErrValueIsInvalid)

	rec := order.EmailRecord{TemplateID: "custom", Subject: "Your invoice", To: "ada@example.com", Status: order.EmailFailed}
	require.NoError(t, o.RecordEmail(rec, testNow))
	history := o.EmailHistory()
	require.Len(t, history, 1)
	assert.Equal(t, testNow, history[0].SentAt)
	assert.Equal(t, `Email "Your invoice" failed for ada@example.com`, lastEvent(o))

	require.ErrorIs(t, o.RecordEmail(order.EmailRecord{Status: "bounced"}, testNow), errs.ErrValueIsInvalid)
}

func TestOrder_UpdateCustomer(t *testing.T) {
	o := newTestOrder(t)
	c := order.Customer{Name: "Grace Hopper", Email: "grace@example.com", Company: "Navy"}

	require.NoError(t, o.UpdateCustomer(c, order.Address{}, order.Address{}, testNow))
	assert.Equal(t, c, o.Customer())
	assert.True(t, o.ShippingAddress().IsZero())

	err := o.UpdateCustomer(c, order.Address{Line1: "x"}, order.Address{}, testNow)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestOrder_TimelineCompleteness(t *testing.T) {
	o := paidOrder(t)
	steps := []func() error{
		func() error { return o.SetStatus(order.StatusProcessing, false, testNow) },
		func() error { return o.CompletePicking([]string{"A", "B"}, testNow) },
		func() error { return o.CompletePacking([]string{"A", "B"}, order.Package{Weight: 1}, testNow) },
		func() error { return o.Dispatch("ups", "1Z", "", stubResolver{}, false, testNow) },
		func() error { return o.SetStatus(order.StatusDelivered, true, testNow) },
		func() error { return o.AddNote("thanks", order.VisibilityInternal, false, testNow) },
		func() error { return o.Refund(order.RefundRequest{Amount: 20}, testNow) },
	}
	for i, step := range steps {
		before := len(o.Timeline())
		require.NoError(t, step(), "step %d", i)
		assert.Len(t, o.Timeline(), before+1, "step %d", i)
	}

	totals := o.Totals()
	assert.InDelta(t, totals.Subtotal-totals.Discount+totals.ShippingCost+totals.Tax, totals.Total, 1e-9)
}

func TestRestoreOrder(t *testing.T) {
	t.Run("round trips a snapshot", func(t *testing.T) {
		o := packedOrder(t)
		o.Persisted(3)
		snap := o.Snapshot()

		restored, err := order.RestoreOrder(snap)

		require.NoError(t, err)
		assert.Equal(t, snap, restored.Snapshot())
		assert.Equal(t, 3, restored.Version())
		assert.Empty(t, restored.PendingEffects())
	})

	t.Run("rejects missing version", func(t *testing.T) {
		snap := newTestOrder(t).Snapshot()

		_, err := order.RestoreOrder(snap)

		require.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		snap := newTestOrder(t).Snapshot()
		snap.Version = 1
		snap.Status = order.StatusUnknown

		_, err := order.RestoreOrder(snap)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
