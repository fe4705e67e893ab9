package order_test

import (
	"testing"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type stubResolver struct{}

func (stubResolver) Resolve(carrierID, trackingNumber, customURL string) string {
	if carrierID == "other" {
		return customURL
	}
	return "https://track.example/" + carrierID + "/" + trackingNumber
}

func (stubResolver) DisplayName(carrierID string) string {
	return "Carrier " + carrierID
}

func testItems(t *testing.T) []order.Item {
	t.Helper()
	a, err := order.NewItem("A", "Widget", "SKU-A", 30, 2, "")
	require.NoError(t, err)
	b, err := order.NewItem("B", "Gadget", "SKU-B", 40, 1, "img/b.png")
	require.NoError(t, err)
	return []order.Item{a, b}
}

func testDraft(t *testing.T) order.Draft {
	t.Helper()
	return order.Draft{
		ID:       kernel.NewUUID(),
		Number:   "O-1001",
		Customer: order.Customer{Name: "Ada Lovelace", Email: "ada@example.com"},
		ShippingAddress: order.Address{
			Line1: "1 Analytical St", City: "Sydney", PostalCode: "2000", Country: "AU",
		},
		Items:        testItems(t),
		Discount:     10,
		ShippingCost: 15,
		TaxRate:      0.10,
	}
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(testDraft(t), testNow)
	require.NoError(t, err)
	return o
}

func processingOrder(t *testing.T) *order.Order {
	t.Helper()
	o := newTestOrder(t)
	require.NoError(t, o.SetStatus(order.StatusProcessing, false, testNow))
	return o
}

func packedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := processingOrder(t)
	require.NoError(t, o.CompletePicking([]string{"A", "B"}, testNow))
	require.NoError(t, o.CompletePacking([]string{"B", "A"}, order.Package{Weight: 1.5}, testNow))
	return o
}

func paidOrder(t *testing.T) *order.Order {
	t.Helper()
	d := testDraft(t)
	d.PaymentStatus = order.PaymentPaid
	o, err := order.NewOrder(d, testNow)
	require.NoError(t, err)
	return o
}

func lastEvent(o *order.Order) string {
	tl := o.Timeline()
	return tl[len(tl)-1].Description
}
