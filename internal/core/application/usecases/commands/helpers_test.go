package commands_test

import (
	"testing"
	"time"

	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testDraft(t *testing.T) order.Draft {
	t.Helper()
	return order.Draft{
		ID:       kernel.NewUUID(),
		Number:   "O-1001",
		Customer: order.Customer{Name: "Ada Lovelace", Email: "ada@example.com"},
		Items: []order.Item{
			{ProductID: "A", Name: "Widget", SKU: "SKU-A", UnitPrice: 30, Quantity: 2},
			{ProductID: "B", Name: "Gadget", SKU: "SKU-B", UnitPrice: 40, Quantity: 1},
		},
		Discount:     10,
		ShippingCost: 15,
		TaxRate:      0.10,
	}
}

// storedOrder returns an order as a repository would load it.
func storedOrder(t *testing.T, d order.Draft) *order.Order {
	t.Helper()
	o, err := order.NewOrder(d, testNow)
	require.NoError(t, err)
	o.Persisted(1)
	return o
}

// mutationMocks wires the happy path of lock -> begin -> get -> update -> commit.
type mutationMocks struct {
	factory *MockOrderUoWFactory
	uow     *MockOrderUoW
	repo    *MockOrderRepository
	locker  *MockLocker
	lock    *MockLock
}

func newMutationMocks() *mutationMocks {
	return &mutationMocks{
		factory: new(MockOrderUoWFactory),
		uow:     new(MockOrderUoW),
		repo:    new(MockOrderRepository),
		locker:  new(MockLocker),
		lock:    new(MockLock),
	}
}

func (m *mutationMocks) expectLoad(o *order.Order) {
	m.locker.On("TryAcquire", mock.Anything, o.ID()).Return(m.lock, nil).Once()
	m.lock.On("Release", mock.Anything).Return(nil).Once()
	m.factory.On("Create").Return(m.uow).Once()
	m.uow.On("Begin", mock.Anything).Return(nil).Once()
	m.uow.On("OrderRepository").Return(m.repo).Once()
	m.uow.On("Rollback", mock.Anything).Return(nil).Once()
	m.repo.On("Get", mock.Anything, o.ID()).Return(o, nil).Once()
}

func (m *mutationMocks) expectSave(o *order.Order) {
	m.repo.On("Update", mock.Anything, o).Return(nil).Once()
	m.uow.On("Commit", mock.Anything).Return(nil).Once()
}

func (m *mutationMocks) assert(t *testing.T) {
	t.Helper()
	m.factory.AssertExpectations(t)
	m.uow.AssertExpectations(t)
	m.repo.AssertExpectations(t)
	m.locker.AssertExpectations(t)
	m.lock.AssertExpectations(t)
}
