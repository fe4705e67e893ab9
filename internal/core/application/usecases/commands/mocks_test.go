package commands_test

import (
	"context"
	"time"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, f ports.OrderFilter) ([]*order.Order, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockLocker struct{ mock.Mock }

func (m *MockLocker) TryAcquire(ctx context.Context, id kernel.UUID) (ports.OrderLock, error) {
	args := m.Called(ctx, id)
	lock, _ := args.Get(0).(ports.OrderLock)
	return lock, args.Error(1)
}

type MockLock struct{ mock.Mock }

func (m *MockLock) Release(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Append(ctx context.Context, messages ...ports.OutboxMessage) error {
	return m.Called(ctx, messages).Error(0)
}

func (m *MockOutboxRepository) Claim(ctx context.Context, limit int, now, staleBefore time.Time) ([]ports.OutboxMessage, error) {
	args := m.Called(ctx, limit, now, staleBefore)
	msgs, _ := args.Get(0).([]ports.OutboxMessage)
	return msgs, args.Error(1)
}

func (m *MockOutboxRepository) Save(ctx context.Context, message ports.OutboxMessage) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockOutboxRepository) CountByStatus(ctx context.Context) (map[ports.OutboxStatus]int, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[ports.OutboxStatus]int)
	return counts, args.Error(1)
}

type MockOutboxUoW struct{ mock.Mock }

func (m *MockOutboxUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockOutboxUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockOutboxUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockOutboxUoW) OutboxRepository() ports.OutboxRepository {
	return m.Called().Get(0).(ports.OutboxRepository)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	return m.Called().Get(0).(commands.OutboxUoW)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Send(ctx context.Context, orderNumber string, n order.Notification) error {
	return m.Called(ctx, orderNumber, n).Error(0)
}

type MockInventory struct{ mock.Mock }

func (m *MockInventory) Restock(ctx context.Context, orderNumber string, mv order.StockMovement) error {
	return m.Called(ctx, orderNumber, mv).Error(0)
}

func (m *MockInventory) ReleaseReservation(ctx context.Context, orderNumber string, mv order.StockMovement) error {
	return m.Called(ctx, orderNumber, mv).Error(0)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) Product(ctx context.Context, productID string) (ports.Product, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(ports.Product), args.Error(1)
}

type stubResolver struct{}

func (stubResolver) Resolve(carrierID, trackingNumber, _ string) string {
	return "https://track.example/" + carrierID + "/" + trackingNumber
}

func (stubResolver) DisplayName(carrierID string) string { return carrierID }
