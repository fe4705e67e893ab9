package commands_test

import (
	"testing"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewBulkSetStatusCommand(t *testing.T) {
	a, b := kernel.NewUUID(), kernel.NewUUID()

	cmd, err := commands.NewBulkSetStatusCommand([]kernel.UUID{a, b, a}, order.StatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{a, b}, cmd.OrderIDs())

	_, err = commands.NewBulkSetStatusCommand(nil, order.StatusProcessing)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewBulkSetStatusCommand(make([]kernel.UUID, commands.MaxBulkOrders+1), order.StatusProcessing)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	_, err = commands.NewBulkSetStatusCommand([]kernel.UUID{a}, order.StatusUnknown)
	require.Error(t, err)
}

func TestBulkSetStatusCommandHandler_Handle(t *testing.T) {
	pending := storedOrder(t, testDraft(t))
	cancelled := storedOrder(t, testDraft(t))
	missing := kernel.NewUUID()

	m := newMutationMocks()
	m.locker.On("TryAcquire", mock.Anything, mock.Anything).Return(m.lock, nil)
	m.lock.On("Release", mock.Anything).Return(nil)
	m.factory.On("Create").Return(m.uow)
	m.uow.On("Begin", mock.Anything).Return(nil)
	m.uow.On("Rollback", mock.Anything).Return(nil)
	m.uow.On("Commit", mock.Anything).Return(nil)
	m.uow.On("OrderRepository").Return(m.repo)
	m.repo.On("Get", mock.Anything, pending.ID()).Return(pending, nil).Once()
	m.repo.On("Get", mock.Anything, cancelled.ID()).Return(cancelled, nil).Once()
	m.repo.On("Get", mock.Anything, missing).Return(nil, errs.NewObjectNotFoundError("order", missing)).Once()
	m.repo.On("Update", mock.Anything, pending).Return(nil).Once()

	setStatus := commands.NewSetStatusCommandHandler(m.factory, m.locker)
	h := commands.NewBulkSetStatusCommandHandler(setStatus, 4)
	cmd, err := commands.NewBulkSetStatusCommand(
		[]kernel.UUID{missing, pending.ID(), cancelled.ID(), pending.ID()},
		order.StatusProcessing,
	)
	require.NoError(t, err)
	require.NoError(t, cancelled.SetStatus(order.StatusCancelled, false, testNow))

	result, err := h.Handle(t.Context(), cmd)

	require.NoError(t, err)
	assert.Equal(t, []kernel.UUID{pending.ID()}, result.Succeeded)
	require.Len(t, result.Failed, 2)
	assert.Equal(t, missing, result.Failed[0].OrderID)
	require.ErrorIs(t, result.Failed[0].Err, errs.ErrObjectNotFound)
	assert.Equal(t, cancelled.ID(), result.Failed[1].OrderID)
	require.ErrorIs(t, result.Failed[1].Err, order.ErrInvalidTransition)
	assert.Empty(t, pending.PendingEffects(), "bulk updates never notify")
	m.repo.AssertExpectations(t)
}
