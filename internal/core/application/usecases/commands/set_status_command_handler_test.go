package commands_test

import (
	"errors"
	"testing"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSetStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, testDraft(t))
	m := newMutationMocks()
	m.expectLoad(o)
	m.expectSave(o)

	cmd, err := commands.NewSetStatusCommand(o.ID(), order.StatusProcessing, true)
	require.NoError(t, err)

	h := commands.NewSetStatusCommandHandler(m.factory, m.locker)
	got, err := h.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StatusProcessing, got.Status())
	require.Len(t, got.PendingEffects(), 1)
	assert.Equal(t, order.TemplateOrderConfirmation, got.PendingEffects()[0].Notification.TemplateID)
	m.assert(t)
}

func TestSetStatusCommandHandler_Handle_InvalidTransition(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, testDraft(t))
	m := newMutationMocks()
	m.expectLoad(o)

	cmd, _ := commands.NewSetStatusCommand(o.ID(), order.StatusDelivered, false)
	h := commands.NewSetStatusCommandHandler(m.factory, m.locker)
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, order.ErrInvalidTransition)
	m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	m.uow.AssertNotCalled(t, "Commit", mock.Anything)
	m.assert(t)
}

func TestSetStatusCommandHandler_Handle_LockBusy(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	m := newMutationMocks()
	m.locker.On("TryAcquire", mock.Anything, id).
		Return(nil, errs.NewConcurrentModificationError("order", id)).Once()

	cmd, _ := commands.NewSetStatusCommand(id, order.StatusProcessing, false)
	h := commands.NewSetStatusCommandHandler(m.factory, m.locker)
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	m.factory.AssertNotCalled(t, "Create")
	m.locker.AssertExpectations(t)
}

func TestSetStatusCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	m := newMutationMocks()
	mock.InOrder(
		m.locker.On("TryAcquire", mock.Anything, id).Return(m.lock, nil).Once(),
		m.factory.On("Create").Return(m.uow).Once(),
		m.uow.On("Begin", mock.Anything).Return(nil).Once(),
		m.uow.On("OrderRepository").Return(m.repo).Once(),
		m.repo.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once(),
		m.uow.On("Rollback", mock.Anything).Return(nil).Once(),
		m.lock.On("Release", mock.Anything).Return(nil).Once(),
	)

	cmd, _ := commands.NewSetStatusCommand(id, order.StatusProcessing, false)
	h := commands.NewSetStatusCommandHandler(m.factory, m.locker)
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	m.assert(t)
}

func TestSetStatusCommandHandler_Handle_VersionConflict(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, testDraft(t))
	m := newMutationMocks()
	m.expectLoad(o)
	m.repo.On("Update", mock.Anything, o).Return(errs.NewConcurrentModificationError("order", o.ID())).Once()

	cmd, _ := commands.NewSetStatusCommand(o.ID(), order.StatusCancelled, false)
	h := commands.NewSetStatusCommandHandler(m.factory, m.locker)
	_, err := h.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConcurrentModification)
	m.uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestSetStatusCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	m := newMutationMocks()
	m.locker.On("TryAcquire", mock.Anything, id).Return(m.lock, nil).Once()
	m.lock.On("Release", mock.Anything).Return(nil).Once()
	m.factory.On("Create").Return(m.uow).Once()
	m.uow.On("Begin", mock.Anything).Return(errors.New("begin error")).Once()

	cmd, _ := commands.NewSetStatusCommand(id, order.StatusProcessing, false)
	h := commands.NewSetStatusCommandHandler(m.factory, m.locker)
	_, err := h.Handle(ctx, cmd)

	require.EqualError(t, err, "begin error")
	m.lock.AssertExpectations(t)
}

func TestSetStatusCommandHandler_Handle_NotConstructed(t *testing.T) {
	h := commands.NewSetStatusCommandHandler(new(MockOrderUoWFactory), new(MockLocker))

	_, err := h.Handle(t.Context(), commands.SetStatusCommand{})

	require.ErrorIs(t, err, commands.ErrSetStatusCommandIsNotConstructed)
}

func TestNewSetStatusCommand(t *testing.T) {
	id := kernel.NewUUID()

	cmd, err := commands.NewSetStatusCommand(id, order.StatusShipped, true)
	require.NoError(t, err)
	assert.Equal(t, id, cmd.OrderID())
	assert.Equal(t, order.StatusShipped, cmd.Status())
	assert.True(t, cmd.Notify())

	_, err = commands.NewSetStatusCommand(kernel.UUID{}, order.StatusUnknown, false)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
