package commands_test

import (
	"testing"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewAddItemCommand(t *testing.T) {
	_, err := commands.NewAddItemCommand(kernel.NewUUID(), " ", 0)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestAddItemCommandHandler_Handle(t *testing.T) {
	t.Run("prices from catalog", func(t *testing.T) {
		o := storedOrder(t, testDraft(t))
		m := newMutationMocks()
		m.expectLoad(o)
		m.expectSave(o)
		catalog := new(MockCatalog)
		catalog.On("Product", mock.Anything, "C").
			Return(ports.Product{ID: "C", Name: "Gizmo", SKU: "SKU-C", Price: 5, Active: true}, nil).Once()

		cmd, err := commands.NewAddItemCommand(o.ID(), "C", 3)
		require.NoError(t, err)
		got, err := commands.NewAddItemCommandHandler(m.factory, m.locker, catalog).Handle(t.Context(), cmd)

		require.NoError(t, err)
		require.Len(t, got.Items(), 3)
		assert.InDelta(t, 115, got.Totals().Subtotal, 1e-9)
		m.assert(t)
		catalog.AssertExpectations(t)
	})

	t.Run("inactive product never takes the lock", func(t *testing.T) {
		m := newMutationMocks()
		catalog := new(MockCatalog)
		catalog.On("Product", mock.Anything, "C").Return(ports.Product{ID: "C", Price: 5}, nil).Once()

		cmd, _ := commands.NewAddItemCommand(kernel.NewUUID(), "C", 1)
		_, err := commands.NewAddItemCommandHandler(m.factory, m.locker, catalog).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		m.locker.AssertNotCalled(t, "TryAcquire", mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		m := newMutationMocks()
		catalog := new(MockCatalog)
		catalog.On("Product", mock.Anything, "Z").
			Return(ports.Product{}, errs.NewObjectNotFoundError("product", "Z")).Once()

		cmd, _ := commands.NewAddItemCommand(kernel.NewUUID(), "Z", 1)
		_, err := commands.NewAddItemCommandHandler(m.factory, m.locker, catalog).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
