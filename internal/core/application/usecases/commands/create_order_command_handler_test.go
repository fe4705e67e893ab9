package commands_test

import (
	"errors"
	"strings"
	"testing"

	"orderengine/internal/core/application/usecases/commands"
	"orderengine/internal/core/domain/model/kernel"
	"orderengine/internal/core/domain/model/order"
	"orderengine/internal/core/ports"
	"orderengine/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCreateOrderCommand(t *testing.T) {
	t.Run("generates order number", func(t *testing.T) {
		d := testDraft(t)
		d.Number = "  "

		cmd, err := commands.NewCreateOrderCommand(d)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(cmd.Draft().Number, "ORD-"))
		assert.Len(t, cmd.Draft().Number, len("ORD-")+26)
	})

	t.Run("keeps supplied number", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(testDraft(t))

		require.NoError(t, err)
		assert.Equal(t, "O-1001", cmd.Draft().Number)
	})

	t.Run("collects every problem", func(t *testing.T) {
		_, err := commands.NewCreateOrderCommand(order.Draft{Customer: order.Customer{Email: "nope"}})

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, order.ErrEmptyOrder)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("draft is copied", func(t *testing.T) {
		d := testDraft(t)
		cmd, _ := commands.NewCreateOrderCommand(d)
		d.Items[0].Quantity = 99

		assert.Equal(t, 2, cmd.Draft().Items[0].Quantity)
	})
}

func TestCreateOrderCommandHandler_Handle(t *testing.T) {
	tests := []struct {
		name        string
		addErr      error
		commitErr   error
		expectedErr error
	}{
		{name: "success"},
		{name: "duplicate number", addErr: ports.ErrOrderAlreadyExists, expectedErr: ports.ErrOrderAlreadyExists},
		{name: "commit fails", commitErr: errors.New("commit error"), expectedErr: errors.New("commit error")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := new(MockOrderUoWFactory)
			uow := new(MockOrderUoW)
			repo := new(MockOrderRepository)

			factory.On("Create").Return(uow).Once()
			uow.On("Begin", mock.Anything).Return(nil).Once()
			uow.On("Rollback", mock.Anything).Return(nil).Once()
			uow.On("OrderRepository").Return(repo).Once()
			repo.On("Add", mock.Anything, mock.MatchedBy(func(o *order.Order) bool {
				return o.TaxRate() == 0.2 && o.Status() == order.StatusPending
			})).Return(tt.addErr).Once()
			if tt.addErr == nil {
				uow.On("Commit", mock.Anything).Return(tt.commitErr).Once()
			}

			cmd, err := commands.NewCreateOrderCommand(testDraft(t))
			require.NoError(t, err)

			o, err := commands.NewCreateOrderCommandHandler(factory, 0.2).Handle(t.Context(), cmd)

			if tt.expectedErr != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedErr.Error(), err.Error())
				assert.Nil(t, o)
			} else {
				require.NoError(t, err)
				assert.Equal(t, order.PaymentPending, o.PaymentStatus())
				require.Len(t, o.Timeline(), 1)
			}
			factory.AssertExpectations(t)
			uow.AssertExpectations(t)
			repo.AssertExpectations(t)
		})
	}
}

func TestCreateOrderCommandHandler_Handle_InvalidDraft(t *testing.T) {
	d := testDraft(t)
	d.Discount = 1000
	cmd, err := commands.NewCreateOrderCommand(d)
	require.NoError(t, err)
	factory := new(MockOrderUoWFactory)

	_, err = commands.NewCreateOrderCommandHandler(factory, 0.1).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	factory.AssertNotCalled(t, "Create")
}
