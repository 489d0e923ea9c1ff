//go:build unit

package order_test

import (
	"testing"

	"gatherly/internal/domain/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("derives total from items", func(t *testing.T) {
		o, err := order.New(userID, "usd", []order.Item{
			{EventID: uuid.New(), UnitAmountCents: 2500, Quantity: 2},
			{EventID: uuid.New(), UnitAmountCents: 1000, Quantity: 1},
		})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, o.ID())
		assert.Equal(t, order.StatusPending, o.Status())
		assert.Equal(t, int64(6000), o.TotalCents())
		assert.Equal(t, "usd", o.Currency())
		assert.Len(t, o.Items(), 2)
	})

	t.Run("free items are allowed", func(t *testing.T) {
		o, err := order.New(userID, "usd", []order.Item{
			{EventID: uuid.New(), UnitAmountCents: 0, Quantity: 3},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), o.TotalCents())
	})

	tests := []struct {
		name  string
		items []order.Item
		errIs error
	}{
		{name: "empty order", items: nil, errIs: order.ErrEmptyOrder},
		{
			name:  "zero quantity",
			items: []order.Item{{EventID: uuid.New(), UnitAmountCents: 100, Quantity: 0}},
			errIs: order.ErrInvalidQuantity,
		},
		{
			name:  "negative quantity",
			items: []order.Item{{EventID: uuid.New(), UnitAmountCents: 100, Quantity: -1}},
			errIs: order.ErrInvalidQuantity,
		},
		{
			name:  "negative unit amount",
			items: []order.Item{{EventID: uuid.New(), UnitAmountCents: -1, Quantity: 1}},
			errIs: order.ErrInvalidUnitAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := order.New(userID, "usd", tt.items)
			assert.ErrorIs(t, err, tt.errIs)
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, order.StatusPending.CanMarkPaid())
	assert.True(t, order.StatusPending.CanCancel())

	for _, settled := range []order.Status{order.StatusPaid, order.StatusCanceled, order.StatusRefunded} {
		assert.False(t, settled.CanMarkPaid(), "status %s", settled)
		assert.False(t, settled.CanCancel(), "status %s", settled)
	}
}
