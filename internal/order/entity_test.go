// AngelaMos | 2026
// entity_test.go

package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, true},
		{"pending to canceled", StatusPending, StatusCanceled, true},
		{"pending to delivered", StatusPending, StatusDelivered, false},
		{"pending to pending", StatusPending, StatusPending, false},
		{"processing to delivered", StatusProcessing, StatusDelivered, true},
		{"processing to canceled", StatusProcessing, StatusCanceled, true},
		{"processing to pending", StatusProcessing, StatusPending, false},
		{"delivered to canceled", StatusDelivered, StatusCanceled, false},
		{"delivered to processing", StatusDelivered, StatusProcessing, false},
		{"canceled to pending", StatusCanceled, StatusPending, false},
		{"canceled to delivered", StatusCanceled, StatusDelivered, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	require.False(t, StatusPending.IsTerminal())
	require.False(t, StatusProcessing.IsTerminal())
	require.True(t, StatusDelivered.IsTerminal())
	require.True(t, StatusCanceled.IsTerminal())
}

func TestOrderStatusValid(t *testing.T) {
	require.True(t, StatusPending.Valid())
	require.True(t, StatusCanceled.Valid())
	require.False(t, OrderStatus(-1).Valid())
	require.False(t, OrderStatus(4).Valid())
}

func TestOrderStatusString(t *testing.T) {
	require.Equal(t, "pending", StatusPending.String())
	require.Equal(t, "processing", StatusProcessing.String())
	require.Equal(t, "delivered", StatusDelivered.String())
	require.Equal(t, "canceled", StatusCanceled.String())
	require.Equal(t, "unknown", OrderStatus(9).String())
}

func TestOrderDetailLineTotal(t *testing.T) {
	detail := OrderDetail{
		Quantity: 3,
		Price:    decimal.RequireFromString("149.99"),
	}

	require.True(t, detail.LineTotal().Equal(decimal.RequireFromString("449.97")))
}
