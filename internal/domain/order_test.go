package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_ForwardPath(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPlaced, OrderStatusProcessing))
	assert.True(t, CanTransition(OrderStatusProcessing, OrderStatusShipped))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusDelivered))
}

func TestCanTransition_NoSkipping(t *testing.T) {
	assert.False(t, CanTransition(OrderStatusPlaced, OrderStatusShipped))
	assert.False(t, CanTransition(OrderStatusPlaced, OrderStatusDelivered))
	assert.False(t, CanTransition(OrderStatusProcessing, OrderStatusDelivered))
}

func TestCanTransition_NoBackwards(t *testing.T) {
	assert.False(t, CanTransition(OrderStatusProcessing, OrderStatusPlaced))
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusProcessing))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusShipped))
}

func TestCanTransition_CancelledUnreachableFromSellerPath(t *testing.T) {
	for _, from := range []OrderStatus{
		OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
	} {
		assert.False(t, CanTransition(from, OrderStatusCancelled), "from %s", from)
	}
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	targets := []OrderStatus{
		OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled,
	}
	for _, to := range targets {
		assert.False(t, CanTransition(OrderStatusDelivered, to), "Delivered -> %s", to)
		assert.False(t, CanTransition(OrderStatusCancelled, to), "Cancelled -> %s", to)
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPlaced.Terminal())
	assert.False(t, OrderStatusProcessing.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, OrderStatusPlaced.Valid())
	assert.False(t, OrderStatus("Pending").Valid())
	assert.False(t, OrderStatus("").Valid())
}

func TestOrder_CancellableAt_InsideWindow(t *testing.T) {
	created := time.Now()
	order := Order{Status: OrderStatusPlaced, CreatedAt: created}

	assert.True(t, order.CancellableAt(created.Add(4*time.Minute+59*time.Second), 5*time.Minute))
}

func TestOrder_CancellableAt_WindowExpired(t *testing.T) {
	created := time.Now()
	order := Order{Status: OrderStatusPlaced, CreatedAt: created}

	assert.False(t, order.CancellableAt(created.Add(5*time.Minute+time.Second), 5*time.Minute))
}

func TestOrder_CancellableAt_ExactBoundaryExcluded(t *testing.T) {
	created := time.Now()
	order := Order{Status: OrderStatusPlaced, CreatedAt: created}

	assert.False(t, order.CancellableAt(created.Add(5*time.Minute), 5*time.Minute))
}

func TestOrder_CancellableAt_OnlyWhenPlaced(t *testing.T) {
	created := time.Now()
	for _, status := range []OrderStatus{
		OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
	} {
		order := Order{Status: status, CreatedAt: created}
		assert.False(t, order.CancellableAt(created.Add(time.Minute), 5*time.Minute), "status %s", status)
	}
}

func TestOrder_CancellableAt_PaidOrdersStay(t *testing.T) {
	created := time.Now()
	order := Order{Status: OrderStatusPlaced, IsPaid: true, CreatedAt: created}

	assert.False(t, order.CancellableAt(created.Add(time.Minute), 5*time.Minute))
}
