package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type mockStatusOrders struct {
	order      *domain.Order
	findErr    error
	updateOK   bool
	lastFrom   domain.OrderStatus
	lastTo     domain.OrderStatus
	lastPaid   bool
	updateCall int
}

func (m *mockStatusOrders) FindByID(context.Context, uint64) (*domain.Order, error) {
	return m.order, m.findErr
}

func (m *mockStatusOrders) UpdateStatus(_ context.Context, _ uint64, from, to domain.OrderStatus, markPaid bool) (bool, error) {
	m.updateCall++
	m.lastFrom = from
	m.lastTo = to
	m.lastPaid = markPaid
	return m.updateOK, nil
}

func orderInStatus(status domain.OrderStatus) *domain.Order {
	return &domain.Order{
		ID:          42,
		UserID:      10,
		PaymentType: domain.PaymentCOD,
		Status:      status,
	}
}

func newTestUpdateStatusUseCase(orders *mockStatusOrders, events *capturingPublisher) *UpdateStatusUseCase {
	return NewUpdateStatusUseCase(orders, events, zap.NewNop())
}

func TestUpdateStatus_ForwardSteps(t *testing.T) {
	steps := []struct {
		from domain.OrderStatus
		to   domain.OrderStatus
	}{
		{domain.OrderStatusPlaced, domain.OrderStatusProcessing},
		{domain.OrderStatusProcessing, domain.OrderStatusShipped},
		{domain.OrderStatusShipped, domain.OrderStatusDelivered},
	}

	for _, step := range steps {
		t.Run(string(step.from)+"_to_"+string(step.to), func(t *testing.T) {
			orders := &mockStatusOrders{order: orderInStatus(step.from), updateOK: true}
			events := &capturingPublisher{}

			uc := newTestUpdateStatusUseCase(orders, events)

			updated, err := uc.UpdateStatus(context.Background(), 42, step.to)

			require.NoError(t, err)
			assert.Equal(t, step.to, updated.Status)
			assert.Equal(t, step.from, orders.lastFrom, "update must be conditional on the observed status")
			assert.Equal(t, []string{dto.TopicOrderStatusChanged}, events.topics)
		})
	}
}

func TestUpdateStatus_DeliveredSettlesCOD(t *testing.T) {
	orders := &mockStatusOrders{order: orderInStatus(domain.OrderStatusShipped), updateOK: true}

	uc := newTestUpdateStatusUseCase(orders, &capturingPublisher{})

	updated, err := uc.UpdateStatus(context.Background(), 42, domain.OrderStatusDelivered)

	require.NoError(t, err)
	assert.True(t, orders.lastPaid, "delivery collects the cash")
	assert.True(t, updated.IsPaid)
}

func TestUpdateStatus_NonDeliveryLeavesPaymentAlone(t *testing.T) {
	orders := &mockStatusOrders{order: orderInStatus(domain.OrderStatusPlaced), updateOK: true}

	uc := newTestUpdateStatusUseCase(orders, &capturingPublisher{})

	_, err := uc.UpdateStatus(context.Background(), 42, domain.OrderStatusProcessing)

	require.NoError(t, err)
	assert.False(t, orders.lastPaid)
}

func TestUpdateStatus_RejectsSkipsAndReversals(t *testing.T) {
	tests := []struct {
		name string
		from domain.OrderStatus
		to   domain.OrderStatus
	}{
		{"skip to shipped", domain.OrderStatusPlaced, domain.OrderStatusShipped},
		{"skip to delivered", domain.OrderStatusProcessing, domain.OrderStatusDelivered},
		{"backwards", domain.OrderStatusShipped, domain.OrderStatusProcessing},
		{"cancel via seller path", domain.OrderStatusPlaced, domain.OrderStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &mockStatusOrders{order: orderInStatus(tt.from), updateOK: true}

			uc := newTestUpdateStatusUseCase(orders, &capturingPublisher{})

			_, err := uc.UpdateStatus(context.Background(), 42, tt.to)

			_, ok := apperrors.IsConflictError(err)
			require.True(t, ok, "expected a conflict, got %v", err)
			assert.Equal(t, 0, orders.updateCall)
		})
	}
}

func TestUpdateStatus_TerminalOrders(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderStatusDelivered, domain.OrderStatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			orders := &mockStatusOrders{order: orderInStatus(status)}

			uc := newTestUpdateStatusUseCase(orders, &capturingPublisher{})

			_, err := uc.UpdateStatus(context.Background(), 42, domain.OrderStatusProcessing)

			_, ok := apperrors.IsConflictError(err)
			assert.True(t, ok)
		})
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	orders := &mockStatusOrders{order: orderInStatus(domain.OrderStatusPlaced)}

	uc := newTestUpdateStatusUseCase(orders, &capturingPublisher{})

	_, err := uc.UpdateStatus(context.Background(), 42, domain.OrderStatus("Refunded"))

	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)
}

func TestUpdateStatus_ConcurrentChange(t *testing.T) {
	orders := &mockStatusOrders{order: orderInStatus(domain.OrderStatusPlaced), updateOK: false}
	events := &capturingPublisher{}

	uc := newTestUpdateStatusUseCase(orders, events)

	_, err := uc.UpdateStatus(context.Background(), 42, domain.OrderStatusProcessing)

	_, ok := apperrors.IsConflictError(err)
	require.True(t, ok)
	assert.Empty(t, events.topics)
}
