package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type StatusOrderRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uint64, from, to domain.OrderStatus, markPaid bool) (bool, error)
}

// UpdateStatusUseCase is the seller path. It only walks the order forward;
// cancellation has its own windowed path and is not reachable from here.
type UpdateStatusUseCase struct {
	orders StatusOrderRepository
	events EventPublisher
	logger *zap.Logger
}

func NewUpdateStatusUseCase(orders StatusOrderRepository, events EventPublisher, logger *zap.Logger) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{
		orders: orders,
		events: events,
		logger: logger,
	}
}

func (uc *UpdateStatusUseCase) UpdateStatus(ctx context.Context, orderID uint64, target domain.OrderStatus) (*domain.Order, error) {
	if !target.Valid() {
		return nil, apperrors.NewValidationError("invalid status", apperrors.ValidationDetail{
			Field:   "status",
			Message: fmt.Sprintf("%q is not a known order status", target),
		})
	}

	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status.Terminal() {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("order is %s; no further transitions allowed", order.Status))
	}
	if !domain.CanTransition(order.Status, target) {
		return nil, apperrors.NewConflictError(
			fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
	}

	// Delivery settles payment: cash collected at the door.
	markPaid := target == domain.OrderStatusDelivered

	ok, err := uc.orders.UpdateStatus(ctx, orderID, order.Status, target, markPaid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewConflictError("order status changed concurrently")
	}

	order.Status = target
	if markPaid {
		order.IsPaid = true
	}

	uc.logger.Info("order status updated",
		zap.Uint64("orderId", orderID), zap.String("status", string(target)))

	uc.events.Publish(ctx, dto.TopicOrderStatusChanged, eventKey(orderID), dto.OrderEvent{
		EventID:    uuid.New().String(),
		OrderID:    orderID,
		UserID:     order.UserID,
		Status:     string(target),
		OccurredAt: time.Now().UTC(),
	})

	return order, nil
}
