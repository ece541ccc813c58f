package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type OrderReader interface {
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
}

type OrderItemReader interface {
	FindByOrder(ctx context.Context, orderID uint64) ([]domain.LineItem, error)
}

type OrderCanceller interface {
	Cancel(ctx context.Context, order *domain.Order) error
}

type CancelOrderUseCase struct {
	orders     OrderReader
	items      OrderItemReader
	settlement OrderCanceller
	events     EventPublisher
	logger     *zap.Logger
	window     time.Duration
	now        func() time.Time
}

func NewCancelOrderUseCase(
	orders OrderReader,
	items OrderItemReader,
	settlement OrderCanceller,
	events EventPublisher,
	logger *zap.Logger,
	window time.Duration,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orders:     orders,
		items:      items,
		settlement: settlement,
		events:     events,
		logger:     logger,
		window:     window,
		now:        time.Now,
	}
}

func (uc *CancelOrderUseCase) Cancel(ctx context.Context, orderID, userID uint64) error {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	if order.UserID != userID {
		return apperrors.NewForbiddenError("order belongs to another user")
	}

	if order.Status != domain.OrderStatusPlaced {
		return apperrors.NewConflictError("only placed orders can be cancelled")
	}
	if !order.CancellableAt(uc.now(), uc.window) {
		return apperrors.NewConflictError("cancellation window has expired")
	}

	items, err := uc.items.FindByOrder(ctx, orderID)
	if err != nil {
		return err
	}
	order.Items = items

	if err := uc.settlement.Cancel(ctx, order); err != nil {
		return err
	}

	uc.events.Publish(ctx, dto.TopicOrderCancelled, eventKey(order.ID), dto.OrderEvent{
		EventID:    uuid.New().String(),
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(domain.OrderStatusCancelled),
		OccurredAt: time.Now().UTC(),
	})

	return nil
}
