package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/payment"
)

type SettlementService interface {
	ConfirmPayment(ctx context.Context, orderID uint64) (*domain.Order, bool, error)
	FailPayment(ctx context.Context, orderID uint64) error
}

type CartClearer interface {
	Clear(ctx context.Context, userID uint64) error
}

// PaymentWebhookUseCase maps verified provider events onto settlement
// transitions. The provider retries anything that is not acknowledged, so
// permanent conditions (missing order, duplicate delivery, lost stock race)
// are logged and acknowledged rather than surfaced.
type PaymentWebhookUseCase struct {
	settlement SettlementService
	carts      CartClearer
	events     EventPublisher
	logger     *zap.Logger
}

func NewPaymentWebhookUseCase(
	settlement SettlementService,
	carts CartClearer,
	events EventPublisher,
	logger *zap.Logger,
) *PaymentWebhookUseCase {
	return &PaymentWebhookUseCase{
		settlement: settlement,
		carts:      carts,
		events:     events,
		logger:     logger,
	}
}

func (uc *PaymentWebhookUseCase) HandleEvent(ctx context.Context, event payment.Event) error {
	switch event.Event {
	case payment.EventSucceeded:
		return uc.handleSucceeded(ctx, event)
	case payment.EventFailed:
		return uc.handleFailed(ctx, event)
	default:
		return apperrors.NewValidationError("unknown payment event", apperrors.ValidationDetail{
			Field:   "event",
			Message: `event must be "succeeded" or "failed"`,
		})
	}
}

func (uc *PaymentWebhookUseCase) handleSucceeded(ctx context.Context, event payment.Event) error {
	order, applied, err := uc.settlement.ConfirmPayment(ctx, event.OrderID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			uc.logger.Warn("payment confirmation for unknown order",
				zap.Uint64("orderId", event.OrderID))
			return nil
		}
		if oos, ok := apperrors.IsOutOfStockError(err); ok {
			uc.logger.Error("confirmed payment lost the stock race, order voided",
				zap.Uint64("orderId", event.OrderID),
				zap.Uint64("productId", oos.ProductID),
				zap.Int("requested", oos.Requested),
				zap.Int("available", oos.Available))
			return nil
		}
		return err
	}

	if !applied {
		return nil
	}

	// Best effort; an expired snapshot clears itself.
	if err := uc.carts.Clear(ctx, order.UserID); err != nil {
		uc.logger.Warn("clearing cart snapshot failed",
			zap.Uint64("userId", order.UserID), zap.Error(err))
	}

	uc.events.Publish(ctx, dto.TopicOrderPaid, eventKey(order.ID), dto.OrderEvent{
		EventID:    uuid.New().String(),
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		Amount:     order.Amount.StringFixed(2),
		OccurredAt: time.Now().UTC(),
	})

	return nil
}

func (uc *PaymentWebhookUseCase) handleFailed(ctx context.Context, event payment.Event) error {
	err := uc.settlement.FailPayment(ctx, event.OrderID)
	if err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			uc.logger.Warn("payment failure for unknown order",
				zap.Uint64("orderId", event.OrderID))
			return nil
		}
		if _, ok := apperrors.IsConflictError(err); ok {
			uc.logger.Warn("payment failure ignored",
				zap.Uint64("orderId", event.OrderID), zap.Error(err))
			return nil
		}
		return err
	}

	uc.events.Publish(ctx, dto.TopicOrderPaymentFailed, eventKey(event.OrderID), dto.OrderEvent{
		EventID:    uuid.New().String(),
		OrderID:    event.OrderID,
		UserID:     event.UserID,
		OccurredAt: time.Now().UTC(),
	})

	return nil
}
