package usecase

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type CheckoutService interface {
	PlaceOrder(ctx context.Context, userID, addressID uint64, requested []dto.CheckoutItem, paymentType domain.PaymentType) (*domain.Order, error)
}

type AddressRepository interface {
	FindByIDAndUser(ctx context.Context, id, userID uint64) (*domain.Address, error)
}

type PaymentBridge interface {
	CreateSession(ctx context.Context, orderID uint64, amount decimal.Decimal, items []domain.LineItem) (string, error)
}

type OrderRemover interface {
	FailPayment(ctx context.Context, orderID uint64) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, payload any)
}

type PlaceOrderUseCase struct {
	addresses        AddressRepository
	checkout         CheckoutService
	payment          PaymentBridge
	remover          OrderRemover
	events           EventPublisher
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewPlaceOrderUseCase(
	addresses AddressRepository,
	checkout CheckoutService,
	payment PaymentBridge,
	remover OrderRemover,
	events EventPublisher,
	logger *zap.Logger,
	maxRetryAttempts int,
) *PlaceOrderUseCase {
	return &PlaceOrderUseCase{
		addresses:        addresses,
		checkout:         checkout,
		payment:          payment,
		remover:          remover,
		events:           events,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *PlaceOrderUseCase) PlaceOrder(ctx context.Context, req dto.PlaceOrderRequest) (*dto.PlaceOrderResult, error) {
	uc.logger.Info("place order started",
		zap.Uint64("userId", req.UserID),
		zap.Uint64("addressId", req.AddressID),
		zap.String("paymentType", req.PaymentType),
		zap.Int("itemCount", len(req.Items)))

	paymentType, err := validatePlaceOrderRequest(req)
	if err != nil {
		return nil, err
	}

	// Pre-validations stay outside the transaction.
	if _, err := uc.addresses.FindByIDAndUser(ctx, req.AddressID, req.UserID); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewNotFoundError("address not found for user")
		}
		return nil, err
	}

	// Deterministic lock order across concurrent checkouts.
	items := make([]dto.CheckoutItem, len(req.Items))
	copy(items, req.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

	order, err := uc.placeWithRetry(ctx, req.UserID, req.AddressID, items, paymentType)
	if err != nil {
		return nil, err
	}

	result := &dto.PlaceOrderResult{
		OrderID: order.ID,
		Amount:  order.Amount.StringFixed(2),
		Status:  string(order.Status),
	}

	if paymentType == domain.PaymentOnline {
		redirectURL, err := uc.payment.CreateSession(ctx, order.ID, order.Amount, order.Items)
		if err != nil {
			// Without a session the pending order would strand forever; it
			// has no stock committed, so removing it is safe.
			if rmErr := uc.remover.FailPayment(ctx, order.ID); rmErr != nil {
				uc.logger.Error("removing session-less order failed",
					zap.Uint64("orderId", order.ID), zap.Error(rmErr))
			}
			return nil, err
		}
		result.PaymentURL = redirectURL
	}

	uc.events.Publish(ctx, dto.TopicOrderPlaced, eventKey(order.ID), dto.OrderEvent{
		EventID:    uuid.New().String(),
		OrderID:    order.ID,
		UserID:     order.UserID,
		Status:     string(order.Status),
		Amount:     result.Amount,
		OccurredAt: time.Now().UTC(),
	})

	return result, nil
}

func (uc *PlaceOrderUseCase) placeWithRetry(
	ctx context.Context,
	userID, addressID uint64,
	items []dto.CheckoutItem,
	paymentType domain.PaymentType,
) (*domain.Order, error) {
	maxAttempts := uc.maxRetryAttempts
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		order, err := uc.checkout.PlaceOrder(ctx, userID, addressID, items, paymentType)
		if err == nil {
			return order, nil
		}

		if isDeadlockError(err) {
			if attempt < maxAttempts {
				base := backoffs[(attempt-1)%len(backoffs)]
				jitter := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
				time.Sleep(jitter)
				uc.logger.Warn("deadlock detected, retrying",
					zap.Int("attempt", attempt), zap.Int("maxAttempts", maxAttempts))
				continue
			}
			break
		}

		return nil, err
	}

	return nil, apperrors.NewDeadlockError("max retries exceeded")
}

func validatePlaceOrderRequest(req dto.PlaceOrderRequest) (domain.PaymentType, error) {
	var details []apperrors.ValidationDetail

	if req.UserID == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "userId",
			Message: "userId is required",
		})
	}
	if req.AddressID == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "addressId",
			Message: "addressId is required",
		})
	}
	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "items",
			Message: "cart must not be empty",
		})
	}

	seen := make(map[uint64]bool, len(req.Items))
	for idx, item := range req.Items {
		if item.ProductID == 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fieldAt("items", idx, "productId"),
				Message: "productId must be a positive integer",
			})
		}
		if seen[item.ProductID] {
			details = append(details, apperrors.ValidationDetail{
				Field:   fieldAt("items", idx, "productId"),
				Message: "productId must not be duplicated",
			})
		}
		seen[item.ProductID] = true

		if item.Quantity < 1 {
			details = append(details, apperrors.ValidationDetail{
				Field:   fieldAt("items", idx, "quantity"),
				Message: "quantity must be at least 1",
			})
		}
	}

	paymentType := domain.PaymentType(req.PaymentType)
	if paymentType != domain.PaymentCOD && paymentType != domain.PaymentOnline {
		details = append(details, apperrors.ValidationDetail{
			Field:   "paymentType",
			Message: `paymentType must be "COD" or "Online"`,
		})
	}

	if len(details) > 0 {
		return "", apperrors.NewValidationError("validation failed", details...)
	}

	return paymentType, nil
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
