package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
)

type mockAddresses struct {
	FindFunc func(ctx context.Context, id, userID uint64) (*domain.Address, error)
}

func (m *mockAddresses) FindByIDAndUser(ctx context.Context, id, userID uint64) (*domain.Address, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, id, userID)
	}
	return &domain.Address{ID: id, UserID: userID}, nil
}

type mockCheckout struct {
	PlaceOrderFunc func(ctx context.Context, userID, addressID uint64, items []dto.CheckoutItem, paymentType domain.PaymentType) (*domain.Order, error)
	calls          int
	lastItems      []dto.CheckoutItem
}

func (m *mockCheckout) PlaceOrder(ctx context.Context, userID, addressID uint64, items []dto.CheckoutItem, paymentType domain.PaymentType) (*domain.Order, error) {
	m.calls++
	m.lastItems = items
	return m.PlaceOrderFunc(ctx, userID, addressID, items, paymentType)
}

type mockPayment struct {
	CreateSessionFunc func(ctx context.Context, orderID uint64, amount decimal.Decimal, items []domain.LineItem) (string, error)
	calls             int
}

func (m *mockPayment) CreateSession(ctx context.Context, orderID uint64, amount decimal.Decimal, items []domain.LineItem) (string, error) {
	m.calls++
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, orderID, amount, items)
	}
	return "https://pay.example/session/abc", nil
}

type mockRemover struct {
	removed []uint64
}

func (m *mockRemover) FailPayment(_ context.Context, orderID uint64) error {
	m.removed = append(m.removed, orderID)
	return nil
}

type capturingPublisher struct {
	topics   []string
	payloads []any
}

func (p *capturingPublisher) Publish(_ context.Context, topic string, _ string, payload any) {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
}

func placedOrder(id uint64, paymentType domain.PaymentType) *domain.Order {
	return &domain.Order{
		ID:          id,
		UserID:      10,
		Amount:      decimal.NewFromInt(510),
		PaymentType: paymentType,
		Status:      domain.OrderStatusPlaced,
		CreatedAt:   time.Now(),
	}
}

func validRequest(paymentType string) dto.PlaceOrderRequest {
	return dto.PlaceOrderRequest{
		UserID:      10,
		AddressID:   3,
		PaymentType: paymentType,
		Items: []dto.CheckoutItem{
			{ProductID: 7, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	}
}

func newTestPlaceOrderUseCase(
	addresses *mockAddresses,
	checkout *mockCheckout,
	payment *mockPayment,
	remover *mockRemover,
	events *capturingPublisher,
) *PlaceOrderUseCase {
	return NewPlaceOrderUseCase(addresses, checkout, payment, remover, events, zap.NewNop(), 3)
}

func TestPlaceOrder_CODHappyPath(t *testing.T) {
	checkout := &mockCheckout{
		PlaceOrderFunc: func(_ context.Context, _, _ uint64, _ []dto.CheckoutItem, pt domain.PaymentType) (*domain.Order, error) {
			require.Equal(t, domain.PaymentCOD, pt)
			return placedOrder(42, pt), nil
		},
	}
	payment := &mockPayment{}
	events := &capturingPublisher{}

	uc := newTestPlaceOrderUseCase(&mockAddresses{}, checkout, payment, &mockRemover{}, events)

	result, err := uc.PlaceOrder(context.Background(), validRequest("COD"))

	require.NoError(t, err)
	assert.Equal(t, uint64(42), result.OrderID)
	assert.Equal(t, "510.00", result.Amount)
	assert.Equal(t, "Placed", result.Status)
	assert.Empty(t, result.PaymentURL, "COD has no payment redirect")
	assert.Equal(t, 0, payment.calls)
	assert.Equal(t, []string{dto.TopicOrderPlaced}, events.topics)
}

func TestPlaceOrder_OnlineReturnsRedirect(t *testing.T) {
	checkout := &mockCheckout{
		PlaceOrderFunc: func(_ context.Context, _, _ uint64, _ []dto.CheckoutItem, pt domain.PaymentType) (*domain.Order, error) {
			return placedOrder(42, pt), nil
		},
	}
	payment := &mockPayment{}

	uc := newTestPlaceOrderUseCase(&mockAddresses{}, checkout, payment, &mockRemover{}, &capturingPublisher{})

	result, err := uc.PlaceOrder(context.Background(), validRequest("Online"))

	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/session/abc", result.PaymentURL)
	assert.Equal(t, 1, payment.calls)
}

func TestPlaceOrder_ItemsSortedByProduct(t *testing.T) {
	checkout := &mockCheckout{
		PlaceOrderFunc: func(_ context.Context, _, _ uint64, _ []dto.CheckoutItem, pt domain.PaymentType) (*domain.Order, error) {
			return placedOrder(42, pt), nil
		},
	}

	uc := newTestPlaceOrderUseCase(&mockAddresses{}, checkout, &mockPayment{}, &mockRemover{}, &capturingPublisher{})

	_, err := uc.PlaceOrder(context.Background(), validRequest("COD"))

	require.NoError(t, err)
	require.Len(t, checkout.lastItems, 2)
	assert.Equal(t, uint64(2), checkout.lastItems[0].ProductID)
	assert.Equal(t, uint64(7), checkout.lastItems[1].ProductID)
}

func TestPlaceOrder_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*dto.PlaceOrderRequest)
		field  string
	}{
		{
			name:   "empty cart",
			mutate: func(r *dto.PlaceOrderRequest) { r.Items = nil },
			field:  "items",
		},
		{
			name: "zero quantity",
			mutate: func(r *dto.PlaceOrderRequest) {
				r.Items = []dto.CheckoutItem{{ProductID: 7, Quantity: 0}}
			},
			field: "items[0].quantity",
		},
		{
			name: "duplicate product",
			mutate: func(r *dto.PlaceOrderRequest) {
				r.Items = []dto.CheckoutItem{
					{ProductID: 7, Quantity: 1},
					{ProductID: 7, Quantity: 2},
				}
			},
			field: "items[1].productId",
		},
		{
			name:   "unknown payment type",
			mutate: func(r *dto.PlaceOrderRequest) { r.PaymentType = "Crypto" },
			field:  "paymentType",
		},
		{
			name:   "missing user",
			mutate: func(r *dto.PlaceOrderRequest) { r.UserID = 0 },
			field:  "userId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkout := &mockCheckout{}
			uc := newTestPlaceOrderUseCase(&mockAddresses{}, checkout, &mockPayment{}, &mockRemover{}, &capturingPublisher{})

			req := validRequest("COD")
			tt.mutate(&req)

			_, err := uc.PlaceOrder(context.Background(), req)

			verr, ok := apperrors.IsValidationError(err)
			require.True(t, ok, "expected a validation error, got %v", err)

			fields := make([]string, 0, len(verr.Details))
			for _, d := range verr.Details {
				fields = append(fields, d.Field)
			}
			assert.Contains(t, fields, tt.field)
			assert.Equal(t, 0, checkout.calls, "invalid requests must not reach checkout")
		})
	}
}

func TestPlaceOrder_AddressOwnership(t *testing.T) {
	addresses := &mockAddresses{
		FindFunc: func(context.Context, uint64, uint64) (*domain.Address, error) {
			return nil, apperrors.NewNotFoundError("address with id 3 not found")
		},
	}
	checkout := &mockCheckout{}

	uc := newTestPlaceOrderUseCase(addresses, checkout, &mockPayment{}, &mockRemover{}, &capturingPublisher{})

	_, err := uc.PlaceOrder(context.Background(), validRequest("COD"))

	_, ok := apperrors.IsNotFoundError(err)
	require.True(t, ok)
	assert.Equal(t, 0, checkout.calls)
}

func TestPlaceOrder_SessionFailureRemovesOrder(t *testing.T) {
	checkout := &mockCheckout{
		PlaceOrderFunc: func(_ context.Context, _, _ uint64, _ []dto.CheckoutItem, pt domain.PaymentType) (*domain.Order, error) {
			return placedOrder(42, pt), nil
		},
	}
	payment := &mockPayment{
		CreateSessionFunc: func(context.Context, uint64, decimal.Decimal, []domain.LineItem) (string, error) {
			return "", apperrors.NewExternalError("payment provider unreachable", nil, true)
		},
	}
	remover := &mockRemover{}
	events := &capturingPublisher{}

	uc := newTestPlaceOrderUseCase(&mockAddresses{}, checkout, payment, remover, events)

	_, err := uc.PlaceOrder(context.Background(), validRequest("Online"))

	_, ok := apperrors.IsExternalError(err)
	require.True(t, ok)
	assert.Equal(t, []uint64{42}, remover.removed, "session-less order must be removed")
	assert.Empty(t, events.topics, "no event for an order that never happened")
}

func TestPlaceOrder_RetriesDeadlocks(t *testing.T) {
	attempts := 0
	checkout := &mockCheckout{
		PlaceOrderFunc: func(_ context.Context, _, _ uint64, _ []dto.CheckoutItem, pt domain.PaymentType) (*domain.Order, error) {
			attempts++
			if attempts < 3 {
				return nil, &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
			}
			return placedOrder(42, pt), nil
		},
	}

	uc := newTestPlaceOrderUseCase(&mockAddresses{}, checkout, &mockPayment{}, &mockRemover{}, &capturingPublisher{})

	result, err := uc.PlaceOrder(context.Background(), validRequest("COD"))

	require.NoError(t, err)
	assert.Equal(t, uint64(42), result.OrderID)
	assert.Equal(t, 3, attempts)
}

func TestPlaceOrder_GivesUpAfterMaxRetries(t *testing.T) {
	checkout := &mockCheckout{
		PlaceOrderFunc: func(context.Context, uint64, uint64, []dto.CheckoutItem, domain.PaymentType) (*domain.Order, error) {
			return nil, &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
		},
	}

	uc := newTestPlaceOrderUseCase(&mockAddresses{}, checkout, &mockPayment{}, &mockRemover{}, &capturingPublisher{})

	_, err := uc.PlaceOrder(context.Background(), validRequest("COD"))

	_, ok := apperrors.IsDeadlockError(err)
	assert.True(t, ok)
	assert.Equal(t, 3, checkout.calls)
}

func TestPlaceOrder_OutOfStockIsNotRetried(t *testing.T) {
	checkout := &mockCheckout{
		PlaceOrderFunc: func(context.Context, uint64, uint64, []dto.CheckoutItem, domain.PaymentType) (*domain.Order, error) {
			return nil, apperrors.NewOutOfStockError(7, "Widget", 2, 1)
		},
	}

	uc := newTestPlaceOrderUseCase(&mockAddresses{}, checkout, &mockPayment{}, &mockRemover{}, &capturingPublisher{})

	_, err := uc.PlaceOrder(context.Background(), validRequest("COD"))

	_, ok := apperrors.IsOutOfStockError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, checkout.calls)
}
