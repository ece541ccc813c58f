package usecase

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

type OrderLister interface {
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error)
}

type OrderQueryUseCase struct {
	orders OrderLister
	items  OrderItemReader
}

func NewOrderQueryUseCase(orders OrderLister, items OrderItemReader) *OrderQueryUseCase {
	return &OrderQueryUseCase{orders: orders, items: items}
}

func (uc *OrderQueryUseCase) GetOrder(ctx context.Context, orderID uint64) (*dto.OrderResponse, error) {
	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := uc.items.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	resp := toOrderResponse(order)
	return &resp, nil
}

func (uc *OrderQueryUseCase) ListUserOrders(ctx context.Context, userID uint64) ([]dto.OrderResponse, error) {
	orders, err := uc.orders.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out, nil
}

func toOrderResponse(order *domain.Order) dto.OrderResponse {
	items := make([]dto.OrderItemDTO, len(order.Items))
	for i, it := range order.Items {
		items[i] = dto.OrderItemDTO{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.StringFixed(2),
		}
	}

	return dto.OrderResponse{
		OrderID:     order.ID,
		UserID:      order.UserID,
		AddressID:   order.AddressID,
		Items:       items,
		Amount:      order.Amount.StringFixed(2),
		PaymentType: string(order.PaymentType),
		IsPaid:      order.IsPaid,
		Status:      string(order.Status),
		CreatedAt:   order.CreatedAt,
	}
}
