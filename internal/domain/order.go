package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	// PaymentCOD settles on delivery; stock is committed at placement.
	PaymentCOD PaymentType = "COD"
	// PaymentOnline settles through the payment provider; stock is committed
	// only once the provider confirms.
	PaymentOnline PaymentType = "Online"
)

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "Placed"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

// Seller-driven transitions are forward-only. Cancelled is deliberately
// unreachable here: cancellation goes through the owner's time-windowed
// cancel path and nowhere else.
var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderStatusPlaced:     {OrderStatusProcessing: true},
	OrderStatusProcessing: {OrderStatusShipped: true},
	OrderStatusShipped:    {OrderStatusDelivered: true},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type LineItem struct {
	ProductID   uint64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type Order struct {
	ID          uint64
	UserID      uint64
	AddressID   uint64
	Items       []LineItem
	Amount      decimal.Decimal
	PaymentType PaymentType
	IsPaid      bool
	Status      OrderStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CancellableAt reports whether the owner may still cancel the order at the
// given instant. Only unpaid Placed orders inside the window qualify.
func (o Order) CancellableAt(now time.Time, window time.Duration) bool {
	if o.Status != OrderStatusPlaced || o.IsPaid {
		return false
	}
	return now.Sub(o.CreatedAt) < window
}
