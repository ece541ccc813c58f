package dto

import "time"

// Order lifecycle topics. Partition key is the order id so every event for
// one order keeps its ordering.
const (
	TopicOrderPlaced        = "order.placed"
	TopicOrderPaid          = "order.paid"
	TopicOrderPaymentFailed = "order.payment.failed"
	TopicOrderCancelled     = "order.cancelled"
	TopicOrderStatusChanged = "order.status.changed"
)

type OrderEvent struct {
	EventID    string    `json:"eventId"`
	OrderID    uint64    `json:"orderId"`
	UserID     uint64    `json:"userId"`
	Status     string    `json:"status"`
	Amount     string    `json:"amount,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
