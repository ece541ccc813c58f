package dto

import "time"

type OrderItemDTO struct {
	ProductID   uint64 `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
}

type OrderResponse struct {
	OrderID     uint64         `json:"orderId"`
	UserID      uint64         `json:"userId"`
	AddressID   uint64         `json:"addressId"`
	Items       []OrderItemDTO `json:"items"`
	Amount      string         `json:"amount"`
	PaymentType string         `json:"paymentType"`
	IsPaid      bool           `json:"isPaid"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type CancelOrderRequest struct {
	UserID uint64 `json:"userId"`
}

type ErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
