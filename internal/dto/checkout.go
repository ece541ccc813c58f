package dto

import "time"

type CheckoutItem struct {
	ProductID uint64 `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type PlaceOrderRequest struct {
	UserID      uint64         `json:"userId"`
	AddressID   uint64         `json:"addressId"`
	PaymentType string         `json:"paymentType"`
	Items       []CheckoutItem `json:"items"`
}

type PlaceOrderResponse struct {
	TraceID    string    `json:"traceId"`
	OrderID    uint64    `json:"orderId"`
	Amount     string    `json:"amount"`
	Status     string    `json:"status"`
	PaymentURL string    `json:"paymentUrl,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

type PlaceOrderResult struct {
	OrderID    uint64
	Amount     string
	Status     string
	PaymentURL string
}
