package dto

type CartItemDTO struct {
	ProductID uint64 `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type SaveCartRequest struct {
	Items []CartItemDTO `json:"items"`
}

type CartResponse struct {
	UserID uint64        `json:"userId"`
	Items  []CartItemDTO `json:"items"`
}
