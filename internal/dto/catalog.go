package dto

type ListProductsRequest struct {
	Category string
	Limit    int
	Offset   int
}

type ListProductsResponse struct {
	Products []ProductDTO `json:"products"`
}

type ProductDTO struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	OfferPrice  string `json:"offerPrice"`
	Stock       int    `json:"stock"`
	InStock     bool   `json:"inStock"`
	Category    string `json:"category"`
}
