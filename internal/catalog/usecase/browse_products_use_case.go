package usecase

import (
	"context"

	"storefront/internal/domain"
	"storefront/internal/dto"
)

type CatalogService interface {
	ListProducts(ctx context.Context, category string, limit, offset int) ([]domain.Product, error)
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)
}

type BrowseProductsUseCase struct {
	svc CatalogService
}

func NewBrowseProductsUseCase(svc CatalogService) *BrowseProductsUseCase {
	return &BrowseProductsUseCase{svc: svc}
}

func (uc *BrowseProductsUseCase) ListProducts(ctx context.Context, req dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	products, err := uc.svc.ListProducts(ctx, req.Category, req.Limit, req.Offset)
	if err != nil {
		return nil, err
	}

	dtos := make([]dto.ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toDTO(p)
	}

	return &dto.ListProductsResponse{Products: dtos}, nil
}

func (uc *BrowseProductsUseCase) GetProduct(ctx context.Context, id uint64) (*dto.ProductDTO, error) {
	p, err := uc.svc.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	d := toDTO(*p)
	return &d, nil
}

func toDTO(p domain.Product) dto.ProductDTO {
	return dto.ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		OfferPrice:  p.OfferPrice.StringFixed(2),
		Stock:       p.Stock,
		InStock:     p.InStock,
		Category:    p.Category,
	}
}
