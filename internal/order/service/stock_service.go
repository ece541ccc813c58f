package service

import (
	"context"

	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type StockProductRepository interface {
	DecrementStock(ctx context.Context, tx mysql.DBTX, productID uint64, quantity int) (bool, error)
	RestoreStock(ctx context.Context, tx mysql.DBTX, productID uint64, quantity int) error
	StockLevel(ctx context.Context, tx mysql.DBTX, productID uint64) (int, error)
}

// StockService applies inventory deltas for an order inside the caller's
// transaction. Every decrement is a single conditional statement, so two
// orders racing for the last unit can never drive stock negative or lose an
// update; the loser simply matches zero rows.
type StockService struct {
	products StockProductRepository
	logger   *zap.Logger
}

func NewStockService(products StockProductRepository, logger *zap.Logger) *StockService {
	return &StockService{
		products: products,
		logger:   logger,
	}
}

// Commit decrements stock for every line item. The first item that lost the
// race aborts the whole commit with an OutOfStockError carrying the live
// availability; the caller rolls back so no partial order survives.
func (s *StockService) Commit(ctx context.Context, tx mysql.DBTX, items []domain.LineItem) error {
	for _, item := range items {
		ok, err := s.products.DecrementStock(ctx, tx, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if ok {
			continue
		}

		available, err := s.products.StockLevel(ctx, tx, item.ProductID)
		if err != nil {
			if _, notFound := apperrors.IsNotFoundError(err); notFound {
				return apperrors.NewOutOfStockError(item.ProductID, item.ProductName, item.Quantity, 0)
			}
			return err
		}

		s.logger.Warn("stock commit lost the race",
			zap.Uint64("productId", item.ProductID),
			zap.Int("requested", item.Quantity),
			zap.Int("available", available))
		return apperrors.NewOutOfStockError(item.ProductID, item.ProductName, item.Quantity, available)
	}

	return nil
}

// Release returns committed stock to the shelf when a cash-on-delivery
// order is cancelled inside the window.
func (s *StockService) Release(ctx context.Context, tx mysql.DBTX, items []domain.LineItem) error {
	for _, item := range items {
		if err := s.products.RestoreStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}
