package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/dto"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (mysql.Tx, error)
}

type CatalogReader interface {
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Product, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx mysql.DBTX, order *domain.Order) (uint64, error)
}

type OrderItemRepository interface {
	Insert(ctx context.Context, tx mysql.DBTX, orderID uint64, item domain.LineItem) (uint64, error)
}

type StockReconciler interface {
	Commit(ctx context.Context, tx mysql.DBTX, items []domain.LineItem) error
}

// CheckoutService turns a validated checkout request into a ledger entry.
// The ledger write and the stock commit share one transaction, so an order
// can never exist with a stock deficit: if the conditional stock update
// loses the race, the whole placement rolls back.
type CheckoutService struct {
	db         TransactionManager
	catalog    CatalogReader
	orders     OrderRepository
	orderItems OrderItemRepository
	stock      StockReconciler
	logger     *zap.Logger
	txTimeout  time.Duration
	taxRate    decimal.Decimal
}

func NewCheckoutService(
	db TransactionManager,
	catalog CatalogReader,
	orders OrderRepository,
	orderItems OrderItemRepository,
	stock StockReconciler,
	logger *zap.Logger,
	txTimeout time.Duration,
	taxRate decimal.Decimal,
) *CheckoutService {
	return &CheckoutService{
		db:         db,
		catalog:    catalog,
		orders:     orders,
		orderItems: orderItems,
		stock:      stock,
		logger:     logger,
		txTimeout:  txTimeout,
		taxRate:    taxRate,
	}
}

func (s *CheckoutService) PlaceOrder(
	ctx context.Context,
	userID uint64,
	addressID uint64,
	requested []dto.CheckoutItem,
	paymentType domain.PaymentType,
) (*domain.Order, error) {
	items, err := s.buildLineItems(ctx, requested)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		UserID:      userID,
		AddressID:   addressID,
		Items:       items,
		Amount:      domain.OrderAmount(items, s.taxRate),
		PaymentType: paymentType,
		IsPaid:      false,
		Status:      domain.OrderStatusPlaced,
		CreatedAt:   time.Now().UTC(),
	}

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, err
	}
	// MySQL ignores the rollback if the tx already committed.
	defer tx.Rollback()

	orderID, err := s.orders.Insert(txCtx, tx, order)
	if err != nil {
		return nil, err
	}
	order.ID = orderID

	for _, item := range items {
		if _, err := s.orderItems.Insert(txCtx, tx, orderID, item); err != nil {
			return nil, err
		}
	}

	// Goods are reserved at order time for cash on delivery. Online orders
	// keep their stock uncommitted until the provider confirms, so an
	// abandoned payment session never strands inventory.
	if paymentType == domain.PaymentCOD {
		if err := s.stock.Commit(txCtx, tx, items); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint64("orderId", orderID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("order placed",
		zap.Uint64("orderId", orderID),
		zap.Uint64("userId", userID),
		zap.String("paymentType", string(paymentType)),
		zap.String("amount", order.Amount.String()),
		zap.Int("itemCount", len(items)))

	return order, nil
}

// buildLineItems resolves the requested products and runs the pre-mutation
// stock check. Any miss aborts before a single write happens; the
// authoritative check is still the conditional update at commit time.
func (s *CheckoutService) buildLineItems(ctx context.Context, requested []dto.CheckoutItem) ([]domain.LineItem, error) {
	ids := make([]uint64, len(requested))
	for i, it := range requested {
		ids[i] = it.ProductID
	}

	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	items := make([]domain.LineItem, 0, len(requested))
	for _, req := range requested {
		product, found := byID[req.ProductID]
		if !found {
			return nil, apperrors.NewNotFoundError("one or more products no longer exist")
		}
		if !product.HasStockFor(req.Quantity) {
			return nil, apperrors.NewOutOfStockError(product.ID, product.Name, req.Quantity, product.Stock)
		}
		items = append(items, domain.LineItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    req.Quantity,
			UnitPrice:   product.OfferPrice,
		})
	}

	return items, nil
}
