package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type SettlementOrderRepository interface {
	FindByID(ctx context.Context, id uint64) (*domain.Order, error)
	MarkPaid(ctx context.Context, tx mysql.DBTX, id uint64) (bool, error)
	CancelPlaced(ctx context.Context, tx mysql.DBTX, id uint64) (bool, error)
	DeleteUnpaid(ctx context.Context, tx mysql.DBTX, id uint64) (bool, error)
}

type SettlementItemRepository interface {
	FindByOrder(ctx context.Context, orderID uint64) ([]domain.LineItem, error)
	DeleteByOrder(ctx context.Context, tx mysql.DBTX, orderID uint64) error
}

type StockApplier interface {
	Commit(ctx context.Context, tx mysql.DBTX, items []domain.LineItem) error
	Release(ctx context.Context, tx mysql.DBTX, items []domain.LineItem) error
}

// SettlementService owns every transition that depends on payment state:
// the provider's confirm/fail callbacks and the owner's cancellation. All
// three go through the same conditional updates, so a cancellation racing a
// confirmation resolves to exactly one winner.
type SettlementService struct {
	db        TransactionManager
	exec      mysql.DBTX
	orders    SettlementOrderRepository
	items     SettlementItemRepository
	stock     StockApplier
	logger    *zap.Logger
	txTimeout time.Duration
}

func NewSettlementService(
	db TransactionManager,
	exec mysql.DBTX,
	orders SettlementOrderRepository,
	items SettlementItemRepository,
	stock StockApplier,
	logger *zap.Logger,
	txTimeout time.Duration,
) *SettlementService {
	return &SettlementService{
		db:        db,
		exec:      exec,
		orders:    orders,
		items:     items,
		stock:     stock,
		logger:    logger,
		txTimeout: txTimeout,
	}
}

// ConfirmPayment settles a pending order. Applied is false when the call
// was a duplicate delivery or lost to a cancellation; both are reported as
// success to the provider.
func (s *SettlementService) ConfirmPayment(ctx context.Context, orderID uint64) (*domain.Order, bool, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}

	if order.IsPaid {
		s.logger.Info("payment already confirmed", zap.Uint64("orderId", orderID))
		return order, false, nil
	}

	items, err := s.items.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	order.Items = items

	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, false, err
	}
	defer tx.Rollback()

	ok, err := s.orders.MarkPaid(txCtx, tx, orderID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		// A concurrent duplicate won, or the order was cancelled first.
		s.logger.Info("payment confirmation ignored",
			zap.Uint64("orderId", orderID), zap.String("status", string(order.Status)))
		return order, false, nil
	}

	// Stock for online orders is committed only now; cash on delivery
	// committed at placement.
	if order.PaymentType == domain.PaymentOnline {
		if err := s.stock.Commit(txCtx, tx, items); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				s.logger.Error("rollback failed", zap.Uint64("orderId", orderID), zap.Error(rbErr))
			}
			if _, outOfStock := apperrors.IsOutOfStockError(err); outOfStock {
				s.voidStrandedOrder(ctx, orderID)
			}
			return nil, false, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint64("orderId", orderID), zap.Error(err))
		return nil, false, err
	}

	order.IsPaid = true
	s.logger.Info("payment confirmed", zap.Uint64("orderId", orderID))
	return order, true, nil
}

// voidStrandedOrder cancels a paid-but-uncoverable order so it never sits
// in the ledger as Placed with a stock deficit.
func (s *SettlementService) voidStrandedOrder(ctx context.Context, orderID uint64) {
	ok, err := s.orders.CancelPlaced(ctx, s.exec, orderID)
	if err != nil {
		s.logger.Error("voiding stranded order failed", zap.Uint64("orderId", orderID), zap.Error(err))
		return
	}
	if ok {
		s.logger.Warn("order voided after losing stock race", zap.Uint64("orderId", orderID))
	}
}

// FailPayment removes a deferred order whose payment session failed or was
// abandoned. Stock was never committed for it, so there is nothing to roll
// back.
func (s *SettlementService) FailPayment(ctx context.Context, orderID uint64) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if err := s.items.DeleteByOrder(txCtx, tx, orderID); err != nil {
		return err
	}

	ok, err := s.orders.DeleteUnpaid(txCtx, tx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		// Paid in the meantime, not deferred, or already gone; the rollback
		// restores the items either way.
		if _, err := s.orders.FindByID(ctx, orderID); err != nil {
			return err
		}
		return apperrors.NewConflictError(fmt.Sprintf("order %d is not a pending deferred order", orderID))
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint64("orderId", orderID), zap.Error(err))
		return err
	}

	s.logger.Info("pending order removed after failed payment", zap.Uint64("orderId", orderID))
	return nil
}

// Cancel moves a Placed, unpaid order to Cancelled and returns committed
// stock for cash-on-delivery orders. The caller has already checked the
// ownership and the time window; the conditional update re-checks state so
// a payment landing in between wins cleanly.
func (s *SettlementService) Cancel(ctx context.Context, order *domain.Order) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	ok, err := s.orders.CancelPlaced(txCtx, tx, order.ID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewConflictError(fmt.Sprintf("order %d can no longer be cancelled", order.ID))
	}

	if order.PaymentType == domain.PaymentCOD {
		if err := s.stock.Release(txCtx, tx, order.Items); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit transaction", zap.Uint64("orderId", order.ID), zap.Error(err))
		return err
	}

	s.logger.Info("order cancelled", zap.Uint64("orderId", order.ID))
	return nil
}
