package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/errors"
	"storefront/internal/infrastructure/mysql"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx mysql.DBTX, order *domain.Order) (uint64, error) {
	query := `
		INSERT INTO orders (user_id, address_id, amount, payment_type, is_paid, status)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := tx.ExecContext(ctx, query,
		order.UserID, order.AddressID, order.Amount, string(order.PaymentType),
		order.IsPaid, string(order.Status),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint64(lastInsertID), nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint64) (*domain.Order, error) {
	query := `
		SELECT id, user_id, address_id, amount, payment_type, is_paid, status, created_at, updated_at
		FROM orders
		WHERE id = ?
	`

	var order domain.Order
	var paymentType, status string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&order.ID, &order.UserID, &order.AddressID, &order.Amount,
		&paymentType, &order.IsPaid, &status, &order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	order.PaymentType = domain.PaymentType(paymentType)
	order.Status = domain.OrderStatus(status)
	return &order, nil
}

func (r *MySQLOrderRepository) FindByUser(ctx context.Context, userID uint64) ([]domain.Order, error) {
	query := `
		SELECT id, user_id, address_id, amount, payment_type, is_paid, status, created_at, updated_at
		FROM orders
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying orders by user: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		var paymentType, status string
		err := rows.Scan(
			&order.ID, &order.UserID, &order.AddressID, &order.Amount,
			&paymentType, &order.IsPaid, &status, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning order row: %w", err)
		}
		order.PaymentType = domain.PaymentType(paymentType)
		order.Status = domain.OrderStatus(status)
		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, nil
}

// MarkPaid flips the paid flag exactly once. A cancelled order matches zero
// rows, so a late payment confirmation can never resurrect it.
func (r *MySQLOrderRepository) MarkPaid(ctx context.Context, tx mysql.DBTX, id uint64) (bool, error) {
	query := `
		UPDATE orders
		SET is_paid = 1
		WHERE id = ? AND is_paid = 0 AND status <> ?
	`

	result, err := tx.ExecContext(ctx, query, id, string(domain.OrderStatusCancelled))
	if err != nil {
		return false, fmt.Errorf("marking order paid: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// UpdateStatus moves the order from one specific status to the next. The
// from-status guard makes concurrent seller updates race-safe: only one of
// two competing transitions can match.
func (r *MySQLOrderRepository) UpdateStatus(ctx context.Context, id uint64, from, to domain.OrderStatus, markPaid bool) (bool, error) {
	query := `
		UPDATE orders
		SET status = ?, is_paid = is_paid OR ?
		WHERE id = ? AND status = ?
	`

	result, err := r.db.ExecContext(ctx, query, string(to), markPaid, id, string(from))
	if err != nil {
		return false, fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// CancelPlaced cancels only unpaid Placed orders; the same guard protects
// the user path and the payment-race compensation path.
func (r *MySQLOrderRepository) CancelPlaced(ctx context.Context, tx mysql.DBTX, id uint64) (bool, error) {
	query := `
		UPDATE orders
		SET status = ?
		WHERE id = ? AND status = ? AND is_paid = 0
	`

	result, err := tx.ExecContext(ctx, query,
		string(domain.OrderStatusCancelled), id, string(domain.OrderStatusPlaced))
	if err != nil {
		return false, fmt.Errorf("cancelling order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}

// DeleteUnpaid removes a deferred-settlement order whose payment never
// arrived. The only legal deletion in the ledger.
func (r *MySQLOrderRepository) DeleteUnpaid(ctx context.Context, tx mysql.DBTX, id uint64) (bool, error) {
	query := `
		DELETE FROM orders
		WHERE id = ? AND is_paid = 0 AND payment_type = ?
	`

	result, err := tx.ExecContext(ctx, query, id, string(domain.PaymentOnline))
	if err != nil {
		return false, fmt.Errorf("deleting unpaid order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("getting rows affected: %w", err)
	}

	return rowsAffected == 1, nil
}
