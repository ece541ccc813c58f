package repository

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/internal/domain"
	"storefront/internal/errors"
)

type MySQLAddressRepository struct {
	db *sql.DB
}

func NewMySQLAddressRepository(db *sql.DB) *MySQLAddressRepository {
	return &MySQLAddressRepository{db: db}
}

// FindByIDAndUser resolves an address only when it belongs to the given
// user; anything else is reported as not found so ownership is never leaked.
func (r *MySQLAddressRepository) FindByIDAndUser(ctx context.Context, id, userID uint64) (*domain.Address, error) {
	query := `
		SELECT id, user_id, full_name, line1, city, state, pincode, phone, created_at, updated_at
		FROM addresses
		WHERE id = ? AND user_id = ?
	`

	var a domain.Address
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&a.ID, &a.UserID, &a.FullName, &a.Line1, &a.City, &a.State,
		&a.Pincode, &a.Phone, &a.CreatedAt, &a.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("address with id %d not found for user %d", id, userID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying address: %w", err)
	}

	return &a, nil
}
