package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint64
	Name        string
	Description string
	Price       decimal.Decimal
	OfferPrice  decimal.Decimal
	Stock       int
	InStock     bool
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasStockFor reports whether the current stock level covers the requested
// quantity. This is the pre-check only; the authoritative check is the
// conditional update applied by the stock reconciler.
func (p Product) HasStockFor(quantity int) bool {
	return p.Stock >= quantity
}
