package domain

import "github.com/shopspring/decimal"

// OrderAmount computes the immutable order total from the line items and the
// configured tax rate. Subtotal and tax are floored independently before
// summing; the grand total is never floored as a whole.
func OrderAmount(items []LineItem, taxRate decimal.Decimal) decimal.Decimal {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return subtotal.Floor().Add(subtotal.Mul(taxRate).Floor())
}
