package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestOrderAmount_SubtotalPlusTax(t *testing.T) {
	// 5 units at 100 with 2% tax: floor(500) + floor(10) = 510.
	items := []LineItem{
		{ProductID: 1, Quantity: 5, UnitPrice: d("100")},
	}

	amount := OrderAmount(items, d("0.02"))

	assert.True(t, amount.Equal(d("510")), "got %s", amount)
}

func TestOrderAmount_FlooredIndependently(t *testing.T) {
	// Subtotal 99.50 floors to 99; tax 1.99 floors to 1. Total 100, not
	// floor(101.49) = 101.
	items := []LineItem{
		{ProductID: 1, Quantity: 1, UnitPrice: d("99.50")},
	}

	amount := OrderAmount(items, d("0.02"))

	assert.True(t, amount.Equal(d("100")), "got %s", amount)
}

func TestOrderAmount_MultipleItems(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Quantity: 2, UnitPrice: d("249.99")},
		{ProductID: 2, Quantity: 1, UnitPrice: d("100.01")},
	}

	// Subtotal 599.99 -> 599; tax 11.9998 -> 11.
	amount := OrderAmount(items, d("0.02"))

	assert.True(t, amount.Equal(d("610")), "got %s", amount)
}

func TestOrderAmount_ZeroTax(t *testing.T) {
	items := []LineItem{
		{ProductID: 1, Quantity: 3, UnitPrice: d("10")},
	}

	amount := OrderAmount(items, decimal.Zero)

	assert.True(t, amount.Equal(d("30")), "got %s", amount)
}

func TestOrderAmount_NoItems(t *testing.T) {
	amount := OrderAmount(nil, d("0.02"))

	assert.True(t, amount.IsZero())
}
