package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderTotal(t *testing.T) {
	items := []OrderItem{
		{Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.01")},
		{Quantity: 2, UnitPrice: decimal.RequireFromString("100")},
	}

	// 3*19.99 + 0.01 + 200 = 259.98, exactly
	assert.True(t, OrderTotal(items).Equal(decimal.RequireFromString("259.98")))
}

func TestOrderTotalEmpty(t *testing.T) {
	assert.True(t, OrderTotal(nil).IsZero())
}

func TestOrderTotalExactness(t *testing.T) {
	// the classic float trap: 0.1 + 0.2
	items := []OrderItem{
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.1")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.2")},
	}
	assert.Equal(t, "0.3", OrderTotal(items).String())
}

func TestSubtotal(t *testing.T) {
	item := OrderItem{Quantity: 7, UnitPrice: decimal.RequireFromString("12.34")}
	assert.Equal(t, "86.38", item.Subtotal().String())
}
