package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-marketplace/internal/status"
)

func testCategories() Categories {
	return Categories{
		{
			ID:   1,
			Name: "General",
			TicketTypes: []TicketType{
				{ID: 10, Name: "Early Bird", Price: decimal.RequireFromString("29.90"), QuantityAvailable: 5, MaxPerOrder: 4},
				{ID: 11, Name: "Regular", Price: decimal.RequireFromString("39.90"), QuantityAvailable: 100, MaxPerOrder: 6},
			},
		},
		{
			ID:   2,
			Name: "VIP",
			TicketTypes: []TicketType{
				{ID: 12, Name: "VIP", Price: decimal.RequireFromString("99.00"), QuantityAvailable: 2, MaxPerOrder: 2},
			},
		},
	}
}

func TestCategoriesFind(t *testing.T) {
	cs := testCategories()

	category, tt := cs.Find(2, 12)
	require.NotNil(t, category)
	require.NotNil(t, tt)
	assert.Equal(t, "VIP", category.Name)
	assert.Equal(t, "VIP", tt.Name)

	// ticket type id must belong to the given category
	_, tt = cs.Find(1, 12)
	assert.Nil(t, tt)

	_, tt = cs.Find(99, 10)
	assert.Nil(t, tt)
}

func TestCategoriesCapacity(t *testing.T) {
	assert.Equal(t, 107, testCategories().Capacity())
	assert.Equal(t, 0, Categories{}.Capacity())
}

func TestReserve(t *testing.T) {
	cs := testCategories()

	require.NoError(t, cs.Reserve(1, 10, 3))
	_, tt := cs.Find(1, 10)
	assert.Equal(t, 2, tt.QuantityAvailable)

	// exactly draining the counter is allowed
	require.NoError(t, cs.Reserve(1, 10, 2))
	_, tt = cs.Find(1, 10)
	assert.Equal(t, 0, tt.QuantityAvailable)

	// the next unit is rejected and the counter stays put
	err := cs.Reserve(1, 10, 1)
	assert.ErrorIs(t, err, status.ErrInventoryExceeded)
	_, tt = cs.Find(1, 10)
	assert.Equal(t, 0, tt.QuantityAvailable)
}

func TestReserveRejectsBadInput(t *testing.T) {
	cs := testCategories()

	assert.Error(t, cs.Reserve(1, 10, 0))
	assert.Error(t, cs.Reserve(1, 10, -2))
	assert.Error(t, cs.Reserve(1, 999, 1))

	// partial over-ask fails whole, not partially
	err := cs.Reserve(2, 12, 3)
	assert.ErrorIs(t, err, status.ErrInventoryExceeded)
	_, tt := cs.Find(2, 12)
	assert.Equal(t, 2, tt.QuantityAvailable)
}

func TestPurchasable(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	event := Event{
		Status:      EventApproved,
		SaleStartAt: now.AddDate(0, 0, -1),
		SaleEndAt:   now.AddDate(0, 0, 7),
	}

	assert.True(t, event.Purchasable(now))

	event.Status = EventLive
	assert.True(t, event.Purchasable(now))

	event.Status = EventDraft
	assert.False(t, event.Purchasable(now))

	event.Status = EventCancelled
	assert.False(t, event.Purchasable(now))

	event.Status = EventApproved
	assert.False(t, event.Purchasable(now.AddDate(0, 1, 0)), "after sale end")
	assert.False(t, event.Purchasable(now.AddDate(0, -1, 0)), "before sale start")

	// boundary instants are inclusive
	assert.True(t, event.Purchasable(event.SaleStartAt))
	assert.True(t, event.Purchasable(event.SaleEndAt))

	event.SaleStartAt = time.Time{}
	assert.False(t, event.Purchasable(now), "missing sale window never sells")
}
