package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
)

func purchasableEvent(now time.Time) models.Event {
	return models.Event{
		ID:          "ev1",
		EventNo:     7,
		Status:      models.EventLive,
		SaleStartAt: now.AddDate(0, 0, -1),
		SaleEndAt:   now.AddDate(0, 0, 7),
		Categories: models.Categories{
			{
				ID: 1,
				TicketTypes: []models.TicketType{
					{ID: 10, Price: dec("25.50"), QuantityAvailable: 8, MaxPerOrder: 4},
				},
			},
		},
	}
}

func TestPriceItem(t *testing.T) {
	now := time.Now()
	event := purchasableEvent(now)

	item, err := priceItem(event, OrderItemRequest{
		EventID:      "ev1",
		CategoryID:   1,
		TicketTypeID: 10,
		Quantity:     3,
		Attendee:     models.Attendee{Name: "Ada"},
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "ev1", item.EventID)
	assert.Equal(t, int64(7), item.EventNo)
	assert.Equal(t, 3, item.Quantity)
	assert.True(t, item.UnitPrice.Equal(dec("25.50")), "unit price comes from the event, not the client")
	assert.Equal(t, "Ada", item.Attendee.Name)
	assert.True(t, item.Subtotal().Equal(dec("76.50")))
}

func TestPriceItemRejectsBadQuantity(t *testing.T) {
	now := time.Now()
	event := purchasableEvent(now)

	_, err := priceItem(event, OrderItemRequest{CategoryID: 1, TicketTypeID: 10, Quantity: 0}, now)
	assert.Error(t, err)

	_, err = priceItem(event, OrderItemRequest{CategoryID: 1, TicketTypeID: 10, Quantity: -1}, now)
	assert.Error(t, err)
}

func TestPriceItemEnforcesMaxPerOrder(t *testing.T) {
	now := time.Now()
	event := purchasableEvent(now)

	_, err := priceItem(event, OrderItemRequest{CategoryID: 1, TicketTypeID: 10, Quantity: 5}, now)
	require.Error(t, err)
	assert.Equal(t, status.KindValidation, status.From(err).Kind)
}

func TestPriceItemProvisionalAvailability(t *testing.T) {
	now := time.Now()
	event := purchasableEvent(now)
	event.Categories[0].TicketTypes[0].QuantityAvailable = 2
	event.Categories[0].TicketTypes[0].MaxPerOrder = 10

	_, err := priceItem(event, OrderItemRequest{CategoryID: 1, TicketTypeID: 10, Quantity: 3}, now)
	assert.ErrorIs(t, err, status.ErrInventoryExceeded)
}

func TestPriceItemUnknownTicketType(t *testing.T) {
	now := time.Now()
	event := purchasableEvent(now)

	_, err := priceItem(event, OrderItemRequest{CategoryID: 1, TicketTypeID: 999, Quantity: 1}, now)
	require.Error(t, err)
	assert.Equal(t, status.KindNotFound, status.From(err).Kind)
}

func TestPriceItemClosedSales(t *testing.T) {
	now := time.Now()

	event := purchasableEvent(now)
	event.Status = models.EventDraft
	_, err := priceItem(event, OrderItemRequest{CategoryID: 1, TicketTypeID: 10, Quantity: 1}, now)
	assert.Error(t, err)

	event = purchasableEvent(now)
	event.SaleEndAt = now.AddDate(0, 0, -1)
	event.SaleStartAt = now.AddDate(0, 0, -2)
	_, err = priceItem(event, OrderItemRequest{CategoryID: 1, TicketTypeID: 10, Quantity: 1}, now)
	assert.Error(t, err)
}
