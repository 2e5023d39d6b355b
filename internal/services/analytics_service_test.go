package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-marketplace/config"
	"ticket-marketplace/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestChange(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		want     string
	}{
		{"both zero", "0", "0", "0"},
		{"from zero", "5", "0", "100"},
		{"to zero", "0", "5", "-100"},
		{"growth", "15", "10", "50"},
		{"decline", "10", "15", "-33.33"},
		{"flat", "10", "10", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Change(dec(tt.current), dec(tt.previous))
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestBucketMonthlyZeroFills(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)

	buckets := bucketMonthly(nil, nil, now, 6)
	require.Len(t, buckets, 6)
	assert.Equal(t, "2026-03", buckets[0].Month)
	assert.Equal(t, "2026-08", buckets[5].Month)
	for _, bucket := range buckets {
		assert.True(t, bucket.Revenue.IsZero())
		assert.Zero(t, bucket.TicketsSold)
	}
}

func TestBucketMonthly(t *testing.T) {
	now := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
	owned := map[string]bool{"ev1": true}

	orders := []models.Order{
		{
			CreatedAt: time.Date(2026, 8, 2, 0, 0, 0, 0, time.UTC),
			Items: []models.OrderItem{
				{EventID: "ev1", Quantity: 2, UnitPrice: dec("10.50")},
				{EventID: "other", Quantity: 5, UnitPrice: dec("99")}, // foreign event, skipped
			},
		},
		{
			CreatedAt: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			Items: []models.OrderItem{
				{EventID: "ev1", Quantity: 1, UnitPrice: dec("40")},
			},
		},
		{
			// outside the trailing window
			CreatedAt: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
			Items: []models.OrderItem{
				{EventID: "ev1", Quantity: 9, UnitPrice: dec("10")},
			},
		},
	}

	buckets := bucketMonthly(orders, owned, now, 6)
	require.Len(t, buckets, 6)

	byMonth := map[string]models.MonthBucket{}
	for _, bucket := range buckets {
		byMonth[bucket.Month] = bucket
	}

	assert.Equal(t, 2, byMonth["2026-08"].TicketsSold)
	assert.True(t, byMonth["2026-08"].Revenue.Equal(dec("21")))

	assert.Equal(t, 1, byMonth["2026-06"].TicketsSold)
	assert.True(t, byMonth["2026-06"].Revenue.Equal(dec("40")))

	assert.Zero(t, byMonth["2026-07"].TicketsSold)
	assert.True(t, byMonth["2026-07"].Revenue.IsZero())
}

func TestEventSalesCacheHit(t *testing.T) {
	client, mock := redismock.NewClientMock()

	cached := models.EventSales{
		EventID:     "ev1",
		TicketsSold: 42,
		Revenue:     dec("1234.50"),
	}
	payload, err := json.Marshal(cached)
	require.NoError(t, err)

	mock.ExpectGet("analytics:event:ev1").SetVal(string(payload))

	// a cache hit must answer without touching the app or event service
	svc := NewAnalyticsService(nil, nil, client, config.LoadConfig())

	sales, err := svc.EventSales(context.Background(), "ev1")
	require.NoError(t, err)
	assert.Equal(t, 42, sales.TicketsSold)
	assert.True(t, sales.Revenue.Equal(dec("1234.50")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBucketMonthlyYearBoundary(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	buckets := bucketMonthly(nil, nil, now, 6)
	require.Len(t, buckets, 6)
	assert.Equal(t, "2025-09", buckets[0].Month)
	assert.Equal(t, "2026-02", buckets[5].Month)
}
