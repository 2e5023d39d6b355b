package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/types"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"ticket-marketplace/config"
	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
)

// AnalyticsService computes sales rollups on demand from completed
// orders. Refunded, failed and pending orders never contribute. All sums
// run over exact decimals in Go; rounding to 2dp happens only at the
// output boundary. Hot rollups are cached in redis for a short TTL.
type AnalyticsService struct {
	app    core.App
	events *EventService
	redis  *redis.Client
	cfg    *config.Config
}

func NewAnalyticsService(app core.App, events *EventService, redisClient *redis.Client, cfg *config.Config) *AnalyticsService {
	return &AnalyticsService{app: app, events: events, redis: redisClient, cfg: cfg}
}

type orderRow struct {
	Items   types.JSONRaw  `db:"items"`
	Created types.DateTime `db:"created"`
}

// completedOrders loads every completed order's items and creation time.
func (s *AnalyticsService) completedOrders(ctx context.Context) ([]models.Order, error) {
	var rows []orderRow
	err := s.app.DB().
		Select("items", "created").
		From("orders").
		Where(dbx.HashExp{"payment_status": string(models.PaymentCompleted)}).
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, status.Internal(err)
	}

	orders := make([]models.Order, 0, len(rows))
	for _, row := range rows {
		var items []models.OrderItem
		if err := json.Unmarshal(row.Items, &items); err != nil {
			return nil, status.Internal(err)
		}
		orders = append(orders, models.Order{
			Items:     items,
			CreatedAt: row.Created.Time(),
		})
	}
	return orders, nil
}

// EventSales is the per-event rollup, cached for AnalyticsCacheTTL.
func (s *AnalyticsService) EventSales(ctx context.Context, eventID string) (*models.EventSales, error) {
	cacheKey := "analytics:event:" + eventID
	if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var sales models.EventSales
		if err := json.Unmarshal([]byte(cached), &sales); err == nil {
			return &sales, nil
		}
	}

	record, err := s.events.Get(eventID)
	if err != nil {
		return nil, err
	}
	orders, err := s.completedOrders(ctx)
	if err != nil {
		return nil, err
	}

	sales := rollupEvent(record, orders)

	if payload, err := json.Marshal(sales); err == nil {
		if err := s.redis.Set(ctx, cacheKey, payload, s.cfg.AnalyticsCacheTTL).Err(); err != nil {
			s.app.Logger().Warn("analytics cache write failed", "event", eventID, "error", err)
		}
	}
	return sales, nil
}

// rollupEvent sums one event's completed sales. Remaining inventory plus
// units sold reconstructs the original capacity.
func rollupEvent(event *core.Record, orders []models.Order) *models.EventSales {
	sales := &models.EventSales{
		EventID:        event.Id,
		EventNo:        int64(event.GetInt("event_no")),
		Title:          event.GetString("title"),
		Revenue:        decimal.Zero,
		SoldPercentage: decimal.Zero,
	}

	for _, order := range orders {
		touched := false
		for _, item := range order.Items {
			if item.EventID != event.Id {
				continue
			}
			touched = true
			sales.TicketsSold += item.Quantity
			sales.Revenue = sales.Revenue.Add(item.Subtotal())
		}
		if touched {
			sales.OrderCount++
		}
	}

	var categories models.Categories
	if err := event.UnmarshalJSONField("categories", &categories); err == nil {
		sales.TotalCapacity = categories.Capacity() + sales.TicketsSold
	}
	if sales.TotalCapacity > 0 {
		sales.SoldPercentage = decimal.NewFromInt(int64(sales.TicketsSold)).
			Div(decimal.NewFromInt(int64(sales.TotalCapacity))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	sales.Revenue = sales.Revenue.Round(2)
	return sales
}

// OrganizerSales aggregates every event of one organizer. A single
// event's rollup failure degrades that event to zeros instead of failing
// the whole dashboard.
func (s *AnalyticsService) OrganizerSales(ctx context.Context, organizerID string) (*models.OrganizerSales, error) {
	events, err := s.events.ListByOrganizer(organizerID)
	if err != nil {
		return nil, err
	}
	orders, err := s.completedOrders(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.OrganizerSales{
		OrganizerID:         organizerID,
		TotalRevenue:        decimal.Zero,
		AvgRevenuePerTicket: decimal.Zero,
		Events:              make([]models.EventSales, 0, len(events)),
	}

	for _, event := range events {
		sales := rollupEvent(event, orders)
		result.Events = append(result.Events, *sales)
		result.TotalRevenue = result.TotalRevenue.Add(sales.Revenue)
		result.TotalTicketsSold += sales.TicketsSold
		if result.TopEvent == nil || sales.Revenue.GreaterThan(result.TopEvent.Revenue) {
			result.TopEvent = sales
		}
	}

	if result.TotalTicketsSold > 0 {
		result.AvgRevenuePerTicket = result.TotalRevenue.
			Div(decimal.NewFromInt(int64(result.TotalTicketsSold))).
			Round(2)
	}
	result.TotalRevenue = result.TotalRevenue.Round(2)
	return result, nil
}

// GenreSales buckets marketplace-wide completed revenue by event genre.
func (s *AnalyticsService) GenreSales(ctx context.Context) ([]models.GenreSales, error) {
	orders, err := s.completedOrders(ctx)
	if err != nil {
		return nil, err
	}

	revenueByEvent := map[string]decimal.Decimal{}
	for _, order := range orders {
		for _, item := range order.Items {
			revenueByEvent[item.EventID] = revenueByEvent[item.EventID].Add(item.Subtotal())
		}
	}

	byGenre := map[string]*models.GenreSales{}
	for eventID, revenue := range revenueByEvent {
		event, err := s.app.FindRecordById("events", eventID)
		if err != nil {
			continue
		}
		genreID := event.GetString("genre")
		bucket, ok := byGenre[genreID]
		if !ok {
			genreName := ""
			if genre, err := s.app.FindRecordById("genres", genreID); err == nil {
				genreName = genre.GetString("name")
			}
			bucket = &models.GenreSales{GenreID: genreID, Genre: genreName, Revenue: decimal.Zero}
			byGenre[genreID] = bucket
		}
		bucket.Revenue = bucket.Revenue.Add(revenue)
	}

	result := make([]models.GenreSales, 0, len(byGenre))
	for _, bucket := range byGenre {
		bucket.Revenue = bucket.Revenue.Round(2)
		result = append(result, *bucket)
	}
	return result, nil
}

// MonthlySales returns the trailing-window monthly buckets for one
// organizer, oldest first, with empty months zero-filled.
func (s *AnalyticsService) MonthlySales(ctx context.Context, organizerID string, now time.Time) ([]models.MonthBucket, error) {
	events, err := s.events.ListByOrganizer(organizerID)
	if err != nil {
		return nil, err
	}
	owned := map[string]bool{}
	for _, event := range events {
		owned[event.Id] = true
	}

	orders, err := s.completedOrders(ctx)
	if err != nil {
		return nil, err
	}
	return bucketMonthly(orders, owned, now, s.cfg.TrailingWindowMonths), nil
}

// bucketMonthly groups completed orders into calendar-month buckets over
// the trailing window ending at now's month. Orders outside the window
// and items for events outside the owned set are skipped.
func bucketMonthly(orders []models.Order, owned map[string]bool, now time.Time, months int) []models.MonthBucket {
	buckets := make([]models.MonthBucket, 0, months)
	index := map[string]int{}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	for i := 0; i < months; i++ {
		month := start.AddDate(0, i, 0).Format("2006-01")
		index[month] = i
		buckets = append(buckets, models.MonthBucket{Month: month, Revenue: decimal.Zero})
	}

	for _, order := range orders {
		month := order.CreatedAt.UTC().Format("2006-01")
		i, ok := index[month]
		if !ok {
			continue
		}
		for _, item := range order.Items {
			if owned != nil && !owned[item.EventID] {
				continue
			}
			buckets[i].Revenue = buckets[i].Revenue.Add(item.Subtotal())
			buckets[i].TicketsSold += item.Quantity
		}
	}

	for i := range buckets {
		buckets[i].Revenue = buckets[i].Revenue.Round(2)
	}
	return buckets
}

// Change is the month-over-month percentage delta. A zero previous value
// collapses to +/-100 instead of dividing by zero; two zero months read
// as no change.
func Change(current, previous decimal.Decimal) decimal.Decimal {
	switch {
	case previous.IsZero() && current.IsZero():
		return decimal.Zero
	case previous.IsZero():
		return decimal.NewFromInt(100)
	case current.IsZero():
		return decimal.NewFromInt(-100)
	default:
		return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
	}
}

// DashboardSummary is the organizer home-screen payload.
type DashboardSummary struct {
	Sales         *models.OrganizerSales `json:"sales"`
	Monthly       []models.MonthBucket   `json:"monthly"`
	RevenueChange decimal.Decimal        `json:"revenue_change"`
	TicketsChange decimal.Decimal        `json:"tickets_change"`
}

// Dashboard combines the organizer rollup with the trailing monthly
// series and the latest month-over-month deltas.
func (s *AnalyticsService) Dashboard(ctx context.Context, organizerID string, now time.Time) (*DashboardSummary, error) {
	sales, err := s.OrganizerSales(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	monthly, err := s.MonthlySales(ctx, organizerID, now)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		Sales:         sales,
		Monthly:       monthly,
		RevenueChange: decimal.Zero,
		TicketsChange: decimal.Zero,
	}
	if n := len(monthly); n >= 2 {
		latest, previous := monthly[n-1], monthly[n-2]
		summary.RevenueChange = Change(latest.Revenue, previous.Revenue)
		summary.TicketsChange = Change(
			decimal.NewFromInt(int64(latest.TicketsSold)),
			decimal.NewFromInt(int64(previous.TicketsSold)),
		)
	}
	return summary, nil
}
