package models

import (
	"github.com/shopspring/decimal"
)

// EventSales is the on-demand rollup for one event over completed orders.
// Monetary values are exact decimals, rounded to 2dp at the service's
// output boundary.
type EventSales struct {
	EventID        string          `json:"event_id"`
	EventNo        int64           `json:"event_no,omitempty"`
	Title          string          `json:"title,omitempty"`
	TicketsSold    int             `json:"tickets_sold"`
	Revenue        decimal.Decimal `json:"revenue"`
	OrderCount     int             `json:"order_count"`
	TotalCapacity  int             `json:"total_capacity"`
	SoldPercentage decimal.Decimal `json:"sold_percentage"`
}

type OrganizerSales struct {
	OrganizerID         string          `json:"organizer_id"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	TotalTicketsSold    int             `json:"total_tickets_sold"`
	AvgRevenuePerTicket decimal.Decimal `json:"avg_revenue_per_ticket"`
	TopEvent            *EventSales     `json:"top_event,omitempty"`
	Events              []EventSales    `json:"events"`
}

type GenreSales struct {
	GenreID string          `json:"genre_id"`
	Genre   string          `json:"genre"`
	Revenue decimal.Decimal `json:"revenue"`
}

// MonthBucket covers one calendar month of the trailing window. Months
// with no completed orders are present with zero values.
type MonthBucket struct {
	Month       string          `json:"month"` // YYYY-MM
	Revenue     decimal.Decimal `json:"revenue"`
	TicketsSold int             `json:"tickets_sold"`
}
