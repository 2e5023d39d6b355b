package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// OrderItem references one (event, category, ticket type) with a quantity.
// UnitPrice is captured from the event at order-creation time, never
// trusted from the client.
type OrderItem struct {
	EventID      string          `json:"event_id"`
	EventNo      int64           `json:"event_no"`
	CategoryID   int64           `json:"category_id"`
	TicketTypeID int64           `json:"ticket_type_id"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Attendee     Attendee        `json:"attendee"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID            string          `json:"id"`
	OrderNo       int64           `json:"order_no"`
	UserID        string          `json:"user_id"`
	Items         []OrderItem     `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	PaymentRef    string          `json:"payment_ref"`
	CreatedAt     time.Time       `json:"created_at"`
}

// OrderTotal is the server-side source of truth for an order's amount.
func OrderTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
