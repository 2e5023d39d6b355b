package models

import (
	"time"

	"github.com/shopspring/decimal"

	"ticket-marketplace/internal/status"
)

// TicketType is a priced offering with its own inventory counter. Ids are
// unique only within the owning event.
type TicketType struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int             `json:"quantity_available"`
	MaxPerOrder       int             `json:"max_per_order"`
	Banner            string          `json:"banner,omitempty"`
	PDFTemplate       string          `json:"pdf_template,omitempty"`
}

type Category struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	TicketTypes []TicketType `json:"ticket_types"`
}

// Categories is the embedded ticket offering of one event, stored as a
// JSON field on the event record.
type Categories []Category

// Find returns pointers into the receiver so callers can mutate counters
// in place before persisting the parent event.
func (cs Categories) Find(categoryID, ticketTypeID int64) (*Category, *TicketType) {
	for ci := range cs {
		if cs[ci].ID != categoryID {
			continue
		}
		for ti := range cs[ci].TicketTypes {
			if cs[ci].TicketTypes[ti].ID == ticketTypeID {
				return &cs[ci], &cs[ci].TicketTypes[ti]
			}
		}
	}
	return nil, nil
}

// Capacity is the sum of quantity_available across every ticket type.
func (cs Categories) Capacity() int {
	total := 0
	for _, c := range cs {
		for _, tt := range c.TicketTypes {
			total += tt.QuantityAvailable
		}
	}
	return total
}

// Reserve performs the conditional decrement: it succeeds only when the
// resulting counter stays non-negative. Callers must run it inside the
// store's write transaction.
func (cs Categories) Reserve(categoryID, ticketTypeID int64, quantity int) error {
	if quantity <= 0 {
		return status.Validation("quantity", "must be a positive integer")
	}
	_, tt := cs.Find(categoryID, ticketTypeID)
	if tt == nil {
		return status.NotFound("ticket type")
	}
	if tt.QuantityAvailable < quantity {
		return status.ErrInventoryExceeded
	}
	tt.QuantityAvailable -= quantity
	return nil
}

type Event struct {
	ID             string      `json:"id"`
	EventNo        int64       `json:"event_no"`
	OrganizerID    string      `json:"organizer_id"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	Banner         string      `json:"banner,omitempty"`
	Venue          string      `json:"venue"`
	LocationID     string      `json:"location_id,omitempty"`
	GenreID        string      `json:"genre_id,omitempty"`
	Status         EventStatus `json:"status"`
	StartAt        time.Time   `json:"start_at"`
	EndAt          time.Time   `json:"end_at"`
	SaleStartAt    time.Time   `json:"sale_start_at"`
	SaleEndAt      time.Time   `json:"sale_end_at"`
	Categories     Categories  `json:"categories"`
	Artists        []string    `json:"artists,omitempty"`
	ModerationNote string      `json:"moderation_note,omitempty"`
	Created        time.Time   `json:"created"`
	Updated        time.Time   `json:"updated"`
}

// SaleWindowOpen reports whether tickets may be sold at the given instant.
func (e *Event) SaleWindowOpen(now time.Time) bool {
	if e.SaleStartAt.IsZero() || e.SaleEndAt.IsZero() {
		return false
	}
	return !now.Before(e.SaleStartAt) && !now.After(e.SaleEndAt)
}

// Purchasable reports whether the event accepts new orders.
func (e *Event) Purchasable(now time.Time) bool {
	switch e.Status {
	case EventApproved, EventLive:
		return e.SaleWindowOpen(now)
	}
	return false
}
