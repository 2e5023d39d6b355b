package models

import (
	"time"
)

// Ticket is one purchased unit, materialized when the owning order's
// payment completes. PassID is the external-facing lookup key encoded in
// the QR payload; it is distinct from the record id.
type Ticket struct {
	ID             string     `json:"id"`
	TicketNo       int64      `json:"ticket_no"`
	OrderID        string     `json:"order_id"`
	EventID        string     `json:"event_id"`
	CategoryID     int64      `json:"category_id"`
	TicketTypeID   int64      `json:"ticket_type_id"`
	PassID         string     `json:"pass_id"`
	QRPayload      string     `json:"qr_payload"`
	IsValidated    bool       `json:"is_validated"`
	ValidationTime *time.Time `json:"validation_time,omitempty"`
	Attendee       Attendee   `json:"attendee"`
	Document       string     `json:"document,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ScanResult is the outcome of a validation attempt.
type ScanResult string

const (
	ScanOK               ScanResult = "validated"
	ScanAlreadyValidated ScanResult = "already_validated"
	ScanNotFound         ScanResult = "not_found"
)
