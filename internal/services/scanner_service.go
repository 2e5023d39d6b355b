package services

import (
	"context"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
	"ticket-marketplace/monitoring"
	"ticket-marketplace/utils"
)

// ScannerService backs the entry-gate workflow: looking a pass up by its
// QR payload and flipping it to validated exactly once. Scanning devices
// authenticate with a shared key issued per organizer; only the bcrypt
// hash of the key is stored.
type ScannerService struct {
	app      core.App
	notifier *Notifier
}

func NewScannerService(app core.App, notifier *Notifier) *ScannerService {
	return &ScannerService{app: app, notifier: notifier}
}

// TicketScan is the gate-facing view of a ticket.
type TicketScan struct {
	PassID         string     `json:"pass_id"`
	TicketNo       int64      `json:"ticket_no"`
	EventID        string     `json:"event_id"`
	EventTitle     string     `json:"event_title"`
	AttendeeName   string     `json:"attendee_name"`
	Result         string     `json:"result"`
	ValidationTime *time.Time `json:"validation_time,omitempty"`
}

// approvedOrganizer loads an organizer profile and gates on its status;
// a pending or rejected organizer keeps no scanning privileges, not even
// for events created while approved.
func (s *ScannerService) approvedOrganizer(organizerID string) (*core.Record, error) {
	organizer, err := s.app.FindRecordById("organizers", organizerID)
	if err != nil {
		return nil, status.NotFound("organizer")
	}
	if models.OrganizerStatus(organizer.GetString("status")) != models.OrganizerApproved {
		return nil, status.Forbidden("organizer is not approved")
	}
	return organizer, nil
}

// RegisterDevice creates a scanning device for an approved organizer and
// returns the plaintext key exactly once. key_id is a short indexed
// prefix of the key so authorization does not have to bcrypt-compare
// every stored hash.
func (s *ScannerService) RegisterDevice(ctx context.Context, organizerID, name string) (*core.Record, string, error) {
	if _, err := s.approvedOrganizer(organizerID); err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(name) == "" {
		return nil, "", status.Validation("name", "is required")
	}

	plaintext, hash, err := utils.GenerateDeviceKey()
	if err != nil {
		return nil, "", status.Internal(err)
	}

	collection, err := s.app.FindCollectionByNameOrId("scanner_devices")
	if err != nil {
		return nil, "", status.Internal(err)
	}
	record := core.NewRecord(collection)
	record.Set("organizer", organizerID)
	record.Set("name", name)
	record.Set("key_id", deviceKeyID(plaintext))
	record.Set("key_hash", hash)
	record.Set("active", true)

	if err := s.app.Save(record); err != nil {
		return nil, "", status.Internal(err)
	}
	return record, plaintext, nil
}

// AuthorizeDeviceKey resolves a plaintext device key to the organizer it
// scans for. Multiple devices can share a key_id prefix; the hash compare
// disambiguates.
func (s *ScannerService) AuthorizeDeviceKey(ctx context.Context, plaintext string) (*core.Record, error) {
	if len(plaintext) < 12 || !strings.HasPrefix(plaintext, "SCN-") {
		return nil, status.Unauthenticated("invalid scanner key")
	}

	devices, err := s.app.FindRecordsByFilter(
		"scanner_devices",
		"key_id = {:keyId} && active = true",
		"",
		-1,
		0,
		map[string]any{"keyId": deviceKeyID(plaintext)},
	)
	if err != nil || len(devices) == 0 {
		return nil, status.Unauthenticated("invalid scanner key")
	}

	for _, device := range devices {
		if utils.CheckDeviceKey(device.GetString("key_hash"), plaintext) {
			return device, nil
		}
	}
	return nil, status.Unauthenticated("invalid scanner key")
}

func (s *ScannerService) ListDevices(organizerID string) ([]*core.Record, error) {
	devices, err := s.app.FindRecordsByFilter(
		"scanner_devices",
		"organizer = {:organizer}",
		"-created",
		-1,
		0,
		map[string]any{"organizer": organizerID},
	)
	if err != nil {
		return nil, status.Internal(err)
	}
	return devices, nil
}

// RevokeDevice deactivates a device key.
func (s *ScannerService) RevokeDevice(ctx context.Context, deviceID, organizerID string) error {
	device, err := s.app.FindRecordById("scanner_devices", deviceID)
	if err != nil {
		return status.NotFound("device")
	}
	if device.GetString("organizer") != organizerID {
		return status.Forbidden("device belongs to another organizer")
	}
	device.Set("active", false)
	if err := s.app.Save(device); err != nil {
		return status.Internal(err)
	}
	return nil
}

// Lookup finds a ticket by pass id without mutating it. Tickets for other
// organizers' events are reported as not found rather than forbidden, so
// a scanner cannot probe foreign passes.
func (s *ScannerService) Lookup(ctx context.Context, passID, organizerID string) (*TicketScan, error) {
	if _, err := s.approvedOrganizer(organizerID); err != nil {
		return nil, err
	}
	ticket, event, err := s.findPass(passID, organizerID)
	if err != nil {
		return nil, err
	}
	return s.scanView(ticket, event, currentScanState(ticket)), nil
}

// Validate marks a ticket used. The transition is idempotent: the first
// scan wins, every later scan reports already_validated together with the
// original validation time. Revoked tickets never validate.
func (s *ScannerService) Validate(ctx context.Context, passID, organizerID string) (*TicketScan, error) {
	if _, err := s.approvedOrganizer(organizerID); err != nil {
		return nil, err
	}

	ticket, event, err := s.findPass(passID, organizerID)
	if err != nil {
		monitoring.TrackTicketScan(string(models.ScanNotFound))
		return nil, err
	}

	var result models.ScanResult
	err = s.app.RunInTransaction(func(txApp core.App) error {
		ticket, err = txApp.FindRecordById("tickets", ticket.Id)
		if err != nil {
			return status.NotFound("ticket")
		}
		result = scanDecision(ticket.GetBool("is_validated"), ticket.GetBool("revoked"))
		if result != models.ScanOK {
			return nil
		}
		ticket.Set("is_validated", true)
		ticket.Set("validation_time", time.Now().UTC())
		return txApp.Save(ticket)
	})
	if err != nil {
		return nil, status.From(err)
	}

	monitoring.TrackTicketScan(string(result))
	if result == models.ScanOK {
		s.notifier.Publish(ctx, OrganizerChannel(event.GetString("organizer")), map[string]any{
			"type":     "ticket_validated",
			"pass_id":  passID,
			"event_id": event.Id,
		})
	}

	view := s.scanView(ticket, event, result)
	if result == models.ScanAlreadyValidated {
		return view, status.ErrAlreadyValidated
	}
	return view, nil
}

// scanDecision is the validation state machine: revoked and already
// validated passes are both surfaced as already_validated to the gate.
func scanDecision(isValidated, revoked bool) models.ScanResult {
	if revoked || isValidated {
		return models.ScanAlreadyValidated
	}
	return models.ScanOK
}

func currentScanState(ticket *core.Record) models.ScanResult {
	if ticket.GetBool("is_validated") || ticket.GetBool("revoked") {
		return models.ScanAlreadyValidated
	}
	return models.ScanOK
}

func (s *ScannerService) findPass(passID, organizerID string) (*core.Record, *core.Record, error) {
	ticket, err := s.app.FindFirstRecordByFilter(
		"tickets",
		"pass_id = {:pass}",
		map[string]any{"pass": passID},
	)
	if err != nil {
		return nil, nil, status.NotFound("ticket")
	}
	event, err := s.app.FindRecordById("events", ticket.GetString("event"))
	if err != nil {
		return nil, nil, status.NotFound("ticket")
	}
	if organizerID != "" && event.GetString("organizer") != organizerID {
		return nil, nil, status.NotFound("ticket")
	}
	return ticket, event, nil
}

func (s *ScannerService) scanView(ticket, event *core.Record, result models.ScanResult) *TicketScan {
	view := &TicketScan{
		PassID:       ticket.GetString("pass_id"),
		TicketNo:     int64(ticket.GetInt("ticket_no")),
		EventID:      event.Id,
		EventTitle:   event.GetString("title"),
		AttendeeName: ticket.GetString("attendee_name"),
		Result:       string(result),
	}
	if t := ticket.GetDateTime("validation_time").Time(); !t.IsZero() {
		view.ValidationTime = &t
	}
	return view
}

func deviceKeyID(plaintext string) string {
	return plaintext[4:12]
}
