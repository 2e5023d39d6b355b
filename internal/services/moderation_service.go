package services

import (
	"context"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
)

// ModerationService drives the two status machines: organizer approval and
// the event lifecycle. Decisions push a realtime message to the affected
// account's channel; the free-text note on rejections is persisted on the
// subject record and echoed back.
type ModerationService struct {
	app      core.App
	notifier *Notifier
}

func NewModerationService(app core.App, notifier *Notifier) *ModerationService {
	return &ModerationService{app: app, notifier: notifier}
}

// PendingOrganizers lists organizer profiles awaiting review, oldest
// first.
func (s *ModerationService) PendingOrganizers() ([]*core.Record, error) {
	records, err := s.app.FindRecordsByFilter(
		"organizers",
		"status = {:status}",
		"created",
		-1,
		0,
		map[string]any{"status": string(models.OrganizerPending)},
	)
	if err != nil {
		return nil, status.Internal(err)
	}
	return records, nil
}

// PendingEvents lists events awaiting moderation, oldest first.
func (s *ModerationService) PendingEvents() ([]*core.Record, error) {
	records, err := s.app.FindRecordsByFilter(
		"events",
		"status = {:status}",
		"created",
		-1,
		0,
		map[string]any{"status": string(models.EventPending)},
	)
	if err != nil {
		return nil, status.Internal(err)
	}
	return records, nil
}

func (s *ModerationService) ApproveOrganizer(ctx context.Context, organizerID string) (*core.Record, error) {
	return s.moderateOrganizer(ctx, organizerID, "", models.ApproveOrganizer)
}

func (s *ModerationService) RejectOrganizer(ctx context.Context, organizerID, note string) (*core.Record, error) {
	return s.moderateOrganizer(ctx, organizerID, note, models.RejectOrganizer)
}

func (s *ModerationService) moderateOrganizer(ctx context.Context, organizerID, note string, transition func(models.OrganizerStatus) (models.OrganizerStatus, error)) (*core.Record, error) {
	record, err := s.app.FindRecordById("organizers", organizerID)
	if err != nil {
		return nil, status.NotFound("organizer")
	}

	next, err := transition(models.OrganizerStatus(record.GetString("status")))
	if err != nil {
		return nil, err
	}

	record.Set("status", string(next))
	if note != "" {
		record.Set("moderation_note", note)
	}
	if err := s.app.Save(record); err != nil {
		return nil, status.Internal(err)
	}

	s.notifier.Publish(ctx, OrganizerChannel(record.Id), map[string]any{
		"type":   "organizer_status",
		"status": string(next),
		"note":   note,
	})
	return record, nil
}

// ApproveEvent and CancelEvent are the admin moderation actions; the legal
// source states are defined by the transition table in models.
func (s *ModerationService) ApproveEvent(ctx context.Context, eventID string) (*core.Record, error) {
	return s.transitionEvent(ctx, eventID, "", "", models.ApproveEvent)
}

func (s *ModerationService) CancelEvent(ctx context.Context, eventID, note string) (*core.Record, error) {
	return s.transitionEvent(ctx, eventID, "", note, models.CancelEvent)
}

// SubmitEvent, GoLiveEvent and CompleteEvent are the organizer's own
// forward transitions. organizerID must own the event.
func (s *ModerationService) SubmitEvent(ctx context.Context, eventID, organizerID string) (*core.Record, error) {
	return s.transitionEvent(ctx, eventID, organizerID, "", models.SubmitEvent)
}

func (s *ModerationService) GoLiveEvent(ctx context.Context, eventID, organizerID string, now time.Time) (*core.Record, error) {
	record, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return nil, status.NotFound("event")
	}
	saleStart := record.GetDateTime("sale_start_at").Time()
	saleEnd := record.GetDateTime("sale_end_at").Time()
	if now.Before(saleStart) || now.After(saleEnd) {
		return nil, status.Conflict("event can only go live inside its ticket sale window")
	}
	return s.transitionEvent(ctx, eventID, organizerID, "", models.GoLiveEvent)
}

func (s *ModerationService) CompleteEvent(ctx context.Context, eventID, organizerID string) (*core.Record, error) {
	return s.transitionEvent(ctx, eventID, organizerID, "", models.CompleteEvent)
}

func (s *ModerationService) transitionEvent(ctx context.Context, eventID, organizerID, note string, transition func(models.EventStatus) (models.EventStatus, error)) (*core.Record, error) {
	record, err := s.app.FindRecordById("events", eventID)
	if err != nil {
		return nil, status.NotFound("event")
	}
	if organizerID != "" && record.GetString("organizer") != organizerID {
		return nil, status.Forbidden("event belongs to another organizer")
	}

	next, err := transition(models.EventStatus(record.GetString("status")))
	if err != nil {
		return nil, err
	}

	record.Set("status", string(next))
	if note != "" {
		record.Set("moderation_note", note)
	}
	if err := s.app.Save(record); err != nil {
		return nil, status.Internal(err)
	}

	s.notifier.Publish(ctx, OrganizerChannel(record.GetString("organizer")), map[string]any{
		"type":     "event_status",
		"event_id": record.Id,
		"status":   string(next),
		"note":     note,
	})
	return record, nil
}
