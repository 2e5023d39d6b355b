package models

import (
	"ticket-marketplace/internal/status"
)

type OrganizerStatus string

const (
	OrganizerPending  OrganizerStatus = "pending"
	OrganizerApproved OrganizerStatus = "approved"
	OrganizerRejected OrganizerStatus = "rejected"
)

// ApproveOrganizer allows pending -> approved only. Approving an organizer
// that already reached a terminal state for this action is a conflict, not
// a silent no-op.
func ApproveOrganizer(s OrganizerStatus) (OrganizerStatus, error) {
	switch s {
	case OrganizerPending:
		return OrganizerApproved, nil
	case OrganizerApproved:
		return s, status.Conflict("organizer is already approved")
	case OrganizerRejected:
		return s, status.Conflict("cannot approve a rejected organizer")
	}
	return s, status.Conflict("unknown organizer status " + string(s))
}

// RejectOrganizer allows pending -> rejected and approved -> rejected.
// Rejected is terminal.
func RejectOrganizer(s OrganizerStatus) (OrganizerStatus, error) {
	switch s {
	case OrganizerPending, OrganizerApproved:
		return OrganizerRejected, nil
	case OrganizerRejected:
		return s, status.Conflict("organizer is already rejected")
	}
	return s, status.Conflict("unknown organizer status " + string(s))
}

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPending   EventStatus = "pending"
	EventApproved  EventStatus = "approved"
	EventLive      EventStatus = "live"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// ApproveEvent is legal from draft and pending only. Every illegal source
// state yields its own rejection reason.
func ApproveEvent(s EventStatus) (EventStatus, error) {
	switch s {
	case EventDraft, EventPending:
		return EventApproved, nil
	case EventApproved:
		return s, status.Conflict("event is already approved")
	case EventLive:
		return s, status.Conflict("cannot approve an event that is already live")
	case EventCompleted:
		return s, status.Conflict("cannot approve a completed event")
	case EventCancelled:
		return s, status.Conflict("cannot approve a cancelled event")
	}
	return s, status.Conflict("unknown event status " + string(s))
}

// CancelEvent models admin rejection. Illegal from live and completed, and
// a repeated cancellation is a conflict.
func CancelEvent(s EventStatus) (EventStatus, error) {
	switch s {
	case EventDraft, EventPending, EventApproved:
		return EventCancelled, nil
	case EventLive:
		return s, status.Conflict("cannot cancel a live event")
	case EventCompleted:
		return s, status.Conflict("cannot cancel a completed event")
	case EventCancelled:
		return s, status.Conflict("event is already cancelled")
	}
	return s, status.Conflict("unknown event status " + string(s))
}

// SubmitEvent moves an organizer's draft into the moderation queue.
func SubmitEvent(s EventStatus) (EventStatus, error) {
	if s == EventDraft {
		return EventPending, nil
	}
	return s, status.Conflict("only draft events can be submitted for review")
}

// GoLiveEvent opens sales on an approved event. The sale-window check is
// the caller's job; the machine only guards the state.
func GoLiveEvent(s EventStatus) (EventStatus, error) {
	if s == EventApproved {
		return EventLive, nil
	}
	return s, status.Conflict("only approved events can go live")
}

// CompleteEvent closes out a live event.
func CompleteEvent(s EventStatus) (EventStatus, error) {
	if s == EventLive {
		return EventCompleted, nil
	}
	return s, status.Conflict("only live events can be completed")
}
