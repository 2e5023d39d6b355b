package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/internal/services"
	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
)

type EventHandler struct {
	events     *services.EventService
	accounts   *services.AccountService
	moderation *services.ModerationService
	uploads    *services.UploadService
	analytics  *services.AnalyticsService
}

func NewEventHandler(events *services.EventService, accounts *services.AccountService, moderation *services.ModerationService, uploads *services.UploadService, analytics *services.AnalyticsService) *EventHandler {
	return &EventHandler{events: events, accounts: accounts, moderation: moderation, uploads: uploads, analytics: analytics}
}

// organizerProfile resolves the organizer profile behind the
// authenticated account.
func (h *EventHandler) organizerProfile(e *core.RequestEvent) (*core.Record, error) {
	return h.accounts.ProfileFor(e.Auth)
}

// Create accepts multipart form data: an "event" JSON part describing the
// event plus an optional "banner" image.
func (h *EventHandler) Create(e *core.RequestEvent) error {
	organizer, err := h.organizerProfile(e)
	if err != nil {
		return writeError(e, err)
	}

	params, bannerErr := h.bindEventForm(e)
	if bannerErr != nil {
		return writeError(e, bannerErr)
	}

	record, err := h.events.Create(e.Request.Context(), organizer, params)
	if err != nil {
		return writeError(e, err)
	}

	if fh, fhErr := formFile(e, "banner"); fhErr == nil && fh != nil {
		file, err := h.uploads.Prepare(fh, services.UploadEventBanner)
		if err != nil {
			return writeError(e, err)
		}
		if err := h.events.SaveBanner(record, file); err != nil {
			return writeError(e, err)
		}
	}

	if _, err := h.events.RecomputeEventCount(organizer); err != nil {
		e.App.Logger().Warn("event count refresh failed", "organizer", organizer.Id, "error", err)
	}

	return writeMessage(e, http.StatusCreated, record, "event created")
}

func (h *EventHandler) Update(e *core.RequestEvent) error {
	organizer, err := h.organizerProfile(e)
	if err != nil {
		return writeError(e, err)
	}

	params, bannerErr := h.bindEventForm(e)
	if bannerErr != nil {
		return writeError(e, bannerErr)
	}

	record, err := h.events.Update(e.Request.Context(), e.Request.PathValue("id"), organizer.Id, params)
	if err != nil {
		return writeError(e, err)
	}

	if fh, fhErr := formFile(e, "banner"); fhErr == nil && fh != nil {
		file, err := h.uploads.Prepare(fh, services.UploadEventBanner)
		if err != nil {
			return writeError(e, err)
		}
		if err := h.events.SaveBanner(record, file); err != nil {
			return writeError(e, err)
		}
	}

	return writeSuccess(e, http.StatusOK, record)
}

// Get is the public event detail endpoint. The sales summary is best
// effort: when aggregation fails the event still renders, with zeros.
func (h *EventHandler) Get(e *core.RequestEvent) error {
	eventID := e.Request.PathValue("id")
	record, err := h.events.GetExpanded(eventID)
	if err != nil {
		return writeError(e, err)
	}

	sales, err := h.analytics.EventSales(e.Request.Context(), eventID)
	if err != nil {
		e.App.Logger().Warn("event sales summary failed", "event", eventID, "error", err)
		sales = &models.EventSales{EventID: eventID}
	}

	return writeSuccess(e, http.StatusOK, map[string]any{
		"event": record,
		"sales": sales,
	})
}

func (h *EventHandler) ListPublic(e *core.RequestEvent) error {
	limit := queryInt(e, "limit", 30)
	offset := queryInt(e, "offset", 0)

	records, err := h.events.ListPublic(limit, offset)
	if err != nil {
		return writeError(e, err)
	}
	return writeSuccess(e, http.StatusOK, records)
}

func (h *EventHandler) ListMine(e *core.RequestEvent) error {
	organizer, err := h.organizerProfile(e)
	if err != nil {
		return writeError(e, err)
	}
	records, err := h.events.ListByOrganizer(organizer.Id)
	if err != nil {
		return writeError(e, err)
	}

	// the stored event_count is a cache; list reads refresh it
	count, err := h.events.RecomputeEventCount(organizer)
	if err != nil {
		e.App.Logger().Warn("event count refresh failed", "organizer", organizer.Id, "error", err)
	}

	return writeSuccess(e, http.StatusOK, map[string]any{
		"events":      records,
		"event_count": count,
	})
}

// Submit moves a draft into the moderation queue.
func (h *EventHandler) Submit(e *core.RequestEvent) error {
	organizer, err := h.organizerProfile(e)
	if err != nil {
		return writeError(e, err)
	}
	record, err := h.moderation.SubmitEvent(e.Request.Context(), e.Request.PathValue("id"), organizer.Id)
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, record, "event submitted for review")
}

func (h *EventHandler) GoLive(e *core.RequestEvent) error {
	organizer, err := h.organizerProfile(e)
	if err != nil {
		return writeError(e, err)
	}
	record, err := h.moderation.GoLiveEvent(e.Request.Context(), e.Request.PathValue("id"), organizer.Id, time.Now())
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, record, "event is live")
}

func (h *EventHandler) Complete(e *core.RequestEvent) error {
	organizer, err := h.organizerProfile(e)
	if err != nil {
		return writeError(e, err)
	}
	record, err := h.moderation.CompleteEvent(e.Request.Context(), e.Request.PathValue("id"), organizer.Id)
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, record, "event completed")
}

// bindEventForm reads the event payload from either a plain JSON body or
// the "event" part of a multipart form.
func (h *EventHandler) bindEventForm(e *core.RequestEvent) (services.EventParams, error) {
	var params services.EventParams

	if raw := e.Request.FormValue("event"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &params); err != nil {
			return params, status.Validation("event", "is not valid JSON")
		}
		return params, nil
	}
	if err := e.BindBody(&params); err != nil {
		return params, status.Validation("body", "is not a valid event payload")
	}
	return params, nil
}
