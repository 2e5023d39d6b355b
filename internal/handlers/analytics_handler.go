package handlers

import (
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/internal/services"
	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	accounts  *services.AccountService
	events    *services.EventService
}

func NewAnalyticsHandler(analytics *services.AnalyticsService, accounts *services.AccountService, events *services.EventService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, accounts: accounts, events: events}
}

// approvedProfile resolves the organizer profile behind the account and
// requires an approved status; sales data stays hidden from pending and
// rejected organizers.
func (h *AnalyticsHandler) approvedProfile(e *core.RequestEvent) (*core.Record, error) {
	profile, err := h.accounts.ProfileFor(e.Auth)
	if err != nil {
		return nil, err
	}
	if models.OrganizerStatus(profile.GetString("status")) != models.OrganizerApproved {
		return nil, status.Forbidden("organizer is not approved")
	}
	return profile, nil
}

// EventSales returns the rollup for one event the organizer owns.
func (h *AnalyticsHandler) EventSales(e *core.RequestEvent) error {
	profile, err := h.approvedProfile(e)
	if err != nil {
		return writeError(e, err)
	}

	eventID := e.Request.PathValue("id")
	record, err := h.events.Get(eventID)
	if err != nil {
		return writeError(e, err)
	}
	if record.GetString("organizer") != profile.Id {
		return writeError(e, status.NotFound("event"))
	}

	sales, err := h.analytics.EventSales(e.Request.Context(), eventID)
	if err != nil {
		return writeError(e, err)
	}
	return writeSuccess(e, http.StatusOK, sales)
}

// Dashboard is the organizer's home-screen rollup: totals, per-event
// sales, the trailing monthly series and month-over-month deltas.
func (h *AnalyticsHandler) Dashboard(e *core.RequestEvent) error {
	profile, err := h.approvedProfile(e)
	if err != nil {
		return writeError(e, err)
	}

	summary, err := h.analytics.Dashboard(e.Request.Context(), profile.Id, time.Now())
	if err != nil {
		return writeError(e, err)
	}
	return writeSuccess(e, http.StatusOK, summary)
}
