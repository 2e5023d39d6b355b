package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/internal/services"
)

// AdminHandler groups the moderation and marketplace-administration
// endpoints. Every route here sits behind the admin role guard.
type AdminHandler struct {
	moderation *services.ModerationService
	accounts   *services.AccountService
	analytics  *services.AnalyticsService
}

func NewAdminHandler(moderation *services.ModerationService, accounts *services.AccountService, analytics *services.AnalyticsService) *AdminHandler {
	return &AdminHandler{moderation: moderation, accounts: accounts, analytics: analytics}
}

func (h *AdminHandler) PendingOrganizers(e *core.RequestEvent) error {
	records, err := h.moderation.PendingOrganizers()
	if err != nil {
		return writeError(e, err)
	}
	return writeSuccess(e, http.StatusOK, records)
}

func (h *AdminHandler) ApproveOrganizer(e *core.RequestEvent) error {
	record, err := h.moderation.ApproveOrganizer(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, record, "organizer approved")
}

type moderationRequest struct {
	Note string `json:"note"`
}

func (h *AdminHandler) RejectOrganizer(e *core.RequestEvent) error {
	var req moderationRequest
	if err := e.BindBody(&req); err != nil {
		return badRequest(e, "invalid request body")
	}

	record, err := h.moderation.RejectOrganizer(e.Request.Context(), e.Request.PathValue("id"), req.Note)
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, record, "organizer rejected")
}

func (h *AdminHandler) PendingEvents(e *core.RequestEvent) error {
	records, err := h.moderation.PendingEvents()
	if err != nil {
		return writeError(e, err)
	}
	return writeSuccess(e, http.StatusOK, records)
}

func (h *AdminHandler) ApproveEvent(e *core.RequestEvent) error {
	record, err := h.moderation.ApproveEvent(e.Request.Context(), e.Request.PathValue("id"))
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, record, "event approved")
}

func (h *AdminHandler) CancelEvent(e *core.RequestEvent) error {
	var req moderationRequest
	if err := e.BindBody(&req); err != nil {
		return badRequest(e, "invalid request body")
	}

	record, err := h.moderation.CancelEvent(e.Request.Context(), e.Request.PathValue("id"), req.Note)
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, record, "event cancelled")
}

// RemoveAccount hard-deletes an account and its profile.
func (h *AdminHandler) RemoveAccount(e *core.RequestEvent) error {
	if err := h.accounts.RemoveAccount(e.Request.Context(), e.Request.PathValue("id")); err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, nil, "account removed")
}

// GenreSales is the marketplace-wide revenue breakdown by genre.
func (h *AdminHandler) GenreSales(e *core.RequestEvent) error {
	sales, err := h.analytics.GenreSales(e.Request.Context())
	if err != nil {
		return writeError(e, err)
	}
	return writeSuccess(e, http.StatusOK, sales)
}
