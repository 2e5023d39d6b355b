package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/internal/services"
	"ticket-marketplace/internal/status"
	"ticket-marketplace/models"
)

const scannerKeyHeader = "X-Scanner-Key"

type ScannerHandler struct {
	scanner  *services.ScannerService
	accounts *services.AccountService
}

func NewScannerHandler(scanner *services.ScannerService, accounts *services.AccountService) *ScannerHandler {
	return &ScannerHandler{scanner: scanner, accounts: accounts}
}

// scanningOrganizer resolves who is scanning: either an authenticated
// organizer account or a registered device presenting its key header.
func (h *ScannerHandler) scanningOrganizer(e *core.RequestEvent) (string, error) {
	if key := e.Request.Header.Get(scannerKeyHeader); key != "" {
		device, err := h.scanner.AuthorizeDeviceKey(e.Request.Context(), key)
		if err != nil {
			return "", err
		}
		return device.GetString("organizer"), nil
	}

	if e.Auth != nil && models.Role(e.Auth.GetString("role")) == models.RoleOrganizer {
		profile, err := h.accounts.ProfileFor(e.Auth)
		if err != nil {
			return "", err
		}
		if models.OrganizerStatus(profile.GetString("status")) != models.OrganizerApproved {
			return "", status.Forbidden("organizer is not approved")
		}
		return profile.Id, nil
	}
	return "", status.Unauthenticated("scanner key or organizer login required")
}

// Lookup shows a pass's current state without validating it.
func (h *ScannerHandler) Lookup(e *core.RequestEvent) error {
	organizerID, err := h.scanningOrganizer(e)
	if err != nil {
		return writeError(e, err)
	}

	scan, err := h.scanner.Lookup(e.Request.Context(), e.Request.PathValue("passId"), organizerID)
	if err != nil {
		return writeError(e, err)
	}
	return writeSuccess(e, http.StatusOK, scan)
}

// Validate flips a pass to validated. Re-scans of an already used pass
// come back 409 with the original validation time so the gate can show
// when the first entry happened.
func (h *ScannerHandler) Validate(e *core.RequestEvent) error {
	organizerID, err := h.scanningOrganizer(e)
	if err != nil {
		return writeError(e, err)
	}

	scan, err := h.scanner.Validate(e.Request.Context(), e.Request.PathValue("passId"), organizerID)
	if err != nil {
		if errors.Is(err, status.ErrAlreadyValidated) && scan != nil {
			return e.JSON(http.StatusConflict, errorEnvelope{
				Success: false,
				Error:   status.ErrAlreadyValidated.Message,
				Details: scan,
			})
		}
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, scan, "ticket validated")
}

type registerDeviceRequest struct {
	Name string `json:"name"`
}

// RegisterDevice issues a new scanning key. The plaintext key appears in
// this response only; afterwards only its hash exists.
func (h *ScannerHandler) RegisterDevice(e *core.RequestEvent) error {
	profile, err := h.accounts.ProfileFor(e.Auth)
	if err != nil {
		return writeError(e, err)
	}

	var req registerDeviceRequest
	if err := e.BindBody(&req); err != nil {
		return badRequest(e, "invalid request body")
	}

	device, key, err := h.scanner.RegisterDevice(e.Request.Context(), profile.Id, req.Name)
	if err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusCreated, map[string]any{
		"device": device,
		"key":    key,
	}, "store this key now; it cannot be retrieved again")
}

func (h *ScannerHandler) ListDevices(e *core.RequestEvent) error {
	profile, err := h.accounts.ProfileFor(e.Auth)
	if err != nil {
		return writeError(e, err)
	}
	devices, err := h.scanner.ListDevices(profile.Id)
	if err != nil {
		return writeError(e, err)
	}
	return writeSuccess(e, http.StatusOK, devices)
}

func (h *ScannerHandler) RevokeDevice(e *core.RequestEvent) error {
	profile, err := h.accounts.ProfileFor(e.Auth)
	if err != nil {
		return writeError(e, err)
	}
	if err := h.scanner.RevokeDevice(e.Request.Context(), e.Request.PathValue("id"), profile.Id); err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, nil, "device revoked")
}
