package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/internal/services"
	"ticket-marketplace/models"
)

type AccountHandler struct {
	accounts *services.AccountService
}

func NewAccountHandler(accounts *services.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register handles self sign-up for users and organizers.
func (h *AccountHandler) Register(e *core.RequestEvent) error {
	var params services.RegisterParams
	if err := e.BindBody(&params); err != nil {
		return badRequest(e, "invalid request body")
	}

	account, profile, err := h.accounts.Register(e.Request.Context(), params)
	if err != nil {
		return writeError(e, err)
	}

	return writeMessage(e, http.StatusCreated, map[string]any{
		"account": services.DecodeAccount(account),
		"profile": services.DecodeProfile(params.Role, profile),
	}, "account created")
}

// Me returns the authenticated account together with its role profile.
func (h *AccountHandler) Me(e *core.RequestEvent) error {
	profile, err := h.accounts.ProfileFor(e.Auth)
	if err != nil {
		return writeError(e, err)
	}
	role := models.Role(e.Auth.GetString("role"))
	return writeSuccess(e, http.StatusOK, map[string]any{
		"account": services.DecodeAccount(e.Auth),
		"profile": services.DecodeProfile(role, profile),
	})
}

func (h *AccountHandler) UpdateProfile(e *core.RequestEvent) error {
	var params services.ProfileParams
	if err := e.BindBody(&params); err != nil {
		return badRequest(e, "invalid request body")
	}

	profile, err := h.accounts.UpdateProfile(e.Request.Context(), e.Auth, params)
	if err != nil {
		return writeError(e, err)
	}
	return writeSuccess(e, http.StatusOK, services.DecodeProfile(models.Role(e.Auth.GetString("role")), profile))
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *AccountHandler) ChangePassword(e *core.RequestEvent) error {
	var req changePasswordRequest
	if err := e.BindBody(&req); err != nil {
		return badRequest(e, "invalid request body")
	}

	if err := h.accounts.ChangePassword(e.Request.Context(), e.Auth, req.OldPassword, req.NewPassword); err != nil {
		return writeError(e, err)
	}
	return writeMessage(e, http.StatusOK, nil, "password changed")
}
