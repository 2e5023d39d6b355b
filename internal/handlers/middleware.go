package handlers

import (
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/models"
)

// RequireRole gates a route group on the authenticated account's role.
func RequireRole(roles ...models.Role) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if e.Auth == nil {
			return apis.NewUnauthorizedError("Authentication required", nil)
		}
		role := models.Role(e.Auth.GetString("role"))
		for _, allowed := range roles {
			if role == allowed {
				return e.Next()
			}
		}
		return apis.NewForbiddenError("Insufficient permissions", nil)
	}
}
