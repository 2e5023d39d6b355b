package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"

	"ticket-marketplace/internal/status"
)

// All endpoints speak the same envelope: {"success": true, "data": ...}
// on the happy path, {"success": false, "error": ...} otherwise.

type successEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func writeSuccess(e *core.RequestEvent, code int, data any) error {
	return e.JSON(code, successEnvelope{Success: true, Data: data})
}

func writeMessage(e *core.RequestEvent, code int, data any, message string) error {
	return e.JSON(code, successEnvelope{Success: true, Data: data, Message: message})
}

// writeError maps the error taxonomy onto transport codes. Internal
// causes are logged server-side and never leak into the response body.
func writeError(e *core.RequestEvent, err error) error {
	se := status.From(err)
	if se.Kind == status.KindInternal {
		e.App.Logger().Error("request failed",
			"path", e.Request.URL.Path,
			"error", se.Unwrap(),
		)
	}

	envelope := errorEnvelope{Success: false, Error: se.Message}
	if se.Field != "" {
		envelope.Details = map[string]string{se.Field: se.Message}
	}
	return e.JSON(se.HTTPStatus(), envelope)
}

func badRequest(e *core.RequestEvent, message string) error {
	return e.JSON(http.StatusBadRequest, errorEnvelope{Success: false, Error: message})
}
