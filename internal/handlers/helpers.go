package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase/core"
)

// formFile fetches a named multipart file, reporting absence as nil
// rather than an error.
func formFile(e *core.RequestEvent, name string) (*multipart.FileHeader, error) {
	_, fh, err := e.Request.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	return fh, nil
}

func queryInt(e *core.RequestEvent, name string, fallback int) int {
	raw := e.Request.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
