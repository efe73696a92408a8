package utils

import (
	"net/http"

	"github.com/edgecraft/backend/internal/apperr"
)

// RespondAppError maps a classified error onto an HTTP status and writes
// the error envelope.
func RespondAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperr.KindOf(err) {
	case apperr.Validation:
		status = http.StatusBadRequest
	case apperr.Auth:
		status = http.StatusUnauthorized
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.Conflict:
		status = http.StatusConflict
	case apperr.Store:
		status = http.StatusServiceUnavailable
	case apperr.Generation:
		status = http.StatusBadGateway
	}
	RespondError(w, status, err.Error())
}
