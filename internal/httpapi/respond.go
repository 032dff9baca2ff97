// Package httpapi holds the JSON response helpers shared by all handlers.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"firewatch/internal/apperror"
)

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// Error translates a domain error to its transport status code. Unknown
// errors become 500 with the cause logged, not echoed to the caller.
func Error(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, apperror.ErrInvalidInput):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperror.ErrUnauthenticated):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, apperror.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, apperror.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperror.ErrInvalidTransition):
		status = http.StatusConflict
		message = err.Error()
	default:
		if logger != nil {
			logger.Error("request failed", "err", err)
		}
	}

	JSON(w, status, errorBody{Error: message})
}
