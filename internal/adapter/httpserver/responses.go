// Package httpserver exposes the presentation-panel HTTP surface: assistant
// and illustrator endpoints, queue inspection, health, and metrics.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lorekeep/gm-assist/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrQueueFull):
		// Transient failure notice: the panel shows "busy, try again".
		code = http.StatusServiceUnavailable
		codeStr = "QUEUE_FULL"
	case errors.Is(err, domain.ErrCancelled):
		// Result of a deliberate queue clear; low severity.
		code = http.StatusConflict
		codeStr = "CANCELLED"
	case errors.Is(err, domain.ErrTransientUpstream):
		code = http.StatusBadGateway
		codeStr = "UPSTREAM_TRANSIENT"
	case errors.Is(err, domain.ErrTerminalUpstream):
		code = http.StatusBadGateway
		codeStr = "UPSTREAM_TERMINAL"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error()}})
}
