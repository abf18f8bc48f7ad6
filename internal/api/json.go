package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/sonar/internal/apperr"
	"github.com/starford/sonar/internal/host"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
	// Response is what the plugin signaled before failing.
	Response *host.Response `json:"response,omitempty"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// writeError maps the plugin error taxonomy onto HTTP statuses. Anything
// outside it is an upstream failure. A response that already ended the
// listing or answered the resolve request is included in the body.
func writeError(w http.ResponseWriter, path string, err error, resp host.Response) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, apperr.ErrInvalidRoute), errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrInvalidAction), errors.Is(err, apperr.ErrInvalidParameters):
		status = http.StatusBadRequest
	default:
		slog.Error("invoke failed", slog.String("path", path), slog.String("error", err.Error()))
	}
	body := errorBody(err.Error())
	if resp.Signaled() {
		body.Response = &resp
	}
	writeJSON(w, status, body)
}
