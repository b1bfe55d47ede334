// Package devstub is a small in-memory stand-in for the gift backend, used
// for local development of the web gateway. It speaks the same wire format:
// JSON bodies, and {"detail": "..."} on failure.
package devstub

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Adams521/everything-gift/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, models.ErrorResponse{Detail: detail})
}
