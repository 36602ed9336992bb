package handlers

import (
	"net/http"

	"dictee/internal/logger"
	"dictee/internal/service"
)

// ProgressHandler exposes and resets a device's stored progress
type ProgressHandler struct {
	games *service.Registry
	log   *logger.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(games *service.Registry, log *logger.Logger) *ProgressHandler {
	return &ProgressHandler{games: games, log: log}
}

// Get returns the full progress map
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	progress, err := h.games.Get(GetDeviceID(r.Context())).Progress(r.Context())
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, ErrInternalServerError, "Error loading progress", err)
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

// Clear wipes all progress for the device
func (h *ProgressHandler) Clear(w http.ResponseWriter, r *http.Request) {
	deviceID := GetDeviceID(r.Context())
	if err := h.games.Get(deviceID).ResetProgress(r.Context()); err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, ErrInternalServerError, "Error clearing progress", err)
		return
	}
	h.log.Info("progress cleared", "device", deviceID)
	w.WriteHeader(http.StatusNoContent)
}
