package handlers

import (
	"net/http"

	"dictee/internal/catalog"
	"dictee/internal/logger"
	"dictee/internal/models"
	"dictee/internal/service"
)

// GameHandler exposes the per-device game state machine
type GameHandler struct {
	games   *service.Registry
	catalog *catalog.Service
	log     *logger.Logger
}

// NewGameHandler creates a new game handler
func NewGameHandler(games *service.Registry, catalog *catalog.Service, log *logger.Logger) *GameHandler {
	return &GameHandler{games: games, catalog: catalog, log: log}
}

func (h *GameHandler) game(r *http.Request) *service.Game {
	return h.games.Get(GetDeviceID(r.Context()))
}

type startRequest struct {
	Mode   string `json:"mode"`
	Period string `json:"period"`
}

type continueRequest struct {
	WordID string `json:"wordId"`
}

// Snapshot returns the current game state
func (h *GameHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.game(r).Snapshot())
}

// Start begins a session in the requested mode
func (h *GameHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidRequest, "", err)
		return
	}

	mode, err := models.ParseGameMode(req.Mode)
	if err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, err.Error(), "", err)
		return
	}

	period, words, err := h.catalog.Words(r.Context(), req.Period)
	if err != nil {
		respondWithServiceError(w, h.log, "Error loading catalog", err)
		return
	}

	game := h.game(r)
	if err := game.Start(r.Context(), mode, period, words); err != nil {
		respondWithServiceError(w, h.log, "Error starting game", err)
		return
	}
	respondJSON(w, http.StatusOK, game.Snapshot())
}

// Answer judges the learner's answer for the current word
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var sub service.Submission
	if err := decodeJSON(w, r, &sub); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidRequest, "", err)
		return
	}

	verdict, err := h.game(r).Answer(r.Context(), sub)
	if err != nil {
		respondWithServiceError(w, h.log, "Error answering", err)
		return
	}
	respondJSON(w, http.StatusOK, verdict)
}

// Continue skips the remaining feedback delay
func (h *GameHandler) Continue(w http.ResponseWriter, r *http.Request) {
	var req continueRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondWithError(w, h.log, http.StatusBadRequest, ErrInvalidRequest, "", err)
		return
	}

	game := h.game(r)
	if err := game.Continue(r.Context(), req.WordID); err != nil {
		respondWithServiceError(w, h.log, "Error continuing", err)
		return
	}
	respondJSON(w, http.StatusOK, game.Snapshot())
}

// Menu abandons the current session
func (h *GameHandler) Menu(w http.ResponseWriter, r *http.Request) {
	game := h.game(r)
	game.ReturnToMenu()
	respondJSON(w, http.StatusOK, game.Snapshot())
}

// Browse opens the word list view
func (h *GameHandler) Browse(w http.ResponseWriter, r *http.Request) {
	game := h.game(r)
	if err := game.BrowseCatalog(); err != nil {
		respondWithServiceError(w, h.log, "Error opening word list", err)
		return
	}
	respondJSON(w, http.StatusOK, game.Snapshot())
}
