package handlers

import (
	"net/http"

	"dictee/internal/catalog"
	"dictee/internal/i18n"
	"dictee/internal/logger"
	"dictee/internal/models"
	"dictee/internal/service"
)

// CatalogHandler serves practice periods and word lists
type CatalogHandler struct {
	catalog *catalog.Service
	games   *service.Registry
	log     *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalog *catalog.Service, games *service.Registry, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, games: games, log: log}
}

type periodsResponse struct {
	Active  string          `json:"active"`
	Periods []models.Period `json:"periods"`
}

type wordRow struct {
	models.Word
	Mastered      bool    `json:"mastered"`
	CorrectStreak int     `json:"correctStreak"`
	TotalAttempts int     `json:"totalAttempts"`
	Accuracy      float64 `json:"accuracy"`
}

type wordListResponse struct {
	Period   models.Period `json:"period"`
	Words    []wordRow     `json:"words"`
	Total    int           `json:"total"`
	Mastered int           `json:"mastered"`
	Stats    string        `json:"stats"`
}

// Periods lists the practice periods, most recent first
func (h *CatalogHandler) Periods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.catalog.Periods(r.Context())
	if err != nil {
		respondWithServiceError(w, h.log, "Error loading periods", err)
		return
	}
	respondJSON(w, http.StatusOK, periodsResponse{Active: periods[0].ID, Periods: periods})
}

// Words lists a period's catalog with the device's mastery
func (h *CatalogHandler) Words(w http.ResponseWriter, r *http.Request) {
	h.respondWordList(w, r)
}

// Refresh drops cached catalogs and returns the reloaded list
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.catalog.Refresh()
	h.respondWordList(w, r)
}

func (h *CatalogHandler) respondWordList(w http.ResponseWriter, r *http.Request) {
	period, words, err := h.catalog.Words(r.Context(), r.URL.Query().Get("period"))
	if err != nil {
		respondWithServiceError(w, h.log, "Error loading catalog", err)
		return
	}

	progress, err := h.games.Get(GetDeviceID(r.Context())).Progress(r.Context())
	if err != nil {
		respondWithError(w, h.log, http.StatusInternalServerError, ErrInternalServerError, "Error loading progress", err)
		return
	}

	rows := make([]wordRow, len(words))
	for i, word := range words {
		p := progress[word.ID]
		rows[i] = wordRow{
			Word:          word,
			Mastered:      p.Mastered,
			CorrectStreak: p.CorrectStreak,
			TotalAttempts: p.TotalAttempts,
			Accuracy:      p.Accuracy(),
		}
	}

	mastered := service.MasteredCount(words, progress)
	locale := i18n.ParseLocale(period.Language)
	respondJSON(w, http.StatusOK, wordListResponse{
		Period:   period,
		Words:    rows,
		Total:    len(words),
		Mastered: mastered,
		Stats:    locale.Strings().WordListStats(len(words), mastered),
	})
}
