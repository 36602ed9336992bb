package handlers

import (
	"net/http"

	"dictee/internal/audio"
	"dictee/internal/catalog"
	"dictee/internal/i18n"
	"dictee/internal/logger"
)

// AudioHandler tells the client how to play a word
type AudioHandler struct {
	audio   *audio.Service
	catalog *catalog.Service
	log     *logger.Logger
}

// NewAudioHandler creates a new audio handler
func NewAudioHandler(audio *audio.Service, catalog *catalog.Service, log *logger.Logger) *AudioHandler {
	return &AudioHandler{audio: audio, catalog: catalog, log: log}
}

// Audio resolves the word or sentence recording for a catalog word
func (h *AudioHandler) Audio(w http.ResponseWriter, r *http.Request) {
	wordID := r.PathValue("wordId")
	query := r.URL.Query()

	period, words, err := h.catalog.Words(r.Context(), query.Get("period"))
	if err != nil {
		respondWithServiceError(w, h.log, "Error loading catalog", err)
		return
	}

	kind := audio.ParseKind(query.Get("kind"))
	for _, word := range words {
		if word.ID != wordID {
			continue
		}
		if kind == audio.KindSentence && word.Sentence == "" {
			break
		}
		src := h.audio.ForCatalog(period.Catalog).Resolve(r.Context(), word, kind, i18n.ParseLocale(period.Language))
		respondJSON(w, http.StatusOK, src)
		return
	}
	respondWithError(w, h.log, http.StatusNotFound, ErrWordNotFound, "", nil)
}
