package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"dictee/internal/catalog"
	"dictee/internal/logger"
	"dictee/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
	Retry bool   `json:"retry,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondWithError(w http.ResponseWriter, log *logger.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		if status >= http.StatusInternalServerError {
			log.Error(logMsg, "status", status, "error", err)
		} else {
			log.Debug(logMsg, "status", status, "error", err)
		}
	}

	respondJSON(w, status, errorResponse{Error: userMsg, Retry: status == http.StatusServiceUnavailable})
}

// respondWithServiceError maps domain errors onto HTTP statuses
func respondWithServiceError(w http.ResponseWriter, log *logger.Logger, logMsg string, err error) {
	status, msg := statusForError(err)
	respondWithError(w, log, status, msg, logMsg, err)
}

func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, catalog.ErrPeriodNotFound):
		return http.StatusNotFound, ErrPeriodNotFound
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return http.StatusServiceUnavailable, ErrCatalogUnavailable
	case errors.Is(err, service.ErrEmptyCatalog):
		return http.StatusUnprocessableEntity, ErrNoWords
	case errors.Is(err, service.ErrEmptyAnswer),
		errors.Is(err, service.ErrIncompleteAnswer),
		errors.Is(err, service.ErrLetterNotOffered):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrStaleAnswer),
		errors.Is(err, service.ErrAlreadyAnswered),
		errors.Is(err, service.ErrNoPendingAnswer),
		errors.Is(err, service.ErrSessionComplete):
		return http.StatusConflict, ErrConflict
	}
	return http.StatusInternalServerError, ErrInternalServerError
}

// decodeJSON reads a bounded JSON body into v
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	return json.NewDecoder(r.Body).Decode(v)
}
