package handlers

import (
	"net/http"

	"dictee/internal/i18n"
)

// LocaleHandler serves interface strings and keyboard helpers
type LocaleHandler struct {
	defaultLocale i18n.Locale
}

// NewLocaleHandler creates a new locale handler
func NewLocaleHandler(defaultLocale i18n.Locale) *LocaleHandler {
	return &LocaleHandler{defaultLocale: defaultLocale}
}

type localeResponse struct {
	Locale     i18n.Locale  `json:"locale"`
	Voice      string       `json:"voice"`
	AccentKeys []string     `json:"accentKeys"`
	Strings    i18n.Strings `json:"strings"`
}

// Locale returns the tables for ?lang= or the Accept-Language header
func (h *LocaleHandler) Locale(w http.ResponseWriter, r *http.Request) {
	locale := h.defaultLocale
	if tag := r.URL.Query().Get("lang"); tag != "" {
		locale = i18n.ParseLocale(tag)
	} else if header := r.Header.Get("Accept-Language"); header != "" {
		locale = i18n.MatchAcceptLanguage(header)
	}

	respondJSON(w, http.StatusOK, localeResponse{
		Locale:     locale,
		Voice:      locale.Voice(),
		AccentKeys: locale.AccentCharacters(),
		Strings:    locale.Strings(),
	})
}
