// Package i18n holds the static per-language tables: letter clusters for
// the missing-letter puzzle, distractor letters, accent keys, speech
// voices and interface strings. Tables are built once and never mutated.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Locale is a supported language tag
type Locale string

const (
	French  Locale = "fr"
	English Locale = "en"
)

// DefaultLocale is used for unknown or unsupported tags
const DefaultLocale = French

type localeTables struct {
	patterns    []string
	distractors []string
	accents     []string
	voice       string
	strings     Strings
}

var tables = map[Locale]localeTables{
	French: {
		patterns:    []string{"ou", "on", "ch", "oi", "an", "en", "ai", "au", "eau", "ei", "eu"},
		distractors: []string{"a", "e", "i", "o", "u", "n", "s", "t", "r", "l", "c", "m", "p", "d"},
		accents:     []string{"é", "è", "ê", "ë", "à", "â", "ç", "î", "ï", "ô", "û", "ù"},
		voice:       "fr-FR",
		strings:     frenchStrings,
	},
	English: {
		patterns:    []string{"th", "sh", "ch", "ck", "ee", "oo", "ea", "ou", "igh", "ai", "oa"},
		distractors: []string{"a", "e", "i", "o", "u", "n", "s", "t", "r", "l", "c", "m", "p", "d"},
		accents:     []string{},
		voice:       "en-US",
		strings:     englishStrings,
	},
}

var matcher = language.NewMatcher([]language.Tag{language.French, language.English})

// MatchAcceptLanguage picks the supported locale that best fits an
// Accept-Language header
func MatchAcceptLanguage(header string) Locale {
	tag, _ := language.MatchStrings(matcher, header)
	base, _ := tag.Base()
	return ParseLocale(base.String())
}

// ParseLocale maps any BCP-47 tag ("fr-CA", "en_GB", "EN") to a supported
// locale, falling back to DefaultLocale.
func ParseLocale(tag string) Locale {
	tag = strings.ReplaceAll(strings.TrimSpace(tag), "_", "-")
	if tag == "" {
		return DefaultLocale
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return DefaultLocale
	}
	base, _ := parsed.Base()
	loc := Locale(base.String())
	if _, ok := tables[loc]; !ok {
		return DefaultLocale
	}
	return loc
}

// Supported reports whether l has tables
func (l Locale) Supported() bool {
	_, ok := tables[l]
	return ok
}

func (l Locale) tables() localeTables {
	if t, ok := tables[l]; ok {
		return t
	}
	return tables[DefaultLocale]
}

// Patterns returns the ordered letter clusters targeted by the missing-letter puzzle
func (l Locale) Patterns() []string { return clone(l.tables().patterns) }

// DistractorLetters returns common letters offered as wrong choices
func (l Locale) DistractorLetters() []string { return clone(l.tables().distractors) }

// AccentCharacters returns the helper keys shown for typed answers
func (l Locale) AccentCharacters() []string { return clone(l.tables().accents) }

// Voice returns the BCP-47 tag used for speech synthesis
func (l Locale) Voice() string { return l.tables().voice }

// Strings returns the interface strings
func (l Locale) Strings() Strings { return l.tables().strings }

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
