package service

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a typed answer: NFC composition, surrounding
// whitespace trimmed, lower case. Accents are significant.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(text)))
}

// Compare reports whether answer matches reference after normalization
func Compare(answer, reference string) bool {
	return Normalize(answer) == Normalize(reference)
}
