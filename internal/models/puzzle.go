package models

// BlankMarker replaces hidden letters in a puzzle's display word
const BlankMarker = '_'

// MissingLetterPuzzle is a word with some interior letters hidden
type MissingLetterPuzzle struct {
	DisplayWord    string   `json:"displayWord"`    // Word with blanks for missing letters
	MissingIndices []int    `json:"missingIndices"` // Rune offsets, ascending
	MissingLetters []string `json:"missingLetters"` // Letters at MissingIndices, same order
}
