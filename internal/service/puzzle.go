package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"dictee/internal/i18n"
	"dictee/internal/models"
)

// ErrIncompleteAnswer is returned when the number of letters supplied does
// not match the number of blanks
var ErrIncompleteAnswer = errors.New("letter count does not match blanks")

// ErrLetterNotOffered is returned when an answer uses a letter the bank
// does not hold, or uses one more often than the bank offers it
var ErrLetterNotOffered = errors.New("letter not in the letter bank")

const minLetterBank = 3

// PuzzleGenerator builds missing-letter puzzles
type PuzzleGenerator struct {
	rng RandomSource
}

// NewPuzzleGenerator creates a generator drawing randomness from rng
func NewPuzzleGenerator(rng RandomSource) *PuzzleGenerator {
	return &PuzzleGenerator{rng: rng}
}

// BlankCount is the number of letters hidden for a word: two for words
// longer than four letters, otherwise one
func BlankCount(word string) int {
	if utf8.RuneCountInString(word) > 4 {
		return 2
	}
	return 1
}

// Generate hides up to count interior letters of word. Letter clusters
// from the locale's pattern list are targeted first (middle letter of the
// first interior occurrence of each pattern, in list order); remaining
// blanks are random interior positions. Short words yield fewer blanks.
func (g *PuzzleGenerator) Generate(word string, count int, locale i18n.Locale) models.MissingLetterPuzzle {
	letters := []rune(word)
	n := len(letters)

	lower := make([]rune, n)
	for i, r := range letters {
		lower[i] = unicode.ToLower(r)
	}

	selected := make(map[int]bool)
	var indices []int
	pick := func(i int) {
		selected[i] = true
		indices = append(indices, i)
	}

	if count > 0 {
		for _, pattern := range locale.Patterns() {
			if len(indices) >= count {
				break
			}
			p := []rune(pattern)
			start := indexRunes(lower, p)
			// interior only: not at the first letter, ends before the last
			if start <= 0 || start+len(p) > n-1 {
				continue
			}
			if i := start + len(p)/2; !selected[i] {
				pick(i)
			}
		}

		for len(indices) < count && n > 2 {
			var available []int
			for i := 1; i < n-1; i++ {
				if !selected[i] {
					available = append(available, i)
				}
			}
			if len(available) == 0 {
				break
			}
			pick(available[g.rng.Intn(len(available))])
		}
	}

	sort.Ints(indices)

	display := make([]rune, n)
	copy(display, letters)
	missing := make([]string, len(indices))
	for k, i := range indices {
		missing[k] = string(letters[i])
		display[i] = models.BlankMarker
	}
	if indices == nil {
		indices = []int{}
	}

	return models.MissingLetterPuzzle{
		DisplayWord:    string(display),
		MissingIndices: indices,
		MissingLetters: missing,
	}
}

// LetterBank returns the hidden letters padded with distinct distractors
// from the locale's frequency list up to at least three letters, shuffled
func (g *PuzzleGenerator) LetterBank(p models.MissingLetterPuzzle, locale i18n.Locale) []string {
	bank := make([]string, len(p.MissingLetters), max(len(p.MissingLetters), minLetterBank))
	copy(bank, p.MissingLetters)

	if needed := minLetterBank - len(bank); needed > 0 {
		used := make(map[string]bool, len(bank))
		for _, l := range bank {
			used[strings.ToLower(l)] = true
		}
		var pool []string
		for _, d := range locale.DistractorLetters() {
			if !used[d] {
				pool = append(pool, d)
			}
		}
		shuffle(g.rng, pool)
		bank = append(bank, pool[:min(needed, len(pool))]...)
	}

	shuffle(g.rng, bank)
	return bank
}

// CheckLetterBank reports whether letters can be drawn from bank, each bank
// entry used at most once. Letters match case-insensitively.
func CheckLetterBank(bank, letters []string) error {
	available := make(map[string]int, len(bank))
	for _, l := range bank {
		available[Normalize(l)]++
	}
	for _, l := range letters {
		key := Normalize(l)
		if available[key] == 0 {
			return fmt.Errorf("%w: %q", ErrLetterNotOffered, l)
		}
		available[key]--
	}
	return nil
}

// FillPuzzle rebuilds the word with letters placed into the blanks in order
func FillPuzzle(p models.MissingLetterPuzzle, letters []string) (string, error) {
	if len(letters) != len(p.MissingIndices) {
		return "", fmt.Errorf("%w: got %d, want %d", ErrIncompleteAnswer, len(letters), len(p.MissingIndices))
	}

	display := []rune(p.DisplayWord)
	var b strings.Builder
	next := 0
	for i, r := range display {
		if next < len(p.MissingIndices) && p.MissingIndices[next] == i {
			b.WriteString(letters[next])
			next++
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}

func indexRunes(s, sub []rune) int {
	if len(sub) == 0 {
		return -1
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
