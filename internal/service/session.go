package service

import (
	"errors"
	"math"

	"dictee/internal/i18n"
	"dictee/internal/models"
)

var (
	// ErrSessionComplete is returned when advancing a finished session
	ErrSessionComplete = errors.New("session already complete")
	// ErrStaleAnswer is returned when the answered word is not the current one
	ErrStaleAnswer = errors.New("answer does not match the current word")
)

const greatJobPercentage = 70

// NewSession starts a session over words in the given order
func NewSession(mode models.GameMode, words []models.Word) models.Session {
	w := make([]models.Word, len(words))
	copy(w, words)
	return models.Session{
		Mode:      mode,
		Words:     w,
		Completed: len(w) == 0,
		Results:   []models.WordResult{},
	}
}

// Advance records the outcome for the current word and moves to the next.
// The input is never modified; on error it is returned as is.
func Advance(s models.Session, word models.Word, correct bool) (models.Session, error) {
	current, ok := s.CurrentWord()
	if !ok {
		return s, ErrSessionComplete
	}
	if current.ID != word.ID {
		return s, ErrStaleAnswer
	}

	next := s
	next.Results = make([]models.WordResult, len(s.Results), len(s.Results)+1)
	copy(next.Results, s.Results)
	next.Results = append(next.Results, models.WordResult{WordID: word.ID, Correct: correct, Attempts: 1})

	if correct {
		next.Stars++
	}
	next.CurrentIndex++
	next.Completed = next.CurrentIndex >= len(next.Words)
	return next, nil
}

// Headline is the summary tier shown at the end of a session
type Headline string

const (
	HeadlinePerfect   Headline = "perfect"
	HeadlineGreatJob  Headline = "great-job"
	HeadlineKeepGoing Headline = "keep-going"
)

// ResultRow is one line of the end-of-session review
type ResultRow struct {
	WordID  string `json:"wordId"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Summary is the end-of-session score
type Summary struct {
	Stars        int         `json:"stars"`
	Total        int         `json:"total"`
	Percentage   int         `json:"percentage"`
	Perfect      bool        `json:"perfect"`
	Headline     Headline    `json:"headline"`
	HeadlineText string      `json:"headlineText"`
	Results      []ResultRow `json:"results"`
}

// Summarize scores a session for display in the given locale
func Summarize(s models.Session, locale i18n.Locale) Summary {
	total := len(s.Words)
	percentage := 0
	if total > 0 {
		percentage = int(math.Round(float64(s.Stars) / float64(total) * 100))
	}

	strs := locale.Strings()
	sum := Summary{
		Stars:      s.Stars,
		Total:      total,
		Percentage: percentage,
		Perfect:    total > 0 && s.Stars == total,
		Results:    make([]ResultRow, 0, len(s.Results)),
	}
	switch {
	case sum.Perfect:
		sum.Headline, sum.HeadlineText = HeadlinePerfect, strs.Perfect
	case percentage >= greatJobPercentage:
		sum.Headline, sum.HeadlineText = HeadlineGreatJob, strs.GreatJob
	default:
		sum.Headline, sum.HeadlineText = HeadlineKeepGoing, strs.KeepGoing
	}

	texts := make(map[string]string, len(s.Words))
	for _, w := range s.Words {
		texts[w.ID] = w.Text
	}
	for _, r := range s.Results {
		sum.Results = append(sum.Results, ResultRow{WordID: r.WordID, Text: texts[r.WordID], Correct: r.Correct})
	}
	return sum
}
