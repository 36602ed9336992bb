package models

import (
	"encoding/json"
	"time"
)

// WordProgress holds the practice statistics for a single word
type WordProgress struct {
	WordID        string    `json:"wordId"`
	CorrectStreak int       `json:"correctStreak"`
	TotalAttempts int       `json:"totalAttempts"`
	TotalCorrect  int       `json:"totalCorrect"`
	LastPracticed time.Time `json:"-"`
	Mastered      bool      `json:"mastered"`
}

// ProgressMap is the persisted mapping from word ID to progress
type ProgressMap map[string]WordProgress

// wordProgressJSON stores LastPracticed as Unix milliseconds, the format
// used by the browser build's local storage blob.
type wordProgressJSON struct {
	WordID        string `json:"wordId"`
	CorrectStreak int    `json:"correctStreak"`
	TotalAttempts int    `json:"totalAttempts"`
	TotalCorrect  int    `json:"totalCorrect"`
	LastPracticed int64  `json:"lastPracticed"`
	Mastered      bool   `json:"mastered"`
}

func (p WordProgress) MarshalJSON() ([]byte, error) {
	var millis int64
	if !p.LastPracticed.IsZero() {
		millis = p.LastPracticed.UnixMilli()
	}
	return json.Marshal(wordProgressJSON{
		WordID:        p.WordID,
		CorrectStreak: p.CorrectStreak,
		TotalAttempts: p.TotalAttempts,
		TotalCorrect:  p.TotalCorrect,
		LastPracticed: millis,
		Mastered:      p.Mastered,
	})
}

func (p *WordProgress) UnmarshalJSON(data []byte) error {
	var raw wordProgressJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = WordProgress{
		WordID:        raw.WordID,
		CorrectStreak: raw.CorrectStreak,
		TotalAttempts: raw.TotalAttempts,
		TotalCorrect:  raw.TotalCorrect,
		Mastered:      raw.Mastered,
	}
	if raw.LastPracticed > 0 {
		p.LastPracticed = time.UnixMilli(raw.LastPracticed)
	}
	return nil
}

// Accuracy returns the share of correct attempts as a percentage
func (p WordProgress) Accuracy() float64 {
	if p.TotalAttempts == 0 {
		return 0
	}
	return float64(p.TotalCorrect) / float64(p.TotalAttempts) * 100
}
