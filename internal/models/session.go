package models

import (
	"fmt"
	"strings"
)

// GameMode identifies one of the four challenge types
type GameMode string

const (
	ModeAudioMatch     GameMode = "audio-match"
	ModeLettresPerdues GameMode = "lettres-perdues"
	ModeDicteeFantome  GameMode = "dictee-fantome"
	ModeExploration    GameMode = "exploration"
)

// GameModes lists the modes in menu order
var GameModes = []GameMode{ModeExploration, ModeAudioMatch, ModeLettresPerdues, ModeDicteeFantome}

// Valid reports whether m is a known mode
func (m GameMode) Valid() bool {
	switch m {
	case ModeAudioMatch, ModeLettresPerdues, ModeDicteeFantome, ModeExploration:
		return true
	}
	return false
}

// ParseGameMode converts a request value into a GameMode
func ParseGameMode(s string) (GameMode, error) {
	m := GameMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown game mode %q", s)
	}
	return m, nil
}

// Session represents one playthrough of a fixed word sequence in one mode
type Session struct {
	Mode         GameMode     `json:"mode"`
	Words        []Word       `json:"words"`
	CurrentIndex int          `json:"currentIndex"`
	Stars        int          `json:"stars"`
	Completed    bool         `json:"completed"`
	Results      []WordResult `json:"results"`
}

// WordResult is the outcome recorded for one word of a session
type WordResult struct {
	WordID   string `json:"wordId"`
	Correct  bool   `json:"correct"`
	Attempts int    `json:"attempts"`
}

// CurrentWord returns the word awaiting an answer
func (s *Session) CurrentWord() (Word, bool) {
	if s == nil || s.Completed || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Words) {
		return Word{}, false
	}
	return s.Words[s.CurrentIndex], true
}
