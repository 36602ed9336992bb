package models

import "time"

// Word is one entry of a practice period's catalog
type Word struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	Sentence      string `json:"sentence,omitempty"`
	AudioWord     string `json:"audioWord,omitempty"`     // Path or URL of the word recording
	AudioSentence string `json:"audioSentence,omitempty"` // Path or URL of the sentence recording
	Image         string `json:"image,omitempty"`
}

// WordManifest is the structured catalog format (manifest.json)
type WordManifest struct {
	GeneratedAt string `json:"generatedAt"`
	Words       []Word `json:"words"`
}

// Period is a dated practice span with its own catalog
type Period struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Sounds   string    `json:"sounds,omitempty"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Catalog  string    `json:"catalog"`
	Language string    `json:"language"`
}

// WordIDs returns the identifiers of words in order
func WordIDs(words []Word) []string {
	ids := make([]string, len(words))
	for i, w := range words {
		ids[i] = w.ID
	}
	return ids
}
