package service

import "dictee/internal/models"

const audioMatchDistractors = 2

// AudioMatchOptions returns the word's text plus up to two distinct other
// texts from pool, shuffled
func AudioMatchOptions(word models.Word, pool []models.Word, rng RandomSource) []string {
	seen := map[string]bool{word.Text: true}
	var others []string
	for _, w := range pool {
		if !seen[w.Text] {
			seen[w.Text] = true
			others = append(others, w.Text)
		}
	}
	shuffle(rng, others)

	options := append([]string{word.Text}, others[:min(audioMatchDistractors, len(others))]...)
	shuffle(rng, options)
	return options
}
