package service

import (
	"context"
	"fmt"
	"sort"

	"dictee/internal/models"
)

// Selector picks the words for one session from a catalog
type Selector struct {
	store ProgressStore
	rng   RandomSource
}

// NewSelector creates a selector reading progress from store
func NewSelector(store ProgressStore, rng RandomSource) *Selector {
	return &Selector{store: store, rng: rng}
}

// SelectPracticeWords loads a progress snapshot and selects from catalog
func (s *Selector) SelectPracticeWords(ctx context.Context, catalog []models.Word, poolSize int) ([]models.Word, error) {
	progress, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return SelectPracticeWords(catalog, progress, poolSize, s.rng), nil
}

// SelectPracticeWords returns min(poolSize, len(catalog)) words. Words not
// yet mastered come first in random order; mastered words fill the rest,
// least recently practiced first.
func SelectPracticeWords(catalog []models.Word, progress models.ProgressMap, poolSize int, rng RandomSource) []models.Word {
	if len(catalog) == 0 || poolSize <= 0 {
		return []models.Word{}
	}

	var fresh, mastered []models.Word
	for _, w := range catalog {
		if progress[w.ID].Mastered {
			mastered = append(mastered, w)
		} else {
			fresh = append(fresh, w)
		}
	}

	size := min(poolSize, len(catalog))
	selected := make([]models.Word, 0, size)

	shuffle(rng, fresh)
	selected = append(selected, fresh[:min(len(fresh), size)]...)
	if len(selected) == size {
		return selected
	}

	// Shuffle before the stable sort so equal timestamps break randomly
	shuffle(rng, mastered)
	sort.SliceStable(mastered, func(i, j int) bool {
		return progress[mastered[i].ID].LastPracticed.Before(progress[mastered[j].ID].LastPracticed)
	})
	return append(selected, mastered[:size-len(selected)]...)
}
