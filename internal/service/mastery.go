package service

import (
	"context"
	"fmt"
	"time"

	"dictee/internal/models"
)

// DefaultMasteryThreshold is the correct streak that marks a word mastered
const DefaultMasteryThreshold = 3

// ProgressStore persists the whole progress map
type ProgressStore interface {
	Load(ctx context.Context) (models.ProgressMap, error)
	Save(ctx context.Context, progress models.ProgressMap) error
	Clear(ctx context.Context) error
}

// ApplyAttempt returns the progress after one attempt. A nil prev starts
// from zero counters. Mastery only ever turns on: a wrong answer resets
// the streak but leaves Mastered untouched.
func ApplyAttempt(prev *models.WordProgress, wordID string, correct bool, now time.Time, threshold int) models.WordProgress {
	if threshold <= 0 {
		threshold = DefaultMasteryThreshold
	}

	next := models.WordProgress{WordID: wordID}
	if prev != nil {
		next = *prev
		next.WordID = wordID
	}

	next.TotalAttempts++
	if correct {
		next.TotalCorrect++
		next.CorrectStreak++
	} else {
		next.CorrectStreak = 0
	}
	next.LastPracticed = now

	if next.CorrectStreak >= threshold {
		next.Mastered = true
	}
	return next
}

// MasteryEngine records attempts and writes them through to the store
type MasteryEngine struct {
	store     ProgressStore
	threshold int
	now       func() time.Time
}

// NewMasteryEngine creates an engine; threshold <= 0 selects the default
func NewMasteryEngine(store ProgressStore, threshold int) *MasteryEngine {
	if threshold <= 0 {
		threshold = DefaultMasteryThreshold
	}
	return &MasteryEngine{store: store, threshold: threshold, now: time.Now}
}

// RecordAttempt applies one attempt and saves the full map before returning
func (e *MasteryEngine) RecordAttempt(ctx context.Context, wordID string, correct bool) (models.WordProgress, error) {
	progress, err := e.store.Load(ctx)
	if err != nil {
		return models.WordProgress{}, fmt.Errorf("failed to load progress: %w", err)
	}

	var prev *models.WordProgress
	if p, ok := progress[wordID]; ok {
		prev = &p
	}
	next := ApplyAttempt(prev, wordID, correct, e.now(), e.threshold)
	progress[wordID] = next

	if err := e.store.Save(ctx, progress); err != nil {
		return models.WordProgress{}, fmt.Errorf("failed to save progress: %w", err)
	}
	return next, nil
}

// Progress returns the current snapshot
func (e *MasteryEngine) Progress(ctx context.Context) (models.ProgressMap, error) {
	return e.store.Load(ctx)
}

// Reset wipes all progress
func (e *MasteryEngine) Reset(ctx context.Context) error {
	return e.store.Clear(ctx)
}

// MasteredCount counts catalog words marked mastered
func MasteredCount(words []models.Word, progress models.ProgressMap) int {
	n := 0
	for _, w := range words {
		if progress[w.ID].Mastered {
			n++
		}
	}
	return n
}
