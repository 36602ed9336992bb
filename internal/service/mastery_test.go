package service

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"dictee/internal/models"
)

func TestApplyAttempt(t *testing.T) {
	now := time.Date(2026, 10, 12, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		prev     *models.WordProgress
		correct  bool
		expected models.WordProgress
	}{
		{
			name:     "first correct attempt",
			prev:     nil,
			correct:  true,
			expected: models.WordProgress{WordID: "chat", CorrectStreak: 1, TotalAttempts: 1, TotalCorrect: 1, LastPracticed: now},
		},
		{
			name:     "first wrong attempt",
			prev:     nil,
			correct:  false,
			expected: models.WordProgress{WordID: "chat", TotalAttempts: 1, LastPracticed: now},
		},
		{
			name:     "third correct in a row masters",
			prev:     &models.WordProgress{WordID: "chat", CorrectStreak: 2, TotalAttempts: 4, TotalCorrect: 2},
			correct:  true,
			expected: models.WordProgress{WordID: "chat", CorrectStreak: 3, TotalAttempts: 5, TotalCorrect: 3, LastPracticed: now, Mastered: true},
		},
		{
			name:     "wrong answer resets streak but keeps mastery",
			prev:     &models.WordProgress{WordID: "chat", CorrectStreak: 5, TotalAttempts: 5, TotalCorrect: 5, Mastered: true},
			correct:  false,
			expected: models.WordProgress{WordID: "chat", CorrectStreak: 0, TotalAttempts: 6, TotalCorrect: 5, LastPracticed: now, Mastered: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyAttempt(tt.prev, "chat", tt.correct, now, DefaultMasteryThreshold)
			if got != tt.expected {
				t.Errorf("ApplyAttempt() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestApplyAttemptMasteryRatchet(t *testing.T) {
	var p *models.WordProgress
	now := time.Now()
	for _, correct := range []bool{true, true, true, false} {
		next := ApplyAttempt(p, "bateau", correct, now, 3)
		p = &next
	}
	if !p.Mastered {
		t.Fatal("mastered must stay true after a wrong answer")
	}
	if p.CorrectStreak != 0 {
		t.Errorf("CorrectStreak = %d, want 0", p.CorrectStreak)
	}
}

func TestApplyAttemptCorrectNeverExceedsAttempts(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for run := 0; run < 50; run++ {
		var p *models.WordProgress
		wasMastered := false
		for i := 0; i < 30; i++ {
			next := ApplyAttempt(p, "w", rng.Intn(2) == 0, time.Now(), 3)
			p = &next
			if p.TotalCorrect > p.TotalAttempts {
				t.Fatalf("run %d: totalCorrect %d > totalAttempts %d", run, p.TotalCorrect, p.TotalAttempts)
			}
			if wasMastered && !p.Mastered {
				t.Fatalf("run %d: word un-mastered", run)
			}
			wasMastered = p.Mastered
		}
	}
}

func TestApplyAttemptDefaultThreshold(t *testing.T) {
	p := models.WordProgress{CorrectStreak: 2}
	if got := ApplyAttempt(&p, "w", true, time.Now(), 0); !got.Mastered {
		t.Error("threshold 0 should fall back to the default of 3")
	}
}

func TestMasteryEngineWritesThrough(t *testing.T) {
	store := newMemStore()
	engine := NewMasteryEngine(store, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := engine.RecordAttempt(ctx, "maison", true); err != nil {
			t.Fatalf("RecordAttempt: %v", err)
		}
		stored, ok := store.get("maison")
		if !ok || stored.TotalAttempts != i+1 {
			t.Fatalf("attempt %d not visible in the store: %+v", i+1, stored)
		}
	}
	if p, _ := store.get("maison"); !p.Mastered {
		t.Error("expected maison to be mastered")
	}

	store.failSave = true
	if _, err := engine.RecordAttempt(ctx, "maison", false); err == nil {
		t.Error("expected save failure to be returned")
	}
}

func TestMasteredCount(t *testing.T) {
	words := makeWords("a", "b", "c")
	progress := models.ProgressMap{
		"a": {Mastered: true},
		"b": {Mastered: false},
		"z": {Mastered: true},
	}
	if got := MasteredCount(words, progress); got != 1 {
		t.Errorf("MasteredCount() = %d, want 1", got)
	}
}
