package service

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource supplies the randomness used for shuffles and puzzle fill.
// Tests substitute a scripted source to get exact outputs.
type RandomSource interface {
	// Intn returns a value in [0, n); n is always positive
	Intn(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a goroutine-safe source seeded with seed. A zero
// seed uses the current time.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// shuffle permutes items in place (Fisher-Yates)
func shuffle[T any](rng RandomSource, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
