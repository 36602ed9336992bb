package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"dictee/internal/models"
)

// scriptedSource replays values, reduced modulo n
type scriptedSource struct {
	values []int
	next   int
}

func (s *scriptedSource) Intn(n int) int {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

type memStore struct {
	mu       sync.Mutex
	data     models.ProgressMap
	saves    int
	failSave bool
	// onSave runs once, before the next Save writes
	onSave func()
}

func newMemStore() *memStore {
	return &memStore{data: models.ProgressMap{}}
}

func (m *memStore) Load(context.Context) (models.ProgressMap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(models.ProgressMap, len(m.data))
	for k, v := range m.data {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Save(_ context.Context, p models.ProgressMap) error {
	m.mu.Lock()
	hook := m.onSave
	m.onSave = nil
	m.mu.Unlock()
	if hook != nil {
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave {
		return errors.New("disk full")
	}
	m.saves++
	m.data = make(models.ProgressMap, len(p))
	for k, v := range p {
		m.data[k] = v
	}
	return nil
}

func (m *memStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = models.ProgressMap{}
	return nil
}

func (m *memStore) get(id string) (models.WordProgress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[id]
	return p, ok
}

type fakeTimer struct {
	f       func()
	delay   time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeClock records scheduled callbacks so tests can fire them on demand,
// including after they were stopped
type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{f: f, delay: d}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) last() *fakeTimer {
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}

func makeWords(texts ...string) []models.Word {
	words := make([]models.Word, len(texts))
	for i, t := range texts {
		words[i] = models.Word{ID: t, Text: t}
	}
	return words
}
