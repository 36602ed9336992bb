package scheduler

import (
	"testing"
	"time"

	"dictee/internal/logger"
)

type fakeGames struct {
	ttl   time.Duration
	calls int
}

func (f *fakeGames) EvictIdle(ttl time.Duration) int {
	f.ttl = ttl
	f.calls++
	return 2
}

type fakeCatalog struct{ refreshed int }

func (f *fakeCatalog) Refresh() { f.refreshed++ }

type fakeVisitors struct{ cleaned int }

func (f *fakeVisitors) Cleanup() int {
	f.cleaned++
	return 0
}

func TestJobs(t *testing.T) {
	games, catalog, visitors := &fakeGames{}, &fakeCatalog{}, &fakeVisitors{}
	s := New(games, catalog, visitors, 2*time.Hour, time.Hour, logger.NewNop())

	s.evictIdleGames()
	s.refreshCatalog()
	s.cleanupVisitors()

	if games.calls != 1 || games.ttl != 2*time.Hour {
		t.Errorf("eviction called %d times with ttl %v", games.calls, games.ttl)
	}
	if catalog.refreshed != 1 {
		t.Errorf("catalog refreshed %d times", catalog.refreshed)
	}
	if visitors.cleaned != 1 {
		t.Errorf("visitors cleaned %d times", visitors.cleaned)
	}
}

func TestStartRegistersEnabledJobs(t *testing.T) {
	tests := []struct {
		name     string
		s        *Scheduler
		expected int
	}{
		{"all jobs", New(&fakeGames{}, &fakeCatalog{}, &fakeVisitors{}, time.Hour, time.Hour, logger.NewNop()), 3},
		{"refresh disabled", New(&fakeGames{}, &fakeCatalog{}, nil, time.Hour, 0, logger.NewNop()), 1},
		{"nothing to do", New(nil, nil, nil, 0, 0, logger.NewNop()), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.s.Start(); err != nil {
				t.Fatalf("Start: %v", err)
			}
			defer tt.s.Stop()
			if got := tt.s.scheduler.Len(); got != tt.expected {
				t.Errorf("jobs = %d, want %d", got, tt.expected)
			}
		})
	}
}
