package scheduler

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"dictee/internal/logger"
)

const (
	evictionInterval = 5 * time.Minute
	cleanupInterval  = time.Hour
)

// GameEvicter drops games idle for longer than ttl
type GameEvicter interface {
	EvictIdle(ttl time.Duration) int
}

// CatalogRefresher drops cached catalogs
type CatalogRefresher interface {
	Refresh()
}

// VisitorCleaner drops stale rate limiter buckets
type VisitorCleaner interface {
	Cleanup() int
}

// Scheduler manages the server's periodic maintenance jobs
type Scheduler struct {
	scheduler      *gocron.Scheduler
	games          GameEvicter
	catalog        CatalogRefresher
	visitors       VisitorCleaner
	idleTTL        time.Duration
	catalogRefresh time.Duration
	log            *logger.Logger
}

// New creates a scheduler. A nil dependency disables its job.
func New(games GameEvicter, catalog CatalogRefresher, visitors VisitorCleaner, idleTTL, catalogRefresh time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		scheduler:      gocron.NewScheduler(time.UTC),
		games:          games,
		catalog:        catalog,
		visitors:       visitors,
		idleTTL:        idleTTL,
		catalogRefresh: catalogRefresh,
		log:            log,
	}
}

// Start registers the jobs and runs them in the background
func (s *Scheduler) Start() error {
	if s.games != nil && s.idleTTL > 0 {
		if _, err := s.scheduler.Every(evictionInterval).Do(s.evictIdleGames); err != nil {
			return fmt.Errorf("failed to schedule game eviction: %w", err)
		}
	}
	if s.catalog != nil && s.catalogRefresh > 0 {
		if _, err := s.scheduler.Every(s.catalogRefresh).Do(s.refreshCatalog); err != nil {
			return fmt.Errorf("failed to schedule catalog refresh: %w", err)
		}
	}
	if s.visitors != nil {
		if _, err := s.scheduler.Every(cleanupInterval).Do(s.cleanupVisitors); err != nil {
			return fmt.Errorf("failed to schedule rate limiter cleanup: %w", err)
		}
	}

	s.scheduler.StartAsync()
	s.log.Info("scheduler started", "jobs", s.scheduler.Len())
	return nil
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) evictIdleGames() {
	if n := s.games.EvictIdle(s.idleTTL); n > 0 {
		s.log.Info("evicted idle games", "count", n)
	}
}

func (s *Scheduler) refreshCatalog() {
	s.catalog.Refresh()
	s.log.Debug("catalog cache cleared")
}

func (s *Scheduler) cleanupVisitors() {
	if n := s.visitors.Cleanup(); n > 0 {
		s.log.Debug("removed stale rate limit entries", "count", n)
	}
}
